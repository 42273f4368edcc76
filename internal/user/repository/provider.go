package repository

import (
	"context"

	commondb "github.com/AlibekovAA/auth-service/internal/common/db"
)

// Provider scopes a Repository to a single unit of work. The repository
// passed to fn must not be retained after fn returns.
type Provider interface {
	WithRepository(ctx context.Context, fn func(context.Context, Repository) error) error
}

type SessionProvider struct {
	sessions *commondb.SessionManager
}

func NewSessionProvider(sessions *commondb.SessionManager) *SessionProvider {
	return &SessionProvider{sessions: sessions}
}

func (p *SessionProvider) WithRepository(ctx context.Context, fn func(context.Context, Repository) error) error {
	return p.sessions.WithSession(ctx, func(ctx context.Context, q commondb.Querier) error {
		return fn(ctx, NewPgRepository(q))
	})
}
