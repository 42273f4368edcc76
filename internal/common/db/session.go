package db

import (
	"context"

	"github.com/jackc/pgconn"
	pgx "github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	commonerrors "github.com/AlibekovAA/auth-service/internal/common/errors"
	"github.com/AlibekovAA/auth-service/internal/observability/metrics"
)

// Querier is the subset of a pgx connection used by repositories.
// *pgxpool.Pool, *pgxpool.Conn and pgx.Tx all satisfy it.
type Querier interface {
	Exec(ctx context.Context, sql string, arguments ...interface{}) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
}

// SessionManager hands out one pooled connection per unit of work.
type SessionManager struct {
	pool *pgxpool.Pool
}

func NewSessionManager(pool *pgxpool.Pool) *SessionManager {
	return &SessionManager{pool: pool}
}

// WithSession acquires a connection, runs fn with it and releases the
// connection when fn returns, whatever the outcome.
func (m *SessionManager) WithSession(ctx context.Context, fn func(context.Context, Querier) error) error {
	conn, err := m.pool.Acquire(ctx)
	if err != nil {
		metrics.DBSessionsAcquireFailed.Inc()
		return commonerrors.ErrStorage.WithCause(err)
	}
	defer conn.Release()

	return fn(ctx, conn)
}

func (m *SessionManager) Ping(ctx context.Context) error {
	return m.WithSession(ctx, func(ctx context.Context, q Querier) error {
		_, err := q.Exec(ctx, "SELECT 1")
		return err
	})
}
