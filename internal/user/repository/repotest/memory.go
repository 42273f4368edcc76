// Package repotest provides an in-memory user repository for tests.
package repotest

import (
	"context"
	"sync"
	"time"

	userdomain "github.com/AlibekovAA/auth-service/internal/user/domain"
	userrepo "github.com/AlibekovAA/auth-service/internal/user/repository"
)

// Store holds users keyed by email and enforces email uniqueness the way
// the users table does.
type Store struct {
	mu      sync.Mutex
	byEmail map[string]userdomain.User

	// Err, when set, is returned by every repository call.
	Err error
}

func NewStore() *Store {
	return &Store{byEmail: make(map[string]userdomain.User)}
}

func (s *Store) Get(email string) (userdomain.User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.byEmail[email]
	return u, ok
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.byEmail)
}

func (s *Store) Create(_ context.Context, user userdomain.User) (userdomain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return userdomain.User{}, s.Err
	}
	if _, exists := s.byEmail[user.Email]; exists {
		return userdomain.User{}, userrepo.ErrEmailAlreadyExists
	}
	s.byEmail[user.Email] = user
	return user, nil
}

func (s *Store) FindByEmail(_ context.Context, email string) (userdomain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return userdomain.User{}, s.Err
	}
	u, ok := s.byEmail[email]
	if !ok {
		return userdomain.User{}, userrepo.ErrUserNotFound
	}
	return u, nil
}

func (s *Store) UpdateUsername(_ context.Context, id userdomain.ID, username string, updatedAt time.Time) (userdomain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return userdomain.User{}, s.Err
	}
	for email, u := range s.byEmail {
		if u.ID == id {
			u.Username = username
			u.UpdatedAt = updatedAt
			s.byEmail[email] = u
			return u, nil
		}
	}
	return userdomain.User{}, userrepo.ErrUserNotFound
}

// Provider hands the same Store to every unit of work and counts how many
// sessions were opened and closed.
type Provider struct {
	Store *Store

	// AcquireErr, when set, fails WithRepository before fn runs.
	AcquireErr error

	mu       sync.Mutex
	opened   int
	released int
}

func NewProvider(store *Store) *Provider {
	return &Provider{Store: store}
}

func (p *Provider) WithRepository(ctx context.Context, fn func(context.Context, userrepo.Repository) error) error {
	if p.AcquireErr != nil {
		return p.AcquireErr
	}
	p.mu.Lock()
	p.opened++
	p.mu.Unlock()
	defer func() {
		p.mu.Lock()
		p.released++
		p.mu.Unlock()
	}()
	return fn(ctx, p.Store)
}

func (p *Provider) Sessions() (opened, released int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.opened, p.released
}
