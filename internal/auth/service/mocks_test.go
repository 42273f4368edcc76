package service_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/AlibekovAA/auth-service/internal/auth/service"
	"github.com/AlibekovAA/auth-service/internal/common/clock"
	"github.com/AlibekovAA/auth-service/internal/common/config"
	"github.com/AlibekovAA/auth-service/internal/common/logger"
	userdomain "github.com/AlibekovAA/auth-service/internal/user/domain"
	userrepo "github.com/AlibekovAA/auth-service/internal/user/repository"
	"github.com/AlibekovAA/auth-service/internal/user/repository/repotest"
)

const hashPrefix = "hashed:"

type mockHasher struct {
	mu          sync.Mutex
	hashFunc    func(password string) (string, error)
	verifyCalls []string
}

func (m *mockHasher) Hash(password string) (string, error) {
	if m.hashFunc != nil {
		return m.hashFunc(password)
	}
	return hashPrefix + password, nil
}

func (m *mockHasher) Verify(hash string, password string) bool {
	m.mu.Lock()
	m.verifyCalls = append(m.verifyCalls, hash)
	m.mu.Unlock()
	return strings.HasPrefix(hash, hashPrefix) && strings.TrimPrefix(hash, hashPrefix) == password
}

func (m *mockHasher) verifiedHashes() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.verifyCalls...)
}

type mockIDGenerator struct {
	mu   sync.Mutex
	next int
	err  error
}

func (m *mockIDGenerator) NewID() (string, error) {
	if m.err != nil {
		return "", m.err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.next++
	return fmt.Sprintf("user-%d", m.next), nil
}

type mockUserRepo struct {
	createFunc         func(ctx context.Context, user userdomain.User) (userdomain.User, error)
	findByEmailFunc    func(ctx context.Context, email string) (userdomain.User, error)
	updateUsernameFunc func(ctx context.Context, id userdomain.ID, username string, updatedAt time.Time) (userdomain.User, error)
}

func (m *mockUserRepo) Create(ctx context.Context, user userdomain.User) (userdomain.User, error) {
	if m.createFunc != nil {
		return m.createFunc(ctx, user)
	}
	return user, nil
}

func (m *mockUserRepo) FindByEmail(ctx context.Context, email string) (userdomain.User, error) {
	if m.findByEmailFunc != nil {
		return m.findByEmailFunc(ctx, email)
	}
	return userdomain.User{}, userrepo.ErrUserNotFound
}

func (m *mockUserRepo) UpdateUsername(ctx context.Context, id userdomain.ID, username string, updatedAt time.Time) (userdomain.User, error) {
	if m.updateUsernameFunc != nil {
		return m.updateUsernameFunc(ctx, id, username, updatedAt)
	}
	return userdomain.User{}, userrepo.ErrUserNotFound
}

var errDBDown = errors.New("db down")

var testStart = time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)

func testTokenConfig() *config.TokenConfig {
	return &config.TokenConfig{
		Secret: []byte("0123456789abcdef0123456789abcdef"),
		Issuer: "auth_service",
		TTL:    30 * time.Minute,
	}
}

type testEnv struct {
	svc    *service.AuthService
	hasher *mockHasher
	clock  *clock.MockClock
	store  *repotest.Store
	tokens *config.TokenConfig
}

func setupAuthService(t *testing.T) testEnv {
	t.Helper()

	env := testEnv{
		hasher: &mockHasher{},
		clock:  clock.NewMockClock(testStart),
		store:  repotest.NewStore(),
		tokens: testTokenConfig(),
	}

	svc, err := service.NewAuthService(service.AuthServiceDeps{
		Hasher:      env.hasher,
		IDGenerator: &mockIDGenerator{},
		Clock:       env.clock,
		Log:         logger.NewWithWriter(&bytes.Buffer{}, "auth", "error"),
	}, env.tokens)
	if err != nil {
		t.Fatalf("failed to create auth service: %v", err)
	}
	env.svc = svc
	return env
}
