package service_test

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/AlibekovAA/auth-service/internal/auth/service"
	"github.com/AlibekovAA/auth-service/internal/common/clock"
	commoncrypto "github.com/AlibekovAA/auth-service/internal/common/crypto"
	commonerrors "github.com/AlibekovAA/auth-service/internal/common/errors"
	"github.com/AlibekovAA/auth-service/internal/common/logger"
	userdomain "github.com/AlibekovAA/auth-service/internal/user/domain"
	userrepo "github.com/AlibekovAA/auth-service/internal/user/repository"
	"github.com/AlibekovAA/auth-service/internal/user/repository/repotest"
)

func register(t *testing.T, env testEnv, email, username, password string) service.AuthResult {
	t.Helper()
	result, err := env.svc.Register(context.Background(), env.store, service.RegisterInput{
		Email:    email,
		Username: username,
		Password: password,
	})
	if err != nil {
		t.Fatalf("register %s: %v", email, err)
	}
	return result
}

func TestAuthService_RegisterLoginCurrentUser(t *testing.T) {
	env := setupAuthService(t)
	ctx := context.Background()

	t1 := register(t, env, "a@x.com", "A", "pw1")
	if t1.AccessToken == "" || t1.TokenType != "bearer" {
		t.Fatalf("unexpected register result %+v", t1)
	}

	env.clock.Advance(time.Second)

	t2, err := env.svc.Login(ctx, env.store, service.LoginInput{Email: "a@x.com", Password: "pw1"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if t2.AccessToken == t1.AccessToken {
		t.Error("tokens issued at different instants should differ")
	}
	if t2.User.ID != t1.User.ID {
		t.Errorf("login resolved to %s, register created %s", t2.User.ID, t1.User.ID)
	}

	user, err := env.svc.CurrentUser(ctx, env.store, t2.AccessToken)
	if err != nil {
		t.Fatalf("current user: %v", err)
	}
	if user.Email != "a@x.com" || user.Username != "A" || user.ID != t1.User.ID {
		t.Errorf("unexpected current user %+v", user)
	}
}

func TestAuthService_DistinctRegistrationsLogin(t *testing.T) {
	env := setupAuthService(t)
	ctx := context.Background()

	accounts := map[string]string{
		"a@x.com": "pw-a",
		"b@x.com": "pw-b",
		"c@y.org": "pw-c",
	}
	created := make(map[string]userdomain.ID)
	for email, pw := range accounts {
		created[email] = register(t, env, email, "user", pw).User.ID
	}

	for email, pw := range accounts {
		result, err := env.svc.Login(ctx, env.store, service.LoginInput{Email: email, Password: pw})
		if err != nil {
			t.Fatalf("login %s: %v", email, err)
		}
		if result.User.ID != created[email] {
			t.Errorf("login %s resolved to %s, want %s", email, result.User.ID, created[email])
		}
	}
}

func TestAuthService_Register_DuplicateEmail(t *testing.T) {
	env := setupAuthService(t)
	first := register(t, env, "a@x.com", "A", "pw1")

	for _, email := range []string{"a@x.com", " A@X.com "} {
		_, err := env.svc.Register(context.Background(), env.store, service.RegisterInput{
			Email:    email,
			Username: "Other",
			Password: "pw2",
		})
		if !errors.Is(err, service.ErrEmailTaken) {
			t.Fatalf("register %q: expected ErrEmailTaken, got %v", email, err)
		}
		if de, _ := commonerrors.AsDomainError(err); de.HTTPStatus() != http.StatusConflict || de.Message() != "User already registered" {
			t.Errorf("unexpected domain error %v", de)
		}
	}

	stored, ok := env.store.Get("a@x.com")
	if !ok {
		t.Fatal("first user missing")
	}
	if stored.ID != first.User.ID || stored.Username != "A" || stored.PasswordHash != "hashed:pw1" {
		t.Errorf("first user changed: %+v", stored)
	}
	if env.store.Len() != 1 {
		t.Errorf("expected 1 user, got %d", env.store.Len())
	}
}

func TestAuthService_Register_ConstraintRace(t *testing.T) {
	env := setupAuthService(t)

	repo := &mockUserRepo{
		createFunc: func(ctx context.Context, user userdomain.User) (userdomain.User, error) {
			return userdomain.User{}, userrepo.ErrEmailAlreadyExists
		},
	}

	_, err := env.svc.Register(context.Background(), repo, service.RegisterInput{
		Email:    "a@x.com",
		Username: "A",
		Password: "pw1",
	})
	if !errors.Is(err, service.ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestAuthService_Register_StorageError(t *testing.T) {
	env := setupAuthService(t)
	env.store.Err = errDBDown

	_, err := env.svc.Register(context.Background(), env.store, service.RegisterInput{
		Email:    "a@x.com",
		Username: "A",
		Password: "pw1",
	})
	if !errors.Is(err, commonerrors.ErrStorage) {
		t.Fatalf("expected ErrStorage, got %v", err)
	}
	if !errors.Is(err, errDBDown) {
		t.Errorf("expected cause to be kept, got %v", err)
	}
}

func TestAuthService_Register_Validation(t *testing.T) {
	env := setupAuthService(t)

	cases := map[string]service.RegisterInput{
		"bad email":     {Email: "not-an-email", Username: "A", Password: "pw"},
		"empty name":    {Email: "a@x.com", Username: "", Password: "pw"},
		"empty pass":    {Email: "a@x.com", Username: "A", Password: ""},
		"long password": {Email: "a@x.com", Username: "A", Password: strings.Repeat("p", 73)},
	}

	for name, input := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := env.svc.Register(context.Background(), env.store, input)
			if !errors.Is(err, service.ErrValidation) {
				t.Fatalf("expected ErrValidation, got %v", err)
			}
		})
	}
	if env.store.Len() != 0 {
		t.Errorf("rejected registrations must not write, got %d users", env.store.Len())
	}
}

func TestAuthService_Register_MultibyteUsername(t *testing.T) {
	env := setupAuthService(t)

	name := strings.Repeat("Ж", 64)
	result := register(t, env, "a@x.com", name, "pw1")
	if result.User.Username != name {
		t.Errorf("expected username kept, got %q", result.User.Username)
	}

	_, err := env.svc.Register(context.Background(), env.store, service.RegisterInput{
		Email:    "b@x.com",
		Username: strings.Repeat("Ж", 65),
		Password: "pw1",
	})
	if !errors.Is(err, service.ErrValidation) {
		t.Fatalf("expected ErrValidation for 65 characters, got %v", err)
	}
	if env.store.Len() != 1 {
		t.Errorf("expected one stored user, got %d", env.store.Len())
	}
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	env := setupAuthService(t)
	register(t, env, "a@x.com", "A", "pw1")

	_, err := env.svc.Login(context.Background(), env.store, service.LoginInput{Email: "a@x.com", Password: "nope"})
	if !errors.Is(err, service.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if de, _ := commonerrors.AsDomainError(err); de.HTTPStatus() != http.StatusBadRequest || de.Message() != "Invalid credentials" {
		t.Errorf("unexpected domain error %v", de)
	}
}

func TestAuthService_Login_UnknownEmailStillVerifies(t *testing.T) {
	env := setupAuthService(t)

	_, err := env.svc.Login(context.Background(), env.store, service.LoginInput{Email: "ghost@x.com", Password: "pw"})
	if !errors.Is(err, service.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}

	calls := env.hasher.verifiedHashes()
	if len(calls) != 1 {
		t.Fatalf("expected one verify against the dummy hash, got %d", len(calls))
	}
}

func TestAuthService_Login_CaseInsensitiveEmail(t *testing.T) {
	env := setupAuthService(t)
	created := register(t, env, "a@x.com", "A", "pw1")

	result, err := env.svc.Login(context.Background(), env.store, service.LoginInput{Email: "A@X.COM", Password: "pw1"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if result.User.ID != created.User.ID {
		t.Errorf("expected %s, got %s", created.User.ID, result.User.ID)
	}
}

func TestAuthService_Login_StorageError(t *testing.T) {
	env := setupAuthService(t)
	env.store.Err = errDBDown

	_, err := env.svc.Login(context.Background(), env.store, service.LoginInput{Email: "a@x.com", Password: "pw"})
	if !errors.Is(err, commonerrors.ErrStorage) {
		t.Fatalf("expected ErrStorage, got %v", err)
	}
}

func TestAuthService_CurrentUser_ReflectsEdits(t *testing.T) {
	env := setupAuthService(t)
	ctx := context.Background()
	t1 := register(t, env, "a@x.com", "A", "pw1")

	env.clock.Advance(time.Second)
	edited, err := env.svc.EditProfile(ctx, env.store, t1.AccessToken, service.EditProfileInput{Password: "pw1", Username: "B"})
	if err != nil {
		t.Fatalf("edit profile: %v", err)
	}
	if edited.User.Username != "B" || edited.AccessToken == "" {
		t.Fatalf("unexpected edit result %+v", edited)
	}

	for _, token := range []string{t1.AccessToken, edited.AccessToken} {
		user, err := env.svc.CurrentUser(ctx, env.store, token)
		if err != nil {
			t.Fatalf("current user: %v", err)
		}
		if user.Username != "B" || user.Email != "a@x.com" {
			t.Errorf("expected edited profile, got %+v", user)
		}
	}
}

func TestAuthService_CurrentUser_ExpiredToken(t *testing.T) {
	env := setupAuthService(t)
	t1 := register(t, env, "a@x.com", "A", "pw1")

	env.clock.Advance(env.tokens.TTL + time.Second)

	_, err := env.svc.CurrentUser(context.Background(), env.store, t1.AccessToken)
	if !errors.Is(err, service.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestAuthService_CurrentUser_TamperedToken(t *testing.T) {
	env := setupAuthService(t)
	t1 := register(t, env, "a@x.com", "A", "pw1")

	tampered := t1.AccessToken[:len(t1.AccessToken)-2] + "xx"
	if tampered == t1.AccessToken {
		tampered = t1.AccessToken[:len(t1.AccessToken)-2] + "yy"
	}

	_, err := env.svc.CurrentUser(context.Background(), env.store, tampered)
	if !errors.Is(err, service.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestAuthService_CurrentUser_ForeignKey(t *testing.T) {
	env := setupAuthService(t)
	register(t, env, "a@x.com", "A", "pw1")

	foreign, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "a@x.com",
		Issuer:    "auth_service",
		ExpiresAt: jwt.NewNumericDate(testStart.Add(time.Hour)),
	}).SignedString([]byte("another-secret-another-secret-xx"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	_, err = env.svc.CurrentUser(context.Background(), env.store, foreign)
	if !errors.Is(err, service.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestAuthService_CurrentUser_UnknownSubject(t *testing.T) {
	env := setupAuthService(t)

	token, err := service.NewTokenIssuer(env.tokens, env.clock).Issue("ghost@x.com")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	_, err = env.svc.CurrentUser(context.Background(), env.store, token)
	if !errors.Is(err, service.ErrUnknownSubject) {
		t.Fatalf("expected ErrUnknownSubject, got %v", err)
	}
	if de, _ := commonerrors.AsDomainError(err); de.HTTPStatus() != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", de.HTTPStatus())
	}
}

func TestAuthService_EditProfile_WrongPassword(t *testing.T) {
	env := setupAuthService(t)
	t1 := register(t, env, "a@x.com", "A", "pw1")
	before, _ := env.store.Get("a@x.com")

	_, err := env.svc.EditProfile(context.Background(), env.store, t1.AccessToken, service.EditProfileInput{
		Password: "wrong",
		Username: "B",
	})
	if !errors.Is(err, service.ErrIncorrectPassword) {
		t.Fatalf("expected ErrIncorrectPassword, got %v", err)
	}
	if de, _ := commonerrors.AsDomainError(err); de.Message() != "Password is incorrect" || de.HTTPStatus() != http.StatusBadRequest {
		t.Errorf("unexpected domain error %v", de)
	}

	after, _ := env.store.Get("a@x.com")
	if after != before {
		t.Errorf("user changed after rejected edit: before %+v after %+v", before, after)
	}
}

func TestAuthService_EditProfile_InvalidToken(t *testing.T) {
	env := setupAuthService(t)
	register(t, env, "a@x.com", "A", "pw1")

	_, err := env.svc.EditProfile(context.Background(), env.store, "garbage", service.EditProfileInput{
		Password: "pw1",
		Username: "B",
	})
	if !errors.Is(err, service.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
	if u, _ := env.store.Get("a@x.com"); u.Username != "A" {
		t.Errorf("username changed to %q", u.Username)
	}
}

func TestAuthService_EditProfile_UserVanished(t *testing.T) {
	env := setupAuthService(t)
	t1 := register(t, env, "a@x.com", "A", "pw1")
	stored, _ := env.store.Get("a@x.com")

	repo := &mockUserRepo{
		findByEmailFunc: func(ctx context.Context, email string) (userdomain.User, error) {
			return stored, nil
		},
	}

	_, err := env.svc.EditProfile(context.Background(), repo, t1.AccessToken, service.EditProfileInput{
		Password: "pw1",
		Username: "B",
	})
	if !errors.Is(err, service.ErrUnknownSubject) {
		t.Fatalf("expected ErrUnknownSubject, got %v", err)
	}
}

func TestAuthService_WithBcrypt(t *testing.T) {
	svc, err := service.NewAuthService(service.AuthServiceDeps{
		Hasher:      commoncrypto.NewBcryptHasher(bcrypt.MinCost),
		IDGenerator: commoncrypto.NewUUIDGenerator(),
		Clock:       clock.NewRealClock(),
		Log:         logger.NewWithWriter(&strings.Builder{}, "auth", "error"),
	}, testTokenConfig())
	if err != nil {
		t.Fatalf("new auth service: %v", err)
	}
	store := repotest.NewStore()
	ctx := context.Background()

	created, err := svc.Register(ctx, store, service.RegisterInput{Email: "a@x.com", Username: "A", Password: "pw1"})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	stored, _ := store.Get("a@x.com")
	if stored.PasswordHash == "pw1" || !strings.HasPrefix(stored.PasswordHash, "$2") {
		t.Fatalf("expected bcrypt hash, got %q", stored.PasswordHash)
	}

	if _, err := svc.Login(ctx, store, service.LoginInput{Email: "a@x.com", Password: "pw1"}); err != nil {
		t.Fatalf("login: %v", err)
	}
	if _, err := svc.Login(ctx, store, service.LoginInput{Email: "a@x.com", Password: "pw2"}); !errors.Is(err, service.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}

	user, err := svc.CurrentUser(ctx, store, created.AccessToken)
	if err != nil || user.ID != created.User.ID {
		t.Fatalf("current user: %+v %v", user, err)
	}
}

func TestNewAuthService_RequiresSigningKey(t *testing.T) {
	_, err := service.NewAuthService(service.AuthServiceDeps{
		Hasher:      &mockHasher{},
		IDGenerator: &mockIDGenerator{},
		Log:         logger.NewWithWriter(&strings.Builder{}, "auth", "error"),
	}, nil)
	if err == nil {
		t.Fatal("expected error without token config")
	}
}

func TestNewAuthService_HashFailure(t *testing.T) {
	_, err := service.NewAuthService(service.AuthServiceDeps{
		Hasher:      &mockHasher{hashFunc: func(string) (string, error) { return "", errors.New("no entropy") }},
		IDGenerator: &mockIDGenerator{},
		Log:         logger.NewWithWriter(&strings.Builder{}, "auth", "error"),
	}, testTokenConfig())
	if err == nil {
		t.Fatal("expected error when the dummy hash cannot be built")
	}
}
