package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/AlibekovAA/auth-service/internal/common/clock"
	"github.com/AlibekovAA/auth-service/internal/common/config"
	"github.com/AlibekovAA/auth-service/internal/common/constants"
	commoncrypto "github.com/AlibekovAA/auth-service/internal/common/crypto"
	"github.com/AlibekovAA/auth-service/internal/common/jwtverify"
	"github.com/AlibekovAA/auth-service/internal/common/logger"
	userdomain "github.com/AlibekovAA/auth-service/internal/user/domain"
	userrepo "github.com/AlibekovAA/auth-service/internal/user/repository"
)

// dummyPassword is hashed once at startup. Logins for unknown emails verify
// against that hash so they cost the same as a wrong password.
const dummyPassword = "dummy-password-for-timing"

type AuthServiceDeps struct {
	Hasher      commoncrypto.PasswordHasher
	IDGenerator commoncrypto.IDGenerator
	Clock       clock.Clock
	Log         *logger.Logger
}

type AuthService struct {
	hasher    commoncrypto.PasswordHasher
	store     *CredentialStore
	issuer    *TokenIssuer
	resolver  *CurrentUserResolver
	log       *logger.Logger
	dummyHash string
}

func NewAuthService(deps AuthServiceDeps, tokens *config.TokenConfig) (*AuthService, error) {
	if deps.Hasher == nil || deps.IDGenerator == nil || deps.Log == nil {
		return nil, errors.New("auth service: hasher, id generator and logger are required")
	}
	if tokens == nil || len(tokens.Secret) == 0 {
		return nil, errors.New("auth service: token config with a signing key is required")
	}
	clk := deps.Clock
	if clk == nil {
		clk = clock.NewRealClock()
	}

	dummyHash, err := deps.Hasher.Hash(dummyPassword)
	if err != nil {
		return nil, fmt.Errorf("auth service: failed to prepare dummy hash: %w", err)
	}

	store := NewCredentialStore(deps.Hasher, deps.IDGenerator, clk)

	return &AuthService{
		hasher:    deps.Hasher,
		store:     store,
		issuer:    NewTokenIssuer(tokens, clk),
		resolver:  NewCurrentUserResolver(jwtverify.NewVerifier(tokens, clk), store),
		log:       deps.Log,
		dummyHash: dummyHash,
	}, nil
}

type RegisterInput struct {
	Email    string
	Username string
	Password string
}

type LoginInput struct {
	Email    string
	Password string
}

type EditProfileInput struct {
	Password string
	Username string
}

type AuthResult struct {
	AccessToken string
	TokenType   string
	User        userdomain.User
}

func (s *AuthService) Register(ctx context.Context, users userrepo.Repository, input RegisterInput) (result AuthResult, err error) {
	defer func() { recordRegistration(outcome(err)) }()

	email := userdomain.NormalizeEmail(input.Email)
	s.log.WithFields(ctx, logger.Fields{
		"email":  email,
		"action": "register_attempt",
	}).Info("register attempt")

	input.Email = email
	if err := validateRegisterInput(input); err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"email":  email,
			"action": "register_validation_failed",
		}).Warnf("register validation failed: %v", err)
		return AuthResult{}, err
	}

	user, err := s.store.Create(ctx, users, email, input.Username, input.Password)
	if err != nil {
		if errors.Is(err, ErrEmailTaken) {
			s.log.WithFields(ctx, logger.Fields{
				"email":  email,
				"action": "register_email_exists",
			}).Warn("register failed: already exists")
			return AuthResult{}, err
		}
		s.log.WithFields(ctx, logger.Fields{
			"email":  email,
			"action": "register_create_failed",
		}).Errorf("register failed: %v", err)
		return AuthResult{}, err
	}

	result, err = s.issueFor(ctx, user, "register")
	if err != nil {
		return AuthResult{}, err
	}

	s.log.WithFields(ctx, logger.Fields{
		"email":   user.Email,
		"user_id": string(user.ID),
		"action":  "register_success",
	}).Info("register success")

	return result, nil
}

func (s *AuthService) Login(ctx context.Context, users userrepo.Repository, input LoginInput) (result AuthResult, err error) {
	defer func() { recordLogin(outcome(err)) }()

	email := userdomain.NormalizeEmail(input.Email)
	s.log.WithFields(ctx, logger.Fields{
		"email":  email,
		"action": "login_attempt",
	}).Info("login attempt")

	user, found, err := s.store.FindByEmail(ctx, users, email)
	if err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"email":  email,
			"action": "login_fetch_failed",
		}).Errorf("login failed: %v", err)
		return AuthResult{}, err
	}

	if !found {
		s.hasher.Verify(s.dummyHash, input.Password)
		s.log.WithFields(ctx, logger.Fields{
			"email":  email,
			"action": "login_user_not_found",
		}).Warn("login failed: not found")
		return AuthResult{}, ErrInvalidCredentials
	}

	if !s.hasher.Verify(user.PasswordHash, input.Password) {
		s.log.WithFields(ctx, logger.Fields{
			"email":   email,
			"user_id": string(user.ID),
			"action":  "login_invalid_password",
		}).Warn("login failed: invalid password")
		return AuthResult{}, ErrInvalidCredentials
	}

	result, err = s.issueFor(ctx, user, "login")
	if err != nil {
		return AuthResult{}, err
	}

	s.log.WithFields(ctx, logger.Fields{
		"email":   user.Email,
		"user_id": string(user.ID),
		"action":  "login_success",
	}).Info("login success")

	return result, nil
}

func (s *AuthService) CurrentUser(ctx context.Context, users userrepo.Repository, token string) (userdomain.User, error) {
	user, err := s.resolver.Resolve(ctx, users, token)
	if err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"action": "current_user_failed",
		}).Warnf("current user lookup failed: %v", err)
		return userdomain.User{}, err
	}
	return user, nil
}

// EditProfile re-verifies the password against the stored hash before any
// write. Tokens issued before the edit stay valid until they expire.
func (s *AuthService) EditProfile(ctx context.Context, users userrepo.Repository, token string, input EditProfileInput) (result AuthResult, err error) {
	defer func() { recordProfileEdit(outcome(err)) }()

	user, err := s.resolver.Resolve(ctx, users, token)
	if err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"action": "edit_profile_unauthorized",
		}).Warnf("edit profile failed: %v", err)
		return AuthResult{}, err
	}

	if err := validateEditProfileInput(input); err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"user_id": string(user.ID),
			"action":  "edit_profile_validation_failed",
		}).Warnf("edit profile validation failed: %v", err)
		return AuthResult{}, err
	}

	if !s.hasher.Verify(user.PasswordHash, input.Password) {
		s.log.WithFields(ctx, logger.Fields{
			"user_id": string(user.ID),
			"action":  "edit_profile_invalid_password",
		}).Warn("edit profile failed: invalid password")
		return AuthResult{}, ErrIncorrectPassword
	}

	updated, err := s.store.Update(ctx, users, user, input.Username)
	if err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"user_id": string(user.ID),
			"action":  "edit_profile_update_failed",
		}).Errorf("edit profile failed: %v", err)
		return AuthResult{}, err
	}

	result, err = s.issueFor(ctx, updated, "edit_profile")
	if err != nil {
		return AuthResult{}, err
	}

	s.log.WithFields(ctx, logger.Fields{
		"user_id": string(updated.ID),
		"action":  "edit_profile_success",
	}).Info("edit profile success")

	return result, nil
}

func (s *AuthService) issueFor(ctx context.Context, user userdomain.User, op string) (AuthResult, error) {
	token, err := s.issuer.Issue(user.Email)
	if err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"user_id": string(user.ID),
			"action":  op + "_token_issue_failed",
		}).Errorf("%s failed: token issue error: %v", op, err)
		return AuthResult{}, newInternalError("failed to issue token", err)
	}

	return AuthResult{
		AccessToken: token,
		TokenType:   constants.TokenTypeBearer,
		User:        user,
	}, nil
}
