package service

import (
	"context"
	"errors"

	"github.com/AlibekovAA/auth-service/internal/common/clock"
	commoncrypto "github.com/AlibekovAA/auth-service/internal/common/crypto"
	userdomain "github.com/AlibekovAA/auth-service/internal/user/domain"
	userrepo "github.com/AlibekovAA/auth-service/internal/user/repository"
)

// CredentialStore owns user records and their password hashes. Every method
// takes the repository of the caller's unit of work; the store keeps no
// state of its own between calls.
type CredentialStore struct {
	hasher      commoncrypto.PasswordHasher
	idGenerator commoncrypto.IDGenerator
	clock       clock.Clock
}

func NewCredentialStore(hasher commoncrypto.PasswordHasher, idGenerator commoncrypto.IDGenerator, clock clock.Clock) *CredentialStore {
	return &CredentialStore{
		hasher:      hasher,
		idGenerator: idGenerator,
		clock:       clock,
	}
}

func (s *CredentialStore) FindByEmail(ctx context.Context, users userrepo.Repository, email string) (userdomain.User, bool, error) {
	user, err := users.FindByEmail(ctx, userdomain.NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, userrepo.ErrUserNotFound) {
			return userdomain.User{}, false, nil
		}
		return userdomain.User{}, false, storageError(err)
	}
	return user, true, nil
}

// Create hashes password and inserts a new user. The lookup beforehand only
// spares a bcrypt round for known duplicates; the unique constraint in the
// store decides races.
func (s *CredentialStore) Create(ctx context.Context, users userrepo.Repository, email, username, password string) (userdomain.User, error) {
	email = userdomain.NormalizeEmail(email)

	if _, found, err := s.FindByEmail(ctx, users, email); err != nil {
		return userdomain.User{}, err
	} else if found {
		return userdomain.User{}, ErrEmailTaken
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return userdomain.User{}, newInternalError("failed to hash password", err)
	}

	id, err := s.idGenerator.NewID()
	if err != nil {
		return userdomain.User{}, newInternalError("failed to generate user id", err)
	}

	now := s.clock.Now()
	created, err := users.Create(ctx, userdomain.User{
		ID:           userdomain.ID(id),
		Email:        email,
		Username:     username,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		if errors.Is(err, userrepo.ErrEmailAlreadyExists) {
			return userdomain.User{}, ErrEmailTaken
		}
		return userdomain.User{}, storageError(err)
	}

	return created, nil
}

func (s *CredentialStore) Update(ctx context.Context, users userrepo.Repository, user userdomain.User, newUsername string) (userdomain.User, error) {
	updated, err := users.UpdateUsername(ctx, user.ID, newUsername, s.clock.Now())
	if err != nil {
		if errors.Is(err, userrepo.ErrUserNotFound) {
			return userdomain.User{}, ErrUnknownSubject
		}
		return userdomain.User{}, storageError(err)
	}
	return updated, nil
}
