package service

import (
	"context"

	"github.com/AlibekovAA/auth-service/internal/common/jwtverify"
	userdomain "github.com/AlibekovAA/auth-service/internal/user/domain"
	userrepo "github.com/AlibekovAA/auth-service/internal/user/repository"
)

type CurrentUserResolver struct {
	verifier *jwtverify.Verifier
	store    *CredentialStore
}

func NewCurrentUserResolver(verifier *jwtverify.Verifier, store *CredentialStore) *CurrentUserResolver {
	return &CurrentUserResolver{
		verifier: verifier,
		store:    store,
	}
}

// Resolve verifies token and re-reads its subject from the store, so the
// result reflects edits made after the token was issued.
func (r *CurrentUserResolver) Resolve(ctx context.Context, users userrepo.Repository, token string) (userdomain.User, error) {
	claims, err := r.verifier.Verify(token)
	if err != nil {
		return userdomain.User{}, err
	}

	user, found, err := r.store.FindByEmail(ctx, users, claims.Subject)
	if err != nil {
		return userdomain.User{}, err
	}
	if !found {
		return userdomain.User{}, ErrUnknownSubject
	}
	return user, nil
}
