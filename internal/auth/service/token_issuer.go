package service

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/AlibekovAA/auth-service/internal/common/clock"
	"github.com/AlibekovAA/auth-service/internal/common/config"
)

type TokenIssuer struct {
	cfg   *config.TokenConfig
	clock clock.Clock
}

func NewTokenIssuer(cfg *config.TokenConfig, clock clock.Clock) *TokenIssuer {
	return &TokenIssuer{
		cfg:   cfg,
		clock: clock,
	}
}

func (ti *TokenIssuer) Issue(subject string) (string, error) {
	return ti.IssueAt(subject, ti.clock.Now())
}

// IssueAt signs an HS256 token for subject. The token carries no random
// claim, so the same subject, instant and key always yield the same token.
func (ti *TokenIssuer) IssueAt(subject string, now time.Time) (string, error) {
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		Issuer:    ti.cfg.Issuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ti.cfg.TTL)),
	}

	tokenString, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(ti.cfg.Secret)
	if err != nil {
		return "", err
	}

	incrementAccessTokensIssued()
	return tokenString, nil
}
