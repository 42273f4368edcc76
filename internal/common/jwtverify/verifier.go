package jwtverify

import (
	"errors"

	"github.com/golang-jwt/jwt/v5"

	"github.com/AlibekovAA/auth-service/internal/common/clock"
	"github.com/AlibekovAA/auth-service/internal/common/config"
	commonerrors "github.com/AlibekovAA/auth-service/internal/common/errors"
	"github.com/AlibekovAA/auth-service/internal/observability/metrics"
)

var errMissingSubject = errors.New("missing sub claim")

type Claims struct {
	Subject   string
	Issuer    string
	IssuedAt  int64
	ExpiresAt int64
}

type Verifier struct {
	cfg    *config.TokenConfig
	parser *jwt.Parser
}

func NewVerifier(cfg *config.TokenConfig, clk clock.Clock) *Verifier {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(clk.Now),
		jwt.WithExpirationRequired(),
	}
	if cfg.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(cfg.Issuer))
	}

	return &Verifier{
		cfg:    cfg,
		parser: jwt.NewParser(opts...),
	}
}

// Verify checks signature, algorithm, issuer and expiry. Every failure is
// reported as ErrInvalidToken with the parser error as cause.
func (v *Verifier) Verify(tokenString string) (Claims, error) {
	metrics.JWTValidationsTotal.Inc()

	claims, err := v.parse(tokenString)
	if err != nil {
		metrics.JWTValidationsFailed.Inc()
		return Claims{}, commonerrors.ErrInvalidToken.WithCause(err)
	}
	return claims, nil
}

func (v *Verifier) parse(tokenString string) (Claims, error) {
	var registered jwt.RegisteredClaims
	parsed, err := v.parser.ParseWithClaims(tokenString, &registered, func(token *jwt.Token) (any, error) {
		return v.cfg.Secret, nil
	})
	if err != nil {
		return Claims{}, err
	}
	if !parsed.Valid {
		return Claims{}, errors.New("token is not valid")
	}
	if registered.Subject == "" {
		return Claims{}, errMissingSubject
	}

	claims := Claims{
		Subject: registered.Subject,
		Issuer:  registered.Issuer,
	}
	if registered.IssuedAt != nil {
		claims.IssuedAt = registered.IssuedAt.Unix()
	}
	if registered.ExpiresAt != nil {
		claims.ExpiresAt = registered.ExpiresAt.Unix()
	}
	return claims, nil
}
