package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"

	"github.com/AlibekovAA/auth-service/internal/common/constants"
	commonerrors "github.com/AlibekovAA/auth-service/internal/common/errors"
)

// TokenConfig holds the process-wide signing material. It is built once by
// LoadAuthConfig and shared by pointer between the token issuer and verifier.
type TokenConfig struct {
	Secret []byte
	Issuer string
	TTL    time.Duration
}

type AuthConfig struct {
	HTTPPort           string
	DatabaseURL        string
	RequestTimeout     time.Duration
	BcryptCost         int
	CORSAllowedOrigins []string
	MigrateOnStart     bool
	LogDir             string
	LogLevel           string
	Token              *TokenConfig
}

type rawAuthConfig struct {
	HTTPPort           string        `env:"AUTH_HTTP_PORT"`
	DatabaseURL        string        `env:"DATABASE_URL"`
	JWTSecret          string        `env:"JWT_SECRET"`
	JWTIssuer          string        `env:"JWT_ISSUER"`
	AccessTokenTTL     time.Duration `env:"ACCESS_TOKEN_TTL"`
	RequestTimeout     time.Duration `env:"AUTH_REQUEST_TIMEOUT"`
	BcryptCost         int           `env:"BCRYPT_COST"`
	CORSAllowedOrigins []string      `env:"CORS_ALLOWED_ORIGINS" envSeparator:","`
	MigrateOnStart     bool          `env:"MIGRATE_ON_START"`
	LogDir             string        `env:"LOG_DIR"`
	LogLevel           string        `env:"LOG_LEVEL"`
}

func defaultRawAuthConfig() rawAuthConfig {
	return rawAuthConfig{
		HTTPPort:           constants.DefaultAuthHTTPPort,
		JWTIssuer:          constants.DefaultJWTIssuer,
		AccessTokenTTL:     constants.DefaultAccessTokenTTL,
		RequestTimeout:     constants.DefaultAuthRequestTimeout,
		BcryptCost:         constants.DefaultBcryptCost,
		CORSAllowedOrigins: []string{"http://127.0.0.1:8000", "http://localhost:8000"},
		MigrateOnStart:     true,
		LogLevel:           "info",
	}
}

// LoadAuthConfig reads an optional .env file and then the process
// environment. Variables already set in the environment win over .env.
func LoadAuthConfig() (AuthConfig, error) {
	_ = godotenv.Load()

	raw := defaultRawAuthConfig()
	if err := env.Parse(&raw); err != nil {
		return AuthConfig{}, commonerrors.ErrInvalidConfig.WithCause(err)
	}

	return buildAuthConfig(raw)
}

func buildAuthConfig(raw rawAuthConfig) (AuthConfig, error) {
	if raw.JWTSecret == "" {
		return AuthConfig{}, missingEnv("JWT_SECRET")
	}
	if err := validateJWTSecret(raw.JWTSecret); err != nil {
		return AuthConfig{}, err
	}
	if raw.DatabaseURL == "" {
		return AuthConfig{}, missingEnv("DATABASE_URL")
	}
	if raw.BcryptCost < bcrypt.MinCost || raw.BcryptCost > bcrypt.MaxCost {
		return AuthConfig{}, commonerrors.ErrInvalidConfig.WithCause(
			fmt.Errorf("BCRYPT_COST must be in [%d, %d], got %d", bcrypt.MinCost, bcrypt.MaxCost, raw.BcryptCost),
		)
	}
	if raw.AccessTokenTTL <= 0 {
		return AuthConfig{}, commonerrors.ErrInvalidConfig.WithCause(
			fmt.Errorf("ACCESS_TOKEN_TTL must be positive, got %s", raw.AccessTokenTTL),
		)
	}

	return AuthConfig{
		HTTPPort:           raw.HTTPPort,
		DatabaseURL:        raw.DatabaseURL,
		RequestTimeout:     raw.RequestTimeout,
		BcryptCost:         raw.BcryptCost,
		CORSAllowedOrigins: trimOrigins(raw.CORSAllowedOrigins),
		MigrateOnStart:     raw.MigrateOnStart,
		LogDir:             raw.LogDir,
		LogLevel:           raw.LogLevel,
		Token: &TokenConfig{
			Secret: []byte(raw.JWTSecret),
			Issuer: raw.JWTIssuer,
			TTL:    raw.AccessTokenTTL,
		},
	}, nil
}

func validateJWTSecret(secret string) error {
	if len(secret) < constants.JWTSecretMinLength {
		return commonerrors.ErrInvalidJWTSecret.WithCause(fmt.Errorf("got %d bytes", len(secret)))
	}
	return nil
}

func missingEnv(key string) error {
	return commonerrors.ErrMissingRequiredEnv.WithCause(fmt.Errorf("%s", key))
}

func trimOrigins(origins []string) []string {
	out := make([]string, 0, len(origins))
	for _, o := range origins {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}
