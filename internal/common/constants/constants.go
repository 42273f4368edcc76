package constants

import "time"

const (
	UsernameMinLength = 1
	UsernameMaxLength = 64
	PasswordMinLength = 1
	PasswordMaxLength = 72
	EmailMaxLength    = 254

	JWTSecretMinLength = 32

	DefaultMaxRequestSize = 1 << 20

	DBPoolMaxConns        = 25
	DBPoolMinConns        = 5
	DBPoolConnMaxLifetime = time.Hour
	DBPoolConnMaxIdleTime = 30 * time.Minute
	DBPoolHealthCheck     = 1 * time.Minute
	DBPoolConnectTimeout  = 5 * time.Second
	DBPoolMaxAttempts     = 10
	DBPoolRetryDelay      = 1 * time.Second
	DBPoolMetricsInterval = 30 * time.Second
	DBMigrationTimeout    = 1 * time.Minute

	ServerReadHeaderTimeout = 10 * time.Second
	ServerReadTimeout       = 30 * time.Second
	ServerWriteTimeout      = 30 * time.Second
	ServerIdleTimeout       = 120 * time.Second

	ShutdownTimeout = 30 * time.Second
	DrainTimeout    = 10 * time.Second

	DefaultAuthHTTPPort       = "8081"
	DefaultAuthRequestTimeout = 5 * time.Second
	DefaultAccessTokenTTL     = 30 * time.Minute
	DefaultJWTIssuer          = "auth_service"
	DefaultBcryptCost         = 12

	TokenTypeBearer = "bearer"

	LoggerFileName    = "app.log"
	LoggerMaxSize     = 100
	LoggerMaxBackups  = 3
	LoggerMaxAge      = 28
	LoggerServiceName = "auth"
)

type TraceIDKeyType string

const TraceIDKey TraceIDKeyType = "trace_id"
