package config

import (
	"os"
	"time"
)

// Server captures process-level configuration.
type Server struct {
	Addr            string
	JWTSigningKey   string
	RedisURL        string
	SessionIdleTTL  time.Duration
	CompletionTTL   time.Duration
	TokenIssuerName string
}

// FromEnv builds a Server config from environment variables so main stays lean.
func FromEnv() Server {
	addr := os.Getenv("ONBOARD_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	jwtSigningKey := os.Getenv("JWT_SIGNING_KEY")
	if jwtSigningKey == "" {
		// Use a default for development - should be overridden in production
		jwtSigningKey = "dev-secret-key-change-in-production"
	}

	return Server{
		Addr:            addr,
		JWTSigningKey:   jwtSigningKey,
		RedisURL:        os.Getenv("ONBOARD_REDIS_URL"),
		SessionIdleTTL:  30 * time.Minute,
		CompletionTTL:   time.Hour,
		TokenIssuerName: "onboard-demo",
	}
}
