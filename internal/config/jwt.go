package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// DefaultTokenIssuer is stamped on API tokens when JWT_ISSUER is unset.
const DefaultTokenIssuer = "jobtracker"

const defaultTokenHours = 24

// JWTConfig holds configuration for API bearer tokens.
type JWTConfig struct {
	Secret          string
	ExpirationHours int
	// Issuer is written to and checked against the iss claim. Empty skips
	// the check.
	Issuer string
}

// TTL is how long an issued token stays valid.
func (c *JWTConfig) TTL() time.Duration {
	return time.Duration(c.ExpirationHours) * time.Hour
}

// NewJWTConfig reads JWT_SECRET (required), JWT_EXPIRATION_HOURS (default 24)
// and JWT_ISSUER (default DefaultTokenIssuer).
func NewJWTConfig() (*JWTConfig, error) {
	cfg := &JWTConfig{
		Secret:          os.Getenv("JWT_SECRET"),
		ExpirationHours: defaultTokenHours,
		Issuer:          DefaultTokenIssuer,
	}
	if cfg.Secret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required but not set")
	}
	if raw := strings.TrimSpace(os.Getenv("JWT_EXPIRATION_HOURS")); raw != "" {
		hours, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid JWT_EXPIRATION_HOURS %q: %w", raw, err)
		}
		if hours < 1 {
			return nil, fmt.Errorf("JWT_EXPIRATION_HOURS must be at least 1 hour, got: %d", hours)
		}
		cfg.ExpirationHours = hours
	}
	if issuer := strings.TrimSpace(os.Getenv("JWT_ISSUER")); issuer != "" {
		cfg.Issuer = issuer
	}
	return cfg, nil
}

// OptionalJWTConfig returns nil, nil when JWT_SECRET is unset, so callers
// can run without bearer auth.
func OptionalJWTConfig() (*JWTConfig, error) {
	if os.Getenv("JWT_SECRET") == "" {
		return nil, nil
	}
	return NewJWTConfig()
}
