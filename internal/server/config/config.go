// Package config handles configuration for the server: defaults, optional
// JSON file, environment overlay, and command-line flags, applied in that
// order. The signing secret has no default on purpose; loading fails
// without one and the process must not start.
package config

import (
	"errors"
	"time"
)

// ErrMissingSecret is returned when no signing secret is configured.
var ErrMissingSecret = errors.New("signing secret is required (set AUTHENTICATION_SECRET_KEY)")

// Config holds runtime settings for the microauth server.
//
// Fields:
//   - Addr: bind address for the HTTP endpoint.
//   - SecretKey: HMAC secret for signing identity tokens (HS256). Required.
//   - TokenTTL: token lifetime; 0 issues tokens without expiry.
//   - BcryptCost: password-hashing work factor; 0 selects the default.
//   - CORSAllowOrigin: value for Access-Control-Allow-Origin.
type Config struct {
	Addr            string        `env:"AUTHENTICATION_API_ADDR"`
	SecretKey       string        `env:"AUTHENTICATION_SECRET_KEY"`
	TokenTTL        time.Duration `env:"AUTHENTICATION_TOKEN_TTL"`
	BcryptCost      int           `env:"AUTHENTICATION_BCRYPT_COST"`
	CORSAllowOrigin string        `env:"AUTHENTICATION_CORS_ORIGIN"`
}

// LoadDefaults populates Config with development defaults. The secret key
// is deliberately left empty.
func (c *Config) LoadDefaults() {
	c.Addr = ":3000"
	c.SecretKey = ""
	c.TokenTTL = 0
	c.BcryptCost = 0
	c.CORSAllowOrigin = "*"
}

// LoadConfig builds a Config by applying defaults, then overlaying values
// from an optional JSON file, the environment, and command-line flags.
// It fails with ErrMissingSecret when no signing secret was supplied.
func LoadConfig() (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJSON(cfg)
	if err := parseEnv(cfg); err != nil {
		return nil, err
	}
	parseFlags(cfg)

	if cfg.SecretKey == "" {
		return nil, ErrMissingSecret
	}
	return cfg, nil
}
