package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/dmitrijs2005/microauth/internal/flagx"
	"github.com/dmitrijs2005/microauth/internal/timex"
)

// jsonConfig is the DTO for the optional JSON config file. It uses
// timex.Duration so token_ttl parses from both "30m" and integer
// nanoseconds; values are then copied into the runtime Config.
type jsonConfig struct {
	Addr            *string         `json:"addr"`
	SecretKey       *string         `json:"secret_key"`
	TokenTTL        *timex.Duration `json:"token_ttl"`
	BcryptCost      *int            `json:"bcrypt_cost"`
	CORSAllowOrigin *string         `json:"cors_allow_origin"`
}

// parseJSON overlays values from the JSON file named by -c/-config, if any.
// Only fields present in the file override the current config. An unreadable
// or invalid file panics: a half-applied config is worse than not starting.
func parseJSON(config *Config) {
	path := flagx.JSONConfigPath()
	if path == "" {
		return
	}

	file, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	c := &jsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	if c.Addr != nil {
		config.Addr = *c.Addr
	}
	if c.SecretKey != nil {
		config.SecretKey = *c.SecretKey
	}
	if c.TokenTTL != nil {
		config.TokenTTL = time.Duration(c.TokenTTL.Duration)
	}
	if c.BcryptCost != nil {
		config.BcryptCost = *c.BcryptCost
	}
	if c.CORSAllowOrigin != nil {
		config.CORSAllowOrigin = *c.CORSAllowOrigin
	}
}
