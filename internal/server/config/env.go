package config

import (
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
)

// parseEnv overlays environment variables onto config. Variables that are
// not set leave the current values untouched.
//
// AUTHENTICATION_API_PORT is accepted as a bare port number for
// compatibility with deployments that configure only the port;
// AUTHENTICATION_API_ADDR wins when both are set.
func parseEnv(config *Config) error {
	if port := os.Getenv("AUTHENTICATION_API_PORT"); port != "" {
		config.Addr = ":" + port
	}

	if err := env.Parse(config); err != nil {
		return fmt.Errorf("error parsing environment: %w", err)
	}
	return nil
}
