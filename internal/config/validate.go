package config

import (
	"fmt"
	"strings"
)

// Validate performs business-rule validation on the loaded configuration.
func (c *Config) Validate() error {
	switch c.Storage.Driver {
	case DriverFile:
		if strings.TrimSpace(c.Storage.DataDir) == "" {
			return fmt.Errorf("DATA_DIR must not be empty")
		}
	case DriverSQL:
		if strings.TrimSpace(c.Storage.DSN) == "" {
			return fmt.Errorf("DATABASE_DSN is required when STORAGE_DRIVER=sql")
		}
	default:
		return fmt.Errorf("STORAGE_DRIVER must be %q or %q (got %q)", DriverFile, DriverSQL, c.Storage.Driver)
	}

	if c.Auth.JWTSecret != "" && len(c.Auth.JWTSecret) < 32 {
		return fmt.Errorf("AUTH_JWT_SECRET must be at least 32 characters (got %d)", len(c.Auth.JWTSecret))
	}
	if c.Auth.TokensEnabled() && c.Auth.TokenTTL <= 0 {
		return fmt.Errorf("AUTH_TOKEN_TTL must be > 0 (got %s)", c.Auth.TokenTTL)
	}

	switch strings.ToLower(c.Log.Format) {
	case "json", "text":
	default:
		return fmt.Errorf("LOG_FORMAT must be json or text (got %q)", c.Log.Format)
	}

	return nil
}
