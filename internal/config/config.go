package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	// HTTP Server
	Port string

	// Database
	DatabaseURL string

	// Per-request budget for catalog queries
	QueryTimeout time.Duration

	// Provision the dev schema on startup (never against the hosted database)
	RunMigrations bool

	// Logging
	LogLevel string
}

func Load() *Config {
	return &Config{
		Port:          getEnv("PORT", "8080"),
		DatabaseURL:   getEnv("DATABASE_URL", ""),
		QueryTimeout:  getEnvDuration("QUERY_TIMEOUT", 7*time.Second),
		RunMigrations: getEnvBool("RUN_MIGRATIONS", false),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
	}
}

// Validate checks the configuration and normalizes the database URL so the
// connection always demands TLS. A DSN that opts out of encryption is refused.
func (c *Config) Validate() error {
	var errs []string

	if port, err := strconv.Atoi(c.Port); err != nil {
		errs = append(errs, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errs = append(errs, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	if c.DatabaseURL == "" {
		errs = append(errs, "DATABASE_URL is required")
	} else {
		normalized, err := EnforceTLS(c.DatabaseURL)
		if err != nil {
			errs = append(errs, err.Error())
		} else {
			c.DatabaseURL = normalized
		}
	}

	if c.QueryTimeout < time.Second {
		errs = append(errs, fmt.Sprintf("invalid query timeout %v: must be at least 1 second", c.QueryTimeout))
	} else if c.QueryTimeout > 2*time.Minute {
		errs = append(errs, fmt.Sprintf("invalid query timeout %v: must be at most 2 minutes", c.QueryTimeout))
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errs, "\n- "))
	}

	return nil
}

// EnforceTLS validates a postgres URL and guarantees an sslmode that encrypts
// the transport. A missing sslmode is rewritten to "require"; modes that allow
// plaintext (disable, allow, prefer) are rejected outright.
func EnforceTLS(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("invalid DATABASE_URL: %v", err)
	}
	if u.Scheme != "postgres" && u.Scheme != "postgresql" {
		return "", fmt.Errorf("invalid DATABASE_URL scheme '%s': must be 'postgres' or 'postgresql'", u.Scheme)
	}

	q := u.Query()
	switch mode := q.Get("sslmode"); mode {
	case "":
		q.Set("sslmode", "require")
		u.RawQuery = q.Encode()
		return u.String(), nil
	case "require", "verify-ca", "verify-full":
		return rawURL, nil
	default:
		return "", fmt.Errorf("sslmode '%s' does not enforce TLS: use require, verify-ca or verify-full", mode)
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
