package config

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/dmitrijs2005/finkeeper/internal/logging"
)

// Storage backends.
const (
	BackendSQLite   = "sqlite"
	BackendMemory   = "memory"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
)

// Password hashers.
const (
	HasherArgon2id = "argon2id"
	HasherBcrypt   = "bcrypt"
)

// Authentication strategies.
const (
	StrategyEmailPassword = "email-password"
	StrategyTwoFactor     = "two-factor-auth"
	StrategyGoogle        = "google-auth"
)

// Config holds runtime settings for the finkeeper CLI.
type Config struct {
	Backend        string
	StoragePath    string
	Namespace      string
	RedisAddr      string
	RedisPassword  string
	RedisDB        int
	PostgresDSN    string
	AuthStrategy   string
	GoogleClientID string
	PasswordHasher string
	SessionTTL     time.Duration
	LogLevel       string
}

// LoadDefaults populates c with defaults for a local single-user install.
func (c *Config) LoadDefaults() {
	c.Backend = BackendSQLite
	c.StoragePath = "finkeeper.db"
	c.Namespace = "finanzas_"
	c.RedisAddr = "127.0.0.1:6379"
	c.RedisDB = 0
	c.AuthStrategy = StrategyEmailPassword
	c.PasswordHasher = HasherArgon2id
	c.SessionTTL = 30 * 24 * time.Hour
	c.LogLevel = "info"
}

// LoadConfig applies defaults, then JSON, environment and flags in order of
// increasing precedence.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseEnv(cfg)
	parseFlags(cfg)
	return cfg
}

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	var problems []string

	backends := []string{BackendSQLite, BackendMemory, BackendRedis, BackendPostgres}
	if !slices.Contains(backends, c.Backend) {
		problems = append(problems, fmt.Sprintf("invalid backend '%s': must be one of %v", c.Backend, backends))
	}

	switch c.Backend {
	case BackendSQLite:
		if c.StoragePath == "" {
			problems = append(problems, "storage path cannot be empty when using sqlite backend")
		} else if dir := filepath.Dir(c.StoragePath); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				problems = append(problems, fmt.Sprintf("cannot create storage directory '%s': %v", dir, err))
			}
		}
	case BackendRedis:
		if c.RedisAddr == "" {
			problems = append(problems, "redis address cannot be empty when using redis backend")
		}
		if c.RedisDB < 0 {
			problems = append(problems, fmt.Sprintf("invalid redis db %d: must not be negative", c.RedisDB))
		}
	case BackendPostgres:
		if c.PostgresDSN == "" {
			problems = append(problems, "postgres DSN cannot be empty when using postgres backend")
		}
	}

	if strings.TrimSpace(c.Namespace) == "" {
		problems = append(problems, "namespace cannot be empty")
	}

	strategies := []string{StrategyEmailPassword, StrategyTwoFactor, StrategyGoogle}
	if !slices.Contains(strategies, c.AuthStrategy) {
		problems = append(problems, fmt.Sprintf("invalid auth strategy '%s': must be one of %v", c.AuthStrategy, strategies))
	}
	if c.AuthStrategy == StrategyGoogle && c.GoogleClientID == "" {
		problems = append(problems, "google client id is required when using google-auth strategy")
	}

	hashers := []string{HasherArgon2id, HasherBcrypt}
	if !slices.Contains(hashers, c.PasswordHasher) {
		problems = append(problems, fmt.Sprintf("invalid password hasher '%s': must be one of %v", c.PasswordHasher, hashers))
	}

	if c.SessionTTL < 0 {
		problems = append(problems, fmt.Sprintf("invalid session ttl %v: must not be negative", c.SessionTTL))
	}

	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		problems = append(problems, err.Error())
	}

	if len(problems) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(problems, "\n- "))
	}
	return nil
}
