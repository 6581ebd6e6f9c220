package config

import (
	"os"
	"strconv"
	"time"

	"github.com/dmitrijs2005/finkeeper/internal/flagx"
	"github.com/joho/godotenv"
)

const envPrefix = "FINKEEPER_"

// parseEnv loads a dotenv file (without overriding variables already set)
// and overlays cfg with FINKEEPER_* variables. Malformed numbers and
// durations panic, like malformed flags.
func parseEnv(cfg *Config) {
	if path := flagx.EnvFile(os.Args[1:]); path != "" {
		if err := godotenv.Load(path); err != nil {
			panic(err)
		}
	} else {
		_ = godotenv.Load()
	}

	envString(&cfg.Backend, "BACKEND")
	envString(&cfg.StoragePath, "STORAGE_PATH")
	envString(&cfg.Namespace, "NAMESPACE")
	envString(&cfg.RedisAddr, "REDIS_ADDR")
	envString(&cfg.RedisPassword, "REDIS_PASSWORD")
	envString(&cfg.PostgresDSN, "POSTGRES_DSN")
	envString(&cfg.AuthStrategy, "AUTH_STRATEGY")
	envString(&cfg.GoogleClientID, "GOOGLE_CLIENT_ID")
	envString(&cfg.PasswordHasher, "PASSWORD_HASHER")
	envString(&cfg.LogLevel, "LOG_LEVEL")

	if v, ok := os.LookupEnv(envPrefix + "REDIS_DB"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			panic(err)
		}
		cfg.RedisDB = n
	}
	if v, ok := os.LookupEnv(envPrefix + "SESSION_TTL"); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			panic(err)
		}
		cfg.SessionTTL = d
	}
}

func envString(dst *string, name string) {
	if v, ok := os.LookupEnv(envPrefix + name); ok {
		*dst = v
	}
}
