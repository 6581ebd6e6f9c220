package config

import (
	"flag"
	"os"

	"github.com/dmitrijs2005/finkeeper/internal/flagx"
)

var knownFlags = []string{"-b", "-d", "-n", "-r", "-p", "-s", "-hash", "-ttl", "-l"}

// parseFlags overlays cfg with the command-line flags this package owns.
// Other arguments are filtered out first with flagx.FilterArgs. A malformed
// value panics.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], knownFlags)

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.Backend, "b", cfg.Backend, "storage backend (sqlite, memory, redis, postgres)")
	fs.StringVar(&cfg.StoragePath, "d", cfg.StoragePath, "SQLite database file")
	fs.StringVar(&cfg.Namespace, "n", cfg.Namespace, "key namespace prefix")
	fs.StringVar(&cfg.RedisAddr, "r", cfg.RedisAddr, "Redis address")
	fs.StringVar(&cfg.PostgresDSN, "p", cfg.PostgresDSN, "Postgres DSN")
	fs.StringVar(&cfg.AuthStrategy, "s", cfg.AuthStrategy, "authentication strategy")
	fs.StringVar(&cfg.PasswordHasher, "hash", cfg.PasswordHasher, "password hasher (argon2id, bcrypt)")
	fs.DurationVar(&cfg.SessionTTL, "ttl", cfg.SessionTTL, "session lifetime")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}
}
