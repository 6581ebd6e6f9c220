// Package config loads runtime configuration for the finkeeper CLI.
//
// Sources & precedence (later wins)
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file selected with -c or -config (see parseJson).
//  3. FINKEEPER_* environment variables, after loading a dotenv file
//     (".env" or the path given with -env) via godotenv (see parseEnv).
//  4. Command-line flags (see parseFlags).
//
// Supported flags
//
//	-b string     storage backend: sqlite, memory, redis, postgres
//	-d string     SQLite database file
//	-n string     key namespace prefix
//	-r string     Redis address host:port
//	-p string     Postgres DSN
//	-s string     authentication strategy: email-password, two-factor-auth, google-auth
//	-hash string  password hasher: argon2id, bcrypt
//	-ttl duration session lifetime, e.g. 720h
//	-l string     log level
//
// # JSON schema
//
// Durations use timex.Duration, so "720h" and integer nanoseconds both work.
// Missing keys keep their previous value.
//
//	{
//	  "backend": "sqlite",
//	  "storage_path": "finkeeper.db",
//	  "namespace": "finanzas_",
//	  "session_ttl": "720h",
//	  "log_level": "info"
//	}
package config
