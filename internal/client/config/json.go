package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/finkeeper/internal/flagx"
	"github.com/dmitrijs2005/finkeeper/internal/timex"
)

// JsonConfig is the on-disk layout. Pointer fields tell "absent" from zero.
type JsonConfig struct {
	Backend        *string         `json:"backend"`
	StoragePath    *string         `json:"storage_path"`
	Namespace      *string         `json:"namespace"`
	RedisAddr      *string         `json:"redis_addr"`
	RedisPassword  *string         `json:"redis_password"`
	RedisDB        *int            `json:"redis_db"`
	PostgresDSN    *string         `json:"postgres_dsn"`
	AuthStrategy   *string         `json:"auth_strategy"`
	GoogleClientID *string         `json:"google_client_id"`
	PasswordHasher *string         `json:"password_hasher"`
	SessionTTL     *timex.Duration `json:"session_ttl"`
	LogLevel       *string         `json:"log_level"`
}

// parseJson overlays cfg with the file named by -c/-config, if any.
// It panics when the file cannot be read or decoded.
func parseJson(cfg *Config) {
	path := flagx.ConfigFile(os.Args[1:])
	if path == "" {
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	jc.apply(cfg)
}

func (jc *JsonConfig) apply(cfg *Config) {
	setString(&cfg.Backend, jc.Backend)
	setString(&cfg.StoragePath, jc.StoragePath)
	setString(&cfg.Namespace, jc.Namespace)
	setString(&cfg.RedisAddr, jc.RedisAddr)
	setString(&cfg.RedisPassword, jc.RedisPassword)
	setString(&cfg.PostgresDSN, jc.PostgresDSN)
	setString(&cfg.AuthStrategy, jc.AuthStrategy)
	setString(&cfg.GoogleClientID, jc.GoogleClientID)
	setString(&cfg.PasswordHasher, jc.PasswordHasher)
	setString(&cfg.LogLevel, jc.LogLevel)
	if jc.RedisDB != nil {
		cfg.RedisDB = *jc.RedisDB
	}
	if jc.SessionTTL != nil {
		cfg.SessionTTL = jc.SessionTTL.Duration
	}
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}
