// Package config loads runtime settings from the environment and an optional .env file.
package config

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Store    StoreConfig    `mapstructure:"store"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Postgres PostgresConfig `mapstructure:"postgres"`
	SQLite   SQLiteConfig   `mapstructure:"sqlite"`
	Auth     AuthConfig     `mapstructure:"auth"`
	Telegram TelegramConfig `mapstructure:"telegram"`
	Logger   LoggerConfig   `mapstructure:"logger"`
	Ledger   LedgerConfig   `mapstructure:"ledger"`
}

type ServerConfig struct {
	Addr        string        `mapstructure:"addr"`
	Mode        string        `mapstructure:"mode"`
	SubmitDelay time.Duration `mapstructure:"submit_delay"`
	LoginDelay  time.Duration `mapstructure:"login_delay"`
}

// StoreConfig selects the durable key-value backend: redis, postgres, sqlite or memory.
type StoreConfig struct {
	Backend string `mapstructure:"backend"`
}

type RedisConfig struct {
	Addr      string `mapstructure:"addr"`
	Password  string `mapstructure:"password"`
	DB        int    `mapstructure:"db"`
	KeyPrefix string `mapstructure:"key_prefix"`
}

type PostgresConfig struct {
	DSN string `mapstructure:"dsn"`
}

type SQLiteConfig struct {
	Path string `mapstructure:"path"`
}

type AuthConfig struct {
	AdminUsername string        `mapstructure:"admin_username"`
	AdminPassword string        `mapstructure:"admin_password"`
	JWTSecret     string        `mapstructure:"jwt_secret"`
	TokenTTL      time.Duration `mapstructure:"token_ttl"`
}

type TelegramConfig struct {
	Token  string `mapstructure:"token"`
	ChatID int64  `mapstructure:"chat_id"`
}

type LoggerConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	OutputPath string `mapstructure:"output_path"`
}

type LedgerConfig struct {
	Keys []string `mapstructure:"keys"`
}

// Load reads the .env file (when present) and then the CIVIC_* environment.
func Load() (*Config, error) {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("CIVIC")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if len(cfg.Ledger.Keys) == 0 {
		cfg.Ledger.Keys = append([]string(nil), LedgerKeys...)
	}
	if err := cfg.Ledger.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// validate requires both dashboard ledgers among the written keys.
func (c LedgerConfig) validate() error {
	for _, key := range LedgerKeys {
		if !slices.Contains(c.Keys, key) {
			return fmt.Errorf("ledger.keys must include %q, got %v", key, c.Keys)
		}
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.mode", "release")
	v.SetDefault("server.submit_delay", DefaultSubmitDelay)
	v.SetDefault("server.login_delay", DefaultLoginDelay)

	v.SetDefault("store.backend", "redis")

	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.key_prefix", "")

	v.SetDefault("postgres.dsn", "host=localhost user=user password=password dbname=civicdb port=5432 sslmode=disable")
	v.SetDefault("sqlite.path", "civic.db")

	v.SetDefault("auth.admin_username", DefaultAdminUsername)
	v.SetDefault("auth.admin_password", DefaultAdminPassword)
	v.SetDefault("auth.jwt_secret", "change-me-in-production")
	v.SetDefault("auth.token_ttl", DefaultTokenTTL)

	v.SetDefault("telegram.token", "")
	v.SetDefault("telegram.chat_id", 0)

	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.output_path", "stdout")

	// Comma-separated in the environment: CIVIC_LEDGER_KEYS=user_complaints,admin_complaints
	v.SetDefault("ledger.keys", strings.Join(LedgerKeys, ","))
}
