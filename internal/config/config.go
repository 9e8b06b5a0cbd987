// Package config loads labelhub settings from defaults, an optional YAML file and the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

const (
	EnvPrefix     = "LABELHUB_"
	ConfigPathEnv = "CONFIG_PATH"
	// DatabaseURLEnv is honoured when LABELHUB_DATABASE__DSN is not set.
	DatabaseURLEnv = "DATABASE_URL"
)

type Config struct {
	Database DatabaseConfig `koanf:"database"`
	HTTP     HTTPConfig     `koanf:"http"`
	RPC      RPCConfig      `koanf:"rpc"`
	Log      LogConfig      `koanf:"log"`
}

type DatabaseConfig struct {
	Driver          string        `koanf:"driver" validate:"oneof=sqlite postgres mysql"`
	DSN             string        `koanf:"dsn" validate:"required"`
	MaxOpenConns    int           `koanf:"max_open_conns" validate:"gte=0"`
	MaxIdleConns    int           `koanf:"max_idle_conns" validate:"gte=0"`
	ConnMaxLifetime time.Duration `koanf:"conn_max_lifetime"`
	SlowQuery       time.Duration `koanf:"slow_query"`
	AutoMigrate     bool          `koanf:"auto_migrate"`
}

type HTTPConfig struct {
	Addr            string        `koanf:"addr" validate:"required"`
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
	RateLimit       int           `koanf:"rate_limit" validate:"gte=0"`
	RateWindow      time.Duration `koanf:"rate_window"`
	MaxBodyBytes    int64         `koanf:"max_body_bytes" validate:"gte=0"`
}

type RPCConfig struct {
	// Socket is the unix socket path; empty disables the RPC server.
	Socket string `koanf:"socket"`
}

type LogConfig struct {
	Level      string `koanf:"level" validate:"oneof=trace debug info warn error disabled"`
	Format     string `koanf:"format" validate:"oneof=json console"`
	Caller     bool   `koanf:"caller"`
	File       string `koanf:"file"`
	MaxSizeMB  int    `koanf:"max_size_mb" validate:"gte=0"`
	MaxBackups int    `koanf:"max_backups" validate:"gte=0"`
	MaxAgeDays int    `koanf:"max_age_days" validate:"gte=0"`
}

func Defaults() Config {
	return Config{
		Database: DatabaseConfig{
			Driver:          "sqlite",
			DSN:             "labelhub.db",
			MaxOpenConns:    10,
			MaxIdleConns:    5,
			ConnMaxLifetime: 30 * time.Minute,
			SlowQuery:       200 * time.Millisecond,
			AutoMigrate:     true,
		},
		HTTP: HTTPConfig{
			Addr:            ":8080",
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			RateWindow:      time.Minute,
			MaxBodyBytes:    1 << 20,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Load layers defaults, the YAML file at path (or $CONFIG_PATH) and the environment.
// A .env file in the working directory is read first when present.
func Load(path string) (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	k := koanf.New(".")
	if err := k.Load(structs.Provider(Defaults(), "koanf"), nil); err != nil {
		return Config{}, fmt.Errorf("load defaults: %w", err)
	}

	if path == "" {
		path = os.Getenv(ConfigPathEnv)
	}
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return Config{}, fmt.Errorf("load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return Config{}, fmt.Errorf("load environment: %w", err)
	}
	if dsn := os.Getenv(DatabaseURLEnv); dsn != "" && os.Getenv(EnvPrefix+"DATABASE__DSN") == "" {
		if err := k.Set("database.dsn", dsn); err != nil {
			return Config{}, err
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	cfg.Database.Driver = inferDriver(cfg.Database.Driver, cfg.Database.DSN)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// envKey maps LABELHUB_HTTP__RATE_LIMIT to http.rate_limit.
func envKey(key string) string {
	key = strings.TrimPrefix(key, EnvPrefix)
	return strings.ReplaceAll(strings.ToLower(key), "__", ".")
}

// inferDriver switches away from the sqlite default when the DSN names another backend.
func inferDriver(driver, dsn string) string {
	if driver != "" && driver != "sqlite" {
		return driver
	}
	switch {
	case strings.HasPrefix(dsn, "postgres://"), strings.HasPrefix(dsn, "postgresql://"):
		return "postgres"
	default:
		return "sqlite"
	}
}

func (c Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}
