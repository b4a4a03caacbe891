package config

import (
	"fmt"
	"log/slog"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Storage backend selectors
const (
	StorageRedis = "redis"
	StorageFile  = "file"
)

// Log output formats
const (
	LogFormatText = "text"
	LogFormatJSON = "json"
)

// Config is the full process configuration, populated from the environment
// (with an optional .env file loaded first).
type Config struct {
	Port        string   `env:"PORT" envDefault:"8080"`
	GinMode     string   `env:"GIN_MODE" envDefault:"debug"`
	JWTSecret   string   `env:"JWT_SECRET"`
	CORSOrigins []string `env:"CORS_ORIGINS" envSeparator:"," envDefault:"http://localhost:5173"`

	// SecureCookies switches auth cookies to SameSite=None; Secure for
	// cross-origin production deployments.
	SecureCookies bool `env:"SECURE_COOKIES" envDefault:"false"`

	Storage Storage `envPrefix:"STORAGE_"`
	Ledger  Ledger  `envPrefix:"LEDGER_"`
	Log     Log     `envPrefix:"LOG_"`
}

// Storage selects and configures the snapshot backend.
type Storage struct {
	Backend       string `env:"BACKEND" envDefault:"file"` // redis, file
	DataDir       string `env:"DATA_DIR" envDefault:"./data"`
	RedisAddr     string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`
}

// Ledger carries the business-data policy knobs.
type Ledger struct {
	// AdjustmentMode resolves the adjustment-transaction ambiguity:
	// "absolute" replaces the stock level, "relative" applies a signed delta.
	AdjustmentMode string `env:"ADJUSTMENT_MODE" envDefault:"absolute"`
}

// Log configures the slog handler.
type Log struct {
	Level     slog.Level `env:"LEVEL" envDefault:"info"`
	Format    string     `env:"FORMAT" envDefault:"text"` // text, json
	AddSource bool       `env:"ADD_SOURCE" envDefault:"false"`
}

// Load reads configs/.env when present, then parses the environment.
func Load() (Config, error) {
	// A missing .env is fine; the environment may be fully set already.
	_ = godotenv.Load("configs/.env")

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse environment: %w", err)
	}

	if cfg.JWTSecret == "" {
		if cfg.GinMode == "release" {
			return Config{}, fmt.Errorf("JWT_SECRET is required in release mode")
		}
		cfg.JWTSecret = "default_super_secret_key" // development fallback only
	}
	if cfg.Storage.Backend != StorageRedis && cfg.Storage.Backend != StorageFile {
		return Config{}, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}
	return cfg, nil
}
