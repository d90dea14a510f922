package config

import (
	"cmp"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

type Config struct {
	Host            string
	Port            string
	DatabaseURL     string
	LogLevel        string
	LogFile         string
	Debug           bool
	ShutdownTimeout time.Duration
}

// Load reads the configuration from the environment, after loading the given
// .env files (or ./.env when none are given) if they exist.
func Load(envFiles ...string) (Config, error) {
	// A missing .env file is fine, e.g. in production
	if err := godotenv.Load(envFiles...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("failed to load env file: %w", err)
	}

	cfg := Config{
		Host:        cmp.Or(os.Getenv("HOST"), "localhost"),
		Port:        cmp.Or(os.Getenv("PORT"), "8080"),
		DatabaseURL: cmp.Or(os.Getenv("DATABASE_URL"), os.Getenv("DB_PATH"), "shortener.db"),
		LogLevel:    cmp.Or(os.Getenv("LOG_LEVEL"), "info"),
		LogFile:     os.Getenv("LOG_FILE"),
		Debug:       os.Getenv("DEBUG") == "1",
	}

	if _, err := zerolog.ParseLevel(cfg.LogLevel); err != nil {
		return Config{}, fmt.Errorf("invalid LOG_LEVEL %q: %w", cfg.LogLevel, err)
	}

	timeout, err := time.ParseDuration(cmp.Or(os.Getenv("SHUTDOWN_TIMEOUT"), "10s"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid SHUTDOWN_TIMEOUT: %w", err)
	}
	cfg.ShutdownTimeout = timeout

	return cfg, nil
}

func (c Config) Addr() string {
	return c.Host + ":" + c.Port
}
