// Package config reads the process settings from the environment, optionally
// seeded from a .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/EgorLis/slotbot/internal/storage"
)

type Config struct {
	DiscordToken  string `env:"DISCORD_TOKEN"`
	CommandPrefix string `env:"COMMAND_PREFIX" envDefault:"!"`

	StoreBackend  string        `env:"STORE_BACKEND" envDefault:"mongo"` // mongo | file | sqlite | memory
	MongoURL      string        `env:"MONGO_URL" envDefault:"mongodb://localhost:27017"`
	MongoDatabase string        `env:"MONGO_DATABASE" envDefault:"hoi4_reservations"`
	DataDir       string        `env:"DATA_DIR" envDefault:"./data"`
	SQLitePath    string        `env:"SQLITE_PATH" envDefault:"./data/slotbot.db"`
	StoreTimeout  time.Duration `env:"STORE_TIMEOUT" envDefault:"5s"`

	LockBackend   string        `env:"LOCK_BACKEND" envDefault:"local"` // local | redis
	RedisAddr     string        `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPassword string        `env:"REDIS_PASSWORD"`
	RedisDB       int           `env:"REDIS_DB" envDefault:"0"`
	LockTTL       time.Duration `env:"LOCK_TTL" envDefault:"10s"`

	CatalogFile      string `env:"CATALOG_FILE"`
	SummaryLimit     int    `env:"SUMMARY_LIMIT" envDefault:"2000"`
	CleanupScanLimit int    `env:"CLEANUP_SCAN_LIMIT" envDefault:"100"`

	LogLevel   string `env:"LOG_LEVEL" envDefault:"info"`
	LogConsole bool   `env:"LOG_CONSOLE" envDefault:"false"`
}

// Load applies envFiles (missing files are skipped; variables already set in
// the environment win) and parses the result.
func Load(envFiles ...string) (Config, error) {
	for _, f := range envFiles {
		if f == "" {
			continue
		}
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", f, err)
		}
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the settings that do not depend on what the process is
// about to do. The Discord token is checked by the serve command.
func (c Config) Validate() error {
	switch c.StoreBackend {
	case storage.BackendMongo:
		if c.MongoURL == "" {
			return errors.New("MONGO_URL is required for the mongo backend")
		}
	case storage.BackendFile:
		if c.DataDir == "" {
			return errors.New("DATA_DIR is required for the file backend")
		}
	case storage.BackendSQLite:
		if c.SQLitePath == "" {
			return errors.New("SQLITE_PATH is required for the sqlite backend")
		}
	case storage.BackendMemory:
	default:
		return fmt.Errorf("STORE_BACKEND %q: want mongo, file, sqlite or memory", c.StoreBackend)
	}

	switch c.LockBackend {
	case "local":
	case "redis":
		if c.RedisAddr == "" {
			return errors.New("REDIS_ADDR is required for the redis lock")
		}
	default:
		return fmt.Errorf("LOCK_BACKEND %q: want local or redis", c.LockBackend)
	}

	if c.CommandPrefix == "" {
		return errors.New("COMMAND_PREFIX must not be empty")
	}
	if c.SummaryLimit <= 0 {
		return errors.New("SUMMARY_LIMIT must be positive")
	}
	if c.CleanupScanLimit <= 0 || c.CleanupScanLimit > 100 {
		return errors.New("CLEANUP_SCAN_LIMIT must be between 1 and 100")
	}
	return nil
}

// Storage maps the settings onto storage.Options.
func (c Config) Storage() storage.Options {
	return storage.Options{
		Backend:       c.StoreBackend,
		MongoURL:      c.MongoURL,
		MongoDatabase: c.MongoDatabase,
		Timeout:       c.StoreTimeout,
		Dir:           c.DataDir,
		SQLitePath:    c.SQLitePath,
	}
}
