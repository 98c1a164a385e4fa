package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/EgorLis/slotbot/internal/storage"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	require.Equal(t, "!", cfg.CommandPrefix)
	require.Equal(t, storage.BackendMongo, cfg.StoreBackend)
	require.Equal(t, "hoi4_reservations", cfg.MongoDatabase)
	require.Equal(t, 5*time.Second, cfg.StoreTimeout)
	require.Equal(t, "local", cfg.LockBackend)
	require.Equal(t, 2000, cfg.SummaryLimit)
	require.Equal(t, 100, cfg.CleanupScanLimit)
}

func TestLoadFromEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("STORE_BACKEND=file\nDATA_DIR=/tmp/slots\nCOMMAND_PREFIX=?\n"), 0o644))
	t.Cleanup(func() {
		os.Unsetenv("STORE_BACKEND")
		os.Unsetenv("DATA_DIR")
		os.Unsetenv("COMMAND_PREFIX")
	})
	t.Setenv("DISCORD_TOKEN", "abc")

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "abc", cfg.DiscordToken)
	require.Equal(t, "?", cfg.CommandPrefix)
	require.Equal(t, storage.Options{
		Backend:       storage.BackendFile,
		MongoURL:      "mongodb://localhost:27017",
		MongoDatabase: "hoi4_reservations",
		Timeout:       5 * time.Second,
		Dir:           "/tmp/slots",
		SQLitePath:    "./data/slotbot.db",
	}, cfg.Storage())
}

func TestEnvironmentWinsOverEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("STORE_BACKEND=file\n"), 0o644))
	t.Setenv("STORE_BACKEND", "memory")

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, storage.BackendMemory, cfg.StoreBackend)
}

func TestValidate(t *testing.T) {
	base, err := Load()
	require.NoError(t, err)

	bad := []func(*Config){
		func(c *Config) { c.StoreBackend = "etcd" },
		func(c *Config) { c.LockBackend = "zookeeper" },
		func(c *Config) { c.LockBackend = "redis"; c.RedisAddr = "" },
		func(c *Config) { c.StoreBackend = storage.BackendSQLite; c.SQLitePath = "" },
		func(c *Config) { c.CommandPrefix = "" },
		func(c *Config) { c.SummaryLimit = 0 },
		func(c *Config) { c.CleanupScanLimit = 500 },
	}
	for i, mutate := range bad {
		c := base
		mutate(&c)
		require.Error(t, c.Validate(), "case %d", i)
	}
	require.NoError(t, base.Validate())
}
