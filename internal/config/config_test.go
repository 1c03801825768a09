package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	t.Run("missing secret", func(t *testing.T) {
		t.Setenv("DB_DRIVER", DriverMemory)
		t.Setenv("JWT_SECRET", "")

		_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "JWT secret")
	})

	t.Run("missing database url", func(t *testing.T) {
		t.Setenv("DB_DRIVER", DriverPostgres)
		t.Setenv("DATABASE_URL", "")
		t.Setenv("JWT_SECRET", "s3cret")

		_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "DATABASE_URL")
	})

	t.Run("unknown driver", func(t *testing.T) {
		t.Setenv("DB_DRIVER", "sqlite")
		t.Setenv("JWT_SECRET", "s3cret")

		_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
		require.Error(t, err)
	})

	t.Run("memory driver with defaults", func(t *testing.T) {
		t.Setenv("DB_DRIVER", DriverMemory)
		t.Setenv("JWT_SECRET", "s3cret")
		t.Setenv("PORT", "5000")
		t.Setenv("EMAIL_SUFFIX", ".edu")

		cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
		require.NoError(t, err)
		assert.Equal(t, "5000", cfg.Server.Port)
		assert.Equal(t, ".edu", cfg.App.EmailSuffix)
		assert.Equal(t, int64(10<<20), cfg.Uploads.MaxSize)
		assert.Equal(t, "http://localhost:5000", cfg.PublicBaseURL())
		assert.Equal(t, 168*time.Hour, cfg.TokenTTL())
		assert.Equal(t, time.Hour, cfg.ConnMaxLifetime())
	})

	t.Run("env overrides yaml", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		yml := []byte("server:\n  port: \"7000\"\n  mode: production\ndatabase:\n  driver: mongo\n  url: mongodb://localhost:27017\njwt:\n  secret: from-file\n")
		require.NoError(t, os.WriteFile(path, yml, 0o600))

		t.Setenv("PORT", "9000")
		t.Setenv("DB_DRIVER", DriverMongo)
		t.Setenv("DATABASE_URL", "mongodb://db:27017")
		t.Setenv("JWT_SECRET", "from-env")

		cfg, err := LoadConfig(path)
		require.NoError(t, err)
		assert.Equal(t, "9000", cfg.Server.Port)
		assert.True(t, cfg.IsProduction())
		assert.Equal(t, "mongodb://db:27017", cfg.Database.URL)
		assert.Equal(t, "from-env", cfg.JWT.Secret)
	})
}

func TestSetFieldFromEnvSlice(t *testing.T) {
	var target struct {
		Origins []string `env:"TEST_ORIGINS"`
	}
	t.Setenv("TEST_ORIGINS", "http://a.test, http://b.test,,")

	require.NoError(t, processStructFields(&target))
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, target.Origins)
}
