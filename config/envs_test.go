package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Run("Embedded defaults", func(t *testing.T) {
		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, 2, cfg.Engine.FollowingSensitivity)
		assert.Equal(t, 4, cfg.Engine.ViewDepth)
		assert.Equal(t, 1.4, cfg.Engine.MaxTurningSpeed)
		assert.Equal(t, 10, cfg.Engine.RoadCost)
		assert.Equal(t, 200, cfg.Engine.LavaCost)
		assert.Equal(t, 10*time.Minute, cfg.Redis.RouteTTL)
		assert.Equal(t, 24*time.Hour, cfg.JWT.TTL)
		assert.Equal(t, "0.0.0.0:8080", cfg.RESTAddr())
	})

	t.Run("Environment overrides defaults", func(t *testing.T) {
		t.Setenv("NAVIGATOR_ENGINE_VIEW_DEPTH", "6")
		t.Setenv("NAVIGATOR_JWT_SECRET", "s3cret")
		t.Setenv("NAVIGATOR_REDIS_ROUTE_TTL", "30s")

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, 6, cfg.Engine.ViewDepth)
		assert.Equal(t, "s3cret", cfg.JWT.Secret)
		assert.Equal(t, 30*time.Second, cfg.Redis.RouteTTL)
	})

	t.Run("Config file sits between defaults and environment", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "navigator.yaml")
		require.NoError(t, os.WriteFile(path, []byte("engine:\n  lava_cost: 500\n  road_cost: 20\n"), 0o600))
		t.Setenv(EnvConfigFile, path)
		t.Setenv("NAVIGATOR_ENGINE_ROAD_COST", "30")

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, 500, cfg.Engine.LavaCost)
		assert.Equal(t, 30, cfg.Engine.RoadCost)
	})

	t.Run("Invalid values are rejected", func(t *testing.T) {
		t.Setenv("NAVIGATOR_ENGINE_VIEW_DEPTH", "0")
		_, err := Load()
		assert.ErrorIs(t, err, ErrInvalidConfig)
	})

	t.Run("Missing config file", func(t *testing.T) {
		t.Setenv(EnvConfigFile, filepath.Join(t.TempDir(), "absent.yaml"))
		_, err := Load()
		assert.Error(t, err)
	})
}

func TestEnvKey(t *testing.T) {
	assert.Equal(t, "engine.view_depth", envKey("NAVIGATOR_ENGINE_VIEW_DEPTH"))
	assert.Equal(t, "server.port", envKey("NAVIGATOR_SERVER_PORT"))
	assert.Equal(t, "config", envKey("NAVIGATOR_CONFIG"))
}

func TestMongoURI(t *testing.T) {
	cfg := Config{Mongo: MongoConfig{Host: "db", Port: 27017}}
	assert.Equal(t, "mongodb://db:27017", cfg.MongoURI())

	cfg.Mongo.User, cfg.Mongo.Password = "nav", "pw"
	assert.Equal(t, "mongodb://nav:pw@db:27017", cfg.MongoURI())
}
