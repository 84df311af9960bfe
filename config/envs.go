package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"
)

const (
	// EnvPrefix marks the environment variables read as configuration.
	// NAVIGATOR_ENGINE_VIEW_DEPTH overrides engine.view_depth.
	EnvPrefix = "NAVIGATOR_"
	// EnvConfigFile names an optional YAML file loaded over the defaults.
	EnvConfigFile = "NAVIGATOR_CONFIG"
)

//go:embed defaults.yaml
var defaults []byte

// Config holds the application's configuration values.
type Config struct {
	Server     ServerConfig     `koanf:"server"`
	Mongo      MongoConfig      `koanf:"mongo"`
	Redis      RedisConfig      `koanf:"redis"`
	JWT        JWTConfig        `koanf:"jwt"`
	Engine     EngineConfig     `koanf:"engine"`
	Simulation SimulationConfig `koanf:"simulation"`
	Log        LogConfig        `koanf:"log"`
}

type ServerConfig struct {
	Host    string `koanf:"host"`
	Port    int    `koanf:"port"`
	BaseURL string `koanf:"base_url"`
	GinMode string `koanf:"gin_mode"` // release, debug or test
}

type MongoConfig struct {
	Host                string `koanf:"host"`
	Port                int    `koanf:"port"`
	User                string `koanf:"user"`
	Password            string `koanf:"password"`
	DB                  string `koanf:"db"`
	RunsCollection      string `koanf:"runs_collection"`
	OperatorsCollection string `koanf:"operators_collection"`
}

type RedisConfig struct {
	Addr     string        `koanf:"addr"`
	Password string        `koanf:"password"`
	DB       int           `koanf:"db"`
	RouteTTL time.Duration `koanf:"route_ttl"`
}

type JWTConfig struct {
	Secret string        `koanf:"secret"`
	Issuer string        `koanf:"issuer"`
	TTL    time.Duration `koanf:"ttl"`
}

// EngineConfig carries the decision engine thresholds and route costs.
type EngineConfig struct {
	FollowingSensitivity  int     `koanf:"following_sensitivity"`
	ViewDepth             int     `koanf:"view_depth"`
	DistanceToTurn        int     `koanf:"distance_to_turn"`
	DistanceToSlowDown    int     `koanf:"distance_to_slow_down"`
	TurningPointLookahead int     `koanf:"turning_point_lookahead"`
	MaxTurningSpeed       float64 `koanf:"max_turning_speed"`
	RoadCost              int     `koanf:"road_cost"`
	LavaCost              int     `koanf:"lava_cost"`
}

// SimulationConfig describes the generated world used by the simulate command.
type SimulationConfig struct {
	MazeWidth   int     `koanf:"maze_width"`
	MazeHeight  int     `koanf:"maze_height"`
	Corridor    int     `koanf:"corridor"`
	Seed        int64   `koanf:"seed"`
	LavaProb    float32 `koanf:"lava_prob"`
	Keys        int     `koanf:"keys"`
	HealthTiles int     `koanf:"health_tiles"`
	MaxTicks    int     `koanf:"max_ticks"`
}

type LogConfig struct {
	Level string `koanf:"level"`
}

// Envs holds the configuration loaded at startup.
var Envs Config

// Load reads the embedded defaults, then the file named by NAVIGATOR_CONFIG
// if set, then NAVIGATOR_* environment variables. A .env file in the working
// directory is merged into the environment first when present.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("loading .env: %w", err)
	}

	k := koanf.New(".")
	if err := k.Load(rawbytes.Provider(defaults), yaml.Parser()); err != nil {
		return Config{}, fmt.Errorf("loading defaults: %w", err)
	}

	if path, ok := os.LookupEnv(EnvConfigFile); ok && path != "" {
		content, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("reading config file: %w", err)
		}
		if err := k.Load(rawbytes.Provider(content), yaml.Parser()); err != nil {
			return Config{}, fmt.Errorf("loading config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return Config{}, fmt.Errorf("loading environment: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshalling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// envKey maps NAVIGATOR_SECTION_FIELD_NAME to section.field_name.
func envKey(s string) string {
	lower := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	section, field, found := strings.Cut(lower, "_")
	if !found {
		return lower
	}
	return section + "." + field
}

// ErrInvalidConfig wraps every validation failure.
var ErrInvalidConfig = errors.New("invalid config")

// Validate rejects values the engine cannot run with.
func (c Config) Validate() error {
	var errs []error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalidConfig}, args...)...))
		}
	}

	e := c.Engine
	check(e.FollowingSensitivity > 0, "engine.following_sensitivity must be positive, got %d", e.FollowingSensitivity)
	check(e.ViewDepth > 0, "engine.view_depth must be positive, got %d", e.ViewDepth)
	check(e.DistanceToTurn > 0, "engine.distance_to_turn must be positive, got %d", e.DistanceToTurn)
	check(e.DistanceToSlowDown >= e.DistanceToTurn, "engine.distance_to_slow_down must be at least distance_to_turn")
	check(e.TurningPointLookahead >= 0, "engine.turning_point_lookahead must not be negative")
	check(e.MaxTurningSpeed > 0, "engine.max_turning_speed must be positive")
	check(e.RoadCost > 0 && e.LavaCost >= e.RoadCost, "engine costs must satisfy 0 < road_cost <= lava_cost")

	s := c.Simulation
	check(s.MazeWidth > 0 && s.MazeHeight > 0, "simulation maze must have a positive size, got %dx%d", s.MazeWidth, s.MazeHeight)
	check(s.Corridor >= 2, "simulation.corridor must be at least 2, got %d", s.Corridor)
	check(s.LavaProb >= 0 && s.LavaProb <= 1, "simulation.lava_prob must be within [0,1]")
	check(s.Keys >= 0 && s.HealthTiles >= 0, "simulation key and health counts must not be negative")
	check(s.MaxTicks > 0, "simulation.max_ticks must be positive")

	check(c.Server.Port > 0 && c.Server.Port < 65536, "server.port out of range: %d", c.Server.Port)

	return errors.Join(errs...)
}

// MongoURI builds the connection string for the configured MongoDB.
func (c Config) MongoURI() string {
	if c.Mongo.User == "" {
		return fmt.Sprintf("mongodb://%s:%d", c.Mongo.Host, c.Mongo.Port)
	}
	return fmt.Sprintf("mongodb://%s:%s@%s:%d", c.Mongo.User, c.Mongo.Password, c.Mongo.Host, c.Mongo.Port)
}

// RESTAddr returns the address the HTTP server listens on.
func (c Config) RESTAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}
