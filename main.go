package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/beka-birhanu/vinom-navigator/api"
	"github.com/beka-birhanu/vinom-navigator/api/explore"
	api_i "github.com/beka-birhanu/vinom-navigator/api/i"
	"github.com/beka-birhanu/vinom-navigator/api/identity"
	"github.com/beka-birhanu/vinom-navigator/config"
	logger "github.com/beka-birhanu/vinom-navigator/infrastruture/log"
	"github.com/beka-birhanu/vinom-navigator/infrastruture/metrics"
	"github.com/beka-birhanu/vinom-navigator/infrastruture/repo"
	"github.com/beka-birhanu/vinom-navigator/infrastruture/routecache"
	"github.com/beka-birhanu/vinom-navigator/infrastruture/token"
	"github.com/beka-birhanu/vinom-navigator/service"
	"github.com/beka-birhanu/vinom-navigator/service/i"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// Global variables for dependencies
var (
	mongoClient       *mongo.Client
	redisClient       *redis.Client
	recorder          *metrics.Metrics
	operatorRepo      i.OperatorRepo
	runRepo           i.RunRepo
	routeCache        i.RouteCache
	sessionManager    i.SessionManager
	sessionController api_i.Controller
	jwtTokenizer      i.Tokenizer
	authService       i.Authenticator
	authController    api_i.Controller
	router            *api.Router
	appLogger         *logger.Logger
)

// simulate flags
var (
	simSeed   int64
	simWidth  int
	simHeight int
	simTicks  int
	simJSON   bool
	simTrace  bool
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "navigator",
	Short: "Maze exploration decision engine",
	Long: `navigator decides, tick by tick, how an agent explores an unknown maze.

It follows walls to discover the map, hands off between left and right wall
following to cover new ground, and plans weighted routes over what it has seen.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initConfig()
	},
}

// serveCmd runs the HTTP API.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve exploration sessions over HTTP",
	RunE:  runServe,
}

// simulateCmd explores a generated maze locally.
var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Run the engine through a generated maze",
	Long: `Generate a maze, drive the engine through it and print a report.

Examples:
  # Run with the configured maze
  navigator simulate

  # A larger maze with a fixed seed, as JSON
  navigator simulate --seed 42 --width 12 --height 12 --json`,
	RunE: runSimulate,
}

func init() {
	simulateCmd.Flags().Int64Var(&simSeed, "seed", 0, "maze seed (overrides config)")
	simulateCmd.Flags().IntVar(&simWidth, "width", 0, "maze width in cells (overrides config)")
	simulateCmd.Flags().IntVar(&simHeight, "height", 0, "maze height in cells (overrides config)")
	simulateCmd.Flags().IntVar(&simTicks, "ticks", 0, "tick budget (overrides config)")
	simulateCmd.Flags().BoolVar(&simJSON, "json", false, "print the report as JSON")
	simulateCmd.Flags().BoolVar(&simTrace, "trace", false, "include every tick in the JSON report")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(simulateCmd)
}

func initConfig() error {
	var err error
	appLogger, err = logger.New("APP", config.ColorGreen, os.Stderr)
	if err != nil {
		return err
	}

	config.Envs, err = config.Load()
	if err != nil {
		appLogger.Error("Loading config", zap.Error(err))
		return err
	}

	if err := appLogger.SetLevel(config.Envs.Log.Level); err != nil {
		appLogger.Warn("Unknown log level, keeping info", zap.String("level", config.Envs.Log.Level))
	}
	return nil
}

func newLogger(prefix, color string) *logger.Logger {
	l, err := logger.New(prefix, color, os.Stdout)
	if err != nil {
		appLogger.Error("Creating logger", zap.String("prefix", prefix), zap.Error(err))
		os.Exit(1)
	}
	_ = l.SetLevel(config.Envs.Log.Level)
	return l
}

func initMongo(ctx context.Context) {
	clientOptions := options.Client().ApplyURI(config.Envs.MongoURI())
	var err error
	mongoClient, err = mongo.Connect(ctx, clientOptions)
	if err != nil {
		appLogger.Error("Failed to connect to MongoDB", zap.Error(err))
		os.Exit(1)
	}
	if err = mongoClient.Ping(ctx, nil); err != nil {
		appLogger.Error("MongoDB ping failed", zap.Error(err))
		os.Exit(1)
	}
	appLogger.Info("Connected to MongoDB")
}

func initRedis(ctx context.Context) {
	if config.Envs.Redis.Addr == "" {
		appLogger.Warn("No Redis address, routes will not be cached")
		return
	}

	redisClient = redis.NewClient(&redis.Options{
		Addr:     config.Envs.Redis.Addr,
		Password: config.Envs.Redis.Password,
		DB:       config.Envs.Redis.DB,
	})
	if err := redisClient.Ping(ctx).Err(); err != nil {
		appLogger.Error("Redis ping failed", zap.Error(err))
		os.Exit(1)
	}
	appLogger.Info("Connected to Redis")
}

func initRepos(ctx context.Context) {
	var err error
	operatorRepo, err = repo.NewOperatorRepo(ctx, mongoClient, config.Envs.Mongo.DB, config.Envs.Mongo.OperatorsCollection)
	if err != nil {
		appLogger.Error("Creating operator repository", zap.Error(err))
		os.Exit(1)
	}
	runRepo = repo.NewRunRepo(mongoClient, config.Envs.Mongo.DB, config.Envs.Mongo.RunsCollection)
	appLogger.Info("Repositories initialized")
}

func initRouteCache() {
	if redisClient == nil {
		return
	}
	routeCache = routecache.NewRedisRouteCache(redisClient, config.Envs.Redis.RouteTTL)
	appLogger.Info("Route cache initialized")
}

func initMetrics() {
	recorder = metrics.New()
	appLogger.Info("Metrics initialized")
}

func initSessionManager() {
	var err error
	sessionManager, err = service.NewSessionManager(&service.Config{
		Engine:   config.Envs.Engine,
		Runs:     runRepo,
		Routes:   routeCache,
		Logger:   newLogger("SESSION-MANAGER", config.ColorCyan),
		Recorder: recorder,
	})
	if err != nil {
		appLogger.Error("Creating session manager", zap.Error(err))
		os.Exit(1)
	}
	appLogger.Info("Session manager initialized")
}

func initSessionController() {
	var err error
	sessionController, err = explore.NewSessionController(sessionManager)
	if err != nil {
		appLogger.Error("Creating session controller", zap.Error(err))
		os.Exit(1)
	}
	appLogger.Info("Session controller initialized")
}

func initJWTTokenizer() {
	if config.Envs.JWT.Secret == "" {
		appLogger.Error("NAVIGATOR_JWT_SECRET must be set to serve")
		os.Exit(1)
	}
	jwtTokenizer = token.NewJwtService(config.Envs.JWT.Secret, config.Envs.JWT.Issuer)
	appLogger.Info("JWT Tokenizer initialized")
}

func initAuthService() {
	var err error
	authService, err = service.NewAuthService(operatorRepo, jwtTokenizer, config.Envs.JWT.TTL)
	if err != nil {
		appLogger.Error("Creating auth service", zap.Error(err))
		os.Exit(1)
	}
	appLogger.Info("Auth service initialized")
}

func initAuthController() {
	authController = identity.NewIdentityServer(authService)
	appLogger.Info("Auth controller initialized")
}

func initRouter(t i.Tokenizer) {
	router = api.NewRouter(api.Config{
		Addr:                    config.Envs.RESTAddr(),
		BaseURL:                 config.Envs.Server.BaseURL,
		GinMode:                 config.Envs.Server.GinMode,
		Controllers:             []api_i.Controller{authController, sessionController},
		AuthorizationMiddleware: identity.Authoriz(t),
	})
	appLogger.Info("Router initialized")
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	defer func() { _ = appLogger.Sync() }()

	initCtx, cancel := context.WithTimeout(ctx, 60*time.Second)
	defer cancel()

	initJWTTokenizer()
	initMongo(initCtx)
	defer func() {
		_ = mongoClient.Disconnect(context.Background())
	}()
	initRedis(initCtx)
	if redisClient != nil {
		defer redisClient.Close()
	}

	initRepos(initCtx)
	initRouteCache()
	initMetrics()
	initSessionManager()
	initSessionController()
	initAuthService()
	initAuthController()
	initRouter(jwtTokenizer)

	appLogger.Info("Serving", zap.String("addr", config.Envs.RESTAddr()))
	err := router.Run(ctx)

	// Persist whatever is still open before the database goes away.
	stopCtx, stopCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer stopCancel()
	sessionManager.StopAll(stopCtx)

	if err != nil {
		appLogger.Error("Running server", zap.Error(err))
		return err
	}
	appLogger.Info("Server stopped")
	return nil
}

func runSimulate(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	defer func() { _ = appLogger.Sync() }()

	simCfg := config.Envs.Simulation
	if cmd.Flags().Changed("seed") {
		simCfg.Seed = simSeed
	}
	if simWidth > 0 {
		simCfg.MazeWidth = simWidth
	}
	if simHeight > 0 {
		simCfg.MazeHeight = simHeight
	}
	if simTicks > 0 {
		simCfg.MaxTicks = simTicks
	}

	opts := []service.SimulationOption{
		service.WithSimulationLogger(newLogger("SIMULATION", config.ColorMagenta)),
	}
	if simTrace {
		opts = append(opts, service.WithTrace())
	}

	report, err := service.NewSimulation(simCfg, config.Envs.Engine, opts...).Run(ctx)
	if err != nil && !errors.Is(err, service.ErrSimulationStopped) {
		appLogger.Error("Running simulation", zap.Error(err))
		return err
	}

	out := cmd.OutOrStdout()
	if simJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}

	fmt.Fprintln(out, report.Render())
	fmt.Fprintf(out, "seed %d, %dx%d tiles\n", report.Seed, report.Width, report.Height)
	fmt.Fprintf(out, "ticks %d, steps %d, collisions %d, health %d\n", report.Ticks, report.Steps, report.Collisions, report.Health)
	fmt.Fprintf(out, "keys found %d/%d, collected %d\n", report.KeysFound, report.KeysPlaced, report.KeysCollected)
	fmt.Fprintf(out, "coverage %.1f%% (%d/%d tiles), %d strategy switches\n",
		100*report.Coverage(), report.TilesKnown, report.Tiles, report.Snapshot.Switches)
	if len(report.KeyRoute) > 0 {
		fmt.Fprintf(out, "route to next key: %d steps\n", len(report.KeyRoute)-1)
	}
	return err
}
