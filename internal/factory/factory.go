package factory

import (
	"errors"
	"io"
	"log/slog"
	"time"

	"github.com/Yehor-Organization/ProjectDawn-sub000/internal/dependencies/clock"
	"github.com/Yehor-Organization/ProjectDawn-sub000/internal/registry"
	"github.com/Yehor-Organization/ProjectDawn-sub000/internal/services/auth"
	"github.com/Yehor-Organization/ProjectDawn-sub000/internal/services/farm"
	"github.com/Yehor-Organization/ProjectDawn-sub000/internal/services/inventory"
	"github.com/Yehor-Organization/ProjectDawn-sub000/internal/services/movement"
	"github.com/Yehor-Organization/ProjectDawn-sub000/internal/services/object"
	"github.com/Yehor-Organization/ProjectDawn-sub000/internal/services/session"
	"github.com/Yehor-Organization/ProjectDawn-sub000/internal/storage"
	"github.com/Yehor-Organization/ProjectDawn-sub000/internal/storage/memory"
	redisstorage "github.com/Yehor-Organization/ProjectDawn-sub000/internal/storage/redis"
	"github.com/Yehor-Organization/ProjectDawn-sub000/internal/transport"
	"github.com/Yehor-Organization/ProjectDawn-sub000/internal/transport/ws"
)

// Storage type constants
const (
	StorageTypeMemory = "memory"
	StorageTypeRedis  = "redis"
)

// App contains all wired application components
type App struct {
	// Storage
	Storage storage.Storage

	// External dependencies
	Clock clock.Clock

	// Real-time transport; nil when built with an injected dispatcher
	Hub       *ws.Hub
	WSHandler *ws.Handler

	// Services
	AuthService          *auth.Service
	FarmService          *farm.Service
	ObjectService        *object.Service
	MovementService      *movement.Service
	SessionCoordinator   *session.Coordinator
	InventoryCoordinator *inventory.Coordinator
}

// Config holds configuration for the application factory
type Config struct {
	// AuthConfig holds configuration for the auth service
	AuthConfig auth.Config
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// StorageType selects the storage backend ("memory" or "redis")
	// If empty, defaults to "memory"
	StorageType string
	// RedisConfig holds Redis connection settings (required if StorageType is "redis")
	RedisConfig *redisstorage.Config
	// MovementFlushInterval is how often queued transformation updates
	// are persisted (optional)
	MovementFlushInterval time.Duration
}

// New creates a new application with all dependencies wired
func New(cfg Config) (*App, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	var store storage.Storage
	storageType := cfg.StorageType
	if storageType == "" {
		storageType = StorageTypeMemory
	}

	switch storageType {
	case StorageTypeMemory:
		store = memory.New()
	case StorageTypeRedis:
		if cfg.RedisConfig == nil {
			return nil, errors.New("RedisConfig required when StorageType is redis")
		}
		redisStore, err := redisstorage.New(*cfg.RedisConfig)
		if err != nil {
			return nil, err
		}
		store = redisStore
	default:
		return nil, errors.New("invalid StorageType: must be 'memory' or 'redis'")
	}

	clk := clock.New()
	hub := ws.NewHub(logger)

	app := newWithDependencies(store, clk, hub, cfg.AuthConfig, cfg.MovementFlushInterval, logger)
	app.Hub = hub
	app.WSHandler = ws.NewHandler(
		hub,
		app.AuthService,
		app.SessionCoordinator,
		app.MovementService,
		app.ObjectService,
		app.InventoryCoordinator,
		logger,
	)
	return app, nil
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(
	store storage.Storage,
	clk clock.Clock,
	dispatcher transport.Dispatcher,
	authCfg auth.Config,
	flushInterval time.Duration,
	logger *slog.Logger,
) *App {
	// Farm sessions and account connections are tracked separately; a
	// player can hold one of each at the same time.
	farmRegistry := registry.New()
	accountRegistry := registry.New()

	authService := auth.New(store, clk, authCfg)
	farmService := farm.New(store, clk, logger)
	objectService := object.New(store, dispatcher, clk, logger)
	sessionCoordinator := session.NewCoordinator(store, dispatcher, farmRegistry, clk, logger)
	movementService := movement.New(store, dispatcher, movement.NewQueue(), logger, flushInterval)
	inventoryCoordinator := inventory.NewCoordinator(store, dispatcher, accountRegistry, logger)

	return &App{
		Storage:              store,
		Clock:                clk,
		AuthService:          authService,
		FarmService:          farmService,
		ObjectService:        objectService,
		MovementService:      movementService,
		SessionCoordinator:   sessionCoordinator,
		InventoryCoordinator: inventoryCoordinator,
	}
}
