package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/Yehor-Organization/ProjectDawn-sub000/internal/api"
	"github.com/Yehor-Organization/ProjectDawn-sub000/internal/config"
	"github.com/Yehor-Organization/ProjectDawn-sub000/internal/factory"
	"github.com/Yehor-Organization/ProjectDawn-sub000/internal/services/auth"
	redisstorage "github.com/Yehor-Organization/ProjectDawn-sub000/internal/storage/redis"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Set up logging with JSON output
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel(cfg.LogLevel),
	}))
	slog.SetDefault(logger)

	// Build factory config
	factoryCfg := factory.Config{
		AuthConfig: auth.Config{
			Secret:        cfg.JWTSecret,
			TokenDuration: cfg.TokenDuration,
		},
		Logger:                logger,
		StorageType:           cfg.StorageType,
		MovementFlushInterval: cfg.MovementFlushInterval,
	}

	if cfg.StorageType == factory.StorageTypeRedis {
		redisCfg := redisstorage.DefaultConfig()
		redisCfg.URL = cfg.RedisURL
		factoryCfg.RedisConfig = &redisCfg
	}

	if cfg.JWTSecret == "dev-secret-do-not-use" {
		logger.Warn("running with the default JWT secret, set DAWN_JWT_SECRET in production")
	}

	// Create application factory
	app, err := factory.New(factoryCfg)
	if err != nil {
		logger.Error("failed to create application", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Create API router with the websocket endpoint attached
	router := api.NewRouter(api.RouterConfig{
		Logger:               logger,
		AuthService:          app.AuthService,
		FarmService:          app.FarmService,
		InventoryCoordinator: app.InventoryCoordinator,
		WSHandler:            app.WSHandler,
	})

	// Create server
	serverConfig := api.DefaultServerConfig()
	serverConfig.Host = cfg.Host
	serverConfig.Port = cfg.Port
	server := api.NewServer(router, serverConfig, logger)

	// Handle graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		logger.Info("shutdown signal received")
		cancel()
	}()

	// Run the movement flush loop until shutdown
	go app.MovementService.Run(ctx)

	// Start server in goroutine
	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	logger.Info("server started", slog.String("addr", server.Addr()))

	// Wait for shutdown or error
	select {
	case err := <-errCh:
		if err != nil {
			logger.Error("server error", slog.String("error", err.Error()))
			os.Exit(1)
		}
	case <-ctx.Done():
		if err := server.Shutdown(context.Background()); err != nil {
			logger.Error("shutdown error", slog.String("error", err.Error()))
			os.Exit(1)
		}
		logger.Info("server stopped")
	}
}

func logLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
