package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/Yehor-Organization/ProjectDawn-sub000/internal/api/handler"
	"github.com/Yehor-Organization/ProjectDawn-sub000/internal/api/middleware"
	"github.com/Yehor-Organization/ProjectDawn-sub000/internal/services/auth"
	"github.com/Yehor-Organization/ProjectDawn-sub000/internal/services/farm"
	"github.com/Yehor-Organization/ProjectDawn-sub000/internal/services/inventory"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger               *slog.Logger
	AuthService          *auth.Service
	FarmService          *farm.Service
	InventoryCoordinator *inventory.Coordinator
	// WSHandler serves the real-time endpoint. It is mounted outside
	// the logging middleware, which wraps the response writer and
	// would break the websocket upgrade.
	WSHandler http.Handler
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	authHandler := handler.NewAuthHandler(cfg.AuthService)
	farmHandler := handler.NewFarmHandler(cfg.FarmService)
	inventoryHandler := handler.NewInventoryHandler(cfg.InventoryCoordinator)

	authMiddleware := middleware.Auth(cfg.AuthService)
	loggingMiddleware := middleware.Logging(cfg.Logger)
	recoveryMiddleware := middleware.Recovery(cfg.Logger)

	// API subrouter with common middleware
	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(recoveryMiddleware)
	api.Use(loggingMiddleware)

	// Account routes (no auth required)
	api.HandleFunc("/auth/register", authHandler.Register).Methods(http.MethodPost)
	api.HandleFunc("/auth/login", authHandler.Login).Methods(http.MethodPost)

	// Protected player routes
	players := api.PathPrefix("/players").Subrouter()
	players.Use(authMiddleware)
	players.HandleFunc("/me", authHandler.GetMe).Methods(http.MethodGet)

	// Farm routes (all require auth)
	farms := api.PathPrefix("/farms").Subrouter()
	farms.Use(authMiddleware)
	farms.HandleFunc("", farmHandler.Create).Methods(http.MethodPost)
	farms.HandleFunc("", farmHandler.List).Methods(http.MethodGet)
	farms.HandleFunc("/{farm_id}", farmHandler.Get).Methods(http.MethodGet)
	farms.HandleFunc("/{farm_id}", farmHandler.Delete).Methods(http.MethodDelete)

	// Inventory routes (all require auth)
	inv := api.PathPrefix("/inventory").Subrouter()
	inv.Use(authMiddleware)
	inv.HandleFunc("", inventoryHandler.Get).Methods(http.MethodGet)
	inv.HandleFunc("/items", inventoryHandler.AddItems).Methods(http.MethodPost)
	inv.HandleFunc("/items/remove", inventoryHandler.RemoveItems).Methods(http.MethodPost)

	// Health check endpoint (no auth)
	api.HandleFunc("/health", healthHandler).Methods(http.MethodGet)

	// Real-time endpoint; handles its own auth from the token
	if cfg.WSHandler != nil {
		r.Handle("/ws", cfg.WSHandler)
	}

	return r
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
