package ws

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/Yehor-Organization/ProjectDawn-sub000/internal/model"
	"github.com/Yehor-Organization/ProjectDawn-sub000/internal/services/auth"
	"github.com/Yehor-Organization/ProjectDawn-sub000/internal/services/inventory"
	"github.com/Yehor-Organization/ProjectDawn-sub000/internal/services/movement"
	"github.com/Yehor-Organization/ProjectDawn-sub000/internal/services/object"
	"github.com/Yehor-Organization/ProjectDawn-sub000/internal/services/session"
)

// envelope is the inbound wire frame. The payload stays raw until the
// call type selects a concrete shape.
type envelope struct {
	Type    model.EventType `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// Handler upgrades authenticated HTTP requests to websocket sessions
// and routes inbound calls to the coordinators. Each accepted socket
// gets a server-generated connection id; the player identity comes
// from the token, never from message payloads.
type Handler struct {
	hub       *Hub
	auth      *auth.Service
	sessions  *session.Coordinator
	movement  *movement.Service
	objects   *object.Service
	inventory *inventory.Coordinator
	logger    *slog.Logger
	upgrader  websocket.Upgrader
}

// NewHandler creates a websocket Handler
func NewHandler(
	hub *Hub,
	authService *auth.Service,
	sessions *session.Coordinator,
	movementService *movement.Service,
	objects *object.Service,
	inventoryCoordinator *inventory.Coordinator,
	logger *slog.Logger,
) *Handler {
	return &Handler{
		hub:       hub,
		auth:      authService,
		sessions:  sessions,
		movement:  movementService,
		objects:   objects,
		inventory: inventoryCoordinator,
		logger:    logger.With(slog.String("component", "ws_handler")),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	playerID, err := h.auth.VerifyToken(bearerToken(r))
	if err != nil {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("upgrade failed",
			slog.Int64("player_id", int64(playerID)),
			slog.String("error", err.Error()))
		return
	}

	connID := model.ConnectionID(uuid.NewString())
	h.hub.Bind(connID, conn)
	h.logger.Info("connection opened",
		slog.Int64("player_id", int64(playerID)),
		slog.String("connection_id", string(connID)))

	h.readLoop(r.Context(), conn, playerID, connID)

	// Single disconnect funnel: read errors, client closes and write
	// failures all end here exactly once.
	h.hub.Unbind(connID)
	ctx := context.WithoutCancel(r.Context())
	if err := h.sessions.HandleDisconnect(ctx, connID); err != nil {
		h.logger.Error("session disconnect cleanup failed",
			slog.String("connection_id", string(connID)),
			slog.String("error", err.Error()))
	}
	h.inventory.HandleDisconnect(ctx, connID)
	h.logger.Info("connection closed",
		slog.Int64("player_id", int64(playerID)),
		slog.String("connection_id", string(connID)))
}

func (h *Handler) readLoop(ctx context.Context, conn *websocket.Conn, playerID model.PlayerID, connID model.ConnectionID) {
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return
		}

		var env envelope
		if err := json.Unmarshal(data, &env); err != nil {
			h.logger.Warn("discarding malformed frame",
				slog.String("connection_id", string(connID)),
				slog.String("error", err.Error()))
			continue
		}

		h.dispatch(ctx, env, playerID, connID)
	}
}

// dispatch routes one call. Call errors are the coordinators' business
// to report on the wire (join failures, kicks); here they only get
// logged, and the connection stays up.
func (h *Handler) dispatch(ctx context.Context, env envelope, playerID model.PlayerID, connID model.ConnectionID) {
	var err error
	switch env.Type {
	case model.CallJoinFarm:
		var call model.JoinFarmCall
		if err = json.Unmarshal(env.Payload, &call); err == nil {
			err = h.sessions.Join(ctx, call.FarmID, playerID, connID)
		}
	case model.CallLeaveFarm:
		var call model.LeaveFarmCall
		if err = json.Unmarshal(env.Payload, &call); err == nil {
			err = h.sessions.Leave(ctx, call.FarmID, playerID, connID)
		}
	case model.CallUpdateTransformation:
		var call model.UpdateTransformationCall
		if err = json.Unmarshal(env.Payload, &call); err == nil {
			err = h.movement.Update(ctx, call.FarmID, playerID, connID, call.Transformation)
		}
	case model.CallPlaceObject:
		var call model.PlaceObjectCall
		if err = json.Unmarshal(env.Payload, &call); err == nil {
			_, err = h.objects.Place(ctx, call.FarmID, playerID, call.Type, call.Transformation)
		}
	case model.CallConnect:
		err = h.inventory.Connect(ctx, playerID, connID)
	default:
		h.logger.Warn("unknown call type",
			slog.String("type", string(env.Type)),
			slog.String("connection_id", string(connID)))
		return
	}

	if err != nil {
		h.logger.Warn("call failed",
			slog.String("type", string(env.Type)),
			slog.Int64("player_id", int64(playerID)),
			slog.String("connection_id", string(connID)),
			slog.String("error", err.Error()))
	}
}

// bearerToken pulls the auth token from the Authorization header, or
// from the token query parameter for clients that cannot set headers
// on a websocket dial.
func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	return r.URL.Query().Get("token")
}
