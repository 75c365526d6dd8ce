package handler

import (
	"encoding/json"
	"net/http"

	"github.com/Yehor-Organization/ProjectDawn-sub000/internal/api/apierr"
	"github.com/Yehor-Organization/ProjectDawn-sub000/internal/api/middleware"
	"github.com/Yehor-Organization/ProjectDawn-sub000/internal/api/request"
	"github.com/Yehor-Organization/ProjectDawn-sub000/internal/api/response"
	"github.com/Yehor-Organization/ProjectDawn-sub000/internal/services/inventory"
)

// InventoryHandler handles inventory endpoints. Mutations go through
// the coordinator, which pushes the change to the player's live
// connections.
type InventoryHandler struct {
	coordinator *inventory.Coordinator
}

// NewInventoryHandler creates a new inventory handler
func NewInventoryHandler(coordinator *inventory.Coordinator) *InventoryHandler {
	return &InventoryHandler{
		coordinator: coordinator,
	}
}

// Get handles GET /api/v1/inventory
func (h *InventoryHandler) Get(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())

	items, err := h.coordinator.Inventory(r.Context(), player.ID)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.InventoryFromModel(items))
}

// AddItems handles POST /api/v1/inventory/items
func (h *InventoryHandler) AddItems(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())

	var req request.AdjustInventoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierr.WriteError(w, apierr.NewInvalidRequestError("invalid request body"))
		return
	}
	if req.ItemType == "" {
		apierr.WriteError(w, apierr.NewInvalidRequestError("item_type is required"))
		return
	}

	if err := h.coordinator.AddItem(r.Context(), player.ID, req.ItemType, req.Quantity); err != nil {
		apierr.WriteError(w, err)
		return
	}

	response.NoContent(w)
}

// RemoveItems handles POST /api/v1/inventory/items/remove
func (h *InventoryHandler) RemoveItems(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())

	var req request.AdjustInventoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierr.WriteError(w, apierr.NewInvalidRequestError("invalid request body"))
		return
	}
	if req.ItemType == "" {
		apierr.WriteError(w, apierr.NewInvalidRequestError("item_type is required"))
		return
	}

	if err := h.coordinator.RemoveItem(r.Context(), player.ID, req.ItemType, req.Quantity); err != nil {
		apierr.WriteError(w, err)
		return
	}

	response.NoContent(w)
}
