package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/Yehor-Organization/ProjectDawn-sub000/internal/api/apierr"
	"github.com/Yehor-Organization/ProjectDawn-sub000/internal/api/middleware"
	"github.com/Yehor-Organization/ProjectDawn-sub000/internal/api/request"
	"github.com/Yehor-Organization/ProjectDawn-sub000/internal/api/response"
	"github.com/Yehor-Organization/ProjectDawn-sub000/internal/model"
	"github.com/Yehor-Organization/ProjectDawn-sub000/internal/services/farm"
)

// FarmHandler handles farm endpoints
type FarmHandler struct {
	farmService *farm.Service
}

// NewFarmHandler creates a new farm handler
func NewFarmHandler(farmService *farm.Service) *FarmHandler {
	return &FarmHandler{
		farmService: farmService,
	}
}

// Create handles POST /api/v1/farms
func (h *FarmHandler) Create(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())

	var req request.CreateFarmRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierr.WriteError(w, apierr.NewInvalidRequestError("invalid request body"))
		return
	}

	created, err := h.farmService.Create(r.Context(), player.ID, req.Name)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.FarmFromModel(created))
}

// Get handles GET /api/v1/farms/{farm_id}
func (h *FarmHandler) Get(w http.ResponseWriter, r *http.Request) {
	farmID, err := model.ParseFarmID(mux.Vars(r)["farm_id"])
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	state, err := h.farmService.Get(r.Context(), farmID)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.FarmStateFromModel(state))
}

// List handles GET /api/v1/farms
func (h *FarmHandler) List(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())

	farms, err := h.farmService.ListByOwner(r.Context(), player.ID)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.FarmListFromModel(farms))
}

// Delete handles DELETE /api/v1/farms/{farm_id}
func (h *FarmHandler) Delete(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())

	farmID, err := model.ParseFarmID(mux.Vars(r)["farm_id"])
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	if err := h.farmService.Delete(r.Context(), farmID, player.ID); err != nil {
		apierr.WriteError(w, err)
		return
	}

	response.NoContent(w)
}
