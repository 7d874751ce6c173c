package entity

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	entitymodel "github.com/va9226-stack/SENTIENT-NEXUS/internal/model/entity"
	"github.com/va9226-stack/SENTIENT-NEXUS/pkg/utils"
)

// Handler serves the static entity registry.
type Handler struct {
	entities entitymodel.Store
}

// New creates the registry handler.
func New(entities entitymodel.Store) *Handler {
	return &Handler{entities: entities}
}

// RegisterRoutes mounts the registry routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/entities", h.handleList)
	r.Get("/entities/{entityID}", h.handleGet)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	utils.RespondJSON(w, http.StatusOK, h.entities.List())
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	ent, ok := h.entities.FindByID(chi.URLParam(r, "entityID"))
	if !ok {
		utils.RespondError(w, http.StatusNotFound, "entity not found")
		return
	}
	utils.RespondJSON(w, http.StatusOK, ent)
}
