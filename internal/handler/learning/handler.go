package learning

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	entitymodel "github.com/va9226-stack/SENTIENT-NEXUS/internal/model/entity"
	learningmodel "github.com/va9226-stack/SENTIENT-NEXUS/internal/model/learning"
	learningsvc "github.com/va9226-stack/SENTIENT-NEXUS/internal/service/learning"
	"github.com/va9226-stack/SENTIENT-NEXUS/pkg/utils"
)

// Handler serves the per-entity learning records for the dashboard.
type Handler struct {
	recorder learningsvc.Recorder
	entities entitymodel.Store
}

// New creates the learning handler.
func New(recorder learningsvc.Recorder, entities entitymodel.Store) *Handler {
	return &Handler{recorder: recorder, entities: entities}
}

// RegisterRoutes mounts the learning routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/learnings/{entityID}", h.handleList)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	entityID := chi.URLParam(r, "entityID")
	if _, ok := h.entities.FindByID(entityID); !ok {
		utils.RespondError(w, http.StatusNotFound, "entity not found")
		return
	}

	activeOnly := r.URL.Query().Get("active") == "true"
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			utils.RespondError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = parsed
	}

	records, err := h.recorder.List(r.Context(), entityID, activeOnly, limit)
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if records == nil {
		records = []learningmodel.Record{}
	}
	utils.RespondJSON(w, http.StatusOK, records)
}
