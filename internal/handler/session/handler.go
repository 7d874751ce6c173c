package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/va9226-stack/SENTIENT-NEXUS/internal/model/chat"
	entitymodel "github.com/va9226-stack/SENTIENT-NEXUS/internal/model/entity"
	"github.com/va9226-stack/SENTIENT-NEXUS/internal/service/nexus"
	"github.com/va9226-stack/SENTIENT-NEXUS/pkg/utils"
)

// Handler exposes the session controller over HTTP.
type Handler struct {
	sessions *nexus.Service
	entities entitymodel.Store
}

// New creates the session handler.
func New(sessions *nexus.Service, entities entitymodel.Store) *Handler {
	return &Handler{sessions: sessions, entities: entities}
}

// RegisterRoutes mounts the session routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/sessions", h.handleList)
	r.Post("/sessions", h.handleOpen)
	r.Get("/sessions/{entityID}", h.handleGet)
	r.Put("/sessions/{entityID}", h.handleSave)
	r.Delete("/sessions/{entityID}", h.handleClose)
	r.Post("/sessions/{entityID}/route", h.handleRoute)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	utils.RespondJSON(w, http.StatusOK, h.sessions.List(r.Context()))
}

func (h *Handler) handleOpen(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		EntityID string `json:"entityId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if payload.EntityID == "" {
		utils.RespondError(w, http.StatusBadRequest, "entityId is required")
		return
	}

	ent, ok := h.entities.FindByID(payload.EntityID)
	if !ok {
		utils.RespondError(w, http.StatusBadRequest, "entity not found")
		return
	}

	session := h.sessions.Open(r.Context(), ent)
	utils.RespondJSON(w, http.StatusCreated, session)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	session, err := h.sessions.Get(r.Context(), chi.URLParam(r, "entityID"))
	if err != nil {
		utils.RespondError(w, http.StatusNotFound, err.Error())
		return
	}
	utils.RespondJSON(w, http.StatusOK, session)
}

func (h *Handler) handleSave(w http.ResponseWriter, r *http.Request) {
	entityID := chi.URLParam(r, "entityID")

	var session chat.Session
	if err := json.NewDecoder(r.Body).Decode(&session); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	session.EntityID = entityID

	h.sessions.Save(r.Context(), session)
	utils.RespondJSON(w, http.StatusOK, map[string]string{"status": "saved"})
}

func (h *Handler) handleClose(w http.ResponseWriter, r *http.Request) {
	h.sessions.Close(r.Context(), chi.URLParam(r, "entityID"))
	utils.RespondJSON(w, http.StatusOK, map[string]string{"status": "closed"})
}

// handleRoute delivers a cross-entity message from the source session into
// the target entity's session, opening the target when needed.
func (h *Handler) handleRoute(w http.ResponseWriter, r *http.Request) {
	sourceID := chi.URLParam(r, "entityID")

	var payload struct {
		TargetEntityID string `json:"targetEntityId"`
		Content        string `json:"content"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if payload.TargetEntityID == "" || payload.Content == "" {
		utils.RespondError(w, http.StatusBadRequest, "targetEntityId and content are required")
		return
	}
	if payload.TargetEntityID == sourceID {
		utils.RespondError(w, http.StatusBadRequest, "cannot route a message to the source entity")
		return
	}

	source, ok := h.entities.FindByID(sourceID)
	if !ok {
		utils.RespondError(w, http.StatusNotFound, "source entity not found")
		return
	}
	target, ok := h.entities.FindByID(payload.TargetEntityID)
	if !ok {
		utils.RespondError(w, http.StatusBadRequest, "target entity not found")
		return
	}
	if _, err := h.sessions.Get(r.Context(), sourceID); errors.Is(err, nexus.ErrSessionNotFound) {
		utils.RespondError(w, http.StatusNotFound, "source session not open")
		return
	}

	crossMessage := chat.Message{
		Role:         chat.RoleCrossEntity,
		Content:      fmt.Sprintf("[FROM %s]: %s", source.Name, payload.Content),
		SourceEntity: source.Name,
	}
	targetSession := h.sessions.RouteCrossEntity(r.Context(), target, crossMessage)

	note := chat.Message{
		Role:    chat.RoleSystem,
		Content: fmt.Sprintf("Message sent to %s", target.Name),
	}
	if _, err := h.sessions.AppendMessage(r.Context(), sourceID, note); err != nil {
		utils.RespondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	utils.RespondJSON(w, http.StatusOK, targetSession)
}
