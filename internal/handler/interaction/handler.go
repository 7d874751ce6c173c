package interaction

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/va9226-stack/SENTIENT-NEXUS/internal/model/chat"
	entitymodel "github.com/va9226-stack/SENTIENT-NEXUS/internal/model/entity"
	aiservice "github.com/va9226-stack/SENTIENT-NEXUS/internal/service/ai"
	interactionservice "github.com/va9226-stack/SENTIENT-NEXUS/internal/service/interaction"
	"github.com/va9226-stack/SENTIENT-NEXUS/internal/service/nexus"
	"github.com/va9226-stack/SENTIENT-NEXUS/pkg/utils"
)

// Handler drives the response flow: synchronous submissions, the SSE
// streaming variant and contextual analysis.
type Handler struct {
	interactions *interactionservice.Service
	ai           *aiservice.Service
	sessions     *nexus.Service
	entities     entitymodel.Store
}

// New creates the interaction handler. ai may be nil when no model is
// configured; the streaming and analysis endpoints then return 503.
func New(interactions *interactionservice.Service, ai *aiservice.Service, sessions *nexus.Service, entities entitymodel.Store) *Handler {
	return &Handler{interactions: interactions, ai: ai, sessions: sessions, entities: entities}
}

// RegisterRoutes mounts the interaction routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/sessions/{entityID}/messages", h.handleMessage)
	r.Get("/stream/{entityID}", h.handleStream)
	r.Post("/entities/{entityID}/analysis", h.handleAnalysis)
}

func (h *Handler) handleMessage(w http.ResponseWriter, r *http.Request) {
	ent, ok := h.entities.FindByID(chi.URLParam(r, "entityID"))
	if !ok {
		utils.RespondError(w, http.StatusNotFound, "entity not found")
		return
	}

	var payload struct {
		Content string `json:"content"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if payload.Content == "" {
		utils.RespondError(w, http.StatusBadRequest, "content is required")
		return
	}

	if _, err := h.sessions.Get(r.Context(), ent.ID); errors.Is(err, nexus.ErrSessionNotFound) {
		utils.RespondError(w, http.StatusNotFound, "session not open")
		return
	}

	result, err := h.interactions.Respond(r.Context(), ent, payload.Content)
	switch {
	case errors.Is(err, interactionservice.ErrRequestInFlight):
		utils.RespondError(w, http.StatusConflict, err.Error())
		return
	case err != nil:
		utils.RespondError(w, http.StatusBadGateway, err.Error())
		return
	}

	utils.RespondJSON(w, http.StatusOK, result)
}

// handleStream is the SSE variant of handleMessage: the entity reply is
// forwarded chunk by chunk while it is generated.
func (h *Handler) handleStream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		utils.RespondError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}
	if h.ai == nil {
		utils.RespondError(w, http.StatusServiceUnavailable, "ai streaming unavailable")
		return
	}

	ent, found := h.entities.FindByID(chi.URLParam(r, "entityID"))
	if !found {
		utils.RespondError(w, http.StatusNotFound, "entity not found")
		return
	}
	userMessage := r.URL.Query().Get("message")
	if userMessage == "" {
		utils.RespondError(w, http.StatusBadRequest, "message query parameter is required")
		return
	}
	if _, err := h.sessions.Get(r.Context(), ent.ID); errors.Is(err, nexus.ErrSessionNotFound) {
		utils.RespondError(w, http.StatusNotFound, "session not open")
		return
	}

	if err := h.interactions.Acquire(ent.ID); err != nil {
		utils.RespondError(w, http.StatusConflict, err.Error())
		return
	}
	defer h.interactions.Release(ent.ID)

	ctx := r.Context()
	utils.SetupSSEHeaders(w)

	if _, err := h.sessions.AppendMessage(ctx, ent.ID, chat.Message{Role: chat.RoleUser, Content: userMessage}); err != nil {
		utils.SendSSEEvent(w, flusher, "error", map[string]string{"error": err.Error()})
		return
	}

	if notice, suppressed := h.interactions.AvailabilityNotice(ent); suppressed {
		appended, err := h.sessions.AppendMessage(ctx, ent.ID, notice)
		if err != nil {
			utils.SendSSEEvent(w, flusher, "error", map[string]string{"error": err.Error()})
			return
		}
		utils.SendSSEEvent(w, flusher, "suppressed", appended)
		utils.SendSSEEvent(w, flusher, "end", map[string]bool{"finished": true})
		return
	}

	learningContext := h.interactions.LearningContext(ctx, ent)

	utils.SendSSEEvent(w, flusher, "start", map[string]string{"entityId": ent.ID})

	text, err := h.streamResponse(w, flusher, r, ent, learningContext, userMessage)
	if err != nil {
		notice := chat.Message{Role: chat.RoleSystem, Content: "[SYSTEM: Analysis failed. Error: " + err.Error() + "]"}
		if _, appendErr := h.sessions.AppendMessage(ctx, ent.ID, notice); appendErr != nil {
			log.Printf("[stream] failed to append failure notice for %s: %v", ent.ID, appendErr)
		}
		utils.SendSSEEvent(w, flusher, "error", map[string]string{"error": err.Error()})
		return
	}

	reply, err := h.sessions.AppendMessage(ctx, ent.ID, chat.Message{Role: chat.RoleEntity, Content: text})
	if err != nil {
		utils.SendSSEEvent(w, flusher, "error", map[string]string{"error": err.Error()})
		return
	}

	h.interactions.RecordOutcome(ctx, ent, userMessage, text)

	utils.SendSSEEvent(w, flusher, "reply", reply)
	utils.SendSSEEvent(w, flusher, "end", map[string]bool{"finished": true})
	log.Printf("[stream] completed response for entity=%s", ent.ID)
}

// streamResponse runs the chain in stream mode when enabled, falling back
// to a single invoke otherwise. Returns the full reply text.
func (h *Handler) streamResponse(w http.ResponseWriter, flusher http.Flusher, r *http.Request, ent entitymodel.Entity, learningContext, userMessage string) (string, error) {
	ctx := r.Context()

	if !h.ai.StreamingEnabled() {
		return h.ai.GenerateResponse(ctx, ent, learningContext, userMessage)
	}

	stream, err := h.ai.StreamResponse(ctx, ent, learningContext, userMessage)
	if err != nil {
		return "", err
	}
	defer stream.Close()

	var full string
	for {
		chunk, err := stream.Recv()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", err
		}
		full += chunk.Content
		utils.SendSSEEvent(w, flusher, "chunk", map[string]string{"content": chunk.Content})
	}
	return full, nil
}

func (h *Handler) handleAnalysis(w http.ResponseWriter, r *http.Request) {
	if h.ai == nil {
		utils.RespondError(w, http.StatusServiceUnavailable, "ai analysis unavailable")
		return
	}

	ent, ok := h.entities.FindByID(chi.URLParam(r, "entityID"))
	if !ok {
		utils.RespondError(w, http.StatusNotFound, "entity not found")
		return
	}

	var payload struct {
		Input string `json:"input"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if payload.Input == "" {
		utils.RespondError(w, http.StatusBadRequest, "input is required")
		return
	}

	learningContext := h.interactions.LearningContext(r.Context(), ent)

	analysis, err := h.ai.AnalyzeContext(r.Context(), ent, learningContext, payload.Input)
	if err != nil {
		utils.RespondError(w, http.StatusBadGateway, err.Error())
		return
	}

	utils.RespondJSON(w, http.StatusOK, map[string]string{"analysis": analysis})
}
