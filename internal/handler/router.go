package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	entityHandler "github.com/va9226-stack/SENTIENT-NEXUS/internal/handler/entity"
	"github.com/va9226-stack/SENTIENT-NEXUS/internal/handler/events"
	interactionHandler "github.com/va9226-stack/SENTIENT-NEXUS/internal/handler/interaction"
	learningHandler "github.com/va9226-stack/SENTIENT-NEXUS/internal/handler/learning"
	sessionHandler "github.com/va9226-stack/SENTIENT-NEXUS/internal/handler/session"
	middlewarePkg "github.com/va9226-stack/SENTIENT-NEXUS/internal/middleware"
	entitymodel "github.com/va9226-stack/SENTIENT-NEXUS/internal/model/entity"
	aiService "github.com/va9226-stack/SENTIENT-NEXUS/internal/service/ai"
	interactionService "github.com/va9226-stack/SENTIENT-NEXUS/internal/service/interaction"
	learningService "github.com/va9226-stack/SENTIENT-NEXUS/internal/service/learning"
	"github.com/va9226-stack/SENTIENT-NEXUS/internal/service/nexus"
)

// NewRouter wires HTTP routes to core services. aiSvc may be nil when no
// model credentials are configured.
func NewRouter(entities entitymodel.Store, sessions *nexus.Service, interactions *interactionService.Service, aiSvc *aiService.Service, recorder learningService.Recorder) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middlewarePkg.CORS)

	r.Route("/api", func(api chi.Router) {
		entityHandler.New(entities).RegisterRoutes(api)
		sessionHandler.New(sessions, entities).RegisterRoutes(api)
		interactionHandler.New(interactions, aiSvc, sessions, entities).RegisterRoutes(api)
		learningHandler.New(recorder, entities).RegisterRoutes(api)
		events.New(sessions).RegisterRoutes(api)
	})

	return r
}
