package http

import (
	"log/slog"
	"net/http"

	"topicwheel/internal/auth"
	"topicwheel/internal/config"
	"topicwheel/internal/http/handler"
	mw "topicwheel/internal/http/middleware"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

// Handlers groups the endpoint handlers mounted by NewRouter.
type Handlers struct {
	Participant *handler.ParticipantHandler
	Admin       *handler.AdminHandler
	Health      *handler.HealthHandler
}

func NewRouter(cfg config.CORSConfig, logger *slog.Logger, jwtSvc *auth.JWT, h Handlers) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(mw.Logger(logger))
	r.Use(chimw.Recoverer)

	if origins := cfg.Origins(); len(origins) > 0 {
		r.Use(mw.CORS(origins, cfg.AllowCredentials))
	}

	r.Get("/health", h.Health.Health)

	r.Route("/api", func(r chi.Router) {
		r.Use(auth.Identify(jwtSvc))

		r.Post("/login", h.Participant.Login)
		r.Get("/me", h.Participant.Me)
		r.Post("/flow", h.Participant.Flow)
		r.Post("/idea", h.Participant.Idea)
		r.Post("/spin", h.Participant.Spin)
		r.Post("/complete", h.Participant.Complete)

		r.Route("/admin", func(r chi.Router) {
			r.Get("/users", h.Admin.Users)
			r.Get("/submissions", h.Admin.Submissions)
			r.Post("/submissions/{id}/approve", h.Admin.Approve)
			r.Post("/submissions/{id}/reject", h.Admin.Reject)
		})
	})

	return r
}
