package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/zhouzirui/commcoach/backend/internal/config"
	engagementHandler "github.com/zhouzirui/commcoach/backend/internal/handler/engagement"
	faceHandler "github.com/zhouzirui/commcoach/backend/internal/handler/face"
	feedbackHandler "github.com/zhouzirui/commcoach/backend/internal/handler/feedback"
	sessionHandler "github.com/zhouzirui/commcoach/backend/internal/handler/session"
	middlewarePkg "github.com/zhouzirui/commcoach/backend/internal/middleware"
	feedbackservice "github.com/zhouzirui/commcoach/backend/internal/service/feedback"
	sessionservice "github.com/zhouzirui/commcoach/backend/internal/service/session"
	"github.com/zhouzirui/commcoach/backend/pkg/utils"
)

// NewRouter wires HTTP routes to core services.
func NewRouter(serverCfg config.ServerConfig, engCfg config.EngagementConfig, sessions *sessionservice.Service, engine *feedbackservice.Service) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middlewarePkg.Recover(serverCfg.Development()))
	r.Use(middlewarePkg.CORS)

	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		utils.RespondJSON(w, http.StatusNotFound, map[string]string{
			"error": "Route not found",
			"path":  req.URL.Path,
		})
	})

	r.Route("/api", func(api chi.Router) {
		api.Get("/health", handleHealth)

		feedbackHandler.New(engine).RegisterRoutes(api)
		sessionHandler.New(sessions).RegisterRoutes(api)
		faceHandler.New(sessions, engCfg.Interval).RegisterRoutes(api)
		engagementHandler.New(sessions).RegisterRoutes(api)
	})

	return r
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	utils.RespondJSON(w, http.StatusOK, map[string]string{
		"status":    "OK",
		"message":   "AI Communication Coach API is running",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
