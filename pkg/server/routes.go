package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/jwtauth/v5"

	"github.com/getveil/veil/pkg/auth"

	httpLogger "github.com/chi-middleware/logrus-logger"
	"github.com/getveil/veil/pkg/models"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

const ReadHeaderTimeout = 5 * time.Second

// Create creates a new HTTP server with the given app state
func Create(appState *models.AppState) *http.Server {
	router := setupRouter(appState)
	return &http.Server{
		Addr:              fmt.Sprintf(":%d", appState.Config.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: ReadHeaderTimeout,
	}
}

func setupRouter(appState *models.AppState) *chi.Mux {
	router := chi.NewRouter()
	router.Use(httpLogger.Logger("router", log))
	router.Use(middleware.Recoverer)
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(SendVersion)
	router.Use(middleware.Heartbeat("/healthz"))

	if len(appState.Config.Server.AllowedOrigins) > 0 {
		router.Use(AllowOrigins(appState.Config.Server.AllowedOrigins))
	}

	if appState.Config.Auth.Required {
		log.Info("JWT authentication required")
		tokenAuth := auth.TokenAuth(appState.Config)
		router.Use(jwtauth.Verifier(tokenAuth))
		router.Use(jwtauth.Authenticator(tokenAuth))
	}

	router.Route("/api/v1", func(r chi.Router) {
		r.Post("/anonymize", AnonymizeHandler(appState))
		r.Post("/deanonymize", DeanonymizeHandler(appState))
		r.Post("/preview", PreviewHandler(appState))
		r.Post("/stats", StatsHandler(appState))
		r.Delete("/mappings", ClearMappingsHandler(appState))
	})

	return router
}
