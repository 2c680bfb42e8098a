// Package rest wires the journal's HTTP surface: five CRUD resource groups,
// the auth group, health and metrics.
package rest

import (
	"net/http"

	"lovelog-backend/domain"
	"lovelog-backend/infrastructure/config"
	"lovelog-backend/infrastructure/persistence"
	"lovelog-backend/interfaces/http/rest/handlers"
	"lovelog-backend/interfaces/http/rest/middleware"
	"lovelog-backend/pkg/auth"
	"lovelog-backend/pkg/common"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Router creates and configures the HTTP router.
type Router struct {
	cfg      *config.Config
	gateways map[domain.Kind]*persistence.Gateway
	users    *persistence.Gateway
	tokens   *auth.Service
	registry *prometheus.Registry
	logger   *zap.Logger
}

// NewRouter creates a new router instance.
func NewRouter(
	cfg *config.Config,
	gateways map[domain.Kind]*persistence.Gateway,
	users *persistence.Gateway,
	tokens *auth.Service,
	registry *prometheus.Registry,
	logger *zap.Logger,
) *Router {
	return &Router{
		cfg:      cfg,
		gateways: gateways,
		users:    users,
		tokens:   tokens,
		registry: registry,
		logger:   logger,
	}
}

// Setup configures all routes and middleware.
func (rt *Router) Setup() http.Handler {
	router := chi.NewRouter()

	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.RealIP)
	router.Use(chimiddleware.Recoverer)
	router.Use(middleware.Logger(rt.logger))

	// Cross-origin access is restricted to the one configured origin.
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{rt.cfg.AllowedOrigin},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	router.Get("/health", rt.healthCheck)
	router.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(rt.registry, promhttp.HandlerOpts{}))

	router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		common.RespondMessage(w, http.StatusNotFound, "resource not found")
	})

	router.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			authHandler := handlers.NewAuthHandler(rt.users, rt.tokens, rt.logger)
			r.Post("/register", authHandler.Register)
			r.Post("/login", authHandler.Login)
		})

		for _, kind := range domain.Kinds {
			kind := kind
			r.Route("/"+kind.String(), func(r chi.Router) {
				if rt.cfg.RequireAuth {
					r.Use(middleware.Authenticate(rt.tokens))
				}
				h := handlers.NewEntityHandler(kind, rt.gateways[kind], rt.logger)
				r.Get("/", h.List)
				r.Post("/", h.Create)
				// "clear" must not be captured by the {id} routes.
				r.Delete("/clear", h.Clear)
				r.Put("/{id}", h.Update)
				r.Delete("/{id}", h.Delete)
			})
		}
	})

	return router
}

// healthCheck reports liveness and which backend is serving.
func (rt *Router) healthCheck(w http.ResponseWriter, r *http.Request) {
	mode := "durable"
	if g, ok := rt.gateways[domain.KindMemory]; ok && !g.DurableAvailable() {
		mode = "memory"
	}
	common.RespondJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"storage": mode,
	})
}
