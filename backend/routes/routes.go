package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/upb/association-hub/backend/app"
	"github.com/upb/association-hub/backend/handlers"
	"github.com/upb/association-hub/backend/internal/observability"
	"github.com/upb/association-hub/backend/middleware"
	"github.com/upb/association-hub/backend/utils"
)

// SetupRoutes configures all application routes and middleware
func SetupRoutes(deps *app.Dependencies) http.Handler {
	r := chi.NewRouter()

	// Core middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestMeta)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(deps.Config.Server.RequestTimeout))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   deps.Config.CORS.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	if deps.Config.Observability.MetricsEnabled {
		r.Use(observability.HTTPMetricsMiddleware(deps.Metrics))
	}

	authMW := deps.AuthMiddleware
	logger := deps.Logger

	health := handlers.NewHealthHandler(deps.DB.DB, logger)
	if deps.Audit != nil {
		health = health.WithAuditStats(deps.Audit)
	}
	authH := handlers.NewAuthHandler(deps.AuthService, deps.UserService, logger)
	users := handlers.NewUserHandler(deps.UserService, logger)
	events := handlers.NewEventHandler(deps.EventService, logger)
	projects := handlers.NewProjectHandler(deps.ProjectService, logger)
	forum := handlers.NewForumHandler(deps.ForumService, logger)

	// Health check endpoints
	r.Get("/healthz", health.HandleHealth)
	r.Get("/readyz", health.HandleReadiness)

	if deps.Config.Observability.MetricsEnabled {
		r.Handle("/metrics", observability.Handler(deps.Registry))
	}

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", health.HandleHealth)

		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", authH.HandleRegister)
			r.Post("/login", authH.HandleLogin)

			r.Group(func(r chi.Router) {
				r.Use(authMW.RequireAuth)
				r.Get("/me", authH.HandleMe)
				r.Put("/me", authH.HandleUpdateMe)
			})
		})

		r.Route("/users", func(r chi.Router) {
			r.Use(authMW.RequireAuth)
			r.Get("/", users.HandleList)
			r.Get("/{id}", users.HandleGet)
			r.Put("/{id}", users.HandleUpdate)
			r.Delete("/{id}", users.HandleDelete)
		})

		r.Route("/events", func(r chi.Router) {
			// Public reads
			r.Group(func(r chi.Router) {
				r.Use(authMW.OptionalAuth)
				r.Get("/", events.HandleList)
				r.Get("/upcoming", events.HandleUpcoming)
				r.Get("/{id}", events.HandleGet)
			})

			r.Group(func(r chi.Router) {
				r.Use(authMW.RequireAuth)
				r.Post("/", events.HandleCreate)
				r.Put("/{id}", events.HandleUpdate)
				r.Delete("/{id}", events.HandleDelete)
			})
		})

		r.Route("/projects", func(r chi.Router) {
			r.Use(authMW.RequireAuth)
			r.Get("/", projects.HandleList)
			r.Post("/", projects.HandleCreate)
			r.Get("/my-projects", projects.HandleListMine)
			r.Get("/users/search", users.HandleSearch)
			r.Get("/{id}", projects.HandleGet)
			r.Put("/{id}", projects.HandleUpdate)
			r.Delete("/{id}", projects.HandleDelete)
			r.Get("/{id}/members", projects.HandleMembers)
			r.Post("/{id}/members", projects.HandleAddMember)
			r.Delete("/{id}/members/{userId}", projects.HandleRemoveMember)
		})

		r.Route("/forum", func(r chi.Router) {
			r.Group(func(r chi.Router) {
				r.Use(authMW.OptionalAuth)
				r.Get("/categories", forum.HandleListCategories)
				r.Get("/categories/{id}", forum.HandleGetCategory)
				r.Get("/categories/{id}/threads", forum.HandleCategoryThreads)
				r.Get("/threads/{id}", forum.HandleGetThread)
			})

			r.Group(func(r chi.Router) {
				r.Use(authMW.RequireAuth)
				r.Post("/categories", forum.HandleCreateCategory)
				r.Put("/categories/{id}", forum.HandleUpdateCategory)
				r.Delete("/categories/{id}", forum.HandleDeleteCategory)

				r.Post("/threads", forum.HandleCreateThread)
				r.Put("/threads/{id}", forum.HandleUpdateThread)
				r.Delete("/threads/{id}", forum.HandleDeleteThread)

				r.Post("/replies", forum.HandleCreateReply)
				r.Put("/replies/{id}", forum.HandleUpdateReply)
				r.Delete("/replies/{id}", forum.HandleDeleteReply)
			})
		})

		// Audit trail (require admin role)
		if deps.Audit != nil {
			auditH := handlers.NewAuditHandler(deps.Audit, logger)
			r.Route("/audit", func(r chi.Router) {
				r.Use(authMW.RequireAuth)
				r.Use(authMW.RequireAdmin)
				r.Get("/logs", auditH.HandleList)
			})
		}
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		_ = utils.WriteNotFound(w, "Route not found")
	})

	return r
}
