package routes

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/upb/record-gate/app"
	"github.com/upb/record-gate/handlers"
)

// Permissions guarding the records resource
const (
	PermCreateRecord = "create_record"
	PermReadRecord   = "read_record"
	PermUpdateRecord = "update_record"
	PermDeleteRecord = "delete_record"
)

// SetupRoutes configures all application routes and middleware
func SetupRoutes(deps *app.Dependencies) http.Handler {
	r := chi.NewRouter()

	// Core middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:*", "https://*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	var dbCheck handlers.DatabaseChecker
	if deps.DB != nil {
		dbCheck = deps.DB
	}
	health := handlers.NewHealthHandler(dbCheck, deps.Catalog, deps.Logger)
	roles := handlers.NewRoleHandler(deps.Catalog, deps.Gate.AnonymousRole(), deps.Logger)
	records := handlers.NewRecordHandler(deps.RecordService, deps.Logger)
	gate := deps.Gate

	r.Get("/healthz", health.HandleHealth)
	r.Get("/readyz", health.HandleReadiness)

	r.Route("/api/v1", func(r chi.Router) {
		// Attaches claims when a token is present; tokenless requests stay anonymous
		r.Use(deps.AuthMiddleware.Authenticate)

		r.Get("/status", handlers.StatusHandler(deps))
		r.Get("/me/permissions", roles.HandleMyPermissions)

		r.With(deps.AuthMiddleware.RequireAuth).Get("/roles/{name}", roles.HandleGetRole)

		r.Route("/records", func(r chi.Router) {
			r.With(gate.CheckPermission(PermCreateRecord)).Post("/", records.HandleCreate)
			r.With(gate.CheckPermission(PermReadRecord)).Get("/", records.HandleList)
			r.With(gate.CheckPermission(PermReadRecord)).Get("/{id}", records.HandleGet)
			r.With(gate.CheckPermission(PermUpdateRecord)).Put("/{id}", records.HandleUpdate)
			r.With(gate.CheckPermission(PermDeleteRecord)).Delete("/{id}", records.HandleDelete)
		})
	})

	// 404 handler
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":"endpoint not found"}`))
	})

	return r
}
