package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimid "github.com/go-chi/chi/v5/middleware"

	"github.com/planwise/engine/internal/api/handlers"
	mw "github.com/planwise/engine/internal/api/middleware"
	"github.com/planwise/engine/internal/models"
)

type Dependencies struct {
	Verifier           mw.TokenVerifier
	Limiter            mw.Limiter
	ClientIP           *mw.ClientIP
	CORSOrigins        []string
	HealthHandler      *handlers.HealthHandler
	AuthHandler        *handlers.AuthHandler
	IntentionsHandler  *handlers.IntentionsHandler
	ProjectsHandler    *handlers.ProjectsHandler
	SubprojectsHandler *handlers.SubprojectsHandler
	IssuesHandler      *handlers.IssuesHandler
}

// accountRoles may use every /account route.
var accountRoles = []models.Role{models.RoleFree, models.RolePremium, models.RoleAdmin}

func NewRouter(dep Dependencies) http.Handler {
	r := chi.NewRouter()

	// Built-in middleware
	r.Use(mw.RequestID)
	r.Use(mw.Recovery)
	r.Use(mw.Logging)
	r.Use(mw.CORS(dep.CORSOrigins))
	if dep.Limiter != nil {
		r.Use(mw.RateLimit(dep.Limiter, dep.ClientIP))
	}
	r.Use(chimid.Compress(5))

	// Health endpoints
	r.Get("/healthz", dep.HealthHandler.Liveness)
	r.Get("/readyz", dep.HealthHandler.Readiness)

	// Public account routes
	r.Post("/signup", dep.AuthHandler.Signup)
	r.Post("/login", dep.AuthHandler.Login)
	r.Post("/logout", dep.AuthHandler.Logout)

	r.Route("/account", func(ar chi.Router) {
		ar.Use(mw.Auth(dep.Verifier))
		ar.Use(mw.RequireRole(accountRoles...))

		ar.Get("/profile", dep.AuthHandler.Profile)
		ar.Post("/profile", dep.AuthHandler.UpdateProfile)

		ar.Get("/intentions", dep.IntentionsHandler.List)
		ar.Route("/intention", func(ir chi.Router) {
			ir.Post("/", dep.IntentionsHandler.Create)
			ir.Get("/", dep.IntentionsHandler.List)
			ir.Get("/{id}", dep.IntentionsHandler.Get)
			ir.Put("/{id}", dep.IntentionsHandler.Update)
			ir.Delete("/{id}", dep.IntentionsHandler.Delete)
		})

		ar.Route("/project", func(pr chi.Router) {
			pr.Post("/", dep.ProjectsHandler.Create)
			pr.Get("/", dep.ProjectsHandler.List)
			pr.Get("/{id}", dep.ProjectsHandler.Get)
			pr.Put("/{id}", dep.ProjectsHandler.Update)
			pr.Delete("/{id}", dep.ProjectsHandler.Delete)
		})

		ar.Route("/subproject", func(sr chi.Router) {
			sr.Post("/", dep.SubprojectsHandler.Create)
			sr.Get("/", dep.SubprojectsHandler.List)
			sr.Get("/{id}", dep.SubprojectsHandler.Get)
			sr.Put("/{id}", dep.SubprojectsHandler.Update)
			sr.Delete("/{id}", dep.SubprojectsHandler.Delete)
		})

		ar.Route("/issue", func(ir chi.Router) {
			ir.Post("/", dep.IssuesHandler.Create)
			ir.Get("/", dep.IssuesHandler.List)
			ir.Get("/{id}", dep.IssuesHandler.Get)
			ir.Put("/{id}", dep.IssuesHandler.Update)
			ir.Delete("/{id}", dep.IssuesHandler.Delete)
		})
	})

	return r
}
