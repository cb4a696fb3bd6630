package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"go-account-service/internal/config"
	"go-account-service/internal/handler"
	"go-account-service/internal/middleware"
)

type Handlers struct {
	Auth    *handler.AuthHandler
	Account *handler.AccountHandler
	Health  *handler.HealthHandler
}

// New assembles the route table. Guard ordering is structural: admin-only
// routes compose RequireAuth before RequireAdmin, so the role guard always
// runs against claims the authentication guard resolved.
func New(cfg *config.Config, authMiddleware *middleware.AuthMiddleware, h Handlers) http.Handler {
	r := chi.NewRouter()
	rateLimitMiddleware := middleware.NewRateLimitMiddleware(cfg.RateLimitRPM, cfg.AuthRateLimitRPM)

	r.Use(middleware.Recovery)
	r.Use(middleware.Logging)
	r.Use(middleware.CORS(cfg.CORSOrigins))
	r.Use(rateLimitMiddleware.Handler)
	r.Use(middleware.Timeout(cfg.RequestTimeout))

	r.Get("/health", h.Health.Check)

	r.Route("/auth", func(auth chi.Router) {
		auth.Post("/register", h.Auth.Register)
		auth.Post("/login", h.Auth.Login)
	})

	r.Route("/users", func(users chi.Router) {
		users.Use(authMiddleware.RequireAuth)
		users.Get("/", h.Account.List)
		users.Get("/{id}", h.Account.Get)
		users.Put("/{id}", h.Account.Update)
	})

	r.Route("/admin/users", func(admin chi.Router) {
		admin.Use(authMiddleware.RequireAuth, authMiddleware.RequireAdmin)
		admin.Delete("/{id}", h.Account.Delete)
	})

	return r
}
