package main

import (
	"net/http"

	"github.com/diewo77/go-access"
	"github.com/diewo77/go-access/auth"
	"github.com/diewo77/go-access/httpx"
	"github.com/diewo77/go-access/internal/handlers"
	"github.com/diewo77/go-access/internal/logx"
	"github.com/diewo77/go-access/internal/models"
	"github.com/diewo77/go-access/internal/policy"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// App is the main application handler that sets up all routes.
type App struct {
	mux     *http.ServeMux
	handler http.Handler
	guard   *policy.Guard
	tokens  *auth.Manager
}

// NewApp creates a new application with all routes configured.
func NewApp(db *gorm.DB, guard *policy.Guard, tokens *auth.Manager, logger *zap.Logger) *App {
	app := &App{mux: http.NewServeMux(), guard: guard, tokens: tokens}
	app.setupRoutes(db, logger)
	// Global middleware: request log outermost, then requester identity.
	app.handler = logx.Middleware(logger, tokens.Middleware(app.mux))
	return app
}

// ServeHTTP implements http.Handler.
func (a *App) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	a.handler.ServeHTTP(w, r)
}

func (a *App) setupRoutes(db *gorm.DB, logger *zap.Logger) {
	ah := handlers.NewAuthHandler(db, a.tokens, logger)
	ph := handlers.NewPostHandler(db, a.guard, logger)
	ch := handlers.NewAccessHandler(a.guard)
	aph := handlers.NewAdminProfileHandler(db, a.guard, logger)

	// Public routes
	a.mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	a.mux.HandleFunc("POST /login", ah.Login)
	a.mux.HandleFunc("POST /logout", ah.Logout)

	// Access checks run for anonymous requesters too, as user 0.
	a.mux.HandleFunc("GET /access/{kind}/{action}", ch.Check)

	// Posts: handlers run their own kind-level or instance checks.
	a.mux.Handle("GET /posts", a.requireAuth(ph.List))
	a.mux.Handle("POST /posts", a.requireAuth(ph.Create))
	a.mux.Handle("GET /posts/{id}", a.requireAuth(ph.View))
	a.mux.Handle("PUT /posts/{id}", a.requireAuth(ph.Update))
	a.mux.Handle("DELETE /posts/{id}", a.requireAuth(ph.Delete))

	// Admin routes. Listing needs Profiles:list; assignment needs "*:*".
	a.mux.Handle("GET /admin/profiles",
		a.tokens.RequireAuth(a.guard.RequireKind(models.KindProfiles, access.ActionList)(http.HandlerFunc(aph.List))))
	a.mux.Handle("POST /admin/users/{id}/profile", a.requireAdmin(aph.AssignProfile))
}

func (a *App) requireAuth(next http.HandlerFunc) http.Handler {
	return a.tokens.RequireAuth(next)
}

func (a *App) requireAdmin(next http.HandlerFunc) http.Handler {
	return a.tokens.RequireAuth(a.guard.RequireAdmin()(next))
}
