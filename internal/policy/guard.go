package policy

import (
	"context"
	"net/http"
	"time"

	"github.com/diewo77/go-access"
	"github.com/diewo77/go-access/auth"
	"github.com/diewo77/go-access/httpx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Guard is the central access point of the service: the Checker over the
// registered kinds plus the profile cache it reads through.
type Guard struct {
	Checker       *access.Checker[uint]
	Registry      *access.Registry[uint]
	CacheResolver *access.CachedResolver[uint]
	logger        *zap.Logger
}

// NewGuard creates a fully configured guard.
//   - db: GORM connection for profile lookups
//   - cacheTTL, cacheSize: how long and how many profiles are cached
func NewGuard(db *gorm.DB, cacheTTL time.Duration, cacheSize int, logger *zap.Logger) *Guard {
	// Cache in front of the DB to avoid a query on every check
	cached := access.NewCachedResolver[uint](NewDBProfileResolver(db), cacheTTL, cacheSize)
	reg := NewRegistry(cached)
	kinds := reg.Kinds()
	names := make([]string, len(kinds))
	for i, k := range kinds {
		names[i] = string(k)
	}
	logger.Info("access policies registered", zap.Strings("kinds", names))
	return &Guard{
		Checker:       access.NewChecker[uint](reg, access.WithLogger(logger)),
		Registry:      reg,
		CacheResolver: cached,
		logger:        logger,
	}
}

// requester returns the current user, or 0 for anonymous requests.
func requester(ctx context.Context) uint {
	uid, _ := auth.UserIDFromContext(ctx)
	return uid
}

// Can reports whether the current user may perform action on target.
func (g *Guard) Can(ctx context.Context, action access.Action, target any) (bool, error) {
	return g.Checker.Can(ctx, requester(ctx), action, target)
}

// Authorize is Can in error form; see access.Checker.Authorize.
func (g *Guard) Authorize(ctx context.Context, action access.Action, target any) error {
	return g.Checker.Authorize(ctx, requester(ctx), action, target)
}

// IsAdmin reports whether the current user holds "*:*".
func (g *Guard) IsAdmin(ctx context.Context) bool {
	return SuperAdminCheck(g.CacheResolver)(ctx, requester(ctx))
}

// InvalidateUser clears the cached profile of one user.
// Call this when a user's profile is changed.
func (g *Guard) InvalidateUser(userID uint) {
	g.CacheResolver.Invalidate(userID)
}

// InvalidateAll clears the entire profile cache.
// Call this when profile permissions are modified.
func (g *Guard) InvalidateAll() {
	g.CacheResolver.InvalidateAll()
}

// WriteError translates an Authorize error into a JSON response:
// 403 for a denial, 500 for a kind without policy.
func (g *Guard) WriteError(w http.ResponseWriter, r *http.Request, err error) {
	if access.IsUnsupportedTarget(err) {
		g.logger.Error("access policy misconfigured",
			zap.String("path", r.URL.Path),
			zap.Error(err))
		httpx.JSONError(w, http.StatusInternalServerError, "policy_misconfigured", nil)
		return
	}
	httpx.JSONError(w, http.StatusForbidden, "forbidden", nil)
}

// RequireKind returns middleware running a kind-level check for the current user.
func (g *Guard) RequireKind(kind access.Kind, action access.Action) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if err := g.Authorize(r.Context(), action, kind); err != nil {
				g.WriteError(w, r, err)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireAdmin returns middleware that only allows users whose profile holds "*:*".
func (g *Guard) RequireAdmin() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := auth.UserIDFromContext(r.Context()); !ok {
				httpx.JSONError(w, http.StatusUnauthorized, "unauthorized", nil)
				return
			}
			if !g.IsAdmin(r.Context()) {
				httpx.JSONError(w, http.StatusForbidden, "forbidden", nil)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
