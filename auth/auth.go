// Package auth carries the requester identity of an HTTP request: a signed
// token in an "Authorization: Bearer" header or in the session cookie, both
// resolving to a user ID stored in the request context.
package auth

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/diewo77/go-access/httpx"
	"github.com/golang-jwt/jwt"
)

type ctxKey string

const (
	// SessionCookieName is the cookie holding the session token.
	SessionCookieName = "session"
	userIDCtxKey      = ctxKey("userID")
)

// ErrInvalidToken is returned for tokens that fail signature, expiry or subject checks.
var ErrInvalidToken = errors.New("invalid token")

// UserVerifier is an optional callback to validate that a token's user still exists.
// A non-nil error means the check itself failed, not that the user is gone.
type UserVerifier func(ctx context.Context, uid uint) (bool, error)

// Manager issues and validates HS256 tokens.
type Manager struct {
	secret   []byte
	ttl      time.Duration
	verifier UserVerifier
}

// NewManager creates a token manager. ttl bounds the lifetime of issued tokens.
func NewManager(secret string, ttl time.Duration) *Manager {
	return &Manager{secret: []byte(secret), ttl: ttl}
}

// SetUserVerifier configures the verifier used by RequireAuth.
func (m *Manager) SetUserVerifier(v UserVerifier) { m.verifier = v }

// Issue signs a token for userID and returns it with its expiry.
func (m *Manager) Issue(userID uint) (string, time.Time, error) {
	now := time.Now()
	expires := now.Add(m.ttl)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.StandardClaims{
		Subject:   strconv.FormatUint(uint64(userID), 10),
		IssuedAt:  now.Unix(),
		ExpiresAt: expires.Unix(),
	})
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", time.Time{}, errors.Wrap(err, "sign token")
	}
	return signed, expires, nil
}

// Parse validates a token and returns the user ID it was issued for.
func (m *Manager) Parse(token string) (uint, error) {
	claims := &jwt.StandardClaims{}
	_, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.Newf("unexpected signing method %v", t.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil {
		return 0, errors.Wrapf(ErrInvalidToken, "%v", err)
	}
	id, err := strconv.ParseUint(claims.Subject, 10, 64)
	if err != nil || id == 0 {
		return 0, errors.Wrapf(ErrInvalidToken, "subject %q", claims.Subject)
	}
	return uint(id), nil
}

// CreateSession issues a token for userID and stores it in the session cookie.
func (m *Manager) CreateSession(w http.ResponseWriter, userID uint) (string, error) {
	token, expires, err := m.Issue(userID)
	if err != nil {
		return "", err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Expires:  expires,
	})
	return token, nil
}

// ClearSession deletes the session cookie.
func ClearSession(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{Name: SessionCookieName, Value: "", Path: "/", Expires: time.Unix(0, 0), HttpOnly: true, SameSite: http.SameSiteLaxMode})
}

// FromRequest returns the user ID carried by the bearer token, or failing
// that by the session cookie.
func (m *Manager) FromRequest(r *http.Request) (uint, bool) {
	if h := r.Header.Get("Authorization"); h != "" {
		if token, ok := strings.CutPrefix(h, "Bearer "); ok {
			if uid, err := m.Parse(strings.TrimSpace(token)); err == nil {
				return uid, true
			}
		}
		return 0, false
	}
	c, err := r.Cookie(SessionCookieName)
	if err != nil || c.Value == "" {
		return 0, false
	}
	uid, err := m.Parse(c.Value)
	if err != nil {
		return 0, false
	}
	return uid, true
}

// WithUserID stores user id in context.
func WithUserID(ctx context.Context, userID uint) context.Context {
	return context.WithValue(ctx, userIDCtxKey, userID)
}

// UserIDFromContext extracts user id.
func UserIDFromContext(ctx context.Context) (uint, bool) {
	id, ok := ctx.Value(userIDCtxKey).(uint)
	return id, ok
}

// Middleware attaches the user id to the request context if present.
func (m *Manager) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if uid, ok := m.FromRequest(r); ok {
			r = r.WithContext(WithUserID(r.Context(), uid))
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAuth rejects requests without a (still existing) user with 401.
func (m *Manager) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		uid, ok := UserIDFromContext(r.Context())
		if !ok {
			httpx.JSONError(w, http.StatusUnauthorized, "unauthorized", nil)
			return
		}
		if m.verifier != nil {
			exists, err := m.verifier(r.Context(), uid)
			if err != nil {
				// Keep the session: the user may well exist.
				httpx.JSONError(w, http.StatusServiceUnavailable, "auth_unavailable", nil)
				return
			}
			if !exists {
				// Token refers to a deleted user: clear and treat as unauthorized.
				ClearSession(w)
				httpx.JSONError(w, http.StatusUnauthorized, "unauthorized", nil)
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}
