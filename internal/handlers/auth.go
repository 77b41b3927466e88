package handlers

import (
	"net/http"

	"github.com/diewo77/go-access/auth"
	"github.com/diewo77/go-access/httpx"
	"github.com/diewo77/go-access/internal/models"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type AuthHandler struct {
	db     *gorm.DB
	tokens *auth.Manager
	logger *zap.Logger
}

func NewAuthHandler(db *gorm.DB, tokens *auth.Manager, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{db: db, tokens: tokens, logger: logger}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token  string `json:"token"`
	UserID uint   `json:"user_id"`
}

// Login checks the credentials and returns a token, also set as session cookie.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_body", nil)
		return
	}
	if req.Email == "" || req.Password == "" {
		httpx.JSONError(w, http.StatusBadRequest, "email_and_password_required", nil)
		return
	}

	var user models.User
	if err := h.db.WithContext(r.Context()).Where("email = ?", req.Email).First(&user).Error; err != nil {
		httpx.JSONError(w, http.StatusUnauthorized, "invalid_credentials", nil)
		return
	}
	if err := auth.CheckPassword(user.Password, req.Password); err != nil {
		h.logger.Info("login rejected", zap.String("email", req.Email))
		httpx.JSONError(w, http.StatusUnauthorized, "invalid_credentials", nil)
		return
	}

	token, err := h.tokens.CreateSession(w, user.ID)
	if err != nil {
		h.logger.Error("issue session", zap.Uint("user_id", user.ID), zap.Error(err))
		httpx.JSONError(w, http.StatusInternalServerError, "session_error", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, loginResponse{Token: token, UserID: user.ID})
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	auth.ClearSession(w)
	httpx.NoContent(w)
}
