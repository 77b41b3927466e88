package handlers

import (
	"net/http"
	"strconv"

	"github.com/cockroachdb/errors"
	"github.com/diewo77/go-access"
	"github.com/diewo77/go-access/httpx"
	"github.com/diewo77/go-access/internal/models"
	"github.com/diewo77/go-access/internal/policy"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// AdminProfileHandler lists profiles and assigns them to users.
// Routes are expected behind Guard middleware (RequireKind or RequireAdmin).
type AdminProfileHandler struct {
	db     *gorm.DB
	guard  *policy.Guard
	logger *zap.Logger
}

// NewAdminProfileHandler creates a new admin profile handler.
func NewAdminProfileHandler(db *gorm.DB, guard *policy.Guard, logger *zap.Logger) *AdminProfileHandler {
	return &AdminProfileHandler{db: db, guard: guard, logger: logger}
}

type profileView struct {
	ID          uint                `json:"id"`
	Name        string              `json:"name"`
	Description string              `json:"description,omitempty"`
	IsSystem    bool                `json:"is_system"`
	Permissions []access.Permission `json:"permissions"`
}

// List returns every profile with its permission codes.
func (h *AdminProfileHandler) List(w http.ResponseWriter, r *http.Request) {
	var profiles []models.Profile
	if err := h.db.WithContext(r.Context()).Preload("Permissions").Order("name").Find(&profiles).Error; err != nil {
		h.logger.Error("list profiles", zap.Error(err))
		httpx.JSONError(w, http.StatusInternalServerError, "db_error", nil)
		return
	}

	out := make([]profileView, 0, len(profiles))
	for _, p := range profiles {
		perms := make([]access.Permission, 0, len(p.Permissions))
		for _, perm := range p.Permissions {
			perms = append(perms, perm.Code())
		}
		out = append(out, profileView{
			ID:          p.ID,
			Name:        p.Name,
			Description: p.Description,
			IsSystem:    p.IsSystem,
			Permissions: perms,
		})
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"profiles": out})
}

type assignProfileRequest struct {
	// ProfileID nil removes the user's profile.
	ProfileID *uint `json:"profile_id"`
}

// AssignProfile handles POST /admin/users/{id}/profile.
func (h *AdminProfileHandler) AssignProfile(w http.ResponseWriter, r *http.Request) {
	userID, err := strconv.ParseUint(r.PathValue("id"), 10, 64)
	if err != nil || userID == 0 {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_user_id", nil)
		return
	}
	var req assignProfileRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_body", nil)
		return
	}

	tx := h.db.WithContext(r.Context())
	var user models.User
	if err := tx.First(&user, userID).Error; err != nil {
		h.notFoundOr500(w, err, "user_not_found")
		return
	}
	if req.ProfileID != nil {
		var profile models.Profile
		if err := tx.First(&profile, *req.ProfileID).Error; err != nil {
			h.notFoundOr500(w, err, "profile_not_found")
			return
		}
	}

	if err := tx.Model(&user).Update("profile_id", req.ProfileID).Error; err != nil {
		h.logger.Error("assign profile", zap.Uint("user_id", user.ID), zap.Error(err))
		httpx.JSONError(w, http.StatusInternalServerError, "db_error", nil)
		return
	}
	// The next check for this user must see the new profile.
	h.guard.InvalidateUser(user.ID)

	h.logger.Info("profile assigned", zap.Uint("user_id", user.ID), zap.Any("profile_id", req.ProfileID))
	httpx.JSON(w, http.StatusOK, map[string]any{
		"user_id":    user.ID,
		"profile_id": req.ProfileID,
	})
}

func (h *AdminProfileHandler) notFoundOr500(w http.ResponseWriter, err error, code string) {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		httpx.JSONError(w, http.StatusNotFound, code, nil)
		return
	}
	h.logger.Error("admin query failed", zap.Error(err))
	httpx.JSONError(w, http.StatusInternalServerError, "db_error", nil)
}
