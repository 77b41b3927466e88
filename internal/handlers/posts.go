package handlers

import (
	"net/http"
	"strconv"

	"github.com/cockroachdb/errors"
	"github.com/diewo77/go-access"
	"github.com/diewo77/go-access/auth"
	"github.com/diewo77/go-access/httpx"
	"github.com/diewo77/go-access/internal/models"
	"github.com/diewo77/go-access/internal/policy"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// PostHandler serves the Posts kind. Kind-level checks guard list and create,
// instance checks guard everything that touches an existing post.
type PostHandler struct {
	db     *gorm.DB
	guard  *policy.Guard
	logger *zap.Logger
}

func NewPostHandler(db *gorm.DB, guard *policy.Guard, logger *zap.Logger) *PostHandler {
	return &PostHandler{db: db, guard: guard, logger: logger}
}

type postRequest struct {
	Title     string `json:"title"`
	Body      string `json:"body"`
	Published bool   `json:"published"`
}

func (h *PostHandler) List(w http.ResponseWriter, r *http.Request) {
	if err := h.guard.Authorize(r.Context(), access.ActionList, models.KindPosts); err != nil {
		h.guard.WriteError(w, r, err)
		return
	}

	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}
	limit := 20
	offset := (page - 1) * limit

	var posts []models.Post
	var total int64
	q := h.db.WithContext(r.Context()).Model(&models.Post{})
	if r.URL.Query().Get("mine") == "1" {
		uid, _ := auth.UserIDFromContext(r.Context())
		q = q.Where("user_id = ?", uid)
	}
	if err := q.Count(&total).Error; err != nil {
		h.dbError(w, err)
		return
	}
	if err := q.Order("id").Limit(limit).Offset(offset).Find(&posts).Error; err != nil {
		h.dbError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"posts": posts,
		"page":  page,
		"total": total,
	})
}

func (h *PostHandler) Create(w http.ResponseWriter, r *http.Request) {
	if err := h.guard.Authorize(r.Context(), access.ActionCreate, models.KindPosts); err != nil {
		h.guard.WriteError(w, r, err)
		return
	}
	var req postRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_body", nil)
		return
	}
	if req.Title == "" {
		httpx.JSONError(w, http.StatusBadRequest, "title_required", nil)
		return
	}

	uid, _ := auth.UserIDFromContext(r.Context())
	post := models.Post{UserID: uid, Title: req.Title, Body: req.Body, Published: req.Published}
	if err := h.db.WithContext(r.Context()).Create(&post).Error; err != nil {
		h.dbError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, post)
}

func (h *PostHandler) View(w http.ResponseWriter, r *http.Request) {
	post, ok := h.load(w, r, access.ActionRead)
	if !ok {
		return
	}
	httpx.JSON(w, http.StatusOK, post)
}

func (h *PostHandler) Update(w http.ResponseWriter, r *http.Request) {
	post, ok := h.load(w, r, access.ActionUpdate)
	if !ok {
		return
	}
	var req postRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_body", nil)
		return
	}
	if req.Title == "" {
		httpx.JSONError(w, http.StatusBadRequest, "title_required", nil)
		return
	}

	err := h.db.WithContext(r.Context()).Model(post).Updates(map[string]any{
		"title":     req.Title,
		"body":      req.Body,
		"published": req.Published,
	}).Error
	if err != nil {
		h.dbError(w, err)
		return
	}
	post.Title, post.Body, post.Published = req.Title, req.Body, req.Published
	httpx.JSON(w, http.StatusOK, post)
}

func (h *PostHandler) Delete(w http.ResponseWriter, r *http.Request) {
	post, ok := h.load(w, r, access.ActionDelete)
	if !ok {
		return
	}
	if err := h.db.WithContext(r.Context()).Delete(post).Error; err != nil {
		h.dbError(w, err)
		return
	}
	httpx.NoContent(w)
}

// load fetches the post named by the {id} path value and runs the instance
// check for action. It writes the error response itself and reports false
// when the handler must stop.
func (h *PostHandler) load(w http.ResponseWriter, r *http.Request, action access.Action) (*models.Post, bool) {
	id, err := strconv.ParseUint(r.PathValue("id"), 10, 64)
	if err != nil || id == 0 {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return nil, false
	}

	var post models.Post
	if err := h.db.WithContext(r.Context()).First(&post, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httpx.JSONError(w, http.StatusNotFound, "not_found", nil)
			return nil, false
		}
		h.dbError(w, err)
		return nil, false
	}

	if err := h.guard.Authorize(r.Context(), action, &post); err != nil {
		h.guard.WriteError(w, r, err)
		return nil, false
	}
	return &post, true
}

func (h *PostHandler) dbError(w http.ResponseWriter, err error) {
	h.logger.Error("posts query failed", zap.Error(err))
	httpx.JSONError(w, http.StatusInternalServerError, "db_error", nil)
}
