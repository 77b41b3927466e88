package handlers

import (
	"net/http"

	"github.com/diewo77/go-access"
	"github.com/diewo77/go-access/httpx"
	"github.com/diewo77/go-access/internal/policy"
)

// AccessHandler exposes kind-level checks so clients can decide what to show.
type AccessHandler struct {
	guard *policy.Guard
}

func NewAccessHandler(guard *policy.Guard) *AccessHandler {
	return &AccessHandler{guard: guard}
}

type accessResponse struct {
	Kind    access.Kind   `json:"kind"`
	Action  access.Action `json:"action"`
	Allowed bool          `json:"allowed"`
}

// Check answers GET /access/{kind}/{action} for the current requester.
// A kind without a policy is reported as 422 rather than as a denial.
func (h *AccessHandler) Check(w http.ResponseWriter, r *http.Request) {
	kind := access.Kind(r.PathValue("kind"))
	action := access.Action(r.PathValue("action"))
	if kind == "" || action == "" {
		httpx.JSONError(w, http.StatusBadRequest, "kind_and_action_required", nil)
		return
	}

	allowed, err := h.guard.Can(r.Context(), action, kind)
	if err != nil {
		httpx.JSONError(w, http.StatusUnprocessableEntity, "unsupported_target", map[string]string{"kind": string(kind)})
		return
	}
	httpx.JSON(w, http.StatusOK, accessResponse{Kind: kind, Action: action, Allowed: allowed})
}
