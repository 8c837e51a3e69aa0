package handler

import (
	"net/http"

	"github.com/DerDob/kleiderkammer/internal/service"
)

// UserHandler handles directory user HTTP requests.
type UserHandler struct {
	directory *service.Directory
	policy    *service.Policy
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(directory *service.Directory, policy *service.Policy) *UserHandler {
	return &UserHandler{directory: directory, policy: policy}
}

// HandleList returns the current directory snapshot. Admin only; regular
// users have no reason to browse the directory.
// GET /api/users
func (h *UserHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())
	if !h.policy.CanViewAllLendings(user) {
		writeError(w, http.StatusForbidden, "Only administrators may list users.")
		return
	}

	writeJSON(w, http.StatusOK, toUserDTOs(h.directory.List()))
}

// HandleMe returns the authenticated user as seen by the session.
// GET /api/users/me
func (h *UserHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())
	writeJSON(w, http.StatusOK, toUserDTO(user))
}
