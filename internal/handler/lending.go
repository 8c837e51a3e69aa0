package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/DerDob/kleiderkammer/internal/domain"
	"github.com/DerDob/kleiderkammer/internal/service"
)

// LendingMetrics counts issued and returned lendings. May be nil.
type LendingMetrics interface {
	RecordIssue()
	RecordReturn()
}

// LendingHandler handles lending HTTP requests.
type LendingHandler struct {
	ledger  *service.LedgerService
	policy  *service.Policy
	metrics LendingMetrics
}

// NewLendingHandler creates a new LendingHandler.
func NewLendingHandler(ledger *service.LedgerService, policy *service.Policy, metrics LendingMetrics) *LendingHandler {
	return &LendingHandler{ledger: ledger, policy: policy, metrics: metrics}
}

// HandleList returns all lendings for admins, otherwise the caller's own.
// GET /api/lendings
func (h *LendingHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())

	var lendings []domain.Lending
	var err error
	if h.policy.CanViewAllLendings(user) {
		lendings, err = h.ledger.ListLendings(r.Context())
	} else {
		lendings, err = h.ledger.ListLendingsForUser(r.Context(), user.Email)
	}
	if err != nil {
		slog.Error("list lendings", "error", err)
		writeError(w, http.StatusInternalServerError, "An unexpected error occurred.")
		return
	}

	items, err := h.itemIndex(r)
	if err != nil {
		slog.Error("index clothing", "error", err)
		writeError(w, http.StatusInternalServerError, "An unexpected error occurred.")
		return
	}

	dtos := toLendingDTOs(lendings, items)
	if dtos == nil {
		dtos = []LendingDTO{}
	}
	writeJSON(w, http.StatusOK, dtos)
}

// HandleIssue issues one unit of a clothing item. Users issue to themselves;
// issuing to someone else is an admin operation.
// POST /api/lendings
// Request: {"clothingId":"...","userEmail":"..."}
func (h *LendingHandler) HandleIssue(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())

	var req struct {
		ClothingID string `json:"clothingId"`
		UserEmail  string `json:"userEmail"`
	}
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	if req.UserEmail == "" {
		req.UserEmail = user.Email
	}
	if req.UserEmail != user.Email && !h.policy.IsAdmin(user) {
		writeError(w, http.StatusForbidden, "Only administrators may issue items to other users.")
		return
	}

	lending, err := h.ledger.Issue(r.Context(), req.ClothingID, req.UserEmail)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidInput):
			writeError(w, http.StatusUnprocessableEntity, err.Error())
		case errors.Is(err, domain.ErrNotFound):
			writeError(w, http.StatusNotFound, "Clothing item not found.")
		case errors.Is(err, domain.ErrUnavailable):
			writeError(w, http.StatusConflict, "No items available.")
		default:
			slog.Error("issue lending", "error", err)
			writeError(w, http.StatusInternalServerError, "An unexpected error occurred.")
		}
		return
	}

	if h.metrics != nil {
		h.metrics.RecordIssue()
	}

	items, err := h.itemIndex(r)
	if err != nil {
		slog.Error("index clothing", "error", err)
		writeError(w, http.StatusInternalServerError, "An unexpected error occurred.")
		return
	}
	writeJSON(w, http.StatusCreated, toLendingDTO(lending, items))
}

// HandleReturn closes a lending. Admins may return any lending, users only
// their own.
// POST /api/lendings/{id}/return
func (h *LendingHandler) HandleReturn(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())
	id := r.PathValue("id")

	lending, err := h.ledger.GetLending(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Lending not found.")
			return
		}
		slog.Error("get lending", "error", err)
		writeError(w, http.StatusInternalServerError, "An unexpected error occurred.")
		return
	}

	if !h.policy.CanManageLending(user, lending) {
		writeError(w, http.StatusForbidden, "You may only return your own lendings.")
		return
	}

	returned, err := h.ledger.Return(r.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			writeError(w, http.StatusNotFound, "Lending not found.")
		case errors.Is(err, domain.ErrAlreadyReturned):
			writeError(w, http.StatusConflict, "Lending already returned.")
		default:
			slog.Error("return lending", "error", err)
			writeError(w, http.StatusInternalServerError, "An unexpected error occurred.")
		}
		return
	}

	if h.metrics != nil {
		h.metrics.RecordReturn()
	}

	items, err := h.itemIndex(r)
	if err != nil {
		slog.Error("index clothing", "error", err)
		writeError(w, http.StatusInternalServerError, "An unexpected error occurred.")
		return
	}
	writeJSON(w, http.StatusOK, toLendingDTO(returned, items))
}

// itemIndex builds a clothing lookup for denormalizing lending responses.
func (h *LendingHandler) itemIndex(r *http.Request) (map[string]domain.ClothingItem, error) {
	items, err := h.ledger.ListItems(r.Context())
	if err != nil {
		return nil, err
	}
	index := make(map[string]domain.ClothingItem, len(items))
	for _, item := range items {
		index[item.ID] = item
	}
	return index, nil
}
