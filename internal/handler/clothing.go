package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/DerDob/kleiderkammer/internal/domain"
	"github.com/DerDob/kleiderkammer/internal/service"
)

// ClothingHandler handles clothing stock HTTP requests.
type ClothingHandler struct {
	ledger *service.LedgerService
	policy *service.Policy
}

// NewClothingHandler creates a new ClothingHandler.
func NewClothingHandler(ledger *service.LedgerService, policy *service.Policy) *ClothingHandler {
	return &ClothingHandler{ledger: ledger, policy: policy}
}

// HandleList returns all clothing items with their open-lending counts.
// GET /api/clothing
func (h *ClothingHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	items, err := h.ledger.ListItems(r.Context())
	if err != nil {
		slog.Error("list clothing", "error", err)
		writeError(w, http.StatusInternalServerError, "An unexpected error occurred.")
		return
	}

	open, err := h.ledger.OpenLendingCounts(r.Context())
	if err != nil {
		slog.Error("count open lendings", "error", err)
		writeError(w, http.StatusInternalServerError, "An unexpected error occurred.")
		return
	}

	dtos := make([]ClothingDTO, len(items))
	for i := range items {
		dtos[i] = toClothingDTO(&items[i], open[items[i].ID])
	}
	writeJSON(w, http.StatusOK, dtos)
}

// HandleGet returns one clothing item.
// GET /api/clothing/{id}
func (h *ClothingHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	item, err := h.ledger.GetItem(r.Context(), r.PathValue("id"))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Clothing item not found.")
			return
		}
		slog.Error("get clothing", "error", err)
		writeError(w, http.StatusInternalServerError, "An unexpected error occurred.")
		return
	}

	open, err := h.ledger.OpenLendingCounts(r.Context())
	if err != nil {
		slog.Error("count open lendings", "error", err)
		writeError(w, http.StatusInternalServerError, "An unexpected error occurred.")
		return
	}

	writeJSON(w, http.StatusOK, toClothingDTO(item, open[item.ID]))
}

// HandleAdd creates a new clothing item. Admin only.
// POST /api/clothing
// Request: {"clothing":"...","size":"...","count":3}
func (h *ClothingHandler) HandleAdd(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())
	if !h.policy.CanManageInventory(user) {
		writeError(w, http.StatusForbidden, "Only administrators may manage the inventory.")
		return
	}

	var req struct {
		Clothing string `json:"clothing"`
		Size     string `json:"size"`
		Count    int    `json:"count"`
	}
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	item, err := h.ledger.AddItem(r.Context(), req.Clothing, req.Size, req.Count)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			writeError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		slog.Error("add clothing", "error", err)
		writeError(w, http.StatusInternalServerError, "An unexpected error occurred.")
		return
	}

	writeJSON(w, http.StatusCreated, toClothingDTO(item, 0))
}
