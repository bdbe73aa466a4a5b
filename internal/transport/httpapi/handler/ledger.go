package handler

import (
	"net/http"

	"github.com/Fuzara/cashcraft/internal/ledger"
)

// LedgerHandler exposes whole-aggregate operations
type LedgerHandler struct {
	store *ledger.Store
}

// NewLedgerHandler creates a new ledger handler
func NewLedgerHandler(store *ledger.Store) *LedgerHandler {
	return &LedgerHandler{store: store}
}

// Reset handles POST /api/v1/ledger/reset: discard the caller's ledger
// and return a fresh seed.
func (h *LedgerHandler) Reset(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerFromRequest(w, r)
	if !ok {
		return
	}

	l, err := h.store.Reset(r.Context(), owner)
	if err != nil {
		respondAppError(w, err)
		return
	}
	respondJSON(w, l, http.StatusOK)
}

// Get handles GET /api/v1/ledger: the caller's full aggregate.
func (h *LedgerHandler) Get(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerFromRequest(w, r)
	if !ok {
		return
	}

	l, err := h.store.Load(r.Context(), owner)
	if err != nil {
		respondAppError(w, err)
		return
	}
	respondJSON(w, l, http.StatusOK)
}
