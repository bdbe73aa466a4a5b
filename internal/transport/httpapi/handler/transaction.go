package handler

import (
	"encoding/json"
	"net/http"

	"github.com/Fuzara/cashcraft/internal/ledger"
	"github.com/Fuzara/cashcraft/internal/transaction"
)

// TransactionHandler handles transaction-related HTTP requests
type TransactionHandler struct {
	transactions *transaction.Service
}

// NewTransactionHandler creates a new transaction handler
func NewTransactionHandler(transactions *transaction.Service) *TransactionHandler {
	return &TransactionHandler{transactions: transactions}
}

// CreateTransactionRequest represents the create transaction request body
type CreateTransactionRequest struct {
	WalletID    int64                  `json:"walletId"`
	Description string                 `json:"description"`
	Amount      string                 `json:"amount"`
	Category    string                 `json:"category"`
	Type        ledger.TransactionType `json:"type"`
}

// UpdateTransactionRequest represents the update request body
type UpdateTransactionRequest struct {
	Description string                 `json:"description"`
	Amount      string                 `json:"amount"`
	Category    string                 `json:"category"`
	Type        ledger.TransactionType `json:"type"`
}

// GetTransactions handles GET /api/v1/transactions
func (h *TransactionHandler) GetTransactions(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerFromRequest(w, r)
	if !ok {
		return
	}

	txs, err := h.transactions.List(r.Context(), owner)
	if err != nil {
		respondAppError(w, err)
		return
	}
	respondJSON(w, txs, http.StatusOK)
}

// CreateTransaction handles POST /api/v1/transactions
func (h *TransactionHandler) CreateTransaction(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerFromRequest(w, r)
	if !ok {
		return
	}

	var req CreateTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	tx, err := h.transactions.Add(r.Context(), owner, req.WalletID, transaction.Input{
		Description: req.Description,
		Amount:      req.Amount,
		Category:    req.Category,
		Type:        req.Type,
	})
	if err != nil {
		respondAppError(w, err)
		return
	}
	respondJSON(w, tx, http.StatusCreated)
}

// UpdateTransaction handles PUT /api/v1/transactions/{id}
func (h *TransactionHandler) UpdateTransaction(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerFromRequest(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req UpdateTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	tx, err := h.transactions.Update(r.Context(), owner, id, transaction.Input{
		Description: req.Description,
		Amount:      req.Amount,
		Category:    req.Category,
		Type:        req.Type,
	})
	if err != nil {
		respondAppError(w, err)
		return
	}
	respondJSON(w, tx, http.StatusOK)
}

// DeleteTransaction handles DELETE /api/v1/transactions/{id}
func (h *TransactionHandler) DeleteTransaction(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerFromRequest(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := h.transactions.Delete(r.Context(), owner, id); err != nil {
		respondAppError(w, err)
		return
	}
	respondJSON(w, map[string]bool{"deleted": true}, http.StatusOK)
}
