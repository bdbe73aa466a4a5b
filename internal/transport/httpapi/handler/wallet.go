package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/Fuzara/cashcraft/internal/ledger"
	"github.com/Fuzara/cashcraft/internal/wallet"
	"github.com/Fuzara/cashcraft/pkg/money"
)

// WalletHandler handles wallet-related HTTP requests
type WalletHandler struct {
	wallets *wallet.Service
}

// NewWalletHandler creates a new wallet handler
func NewWalletHandler(wallets *wallet.Service) *WalletHandler {
	return &WalletHandler{wallets: wallets}
}

// CreateWalletRequest represents the create wallet request body
type CreateWalletRequest struct {
	Name string `json:"name"`
}

// RenameWalletRequest represents the rename request body
type RenameWalletRequest struct {
	Name string `json:"name"`
}

// AmountRequest carries a minor-unit amount in the tagged bigint shape
// (or a bare decimal string).
type AmountRequest struct {
	Amount *money.BigInt `json:"amount"`
}

// BalanceRequest carries a replacement balance in minor units.
type BalanceRequest struct {
	Balance *money.BigInt `json:"balance"`
}

// MoveRequest carries a minor-unit transfer into another wallet.
type MoveRequest struct {
	TargetID int64         `json:"targetId"`
	Amount   *money.BigInt `json:"amount"`
}

// AllocationRequest represents a full sub-wallet allocation save.
type AllocationRequest struct {
	SubWallets []wallet.AllocationInput `json:"subWallets"`
}

// WalletListResponse wraps the wallet list with the reserve balance.
type WalletListResponse struct {
	Wallets        []*ledger.Wallet `json:"wallets"`
	ReserveBalance *money.BigInt    `json:"reserveBalance"`
}

// GetWallets handles GET /api/v1/wallets
func (h *WalletHandler) GetWallets(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerFromRequest(w, r)
	if !ok {
		return
	}

	wallets, err := h.wallets.List(r.Context(), owner)
	if err != nil {
		respondAppError(w, err)
		return
	}
	reserve, err := h.wallets.ReserveBalance(r.Context(), owner)
	if err != nil {
		respondAppError(w, err)
		return
	}

	respondJSON(w, WalletListResponse{Wallets: wallets, ReserveBalance: reserve}, http.StatusOK)
}

// GetWallet handles GET /api/v1/wallets/{id}
func (h *WalletHandler) GetWallet(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerFromRequest(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	wlt, err := h.wallets.Get(r.Context(), owner, id)
	if err != nil {
		respondAppError(w, err)
		return
	}
	respondJSON(w, wlt, http.StatusOK)
}

// CreateWallet handles POST /api/v1/wallets
func (h *WalletHandler) CreateWallet(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerFromRequest(w, r)
	if !ok {
		return
	}

	var req CreateWalletRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	wlt, err := h.wallets.Create(r.Context(), owner, req.Name)
	if err != nil {
		respondAppError(w, err)
		return
	}
	respondJSON(w, wlt, http.StatusCreated)
}

// RenameWallet handles PUT /api/v1/wallets/{id}
func (h *WalletHandler) RenameWallet(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerFromRequest(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req RenameWalletRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	wlt, err := h.wallets.Rename(r.Context(), owner, id, req.Name)
	if err != nil {
		respondAppError(w, err)
		return
	}
	respondJSON(w, wlt, http.StatusOK)
}

// DeleteWallet handles DELETE /api/v1/wallets/{id}?target=reserve|<walletID>
func (h *WalletHandler) DeleteWallet(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerFromRequest(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	target := wallet.DeleteTarget{ToReserve: true}
	if raw := r.URL.Query().Get("target"); raw != "" && raw != "reserve" {
		targetID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			respondError(w, "target must be 'reserve' or a wallet id", http.StatusBadRequest)
			return
		}
		target = wallet.DeleteTarget{WalletID: targetID}
	}

	if err := h.wallets.Delete(r.Context(), owner, id, target); err != nil {
		respondAppError(w, err)
		return
	}
	respondJSON(w, map[string]bool{"deleted": true}, http.StatusOK)
}

// Deposit handles POST /api/v1/wallets/{id}/deposit
func (h *WalletHandler) Deposit(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerFromRequest(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req AmountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Amount.IsNil() {
		respondError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	wlt, err := h.wallets.Deposit(r.Context(), owner, id, req.Amount)
	if err != nil {
		respondAppError(w, err)
		return
	}
	respondJSON(w, wlt, http.StatusOK)
}

// MoveFunds handles POST /api/v1/wallets/{id}/move
func (h *WalletHandler) MoveFunds(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerFromRequest(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req MoveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Amount.IsNil() {
		respondError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.wallets.MoveFunds(r.Context(), owner, id, req.TargetID, req.Amount); err != nil {
		respondAppError(w, err)
		return
	}
	respondJSON(w, map[string]bool{"moved": true}, http.StatusOK)
}

// SetBalance handles PUT /api/v1/wallets/{id}/balance
func (h *WalletHandler) SetBalance(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerFromRequest(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req BalanceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Balance.IsNil() {
		respondError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	wlt, err := h.wallets.SetBalance(r.Context(), owner, id, req.Balance)
	if err != nil {
		respondAppError(w, err)
		return
	}
	respondJSON(w, wlt, http.StatusOK)
}

// UpdateAllocation handles PUT /api/v1/wallets/{id}/allocation
func (h *WalletHandler) UpdateAllocation(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerFromRequest(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req AllocationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	wlt, err := h.wallets.UpdateAllocation(r.Context(), owner, id, req.SubWallets)
	if err != nil {
		respondAppError(w, err)
		return
	}
	respondJSON(w, wlt, http.StatusOK)
}
