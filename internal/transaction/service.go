// Package transaction implements the transaction engine: recording
// income and expense entries against wallets, keeping the wallet and
// global transaction lists in sync, and maintaining wallet balances
// through every mutation.
package transaction

import (
	"context"
	"math/big"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"

	"github.com/Fuzara/cashcraft/internal/ledger"
	apperrors "github.com/Fuzara/cashcraft/internal/shared/errors"
	"github.com/Fuzara/cashcraft/pkg/logger"
	"github.com/Fuzara/cashcraft/pkg/money"
)

// Input is the caller-supplied part of a new transaction.
type Input struct {
	Description string                 `json:"description"`
	Amount      string                 `json:"amount"`
	Category    string                 `json:"category"`
	Type        ledger.TransactionType `json:"type"`
}

// Service implements transaction operations on the ledger.
type Service struct {
	store     *ledger.Store
	rate      money.Rate
	sanitizer *bluemonday.Policy
	logger    *logger.Logger
	now       func() time.Time
}

// NewService creates a transaction service using the given exchange
// rate for display-currency conversion.
func NewService(store *ledger.Store, rate money.Rate, log *logger.Logger) *Service {
	return &Service{
		store:     store,
		rate:      rate,
		sanitizer: bluemonday.StrictPolicy(),
		logger:    log.WithField("component", "transaction.service"),
		now:       time.Now,
	}
}

// delta converts a transaction's display amount to its signed
// minor-unit balance effect: positive for income, negative for expense.
func (s *Service) delta(amount string, txType ledger.TransactionType) (*big.Int, error) {
	e8s, err := s.rate.DisplayToE8s(amount)
	if err != nil {
		return nil, apperrors.Validation(ErrInvalidAmount.Error())
	}
	if e8s.Sign() <= 0 {
		return nil, apperrors.Validation(ErrInvalidAmount.Error())
	}
	if txType == ledger.TransactionExpense {
		e8s.Neg(e8s)
	}
	return e8s, nil
}

func (s *Service) validate(in Input) (Input, error) {
	in.Description = strings.TrimSpace(s.sanitizer.Sanitize(in.Description))
	in.Category = strings.TrimSpace(s.sanitizer.Sanitize(in.Category))
	if in.Description == "" {
		return in, apperrors.Validation(ErrMissingDescription.Error())
	}
	if !in.Type.IsValid() {
		return in, apperrors.Validation(ErrInvalidType.Error())
	}
	if in.Category == "" {
		in.Category = "Other"
	}
	return in, nil
}

// nextTxID derives a fresh transaction ID from the clock, bumping past
// collisions with existing IDs.
func (s *Service) nextTxID(l *ledger.Ledger) int64 {
	id := s.now().UnixMilli()
	taken := make(map[int64]bool, len(l.Transactions))
	for _, tx := range l.Transactions {
		taken[tx.ID] = true
	}
	for taken[id] {
		id++
	}
	return id
}

// Add records a transaction against a wallet: applies the signed
// minor-unit delta to the wallet balance (an expense may drive it
// negative), appends the entry to the wallet's list and the global
// log, recomputes the wallet's sub-wallet balances and persists the
// aggregate. An unknown wallet is a reported not-found error.
func (s *Service) Add(ctx context.Context, owner ledger.Owner, walletID int64, in Input) (*ledger.Transaction, error) {
	in, err := s.validate(in)
	if err != nil {
		return nil, err
	}
	delta, err := s.delta(in.Amount, in.Type)
	if err != nil {
		return nil, err
	}

	var created *ledger.Transaction
	_, err = s.store.Update(ctx, owner, func(l *ledger.Ledger) error {
		w := l.FindWallet(walletID)
		if w == nil {
			return apperrors.NotFound("wallet")
		}

		created = &ledger.Transaction{
			ID:          s.nextTxID(l),
			Description: in.Description,
			Amount:      in.Amount,
			Category:    in.Category,
			Date:        s.now().UTC().Format(time.RFC3339),
			Type:        in.Type,
			WalletName:  w.Name,
		}

		w.Balance.Int.Add(w.Balance.Int, delta)
		w.Transactions = append(w.Transactions, created)
		l.Transactions = append(l.Transactions, created)
		ledger.Recompute(w)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("transaction recorded",
		"owner", owner.String(), "wallet_id", walletID,
		"tx_id", created.ID, "type", string(created.Type))
	return created, nil
}

// Update replaces a transaction by ID in both the global log and the
// owning wallet's list, and keeps the wallet balance consistent by a
// compensating adjustment: the old entry's delta is reversed and the
// new entry's delta applied before recomputing allocations.
func (s *Service) Update(ctx context.Context, owner ledger.Owner, txID int64, in Input) (*ledger.Transaction, error) {
	in, err := s.validate(in)
	if err != nil {
		return nil, err
	}
	newDelta, err := s.delta(in.Amount, in.Type)
	if err != nil {
		return nil, err
	}

	var updated *ledger.Transaction
	_, err = s.store.Update(ctx, owner, func(l *ledger.Ledger) error {
		old := findTx(l.Transactions, txID)
		if old == nil {
			return apperrors.Wrap(ErrTransactionNotFound, apperrors.ErrCodeNotFound, "transaction not found")
		}

		oldDelta, err := s.delta(old.Amount, old.Type)
		if err != nil {
			// Legacy entries can hold amounts that no longer parse;
			// treat their balance effect as zero
			oldDelta = big.NewInt(0)
		}

		old.Description = in.Description
		old.Amount = in.Amount
		old.Category = in.Category
		old.Type = in.Type
		updated = old

		if w := l.FindWalletByName(old.WalletName); w != nil {
			w.Balance.Int.Sub(w.Balance.Int, oldDelta)
			w.Balance.Int.Add(w.Balance.Int, newDelta)
			syncWalletTx(w, old)
			ledger.Recompute(w)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Delete removes a transaction from both lists and reverses its
// original balance effect on the owning wallet.
func (s *Service) Delete(ctx context.Context, owner ledger.Owner, txID int64) error {
	_, err := s.store.Update(ctx, owner, func(l *ledger.Ledger) error {
		old := findTx(l.Transactions, txID)
		if old == nil {
			return apperrors.Wrap(ErrTransactionNotFound, apperrors.ErrCodeNotFound, "transaction not found")
		}

		l.Transactions = removeTx(l.Transactions, txID)

		if w := l.FindWalletByName(old.WalletName); w != nil {
			w.Transactions = removeTx(w.Transactions, txID)
			if oldDelta, err := s.delta(old.Amount, old.Type); err == nil {
				w.Balance.Int.Sub(w.Balance.Int, oldDelta)
			}
			ledger.Recompute(w)
		}
		return nil
	})
	return err
}

// List returns the global transaction log, newest first.
func (s *Service) List(ctx context.Context, owner ledger.Owner) ([]*ledger.Transaction, error) {
	l, err := s.store.Load(ctx, owner)
	if err != nil {
		return nil, err
	}

	out := make([]*ledger.Transaction, len(l.Transactions))
	copy(out, l.Transactions)
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out, nil
}

func findTx(txs []*ledger.Transaction, id int64) *ledger.Transaction {
	for _, tx := range txs {
		if tx.ID == id {
			return tx
		}
	}
	return nil
}

func removeTx(txs []*ledger.Transaction, id int64) []*ledger.Transaction {
	out := txs[:0]
	for _, tx := range txs {
		if tx.ID != id {
			out = append(out, tx)
		}
	}
	return out
}

// syncWalletTx makes sure the wallet's copy of the entry is the same
// object as the global log's after an update.
func syncWalletTx(w *ledger.Wallet, tx *ledger.Transaction) {
	for i, wtx := range w.Transactions {
		if wtx.ID == tx.ID {
			w.Transactions[i] = tx
			return
		}
	}
	w.Transactions = append(w.Transactions, tx)
}
