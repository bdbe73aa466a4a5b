// Package wallet implements wallet lifecycle operations: create,
// rename, delete with fund transfer, deposits, balance updates and
// allocation changes. All operations run as whole-aggregate updates
// through the ledger store.
package wallet

import (
	"context"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"

	"github.com/Fuzara/cashcraft/internal/ledger"
	apperrors "github.com/Fuzara/cashcraft/internal/shared/errors"
	"github.com/Fuzara/cashcraft/pkg/logger"
	"github.com/Fuzara/cashcraft/pkg/money"
)

// DeleteTarget says where a deleted wallet's funds go.
type DeleteTarget struct {
	// ToReserve parks the funds in the reserve balance. Takes
	// precedence over WalletID.
	ToReserve bool
	// WalletID transfers the funds into another wallet.
	WalletID int64
}

// Service implements wallet lifecycle operations.
type Service struct {
	store     *ledger.Store
	sanitizer *bluemonday.Policy
	logger    *logger.Logger
}

// NewService creates a wallet service.
func NewService(store *ledger.Store, log *logger.Logger) *Service {
	return &Service{
		store:     store,
		sanitizer: bluemonday.StrictPolicy(),
		logger:    log.WithField("component", "wallet.service"),
	}
}

// cleanName sanitizes and validates a wallet display name.
func (s *Service) cleanName(name string) (string, error) {
	name = strings.TrimSpace(s.sanitizer.Sanitize(name))
	if name == "" {
		return "", apperrors.Validation(ErrMissingWalletName.Error())
	}
	if len(name) > 100 {
		return "", apperrors.Validation(ErrWalletNameTooLong.Error())
	}
	return name, nil
}

// List returns all wallets in the owner's ledger.
func (s *Service) List(ctx context.Context, owner ledger.Owner) ([]*ledger.Wallet, error) {
	l, err := s.store.Load(ctx, owner)
	if err != nil {
		return nil, err
	}
	return l.Wallets, nil
}

// Get returns a single wallet by ID.
func (s *Service) Get(ctx context.Context, owner ledger.Owner, walletID int64) (*ledger.Wallet, error) {
	l, err := s.store.Load(ctx, owner)
	if err != nil {
		return nil, err
	}
	w := l.FindWallet(walletID)
	if w == nil {
		return nil, apperrors.Wrap(ErrWalletNotFound, apperrors.ErrCodeNotFound, "wallet not found")
	}
	return w, nil
}

// Create adds a new wallet with balance zero, no sub-wallets and no
// transactions, owned by the caller.
func (s *Service) Create(ctx context.Context, owner ledger.Owner, name string) (*ledger.Wallet, error) {
	name, err := s.cleanName(name)
	if err != nil {
		return nil, err
	}

	var created *ledger.Wallet
	_, err = s.store.Update(ctx, owner, func(l *ledger.Ledger) error {
		if l.FindWalletByName(name) != nil {
			return apperrors.Conflict(ErrDuplicateWalletName.Error())
		}
		created = &ledger.Wallet{
			ID:           l.NextWalletID(),
			Owner:        owner,
			Name:         name,
			Balance:      money.Zero(),
			SubWallets:   []*ledger.SubWallet{},
			Transactions: []*ledger.Transaction{},
		}
		l.Wallets = append(l.Wallets, created)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("wallet created", "owner", owner.String(), "wallet_id", created.ID)
	return created, nil
}

// Rename updates a wallet's display name in place. Historical
// transaction annotations keep the old name.
func (s *Service) Rename(ctx context.Context, owner ledger.Owner, walletID int64, newName string) (*ledger.Wallet, error) {
	newName, err := s.cleanName(newName)
	if err != nil {
		return nil, err
	}

	var renamed *ledger.Wallet
	_, err = s.store.Update(ctx, owner, func(l *ledger.Ledger) error {
		w := l.FindWallet(walletID)
		if w == nil {
			return apperrors.Wrap(ErrWalletNotFound, apperrors.ErrCodeNotFound, "wallet not found")
		}
		if existing := l.FindWalletByName(newName); existing != nil && existing.ID != walletID {
			return apperrors.Conflict(ErrDuplicateWalletName.Error())
		}
		w.Name = newName
		renamed = w
		return nil
	})
	if err != nil {
		return nil, err
	}
	return renamed, nil
}

// Delete removes a wallet, transferring its whole balance to the
// reserve or to another wallet. Deleting the last remaining wallet is
// rejected and the ledger is left untouched. The deleted wallet's
// transactions stay in the global log under the wallet's last name;
// they are not re-attributed to the transfer target.
func (s *Service) Delete(ctx context.Context, owner ledger.Owner, walletID int64, target DeleteTarget) error {
	_, err := s.store.Update(ctx, owner, func(l *ledger.Ledger) error {
		w := l.FindWallet(walletID)
		if w == nil {
			return apperrors.Wrap(ErrWalletNotFound, apperrors.ErrCodeNotFound, "wallet not found")
		}
		if len(l.Wallets) <= 1 {
			return apperrors.Validation(ErrLastWallet.Error())
		}

		balance := w.Balance.Clone()
		if balance.IsNil() {
			balance = money.Zero()
		}

		if target.ToReserve || target.WalletID == 0 {
			l.ReserveBalance.Int.Add(l.ReserveBalance.Int, balance.Int)
		} else {
			if target.WalletID == walletID {
				return apperrors.Validation(ErrSelfTransfer.Error())
			}
			dest := l.FindWallet(target.WalletID)
			if dest == nil {
				return apperrors.Wrap(ErrTargetNotFound, apperrors.ErrCodeNotFound, "transfer target wallet not found")
			}
			dest.Balance.Int.Add(dest.Balance.Int, balance.Int)
			ledger.Recompute(dest)
		}

		for i, candidate := range l.Wallets {
			if candidate.ID == walletID {
				l.Wallets = append(l.Wallets[:i], l.Wallets[i+1:]...)
				break
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Info("wallet deleted", "owner", owner.String(), "wallet_id", walletID)
	return nil
}

// Deposit adds a positive minor-unit amount to a wallet's balance.
func (s *Service) Deposit(ctx context.Context, owner ledger.Owner, walletID int64, amount *money.BigInt) (*ledger.Wallet, error) {
	if !amount.IsPositive() {
		return nil, apperrors.Validation(ErrNegativeAmount.Error())
	}

	var updated *ledger.Wallet
	_, err := s.store.Update(ctx, owner, func(l *ledger.Ledger) error {
		w := l.FindWallet(walletID)
		if w == nil {
			return apperrors.Wrap(ErrWalletNotFound, apperrors.ErrCodeNotFound, "wallet not found")
		}
		w.Balance.Int.Add(w.Balance.Int, amount.Int)
		ledger.Recompute(w)
		updated = w
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// SetBalance replaces a wallet's balance outright.
func (s *Service) SetBalance(ctx context.Context, owner ledger.Owner, walletID int64, balance *money.BigInt) (*ledger.Wallet, error) {
	if balance.IsNil() || balance.Int.Sign() < 0 {
		return nil, apperrors.Validation(ErrNegativeAmount.Error())
	}

	var updated *ledger.Wallet
	_, err := s.store.Update(ctx, owner, func(l *ledger.Ledger) error {
		w := l.FindWallet(walletID)
		if w == nil {
			return apperrors.Wrap(ErrWalletNotFound, apperrors.ErrCodeNotFound, "wallet not found")
		}
		w.Balance = balance.Clone()
		ledger.Recompute(w)
		updated = w
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// MoveFunds transfers a minor-unit amount between two wallets,
// recomputing both allocations.
func (s *Service) MoveFunds(ctx context.Context, owner ledger.Owner, sourceID, targetID int64, amount *money.BigInt) error {
	if !amount.IsPositive() {
		return apperrors.Validation(ErrNegativeAmount.Error())
	}
	if sourceID == targetID {
		return apperrors.Validation(ErrSelfTransfer.Error())
	}

	_, err := s.store.Update(ctx, owner, func(l *ledger.Ledger) error {
		source := l.FindWallet(sourceID)
		if source == nil {
			return apperrors.Wrap(ErrWalletNotFound, apperrors.ErrCodeNotFound, "source wallet not found")
		}
		dest := l.FindWallet(targetID)
		if dest == nil {
			return apperrors.Wrap(ErrTargetNotFound, apperrors.ErrCodeNotFound, "transfer target wallet not found")
		}
		if source.Balance.IsNil() || source.Balance.Int.Cmp(amount.Int) < 0 {
			return apperrors.Validation(ErrInsufficientFunds.Error())
		}

		source.Balance.Int.Sub(source.Balance.Int, amount.Int)
		dest.Balance.Int.Add(dest.Balance.Int, amount.Int)
		ledger.Recompute(source)
		ledger.Recompute(dest)
		return nil
	})
	return err
}

// AllocationInput is one sub-wallet row from an allocation save.
// ID zero means a newly added sub-wallet.
type AllocationInput struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	Percentage int    `json:"percentage"`
}

// UpdateAllocation replaces a wallet's sub-wallets. The commit path
// enforces the 100% rule that the pure recompute deliberately does not.
func (s *Service) UpdateAllocation(ctx context.Context, owner ledger.Owner, walletID int64, inputs []AllocationInput) (*ledger.Wallet, error) {
	subs := make([]*ledger.SubWallet, 0, len(inputs))
	now := time.Now().UnixMilli()
	for i, in := range inputs {
		name := strings.TrimSpace(s.sanitizer.Sanitize(in.Name))
		id := in.ID
		if id == 0 {
			id = now + int64(i)
		}
		subs = append(subs, &ledger.SubWallet{
			ID:         id,
			Name:       name,
			Percentage: in.Percentage,
			Balance:    money.Zero(),
		})
	}

	if err := ledger.ValidateAllocation(subs); err != nil {
		return nil, apperrors.Validation(err.Error())
	}

	var updated *ledger.Wallet
	_, err := s.store.Update(ctx, owner, func(l *ledger.Ledger) error {
		w := l.FindWallet(walletID)
		if w == nil {
			return apperrors.Wrap(ErrWalletNotFound, apperrors.ErrCodeNotFound, "wallet not found")
		}
		w.SubWallets = subs
		ledger.Recompute(w)
		updated = w
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// ReserveBalance returns the owner's reserve balance.
func (s *Service) ReserveBalance(ctx context.Context, owner ledger.Owner) (*money.BigInt, error) {
	l, err := s.store.Load(ctx, owner)
	if err != nil {
		return nil, err
	}
	if l.ReserveBalance.IsNil() {
		return money.Zero(), nil
	}
	return l.ReserveBalance.Clone(), nil
}
