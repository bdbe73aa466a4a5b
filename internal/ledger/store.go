package ledger

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	apperrors "github.com/Fuzara/cashcraft/internal/shared/errors"
	"github.com/Fuzara/cashcraft/internal/storage"
	"github.com/Fuzara/cashcraft/pkg/logger"
)

const keyPrefix = "cashcraft:ledger:"

// Store owns the persisted ledger aggregate. It is constructed
// explicitly and passed to services; there is no package-level
// instance. A single mutex serializes mutations so concurrent requests
// see the aggregate change one whole read-modify-write at a time.
type Store struct {
	mu      sync.Mutex
	backend storage.Store
	logger  *logger.Logger
}

// NewStore creates a ledger store on top of the given storage backend.
func NewStore(backend storage.Store, log *logger.Logger) *Store {
	return &Store{
		backend: backend,
		logger:  log.WithField("component", "ledger.store"),
	}
}

func ledgerKey(owner Owner) string {
	return keyPrefix + owner.String()
}

// Load returns the owner's persisted ledger. A missing ledger is
// seeded and persisted first. Corrupt persisted JSON is logged and
// replaced by a fresh seed rather than surfaced to the caller.
func (s *Store) Load(ctx context.Context, owner Owner) (*Ledger, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadLocked(ctx, owner)
}

func (s *Store) loadLocked(ctx context.Context, owner Owner) (*Ledger, error) {
	if owner.Kind == OwnerUnknown && owner.Raw == "" {
		return nil, ErrNoOwner
	}

	data, err := s.backend.Get(ctx, ledgerKey(owner))
	if errors.Is(err, storage.ErrKeyNotFound) {
		return s.seedLocked(ctx, owner)
	}
	if err != nil {
		return nil, apperrors.Persistence("failed to read ledger", err)
	}

	var l Ledger
	if err := json.Unmarshal(data, &l); err != nil {
		corrupt := apperrors.CorruptState("persisted ledger is undecodable", err)
		s.logger.WithError(corrupt).Warn("persisted ledger is corrupt, re-seeding",
			"owner", owner.String())
		return s.seedLocked(ctx, owner)
	}

	if migrated := s.migrate(&l, owner); migrated {
		s.logger.Info("ledger migrated to current schema", "owner", owner.String())
	}
	RecomputeAll(&l)

	return &l, nil
}

// Save persists the whole aggregate for the owner.
func (s *Store) Save(ctx context.Context, owner Owner, l *Ledger) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saveLocked(ctx, owner, l)
}

func (s *Store) saveLocked(ctx context.Context, owner Owner, l *Ledger) error {
	data, err := json.Marshal(l)
	if err != nil {
		return apperrors.Internal("failed to serialize ledger", err)
	}
	if err := s.backend.Set(ctx, ledgerKey(owner), data); err != nil {
		return apperrors.Persistence("failed to write ledger", err)
	}
	return nil
}

// Reset discards the owner's persisted state and re-seeds, equivalent
// to a first-time Load.
func (s *Store) Reset(ctx context.Context, owner Owner) (*Ledger, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.backend.Delete(ctx, ledgerKey(owner)); err != nil {
		return nil, apperrors.Persistence("failed to clear ledger", err)
	}
	return s.seedLocked(ctx, owner)
}

// Update runs fn inside the store's mutation lock: load, mutate,
// persist. fn's changes are only persisted when it returns nil.
func (s *Store) Update(ctx context.Context, owner Owner, fn func(*Ledger) error) (*Ledger, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	l, err := s.loadLocked(ctx, owner)
	if err != nil {
		return nil, err
	}
	if err := fn(l); err != nil {
		return nil, err
	}
	if err := s.saveLocked(ctx, owner, l); err != nil {
		return nil, err
	}
	return l, nil
}

func (s *Store) seedLocked(ctx context.Context, owner Owner) (*Ledger, error) {
	l := NewSeedLedger(owner)
	if err := s.saveLocked(ctx, owner, l); err != nil {
		return nil, fmt.Errorf("failed to persist seed ledger: %w", err)
	}
	s.logger.Info("seeded new ledger", "owner", owner.String())
	return l, nil
}

// migrate backfills fields that older persisted shapes lack and
// reconciles the wallet-scoped transaction lists with the global log.
// Reports whether anything changed.
func (s *Store) migrate(l *Ledger, owner Owner) bool {
	changed := false

	if l.ReserveBalance.IsNil() {
		l.ReserveBalance = NewSeedLedger(owner).ReserveBalance
		changed = true
	}
	if l.Transactions == nil {
		l.Transactions = []*Transaction{}
		changed = true
	}

	for _, w := range l.Wallets {
		if w.Owner.Kind == OwnerUnknown && w.Owner.Raw == "" {
			w.Owner = owner
			changed = true
		}
		if w.SubWallets == nil {
			if seed := seedWalletByName(owner, w.Name); seed != nil {
				w.SubWallets = seed.SubWallets
			} else {
				w.SubWallets = []*SubWallet{}
			}
			changed = true
		}
		if w.Transactions == nil {
			if seed := seedWalletByName(owner, w.Name); seed != nil {
				w.Transactions = seed.Transactions
			} else {
				w.Transactions = []*Transaction{}
			}
			changed = true
		}
	}

	if s.reconcileTransactions(l) {
		changed = true
	}

	return changed
}

// reconcileTransactions makes the global log and the per-wallet lists
// consistent in both directions: every wallet-scoped transaction
// appears in the global log, and every global transaction naming an
// existing wallet appears in that wallet's list.
func (s *Store) reconcileTransactions(l *Ledger) bool {
	changed := false

	inGlobal := make(map[int64]bool, len(l.Transactions))
	for _, tx := range l.Transactions {
		inGlobal[tx.ID] = true
	}

	for _, w := range l.Wallets {
		for _, tx := range w.Transactions {
			if !inGlobal[tx.ID] {
				if tx.WalletName == "" {
					tx.WalletName = w.Name
				}
				l.Transactions = append(l.Transactions, tx)
				inGlobal[tx.ID] = true
				changed = true
			}
		}
	}

	for _, tx := range l.Transactions {
		w := l.FindWalletByName(tx.WalletName)
		if w == nil {
			continue
		}
		found := false
		for _, wtx := range w.Transactions {
			if wtx.ID == tx.ID {
				found = true
				break
			}
		}
		if !found {
			w.Transactions = append(w.Transactions, tx)
			changed = true
		}
	}

	return changed
}
