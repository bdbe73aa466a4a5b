// Package ledger defines the persisted wallet aggregate and the store
// that owns it. All mutation of wallets, sub-wallets, transactions and
// the reserve balance goes through the Store; the whole aggregate is
// read, mutated and written back as a unit.
package ledger

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/Fuzara/cashcraft/pkg/money"
)

// TransactionType classifies a transaction's effect on a wallet balance
type TransactionType string

const (
	TransactionIncome  TransactionType = "income"
	TransactionExpense TransactionType = "expense"
)

// IsValid checks if the transaction type is valid
func (t TransactionType) IsValid() bool {
	switch t {
	case TransactionIncome, TransactionExpense:
		return true
	}
	return false
}

// OwnerKind tags how an owner identity entered the system
type OwnerKind string

const (
	// OwnerPrincipal is an authenticated user ID
	OwnerPrincipal OwnerKind = "principal"
	// OwnerPlain is a free-form string identity from legacy data
	OwnerPlain OwnerKind = "plain"
	// OwnerUnknown is data whose owner field could not be classified
	OwnerUnknown OwnerKind = "unknown"
)

// Owner is the identity a wallet belongs to. The kind is resolved once
// when data enters the system, never re-guessed downstream.
type Owner struct {
	Kind      OwnerKind
	Principal uuid.UUID // set when Kind == OwnerPrincipal
	Raw       string    // original text for plain and unknown owners
}

// PrincipalOwner builds an Owner from an authenticated user ID.
func PrincipalOwner(id uuid.UUID) Owner {
	return Owner{Kind: OwnerPrincipal, Principal: id}
}

// ResolveOwner classifies a raw owner value from persisted data.
func ResolveOwner(raw string) Owner {
	if raw == "" {
		return Owner{Kind: OwnerUnknown}
	}
	if id, err := uuid.Parse(raw); err == nil {
		return Owner{Kind: OwnerPrincipal, Principal: id, Raw: raw}
	}
	return Owner{Kind: OwnerPlain, Raw: raw}
}

// String returns the canonical textual form of the owner.
func (o Owner) String() string {
	if o.Kind == OwnerPrincipal {
		return o.Principal.String()
	}
	return o.Raw
}

// MarshalJSON encodes the owner as its canonical string.
func (o Owner) MarshalJSON() ([]byte, error) {
	return json.Marshal(o.String())
}

// UnmarshalJSON re-resolves the owner kind from the stored string.
func (o *Owner) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("owner must be a string: %w", err)
	}
	*o = ResolveOwner(raw)
	return nil
}

// SubWallet is a percentage-weighted allocation slice of its parent
// wallet's balance. Balance is derived state, recomputed whenever the
// parent balance or any sibling percentage changes.
type SubWallet struct {
	ID         int64         `json:"id"`
	Name       string        `json:"name"`
	Percentage int           `json:"percentage"`
	Balance    *money.BigInt `json:"balance"`
}

// Transaction is a single income or expense entry. Amount is the
// decimal display-currency amount as entered; the minor-unit delta is
// derived from it at the configured exchange rate.
type Transaction struct {
	ID          int64           `json:"id"`
	Description string          `json:"description"`
	Amount      string          `json:"amount"`
	Category    string          `json:"category"`
	Date        string          `json:"date"`
	Type        TransactionType `json:"type"`
	WalletName  string          `json:"walletName,omitempty"`
}

// Wallet is a named balance bucket owned by a user. Balance is in
// minor units (e8s, 10^8 per display unit).
type Wallet struct {
	ID           int64          `json:"id"`
	Owner        Owner          `json:"owner"`
	Name         string         `json:"name"`
	Balance      *money.BigInt  `json:"balance"`
	SubWallets   []*SubWallet   `json:"subWallets"`
	Transactions []*Transaction `json:"transactions"`
}

// Clone returns a deep copy of the wallet.
func (w *Wallet) Clone() *Wallet {
	out := &Wallet{
		ID:      w.ID,
		Owner:   w.Owner,
		Name:    w.Name,
		Balance: w.Balance.Clone(),
	}
	for _, sw := range w.SubWallets {
		c := *sw
		c.Balance = sw.Balance.Clone()
		out.SubWallets = append(out.SubWallets, &c)
	}
	for _, tx := range w.Transactions {
		c := *tx
		out.Transactions = append(out.Transactions, &c)
	}
	return out
}

// Ledger is the aggregate root: every wallet, the global transaction
// log, and the reserve balance for funds not attached to any wallet.
type Ledger struct {
	Wallets        []*Wallet      `json:"wallets"`
	Transactions   []*Transaction `json:"transactions"`
	ReserveBalance *money.BigInt  `json:"reserveBalance"`
}

// FindWallet returns the wallet with the given ID, or nil.
func (l *Ledger) FindWallet(id int64) *Wallet {
	for _, w := range l.Wallets {
		if w.ID == id {
			return w
		}
	}
	return nil
}

// FindWalletByName returns the first wallet with the given name, or nil.
func (l *Ledger) FindWalletByName(name string) *Wallet {
	for _, w := range l.Wallets {
		if w.Name == name {
			return w
		}
	}
	return nil
}

// NextWalletID returns one past the highest wallet ID in the ledger.
func (l *Ledger) NextWalletID() int64 {
	var max int64
	for _, w := range l.Wallets {
		if w.ID > max {
			max = w.ID
		}
	}
	return max + 1
}

// TotalFunds returns the sum of all wallet balances plus the reserve.
func (l *Ledger) TotalFunds() *money.BigInt {
	total := money.Zero()
	for _, w := range l.Wallets {
		if !w.Balance.IsNil() {
			total.Int.Add(total.Int, w.Balance.Int)
		}
	}
	if !l.ReserveBalance.IsNil() {
		total.Int.Add(total.Int, l.ReserveBalance.Int)
	}
	return total
}
