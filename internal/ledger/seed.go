package ledger

import "github.com/Fuzara/cashcraft/pkg/money"

// Seed identifiers are fixed so migration can match stored wallets to
// their seed definitions by name and backfill what older persisted
// shapes are missing.
const (
	seedSalaryID    = 1
	seedAllowanceID = 2
)

// NewSeedLedger builds the demo ledger a user starts from: two wallets
// with fully allocated sub-wallets, a zero reserve, and two example
// transactions on the Salary wallet.
func NewSeedLedger(owner Owner) *Ledger {
	salary := &Wallet{
		ID:      seedSalaryID,
		Owner:   owner,
		Name:    "Salary",
		Balance: money.NewBigIntFromInt64(120000000000),
		SubWallets: []*SubWallet{
			{ID: 101, Name: "Housing", Percentage: 35},
			{ID: 102, Name: "Savings", Percentage: 25},
			{ID: 103, Name: "Entertainment", Percentage: 10},
			{ID: 104, Name: "Subscriptions", Percentage: 30},
		},
	}

	allowance := &Wallet{
		ID:      seedAllowanceID,
		Owner:   owner,
		Name:    "Allowance",
		Balance: money.NewBigIntFromInt64(50000000000),
		SubWallets: []*SubWallet{
			{ID: 201, Name: "Savings", Percentage: 30},
			{ID: 202, Name: "Shopping", Percentage: 30},
			{ID: 203, Name: "Other", Percentage: 40},
		},
	}

	seedTxs := []*Transaction{
		{
			ID:          9001,
			Description: "Monthly salary",
			Amount:      "1500",
			Category:    "Savings",
			Date:        "2024-01-01T09:00:00Z",
			Type:        TransactionIncome,
			WalletName:  salary.Name,
		},
		{
			ID:          9002,
			Description: "Rent payment",
			Amount:      "450",
			Category:    "Housing",
			Date:        "2024-01-02T10:00:00Z",
			Type:        TransactionExpense,
			WalletName:  salary.Name,
		},
	}
	salary.Transactions = append(salary.Transactions, seedTxs...)

	l := &Ledger{
		Wallets:        []*Wallet{salary, allowance},
		Transactions:   append([]*Transaction{}, seedTxs...),
		ReserveBalance: money.Zero(),
	}

	RecomputeAll(l)
	return l
}

// seedWalletByName returns the seed definition for a wallet name, used
// by migration to backfill missing fields on stored data.
func seedWalletByName(owner Owner, name string) *Wallet {
	for _, w := range NewSeedLedger(owner).Wallets {
		if w.Name == name {
			return w
		}
	}
	return nil
}
