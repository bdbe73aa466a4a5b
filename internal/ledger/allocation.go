package ledger

import (
	"math/big"

	"github.com/Fuzara/cashcraft/pkg/money"
)

var hundred = big.NewInt(100)

// Recompute derives every sub-wallet balance from the wallet's total:
// floor(balance * percentage / 100), in integer arithmetic. Percentages
// that do not sum to 100 are computed as given, with no remainder
// redistribution; enforcing the 100% rule is ValidateAllocation's job,
// performed on commit paths only. Deterministic and idempotent.
func Recompute(w *Wallet) {
	if w == nil {
		return
	}

	balance := big.NewInt(0)
	if !w.Balance.IsNil() {
		balance = w.Balance.Int
	}

	for _, sw := range w.SubWallets {
		share := new(big.Int).Mul(balance, big.NewInt(int64(sw.Percentage)))
		share.Div(share, hundred)
		sw.Balance = money.NewBigInt(share)
	}
}

// RecomputeAll recomputes sub-wallet balances for every wallet in the
// ledger.
func RecomputeAll(l *Ledger) {
	for _, w := range l.Wallets {
		Recompute(w)
	}
}

// ValidateAllocation enforces the commit-time business rule that
// sub-wallet percentages sum to exactly 100. Wallets with no
// sub-wallets are valid, nothing is allocated.
func ValidateAllocation(subWallets []*SubWallet) error {
	if len(subWallets) == 0 {
		return nil
	}

	sum := 0
	for _, sw := range subWallets {
		if sw.Percentage < 0 || sw.Percentage > 100 {
			return ErrPercentageOutOfRange
		}
		if sw.Name == "" {
			return ErrMissingSubWalletName
		}
		sum += sw.Percentage
	}

	if sum != 100 {
		return ErrPercentageSum
	}
	return nil
}
