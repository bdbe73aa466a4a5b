package ledger_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Fuzara/cashcraft/internal/ledger"
	"github.com/Fuzara/cashcraft/pkg/money"
)

func walletWith(balance int64, percentages ...int) *ledger.Wallet {
	w := &ledger.Wallet{
		ID:      1,
		Name:    "Salary",
		Balance: money.NewBigIntFromInt64(balance),
	}
	for i, p := range percentages {
		w.SubWallets = append(w.SubWallets, &ledger.SubWallet{
			ID:         int64(100 + i),
			Name:       "Slice",
			Percentage: p,
		})
	}
	return w
}

func TestRecompute(t *testing.T) {
	tests := []struct {
		name        string
		balance     int64
		percentages []int
		want        []int64
	}{
		{
			name:        "housing slice of seed salary",
			balance:     120000000000,
			percentages: []int{35, 25, 10, 30},
			want:        []int64{42000000000, 30000000000, 12000000000, 36000000000},
		},
		{
			name:        "flooring drops the remainder",
			balance:     101,
			percentages: []int{33, 33, 34},
			want:        []int64{33, 33, 34},
		},
		{
			name:        "percentages under 100 leave funds unallocated",
			balance:     1000,
			percentages: []int{10, 20},
			want:        []int64{100, 200},
		},
		{
			name:        "percentages over 100 are computed as given",
			balance:     1000,
			percentages: []int{80, 80},
			want:        []int64{800, 800},
		},
		{
			name:        "zero balance",
			balance:     0,
			percentages: []int{50, 50},
			want:        []int64{0, 0},
		},
		{
			name:        "no sub-wallets is a no-op",
			balance:     500,
			percentages: nil,
			want:        nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := walletWith(tt.balance, tt.percentages...)
			ledger.Recompute(w)

			require.Len(t, w.SubWallets, len(tt.want))
			for i, want := range tt.want {
				assert.Equal(t, want, w.SubWallets[i].Balance.Int64(),
					"sub-wallet %d", i)
			}
		})
	}
}

func TestRecompute_BeyondInt64(t *testing.T) {
	// 2^70, far past safe-integer and int64 range
	balance, ok := money.NewBigIntFromString("1180591620717411303424")
	require.True(t, ok)

	w := &ledger.Wallet{
		ID:      1,
		Name:    "Huge",
		Balance: balance,
		SubWallets: []*ledger.SubWallet{
			{ID: 101, Name: "Half", Percentage: 50},
		},
	}
	ledger.Recompute(w)

	assert.Equal(t, "590295810358705651712", w.SubWallets[0].Balance.String())
}

func TestRecompute_Idempotent(t *testing.T) {
	w := walletWith(120000000000, 35, 25, 10, 30)

	ledger.Recompute(w)
	first := make([]string, len(w.SubWallets))
	for i, sw := range w.SubWallets {
		first[i] = sw.Balance.String()
	}

	ledger.Recompute(w)
	for i, sw := range w.SubWallets {
		assert.Equal(t, first[i], sw.Balance.String())
	}
}

func TestValidateAllocation(t *testing.T) {
	tests := []struct {
		name        string
		percentages []int
		wantErr     error
	}{
		{name: "sums to 100", percentages: []int{35, 25, 10, 30}},
		{name: "empty is valid", percentages: nil},
		{name: "under 100", percentages: []int{50, 40}, wantErr: ledger.ErrPercentageSum},
		{name: "over 100", percentages: []int{60, 60}, wantErr: ledger.ErrPercentageSum},
		{name: "negative percentage", percentages: []int{-10, 110}, wantErr: ledger.ErrPercentageOutOfRange},
		{name: "single slice above range", percentages: []int{101}, wantErr: ledger.ErrPercentageOutOfRange},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var subs []*ledger.SubWallet
			for i, p := range tt.percentages {
				subs = append(subs, &ledger.SubWallet{
					ID:         int64(i + 1),
					Name:       "Slice",
					Percentage: p,
				})
			}

			err := ledger.ValidateAllocation(subs)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestValidateAllocation_MissingName(t *testing.T) {
	subs := []*ledger.SubWallet{
		{ID: 1, Name: "", Percentage: 100},
	}
	assert.ErrorIs(t, ledger.ValidateAllocation(subs), ledger.ErrMissingSubWalletName)
}
