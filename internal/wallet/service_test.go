package wallet_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Fuzara/cashcraft/internal/ledger"
	apperrors "github.com/Fuzara/cashcraft/internal/shared/errors"
	"github.com/Fuzara/cashcraft/internal/storage"
	"github.com/Fuzara/cashcraft/internal/wallet"
	"github.com/Fuzara/cashcraft/pkg/logger"
	"github.com/Fuzara/cashcraft/pkg/money"
)

func newTestService() (*wallet.Service, *ledger.Store, ledger.Owner) {
	store := ledger.NewStore(storage.NewMemoryStore(), logger.NewDefault("test"))
	svc := wallet.NewService(store, logger.NewDefault("test"))
	owner := ledger.PrincipalOwner(uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8"))
	return svc, store, owner
}

func assertCode(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	appErr := apperrors.GetAppError(err)
	require.NotNil(t, appErr, "expected AppError, got %v", err)
	assert.Equal(t, code, appErr.Code)
}

func TestService_Create(t *testing.T) {
	ctx := context.Background()
	svc, _, owner := newTestService()

	w, err := svc.Create(ctx, owner, "Vacation")
	require.NoError(t, err)

	assert.Equal(t, int64(3), w.ID) // seed wallets hold 1 and 2
	assert.Equal(t, "Vacation", w.Name)
	assert.True(t, w.Balance.IsZero())
	assert.Empty(t, w.SubWallets)
	assert.Empty(t, w.Transactions)
	assert.Equal(t, owner.String(), w.Owner.String())

	wallets, err := svc.List(ctx, owner)
	require.NoError(t, err)
	assert.Len(t, wallets, 3)
}

func TestService_CreateValidation(t *testing.T) {
	ctx := context.Background()
	svc, _, owner := newTestService()

	tests := []struct {
		name     string
		input    string
		wantCode string
	}{
		{name: "empty name", input: "", wantCode: apperrors.ErrCodeValidation},
		{name: "whitespace only", input: "   ", wantCode: apperrors.ErrCodeValidation},
		{name: "markup stripped to empty", input: "<script>alert(1)</script>", wantCode: apperrors.ErrCodeValidation},
		{name: "duplicate name", input: "Salary", wantCode: apperrors.ErrCodeConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(ctx, owner, tt.input)
			assertCode(t, err, tt.wantCode)
		})
	}
}

func TestService_CreateSanitizesName(t *testing.T) {
	ctx := context.Background()
	svc, _, owner := newTestService()

	w, err := svc.Create(ctx, owner, "  <b>Groceries</b>  ")
	require.NoError(t, err)
	assert.Equal(t, "Groceries", w.Name)
}

func TestService_Rename(t *testing.T) {
	ctx := context.Background()
	svc, _, owner := newTestService()

	w, err := svc.Rename(ctx, owner, 1, "Main Income")
	require.NoError(t, err)
	assert.Equal(t, "Main Income", w.Name)

	_, err = svc.Rename(ctx, owner, 999, "Nope")
	assertCode(t, err, apperrors.ErrCodeNotFound)

	_, err = svc.Rename(ctx, owner, 1, "Allowance")
	assertCode(t, err, apperrors.ErrCodeConflict)

	// Renaming a wallet to its own name is fine
	_, err = svc.Rename(ctx, owner, 1, "Main Income")
	require.NoError(t, err)
}

func TestService_DeleteLastWalletRejected(t *testing.T) {
	ctx := context.Background()
	svc, store, owner := newTestService()

	require.NoError(t, svc.Delete(ctx, owner, 2, wallet.DeleteTarget{ToReserve: true}))

	// One wallet left: deleting it must fail and leave the ledger untouched
	before, err := store.Load(ctx, owner)
	require.NoError(t, err)

	err = svc.Delete(ctx, owner, 1, wallet.DeleteTarget{ToReserve: true})
	assertCode(t, err, apperrors.ErrCodeValidation)

	after, err := store.Load(ctx, owner)
	require.NoError(t, err)
	assert.Len(t, after.Wallets, 1)
	assert.Equal(t, before.Wallets[0].Balance.String(), after.Wallets[0].Balance.String())
	assert.Equal(t, before.ReserveBalance.String(), after.ReserveBalance.String())
}

func TestService_DeleteToReserveConservesFunds(t *testing.T) {
	ctx := context.Background()
	svc, store, owner := newTestService()

	before, err := store.Load(ctx, owner)
	require.NoError(t, err)
	totalBefore := before.TotalFunds()
	allowanceBalance := before.FindWalletByName("Allowance").Balance.String()

	require.NoError(t, svc.Delete(ctx, owner, 2, wallet.DeleteTarget{ToReserve: true}))

	after, err := store.Load(ctx, owner)
	require.NoError(t, err)
	assert.Len(t, after.Wallets, 1)
	assert.Nil(t, after.FindWallet(2))
	assert.Equal(t, allowanceBalance, after.ReserveBalance.String())
	assert.Equal(t, totalBefore.String(), after.TotalFunds().String())
}

func TestService_DeleteToWalletConservesFunds(t *testing.T) {
	ctx := context.Background()
	svc, store, owner := newTestService()

	before, err := store.Load(ctx, owner)
	require.NoError(t, err)
	totalBefore := before.TotalFunds()

	require.NoError(t, svc.Delete(ctx, owner, 2, wallet.DeleteTarget{WalletID: 1}))

	after, err := store.Load(ctx, owner)
	require.NoError(t, err)
	salary := after.FindWallet(1)
	require.NotNil(t, salary)

	// 120000000000 + 50000000000
	assert.Equal(t, "170000000000", salary.Balance.String())
	assert.True(t, after.ReserveBalance.IsZero())
	assert.Equal(t, totalBefore.String(), after.TotalFunds().String())

	// Target's sub-wallets recomputed against the merged balance
	assert.Equal(t, int64(59500000000), salary.SubWallets[0].Balance.Int64())
}

func TestService_DeleteTransactionsStayInGlobalLog(t *testing.T) {
	ctx := context.Background()
	svc, store, owner := newTestService()

	before, err := store.Load(ctx, owner)
	require.NoError(t, err)
	logBefore := len(before.Transactions)

	// Salary holds the seed transactions; delete it into Allowance
	require.NoError(t, svc.Delete(ctx, owner, 1, wallet.DeleteTarget{WalletID: 2}))

	after, err := store.Load(ctx, owner)
	require.NoError(t, err)
	assert.Len(t, after.Transactions, logBefore)
	for _, tx := range after.Transactions {
		assert.Equal(t, "Salary", tx.WalletName)
	}

	// Not re-attributed to the target wallet
	allowance := after.FindWallet(2)
	require.NotNil(t, allowance)
	assert.Empty(t, allowance.Transactions)
}

func TestService_DeleteErrors(t *testing.T) {
	ctx := context.Background()
	svc, _, owner := newTestService()

	err := svc.Delete(ctx, owner, 999, wallet.DeleteTarget{ToReserve: true})
	assertCode(t, err, apperrors.ErrCodeNotFound)

	err = svc.Delete(ctx, owner, 1, wallet.DeleteTarget{WalletID: 999})
	assertCode(t, err, apperrors.ErrCodeNotFound)

	err = svc.Delete(ctx, owner, 1, wallet.DeleteTarget{WalletID: 1})
	assertCode(t, err, apperrors.ErrCodeValidation)
}

func TestService_Deposit(t *testing.T) {
	ctx := context.Background()
	svc, _, owner := newTestService()

	w, err := svc.Deposit(ctx, owner, 1, money.NewBigIntFromInt64(10000000000))
	require.NoError(t, err)
	assert.Equal(t, "130000000000", w.Balance.String())

	// Sub-wallets follow the new total: 130000000000 * 35 / 100
	assert.Equal(t, int64(45500000000), w.SubWallets[0].Balance.Int64())

	_, err = svc.Deposit(ctx, owner, 1, money.Zero())
	assertCode(t, err, apperrors.ErrCodeValidation)

	_, err = svc.Deposit(ctx, owner, 999, money.NewBigIntFromInt64(1))
	assertCode(t, err, apperrors.ErrCodeNotFound)
}

func TestService_SetBalance(t *testing.T) {
	ctx := context.Background()
	svc, _, owner := newTestService()

	w, err := svc.SetBalance(ctx, owner, 1, money.NewBigIntFromInt64(200000000000))
	require.NoError(t, err)
	assert.Equal(t, "200000000000", w.Balance.String())
	assert.Equal(t, int64(70000000000), w.SubWallets[0].Balance.Int64())

	neg, _ := money.NewBigIntFromString("-5")
	_, err = svc.SetBalance(ctx, owner, 1, neg)
	assertCode(t, err, apperrors.ErrCodeValidation)
}

func TestService_MoveFunds(t *testing.T) {
	ctx := context.Background()
	svc, store, owner := newTestService()

	require.NoError(t, svc.MoveFunds(ctx, owner, 1, 2, money.NewBigIntFromInt64(20000000000)))

	l, err := store.Load(ctx, owner)
	require.NoError(t, err)
	assert.Equal(t, "100000000000", l.FindWallet(1).Balance.String())
	assert.Equal(t, "70000000000", l.FindWallet(2).Balance.String())

	// Both sides recomputed
	assert.Equal(t, int64(35000000000), l.FindWallet(1).SubWallets[0].Balance.Int64())
	assert.Equal(t, int64(21000000000), l.FindWallet(2).SubWallets[0].Balance.Int64())

	err = svc.MoveFunds(ctx, owner, 1, 2, money.NewBigIntFromInt64(999999999999))
	assertCode(t, err, apperrors.ErrCodeValidation)

	err = svc.MoveFunds(ctx, owner, 1, 1, money.NewBigIntFromInt64(1))
	assertCode(t, err, apperrors.ErrCodeValidation)
}

func TestService_UpdateAllocation(t *testing.T) {
	ctx := context.Background()
	svc, _, owner := newTestService()

	w, err := svc.UpdateAllocation(ctx, owner, 1, []wallet.AllocationInput{
		{ID: 101, Name: "Housing", Percentage: 50},
		{Name: "Emergency Fund", Percentage: 50},
	})
	require.NoError(t, err)

	require.Len(t, w.SubWallets, 2)
	assert.Equal(t, int64(101), w.SubWallets[0].ID)
	assert.Equal(t, int64(60000000000), w.SubWallets[0].Balance.Int64())
	assert.NotZero(t, w.SubWallets[1].ID) // fresh time-derived ID
	assert.Equal(t, int64(60000000000), w.SubWallets[1].Balance.Int64())
}

func TestService_UpdateAllocationRejectsBadSum(t *testing.T) {
	ctx := context.Background()
	svc, store, owner := newTestService()

	_, err := svc.UpdateAllocation(ctx, owner, 1, []wallet.AllocationInput{
		{ID: 101, Name: "Housing", Percentage: 60},
		{ID: 102, Name: "Savings", Percentage: 30},
	})
	assertCode(t, err, apperrors.ErrCodeValidation)

	// Rejected commit leaves the stored allocation unchanged
	l, err := store.Load(ctx, owner)
	require.NoError(t, err)
	assert.Len(t, l.FindWallet(1).SubWallets, 4)
}

func TestService_ReserveBalance(t *testing.T) {
	ctx := context.Background()
	svc, _, owner := newTestService()

	reserve, err := svc.ReserveBalance(ctx, owner)
	require.NoError(t, err)
	assert.True(t, reserve.IsZero())

	require.NoError(t, svc.Delete(ctx, owner, 2, wallet.DeleteTarget{ToReserve: true}))

	reserve, err = svc.ReserveBalance(ctx, owner)
	require.NoError(t, err)
	assert.Equal(t, "50000000000", reserve.String())
}

func TestService_NotFoundErrorsWrapSentinels(t *testing.T) {
	ctx := context.Background()
	svc, _, owner := newTestService()

	_, err := svc.Get(ctx, owner, 999)
	assert.ErrorIs(t, err, wallet.ErrWalletNotFound)
	assertCode(t, err, apperrors.ErrCodeNotFound)

	err = svc.Delete(ctx, owner, 1, wallet.DeleteTarget{WalletID: 999})
	assert.ErrorIs(t, err, wallet.ErrTargetNotFound)
	assertCode(t, err, apperrors.ErrCodeNotFound)

	err = svc.MoveFunds(ctx, owner, 999, 1, money.NewBigIntFromInt64(1))
	assert.ErrorIs(t, err, wallet.ErrWalletNotFound)

	err = svc.MoveFunds(ctx, owner, 1, 999, money.NewBigIntFromInt64(1))
	assert.ErrorIs(t, err, wallet.ErrTargetNotFound)
}
