package wallet

import "errors"

var (
	// Validation errors
	ErrMissingWalletName   = errors.New("wallet name is required")
	ErrWalletNameTooLong   = errors.New("wallet name exceeds 100 characters")
	ErrDuplicateWalletName = errors.New("wallet name already exists")
	ErrNegativeAmount      = errors.New("amount must be positive")
	ErrInsufficientFunds   = errors.New("insufficient funds in source wallet")

	// Lifecycle errors
	ErrWalletNotFound = errors.New("wallet not found")
	ErrTargetNotFound = errors.New("transfer target wallet not found")
	ErrLastWallet     = errors.New("cannot delete the last remaining wallet")
	ErrSelfTransfer   = errors.New("transfer target must differ from the deleted wallet")
)
