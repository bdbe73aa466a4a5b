package ledger

import "errors"

var (
	// Allocation validation errors
	ErrPercentageOutOfRange = errors.New("sub-wallet percentage must be between 0 and 100")
	ErrPercentageSum        = errors.New("sub-wallet percentages must sum to 100")
	ErrMissingSubWalletName = errors.New("sub-wallet name is required")

	// Store errors
	ErrNoOwner = errors.New("ledger owner is required")
)
