package transaction

import "errors"

var (
	ErrMissingDescription  = errors.New("transaction description is required")
	ErrInvalidAmount       = errors.New("transaction amount must be a positive decimal")
	ErrInvalidType         = errors.New("transaction type must be income or expense")
	ErrTransactionNotFound = errors.New("transaction not found")
)
