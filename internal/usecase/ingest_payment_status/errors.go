package ingest_payment_status

import "errors"

var (
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrInvalidInput        = errors.New("invalid input data")
	ErrInternal            = errors.New("internal error")
)
