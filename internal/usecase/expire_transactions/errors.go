package expire_transactions

import "errors"

var (
	ErrInternal = errors.New("internal error")
)
