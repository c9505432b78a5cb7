package transaction

import "errors"

var (
	// ErrTransactionNotFound is returned when no transaction matches.
	ErrTransactionNotFound = errors.New("transaction.repository: transaction not found")

	// ErrAlreadyTerminal is returned when a status-gated update finds the
	// transaction already in a terminal status. Callers treat this as an
	// idempotent no-op, not a failure.
	ErrAlreadyTerminal = errors.New("transaction.repository: transaction already terminal")

	// ErrDuplicateTransaction is returned when an insert collides with an
	// existing row for the same gateway reference. Racing duplicate charge
	// requests land here; callers fall back to the row that won.
	ErrDuplicateTransaction = errors.New("transaction.repository: duplicate transaction")

	// ErrBuildQuery is returned when the SQL statement cannot be built.
	ErrBuildQuery = errors.New("transaction.repository: failed to build query")

	// ErrExecQuery is returned when the SQL statement fails to execute.
	ErrExecQuery = errors.New("transaction.repository: failed to execute query")

	// ErrScanRow is returned when a result row cannot be scanned.
	ErrScanRow = errors.New("transaction.repository: failed to scan row")
)
