package appointment

import (
	"context"
	"database/sql"

	"github.com/agendafacil/booking-service/pkg/dbmetrics"
)

// Database interfaces shared with the dbmetrics wrapper.
type DBExecutor = dbmetrics.DBExecutor
type TxExecutor = dbmetrics.TxExecutor

// TxBeginner starts transactions. Satisfied by *sql.DB and *dbmetrics.DB.
type TxBeginner interface {
	BeginTx(ctx context.Context, opts *sql.TxOptions) (TxExecutor, error)
}
