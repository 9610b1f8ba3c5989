package repositories

import (
	"context"

	"github.com/jackc/pgx/v5"
)

// TransactionManager scopes one workflow operation to a single atomic unit.
// Methods named *InTx accept the tx returned by Begin; a nil tx runs the
// statement on its own outside any transaction. Row locks taken inside the tx
// are held until Commit or Rollback.
type TransactionManager interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	Commit(ctx context.Context, tx pgx.Tx) error
	Rollback(ctx context.Context, tx pgx.Tx) error
}
