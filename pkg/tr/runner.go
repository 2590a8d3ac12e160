package tr

import (
	"context"
	"errors"

	"github.com/DRSN-tech/market-backend/pkg/e"
	transaction "github.com/avito-tech/go-transaction-manager/drivers/pgxv5/v2"
	"github.com/jackc/pgx/v5"
)

// Runner выполняет функцию внутри транзакции PostgreSQL.
type Runner struct {
	db   transaction.Transactional
	opts pgx.TxOptions
}

func NewRunner(db transaction.Transactional) *Runner {
	return &Runner{db: db}
}

// RunInTx открывает транзакцию, кладёт её в контекст и вызывает fn.
// При ошибке fn транзакция откатывается, иначе фиксируется.
// Если в контексте уже есть транзакция, fn выполняется внутри неё.
func (r *Runner) RunInTx(ctx context.Context, fn func(ctx context.Context) error) (err error) {
	const op = "Runner.RunInTx"

	if _, txErr := TxFromCtx(ctx); txErr == nil {
		return fn(ctx)
	}

	ctx, tx, err := transaction.NewTransaction(ctx, r.opts, r.db)
	if err != nil {
		return e.Wrap(op, err)
	}
	defer func() {
		if err != nil && tx.IsActive() {
			if rbErr := tx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
				err = errors.Join(err, e.Wrap(op, rbErr))
			}
		}
	}()
	ctx = WithTx(ctx, tx.Transaction())

	if err = fn(ctx); err != nil {
		return err
	}

	if err = tx.Commit(ctx); err != nil {
		return e.Wrap(op, err)
	}

	return nil
}
