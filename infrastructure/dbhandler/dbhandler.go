package dbhandler

import (
	"context"

	"database/sql"

	"github.com/behrang/sqlbatch"
	"github.com/lib/pq"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// MaxRetry bounds how many times a batch is retried after a serialization
// failure.
const MaxRetry = 10

var log = logrus.WithField("pkg", "dbhandler")

// DBHandler contains a connection to database.
type DBHandler struct {
	DB *sql.DB
}

// Batch creates a transaction and executes the batch of commands in that transaction.
// If a retryable error is received, the batch is retried.
func (handler DBHandler) Batch(ctx context.Context, opts *sql.TxOptions, commands []sqlbatch.Command) ([]interface{}, error) {

	for retry := 0; ; retry++ {
		results, err := handler.tryBatch(ctx, opts, commands)
		if IsRetryable(err) && retry < MaxRetry && ctx.Err() == nil {
			log.WithField("retry", retry+1).Printf("🟡 Retryable Postgres error, retrying: %v", err)
			continue
		}
		return results, err
	}
}

// IsRetryable reports whether err is a serialization failure.
func IsRetryable(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "40001"
}

func (handler DBHandler) tryBatch(ctx context.Context, opts *sql.TxOptions, commands []sqlbatch.Command) (results []interface{}, err error) {

	results = make([]interface{}, len(commands))

	tx, err := handler.DB.BeginTx(ctx, opts)
	if err != nil {
		return
	}
	defer tx.Rollback()

	results, err = sqlbatch.Batch(tx, commands)

	if err == nil {
		err = tx.Commit()
	}

	return
}
