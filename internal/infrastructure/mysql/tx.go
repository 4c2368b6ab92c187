package mysql

import (
	"context"
	"database/sql"
	"time"
)

type TxManager struct {
	db      *sql.DB
	timeout time.Duration
}

func NewTxManager(db *sql.DB, timeout time.Duration) *TxManager {
	return &TxManager{db: db, timeout: timeout}
}

// WithinTx runs fn in a REPEATABLE READ transaction bounded by the manager's
// timeout. The transaction commits only when fn returns nil.
func (m *TxManager) WithinTx(ctx context.Context, fn func(ctx context.Context, tx *sql.Tx) error) error {
	txCtx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	tx, err := m.db.BeginTx(txCtx, &sql.TxOptions{Isolation: sql.LevelRepeatableRead})
	if err != nil {
		return Classify(err, "beginning transaction")
	}
	// No-op after a successful commit.
	defer tx.Rollback()

	if err := fn(txCtx, tx); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return Classify(err, "committing transaction")
	}
	return nil
}
