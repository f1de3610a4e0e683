package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/hashicorp/go-multierror"
)

// UnitOfWork runs a store use case in one transaction. The callback builds
// tx-scoped repositories from the DBTX it receives; with an in-memory
// database pinned to one connection, touching the outer *sql.DB inside the
// callback would block.
type UnitOfWork interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context, tx DBTX) error) error
}

// SQLiteUnitOfWork commits when fn succeeds and rolls back otherwise.
type SQLiteUnitOfWork struct {
	db *sql.DB
}

func NewSQLiteUnitOfWork(db *sql.DB) *SQLiteUnitOfWork {
	return &SQLiteUnitOfWork{db: db}
}

func (u *SQLiteUnitOfWork) WithinTx(ctx context.Context, fn func(ctx context.Context, tx DBTX) error) (err error) {
	tx, err := u.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}

	finished := false
	defer func() {
		if finished {
			return
		}
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		// A cancelled context already rolled the tx back. Otherwise both the
		// use-case error and a failed rollback stay visible to errors.Is.
		rbErr := tx.Rollback()
		if rbErr == nil || (errors.Is(rbErr, sql.ErrTxDone) && ctx.Err() != nil) {
			return
		}
		err = multierror.Append(err, fmt.Errorf("rolling back: %w", rbErr))
	}()

	if err = fn(ctx, tx); err != nil {
		return err
	}
	finished = true
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}
