package db

import (
	"context"
	"database/sql"
	"fmt"
)

// UnitOfWork runs a check-then-write sequence in one transaction. The entry
// service builds a tx-scoped entry repo from the DBTX it receives, so the
// day it validated is the day it writes to.
type UnitOfWork interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context, tx DBTX) error) error
}

// SQLUnitOfWork is the database/sql UnitOfWork for both SQLite and MySQL.
// On SQLite the DSN makes BEGIN take the write lock up front.
type SQLUnitOfWork struct {
	db *sql.DB
}

// NewSQLUnitOfWork creates a UnitOfWork backed by the given *sql.DB.
func NewSQLUnitOfWork(db *sql.DB) *SQLUnitOfWork {
	return &SQLUnitOfWork{db: db}
}

func (u *SQLUnitOfWork) WithinTx(ctx context.Context, fn func(ctx context.Context, tx DBTX) error) error {
	tx, err := u.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(ctx, tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("rollback failed: %v (original error: %w)", rbErr, err)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}
