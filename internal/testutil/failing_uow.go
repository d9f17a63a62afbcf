package testutil

import (
	"context"
	"database/sql"
	"strings"

	"github.com/alexanderramin/capplan/internal/db"
)

// FaultyUoW wraps a real unit of work and fails a chosen write inside each
// transaction. Tests use it to show that a scenario save or a live-data
// replace leaves nothing behind when it fails part way. Reads pass through.
type FaultyUoW struct {
	Inner db.UnitOfWork
	// FailWhen is asked before every ExecContext with the statement and its
	// 1-based position within the current transaction.
	FailWhen func(query string, n int) bool
	Err      error
}

// FailOnNthWrite fails the nth ExecContext of every transaction.
func FailOnNthWrite(database *sql.DB, n int, err error) *FaultyUoW {
	return &FaultyUoW{
		Inner:    db.NewSQLiteUnitOfWork(database),
		FailWhen: func(_ string, i int) bool { return i == n },
		Err:      err,
	}
}

// FailOnWriteTo fails the first statement that mentions table.
func FailOnWriteTo(database *sql.DB, table string, err error) *FaultyUoW {
	return &FaultyUoW{
		Inner:    db.NewSQLiteUnitOfWork(database),
		FailWhen: func(q string, _ int) bool { return strings.Contains(q, table) },
		Err:      err,
	}
}

func (u *FaultyUoW) WithinTx(ctx context.Context, fn func(ctx context.Context, tx db.DBTX) error) error {
	return u.Inner.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		return fn(ctx, &faultyTx{DBTX: tx, uow: u})
	})
}

type faultyTx struct {
	db.DBTX
	uow   *FaultyUoW
	execs int
}

func (f *faultyTx) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	f.execs++
	if f.uow.FailWhen != nil && f.uow.FailWhen(query, f.execs) {
		return nil, f.uow.Err
	}
	return f.DBTX.ExecContext(ctx, query, args...)
}
