package orm

import "adminql/orm/internal/errs"

var (
	// ErrNoRows is returned by Get when the statement matched nothing.
	ErrNoRows = errs.ErrNoRows
	// ErrNoPrimaryKey is returned when a statement needs the primary key of a
	// model that does not declare one.
	ErrNoPrimaryKey = errs.ErrNoPrimaryKey
)
