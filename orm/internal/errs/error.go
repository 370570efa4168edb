package errs

import (
	"errors"
	"fmt"
)

var (
	ErrPointOnly     = errors.New("orm: only pointer to struct is supported")
	ErrNoRows        = errors.New("orm: no rows in result set")
	ErrInsertZeroRow = errors.New("orm: insert zero row")
	ErrNoPrimaryKey  = errors.New("orm: model has no primary key")
)

func NewUnsupportedTableReference(table any) error {
	return fmt.Errorf("orm: unsupported table reference %v", table)
}

func NewUnsupportedExpression(expr any) error {
	return fmt.Errorf("orm: unsupported expression %v", expr)
}

func NewUnknownField(expr any) error {
	return fmt.Errorf("orm: unknown field %s", expr)
}

func NewUnknownColumn(expr any) error {
	return fmt.Errorf("orm: unknown column %s", expr)
}

func NewUnknownAlias(name string) error {
	return fmt.Errorf("orm: unknown alias %s", name)
}

func NewDuplicateAlias(name string) error {
	return fmt.Errorf("orm: alias %s is already defined", name)
}

func NewUnknownRelation(model string, relation string) error {
	return fmt.Errorf("orm: %s has no relation %s", model, relation)
}

func NewInvalidRelationPath(path string) error {
	return fmt.Errorf("orm: invalid relation path %q, want alias.relation", path)
}

func NewMissingParameter(name string) error {
	return fmt.Errorf("orm: missing value for parameter :%s", name)
}

func NewErrInvalidTagContext(pair string) error {
	return fmt.Errorf("orm: invalid tag %s", pair)
}

func NewErrUnSupportedAssignable(assign any) error {
	return fmt.Errorf("orm: unsupported assignable %v", assign)
}

func NewErrFailedToRollbackTx(bizErr error, rbErr error, panicked bool) error {
	return fmt.Errorf("orm: rollback failed, business error: %w, rollback error: %s, panicked: %t", bizErr, rbErr, panicked)
}

func NewErrPanic(val any) error {
	return fmt.Errorf("orm: transaction panicked: %v", val)
}
