package valuer

import (
	"database/sql"

	"adminql/orm/model"
)

// Value reads and writes the fields of one entity.
type Value interface {
	// Field returns the value of the Go field name.
	Field(name string) (any, error)
	// SetField assigns val, which must have the field's type, to the Go
	// field name.
	SetField(name string, val any) error
	// SetColumns scans the current row, matching columns by name.
	SetColumns(rows *sql.Rows) error
}

type Creator func(model *model.Model, entity any) Value
