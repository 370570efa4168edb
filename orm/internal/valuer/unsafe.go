package valuer

import (
	"database/sql"
	"reflect"
	"unsafe"

	"adminql/orm/internal/errs"
	"adminql/orm/model"
)

type unsafeValue struct {
	model *model.Model
	// start address of the struct
	address unsafe.Pointer
}

var _ Creator = NewUnsafeValue

func NewUnsafeValue(model *model.Model, val any) Value {
	return unsafeValue{
		model:   model,
		address: reflect.ValueOf(val).UnsafePointer(),
	}
}

func (u unsafeValue) fieldAt(fd *model.Field) reflect.Value {
	return reflect.NewAt(fd.Type, unsafe.Add(u.address, fd.Offset))
}

func (u unsafeValue) Field(name string) (any, error) {
	fd, ok := u.model.FieldMap[name]
	if !ok {
		return nil, errs.NewUnknownField(name)
	}
	return u.fieldAt(fd).Elem().Interface(), nil
}

func (u unsafeValue) SetField(name string, val any) error {
	fd, ok := u.model.FieldMap[name]
	if !ok {
		return errs.NewUnknownField(name)
	}
	u.fieldAt(fd).Elem().Set(valueOf(fd, val))
	return nil
}

func (u unsafeValue) SetColumns(rows *sql.Rows) error {
	cs, err := rows.Columns()
	if err != nil {
		return err
	}
	vals := make([]any, 0, len(cs))
	for _, c := range cs {
		fd, ok := u.model.ColumnMap[c]
		if !ok {
			return errs.NewUnknownColumn(c)
		}
		// scan straight into the field
		vals = append(vals, u.fieldAt(fd).Interface())
	}
	return rows.Scan(vals...)
}
