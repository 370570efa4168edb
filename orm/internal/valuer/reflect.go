package valuer

import (
	"database/sql"
	"reflect"

	"adminql/orm/internal/errs"
	"adminql/orm/model"
)

type reflectValue struct {
	model *model.Model
	// the struct T points at
	val reflect.Value
}

var _ Creator = NewReflectValue

func NewReflectValue(model *model.Model, val any) Value {
	return reflectValue{
		model: model,
		val:   reflect.ValueOf(val).Elem(),
	}
}

func (r reflectValue) Field(name string) (any, error) {
	if _, ok := r.model.FieldMap[name]; !ok {
		return nil, errs.NewUnknownField(name)
	}
	return r.val.FieldByName(name).Interface(), nil
}

func (r reflectValue) SetField(name string, val any) error {
	fd, ok := r.model.FieldMap[name]
	if !ok {
		return errs.NewUnknownField(name)
	}
	r.val.FieldByName(name).Set(valueOf(fd, val))
	return nil
}

func (r reflectValue) SetColumns(rows *sql.Rows) error {
	cs, err := rows.Columns()
	if err != nil {
		return err
	}
	vals := make([]any, 0, len(cs))
	valElem := make([]reflect.Value, 0, len(cs))
	for _, c := range cs {
		fd, ok := r.model.ColumnMap[c]
		if !ok {
			return errs.NewUnknownColumn(c)
		}
		// a *int for an int field, so Scan needs no address
		val := reflect.New(fd.Type)
		vals = append(vals, val.Interface())
		valElem = append(valElem, val.Elem())
	}
	if err = rows.Scan(vals...); err != nil {
		return err
	}
	for i, c := range cs {
		fd := r.model.ColumnMap[c]
		r.val.FieldByName(fd.GoName).Set(valElem[i])
	}
	return nil
}

// valueOf converts an untyped nil to the zero value of the field.
func valueOf(fd *model.Field, val any) reflect.Value {
	if val == nil {
		return reflect.Zero(fd.Type)
	}
	return reflect.ValueOf(val)
}
