package orm

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// JSONColumn stores Val as a JSON document. An invalid column is NULL.
type JSONColumn[T any] struct {
	Val   T
	Valid bool
}

func NewJSONColumn[T any](val T) JSONColumn[T] {
	return JSONColumn[T]{Val: val, Valid: true}
}

func (j JSONColumn[T]) Value() (driver.Value, error) {
	if !j.Valid {
		return nil, nil
	}
	return json.Marshal(j.Val)
}

func (j *JSONColumn[T]) Scan(src any) error {
	var bs []byte
	switch data := src.(type) {
	case string:
		bs = []byte(data)
	case []byte:
		bs = data
	case nil:
		var zero T
		j.Val, j.Valid = zero, false
		return nil
	default:
		return fmt.Errorf("orm: cannot scan %T into a JSON column", src)
	}
	if err := json.Unmarshal(bs, &j.Val); err != nil {
		return err
	}
	j.Valid = true
	return nil
}

// MarshalJSON writes Val, or null for an invalid column, so the column
// encodes the same way as a plain field.
func (j JSONColumn[T]) MarshalJSON() ([]byte, error) {
	if !j.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(j.Val)
}

func (j *JSONColumn[T]) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		var zero T
		j.Val, j.Valid = zero, false
		return nil
	}
	if err := json.Unmarshal(data, &j.Val); err != nil {
		return err
	}
	j.Valid = true
	return nil
}
