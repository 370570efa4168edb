package fronttype

import "sort"

// Field pairs a descriptor with the name of the field it decorates.
type Field struct {
	Name string `json:"name"`
	Type Type   `json:"type"`
}

// Sort orders fields by PlaceOrder, keeping declaration order for ties.
func Sort(fields []Field) {
	sort.SliceStable(fields, func(i, j int) bool {
		return fields[i].Type.PlaceOrder() < fields[j].Type.PlaceOrder()
	})
}

// Headers returns the fields shown as list columns.
func Headers(fields []Field) []Field {
	return filter(fields, Type.IsInHeader)
}

// SearchableFields returns the fields exposed to search.
func SearchableFields(fields []Field) []Field {
	return filter(fields, Type.IsSearchable)
}

func filter(fields []Field, keep func(Type) bool) []Field {
	res := make([]Field, 0, len(fields))
	for _, f := range fields {
		if keep(f.Type) {
			res = append(res, f)
		}
	}
	return res
}
