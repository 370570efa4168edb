package orm

import (
	"database/sql"
	"fmt"
	"reflect"
	"unsafe"

	"adminql/orm/model"
)

// projection is the block of columns one alias contributes to a row.
type projection struct {
	alias  *Alias
	fields []*model.Field
	// index of the primary key in fields, -1 when there is none
	pk int
}

func newProjection(a *Alias) projection {
	p := projection{
		alias:  a,
		fields: a.model.Fields,
		pk:     -1,
	}
	for i, fd := range p.fields {
		if fd == a.model.PrimaryKey {
			p.pk = i
		}
	}
	return p
}

// objectKey identifies an entity already built from an earlier row.
type objectKey struct {
	alias  *Alias
	parent unsafe.Pointer
	pk     string
}

// manySlot collects the elements of one to-many field. Elements are kept as
// pointers until every row has been read, so that relations nested under a
// []T field are attached before the values are copied.
type manySlot struct {
	parent unsafe.Pointer
	rel    *model.Relation
	items  []reflect.Value
}

// hydrate scans rows projected by plan into roots of T. Rows repeating an
// entity, identified by its primary key, reuse the entity built first.
func hydrate[T any](c core, plan []projection, rows *sql.Rows) ([]*T, error) {
	var (
		roots   []*T
		objects = map[objectKey]unsafe.Pointer{}
		slots   []*manySlot
		slotMap = map[objectKey]*manySlot{}
		width   int
	)
	for _, p := range plan {
		width += len(p.fields)
	}
	for rowNum := 0; rows.Next(); rowNum++ {
		vals := make([]any, 0, width)
		for _, p := range plan {
			for _, fd := range p.fields {
				vals = append(vals, reflect.New(fd.Type).Interface())
			}
		}
		if err := rows.Scan(vals...); err != nil {
			return nil, err
		}

		addrs := make(map[*Alias]unsafe.Pointer, len(plan))
		idx := 0
		for _, p := range plan {
			row := vals[idx : idx+len(p.fields)]
			idx += len(p.fields)

			var parent unsafe.Pointer
			if p.alias.Parent != nil {
				parent = addrs[p.alias.Parent]
			}
			key := objectKey{alias: p.alias, parent: parent, pk: pkKey(p, row, rowNum)}
			if addr, ok := objects[key]; ok {
				addrs[p.alias] = addr
				continue
			}

			var ptr reflect.Value
			switch {
			case p.alias.Parent == nil:
				tp := new(T)
				roots = append(roots, tp)
				ptr = reflect.ValueOf(tp)
			case p.alias.rel.Kind == model.ToOne:
				ptr = attachOne(parent, p.alias.rel)
			default:
				ptr = reflect.New(p.alias.rel.Target)
				slotKey := objectKey{alias: p.alias, parent: parent}
				slot, ok := slotMap[slotKey]
				if !ok {
					slot = &manySlot{parent: parent, rel: p.alias.rel}
					slotMap[slotKey] = slot
					slots = append(slots, slot)
				}
				slot.items = append(slot.items, ptr)
			}

			val := c.creator(p.alias.model, ptr.Interface())
			for i, fd := range p.fields {
				if err := val.SetField(fd.GoName, reflect.ValueOf(row[i]).Elem().Interface()); err != nil {
					return nil, err
				}
			}
			addr := ptr.UnsafePointer()
			objects[key] = addr
			addrs[p.alias] = addr
		}
	}
	// a slot is always created after the slot holding its parent
	for i := len(slots) - 1; i >= 0; i-- {
		slots[i].flush()
	}
	return roots, nil
}

// attachOne returns a pointer to the to-one value of parent, allocating it
// when the field is a nil pointer.
func attachOne(parent unsafe.Pointer, rel *model.Relation) reflect.Value {
	field := reflect.NewAt(rel.FieldType, unsafe.Add(parent, rel.Offset)).Elem()
	if !rel.Pointer() {
		return field.Addr()
	}
	ptr := reflect.New(rel.Target)
	field.Set(ptr)
	return ptr
}

func (m *manySlot) flush() {
	field := reflect.NewAt(m.rel.FieldType, unsafe.Add(m.parent, m.rel.Offset)).Elem()
	res := reflect.MakeSlice(m.rel.FieldType, 0, len(m.items))
	for _, item := range m.items {
		if m.rel.Pointer() {
			res = reflect.Append(res, item)
		} else {
			res = reflect.Append(res, item.Elem())
		}
	}
	field.Set(res)
}

func pkKey(p projection, row []any, rowNum int) string {
	if p.pk < 0 {
		return fmt.Sprintf("#%d", rowNum)
	}
	v := reflect.ValueOf(row[p.pk]).Elem()
	if v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return fmt.Sprintf("#%d", rowNum)
		}
		v = v.Elem()
	}
	return fmt.Sprintf("%v", v.Interface())
}
