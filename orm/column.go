package orm

import "strings"

// Column references a field of the root entity, or of a joined alias when
// written as "alias.Field".
type Column struct {
	// table alias, empty for the root entity
	table string
	name  string
	alias string
	// pk resolves to the primary key of the model behind table
	pk bool
}

// C("Age") or C("profile.Nickname")
func C(name string) Column {
	if idx := strings.IndexByte(name, '.'); idx > 0 {
		return Column{
			table: name[:idx],
			name:  name[idx+1:],
		}
	}
	return Column{
		name: name,
	}
}

// PK references the primary key of the entity joined as alias, whatever its
// name.
func PK(alias string) Column {
	return Column{
		table: alias,
		pk:    true,
	}
}

func (c Column) assigns() {}

// As is a value receiver so a Column stays immutable.
func (c Column) As(alias string) Column {
	return Column{
		table: c.table,
		name:  c.name,
		alias: alias,
		pk:    c.pk,
	}
}

func (c Column) Eq(arg any) Predicate {
	return Predicate{
		left:  c,
		op:    opEq,
		right: ValueOf(arg),
	}
}

func (c Column) Lt(arg any) Predicate {
	return Predicate{
		left:  c,
		op:    opLT,
		right: ValueOf(arg),
	}
}

func (c Column) Gt(arg any) Predicate {
	return Predicate{
		left:  c,
		op:    opGT,
		right: ValueOf(arg),
	}
}

func (c Column) Asc() Order {
	return Order{col: c}
}

func (c Column) Desc() Order {
	return Order{col: c, desc: true}
}

func (c Column) expr()       {}
func (c Column) selectable() {}
