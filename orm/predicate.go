package orm

type op string

const (
	opEq  op = "="
	opLT  op = "<"
	opGT  op = ">"
	opNot op = "NOT"
	opAnd op = "AND"
	opOr  op = "OR"
)

func (o op) String() string {
	return string(o)
}

// Predicate is a binary expression. Nested predicates are rendered inside
// parentheses.
type Predicate struct {
	left  Expression
	op    op
	right Expression
}

// Not(C("Name").Eq("Tom"))
func Not(p Predicate) Predicate {
	return Predicate{
		op:    opNot,
		right: p,
	}
}

// C("Id").Eq(12).And(C("Name").Eq("Tom"))
func (left Predicate) And(right Predicate) Predicate {
	return Predicate{
		left:  left,
		op:    opAnd,
		right: right,
	}
}

// C("Id").Eq(12).Or(C("Name").Eq("Tom"))
func (left Predicate) Or(right Predicate) Predicate {
	return Predicate{
		left:  left,
		op:    opOr,
		right: right,
	}
}

func (Predicate) expr() {}
