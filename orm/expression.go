package orm

// Expression is a marker interface for anything that can appear in a
// predicate.
type Expression interface {
	expr()
}

// RawExpr is a piece of SQL written by the caller. Placeholders are passed
// through untouched.
type RawExpr struct {
	raw  string
	args []any
}

func Raw(expr string, args ...any) RawExpr {
	return RawExpr{
		raw:  expr,
		args: args,
	}
}

func (r RawExpr) selectable() {}
func (r RawExpr) expr()       {}

func (r RawExpr) AsPredicate() Predicate {
	return Predicate{
		left: r,
	}
}

type value struct {
	val any
}

func (value) expr() {}

// ValueOf keeps expressions as they are and binds everything else as a
// parameter.
func ValueOf(arg any) Expression {
	switch val := arg.(type) {
	case Expression:
		return val
	default:
		return value{val: val}
	}
}
