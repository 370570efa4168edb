package orm

import (
	"strings"

	"adminql/orm/internal/errs"
	"adminql/orm/model"
)

type builder struct {
	sb   strings.Builder
	args []any
	core
	quoter byte

	// aliases visible to column references, nil for statements on a single
	// table
	aliases map[string]*Alias
}

func (b *builder) reset() {
	b.sb.Reset()
	b.args = nil
}

func (b *builder) quote(name string) {
	b.sb.WriteByte(b.quoter)
	b.sb.WriteString(name)
	b.sb.WriteByte(b.quoter)
}

// param binds val and writes the dialect placeholder for it.
func (b *builder) param(val any) {
	b.addArgs(val)
	b.sb.WriteString(b.dialect.placeholder(len(b.args)))
}

func (b *builder) addArgs(vals ...any) {
	if len(vals) == 0 {
		return
	}
	if b.args == nil {
		b.args = make([]any, 0, 8)
	}
	b.args = append(b.args, vals...)
}

func (b *builder) modelOf(table string) (*model.Model, error) {
	if table == "" {
		return b.model, nil
	}
	a, ok := b.aliases[table]
	if !ok || a.model == nil {
		return nil, errs.NewUnknownAlias(table)
	}
	return a.model, nil
}

func (b *builder) fieldOf(c Column) (*model.Field, error) {
	m, err := b.modelOf(c.table)
	if err != nil {
		return nil, err
	}
	if c.pk {
		if m.PrimaryKey == nil {
			return nil, errs.ErrNoPrimaryKey
		}
		return m.PrimaryKey, nil
	}
	fd, ok := m.FieldByName(c.name)
	if !ok {
		return nil, errs.NewUnknownField(c.name)
	}
	return fd, nil
}

func (b *builder) buildColumn(c Column) error {
	fd, err := b.fieldOf(c)
	if err != nil {
		return err
	}
	if c.table != "" {
		b.quote(c.table)
		b.sb.WriteByte('.')
	}
	b.quote(fd.ColName)
	if c.alias != "" {
		b.sb.WriteString(" AS ")
		b.quote(c.alias)
	}
	return nil
}

func (b *builder) buildExpression(expr Expression) error {
	switch exp := expr.(type) {
	case nil:
	case Predicate:
		if exp.left != nil {
			if err := b.buildSubExpression(exp.left); err != nil {
				return err
			}
		}
		if exp.op != "" {
			if exp.left != nil {
				b.sb.WriteByte(' ')
			}
			b.sb.WriteString(exp.op.String())
			b.sb.WriteByte(' ')
		}
		return b.buildSubExpression(exp.right)
	case Column:
		exp.alias = ""
		return b.buildColumn(exp)
	case RawExpr:
		b.sb.WriteByte('(')
		b.sb.WriteString(exp.raw)
		b.addArgs(exp.args...)
		b.sb.WriteByte(')')
	case condExpr:
		return b.buildCond(exp)
	case value:
		b.param(exp.val)
	default:
		return errs.NewUnsupportedExpression(exp)
	}
	return nil
}

func (b *builder) buildSubExpression(expr Expression) error {
	_, ok := expr.(Predicate)
	if ok {
		b.sb.WriteByte('(')
	}
	if err := b.buildExpression(expr); err != nil {
		return err
	}
	if ok {
		b.sb.WriteByte(')')
	}
	return nil
}

func (b *builder) buildCond(c condExpr) error {
	for _, tk := range tokenize(c.tmpl) {
		switch tk.kind {
		case tokenText:
			b.sb.WriteString(tk.text)
		case tokenRef:
			if _, ok := b.aliases[tk.table]; !ok {
				b.sb.WriteString(tk.text)
				continue
			}
			if err := b.buildColumn(C(tk.text)); err != nil {
				return err
			}
		case tokenParam:
			val, ok := c.params[tk.name]
			if !ok {
				return errs.NewMissingParameter(tk.name)
			}
			b.param(val)
		}
	}
	return nil
}
