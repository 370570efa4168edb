package orm

import (
	"context"
	"database/sql"
	"reflect"

	"adminql/orm/internal/errs"
	"adminql/orm/model"
)

type Selectable interface {
	selectable()
}

// Selector builds a SELECT over T. Relations of T are joined by alias:
//
//	NewSelector[User](db).As("model").
//		InnerJoinAndSelect("model.Profile", "profile").
//		Where(Cond("profile.Nickname = :nickname", Params{"nickname": "tom"})).
//		Take(10)
type Selector[T any] struct {
	builder

	sess Session

	root  *Alias
	joins []*Alias
	// first error met while declaring joins, reported by Build
	err error

	columns []Selectable

	where    Predicate
	hasWhere bool

	orders []Order

	take   int
	skip   int
	limit  int
	offset int

	// columns projected for hydration, set by Build
	plan []projection
}

func NewSelector[T any](sess Session) *Selector[T] {
	c := sess.getCore()
	root := &Alias{}
	return &Selector[T]{
		builder: builder{
			core:    c,
			quoter:  c.dialect.quoter(),
			aliases: map[string]*Alias{},
		},
		sess: sess,
		root: root,
	}
}

// As names the root entity so that conditions and joins can refer to it.
func (s *Selector[T]) As(alias string) *Selector[T] {
	if s.root.Name != "" {
		delete(s.aliases, s.root.Name)
	}
	s.root.Name = alias
	if alias != "" {
		s.aliases[alias] = s.root
	}
	return s
}

// InnerJoin joins the relation at path, "parentAlias.Relation", as alias
// without selecting it.
func (s *Selector[T]) InnerJoin(path string, alias string) *Selector[T] {
	return s.join(path, alias, false)
}

// InnerJoinAndSelect joins the relation at path and hydrates it into the
// result.
func (s *Selector[T]) InnerJoinAndSelect(path string, alias string) *Selector[T] {
	return s.join(path, alias, true)
}

func (s *Selector[T]) join(path string, alias string, selected bool) *Selector[T] {
	if s.err != nil {
		return s
	}
	parentName, relation, err := splitRelationPath(path)
	if err != nil {
		s.err = err
		return s
	}
	parent, ok := s.aliases[parentName]
	if !ok {
		s.err = errs.NewUnknownAlias(parentName)
		return s
	}
	if _, ok = s.aliases[alias]; ok || alias == "" {
		s.err = errs.NewDuplicateAlias(alias)
		return s
	}
	a := &Alias{
		Name:     alias,
		Parent:   parent,
		Relation: relation,
		Selected: selected,
	}
	s.aliases[alias] = a
	s.joins = append(s.joins, a)
	return s
}

// FindAliasByName returns the alias bound to name by As or a join.
func (s *Selector[T]) FindAliasByName(name string) (*Alias, error) {
	a, ok := s.aliases[name]
	if !ok {
		return nil, errs.NewUnknownAlias(name)
	}
	return a, nil
}

// Where replaces the conditions with ps joined by AND.
func (s *Selector[T]) Where(ps ...Predicate) *Selector[T] {
	if len(ps) == 0 {
		s.where, s.hasWhere = Predicate{}, false
		return s
	}
	p := ps[0]
	for i := 1; i < len(ps); i++ {
		p = p.And(ps[i])
	}
	s.where, s.hasWhere = p, true
	return s
}

// AndWhere combines p with the current conditions. Conditions are folded
// from the left: Where(a).OrWhere(b).AndWhere(c) is (a OR b) AND c.
func (s *Selector[T]) AndWhere(p Predicate) *Selector[T] {
	if !s.hasWhere {
		return s.Where(p)
	}
	s.where = s.where.And(p)
	return s
}

func (s *Selector[T]) OrWhere(p Predicate) *Selector[T] {
	if !s.hasWhere {
		return s.Where(p)
	}
	s.where = s.where.Or(p)
	return s
}

func (s *Selector[T]) HasWhere() bool {
	return s.hasWhere
}

// Select replaces the projection. Rows are then scanned by column name and
// joined relations are not hydrated.
func (s *Selector[T]) Select(cols ...Selectable) *Selector[T] {
	s.columns = cols
	return s
}

func (s *Selector[T]) OrderBy(orders ...Order) *Selector[T] {
	s.orders = orders
	return s
}

func (s *Selector[T]) AddOrderBy(orders ...Order) *Selector[T] {
	s.orders = append(s.orders, orders...)
	return s
}

// Take limits the number of entities. It wins over Limit.
func (s *Selector[T]) Take(n int) *Selector[T] {
	s.take = n
	return s
}

// Skip skips entities. It wins over Offset.
func (s *Selector[T]) Skip(n int) *Selector[T] {
	s.skip = n
	return s
}

func (s *Selector[T]) Limit(n int) *Selector[T] {
	s.limit = n
	return s
}

func (s *Selector[T]) Offset(n int) *Selector[T] {
	s.offset = n
	return s
}

func (s *Selector[T]) Build() (*Query, error) {
	s.reset()
	s.plan = nil
	if s.err != nil {
		return nil, s.err
	}
	if err := s.resolve(); err != nil {
		return nil, err
	}

	s.sb.WriteString("SELECT ")
	if err := s.buildColumns(); err != nil {
		return nil, err
	}
	s.sb.WriteString(" FROM ")
	s.quote(s.model.TableName)
	if s.root.Name != "" {
		s.sb.WriteString(" AS ")
		s.quote(s.root.Name)
	}
	for _, a := range s.joins {
		if err := s.buildJoin(a); err != nil {
			return nil, err
		}
	}

	if s.hasWhere {
		s.sb.WriteString(" WHERE ")
		if err := s.buildExpression(s.where); err != nil {
			return nil, err
		}
	}

	if len(s.orders) > 0 {
		s.sb.WriteString(" ORDER BY ")
		for i, o := range s.orders {
			if i > 0 {
				s.sb.WriteByte(',')
			}
			if err := s.buildColumn(o.col.As("")); err != nil {
				return nil, err
			}
			if o.desc {
				s.sb.WriteString(" DESC")
			} else {
				s.sb.WriteString(" ASC")
			}
		}
	}

	limit, offset := s.limit, s.offset
	if s.take > 0 {
		limit = s.take
	}
	if s.skip > 0 {
		offset = s.skip
	}
	if limit > 0 {
		s.sb.WriteString(" LIMIT ")
		s.param(limit)
	}
	if offset > 0 {
		s.sb.WriteString(" OFFSET ")
		s.param(offset)
	}

	s.sb.WriteByte(';')
	return &Query{
		SQL:  s.sb.String(),
		Args: s.args,
	}, nil
}

// resolve loads the metadata of the root entity and of every joined
// relation, in join order.
func (s *Selector[T]) resolve() error {
	if s.model == nil {
		m, err := s.r.Get(new(T))
		if err != nil {
			return err
		}
		s.model = m
	}
	s.root.model = s.model
	for _, a := range s.joins {
		pm := a.Parent.model
		rel, ok := pm.RelationByName(a.Relation)
		if !ok {
			return errs.NewUnknownRelation(pm.Type.Name(), a.Relation)
		}
		m, err := s.r.Get(reflect.New(rel.Target).Interface())
		if err != nil {
			return err
		}
		a.model, a.rel = m, rel
	}
	return nil
}

func (s *Selector[T]) buildJoin(a *Alias) error {
	s.sb.WriteString(" INNER JOIN ")
	s.quote(a.model.TableName)
	s.sb.WriteString(" AS ")
	s.quote(a.Name)
	s.sb.WriteString(" ON ")
	switch a.rel.Kind {
	case model.ToOne:
		if a.model.PrimaryKey == nil {
			return errs.ErrNoPrimaryKey
		}
		s.quoteColumn(a.Parent.Name, a.rel.JoinColumn)
		s.sb.WriteString(" = ")
		s.quoteColumn(a.Name, a.model.PrimaryKey.ColName)
	case model.ToMany:
		if a.Parent.model.PrimaryKey == nil {
			return errs.ErrNoPrimaryKey
		}
		s.quoteColumn(a.Name, a.rel.InverseColumn)
		s.sb.WriteString(" = ")
		s.quoteColumn(a.Parent.Name, a.Parent.model.PrimaryKey.ColName)
	}
	return nil
}

func (s *Selector[T]) quoteColumn(table string, col string) {
	s.quote(table)
	s.sb.WriteByte('.')
	s.quote(col)
}

func (s *Selector[T]) buildColumns() error {
	if len(s.columns) > 0 {
		for i, col := range s.columns {
			if i > 0 {
				s.sb.WriteByte(',')
			}
			switch c := col.(type) {
			case Column:
				if err := s.buildColumn(c); err != nil {
					return err
				}
			case Aggregate:
				s.sb.WriteString(c.fn)
				s.sb.WriteByte('(')
				if err := s.buildColumn(c.arg.As("")); err != nil {
					return err
				}
				s.sb.WriteByte(')')
				if c.alias != "" {
					s.sb.WriteString(" AS ")
					s.quote(c.alias)
				}
			case RawExpr:
				s.sb.WriteString(c.raw)
				s.addArgs(c.args...)
			}
		}
		return nil
	}
	if len(s.joins) == 0 {
		s.sb.WriteByte('*')
		return nil
	}
	// with joins every column is qualified and scanned by position
	s.plan = append(s.plan, newProjection(s.root))
	for _, a := range s.joins {
		if a.hydrated() {
			s.plan = append(s.plan, newProjection(a))
		}
	}
	cnt := 0
	for _, p := range s.plan {
		for _, fd := range p.fields {
			if cnt > 0 {
				s.sb.WriteByte(',')
			}
			s.quoteColumn(p.alias.Name, fd.ColName)
			cnt++
		}
	}
	return nil
}

func (s *Selector[T]) Get(ctx context.Context) (*T, error) {
	if s.model == nil {
		var err error
		s.model, err = s.r.Get(new(T))
		if err != nil {
			return nil, err
		}
	}
	res := query(ctx, s.sess, s.core, &QueryContext{
		Type:    "SELECT",
		Builder: s,
		Model:   s.model,
	}, s.scanner(true))
	if res.Result != nil {
		return res.Result.(*T), res.Err
	}
	return nil, res.Err
}

func (s *Selector[T]) GetMulti(ctx context.Context) ([]*T, error) {
	if s.model == nil {
		var err error
		s.model, err = s.r.Get(new(T))
		if err != nil {
			return nil, err
		}
	}
	res := query(ctx, s.sess, s.core, &QueryContext{
		Type:    "SELECT",
		Builder: s,
		Model:   s.model,
	}, s.scanner(false))
	if res.Result != nil {
		return res.Result.([]*T), res.Err
	}
	return nil, res.Err
}

// scanner is called after Build, so the projection plan is known.
func (s *Selector[T]) scanner(first bool) rowsScanner {
	return func(rows *sql.Rows) (any, error) {
		if len(s.plan) == 0 {
			if first {
				return scanFirst[T](s.core, s.model)(rows)
			}
			return scanAll[T](s.core, s.model)(rows)
		}
		res, err := hydrate[T](s.core, s.plan, rows)
		if err != nil {
			return nil, err
		}
		if first {
			if len(res) == 0 {
				return nil, ErrNoRows
			}
			return res[0], nil
		}
		return res, nil
	}
}
