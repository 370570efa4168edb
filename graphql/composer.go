package graphql

import (
	"database/sql/driver"
	"reflect"
	"sort"
	"strings"
	"time"

	"adminql/orm"
)

// QueryModelName is the alias of the queried entity.
const QueryModelName = "model"

// Composer turns a Where and ComposeOptions into a selector over T.
//
//	users, err := graphql.NewComposer[User](db).
//		ComposeQuery(graphql.Where{"status": "active"}, graphql.ComposeOptions{
//			Relations: []graphql.RelationQuery{graphql.Relation("profile")},
//			First:     10,
//		}).
//		GetMulti(ctx)
type Composer[T any] struct {
	sess orm.Session
}

func NewComposer[T any](sess orm.Session) *Composer[T] {
	return &Composer[T]{
		sess: sess,
	}
}

// ComposeQuery returns the selector unexecuted. It never fails by itself:
// unknown relations or fields, or a missing primary key for Last, are
// reported by the selector when it is built.
func (c *Composer[T]) ComposeQuery(where Where, opts ComposeOptions) *orm.Selector[T] {
	s := orm.NewSelector[T](c.sess).As(QueryModelName)

	if opts.Skip > 0 && opts.Limit > 0 {
		s.Take(opts.Limit).Skip(opts.Skip)
	}
	if opts.Limit > 0 {
		s.Limit(opts.Limit)
	}
	if opts.First > 0 {
		s.Take(opts.First)
	}
	if opts.Last > 0 {
		s.OrderBy(orm.PK(QueryModelName).Desc()).Take(opts.Last)
	}

	args := make(map[string]string, len(opts.Relations))
	for _, rel := range opts.Relations {
		if rel.Table == "" {
			continue
		}
		alias := strings.ReplaceAll(rel.Table, ".", "_")
		if rel.ForArg != "" {
			args[rel.ForArg] = alias
		}
		if _, err := s.FindAliasByName(alias); err == nil {
			continue
		}
		source := rel.Table
		if !strings.Contains(source, ".") {
			source = QueryModelName + "." + source
		}
		if rel.Select {
			s.InnerJoinAndSelect(source, alias)
		} else {
			s.InnerJoin(source, alias)
		}
	}

	if where != nil {
		w := whereWalker[T]{
			s:    s,
			args: args,
			op:   opts.ConditionOperator,
		}
		w.walk(where, QueryModelName, "")
	}
	return s
}

type whereWalker[T any] struct {
	s *orm.Selector[T]
	// forArg to alias, read only
	args map[string]string
	op   Operator
}

// walk adds the conditions of obj, whose keys belong to the entity joined as
// scope. parent is the dotted path of obj in the request.
func (w whereWalker[T]) walk(obj Where, scope string, parent string) {
	keys := make([]string, 0, len(obj))
	for key := range obj {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		val := obj[key]
		if val == Undefined {
			continue
		}
		path := key
		if parent != "" {
			path = parent + "." + key
		}
		if alias, ok := w.args[path]; ok {
			if nested, ok := asWhere(val); ok {
				w.walk(nested, alias, path)
			}
			continue
		}
		if isObject(val) {
			continue
		}
		if !isIdentifier(key) {
			// never spliced into a condition; Build reports it as an unknown field
			w.add(orm.C(scope + "." + key).Eq(val))
			continue
		}
		w.add(orm.Cond(scope+"."+key+" = :"+key, orm.Params{key: val}))
	}
}

func (w whereWalker[T]) add(cond orm.Predicate) {
	switch {
	case !w.s.HasWhere():
		w.s.Where(cond)
	case w.op == Or:
		w.s.OrWhere(cond)
	default:
		w.s.AndWhere(cond)
	}
}

func asWhere(val any) (Where, bool) {
	switch v := val.(type) {
	case Where:
		return v, true
	case map[string]any:
		return v, true
	}
	return nil, false
}

// isIdentifier accepts [A-Za-z_][A-Za-z0-9_]*.
func isIdentifier(key string) bool {
	if key == "" {
		return false
	}
	for i := 0; i < len(key); i++ {
		ch := key[i]
		switch {
		case ch == '_', ch >= 'a' && ch <= 'z', ch >= 'A' && ch <= 'Z':
		case ch >= '0' && ch <= '9' && i > 0:
		default:
			return false
		}
	}
	return true
}

// isObject reports whether val is a composite value rather than something
// that binds as a SQL parameter.
func isObject(val any) bool {
	switch val.(type) {
	case nil, []byte, time.Time, *time.Time, driver.Valuer:
		return false
	}
	v := reflect.ValueOf(val)
	for v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return false
		}
		v = v.Elem()
	}
	switch v.Kind() {
	case reflect.Map, reflect.Struct, reflect.Slice, reflect.Array:
		return true
	}
	return false
}
