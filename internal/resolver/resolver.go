package resolver

import (
	"context"
	"errors"
	"fmt"

	"adminql/fronttype"
	"adminql/graphql"
	"adminql/orm"
)

var ErrUnknownEntity = errors.New("resolver: unknown entity")

// Resolver answers metadata, JSON and GraphQL queries over a fixed set of
// entities.
type Resolver struct {
	db       *orm.DB
	entities []Entity
	byName   map[string]Entity
}

func New(db *orm.DB, entities ...Entity) *Resolver {
	byName := make(map[string]Entity, len(entities))
	for _, e := range entities {
		byName[e.Name()] = e
	}
	return &Resolver{
		db:       db,
		entities: entities,
		byName:   byName,
	}
}

func (r *Resolver) Entity(name string) (Entity, error) {
	e, ok := r.byName[name]
	if !ok {
		return nil, fmt.Errorf("%w %q", ErrUnknownEntity, name)
	}
	return e, nil
}

// Names lists the entities in registration order.
func (r *Resolver) Names() []string {
	res := make([]string, 0, len(r.entities))
	for _, e := range r.entities {
		res = append(res, e.Name())
	}
	return res
}

type Column struct {
	Field  string `json:"field"`
	Column string `json:"column"`
}

// Meta describes an entity to the admin UI.
type Meta struct {
	Entity     string            `json:"entity"`
	Table      string            `json:"table"`
	PrimaryKey string            `json:"primaryKey,omitempty"`
	Columns    []Column          `json:"columns"`
	Relations  []string          `json:"relations"`
	Fields     []fronttype.Field `json:"fields"`
	Headers    []string          `json:"headers"`
	Searchable []string          `json:"searchable"`
}

func (r *Resolver) Meta(name string) (Meta, error) {
	e, err := r.Entity(name)
	if err != nil {
		return Meta{}, err
	}
	m, err := e.Model(r.db)
	if err != nil {
		return Meta{}, err
	}
	res := Meta{
		Entity:     e.Name(),
		Table:      m.TableName,
		Columns:    make([]Column, 0, len(m.Fields)),
		Relations:  make([]string, 0, len(m.Relations)),
		Fields:     m.FrontFields(),
		Headers:    []string{},
		Searchable: []string{},
	}
	if m.PrimaryKey != nil {
		res.PrimaryKey = m.PrimaryKey.GoName
	}
	for _, fd := range m.Fields {
		res.Columns = append(res.Columns, Column{Field: fd.GoName, Column: fd.ColName})
	}
	for _, rel := range m.Relations {
		res.Relations = append(res.Relations, rel.GoName)
	}
	for _, f := range fronttype.Headers(res.Fields) {
		res.Headers = append(res.Headers, f.Name)
	}
	for _, f := range fronttype.SearchableFields(res.Fields) {
		res.Searchable = append(res.Searchable, f.Name)
	}
	return res, nil
}

func (r *Resolver) Find(ctx context.Context, name string, q graphql.Query) (any, error) {
	e, err := r.Entity(name)
	if err != nil {
		return nil, err
	}
	return e.Find(ctx, r.db, q)
}

type Explained struct {
	Field string `json:"field"`
	SQL   string `json:"sql"`
	Args  []any  `json:"args"`
}

// Explain renders the statements of a GraphQL document without running
// them.
func (r *Resolver) Explain(query string, vars map[string]any) ([]Explained, error) {
	reqs, err := graphql.ParseQuery(query, vars)
	if err != nil {
		return nil, err
	}
	res := make([]Explained, 0, len(reqs))
	for _, req := range reqs {
		e, err := r.Entity(req.Entity)
		if err != nil {
			return nil, err
		}
		q, err := e.Explain(r.db, graphql.Query{Where: req.Where, ComposeOptions: req.Options})
		if err != nil {
			return nil, fmt.Errorf("%s: %w", req.Field, err)
		}
		res = append(res, Explained{Field: req.Field, SQL: q.SQL, Args: q.Args})
	}
	return res, nil
}

type Error struct {
	Message string   `json:"message"`
	Path    []string `json:"path,omitempty"`
}

// Response follows the GraphQL response layout.
type Response struct {
	Data   map[string]any `json:"data,omitempty"`
	Errors []Error        `json:"errors,omitempty"`
}

// GraphQL runs every request of the document. A failing request is reported
// in Errors with a null result; the others still run.
func (r *Resolver) GraphQL(ctx context.Context, query string, vars map[string]any) Response {
	reqs, err := graphql.ParseQuery(query, vars)
	if err != nil {
		return Response{Errors: []Error{{Message: err.Error()}}}
	}
	res := Response{Data: make(map[string]any, len(reqs))}
	for _, req := range reqs {
		val, err := r.Find(ctx, req.Entity, graphql.Query{Where: req.Where, ComposeOptions: req.Options})
		if err != nil {
			res.Data[req.Field] = nil
			res.Errors = append(res.Errors, Error{Message: err.Error(), Path: []string{req.Field}})
			continue
		}
		res.Data[req.Field] = val
	}
	return res
}
