package resolver

import (
	"context"

	"adminql/graphql"
	"adminql/orm"
	"adminql/orm/model"
)

// Entity is a queryable model exposed under a name.
type Entity interface {
	Name() string
	Model(db *orm.DB) (*model.Model, error)
	// Explain renders the statement of q without running it
	Explain(sess orm.Session, q graphql.Query) (*orm.Query, error)
	// Find returns the matching entities as []*T
	Find(ctx context.Context, sess orm.Session, q graphql.Query) (any, error)
}

type entity[T any] struct {
	name string
}

// NewEntity exposes T under name.
func NewEntity[T any](name string) Entity {
	return entity[T]{name: name}
}

func (e entity[T]) Name() string {
	return e.name
}

func (e entity[T]) Model(db *orm.DB) (*model.Model, error) {
	return db.Model(new(T))
}

func (e entity[T]) compose(sess orm.Session, q graphql.Query) *orm.Selector[T] {
	return graphql.NewComposer[T](sess).ComposeQuery(q.Where, q.ComposeOptions)
}

func (e entity[T]) Explain(sess orm.Session, q graphql.Query) (*orm.Query, error) {
	return e.compose(sess, q).Build()
}

func (e entity[T]) Find(ctx context.Context, sess orm.Session, q graphql.Query) (any, error) {
	res, err := e.compose(sess, q).GetMulti(ctx)
	if err != nil {
		return nil, err
	}
	return res, nil
}
