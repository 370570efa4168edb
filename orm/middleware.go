package orm

import (
	"context"

	"adminql/orm/model"
)

type QueryContext struct {
	// SELECT, INSERT or RAW
	Type string

	// Builder renders the statement; middlewares may call Build as often as
	// they need.
	Builder QueryBuilder
	Model   *model.Model
}

type QueryResult struct {
	// *T or []*T for queries, sql.Result for statements
	Result any
	Err    error
}

type Handler func(ctx context.Context, qc *QueryContext) *QueryResult

type Middleware func(next Handler) Handler
