package orm

import (
	"context"
	"database/sql"

	"adminql/orm/internal/valuer"
	"adminql/orm/model"
)

// core is what every statement needs from the session that created it.
type core struct {
	model   *model.Model
	dialect Dialect
	creator valuer.Creator
	r       model.Registry
	mdls    []Middleware
}

// rowsScanner turns a result set into *T or []*T.
type rowsScanner func(rows *sql.Rows) (any, error)

func query(ctx context.Context, sess Session, c core, qc *QueryContext, scan rowsScanner) *QueryResult {
	var root Handler = func(ctx context.Context, qc *QueryContext) *QueryResult {
		return queryHandler(ctx, sess, qc, scan)
	}
	for i := len(c.mdls) - 1; i >= 0; i-- {
		root = c.mdls[i](root)
	}
	return root(ctx, qc)
}

func queryHandler(ctx context.Context, sess Session, qc *QueryContext, scan rowsScanner) *QueryResult {
	q, err := qc.Builder.Build()
	if err != nil {
		return &QueryResult{
			Err: err,
		}
	}
	rows, err := sess.queryContext(ctx, q.SQL, q.Args...)
	if err != nil {
		return &QueryResult{
			Err: err,
		}
	}
	defer rows.Close()
	res, err := scan(rows)
	if err == nil {
		err = rows.Err()
	}
	return &QueryResult{
		Err:    err,
		Result: res,
	}
}

func exec(ctx context.Context, sess Session, c core, qc *QueryContext) *QueryResult {
	var root Handler = func(ctx context.Context, qc *QueryContext) *QueryResult {
		return execHandler(ctx, sess, qc)
	}
	for i := len(c.mdls) - 1; i >= 0; i-- {
		root = c.mdls[i](root)
	}
	return root(ctx, qc)
}

func execHandler(ctx context.Context, sess Session, qc *QueryContext) *QueryResult {
	q, err := qc.Builder.Build()
	if err != nil {
		return &QueryResult{
			Err: err,
		}
	}
	res, err := sess.execContext(ctx, q.SQL, q.Args...)
	if err != nil {
		return &QueryResult{
			Err: err,
		}
	}
	return &QueryResult{
		Result: res,
	}
}

// scanFirst reads a single row by column name.
func scanFirst[T any](c core, m *model.Model) rowsScanner {
	return func(rows *sql.Rows) (any, error) {
		if !rows.Next() {
			return nil, ErrNoRows
		}
		tp := new(T)
		if err := c.creator(m, tp).SetColumns(rows); err != nil {
			return nil, err
		}
		return tp, nil
	}
}

// scanAll reads every row by column name.
func scanAll[T any](c core, m *model.Model) rowsScanner {
	return func(rows *sql.Rows) (any, error) {
		res := make([]*T, 0, 8)
		for rows.Next() {
			tp := new(T)
			if err := c.creator(m, tp).SetColumns(rows); err != nil {
				return nil, err
			}
			res = append(res, tp)
		}
		return res, nil
	}
}
