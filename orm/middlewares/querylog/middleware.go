package querylog

import (
	"context"
	"log"
	"time"

	"adminql/orm"
)

// Entry describes one statement after it ran.
type Entry struct {
	Type     string
	Table    string
	SQL      string
	Args     []any
	Duration time.Duration
	Err      error
}

// MiddlewareBuilder logs every statement with its entity table and outcome.
// Statements that fail to build never reach the database and are not logged.
type MiddlewareBuilder struct {
	logFunc  func(e Entry)
	hideArgs bool
}

func NewMiddlewareBuilder() *MiddlewareBuilder {
	return &MiddlewareBuilder{
		logFunc: func(e Entry) {
			if e.Err != nil {
				log.Printf("orm: %s %s in %s: %s args=%v err=%v", e.Type, e.Table, e.Duration, e.SQL, e.Args, e.Err)
				return
			}
			log.Printf("orm: %s %s in %s: %s args=%v", e.Type, e.Table, e.Duration, e.SQL, e.Args)
		},
	}
}

func (m *MiddlewareBuilder) LogFunc(fn func(e Entry)) *MiddlewareBuilder {
	m.logFunc = fn
	return m
}

// HideArgs drops bound values from the entries, for filters carrying
// personal data.
func (m *MiddlewareBuilder) HideArgs() *MiddlewareBuilder {
	m.hideArgs = true
	return m
}

func (m MiddlewareBuilder) Build() orm.Middleware {
	return func(next orm.Handler) orm.Handler {
		return func(ctx context.Context, qc *orm.QueryContext) *orm.QueryResult {
			q, err := qc.Builder.Build()
			if err != nil {
				return &orm.QueryResult{
					Err: err,
				}
			}
			e := Entry{Type: qc.Type, SQL: q.SQL}
			if qc.Model != nil {
				e.Table = qc.Model.TableName
			}
			if !m.hideArgs {
				e.Args = q.Args
			}
			start := time.Now()
			res := next(ctx, qc)
			e.Duration = time.Since(start)
			e.Err = res.Err
			m.logFunc(e)
			return res
		}
	}
}
