package slowquery

import (
	"context"
	"log"
	"time"

	"adminql/orm"
)

// MiddlewareBuilder logs statements that take at least threshold.
type MiddlewareBuilder struct {
	threshold time.Duration
	logFunc   func(query string, args []any, duration time.Duration)
}

func NewMiddlewareBuilder(threshold time.Duration) *MiddlewareBuilder {
	return &MiddlewareBuilder{
		logFunc: func(query string, args []any, duration time.Duration) {
			log.Printf("slow sql: %s, args: %v, took: %s", query, args, duration)
		},
		threshold: threshold,
	}
}

func (m *MiddlewareBuilder) LogFunc(fn func(query string, args []any, duration time.Duration)) *MiddlewareBuilder {
	m.logFunc = fn
	return m
}

func (m MiddlewareBuilder) Build() orm.Middleware {
	return func(next orm.Handler) orm.Handler {
		return func(ctx context.Context, qc *orm.QueryContext) *orm.QueryResult {
			startTime := time.Now()
			defer func() {
				duration := time.Since(startTime)
				if duration < m.threshold {
					return
				}
				q, err := qc.Builder.Build()
				if err == nil {
					m.logFunc(q.SQL, q.Args, duration)
				}
			}()
			return next(ctx, qc)
		}
	}
}
