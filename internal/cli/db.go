package cli

import (
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/trace"

	// drivers selected by name in the configuration
	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"

	"adminql/internal/config"
	"adminql/orm"
	"adminql/orm/middlewares/opentelemetry"
	ormprom "adminql/orm/middlewares/prometheus"
	"adminql/orm/middlewares/querylog"
	"adminql/orm/middlewares/slowquery"
)

// openDB opens the configured database with the query middlewares. reg and
// tracer are optional.
func openDB(cfg config.Config, reg prometheus.Registerer, tracer trace.Tracer) (*orm.DB, error) {
	var mdls []orm.Middleware
	if tracer != nil {
		mdls = append(mdls, opentelemetry.MiddlewareBuilder{Tracer: tracer}.Build())
	}
	if reg != nil {
		mdls = append(mdls, ormprom.MiddlewareBuilder{
			Namespace:  "adminql",
			Subsystem:  "orm",
			Name:       "query_duration_ms",
			Help:       "duration of sql statements in milliseconds",
			Registerer: reg,
		}.Build())
	}
	if cfg.LogQueries {
		mdls = append(mdls, querylog.NewMiddlewareBuilder().Build())
	}
	if cfg.SlowQuery > 0 {
		mdls = append(mdls, slowquery.NewMiddlewareBuilder(cfg.SlowQuery).Build())
	}
	return orm.Open(cfg.DB.Driver, cfg.DB.DSN, orm.DBWithMiddleware(mdls...))
}
