package api

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"adminql/internal/resolver"
)

// NewRouter serves res. Metrics are read from gatherer, and mdls run before
// every handler.
func NewRouter(res *resolver.Resolver, gatherer prometheus.Gatherer, mdls ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(mdls...)

	r.GET("/api/meta", MetaListHandler(res))
	r.GET("/api/meta/:entity", MetaEntityHandler(res))
	r.POST("/api/:entity/_query", QueryHandler(res))
	r.POST("/graphql", GraphQLHandler(res))
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))
	return r
}
