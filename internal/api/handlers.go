package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"adminql/graphql"
	"adminql/internal/resolver"
)

type metaListItem struct {
	Entity string `json:"entity"`
	Table  string `json:"table"`
}

func MetaListHandler(res *resolver.Resolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		names := res.Names()
		out := make([]metaListItem, 0, len(names))
		for _, name := range names {
			meta, err := res.Meta(name)
			if err != nil {
				writeError(c, err)
				return
			}
			out = append(out, metaListItem{Entity: meta.Entity, Table: meta.Table})
		}
		c.JSON(http.StatusOK, out)
	}
}

func MetaEntityHandler(res *resolver.Resolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		meta, err := res.Meta(c.Param("entity"))
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, meta)
	}
}

// QueryHandler answers POST /api/:entity/_query with a JSON graphql.Query
// body.
func QueryHandler(res *resolver.Resolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		var q graphql.Query
		if err := c.ShouldBindJSON(&q); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		out, err := res.Find(c.Request.Context(), c.Param("entity"), q)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, out)
	}
}

type graphQLBody struct {
	Query     string         `json:"query" binding:"required"`
	Variables map[string]any `json:"variables"`
}

// GraphQLHandler answers POST /graphql. Request errors are reported in the
// response body with status 200.
func GraphQLHandler(res *resolver.Resolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		var body graphQLBody
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, res.GraphQL(c.Request.Context(), body.Query, body.Variables))
	}
}

func writeError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	if errors.Is(err, resolver.ErrUnknownEntity) {
		status = http.StatusNotFound
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
