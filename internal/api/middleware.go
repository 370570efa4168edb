package api

import (
	"encoding/json"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "adminql/internal/api"

type accessLog struct {
	Host       string `json:"host,omitempty"`
	Route      string `json:"route,omitempty"`
	HTTPMethod string `json:"http_method,omitempty"`
	Path       string `json:"path,omitempty"`
	Status     int    `json:"status,omitempty"`
}

// AccessLog reports every request as a JSON line.
func AccessLog(logFunc func(log string)) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			l := accessLog{
				Host:       c.Request.Host,
				Route:      c.FullPath(),
				HTTPMethod: c.Request.Method,
				Path:       c.Request.URL.Path,
				Status:     c.Writer.Status(),
			}
			data, _ := json.Marshal(l)
			logFunc(string(data))
		}()
		c.Next()
	}
}

// Tracing continues the trace of the caller, if any, and names the span
// after the matched route.
func Tracing(tracer trace.Tracer) gin.HandlerFunc {
	if tracer == nil {
		tracer = otel.GetTracerProvider().Tracer(instrumentationName)
	}
	return func(c *gin.Context) {
		reqCtx := otel.GetTextMapPropagator().Extract(c.Request.Context(), propagation.HeaderCarrier(c.Request.Header))
		reqCtx, span := tracer.Start(reqCtx, "unknown")
		defer span.End()

		span.SetAttributes(attribute.String("http.method", c.Request.Method))
		span.SetAttributes(attribute.String("http.url", c.Request.URL.String()))
		span.SetAttributes(attribute.String("http.host", c.Request.Host))

		c.Request = c.Request.WithContext(reqCtx)
		c.Next()

		if route := c.FullPath(); route != "" {
			span.SetName(route)
		}
		span.SetAttributes(attribute.Int("http.status", c.Writer.Status()))
	}
}

// Metrics observes the response time of every route in milliseconds.
func Metrics(reg prometheus.Registerer, namespace, subsystem string) gin.HandlerFunc {
	vector := prometheus.NewSummaryVec(prometheus.SummaryOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "http_response",
		Help:      "response time of http routes in milliseconds",
		Objectives: map[float64]float64{
			0.5:   0.01,
			0.75:  0.01,
			0.90:  0.01,
			0.99:  0.001,
			0.999: 0.0001,
		},
	}, []string{"method", "route", "status"})
	reg.MustRegister(vector)
	return func(c *gin.Context) {
		startTime := time.Now()
		defer func() {
			route := c.FullPath()
			if route == "" {
				route = "unknown"
			}
			vector.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).
				Observe(float64(time.Since(startTime).Milliseconds()))
		}()
		c.Next()
	}
}
