package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	_ "github.com/mattn/go-sqlite3"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"adminql/internal/example"
	"adminql/internal/resolver"
	"adminql/orm"
)

func newTestRouter(t *testing.T, mdls ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	db, err := orm.Open("sqlite3", "file:api_test?mode=memory&cache=shared")
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = db.Close()
	})
	ctx := context.Background()
	require.NoError(t, example.Migrate(ctx, db))
	require.NoError(t, example.Seed(ctx, db))
	reg := prometheus.NewRegistry()
	mdls = append(mdls, Metrics(reg, "adminql", "api"))
	return NewRouter(resolver.New(db, example.Entities()...), reg, mdls...)
}

func TestRouter(t *testing.T) {
	r := newTestRouter(t)
	testCases := []struct {
		name       string
		method     string
		path       string
		body       string
		wantStatus int
		wantBody   func(t *testing.T, body string)
	}{
		{
			name:       "meta list",
			method:     http.MethodGet,
			path:       "/api/meta",
			wantStatus: http.StatusOK,
			wantBody: func(t *testing.T, body string) {
				var out []metaListItem
				require.NoError(t, json.Unmarshal([]byte(body), &out))
				assert.Equal(t, []metaListItem{
					{Entity: "users", Table: "users"},
					{Entity: "profiles", Table: "profiles"},
					{Entity: "addresses", Table: "addresses"},
					{Entity: "posts", Table: "posts"},
				}, out)
			},
		},
		{
			name:       "meta entity",
			method:     http.MethodGet,
			path:       "/api/meta/users",
			wantStatus: http.StatusOK,
			wantBody: func(t *testing.T, body string) {
				var out map[string]any
				require.NoError(t, json.Unmarshal([]byte(body), &out))
				assert.Equal(t, []any{"Profile", "CreatedAt"}, out["headers"])
				fields := out["fields"].([]any)
				require.Len(t, fields, 3)
				assert.Equal(t, map[string]any{
					"name": "Profile",
					"type": map[string]any{
						"typeName":       "map",
						"isEditable":     true,
						"isInHeader":     true,
						"isSearchable":   true,
						"placeOrder":     float64(1),
						"propertyToShow": "Nickname",
					},
				}, fields[0])
			},
		},
		{
			name:       "meta unknown entity",
			method:     http.MethodGet,
			path:       "/api/meta/comments",
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "query",
			method:     http.MethodPost,
			path:       "/api/users/_query",
			body:       `{"where":{"status":"active"},"relations":["profile"],"first":1}`,
			wantStatus: http.StatusOK,
			wantBody: func(t *testing.T, body string) {
				var out []example.User
				require.NoError(t, json.Unmarshal([]byte(body), &out))
				require.Len(t, out, 1)
				assert.Equal(t, "Tom", out[0].Name)
				assert.Equal(t, &example.Profile{Id: 1, Nickname: "tom", AddressId: 1}, out[0].Profile)
			},
		},
		{
			name:       "query bad body",
			method:     http.MethodPost,
			path:       "/api/users/_query",
			body:       `{"where":`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "query unknown entity",
			method:     http.MethodPost,
			path:       "/api/comments/_query",
			body:       `{}`,
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "query unknown field",
			method:     http.MethodPost,
			path:       "/api/users/_query",
			body:       `{"where":{"age":1}}`,
			wantStatus: http.StatusInternalServerError,
			wantBody: func(t *testing.T, body string) {
				assert.JSONEq(t, `{"error":"orm: unknown field age"}`, body)
			},
		},
		{
			name:       "query key is not an identifier",
			method:     http.MethodPost,
			path:       "/api/users/_query",
			body:       `{"where":{"status IS NOT NULL OR '":"nobody"}}`,
			wantStatus: http.StatusInternalServerError,
			wantBody: func(t *testing.T, body string) {
				assert.JSONEq(t, `{"error":"orm: unknown field status IS NOT NULL OR '"}`, body)
			},
		},
		{
			name:       "graphql",
			method:     http.MethodPost,
			path:       "/graphql",
			body:       `{"query":"query ($n: String) { posts(where: {title: $n}) { title } }","variables":{"n":"Cheese"}}`,
			wantStatus: http.StatusOK,
			wantBody: func(t *testing.T, body string) {
				var out struct {
					Data struct {
						Posts []example.Post `json:"posts"`
					} `json:"data"`
					Errors []resolver.Error `json:"errors"`
				}
				require.NoError(t, json.Unmarshal([]byte(body), &out))
				assert.Empty(t, out.Errors)
				require.Len(t, out.Data.Posts, 1)
				assert.Equal(t, int64(3), out.Data.Posts[0].Id)
				assert.Equal(t, []string{"food"}, out.Data.Posts[0].Tags.Val)
			},
		},
		{
			name:       "graphql without query",
			method:     http.MethodPost,
			path:       "/graphql",
			body:       `{"variables":{}}`,
			wantStatus: http.StatusBadRequest,
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(tc.method, tc.path, strings.NewReader(tc.body))
			req.Header.Set("Content-Type", "application/json")
			recorder := httptest.NewRecorder()
			r.ServeHTTP(recorder, req)
			assert.Equal(t, tc.wantStatus, recorder.Code)
			if tc.wantBody != nil {
				tc.wantBody(t, recorder.Body.String())
			}
		})
	}

	recorder := httptest.NewRecorder()
	r.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Body.String(), `adminql_api_http_response_count{method="GET",route="/api/meta",status="200"} 1`)
}

func TestMiddlewares(t *testing.T) {
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	var logs []string
	r := newTestRouter(t, Tracing(tp.Tracer("test")), AccessLog(func(log string) {
		logs = append(logs, log)
	}))

	recorder := httptest.NewRecorder()
	r.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/api/meta/users", nil))
	require.Equal(t, http.StatusOK, recorder.Code)

	spans := sr.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, "/api/meta/:entity", spans[0].Name())

	require.Len(t, logs, 1)
	assert.JSONEq(t, `{"host":"example.com","route":"/api/meta/:entity","http_method":"GET","path":"/api/meta/users","status":200}`, logs[0])
}
