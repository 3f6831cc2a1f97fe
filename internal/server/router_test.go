package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pilcrow-ai/pilcrow/internal/api/handlers"
	"github.com/pilcrow-ai/pilcrow/internal/domain"
)

type stubIngestionService struct{}

func (stubIngestionService) Ingest(ctx context.Context, content []byte, scope domain.TenantScope) (int, error) {
	return 0, nil
}

type stubQueryService struct{}

func (stubQueryService) Search(ctx context.Context, query string, scope domain.TenantScope, history []domain.ChatMessage) *domain.QueryResult {
	return &domain.QueryResult{Kind: domain.QueryResultAnswer, Answer: "ok"}
}

func newTestRouter() http.Handler {
	return NewRouter(RouterConfig{
		IngestionHandler: handlers.NewIngestionHandler(stubIngestionService{}),
		QueryHandler:     handlers.NewQueryHandler(stubQueryService{}),
	})
}

func TestRouter_Health(t *testing.T) {
	router := newTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)
}

func TestRouter_SetsRequestID(t *testing.T) {
	router := newTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestRouter_PreservesClientRequestID(t *testing.T) {
	router := newTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Request-ID", "client-supplied")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, "client-supplied", rec.Header().Get("X-Request-ID"))
}

func TestRouter_QueryRoute(t *testing.T) {
	router := newTestRouter()

	body := `{"query":"q","user_id":"u","product_id":"p"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/query", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRouter_UnknownRoute(t *testing.T) {
	router := newTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/nope", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
