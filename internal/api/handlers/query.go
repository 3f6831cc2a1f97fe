package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/pilcrow-ai/pilcrow/internal/api"
	"github.com/pilcrow-ai/pilcrow/internal/domain"
)

type QueryService interface {
	Search(ctx context.Context, query string, scope domain.TenantScope, history []domain.ChatMessage) *domain.QueryResult
}

type QueryHandler struct {
	svc QueryService
}

func NewQueryHandler(svc QueryService) *QueryHandler {
	return &QueryHandler{svc: svc}
}

type QueryRequest struct {
	Query       string               `json:"query"`
	UserID      string               `json:"user_id"`
	ProductID   string               `json:"product_id"`
	ChatHistory []domain.ChatMessage `json:"chat_history,omitempty"`
}

type QueryResponse struct {
	Answer string `json:"answer"`
}

// Query answers a natural-language question against the tenant's ingested
// documents. The orchestrator never errors; its structured result kind
// decides the status code here instead of string-matching answers.
func (h *QueryHandler) Query(w http.ResponseWriter, r *http.Request) {
	var req QueryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Query == "" {
		api.Error(w, http.StatusBadRequest, "query is required")
		return
	}
	scope := domain.TenantScope{UserID: req.UserID, ProductID: req.ProductID}
	if err := scope.Validate(); err != nil {
		api.HandleError(w, err)
		return
	}

	result := h.svc.Search(r.Context(), req.Query, scope, req.ChatHistory)

	switch result.Kind {
	case domain.QueryResultAnswer:
		api.Success(w, http.StatusOK, QueryResponse{Answer: result.Answer})
	case domain.QueryResultNotFound:
		api.Error(w, http.StatusNotFound, result.Answer)
	default:
		api.Error(w, http.StatusBadGateway, result.Answer)
	}
}
