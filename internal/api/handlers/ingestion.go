package handlers

import (
	"context"
	"io"
	"net/http"
	"strings"

	"github.com/pilcrow-ai/pilcrow/internal/api"
	"github.com/pilcrow-ai/pilcrow/internal/domain"
)

// maxUploadMemory bounds the in-memory portion of multipart parsing;
// larger uploads spill to temp files.
const maxUploadMemory = 8 << 20

type IngestionService interface {
	Ingest(ctx context.Context, content []byte, scope domain.TenantScope) (int, error)
}

type IngestionHandler struct {
	svc IngestionService
}

func NewIngestionHandler(svc IngestionService) *IngestionHandler {
	return &IngestionHandler{svc: svc}
}

type IngestionResponse struct {
	Message           string `json:"message"`
	NumChunksIngested int    `json:"num_chunks_ingested"`
}

// Ingest accepts a multipart PDF upload plus tenant identifiers and runs
// the ingestion pipeline. Zero chunks is still a success.
func (h *IngestionHandler) Ingest(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		api.Error(w, http.StatusBadRequest, "invalid multipart request")
		return
	}

	scope := domain.TenantScope{
		UserID:    r.FormValue("user_id"),
		ProductID: r.FormValue("product_id"),
	}
	if err := scope.Validate(); err != nil {
		api.HandleError(w, err)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		api.Error(w, http.StatusBadRequest, "file is required")
		return
	}
	defer file.Close()

	if !strings.HasSuffix(strings.ToLower(header.Filename), ".pdf") {
		api.Error(w, http.StatusBadRequest, domain.ErrNotPDF.Message)
		return
	}

	content, err := io.ReadAll(file)
	if err != nil {
		api.Error(w, http.StatusInternalServerError, "failed to read uploaded file")
		return
	}

	count, err := h.svc.Ingest(r.Context(), content, scope)
	if err != nil {
		api.HandleError(w, err)
		return
	}

	api.Success(w, http.StatusOK, IngestionResponse{
		Message:           "Document processed and indexed successfully.",
		NumChunksIngested: count,
	})
}
