package service

import (
	"context"
	"log"
	"strings"

	"github.com/pilcrow-ai/pilcrow/internal/domain"
)

// TextExtractor pulls plain text out of raw document bytes.
type TextExtractor interface {
	ExtractText(content []byte) (string, error)
}

// Splitter divides extracted text into bounded, overlapping chunks.
type Splitter interface {
	Split(text string) []string
}

// DocumentEmbedder embeds an ordered batch of texts, one vector per input.
type DocumentEmbedder interface {
	EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error)
}

// VectorUpserter writes records into the tenant-partitioned vector index.
type VectorUpserter interface {
	Upsert(ctx context.Context, records []domain.VectorRecord) (int, error)
}

// DocumentArchiver stores the raw document after successful ingestion.
type DocumentArchiver interface {
	ArchivePDF(ctx context.Context, scope domain.TenantScope, content []byte) (string, error)
}

// IngestionService runs the extract -> chunk -> embed -> upsert pipeline
// for one document per call. Embedding and upsert each happen as a single
// batched call; there is no per-chunk fan-out.
type IngestionService struct {
	extractor TextExtractor
	splitter  Splitter
	embedder  DocumentEmbedder
	store     VectorUpserter
	archiver  DocumentArchiver
}

// NewIngestionService creates an IngestionService without document archival.
func NewIngestionService(extractor TextExtractor, splitter Splitter, embedder DocumentEmbedder, store VectorUpserter) *IngestionService {
	return NewIngestionServiceWithArchive(extractor, splitter, embedder, store, nil)
}

// NewIngestionServiceWithArchive creates an IngestionService that also
// archives the raw PDF after a successful upsert.
func NewIngestionServiceWithArchive(
	extractor TextExtractor,
	splitter Splitter,
	embedder DocumentEmbedder,
	store VectorUpserter,
	archiver DocumentArchiver,
) *IngestionService {
	return &IngestionService{
		extractor: extractor,
		splitter:  splitter,
		embedder:  embedder,
		store:     store,
		archiver:  archiver,
	}
}

// Ingest processes one PDF for a tenant scope and returns the number of
// chunks written to the vector index. A readable document with no text is
// a soft no-op: zero chunks, no error, and neither the embedder nor the
// store is touched. Any hard failure aborts the whole request; no
// partial-success state is exposed.
func (s *IngestionService) Ingest(ctx context.Context, content []byte, scope domain.TenantScope) (int, error) {
	if err := scope.Validate(); err != nil {
		return 0, err
	}

	text, err := s.extractor.ExtractText(content)
	if err != nil {
		return 0, err
	}
	if strings.TrimSpace(text) == "" {
		log.Printf("ingest: no text found in document for %s/%s, skipping", scope.UserID, scope.ProductID)
		return 0, nil
	}

	chunks := s.splitter.Split(text)
	if len(chunks) == 0 {
		return 0, nil
	}

	embeddings, err := s.embedder.EmbedDocuments(ctx, chunks)
	if err != nil {
		return 0, domain.NewDomainErrorWithCause(domain.ErrCodeUnavailable, "embedding backend unavailable", err)
	}
	if len(embeddings) != len(chunks) {
		return 0, domain.NewDomainError(domain.ErrCodeInternalError, "embedding count does not match chunk count")
	}

	records := make([]domain.VectorRecord, len(chunks))
	for i, chunk := range chunks {
		records[i] = domain.VectorRecord{
			ID:        domain.VectorID(scope, i),
			Embedding: embeddings[i],
			Content:   chunk,
			Scope:     scope,
		}
	}

	count, err := s.store.Upsert(ctx, records)
	if err != nil {
		return 0, domain.NewDomainErrorWithCause(domain.ErrCodeUnavailable, "vector store unavailable", err)
	}

	// The vector index is the system of record; losing the archive copy
	// must not fail the ingestion.
	if s.archiver != nil {
		if key, err := s.archiver.ArchivePDF(ctx, scope, content); err != nil {
			log.Printf("ingest: failed to archive document for %s/%s: %v", scope.UserID, scope.ProductID, err)
		} else {
			log.Printf("ingest: archived document at %s", key)
		}
	}

	return count, nil
}
