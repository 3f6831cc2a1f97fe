package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/pilcrow-ai/pilcrow/internal/chunk"
	"github.com/pilcrow-ai/pilcrow/internal/domain"
)

type MockExtractor struct {
	mock.Mock
}

func (m *MockExtractor) ExtractText(content []byte) (string, error) {
	args := m.Called(content)
	return args.String(0), args.Error(1)
}

type MockDocumentEmbedder struct {
	mock.Mock
}

func (m *MockDocumentEmbedder) EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error) {
	args := m.Called(ctx, texts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([][]float32), args.Error(1)
}

type MockUpserter struct {
	mock.Mock
}

func (m *MockUpserter) Upsert(ctx context.Context, records []domain.VectorRecord) (int, error) {
	args := m.Called(ctx, records)
	return args.Int(0), args.Error(1)
}

type MockArchiver struct {
	mock.Mock
}

func (m *MockArchiver) ArchivePDF(ctx context.Context, scope domain.TenantScope, content []byte) (string, error) {
	args := m.Called(ctx, scope, content)
	return args.String(0), args.Error(1)
}

func embeddingsFor(n, dims int) [][]float32 {
	out := make([][]float32, n)
	for i := range out {
		out[i] = make([]float32, dims)
		out[i][0] = float32(i + 1)
	}
	return out
}

var testScope = domain.TenantScope{UserID: "u1", ProductID: "p1"}

func TestIngest_TwoChunkDocument(t *testing.T) {
	extractor := new(MockExtractor)
	embedder := new(MockDocumentEmbedder)
	store := new(MockUpserter)
	svc := NewIngestionService(extractor, chunk.New(chunk.DefaultConfig()), embedder, store)

	// 1500 runes without whitespace split into exactly two windows:
	// 0-1000 and 800-1500.
	text := strings.Repeat("abcde", 300)
	content := []byte("%PDF-fake")

	extractor.On("ExtractText", content).Return(text, nil)
	embedder.On("EmbedDocuments", mock.Anything, mock.Anything).Return(embeddingsFor(2, 8), nil)

	var captured []domain.VectorRecord
	store.On("Upsert", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			captured = args.Get(1).([]domain.VectorRecord)
		}).
		Return(2, nil)

	count, err := svc.Ingest(context.Background(), content, testScope)

	require.NoError(t, err)
	assert.Equal(t, 2, count)

	require.Len(t, captured, 2)
	assert.Equal(t, "u1_p1_chunk_0", captured[0].ID)
	assert.Equal(t, "u1_p1_chunk_1", captured[1].ID)
	assert.Equal(t, text[0:1000], captured[0].Content)
	assert.Equal(t, text[800:1500], captured[1].Content)
	assert.Equal(t, testScope, captured[0].Scope)
	assert.Equal(t, float32(1), captured[0].Embedding[0])
	assert.Equal(t, float32(2), captured[1].Embedding[0])
}

func TestIngest_EmptyDocumentIsSoftNoOp(t *testing.T) {
	for _, text := range []string{"", "   \n\t  "} {
		extractor := new(MockExtractor)
		embedder := new(MockDocumentEmbedder)
		store := new(MockUpserter)
		svc := NewIngestionService(extractor, chunk.New(chunk.DefaultConfig()), embedder, store)

		extractor.On("ExtractText", mock.Anything).Return(text, nil)

		count, err := svc.Ingest(context.Background(), []byte("pdf"), testScope)

		require.NoError(t, err)
		assert.Equal(t, 0, count)
		embedder.AssertNotCalled(t, "EmbedDocuments")
		store.AssertNotCalled(t, "Upsert")
	}
}

func TestIngest_IdempotentIDs(t *testing.T) {
	extractor := new(MockExtractor)
	embedder := new(MockDocumentEmbedder)
	store := new(MockUpserter)
	svc := NewIngestionService(extractor, chunk.New(chunk.DefaultConfig()), embedder, store)

	text := strings.Repeat("xyzzy", 300)
	extractor.On("ExtractText", mock.Anything).Return(text, nil)
	embedder.On("EmbedDocuments", mock.Anything, mock.Anything).Return(embeddingsFor(2, 4), nil)

	var runs [][]string
	store.On("Upsert", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			records := args.Get(1).([]domain.VectorRecord)
			ids := make([]string, len(records))
			for i, r := range records {
				ids[i] = r.ID
			}
			runs = append(runs, ids)
		}).
		Return(2, nil)

	_, err := svc.Ingest(context.Background(), []byte("pdf"), testScope)
	require.NoError(t, err)
	_, err = svc.Ingest(context.Background(), []byte("pdf"), testScope)
	require.NoError(t, err)

	require.Len(t, runs, 2)
	assert.Equal(t, runs[0], runs[1], "re-ingesting must produce the same ids, not a doubled set")
}

func TestIngest_ExtractionFailure(t *testing.T) {
	extractor := new(MockExtractor)
	embedder := new(MockDocumentEmbedder)
	store := new(MockUpserter)
	svc := NewIngestionService(extractor, chunk.New(chunk.DefaultConfig()), embedder, store)

	extractor.On("ExtractText", mock.Anything).Return("", domain.ErrExtractionFailed)

	_, err := svc.Ingest(context.Background(), []byte("broken"), testScope)

	assert.ErrorIs(t, err, domain.ErrExtractionFailed)
	embedder.AssertNotCalled(t, "EmbedDocuments")
}

func TestIngest_EmbeddingBackendUnavailable(t *testing.T) {
	extractor := new(MockExtractor)
	embedder := new(MockDocumentEmbedder)
	store := new(MockUpserter)
	svc := NewIngestionService(extractor, chunk.New(chunk.DefaultConfig()), embedder, store)

	extractor.On("ExtractText", mock.Anything).Return("some document text", nil)
	embedder.On("EmbedDocuments", mock.Anything, mock.Anything).Return(nil, errors.New("connection refused"))

	_, err := svc.Ingest(context.Background(), []byte("pdf"), testScope)

	require.Error(t, err)
	var domainErr *domain.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, domain.ErrCodeUnavailable, domainErr.Code)
	store.AssertNotCalled(t, "Upsert")
}

func TestIngest_UpsertFailure(t *testing.T) {
	extractor := new(MockExtractor)
	embedder := new(MockDocumentEmbedder)
	store := new(MockUpserter)
	svc := NewIngestionService(extractor, chunk.New(chunk.DefaultConfig()), embedder, store)

	extractor.On("ExtractText", mock.Anything).Return("some document text", nil)
	embedder.On("EmbedDocuments", mock.Anything, mock.Anything).Return(embeddingsFor(1, 4), nil)
	store.On("Upsert", mock.Anything, mock.Anything).Return(0, errors.New("index missing"))

	_, err := svc.Ingest(context.Background(), []byte("pdf"), testScope)

	require.Error(t, err)
	var domainErr *domain.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, domain.ErrCodeUnavailable, domainErr.Code)
}

func TestIngest_InvalidScope(t *testing.T) {
	extractor := new(MockExtractor)
	svc := NewIngestionService(extractor, chunk.New(chunk.DefaultConfig()), new(MockDocumentEmbedder), new(MockUpserter))

	_, err := svc.Ingest(context.Background(), []byte("pdf"), domain.TenantScope{UserID: "u1"})

	assert.Error(t, err)
	extractor.AssertNotCalled(t, "ExtractText")
}

func TestIngest_ArchiveFailureDoesNotFailIngestion(t *testing.T) {
	extractor := new(MockExtractor)
	embedder := new(MockDocumentEmbedder)
	store := new(MockUpserter)
	archiver := new(MockArchiver)
	svc := NewIngestionServiceWithArchive(extractor, chunk.New(chunk.DefaultConfig()), embedder, store, archiver)

	content := []byte("%PDF-fake")
	extractor.On("ExtractText", content).Return("some document text", nil)
	embedder.On("EmbedDocuments", mock.Anything, mock.Anything).Return(embeddingsFor(1, 4), nil)
	store.On("Upsert", mock.Anything, mock.Anything).Return(1, nil)
	archiver.On("ArchivePDF", mock.Anything, testScope, content).Return("", errors.New("bucket gone"))

	count, err := svc.Ingest(context.Background(), content, testScope)

	require.NoError(t, err)
	assert.Equal(t, 1, count)
	archiver.AssertExpectations(t)
}
