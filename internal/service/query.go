package service

import (
	"context"
	"log"
	"time"

	"github.com/pilcrow-ai/pilcrow/internal/domain"
)

const (
	// DefaultTopK is the fixed number of nearest chunks retrieved per query.
	DefaultTopK = 3

	// SentinelNotFound is the answer when the tenant has no relevant records.
	SentinelNotFound = "I couldn't find any relevant information for your query."
	// SentinelSearchFailure is the answer when embedding or search fails.
	SentinelSearchFailure = "Sorry, an error occurred while searching."
	// SentinelGenerationFailure is the answer when the generator call fails.
	SentinelGenerationFailure = "Sorry, I had trouble generating a response."
)

// QueryEmbedder embeds a query string in the ingestion embedding space.
type QueryEmbedder interface {
	EmbedQuery(ctx context.Context, text string) ([]float32, error)
}

// VectorSearcher runs tenant-scoped top-k similarity search.
type VectorSearcher interface {
	Search(ctx context.Context, embedding []float32, scope domain.TenantScope, topK int) ([]domain.Match, error)
}

// Generator synthesizes an answer from a fully assembled prompt.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// QueryLogEntry captures one retrieval request's structured outcome.
type QueryLogEntry struct {
	Scope       domain.TenantScope
	QueryLength int
	ResultKind  domain.QueryResultKind
	FailureKind domain.FailureKind
	MatchCount  int
	DurationMs  int64
}

// QueryLogRepository records query outcomes for observability.
type QueryLogRepository interface {
	CreateQueryLog(ctx context.Context, entry QueryLogEntry) (string, error)
}

// QueryService orchestrates embed -> search -> prompt -> generate. It never
// returns an error to its caller: every failure state maps to a
// QueryResult carrying a sentinel answer, and the structured kind is kept
// for the boundary and the query log.
type QueryService struct {
	embedder  QueryEmbedder
	store     VectorSearcher
	generator Generator
	logs      QueryLogRepository
	topK      int
}

// NewQueryService creates a QueryService without query logging.
func NewQueryService(embedder QueryEmbedder, store VectorSearcher, generator Generator) *QueryService {
	return NewQueryServiceWithLog(embedder, store, generator, nil)
}

// NewQueryServiceWithLog creates a QueryService that records each request's
// outcome through the given log repository.
func NewQueryServiceWithLog(embedder QueryEmbedder, store VectorSearcher, generator Generator, logs QueryLogRepository) *QueryService {
	return &QueryService{
		embedder:  embedder,
		store:     store,
		generator: generator,
		logs:      logs,
		topK:      DefaultTopK,
	}
}

// Search answers a query against the tenant's ingested documents.
func (s *QueryService) Search(ctx context.Context, query string, scope domain.TenantScope, history []domain.ChatMessage) *domain.QueryResult {
	start := time.Now()
	result := s.search(ctx, query, scope, history)
	s.logOutcome(ctx, query, scope, result, time.Since(start))
	return result
}

func (s *QueryService) search(ctx context.Context, query string, scope domain.TenantScope, history []domain.ChatMessage) *domain.QueryResult {
	embedding, err := s.embedder.EmbedQuery(ctx, query)
	if err != nil {
		return &domain.QueryResult{
			Kind:    domain.QueryResultFailure,
			Answer:  SentinelSearchFailure,
			Failure: domain.FailureSearch,
			Err:     err,
		}
	}

	matches, err := s.store.Search(ctx, embedding, scope, s.topK)
	if err != nil {
		return &domain.QueryResult{
			Kind:    domain.QueryResultFailure,
			Answer:  SentinelSearchFailure,
			Failure: domain.FailureSearch,
			Err:     err,
		}
	}

	if len(matches) == 0 {
		return &domain.QueryResult{
			Kind:   domain.QueryResultNotFound,
			Answer: SentinelNotFound,
		}
	}

	// Matches stay in store order; the store already ranks by similarity
	// and the orchestrator does not re-rank.
	contextChunks := make([]string, len(matches))
	for i, m := range matches {
		contextChunks[i] = m.Content
	}

	prompt := BuildPrompt(query, contextChunks, history)

	answer, err := s.generator.Generate(ctx, prompt)
	if err != nil {
		return &domain.QueryResult{
			Kind:    domain.QueryResultFailure,
			Answer:  SentinelGenerationFailure,
			Failure: domain.FailureGeneration,
			Matches: len(matches),
			Err:     err,
		}
	}

	return &domain.QueryResult{
		Kind:    domain.QueryResultAnswer,
		Answer:  answer,
		Matches: len(matches),
	}
}

func (s *QueryService) logOutcome(ctx context.Context, query string, scope domain.TenantScope, result *domain.QueryResult, elapsed time.Duration) {
	if result.Err != nil {
		log.Printf("query: %s for %s/%s: %v", result.Kind, scope.UserID, scope.ProductID, result.Err)
	}

	if s.logs == nil {
		return
	}

	entry := QueryLogEntry{
		Scope:       scope,
		QueryLength: len(query),
		ResultKind:  result.Kind,
		FailureKind: result.Failure,
		MatchCount:  result.Matches,
		DurationMs:  elapsed.Milliseconds(),
	}
	if _, err := s.logs.CreateQueryLog(ctx, entry); err != nil {
		log.Printf("query: failed to write query log: %v", err)
	}
}
