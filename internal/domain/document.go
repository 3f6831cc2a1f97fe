package domain

import "fmt"

// TenantScope is the (user_id, product_id) pair that partitions every
// write and every read. Nothing crosses it.
type TenantScope struct {
	UserID    string
	ProductID string
}

// Validate checks that both identifiers are present.
func (s TenantScope) Validate() error {
	if s.UserID == "" {
		return NewDomainError(ErrCodeValidation, "user_id is required")
	}
	if s.ProductID == "" {
		return NewDomainError(ErrCodeValidation, "product_id is required")
	}
	return nil
}

// ChatMessage is one turn of prior conversation supplied alongside a query.
// Consumed once per request, never persisted.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// VectorRecord is the durable unit stored in the vector index.
type VectorRecord struct {
	ID        string
	Embedding []float32
	Content   string
	Scope     TenantScope
}

// VectorID derives the deterministic record id for a chunk position within
// a tenant scope. Re-ingesting the same document for the same tenant maps
// chunk i to the same id, so the upsert overwrites instead of duplicating.
func VectorID(scope TenantScope, chunkIndex int) string {
	return fmt.Sprintf("%s_%s_chunk_%d", scope.UserID, scope.ProductID, chunkIndex)
}

// Match is a single similarity-search hit.
type Match struct {
	ID      string
	Content string
	Score   float32
}
