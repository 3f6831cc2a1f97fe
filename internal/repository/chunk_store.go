// Package repository persists vector records and query logs in Postgres.
package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"

	"github.com/pilcrow-ai/pilcrow/internal/domain"
)

// ChunkStore persists embedded document chunks in a pgvector-backed table.
// Record ids are deterministic per (tenant, chunk index), so upserting the
// same document again overwrites rather than duplicates.
type ChunkStore struct {
	pool *pgxpool.Pool
}

func NewChunkStore(pool *pgxpool.Pool) *ChunkStore {
	return &ChunkStore{pool: pool}
}

// Ready verifies the backing table exists. Called once at startup; a
// missing table is a fatal configuration error, not a per-request one.
func (r *ChunkStore) Ready(ctx context.Context) error {
	var regclass *string
	err := r.pool.QueryRow(ctx, `SELECT to_regclass('document_chunks')::text`).Scan(&regclass)
	if err != nil {
		return fmt.Errorf("failed to check document_chunks table: %w", err)
	}
	if regclass == nil {
		return fmt.Errorf("document_chunks table does not exist; run migrations")
	}
	return nil
}

// Upsert writes or overwrites records by id in a single batch and returns
// the number of records written. The batch is not atomic across rows;
// last-write-wins applies per chunk id.
func (r *ChunkStore) Upsert(ctx context.Context, records []domain.VectorRecord) (int, error) {
	if len(records) == 0 {
		return 0, nil
	}

	now := time.Now().UTC()
	batch := &pgx.Batch{}
	for _, rec := range records {
		batch.Queue(
			`INSERT INTO document_chunks (id, user_id, product_id, content, embedding, created_at, updated_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $6)
			 ON CONFLICT (id) DO UPDATE
			 SET content = EXCLUDED.content,
			     embedding = EXCLUDED.embedding,
			     updated_at = EXCLUDED.updated_at`,
			rec.ID,
			rec.Scope.UserID,
			rec.Scope.ProductID,
			rec.Content,
			pgvector.NewVector(rec.Embedding),
			now,
		)
	}

	results := r.pool.SendBatch(ctx, batch)
	defer results.Close()

	for range records {
		if _, err := results.Exec(); err != nil {
			return 0, fmt.Errorf("failed to upsert chunk: %w", err)
		}
	}

	return len(records), nil
}

// Search returns up to topK records nearest to the embedding, restricted
// to the tenant scope and ordered by descending similarity. An empty
// result is the normal "no knowledge yet" case, never an error.
func (r *ChunkStore) Search(ctx context.Context, embedding []float32, scope domain.TenantScope, topK int) ([]domain.Match, error) {
	if topK <= 0 {
		topK = 3
	}

	vec := pgvector.NewVector(embedding)
	rows, err := r.pool.Query(ctx,
		`SELECT id, content, 1.0 / (1.0 + (embedding <=> $1)) AS score
		 FROM document_chunks
		 WHERE user_id = $2 AND product_id = $3
		 ORDER BY embedding <=> $1
		 LIMIT $4`,
		vec, scope.UserID, scope.ProductID, topK,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to search chunks: %w", err)
	}
	defer rows.Close()

	matches := make([]domain.Match, 0, topK)
	for rows.Next() {
		var m domain.Match
		if err := rows.Scan(&m.ID, &m.Content, &m.Score); err != nil {
			return nil, err
		}
		matches = append(matches, m)
	}

	return matches, rows.Err()
}

// DeleteScope removes every record for a tenant scope. Used by tests and
// by operators purging a tenant's data.
func (r *ChunkStore) DeleteScope(ctx context.Context, scope domain.TenantScope) error {
	_, err := r.pool.Exec(ctx,
		`DELETE FROM document_chunks WHERE user_id = $1 AND product_id = $2`,
		scope.UserID, scope.ProductID,
	)
	return err
}
