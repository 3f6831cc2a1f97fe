package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pilcrow-ai/pilcrow/internal/service"
)

// QueryLogRepository stores per-request query outcomes. The user-facing
// answer conflates failure kinds into sentinel strings; this log keeps
// the structured kind for observability.
type QueryLogRepository struct {
	pool *pgxpool.Pool
}

func NewQueryLogRepository(pool *pgxpool.Pool) *QueryLogRepository {
	return &QueryLogRepository{pool: pool}
}

func (r *QueryLogRepository) CreateQueryLog(ctx context.Context, entry service.QueryLogEntry) (string, error) {
	var id string
	err := r.pool.QueryRow(ctx,
		`INSERT INTO query_logs (user_id, product_id, query_length, result_kind, failure_kind, match_count, duration_ms)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING id`,
		entry.Scope.UserID,
		entry.Scope.ProductID,
		entry.QueryLength,
		string(entry.ResultKind),
		string(entry.FailureKind),
		entry.MatchCount,
		entry.DurationMs,
	).Scan(&id)
	if err != nil {
		return "", err
	}
	return id, nil
}
