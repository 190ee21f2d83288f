package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"stagepass/internal/model"
)

type PostgresAuditRepository struct {
	pool *pgxpool.Pool
}

func NewAuditRepository(pool *pgxpool.Pool) *PostgresAuditRepository {
	return &PostgresAuditRepository{pool: pool}
}

func (r *PostgresAuditRepository) Record(ctx context.Context, entry model.AuditEntry) error {
	var userID *string
	if entry.UserID != "" {
		userID = &entry.UserID
	}

	_, err := r.pool.Exec(ctx,
		`INSERT INTO audit_entries (id, action, user_id, detail, created_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		entry.ID, entry.Action, userID, entry.Detail, entry.CreatedAt)
	if err != nil {
		return fmt.Errorf("record audit entry: %w", err)
	}
	return nil
}
