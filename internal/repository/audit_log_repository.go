package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"customize-api/internal/domain"
)

type AuditLogRepository interface {
	Create(ctx context.Context, log *domain.AuditLog) error
	Recent(ctx context.Context, limit int) ([]domain.AuditLog, error)
}

type auditLogRepository struct {
	db *sqlx.DB
}

func NewAuditLogRepository(db *sqlx.DB) AuditLogRepository {
	return &auditLogRepository{db: db}
}

func (r *auditLogRepository) Create(ctx context.Context, log *domain.AuditLog) error {
	query := `
		INSERT INTO audit_logs (id, user_id, action, entity_type, entity_id, old_value, new_value)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at`

	return r.db.QueryRowxContext(ctx, query,
		log.ID, log.UserID, log.Action, log.EntityType, log.EntityID, log.OldValue, log.NewValue,
	).Scan(&log.CreatedAt)
}

func (r *auditLogRepository) Recent(ctx context.Context, limit int) ([]domain.AuditLog, error) {
	if limit < 1 || limit > 100 {
		limit = 20
	}

	var logs []domain.AuditLog
	query := `SELECT * FROM audit_logs ORDER BY created_at DESC LIMIT $1`
	err := r.db.SelectContext(ctx, &logs, query, limit)
	return logs, err
}
