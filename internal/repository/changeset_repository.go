package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"customize-api/internal/domain"
)

// ChangesetRepository is the post store for changeset documents.
type ChangesetRepository interface {
	FindByUUID(ctx context.Context, changesetUUID string) (*domain.Changeset, error)
	Insert(ctx context.Context, cs *domain.Changeset) error
	Update(ctx context.Context, cs *domain.Changeset) error
	SoftDelete(ctx context.Context, id uuid.UUID) error
	HardDelete(ctx context.Context, id uuid.UUID) (bool, error)
	List(ctx context.Context, filter domain.ChangesetFilter, params domain.PaginationParams) ([]domain.Changeset, int64, error)
}

type changesetRepository struct {
	db *sqlx.DB
}

func NewChangesetRepository(db *sqlx.DB) ChangesetRepository {
	return &changesetRepository{db: db}
}

// FindByUUID returns (nil, nil) when no changeset exists for the uuid.
func (r *changesetRepository) FindByUUID(ctx context.Context, changesetUUID string) (*domain.Changeset, error) {
	var cs domain.Changeset
	query := `SELECT * FROM changesets WHERE uuid = $1`
	err := r.db.GetContext(ctx, &cs, query, changesetUUID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &cs, nil
}

func (r *changesetRepository) Insert(ctx context.Context, cs *domain.Changeset) error {
	query := `
		INSERT INTO changesets (id, uuid, status, title, author_id, date, content)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at, updated_at`

	return r.db.QueryRowxContext(ctx, query,
		cs.ID, cs.UUID, cs.Status, cs.Title, cs.AuthorID, cs.Date, cs.Content,
	).Scan(&cs.CreatedAt, &cs.UpdatedAt)
}

func (r *changesetRepository) Update(ctx context.Context, cs *domain.Changeset) error {
	query := `
		UPDATE changesets
		SET status = $2, title = $3, author_id = $4, date = $5, content = $6, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`

	return r.db.QueryRowxContext(ctx, query,
		cs.ID, cs.Status, cs.Title, cs.AuthorID, cs.Date, cs.Content,
	).Scan(&cs.UpdatedAt)
}

func (r *changesetRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE changesets SET status = $2, updated_at = NOW() WHERE id = $1`
	_, err := r.db.ExecContext(ctx, query, id, domain.StatusTrash)
	return err
}

func (r *changesetRepository) HardDelete(ctx context.Context, id uuid.UUID) (bool, error) {
	query := `DELETE FROM changesets WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

var changesetOrderColumns = map[string]string{
	"date":  "date",
	"title": "title",
	"uuid":  "uuid",
}

func (r *changesetRepository) List(ctx context.Context, filter domain.ChangesetFilter, params domain.PaginationParams) ([]domain.Changeset, int64, error) {
	params.Validate()

	where := []string{"1=1"}
	args := []any{}

	if filter.Author != nil {
		args = append(args, *filter.Author)
		where = append(where, fmt.Sprintf("author_id = $%d", len(args)))
	}
	if filter.AuthorExclude != nil {
		args = append(args, *filter.AuthorExclude)
		where = append(where, fmt.Sprintf("author_id <> $%d", len(args)))
	}
	if len(filter.Statuses) > 0 {
		placeholders := make([]string, 0, len(filter.Statuses))
		for _, st := range filter.Statuses {
			args = append(args, st)
			placeholders = append(placeholders, fmt.Sprintf("$%d", len(args)))
		}
		where = append(where, fmt.Sprintf("status IN (%s)", strings.Join(placeholders, ", ")))
	}
	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		where = append(where, fmt.Sprintf("title ILIKE $%d", len(args)))
	}

	whereClause := strings.Join(where, " AND ")

	var total int64
	countQuery := `SELECT COUNT(*) FROM changesets WHERE ` + whereClause
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, err
	}

	orderColumn, ok := changesetOrderColumns[filter.OrderBy]
	if !ok {
		orderColumn = "created_at"
	}
	direction := "DESC"
	if strings.EqualFold(filter.Order, "asc") {
		direction = "ASC"
	}

	args = append(args, params.PageSize, params.Offset())
	query := fmt.Sprintf(`
		SELECT * FROM changesets
		WHERE %s
		ORDER BY %s %s
		LIMIT $%d OFFSET $%d`,
		whereClause, orderColumn, direction, len(args)-1, len(args))

	var changesets []domain.Changeset
	err := r.db.SelectContext(ctx, &changesets, query, args...)
	return changesets, total, err
}
