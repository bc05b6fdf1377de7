package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/jmoiron/sqlx"
)

// OptionRepository stores live configuration as key -> JSONB rows. Published
// changesets and direct setting writes land here.
type OptionRepository interface {
	Get(ctx context.Context, name string) (json.RawMessage, error)
	Set(ctx context.Context, name string, value any) error
	Delete(ctx context.Context, name string) error
}

type optionRepository struct {
	db *sqlx.DB
}

func NewOptionRepository(db *sqlx.DB) OptionRepository {
	return &optionRepository{db: db}
}

// Get returns nil when the option has never been set.
func (r *optionRepository) Get(ctx context.Context, name string) (json.RawMessage, error) {
	var value json.RawMessage
	query := `SELECT value FROM options WHERE name = $1`
	err := r.db.GetContext(ctx, &value, query, name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return value, nil
}

func (r *optionRepository) Set(ctx context.Context, name string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO options (name, value)
		VALUES ($1, $2)
		ON CONFLICT (name) DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()`
	_, err = r.db.ExecContext(ctx, query, name, raw)
	return err
}

func (r *optionRepository) Delete(ctx context.Context, name string) error {
	query := `DELETE FROM options WHERE name = $1`
	_, err := r.db.ExecContext(ctx, query, name)
	return err
}
