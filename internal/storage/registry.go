package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"swipr/internal/domain"
)

func modelSelect() sq.SelectBuilder {
	return sq.Select(
		"id", "name", "endpoint", "is_active",
		"COALESCE(registered_at, '') AS registered_at",
		"COALESCE(metadata, '') AS metadata",
	).From("models")
}

// RegisterModel adds a model row and returns its identifier. The new
// model is inactive until explicitly activated.
func (r *Store) RegisterModel(ctx context.Context, name, endpoint, metadata string) (int64, error) {
	if endpoint == "" {
		return 0, fmt.Errorf("model endpoint is required")
	}

	query, args, err := sq.Insert("models").
		Columns("name", "endpoint", "metadata").
		Values(name, endpoint, metadata).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build insert: %w", err)
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("register model: %w", err)
	}
	return result.LastInsertId()
}

// ListModels returns all registered models, newest first.
func (r *Store) ListModels(ctx context.Context) ([]domain.ModelInfo, error) {
	query, args, err := modelSelect().OrderBy("registered_at DESC", "id DESC").ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query models: %w", err)
	}
	defer rows.Close()

	var models []domain.ModelInfo
	for rows.Next() {
		info, err := scanModel(rows)
		if err != nil {
			return nil, err
		}
		models = append(models, info)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}
	return models, nil
}

// ModelByID returns a single registry row, or nil when absent.
func (r *Store) ModelByID(ctx context.Context, id int64) (*domain.ModelInfo, error) {
	return r.queryOneModel(ctx, modelSelect().Where(sq.Eq{"id": id}))
}

// ActiveModel returns the currently active model, or nil when no model
// is active.
func (r *Store) ActiveModel(ctx context.Context) (*domain.ModelInfo, error) {
	return r.queryOneModel(ctx, modelSelect().Where(sq.Eq{"is_active": true}))
}

// ActivateModel marks one model active and deactivates all others in
// a single transaction.
func (r *Store) ActivateModel(ctx context.Context, id int64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "UPDATE models SET is_active = FALSE"); err != nil {
		return fmt.Errorf("deactivate models: %w", err)
	}

	result, err := tx.ExecContext(ctx, "UPDATE models SET is_active = TRUE WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("activate model: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("model %d not found", id)
	}

	return tx.Commit()
}

// DeleteModel removes a registry row.
func (r *Store) DeleteModel(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM models WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete model: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("model %d not found", id)
	}
	return nil
}

func (r *Store) queryOneModel(ctx context.Context, builder sq.SelectBuilder) (*domain.ModelInfo, error) {
	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query model: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil && !errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("rows iteration: %w", err)
		}
		return nil, nil
	}

	info, err := scanModel(rows)
	if err != nil {
		return nil, err
	}
	return &info, nil
}

func scanModel(rows *sql.Rows) (domain.ModelInfo, error) {
	var (
		info         domain.ModelInfo
		registeredAt string
	)

	err := rows.Scan(&info.ID, &info.Name, &info.Endpoint, &info.Active, &registeredAt, &info.Metadata)
	if err != nil {
		return domain.ModelInfo{}, fmt.Errorf("scan model: %w", err)
	}

	info.RegisteredAt = parseStoredTime(registeredAt)
	return info, nil
}
