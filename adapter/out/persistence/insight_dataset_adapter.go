// Package persistence provides database adapters implementing outbound ports.
package persistence

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"insight_server/core/domain"
	"insight_server/core/port/out"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// DatasetAdapter implements out.DatasetRepository using PostgreSQL.
type DatasetAdapter struct {
	db *sqlx.DB
}

var _ out.DatasetRepository = (*DatasetAdapter)(nil)

// NewDatasetAdapter creates a new DatasetAdapter.
func NewDatasetAdapter(db *sqlx.DB) *DatasetAdapter {
	return &DatasetAdapter{db: db}
}

// datasetRow represents the database row for datasets.
type datasetRow struct {
	ID         uuid.UUID `db:"id"`
	Name       string    `db:"name"`
	Active     bool      `db:"active"`
	PostCount  int       `db:"post_count"`
	ReplyCount int       `db:"reply_count"`
	CreatedAt  time.Time `db:"created_at"`
}

func (r *datasetRow) toEntity() *domain.Dataset {
	return &domain.Dataset{
		ID:         r.ID,
		Name:       r.Name,
		Active:     r.Active,
		PostCount:  r.PostCount,
		ReplyCount: r.ReplyCount,
		CreatedAt:  r.CreatedAt,
	}
}

// Create inserts a new dataset record.
func (a *DatasetAdapter) Create(ctx context.Context, dataset *domain.Dataset) error {
	query := `
		INSERT INTO datasets (id, name, active, post_count, reply_count, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := a.db.ExecContext(ctx, query,
		dataset.ID, dataset.Name, dataset.Active,
		dataset.PostCount, dataset.ReplyCount, dataset.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create dataset: %w", err)
	}
	return nil
}

// List retrieves all datasets, newest first.
func (a *DatasetAdapter) List(ctx context.Context) ([]domain.Dataset, error) {
	var rows []datasetRow
	query := `SELECT * FROM datasets ORDER BY created_at DESC`

	if err := a.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("failed to list datasets: %w", err)
	}

	datasets := make([]domain.Dataset, len(rows))
	for i, row := range rows {
		datasets[i] = *row.toEntity()
	}
	return datasets, nil
}

// GetByID retrieves a dataset by its ID. Returns (nil, nil) when absent.
func (a *DatasetAdapter) GetByID(ctx context.Context, id uuid.UUID) (*domain.Dataset, error) {
	var row datasetRow
	query := `SELECT * FROM datasets WHERE id = $1`

	if err := a.db.GetContext(ctx, &row, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get dataset: %w", err)
	}
	return row.toEntity(), nil
}

// GetActive retrieves the active dataset. Returns (nil, nil) when none is set.
func (a *DatasetAdapter) GetActive(ctx context.Context) (*domain.Dataset, error) {
	var row datasetRow
	query := `SELECT * FROM datasets WHERE active = TRUE ORDER BY created_at DESC LIMIT 1`

	if err := a.db.GetContext(ctx, &row, query); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get active dataset: %w", err)
	}
	return row.toEntity(), nil
}

// SetActive marks one dataset active and deactivates the rest.
func (a *DatasetAdapter) SetActive(ctx context.Context, id uuid.UUID) error {
	tx, err := a.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `UPDATE datasets SET active = FALSE WHERE active = TRUE`); err != nil {
		return fmt.Errorf("failed to deactivate datasets: %w", err)
	}

	result, err := tx.ExecContext(ctx, `UPDATE datasets SET active = TRUE WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to activate dataset: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("dataset not found: %s", id)
	}

	return tx.Commit()
}

// Delete deletes a dataset record.
func (a *DatasetAdapter) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := a.db.ExecContext(ctx, `DELETE FROM datasets WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete dataset: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("dataset not found: %s", id)
	}
	return nil
}
