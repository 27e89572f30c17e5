package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/slateworks/matbook/internal/domain/workbook"
	"github.com/slateworks/matbook/internal/repository"
)

// LaborRepository implements repository.LaborRepository for SQLite
type LaborRepository struct {
	db *DB
}

// NewLaborRepository creates a new LaborRepository
func NewLaborRepository(db *DB) *LaborRepository {
	return &LaborRepository{db: db}
}

// Create creates a new labor estimate row
func (r *LaborRepository) Create(ctx context.Context, le *workbook.LaborEstimate) error {
	query := `
		INSERT INTO labor_estimates (id, sheet_id, description, hours, rate, extended_cost, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.ExecContext(ctx, query,
		le.ID,
		le.SheetID,
		le.Description,
		le.Hours,
		le.Rate,
		le.ExtendedCost,
		le.CreatedAt,
		le.UpdatedAt,
	)

	if err != nil {
		if isForeignKeyViolation(err) {
			return repository.ErrForeignKeyViolation
		}
		return fmt.Errorf("failed to create labor estimate: %w", err)
	}

	return nil
}

// Get retrieves a labor estimate by ID
func (r *LaborRepository) Get(ctx context.Context, id string) (*workbook.LaborEstimate, error) {
	query := `
		SELECT id, sheet_id, description, hours, rate, extended_cost, created_at, updated_at
		FROM labor_estimates
		WHERE id = ?
	`

	le, err := scanLaborEstimate(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get labor estimate: %w", err)
	}
	return le, nil
}

// Update updates a labor estimate row
func (r *LaborRepository) Update(ctx context.Context, le *workbook.LaborEstimate) error {
	query := `
		UPDATE labor_estimates
		SET description = ?, hours = ?, rate = ?, extended_cost = ?, updated_at = ?
		WHERE id = ?
	`

	result, err := r.db.ExecContext(ctx, query,
		le.Description,
		le.Hours,
		le.Rate,
		le.ExtendedCost,
		le.UpdatedAt,
		le.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update labor estimate: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// ListBySheet returns a sheet's labor estimate rows
func (r *LaborRepository) ListBySheet(ctx context.Context, sheetID string) ([]workbook.LaborEstimate, error) {
	query := `
		SELECT id, sheet_id, description, hours, rate, extended_cost, created_at, updated_at
		FROM labor_estimates
		WHERE sheet_id = ?
		ORDER BY created_at ASC
	`

	rows, err := r.db.QueryContext(ctx, query, sheetID)
	if err != nil {
		return nil, fmt.Errorf("failed to list labor estimates: %w", err)
	}
	defer rows.Close()

	var estimates []workbook.LaborEstimate
	for rows.Next() {
		le, err := scanLaborEstimate(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan labor estimate: %w", err)
		}
		estimates = append(estimates, *le)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating labor rows: %w", err)
	}

	return estimates, nil
}

func scanLaborEstimate(row rowScanner) (*workbook.LaborEstimate, error) {
	var le workbook.LaborEstimate
	var hours, rate, extCost sql.NullFloat64
	err := row.Scan(
		&le.ID,
		&le.SheetID,
		&le.Description,
		&hours,
		&rate,
		&extCost,
		&le.CreatedAt,
		&le.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	le.Hours = floatPtr(hours)
	le.Rate = floatPtr(rate)
	le.ExtendedCost = floatPtr(extCost)
	return &le, nil
}
