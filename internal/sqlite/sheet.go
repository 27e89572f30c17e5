package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/slateworks/matbook/internal/domain/sheet"
	"github.com/slateworks/matbook/internal/repository"
)

// SheetRepository implements repository.SheetRepository for SQLite
type SheetRepository struct {
	db *DB
}

// NewSheetRepository creates a new SheetRepository
func NewSheetRepository(db *DB) *SheetRepository {
	return &SheetRepository{db: db}
}

// Create creates a new sheet
func (r *SheetRepository) Create(ctx context.Context, sh *sheet.Sheet) error {
	query := `
		INSERT INTO sheets (id, version_id, name, sort_order, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.ExecContext(ctx, query,
		sh.ID,
		sh.VersionID,
		sh.Name,
		sh.SortOrder,
		sh.CreatedAt,
		sh.UpdatedAt,
	)

	if err != nil {
		if isForeignKeyViolation(err) {
			return repository.ErrForeignKeyViolation
		}
		return fmt.Errorf("failed to create sheet: %w", err)
	}

	return nil
}

// Get retrieves a sheet by ID
func (r *SheetRepository) Get(ctx context.Context, id string) (*sheet.Sheet, error) {
	query := `
		SELECT id, version_id, name, sort_order, created_at, updated_at
		FROM sheets
		WHERE id = ?
	`

	var sh sheet.Sheet
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&sh.ID,
		&sh.VersionID,
		&sh.Name,
		&sh.SortOrder,
		&sh.CreatedAt,
		&sh.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get sheet: %w", err)
	}

	return &sh, nil
}

// Update updates a sheet's name and display order
func (r *SheetRepository) Update(ctx context.Context, sh *sheet.Sheet) error {
	query := `
		UPDATE sheets
		SET name = ?, sort_order = ?, updated_at = ?
		WHERE id = ?
	`

	result, err := r.db.ExecContext(ctx, query, sh.Name, sh.SortOrder, sh.UpdatedAt, sh.ID)
	if err != nil {
		return fmt.Errorf("failed to update sheet: %w", err)
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

// ListByVersion returns a version's sheets in display order
func (r *SheetRepository) ListByVersion(ctx context.Context, versionID string) ([]sheet.Sheet, error) {
	query := `
		SELECT id, version_id, name, sort_order, created_at, updated_at
		FROM sheets
		WHERE version_id = ?
		ORDER BY sort_order ASC, created_at ASC
	`

	rows, err := r.db.QueryContext(ctx, query, versionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list sheets: %w", err)
	}
	defer rows.Close()

	var sheets []sheet.Sheet
	for rows.Next() {
		var sh sheet.Sheet
		err := rows.Scan(
			&sh.ID,
			&sh.VersionID,
			&sh.Name,
			&sh.SortOrder,
			&sh.CreatedAt,
			&sh.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan sheet: %w", err)
		}
		sheets = append(sheets, sh)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating sheet rows: %w", err)
	}

	return sheets, nil
}
