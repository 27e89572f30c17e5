package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/slateworks/matbook/internal/domain/bundle"
	"github.com/slateworks/matbook/internal/domain/item"
	"github.com/slateworks/matbook/internal/repository"
)

// BundleRepository implements repository.BundleRepository for SQLite
type BundleRepository struct {
	db *DB
}

// NewBundleRepository creates a new BundleRepository
func NewBundleRepository(db *DB) *BundleRepository {
	return &BundleRepository{db: db}
}

// Create creates a bundle and its membership rows in one transaction
func (r *BundleRepository) Create(ctx context.Context, b *bundle.Bundle) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	insertBundle := `
		INSERT INTO bundles (id, job_id, name, description, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	if _, err := tx.ExecContext(ctx, insertBundle,
		b.ID,
		b.JobID,
		b.Name,
		b.Description,
		b.Status,
		b.CreatedAt,
		b.UpdatedAt,
	); err != nil {
		if isForeignKeyViolation(err) {
			return repository.ErrForeignKeyViolation
		}
		return fmt.Errorf("failed to create bundle: %w", err)
	}

	insertMember := `INSERT INTO bundle_items (bundle_id, item_id) VALUES (?, ?)`
	for _, itemID := range b.ItemIDs {
		if _, err := tx.ExecContext(ctx, insertMember, b.ID, itemID); err != nil {
			if isForeignKeyViolation(err) {
				return repository.ErrForeignKeyViolation
			}
			return fmt.Errorf("failed to add bundle item: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit bundle create: %w", err)
	}

	return nil
}

// Get retrieves a bundle with its live membership
func (r *BundleRepository) Get(ctx context.Context, id string) (*bundle.Bundle, error) {
	query := `
		SELECT id, job_id, name, description, status, created_at, updated_at
		FROM bundles
		WHERE id = ?
	`

	var b bundle.Bundle
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&b.ID,
		&b.JobID,
		&b.Name,
		&b.Description,
		&b.Status,
		&b.CreatedAt,
		&b.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get bundle: %w", err)
	}

	itemIDs, err := r.listItemIDs(ctx, id)
	if err != nil {
		return nil, err
	}
	b.ItemIDs = itemIDs

	return &b, nil
}

// ListByJob returns a job's bundles with live membership
func (r *BundleRepository) ListByJob(ctx context.Context, jobID string) ([]bundle.Bundle, error) {
	query := `
		SELECT id, job_id, name, description, status, created_at, updated_at
		FROM bundles
		WHERE job_id = ?
		ORDER BY created_at ASC
	`

	rows, err := r.db.QueryContext(ctx, query, jobID)
	if err != nil {
		return nil, fmt.Errorf("failed to list bundles: %w", err)
	}
	defer rows.Close()

	var bundles []bundle.Bundle
	for rows.Next() {
		var b bundle.Bundle
		err := rows.Scan(
			&b.ID,
			&b.JobID,
			&b.Name,
			&b.Description,
			&b.Status,
			&b.CreatedAt,
			&b.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan bundle: %w", err)
		}
		bundles = append(bundles, b)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating bundle rows: %w", err)
	}

	for i := range bundles {
		itemIDs, err := r.listItemIDs(ctx, bundles[i].ID)
		if err != nil {
			return nil, err
		}
		bundles[i].ItemIDs = itemIDs
	}

	return bundles, nil
}

// UpdateStatus sets a bundle's status
func (r *BundleRepository) UpdateStatus(ctx context.Context, id string, status item.Status, updatedAt time.Time) error {
	query := `UPDATE bundles SET status = ?, updated_at = ? WHERE id = ?`

	result, err := r.db.ExecContext(ctx, query, status, updatedAt, id)
	if err != nil {
		return fmt.Errorf("failed to update bundle status: %w", err)
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

// AddItems adds membership rows for the given items
func (r *BundleRepository) AddItems(ctx context.Context, bundleID string, itemIDs []string) error {
	if len(itemIDs) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	// INSERT OR IGNORE keeps the operation idempotent even if a duplicate
	// slips past the service-level membership check.
	insert := `INSERT OR IGNORE INTO bundle_items (bundle_id, item_id) VALUES (?, ?)`
	for _, itemID := range itemIDs {
		if _, err := tx.ExecContext(ctx, insert, bundleID, itemID); err != nil {
			if isForeignKeyViolation(err) {
				return repository.ErrForeignKeyViolation
			}
			return fmt.Errorf("failed to add bundle item: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit bundle items: %w", err)
	}

	return nil
}

// RemoveItems removes membership rows for the given items
func (r *BundleRepository) RemoveItems(ctx context.Context, bundleID string, itemIDs []string) error {
	if len(itemIDs) == 0 {
		return nil
	}

	placeholders := make([]string, len(itemIDs))
	args := []interface{}{bundleID}
	for i, id := range itemIDs {
		placeholders[i] = "?"
		args = append(args, id)
	}

	query := fmt.Sprintf(
		`DELETE FROM bundle_items WHERE bundle_id = ? AND item_id IN (%s)`,
		strings.Join(placeholders, ","),
	)

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to remove bundle items: %w", err)
	}

	return nil
}

func (r *BundleRepository) listItemIDs(ctx context.Context, bundleID string) ([]string, error) {
	query := `
		SELECT item_id
		FROM bundle_items
		WHERE bundle_id = ?
		ORDER BY added_at ASC, item_id ASC
	`

	rows, err := r.db.QueryContext(ctx, query, bundleID)
	if err != nil {
		return nil, fmt.Errorf("failed to list bundle items: %w", err)
	}
	defer rows.Close()

	var itemIDs []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan bundle item ID: %w", err)
		}
		itemIDs = append(itemIDs, id)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating bundle item rows: %w", err)
	}

	return itemIDs, nil
}
