package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/slateworks/matbook/internal/domain/item"
	"github.com/slateworks/matbook/internal/repository"
)

// ItemRepository implements repository.ItemRepository for SQLite
type ItemRepository struct {
	db *DB
}

// NewItemRepository creates a new ItemRepository
func NewItemRepository(db *DB) *ItemRepository {
	return &ItemRepository{db: db}
}

const itemColumns = `
	id, sheet_id, category, name, quantity, unit_length,
	unit_cost, markup, unit_price, extended_cost, extended_price,
	taxable, status, notes, sort_order, created_at, updated_at
`

// Create creates a new item
func (r *ItemRepository) Create(ctx context.Context, it *item.Item) error {
	query := `
		INSERT INTO items (` + itemColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.ExecContext(ctx, query,
		it.ID,
		it.SheetID,
		it.Category,
		it.Name,
		it.Quantity,
		it.UnitLength,
		it.UnitCost,
		it.Markup,
		it.UnitPrice,
		it.ExtendedCost,
		it.ExtendedPrice,
		it.Taxable,
		it.Status,
		it.Notes,
		it.SortOrder,
		it.CreatedAt,
		it.UpdatedAt,
	)

	if err != nil {
		if isForeignKeyViolation(err) {
			return repository.ErrForeignKeyViolation
		}
		return fmt.Errorf("failed to create item: %w", err)
	}

	return nil
}

// Get retrieves an item by ID
func (r *ItemRepository) Get(ctx context.Context, id string) (*item.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items WHERE id = ?`

	it, err := scanItem(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get item: %w", err)
	}
	return it, nil
}

// Update updates all mutable fields of an item
func (r *ItemRepository) Update(ctx context.Context, it *item.Item) error {
	query := `
		UPDATE items
		SET category = ?, name = ?, quantity = ?, unit_length = ?,
		    unit_cost = ?, markup = ?, unit_price = ?,
		    extended_cost = ?, extended_price = ?,
		    taxable = ?, status = ?, notes = ?, sort_order = ?, updated_at = ?
		WHERE id = ?
	`

	result, err := r.db.ExecContext(ctx, query,
		it.Category,
		it.Name,
		it.Quantity,
		it.UnitLength,
		it.UnitCost,
		it.Markup,
		it.UnitPrice,
		it.ExtendedCost,
		it.ExtendedPrice,
		it.Taxable,
		it.Status,
		it.Notes,
		it.SortOrder,
		it.UpdatedAt,
		it.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update item: %w", err)
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

// Delete deletes an item; bundle membership rows cascade away with it
func (r *ItemRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM items WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete item: %w", err)
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

// ListBySheet returns a sheet's items in display order
func (r *ItemRepository) ListBySheet(ctx context.Context, sheetID string) ([]item.Item, error) {
	query := `
		SELECT ` + itemColumns + `
		FROM items
		WHERE sheet_id = ?
		ORDER BY category ASC, sort_order ASC, created_at ASC
	`

	rows, err := r.db.QueryContext(ctx, query, sheetID)
	if err != nil {
		return nil, fmt.Errorf("failed to list items: %w", err)
	}
	defer rows.Close()

	var items []item.Item
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan item: %w", err)
		}
		items = append(items, *it)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating item rows: %w", err)
	}

	return items, nil
}

// UpdateStatusBulk sets the status of every listed item in one statement
func (r *ItemRepository) UpdateStatusBulk(ctx context.Context, itemIDs []string, status item.Status, updatedAt time.Time) error {
	if len(itemIDs) == 0 {
		return nil
	}

	placeholders := make([]string, len(itemIDs))
	args := []interface{}{status, updatedAt}
	for i, id := range itemIDs {
		placeholders[i] = "?"
		args = append(args, id)
	}

	query := fmt.Sprintf(
		`UPDATE items SET status = ?, updated_at = ? WHERE id IN (%s)`,
		strings.Join(placeholders, ","),
	)

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to bulk update item status: %w", err)
	}

	return nil
}

func scanItem(row rowScanner) (*item.Item, error) {
	var it item.Item
	var quantity, unitCost, markup, unitPrice, extCost, extPrice sql.NullFloat64
	err := row.Scan(
		&it.ID,
		&it.SheetID,
		&it.Category,
		&it.Name,
		&quantity,
		&it.UnitLength,
		&unitCost,
		&markup,
		&unitPrice,
		&extCost,
		&extPrice,
		&it.Taxable,
		&it.Status,
		&it.Notes,
		&it.SortOrder,
		&it.CreatedAt,
		&it.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	it.Quantity = floatPtr(quantity)
	it.UnitCost = floatPtr(unitCost)
	it.Markup = floatPtr(markup)
	it.UnitPrice = floatPtr(unitPrice)
	it.ExtendedCost = floatPtr(extCost)
	it.ExtendedPrice = floatPtr(extPrice)
	return &it, nil
}
