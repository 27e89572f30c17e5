package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/slateworks/matbook/internal/domain/sheet"
	"github.com/slateworks/matbook/internal/domain/workbook"
	"github.com/slateworks/matbook/internal/repository"
)

// WorkbookRepository implements repository.WorkbookRepository for SQLite
type WorkbookRepository struct {
	db *DB
}

// NewWorkbookRepository creates a new WorkbookRepository
func NewWorkbookRepository(db *DB) *WorkbookRepository {
	return &WorkbookRepository{db: db}
}

const versionColumns = `id, job_id, version_number, status, created_at, locked_at`

// CreateVersion creates a new workbook version
func (r *WorkbookRepository) CreateVersion(ctx context.Context, v *workbook.Version) error {
	query := `
		INSERT INTO workbook_versions (id, job_id, version_number, status, created_at, locked_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.ExecContext(ctx, query,
		v.ID,
		v.JobID,
		v.Number,
		v.Status,
		v.CreatedAt,
		v.LockedAt,
	)

	if err != nil {
		if isUniqueViolation(err) {
			return repository.ErrConflict
		}
		if isForeignKeyViolation(err) {
			return repository.ErrForeignKeyViolation
		}
		return fmt.Errorf("failed to create version: %w", err)
	}

	return nil
}

// GetVersion retrieves a version by ID
func (r *WorkbookRepository) GetVersion(ctx context.Context, id string) (*workbook.Version, error) {
	query := `SELECT ` + versionColumns + ` FROM workbook_versions WHERE id = ?`

	v, err := scanVersion(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get version: %w", err)
	}
	return v, nil
}

// ListByJob returns all versions of a job in version order
func (r *WorkbookRepository) ListByJob(ctx context.Context, jobID string) ([]workbook.Version, error) {
	query := `
		SELECT ` + versionColumns + `
		FROM workbook_versions
		WHERE job_id = ?
		ORDER BY version_number ASC
	`
	return r.queryVersions(ctx, query, jobID)
}

// ListWorkingVersions returns the working versions of a job. The schema
// allows at most one; the slice return lets the domain layer detect
// corruption instead of masking it.
func (r *WorkbookRepository) ListWorkingVersions(ctx context.Context, jobID string) ([]workbook.Version, error) {
	query := `
		SELECT ` + versionColumns + `
		FROM workbook_versions
		WHERE job_id = ? AND status = 'working'
		ORDER BY created_at ASC
	`
	return r.queryVersions(ctx, query, jobID)
}

// GetProposalVersion returns the oldest locked version of a job
func (r *WorkbookRepository) GetProposalVersion(ctx context.Context, jobID string) (*workbook.Version, error) {
	query := `
		SELECT ` + versionColumns + `
		FROM workbook_versions
		WHERE job_id = ? AND status = 'locked'
		ORDER BY created_at ASC, version_number ASC
		LIMIT 1
	`

	v, err := scanVersion(r.db.QueryRowContext(ctx, query, jobID))
	if err == sql.ErrNoRows {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get proposal version: %w", err)
	}
	return v, nil
}

// IsVersionLocked reports whether a version is locked
func (r *WorkbookRepository) IsVersionLocked(ctx context.Context, versionID string) (bool, error) {
	query := `SELECT status FROM workbook_versions WHERE id = ?`

	var status workbook.VersionStatus
	err := r.db.QueryRowContext(ctx, query, versionID).Scan(&status)
	if err == sql.ErrNoRows {
		return false, repository.ErrNotFound
	}
	if err != nil {
		return false, fmt.Errorf("failed to get version status: %w", err)
	}
	return status == workbook.StatusLocked, nil
}

// IsSheetLocked reports whether the version owning a sheet is locked
func (r *WorkbookRepository) IsSheetLocked(ctx context.Context, sheetID string) (bool, error) {
	query := `
		SELECT v.status
		FROM workbook_versions v
		JOIN sheets s ON s.version_id = v.id
		WHERE s.id = ?
	`

	var status workbook.VersionStatus
	err := r.db.QueryRowContext(ctx, query, sheetID).Scan(&status)
	if err == sql.ErrNoRows {
		return false, repository.ErrNotFound
	}
	if err != nil {
		return false, fmt.Errorf("failed to get sheet version status: %w", err)
	}
	return status == workbook.StatusLocked, nil
}

// LockAndFork locks a working version, reads its full tree, and persists
// the fork built from it, all in one transaction. The conditional UPDATE
// serializes racing lock attempts: the loser affects zero rows and rolls
// back. Reading the tree after the lock succeeds means the fork can never
// miss an item edit committed after an earlier out-of-transaction read.
func (r *WorkbookRepository) LockAndFork(ctx context.Context, lockVersionID string, lockedAt time.Time, fork func(*workbook.VersionTree) *workbook.VersionTree) (*workbook.VersionTree, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	lockQuery := `
		UPDATE workbook_versions
		SET status = 'locked', locked_at = ?
		WHERE id = ? AND status = 'working'
	`
	result, err := tx.ExecContext(ctx, lockQuery, lockedAt, lockVersionID)
	if err != nil {
		return nil, fmt.Errorf("failed to lock version: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		var exists bool
		checkQuery := `SELECT EXISTS(SELECT 1 FROM workbook_versions WHERE id = ?)`
		if err := tx.QueryRowContext(ctx, checkQuery, lockVersionID).Scan(&exists); err != nil {
			return nil, fmt.Errorf("failed to check version existence: %w", err)
		}
		if !exists {
			return nil, repository.ErrNotFound
		}
		// Version exists but is no longer working - lost the race
		return nil, repository.ErrConflict
	}

	tree, err := r.loadTreeTx(ctx, tx, lockVersionID)
	if err != nil {
		return nil, err
	}

	forked := fork(tree)

	insertVersion := `
		INSERT INTO workbook_versions (id, job_id, version_number, status, created_at, locked_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`
	v := forked.Version
	if _, err := tx.ExecContext(ctx, insertVersion, v.ID, v.JobID, v.Number, v.Status, v.CreatedAt, v.LockedAt); err != nil {
		if isUniqueViolation(err) {
			return nil, repository.ErrConflict
		}
		return nil, fmt.Errorf("failed to insert forked version: %w", err)
	}

	insertSheet := `
		INSERT INTO sheets (id, version_id, name, sort_order, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`
	insertItem := `
		INSERT INTO items (
			id, sheet_id, category, name, quantity, unit_length,
			unit_cost, markup, unit_price, extended_cost, extended_price,
			taxable, status, notes, sort_order, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	insertLabor := `
		INSERT INTO labor_estimates (id, sheet_id, description, hours, rate, extended_cost, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	for _, st := range forked.Sheets {
		sh := st.Sheet
		if _, err := tx.ExecContext(ctx, insertSheet, sh.ID, sh.VersionID, sh.Name, sh.SortOrder, sh.CreatedAt, sh.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to insert forked sheet %q: %w", sh.Name, err)
		}
		for _, it := range st.Items {
			if _, err := tx.ExecContext(ctx, insertItem,
				it.ID, it.SheetID, it.Category, it.Name, it.Quantity, it.UnitLength,
				it.UnitCost, it.Markup, it.UnitPrice, it.ExtendedCost, it.ExtendedPrice,
				it.Taxable, it.Status, it.Notes, it.SortOrder, it.CreatedAt, it.UpdatedAt,
			); err != nil {
				return nil, fmt.Errorf("failed to insert forked item %q: %w", it.Name, err)
			}
		}
		for _, le := range st.Labor {
			if _, err := tx.ExecContext(ctx, insertLabor,
				le.ID, le.SheetID, le.Description, le.Hours, le.Rate, le.ExtendedCost, le.CreatedAt, le.UpdatedAt,
			); err != nil {
				return nil, fmt.Errorf("failed to insert forked labor row: %w", err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit lock and fork: %w", err)
	}

	return forked, nil
}

// loadTreeTx reads a version with all of its sheets, items, and labor rows
// inside the caller's transaction.
func (r *WorkbookRepository) loadTreeTx(ctx context.Context, tx *sql.Tx, versionID string) (*workbook.VersionTree, error) {
	versionQuery := `SELECT ` + versionColumns + ` FROM workbook_versions WHERE id = ?`
	v, err := scanVersion(tx.QueryRowContext(ctx, versionQuery, versionID))
	if err == sql.ErrNoRows {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read version for fork: %w", err)
	}

	sheetQuery := `
		SELECT id, version_id, name, sort_order, created_at, updated_at
		FROM sheets
		WHERE version_id = ?
		ORDER BY sort_order ASC, created_at ASC
	`
	rows, err := tx.QueryContext(ctx, sheetQuery, versionID)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheets for fork: %w", err)
	}
	defer rows.Close()

	tree := &workbook.VersionTree{Version: *v}
	for rows.Next() {
		var sh sheet.Sheet
		if err := rows.Scan(&sh.ID, &sh.VersionID, &sh.Name, &sh.SortOrder, &sh.CreatedAt, &sh.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan sheet: %w", err)
		}
		tree.Sheets = append(tree.Sheets, workbook.SheetTree{Sheet: sh})
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating sheet rows: %w", err)
	}

	itemQuery := `
		SELECT ` + itemColumns + `
		FROM items
		WHERE sheet_id = ?
		ORDER BY category ASC, sort_order ASC, created_at ASC
	`
	laborQuery := `
		SELECT id, sheet_id, description, hours, rate, extended_cost, created_at, updated_at
		FROM labor_estimates
		WHERE sheet_id = ?
		ORDER BY created_at ASC
	`
	for i := range tree.Sheets {
		st := &tree.Sheets[i]

		itemRows, err := tx.QueryContext(ctx, itemQuery, st.Sheet.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to read items for fork: %w", err)
		}
		for itemRows.Next() {
			it, err := scanItem(itemRows)
			if err != nil {
				itemRows.Close()
				return nil, fmt.Errorf("failed to scan item: %w", err)
			}
			st.Items = append(st.Items, *it)
		}
		if err = itemRows.Err(); err != nil {
			itemRows.Close()
			return nil, fmt.Errorf("error iterating item rows: %w", err)
		}
		itemRows.Close()

		laborRows, err := tx.QueryContext(ctx, laborQuery, st.Sheet.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to read labor rows for fork: %w", err)
		}
		for laborRows.Next() {
			le, err := scanLaborEstimate(laborRows)
			if err != nil {
				laborRows.Close()
				return nil, fmt.Errorf("failed to scan labor estimate: %w", err)
			}
			st.Labor = append(st.Labor, *le)
		}
		if err = laborRows.Err(); err != nil {
			laborRows.Close()
			return nil, fmt.Errorf("error iterating labor rows: %w", err)
		}
		laborRows.Close()
	}

	return tree, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanVersion(row rowScanner) (*workbook.Version, error) {
	var v workbook.Version
	var lockedAt sql.NullTime
	if err := row.Scan(&v.ID, &v.JobID, &v.Number, &v.Status, &v.CreatedAt, &lockedAt); err != nil {
		return nil, err
	}
	v.LockedAt = timePtr(lockedAt)
	return &v, nil
}

func (r *WorkbookRepository) queryVersions(ctx context.Context, query string, args ...interface{}) ([]workbook.Version, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list versions: %w", err)
	}
	defer rows.Close()

	var versions []workbook.Version
	for rows.Next() {
		v, err := scanVersion(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan version: %w", err)
		}
		versions = append(versions, *v)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating version rows: %w", err)
	}

	return versions, nil
}
