package sqlite

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// DB wraps a SQLite database connection
type DB struct {
	*sql.DB
}

// New creates a new SQLite database connection
func New(dataSourceName string) (*DB, error) {
	db, err := sql.Open("sqlite", dataSourceName)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Enable foreign keys
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	return &DB{db}, nil
}

// RunMigrations creates the schema. The partial unique index on
// workbook_versions is what enforces the one-working-version-per-job
// invariant at the storage level; the services only double-check it.
func (db *DB) RunMigrations() error {
	migration := `
-- Jobs table. Jobs themselves are owned by the surrounding application;
-- this table anchors referential integrity for the estimation engine.
CREATE TABLE jobs (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);

-- Workbook versions
CREATE TABLE workbook_versions (
    id TEXT PRIMARY KEY,
    job_id TEXT NOT NULL,
    version_number INTEGER NOT NULL,
    status TEXT NOT NULL CHECK(status IN ('working', 'locked')),
    created_at TIMESTAMP NOT NULL,
    locked_at TIMESTAMP,
    FOREIGN KEY (job_id) REFERENCES jobs(id),
    UNIQUE (job_id, version_number)
);
CREATE INDEX idx_job_versions ON workbook_versions(job_id);
CREATE UNIQUE INDEX idx_one_working_version ON workbook_versions(job_id) WHERE status = 'working';

-- Sheets: named partitions of items inside one version
CREATE TABLE sheets (
    id TEXT PRIMARY KEY,
    version_id TEXT NOT NULL,
    name TEXT NOT NULL,
    sort_order INTEGER NOT NULL DEFAULT 0,
    created_at TIMESTAMP NOT NULL,
    updated_at TIMESTAMP NOT NULL,
    FOREIGN KEY (version_id) REFERENCES workbook_versions(id)
);
CREATE INDEX idx_version_sheets ON sheets(version_id);

-- Line items
CREATE TABLE items (
    id TEXT PRIMARY KEY,
    sheet_id TEXT NOT NULL,
    category TEXT NOT NULL DEFAULT '',
    name TEXT NOT NULL,
    quantity REAL,
    unit_length TEXT NOT NULL DEFAULT '',
    unit_cost REAL,
    markup REAL,
    unit_price REAL,
    extended_cost REAL,
    extended_price REAL,
    taxable INTEGER NOT NULL DEFAULT 0,
    status TEXT NOT NULL CHECK(status IN ('not_ordered', 'ordered', 'received', 'pull_from_shop', 'at_job', 'installed')),
    notes TEXT NOT NULL DEFAULT '',
    sort_order INTEGER NOT NULL DEFAULT 0,
    created_at TIMESTAMP NOT NULL,
    updated_at TIMESTAMP NOT NULL,
    FOREIGN KEY (sheet_id) REFERENCES sheets(id)
);
CREATE INDEX idx_sheet_items ON items(sheet_id);
CREATE INDEX idx_item_status ON items(status);

-- Per-sheet labor estimates; copied along by lock-and-fork
CREATE TABLE labor_estimates (
    id TEXT PRIMARY KEY,
    sheet_id TEXT NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    hours REAL,
    rate REAL,
    extended_cost REAL,
    created_at TIMESTAMP NOT NULL,
    updated_at TIMESTAMP NOT NULL,
    FOREIGN KEY (sheet_id) REFERENCES sheets(id)
);
CREATE INDEX idx_sheet_labor ON labor_estimates(sheet_id);

-- Bundles: cross-sheet item groups sharing one propagated status
CREATE TABLE bundles (
    id TEXT PRIMARY KEY,
    job_id TEXT NOT NULL,
    name TEXT NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    status TEXT NOT NULL CHECK(status IN ('not_ordered', 'ordered', 'received', 'pull_from_shop', 'at_job', 'installed')),
    created_at TIMESTAMP NOT NULL,
    updated_at TIMESTAMP NOT NULL,
    FOREIGN KEY (job_id) REFERENCES jobs(id)
);
CREATE INDEX idx_job_bundles ON bundles(job_id);

-- Bundle membership holds references only; deleting an item shrinks
-- membership via the cascade.
CREATE TABLE bundle_items (
    bundle_id TEXT NOT NULL,
    item_id TEXT NOT NULL,
    added_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    PRIMARY KEY (bundle_id, item_id),
    FOREIGN KEY (bundle_id) REFERENCES bundles(id) ON DELETE CASCADE,
    FOREIGN KEY (item_id) REFERENCES items(id) ON DELETE CASCADE
);

-- Activity log
CREATE TABLE activity_log (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    job_id TEXT NOT NULL,
    entity_id TEXT,
    activity_type TEXT NOT NULL,
    summary TEXT NOT NULL,
    details TEXT,
    created_at TIMESTAMP NOT NULL
);
CREATE INDEX idx_job_activity ON activity_log(job_id);
CREATE INDEX idx_activity_created_at ON activity_log(created_at);
`

	_, err := db.Exec(migration)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return nil
}
