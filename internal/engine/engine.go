// Package engine wires the estimation services to their sqlite
// repositories. It is the composition root the surrounding application
// consumes; everything the engine exposes takes and returns plain data
// records.
package engine

import (
	"fmt"
	"log/slog"

	"github.com/slateworks/matbook/internal/config"
	"github.com/slateworks/matbook/internal/domain/activity"
	"github.com/slateworks/matbook/internal/domain/bundle"
	"github.com/slateworks/matbook/internal/domain/compare"
	"github.com/slateworks/matbook/internal/domain/item"
	"github.com/slateworks/matbook/internal/domain/sheet"
	"github.com/slateworks/matbook/internal/domain/workbook"
	"github.com/slateworks/matbook/internal/sqlite"
)

// Engine bundles the estimation services over one database.
type Engine struct {
	Items     *item.Service
	Sheets    *sheet.Service
	Workbooks *workbook.Service
	Compare   *compare.Service
	Bundles   *bundle.Service
	Activity  *activity.Service

	db *sqlite.DB
}

// New opens the configured database, runs migrations, and wires the
// services.
func New(cfg config.Config, logger *slog.Logger) (*Engine, error) {
	db, err := sqlite.New(cfg.DB.Path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if err := db.RunMigrations(); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}
	return FromDB(db, logger), nil
}

// FromDB wires the services over an already opened database.
func FromDB(db *sqlite.DB, logger *slog.Logger) *Engine {
	workbookRepo := sqlite.NewWorkbookRepository(db)
	sheetRepo := sqlite.NewSheetRepository(db)
	itemRepo := sqlite.NewItemRepository(db)
	laborRepo := sqlite.NewLaborRepository(db)
	bundleRepo := sqlite.NewBundleRepository(db)
	activityRepo := sqlite.NewActivityRepository(db)

	return &Engine{
		Items:     item.NewService(itemRepo, workbookRepo, logger),
		Sheets:    sheet.NewService(sheetRepo, workbookRepo, logger),
		Workbooks: workbook.NewService(workbookRepo, sheetRepo, itemRepo, laborRepo, activityRepo, logger),
		Compare:   compare.NewService(workbookRepo, sheetRepo, itemRepo, logger),
		Bundles:   bundle.NewService(bundleRepo, itemRepo, activityRepo, logger),
		Activity:  activity.NewService(activityRepo, logger),
		db:        db,
	}
}

// DB exposes the underlying database, mainly for migrations tooling and
// tests.
func (e *Engine) DB() *sqlite.DB {
	return e.db
}

// Close closes the underlying database.
func (e *Engine) Close() error {
	if e.db == nil {
		return nil
	}
	return e.db.Close()
}
