package workbook

import (
	"time"

	"github.com/google/uuid"
	"github.com/slateworks/matbook/internal/domain/item"
	"github.com/slateworks/matbook/internal/domain/sheet"
)

// The fork copies are explicit field-by-field constructors, not reflective
// clones, so the copy contract stays auditable: identifiers and timestamps
// are excluded deliberately, every domain field is carried verbatim.

func forkTree(src *VersionTree, now time.Time) *VersionTree {
	fork := &VersionTree{
		Version: forkVersion(src.Version, now),
		Sheets:  make([]SheetTree, 0, len(src.Sheets)),
	}
	for _, st := range src.Sheets {
		copied := SheetTree{
			Sheet: forkSheet(st.Sheet, fork.Version.ID, now),
			Items: make([]item.Item, 0, len(st.Items)),
			Labor: make([]LaborEstimate, 0, len(st.Labor)),
		}
		for _, it := range st.Items {
			copied.Items = append(copied.Items, forkItem(it, copied.Sheet.ID, now))
		}
		for _, le := range st.Labor {
			copied.Labor = append(copied.Labor, forkLabor(le, copied.Sheet.ID, now))
		}
		fork.Sheets = append(fork.Sheets, copied)
	}
	return fork
}

func forkVersion(src Version, now time.Time) Version {
	return Version{
		ID:        uuid.NewString(),
		JobID:     src.JobID,
		Number:    src.Number + 1,
		Status:    StatusWorking,
		CreatedAt: now,
	}
}

func forkSheet(src sheet.Sheet, versionID string, now time.Time) sheet.Sheet {
	return sheet.Sheet{
		ID:        uuid.NewString(),
		VersionID: versionID,
		Name:      src.Name,
		SortOrder: src.SortOrder,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func forkItem(src item.Item, sheetID string, now time.Time) item.Item {
	return item.Item{
		ID:            uuid.NewString(),
		SheetID:       sheetID,
		Category:      src.Category,
		Name:          src.Name,
		Quantity:      copyFloat(src.Quantity),
		UnitLength:    src.UnitLength,
		UnitCost:      copyFloat(src.UnitCost),
		Markup:        copyFloat(src.Markup),
		UnitPrice:     copyFloat(src.UnitPrice),
		ExtendedCost:  copyFloat(src.ExtendedCost),
		ExtendedPrice: copyFloat(src.ExtendedPrice),
		Taxable:       src.Taxable,
		Status:        src.Status,
		Notes:         src.Notes,
		SortOrder:     src.SortOrder,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

func forkLabor(src LaborEstimate, sheetID string, now time.Time) LaborEstimate {
	return LaborEstimate{
		ID:           uuid.NewString(),
		SheetID:      sheetID,
		Description:  src.Description,
		Hours:        copyFloat(src.Hours),
		Rate:         copyFloat(src.Rate),
		ExtendedCost: copyFloat(src.ExtendedCost),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// copyFloat duplicates an optional value so forked rows never alias the
// source row's pointers.
func copyFloat(src *float64) *float64 {
	if src == nil {
		return nil
	}
	val := *src
	return &val
}
