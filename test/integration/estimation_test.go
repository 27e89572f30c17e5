package integration_test

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/slateworks/matbook/internal/domain/activity"
	"github.com/slateworks/matbook/internal/domain/bundle"
	"github.com/slateworks/matbook/internal/domain/item"
	"github.com/slateworks/matbook/internal/domain/workbook"
	"github.com/slateworks/matbook/internal/engine"
	"github.com/slateworks/matbook/internal/sqlite"
	"github.com/stretchr/testify/require"
)

type testEnv struct {
	eng   *engine.Engine
	jobID string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := sqlite.New(dsn)
	require.NoError(t, err)
	require.NoError(t, db.RunMigrations())
	t.Cleanup(func() { _ = db.Close() })

	eng := engine.FromDB(db, nil)

	jobID := uuid.NewString()
	_, err = db.ExecContext(context.Background(),
		"INSERT INTO jobs (id, name) VALUES (?, ?)", jobID, "Smith residence")
	require.NoError(t, err)

	return &testEnv{eng: eng, jobID: jobID}
}

// TestProposalToActualLifecycle walks the whole estimation flow: author a
// working workbook, lock it as the proposal, adjust the actuals, and read
// the variance report.
func TestProposalToActualLifecycle(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	v1, err := env.eng.Workbooks.CreateInitialVersion(ctx, env.jobID)
	require.NoError(t, err)
	require.Equal(t, 1, v1.Number)

	// The first version is standalone-only: a second create must fail.
	_, err = env.eng.Workbooks.CreateInitialVersion(ctx, env.jobID)
	require.ErrorIs(t, err, workbook.ErrVersionExists)

	lumber, err := env.eng.Sheets.Create(ctx, v1.ID, "Lumber", 0)
	require.NoError(t, err)

	stud, err := env.eng.Items.Create(ctx, item.CreateRequest{
		SheetID:   lumber.ID,
		Category:  "Framing",
		Name:      "2x4 stud",
		Quantity:  "10",
		UnitCost:  "5",
		UnitPrice: "7",
	})
	require.NoError(t, err)
	require.Equal(t, 50.0, *stud.ExtendedCost)
	require.Equal(t, 70.0, *stud.ExtendedPrice)

	laborRow, err := env.eng.Workbooks.AddLaborEstimate(ctx, workbook.LaborRequest{
		SheetID:     lumber.ID,
		Description: "install framing",
		Hours:       "6",
		Rate:        "85",
	})
	require.NoError(t, err)
	require.Equal(t, 510.0, *laborRow.ExtendedCost)

	// Comparing before any lock has no baseline to compare against.
	_, err = env.eng.Compare.CompareJobMaterials(ctx, env.jobID)
	require.ErrorIs(t, err, workbook.ErrNoBaseline)

	result, err := env.eng.Workbooks.LockAndFork(ctx, env.jobID)
	require.NoError(t, err)
	require.Equal(t, workbook.StatusLocked, result.Locked.Status)
	require.Equal(t, 2, result.Working.Number)

	// The locked proposal is now immutable.
	_, err = env.eng.Items.EditField(ctx, item.EditFieldRequest{
		ItemID: stud.ID,
		Field:  item.FieldQuantity,
		Value:  "99",
	})
	require.ErrorIs(t, err, item.ErrVersionLocked)

	// The fork carried the sheet and item over; edit actuals there.
	actualSheets, err := env.eng.Sheets.ListByVersion(ctx, result.Working.ID)
	require.NoError(t, err)
	require.Len(t, actualSheets, 1)
	require.Equal(t, "Lumber", actualSheets[0].Name)

	actualItems, err := env.eng.Items.ListBySheet(ctx, actualSheets[0].ID)
	require.NoError(t, err)
	require.Len(t, actualItems, 1)

	// Labor rows ride along with the fork.
	actualTree, err := env.eng.Workbooks.GetVersionTree(ctx, result.Working.ID)
	require.NoError(t, err)
	require.Len(t, actualTree.Sheets, 1)
	require.Len(t, actualTree.Sheets[0].Labor, 1)
	require.Equal(t, 510.0, *actualTree.Sheets[0].Labor[0].ExtendedCost)

	edited, err := env.eng.Items.EditField(ctx, item.EditFieldRequest{
		ItemID: actualItems[0].ID,
		Field:  item.FieldQuantity,
		Value:  "12",
	})
	require.NoError(t, err)
	require.Equal(t, 60.0, *edited.ExtendedCost)
	require.Equal(t, 84.0, *edited.ExtendedPrice)

	report, err := env.eng.Compare.CompareJobMaterials(ctx, env.jobID)
	require.NoError(t, err)
	require.Equal(t, result.Locked.ID, report.ProposalVersionID)
	require.NotNil(t, report.WorkingVersionID)
	require.Equal(t, result.Working.ID, *report.WorkingVersionID)

	require.Len(t, report.Sheets, 1)
	row := report.Sheets[0]
	require.Equal(t, "Lumber", row.SheetName)
	require.Equal(t, 50.0, row.ProposalCost)
	require.Equal(t, 60.0, row.ActualCost)
	require.Equal(t, 10.0, row.CostVariance)
	require.InDelta(t, 20.0, row.CostVariancePct, 1e-9)
	require.Equal(t, 70.0, row.ProposalPrice)
	require.Equal(t, 84.0, row.ActualPrice)
	require.Equal(t, 14.0, row.PriceVariance)
	require.InDelta(t, 20.0, row.PriceVariancePct, 1e-9)

	// Locking was recorded in the activity feed.
	entries, err := env.eng.Activity.GetRecentActivity(ctx, env.jobID, activity.ListOptions{})
	require.NoError(t, err)
	require.NotEmpty(t, entries)
	require.Equal(t, activity.TypeVersionLocked, entries[0].Type)
}

// TestBundleStatusPropagation covers the ordering workflow: a bundle's
// status fans out to every referenced item across sheets.
func TestBundleStatusPropagation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	v1, err := env.eng.Workbooks.CreateInitialVersion(ctx, env.jobID)
	require.NoError(t, err)

	lumber, err := env.eng.Sheets.Create(ctx, v1.ID, "Lumber", 0)
	require.NoError(t, err)
	hardware, err := env.eng.Sheets.Create(ctx, v1.ID, "Hardware", 1)
	require.NoError(t, err)

	var itemIDs []string
	for _, spec := range []struct {
		sheetID string
		name    string
	}{
		{lumber.ID, "2x4 stud"},
		{lumber.ID, "2x6 joist"},
		{hardware.ID, "joist hanger"},
	} {
		it, err := env.eng.Items.Create(ctx, item.CreateRequest{
			SheetID:  spec.sheetID,
			Name:     spec.name,
			Quantity: "1",
			UnitCost: "10",
		})
		require.NoError(t, err)
		itemIDs = append(itemIDs, it.ID)
	}

	b, err := env.eng.Bundles.Create(ctx, bundle.CreateRequest{
		JobID:   env.jobID,
		Name:    "Deck framing order",
		ItemIDs: itemIDs,
	})
	require.NoError(t, err)
	require.Equal(t, item.StatusNotOrdered, b.Status)

	updated, err := env.eng.Bundles.SetStatus(ctx, b.ID, item.StatusOrdered)
	require.NoError(t, err)
	require.Equal(t, item.StatusOrdered, updated.Status)

	for _, id := range itemIDs {
		got, err := env.eng.Items.Get(ctx, id)
		require.NoError(t, err)
		require.Equal(t, item.StatusOrdered, got.Status)
	}

	// Membership edits are idempotent and reported, not failed.
	res, err := env.eng.Bundles.AddItems(ctx, b.ID, []string{itemIDs[0]})
	require.NoError(t, err)
	require.Empty(t, res.Applied)
	require.Equal(t, []string{itemIDs[0]}, res.Skipped)

	// Deleting an item shrinks bundle membership through storage.
	require.NoError(t, env.eng.Items.Delete(ctx, itemIDs[2]))
	got, err := env.eng.Bundles.Get(ctx, b.ID)
	require.NoError(t, err)
	require.ElementsMatch(t, itemIDs[:2], got.ItemIDs)
}
