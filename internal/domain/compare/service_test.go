package compare_test

import (
	"context"
	"testing"

	"github.com/slateworks/matbook/internal/domain/compare"
	"github.com/slateworks/matbook/internal/domain/item"
	"github.com/slateworks/matbook/internal/domain/sheet"
	"github.com/slateworks/matbook/internal/domain/workbook"
	"github.com/slateworks/matbook/internal/repository"
	"github.com/slateworks/matbook/internal/repository/mocks"
	"github.com/stretchr/testify/require"
)

func TestCompareService_Variance(t *testing.T) {
	ctx := context.Background()

	versions := &mocks.WorkbookRepository{}
	sheets := &mocks.SheetRepository{}
	items := &mocks.ItemRepository{}

	proposal := workbook.Version{ID: "v1", JobID: "job1", Number: 1, Status: workbook.StatusLocked}
	working := workbook.Version{ID: "v2", JobID: "job1", Number: 2, Status: workbook.StatusWorking}
	versions.On("GetProposalVersion", ctx, "job1").Return(&proposal, nil)
	versions.On("ListWorkingVersions", ctx, "job1").Return([]workbook.Version{working}, nil)

	sheets.On("ListByVersion", ctx, "v1").Return([]sheet.Sheet{
		{ID: "s1", VersionID: "v1", Name: "Lumber"},
	}, nil)
	sheets.On("ListByVersion", ctx, "v2").Return([]sheet.Sheet{
		{ID: "s2", VersionID: "v2", Name: "Lumber"},
	}, nil)

	items.On("ListBySheet", ctx, "s1").Return([]item.Item{
		{ID: "i1", SheetID: "s1", ExtendedCost: fp(1000), ExtendedPrice: fp(1400)},
	}, nil)
	items.On("ListBySheet", ctx, "s2").Return([]item.Item{
		{ID: "i2", SheetID: "s2", ExtendedCost: fp(1200), ExtendedPrice: fp(1400)},
	}, nil)

	svc := compare.NewService(versions, sheets, items, nil)
	report, err := svc.CompareJobMaterials(ctx, "job1")
	require.NoError(t, err)

	require.Equal(t, "v1", report.ProposalVersionID)
	require.NotNil(t, report.WorkingVersionID)
	require.Equal(t, "v2", *report.WorkingVersionID)

	require.Len(t, report.Sheets, 1)
	row := report.Sheets[0]
	require.Equal(t, "Lumber", row.SheetName)
	require.Equal(t, 1000.0, row.ProposalCost)
	require.Equal(t, 1200.0, row.ActualCost)
	require.Equal(t, 200.0, row.CostVariance)
	require.InDelta(t, 20.0, row.CostVariancePct, 1e-9)
	require.Equal(t, 0.0, row.PriceVariance)
	require.False(t, row.MissingFromActual)

	require.Equal(t, 200.0, report.Totals.CostVariance)
	require.InDelta(t, 20.0, report.Totals.CostVariancePct, 1e-9)
}

func TestCompareService_ZeroProposalTotal(t *testing.T) {
	ctx := context.Background()

	versions := &mocks.WorkbookRepository{}
	sheets := &mocks.SheetRepository{}
	items := &mocks.ItemRepository{}

	versions.On("GetProposalVersion", ctx, "job1").Return(&workbook.Version{ID: "v1", JobID: "job1"}, nil)
	versions.On("ListWorkingVersions", ctx, "job1").Return([]workbook.Version{{ID: "v2", JobID: "job1"}}, nil)
	sheets.On("ListByVersion", ctx, "v1").Return([]sheet.Sheet{{ID: "s1", Name: "Extras"}}, nil)
	sheets.On("ListByVersion", ctx, "v2").Return([]sheet.Sheet{{ID: "s2", Name: "Extras"}}, nil)
	items.On("ListBySheet", ctx, "s1").Return([]item.Item{}, nil)
	items.On("ListBySheet", ctx, "s2").Return([]item.Item{
		{ID: "i1", SheetID: "s2", ExtendedCost: fp(75)},
	}, nil)

	svc := compare.NewService(versions, sheets, items, nil)
	report, err := svc.CompareJobMaterials(ctx, "job1")
	require.NoError(t, err)

	row := report.Sheets[0]
	require.Equal(t, 75.0, row.CostVariance)
	require.Equal(t, 0.0, row.CostVariancePct, "zero proposal total reports zero percent")
}

func TestCompareService_NoBaseline(t *testing.T) {
	ctx := context.Background()

	versions := &mocks.WorkbookRepository{}
	versions.On("GetProposalVersion", ctx, "job1").Return(nil, repository.ErrNotFound)

	svc := compare.NewService(versions, &mocks.SheetRepository{}, &mocks.ItemRepository{}, nil)
	_, err := svc.CompareJobMaterials(ctx, "job1")
	require.ErrorIs(t, err, workbook.ErrNoBaseline)
}

func TestCompareService_NoWorkingVersion(t *testing.T) {
	ctx := context.Background()

	versions := &mocks.WorkbookRepository{}
	sheets := &mocks.SheetRepository{}
	items := &mocks.ItemRepository{}

	versions.On("GetProposalVersion", ctx, "job1").Return(&workbook.Version{ID: "v1", JobID: "job1"}, nil)
	versions.On("ListWorkingVersions", ctx, "job1").Return([]workbook.Version{}, nil)
	sheets.On("ListByVersion", ctx, "v1").Return([]sheet.Sheet{{ID: "s1", Name: "Lumber"}}, nil)
	items.On("ListBySheet", ctx, "s1").Return([]item.Item{
		{ID: "i1", SheetID: "s1", ExtendedCost: fp(500), ExtendedPrice: fp(650)},
	}, nil)

	svc := compare.NewService(versions, sheets, items, nil)
	report, err := svc.CompareJobMaterials(ctx, "job1")
	require.NoError(t, err)

	require.Nil(t, report.WorkingVersionID)
	row := report.Sheets[0]
	require.Equal(t, 0.0, row.ActualCost)
	require.Equal(t, -500.0, row.CostVariance)
	require.True(t, row.MissingFromActual)
}

func TestCompareService_SheetMatching(t *testing.T) {
	ctx := context.Background()

	versions := &mocks.WorkbookRepository{}
	sheets := &mocks.SheetRepository{}
	items := &mocks.ItemRepository{}

	versions.On("GetProposalVersion", ctx, "job1").Return(&workbook.Version{ID: "v1", JobID: "job1"}, nil)
	versions.On("ListWorkingVersions", ctx, "job1").Return([]workbook.Version{{ID: "v2", JobID: "job1"}}, nil)

	// The baseline has Lumber and Hardware; the working version dropped
	// Hardware and added Electrical after lock.
	sheets.On("ListByVersion", ctx, "v1").Return([]sheet.Sheet{
		{ID: "s1", Name: "Lumber"},
		{ID: "s2", Name: "Hardware"},
	}, nil)
	sheets.On("ListByVersion", ctx, "v2").Return([]sheet.Sheet{
		{ID: "s3", Name: "Lumber"},
		{ID: "s4", Name: "Electrical"},
	}, nil)
	items.On("ListBySheet", ctx, "s1").Return([]item.Item{{ID: "i1", ExtendedCost: fp(100)}}, nil)
	items.On("ListBySheet", ctx, "s2").Return([]item.Item{{ID: "i2", ExtendedCost: fp(40)}}, nil)
	items.On("ListBySheet", ctx, "s3").Return([]item.Item{{ID: "i3", ExtendedCost: fp(110)}}, nil)
	items.On("ListBySheet", ctx, "s4").Return([]item.Item{{ID: "i4", ExtendedCost: fp(999)}}, nil)

	svc := compare.NewService(versions, sheets, items, nil)
	report, err := svc.CompareJobMaterials(ctx, "job1")
	require.NoError(t, err)

	require.Len(t, report.Sheets, 2, "working-only sheets are not compared")

	byName := map[string]compare.SheetComparison{}
	for _, row := range report.Sheets {
		byName[row.SheetName] = row
	}
	require.Equal(t, 110.0, byName["Lumber"].ActualCost)
	require.True(t, byName["Hardware"].MissingFromActual)
	require.Equal(t, 0.0, byName["Hardware"].ActualCost)
	require.NotContains(t, byName, "Electrical")

	require.Equal(t, 140.0, report.Totals.ProposalCost)
	require.Equal(t, 110.0, report.Totals.ActualCost)
}

func fp(val float64) *float64 {
	return &val
}
