package compare

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/slateworks/matbook/internal/domain/item"
	"github.com/slateworks/matbook/internal/domain/workbook"
	"github.com/slateworks/matbook/internal/repository"
)

// Service computes proposal-vs-actual comparisons. It is a pure read: every
// call derives the report from current storage state, nothing is cached.
type Service struct {
	versions VersionRepository
	sheets   SheetRepository
	items    ItemRepository
	logger   *slog.Logger
}

// NewService creates a new comparison service.
func NewService(versions VersionRepository, sheets SheetRepository, items ItemRepository, logger *slog.Logger) *Service {
	return &Service{
		versions: versions,
		sheets:   sheets,
		items:    items,
		logger:   logger,
	}
}

// CompareJobMaterials reports cost and price variance between the job's
// proposal (oldest locked version) and its current working version, per
// sheet and in aggregate. With no locked version yet there is nothing to
// compare against and ErrNoBaseline is returned. With no working version
// the actual side of every sheet is zero.
func (s *Service) CompareJobMaterials(ctx context.Context, jobID string) (*JobComparison, error) {
	proposal, err := s.versions.GetProposalVersion(ctx, jobID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, workbook.ErrNoBaseline
		}
		return nil, fmt.Errorf("getting proposal version: %w", err)
	}

	working, err := s.workingVersion(ctx, jobID)
	if err != nil {
		return nil, err
	}

	baseline, err := s.sheetTotals(ctx, proposal.ID)
	if err != nil {
		return nil, err
	}

	actuals := map[string]sheetTotals{}
	if working != nil {
		actualList, err := s.sheetTotals(ctx, working.ID)
		if err != nil {
			return nil, err
		}
		for _, st := range actualList {
			actuals[st.name] = st
		}
	}

	report := &JobComparison{
		JobID:             jobID,
		ProposalVersionID: proposal.ID,
		Sheets:            make([]SheetComparison, 0, len(baseline)),
	}
	if working != nil {
		report.WorkingVersionID = &working.ID
	}

	for _, base := range baseline {
		actual, matched := actuals[base.name]
		row := SheetComparison{
			SheetName:         base.name,
			ProposalCost:      base.cost,
			ProposalPrice:     base.price,
			ActualCost:        actual.cost,
			ActualPrice:       actual.price,
			MissingFromActual: !matched,
		}
		row.CostVariance = row.ActualCost - row.ProposalCost
		row.PriceVariance = row.ActualPrice - row.ProposalPrice
		row.CostVariancePct = variancePct(row.CostVariance, row.ProposalCost)
		row.PriceVariancePct = variancePct(row.PriceVariance, row.ProposalPrice)
		report.Sheets = append(report.Sheets, row)

		report.Totals.ProposalCost += row.ProposalCost
		report.Totals.ProposalPrice += row.ProposalPrice
		report.Totals.ActualCost += row.ActualCost
		report.Totals.ActualPrice += row.ActualPrice
	}

	report.Totals.CostVariance = report.Totals.ActualCost - report.Totals.ProposalCost
	report.Totals.PriceVariance = report.Totals.ActualPrice - report.Totals.ProposalPrice
	report.Totals.CostVariancePct = variancePct(report.Totals.CostVariance, report.Totals.ProposalCost)
	report.Totals.PriceVariancePct = variancePct(report.Totals.PriceVariance, report.Totals.ProposalPrice)

	return report, nil
}

type sheetTotals struct {
	name  string
	cost  float64
	price float64
}

func (s *Service) workingVersion(ctx context.Context, jobID string) (*workbook.Version, error) {
	working, err := s.versions.ListWorkingVersions(ctx, jobID)
	if err != nil {
		return nil, fmt.Errorf("listing working versions: %w", err)
	}
	switch len(working) {
	case 0:
		return nil, nil
	case 1:
		return &working[0], nil
	default:
		return nil, workbook.ErrVersionStateCorrupt
	}
}

func (s *Service) sheetTotals(ctx context.Context, versionID string) ([]sheetTotals, error) {
	sheets, err := s.sheets.ListByVersion(ctx, versionID)
	if err != nil {
		return nil, fmt.Errorf("listing sheets: %w", err)
	}

	totals := make([]sheetTotals, 0, len(sheets))
	for _, sh := range sheets {
		items, err := s.items.ListBySheet(ctx, sh.ID)
		if err != nil {
			return nil, fmt.Errorf("listing items for sheet %q: %w", sh.Name, err)
		}
		totals = append(totals, sheetTotals{
			name:  sh.Name,
			cost:  sumExtended(items, func(it item.Item) *float64 { return it.ExtendedCost }),
			price: sumExtended(items, func(it item.Item) *float64 { return it.ExtendedPrice }),
		})
	}
	return totals, nil
}

// sumExtended totals a derived field across items; null extendeds
// contribute nothing.
func sumExtended(items []item.Item, field func(item.Item) *float64) float64 {
	var total float64
	for _, it := range items {
		if val := field(it); val != nil {
			total += *val
		}
	}
	return total
}

// variancePct guards the divide-by-zero case: a zero proposal total reports
// 0 percent by domain convention, not an error.
func variancePct(variance, proposalTotal float64) float64 {
	if proposalTotal == 0 {
		return 0
	}
	return variance / proposalTotal * 100
}
