package compare

// SheetComparison pairs a proposal sheet with its working-version
// counterpart, matched by exact sheet name. A proposal sheet with no
// counterpart reports zero actual totals and MissingFromActual. Sheets that
// exist only in the working version (added after the proposal was locked)
// are not part of the comparison at all; there is no baseline to compare
// them against.
type SheetComparison struct {
	SheetName         string  `json:"sheet_name"`
	ProposalCost      float64 `json:"proposal_cost"`
	ProposalPrice     float64 `json:"proposal_price"`
	ActualCost        float64 `json:"actual_cost"`
	ActualPrice       float64 `json:"actual_price"`
	CostVariance      float64 `json:"cost_variance"`
	PriceVariance     float64 `json:"price_variance"`
	CostVariancePct   float64 `json:"cost_variance_pct"`
	PriceVariancePct  float64 `json:"price_variance_pct"`
	MissingFromActual bool    `json:"missing_from_actual,omitempty"`
}

// Totals aggregates the per-sheet totals for the whole job.
type Totals struct {
	ProposalCost     float64 `json:"proposal_cost"`
	ProposalPrice    float64 `json:"proposal_price"`
	ActualCost       float64 `json:"actual_cost"`
	ActualPrice      float64 `json:"actual_price"`
	CostVariance     float64 `json:"cost_variance"`
	PriceVariance    float64 `json:"price_variance"`
	CostVariancePct  float64 `json:"cost_variance_pct"`
	PriceVariancePct float64 `json:"price_variance_pct"`
}

// JobComparison is the proposal-vs-actual report for one job. Variances are
// signed: positive means the actuals exceed the proposal. Variance percent
// is 0 when the proposal total is 0.
type JobComparison struct {
	JobID             string            `json:"job_id"`
	ProposalVersionID string            `json:"proposal_version_id"`
	WorkingVersionID  *string           `json:"working_version_id,omitempty"`
	Sheets            []SheetComparison `json:"sheets"`
	Totals            Totals            `json:"totals"`
}
