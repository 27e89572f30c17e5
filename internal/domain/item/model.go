package item

import "time"

// Status tracks fulfillment progression for a line item. It is a display and
// tracking field, not a gated state machine: any status may be set from any
// other by explicit user action.
type Status string

const (
	StatusNotOrdered   Status = "not_ordered"
	StatusOrdered      Status = "ordered"
	StatusReceived     Status = "received"
	StatusPullFromShop Status = "pull_from_shop"
	StatusAtJob        Status = "at_job"
	StatusInstalled    Status = "installed"
)

// IsValid reports whether the status is one of the defined constants.
func (s Status) IsValid() bool {
	switch s {
	case StatusNotOrdered, StatusOrdered, StatusReceived, StatusPullFromShop, StatusAtJob, StatusInstalled:
		return true
	}
	return false
}

// Field identifies which item field an edit targets.
type Field string

const (
	FieldQuantity  Field = "quantity"
	FieldUnitCost  Field = "unit_cost"
	FieldMarkup    Field = "markup"
	FieldUnitPrice Field = "unit_price"
)

// Item is one purchasable line entry on a workbook sheet.
//
// ExtendedCost and ExtendedPrice are derived fields: they are always
// recomputed from quantity and unit cost/price and are never edited
// independently. Markup is stored as a decimal fraction (0.35 == 35%).
type Item struct {
	ID            string     `json:"id"`
	SheetID       string     `json:"sheet_id"`
	Category      string     `json:"category,omitempty"`
	Name          string     `json:"name"`
	Quantity      *float64   `json:"quantity,omitempty"`
	UnitLength    string     `json:"unit_length,omitempty"`
	UnitCost      *float64   `json:"unit_cost,omitempty"`
	Markup        *float64   `json:"markup,omitempty"`
	UnitPrice     *float64   `json:"unit_price,omitempty"`
	ExtendedCost  *float64   `json:"extended_cost,omitempty"`
	ExtendedPrice *float64   `json:"extended_price,omitempty"`
	Taxable       bool       `json:"taxable"`
	Status        Status     `json:"status"`
	Notes         string     `json:"notes,omitempty"`
	SortOrder     int        `json:"sort_order"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}
