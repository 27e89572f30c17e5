package item

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// markupLimit is the largest storable markup fraction: four decimal digits,
// just under 1000%.
const markupLimit = 9.9999

// Recompute derives the dependent fields of an item after a single field
// change and returns the updated item. The switch on the changed field is
// deliberate: markup and unit price each derive the other, and deriving from
// an explicit edit origin is what keeps the two paths from feeding back into
// each other.
//
// Extended cost and extended price are null unless both of their inputs are
// present.
func Recompute(it Item, changed Field) Item {
	switch changed {
	case FieldQuantity:
		it.ExtendedCost = scale(it.Quantity, it.UnitCost)
		it.ExtendedPrice = scale(it.Quantity, it.UnitPrice)
	case FieldUnitCost:
		it.ExtendedCost = scale(it.Quantity, it.UnitCost)
	case FieldMarkup:
		if it.Markup != nil && it.UnitCost != nil {
			price := *it.UnitCost * (1 + *it.Markup)
			it.UnitPrice = &price
		}
		it.ExtendedPrice = scale(it.Quantity, it.UnitPrice)
	case FieldUnitPrice:
		if it.UnitPrice != nil && it.UnitCost != nil && *it.UnitCost > 0 {
			markup := round4((*it.UnitPrice - *it.UnitCost) / *it.UnitCost)
			it.Markup = &markup
		}
		it.ExtendedPrice = scale(it.Quantity, it.UnitPrice)
	}
	return it
}

// ParseAmount parses a user-entered quantity, cost, or price string. A blank
// string clears the field to null.
func ParseAmount(raw string) (*float64, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return nil, nil
	}
	val, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(val) || math.IsInf(val, 0) || val < 0 {
		return nil, fmt.Errorf("%w: %q", ErrInvalidNumber, raw)
	}
	return &val, nil
}

// ParseMarkupPercent parses a user-entered markup percentage ("35" or "35%")
// into a decimal fraction rounded to four decimal places. A blank string
// clears the markup.
func ParseMarkupPercent(raw string) (*float64, error) {
	s := strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(raw), "%"))
	if s == "" {
		return nil, nil
	}
	pct, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(pct) || math.IsInf(pct, 0) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidNumber, raw)
	}
	frac := round4(pct / 100)
	if math.Abs(frac) > markupLimit {
		return nil, fmt.Errorf("%w: %s%%", ErrMarkupOutOfRange, s)
	}
	return &frac, nil
}

func scale(qty, unit *float64) *float64 {
	if qty == nil || unit == nil {
		return nil
	}
	val := *qty * *unit
	return &val
}

func round4(val float64) float64 {
	return math.Round(val*10000) / 10000
}
