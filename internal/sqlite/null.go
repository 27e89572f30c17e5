package sqlite

import (
	"database/sql"
	"time"
)

func floatPtr(src sql.NullFloat64) *float64 {
	if !src.Valid {
		return nil
	}
	val := src.Float64
	return &val
}

func timePtr(src sql.NullTime) *time.Time {
	if !src.Valid {
		return nil
	}
	val := src.Time
	return &val
}
