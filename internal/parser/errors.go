package parser

import (
	"fmt"

	"dwdweather/internal/climate"
)

// SchemaError marks a structurally invalid measurement file: its column
// layout does not match the published schema for the category. It aborts
// that file only.
type SchemaError struct {
	Resolution climate.Resolution
	Category   climate.Category
	Detail     string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("schema mismatch for %s/%s: %s", e.Resolution, e.Category, e.Detail)
}

// ParseError marks an unusable station description file.
type ParseError struct {
	Detail string
}

func (e *ParseError) Error() string {
	return "station file: " + e.Detail
}

// RowError records one malformed measurement row. Rows with errors are
// skipped, not fatal.
type RowError struct {
	Line   int
	Reason string
}

func (e *RowError) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Reason)
}
