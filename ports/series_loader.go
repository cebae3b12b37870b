package ports

import (
	"context"

	"liquefy/domain/measurement"
)

// SeriesLoader reads one run spreadsheet into a Series
type SeriesLoader interface {
	// Load reads path and returns the required columns in their original row order.
	// A file missing any required column fails with a SCHEMA_ERROR.
	Load(ctx context.Context, path string, required []string) (*measurement.Series, error)
}
