package ports

import (
	"context"
	"io"

	"liquefy/domain/chart"
)

// BoxPlotRenderer draws a box-and-whisker chart as an image
type BoxPlotRenderer interface {
	RenderBoxPlot(ctx context.Context, plot chart.BoxPlot, w io.Writer) error
	// Extension is the file extension of the produced image, including the dot
	Extension() string
}
