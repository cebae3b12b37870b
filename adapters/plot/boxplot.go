package plot

import (
	"context"
	"io"
	"os"
	"strconv"

	dchart "liquefy/domain/chart"
	"liquefy/internal/errors"

	"github.com/golang/freetype/truetype"
	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

const (
	boxHalfWidth = 0.25
	capHalfWidth = 0.12
)

// Config holds image settings
type Config struct {
	Width  int
	Height int
	// FontPath is an optional TrueType font, needed for labels outside Latin-1
	FontPath string
}

// BoxPlotRenderer draws box plots as PNG images with go-chart
type BoxPlotRenderer struct {
	width  int
	height int
	font   *truetype.Font
}

// NewBoxPlotRenderer creates a renderer, loading the configured font if any
func NewBoxPlotRenderer(cfg Config) (*BoxPlotRenderer, error) {
	r := &BoxPlotRenderer{width: cfg.Width, height: cfg.Height}
	if cfg.FontPath == "" {
		return r, nil
	}

	data, err := os.ReadFile(cfg.FontPath)
	if err != nil {
		return nil, errors.IOError(cfg.FontPath, err)
	}
	font, err := truetype.Parse(data)
	if err != nil {
		return nil, errors.WithCode(errors.CodeConfigInvalid, errors.Wrapf(err, "font %s", cfg.FontPath))
	}
	r.font = font
	return r, nil
}

// Extension implements ports.BoxPlotRenderer
func (r *BoxPlotRenderer) Extension() string {
	return ".png"
}

// RenderBoxPlot implements ports.BoxPlotRenderer. Boxes sit at x = 1..n with
// their labels as ticks.
func (r *BoxPlotRenderer) RenderBoxPlot(ctx context.Context, plot dchart.BoxPlot, w io.Writer) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if len(plot.Boxes) == 0 {
		return errors.InvalidInput("box plot has no boxes")
	}

	n := len(plot.Boxes)
	ticks := make([]chart.Tick, 0, n)
	var series []chart.Series
	for i, box := range plot.Boxes {
		x := float64(i + 1)
		ticks = append(ticks, chart.Tick{Value: x, Label: box.Label})
		series = append(series, boxSeries(x, box)...)
	}

	ch := chart.Chart{
		Title:      plot.Title,
		Width:      r.width,
		Height:     r.height,
		Font:       r.font,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16}},
		XAxis: chart.XAxis{
			Name:  plot.XLabel,
			Range: &chart.ContinuousRange{Min: 0.5, Max: float64(n) + 0.5},
			Ticks: ticks,
		},
		YAxis: chart.YAxis{
			Name:           plot.YLabel,
			Range:          &chart.ContinuousRange{Min: plot.YMin, Max: plot.YMax},
			ValueFormatter: formatTick,
		},
		Series: series,
	}

	if err := ch.Render(chart.PNG, w); err != nil {
		return errors.Wrapf(err, "render %q", plot.Title)
	}
	return nil
}

// boxSeries draws one box as polylines: the Q1..Q3 rectangle, the median,
// both whiskers with caps, and the outliers as dots.
func boxSeries(x float64, box dchart.Box) []chart.Series {
	left, right := x-boxHalfWidth, x+boxHalfWidth
	series := []chart.Series{
		line(chart.ColorBlue, 1.5,
			[]float64{left, right, right, left, left},
			[]float64{box.Q1, box.Q1, box.Q3, box.Q3, box.Q1}),
		line(chart.ColorRed, 2,
			[]float64{left, right},
			[]float64{box.Median, box.Median}),
		line(chart.ColorBlack, 1,
			[]float64{x, x},
			[]float64{box.Q3, box.UpperWhisker}),
		line(chart.ColorBlack, 1,
			[]float64{x, x},
			[]float64{box.Q1, box.LowerWhisker}),
		line(chart.ColorBlack, 1,
			[]float64{x - capHalfWidth, x + capHalfWidth},
			[]float64{box.UpperWhisker, box.UpperWhisker}),
		line(chart.ColorBlack, 1,
			[]float64{x - capHalfWidth, x + capHalfWidth},
			[]float64{box.LowerWhisker, box.LowerWhisker}),
	}

	if len(box.Outliers) > 0 {
		xs := make([]float64, len(box.Outliers))
		for i := range xs {
			xs[i] = x
		}
		series = append(series, chart.ContinuousSeries{
			Name:    box.Label + " outliers",
			XValues: xs,
			YValues: append([]float64(nil), box.Outliers...),
			Style:   pointStyle(chart.ColorBlack),
		})
	}
	return series
}

func line(color drawing.Color, width float64, xs, ys []float64) chart.ContinuousSeries {
	return chart.ContinuousSeries{
		XValues: xs,
		YValues: ys,
		Style: chart.Style{
			StrokeWidth: width,
			StrokeColor: color,
		},
	}
}

// pointStyle renders points only, without connecting lines
func pointStyle(color drawing.Color) chart.Style {
	return chart.Style{
		StrokeWidth: 0,
		DotWidth:    3,
		DotColor:    color,
	}
}

func formatTick(v interface{}) string {
	if f, ok := v.(float64); ok {
		return strconv.FormatFloat(f, 'g', 4, 64)
	}
	return ""
}
