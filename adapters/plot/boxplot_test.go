package plot

import (
	"bytes"
	"context"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	dchart "liquefy/domain/chart"
	"liquefy/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func samplePlot() dchart.BoxPlot {
	return dchart.BoxPlot{
		Title:  "CSR=0.1, DA=0.01",
		XLabel: "e",
		YLabel: "plastDissip",
		YMin:   0,
		YMax:   0.05,
		Boxes: []dchart.Box{
			{Label: "0.7", N: 5, Q1: 0.01, Median: 0.015, Q3: 0.02, LowerWhisker: 0.005, UpperWhisker: 0.03, Outliers: []float64{0.045}},
			{Label: "0.8", N: 1, Q1: 0.02, Median: 0.02, Q3: 0.02, LowerWhisker: 0.02, UpperWhisker: 0.02},
		},
	}
}

func TestRenderBoxPlot_PNG(t *testing.T) {
	r, err := NewBoxPlotRenderer(Config{Width: 640, Height: 480})
	require.NoError(t, err)
	assert.Equal(t, ".png", r.Extension())

	var buf bytes.Buffer
	require.NoError(t, r.RenderBoxPlot(context.Background(), samplePlot(), &buf))

	img, err := png.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, 640, img.Bounds().Dx())
	assert.Equal(t, 480, img.Bounds().Dy())
}

func TestRenderBoxPlot_NoBoxes(t *testing.T) {
	r, err := NewBoxPlotRenderer(Config{Width: 640, Height: 480})
	require.NoError(t, err)

	err = r.RenderBoxPlot(context.Background(), dchart.BoxPlot{YMax: 1}, &bytes.Buffer{})
	assert.Equal(t, errors.CodeInvalidInput, errors.GetCode(err))
}

func TestRenderBoxPlot_Cancelled(t *testing.T) {
	r, err := NewBoxPlotRenderer(Config{Width: 640, Height: 480})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, r.RenderBoxPlot(ctx, samplePlot(), &bytes.Buffer{}), context.Canceled)
}

func TestNewBoxPlotRenderer_Font(t *testing.T) {
	_, err := NewBoxPlotRenderer(Config{FontPath: filepath.Join(t.TempDir(), "missing.ttf")})
	assert.Equal(t, errors.CodeIOError, errors.GetCode(err))

	bad := filepath.Join(t.TempDir(), "bad.ttf")
	require.NoError(t, os.WriteFile(bad, []byte("not a font"), 0644))
	_, err = NewBoxPlotRenderer(Config{FontPath: bad})
	assert.Equal(t, errors.CodeConfigInvalid, errors.GetCode(err))
}
