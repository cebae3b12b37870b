package runparams

import (
	"testing"

	"liquefy/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParser_Parse(t *testing.T) {
	p := DefaultParser()

	tests := []struct {
		name      string
		path      string
		csr       float64
		voidRatio float64
	}{
		{"reference name", "Test01_CSR0.40_e0.750_(1).xlsx", 0.40, 0.750},
		{"directory is ignored", "/data/run_e9.9/Test02_CSR0.25_e0.800.xlsx", 0.25, 0.800},
		{"parameters in any order", "x_e0.700_CSR0.100_y.xlsx", 0.100, 0.700},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			params, err := p.Parse(tc.path)
			require.NoError(t, err)
			assert.Equal(t, tc.csr, params.CSR)
			assert.Equal(t, tc.voidRatio, params.VoidRatio)
		})
	}
}

func TestParser_ParseErrors(t *testing.T) {
	p := DefaultParser()

	for _, name := range []string{
		"Test01_e0.750.xlsx",
		"Test01_CSR0.40.xlsx",
		"Test01_CSR40_e0.750.xlsx",
		"plain.xlsx",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := p.Parse(name)
			require.Error(t, err)
			assert.True(t, errors.HasCode(err, errors.CodeParseError), "got %v", err)
			assert.Contains(t, err.Error(), name)
		})
	}
}

func TestNewParser_RejectsPatternsWithoutGroup(t *testing.T) {
	_, err := NewParser(`_CSR\d+\.\d+`, DefaultVoidRatioPattern)
	require.Error(t, err)
	assert.Equal(t, errors.CodeConfigInvalid, errors.GetCode(err))

	_, err = NewParser(`_CSR(`, DefaultVoidRatioPattern)
	require.Error(t, err)
}

func TestNewParser_CustomPattern(t *testing.T) {
	p, err := NewParser(`csr=(\d+\.\d+)`, `void=(\d+\.\d+)`)
	require.NoError(t, err)

	params, err := p.Parse("run csr=0.3 void=0.72.xlsx")
	require.NoError(t, err)
	assert.Equal(t, 0.3, params.CSR)
	assert.Equal(t, 0.72, params.VoidRatio)
}
