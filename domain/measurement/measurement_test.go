package measurement

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSeries_Columns(t *testing.T) {
	s := NewSeries("a.xlsx", []string{"DA", "ru", "DA"}, [][]float64{{0, 0, 0}, {1, 1, 1}})

	assert.Equal(t, 2, s.Len())
	i, ok := s.ColumnIndex("DA")
	assert.True(t, ok)
	assert.Equal(t, 0, i, "first of duplicated headers wins")
	_, ok = s.ColumnIndex("E")
	assert.False(t, ok)
	assert.Equal(t, []string{"E", "s12"}, s.Missing([]string{"E", "ru", "s12"}))
	assert.Nil(t, s.Missing([]string{"DA"}))
}

func TestTarget_String(t *testing.T) {
	assert.Equal(t, "DA=0.075", DA(0.075).String())
	assert.Equal(t, "ru=0.95", Ru(0.95).String())
	assert.Equal(t, "unknown", TargetKind(9).String())
}
