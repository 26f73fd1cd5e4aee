package explorer

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate(t *testing.T) {
	a := Generate(DefaultSeed, DefaultRows)
	b := Generate(DefaultSeed, DefaultRows)
	require.Equal(t, DefaultRows, a.Len())
	assert.Equal(t, a.Head(DefaultRows), b.Head(DefaultRows), "same seed must give same data")

	for i := 0; i < a.Len(); i++ {
		v1, ok := a.Number(i, ColValue1)
		require.True(t, ok)
		assert.True(t, v1 >= 10 && v1 < 100, "Value1 out of range: %v", v1)
		v2, ok := a.Number(i, ColValue2)
		require.True(t, ok)
		assert.True(t, v2 >= 50 && v2 < 200, "Value2 out of range: %v", v2)
		assert.Contains(t, []string{"A", "B", "C"}, a.Key(i, ColCategory))
	}
}

func TestCategories(t *testing.T) {
	e := New(DefaultSeed, DefaultRows)
	assert.Equal(t, []string{"All", "A", "B", "C"}, e.Categories())
}

func TestRun(t *testing.T) {
	e := New(DefaultSeed, DefaultRows)

	all, err := e.Run("All", SliderMin)
	require.NoError(t, err)
	assert.Equal(t, DefaultRows, all.Count)
	assert.Len(t, all.Rows, DisplayRows)

	res, err := e.Run("B", 50)
	require.NoError(t, err)
	assert.LessOrEqual(t, len(res.Rows), DisplayRows)
	assert.Equal(t, "Scatter Plot (Category=B, Min Value1=50)", res.Title)

	points := 0
	for _, s := range res.Series {
		assert.Equal(t, "B", s.Name)
		for _, p := range s.Points {
			assert.GreaterOrEqual(t, p.X, 50.0)
		}
		points += len(s.Points)
	}
	assert.Equal(t, res.Count, points)
	for _, row := range res.Rows {
		assert.Equal(t, "B", row[0])
	}
}

func TestRunUnknownCategory(t *testing.T) {
	e := New(DefaultSeed, DefaultRows)
	_, err := e.Run("Z", SliderDefault)
	assert.True(t, errors.Is(err, ErrUnknownCategory))
}

func TestRunEmptySelectionPlot(t *testing.T) {
	e := New(DefaultSeed, DefaultRows)
	res, err := e.Run("", SliderMax)
	require.NoError(t, err)
	assert.Equal(t, 0, res.Count)
	_, err = res.Plot()
	assert.Error(t, err)
}
