package chart

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MikeSquared-Agency/Apportion/internal/ahp"
	"github.com/MikeSquared-Agency/Apportion/internal/budget"
	"github.com/MikeSquared-Agency/Apportion/internal/palette"
)

func weightedState(t *testing.T) budget.State {
	t.Helper()
	s, err := budget.Reduce(budget.DefaultState(), budget.CalculateWeights{Matrix: ahp.DefaultMatrix(), Rescale: true})
	require.NoError(t, err)
	return s
}

func TestSlices(t *testing.T) {
	slices := Slices(weightedState(t), palette.New(palette.ModeStable))
	require.Len(t, slices, 7)

	var pct float64
	for i, s := range slices {
		assert.Equal(t, budget.DefaultNames[i], s.Title)
		assert.Equal(t, i+1, s.Rank)
		assert.True(t, palette.IsValidHex(s.Color))
		pct += s.Percent
	}
	assert.InDelta(t, 100.0, pct, 1e-9)
	assert.InDelta(t, 0.11614971682497992, slices[0].Value, 1e-15)
}

func TestSlicesUnweighted(t *testing.T) {
	slices := Slices(budget.DefaultState(), palette.New(palette.ModeRandom))
	require.Len(t, slices, 7)
	for _, s := range slices {
		assert.Zero(t, s.Value)
		assert.Zero(t, s.Percent)
	}
}

func TestSlicesStableColorsRepeat(t *testing.T) {
	s := weightedState(t)
	p := palette.New(palette.ModeStable)
	assert.Equal(t, Slices(s, p), Slices(s, p))
}

func TestRenderSVG(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderSVG(&buf, Slices(weightedState(t), palette.New(palette.ModeStable)), 200))

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, `<svg xmlns="http://www.w3.org/2000/svg" width="200"`))
	assert.True(t, strings.HasSuffix(out, "</svg>"))
	assert.Equal(t, 7, strings.Count(out, "<path"))
	assert.Contains(t, out, "<title>Housing</title>")
}

func TestRenderSVGSingleSlice(t *testing.T) {
	var buf bytes.Buffer
	err := RenderSVG(&buf, []Slice{{Title: "All", Value: 1, Color: "#112233"}}, 100)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), `<circle cx="50.000" cy="50.000" r="50.000" fill="#112233">`)
}

func TestRenderSVGEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderSVG(&buf, []Slice{{Title: "A"}, {Title: "B"}}, 100))
	assert.NotContains(t, buf.String(), "<path")
	assert.NotContains(t, buf.String(), "<circle")
}

func TestRenderSVGEscapesTitles(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderSVG(&buf, []Slice{
		{Title: "<b>", Value: 1, Color: "#000000"},
		{Title: "x", Value: 1, Color: `"><script>`},
	}, 100))
	assert.Contains(t, buf.String(), "&lt;b&gt;")
	assert.NotContains(t, buf.String(), "<script>")
	assert.Contains(t, buf.String(), `fill="#999999"`)
}
