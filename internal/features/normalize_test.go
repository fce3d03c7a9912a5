package features

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScale_MapsToFullRange(t *testing.T) {
	n := NewNormalizer()

	out := n.Scale("roe", []float64{0.10, 0.20, 0.30}, HigherIsBetter, noCap())

	require.Len(t, out, 3)
	assert.InDelta(t, 0, out[0], 1e-9)
	assert.InDelta(t, 50, out[1], 1e-9)
	assert.InDelta(t, 100, out[2], 1e-9)
}

func TestScale_LowerIsBetterInverts(t *testing.T) {
	n := NewNormalizer()

	out := n.Scale("pe_ratio", []float64{10, 40}, LowerIsBetter, noCap())

	assert.InDelta(t, 100, out[0], 1e-9, "cheapest stock scores highest")
	assert.InDelta(t, 0, out[1], 1e-9)
}

func TestScale_CapClipsBeforeScaling(t *testing.T) {
	n := NewNormalizer()

	// 80 and 200 both clip to 50 and share the worst score.
	out := n.Scale("pe_ratio", []float64{10, 80, 200}, LowerIsBetter, 50)

	assert.InDelta(t, 100, out[0], 1e-9)
	assert.InDelta(t, 0, out[1], 1e-9)
	assert.InDelta(t, 0, out[2], 1e-9)
}

func TestScale_DegenerateDistributionGetsMidpoint(t *testing.T) {
	n := NewNormalizer()

	for name, values := range map[string][]float64{
		"identical":   {7, 7, 7},
		"single":      {42},
		"all_missing": {math.NaN(), math.NaN()},
	} {
		out := n.Scale(name, values, HigherIsBetter, noCap())
		for i, v := range out {
			assert.Equalf(t, 50.0, v, "%s[%d]", name, i)
		}
	}
}

func TestScale_MissingValuesStayMissing(t *testing.T) {
	n := NewNormalizer()

	out := n.Scale("roe", []float64{0.1, math.NaN(), 0.3}, HigherIsBetter, noCap())

	assert.False(t, math.IsNaN(out[0]))
	assert.True(t, math.IsNaN(out[1]), "missing input must not be invented")
	assert.False(t, math.IsNaN(out[2]))
}

func TestScale_EmptyInput(t *testing.T) {
	n := NewNormalizer()
	assert.Empty(t, n.Scale("roe", nil, HigherIsBetter, noCap()))
}
