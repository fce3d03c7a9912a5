package features

import (
	"math"

	"github.com/rs/zerolog/log"

	"github.com/shaheemalisk-gif/hni-investment-intelligence/internal/telemetry"
)

// Direction states whether larger raw values should map to larger scores.
type Direction bool

const (
	HigherIsBetter Direction = true
	LowerIsBetter  Direction = false
)

// MetricSpec describes how one raw metric column is normalized before
// blending: its polarity and an optional upper cap applied before scaling.
type MetricSpec struct {
	Column    string
	Direction Direction
	Cap       float64 // upper clip; NaN means no cap
}

// Normalizer maps a raw numeric column to a 0-100 scale.
type Normalizer struct{}

func NewNormalizer() *Normalizer {
	return &Normalizer{}
}

// Scale rescales values to [0,100] by min-max over the non-missing entries.
// Values above cap are clipped first; pass NaN to disable the cap. When the
// column is degenerate (no non-missing values, or min == max) every row gets
// the neutral midpoint 50: there is nothing to discriminate and a fabricated
// spread would be worse than none. Missing inputs stay missing; per-metric
// fill policy belongs to the caller.
func (n *Normalizer) Scale(metric string, values []float64, dir Direction, cap float64) []float64 {
	out := make([]float64, len(values))

	clipped := make([]float64, len(values))
	for i, v := range values {
		if !math.IsNaN(cap) && !math.IsNaN(v) && v > cap {
			v = cap
		}
		clipped[i] = v
	}

	min, max := math.NaN(), math.NaN()
	for _, v := range clipped {
		if math.IsNaN(v) {
			continue
		}
		if math.IsNaN(min) || v < min {
			min = v
		}
		if math.IsNaN(max) || v > max {
			max = v
		}
	}

	if math.IsNaN(min) || min == max {
		if len(values) > 0 {
			telemetry.DegenerateDistributions.WithLabelValues(metric).Inc()
			log.Debug().Str("metric", metric).Int("rows", len(values)).
				Msg("degenerate distribution, assigning neutral midpoint")
		}
		for i := range out {
			out[i] = 50
		}
		return out
	}

	span := max - min
	for i, v := range clipped {
		if math.IsNaN(v) {
			out[i] = v
			continue
		}
		scaled := (v - min) / span * 100
		if dir == LowerIsBetter {
			scaled = 100 - scaled
		}
		out[i] = scaled
	}
	return out
}

// ScaleSpec applies Scale using a MetricSpec's column, polarity, and cap.
func (n *Normalizer) ScaleSpec(spec MetricSpec, values []float64) []float64 {
	return n.Scale(spec.Column, values, spec.Direction, spec.Cap)
}

// noCap disables the upper clip in a MetricSpec.
func noCap() float64 {
	return math.NaN()
}
