package rank

import (
	"fmt"
	"math"
)

// Weights defines the blend used specifically for sorting, distinct from the
// composite score. All weights must sum to 1.0.
type Weights struct {
	Composite float64 `yaml:"composite"`
	Quality   float64 `yaml:"quality"`
	Value     float64 `yaml:"value"`
	Growth    float64 `yaml:"growth"`
	Momentum  float64 `yaml:"momentum"`
}

// DefaultWeights returns the standard blend: overall quality leads, business
// fundamentals and growth next, valuation and recent performance last.
func DefaultWeights() Weights {
	return Weights{
		Composite: 0.30,
		Quality:   0.20,
		Value:     0.15,
		Growth:    0.20,
		Momentum:  0.15,
	}
}

// Sum returns the total of all weights.
func (w Weights) Sum() float64 {
	return w.Composite + w.Quality + w.Value + w.Growth + w.Momentum
}

// Validate checks that weights are non-negative and sum to 1.0 within
// tolerance. Malformed weights abort the whole ranking call.
func (w Weights) Validate() error {
	for name, v := range map[string]float64{
		"composite": w.Composite,
		"quality":   w.Quality,
		"value":     w.Value,
		"growth":    w.Growth,
		"momentum":  w.Momentum,
	} {
		if v < 0 {
			return fmt.Errorf("negative rank weight for %s: %f", name, v)
		}
	}
	if sum := w.Sum(); math.Abs(sum-1.0) > 0.001 {
		return fmt.Errorf("rank weights sum to %.4f, expected 1.0", sum)
	}
	return nil
}
