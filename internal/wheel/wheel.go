// Package wheel holds the outcome table and the weighted draw used to
// resolve a round.
package wheel

import (
	"math/rand"
	"sync"
	"time"
)

// Outcome is one slice of the wheel: a multiplier label and its
// probability of being drawn.
type Outcome struct {
	Label  string
	Weight float64
}

// Outcomes is the fixed table. Weights sum to 1.0.
var Outcomes = []Outcome{
	{Label: "x2", Weight: 0.50},
	{Label: "x3", Weight: 0.30},
	{Label: "x5", Weight: 0.15},
	{Label: "x50", Weight: 0.05},
}

// Wheel draws independent weighted samples. Draws carry no history:
// every spin uses the same table.
type Wheel struct {
	mu  sync.Mutex
	rng *rand.Rand
}

func New() *Wheel {
	return NewWithSource(rand.NewSource(time.Now().UnixNano()))
}

func NewWithSource(src rand.Source) *Wheel {
	return &Wheel{rng: rand.New(src)}
}

// Draw returns one label sampled according to the outcome weights.
func (w *Wheel) Draw() string {
	w.mu.Lock()
	f := w.rng.Float64()
	w.mu.Unlock()

	acc := 0.0
	for _, o := range Outcomes {
		acc += o.Weight
		if f < acc {
			return o.Label
		}
	}
	// float rounding can leave f at or above the accumulated sum
	return Outcomes[len(Outcomes)-1].Label
}

// IsLabel reports whether s is a known multiplier label.
func IsLabel(s string) bool {
	for _, o := range Outcomes {
		if o.Label == s {
			return true
		}
	}
	return false
}

// Labels returns the label set in table order.
func Labels() []string {
	out := make([]string, len(Outcomes))
	for i, o := range Outcomes {
		out[i] = o.Label
	}
	return out
}
