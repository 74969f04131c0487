package indicatorv2

import (
	"math"
	"time"

	"github.com/c9s/zigzag/pkg/datatype/floats"
)

type PivotKind int

const (
	PivotHigh PivotKind = iota
	PivotLow
)

func (k PivotKind) String() string {
	switch k {
	case PivotHigh:
		return "high"
	case PivotLow:
		return "low"
	}
	return "unknown"
}

// exceeds reports whether a is strictly more extreme than b in the direction of the kind
func (k PivotKind) exceeds(a, b float64) bool {
	if k == PivotHigh {
		return a > b
	}
	return a < b
}

// Pivot is a swing high or swing low located at the absolute bar index
type Pivot struct {
	Index int       `json:"index"`
	Price float64   `json:"price"`
	Kind  PivotKind `json:"kind"`
	Time  time.Time `json:"time"`
}

// IsSentinel reports whether the slot has never received a real pivot
func (p Pivot) IsSentinel() bool {
	return math.IsNaN(p.Price)
}

// lastPivot is the most recent pivot the state machine accepted
type lastPivot struct {
	Index    int
	Price    float64
	Kind     PivotKind
	Replaced bool
}

// pivotHistory keeps the three most recent pivots of one kind, oldest first
type pivotHistory [3]Pivot

func newPivotHistory(kind PivotKind) pivotHistory {
	var h pivotHistory
	for i := range h {
		h[i] = Pivot{Index: 0, Price: math.NaN(), Kind: kind}
	}
	return h
}

// push evicts the oldest slot
func (h *pivotHistory) push(p Pivot) {
	h[0], h[1], h[2] = h[1], h[2], p
}

// replace overwrites the newest slot in place
func (h *pivotHistory) replace(p Pivot) {
	h[2] = p
}

func (h *pivotHistory) newest() Pivot {
	return h[2]
}

// project returns the previous and the current pivot price visible at barIndex
func (h *pivotHistory) project(barIndex int) (previous, current float64) {
	if h[2].Index <= barIndex {
		return h[1].Price, h[2].Price
	}

	return h[0].Price, h[1].Price
}

// scanPivot tests the value lag bars back as a local extremum of the 2*lag+1 window.
// Newer values may equal the candidate, older values must be strictly exceeded by it.
func scanPivot(values floats.Slice, lag int, kind PivotKind) (float64, bool) {
	return floats.FindPivot(values, lag, lag,
		func(a, pivot float64) bool {
			return kind.exceeds(pivot, a)
		},
		func(a, pivot float64) bool {
			return !kind.exceeds(a, pivot)
		})
}

// deviation returns the percentage move from base to price, 100 when base is zero
func deviation(base, price float64) float64 {
	if base == 0 {
		return 100
	}

	return 100 * (price - base) / base
}
