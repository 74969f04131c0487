package floats

import (
	"math"
)

type Slice []float64

func New(a ...float64) Slice {
	return Slice(a)
}

// NaNs returns a slice of n NaN values
func NaNs(n int) Slice {
	s := make(Slice, n)
	for i := range s {
		s[i] = math.NaN()
	}
	return s
}

func (s *Slice) Push(v float64) {
	*s = append(*s, v)
}

// Update is an alias of Push
func (s *Slice) Update(v float64) {
	*s = append(*s, v)
}

func (s Slice) Max() float64 {
	m := -math.MaxFloat64
	for _, v := range s {
		m = math.Max(m, v)
	}
	return m
}

func (s Slice) Min() float64 {
	m := math.MaxFloat64
	for _, v := range s {
		m = math.Min(m, v)
	}
	return m
}

func (s Slice) Tail(size int) Slice {
	length := len(s)
	if length <= size {
		win := make(Slice, length)
		copy(win, s)
		return win
	}

	win := make(Slice, size)
	copy(win, s[length-size:])
	return win
}

// Truncate keeps the last `size` elements, the backing array is shared
func (s Slice) Truncate(size int) Slice {
	if size < 0 || len(s) <= size {
		return s
	}

	return s[len(s)-size:]
}

// Last returns the i-th element counted from the end, 0 is the most recent one.
// It returns 0.0 when i is out of range.
func (s Slice) Last(i int) float64 {
	length := len(s)
	if i < 0 || length-1-i < 0 {
		return 0.0
	}
	return s[length-1-i]
}

// Index is the alias of Last
func (s Slice) Index(i int) float64 {
	return s.Last(i)
}

// At returns the element at the absolute position i, NaN when i is out of range
func (s Slice) At(i int) float64 {
	if i < 0 || i >= len(s) {
		return math.NaN()
	}
	return s[i]
}

// Set assigns v at the absolute position i, out of range positions are ignored
func (s Slice) Set(i int, v float64) bool {
	if i < 0 || i >= len(s) {
		return false
	}
	s[i] = v
	return true
}

func (s Slice) Length() int {
	return len(s)
}

// Count returns the number of non-NaN elements
func (s Slice) Count() (n int) {
	for _, v := range s {
		if !math.IsNaN(v) {
			n++
		}
	}
	return n
}

func (s Slice) Addr() *Slice {
	return &s
}
