package floats

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func lessThan(a, pivot float64) bool { return a < pivot }
func notAbove(a, pivot float64) bool { return a <= pivot }

func TestFindPivot(t *testing.T) {

	t.Run("middle", func(t *testing.T) {
		pv, ok := FindPivot(Slice{10, 20, 30, 40, 30, 20}, 2, 2, lessThan, lessThan)
		if assert.True(t, ok) {
			assert.Equal(t, 40., pv)
		}
	})

	t.Run("equal newer value is tolerated", func(t *testing.T) {
		pv, ok := FindPivot(Slice{10, 20, 40, 40, 30}, 2, 2, lessThan, notAbove)
		if assert.True(t, ok) {
			assert.Equal(t, 40., pv)
		}
	})

	t.Run("equal older value disqualifies", func(t *testing.T) {
		_, ok := FindPivot(Slice{10, 40, 40, 30, 20}, 2, 2, lessThan, notAbove)
		assert.False(t, ok)
	})

	t.Run("insufficient", func(t *testing.T) {
		_, ok := FindPivot(Slice{10, 40, 30}, 2, 2, lessThan, notAbove)
		assert.False(t, ok)
	})

	t.Run("zero window", func(t *testing.T) {
		_, ok := FindPivot(Slice{10, 40, 30}, 0, 0, lessThan, notAbove)
		assert.False(t, ok)
	})
}
