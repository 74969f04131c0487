package floats

// FindPivot checks the value `right` elements back from the end against its neighbors.
// older is tested against the `left` elements before the pivot, newer against the `right`
// elements after it. Both receive (neighbor, pivot).
func FindPivot(values Slice, left, right int, older, newer func(a, pivot float64) bool) (float64, bool) {
	length := len(values)

	if right == 0 {
		right = left
	}

	if length == 0 || left <= 0 || length < left+right+1 {
		return 0.0, false
	}

	end := length - 1
	index := end - right
	val := values[index]

	for i := index - left; i < index; i++ {
		if !older(values[i], val) {
			return 0.0, false
		}
	}

	for i := index + 1; i <= end; i++ {
		if !newer(values[i], val) {
			return 0.0, false
		}
	}

	return val, true
}

func (s Slice) Pivot(left, right int, older, newer func(a, pivot float64) bool) (float64, bool) {
	return FindPivot(s, left, right, older, newer)
}
