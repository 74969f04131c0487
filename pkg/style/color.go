package style

import (
	"github.com/fatih/color"

	"github.com/c9s/zigzag/pkg/types"
)

var (
	upColor      = color.New(color.FgGreen, color.Bold)
	downColor    = color.New(color.FgRed, color.Bold)
	neutralColor = color.New(color.FgHiBlack)
)

// DirectionString paints s green for up, red for down and grey otherwise.
// Colors are dropped when color.NoColor is set, e.g. output is not a terminal.
func DirectionString(direction types.Direction, s string) string {
	switch direction {
	case types.DirectionUp:
		return upColor.Sprint(s)
	case types.DirectionDown:
		return downColor.Sprint(s)
	default:
		return neutralColor.Sprint(s)
	}
}
