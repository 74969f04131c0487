package zigzag

import (
	"fmt"
	"math"
	"strings"

	"github.com/c9s/zigzag/pkg/types"
)

// Mode selects how the zigzag levels are mapped into the trend
type Mode string

const (
	ModeStrictUptrendAndDowntrend        Mode = "strict uptrend and downtrend"
	ModeStrictUptrend                    Mode = "strict uptrend"
	ModeNotDowntrend                     Mode = "not downtrend"
	ModeStrictPriceWithTroughs           Mode = "strict price with previous trough and trough"
	ModeAbovePreviousSwingLowAndSwingLow Mode = "above previous swing low and swing low"
	ModeAbovePreviousSwingLow            Mode = "above previous swing low"
	ModeAboveSwingLow                    Mode = "above swing low"
)

var SupportedModes = []Mode{
	ModeStrictUptrendAndDowntrend,
	ModeStrictUptrend,
	ModeNotDowntrend,
	ModeStrictPriceWithTroughs,
	ModeAbovePreviousSwingLowAndSwingLow,
	ModeAbovePreviousSwingLow,
	ModeAboveSwingLow,
}

var modeAliases = map[string]Mode{
	"strict price vs previous trough/trough": ModeStrictPriceWithTroughs,
}

// Normalize resolves aliases and letter case
func (m Mode) Normalize() Mode {
	s := strings.ToLower(strings.TrimSpace(string(m)))
	if alias, ok := modeAliases[s]; ok {
		return alias
	}
	return Mode(s)
}

func (m Mode) Validate() error {
	n := m.Normalize()
	for _, mode := range SupportedModes {
		if n == mode {
			return nil
		}
	}

	return fmt.Errorf("unsupported trend mode %q", string(m))
}

func (m Mode) String() string {
	return string(m)
}

// Levels are the projected zigzag values of one bar
type Levels struct {
	PreviousPeak   float64 `json:"previousPeak"`
	Peak           float64 `json:"peak"`
	PreviousTrough float64 `json:"previousTrough"`
	Trough         float64 `json:"trough"`
}

// Valid reports whether all four levels are known
func (l Levels) Valid() bool {
	return !math.IsNaN(l.PreviousPeak) && !math.IsNaN(l.Peak) &&
		!math.IsNaN(l.PreviousTrough) && !math.IsNaN(l.Trough)
}

type Trend struct {
	Uptrend   bool `json:"uptrend"`
	Downtrend bool `json:"downtrend"`
}

func (t Trend) String() string {
	switch {
	case t.Uptrend:
		return "uptrend"
	case t.Downtrend:
		return "downtrend"
	}
	return "neutral"
}

func (t Trend) Direction() types.Direction {
	switch {
	case t.Uptrend:
		return types.DirectionUp
	case t.Downtrend:
		return types.DirectionDown
	}
	return types.DirectionNone
}

// Classify maps the close price and the levels into the trend.
// It returns false when any level is NaN, the caller must not act on the result then.
func (m Mode) Classify(closePrice float64, l Levels) (trend Trend, ok bool) {
	if !l.Valid() {
		return trend, false
	}

	higherHighs := l.PreviousPeak < l.Peak && l.PreviousTrough < l.Trough
	lowerLows := l.PreviousPeak > l.Peak && l.PreviousTrough > l.Trough

	switch m.Normalize() {
	case ModeStrictUptrendAndDowntrend:
		trend.Uptrend = higherHighs
		trend.Downtrend = lowerLows

	case ModeStrictUptrend:
		trend.Uptrend = higherHighs
		trend.Downtrend = !trend.Uptrend

	case ModeNotDowntrend:
		trend.Downtrend = lowerLows
		trend.Uptrend = !trend.Downtrend

	case ModeStrictPriceWithTroughs:
		trend.Uptrend = closePrice > l.PreviousTrough && closePrice > l.Trough
		trend.Downtrend = closePrice < l.PreviousTrough && closePrice < l.Trough

	case ModeAbovePreviousSwingLowAndSwingLow:
		trend.Uptrend = closePrice > l.PreviousTrough && closePrice > l.Trough
		trend.Downtrend = !trend.Uptrend

	case ModeAbovePreviousSwingLow:
		trend.Uptrend = closePrice > l.PreviousTrough
		trend.Downtrend = closePrice < l.PreviousTrough

	case ModeAboveSwingLow:
		trend.Uptrend = closePrice > l.Trough
		trend.Downtrend = closePrice < l.Trough

	default:
		return Trend{}, false
	}

	return trend, true
}
