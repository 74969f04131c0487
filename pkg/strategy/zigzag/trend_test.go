package zigzag

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/c9s/zigzag/pkg/types"
)

func TestMode_Classify(t *testing.T) {
	rising := Levels{PreviousPeak: 90, Peak: 100, PreviousTrough: 80, Trough: 95}
	mixed := Levels{PreviousPeak: 90, Peak: 100, PreviousTrough: 80, Trough: 75}
	falling := Levels{PreviousPeak: 100, Peak: 90, PreviousTrough: 80, Trough: 70}

	tests := []struct {
		name   string
		mode   Mode
		close  float64
		levels Levels
		want   Trend
	}{
		{name: "strict rising", mode: ModeStrictUptrendAndDowntrend, close: 96, levels: rising, want: Trend{Uptrend: true}},
		{name: "strict mixed", mode: ModeStrictUptrendAndDowntrend, close: 96, levels: mixed, want: Trend{}},
		{name: "strict falling", mode: ModeStrictUptrendAndDowntrend, close: 96, levels: falling, want: Trend{Downtrend: true}},
		{name: "strict uptrend mixed", mode: ModeStrictUptrend, close: 96, levels: mixed, want: Trend{Downtrend: true}},
		{name: "strict uptrend rising", mode: ModeStrictUptrend, close: 96, levels: rising, want: Trend{Uptrend: true}},
		{name: "not downtrend mixed", mode: ModeNotDowntrend, close: 96, levels: mixed, want: Trend{Uptrend: true}},
		{name: "not downtrend falling", mode: ModeNotDowntrend, close: 96, levels: falling, want: Trend{Downtrend: true}},
		{name: "price above troughs", mode: ModeStrictPriceWithTroughs, close: 96, levels: rising, want: Trend{Uptrend: true}},
		{name: "price between troughs", mode: ModeStrictPriceWithTroughs, close: 85, levels: rising, want: Trend{}},
		{name: "price below troughs", mode: ModeStrictPriceWithTroughs, close: 70, levels: rising, want: Trend{Downtrend: true}},
		{name: "alias", mode: Mode("strict price vs previous trough/trough"), close: 70, levels: rising, want: Trend{Downtrend: true}},
		{name: "above both swing lows", mode: ModeAbovePreviousSwingLowAndSwingLow, close: 96, levels: rising, want: Trend{Uptrend: true}},
		{name: "between swing lows", mode: ModeAbovePreviousSwingLowAndSwingLow, close: 85, levels: rising, want: Trend{Downtrend: true}},
		{name: "above previous swing low", mode: ModeAbovePreviousSwingLow, close: 85, levels: rising, want: Trend{Uptrend: true}},
		{name: "below previous swing low", mode: ModeAbovePreviousSwingLow, close: 79, levels: rising, want: Trend{Downtrend: true}},
		{name: "above swing low", mode: ModeAboveSwingLow, close: 96, levels: rising, want: Trend{Uptrend: true}},
		{name: "below swing low", mode: ModeAboveSwingLow, close: 85, levels: rising, want: Trend{Downtrend: true}},
		{name: "at swing low", mode: ModeAboveSwingLow, close: 95, levels: rising, want: Trend{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.mode.Classify(tt.close, tt.levels)
			assert.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMode_ClassifyIndeterminate(t *testing.T) {
	levels := Levels{PreviousPeak: math.NaN(), Peak: 100, PreviousTrough: 80, Trough: 95}
	for _, mode := range SupportedModes {
		got, ok := mode.Classify(200, levels)
		assert.False(t, ok, mode)
		assert.Equal(t, Trend{}, got, mode)
	}

	_, ok := Mode("sideways").Classify(100, Levels{1, 2, 3, 4})
	assert.False(t, ok)
}

func TestMode_Validate(t *testing.T) {
	for _, mode := range SupportedModes {
		assert.NoError(t, mode.Validate())
	}
	assert.NoError(t, Mode(" Strict Uptrend ").Validate())
	assert.NoError(t, Mode("strict price vs previous trough/trough").Validate())
	assert.Error(t, Mode("sideways").Validate())
}

func TestTrend_String(t *testing.T) {
	assert.Equal(t, "uptrend", Trend{Uptrend: true}.String())
	assert.Equal(t, "downtrend", Trend{Downtrend: true}.String())
	assert.Equal(t, "neutral", Trend{}.String())
}

func TestTrend_Direction(t *testing.T) {
	assert.Equal(t, types.DirectionUp, int(Trend{Uptrend: true}.Direction()))
	assert.Equal(t, types.DirectionDown, int(Trend{Downtrend: true}.Direction()))
	assert.Equal(t, types.DirectionNone, int(Trend{}.Direction()))
}
