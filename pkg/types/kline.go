package types

import (
	"fmt"
	"time"
)

type Direction int

const DirectionUp = 1
const DirectionNone = 0
const DirectionDown = -1

// KLine is the bar structure consumed by the indicators.
// Prices are plain float64 since the indicators only read them.
type KLine struct {
	Symbol string `json:"symbol"`

	StartTime time.Time `json:"startTime"`
	EndTime   time.Time `json:"endTime"`

	Interval Interval `json:"interval"`

	Open   float64 `json:"open"`
	Close  float64 `json:"close"`
	High   float64 `json:"high"`
	Low    float64 `json:"low"`
	Volume float64 `json:"volume"`

	Closed bool `json:"closed"`
}

func (k *KLine) GetStartTime() time.Time {
	return k.StartTime
}

func (k *KLine) GetEndTime() time.Time {
	return k.EndTime
}

func (k *KLine) GetInterval() Interval {
	return k.Interval
}

func (k *KLine) GetHigh() float64 {
	return k.High
}

func (k *KLine) GetLow() float64 {
	return k.Low
}

func (k *KLine) GetClose() float64 {
	return k.Close
}

func (k *KLine) Direction() Direction {
	o := k.Open
	c := k.Close

	if c > o {
		return DirectionUp
	} else if c < o {
		return DirectionDown
	}
	return DirectionNone
}

func (k *KLine) String() string {
	return fmt.Sprintf("%s %s %s Open: %.4f Close: %.4f High: %.4f Low: %.4f Volume: %.2f",
		k.StartTime.Format("2006-01-02 15:04"), k.Symbol, k.Interval, k.Open, k.Close, k.High, k.Low, k.Volume)
}

type KLineCallback func(k KLine)

// KLineWith filters the callback by symbol and interval, empty values match everything
func KLineWith(symbol string, interval Interval, callback KLineCallback) KLineCallback {
	return func(k KLine) {
		if symbol != "" && k.Symbol != symbol {
			return
		}

		if interval != "" && k.Interval != interval {
			return
		}

		callback(k)
	}
}

// ShrinkSlice shrinks the slice to the target size when its length exceeds the given limit
func ShrinkSlice[S ~[]E, E any](slice S, limit, target int) S {
	if len(slice) <= limit {
		return slice
	}

	return slice[len(slice)-target:]
}
