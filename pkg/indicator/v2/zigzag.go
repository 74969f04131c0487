package indicatorv2

import (
	"math"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/viper"

	"github.com/c9s/zigzag/pkg/datatype/floats"
	"github.com/c9s/zigzag/pkg/types"
)

const (
	// DefaultZigZagDeviation is the minimal reversal move in percent
	DefaultZigZagDeviation = 5.0

	// DefaultZigZagDepth is the pivot window, the candidate is tested depth/2 bars back
	DefaultZigZagDepth = 10
)

// ZigZagOutput is what the stream exposes after each bar
type ZigZagOutput struct {
	Index int
	Time  time.Time
	Close float64

	// ZigZag is the price written to the zigzag line while processing this bar, NaN when none
	ZigZag float64

	// Pivots are the pivots confirmed or extended while processing this bar
	Pivots []Pivot

	PreviousPeak   float64
	Peak           float64
	PreviousTrough float64
	Trough         float64
}

//go:generate callbackgen -type ZigZagStream
type ZigZagStream struct {
	Symbol string

	// Values is the zigzag line, NaN where there is no pivot.
	// Pivots are written retroactively at their own bar index, the first
	// element is the bar Offset() once the output series have been shrunk.
	Values floats.Slice

	PreviousPeak   floats.Slice
	Peak           floats.Slice
	PreviousTrough floats.Slice
	Trough         floats.Slice

	highs, lows floats.Slice
	times       []time.Time

	deviation float64
	depth     int
	lag       int

	barIndex int
	offset   int
	last     lastPivot

	peaks, troughs pivotHistory

	updateCallbacks []func(out ZigZagOutput)
	pivotCallbacks  []func(pivot Pivot, replaced bool)
}

// ZigZag binds a new zigzag stream to the kline subscription.
// Each symbol and parameter set needs its own stream.
func ZigZag(source KLineSubscription, deviation float64, depth int) *ZigZagStream {
	s := NewZigZagStream(deviation, depth)
	if source != nil {
		source.AddSubscriber(s.PushK)
	}
	return s
}

func NewZigZagStream(deviation float64, depth int) *ZigZagStream {
	return &ZigZagStream{
		deviation: deviation,
		depth:     depth,
		lag:       depth / 2,
		last:      lastPivot{Index: 0, Price: 0, Kind: PivotHigh},
		peaks:     newPivotHistory(PivotHigh),
		troughs:   newPivotHistory(PivotLow),
	}
}

func (s *ZigZagStream) PushK(k types.KLine) {
	if s.Symbol == "" {
		s.Symbol = k.Symbol
	}

	out := s.Update(k.High, k.Low, k.Close, k.StartTime)
	s.EmitUpdate(out)
}

// Update processes one bar and returns the projected values of the bar
func (s *ZigZagStream) Update(high, low, closePrice float64, t time.Time) ZigZagOutput {
	index := s.barIndex

	s.highs.Push(high)
	s.lows.Push(low)
	s.times = append(s.times, t)
	s.Values.Push(math.NaN())

	out := ZigZagOutput{
		Index:  index,
		Time:   t,
		Close:  closePrice,
		ZigZag: math.NaN(),
	}

	// high goes first, the low candidate is evaluated against the updated last pivot
	if price, ok := scanPivot(s.highs, s.lag, PivotHigh); ok {
		if p := s.candidate(PivotHigh, price); s.resolve(p) {
			out.ZigZag = p.Price
			out.Pivots = append(out.Pivots, p)
		}
	}

	if price, ok := scanPivot(s.lows, s.lag, PivotLow); ok {
		if p := s.candidate(PivotLow, price); s.resolve(p) {
			out.ZigZag = p.Price
			out.Pivots = append(out.Pivots, p)
		}
	}

	out.PreviousPeak, out.Peak = s.peaks.project(index)
	out.PreviousTrough, out.Trough = s.troughs.project(index)

	s.PreviousPeak.Push(out.PreviousPeak)
	s.Peak.Push(out.Peak)
	s.PreviousTrough.Push(out.PreviousTrough)
	s.Trough.Push(out.Trough)

	s.truncate()
	s.shrink()
	s.barIndex++
	return out
}

func (s *ZigZagStream) candidate(kind PivotKind, price float64) Pivot {
	return Pivot{
		Index: s.barIndex - s.lag,
		Price: price,
		Kind:  kind,
		Time:  s.times[len(s.times)-1-s.lag],
	}
}

// resolve decides whether the candidate extends the last pivot, confirms a reversal or is dropped
func (s *ZigZagStream) resolve(p Pivot) bool {
	history := s.history(p.Kind)

	if s.last.Kind == p.Kind {
		if !p.Kind.exceeds(p.Price, s.last.Price) {
			return false
		}

		s.setValue(s.last.Index, math.NaN())
		s.setValue(p.Index, p.Price)
		history.replace(p)
		s.last = lastPivot{Index: p.Index, Price: p.Price, Kind: p.Kind, Replaced: true}

		log.Debugf("[zigzag] %s %s pivot extended to %f at bar %d", s.Symbol, p.Kind, p.Price, p.Index)
		s.updateMetrics(p, "extend")
		s.EmitPivot(p, true)
		return true
	}

	dev := deviation(s.last.Price, p.Price)
	if math.Abs(dev) < s.deviation {
		return false
	}

	s.setValue(p.Index, p.Price)
	history.push(p)
	s.last = lastPivot{Index: p.Index, Price: p.Price, Kind: p.Kind, Replaced: false}

	log.Debugf("[zigzag] %s %s pivot confirmed at %f bar %d, deviation %.2f%%", s.Symbol, p.Kind, p.Price, p.Index, dev)
	s.updateMetrics(p, "confirm")
	s.EmitPivot(p, false)
	return true
}

func (s *ZigZagStream) history(kind PivotKind) *pivotHistory {
	if kind == PivotHigh {
		return &s.peaks
	}
	return &s.troughs
}

// truncate keeps only the scan window of the raw series
func (s *ZigZagStream) truncate() {
	window := 2*s.lag + 1
	s.highs = s.highs.Truncate(window)
	s.lows = s.lows.Truncate(window)
	if len(s.times) > window {
		s.times = s.times[len(s.times)-window:]
	}
}

// shrink caps the output series like the kline buffer, the pending pivot window is always kept
func (s *ZigZagStream) shrink() {
	length := len(s.Values)
	if length <= maxNumOfKLines {
		return
	}

	target := maxNumOfKLines / 5
	if target <= s.lag {
		target = s.lag + 1
	}

	if target >= length {
		return
	}

	s.offset += length - target
	s.Values = types.ShrinkSlice(s.Values, maxNumOfKLines, target)
	s.PreviousPeak = types.ShrinkSlice(s.PreviousPeak, maxNumOfKLines, target)
	s.Peak = types.ShrinkSlice(s.Peak, maxNumOfKLines, target)
	s.PreviousTrough = types.ShrinkSlice(s.PreviousTrough, maxNumOfKLines, target)
	s.Trough = types.ShrinkSlice(s.Trough, maxNumOfKLines, target)
}

// setValue writes the zigzag line at the absolute bar index, trimmed bars are ignored
func (s *ZigZagStream) setValue(index int, v float64) {
	s.Values.Set(index-s.offset, v)
}

// ValueAt returns the zigzag line at the absolute bar index, NaN when it has been trimmed
func (s *ZigZagStream) ValueAt(index int) float64 {
	return s.Values.At(index - s.offset)
}

// Offset is the absolute bar index of the first element of the output series
func (s *ZigZagStream) Offset() int {
	return s.offset
}

func (s *ZigZagStream) updateMetrics(p Pivot, action string) {
	if !viper.GetBool("metrics") {
		return
	}

	metricsZigZagPivotPrice.With(prometheusLabels(s.Symbol, p.Kind)).Set(p.Price)
	metricsZigZagPivots.WithLabelValues(s.Symbol, p.Kind.String(), action).Inc()
}

// Length returns the number of processed bars
func (s *ZigZagStream) Length() int {
	return s.barIndex
}

func (s *ZigZagStream) Depth() int {
	return s.depth
}

func (s *ZigZagStream) Deviation() float64 {
	return s.deviation
}

// LastPivot returns the pivot the next candidate is compared with
func (s *ZigZagStream) LastPivot() Pivot {
	return Pivot{Index: s.last.Index, Price: s.last.Price, Kind: s.last.Kind}
}

// LastReplaced reports whether the last pivot was an extension rather than a reversal
func (s *ZigZagStream) LastReplaced() bool {
	return s.last.Replaced
}

// PeakHistory returns the three most recent peaks, oldest first
func (s *ZigZagStream) PeakHistory() [3]Pivot {
	return [3]Pivot(s.peaks)
}

// TroughHistory returns the three most recent troughs, oldest first
func (s *ZigZagStream) TroughHistory() [3]Pivot {
	return [3]Pivot(s.troughs)
}

// PivotValues collects the prices still drawn on the retained part of the zigzag line
func (s *ZigZagStream) PivotValues() (pivots []float64) {
	for _, v := range s.Values {
		if !math.IsNaN(v) {
			pivots = append(pivots, v)
		}
	}
	return pivots
}
