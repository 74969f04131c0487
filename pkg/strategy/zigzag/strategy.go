package zigzag

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"go.uber.org/multierr"

	indicatorv2 "github.com/c9s/zigzag/pkg/indicator/v2"
	"github.com/c9s/zigzag/pkg/types"
)

const ID = "zigzag"

var log = logrus.WithField("strategy", ID)

// Signal is emitted for every bar once the stream is bound
type Signal struct {
	Symbol string    `json:"symbol"`
	Time   time.Time `json:"time"`
	Close  float64   `json:"close"`

	Levels Levels `json:"levels"`
	Trend  Trend  `json:"trend"`

	// Determinate is false while any level is still unknown
	Determinate bool `json:"determinate"`

	// InWindow is false when the bar is outside of startTime and endTime
	InWindow bool `json:"inWindow"`

	// Changed is true when the trend differs from the previous determinate bar
	Changed bool `json:"changed"`
}

//go:generate callbackgen -type Strategy
type Strategy struct {
	Symbol   string         `json:"symbol"`
	Interval types.Interval `json:"interval"`

	// DevThreshold is the minimal reversal move in percent,
	// 0 confirms every opposite candidate
	DevThreshold float64 `json:"devThreshold"`

	// Depth is the pivot window, pivots are tested Depth/2 bars back
	Depth int `json:"depth"`

	Mode Mode `json:"mode"`

	StartTime *types.LooseFormatTime `json:"startTime,omitempty"`
	EndTime   *types.LooseFormatTime `json:"endTime,omitempty"`

	ZigZag *indicatorv2.ZigZagStream `json:"-"`

	lastTrend   Trend
	hasTrend    bool
	numOfPivots int

	signalCallbacks []func(sig Signal)
}

// New returns a strategy with the default deviation, an explicit 0 decoded over it is kept
func New() *Strategy {
	return &Strategy{DevThreshold: indicatorv2.DefaultZigZagDeviation}
}

func (s *Strategy) ID() string {
	return ID
}

func (s *Strategy) InstanceID() string {
	return fmt.Sprintf("%s:%s:%g:%d", ID, s.Symbol, s.DevThreshold, s.Depth)
}

func (s *Strategy) Defaults() error {
	if s.Depth == 0 {
		s.Depth = indicatorv2.DefaultZigZagDepth
	}

	if s.Mode == "" {
		s.Mode = ModeStrictUptrendAndDowntrend
	}

	if s.Interval == "" {
		s.Interval = types.Interval1d
	}

	s.Mode = s.Mode.Normalize()
	return nil
}

func (s *Strategy) Validate() (err error) {
	if s.Symbol == "" {
		err = multierr.Append(err, fmt.Errorf("symbol is required"))
	}

	if s.Depth < 2 {
		err = multierr.Append(err, fmt.Errorf("depth should be at least 2, given %d", s.Depth))
	}

	if s.DevThreshold < 0 {
		err = multierr.Append(err, fmt.Errorf("devThreshold can not be negative, given %f", s.DevThreshold))
	}

	if e := s.Mode.Validate(); e != nil {
		err = multierr.Append(err, e)
	}

	if e := s.Interval.Validate(); e != nil {
		err = multierr.Append(err, e)
	}

	if s.StartTime != nil && s.EndTime != nil && s.EndTime.Time().Before(s.StartTime.Time()) {
		err = multierr.Append(err, fmt.Errorf("endTime %s is before startTime %s",
			s.EndTime.Time().Format(time.RFC3339), s.StartTime.Time().Format(time.RFC3339)))
	}

	return err
}

// Bind creates a fresh zigzag stream on the kline subscription and classifies every bar
func (s *Strategy) Bind(source indicatorv2.KLineSubscription) *indicatorv2.ZigZagStream {
	s.ZigZag = indicatorv2.NewZigZagStream(s.DevThreshold, s.Depth)
	s.ZigZag.Symbol = s.Symbol
	s.ZigZag.OnPivot(func(pivot indicatorv2.Pivot, replaced bool) {
		if !replaced {
			s.numOfPivots++
		}
	})
	s.ZigZag.OnUpdate(s.handleZigZagUpdate)

	if source != nil {
		source.AddSubscriber(s.ZigZag.PushK)
	}

	return s.ZigZag
}

func (s *Strategy) inWindow(t time.Time) bool {
	if s.StartTime != nil && t.Before(s.StartTime.Time()) {
		return false
	}

	if s.EndTime != nil && t.After(s.EndTime.Time()) {
		return false
	}

	return true
}

func (s *Strategy) handleZigZagUpdate(out indicatorv2.ZigZagOutput) {
	levels := Levels{
		PreviousPeak:   out.PreviousPeak,
		Peak:           out.Peak,
		PreviousTrough: out.PreviousTrough,
		Trough:         out.Trough,
	}

	trend, ok := s.Mode.Classify(out.Close, levels)
	sig := Signal{
		Symbol:      s.Symbol,
		Time:        out.Time,
		Close:       out.Close,
		Levels:      levels,
		Trend:       trend,
		Determinate: ok,
		InWindow:    s.inWindow(out.Time),
	}

	if ok {
		sig.Changed = !s.hasTrend || trend != s.lastTrend
		s.lastTrend = trend
		s.hasTrend = true
		updateTrendMetrics(s.Symbol, trend)
	}

	if sig.Changed && sig.InWindow {
		log.WithFields(logrus.Fields{
			"symbol":         s.Symbol,
			"close":          out.Close,
			"previousPeak":   levels.PreviousPeak,
			"peak":           levels.Peak,
			"previousTrough": levels.PreviousTrough,
			"trough":         levels.Trough,
		}).Infof("%s %s trend changed to %s", out.Time.Format("2006-01-02"), s.Symbol, trend)
	}

	s.EmitSignal(sig)
}

// Trend returns the last determinate trend, false if there is none yet
func (s *Strategy) Trend() (Trend, bool) {
	return s.lastTrend, s.hasTrend
}

// NumOfPivots returns the number of confirmed reversals
func (s *Strategy) NumOfPivots() int {
	return s.numOfPivots
}
