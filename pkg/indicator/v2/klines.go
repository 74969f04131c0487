package indicatorv2

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/viper"

	"github.com/c9s/zigzag/pkg/envvar"
	"github.com/c9s/zigzag/pkg/types"
)

const MaxNumOfKLines = 5_000

// maxNumOfKLines can be tuned with ZIGZAG_MAX_NUM_OF_KLINES
var maxNumOfKLines = MaxNumOfKLines

var (
	metricsKLineStreamClose = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "zigzag_kline_stream_close",
			Help: "close price of the kline",
		}, []string{"symbol", "interval"},
	)

	metricsKLineStreamHigh = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "zigzag_kline_stream_high",
			Help: "high price of the kline",
		}, []string{"symbol", "interval"},
	)

	metricsKLineStreamLow = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "zigzag_kline_stream_low",
			Help: "low price of the kline",
		}, []string{"symbol", "interval"},
	)
)

func init() {
	if v, ok := envvar.Int("ZIGZAG_MAX_NUM_OF_KLINES"); ok && v > 0 {
		maxNumOfKLines = v
	}

	prometheus.MustRegister(
		metricsKLineStreamClose,
		metricsKLineStreamHigh,
		metricsKLineStreamLow,
	)
}

// KLineSource is anything that delivers closed klines, a csv reader loop or an exchange stream
type KLineSource interface {
	OnKLineClosed(cb func(k types.KLine))
}

//go:generate callbackgen -type KLineStream
type KLineStream struct {
	updateCallbacks []func(k types.KLine)

	kLines []types.KLine
}

func (s *KLineStream) Length() int {
	return len(s.kLines)
}

func (s *KLineStream) Last(i int) *types.KLine {
	l := len(s.kLines)
	if i < 0 || l-1-i < 0 {
		return nil
	}

	return &s.kLines[l-1-i]
}

// AddSubscriber adds the subscriber function and push historical data to the subscriber
func (s *KLineStream) AddSubscriber(f func(k types.KLine)) {
	s.OnUpdate(f)

	if len(s.kLines) == 0 {
		return
	}

	// push historical klines to the subscriber
	for _, k := range s.kLines {
		f(k)
	}
}

func (s *KLineStream) BackFill(kLines []types.KLine) {
	for _, k := range kLines {
		s.Push(k)
	}
}

// Push appends the kline and emits it to the subscribers
func (s *KLineStream) Push(k types.KLine) {
	s.kLines = append(s.kLines, k)
	s.EmitUpdate(k)

	if viper.GetBool("metrics") {
		s.metricsKLineUpdater(k)
	}

	s.kLines = types.ShrinkSlice(s.kLines, maxNumOfKLines, maxNumOfKLines/5)
}

func (s *KLineStream) metricsKLineUpdater(k types.KLine) {
	labels := prometheus.Labels{
		"symbol":   k.Symbol,
		"interval": k.Interval.String(),
	}

	metricsKLineStreamClose.With(labels).Set(k.Close)
	metricsKLineStreamHigh.With(labels).Set(k.High)
	metricsKLineStreamLow.With(labels).Set(k.Low)
}

// KLines creates a KLine stream that pushes the klines to the subscribers
func KLines(source KLineSource, symbol string, interval types.Interval) *KLineStream {
	s := &KLineStream{}

	source.OnKLineClosed(types.KLineWith(symbol, interval, s.Push))

	return s
}

type KLineSubscription interface {
	AddSubscriber(f func(k types.KLine))
	Length() int
	Last(i int) *types.KLine
}
