package zigzag

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/viper"
)

var trendMetrics = prometheus.NewGaugeVec(
	prometheus.GaugeOpts{
		Name: "zigzag_trend",
		Help: "1 for uptrend, -1 for downtrend, 0 otherwise",
	}, []string{"strategy_type", "symbol"})

func init() {
	prometheus.MustRegister(trendMetrics)
}

func updateTrendMetrics(symbol string, trend Trend) {
	if !viper.GetBool("metrics") {
		return
	}

	v := 0.0
	if trend.Uptrend {
		v = 1.0
	} else if trend.Downtrend {
		v = -1.0
	}

	trendMetrics.WithLabelValues(ID, symbol).Set(v)
}
