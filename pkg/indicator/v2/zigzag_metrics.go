package indicatorv2

import "github.com/prometheus/client_golang/prometheus"

var metricsZigZagPivotPrice = prometheus.NewGaugeVec(
	prometheus.GaugeOpts{
		Name: "zigzag_pivot_price",
		Help: "price of the most recent zigzag pivot",
	}, []string{"symbol", "kind"})

var metricsZigZagPivots = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "zigzag_pivots_total",
		Help: "number of zigzag pivots confirmed or extended",
	}, []string{"symbol", "kind", "action"})

func init() {
	prometheus.MustRegister(
		metricsZigZagPivotPrice,
		metricsZigZagPivots,
	)
}

func prometheusLabels(symbol string, kind PivotKind) prometheus.Labels {
	return prometheus.Labels{
		"symbol": symbol,
		"kind":   kind.String(),
	}
}
