package dynamic

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var matchFirstCapRE = regexp.MustCompile("(.)([A-Z][a-z]+)")
var matchAllCap = regexp.MustCompile("([a-z0-9])([A-Z])")

var (
	dynamicStrategyConfigMetrics   = map[string]*prometheus.GaugeVec{}
	dynamicStrategyConfigMetricsMu sync.Mutex
)

// StrategyID is implemented by the strategies that can be exported as config metrics
type StrategyID interface {
	ID() string
	InstanceID() string
}

func getOrCreateMetric(id, fieldName string) (*prometheus.GaugeVec, error) {
	dynamicStrategyConfigMetricsMu.Lock()
	defer dynamicStrategyConfigMetricsMu.Unlock()

	metricName := id + "_config_" + fieldName
	metric, ok := dynamicStrategyConfigMetrics[metricName]
	if !ok {
		metric = prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: metricName,
				Help: id + " config value of " + fieldName,
			},
			[]string{"strategy_type", "strategy_id", "symbol"},
		)

		if err := prometheus.Register(metric); err != nil {
			return nil, fmt.Errorf("unable to register metrics on field %+v, error: %+v", fieldName, err)
		}

		dynamicStrategyConfigMetrics[metricName] = metric
	}

	return metric, nil
}

func toSnakeCase(input string) string {
	input = matchFirstCapRE.ReplaceAllString(input, "${1}_${2}")
	input = matchAllCap.ReplaceAllString(input, "${1}_${2}")
	return strings.ToLower(input)
}

func castToFloat64(valInf any) (float64, bool) {
	var val float64
	switch tt := valInf.(type) {
	case float64:
		val = tt
	case *float64:
		if tt == nil {
			return 0.0, false
		}
		val = *tt
	case int:
		val = float64(tt)
	case int32:
		val = float64(tt)
	case int64:
		val = float64(tt)
	case bool:
		if tt {
			val = 1.0
		} else {
			val = 0.0
		}
	default:
		return 0.0, false
	}

	return val, true
}

// InitializeConfigMetrics exports the numeric json fields of the strategy as gauges,
// e.g. devThreshold becomes zigzag_config_dev_threshold
func InitializeConfigMetrics(s StrategyID) error {
	id := s.ID()
	instanceID := s.InstanceID()

	symbol := ""
	if sv := reflect.Indirect(reflect.ValueOf(s)); sv.Kind() == reflect.Struct {
		if symbolField := sv.FieldByName("Symbol"); symbolField.IsValid() && symbolField.Kind() == reflect.String {
			symbol = symbolField.String()
		}
	}

	return IterateFieldsByTag(s, "json", func(tag string, ft reflect.StructField, fv reflect.Value) error {
		name := strings.Split(tag, ",")[0]
		if name == "" {
			return nil
		}

		val, ok := castToFloat64(fv.Interface())
		if !ok {
			return nil
		}

		metric, err := getOrCreateMetric(id, toSnakeCase(name))
		if err != nil {
			return err
		}

		metric.With(prometheus.Labels{
			"strategy_type": id,
			"strategy_id":   instanceID,
			"symbol":        symbol,
		}).Set(val)
		return nil
	})
}
