package dynamic

import (
	"bytes"
	"reflect"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c9s/zigzag/pkg/style"
)

type testStrategy struct {
	Symbol       string   `json:"symbol"`
	DevThreshold float64  `json:"devThreshold"`
	Depth        int      `json:"depth"`
	Enabled      bool     `json:"enabled,omitempty"`
	Stop         *float64 `json:"stop,omitempty"`
	Mode         string   `json:"mode"`
	Hidden       int      `json:"-"`
	untagged     int
}

func (s *testStrategy) ID() string { return "dyntest" }

func (s *testStrategy) InstanceID() string { return "dyntest:" + s.Symbol }

func TestIterateFieldsByTag(t *testing.T) {
	s := &testStrategy{Symbol: "BTCUSDT", untagged: 1}

	var tags []string
	err := IterateFieldsByTag(s, "json", func(tag string, ft reflect.StructField, fv reflect.Value) error {
		tags = append(tags, tag)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"symbol", "devThreshold", "depth", "enabled,omitempty", "stop,omitempty", "mode"}, tags)

	t.Run("non-ptr", func(t *testing.T) {
		err := IterateFieldsByTag(testStrategy{}, "json", func(tag string, ft reflect.StructField, fv reflect.Value) error {
			return nil
		})
		assert.Error(t, err)
	})

	t.Run("nil", func(t *testing.T) {
		var s *testStrategy
		err := IterateFieldsByTag(s, "json", func(tag string, ft reflect.StructField, fv reflect.Value) error {
			return nil
		})
		assert.ErrorIs(t, err, ErrCanNotIterateNilPointer)
	})
}

func TestToSnakeCase(t *testing.T) {
	assert.Equal(t, "dev_threshold", toSnakeCase("devThreshold"))
	assert.Equal(t, "depth", toSnakeCase("depth"))
	assert.Equal(t, "max_num_of_klines", toSnakeCase("MaxNumOfKlines"))
}

func TestCastToFloat64(t *testing.T) {
	f := 1.5
	var nilFloat *float64

	tests := []struct {
		give   any
		want   float64
		wantOk bool
	}{
		{give: 2.5, want: 2.5, wantOk: true},
		{give: &f, want: 1.5, wantOk: true},
		{give: nilFloat, wantOk: false},
		{give: 10, want: 10, wantOk: true},
		{give: int64(3), want: 3, wantOk: true},
		{give: true, want: 1, wantOk: true},
		{give: "x", wantOk: false},
	}

	for _, tt := range tests {
		got, ok := castToFloat64(tt.give)
		assert.Equal(t, tt.wantOk, ok, "%v", tt.give)
		assert.Equal(t, tt.want, got, "%v", tt.give)
	}
}

func TestInitializeConfigMetrics(t *testing.T) {
	s := &testStrategy{Symbol: "BTCUSDT", DevThreshold: 3.5, Depth: 12}
	require.NoError(t, InitializeConfigMetrics(s))

	// the second instance reuses the registered vectors
	s2 := &testStrategy{Symbol: "ETHUSDT", DevThreshold: 8, Depth: 6}
	require.NoError(t, InitializeConfigMetrics(s2))

	assert.Equal(t, 3.5, configGauge(t, "dyntest_config_dev_threshold", s))
	assert.Equal(t, 12.0, configGauge(t, "dyntest_config_depth", s))
	assert.Equal(t, 8.0, configGauge(t, "dyntest_config_dev_threshold", s2))

	dynamicStrategyConfigMetricsMu.Lock()
	_, hasMode := dynamicStrategyConfigMetrics["dyntest_config_mode"]
	_, hasStop := dynamicStrategyConfigMetrics["dyntest_config_stop"]
	dynamicStrategyConfigMetricsMu.Unlock()
	assert.False(t, hasMode)
	assert.False(t, hasStop)
}

func configGauge(t *testing.T, name string, s *testStrategy) float64 {
	dynamicStrategyConfigMetricsMu.Lock()
	vec, ok := dynamicStrategyConfigMetrics[name]
	dynamicStrategyConfigMetricsMu.Unlock()
	require.True(t, ok, name)

	gauge, err := vec.GetMetricWith(prometheus.Labels{
		"strategy_type": s.ID(),
		"strategy_id":   s.InstanceID(),
		"symbol":        s.Symbol,
	})
	require.NoError(t, err)

	var m dto.Metric
	require.NoError(t, gauge.Write(&m))
	return m.GetGauge().GetValue()
}

func TestPrintConfig(t *testing.T) {
	s := &testStrategy{Symbol: "BTCUSDT", DevThreshold: 5, Depth: 10, Mode: "above swing low"}

	t.Run("plain", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, PrintConfig(s, &buf, nil, false))

		out := buf.String()
		assert.Contains(t, out, "---- dyntest:BTCUSDT Settings ---")
		assert.Contains(t, out, "depth: 10\n")
		assert.Contains(t, out, "mode: \"above swing low\"\n")
		assert.NotContains(t, out, "Hidden")
	})

	t.Run("table", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, PrintConfig(s, &buf, style.NewDefaultTableStyle(), false))

		out := buf.String()
		assert.Contains(t, out, "devThreshold")
		assert.Contains(t, out, "DevThreshold")
		assert.Contains(t, out, "float64")
	})
}
