package csvsource

import (
	"encoding/csv"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c9s/zigzag/pkg/types"
	"github.com/c9s/zigzag/pkg/util"
)

var assertKLineEq = func(t *testing.T, exp, act types.KLine) {
	assert.True(t, exp.StartTime.Equal(act.StartTime), "start time %s != %s", exp.StartTime, act.StartTime)
	assert.InDelta(t, exp.Open, act.Open, 1e-9)
	assert.InDelta(t, exp.High, act.High, 1e-9)
	assert.InDelta(t, exp.Low, act.Low, 1e-9)
	assert.InDelta(t, exp.Close, act.Close, 1e-9)
	assert.InDelta(t, exp.Volume, act.Volume, 1e-9)
}

func TestCSVKLineReader_ReadWithBinanceDecoder(t *testing.T) {
	tests := []struct {
		name string
		give string
		want types.KLine
		err  error
	}{
		{
			name: "Read DOHLCV",
			give: "1609459200000,28923.63000000,29031.34000000,28690.17000000,28995.13000000,2311.81144500",
			want: types.KLine{
				StartTime: time.Unix(1609459200, 0),
				Open:      28923.63,
				High:      29031.34,
				Low:       28690.17,
				Close:     28995.13,
				Volume:    2311.811445},
			err: nil,
		},
		{
			name: "Read DOHLC",
			give: "1609459200000,28923.63000000,29031.34000000,28690.17000000,28995.13000000",
			want: types.KLine{
				StartTime: time.Unix(1609459200, 0),
				Open:      28923.63,
				High:      29031.34,
				Low:       28690.17,
				Close:     28995.13,
				Volume:    0},
			err: nil,
		},
		{
			name: "Not enough columns",
			give: "1609459200000,28923.63000000,29031.34000000",
			want: types.KLine{},
			err:  ErrNotEnoughColumns,
		},
		{
			name: "Invalid time format",
			give: "23/12/2021,28923.63000000,29031.34000000,28690.17000000,28995.13000000",
			want: types.KLine{},
			err:  ErrInvalidTimeFormat,
		},
		{
			name: "Invalid price format",
			give: "1609459200000,sixty,29031.34000000,28690.17000000,28995.13000000",
			want: types.KLine{},
			err:  ErrInvalidPriceFormat,
		},
		{
			name: "Invalid volume format",
			give: "1609459200000,28923.63000000,29031.34000000,28690.17000000,28995.13000000,vol",
			want: types.KLine{},
			err:  ErrInvalidVolumeFormat,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reader := NewBinanceCSVKLineReader(csv.NewReader(strings.NewReader(tt.give)))
			kline, err := reader.Read(time.Hour)
			assert.Equal(t, tt.err, err)
			if tt.err == nil {
				assertKLineEq(t, tt.want, kline)
				assert.True(t, kline.Closed)
				assert.Equal(t, kline.StartTime.Add(time.Hour), kline.EndTime)
			}
		})
	}
}

func TestCSVKLineReader_ReadAllWithDefaultDecoder(t *testing.T) {
	records := []string{
		"open_time,open,high,low,close,volume",
		"1609459200000,28923.63000000,29031.34000000,28690.17000000,28995.13000000,2311.81144500",
		"1609462800000,28995.13000000,29470.00000000,28960.35000000,29409.99000000,3140.24346400",
	}
	reader := NewCSVKLineReader(csv.NewReader(strings.NewReader(strings.Join(records, "\n"))))
	klines, err := reader.ReadAll(time.Hour)
	require.NoError(t, err)
	assert.Len(t, klines, 2)
}

func TestCSVKLineReader_ReadWithMetaTraderDecoder(t *testing.T) {
	tests := []struct {
		name string
		give string
		want types.KLine
		err  error
	}{
		{
			name: "Read DOHLCV",
			give: "11/12/2008;16:00;779.527679;780.964756;777.527679;779.964756;5",
			want: types.KLine{
				StartTime: time.Date(2008, 12, 11, 16, 0, 0, 0, time.UTC),
				Open:      779.527679,
				High:      780.964756,
				Low:       777.527679,
				Close:     779.964756,
				Volume:    5},
			err: nil,
		},
		{
			name: "Not enough columns",
			give: "11/12/2008;16:00;779.527679;780.964756;777.527679",
			want: types.KLine{},
			err:  ErrNotEnoughColumns,
		},
		{
			name: "Invalid time format",
			give: "2008-12-11;16:00;779.527679;780.964756;777.527679;779.964756;5",
			want: types.KLine{},
			err:  ErrInvalidTimeFormat,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reader := NewMetaTraderCSVKLineReader(csv.NewReader(strings.NewReader(tt.give)))
			kline, err := reader.Read(time.Hour)
			assert.Equal(t, tt.err, err)
			if tt.err == nil {
				assertKLineEq(t, tt.want, kline)
			}
		})
	}
}

func TestCSVKLineReader_ReadWithAkshareDecoder(t *testing.T) {
	tests := []struct {
		name string
		give string
		want types.KLine
		err  error
	}{
		{
			name: "Read with header",
			give: "trade_date,open,close,high,low,volume\n2021-01-04,19.10,18.60,19.10,18.44,1554216",
			want: types.KLine{
				StartTime: time.Date(2021, 1, 4, 0, 0, 0, 0, time.Local),
				Open:      19.10,
				Close:     18.60,
				High:      19.10,
				Low:       18.44,
				Volume:    1554216},
			err: nil,
		},
		{
			name: "Read without volume",
			give: "2021-01-04,19.10,18.60,19.10,18.44",
			want: types.KLine{
				StartTime: time.Date(2021, 1, 4, 0, 0, 0, 0, time.Local),
				Open:      19.10,
				Close:     18.60,
				High:      19.10,
				Low:       18.44},
			err: nil,
		},
		{
			name: "Invalid date",
			give: "04/01/2021,19.10,18.60,19.10,18.44",
			want: types.KLine{},
			err:  ErrInvalidTimeFormat,
		},
		{
			name: "Header only",
			give: "trade_date,open,close,high,low,volume",
			want: types.KLine{},
			err:  io.EOF,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reader := NewAkshareCSVKLineReader(csv.NewReader(strings.NewReader(tt.give)))
			kline, err := reader.Read(24 * time.Hour)
			assert.Equal(t, tt.err, err)
			if tt.err == nil {
				assertKLineEq(t, tt.want, kline)
			}
		})
	}
}

func TestCSVKLineReader_CustomDecoder(t *testing.T) {
	decoder := func(record []string, interval time.Duration) (types.KLine, error) {
		k, err := BinanceCSVKLineDecoder(record, interval)
		k.Symbol = "CUSTOM"
		return k, err
	}

	reader := NewCSVKLineReaderWithDecoder(csv.NewReader(strings.NewReader(
		"1609459200000,1,2,0.5,1.5,10")), decoder)
	k, err := reader.Read(time.Minute)
	require.NoError(t, err)
	assert.Equal(t, "CUSTOM", k.Symbol)
	assert.Equal(t, 1.5, k.Close)
}

func TestCSVKLineReader_Lenient(t *testing.T) {
	records := []string{
		"1609459200000,28923.63,29600.00,28624.57,29331.69,54182.92",
		"1609545600000,29331.70,n/a,28946.53,32178.33,129993.87",
		"1609632000000,32176.45",
		"1609718400000,33000.05,33600.00,28130.00,31988.71,140899.89",
	}

	strict := NewBinanceCSVKLineReader(csv.NewReader(strings.NewReader(strings.Join(records, "\n"))))
	_, err := strict.ReadAll(24 * time.Hour)
	assert.ErrorIs(t, err, ErrInvalidPriceFormat)

	logger, hook := test.NewNullLogger()
	lenient := NewBinanceCSVKLineReader(csv.NewReader(strings.NewReader(strings.Join(records, "\n")))).
		Lenient(util.NewWarnFirstLogger(10, time.Minute, logger))

	klines, err := lenient.ReadAll(24 * time.Hour)
	require.NoError(t, err)
	require.Len(t, klines, 2)
	assert.Equal(t, 29331.69, klines[0].Close)
	assert.Equal(t, 31988.71, klines[1].Close)
	assert.Len(t, hook.AllEntries(), 2)
}
