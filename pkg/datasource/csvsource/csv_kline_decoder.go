package csvsource

import (
	"encoding/csv"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/c9s/zigzag/pkg/types"
)

// MetaTraderTimeFormat is the time format expected by the MetaTrader decoder when cols [0] and [1] are used.
const MetaTraderTimeFormat = "02/01/2006 15:04"

// AkshareDateFormat is the trade_date format of the akshare daily history export.
const AkshareDateFormat = "2006-01-02"

var (
	// ErrNotEnoughColumns is returned when the CSV price record does not have enough columns.
	ErrNotEnoughColumns = errors.New("not enough columns")

	// ErrInvalidTimeFormat is returned when the CSV price record does not have a valid time format.
	ErrInvalidTimeFormat = errors.New("cannot parse time string")

	// ErrInvalidPriceFormat is returned when the CSV price record does not have prices in expected format.
	ErrInvalidPriceFormat = errors.New("OHLC prices must be in valid decimal format")

	// ErrInvalidVolumeFormat is returned when the CSV price record does not have a valid volume format.
	ErrInvalidVolumeFormat = errors.New("volume must be in valid float format")

	// errHeaderRecord marks a column header line, CSVKLineReader skips it.
	errHeaderRecord = errors.New("header record")
)

// CSVKLineDecoder is an extension point for CSVKLineReader to support custom file formats.
type CSVKLineDecoder func(record []string, interval time.Duration) (types.KLine, error)

// NewBinanceCSVKLineReader creates a new CSVKLineReader for Binance CSV files.
func NewBinanceCSVKLineReader(csv *csv.Reader) *CSVKLineReader {
	return &CSVKLineReader{
		csv:     csv,
		decoder: BinanceCSVKLineDecoder,
	}
}

// BinanceCSVKLineDecoder decodes a CSV record from Binance or Bybit into a KLine.
func BinanceCSVKLineDecoder(record []string, interval time.Duration) (types.KLine, error) {
	var (
		k, empty types.KLine
		err      error
	)

	if len(record) < 5 {
		return k, ErrNotEnoughColumns
	}

	msec, err := strconv.ParseInt(strings.TrimSpace(record[0]), 10, 64)
	if err != nil {
		if record[0] == "open_time" {
			return empty, errHeaderRecord
		}
		return empty, ErrInvalidTimeFormat
	}
	k.StartTime = time.UnixMilli(msec)
	k.EndTime = k.StartTime.Add(interval)

	if k.Open, k.High, k.Low, k.Close, err = parsePrices(record[1], record[2], record[3], record[4]); err != nil {
		return empty, err
	}

	if len(record) > 5 {
		if k.Volume, err = parseVolume(record[5]); err != nil {
			return empty, err
		}
	}

	k.Closed = true
	return k, nil
}

// NewMetaTraderCSVKLineReader creates a new CSVKLineReader for MetaTrader CSV files.
func NewMetaTraderCSVKLineReader(csv *csv.Reader) *CSVKLineReader {
	csv.Comma = ';'
	return &CSVKLineReader{
		csv:     csv,
		decoder: MetaTraderCSVKLineDecoder,
	}
}

// MetaTraderCSVKLineDecoder decodes a CSV record from MetaTrader into a KLine.
func MetaTraderCSVKLineDecoder(record []string, interval time.Duration) (types.KLine, error) {
	var (
		k, empty types.KLine
		err      error
	)

	if len(record) < 6 {
		return k, ErrNotEnoughColumns
	}

	tStr := fmt.Sprintf("%s %s", record[0], record[1])
	t, err := time.Parse(MetaTraderTimeFormat, tStr)
	if err != nil {
		return empty, ErrInvalidTimeFormat
	}
	k.StartTime = t
	k.EndTime = t.Add(interval)

	if k.Open, k.High, k.Low, k.Close, err = parsePrices(record[2], record[3], record[4], record[5]); err != nil {
		return empty, err
	}

	if len(record) > 6 {
		if k.Volume, err = parseVolume(record[6]); err != nil {
			return empty, err
		}
	}

	k.Closed = true
	return k, nil
}

// NewAkshareCSVKLineReader creates a new CSVKLineReader for akshare daily history exports.
func NewAkshareCSVKLineReader(csv *csv.Reader) *CSVKLineReader {
	return &CSVKLineReader{
		csv:     csv,
		decoder: AkshareCSVKLineDecoder,
	}
}

// AkshareCSVKLineDecoder decodes a trade_date,open,close,high,low,volume record.
// The close column comes before high and low in this format.
func AkshareCSVKLineDecoder(record []string, interval time.Duration) (types.KLine, error) {
	var (
		k, empty types.KLine
		err      error
	)

	if len(record) < 5 {
		return k, ErrNotEnoughColumns
	}

	date := strings.TrimSpace(record[0])
	if date == "trade_date" {
		return empty, errHeaderRecord
	}

	t, err := time.ParseInLocation(AkshareDateFormat, date, time.Local)
	if err != nil {
		return empty, ErrInvalidTimeFormat
	}
	k.StartTime = t
	k.EndTime = t.Add(interval)

	if k.Open, k.Close, k.High, k.Low, err = parsePrices(record[1], record[2], record[3], record[4]); err != nil {
		return empty, err
	}

	if len(record) > 5 {
		if k.Volume, err = parseVolume(record[5]); err != nil {
			return empty, err
		}
	}

	k.Closed = true
	return k, nil
}

func parsePrices(a, b, c, d string) (float64, float64, float64, float64, error) {
	var values [4]float64
	for i, s := range [4]string{a, b, c, d} {
		v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return 0, 0, 0, 0, ErrInvalidPriceFormat
		}
		values[i] = v
	}

	return values[0], values[1], values[2], values[3], nil
}

func parseVolume(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, ErrInvalidVolumeFormat
	}
	return v, nil
}
