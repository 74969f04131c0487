package csvsource

import (
	"encoding/csv"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/c9s/zigzag/pkg/types"
)

// Format names a supported CSV layout.
type Format string

const (
	FormatBinance    Format = "binance"
	FormatMetaTrader Format = "metatrader"
	FormatAkshare    Format = "akshare"
)

var readerMakers = map[Format]MakeCSVKLineReader{
	FormatBinance:    NewBinanceCSVKLineReader,
	FormatMetaTrader: NewMetaTraderCSVKLineReader,
	FormatAkshare:    NewAkshareCSVKLineReader,
}

// ReaderMaker returns the reader factory of the given format, an empty format means binance.
func ReaderMaker(format Format) (MakeCSVKLineReader, error) {
	if format == "" {
		format = FormatBinance
	}

	maker, ok := readerMakers[Format(strings.ToLower(string(format)))]
	if !ok {
		return nil, fmt.Errorf("unsupported csv format %q", format)
	}

	return maker, nil
}

// KLineReader is an interface for reading candlesticks.
type KLineReader interface {
	Read(interval time.Duration) (types.KLine, error)
	ReadAll(interval time.Duration) ([]types.KLine, error)
}

// ReadKLinesFromCSV reads all the .csv files in a given directory or a single file into a slice of KLines.
// Wraps a default CSVKLineReader with Binance decoder for convenience.
// For finer grained memory management use the base kline reader.
func ReadKLinesFromCSV(path string, interval time.Duration) ([]types.KLine, error) {
	return ReadKLinesFromCSVWithDecoder(path, interval, MakeCSVKLineReader(NewBinanceCSVKLineReader))
}

// ReadKLinesFromCSVWithDecoder permits using a custom CSVKLineReader.
// Klines from multiple files are sorted by start time.
func ReadKLinesFromCSVWithDecoder(path string, interval time.Duration, maker MakeCSVKLineReader) ([]types.KLine, error) {
	var klines []types.KLine

	err := filepath.WalkDir(path, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if filepath.Ext(path) != ".csv" {
			return nil
		}
		file, err := os.Open(path)
		if err != nil {
			return err
		}
		//nolint:errcheck // Read ops only so safe to ignore err return
		defer file.Close()
		reader := maker(csv.NewReader(file))
		newKlines, err := reader.ReadAll(interval)
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		klines = append(klines, newKlines...)
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.SliceStable(klines, func(i, j int) bool {
		return klines[i].StartTime.Before(klines[j].StartTime)
	})

	return klines, nil
}
