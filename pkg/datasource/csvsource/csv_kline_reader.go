package csvsource

import (
	"encoding/csv"
	"errors"
	"io"
	"time"

	"github.com/c9s/zigzag/pkg/types"
	"github.com/c9s/zigzag/pkg/util"
)

var _ KLineReader = (*CSVKLineReader)(nil)

// CSVKLineReader is a KLineReader that reads from a CSV file.
type CSVKLineReader struct {
	csv     *csv.Reader
	decoder CSVKLineDecoder

	// invalidLogger is set in lenient mode, malformed records are logged and skipped
	invalidLogger *util.WarnFirstLogger
}

// MakeCSVKLineReader is a factory method type that creates a new CSVKLineReader.
type MakeCSVKLineReader func(csv *csv.Reader) *CSVKLineReader

// NewCSVKLineReader creates a new CSVKLineReader with the default Binance decoder.
func NewCSVKLineReader(csv *csv.Reader) *CSVKLineReader {
	return &CSVKLineReader{
		csv:     csv,
		decoder: BinanceCSVKLineDecoder,
	}
}

// NewCSVKLineReaderWithDecoder creates a new CSVKLineReader with the given decoder.
func NewCSVKLineReaderWithDecoder(csv *csv.Reader, decoder CSVKLineDecoder) *CSVKLineReader {
	return &CSVKLineReader{
		csv:     csv,
		decoder: decoder,
	}
}

// Read reads the next KLine from the underlying CSV data. Header lines are skipped.
func (r *CSVKLineReader) Read(interval time.Duration) (types.KLine, error) {
	for {
		var k types.KLine

		rec, err := r.csv.Read()
		if err != nil {
			var parseErr *csv.ParseError
			if r.invalidLogger != nil && errors.As(err, &parseErr) {
				r.invalidLogger.WarnOrError(err, "skip malformed csv line %d", parseErr.Line)
				continue
			}
			return k, err
		}

		k, err = r.decoder(rec, interval)
		if err == errHeaderRecord {
			continue
		}

		if err != nil && r.invalidLogger != nil && isDecodeError(err) {
			line, _ := r.csv.FieldPos(0)
			r.invalidLogger.WarnOrError(err, "skip invalid kline record at line %d: %v", line, rec)
			continue
		}

		return k, err
	}
}

// Lenient makes the reader skip malformed records, they are reported to the logger instead
func (r *CSVKLineReader) Lenient(logger *util.WarnFirstLogger) *CSVKLineReader {
	r.invalidLogger = logger
	r.csv.FieldsPerRecord = -1
	return r
}

func isDecodeError(err error) bool {
	return errors.Is(err, ErrNotEnoughColumns) ||
		errors.Is(err, ErrInvalidTimeFormat) ||
		errors.Is(err, ErrInvalidPriceFormat) ||
		errors.Is(err, ErrInvalidVolumeFormat)
}

// ReadAll reads all the KLines from the underlying CSV data.
func (r *CSVKLineReader) ReadAll(interval time.Duration) ([]types.KLine, error) {
	var ks []types.KLine
	for {
		k, err := r.Read(interval)
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		ks = append(ks, k)
	}

	return ks, nil
}
