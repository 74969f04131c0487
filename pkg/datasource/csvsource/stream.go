package csvsource

import (
	"context"
	"encoding/csv"
	"sort"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/c9s/zigzag/pkg/types"
	"github.com/c9s/zigzag/pkg/util"
)

var log = logrus.WithField("component", "csvsource")

// StreamConfig describes one csv replay session.
type StreamConfig struct {
	Symbol   string         `json:"symbol"`
	Interval types.Interval `json:"interval"`
	CsvPaths []string       `json:"files"`
	Format   Format         `json:"format"`

	// SkipInvalid skips malformed csv records instead of failing the whole file
	SkipInvalid bool `json:"skipInvalid,omitempty"`
}

// Stream replays csv klines as closed kline events.
//
//go:generate callbackgen -type Stream
type Stream struct {
	config *StreamConfig
	klines []types.KLine

	kLineClosedCallbacks []func(k types.KLine)
}

// NewStream creates a replay stream over the given klines, symbol and interval are stamped on every kline.
func NewStream(cfg *StreamConfig, klines []types.KLine) *Stream {
	return &Stream{
		config: cfg,
		klines: klines,
	}
}

// OpenStream reads the csv files or directories of the config and creates a replay stream.
func OpenStream(cfg *StreamConfig) (*Stream, error) {
	maker, err := ReaderMaker(cfg.Format)
	if err != nil {
		return nil, err
	}

	if cfg.SkipInvalid {
		maker = lenientMaker(maker, util.NewWarnFirstLogger(10, time.Minute, log.WithField("symbol", cfg.Symbol)))
	}

	var klines []types.KLine
	for _, p := range cfg.CsvPaths {
		ks, err := ReadKLinesFromCSVWithDecoder(p, cfg.Interval.Duration(), maker)
		if err != nil {
			return nil, err
		}
		klines = append(klines, ks...)
	}

	if len(cfg.CsvPaths) > 1 {
		sort.SliceStable(klines, func(i, j int) bool {
			return klines[i].StartTime.Before(klines[j].StartTime)
		})
	}

	return NewStream(cfg, klines), nil
}

func lenientMaker(maker MakeCSVKLineReader, logger *util.WarnFirstLogger) MakeCSVKLineReader {
	return func(c *csv.Reader) *CSVKLineReader {
		return maker(c).Lenient(logger)
	}
}

func (s *Stream) Len() int {
	return len(s.klines)
}

// Run emits every kline in order, it stops early when the context is canceled.
func (s *Stream) Run(ctx context.Context) error {
	for _, k := range s.klines {
		if err := ctx.Err(); err != nil {
			return err
		}

		k.Symbol = s.config.Symbol
		k.Interval = s.config.Interval
		s.EmitKLineClosed(k)
	}

	return nil
}
