package csvsource

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/pkg/errors"

	"github.com/c9s/zigzag/pkg/types"
)

// WriteKLines writes klines in the Binance layout under path/klines/<interval>/ and returns the file name.
func WriteKLines(path, symbol string, klines []types.KLine) (fileName string, err error) {
	if len(klines) == 0 {
		return "", fmt.Errorf("no klines to write")
	}
	from := klines[0].StartTime.UTC()
	end := klines[len(klines)-1].StartTime.UTC()
	to := ""
	if end.Format("2006-01-02") != from.Format("2006-01-02") {
		to = "-" + end.Format("2006-01-02")
	}

	path = filepath.Join(path, "klines", klines[0].Interval.String())

	fileName = filepath.Join(path, fmt.Sprintf("%s-%s%s.csv",
		symbol,
		from.Format("2006-01-02"),
		to,
	))

	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		err := os.MkdirAll(path, os.ModePerm)
		if err != nil {
			return "", fmt.Errorf("mkdir %s: %w", path, err)
		}
	}

	file, err := os.Create(fileName)
	if err != nil {
		return "", errors.Wrap(err, "failed to open file")
	}
	defer func() {
		if cerr := file.Close(); cerr != nil && err == nil {
			err = errors.Wrap(cerr, "failed to close file")
		}
	}()

	w := csv.NewWriter(file)
	for _, kline := range klines {
		row := []string{
			strconv.FormatInt(kline.StartTime.UnixMilli(), 10),
			formatFloat(kline.Open),
			formatFloat(kline.High),
			formatFloat(kline.Low),
			formatFloat(kline.Close),
			formatFloat(kline.Volume),
		}
		if err := w.Write(row); err != nil {
			return "", errors.Wrap(err, "writing record to file")
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return "", errors.Wrap(err, "flushing records")
	}

	return fileName, nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
