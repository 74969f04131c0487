package cmd

import (
	"context"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/c9s/zigzag/pkg/datasource/csvsource"
	"github.com/c9s/zigzag/pkg/types"
)

func init() {
	ConvertCmd.Flags().String("symbol", "", "the symbol used in the output file name")
	ConvertCmd.Flags().String("file", "", "the source csv file or directory")
	ConvertCmd.Flags().String("format", string(csvsource.FormatAkshare), "source csv format: binance, metatrader or akshare")
	ConvertCmd.Flags().String("interval", string(types.Interval1d), "kline interval of the source data")
	ConvertCmd.Flags().String("output", "data", "output directory, files are written to <output>/klines/<interval>/")
	ConvertCmd.Flags().Bool("skip-invalid", false, "skip malformed records instead of failing")
	RootCmd.AddCommand(ConvertCmd)
}

// ConvertCmd rewrites csv files of any supported format into the binance layout
var ConvertCmd = &cobra.Command{
	Use:          "convert",
	Short:        "convert kline csv files into the binance csv layout",
	Example:      "  zigzag convert --symbol 000001 --file data/000001.csv --format akshare --output data",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		symbol, err := cmd.Flags().GetString("symbol")
		if err != nil {
			return err
		}

		file, err := cmd.Flags().GetString("file")
		if err != nil {
			return err
		}

		format, err := cmd.Flags().GetString("format")
		if err != nil {
			return err
		}

		interval, err := cmd.Flags().GetString("interval")
		if err != nil {
			return err
		}

		output, err := cmd.Flags().GetString("output")
		if err != nil {
			return err
		}

		skipInvalid, err := cmd.Flags().GetBool("skip-invalid")
		if err != nil {
			return err
		}

		fileName, err := convertKLines(&csvsource.StreamConfig{
			Symbol:      symbol,
			Interval:    types.Interval(interval),
			CsvPaths:    []string{file},
			Format:      csvsource.Format(format),
			SkipInvalid: skipInvalid,
		}, output)
		if err != nil {
			return err
		}

		log.Infof("klines are written to %s", fileName)
		return nil
	},
}

func convertKLines(cfg *csvsource.StreamConfig, output string) (string, error) {
	if cfg.Symbol == "" {
		return "", errors.New("--symbol is required")
	}

	if len(cfg.CsvPaths) == 0 || cfg.CsvPaths[0] == "" {
		return "", errors.New("--file is required")
	}

	if err := cfg.Interval.Validate(); err != nil {
		return "", err
	}

	source, err := csvsource.OpenStream(cfg)
	if err != nil {
		return "", errors.Wrapf(err, "unable to read %v", cfg.CsvPaths)
	}

	var klines []types.KLine
	source.OnKLineClosed(func(k types.KLine) {
		klines = append(klines, k)
	})

	if err := source.Run(context.Background()); err != nil {
		return "", err
	}

	return csvsource.WriteKLines(output, cfg.Symbol, klines)
}
