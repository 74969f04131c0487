package cmd

import (
	"bytes"
	"context"
	"testing"

	"github.com/fatih/color"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c9s/zigzag/pkg/strategy/zigzag"
	"github.com/c9s/zigzag/pkg/types"
)

func newScanFlags(t *testing.T, args ...string) *pflag.FlagSet {
	flags := pflag.NewFlagSet("scan", pflag.ContinueOnError)
	flags.String("config", "", "config file")
	defineScanFlags(flags)
	require.NoError(t, flags.Parse(args))
	return flags
}

func TestLoadScanConfig_Flags(t *testing.T) {
	flags := newScanFlags(t,
		"--symbol", "BTCUSDT",
		"--file", "testdata/zigzag-1d.csv",
		"--depth", "4",
		"--mode", "Strict Uptrend",
		"--start-time", "2021-01-10",
	)

	conf, err := loadScanConfig(flags)
	require.NoError(t, err)

	assert.Equal(t, 4, conf.ZigZag.Depth)
	assert.Equal(t, 5.0, conf.ZigZag.DevThreshold)
	assert.Equal(t, zigzag.ModeStrictUptrend, conf.ZigZag.Mode)
	assert.Equal(t, types.Interval1d, conf.ZigZag.Interval)
	require.NotNil(t, conf.ZigZag.StartTime)
	assert.Equal(t, "2021-01-10", conf.ZigZag.StartTime.Time().Format("2006-01-02"))
	assert.Nil(t, conf.ZigZag.EndTime)

	require.Len(t, conf.Sessions, 1)
	assert.Equal(t, "BTCUSDT", conf.Sessions[0].Symbol)
	assert.Equal(t, "binance", string(conf.Sessions[0].Format))
}

func TestLoadScanConfig_MissingSymbol(t *testing.T) {
	_, err := loadScanConfig(newScanFlags(t, "--file", "testdata/zigzag-1d.csv"))
	assert.Error(t, err)

	_, err = loadScanConfig(newScanFlags(t, "--end-time", "tomorrow", "--symbol", "BTCUSDT", "--file", "x.csv"))
	assert.Error(t, err)
}

func TestLoadScanConfig_ConfigFileWithOverride(t *testing.T) {
	conf, err := loadScanConfig(newScanFlags(t, "--config", "testdata/scan.yaml", "--depth", "4"))
	require.NoError(t, err)

	// only the explicitly given flags override the config file
	assert.Equal(t, 4, conf.ZigZag.Depth)
	assert.Equal(t, 5.0, conf.ZigZag.DevThreshold)
	assert.Equal(t, zigzag.ModeStrictUptrendAndDowntrend, conf.ZigZag.Mode)
	require.Len(t, conf.Sessions, 1)
	assert.Equal(t, []string{"testdata/zigzag-1d.csv"}, []string(conf.Sessions[0].Files))
}

func TestLoadScanConfig_ZeroDevThreshold(t *testing.T) {
	conf, err := loadScanConfig(newScanFlags(t, "--config", "testdata/scan.yaml", "--dev-threshold", "0"))
	require.NoError(t, err)
	assert.Equal(t, 0.0, conf.ZigZag.DevThreshold)

	conf, err = loadScanConfig(newScanFlags(t, "--symbol", "BTCUSDT", "--file", "testdata/zigzag-1d.csv", "--dev-threshold", "0"))
	require.NoError(t, err)
	assert.Equal(t, 0.0, conf.ZigZag.DevThreshold)

	jobs, err := conf.Jobs()
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	assert.Equal(t, 0.0, jobs[0].Strategy.DevThreshold)
}

func TestRunScan(t *testing.T) {
	conf, err := loadScanConfig(newScanFlags(t, "--config", "testdata/scan.yaml", "--depth", "4"))
	require.NoError(t, err)

	jobs, err := conf.Jobs()
	require.NoError(t, err)
	require.Len(t, jobs, 1)

	results, err := runScan(context.Background(), jobs, 2)
	require.NoError(t, err)
	require.Len(t, results, 1)

	result := results[0]
	assert.Equal(t, 33, result.Bars)
	assert.Equal(t, 6, result.Job.Strategy.NumOfPivots())
	require.True(t, result.HasLast)
	assert.True(t, result.Last.Determinate)
	assert.True(t, result.Last.Trend.Uptrend)
	assert.Equal(t, 135.0, result.Last.Close)

	assert.Equal(t, 150.5, result.Peaks[2].Price)
	assert.Equal(t, 28, result.Peaks[2].Index)
	assert.Equal(t, 140.5, result.Peaks[1].Price)
	assert.Equal(t, 114.5, result.Troughs[2].Price)
	assert.Equal(t, 109.5, result.Troughs[1].Price)
	assert.NotEmpty(t, result.Changes)

	noColor := color.NoColor
	color.NoColor = true
	defer func() { color.NoColor = noColor }()

	var buf bytes.Buffer
	printSummary(&buf, results)
	assert.Contains(t, buf.String(), "zigzag:BTCUSDT:5:4")
	assert.Contains(t, buf.String(), "150.5000")
	assert.Contains(t, buf.String(), "uptrend")

	buf.Reset()
	printPivots(&buf, result)
	assert.Contains(t, buf.String(), "newest")
	assert.Contains(t, buf.String(), "114.5000")

	buf.Reset()
	printSignals(&buf, result)
	assert.Contains(t, buf.String(), "trend changes")
}

func TestRunScan_MissingFile(t *testing.T) {
	conf, err := loadScanConfig(newScanFlags(t, "--symbol", "BTCUSDT", "--file", "testdata/missing.csv"))
	require.NoError(t, err)

	jobs, err := conf.Jobs()
	require.NoError(t, err)

	_, err = runScan(context.Background(), jobs, 0)
	assert.Error(t, err)
}

func TestRunScan_Canceled(t *testing.T) {
	conf, err := loadScanConfig(newScanFlags(t, "--symbol", "BTCUSDT", "--file", "testdata/zigzag-1d.csv"))
	require.NoError(t, err)

	jobs, err := conf.Jobs()
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = runScan(ctx, jobs, 1)
	assert.ErrorIs(t, err, context.Canceled)
}
