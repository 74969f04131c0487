package cmd

import (
	"context"
	"fmt"
	"io"
	"math"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"golang.org/x/sync/errgroup"

	"github.com/c9s/zigzag/pkg/config"
	"github.com/c9s/zigzag/pkg/datasource/csvsource"
	"github.com/c9s/zigzag/pkg/dynamic"
	"github.com/c9s/zigzag/pkg/envvar"
	indicatorv2 "github.com/c9s/zigzag/pkg/indicator/v2"
	"github.com/c9s/zigzag/pkg/strategy/zigzag"
	"github.com/c9s/zigzag/pkg/style"
	"github.com/c9s/zigzag/pkg/types"
	"github.com/c9s/zigzag/pkg/util"
)

func init() {
	defineScanFlags(ScanCmd.Flags())
	RootCmd.AddCommand(ScanCmd)
}

func defineScanFlags(flags *pflag.FlagSet) {
	flags.String("symbol", "", "the symbol of the csv data, required without --config")
	flags.StringSlice("file", nil, "kline csv file or directory, can be repeated")
	flags.String("format", string(csvsource.FormatBinance), "csv format: binance, metatrader or akshare")
	flags.String("interval", string(types.Interval1d), "kline interval of the csv data")
	flags.Float64("dev-threshold", indicatorv2.DefaultZigZagDeviation, "minimal reversal in percent to confirm a pivot")
	flags.Int("depth", indicatorv2.DefaultZigZagDepth, "pivot window, pivots are tested depth/2 bars back")
	flags.String("mode", string(zigzag.ModeStrictUptrendAndDowntrend), "trend mode")
	flags.String("start-time", "", "signal window start, e.g. 2021-01-01")
	flags.String("end-time", "", "signal window end, e.g. 2021-12-31")
	flags.Int("parallel", runtime.NumCPU(), "number of streams scanned concurrently")
	flags.Bool("signals", false, "print the trend changes inside the signal window")
	flags.Bool("pivots", false, "print the peak and trough history")
	flags.Bool("print-config", false, "print the strategy config of every instance")
	flags.Bool("skip-invalid", false, "skip malformed csv records instead of failing")
	flags.Bool("hold", false, "keep the metrics endpoint up after the scan until interrupted")
}

// scanResult collects the signals of one job
type scanResult struct {
	Job config.Job

	Bars     int
	Last     zigzag.Signal
	HasLast  bool
	Changes  []zigzag.Signal
	Peaks    [3]indicatorv2.Pivot
	Troughs  [3]indicatorv2.Pivot
	Replaced bool
}

var ScanCmd = &cobra.Command{
	Use:   "scan",
	Short: "scan kline csv files for zigzag pivots and trend changes",
	Example: `  zigzag scan --config config/zigzag.yaml
  zigzag scan --symbol 000001 --file data/000001.csv --format akshare --mode "above swing low"`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		conf, err := loadScanConfig(cmd.Flags())
		if err != nil {
			return err
		}

		jobs, err := conf.Jobs()
		if err != nil {
			return errors.Wrap(err, "invalid scan config")
		}

		if len(jobs) == 0 {
			return errors.New("nothing to scan, please define sessions in the config or use --symbol and --file")
		}

		parallel, err := cmd.Flags().GetInt("parallel")
		if err != nil {
			return err
		}

		ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer cancel()

		if viper.GetBool("metrics") {
			serveMetrics(ctx, viper.GetString("metrics-addr"))

			for _, job := range jobs {
				if err := dynamic.InitializeConfigMetrics(job.Strategy); err != nil {
					return err
				}
			}
		}

		out := cmd.OutOrStdout()

		if printConfig, _ := cmd.Flags().GetBool("print-config"); printConfig {
			for _, job := range jobs {
				if err := dynamic.PrintConfig(job.Strategy, out, style.NewTableStyle(), !color.NoColor); err != nil {
					return err
				}
			}
		}

		results, err := runScan(ctx, jobs, parallel)
		if err != nil {
			return err
		}

		printSummary(out, results)

		if showPivots, _ := cmd.Flags().GetBool("pivots"); showPivots {
			for _, result := range results {
				printPivots(out, result)
			}
		}

		if showSignals, _ := cmd.Flags().GetBool("signals"); showSignals {
			for _, result := range results {
				printSignals(out, result)
			}
		}

		if hold, _ := cmd.Flags().GetBool("hold"); hold && viper.GetBool("metrics") {
			log.Infof("scan finished, serving metrics until interrupted")
			<-ctx.Done()
		}

		return nil
	},
}

func loadScanConfig(flags *pflag.FlagSet) (*config.Config, error) {
	configFile, err := flags.GetString("config")
	if err != nil {
		return nil, err
	}

	var conf *config.Config
	if configFile != "" {
		conf, err = config.Load(configFile)
		if err != nil {
			return nil, err
		}
	} else {
		conf = &config.Config{ZigZag: zigzag.New()}
	}

	// without a config file every flag applies, otherwise only the explicitly given ones
	override := func(name string) bool {
		return configFile == "" || flags.Changed(name)
	}

	st := conf.ZigZag
	if override("dev-threshold") {
		if st.DevThreshold, err = flags.GetFloat64("dev-threshold"); err != nil {
			return nil, err
		}
	}

	if override("depth") {
		if st.Depth, err = flags.GetInt("depth"); err != nil {
			return nil, err
		}
	}

	if override("mode") {
		mode, err := flags.GetString("mode")
		if err != nil {
			return nil, err
		}
		st.Mode = zigzag.Mode(mode)
	}

	if override("interval") {
		interval, err := flags.GetString("interval")
		if err != nil {
			return nil, err
		}
		st.Interval = types.Interval(interval)
	}

	for name, field := range map[string]**types.LooseFormatTime{
		"start-time": &st.StartTime,
		"end-time":   &st.EndTime,
	} {
		s, err := flags.GetString(name)
		if err != nil {
			return nil, err
		}

		if s == "" {
			continue
		}

		t, err := types.ParseLooseTime(s)
		if err != nil {
			return nil, errors.Wrapf(err, "invalid --%s", name)
		}

		lt := types.LooseFormatTime(t)
		*field = &lt
	}

	if err := st.Defaults(); err != nil {
		return nil, err
	}

	if override("file") {
		symbol, err := flags.GetString("symbol")
		if err != nil {
			return nil, err
		}

		files, err := flags.GetStringSlice("file")
		if err != nil {
			return nil, err
		}

		format, err := flags.GetString("format")
		if err != nil {
			return nil, err
		}

		if symbol == "" || len(files) == 0 {
			return nil, errors.New("--symbol and --file are required when --config is not given")
		}

		conf.Sessions = []config.Session{{
			Symbol: symbol,
			Files:  files,
			Format: csvsource.Format(format),
		}}
	}

	if override("skip-invalid") {
		skipInvalid, err := flags.GetBool("skip-invalid")
		if err != nil {
			return nil, err
		}

		for i := range conf.Sessions {
			conf.Sessions[i].SkipInvalid = skipInvalid
		}
	}

	return conf, nil
}

// runScan runs every job on its own stream, at most parallel jobs at a time
func runScan(ctx context.Context, jobs []config.Job, parallel int) ([]*scanResult, error) {
	results := make([]*scanResult, len(jobs))

	g, ctx := errgroup.WithContext(ctx)
	if parallel > 0 {
		g.SetLimit(parallel)
	}

	for i, job := range jobs {
		i, job := i, job
		g.Go(func() error {
			result, err := runJob(ctx, job)
			if err != nil {
				return errors.Wrapf(err, "scan %s failed", job.Strategy.InstanceID())
			}

			results[i] = result
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return results, nil
}

func runJob(ctx context.Context, job config.Job) (*scanResult, error) {
	source, err := csvsource.OpenStream(job.Stream)
	if err != nil {
		return nil, err
	}

	result := &scanResult{Job: job}

	klines := indicatorv2.KLines(source, job.Stream.Symbol, job.Stream.Interval)
	stream := job.Strategy.Bind(klines)
	job.Strategy.OnSignal(func(sig zigzag.Signal) {
		result.Bars++
		result.Last = sig
		result.HasLast = true
		if sig.Changed && sig.InWindow {
			result.Changes = append(result.Changes, sig)
		}
	})

	log.Debugf("%s: replaying %d klines", job.Strategy.InstanceID(), source.Len())

	profile := util.StartTimeProfile(job.Strategy.InstanceID())
	if err := source.Run(ctx); err != nil {
		return nil, err
	}
	profile.Bars = result.Bars
	profile.StopAndLog(log.Debugf)

	result.Peaks = stream.PeakHistory()
	result.Troughs = stream.TroughHistory()
	result.Replaced = stream.LastReplaced()
	return result, nil
}

func serveMetrics(ctx context.Context, addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()

		timeout, _ := envvar.Duration("ZIGZAG_METRICS_SHUTDOWN_TIMEOUT", 3*time.Second)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		util.LogErr(srv.Shutdown(shutdownCtx), "metrics server shutdown error")
	}()

	go func() {
		log.Infof("serving metrics on %s/metrics", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Error("metrics server error")
		}
	}()
}

func trendLabel(sig zigzag.Signal) string {
	if !sig.Determinate {
		return style.DirectionString(types.DirectionNone, "n/a")
	}

	return style.DirectionString(sig.Trend.Direction(), sig.Trend.String())
}

func formatPrice(v float64) string {
	if math.IsNaN(v) {
		return "-"
	}
	return fmt.Sprintf("%.4f", v)
}

func printSummary(w io.Writer, results []*scanResult) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(*style.NewTableStyle())
	t.SetTitle("ZigZag Scan")
	t.AppendHeader(table.Row{"instance", "mode", "bars", "pivots", "changes", "close", "prev peak", "peak", "prev trough", "trough", "trend"})

	for _, result := range results {
		st := result.Job.Strategy
		sig := result.Last
		if !result.HasLast {
			sig.Levels = zigzag.Levels{PreviousPeak: math.NaN(), Peak: math.NaN(), PreviousTrough: math.NaN(), Trough: math.NaN()}
			sig.Close = math.NaN()
		}

		t.AppendRow(table.Row{
			st.InstanceID(),
			st.Mode.String(),
			result.Bars,
			st.NumOfPivots(),
			len(result.Changes),
			formatPrice(sig.Close),
			formatPrice(sig.Levels.PreviousPeak),
			formatPrice(sig.Levels.Peak),
			formatPrice(sig.Levels.PreviousTrough),
			formatPrice(sig.Levels.Trough),
			trendLabel(sig),
		})
	}

	t.Render()
}

func printPivots(w io.Writer, result *scanResult) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(*style.NewTableStyle())
	t.SetTitle(result.Job.Strategy.InstanceID() + " pivots")
	t.AppendHeader(table.Row{"kind", "slot", "bar", "time", "price"})

	slots := [3]string{"oldest", "previous", "newest"}
	for _, history := range [][3]indicatorv2.Pivot{result.Peaks, result.Troughs} {
		for i, p := range history {
			if p.IsSentinel() {
				continue
			}

			t.AppendRow(table.Row{p.Kind.String(), slots[i], p.Index, p.Time.Format("2006-01-02 15:04"), formatPrice(p.Price)})
		}
	}

	if result.Replaced {
		t.AppendFooter(table.Row{"", "", "", "last pivot extended", ""})
	}

	t.Render()
}

func printSignals(w io.Writer, result *scanResult) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(*style.NewTableStyle())
	t.SetTitle(result.Job.Strategy.InstanceID() + " trend changes")
	t.AppendHeader(table.Row{"time", "close", "prev peak", "peak", "prev trough", "trough", "trend"})

	for _, sig := range result.Changes {
		t.AppendRow(table.Row{
			sig.Time.Format("2006-01-02 15:04"),
			formatPrice(sig.Close),
			formatPrice(sig.Levels.PreviousPeak),
			formatPrice(sig.Levels.Peak),
			formatPrice(sig.Levels.PreviousTrough),
			formatPrice(sig.Levels.Trough),
			trendLabel(sig),
		})
	}

	t.Render()
}
