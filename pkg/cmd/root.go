package cmd

import (
	"os"
	"path"
	"strings"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/rifflock/lfshook"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	prefixed "github.com/x-cray/logrus-prefixed-formatter"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/c9s/zigzag/pkg/cmd/cmdutil"
	"github.com/c9s/zigzag/pkg/envvar"
)

var RootCmd = &cobra.Command{
	Use:   "zigzag",
	Short: "zigzag pivot scanner",
	Long:  "detect swing highs and lows from kline csv files and classify the trend",

	// SilenceUsage is an option to silence usage when an error occurs.
	SilenceUsage: true,

	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		dotenvFile, err := cmd.Flags().GetString("dotenv")
		if err != nil {
			return err
		}

		if err := loadDotenv(dotenvFile, ".env"); err != nil {
			return err
		}

		if viper.GetBool("no-color") {
			color.NoColor = true
		}

		return setupLogger(log.StandardLogger())
	},

	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

func init() {
	RootCmd.PersistentFlags().Bool("debug", false, "debug flag")
	RootCmd.PersistentFlags().String("config", "", "config file")
	RootCmd.PersistentFlags().String("dotenv", ".env.local", "the dotenv file you want to load")

	// A flag can be 'persistent' meaning that this flag will be available to
	// the command it's assigned to as well as every command under that command.
	// For global flags, assign a flag as a persistent flag on the root.
	cmdutil.PersistentFlags(RootCmd.PersistentFlags())
}

// loadDotenv loads the existing dotenv files, the variables already set are not overwritten
func loadDotenv(files ...string) error {
	for _, dotenvFile := range files {
		if dotenvFile == "" {
			continue
		}

		if _, err := os.Stat(dotenvFile); err != nil {
			continue
		}

		if err := godotenv.Load(dotenvFile); err != nil {
			return errors.Wrapf(err, "error loading dotenv file %s", dotenvFile)
		}
	}

	return nil
}

func setupLogger(logger *log.Logger) error {
	logger.SetFormatter(&prefixed.TextFormatter{})

	if viper.GetBool("debug") {
		logger.SetLevel(log.DebugLevel)
	}

	environment, _ := envvar.String("ZIGZAG_ENV")
	switch environment {
	case "production", "prod":
		writer := &lumberjack.Logger{
			Filename:   path.Join("log", "zigzag.log"),
			MaxSize:    100, // megabytes
			MaxBackups: 7,
			MaxAge:     28, // days
			Compress:   true,
		}

		logger.AddHook(
			lfshook.NewHook(
				lfshook.WriterMap{
					log.DebugLevel: writer,
					log.InfoLevel:  writer,
					log.WarnLevel:  writer,
					log.ErrorLevel: writer,
					log.FatalLevel: writer,
				},
				&log.JSONFormatter{},
			),
		)
	}

	return nil
}

func Execute() {
	viper.SetEnvPrefix("ZIGZAG")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))

	// Enable environment variable binding, the env vars are not overloaded yet.
	viper.AutomaticEnv()

	// Once the flags are defined, we can bind config keys with flags.
	if err := viper.BindPFlags(RootCmd.PersistentFlags()); err != nil {
		log.WithError(err).Errorf("failed to bind persistent flags. please check the flag settings.")
	}

	if err := viper.BindPFlags(RootCmd.Flags()); err != nil {
		log.WithError(err).Errorf("failed to bind local flags. please check the flag settings.")
	}

	if err := RootCmd.Execute(); err != nil {
		log.WithError(err).Fatalf("cannot execute command")
	}
}
