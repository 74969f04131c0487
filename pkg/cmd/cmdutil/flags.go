package cmdutil

import "github.com/spf13/pflag"

// PersistentFlags defines the flags for environments
func PersistentFlags(flags *pflag.FlagSet) {
	flags.Bool("metrics", false, "enable prometheus metrics")
	flags.String("metrics-addr", ":9100", "the address of the prometheus metrics endpoint, effective with --metrics")
	flags.Bool("no-color", false, "disable colored output")
}
