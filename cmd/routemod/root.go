package main

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/walteh/routemod/cmd/routemod/commands"
)

var (
	// Flags
	configFile string
	debug      bool
)

func newRootCmd() *cobra.Command {
	opts := &commands.RootOpts{}

	cmd := &cobra.Command{
		Use:           "routemod",
		Short:         "Batch source transformation for dynamic route trees",
		Long:          "routemod walks a route tree, applies the configured rewrite rules behind\nidempotence guards, writes changed files back in place, and reports one\nline per modified file plus a trailing total.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			setupLogging()
			opts.ConfigFile = configFile
		},
	}

	cmd.PersistentFlags().StringVarP(&configFile, "config", "c", ".routemod.yaml", "config file path")
	cmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "enable debug logging")

	cmd.AddCommand(commands.NewRunCmd(opts))
	cmd.AddCommand(commands.NewScanCmd(opts))
	cmd.AddCommand(commands.NewWatchCmd(opts))

	return cmd
}

// setupLogging configures zerolog based on flags
func setupLogging() {
	if debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
	log := zerolog.New(os.Stderr).With().Timestamp().Logger()
	zerolog.DefaultContextLogger = &log
}
