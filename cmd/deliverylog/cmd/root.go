// Package cmd is the deliverylog command tree. Each subcommand is one of
// the application's views; all of them load fresh state on every
// invocation, so no view ever shows stale records.
package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/exp/slog"

	"deliverylog/internal/app"
	"deliverylog/internal/config"
	"deliverylog/internal/logging"
)

var (
	cfgFile string
	debug   bool

	cfg         *config.Config
	log         *slog.Logger
	application *app.App
)

// errSilent signals a failure already reported to the user; Execute exits
// non-zero without printing it again.
var errSilent = errors.New("silent")

var rootCmd = &cobra.Command{
	Use:   "deliverylog",
	Short: "Record deliveries with a photo, timestamp and GPS coordinate",
	Long: `deliverylog keeps a local log of delivery events: a name, an optional
description, a photo, the capture time and the GPS coordinate.

Records live in a private data directory; nothing ever leaves the device.
Browse them as a list, one by one, or framed on a map.`,
	PersistentPreRunE: setupApp,
	SilenceUsage:      true,
	SilenceErrors:     true,
}

func Execute() {
	err := rootCmd.Execute()
	if application != nil {
		_ = application.Close()
	}
	if err != nil {
		if !errors.Is(err, errSilent) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}

func setupApp(_ *cobra.Command, _ []string) error {
	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}
	if debug {
		cfg.Env = config.EnvLocal
	}

	log = logging.New(cfg.Env)

	application, err = app.New(cfg, log)
	if err != nil {
		return fmt.Errorf("initialize application: %w", err)
	}
	return nil
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "configuration file")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug output")
}
