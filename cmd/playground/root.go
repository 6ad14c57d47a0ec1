package main

import (
	"time"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

// rootOptions are the flags of the root command.
type rootOptions struct {
	configPath  string
	template    string
	height      int
	fileName    string
	watch       bool
	interval    time.Duration
	metricsAddr string
	logFile     string
	verbose     bool
}

func newRootCmd(fsys afero.Fs) *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:   "playground [file]",
		Short: "Edit and run Go snippets in the terminal",
		Long: `playground opens an editor next to a live Result/Console pane.

Code runs in a sandboxed interpreter on every edit. Output written with the
playground/console package appears in the Console tab. Reset restores the
code the playground was opened with.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlayground(cmd, fsys, opts, args)
		},
	}

	flags := rootCmd.Flags()
	rootCmd.PersistentFlags().StringVar(&opts.configPath, "config", "",
		"config file (default is $XDG_CONFIG_HOME/playground/config.yaml)")
	flags.StringVarP(&opts.template, "template", "t", "",
		"execution template: vanilla, go or markdown")
	flags.IntVar(&opts.height, "height", 0, "content height in rows (0 fills the terminal)")
	flags.StringVar(&opts.fileName, "file-name", "", "file name shown in the header")
	flags.BoolVarP(&opts.watch, "watch", "w", false, "reload the code when the file changes on disk")
	flags.DurationVar(&opts.interval, "watch-interval", 0, "polling interval for --watch")
	flags.StringVar(&opts.metricsAddr, "metrics-addr", "",
		"serve Prometheus metrics on this address, e.g. localhost:9090")
	flags.StringVar(&opts.logFile, "log-file", "", "write logs to this file")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(
		newConfigCmd(fsys, opts),
		newVersionCmd(),
	)

	return rootCmd
}
