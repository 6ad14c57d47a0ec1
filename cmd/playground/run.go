package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/inkpad/playground/internal/config"
	"github.com/inkpad/playground/internal/observability"
	"github.com/inkpad/playground/internal/playground"
	"github.com/inkpad/playground/internal/sandbox"
)

const metricsShutdownTimeout = 2 * time.Second

var errWatchNeedsFile = errors.New("--watch requires a file argument")

// defaultGoCode is opened when no file is given.
const defaultGoCode = `package main

import (
	"fmt"

	"playground/console"
)

func main() {
	fmt.Println("Hello, playground!")
	console.Log("answer", map[string]int{"value": 42})
}
`

const defaultMarkdown = `# Hello, playground!

Edit this text to update the preview.
`

func runPlayground(cmd *cobra.Command, fsys afero.Fs, opts *rootOptions, args []string) error {
	cfg, err := config.Load(fsys, opts.configPath)
	if err != nil {
		return err
	}
	applyFlags(cmd, &cfg, opts)
	if err := cfg.Validate(); err != nil {
		return err
	}

	var path string
	if len(args) > 0 {
		path = args[0]
	}
	if opts.watch && path == "" {
		return errWatchNeedsFile
	}

	logger, err := observability.NewCoreLogger(observability.CoreLoggerParams{
		Path:      cfg.Log.File,
		Verbose:   cfg.Log.Verbose,
		SentryDSN: cfg.Log.SentryDSN,
	})
	if err != nil {
		return fmt.Errorf("playground: create logger: %w", err)
	}
	defer logger.Sync()
	if logger.ReportsErrors() {
		logger.Debug("playground: error reporting enabled")
	}

	code, err := loadSource(fsys, path, cfg.Template)
	if err != nil {
		return err
	}
	if path != "" && !cmd.Flags().Changed("file-name") {
		cfg.FileName = filepath.Base(path)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	rt := sandbox.NewRuntime(logger)
	defer rt.Close()

	opt := sandboxOptions(cfg.Sandbox)
	params := playground.ShellParams{
		Props: playground.Props{
			Code:       code,
			TemplateID: cfg.Template,
			Height:     cfg.Height,
			FileName:   cfg.FileName,
		},
		Executor:   playground.NewSandboxExecutor(rt),
		Options:    &opt,
		SplitRatio: cfg.Split.InitialRatio,
		SplitBounds: playground.SplitBounds{
			Min: cfg.Split.MinRatio,
			Max: cfg.Split.MaxRatio,
		},
		Logger:  logger,
		Metrics: playground.NewMetrics(reg),
	}
	if opts.watch {
		params.Watch = &playground.WatchParams{Fs: fsys, Path: path, Interval: opts.interval}
	}

	shell := playground.NewShell(params)
	defer shell.Close()

	logger.Info("playground: starting",
		"template", cfg.Template, "file", path, "watch", opts.watch)
	return serve(cmd.Context(), shell, reg, opts.metricsAddr, logger)
}

// serve runs the program and, if addr is set, the metrics endpoint. It
// returns when the program exits or either of them fails.
func serve(
	ctx context.Context,
	shell *playground.Shell,
	reg *prometheus.Registry,
	addr string,
	logger *observability.CoreLogger,
) error {
	g, gctx := errgroup.WithContext(ctx)
	programCtx, stop := context.WithCancel(gctx)
	defer stop()

	program := tea.NewProgram(shell,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithReportFocus(),
		tea.WithContext(programCtx),
	)

	g.Go(func() error {
		defer stop()
		_, err := program.Run()
		if errors.Is(err, tea.ErrProgramKilled) && gctx.Err() != nil {
			// Another goroutine failed; its error is reported.
			return nil
		}
		return err
	})

	if addr != "" {
		srv := &http.Server{
			Addr:              addr,
			Handler:           promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}),
			ReadHeaderTimeout: 5 * time.Second,
		}
		g.Go(func() error {
			logger.Info("playground: serving metrics", "addr", addr)
			if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("playground: metrics server: %w", err)
			}
			return nil
		})
		g.Go(func() error {
			<-programCtx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), metricsShutdownTimeout)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		})
	}

	return g.Wait()
}

// applyFlags overrides configuration values with the flags that were set.
func applyFlags(cmd *cobra.Command, cfg *config.Config, opts *rootOptions) {
	flags := cmd.Flags()
	if flags.Changed("template") {
		cfg.Template = opts.template
	}
	if flags.Changed("height") {
		cfg.Height = opts.height
	}
	if flags.Changed("file-name") {
		cfg.FileName = opts.fileName
	}
	if flags.Changed("log-file") {
		cfg.Log.File = opts.logFile
	}
	if flags.Changed("verbose") {
		cfg.Log.Verbose = opts.verbose
	}
}

// loadSource returns the initial code: the file at path, or a sample for
// the template when path is empty.
func loadSource(fsys afero.Fs, path, templateID string) (string, error) {
	if path == "" {
		if templateID == sandbox.TemplateMarkdown {
			return defaultMarkdown, nil
		}
		return defaultGoCode, nil
	}

	data, err := afero.ReadFile(fsys, path)
	if err != nil {
		return "", fmt.Errorf("playground: read source: %w", err)
	}
	return string(data), nil
}

func sandboxOptions(c config.SandboxConfig) sandbox.Options {
	return sandbox.Options{
		ShowLineNumbers:   c.ShowLineNumbers,
		ShowInlineErrors:  c.ShowInlineErrors,
		AutoRun:           c.AutoRun,
		AutoReload:        c.AutoReload,
		RecompileDelay:    c.RecompileDelay,
		RunTimeout:        c.RunTimeout,
		MessagesPerSecond: c.MessagesPerSecond,
		MessageBurst:      c.MessageBurst,
	}
}
