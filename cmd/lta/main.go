// lta classifies layout-test information into whole, skip and nonskip
// buckets, diffs it against the last stored snapshot and reports the
// result as HTML, CSV, terminal views and status mail.
//
// Usage:
//
//	lta analyze testinfo.json --html report.html --mail-to team@example.com
//	lta latest
//	lta show 2011-08-19-14 --against 2011-08-18-10
//	lta trend --runs 30
//	lta view
//
// Output modes for terminal views (auto-detected):
//
//	terminal  styled Unicode output (default when TTY)
//	llm       terse plain text for AI consumption (default when piped)
//	json      structured JSON for automation
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/dkoosis/lta/internal/config"
	"github.com/dkoosis/lta/internal/log"
	"github.com/dkoosis/lta/internal/version"
	"github.com/dkoosis/lta/pkg/mail"
	"github.com/dkoosis/lta/pkg/render"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return newApp(stdin, stdout, stderr).run(ctx, args)
}

// exitError carries a specific process exit code.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }

// errRegression is returned by analyze --fail-on-regression.
var errRegression = errors.New("regression detected")

// app is the state shared by all subcommands of one invocation.
type app struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer

	now       func() time.Time
	newSender func(addr string) mail.Sender

	// populated by the root command's PersistentPreRunE
	cfg    *config.AppConfig
	logger *log.Logger
	theme  render.Theme

	configPath string
	flags      config.Flags
	format     string
	logFormat  string
}

func newApp(stdin io.Reader, stdout, stderr io.Writer) *app {
	return &app{
		stdin:  stdin,
		stdout: stdout,
		stderr: stderr,
		now:    time.Now,
		newSender: func(addr string) mail.Sender {
			return mail.NewSMTPSender(addr, nil)
		},
	}
}

func (a *app) run(ctx context.Context, args []string) int {
	root := a.rootCmd()
	root.SetArgs(args)
	root.SetIn(a.stdin)
	root.SetOut(a.stdout)
	root.SetErr(a.stderr)

	err := root.ExecuteContext(ctx)
	if err == nil {
		return 0
	}
	var ee *exitError
	if errors.As(err, &ee) {
		if !errors.Is(ee.err, errRegression) {
			fmt.Fprintf(a.stderr, "lta: %v\n", ee.err)
		}
		return ee.code
	}
	fmt.Fprintf(a.stderr, "lta: %v\n", err)
	return 2
}

func (a *app) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "lta",
		Short:         "Layout test analyzer",
		Long:          "lta classifies layout-test information, diffs it against the last stored snapshot and reports the result.",
		Version:       version.String(),
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.configPath, "config", "", "config file (default: ./.lta.yaml, then the user config dir)")
	pf.StringVar(&a.flags.ResultDir, "result-dir", "", "directory of stored snapshots")
	pf.StringVar(&a.flags.Annotations, "annotations", "", "bug annotation file (YAML)")
	pf.StringVar(&a.flags.HistoryDB, "history-db", "", "run history database")
	pf.StringVar(&a.flags.TestGroup, "test-group", "", "test group name used in reports and history")
	pf.StringVar(&a.flags.Theme, "theme", "", "terminal theme: default, orca, mono")
	pf.StringVar(&a.format, "format", "auto", "output format: auto, terminal, llm, json")
	pf.BoolVar(&a.flags.NoColor, "no-color", false, "disable colors in terminal output")
	pf.BoolVar(&a.flags.Debug, "debug", false, "enable debug logging")
	pf.StringVar(&a.logFormat, "log-format", "", "log format: text, json")

	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &exitError{code: 2, err: err}
	})

	root.AddCommand(
		a.analyzeCmd(),
		a.latestCmd(),
		a.showCmd(),
		a.trendCmd(),
		a.viewCmd(),
	)
	return root
}

// setup loads configuration and builds the logger once flags are parsed.
func (a *app) setup(cmd *cobra.Command) error {
	switch a.format {
	case "auto", "terminal", "llm", "json":
	default:
		return fmt.Errorf("unknown format %q (expected auto, terminal, llm, json)", a.format)
	}
	a.flags.NoColorSet = cmd.Flags().Changed("no-color")

	bootstrap := log.New(log.Config{Level: log.DefaultConfig().Level, Output: a.stderr})
	var base *config.AppConfig
	if a.configPath != "" {
		loaded, err := config.LoadFile(a.configPath)
		if err != nil {
			return err
		}
		base = loaded
	} else {
		base = config.LoadConfig(bootstrap)
	}
	a.cfg = config.Resolve(base, a.flags)

	theme, err := render.ThemeByName(a.cfg.Theme)
	if err != nil {
		return err
	}
	if a.cfg.NoColor {
		theme = render.MonoTheme()
	}
	a.theme = theme

	logCfg := log.DefaultConfig()
	logCfg.Output = a.stderr
	logFormat := a.cfg.LogFormat
	if a.logFormat != "" {
		logFormat = a.logFormat
	}
	logCfg.Format = log.ParseFormat(logFormat)
	if a.cfg.Debug {
		logCfg.Level = slog.LevelDebug
	}
	a.logger = log.New(logCfg).With("cmd", strings.TrimPrefix(cmd.CommandPath(), "lta "))
	return nil
}
