package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/lmittmann/tint"
	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
	"github.com/purefn/postie/check"
)

type CLI struct {
	Paths       []string   `arg:"" name:"path" help:"Files of addresses to check, one per line. Reads standard input when omitted." type:"existingfile" optional:""`
	Suite       string     `name:"suite" help:"Path to an expectation suite to run instead of checking files." env:"POSTIE_SUITE" optional:""`
	NoFold      bool       `name:"no-fold" help:"Treat every line as its own address instead of joining folded continuation lines." env:"POSTIE_NO_FOLD" default:"false"`
	Parallelism int        `name:"parallelism" help:"Number of files checked concurrently." env:"POSTIE_PARALLELISM" default:"4"`
	Quiet       bool       `name:"quiet" short:"q" help:"Do not print accepted addresses." default:"false"`
	LogLevel    slog.Level `name:"log-level" help:"Log level." env:"POSTIE_LOG_LEVEL" default:"WARN" enum:"DEBUG,INFO,WARN,ERROR"`
}

// Accepted addresses go to stdout, so both log handlers write to stderr.
func (CLI *CLI) initLogger(*kong.Context) *slog.Logger {
	var handler slog.Handler
	if isatty.IsTerminal(os.Stderr.Fd()) {
		handler = tint.NewHandler(colorable.NewColorable(os.Stderr), &tint.Options{Level: CLI.LogLevel})
	} else {
		handler = slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: CLI.LogLevel})
	}
	return slog.New(handler)
}

func (CLI *CLI) initChecker(kongCtx *kong.Context, logger *slog.Logger) *check.Checker {
	// Report calls are serialized by the checker, so one output buffer
	// can be reused across findings.
	var out []byte
	report := func(f check.Finding) {
		if f.Valid {
			if !CLI.Quiet {
				out = f.Address.AppendTo(out[:0])
				out = append(out, '\n')
				os.Stdout.Write(out)
			}
			return
		}
		logger.Warn("rejected",
			slog.String("source", f.Source),
			slog.Int("line", f.Line),
			slog.String("input", string(f.Input)))
	}
	checker, err := check.New(
		check.WithLogger(logger),
		check.WithReportFunc(report),
		check.WithFolding(!CLI.NoFold),
		check.WithLimit(CLI.Parallelism),
	)
	if err != nil {
		kongCtx.FatalIfErrorf(err)
	}
	return checker
}

func (CLI *CLI) openSources(kongCtx *kong.Context) ([]check.Source, func()) {
	if len(CLI.Paths) == 0 {
		return []check.Source{{Name: "-", Reader: os.Stdin}}, func() {}
	}
	sources := make([]check.Source, 0, len(CLI.Paths))
	files := make([]*os.File, 0, len(CLI.Paths))
	for _, path := range CLI.Paths {
		f, err := os.Open(path)
		if err != nil {
			kongCtx.FatalIfErrorf(err)
		}
		sources = append(sources, check.Source{Name: path, Reader: f})
		files = append(files, f)
	}
	return sources, func() {
		for _, f := range files {
			f.Close()
		}
	}
}

func (CLI *CLI) runSuite(ctx context.Context, kongCtx *kong.Context, logger *slog.Logger, checker *check.Checker) {
	s, err := check.LoadSuiteFile(CLI.Suite)
	if err != nil {
		kongCtx.FatalIfErrorf(err)
	}
	devs, err := checker.RunSuite(ctx, s)
	if err != nil {
		kongCtx.FatalIfErrorf(err)
	}
	for _, d := range devs {
		if d.WantValid {
			logger.Error("expected to parse", slog.String("address", d.Address))
		} else {
			logger.Error("expected to be rejected", slog.String("address", d.Address))
		}
	}
	if len(devs) > 0 {
		kongCtx.Exit(1)
	}
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()
	var CLI CLI
	kongCtx := kong.Parse(&CLI)
	logger := CLI.initLogger(kongCtx)
	checker := CLI.initChecker(kongCtx, logger)
	if CLI.Suite != "" {
		CLI.runSuite(ctx, kongCtx, logger, checker)
		return
	}
	sources, closeSources := CLI.openSources(kongCtx)
	defer closeSources()
	sum, err := checker.Check(ctx, sources)
	if err != nil {
		kongCtx.FatalIfErrorf(err)
	}
	logger.Info("done",
		slog.Int("inputs", sum.Inputs),
		slog.Int("valid", sum.Valid),
		slog.Int("invalid", sum.Invalid))
	if sum.Invalid > 0 {
		kongCtx.Exit(1)
	}
}
