// Package check validates lists of email addresses against the addr-spec
// grammar, one address per logical line, and runs YAML expectation
// suites. It wraps the postie parser with the I/O, concurrency, and
// reporting that batch checking needs; the parser itself stays pure.
package check

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/purefn/postie"
)

// Finding is the outcome of checking one logical line.
type Finding struct {
	Source  string
	Line    int
	Input   []byte // the checked bytes, owned by the Finding
	Address postie.Address
	Valid   bool
}

// ReportFunc receives findings as they are produced. Calls are serialized
// even when sources are checked concurrently.
type ReportFunc func(Finding)

// Summary counts checked inputs. Blank lines are not counted.
type Summary struct {
	Inputs  int
	Valid   int
	Invalid int
}

func (s *Summary) add(o Summary) {
	s.Inputs += o.Inputs
	s.Valid += o.Valid
	s.Invalid += o.Invalid
}

// Source names a reader to check.
type Source struct {
	Name   string
	Reader io.Reader
}

// Checker validates address lists, one addr-spec per logical line.
type Checker struct {
	logger *slog.Logger
	report ReportFunc
	fold   bool
	limit  int

	mu sync.Mutex
}

// OptionFunc configures a Checker.
type OptionFunc func(*Checker) (*Checker, error)

// WithLogger sets the logger. A nil logger keeps the Checker silent.
func WithLogger(logger *slog.Logger) OptionFunc {
	return func(c *Checker) (*Checker, error) {
		if logger == nil {
			logger = slog.New(nopHandler{})
		}
		c.logger = logger
		return c, nil
	}
}

// WithReportFunc sets the per-finding callback.
func WithReportFunc(fn ReportFunc) OptionFunc {
	return func(c *Checker) (*Checker, error) {
		c.report = fn
		return c, nil
	}
}

// WithFolding enables or disables joining folded continuation lines into
// the line they continue. Enabled by default.
func WithFolding(enabled bool) OptionFunc {
	return func(c *Checker) (*Checker, error) {
		c.fold = enabled
		return c, nil
	}
}

// WithLimit caps how many sources Check processes concurrently. Zero or
// negative lifts the cap. The default is 4.
func WithLimit(n int) OptionFunc {
	return func(c *Checker) (*Checker, error) {
		c.limit = n
		return c, nil
	}
}

const defaultLimit = 4

// New builds a Checker. Without options it is silent, folds continuation
// lines, and checks up to four sources at a time.
func New(options ...OptionFunc) (*Checker, error) {
	c := &Checker{
		logger: slog.New(nopHandler{}),
		fold:   true,
		limit:  defaultLimit,
	}
	for _, option := range options {
		var err error
		c, err = option(c)
		if err != nil {
			return nil, err
		}
	}
	return c, nil
}

// CheckReader checks one source, one addr-spec per logical line, skipping
// blank lines. It stops as soon as ctx is done.
//
// Each checked line is handed to the report callback as a Finding; the
// Finding's Input is a fresh copy, never a window into the read buffer,
// so findings may be retained.
func (c *Checker) CheckReader(ctx context.Context, name string, r io.Reader) (Summary, error) {
	var sum Summary
	err := scanEntries(r, c.fold, func(e entry) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		f := Finding{Source: name, Line: e.line, Input: e.data}
		addr, err := postie.ParseAddress(e.data)
		if err == nil {
			f.Address = addr
			f.Valid = true
			sum.Valid++
		} else {
			sum.Invalid++
		}
		sum.Inputs++
		c.emit(f)
		return nil
	})
	if err != nil {
		return sum, fmt.Errorf("checking %s: %w", name, err)
	}
	c.logger.Debug("source checked",
		slog.String("source", name),
		slog.Int("inputs", sum.Inputs),
		slog.Int("valid", sum.Valid),
		slog.Int("invalid", sum.Invalid))
	return sum, nil
}

func (c *Checker) emit(f Finding) {
	if c.report == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.report(f)
}

// Check checks every source, up to the configured limit of them at a
// time, and returns the combined summary. The first error cancels the
// remaining sources.
func (c *Checker) Check(ctx context.Context, sources []Source) (Summary, error) {
	var (
		mu  sync.Mutex
		sum Summary
	)
	eg, innerCtx := errgroup.WithContext(ctx)
	limit := c.limit
	if limit <= 0 {
		limit = -1
	}
	eg.SetLimit(limit)
	for _, src := range sources {
		src := src
		eg.Go(func() error {
			s, err := c.CheckReader(innerCtx, src.Name, src.Reader)
			mu.Lock()
			sum.add(s)
			mu.Unlock()
			return err
		})
	}
	if err := eg.Wait(); err != nil {
		return sum, err
	}
	c.logger.Info("check finished",
		slog.Int("sources", len(sources)),
		slog.Int("inputs", sum.Inputs),
		slog.Int("valid", sum.Valid),
		slog.Int("invalid", sum.Invalid))
	return sum, nil
}

// nopHandler backs the default logger so an unconfigured Checker stays
// silent.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }
