package check

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	yaml "gopkg.in/yaml.v3"

	"github.com/purefn/postie"
)

// Suite is a set of expectations about what parses: every address under
// accept must parse, every address under reject must not.
//
//	accept:
//	  - simple@example.com
//	reject:
//	  - "@example.com"
type Suite struct {
	Accept []string `yaml:"accept"`
	Reject []string `yaml:"reject"`
}

// Deviation records one defied expectation.
type Deviation struct {
	Address   string
	WantValid bool
}

// LoadSuite parses a YAML expectation suite.
func LoadSuite(b []byte) (*Suite, error) {
	var s Suite
	if err := yaml.Unmarshal(b, &s); err != nil {
		return nil, fmt.Errorf("loading suite: %w", err)
	}
	return &s, nil
}

// LoadSuiteFile reads and parses the YAML expectation suite at path.
func LoadSuiteFile(path string) (*Suite, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return LoadSuite(b)
}

// RunSuite checks every expectation in s and returns the deviations, in
// suite order. A non-nil error only ever reports early termination via
// ctx; deviations alone do not make RunSuite fail.
func (c *Checker) RunSuite(ctx context.Context, s *Suite) ([]Deviation, error) {
	var devs []Deviation
	run := func(addr string, wantValid bool) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		_, err := postie.ParseAddress([]byte(addr))
		if (err == nil) != wantValid {
			devs = append(devs, Deviation{Address: addr, WantValid: wantValid})
			c.logger.Warn("expectation defied",
				slog.String("address", addr),
				slog.Bool("want-valid", wantValid))
		}
		return nil
	}
	for _, addr := range s.Accept {
		if err := run(addr, true); err != nil {
			return devs, err
		}
	}
	for _, addr := range s.Reject {
		if err := run(addr, false); err != nil {
			return devs, err
		}
	}
	c.logger.Info("suite finished",
		slog.Int("expectations", len(s.Accept)+len(s.Reject)),
		slog.Int("deviations", len(devs)))
	return devs, nil
}
