// Package config reads run configurations from YAML files.
package config

import (
	"os"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"ltlmc/traversal"
)

// A run configuration.
//
//	model: strand
//	formula: G F atb
//	workers: 4
//	maxDepth: 100
//	timeout: 30s
type File struct {
	// The name of the model to check
	Model string `yaml:"model"`
	// The LTL formula. Empty means the default formula of the model.
	Formula string `yaml:"formula"`
	// The command used to translate formulas. Empty means the built in automaton of the model.
	Translator     string   `yaml:"translator"`
	TranslatorArgs []string `yaml:"translatorArgs"`

	Workers         int    `yaml:"workers"`
	Backlog         *int   `yaml:"backlog"`
	MaxDepth        *int   `yaml:"maxDepth"`
	MaxActions      int    `yaml:"maxActions"`
	TraceEvery      int    `yaml:"traceEvery"`
	TraceErrors     bool   `yaml:"traceErrors"`
	IgnoreLoopbacks bool   `yaml:"ignoreLoopbacks"`
	Metrics         string `yaml:"metrics"`

	// Give up after this long. Parsed with time.ParseDuration
	Timeout string `yaml:"timeout"`
	// Write the explored graph in dot format to this file
	Dot      string `yaml:"dot"`
	LogLevel string `yaml:"logLevel"`
}

// Read and validate a configuration file
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "config: unable to read %v", path)
	}
	f, err := Parse(data)
	if err != nil {
		return nil, errors.Wrapf(err, "config: %v", path)
	}
	return f, nil
}

// Parse and validate a configuration
func Parse(data []byte) (*File, error) {
	f := &File{}
	if err := yaml.Unmarshal(data, f); err != nil {
		return nil, errors.Wrap(err, "config: invalid yaml")
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return f, nil
}

func (f *File) Validate() error {
	if f.Workers < 0 {
		return errors.Errorf("config: workers must not be negative, got %v", f.Workers)
	}
	if f.Backlog != nil && *f.Backlog < 0 {
		return errors.Errorf("config: backlog must not be negative, got %v", *f.Backlog)
	}
	if f.TraceEvery < 0 {
		return errors.Errorf("config: traceEvery must not be negative, got %v", f.TraceEvery)
	}
	if _, err := f.TimeoutDuration(); err != nil {
		return err
	}
	if _, err := f.Level(); err != nil {
		return err
	}
	return nil
}

// The timeout of the run. Zero means no timeout.
func (f *File) TimeoutDuration() (time.Duration, error) {
	if f.Timeout == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(f.Timeout)
	if err != nil {
		return 0, errors.Wrapf(err, "config: invalid timeout %q", f.Timeout)
	}
	return d, nil
}

// The log level of the run. Default is info.
func (f *File) Level() (logrus.Level, error) {
	if f.LogLevel == "" {
		return logrus.InfoLevel, nil
	}
	level, err := logrus.ParseLevel(f.LogLevel)
	if err != nil {
		return logrus.InfoLevel, errors.Wrap(err, "config: invalid logLevel")
	}
	return level, nil
}

// The traversal options described by the configuration
func (f *File) TraversalOptions() []traversal.Option {
	opts := []traversal.Option{}
	if f.Workers > 0 {
		opts = append(opts, traversal.Workers(f.Workers))
	}
	if f.Backlog != nil {
		opts = append(opts, traversal.Backlog(*f.Backlog))
	}
	if f.MaxDepth != nil {
		opts = append(opts, traversal.MaxDepth(*f.MaxDepth))
	}
	if f.MaxActions > 0 {
		opts = append(opts, traversal.MaxActions(f.MaxActions))
	}
	if f.TraceEvery > 0 {
		opts = append(opts, traversal.TraceEvery(f.TraceEvery))
	}
	if f.TraceErrors {
		opts = append(opts, traversal.TraceErrors())
	}
	if f.IgnoreLoopbacks {
		opts = append(opts, traversal.IgnoreLoopbacks())
	}
	if f.Metrics != "" {
		opts = append(opts, traversal.WithMetrics(f.Metrics))
	}
	return opts
}
