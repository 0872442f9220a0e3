package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	log "github.com/sirupsen/logrus"

	"ltlmc/buchi"
	"ltlmc/config"
)

func main() {
	var (
		configPath = flag.String("config", "", "YAML run configuration")
		modelName  = flag.String("model", "", "model to check")
		formula    = flag.String("ltl", "", "LTL formula, defaults to the formula of the model")
		command    = flag.String("translator", "", "LTL to Büchi translator command such as ltl3ba, defaults to the built in automaton of the model")
		dot        = flag.String("dot", "", "write the explored state space in dot format to this file")
		workers    = flag.Int("workers", 0, "number of workers, defaults to GOMAXPROCS")
		maxDepth   = flag.Int("max-depth", -1, "maximum depth of the traversal")
		timeout    = flag.Duration("timeout", 0, "give up after this long")
	)
	flag.Parse()

	cfg := &config.File{}
	if *configPath != "" {
		var err error
		if cfg, err = config.Load(*configPath); err != nil {
			log.Fatal(err)
		}
	}
	// Flags override the configuration file
	if *modelName != "" {
		cfg.Model = *modelName
	}
	if *formula != "" {
		cfg.Formula = *formula
	}
	if *command != "" {
		cfg.Translator = *command
	}
	if *dot != "" {
		cfg.Dot = *dot
	}
	if *workers > 0 {
		cfg.Workers = *workers
	}
	if *maxDepth >= 0 {
		cfg.MaxDepth = maxDepth
	}
	if *timeout > 0 {
		cfg.Timeout = timeout.String()
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal(err)
	}

	level, _ := cfg.Level()
	log.SetLevel(level)

	m, ok := models[cfg.Model]
	if !ok {
		names := maps.Keys(models)
		slices.Sort(names)
		log.Fatalf("Unknown model %q. Available models: %v", cfg.Model, names)
	}

	r := run{
		formula: cfg.Formula,
		opts:    cfg.TraversalOptions(),
		dot:     cfg.Dot,
		out:     os.Stdout,
		log:     log.WithField("model", cfg.Model),
	}
	if r.formula == "" {
		r.formula = m.formula
	}
	if cfg.Translator != "" {
		r.translator = buchi.CommandTranslator{Command: cfg.Translator, Args: cfg.TranslatorArgs}
	}

	ctx := context.Background()
	if d, _ := cfg.TimeoutDuration(); d > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d)
		defer cancel()
	}

	start := time.Now()
	err := m.execute(ctx, r)
	r.log.WithField("took", time.Since(start)).Debug("Finished")
	switch {
	case err == nil:
	case err == errViolated:
		os.Exit(1)
	default:
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
}
