package main

import (
	"context"
	"io"
	"os"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"ltlmc/buchi"
	"ltlmc/checker"
	"ltlmc/examples/counter"
	"ltlmc/examples/philosophers"
	"ltlmc/examples/strand"
	"ltlmc/graph"
	"ltlmc/logic"
	"ltlmc/machine"
	"ltlmc/traversal"
)

var errViolated = errors.New("property violated")

// Everything needed to check or explore a model
type run struct {
	formula    string
	translator buchi.Translator
	opts       []traversal.Option
	dot        string
	out        io.Writer
	log        logrus.FieldLogger
}

type model struct {
	formula string
	execute func(ctx context.Context, r run) error
}

var models = map[string]model{
	"counter": {
		formula: counter.Formula,
		execute: func(ctx context.Context, r run) error {
			return execute[int, counter.Action](ctx, r, counter.Machine{}, counter.Registry(), counter.Holds, counter.Translator(), 0)
		},
	},
	"counter-stay": {
		formula: counter.Formula,
		execute: func(ctx context.Context, r run) error {
			return execute[int, counter.Action](ctx, r, counter.Machine{AllowStay: true}, counter.Registry(), counter.Holds, counter.Translator(), 0)
		},
	},
	"strand": {
		formula: strand.Formula,
		execute: func(ctx context.Context, r run) error {
			return execute[strand.State, strand.Action](ctx, r, strand.Machine{AllowStrand: true}, strand.Registry(), strand.Holds, strand.Translator(), strand.Initial)
		},
	},
	"strand-fixed": {
		formula: strand.Formula,
		execute: func(ctx context.Context, r run) error {
			return execute[strand.State, strand.Action](ctx, r, strand.Machine{}, strand.Registry(), strand.Holds, strand.Translator(), strand.Initial)
		},
	},
	"philosophers": {
		formula: philosophers.Formula,
		execute: func(ctx context.Context, r run) error {
			return execute[philosophers.State, philosophers.Action](ctx, r, philosophers.Machine{}, philosophers.Registry(), philosophers.Holds, philosophers.Translator(), philosophers.Initial)
		},
	},
}

// Check the formula on the model and optionally export the explored state space
func execute[S comparable, A machine.Action[A], P comparable](
	ctx context.Context,
	r run,
	m machine.Machine[S, A, struct{}],
	registry *logic.Registry[P],
	holds func(P, machine.Transition[S, A]) bool,
	builtin buchi.Translator,
	initial S,
) error {
	translator := r.translator
	if translator == nil {
		translator = builtin
	}
	if r.dot != "" {
		if err := exportDOT(ctx, r, m, initial); err != nil {
			return err
		}
	}

	c, err := checker.New(ctx, m, checker.Bind(registry, holds), r.formula,
		checker.WithTranslator(translator), checker.WithLogger(r.log))
	if err != nil {
		return err
	}
	report, err := checker.Check(ctx, c, []S{initial}, r.opts...)
	if werr := checker.WriteReport[S, A](r.out, report, err); werr != nil {
		return werr
	}

	var (
		safety   *checker.SafetyError[S, A]
		liveness *checker.LivenessError[S, A]
	)
	if errors.As(err, &safety) || errors.As(err, &liveness) {
		return errViolated
	}
	return err
}

func exportDOT[S comparable, A machine.Action[A]](ctx context.Context, r run, m machine.Machine[S, A, struct{}], initial S) error {
	opts := append(r.opts[:len(r.opts):len(r.opts)], traversal.WithGraph(), traversal.WithLogger(r.log))
	res, err := traversal.Run(ctx, m, []S{initial}, opts...)
	if err != nil {
		return errors.Wrap(err, "exploring the model for dot export")
	}
	f, err := os.Create(r.dot)
	if err != nil {
		return errors.Wrap(err, "creating dot file")
	}
	defer f.Close()
	if err := graph.WriteDOT(f, res.Graph, "model", nil, nil); err != nil {
		return err
	}
	r.log.WithFields(logrus.Fields{
		"file":  r.dot,
		"nodes": res.Graph.NodeCount(),
		"edges": res.Graph.EdgeCount(),
	}).Info("Wrote graph")
	return nil
}
