package checker

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/pkg/errors"

	"ltlmc/traversal"
)

// Write a human readable description of the result of a check.
func WriteReport[S, A any](w io.Writer, report traversal.Report, err error) error {
	wrt := tabwriter.NewWriter(w, 4, 4, 1, ' ', 0)
	var (
		safety   *SafetyError[S, A]
		liveness *LivenessError[S, A]
	)
	switch {
	case err == nil:
		fmt.Fprintf(wrt, "Property holds.\n")
		fmt.Fprintf(wrt, "visited:\t%v\n", report.Visited)
		fmt.Fprintf(wrt, "terminations:\t%v\n", report.Terminations)
		fmt.Fprintf(wrt, "edges skipped:\t%v\n", report.EdgesSkipped)
		fmt.Fprintf(wrt, "transitions:\t%v\n", report.Transitions)
		fmt.Fprintf(wrt, "steps:\t%v\n", report.TotalSteps)
		fmt.Fprintf(wrt, "max depth:\t%v\n", report.MaxDepth)
		fmt.Fprintf(wrt, "duration:\t%v\n", report.Duration)
	case errors.As(err, &safety):
		fmt.Fprintf(wrt, "Safety check failed.\n\n")
		fmt.Fprintf(wrt, "path:\n")
		for i, a := range safety.Path {
			fmt.Fprintf(wrt, "\t%v\t%v\n", i, a)
		}
		fmt.Fprintf(wrt, "\nfailing state:\t%v\n", safety.Prev)
		fmt.Fprintf(wrt, "next state:\t%v\n", safety.Next)
	case errors.As(err, &liveness):
		fmt.Fprintf(wrt, "Liveness check failed.\n\n")
		for i := range liveness.Paths {
			fmt.Fprintf(wrt, "-> %v\tpath: %v\n", liveness.States[i], liveness.Paths[i])
		}
	default:
		fmt.Fprintf(wrt, "Check failed: %v\n", err)
	}
	return wrt.Flush()
}
