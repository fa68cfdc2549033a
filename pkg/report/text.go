package report

import (
	"bufio"
	"fmt"
	"io"

	"github.com/dd0wney/cluso-vaxsim/pkg/contact"
	"github.com/dd0wney/cluso-vaxsim/pkg/experiment"
)

// WriteText prints per-run lines for each policy followed by the averages
// table and the winning policy.
func WriteText(w io.Writer, cmp *experiment.Comparison) error {
	bw := bufio.NewWriter(w)

	var current string
	for _, r := range cmp.Results {
		if name := r.Policy.String(); name != current {
			current = name
			fmt.Fprintf(bw, "\n=== %s Strategy Runs ===\n", name)
		}
		fmt.Fprintf(bw, "Run %d -> EverInfected=%d, FinalInfected=%d, Vaccinated=%d\n",
			r.Trial, r.EverInfected, r.FinalInfected, r.Vaccinated)
	}

	fmt.Fprintf(bw, "\n=== RESULTS (averages over runs) ===\n")
	for _, s := range cmp.Summaries {
		fmt.Fprintf(bw, "%-12s: avgEverInfected=%.2f, avgFinalInfected=%.2f, avgVaccinated=%.2f\n",
			s.Policy, s.AvgEverInfected, s.AvgFinalInfected, s.AvgVaccinated)
	}

	if len(cmp.Summaries) > 0 {
		fmt.Fprintf(bw, "\nBest policy: %s (%.1f%% fewer infections than Random)\n",
			cmp.Best, cmp.Improvement*100)
	}

	return bw.Flush()
}

// WriteGraphStats prints a short description of the contact graph.
func WriteGraphStats(w io.Writer, stats contact.Stats, largestComponent int) error {
	_, err := fmt.Fprintf(w,
		"Contact graph: %d dogs, %d contacts, avg degree %.2f, max degree %d, %d isolated, largest component %d\n",
		stats.Nodes, stats.Edges, stats.AverageDegree, stats.MaxDegree, stats.Isolated, largestComponent)
	return err
}
