// Package report renders experiment outcomes as CSV and text, and ships the
// CSV to files or object storage.
package report

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/dd0wney/cluso-vaxsim/pkg/experiment"
)

// Column headers of the two CSV sections
var (
	SummaryHeader = []string{"Strategy", "AvgEverInfected", "AvgFinalInfected", "AvgVaccinated", "InfRate%"}
	TrialHeader   = []string{"Strategy", "Run", "EverInfected", "FinalInfected", "Vaccinated", "InfRate%"}
)

// WriteCSV writes the summary section, a blank line, then one row per trial.
// Averages and rates carry two decimals; rows end with "\n".
func WriteCSV(w io.Writer, summaries []experiment.PolicySummary, results []experiment.SimulationResult) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(SummaryHeader); err != nil {
		return fmt.Errorf("failed to write summary header: %w", err)
	}
	for _, s := range summaries {
		row := []string{
			s.Policy.String(),
			fixed2(s.AvgEverInfected),
			fixed2(s.AvgFinalInfected),
			fixed2(s.AvgVaccinated),
			fixed2(s.InfectionRate()),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write summary for %s: %w", s.Policy, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("failed to flush summary section: %w", err)
	}

	if _, err := io.WriteString(w, "\n"); err != nil {
		return fmt.Errorf("failed to write section separator: %w", err)
	}

	if err := cw.Write(TrialHeader); err != nil {
		return fmt.Errorf("failed to write trial header: %w", err)
	}
	for i, r := range results {
		row := []string{
			r.Policy.String(),
			strconv.Itoa(r.Trial),
			strconv.Itoa(r.EverInfected),
			strconv.Itoa(r.FinalInfected),
			strconv.Itoa(r.Vaccinated),
			fixed2(r.InfectionRate()),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write trial row %d: %w", i+1, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// EncodeCSV renders a comparison to CSV bytes.
func EncodeCSV(cmp *experiment.Comparison) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, cmp.Summaries, cmp.Results); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func fixed2(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
