// Package report renders validation and trajectory output as plain text.
package report

import (
	"fmt"
	"io"
	"sort"
	"text/tabwriter"

	"github.com/mkanyama/hdssqc/internal/domain/check"
	"github.com/mkanyama/hdssqc/internal/domain/trajectory"
)

// WriteValidation renders one tally line per check, keeping fail and
// inapplicable distinguishable.
func WriteValidation(w io.Writer, m *check.Matrix) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "check\tpass\tfail\tn/a\n")
	for _, r := range m.Results() {
		t := r.Tally()
		fmt.Fprintf(tw, "%s\t%d\t%d\t%d\n", r.Description, t.Pass, t.Fail, t.Inapplicable)
	}
	return tw.Flush()
}

// WriteFailingRows lists, per non-clean check, the row indexes that
// failed. Intended for the compressed view.
func WriteFailingRows(w io.Writer, m *check.Matrix) error {
	for _, r := range m.Results() {
		var rows []int
		for i, o := range r.Outcomes {
			if o == check.Fail {
				rows = append(rows, i)
			}
		}
		if len(rows) == 0 {
			continue
		}
		if _, err := fmt.Fprintf(w, "%s: rows %v\n", r.Description, rows); err != nil {
			return err
		}
	}
	return nil
}

// WriteDistribution renders a frequency distribution in descending
// count order, ties broken by code for stable output.
func WriteDistribution(w io.Writer, title string, dist map[string]int) error {
	codes := make([]string, 0, len(dist))
	for code := range dist {
		codes = append(codes, code)
	}
	sort.Slice(codes, func(i, j int) bool {
		if dist[codes[i]] != dist[codes[j]] {
			return dist[codes[i]] > dist[codes[j]]
		}
		return codes[i] < codes[j]
	})

	if _, err := fmt.Fprintf(w, "%s\n", title); err != nil {
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, code := range codes {
		fmt.Fprintf(tw, "  %s\t%d\n", code, dist[code])
	}
	return tw.Flush()
}

// WriteTransitions renders the non-zero entries of the transition
// matrices: pair count and total elapsed days per ordered code pair.
func WriteTransitions(w io.Writer, m trajectory.Matrices) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "from\tto\tcount\tdays\n")
	for _, from := range m.Codes {
		for _, to := range m.Codes {
			if m.Counts[from][to] == 0 {
				continue
			}
			fmt.Fprintf(tw, "%s\t%s\t%d\t%d\n", from, to, m.Counts[from][to], m.DeltaDays[from][to])
		}
	}
	return tw.Flush()
}
