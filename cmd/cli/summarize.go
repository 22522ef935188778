package main

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"frbus-sweep/internal/analysis"
	"frbus-sweep/internal/store"
	"frbus-sweep/internal/sweep"

	"github.com/spf13/cobra"
)

var summarizeIn string

var summarizeCmd = &cobra.Command{
	Use:   "summarize",
	Short: "Print summary statistics for a saved sweep",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out, err := store.LoadFull(summarizeIn)
		if err != nil {
			return err
		}
		w := cmd.OutOrStdout()
		md := out.Metadata
		fmt.Fprintf(w, "Run %s (%s, backend=%s)\n\n", md.RunID, md.Date, md.Backend)
		printSummary(w, analysis.Summarize(out.Simulations))
		return nil
	},
}

func init() {
	summarizeCmd.Flags().StringVarP(&summarizeIn, "in", "i",
		filepath.Join("frbus_simulations", store.FullFile), "Path to the full-data JSON artifact")
}

var rule = strings.Repeat("=", 70)

func printHeader(w io.Writer, g sweep.Grid, nPeriods, onset int) {
	fmt.Fprintln(w, rule)
	fmt.Fprintln(w, "FRB/US-Style AI Productivity Shock - Parameter Sweep")
	fmt.Fprintln(w, rule)
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Parameter ranges:")
	pct := make([]string, len(g.ProductivityShocks))
	for i, s := range g.ProductivityShocks {
		pct[i] = fmt.Sprintf("%.0f%%", s*100)
	}
	fmt.Fprintf(w, "  Productivity shock size: [%s]\n", strings.Join(pct, ", "))
	fmt.Fprintf(w, "  Shock persistence (rho): %v\n", g.Persistence)
	fmt.Fprintf(w, "  Monetary response: %v\n", g.MonetaryResponse)
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Total simulations: %d\n", g.Size())
	fmt.Fprintf(w, "Simulation periods: %d quarters\n", nPeriods)
	fmt.Fprintf(w, "Productivity shock at: period %d\n", onset)
	fmt.Fprintln(w)
}

func printSummary(w io.Writer, rep analysis.Report) {
	fmt.Fprintln(w, rule)
	fmt.Fprintln(w, "Summary Statistics")
	fmt.Fprintln(w, rule)
	fmt.Fprintln(w)
	if rep.Failed > 0 {
		fmt.Fprintf(w, "Failed simulations (excluded): %d\n\n", rep.Failed)
	}
	if rep.Overall.Count == 0 {
		fmt.Fprintln(w, "No successful simulations.")
		return
	}
	fmt.Fprintf(w, "Overall Average GDP Impact: %.4f%%\n", rep.Overall.Mean)
	fmt.Fprintf(w, "  Range: %.4f%% to %.4f%%\n", rep.Overall.Min, rep.Overall.Max)
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Effect of Productivity Shock Size:")
	for _, g := range rep.ByShockSize {
		fmt.Fprintf(w, "  %.0f%% shock: Avg GDP Impact = %.4f%%\n", g.Value*100, g.Mean)
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Effect of Shock Persistence:")
	for _, g := range rep.ByPersistence {
		fmt.Fprintf(w, "  rho = %.2f: Avg GDP Impact = %.4f%%\n", g.Value, g.Mean)
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Effect of Monetary Policy Response:")
	for _, g := range rep.ByMonetaryResponse {
		fmt.Fprintf(w, "  Response = %.1f: Avg GDP Impact = %.4f%%\n", g.Value, g.Mean)
	}
	fmt.Fprintln(w)
}
