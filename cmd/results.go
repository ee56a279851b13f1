package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/foldeval/refold/pkg/results"
)

var (
	resultsMetric string
	resultsJSON   bool
)

func newResultsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "results [directory]",
		Short: "Summarize a finished run's metric CSV",
		Long: `Read the complete_results.csv a pipeline run wrote into its output
directory and report per-backbone hit counts and the overall designable
fraction. The configured metric decides whether the pLDDT or the pAE
confidence gate applies, on top of the scRMSD and motif-RMSD cutoffs.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runResults,
	}

	cmd.Flags().StringVar(&resultsMetric, "metric", "", "Metric label overriding the configured one")
	cmd.Flags().BoolVar(&resultsJSON, "json", false, "Output the summary as JSON")

	return cmd
}

func runResults(cmd *cobra.Command, args []string) error {
	dir := "."
	if len(args) == 1 {
		dir = args[0]
	}
	dir, err := expandPath(dir)
	if err != nil {
		return err
	}

	metric := resultsMetric
	if metric == "" {
		if cfg, err := loadOrDefaultConfig(rootConfigPath); err == nil {
			metric = cfg.Metric
		}
	}

	rows, err := results.ReadFile(dir)
	if err != nil {
		return err
	}

	summary := results.Summarize(rows, metric)

	if resultsJSON {
		data, err := json.MarshalIndent(summary, "", "  ")
		if err != nil {
			return fmt.Errorf("marshal summary: %w", err)
		}
		fmt.Println(string(data))
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "BACKBONE\tSAMPLES\tHITS\tBEST scRMSD\tDESIGNABLE")
	for _, b := range summary.Backbones {
		mark := color.RedString("no")
		if b.Designable() {
			mark = color.GreenString("yes")
		}
		fmt.Fprintf(w, "%s\t%d\t%d\t%.3f\t%s\n", b.Backbone, b.Samples, b.Hits, b.BestRMSD, mark)
	}
	w.Flush()

	fmt.Printf("\n%d/%d backbones designable (%.1f%%) under %s\n",
		summary.DesignableBackbones, summary.TotalBackbones, summary.Fraction*100, summary.Metric)
	return nil
}
