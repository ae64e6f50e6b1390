package main

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/dgallion1/lexchunk/internal/chunker"
)

func statsCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "stats <file.chunks.json>",
		Short: "Report chunk size statistics for a chunk file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStats(cmd, args[0], asJSON)
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print statistics as JSON")

	return cmd
}

func runStats(cmd *cobra.Command, path string, asJSON bool) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var chunks []string
	if err := json.Unmarshal(data, &chunks); err != nil {
		return fmt.Errorf("%s: not a chunk file: %w", path, err)
	}
	s := chunker.ComputeStats(chunks)

	out := cmd.OutOrStdout()
	if asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(s)
	}

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "File:\t%s\n", path)
	fmt.Fprintf(tw, "Size:\t%.2f MB\n", float64(len(data))/(1<<20))
	fmt.Fprintf(tw, "Chunks:\t%d\n", s.Count)
	fmt.Fprintf(tw, "Avg chunk length:\t%.0f chars\n", s.AvgChars)
	fmt.Fprintf(tw, "Range:\t%d - %d chars\n", s.MinChars, s.MaxChars)
	fmt.Fprintf(tw, "Under 1k:\t%d\n", s.Small)
	fmt.Fprintf(tw, "1k - 5k:\t%d\n", s.Medium)
	fmt.Fprintf(tw, "Over 5k:\t%d\n", s.Large)
	fmt.Fprintf(tw, "Estimated tokens:\t%d\n", s.EstimatedTokens)
	return tw.Flush()
}
