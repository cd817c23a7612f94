package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vanderheijden86/treeview/pkg/analysis"
	"github.com/vanderheijden86/treeview/pkg/export"
)

var statsFormat string

func init() {
	cmd := newStatsCmd()
	cmd.Flags().StringVarP(&statsFormat, "format", "f", "text", "Output format: text, json, yaml or toon")
	rootCmd.AddCommand(cmd)
}

func newStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats [outline...]",
		Short: "Show tree statistics",
		Long: `The stats command counts nodes, branches and leaves, reports how many
rows are visible, and summarizes depth and branching.

Example:
  tv stats notes.outline.yaml
  tv stats --format json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			src, err := loadSource(cmd.Context(), cfg, args)
			if err != nil {
				return err
			}
			stats := analysis.Compute(src.t)

			if !strings.EqualFold(statsFormat, "text") {
				format, err := export.ParseFormat(statsFormat)
				if err != nil {
					return err
				}
				if format == export.FormatMarkdown {
					return fmt.Errorf("stats have no markdown form")
				}
				return export.Encode(cmd.OutOrStdout(), stats, format)
			}

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "Tree: %s\n", src.title)
			fmt.Fprintf(w, "  Nodes:     %d\n", stats.Nodes)
			fmt.Fprintf(w, "  Branches:  %d\n", stats.Branches)
			fmt.Fprintf(w, "  Leaves:    %d\n", stats.Leaves)
			fmt.Fprintf(w, "  Open:      %d\n", stats.Opened)
			fmt.Fprintf(w, "  Visible:   %d\n", stats.Visible)
			fmt.Fprintf(w, "  Max depth: %d\n", stats.MaxDepth)
			if stats.Branches > 0 {
				fmt.Fprintf(w, "  Branching: %.2f ± %.2f\n", stats.MeanBranching, stats.StdDevBranching)
			}
			if len(stats.LevelWidths) > 0 {
				fmt.Fprintln(w, "\nNodes by level:")
				for level, n := range stats.LevelWidths {
					fmt.Fprintf(w, "  %d: %d\n", level, n)
				}
			}
			return nil
		},
	}
}
