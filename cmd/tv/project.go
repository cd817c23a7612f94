package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vanderheijden86/treeview/pkg/export"
	"github.com/vanderheijden86/treeview/pkg/tree"
)

var (
	projectFormat    string
	projectExpandAll bool
	projectLevel     int
)

func init() {
	cmd := newProjectCmd()
	cmd.Flags().StringVarP(&projectFormat, "format", "f", "text", "Output format: text, json, yaml or toon")
	cmd.Flags().BoolVar(&projectExpandAll, "expand-all", false, "Open every branch before projecting")
	cmd.Flags().IntVar(&projectLevel, "level", 0, "Open branches down to this many levels")
	rootCmd.AddCommand(cmd)
}

func newProjectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "project [outline...]",
		Short: "Print the visible rows of a tree",
		Long: `The project command prints the rows a view would render: the nodes
whose ancestors are all open, in depth-first order.

Example:
  tv project notes.outline.yaml
  tv project notes.outline.yaml --expand-all --format json
  tv project --display-root`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			src, err := loadSource(cmd.Context(), cfg, args)
			if err != nil {
				return err
			}
			src.expand(projectExpandAll, projectLevel)

			rows := src.t.Visible()
			if strings.EqualFold(projectFormat, "text") {
				return writeRows(cmd.OutOrStdout(), src.t, rows, cfg.UI.Indent)
			}
			format, err := export.ParseFormat(projectFormat)
			if err != nil {
				return err
			}
			if format == export.FormatMarkdown {
				return fmt.Errorf("markdown is not a projection format; use tv export")
			}
			return export.Encode(cmd.OutOrStdout(), export.Rows(src.t, rows), format)
		},
	}
}

// writeRows prints one indented line per row with its open indicator.
func writeRows(w io.Writer, t *tree.Tree, rows []tree.NodeID, indent int) error {
	if len(rows) == 0 {
		_, err := fmt.Fprintln(w, "(empty)")
		return err
	}
	base := t.Level(rows[0])
	for _, id := range rows {
		base = min(base, t.Level(id))
	}
	for _, id := range rows {
		marker := "•"
		if t.IsBranch(id) {
			marker = "▸"
			if t.IsOpened(id) {
				marker = "▾"
			}
		}
		line := strings.Repeat(" ", (t.Level(id)-base)*indent) + marker + " " + t.Label(id)
		if t.IsSelected(id) {
			line += " ✓"
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}
