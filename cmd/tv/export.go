package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/vanderheijden86/treeview/pkg/export"
)

var (
	exportFormat      string
	exportOutput      string
	exportTitle       string
	exportVisibleOnly bool
)

func init() {
	cmd := newExportCmd()
	cmd.Flags().StringVarP(&exportFormat, "format", "f", "markdown", "Output format: markdown, json, yaml or toon")
	cmd.Flags().StringVarP(&exportOutput, "output", "o", "", "Write to this file instead of stdout")
	cmd.Flags().StringVar(&exportTitle, "title", "", "Document title (default: the root label)")
	cmd.Flags().BoolVar(&exportVisibleOnly, "visible-only", false, "Leave out the children of closed nodes")
	rootCmd.AddCommand(cmd)
}

func newExportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export [outline...]",
		Short: "Export a tree as markdown or an outline file",
		Long: `The export command writes the tree as a markdown report or as a nested
outline in JSON, YAML or TOON. JSON and YAML exports can be opened again
with tv.

Example:
  tv export notes.outline.yaml -o notes.md
  tv export a.outline.yaml b.outline.yaml --format yaml -o all.outline.yaml
  tv export --format json --visible-only`,
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := export.ParseFormat(exportFormat)
			if err != nil {
				return err
			}
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			src, err := loadSource(cmd.Context(), cfg, args)
			if err != nil {
				return err
			}
			title := exportTitle
			if title == "" {
				title = src.title
			}

			if format == export.FormatMarkdown {
				opts := export.MarkdownOptions{Title: title, VisibleOnly: exportVisibleOnly}
				if exportOutput != "" {
					if err := export.SaveMarkdownToFile(src.t, src.root, opts, exportOutput); err != nil {
						return err
					}
					fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", exportOutput)
					return nil
				}
				_, err := io.WriteString(cmd.OutOrStdout(), export.GenerateMarkdown(src.t, src.root, opts))
				return err
			}

			doc := export.Document(src.t, src.root, title, exportVisibleOnly)
			if exportOutput == "" {
				return export.Encode(cmd.OutOrStdout(), doc, format)
			}
			f, err := os.Create(exportOutput)
			if err != nil {
				return err
			}
			if err := export.Encode(f, doc, format); err != nil {
				f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", exportOutput)
			return nil
		},
	}
}
