package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vanderheijden86/treeview/pkg/analysis"
	"github.com/vanderheijden86/treeview/pkg/export"
	"github.com/vanderheijden86/treeview/pkg/loader"
	"github.com/vanderheijden86/treeview/pkg/model"
)

var validateJSON bool

func init() {
	cmd := newValidateCmd()
	cmd.Flags().BoolVar(&validateJSON, "json", false, "Output results as JSON")
	rootCmd.AddCommand(cmd)
}

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <outline...>",
		Short: "Check outline files",
		Long: `The validate command decodes each outline file and checks that it forms
a tree. Flat outlines are checked for parent cycles and missing parents;
for each cycle the link that --repair would cut is listed.

Example:
  tv validate notes.outline.yaml
  tv validate *.outline.json --json`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := loadConfig(cmd); err != nil {
				return err
			}
			results := make([]validation, 0, len(args))
			failed := 0
			for _, path := range args {
				r := validateFile(path)
				if !r.Valid {
					failed++
				}
				results = append(results, r)
			}

			if validateJSON {
				if err := export.Encode(cmd.OutOrStdout(), results, export.FormatJSON); err != nil {
					return err
				}
			} else {
				w := cmd.OutOrStdout()
				for _, r := range results {
					if r.Valid {
						fmt.Fprintf(w, "✓ %s: %d nodes (%s)\n", r.Path, r.Nodes, r.Format)
						continue
					}
					fmt.Fprintf(w, "✗ %s: %s\n", r.Path, r.Error)
					for _, b := range r.Breaks {
						fmt.Fprintf(w, "    cut %s -> %s (%d children follow)\n", b.Record, b.Parent, b.Collateral)
					}
				}
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d outlines invalid", failed, len(args))
			}
			return nil
		},
	}
}

// validation is the outcome for one file
type validation struct {
	Path   string                    `json:"path"`
	Valid  bool                      `json:"valid"`
	Format model.Format              `json:"format,omitempty"`
	Nodes  int                       `json:"nodes,omitempty"`
	Error  string                    `json:"error,omitempty"`
	Breaks []analysis.CycleBreakItem `json:"breaks,omitempty"`
}

func validateFile(path string) validation {
	r := validation{Path: path}
	doc, err := loader.LoadFile(path)
	if err != nil {
		r.Error = err.Error()
		return r
	}
	r.Format, r.Nodes = doc.Format(), doc.Count()

	if doc.Format() == model.FormatFlat {
		a := analysis.NewAnalyzer(doc.Records)
		if err := a.Check(); err != nil {
			r.Error = err.Error()
			var herr *analysis.HierarchyError
			if errors.As(err, &herr) {
				r.Breaks = a.CycleBreaks()
			}
			return r
		}
	}
	r.Valid = true
	return r
}
