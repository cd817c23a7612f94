package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/vanderheijden86/treeview/pkg/config"
	"github.com/vanderheijden86/treeview/pkg/loader"
)

var (
	initDir   string
	initForce bool
)

func init() {
	cmd := newInitCmd()
	cmd.Flags().StringVar(&initDir, "dir", "", "Project directory (default: the detected project root)")
	cmd.Flags().BoolVar(&initForce, "force", false, "Overwrite an existing config file")
	rootCmd.AddCommand(cmd)
}

func newInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create a project config file",
		Long: `The init command writes a commented .treeview/config.yaml to the
project directory and adds the log directory to .gitignore.

Example:
  tv init
  tv init --dir ~/notes --force`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := initDir
			if dir == "" {
				root, ok := config.DetectProjectRoot()
				if !ok {
					wd, err := os.Getwd()
					if err != nil {
						return err
					}
					root = wd
				}
				dir = root
			}

			path := filepath.Join(dir, ".treeview", "config.yaml")
			if _, err := os.Stat(path); err == nil && !initForce {
				return fmt.Errorf("%s already exists (use --force to overwrite)", path)
			}
			if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
				return err
			}
			if err := os.WriteFile(path, []byte(config.Example()), 0o644); err != nil {
				return err
			}
			if err := loader.EnsureIgnored(dir, ".treeview/logs"); err != nil {
				return fmt.Errorf("updating .gitignore: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created %s\n", path)
			return nil
		},
	}
}
