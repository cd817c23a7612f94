package main

import (
	"context"

	"github.com/vanderheijden86/treeview/pkg/config"
	"github.com/vanderheijden86/treeview/pkg/demo"
	"github.com/vanderheijden86/treeview/pkg/loader"
	"github.com/vanderheijden86/treeview/pkg/logger"
	"github.com/vanderheijden86/treeview/pkg/tree"
)

// source is the tree a plain-output command works on.
type source struct {
	t     *tree.Tree
	root  tree.NodeID
	title string
}

// loadSource builds the tree for paths. No paths means the demo tree with
// every background load applied at once; several paths share one root.
func loadSource(ctx context.Context, cfg config.Config, paths []string) (*source, error) {
	t := tree.New(tree.WithOptions(cfg.Tree), tree.WithLogger(logger.L))
	opts := loader.BuildOptions{Repair: repair}

	switch len(paths) {
	case 0:
		demoCfg := cfg.Demo
		demoCfg.Delay = 0
		root, loads := demo.Seed(t, demoCfg)
		if err := demo.Run(ctx, t, loads); err != nil {
			return nil, err
		}
		return &source{t: t, root: root, title: "Demo"}, nil
	case 1:
		doc, err := loader.LoadFile(paths[0])
		if err != nil {
			return nil, err
		}
		root, err := loader.Build(t, doc, opts)
		if err != nil {
			return nil, err
		}
		return &source{t: t, root: root, title: doc.Title}, nil
	}

	docs, err := loader.LoadFiles(ctx, paths)
	if err != nil {
		return nil, err
	}
	root, err := loader.BuildAll(t, "Outlines", docs, opts)
	if err != nil {
		return nil, err
	}
	return &source{t: t, root: root, title: "Outlines"}, nil
}

// expand applies the --expand-all and --level flags.
func (s *source) expand(all bool, level int) {
	switch {
	case all:
		s.t.ExpandAll(s.root)
	case level > 0:
		s.t.ExpandToLevel(s.root, level)
	}
}
