// Package demo produces the sample tree: a root with a few folders whose
// children arrive later, the way a lazily loaded backend would deliver them.
//
// The producer never touches the tree on its own goroutine. Seed and Apply
// run on the caller's goroutine; timing is left to the caller (a tea.Tick in
// the view, Run for headless use).
package demo

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/vanderheijden86/treeview/pkg/config"
	"github.com/vanderheijden86/treeview/pkg/logger"
	"github.com/vanderheijden86/treeview/pkg/tree"
)

// Load is a pending batch of children for Parent.
type Load struct {
	Parent tree.NodeID
	Prefix string // label prefix; children are named Prefix_0, Prefix_1, ...
	Count  int
	Depth  int // levels still to load below the new children
	Delay  time.Duration
}

// Seed creates the root and its folders and returns the loads that fill
// the folders in.
func Seed(t *tree.Tree, cfg config.DemoConfig) (tree.NodeID, []Load) {
	root := t.NewNode("Root")
	var loads []Load
	for i := 0; i < cfg.Folders; i++ {
		label := fmt.Sprintf("Node_%d", i)
		folder, err := t.AddChild(root, label)
		if err != nil {
			continue
		}
		if cfg.Depth > 0 && cfg.Children > 0 {
			loads = append(loads, Load{
				Parent: folder,
				Prefix: label,
				Count:  cfg.Children,
				Depth:  cfg.Depth - 1,
				Delay:  cfg.Delay,
			})
		}
	}
	_ = t.SetOpened(root, true)
	return root, loads
}

// Apply inserts the children of one load and returns the follow-up loads for
// the next level. A parent removed in the meantime yields an error and no
// follow-ups.
func Apply(t *tree.Tree, l Load) ([]Load, error) {
	if !t.Exists(l.Parent) {
		return nil, &tree.NodeError{Op: "demo-load", Node: l.Parent, Err: tree.ErrInvalidReference}
	}
	var next []Load
	for i := 0; i < l.Count; i++ {
		label := fmt.Sprintf("%s_%d", l.Prefix, i)
		child := t.NewNode(label)
		if err := t.InsertInto(child, l.Parent); err != nil {
			_ = t.Remove(child)
			return next, err
		}
		if l.Depth > 0 {
			next = append(next, Load{
				Parent: child,
				Prefix: label,
				Count:  l.Count,
				Depth:  l.Depth - 1,
				Delay:  l.Delay,
			})
		}
	}
	logger.Debug("demo children loaded", "parent", l.Parent, "count", l.Count)
	return next, nil
}

// Expected returns the number of nodes the demo tree has once every load
// has been applied.
func Expected(cfg config.DemoConfig) int {
	perFolder, level := 1, 1
	for d := 0; d < cfg.Depth; d++ {
		level *= cfg.Children
		perFolder += level
	}
	return 1 + cfg.Folders*perFolder
}

type pending struct {
	due  time.Time
	load Load
}

// Run applies loads on the calling goroutine, each after its delay counted
// from when it was scheduled, until none are left or ctx is done. Loads
// whose parent vanished are skipped.
func Run(ctx context.Context, t *tree.Tree, loads []Load) error {
	now := time.Now()
	var queue []pending
	schedule := func(ls []Load, from time.Time) {
		for _, l := range ls {
			queue = append(queue, pending{due: from.Add(l.Delay), load: l})
		}
		slices.SortStableFunc(queue, func(a, b pending) int { return a.due.Compare(b.due) })
	}
	schedule(loads, now)

	for len(queue) > 0 {
		next := queue[0]
		queue = queue[1:]

		if wait := time.Until(next.due); wait > 0 {
			timer := time.NewTimer(wait)
			select {
			case <-ctx.Done():
				timer.Stop()
				return ctx.Err()
			case <-timer.C:
			}
		} else if err := ctx.Err(); err != nil {
			return err
		}

		follow, err := Apply(t, next.load)
		if err != nil {
			logger.Warn("demo load skipped", "parent", next.load.Parent, "error", err)
		}
		schedule(follow, time.Now())
	}
	return nil
}
