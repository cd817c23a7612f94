package tree

import "log/slog"

// Options are the view-level switches that gate the engine's behavior.
type Options struct {
	// DisplayRootElement includes the root itself in the projection.
	DisplayRootElement bool `yaml:"display_root_element" json:"display_root_element"`
	// Draggable allows nodes to be picked up.
	Draggable bool `yaml:"draggable" json:"draggable"`
	// Droppable allows nodes to accept drops.
	Droppable bool `yaml:"droppable" json:"droppable"`
	// Selectable enables click selection.
	Selectable bool `yaml:"selectable" json:"selectable"`
}

// DefaultOptions returns the default configuration: root hidden, everything enabled.
func DefaultOptions() Options {
	return Options{
		DisplayRootElement: false,
		Draggable:          true,
		Droppable:          true,
		Selectable:         true,
	}
}

// Option configures a Tree.
type Option func(*Tree)

// WithOptions replaces the tree's options.
func WithOptions(o Options) Option {
	return func(t *Tree) {
		t.opts = o
	}
}

// WithHooks installs notification callbacks.
func WithHooks(h Hooks) Option {
	return func(t *Tree) {
		t.hooks = h
	}
}

// WithLogger sets the logger used for move diagnostics.
// Without it the tree logs through the package-level logger.
func WithLogger(l *slog.Logger) Option {
	return func(t *Tree) {
		t.log = l
	}
}
