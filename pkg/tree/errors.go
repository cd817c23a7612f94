package tree

import (
	"errors"
	"fmt"
)

var (
	// ErrCycle is returned when a move would place a node inside its own subtree.
	ErrCycle = errors.New("target is the node itself or one of its descendants")

	// ErrNoOp is returned when a move would leave the node where it already is.
	// Callers usually treat it as informational.
	ErrNoOp = errors.New("node is already at the requested position")

	// ErrInvalidReference is returned for None, unknown or removed node handles.
	ErrInvalidReference = errors.New("invalid node reference")

	// ErrIndexOutOfRange is returned when a move index falls outside the target's children.
	ErrIndexOutOfRange = errors.New("index out of range")
)

// MoveError describes a rejected hierarchy mutation.
type MoveError struct {
	Op     string // "move", "insert-into", "insert-after", "remove"
	Node   NodeID
	Target NodeID
	Index  int
	Err    error
}

func (e *MoveError) Error() string {
	if e.Target == None {
		return fmt.Sprintf("%s node %d: %v", e.Op, e.Node, e.Err)
	}
	return fmt.Sprintf("%s node %d to %d[%d]: %v", e.Op, e.Node, e.Target, e.Index, e.Err)
}

func (e *MoveError) Unwrap() error {
	return e.Err
}

// NodeError describes a failed state operation on a single node.
type NodeError struct {
	Op   string
	Node NodeID
	Err  error
}

func (e *NodeError) Error() string {
	return fmt.Sprintf("%s node %d: %v", e.Op, e.Node, e.Err)
}

func (e *NodeError) Unwrap() error {
	return e.Err
}
