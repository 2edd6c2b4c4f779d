// Package graph provides the stateful graph execution engine for
// tool-driven agent workflows: compilation, routing, streaming
// execution, interrupt/checkpoint/resume, and run-lifecycle events.
package graph

import (
	"errors"
	"fmt"
)

// ErrMaxIterationsExceeded is returned when a run's iteration bound is hit
// without reaching END. This guards against missing exit edges and runaway
// loops (A -> B -> A with no conditional break).
var ErrMaxIterationsExceeded = errors.New("max iterations exceeded")

// NodeNotFoundError indicates execution advanced to a name absent from the
// compiled graph. This should not happen against a graph that passed
// Compile(); it is retained as a runtime guard against state corruption
// (e.g. a handler setting next to a typo'd node name via state.SetNext).
type NodeNotFoundError struct {
	Node string
}

func (e *NodeNotFoundError) Error() string {
	return fmt.Sprintf("graph: node %q not found", e.Node)
}

// BranchError indicates a conditional edge's branch evaluated state to a
// key with no registered destination.
type BranchError struct {
	Branch string
	Key    string
}

func (e *BranchError) Error() string {
	return fmt.Sprintf("graph: branch %q produced key %q with no destination", e.Branch, e.Key)
}

// ExecutionError is a generic handler or sink failure. Sink failures use
// Node == "event_sink:*"; tool handler failures use Node == "tool:<name>",
// per the propagation policy in spec §7.
type ExecutionError struct {
	Node    string
	Message string
	Cause   error
}

func (e *ExecutionError) Error() string {
	if e.Node != "" {
		return fmt.Sprintf("graph: %s: %s", e.Node, e.Message)
	}
	return "graph: " + e.Message
}

func (e *ExecutionError) Unwrap() error { return e.Cause }

// NewExecutionError builds an ExecutionError, optionally wrapping cause.
func NewExecutionError(node, message string, cause error) *ExecutionError {
	return &ExecutionError{Node: node, Message: message, Cause: cause}
}

// PermissionDeniedError is returned when the permission gate's decision for
// a capability is Deny.
type PermissionDeniedError struct {
	Permission string
	Message    string
}

func (e *PermissionDeniedError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("graph: permission %q denied: %s", e.Permission, e.Message)
	}
	return fmt.Sprintf("graph: permission %q denied", e.Permission)
}

// Interrupt is a single cooperative suspension point surfaced by a node.
// ID uniquely identifies this suspension; Value is the opaque payload
// handed to the caller (for example a permission request).
type Interrupt struct {
	ID    string
	Node  string
	Value any
}

// Interrupted is the cooperative-suspension control-flow signal a node
// handler returns (as an error) to pause a run. It is not itself a
// failure: the executor traps it and returns an Interrupted run result
// with a checkpoint rather than aborting.
type Interrupted struct {
	Pending []Interrupt
}

func (e *Interrupted) Error() string {
	return fmt.Sprintf("graph: interrupted with %d pending interrupt(s)", len(e.Pending))
}

// CheckpointError indicates a resume contract violation: a mismatched
// interrupt id, a missing map entry, or a scalar resume value supplied
// against a multi-interrupt checkpoint. See spec §4.3 and §8 property 5.
type CheckpointError struct {
	Message string
}

func (e *CheckpointError) Error() string { return "graph: checkpoint: " + e.Message }

// AbortedError indicates cancellation was observed, either by a tool's
// cancellation token or by the executor itself.
type AbortedError struct {
	Reason string
}

func (e *AbortedError) Error() string {
	if e.Reason == "" {
		return "graph: aborted"
	}
	return "graph: aborted: " + e.Reason
}

// asInterrupted reports whether err is (or wraps) an *Interrupted, returning
// it for convenience.
func asInterrupted(err error) (*Interrupted, bool) {
	var in *Interrupted
	if errors.As(err, &in) {
		return in, true
	}
	return nil, false
}
