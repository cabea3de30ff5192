package domain

import (
	"errors"
	"fmt"
)

// ErrGraphNotFound is returned when a graph ID cannot be resolved.
var ErrGraphNotFound = errors.New("graph not found")

// ErrNodeNotFound is returned when a node lookup misses.
var ErrNodeNotFound = errors.New("node not found")

// ErrNodeExists is returned when inserting a node whose id is already in use.
var ErrNodeExists = errors.New("node id already in use")

// DecodeError reports malformed serialized graph data. Decoding is strict:
// unknown node types or inconsistent ids are surfaced to the caller instead
// of being silently defaulted, so an imported graph is never quietly
// corrupted.
type DecodeError struct {
	Field  string
	Reason string
}

func (e *DecodeError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("decode graph: %s", e.Reason)
	}
	return fmt.Sprintf("decode graph: field %q: %s", e.Field, e.Reason)
}
