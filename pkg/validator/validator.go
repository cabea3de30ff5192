// Package validator decides whether prospective node connections keep a
// graph tree-shaped. Every function is a pure read over a NodeGraph
// snapshot; nothing here mutates. Callers check the Result before building
// a link command, so illegal edits are rejected before they reach the
// command stack.
package validator

import (
	"fmt"

	"github.com/atlasbruce/bramble/pkg/domain"
)

// Result is the typed outcome of a rule check: success, or failure with a
// human-readable reason. Validator functions never panic and never no-op
// silently.
type Result struct {
	OK     bool
	Reason string
}

// RuleError is the error form of a failed rule check.
type RuleError struct {
	Reason string
}

func (e *RuleError) Error() string {
	return "invalid connection: " + e.Reason
}

// Err converts a failed result into a *RuleError, nil on success.
func (r Result) Err() error {
	if r.OK {
		return nil
	}
	return &RuleError{Reason: r.Reason}
}

func ok() Result { return Result{OK: true} }

func reject(format string, args ...any) Result {
	return Result{Reason: fmt.Sprintf(format, args...)}
}

// Unlimited is the MaxChildren sentinel for composite types with no
// capacity bound.
const Unlimited = -1

// MaxChildren returns the structural child capacity of a node type.
func MaxChildren(t domain.NodeType) int {
	switch t {
	case domain.NodeTypeSequence, domain.NodeTypeSelector, domain.NodeTypeState:
		return Unlimited
	case domain.NodeTypeDecorator, domain.NodeTypeTransition:
		return 1
	default:
		// Action, Condition, Comment are leaves.
		return 0
	}
}

// MinChildren returns the advisory minimum below which a node is
// under-populated. Minimums are never enforced at connection time; they
// only feed Lint.
func MinChildren(t domain.NodeType) int {
	switch t {
	case domain.NodeTypeSequence, domain.NodeTypeSelector, domain.NodeTypeDecorator, domain.NodeTypeTransition:
		return 1
	default:
		return 0
	}
}

// CanCreateConnection is the authoritative gate for adding a parent→child
// edge. Checks run in a fixed order, short-circuiting on the first failure,
// so earlier checks yield the most specific reason for a given input.
func CanCreateConnection(g *domain.NodeGraph, parentID, childID int) Result {
	if g == nil {
		return reject("no graph")
	}

	parent, okParent := g.Node(parentID)
	if !okParent {
		return reject("parent node %d does not exist", parentID)
	}
	if !g.Contains(childID) {
		return reject("child node %d does not exist", childID)
	}

	if parentID == childID {
		return reject("cannot connect a node to itself")
	}

	if MaxChildren(parent.Type) == 0 {
		return reject("%s nodes cannot have children", parent.Type)
	}

	if g.RootID() == childID {
		return reject("the root node cannot have a parent")
	}

	if r := canAcceptChild(parent); !r.OK {
		return r
	}

	if existing := ParentOf(g, childID); existing != domain.NoNode && existing != parentID {
		return reject("node %d already has a parent (node %d)", childID, existing)
	}

	if WouldCreateCycle(g, parentID, childID) {
		return reject("connection from %d to %d would create a cycle", parentID, childID)
	}

	if parent.HasChild(childID) {
		return reject("nodes %d and %d are already connected", parentID, childID)
	}

	return ok()
}

// CanAcceptChild reports whether the node has remaining child capacity.
func CanAcceptChild(g *domain.NodeGraph, nodeID int) Result {
	if g == nil {
		return reject("no graph")
	}
	n, found := g.Node(nodeID)
	if !found {
		return reject("node %d does not exist", nodeID)
	}
	return canAcceptChild(n)
}

func canAcceptChild(n domain.GraphNode) Result {
	max := MaxChildren(n.Type)
	switch {
	case max == 0:
		return reject("%s nodes cannot have children", n.Type)
	case max != Unlimited && n.ChildCount() >= max:
		return reject("node %d already has the maximum number of children (%d)", n.ID, max)
	default:
		return ok()
	}
}

// CanAcceptParent reports whether the node may acquire a parent: it must
// not be the designated root and must not already be parented.
func CanAcceptParent(g *domain.NodeGraph, nodeID int) Result {
	if g == nil {
		return reject("no graph")
	}
	if !g.Contains(nodeID) {
		return reject("node %d does not exist", nodeID)
	}
	if g.RootID() == nodeID {
		return reject("the root node cannot have a parent")
	}
	if existing := ParentOf(g, nodeID); existing != domain.NoNode {
		return reject("node %d already has a parent (node %d)", nodeID, existing)
	}
	return ok()
}

// WouldCreateCycle reports whether a path already exists from childID back
// to parentID, i.e. whether adding parent→child would close a cycle. The
// search follows both ordinary children and the decorator child and keeps a
// visited set, so it terminates even on a graph that is already
// (incorrectly) cyclic.
func WouldCreateCycle(g *domain.NodeGraph, parentID, childID int) bool {
	if g == nil {
		return false
	}

	visited := make(map[int]bool)
	stack := []int{childID}

	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if id == parentID {
			return true
		}
		if visited[id] {
			continue
		}
		visited[id] = true

		n, found := g.Node(id)
		if !found {
			continue
		}
		stack = append(stack, n.ChildIDs...)
		if n.DecoratorChildID != domain.NoNode {
			stack = append(stack, n.DecoratorChildID)
		}
	}
	return false
}

// ParentOf returns the id of the node listing nodeID as a child, or NoNode.
// It is a deliberate O(N) reverse scan: graphs are editor-scale, and the
// scan keeps the forward model free of back-pointers that would need
// maintenance on every structural edit.
func ParentOf(g *domain.NodeGraph, nodeID int) int {
	if g == nil {
		return domain.NoNode
	}
	for _, n := range g.Nodes() {
		if n.ID == nodeID {
			continue
		}
		if n.HasChild(nodeID) {
			return n.ID
		}
	}
	return domain.NoNode
}

// RootNodes returns every parentless node, in insertion order. The single
// legitimate root is the graph's designated root; see OrphanNodes for the
// rest.
func RootNodes(g *domain.NodeGraph) []int {
	if g == nil {
		return nil
	}
	var out []int
	for _, n := range g.Nodes() {
		if ParentOf(g, n.ID) == domain.NoNode {
			out = append(out, n.ID)
		}
	}
	return out
}

// OrphanNodes returns parentless nodes other than the designated root.
// Diagnostic only: orphans are never auto-deleted or auto-attached.
func OrphanNodes(g *domain.NodeGraph) []int {
	if g == nil {
		return nil
	}
	var out []int
	for _, id := range RootNodes(g) {
		if id != g.RootID() {
			out = append(out, id)
		}
	}
	return out
}

// Lint returns advisory warnings: orphaned nodes and under-populated
// composites. None of these block editing.
func Lint(g *domain.NodeGraph) []string {
	if g == nil {
		return nil
	}
	var warnings []string

	for _, id := range OrphanNodes(g) {
		n, _ := g.Node(id)
		warnings = append(warnings, fmt.Sprintf("node %d (%s) has no parent and is not the root", id, n.Name))
	}

	for _, n := range g.Nodes() {
		if min := MinChildren(n.Type); n.ChildCount() < min {
			warnings = append(warnings, fmt.Sprintf("%s node %d (%s) has %d children, expected at least %d", n.Type, n.ID, n.Name, n.ChildCount(), min))
		}
	}
	return warnings
}
