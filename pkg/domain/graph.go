package domain

import (
	"fmt"
	"strings"
)

// GraphKind tags what the graph authors.
type GraphKind string

const (
	GraphKindBehaviorTree GraphKind = "BehaviorTree"
	GraphKindHFSM         GraphKind = "HFSM"
)

// Valid reports whether k is a known graph kind.
func (k GraphKind) Valid() bool {
	return k == GraphKindBehaviorTree || k == GraphKindHFSM
}

// NodeGraph owns a collection of GraphNodes, the root pointer and the link
// topology. Insertion order is preserved for stable iteration and
// serialization.
//
// NodeGraph performs no connection validation itself: LinkNodes and
// UnlinkNodes are side-effecting structural primitives, usable both for
// forward execution and for undo replay. Callers gate prospective links
// through the validator package first.
type NodeGraph struct {
	name   string
	kind   GraphKind
	rootID int
	nextID int

	nodes map[int]*GraphNode
	order []int
}

// NewNodeGraph creates an empty graph. Node ids start at 1.
func NewNodeGraph(name string, kind GraphKind) *NodeGraph {
	return &NodeGraph{
		name:   name,
		kind:   kind,
		rootID: NoNode,
		nextID: 1,
		nodes:  make(map[int]*GraphNode),
	}
}

func (g *NodeGraph) Name() string        { return g.name }
func (g *NodeGraph) SetName(name string) { g.name = name }
func (g *NodeGraph) Kind() GraphKind     { return g.kind }

// RootID returns the designated entry point, NoNode if unset.
func (g *NodeGraph) RootID() int { return g.rootID }

// SetRoot designates id as the graph root. The node must exist; pass NoNode
// to clear the root.
func (g *NodeGraph) SetRoot(id int) bool {
	if id != NoNode {
		if _, ok := g.nodes[id]; !ok {
			return false
		}
	}
	g.rootID = id
	return true
}

// Len returns the number of nodes in the graph.
func (g *NodeGraph) Len() int { return len(g.nodes) }

// Contains reports whether a node with the given id exists.
func (g *NodeGraph) Contains(id int) bool {
	_, ok := g.nodes[id]
	return ok
}

// Clone returns a deep copy of the graph. The copy shares no state with the
// original, so it stays safe to read while the original keeps changing.
func (g *NodeGraph) Clone() *NodeGraph {
	c := &NodeGraph{
		name:   g.name,
		kind:   g.kind,
		rootID: g.rootID,
		nextID: g.nextID,
		nodes:  make(map[int]*GraphNode, len(g.nodes)),
		order:  append([]int(nil), g.order...),
	}
	for id, n := range g.nodes {
		nc := n.Clone()
		c.nodes[id] = &nc
	}
	return c
}

// CreateNode allocates a fresh id and inserts a node with empty children and
// parameters. It never fails.
func (g *NodeGraph) CreateNode(t NodeType, x, y float64, name string) int {
	id := g.nextID
	g.nextID++

	g.nodes[id] = &GraphNode{
		ID:               id,
		Type:             t,
		Name:             name,
		X:                x,
		Y:                y,
		Parameters:       make(map[string]string),
		DecoratorChildID: NoNode,
	}
	g.order = append(g.order, id)
	return id
}

// CreateNodeFrom allocates a fresh id and inserts a deep copy of proto with
// its links stripped. Used to duplicate a node without duplicating its
// subtree.
func (g *NodeGraph) CreateNodeFrom(proto GraphNode) int {
	id := g.nextID
	g.nextID++

	n := proto.Clone()
	n.ID = id
	n.ChildIDs = nil
	n.DecoratorChildID = NoNode

	g.nodes[id] = &n
	g.order = append(g.order, id)
	return id
}

// InsertNode inserts a node under its own id, restoring it exactly as
// captured (including outgoing links). This is the delete-undo path: the
// node keeps its original id so that other structure referencing it by id
// stays coherent. Returns ErrNodeExists if the id is occupied.
func (g *NodeGraph) InsertNode(n GraphNode) error {
	if n.ID <= 0 {
		return fmt.Errorf("insert node: invalid id %d", n.ID)
	}
	if _, ok := g.nodes[n.ID]; ok {
		return fmt.Errorf("insert node %d: %w", n.ID, ErrNodeExists)
	}

	c := n.Clone()
	if c.Parameters == nil {
		c.Parameters = make(map[string]string)
	}
	g.nodes[c.ID] = &c
	g.order = append(g.order, c.ID)

	// Keep the counter monotonic so the id is never handed out again.
	if c.ID >= g.nextID {
		g.nextID = c.ID + 1
	}
	return nil
}

// DeleteNode removes the node and detaches it from any parent. Deletion is
// local: former children are left in place as orphans, never cascaded.
// Deleting the root clears the root pointer. Returns false if id is unknown.
func (g *NodeGraph) DeleteNode(id int) bool {
	if _, ok := g.nodes[id]; !ok {
		return false
	}

	for _, n := range g.nodes {
		if n.ID == id {
			continue
		}
		if n.DecoratorChildID == id {
			n.DecoratorChildID = NoNode
		}
		n.ChildIDs = removeID(n.ChildIDs, id)
	}

	if g.rootID == id {
		g.rootID = NoNode
	}

	delete(g.nodes, id)
	g.order = removeID(g.order, id)
	return true
}

// Node returns a copy of the node. Mutation goes through graph methods so
// the command log never desynchronizes from the structure.
func (g *NodeGraph) Node(id int) (GraphNode, bool) {
	n, ok := g.nodes[id]
	if !ok {
		return GraphNode{}, false
	}
	return n.Clone(), true
}

// LinkNodes appends childID to the parent's child list, or sets the
// decorator child if the parent is a Decorator. No validation is performed;
// run the validator first. Returns false if either node is missing.
func (g *NodeGraph) LinkNodes(parentID, childID int) bool {
	return g.LinkNodesAt(parentID, childID, -1)
}

// LinkNodesAt is LinkNodes with an explicit insertion position in the
// parent's child list (-1 appends). Undo uses it to restore execution
// priority exactly.
func (g *NodeGraph) LinkNodesAt(parentID, childID, pos int) bool {
	parent, ok := g.nodes[parentID]
	if !ok {
		return false
	}
	if _, ok := g.nodes[childID]; !ok {
		return false
	}

	if parent.Type == NodeTypeDecorator {
		parent.DecoratorChildID = childID
		return true
	}

	if pos < 0 || pos >= len(parent.ChildIDs) {
		parent.ChildIDs = append(parent.ChildIDs, childID)
		return true
	}
	parent.ChildIDs = append(parent.ChildIDs[:pos], append([]int{childID}, parent.ChildIDs[pos:]...)...)
	return true
}

// UnlinkNodes removes the parent→child edge. Returns false if the edge does
// not exist.
func (g *NodeGraph) UnlinkNodes(parentID, childID int) bool {
	parent, ok := g.nodes[parentID]
	if !ok {
		return false
	}

	if parent.Type == NodeTypeDecorator {
		if parent.DecoratorChildID != childID {
			return false
		}
		parent.DecoratorChildID = NoNode
		return true
	}

	for i, c := range parent.ChildIDs {
		if c == childID {
			parent.ChildIDs = append(parent.ChildIDs[:i], parent.ChildIDs[i+1:]...)
			return true
		}
	}
	return false
}

// ChildSlot returns the position of childID in the parent's child list, or
// -1 when the edge is absent or held in the decorator slot.
func (g *NodeGraph) ChildSlot(parentID, childID int) int {
	parent, ok := g.nodes[parentID]
	if !ok {
		return -1
	}
	for i, c := range parent.ChildIDs {
		if c == childID {
			return i
		}
	}
	return -1
}

// MoveNode sets the canvas position. Position is not structural, so no
// validation applies.
func (g *NodeGraph) MoveNode(id int, x, y float64) bool {
	n, ok := g.nodes[id]
	if !ok {
		return false
	}
	n.X, n.Y = x, y
	return true
}

// RenameNode sets the display name.
func (g *NodeGraph) RenameNode(id int, name string) bool {
	n, ok := g.nodes[id]
	if !ok {
		return false
	}
	n.Name = name
	return true
}

// SetSubtype writes the subtype field matching the node's type. For types
// without a subtype the call is accepted and ignored.
func (g *NodeGraph) SetSubtype(id int, subtype string) bool {
	n, ok := g.nodes[id]
	if !ok {
		return false
	}
	switch n.Type {
	case NodeTypeAction:
		n.ActionType = subtype
	case NodeTypeCondition:
		n.ConditionType = subtype
	case NodeTypeDecorator:
		n.DecoratorType = subtype
	}
	return true
}

// SetParameter sets a key in the node's parameter map.
func (g *NodeGraph) SetParameter(id int, key, value string) bool {
	n, ok := g.nodes[id]
	if !ok {
		return false
	}
	n.Parameters[key] = value
	return true
}

// Parameter reads a key from the node's parameter map.
func (g *NodeGraph) Parameter(id int, key string) (string, bool) {
	n, ok := g.nodes[id]
	if !ok {
		return "", false
	}
	v, ok := n.Parameters[key]
	return v, ok
}

// RemoveParameter deletes a key from the node's parameter map.
func (g *NodeGraph) RemoveParameter(id int, key string) bool {
	n, ok := g.nodes[id]
	if !ok {
		return false
	}
	if _, had := n.Parameters[key]; !had {
		return false
	}
	delete(n.Parameters, key)
	return true
}

// Nodes returns copies of all nodes in insertion order.
func (g *NodeGraph) Nodes() []GraphNode {
	out := make([]GraphNode, 0, len(g.order))
	for _, id := range g.order {
		out = append(out, g.nodes[id].Clone())
	}
	return out
}

// Links derives the full edge set from node child lists, in insertion order
// of the parents.
func (g *NodeGraph) Links() []Link {
	var out []Link
	for _, id := range g.order {
		n := g.nodes[id]
		for _, c := range n.ChildIDs {
			out = append(out, Link{From: n.ID, To: c})
		}
		if n.DecoratorChildID != NoNode {
			out = append(out, Link{From: n.ID, To: n.DecoratorChildID})
		}
	}
	return out
}

// Validate performs the whole-graph consistency check: a root exists, every
// child reference resolves, the subgraph under the root is acyclic, and no
// node outside the root is left unreachable.
func (g *NodeGraph) Validate() error {
	if len(g.nodes) == 0 {
		return nil
	}
	if g.rootID == NoNode {
		return fmt.Errorf("graph %q has no root node", g.name)
	}
	if _, ok := g.nodes[g.rootID]; !ok {
		return fmt.Errorf("graph %q: root node %d does not exist", g.name, g.rootID)
	}

	var problems []string

	// Dangling child references.
	for _, id := range g.order {
		n := g.nodes[id]
		for _, c := range n.ChildIDs {
			if _, ok := g.nodes[c]; !ok {
				problems = append(problems, fmt.Sprintf("node %d references missing child %d", id, c))
			}
		}
		if n.DecoratorChildID != NoNode {
			if _, ok := g.nodes[n.DecoratorChildID]; !ok {
				problems = append(problems, fmt.Sprintf("node %d references missing decorator child %d", id, n.DecoratorChildID))
			}
		}
	}

	// Reachability and cycle detection from the root.
	const (
		unseen = iota
		visiting
		done
	)
	state := make(map[int]int, len(g.nodes))
	var visit func(id int)
	visit = func(id int) {
		n, ok := g.nodes[id]
		if !ok {
			return
		}
		switch state[id] {
		case visiting:
			problems = append(problems, fmt.Sprintf("cycle detected through node %d", id))
			return
		case done:
			return
		}
		state[id] = visiting
		for _, c := range n.ChildIDs {
			visit(c)
		}
		if n.DecoratorChildID != NoNode {
			visit(n.DecoratorChildID)
		}
		state[id] = done
	}
	visit(g.rootID)

	for _, id := range g.order {
		if state[id] == unseen {
			problems = append(problems, fmt.Sprintf("node %d (%s) is not reachable from the root", id, g.nodes[id].Name))
		}
	}

	if len(problems) > 0 {
		return fmt.Errorf("graph %q is inconsistent:\n- %s", g.name, strings.Join(problems, "\n- "))
	}
	return nil
}

func removeID(ids []int, id int) []int {
	out := ids[:0]
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}
