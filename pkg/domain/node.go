package domain

import "fmt"

// NodeType determines the structural capacity of a node (how many children
// it may hold) and which subtype field is meaningful.
type NodeType string

const (
	// NodeTypeSequence runs its children in order until one fails.
	NodeTypeSequence NodeType = "Sequence"
	// NodeTypeSelector runs its children in order until one succeeds.
	NodeTypeSelector NodeType = "Selector"
	// NodeTypeAction is a leaf that performs work. Never has children.
	NodeTypeAction NodeType = "Action"
	// NodeTypeCondition is a leaf that evaluates a predicate. Never has children.
	NodeTypeCondition NodeType = "Condition"
	// NodeTypeDecorator wraps exactly one child.
	NodeTypeDecorator NodeType = "Decorator"

	// NodeTypeState is an HFSM state; it may nest sub-states.
	NodeTypeState NodeType = "State"
	// NodeTypeTransition is an HFSM transition pointing at a single target.
	NodeTypeTransition NodeType = "Transition"
	// NodeTypeComment is an annotation with no structural meaning.
	NodeTypeComment NodeType = "Comment"
)

// nodeTypes is the closed set of valid types, in canonical order.
var nodeTypes = []NodeType{
	NodeTypeSequence,
	NodeTypeSelector,
	NodeTypeAction,
	NodeTypeCondition,
	NodeTypeDecorator,
	NodeTypeState,
	NodeTypeTransition,
	NodeTypeComment,
}

// Valid reports whether t is one of the known node types.
func (t NodeType) Valid() bool {
	for _, known := range nodeTypes {
		if t == known {
			return true
		}
	}
	return false
}

func (t NodeType) String() string { return string(t) }

// ParseNodeType converts the canonical string form into a NodeType.
// Unknown strings are an error, never silently defaulted.
func ParseNodeType(s string) (NodeType, error) {
	t := NodeType(s)
	if !t.Valid() {
		return "", &DecodeError{Field: "type", Reason: fmt.Sprintf("unknown node type %q", s)}
	}
	return t, nil
}

// NoNode is the sentinel for "no node referenced" (absent decorator child,
// unset root, missing parent). Node ids are allocated starting at 1, so
// neither 0 nor NoNode ever collides with a real id.
const NoNode = -1

// GraphNode is a single node value. It is data only; all structural
// behavior lives on NodeGraph.
type GraphNode struct {
	// ID is unique within the owning graph, assigned monotonically and
	// never reused for the graph's lifetime.
	ID   int
	Type NodeType
	Name string

	// X, Y is the editor canvas position. It has no structural meaning.
	X, Y float64

	// Subtype strings, each meaningful only for the corresponding Type.
	ActionType    string
	ConditionType string
	DecoratorType string

	// Parameters holds free-form key/value configuration.
	Parameters map[string]string

	// ChildIDs are composite children in execution-priority order.
	ChildIDs []int

	// DecoratorChildID is the single child of a Decorator, NoNode if absent.
	DecoratorChildID int
}

// Clone returns a deep copy of the node.
func (n GraphNode) Clone() GraphNode {
	c := n
	c.Parameters = make(map[string]string, len(n.Parameters))
	for k, v := range n.Parameters {
		c.Parameters[k] = v
	}
	c.ChildIDs = append([]int(nil), n.ChildIDs...)
	return c
}

// HasChild reports whether id appears in the node's child list or as its
// decorator child.
func (n GraphNode) HasChild(id int) bool {
	if n.DecoratorChildID != NoNode && n.DecoratorChildID == id {
		return true
	}
	for _, c := range n.ChildIDs {
		if c == id {
			return true
		}
	}
	return false
}

// ChildCount returns the number of occupied child slots.
func (n GraphNode) ChildCount() int {
	count := len(n.ChildIDs)
	if n.DecoratorChildID != NoNode {
		count++
	}
	return count
}

// Subtype returns the subtype field matching the node's type, or "" when
// the type carries no subtype.
func (n GraphNode) Subtype() string {
	switch n.Type {
	case NodeTypeAction:
		return n.ActionType
	case NodeTypeCondition:
		return n.ConditionType
	case NodeTypeDecorator:
		return n.DecoratorType
	default:
		return ""
	}
}
