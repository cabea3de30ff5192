package domain

import (
	"encoding/json"
	"fmt"
)

// Wire shape for a serialized graph. Node order is preserved on both ends so
// that childIds ordering (execution priority) stays meaningful on reload.
type graphJSON struct {
	Name       string            `json:"name"`
	Kind       string            `json:"type"`
	RootNodeID int               `json:"rootNodeId"`
	Nodes      []json.RawMessage `json:"nodes"`
}

type nodeJSON struct {
	ID               int               `json:"id"`
	Type             string            `json:"type"`
	Name             string            `json:"name"`
	PosX             float64           `json:"posX"`
	PosY             float64           `json:"posY"`
	ActionType       string            `json:"actionType,omitempty"`
	ConditionType    string            `json:"conditionType,omitempty"`
	DecoratorType    string            `json:"decoratorType,omitempty"`
	Parameters       map[string]string `json:"parameters"`
	ChildIDs         []int             `json:"childIds"`
	DecoratorChildID int               `json:"decoratorChildId"`
}

// MarshalJSON serializes the graph with nodes in insertion order.
func (g *NodeGraph) MarshalJSON() ([]byte, error) {
	out := graphJSON{
		Name:       g.name,
		Kind:       string(g.kind),
		RootNodeID: g.rootID,
		Nodes:      make([]json.RawMessage, 0, len(g.order)),
	}

	for _, id := range g.order {
		n := g.nodes[id]
		params := n.Parameters
		if params == nil {
			params = map[string]string{}
		}
		childIDs := n.ChildIDs
		if childIDs == nil {
			childIDs = []int{}
		}
		raw, err := json.Marshal(nodeJSON{
			ID:               n.ID,
			Type:             string(n.Type),
			Name:             n.Name,
			PosX:             n.X,
			PosY:             n.Y,
			ActionType:       n.ActionType,
			ConditionType:    n.ConditionType,
			DecoratorType:    n.DecoratorType,
			Parameters:       params,
			ChildIDs:         childIDs,
			DecoratorChildID: n.DecoratorChildID,
		})
		if err != nil {
			return nil, fmt.Errorf("marshal node %d: %w", n.ID, err)
		}
		out.Nodes = append(out.Nodes, raw)
	}

	return json.Marshal(out)
}

// UnmarshalJSON decodes a serialized graph. Decoding is strict: unknown node
// types, duplicate ids or a dangling root are reported as a DecodeError
// instead of being silently repaired.
func (g *NodeGraph) UnmarshalJSON(data []byte) error {
	var raw graphJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return &DecodeError{Reason: err.Error()}
	}

	kind := GraphKind(raw.Kind)
	if !kind.Valid() {
		return &DecodeError{Field: "type", Reason: fmt.Sprintf("unknown graph kind %q", raw.Kind)}
	}

	decoded := NodeGraph{
		name:   raw.Name,
		kind:   kind,
		rootID: NoNode,
		nextID: 1,
		nodes:  make(map[int]*GraphNode, len(raw.Nodes)),
	}

	for i, rawNode := range raw.Nodes {
		// Prefill the sentinel: an absent decoratorChildId means "no child",
		// which is not the zero value of int.
		nj := nodeJSON{DecoratorChildID: NoNode}
		if err := json.Unmarshal(rawNode, &nj); err != nil {
			return &DecodeError{Field: fmt.Sprintf("nodes[%d]", i), Reason: err.Error()}
		}

		nodeType, err := ParseNodeType(nj.Type)
		if err != nil {
			return &DecodeError{Field: fmt.Sprintf("nodes[%d].type", i), Reason: fmt.Sprintf("unknown node type %q", nj.Type)}
		}
		if nj.ID <= 0 {
			return &DecodeError{Field: fmt.Sprintf("nodes[%d].id", i), Reason: fmt.Sprintf("invalid node id %d", nj.ID)}
		}
		if _, dup := decoded.nodes[nj.ID]; dup {
			return &DecodeError{Field: fmt.Sprintf("nodes[%d].id", i), Reason: fmt.Sprintf("duplicate node id %d", nj.ID)}
		}

		params := nj.Parameters
		if params == nil {
			params = make(map[string]string)
		}

		decoded.nodes[nj.ID] = &GraphNode{
			ID:               nj.ID,
			Type:             nodeType,
			Name:             nj.Name,
			X:                nj.PosX,
			Y:                nj.PosY,
			ActionType:       nj.ActionType,
			ConditionType:    nj.ConditionType,
			DecoratorType:    nj.DecoratorType,
			Parameters:       params,
			ChildIDs:         append([]int(nil), nj.ChildIDs...),
			DecoratorChildID: nj.DecoratorChildID,
		}
		decoded.order = append(decoded.order, nj.ID)

		if nj.ID >= decoded.nextID {
			decoded.nextID = nj.ID + 1
		}
	}

	if raw.RootNodeID != NoNode {
		if _, ok := decoded.nodes[raw.RootNodeID]; !ok {
			return &DecodeError{Field: "rootNodeId", Reason: fmt.Sprintf("root node %d is not in the node set", raw.RootNodeID)}
		}
		decoded.rootID = raw.RootNodeID
	}

	*g = decoded
	return nil
}
