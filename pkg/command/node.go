package command

import (
	"fmt"

	"github.com/atlasbruce/bramble/pkg/domain"
	"github.com/atlasbruce/bramble/pkg/validator"
)

// duplicateOffset is the canvas displacement applied to a duplicated node so
// it does not land exactly on its source.
const duplicateOffset = 30.0

// CreateNodeCommand adds a node to a graph. Undo deletes it; redo restores
// it under the same id so later history stays coherent.
type CreateNodeCommand struct {
	base
	nodeType domain.NodeType
	x, y     float64
	name     string

	createdID int
	snapshot  domain.GraphNode
}

// NewCreateNode builds a create-node command.
func NewCreateNode(graphs GraphResolver, graphID domain.GraphID, t domain.NodeType, x, y float64, name string) *CreateNodeCommand {
	return &CreateNodeCommand{
		base:     base{graphs: graphs, graphID: graphID},
		nodeType: t,
		x:        x,
		y:        y,
		name:     name,
	}
}

func (c *CreateNodeCommand) Execute() error {
	g, err := c.graph()
	if err != nil {
		return err
	}

	if c.createdID == 0 {
		c.createdID = g.CreateNode(c.nodeType, c.x, c.y, c.name)
		c.snapshot, _ = g.Node(c.createdID)
		return nil
	}

	// Redo path: reinsert under the original id.
	return g.InsertNode(c.snapshot)
}

func (c *CreateNodeCommand) Undo() error {
	g, err := c.graph()
	if err != nil {
		return err
	}
	if !g.DeleteNode(c.createdID) {
		return fmt.Errorf("delete node %d: %w", c.createdID, domain.ErrNodeNotFound)
	}
	return nil
}

// CreatedID returns the id assigned on first execution.
func (c *CreateNodeCommand) CreatedID() int { return c.createdID }

func (c *CreateNodeCommand) Description() string {
	return fmt.Sprintf("Create %s node %q", c.nodeType, c.name)
}

func (c *CreateNodeCommand) Kind() string { return "create-node" }

// DeleteNodeCommand removes a node. Before deleting it snapshots the entire
// node payload plus the incoming link (parent id and slot position), so undo
// restores the node under its original id with both its outgoing links and
// its place in the parent's execution order intact.
type DeleteNodeCommand struct {
	base
	nodeID int

	snapshot domain.GraphNode
	parentID int
	slot     int
	wasRoot  bool
	captured bool
}

// NewDeleteNode builds a delete-node command.
func NewDeleteNode(graphs GraphResolver, graphID domain.GraphID, nodeID int) *DeleteNodeCommand {
	return &DeleteNodeCommand{
		base:   base{graphs: graphs, graphID: graphID},
		nodeID: nodeID,
	}
}

func (c *DeleteNodeCommand) Execute() error {
	g, err := c.graph()
	if err != nil {
		return err
	}

	n, found := g.Node(c.nodeID)
	if !found {
		return fmt.Errorf("node %d: %w", c.nodeID, domain.ErrNodeNotFound)
	}

	if !c.captured {
		c.snapshot = n
		c.parentID = validator.ParentOf(g, c.nodeID)
		c.slot = -1
		if c.parentID != domain.NoNode {
			c.slot = g.ChildSlot(c.parentID, c.nodeID)
		}
		c.wasRoot = g.RootID() == c.nodeID
		c.captured = true
	}

	g.DeleteNode(c.nodeID)
	return nil
}

func (c *DeleteNodeCommand) Undo() error {
	g, err := c.graph()
	if err != nil {
		return err
	}

	if err := g.InsertNode(c.snapshot); err != nil {
		return err
	}
	if c.wasRoot {
		g.SetRoot(c.nodeID)
	}
	if c.parentID != domain.NoNode {
		if !g.LinkNodesAt(c.parentID, c.nodeID, c.slot) {
			return fmt.Errorf("relink node %d to parent %d: %w", c.nodeID, c.parentID, domain.ErrNodeNotFound)
		}
	}
	return nil
}

func (c *DeleteNodeCommand) Description() string {
	if c.captured {
		return fmt.Sprintf("Delete %s node %q", c.snapshot.Type, c.snapshot.Name)
	}
	return fmt.Sprintf("Delete node %d", c.nodeID)
}

func (c *DeleteNodeCommand) Kind() string { return "delete-node" }

// MoveNodeCommand changes a node's canvas position. Position is not
// structural, so the validator is never involved.
type MoveNodeCommand struct {
	base
	nodeID     int
	newX, newY float64

	oldX, oldY float64
	captured   bool
}

// NewMoveNode builds a move-node command.
func NewMoveNode(graphs GraphResolver, graphID domain.GraphID, nodeID int, x, y float64) *MoveNodeCommand {
	return &MoveNodeCommand{
		base:   base{graphs: graphs, graphID: graphID},
		nodeID: nodeID,
		newX:   x,
		newY:   y,
	}
}

func (c *MoveNodeCommand) Execute() error {
	g, err := c.graph()
	if err != nil {
		return err
	}

	if !c.captured {
		n, found := g.Node(c.nodeID)
		if !found {
			return fmt.Errorf("node %d: %w", c.nodeID, domain.ErrNodeNotFound)
		}
		c.oldX, c.oldY = n.X, n.Y
		c.captured = true
	}

	if !g.MoveNode(c.nodeID, c.newX, c.newY) {
		return fmt.Errorf("node %d: %w", c.nodeID, domain.ErrNodeNotFound)
	}
	return nil
}

func (c *MoveNodeCommand) Undo() error {
	g, err := c.graph()
	if err != nil {
		return err
	}
	if !g.MoveNode(c.nodeID, c.oldX, c.oldY) {
		return fmt.Errorf("node %d: %w", c.nodeID, domain.ErrNodeNotFound)
	}
	return nil
}

func (c *MoveNodeCommand) Description() string {
	return fmt.Sprintf("Move node %d", c.nodeID)
}

func (c *MoveNodeCommand) Kind() string { return "move-node" }

// DuplicateNodeCommand clones a source node's type, subtypes and parameters
// at an offset position. Links are not duplicated. Undo deletes the clone;
// redo restores it under the same id.
type DuplicateNodeCommand struct {
	base
	sourceID int

	duplicateID int
	snapshot    domain.GraphNode
}

// NewDuplicateNode builds a duplicate-node command.
func NewDuplicateNode(graphs GraphResolver, graphID domain.GraphID, sourceID int) *DuplicateNodeCommand {
	return &DuplicateNodeCommand{
		base:     base{graphs: graphs, graphID: graphID},
		sourceID: sourceID,
	}
}

func (c *DuplicateNodeCommand) Execute() error {
	g, err := c.graph()
	if err != nil {
		return err
	}

	if c.duplicateID != 0 {
		return g.InsertNode(c.snapshot)
	}

	src, found := g.Node(c.sourceID)
	if !found {
		return fmt.Errorf("node %d: %w", c.sourceID, domain.ErrNodeNotFound)
	}

	proto := src.Clone()
	proto.X += duplicateOffset
	proto.Y += duplicateOffset

	c.duplicateID = g.CreateNodeFrom(proto)
	c.snapshot, _ = g.Node(c.duplicateID)
	return nil
}

func (c *DuplicateNodeCommand) Undo() error {
	g, err := c.graph()
	if err != nil {
		return err
	}
	if !g.DeleteNode(c.duplicateID) {
		return fmt.Errorf("delete node %d: %w", c.duplicateID, domain.ErrNodeNotFound)
	}
	return nil
}

// DuplicateID returns the id assigned to the clone on first execution.
func (c *DuplicateNodeCommand) DuplicateID() int { return c.duplicateID }

func (c *DuplicateNodeCommand) Description() string {
	return fmt.Sprintf("Duplicate node %d", c.sourceID)
}

func (c *DuplicateNodeCommand) Kind() string { return "duplicate-node" }

// EditNodeCommand swaps a node's name and its type-appropriate subtype
// field (actionType / conditionType / decoratorType).
type EditNodeCommand struct {
	base
	nodeID     int
	newName    string
	newSubtype string

	oldName    string
	oldSubtype string
	captured   bool
}

// NewEditNode builds an edit-node command.
func NewEditNode(graphs GraphResolver, graphID domain.GraphID, nodeID int, name, subtype string) *EditNodeCommand {
	return &EditNodeCommand{
		base:       base{graphs: graphs, graphID: graphID},
		nodeID:     nodeID,
		newName:    name,
		newSubtype: subtype,
	}
}

func (c *EditNodeCommand) Execute() error {
	g, err := c.graph()
	if err != nil {
		return err
	}

	n, found := g.Node(c.nodeID)
	if !found {
		return fmt.Errorf("node %d: %w", c.nodeID, domain.ErrNodeNotFound)
	}

	if !c.captured {
		c.oldName = n.Name
		c.oldSubtype = n.Subtype()
		c.captured = true
	}

	g.RenameNode(c.nodeID, c.newName)
	g.SetSubtype(c.nodeID, c.newSubtype)
	return nil
}

func (c *EditNodeCommand) Undo() error {
	g, err := c.graph()
	if err != nil {
		return err
	}
	if !g.RenameNode(c.nodeID, c.oldName) {
		return fmt.Errorf("node %d: %w", c.nodeID, domain.ErrNodeNotFound)
	}
	g.SetSubtype(c.nodeID, c.oldSubtype)
	return nil
}

func (c *EditNodeCommand) Description() string {
	return fmt.Sprintf("Edit node %d (%q)", c.nodeID, c.newName)
}

func (c *EditNodeCommand) Kind() string { return "edit-node" }
