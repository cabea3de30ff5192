package command

import (
	"fmt"

	"github.com/atlasbruce/bramble/pkg/domain"
)

// LinkNodesCommand adds a parent→child edge. The caller is expected to have
// already run validator.CanCreateConnection; the command layer trusts its
// input and enforces no invariants itself, keeping undo symmetric.
type LinkNodesCommand struct {
	base
	parentID int
	childID  int
}

// NewLinkNodes builds a link command.
func NewLinkNodes(graphs GraphResolver, graphID domain.GraphID, parentID, childID int) *LinkNodesCommand {
	return &LinkNodesCommand{
		base:     base{graphs: graphs, graphID: graphID},
		parentID: parentID,
		childID:  childID,
	}
}

func (c *LinkNodesCommand) Execute() error {
	g, err := c.graph()
	if err != nil {
		return err
	}
	if !g.LinkNodes(c.parentID, c.childID) {
		return fmt.Errorf("link %d -> %d: %w", c.parentID, c.childID, domain.ErrNodeNotFound)
	}
	return nil
}

func (c *LinkNodesCommand) Undo() error {
	g, err := c.graph()
	if err != nil {
		return err
	}
	if !g.UnlinkNodes(c.parentID, c.childID) {
		return fmt.Errorf("unlink %d -> %d: edge not found", c.parentID, c.childID)
	}
	return nil
}

func (c *LinkNodesCommand) Description() string {
	return fmt.Sprintf("Connect node %d to %d", c.parentID, c.childID)
}

func (c *LinkNodesCommand) Kind() string { return "link-nodes" }

// UnlinkNodesCommand removes a parent→child edge. It records the child's
// slot position so undo restores the original execution priority.
type UnlinkNodesCommand struct {
	base
	parentID int
	childID  int

	slot     int
	captured bool
}

// NewUnlinkNodes builds an unlink command.
func NewUnlinkNodes(graphs GraphResolver, graphID domain.GraphID, parentID, childID int) *UnlinkNodesCommand {
	return &UnlinkNodesCommand{
		base:     base{graphs: graphs, graphID: graphID},
		parentID: parentID,
		childID:  childID,
	}
}

func (c *UnlinkNodesCommand) Execute() error {
	g, err := c.graph()
	if err != nil {
		return err
	}

	if !c.captured {
		c.slot = g.ChildSlot(c.parentID, c.childID)
		c.captured = true
	}

	if !g.UnlinkNodes(c.parentID, c.childID) {
		return fmt.Errorf("unlink %d -> %d: edge not found", c.parentID, c.childID)
	}
	return nil
}

func (c *UnlinkNodesCommand) Undo() error {
	g, err := c.graph()
	if err != nil {
		return err
	}
	if !g.LinkNodesAt(c.parentID, c.childID, c.slot) {
		return fmt.Errorf("link %d -> %d: %w", c.parentID, c.childID, domain.ErrNodeNotFound)
	}
	return nil
}

func (c *UnlinkNodesCommand) Description() string {
	return fmt.Sprintf("Disconnect node %d from %d", c.parentID, c.childID)
}

func (c *UnlinkNodesCommand) Kind() string { return "unlink-nodes" }
