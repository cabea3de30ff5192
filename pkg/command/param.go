package command

import (
	"fmt"

	"github.com/atlasbruce/bramble/pkg/domain"
)

// SetParameterCommand swaps a single parameter's value. It remembers
// whether the key existed before, so undo removes a key that was freshly
// introduced instead of leaving an empty value behind.
type SetParameterCommand struct {
	base
	nodeID int
	key    string
	value  string

	oldValue string
	hadKey   bool
	captured bool
}

// NewSetParameter builds a set-parameter command.
func NewSetParameter(graphs GraphResolver, graphID domain.GraphID, nodeID int, key, value string) *SetParameterCommand {
	return &SetParameterCommand{
		base:   base{graphs: graphs, graphID: graphID},
		nodeID: nodeID,
		key:    key,
		value:  value,
	}
}

func (c *SetParameterCommand) Execute() error {
	g, err := c.graph()
	if err != nil {
		return err
	}

	if !c.captured {
		c.oldValue, c.hadKey = g.Parameter(c.nodeID, c.key)
		c.captured = true
	}

	if !g.SetParameter(c.nodeID, c.key, c.value) {
		return fmt.Errorf("node %d: %w", c.nodeID, domain.ErrNodeNotFound)
	}
	return nil
}

func (c *SetParameterCommand) Undo() error {
	g, err := c.graph()
	if err != nil {
		return err
	}

	if c.hadKey {
		if !g.SetParameter(c.nodeID, c.key, c.oldValue) {
			return fmt.Errorf("node %d: %w", c.nodeID, domain.ErrNodeNotFound)
		}
		return nil
	}
	if !g.RemoveParameter(c.nodeID, c.key) {
		return fmt.Errorf("node %d: parameter %q not found", c.nodeID, c.key)
	}
	return nil
}

func (c *SetParameterCommand) Description() string {
	return fmt.Sprintf("Set parameter %q on node %d", c.key, c.nodeID)
}

func (c *SetParameterCommand) Kind() string { return "set-parameter" }
