/*
Package command encapsulates every graph mutation as an executable,
undoable object and provides the bounded linear undo/redo stack that is the
only sanctioned way to mutate a graph.

Commands address their graph by GraphID and resolve it lazily through a
GraphResolver at Execute/Undo time, so a command stays valid across graph
lookups and never holds a direct graph reference.

The command layer trusts its input: validation (see the validator package)
is a pre-condition gate run by the caller, not a runtime guard. That keeps
Execute/Undo symmetric.
*/
package command

import (
	"fmt"

	"github.com/atlasbruce/bramble/pkg/domain"
)

// GraphResolver resolves a graph id to the live graph instance. The
// workspace Manager implements it.
type GraphResolver interface {
	// Graph returns the open graph for id, or domain.ErrGraphNotFound.
	Graph(id domain.GraphID) (*domain.NodeGraph, error)
}

// Command is a single reversible edit. Execute and Undo are exact inverses:
// Execute(); Undo() leaves the graph observationally identical to the state
// before Execute.
type Command interface {
	Execute() error
	Undo() error

	// Description is a short label for history UI. Presentation metadata
	// only; never used for equality.
	Description() string

	// Kind is a low-cardinality tag naming the operation, used for
	// metrics and logging.
	Kind() string
}

// base carries the graph address shared by all concrete commands.
type base struct {
	graphs  GraphResolver
	graphID domain.GraphID
}

func (b base) graph() (*domain.NodeGraph, error) {
	g, err := b.graphs.Graph(b.graphID)
	if err != nil {
		return nil, fmt.Errorf("resolve graph %s: %w", b.graphID, err)
	}
	return g, nil
}
