/*
Package bramble is the authoring core for behavior trees and hierarchical
state machines: a typed node graph, a connection-validation engine that
enforces tree-shape invariants, and a reversible command log that is the
only sanctioned way to mutate a graph.

# Concept

An Editor owns a workspace of open graphs and a bounded undo/redo history.
Every edit (creating, deleting, linking, moving or reconfiguring nodes) is
expressed as a command, executed through the history so it can always be
undone. Prospective connections are gated by the validator before a command
is ever built, so an illegal edit (a cycle, a second parent, an over-full
decorator) is rejected with a specific reason and the graph never leaves a
valid state.

# Key Properties

  - Tree-shape invariants: every non-root node has at most one parent, and
    the subgraph under the root stays acyclic.
  - Reversible editing: Execute/Undo are exact inverses for every command,
    including delete, which restores the node under its original id.
  - Hexagonal Architecture: persistence is behind the GraphStore port, with
    file, Redis and in-memory adapters.

# Usage

	package main

	import (
		"fmt"
		"log"

		"github.com/atlasbruce/bramble"
		"github.com/atlasbruce/bramble/pkg/domain"
	)

	func main() {
		ed := bramble.New()

		id := ed.NewGraph("patrol", domain.GraphKindBehaviorTree)

		root, _ := ed.AddNode(id, domain.NodeTypeSelector, 0, 0, "root")
		walk, _ := ed.AddNode(id, domain.NodeTypeAction, 120, 80, "walk")
		ed.SetRoot(id, root)

		if err := ed.Connect(id, root, walk); err != nil {
			log.Fatal(err)
		}

		// Change of heart: take it back.
		ed.Undo()
		fmt.Println(ed.History())
	}
*/
package bramble
