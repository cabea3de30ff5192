/*
Package domain contains the core data model for the Bramble authoring engine.

It defines the typed node graph used to author behavior trees and hierarchical
state machines: Nodes, the owning NodeGraph, and the derived Link view. This
package is kept pure and free of external dependencies like I/O or persistence,
following Hexagonal Architecture principles.

# Key Entities

  - GraphNode: A single typed node (composite, leaf, decorator or HFSM node).
  - NodeGraph: Owns the node collection, the root pointer and the link topology.
  - Link: A derived (from, to) view computed from node child lists.
  - GraphID: Opaque identity of a graph within an editing session.

Reads return copies; structure is only mutated through NodeGraph methods, so
the command layer remains the single authorized mutator path.
*/
package domain
