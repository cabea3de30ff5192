// Package graph renders authored node graphs as Mermaid diagrams, for docs
// and quick inspection from the CLI.
package graph

import (
	"fmt"
	"strings"

	"github.com/atlasbruce/bramble/pkg/domain"
)

// GenerateMermaid produces Mermaid flowchart syntax for the graph.
// Shapes follow node semantics:
//   - Sequence/Selector (composites): [Rectangle], with an order prefix
//   - Decorator: {{Hexagon}}
//   - Action: [[Subroutine]]
//   - Condition: [/Parallelogram/]
//   - Comment: (Rounded)
//
// The root node is highlighted, decorator edges are dashed, and composite
// edges are labeled with their execution priority.
func GenerateMermaid(g *domain.NodeGraph) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	for _, node := range g.Nodes() {
		opener, closer := "[", "]"
		switch node.Type {
		case domain.NodeTypeDecorator:
			opener, closer = "{{", "}}"
		case domain.NodeTypeAction:
			opener, closer = "[[", "]]"
		case domain.NodeTypeCondition:
			opener, closer = "[/", "/]"
		case domain.NodeTypeComment:
			opener, closer = "(", ")"
		}

		label := node.Name
		if label == "" {
			label = fmt.Sprintf("%s %d", node.Type, node.ID)
		}
		if sub := node.Subtype(); sub != "" {
			label = fmt.Sprintf("%s <br/> %s", label, sub)
		}
		sb.WriteString(fmt.Sprintf("    n%d%s\"%s\"%s\n", node.ID, opener, escapeMermaidLabel(label), closer))

		for i, childID := range node.ChildIDs {
			sb.WriteString(fmt.Sprintf("    n%d -- \"%d\" --> n%d\n", node.ID, i+1, childID))
		}
		if node.DecoratorChildID != domain.NoNode {
			sb.WriteString(fmt.Sprintf("    n%d -.-> n%d\n", node.ID, node.DecoratorChildID))
		}
	}

	if root := g.RootID(); root != domain.NoNode {
		sb.WriteString("\n    classDef root fill:#e8f5e9,stroke:#2e7d32,stroke-width:3px,color:#000;\n")
		sb.WriteString(fmt.Sprintf("    class n%d root;\n", root))
	}

	return sb.String()
}

func escapeMermaidLabel(s string) string {
	return strings.ReplaceAll(s, "\"", "'")
}
