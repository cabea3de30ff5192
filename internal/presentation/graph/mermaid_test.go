package graph_test

import (
	"strings"
	"testing"

	"github.com/atlasbruce/bramble/internal/presentation/graph"
	"github.com/atlasbruce/bramble/pkg/domain"
)

func TestGenerateMermaid(t *testing.T) {
	g := domain.NewNodeGraph("patrol", domain.GraphKindBehaviorTree)
	root := g.CreateNode(domain.NodeTypeSelector, 0, 0, "root")
	dec := g.CreateNode(domain.NodeTypeDecorator, 0, 0, "inv")
	act := g.CreateNode(domain.NodeTypeAction, 0, 0, "move")
	cond := g.CreateNode(domain.NodeTypeCondition, 0, 0, "seen?")
	g.SetRoot(root)
	g.LinkNodes(root, cond)
	g.LinkNodes(root, dec)
	g.LinkNodes(dec, act)
	g.SetSubtype(act, "MoveTo")

	out := graph.GenerateMermaid(g)

	if !strings.HasPrefix(out, "graph TD\n") {
		t.Errorf("missing header:\n%s", out)
	}

	checks := []struct {
		name string
		want string
	}{
		{"DecoratorShape", "{{\"inv\"}}"},
		{"ActionShapeWithSubtype", "[[\"move <br/> MoveTo\"]]"},
		{"ConditionShape", "[/\"seen?\"/]"},
		{"PriorityLabels", "-- \"1\" -->"},
		{"DashedDecoratorEdge", "-.->"},
		{"RootHighlight", "classDef root"},
	}
	for _, tc := range checks {
		if !strings.Contains(out, tc.want) {
			t.Errorf("%s: output missing %q:\n%s", tc.name, tc.want, out)
		}
	}

	// Second child of the root carries priority 2.
	if !strings.Contains(out, "-- \"2\" -->") {
		t.Errorf("second child priority label missing:\n%s", out)
	}
}

func TestGenerateMermaid_EscapesQuotes(t *testing.T) {
	g := domain.NewNodeGraph("q", domain.GraphKindBehaviorTree)
	g.CreateNode(domain.NodeTypeAction, 0, 0, `say "hi"`)

	out := graph.GenerateMermaid(g)
	if strings.Contains(out, `"say "hi""`) {
		t.Errorf("quotes not escaped:\n%s", out)
	}
	if !strings.Contains(out, "say 'hi'") {
		t.Errorf("expected sanitized label:\n%s", out)
	}
}

func TestGenerateMermaid_UnnamedNodeFallsBackToType(t *testing.T) {
	g := domain.NewNodeGraph("anon", domain.GraphKindBehaviorTree)
	id := g.CreateNode(domain.NodeTypeSequence, 0, 0, "")

	out := graph.GenerateMermaid(g)
	if !strings.Contains(out, "Sequence") {
		t.Errorf("unnamed node %d should be labeled by type:\n%s", id, out)
	}
}
