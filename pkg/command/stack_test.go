package command_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/atlasbruce/bramble/pkg/command"
	"github.com/atlasbruce/bramble/pkg/domain"
)

// resolver is a minimal in-memory GraphResolver for command tests.
type resolver map[domain.GraphID]*domain.NodeGraph

func (r resolver) Graph(id domain.GraphID) (*domain.NodeGraph, error) {
	g, ok := r[id]
	if !ok {
		return nil, fmt.Errorf("graph %s: %w", id, domain.ErrGraphNotFound)
	}
	return g, nil
}

func newTestGraph() (resolver, domain.GraphID, *domain.NodeGraph) {
	g := domain.NewNodeGraph("test", domain.GraphKindBehaviorTree)
	id := domain.NewGraphID()
	return resolver{id: g}, id, g
}

// countCommand is a scripted command for exercising the stack mechanics.
type countCommand struct {
	label    string
	executes int
	undos    int
	failExec bool
	failUndo bool
}

func (c *countCommand) Execute() error {
	if c.failExec {
		return errors.New("scripted execute failure")
	}
	c.executes++
	return nil
}

func (c *countCommand) Undo() error {
	if c.failUndo {
		return errors.New("scripted undo failure")
	}
	c.undos++
	return nil
}

func (c *countCommand) Description() string { return c.label }
func (c *countCommand) Kind() string        { return "count" }

func TestStack_ExecuteUndoRedo(t *testing.T) {
	s := command.NewStack()
	cmd := &countCommand{label: "one"}

	if err := s.Execute(cmd); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if !s.CanUndo() || s.CanRedo() {
		t.Errorf("after execute: CanUndo=%v CanRedo=%v", s.CanUndo(), s.CanRedo())
	}

	done, err := s.Undo()
	if err != nil || !done {
		t.Fatalf("undo: done=%v err=%v", done, err)
	}
	if cmd.undos != 1 {
		t.Errorf("expected 1 undo, got %d", cmd.undos)
	}
	if s.CanUndo() || !s.CanRedo() {
		t.Errorf("after undo: CanUndo=%v CanRedo=%v", s.CanUndo(), s.CanRedo())
	}

	done, err = s.Redo()
	if err != nil || !done {
		t.Fatalf("redo: done=%v err=%v", done, err)
	}
	if cmd.executes != 2 {
		t.Errorf("expected 2 executes (initial + redo), got %d", cmd.executes)
	}
}

func TestStack_EmptyHistoryIsSilentNoOp(t *testing.T) {
	s := command.NewStack()

	if done, err := s.Undo(); done || err != nil {
		t.Errorf("undo on empty: done=%v err=%v", done, err)
	}
	if done, err := s.Redo(); done || err != nil {
		t.Errorf("redo on empty: done=%v err=%v", done, err)
	}
}

func TestStack_FreshEditClearsRedo(t *testing.T) {
	s := command.NewStack()

	first := &countCommand{label: "first"}
	second := &countCommand{label: "second"}

	_ = s.Execute(first)
	if _, err := s.Undo(); err != nil {
		t.Fatal(err)
	}
	if !s.CanRedo() {
		t.Fatal("expected redo history")
	}

	_ = s.Execute(second)
	if s.CanRedo() {
		t.Error("a fresh edit must invalidate the redo history entirely")
	}
	if done, _ := s.Redo(); done {
		t.Error("redo after a fresh edit must be a no-op")
	}
}

func TestStack_BoundedHistoryEvictsOldest(t *testing.T) {
	s := command.NewStack(command.WithLimit(3))

	var cmds []*countCommand
	for i := 0; i < 5; i++ {
		cmd := &countCommand{label: fmt.Sprintf("cmd-%d", i)}
		cmds = append(cmds, cmd)
		if err := s.Execute(cmd); err != nil {
			t.Fatal(err)
		}
	}

	if s.UndoDepth() != 3 {
		t.Fatalf("expected depth 3, got %d", s.UndoDepth())
	}

	history := s.History()
	if history[0] != "cmd-2" || history[2] != "cmd-4" {
		t.Errorf("unexpected history window: %v", history)
	}

	// Only the three newest commands are undoable; eviction is silent.
	for i := 0; i < 5; i++ {
		done, err := s.Undo()
		if err != nil {
			t.Fatalf("undo %d: %v", i, err)
		}
		if i < 3 && !done {
			t.Errorf("undo %d: expected success", i)
		}
		if i >= 3 && done {
			t.Errorf("undo %d: expected no-op past the limit", i)
		}
	}
	if cmds[0].undos != 0 || cmds[1].undos != 0 {
		t.Error("evicted commands must never be undone")
	}
}

func TestStack_FailedExecuteIsNotRecorded(t *testing.T) {
	s := command.NewStack()
	if err := s.Execute(&countCommand{failExec: true}); err == nil {
		t.Fatal("expected execute error")
	}
	if s.CanUndo() {
		t.Error("failed command must not enter the history")
	}
}

func TestStack_FailedUndoKeepsCommand(t *testing.T) {
	s := command.NewStack()
	cmd := &countCommand{label: "sticky", failUndo: true}
	_ = s.Execute(cmd)

	done, err := s.Undo()
	if err == nil || done {
		t.Fatalf("expected undo failure, got done=%v err=%v", done, err)
	}
	if !s.CanUndo() {
		t.Error("failed undo must leave the command on the undo stack")
	}
	if s.CanRedo() {
		t.Error("failed undo must not populate the redo stack")
	}
}

func TestStack_Hooks(t *testing.T) {
	var executed, undone, redone []string
	s := command.NewStack(command.WithHooks(command.Hooks{
		OnExecute: func(c command.Command) { executed = append(executed, c.Description()) },
		OnUndo:    func(c command.Command) { undone = append(undone, c.Description()) },
		OnRedo:    func(c command.Command) { redone = append(redone, c.Description()) },
	}))

	_ = s.Execute(&countCommand{label: "a"})
	_, _ = s.Undo()
	_, _ = s.Redo()

	if len(executed) != 1 || len(undone) != 1 || len(redone) != 1 {
		t.Errorf("hook counts: exec=%d undo=%d redo=%d", len(executed), len(undone), len(redone))
	}
}

func TestStack_Clear(t *testing.T) {
	s := command.NewStack()
	_ = s.Execute(&countCommand{label: "a"})
	_ = s.Execute(&countCommand{label: "b"})
	_, _ = s.Undo()

	s.Clear()
	if s.CanUndo() || s.CanRedo() {
		t.Error("clear must drop both histories")
	}
}

func TestStack_HistoryOrder(t *testing.T) {
	s := command.NewStack()
	_ = s.Execute(&countCommand{label: "first"})
	_ = s.Execute(&countCommand{label: "second"})

	history := s.History()
	if len(history) != 2 || history[0] != "first" || history[1] != "second" {
		t.Errorf("history must be oldest first: %v", history)
	}
}

func TestStack_CommandAgainstMissingGraph(t *testing.T) {
	graphs, _, _ := newTestGraph()
	s := command.NewStack()

	missing := domain.GraphID("missing")
	err := s.Execute(command.NewCreateNode(graphs, missing, domain.NodeTypeAction, 0, 0, "x"))
	if !errors.Is(err, domain.ErrGraphNotFound) {
		t.Errorf("expected ErrGraphNotFound, got %v", err)
	}
}
