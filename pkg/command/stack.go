package command

import (
	"fmt"
	"log/slog"

	"github.com/atlasbruce/bramble/internal/logging"
)

// DefaultLimit is the undo depth used when no explicit limit is configured.
const DefaultLimit = 100

// Hooks are observability callbacks fired after a command moves through the
// stack. Nil hooks are skipped.
type Hooks struct {
	OnExecute func(Command)
	OnUndo    func(Command)
	OnRedo    func(Command)
}

// Stack is the linear undo/redo log. A fresh edit invalidates any
// previously undone future, and history is bounded: once the undo list
// exceeds the limit the oldest entry is evicted. Eviction is a memory
// policy, never a user-visible error.
//
// The stack assumes the single-threaded editing model: one command at a
// time from one control thread.
type Stack struct {
	limit  int
	undo   []Command
	redo   []Command
	hooks  Hooks
	logger *slog.Logger
}

// StackOption configures a Stack.
type StackOption func(*Stack)

// WithLimit bounds the undo history depth.
func WithLimit(limit int) StackOption {
	return func(s *Stack) {
		if limit > 0 {
			s.limit = limit
		}
	}
}

// WithLogger configures a logger for stack events.
func WithLogger(logger *slog.Logger) StackOption {
	return func(s *Stack) {
		s.logger = logger
	}
}

// WithHooks registers observability hooks.
func WithHooks(hooks Hooks) StackOption {
	return func(s *Stack) {
		s.hooks = hooks
	}
}

// NewStack creates an empty stack with the default depth limit.
func NewStack(opts ...StackOption) *Stack {
	s := &Stack{
		limit:  DefaultLimit,
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Execute runs the command and records it. On success the redo history is
// cleared entirely and the oldest undo entry is evicted if the stack
// exceeds its limit. On failure nothing is recorded.
func (s *Stack) Execute(cmd Command) error {
	if err := cmd.Execute(); err != nil {
		return fmt.Errorf("execute %s: %w", cmd.Kind(), err)
	}

	s.undo = append(s.undo, cmd)
	s.redo = nil

	if len(s.undo) > s.limit {
		evicted := len(s.undo) - s.limit
		s.undo = append([]Command(nil), s.undo[evicted:]...)
	}

	s.logger.Debug("command executed", "kind", cmd.Kind(), "description", cmd.Description(), "depth", len(s.undo))
	if s.hooks.OnExecute != nil {
		s.hooks.OnExecute(cmd)
	}
	return nil
}

// Undo reverses the most recent command and moves it to the redo history.
// An empty history is a silent no-op (false, nil). If the command's Undo
// fails it stays on the undo stack and the error is returned.
func (s *Stack) Undo() (bool, error) {
	if len(s.undo) == 0 {
		return false, nil
	}

	cmd := s.undo[len(s.undo)-1]
	if err := cmd.Undo(); err != nil {
		return false, fmt.Errorf("undo %s: %w", cmd.Kind(), err)
	}

	s.undo = s.undo[:len(s.undo)-1]
	s.redo = append(s.redo, cmd)

	s.logger.Debug("command undone", "kind", cmd.Kind(), "description", cmd.Description())
	if s.hooks.OnUndo != nil {
		s.hooks.OnUndo(cmd)
	}
	return true, nil
}

// Redo re-applies the most recently undone command. An empty redo history
// is a silent no-op (false, nil).
func (s *Stack) Redo() (bool, error) {
	if len(s.redo) == 0 {
		return false, nil
	}

	cmd := s.redo[len(s.redo)-1]
	if err := cmd.Execute(); err != nil {
		return false, fmt.Errorf("redo %s: %w", cmd.Kind(), err)
	}

	s.redo = s.redo[:len(s.redo)-1]
	s.undo = append(s.undo, cmd)

	s.logger.Debug("command redone", "kind", cmd.Kind(), "description", cmd.Description())
	if s.hooks.OnRedo != nil {
		s.hooks.OnRedo(cmd)
	}
	return true, nil
}

// Clear drops both histories. Called on document load, new and close:
// commands referencing a closed graph must never run again.
func (s *Stack) Clear() {
	s.undo = nil
	s.redo = nil
}

// CanUndo reports whether undo history is available.
func (s *Stack) CanUndo() bool { return len(s.undo) > 0 }

// CanRedo reports whether redo history is available.
func (s *Stack) CanRedo() bool { return len(s.redo) > 0 }

// UndoDepth returns the current undo history size.
func (s *Stack) UndoDepth() int { return len(s.undo) }

// RedoDepth returns the current redo history size.
func (s *Stack) RedoDepth() int { return len(s.redo) }

// History returns the undo descriptions, oldest first.
func (s *Stack) History() []string {
	out := make([]string, 0, len(s.undo))
	for _, cmd := range s.undo {
		out = append(out, cmd.Description())
	}
	return out
}
