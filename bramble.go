package bramble

import (
	"context"
	"log/slog"
	"sync"

	"github.com/atlasbruce/bramble/internal/logging"
	"github.com/atlasbruce/bramble/pkg/command"
	"github.com/atlasbruce/bramble/pkg/domain"
	"github.com/atlasbruce/bramble/pkg/ports"
	"github.com/atlasbruce/bramble/pkg/validator"
	"github.com/atlasbruce/bramble/pkg/workspace"
)

// Version is the library version reported by clients and the CLI.
const Version = "0.1.0"

// Editor is the high-level entry point for the Bramble library. It wires
// the workspace manager, the validator gate and the command history into
// one editing session. One Editor per session; history is cleared whenever
// a document is loaded or closed.
//
// Every Editor method holds a session lock, so adapters sharing one session
// (HTTP handlers, MCP tools) may call it from concurrent goroutines: edits
// apply one at a time, and Connect's validate-then-link sequence is atomic.
// Graph mutation must stay on this path; the underlying NodeGraph and Stack
// are not safe for unsynchronized access.
type Editor struct {
	mu      sync.Mutex
	manager *workspace.Manager
	stack   *command.Stack

	store        ports.GraphStore
	logger       *slog.Logger
	historyLimit int
	hooks        command.Hooks
}

// Option defines a functional option for configuring the Editor.
type Option func(*Editor)

// WithStore attaches a persistence backend for saving and loading graphs.
func WithStore(store ports.GraphStore) Option {
	return func(e *Editor) {
		e.store = store
	}
}

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Editor) {
		e.logger = logger
	}
}

// WithHistoryLimit bounds the undo history depth.
func WithHistoryLimit(limit int) Option {
	return func(e *Editor) {
		if limit > 0 {
			e.historyLimit = limit
		}
	}
}

// WithHooks registers observability hooks fired as commands move through
// the history.
func WithHooks(hooks command.Hooks) Option {
	return func(e *Editor) {
		e.hooks = hooks
	}
}

// New initializes an editing session.
func New(opts ...Option) *Editor {
	e := &Editor{
		logger:       logging.NewNop(),
		historyLimit: command.DefaultLimit,
	}
	for _, opt := range opts {
		opt(e)
	}

	managerOpts := []workspace.Option{workspace.WithLogger(e.logger)}
	if e.store != nil {
		managerOpts = append(managerOpts, workspace.WithStore(e.store))
	}
	e.manager = workspace.NewManager(managerOpts...)

	e.stack = command.NewStack(
		command.WithLimit(e.historyLimit),
		command.WithLogger(e.logger),
		command.WithHooks(e.hooks),
	)
	return e
}

// Manager returns the underlying workspace manager. The manager guards its
// own graph map; anything beyond map-level reads must go through Editor
// methods so the session lock applies.
func (e *Editor) Manager() *workspace.Manager { return e.manager }

// NewGraph opens a fresh empty graph and makes it active.
func (e *Editor) NewGraph(name string, kind domain.GraphKind) domain.GraphID {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.manager.CreateGraph(name, kind)
}

// Graph returns a deep-copy snapshot of an open graph. The snapshot is
// detached: it stays safe to read while the session keeps editing.
func (e *Editor) Graph(id domain.GraphID) (*domain.NodeGraph, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	g, err := e.manager.Graph(id)
	if err != nil {
		return nil, err
	}
	return g.Clone(), nil
}

// OpenGraph loads a graph from the store into the workspace and returns a
// snapshot of it. Loading a document clears the history: commands recorded
// against the previous contents must never run again.
func (e *Editor) OpenGraph(ctx context.Context, id domain.GraphID) (*domain.NodeGraph, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	g, err := e.manager.LoadGraph(ctx, id)
	if err != nil {
		return nil, err
	}
	e.stack.Clear()
	return g.Clone(), nil
}

// SaveGraph persists an open graph through the store.
func (e *Editor) SaveGraph(ctx context.Context, id domain.GraphID) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.manager.SaveGraph(ctx, id)
}

// CloseGraph removes a graph from the workspace and clears the history.
func (e *Editor) CloseGraph(id domain.GraphID) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	closed := e.manager.CloseGraph(id)
	if closed {
		e.stack.Clear()
	}
	return closed
}

// Do executes an arbitrary command through the history. Prefer the typed
// helpers below; Do is the escape hatch for composed tooling.
func (e *Editor) Do(cmd command.Command) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.stack.Execute(cmd)
}

// AddNode creates a node through the history and returns its id.
func (e *Editor) AddNode(graphID domain.GraphID, t domain.NodeType, x, y float64, name string) (int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	cmd := command.NewCreateNode(e.manager, graphID, t, x, y, name)
	if err := e.stack.Execute(cmd); err != nil {
		return domain.NoNode, err
	}
	return cmd.CreatedID(), nil
}

// RemoveNode deletes a node through the history. The deletion is local:
// children are orphaned, not cascaded.
func (e *Editor) RemoveNode(graphID domain.GraphID, nodeID int) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.stack.Execute(command.NewDeleteNode(e.manager, graphID, nodeID))
}

// MoveNode repositions a node on the canvas through the history.
func (e *Editor) MoveNode(graphID domain.GraphID, nodeID int, x, y float64) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.stack.Execute(command.NewMoveNode(e.manager, graphID, nodeID, x, y))
}

// EditNode renames a node and sets its type-appropriate subtype through the
// history.
func (e *Editor) EditNode(graphID domain.GraphID, nodeID int, name, subtype string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.stack.Execute(command.NewEditNode(e.manager, graphID, nodeID, name, subtype))
}

// SetParameter writes one node parameter through the history.
func (e *Editor) SetParameter(graphID domain.GraphID, nodeID int, key, value string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.stack.Execute(command.NewSetParameter(e.manager, graphID, nodeID, key, value))
}

// DuplicateNode clones a node (without its links) through the history and
// returns the clone's id.
func (e *Editor) DuplicateNode(graphID domain.GraphID, nodeID int) (int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	cmd := command.NewDuplicateNode(e.manager, graphID, nodeID)
	if err := e.stack.Execute(cmd); err != nil {
		return domain.NoNode, err
	}
	return cmd.DuplicateID(), nil
}

// Connect runs the validator gate and, only if the connection is legal,
// links parent to child through the history. Illegal connections return a
// *validator.RuleError carrying the specific reason; the graph is left
// untouched.
func (e *Editor) Connect(graphID domain.GraphID, parentID, childID int) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	g, err := e.manager.Graph(graphID)
	if err != nil {
		return err
	}
	if err := validator.CanCreateConnection(g, parentID, childID).Err(); err != nil {
		e.logger.Debug("connection rejected", "graph_id", graphID, "parent", parentID, "child", childID, "err", err)
		return err
	}
	return e.stack.Execute(command.NewLinkNodes(e.manager, graphID, parentID, childID))
}

// Disconnect removes a parent→child edge through the history.
func (e *Editor) Disconnect(graphID domain.GraphID, parentID, childID int) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.stack.Execute(command.NewUnlinkNodes(e.manager, graphID, parentID, childID))
}

// SetRoot designates the graph's entry node. Root designation is part of
// document setup, not the edit history.
func (e *Editor) SetRoot(graphID domain.GraphID, nodeID int) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	g, err := e.manager.Graph(graphID)
	if err != nil {
		return err
	}
	if !g.SetRoot(nodeID) {
		return domain.ErrNodeNotFound
	}
	return nil
}

// Undo reverses the most recent edit. Empty history is a silent no-op.
func (e *Editor) Undo() (bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.stack.Undo()
}

// Redo re-applies the most recently undone edit.
func (e *Editor) Redo() (bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.stack.Redo()
}

// History returns the undo descriptions, oldest first.
func (e *Editor) History() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.stack.History()
}

// CanUndo reports whether there is anything to undo.
func (e *Editor) CanUndo() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.stack.CanUndo()
}

// CanRedo reports whether there is anything to redo.
func (e *Editor) CanRedo() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.stack.CanRedo()
}

// Validate runs the whole-graph consistency check.
func (e *Editor) Validate(graphID domain.GraphID) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	g, err := e.manager.Graph(graphID)
	if err != nil {
		return err
	}
	return g.Validate()
}

// Lint returns advisory warnings (orphans, under-populated composites).
func (e *Editor) Lint(graphID domain.GraphID) ([]string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	g, err := e.manager.Graph(graphID)
	if err != nil {
		return nil, err
	}
	return validator.Lint(g), nil
}
