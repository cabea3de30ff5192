package workspace

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/atlasbruce/bramble/internal/logging"
	"github.com/atlasbruce/bramble/pkg/domain"
	"github.com/atlasbruce/bramble/pkg/ports"
)

// Manager owns the graphs open in an editing session. It implements
// command.GraphResolver, so commands address graphs through it by id.
//
// The mutex guards the open-graph map and the active pointer. Mutation of
// an individual graph is serialized one level up: the Editor holds a session
// lock across every command, so adapters sharing a session never touch a
// NodeGraph concurrently.
type Manager struct {
	mu     sync.Mutex
	graphs map[domain.GraphID]*domain.NodeGraph
	active domain.GraphID

	store  ports.GraphStore
	logger *slog.Logger
}

// Option configures the Manager.
type Option func(*Manager)

// WithStore attaches a persistence backend for SaveGraph/LoadGraph.
func WithStore(store ports.GraphStore) Option {
	return func(m *Manager) {
		m.store = store
	}
}

// WithLogger configures a logger for the Manager.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		m.logger = logger
	}
}

// NewManager creates an empty workspace.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		graphs: make(map[domain.GraphID]*domain.NodeGraph),
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// CreateGraph opens a fresh empty graph and makes it active.
func (m *Manager) CreateGraph(name string, kind domain.GraphKind) domain.GraphID {
	m.mu.Lock()
	defer m.mu.Unlock()

	id := domain.NewGraphID()
	m.graphs[id] = domain.NewNodeGraph(name, kind)
	m.active = id

	m.logger.Debug("graph created", "graph_id", id, "name", name, "kind", kind)
	return id
}

// Graph returns the open graph for id, or domain.ErrGraphNotFound.
func (m *Manager) Graph(id domain.GraphID) (*domain.NodeGraph, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	g, ok := m.graphs[id]
	if !ok {
		return nil, fmt.Errorf("graph %s: %w", id, domain.ErrGraphNotFound)
	}
	return g, nil
}

// CloseGraph removes the graph from the working set. Returns false if the
// id is unknown. Closing the active graph clears the active pointer.
func (m *Manager) CloseGraph(id domain.GraphID) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.graphs[id]; !ok {
		return false
	}
	delete(m.graphs, id)
	if m.active == id {
		m.active = ""
	}

	m.logger.Debug("graph closed", "graph_id", id)
	return true
}

// SetActive marks the graph as the editor's current document.
func (m *Manager) SetActive(id domain.GraphID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.graphs[id]; !ok {
		return fmt.Errorf("graph %s: %w", id, domain.ErrGraphNotFound)
	}
	m.active = id
	return nil
}

// Active returns the current document, if any.
func (m *Manager) Active() (domain.GraphID, *domain.NodeGraph, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	g, ok := m.graphs[m.active]
	if !ok {
		return "", nil, false
	}
	return m.active, g, true
}

// List returns the ids of all open graphs.
func (m *Manager) List() []domain.GraphID {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]domain.GraphID, 0, len(m.graphs))
	for id := range m.graphs {
		out = append(out, id)
	}
	return out
}

// SaveGraph persists an open graph through the configured store.
func (m *Manager) SaveGraph(ctx context.Context, id domain.GraphID) error {
	if m.store == nil {
		return fmt.Errorf("no graph store configured")
	}

	g, err := m.Graph(id)
	if err != nil {
		return err
	}
	if err := m.store.Save(ctx, id, g); err != nil {
		return fmt.Errorf("save graph %s: %w", id, err)
	}

	m.logger.Debug("graph saved", "graph_id", id, "name", g.Name())
	return nil
}

// LoadGraph retrieves a graph from the store into the working set and makes
// it active. An already-open graph with the same id is replaced.
func (m *Manager) LoadGraph(ctx context.Context, id domain.GraphID) (*domain.NodeGraph, error) {
	if m.store == nil {
		return nil, fmt.Errorf("no graph store configured")
	}

	g, err := m.store.Load(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load graph %s: %w", id, err)
	}

	m.mu.Lock()
	m.graphs[id] = g
	m.active = id
	m.mu.Unlock()

	m.logger.Debug("graph loaded", "graph_id", id, "name", g.Name())
	return g, nil
}
