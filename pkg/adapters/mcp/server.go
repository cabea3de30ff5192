// Package mcp exposes the editor over the Model Context Protocol, so agents
// can author graphs through the same validated, undoable operations the
// library offers in-process.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/atlasbruce/bramble"
	"github.com/atlasbruce/bramble/pkg/domain"
)

// Server wraps an Editor and exposes it as an MCP server.
type Server struct {
	editor    *bramble.Editor
	mcpServer *server.MCPServer
}

// NewServer creates the MCP server around an editing session.
func NewServer(editor *bramble.Editor) *Server {
	s := &Server{
		editor:    editor,
		mcpServer: server.NewMCPServer("bramble-mcp", bramble.Version),
	}
	s.registerTools()
	return s
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

func (s *Server) registerTools() {
	s.mcpServer.AddTool(mcp.NewTool("list_graphs",
		mcp.WithDescription("List the ids of all graphs open in the editing session."),
	), s.handleListGraphs)

	s.mcpServer.AddTool(mcp.NewTool("create_graph",
		mcp.WithDescription("Open a fresh empty graph and make it active."),
		mcp.WithString("name", mcp.Required(), mcp.Description("Display name for the graph")),
		mcp.WithString("kind", mcp.Description("Graph kind: BehaviorTree (default) or HFSM")),
	), s.handleCreateGraph)

	s.mcpServer.AddTool(mcp.NewTool("get_graph",
		mcp.WithDescription("Get the full JSON definition of an open graph."),
		mcp.WithString("graph_id", mcp.Required(), mcp.Description("Id of the graph")),
	), s.handleGetGraph)

	s.mcpServer.AddTool(mcp.NewTool("create_node",
		mcp.WithDescription("Create a node in a graph. Returns the new node id."),
		mcp.WithString("graph_id", mcp.Required(), mcp.Description("Id of the graph")),
		mcp.WithString("type", mcp.Required(), mcp.Description("Node type: Sequence, Selector, Decorator, Action, Condition, State, Transition or Comment")),
		mcp.WithString("name", mcp.Description("Display name")),
		mcp.WithNumber("x", mcp.Description("Canvas X position")),
		mcp.WithNumber("y", mcp.Description("Canvas Y position")),
	), s.handleCreateNode)

	s.mcpServer.AddTool(mcp.NewTool("connect_nodes",
		mcp.WithDescription("Connect a parent node to a child node. The connection is validated; illegal connections are rejected with a reason."),
		mcp.WithString("graph_id", mcp.Required(), mcp.Description("Id of the graph")),
		mcp.WithNumber("parent_id", mcp.Required(), mcp.Description("Parent node id")),
		mcp.WithNumber("child_id", mcp.Required(), mcp.Description("Child node id")),
	), s.handleConnectNodes)

	s.mcpServer.AddTool(mcp.NewTool("disconnect_nodes",
		mcp.WithDescription("Remove the edge between a parent and a child node."),
		mcp.WithString("graph_id", mcp.Required(), mcp.Description("Id of the graph")),
		mcp.WithNumber("parent_id", mcp.Required(), mcp.Description("Parent node id")),
		mcp.WithNumber("child_id", mcp.Required(), mcp.Description("Child node id")),
	), s.handleDisconnectNodes)

	s.mcpServer.AddTool(mcp.NewTool("delete_node",
		mcp.WithDescription("Delete a node. Its children are orphaned, not deleted."),
		mcp.WithString("graph_id", mcp.Required(), mcp.Description("Id of the graph")),
		mcp.WithNumber("node_id", mcp.Required(), mcp.Description("Node id")),
	), s.handleDeleteNode)

	s.mcpServer.AddTool(mcp.NewTool("set_root",
		mcp.WithDescription("Designate a node as the graph's entry point."),
		mcp.WithString("graph_id", mcp.Required(), mcp.Description("Id of the graph")),
		mcp.WithNumber("node_id", mcp.Required(), mcp.Description("Node id")),
	), s.handleSetRoot)

	s.mcpServer.AddTool(mcp.NewTool("undo",
		mcp.WithDescription("Undo the most recent edit."),
	), s.handleUndo)

	s.mcpServer.AddTool(mcp.NewTool("redo",
		mcp.WithDescription("Redo the most recently undone edit."),
	), s.handleRedo)

	s.mcpServer.AddTool(mcp.NewTool("lint_graph",
		mcp.WithDescription("Report advisory warnings for a graph: orphaned nodes and under-populated composites."),
		mcp.WithString("graph_id", mcp.Required(), mcp.Description("Id of the graph")),
	), s.handleLintGraph)
}

func (s *Server) handleListGraphs(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	out, _ := json.Marshal(s.editor.Manager().List())
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) handleCreateGraph(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := request.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	kind := domain.GraphKind(request.GetString("kind", string(domain.GraphKindBehaviorTree)))
	if !kind.Valid() {
		return mcp.NewToolResultError(fmt.Sprintf("unknown graph kind: %s", kind)), nil
	}

	id := s.editor.NewGraph(name, kind)
	return mcp.NewToolResultText(id.String()), nil
}

func (s *Server) handleGetGraph(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := request.RequireString("graph_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	g, err := s.editor.Graph(domain.GraphID(id))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	out, err := json.Marshal(g)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("encode graph: %v", err)), nil
	}
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) handleCreateNode(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := request.RequireString("graph_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	rawType, err := request.RequireString("type")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	nodeType, err := domain.ParseNodeType(rawType)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	x := request.GetFloat("x", 0)
	y := request.GetFloat("y", 0)
	name := request.GetString("name", "")

	nodeID, err := s.editor.AddNode(domain.GraphID(id), nodeType, x, y, name)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("%d", nodeID)), nil
}

func (s *Server) handleConnectNodes(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, parentID, childID, err := linkArgs(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if err := s.editor.Connect(id, parentID, childID); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText("connected"), nil
}

func (s *Server) handleDisconnectNodes(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, parentID, childID, err := linkArgs(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if err := s.editor.Disconnect(id, parentID, childID); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText("disconnected"), nil
}

func (s *Server) handleDeleteNode(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, nodeID, err := nodeArgs(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if err := s.editor.RemoveNode(id, nodeID); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText("deleted"), nil
}

func (s *Server) handleSetRoot(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, nodeID, err := nodeArgs(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if err := s.editor.SetRoot(id, nodeID); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText("root set"), nil
}

func (s *Server) handleUndo(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	done, err := s.editor.Undo()
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if !done {
		return mcp.NewToolResultText("nothing to undo"), nil
	}
	return mcp.NewToolResultText("undone"), nil
}

func (s *Server) handleRedo(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	done, err := s.editor.Redo()
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if !done {
		return mcp.NewToolResultText("nothing to redo"), nil
	}
	return mcp.NewToolResultText("redone"), nil
}

func (s *Server) handleLintGraph(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := request.RequireString("graph_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	warnings, err := s.editor.Lint(domain.GraphID(id))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	out, _ := json.Marshal(warnings)
	return mcp.NewToolResultText(string(out)), nil
}

func linkArgs(request mcp.CallToolRequest) (domain.GraphID, int, int, error) {
	id, err := request.RequireString("graph_id")
	if err != nil {
		return "", 0, 0, err
	}
	parentID, err := request.RequireInt("parent_id")
	if err != nil {
		return "", 0, 0, err
	}
	childID, err := request.RequireInt("child_id")
	if err != nil {
		return "", 0, 0, err
	}
	return domain.GraphID(id), parentID, childID, nil
}

func nodeArgs(request mcp.CallToolRequest) (domain.GraphID, int, error) {
	id, err := request.RequireString("graph_id")
	if err != nil {
		return "", 0, err
	}
	nodeID, err := request.RequireInt("node_id")
	if err != nil {
		return "", 0, err
	}
	return domain.GraphID(id), nodeID, nil
}
