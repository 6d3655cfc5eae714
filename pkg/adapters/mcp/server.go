package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/aretw0/flowcanvas"
	"github.com/aretw0/flowcanvas/internal/interaction"
	"github.com/aretw0/flowcanvas/internal/logging"
	"github.com/aretw0/flowcanvas/internal/presentation/graph"
	"github.com/aretw0/flowcanvas/pkg/domain"
	"github.com/aretw0/lifecycle"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

const (
	catalogURI  = "flowcanvas://catalog"
	documentURI = "flowcanvas://document"
)

// AddNodeArgs are the arguments of the add_node tool.
type AddNodeArgs struct {
	Type string  `json:"type"`
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
}

// ConnectArgs are the arguments of the connect tool.
type ConnectArgs struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// SetViewportArgs are the arguments of the set_viewport tool. Absent fields are left unchanged.
type SetViewportArgs struct {
	Zoom    *float64 `json:"zoom,omitempty"`
	OffsetX *float64 `json:"offset_x,omitempty"`
	OffsetY *float64 `json:"offset_y,omitempty"`
}

// ViewportState reports the viewport after a change.
type ViewportState struct {
	Zoom    float64      `json:"zoom"`
	Percent int          `json:"percent"`
	Offset  domain.Point `json:"offset"`
}

// SaveResponse reports where a workflow was saved.
type SaveResponse struct {
	Key string `json:"key" jsonschema_description:"Store key the workflow was written under"`
}

// Server wraps an Editor and exposes it as an MCP Server.
type Server struct {
	mu        sync.Mutex
	editor    *flowcanvas.Editor
	mcpServer *server.MCPServer
	logger    *slog.Logger
}

// Option configures the MCP server.
type Option func(*Server)

// WithLogger sets the logger. It must not write to stdout when serving over stdio.
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) {
		s.logger = l
	}
}

// NewServer creates a new MCP Server instance.
func NewServer(editor *flowcanvas.Editor, opts ...Option) *Server {
	s := &Server{
		editor:    editor,
		mcpServer: server.NewMCPServer("flowcanvas-mcp", strings.TrimSpace(flowcanvas.Version)),
		logger:    logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.registerTools()
	s.registerResources()
	return s
}

// MCPServer exposes the underlying server, mainly for in-process clients.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcpServer
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE starts the server on the given port using SSE and stops when ctx is done.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	baseURL := fmt.Sprintf("http://localhost:%d", port)

	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", corsMiddleware(sseServer.SSEHandler()))
	mux.Handle("/message", corsMiddleware(sseServer.MessageHandler()))

	httpServer := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	// Channel to listen for errors coming from the listener.
	serverErrors := make(chan error, 1)
	lifecycle.Go(ctx, func(ctx context.Context) error {
		s.logger.Info("MCP Server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
		return nil
	})

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		s.logger.Info("Shutdown signal received, shutting down server")
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func nodeTypeNames() []string {
	var names []string
	for _, d := range domain.Catalog() {
		names = append(names, string(d.Type))
	}
	return names
}

func gestureNames() []string {
	return []string{
		string(interaction.GestureNodePointerDown), string(interaction.GesturePointerMove),
		string(interaction.GesturePointerUp), string(interaction.GestureCanvasClick),
		string(interaction.GestureCanvasDoubleClick), string(interaction.GestureMenuSelect),
		string(interaction.GestureMenuCancel), string(interaction.GesturePaletteSelect),
		string(interaction.GestureConnectionStart), string(interaction.GestureConnectionComplete),
		string(interaction.GestureConnectionCancel), string(interaction.GestureNodeSelect),
		string(interaction.GestureLabelEdit), string(interaction.GestureDeleteSelected),
		string(interaction.GestureConnectionDelete), string(interaction.GestureZoomIn),
		string(interaction.GestureZoomOut),
	}
}

func (s *Server) registerTools() {
	// TOOL: dispatch_gesture
	gestureTool := mcp.NewTool("dispatch_gesture",
		mcp.WithDescription("Apply one editor gesture (click, drag, menu pick, connect, zoom) and return the resulting controller state."),
		mcp.WithString("kind", mcp.Required(), mcp.Enum(gestureNames()...), mcp.Description("Gesture kind")),
		mcp.WithString("node_id", mcp.Description("Target node, for node gestures")),
		mcp.WithString("connection_id", mcp.Description("Target connection, for connection_delete")),
		mcp.WithString("node_type", mcp.Enum(nodeTypeNames()...), mcp.Description("Node type, for menu_select and palette_select")),
		mcp.WithString("label", mcp.Description("New label, for label_edit")),
		mcp.WithNumber("x", mcp.Description("Screen X coordinate")),
		mcp.WithNumber("y", mcp.Description("Screen Y coordinate")),
		mcp.WithOutputSchema[interaction.Result](),
	)
	s.mcpServer.AddTool(gestureTool, mcp.NewStructuredToolHandler(s.handleGesture))

	// TOOL: add_node
	addNodeTool := mcp.NewTool("add_node",
		mcp.WithDescription("Add a node of a catalog type at a canvas (model space) position."),
		mcp.WithString("type", mcp.Required(), mcp.Enum(nodeTypeNames()...), mcp.Description("Node type")),
		mcp.WithNumber("x", mcp.Description("Canvas X coordinate")),
		mcp.WithNumber("y", mcp.Description("Canvas Y coordinate")),
		mcp.WithOutputSchema[domain.Node](),
	)
	s.mcpServer.AddTool(addNodeTool, mcp.NewStructuredToolHandler(s.handleAddNode))

	// TOOL: connect
	connectTool := mcp.NewTool("connect",
		mcp.WithDescription("Connect two existing nodes."),
		mcp.WithString("from", mcp.Required(), mcp.Description("Source node ID")),
		mcp.WithString("to", mcp.Required(), mcp.Description("Target node ID")),
		mcp.WithOutputSchema[domain.Connection](),
	)
	s.mcpServer.AddTool(connectTool, mcp.NewStructuredToolHandler(s.handleConnect))

	// TOOL: set_viewport
	viewportTool := mcp.NewTool("set_viewport",
		mcp.WithDescription("Pan and/or zoom the canvas. Zoom is clamped to the 50%-200% range."),
		mcp.WithNumber("zoom", mcp.Description("Zoom factor, 0.5 to 2")),
		mcp.WithNumber("offset_x", mcp.Description("Pan offset X in screen pixels")),
		mcp.WithNumber("offset_y", mcp.Description("Pan offset Y in screen pixels")),
		mcp.WithOutputSchema[ViewportState](),
	)
	s.mcpServer.AddTool(viewportTool, mcp.NewStructuredToolHandler(s.handleSetViewport))

	// TOOL: delete_node
	s.mcpServer.AddTool(mcp.NewTool("delete_node",
		mcp.WithDescription("Delete a node together with every connection attached to it."),
		mcp.WithString("node_id", mcp.Required(), mcp.Description("Node ID")),
	), s.handleDeleteNode)

	// TOOL: delete_connection
	s.mcpServer.AddTool(mcp.NewTool("delete_connection",
		mcp.WithDescription("Delete a single connection."),
		mcp.WithString("connection_id", mcp.Required(), mcp.Description("Connection ID")),
	), s.handleDeleteConnection)

	// TOOL: save_workflow
	s.mcpServer.AddTool(mcp.NewTool("save_workflow",
		mcp.WithDescription("Persist the current workflow to the configured store."),
		mcp.WithOutputSchema[SaveResponse](),
	), mcp.NewStructuredToolHandler(s.handleSave))

	// TOOL: execute_workflow
	s.mcpServer.AddTool(mcp.NewTool("execute_workflow",
		mcp.WithDescription("Request workflow execution. Execution is not available and always reports an error."),
	), s.handleExecute)

	// TOOL: get_document
	s.mcpServer.AddTool(mcp.NewTool("get_document",
		mcp.WithDescription("Get the current workflow as its persisted JSON document."),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		data, err := s.documentJSON()
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("serialize failed: %v", err)), nil
		}
		return mcp.NewToolResultText(string(data)), nil
	})

	// TOOL: render_mermaid
	s.mcpServer.AddTool(mcp.NewTool("render_mermaid",
		mcp.WithDescription("Render the current workflow as a Mermaid flowchart."),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		s.mu.Lock()
		doc := s.editor.Document()
		overlay := &graph.GraphOverlay{
			SelectedNode:  s.editor.Graph().Selected(),
			PendingSource: s.editor.Graph().PendingSource(),
		}
		s.mu.Unlock()
		return mcp.NewToolResultText(graph.GenerateMermaid(doc, overlay)), nil
	})
}

// Handler methods for structured tools

func (s *Server) handleGesture(ctx context.Context, request mcp.CallToolRequest, args map[string]any) (interaction.Result, error) {
	g, err := interaction.DecodeGesture(args)
	if err != nil {
		return interaction.Result{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.editor.Dispatch(g)
	if err != nil {
		s.logger.Warn("MCP Gesture rejected", "kind", g.Kind, "error", err)
		return res, fmt.Errorf("gesture %s failed: %w", g.Kind, err)
	}
	return res, nil
}

func (s *Server) handleAddNode(ctx context.Context, request mcp.CallToolRequest, args AddNodeArgs) (domain.Node, error) {
	t, err := domain.ParseNodeType(args.Type)
	if err != nil {
		return domain.Node{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.editor.Graph().AddNode(t, domain.Point{X: args.X, Y: args.Y})
}

func (s *Server) handleConnect(ctx context.Context, request mcp.CallToolRequest, args ConnectArgs) (domain.Connection, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	g := s.editor.Graph()
	for _, id := range []string{args.From, args.To} {
		if !g.HasNode(id) {
			return domain.Connection{}, fmt.Errorf("%w: %s", domain.ErrNodeNotFound, id)
		}
	}
	return g.AddConnection(args.From, args.To)
}

func (s *Server) handleSetViewport(ctx context.Context, request mcp.CallToolRequest, args SetViewportArgs) (ViewportState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	v := s.editor.Viewport()
	if args.Zoom != nil {
		v.SetZoom(*args.Zoom)
	}
	if args.OffsetX != nil || args.OffsetY != nil {
		offset := v.Offset()
		if args.OffsetX != nil {
			offset.X = *args.OffsetX
		}
		if args.OffsetY != nil {
			offset.Y = *args.OffsetY
		}
		v.SetOffset(offset)
	}
	return ViewportState{Zoom: v.Zoom(), Percent: v.Percent(), Offset: v.Offset()}, nil
}

func (s *Server) handleSave(ctx context.Context, request mcp.CallToolRequest, args map[string]any) (SaveResponse, error) {
	s.mu.Lock()
	ch := s.editor.SaveAsync(ctx)
	s.mu.Unlock()

	res := <-ch
	if res.Err != nil {
		return SaveResponse{}, res.Err
	}
	return SaveResponse{Key: res.Key}, nil
}

func (s *Server) handleDeleteNode(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := request.RequireString("node_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	s.mu.Lock()
	removed := s.editor.Graph().RemoveNode(id)
	s.mu.Unlock()

	if !removed {
		return mcp.NewToolResultError(fmt.Sprintf("%v: %s", domain.ErrNodeNotFound, id)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("deleted node %s", id)), nil
}

func (s *Server) handleDeleteConnection(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := request.RequireString("connection_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	s.mu.Lock()
	removed := s.editor.Graph().RemoveConnection(id)
	s.mu.Unlock()

	if !removed {
		return mcp.NewToolResultError(fmt.Sprintf("connection not found: %s", id)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("deleted connection %s", id)), nil
}

func (s *Server) handleExecute(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	s.mu.Lock()
	err := s.editor.Execute(ctx)
	s.mu.Unlock()
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText("execution started"), nil
}

func (s *Server) documentJSON() ([]byte, error) {
	s.mu.Lock()
	doc := s.editor.Document()
	s.mu.Unlock()
	return doc.Marshal()
}

func (s *Server) registerResources() {
	// EXPOSE: flowcanvas://catalog
	s.mcpServer.AddResource(mcp.NewResource(catalogURI, "Node Catalog",
		mcp.WithResourceDescription("Node types available in the palette"),
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		jsonBytes, _ := json.Marshal(domain.Catalog())
		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      catalogURI,
				MIMEType: "application/json",
				Text:     string(jsonBytes),
			},
		}, nil
	})

	// EXPOSE: flowcanvas://document
	s.mcpServer.AddResource(mcp.NewResource(documentURI, "Current Workflow",
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		data, err := s.documentJSON()
		if err != nil {
			return nil, fmt.Errorf("failed to serialize workflow: %w", err)
		}
		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      documentURI,
				MIMEType: "application/json",
				Text:     string(data),
			},
		}, nil
	})
}
