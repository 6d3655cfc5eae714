package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"

	"github.com/aretw0/flowcanvas"
	"github.com/aretw0/flowcanvas/internal/interaction"
	"github.com/aretw0/flowcanvas/internal/logging"
	"github.com/aretw0/flowcanvas/internal/presentation/graph"
	"github.com/aretw0/flowcanvas/pkg/domain"
	"github.com/aretw0/flowcanvas/pkg/ports"
	"github.com/go-chi/chi/v5"
)

// eventsTopic is the stream every editor event is broadcast on.
const eventsTopic = "editor"

// Server exposes one Editor over HTTP. The editor is not safe for concurrent use,
// so every handler holds mu while touching it.
type Server struct {
	mu      sync.Mutex
	Editor  *flowcanvas.Editor
	Streams *StreamManager

	reader  ports.DocumentReader
	metrics http.Handler
	logger  *slog.Logger
}

// Option configures the HTTP server.
type Option func(*Server)

// WithReader enables the read-only /documents routes backed by r.
func WithReader(r ports.DocumentReader) Option {
	return func(s *Server) {
		s.reader = r
	}
}

// WithMetricsHandler mounts h under /metrics.
func WithMetricsHandler(h http.Handler) Option {
	return func(s *Server) {
		s.metrics = h
	}
}

// WithLogger sets the request logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) {
		s.logger = l
	}
}

// NewServer wires the server to the editor's event stream.
func NewServer(editor *flowcanvas.Editor, opts ...Option) *Server {
	s := &Server{
		Editor:  editor,
		Streams: NewStreamManager(),
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.Streams.logger = s.logger

	editor.Subscribe(func(ev domain.GraphEvent) {
		if b, err := json.Marshal(ev); err == nil {
			s.Streams.Broadcast(eventsTopic, string(ev.Type), string(b))
		}
	})
	return s
}

// NewHandler creates a new HTTP handler for the editor.
func NewHandler(editor *flowcanvas.Editor, opts ...Option) http.Handler {
	return NewServer(editor, opts...).Routes()
}

// Routes builds the router.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Get("/health", s.GetHealth)
	r.Get("/info", s.GetInfo)
	r.Get("/catalog", s.GetCatalog)
	r.Get("/document", s.GetDocument)
	r.Get("/viewport", s.GetViewport)
	r.Put("/viewport", s.PutViewport)
	r.Post("/gestures", s.PostGesture)

	r.Post("/nodes", s.PostNode)
	r.Patch("/nodes/{id}", s.PatchNode)
	r.Delete("/nodes/{id}", s.DeleteNode)
	r.Post("/connections", s.PostConnection)
	r.Delete("/connections/{id}", s.DeleteConnection)

	r.Post("/save", s.PostSave)
	r.Post("/execute", s.PostExecute)

	r.Get("/render", s.GetRender)
	r.Get("/render/mermaid", s.GetMermaid)
	r.Get("/events", s.SubscribeEvents)

	if s.reader != nil {
		r.Get("/documents", s.ListDocuments)
		r.Get("/documents/{key}", s.GetStoredDocument)
		r.Get("/documents/{key}/diff", s.GetDocumentDiff)
	}
	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.metrics)
	}

	return enableCORS(r)
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Custom-Header")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// ViewportResponse describes the current viewport.
type ViewportResponse struct {
	Zoom    float64      `json:"zoom"`
	Percent int          `json:"percent"`
	Offset  domain.Point `json:"offset"`
}

// ViewportRequest is the body of PUT /viewport. Absent fields are left unchanged;
// zoom is clamped like the zoom buttons.
type ViewportRequest struct {
	Zoom   *float64      `json:"zoom,omitempty"`
	Offset *domain.Point `json:"offset,omitempty"`
}

// RenderedNode is a node resolved to screen space.
type RenderedNode struct {
	domain.Node
	Screen   domain.Point `json:"screen"`
	Selected bool         `json:"selected"`
	Pending  bool         `json:"pending"`
}

// PendingLine is the rubber band drawn while a connection is in progress.
type PendingLine struct {
	From domain.Point `json:"from"`
	To   domain.Point `json:"to"`
}

// RenderResponse is everything a client needs to draw the canvas.
type RenderResponse struct {
	State       interaction.State               `json:"state"`
	Viewport    ViewportResponse                `json:"viewport"`
	Nodes       []RenderedNode                  `json:"nodes"`
	Connections []flowcanvas.RenderedConnection `json:"connections"`
	Pending     *PendingLine                    `json:"pending,omitempty"`
}

// NodeRequest is the body of POST /nodes.
type NodeRequest struct {
	Type string  `json:"type"`
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
}

// NodePatch is the body of PATCH /nodes/{id}. Absent fields are left unchanged.
type NodePatch struct {
	Label *string  `json:"label,omitempty"`
	X     *float64 `json:"x,omitempty"`
	Y     *float64 `json:"y,omitempty"`
}

// ConnectionRequest is the body of POST /connections.
type ConnectionRequest struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// GetHealth handles the GET /health request.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetInfo handles the GET /info request.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"app":     "flowcanvas-http",
		"version": strings.TrimSpace(flowcanvas.Version),
	})
}

// GetCatalog handles the GET /catalog request.
func (s *Server) GetCatalog(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, domain.Catalog())
}

// GetDocument handles the GET /document request.
func (s *Server) GetDocument(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	doc := s.Editor.Document()
	s.mu.Unlock()

	data, err := doc.Marshal()
	if err != nil {
		s.fail(w, "GetDocument", err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(data)
}

// GetViewport handles the GET /viewport request.
func (s *Server) GetViewport(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	resp := s.viewport()
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, resp)
}

// PutViewport handles the PUT /viewport request, letting a remote renderer pan and zoom.
func (s *Server) PutViewport(w http.ResponseWriter, r *http.Request) {
	var body ViewportRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	v := s.Editor.Viewport()
	if body.Zoom != nil {
		v.SetZoom(*body.Zoom)
	}
	if body.Offset != nil {
		v.SetOffset(*body.Offset)
	}
	resp := s.viewport()
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) viewport() ViewportResponse {
	v := s.Editor.Viewport()
	return ViewportResponse{Zoom: v.Zoom(), Percent: v.Percent(), Offset: v.Offset()}
}

// PostGesture handles the POST /gestures request.
func (s *Server) PostGesture(w http.ResponseWriter, r *http.Request) {
	var g interaction.Gesture
	if err := json.NewDecoder(r.Body).Decode(&g); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		s.logger.Warn("PostGesture: Invalid request body", "error", err)
		return
	}

	s.mu.Lock()
	res, err := s.Editor.Dispatch(g)
	s.mu.Unlock()
	if err != nil {
		s.fail(w, "PostGesture", err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// PostNode handles the POST /nodes request. Coordinates are in model space.
func (s *Server) PostNode(w http.ResponseWriter, r *http.Request) {
	var body NodeRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	t, err := domain.ParseNodeType(body.Type)
	if err != nil {
		s.fail(w, "PostNode", err)
		return
	}

	s.mu.Lock()
	n, err := s.Editor.Graph().AddNode(t, domain.Point{X: body.X, Y: body.Y})
	s.mu.Unlock()
	if err != nil {
		s.fail(w, "PostNode", err)
		return
	}
	writeJSON(w, http.StatusCreated, n)
}

// PatchNode handles the PATCH /nodes/{id} request.
func (s *Server) PatchNode(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var body NodePatch
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	g := s.Editor.Graph()
	n, ok := g.Node(id)
	if !ok {
		s.fail(w, "PatchNode", fmt.Errorf("%w: %s", domain.ErrNodeNotFound, id))
		return
	}
	if body.Label != nil {
		g.UpdateNodeLabel(id, *body.Label)
	}
	if body.X != nil || body.Y != nil {
		pos := n.Position
		if body.X != nil {
			pos.X = *body.X
		}
		if body.Y != nil {
			pos.Y = *body.Y
		}
		g.UpdateNodePosition(id, pos)
	}

	n, _ = g.Node(id)
	writeJSON(w, http.StatusOK, n)
}

// DeleteNode handles the DELETE /nodes/{id} request. Attached connections go with it.
func (s *Server) DeleteNode(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	s.mu.Lock()
	removed := s.Editor.Graph().RemoveNode(id)
	s.mu.Unlock()

	if !removed {
		s.fail(w, "DeleteNode", fmt.Errorf("%w: %s", domain.ErrNodeNotFound, id))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// PostConnection handles the POST /connections request.
func (s *Server) PostConnection(w http.ResponseWriter, r *http.Request) {
	var body ConnectionRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	g := s.Editor.Graph()
	for _, id := range []string{body.From, body.To} {
		if !g.HasNode(id) {
			s.fail(w, "PostConnection", fmt.Errorf("%w: %s", domain.ErrNodeNotFound, id))
			return
		}
	}
	c, err := g.AddConnection(body.From, body.To)
	if err != nil {
		s.fail(w, "PostConnection", err)
		return
	}
	writeJSON(w, http.StatusCreated, c)
}

// DeleteConnection handles the DELETE /connections/{id} request.
func (s *Server) DeleteConnection(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	s.mu.Lock()
	removed := s.Editor.Graph().RemoveConnection(id)
	s.mu.Unlock()

	if !removed {
		http.Error(w, "connection not found", http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// PostSave handles the POST /save request. The snapshot is taken under the editor
// lock; the write itself runs without it.
func (s *Server) PostSave(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	ch := s.Editor.SaveAsync(r.Context())
	s.mu.Unlock()

	res := <-ch
	if res.Err != nil {
		s.fail(w, "PostSave", res.Err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"key": res.Key})
}

// PostExecute handles the POST /execute request.
func (s *Server) PostExecute(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	err := s.Editor.Execute(r.Context())
	s.mu.Unlock()
	if err != nil {
		s.fail(w, "PostExecute", err)
		return
	}
	w.WriteHeader(http.StatusAccepted)
}

// GetRender handles the GET /render request.
func (s *Server) GetRender(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	resp := s.render()
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) render() RenderResponse {
	e := s.Editor
	g := e.Graph()

	resp := RenderResponse{
		State:       e.Controller().State(),
		Viewport:    s.viewport(),
		Nodes:       []RenderedNode{},
		Connections: e.RenderConnections(),
	}
	if resp.Connections == nil {
		resp.Connections = []flowcanvas.RenderedConnection{}
	}
	for _, n := range g.Nodes() {
		resp.Nodes = append(resp.Nodes, RenderedNode{
			Node:     n,
			Screen:   e.Viewport().ToScreen(n.Position),
			Selected: g.Selected() == n.ID,
			Pending:  g.PendingSource() == n.ID,
		})
	}
	if from, to, ok := e.PendingLine(); ok {
		resp.Pending = &PendingLine{From: from, To: to}
	}
	return resp
}

// GetMermaid handles the GET /render/mermaid request.
func (s *Server) GetMermaid(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	doc := s.Editor.Document()
	overlay := &graph.GraphOverlay{
		SelectedNode:  s.Editor.Graph().Selected(),
		PendingSource: s.Editor.Graph().PendingSource(),
	}
	s.mu.Unlock()

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprint(w, graph.GenerateMermaid(doc, overlay))
}

// ListDocuments handles the GET /documents request.
func (s *Server) ListDocuments(w http.ResponseWriter, r *http.Request) {
	keys, err := s.reader.List(r.Context())
	if err != nil {
		s.fail(w, "ListDocuments", err)
		return
	}
	if keys == nil {
		keys = []string{}
	}
	writeJSON(w, http.StatusOK, keys)
}

// GetStoredDocument handles the GET /documents/{key} request.
func (s *Server) GetStoredDocument(w http.ResponseWriter, r *http.Request) {
	doc, err := s.reader.Load(r.Context(), chi.URLParam(r, "key"))
	if err != nil {
		s.fail(w, "GetStoredDocument", err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	fmt.Fprint(w, doc)
}

// GetDocumentDiff handles the GET /documents/{key}/diff request.
// It reports what the current canvas changes relative to the stored workflow.
func (s *Server) GetDocumentDiff(w http.ResponseWriter, r *http.Request) {
	raw, err := s.reader.Load(r.Context(), chi.URLParam(r, "key"))
	if err != nil {
		s.fail(w, "GetDocumentDiff", err)
		return
	}
	stored, err := domain.ParseDocument([]byte(raw))
	if err != nil {
		s.fail(w, "GetDocumentDiff", err)
		return
	}

	s.mu.Lock()
	current := s.Editor.Document()
	s.mu.Unlock()

	diff := domain.Diff(&stored, &current)
	if diff == nil {
		diff = &domain.DocumentDiff{}
	}
	writeJSON(w, http.StatusOK, diff)
}

// fail maps domain errors to HTTP status codes.
func (s *Server) fail(w http.ResponseWriter, op string, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrUnknownNodeType),
		errors.Is(err, domain.ErrUnknownGesture),
		errors.Is(err, domain.ErrSelfConnection):
		status = http.StatusBadRequest
	case errors.Is(err, domain.ErrNodeNotFound),
		errors.Is(err, domain.ErrDocumentNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrNoPendingConnection),
		errors.Is(err, domain.ErrMenuClosed):
		status = http.StatusConflict
	case errors.Is(err, domain.ErrNotImplemented):
		status = http.StatusNotImplemented
	case errors.Is(err, domain.ErrNoStore):
		status = http.StatusServiceUnavailable
	}

	if status == http.StatusInternalServerError {
		s.logger.Error(op+" failed", "error", err)
	} else {
		s.logger.Warn(op+" rejected", "error", err, "status", status)
	}
	http.Error(w, err.Error(), status)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("response encode failed", "error", err)
	}
}

// StreamManager handles active SSE connections.
type StreamManager struct {
	mu          sync.RWMutex
	subscribers map[string]map[chan<- StreamMessage]struct{} // topic -> set of channels
	logger      *slog.Logger
}

// StreamMessage is one SSE frame.
type StreamMessage struct {
	Event string
	Data  string
}

func NewStreamManager() *StreamManager {
	return &StreamManager{
		subscribers: make(map[string]map[chan<- StreamMessage]struct{}),
		logger:      logging.NewNop(),
	}
}

// Subscribe returns a channel receiving the topic's messages and a function
// that unsubscribes and closes it.
func (sm *StreamManager) Subscribe(topic string) (<-chan StreamMessage, func()) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	ch := make(chan StreamMessage, 32)
	if _, ok := sm.subscribers[topic]; !ok {
		sm.subscribers[topic] = make(map[chan<- StreamMessage]struct{})
	}
	sm.subscribers[topic][ch] = struct{}{}

	return ch, func() {
		sm.mu.Lock()
		defer sm.mu.Unlock()
		if subs, ok := sm.subscribers[topic]; ok {
			if _, ok := subs[ch]; !ok {
				return
			}
			delete(subs, ch)
			close(ch)
			if len(subs) == 0 {
				delete(sm.subscribers, topic)
			}
		}
	}
}

// Broadcast sends data to every subscriber of topic without blocking.
func (sm *StreamManager) Broadcast(topic, event, data string) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	for ch := range sm.subscribers[topic] {
		select {
		case ch <- StreamMessage{Event: event, Data: data}:
		default:
			// Drop message if channel is full (slow client)
			sm.logger.Warn("SSE: Client buffer full, dropping message", "topic", topic)
		}
	}
}

// SubscribeEvents handles the GET /events request (SSE).
// The optional "types" query parameter filters by comma separated event types.
func (s *Server) SubscribeEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	filter := make(map[string]bool)
	if types := r.URL.Query().Get("types"); types != "" {
		for _, t := range strings.Split(types, ",") {
			filter[strings.TrimSpace(t)] = true
		}
	}

	ch, cancel := s.Streams.Subscribe(eventsTopic)
	defer cancel()
	s.logger.Info("SSE: Client subscribed", "types", r.URL.Query().Get("types"))

	fmt.Fprintf(w, "event: ping\ndata: connected\n\n")
	flusher.Flush()

	stream(r.Context(), ch, func(msg StreamMessage) {
		if len(filter) > 0 && !filter[msg.Event] {
			return
		}
		fmt.Fprintf(w, "event: %s\ndata: %s\n\n", msg.Event, msg.Data)
		flusher.Flush()
	})
	s.logger.Info("SSE Client Disconnected")
}

func stream(ctx context.Context, ch <-chan StreamMessage, send func(StreamMessage)) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			send(msg)
		}
	}
}
