package flowcanvas

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/aretw0/flowcanvas/internal/interaction"
	"github.com/aretw0/flowcanvas/internal/logging"
	"github.com/aretw0/flowcanvas/pkg/domain"
	"github.com/aretw0/flowcanvas/pkg/graph"
	"github.com/aretw0/flowcanvas/pkg/ports"
	"github.com/aretw0/flowcanvas/pkg/viewport"
)

// BaseStrokeWidth is the connection stroke width at zoom 1.0.
const BaseStrokeWidth = 2.0

// saveLockTTL bounds how long a crashed writer can hold a document key.
const saveLockTTL = 30 * time.Second

// Editor is the high-level entry point of the workflow editor.
// It owns one graph, the viewport it is shown through and the controller that edits it.
// An Editor is not safe for concurrent use; adapters serving concurrent callers must
// serialize access.
type Editor struct {
	graph      *graph.Model
	view       *viewport.Transform
	controller *interaction.Controller

	store     ports.DocumentStore
	locker    ports.DistributedLocker
	logger    *slog.Logger
	now       func() time.Time
	keyFunc   func(time.Time) string
	name      string
	agentID   *string
	idGen     graph.IDGenerator
	listeners []listenerEntry
	nextSub   int
}

type listenerEntry struct {
	id int
	fn domain.Listener
}

// SaveResult is delivered by SaveAsync once the write finished.
type SaveResult struct {
	Key string
	Err error
}

// RenderedConnection is a connection resolved to screen geometry.
type RenderedConnection struct {
	ID          string         `json:"id"`
	From        string         `json:"from"`
	To          string         `json:"to"`
	Curve       viewport.Curve `json:"curve"`
	Path        string         `json:"path"`
	StrokeWidth float64        `json:"stroke_width"`
}

// Option defines a functional option for configuring the Editor.
type Option func(*Editor)

// WithStore sets the store Save writes to.
func WithStore(s ports.DocumentStore) Option {
	return func(e *Editor) {
		e.store = s
	}
}

// WithLocker guards each save with a distributed lock on the document key.
func WithLocker(l ports.DistributedLocker) Option {
	return func(e *Editor) {
		e.locker = l
	}
}

// WithLogger sets a custom structured logger for the editor.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Editor) {
		e.logger = logger
	}
}

// WithClock sets the time source used for document keys, default names and events.
func WithClock(now func() time.Time) Option {
	return func(e *Editor) {
		e.now = now
	}
}

// WithKeyFunc overrides how document keys are derived from the save time.
func WithKeyFunc(fn func(time.Time) string) Option {
	return func(e *Editor) {
		e.keyFunc = fn
	}
}

// WithName sets a fixed workflow name instead of the dated default.
func WithName(name string) Option {
	return func(e *Editor) {
		e.name = name
	}
}

// WithAgentID links saved workflows to an agent.
func WithAgentID(id string) Option {
	return func(e *Editor) {
		e.agentID = &id
	}
}

// WithListener subscribes l to graph and viewport events from construction on.
func WithListener(l domain.Listener) Option {
	return func(e *Editor) {
		e.Subscribe(l)
	}
}

// WithIDGenerator replaces the ULID based node and connection ids.
func WithIDGenerator(gen graph.IDGenerator) Option {
	return func(e *Editor) {
		e.idGen = gen
	}
}

// DefaultKey builds the store key for a save at t.
func DefaultKey(t time.Time) string {
	return fmt.Sprintf("%s%d", domain.DocumentKeyPrefix, t.UnixMilli())
}

// DefaultName builds the workflow name for a save at t.
func DefaultName(t time.Time) string {
	return "Workflow " + t.Format("2006-01-02")
}

// New creates an editor with an empty graph.
func New(opts ...Option) *Editor {
	e := newEditor(opts)
	e.graph = graph.New(e.graphOptions()...)
	e.wire()
	return e
}

// Open creates an editor showing the graph stored in doc.
func Open(doc domain.Document, opts ...Option) (*Editor, error) {
	e := newEditor(opts)
	g, err := graph.Deserialize(doc, e.graphOptions()...)
	if err != nil {
		return nil, fmt.Errorf("failed to open workflow: %w", err)
	}
	e.graph = g
	if e.name == "" {
		e.name = doc.Name
	}
	if e.agentID == nil {
		e.agentID = doc.AgentID
	}
	e.wire()
	return e, nil
}

func newEditor(opts []Option) *Editor {
	e := &Editor{
		now:     time.Now,
		keyFunc: DefaultKey,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.logger == nil {
		e.logger = logging.NewNop()
	}
	return e
}

func (e *Editor) graphOptions() []graph.Option {
	opts := []graph.Option{
		graph.WithClock(e.now),
		graph.WithListener(e.emit),
	}
	if e.idGen != nil {
		opts = append(opts, graph.WithIDGenerator(e.idGen))
	}
	return opts
}

func (e *Editor) wire() {
	e.view = viewport.New(viewport.WithClock(e.now), viewport.WithListener(e.emit))
	e.controller = interaction.NewController(e.graph, e.view, interaction.WithLogger(e.logger))
}

// Subscribe registers a listener for graph and viewport events and returns a function
// that removes it.
func (e *Editor) Subscribe(l domain.Listener) func() {
	e.nextSub++
	id := e.nextSub
	e.listeners = append(e.listeners, listenerEntry{id: id, fn: l})
	return func() {
		// Build a new slice so an emit already ranging over the old one is unaffected.
		kept := make([]listenerEntry, 0, len(e.listeners))
		for _, entry := range e.listeners {
			if entry.id != id {
				kept = append(kept, entry)
			}
		}
		e.listeners = kept
	}
}

func (e *Editor) emit(ev domain.GraphEvent) {
	for _, l := range e.listeners {
		l.fn(ev)
	}
}

// Graph returns the underlying graph model.
func (e *Editor) Graph() *graph.Model { return e.graph }

// Viewport returns the viewport transform.
func (e *Editor) Viewport() *viewport.Transform { return e.view }

// Controller returns the gesture controller.
func (e *Editor) Controller() *interaction.Controller { return e.controller }

// Dispatch applies a gesture through the controller.
func (e *Editor) Dispatch(g interaction.Gesture) (interaction.Result, error) {
	return e.controller.Dispatch(g)
}

// Metadata returns the name and agent id the next save would use.
func (e *Editor) Metadata() domain.Metadata {
	name := e.name
	if name == "" {
		name = DefaultName(e.now())
	}
	return domain.Metadata{Name: name, AgentID: e.agentID}
}

// Document returns a snapshot of the current graph as a persisted document.
func (e *Editor) Document() domain.Document {
	return e.graph.Serialize(e.Metadata())
}

// Save persists a snapshot of the graph and returns the key it was written under.
// On failure the graph is left untouched and nothing is retried.
func (e *Editor) Save(ctx context.Context) (string, error) {
	key, doc, err := e.snapshot()
	if err != nil {
		return "", err
	}
	return key, e.write(ctx, key, doc)
}

// SaveAsync takes the snapshot now and writes it in the background. The editor stays
// usable while the write is in flight; edits made meanwhile are not part of the save.
func (e *Editor) SaveAsync(ctx context.Context) <-chan SaveResult {
	ch := make(chan SaveResult, 1)

	key, doc, err := e.snapshot()
	if err != nil {
		ch <- SaveResult{Err: err}
		close(ch)
		return ch
	}

	go func() {
		defer close(ch)
		ch <- SaveResult{Key: key, Err: e.write(ctx, key, doc)}
	}()
	return ch
}

func (e *Editor) snapshot() (string, string, error) {
	if e.store == nil {
		return "", "", domain.ErrNoStore
	}
	now := e.now()
	meta := domain.Metadata{Name: e.name, AgentID: e.agentID}
	if meta.Name == "" {
		meta.Name = DefaultName(now)
	}
	data, err := e.graph.Serialize(meta).Marshal()
	if err != nil {
		return "", "", fmt.Errorf("failed to serialize workflow: %w", err)
	}
	return e.keyFunc(now), string(data), nil
}

func (e *Editor) write(ctx context.Context, key, doc string) error {
	if e.locker != nil {
		unlock, err := e.locker.Lock(ctx, key, saveLockTTL)
		if err != nil {
			e.logger.Error("Failed to lock workflow", "key", key, "err", err)
			return fmt.Errorf("failed to lock workflow %s: %w", key, err)
		}
		defer func() {
			if err := unlock(context.WithoutCancel(ctx)); err != nil {
				e.logger.Warn("Failed to unlock workflow", "key", key, "err", err)
			}
		}()
	}

	if err := e.store.Save(ctx, key, doc); err != nil {
		e.logger.Error("Failed to save workflow", "key", key, "err", err)
		return fmt.Errorf("failed to save workflow %s: %w", key, err)
	}
	e.logger.Info("Workflow saved", "key", key, "bytes", len(doc))
	return nil
}

// Execute would run the workflow. There is no execution engine, so it always fails
// with domain.ErrNotImplemented and changes nothing.
func (e *Editor) Execute(ctx context.Context) error {
	e.logger.Info("Workflow execution requested")
	return domain.ErrNotImplemented
}

// NodeScreenPosition returns where node id is drawn.
func (e *Editor) NodeScreenPosition(id string) (domain.Point, bool) {
	n, ok := e.graph.Node(id)
	if !ok {
		return domain.Point{}, false
	}
	return e.view.ToScreen(n.Position), true
}

// RenderConnections resolves every connection whose endpoints exist to screen geometry.
func (e *Editor) RenderConnections() []RenderedConnection {
	width := e.view.StrokeWidth(BaseStrokeWidth)
	var out []RenderedConnection
	for _, c := range e.graph.Connections() {
		from, ok := e.NodeScreenPosition(c.From)
		if !ok {
			continue
		}
		to, ok := e.NodeScreenPosition(c.To)
		if !ok {
			continue
		}
		curve := viewport.ConnectionCurve(from, to)
		out = append(out, RenderedConnection{
			ID:          c.ID,
			From:        c.From,
			To:          c.To,
			Curve:       curve,
			Path:        curve.SVGPath(),
			StrokeWidth: width,
		})
	}
	return out
}

// PendingLine returns the rubber band of a connection being drawn, in screen space.
func (e *Editor) PendingLine() (from, to domain.Point, ok bool) {
	return e.controller.PendingLine()
}
