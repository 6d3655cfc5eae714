package graph

import (
	"fmt"
	"time"

	"github.com/aretw0/flowcanvas/pkg/domain"
)

type listenerEntry struct {
	id int
	fn domain.Listener
}

// Model owns the nodes and connections of one workflow graph.
type Model struct {
	nodes       []domain.Node
	connections []domain.Connection

	// Transient interaction state, never serialized.
	selected string
	pending  string

	used      map[string]struct{}
	newID     IDGenerator
	now       func() time.Time
	listeners []listenerEntry
	nextSub   int
}

// Option configures a Model.
type Option func(*Model)

// WithIDGenerator replaces the default ULID based id generator.
func WithIDGenerator(gen IDGenerator) Option {
	return func(m *Model) {
		m.newID = gen
	}
}

// WithListener subscribes l from construction on.
func WithListener(l domain.Listener) Option {
	return func(m *Model) {
		m.Subscribe(l)
	}
}

// WithClock sets the time source used to stamp events.
func WithClock(now func() time.Time) Option {
	return func(m *Model) {
		m.now = now
	}
}

// New creates an empty graph.
func New(opts ...Option) *Model {
	m := &Model{
		used:  make(map[string]struct{}),
		newID: ULIDGenerator,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Subscribe registers a listener and returns a function that removes it.
func (m *Model) Subscribe(l domain.Listener) func() {
	m.nextSub++
	id := m.nextSub
	m.listeners = append(m.listeners, listenerEntry{id: id, fn: l})
	return func() {
		// Build a new slice so an emit already ranging over the old one is unaffected.
		kept := make([]listenerEntry, 0, len(m.listeners))
		for _, e := range m.listeners {
			if e.id != id {
				kept = append(kept, e)
			}
		}
		m.listeners = kept
	}
}

func (m *Model) emit(e domain.GraphEvent) {
	e.Timestamp = m.now()
	for _, l := range m.listeners {
		l.fn(e)
	}
}

// nextID never hands out an id that was already issued or loaded.
func (m *Model) nextID(prefix string) string {
	for {
		id := m.newID(prefix)
		if _, taken := m.used[id]; !taken {
			m.used[id] = struct{}{}
			return id
		}
	}
}

func (m *Model) nodeIndex(id string) int {
	for i := range m.nodes {
		if m.nodes[i].ID == id {
			return i
		}
	}
	return -1
}

func (m *Model) connectionIndex(id string) int {
	for i := range m.connections {
		if m.connections[i].ID == id {
			return i
		}
	}
	return -1
}

// AddNode creates a node of type t at the canonical position pos.
// Label, color and icon come from the catalog; config starts empty.
func (m *Model) AddNode(t domain.NodeType, pos domain.Point) (domain.Node, error) {
	desc, ok := domain.Lookup(t)
	if !ok {
		return domain.Node{}, fmt.Errorf("%w: %q", domain.ErrUnknownNodeType, t)
	}

	n := domain.Node{
		ID:       m.nextID(domain.NodeIDPrefix),
		Type:     t,
		Label:    desc.Label,
		Position: pos,
		Config:   map[string]any{},
		Color:    desc.Color,
		Icon:     desc.Icon,
	}
	m.nodes = append(m.nodes, n)

	m.emit(domain.GraphEvent{Type: domain.EventNodeAdded, NodeID: n.ID, NodeType: t})
	return n.Clone(), nil
}

// UpdateNodeLabel replaces the label of node id. It reports false if the node is unknown.
func (m *Model) UpdateNodeLabel(id, label string) bool {
	i := m.nodeIndex(id)
	if i < 0 {
		return false
	}
	m.nodes[i].Label = label
	m.emit(domain.GraphEvent{Type: domain.EventNodeRelabeled, NodeID: id, NodeType: m.nodes[i].Type})
	return true
}

// UpdateNodePosition moves node id to pos. It reports false if the node is unknown.
func (m *Model) UpdateNodePosition(id string, pos domain.Point) bool {
	i := m.nodeIndex(id)
	if i < 0 {
		return false
	}
	m.nodes[i].Position = pos
	m.emit(domain.GraphEvent{Type: domain.EventNodeMoved, NodeID: id, NodeType: m.nodes[i].Type})
	return true
}

// RemoveNode deletes node id and every connection touching it.
// Selection and pending connection state pointing at the node are cleared.
func (m *Model) RemoveNode(id string) bool {
	i := m.nodeIndex(id)
	if i < 0 {
		return false
	}
	removed := m.nodes[i]
	m.nodes = append(m.nodes[:i], m.nodes[i+1:]...)

	var dropped []string
	kept := m.connections[:0]
	for _, c := range m.connections {
		if c.Touches(id) {
			dropped = append(dropped, c.ID)
			continue
		}
		kept = append(kept, c)
	}
	m.connections = kept

	if m.pending == id {
		m.pending = ""
	}

	for _, cid := range dropped {
		m.emit(domain.GraphEvent{Type: domain.EventConnectionRemoved, ConnectionID: cid})
	}
	m.emit(domain.GraphEvent{Type: domain.EventNodeRemoved, NodeID: id, NodeType: removed.Type})

	if m.selected == id {
		m.selected = ""
		m.emit(domain.GraphEvent{Type: domain.EventSelectionChanged})
	}
	return true
}

// AddConnection creates an edge from -> to.
// Self-loops are refused with domain.ErrSelfConnection. Duplicate pairs are allowed and the
// endpoints are not checked for existence.
func (m *Model) AddConnection(from, to string) (domain.Connection, error) {
	if from == to {
		return domain.Connection{}, domain.ErrSelfConnection
	}
	c := domain.Connection{
		ID:   m.nextID(domain.ConnectionIDPrefix),
		From: from,
		To:   to,
	}
	m.connections = append(m.connections, c)
	m.emit(domain.GraphEvent{Type: domain.EventConnectionAdded, ConnectionID: c.ID})
	return c, nil
}

// RemoveConnection deletes connection id. It reports false if the connection is unknown.
func (m *Model) RemoveConnection(id string) bool {
	i := m.connectionIndex(id)
	if i < 0 {
		return false
	}
	m.connections = append(m.connections[:i], m.connections[i+1:]...)
	m.emit(domain.GraphEvent{Type: domain.EventConnectionRemoved, ConnectionID: id})
	return true
}

// Node returns a copy of node id.
func (m *Model) Node(id string) (domain.Node, bool) {
	i := m.nodeIndex(id)
	if i < 0 {
		return domain.Node{}, false
	}
	return m.nodes[i].Clone(), true
}

// HasNode reports whether node id exists.
func (m *Model) HasNode(id string) bool {
	return m.nodeIndex(id) >= 0
}

// Connection returns connection id.
func (m *Model) Connection(id string) (domain.Connection, bool) {
	i := m.connectionIndex(id)
	if i < 0 {
		return domain.Connection{}, false
	}
	return m.connections[i], true
}

// Nodes returns copies of all nodes in creation order.
func (m *Model) Nodes() []domain.Node {
	out := make([]domain.Node, len(m.nodes))
	for i, n := range m.nodes {
		out[i] = n.Clone()
	}
	return out
}

// Connections returns all connections in creation order.
func (m *Model) Connections() []domain.Connection {
	out := make([]domain.Connection, len(m.connections))
	copy(out, m.connections)
	return out
}

// ConnectionsOf returns the connections starting or ending at node id.
func (m *Model) ConnectionsOf(id string) []domain.Connection {
	var out []domain.Connection
	for _, c := range m.connections {
		if c.Touches(id) {
			out = append(out, c)
		}
	}
	return out
}

// Len returns the number of nodes and connections.
func (m *Model) Len() (nodes, connections int) {
	return len(m.nodes), len(m.connections)
}
