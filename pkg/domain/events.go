package domain

import "time"

// EventType defines the category of a graph event.
type EventType string

const (
	EventNodeAdded         EventType = "node_added"
	EventNodeMoved         EventType = "node_moved"
	EventNodeRelabeled     EventType = "node_relabeled"
	EventNodeRemoved       EventType = "node_removed"
	EventConnectionAdded   EventType = "connection_added"
	EventConnectionRemoved EventType = "connection_removed"
	EventSelectionChanged  EventType = "selection_changed"
	EventViewportChanged   EventType = "viewport_changed"
)

// GraphEvent is emitted after a mutation has been applied.
// Only the fields relevant to the event type are set.
type GraphEvent struct {
	Timestamp    time.Time `json:"timestamp"`
	Type         EventType `json:"type"`
	NodeID       string    `json:"node_id,omitempty"`
	NodeType     NodeType  `json:"node_type,omitempty"`
	ConnectionID string    `json:"connection_id,omitempty"`
}

// Listener receives graph events. Listeners run synchronously on the mutating goroutine
// and must not mutate the graph themselves.
type Listener func(GraphEvent)
