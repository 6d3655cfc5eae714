package domain

import (
	"reflect"
)

// DocumentDiff represents the changes between two versions of a workflow.
// It is designed to be serialized to JSON so clients can review a change before saving it.
type DocumentDiff struct {
	// Name is set when the workflow was renamed.
	Name *string `json:"name,omitempty"`

	// AgentID is set when the owning agent changed. An empty string means it was cleared.
	AgentID *string `json:"agentId,omitempty"`

	AddedNodes   []DocumentNode `json:"addedNodes,omitempty"`
	RemovedNodes []string       `json:"removedNodes,omitempty"`
	ChangedNodes []NodeChange   `json:"changedNodes,omitempty"`

	AddedConnections   []Connection `json:"addedConnections,omitempty"`
	RemovedConnections []string     `json:"removedConnections,omitempty"`
}

// NodeChange lists the fields of a node that differ. Unchanged fields are nil.
type NodeChange struct {
	ID       string         `json:"id"`
	Label    *string        `json:"label,omitempty"`
	Position *Point         `json:"position,omitempty"`
	Config   map[string]any `json:"config,omitempty"`
}

// Diff calculates the difference between oldDoc and newDoc.
// If oldDoc is nil, it returns a diff representing the entire newDoc (initial load).
// Nodes and connections are matched by ID; connections are immutable, so a changed
// endpoint shows up as a removal plus an addition.
func Diff(oldDoc, newDoc *Document) *DocumentDiff {
	if newDoc == nil {
		return nil
	}
	if oldDoc == nil {
		oldDoc = &Document{}
	}

	diff := &DocumentDiff{}

	if oldDoc.Name != newDoc.Name {
		diff.Name = &newDoc.Name
	}
	if !sameAgent(oldDoc.AgentID, newDoc.AgentID) {
		agent := ""
		if newDoc.AgentID != nil {
			agent = *newDoc.AgentID
		}
		diff.AgentID = &agent
	}

	diffNodes(diff, oldDoc.Nodes, newDoc.Nodes)
	diffConnections(diff, oldDoc.Connections, newDoc.Connections)

	if diff.IsEmpty() {
		return nil
	}
	return diff
}

func sameAgent(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func diffNodes(diff *DocumentDiff, old, new []DocumentNode) {
	before := make(map[string]DocumentNode, len(old))
	for _, n := range old {
		before[n.ID] = n
	}
	after := make(map[string]struct{}, len(new))

	// Check for Added or Modified, in new document order
	for _, n := range new {
		after[n.ID] = struct{}{}
		prev, exists := before[n.ID]
		if !exists {
			diff.AddedNodes = append(diff.AddedNodes, n)
			continue
		}
		if change, ok := diffNode(prev, n); ok {
			diff.ChangedNodes = append(diff.ChangedNodes, change)
		}
	}

	// Check for Deletions, in old document order
	for _, n := range old {
		if _, exists := after[n.ID]; !exists {
			diff.RemovedNodes = append(diff.RemovedNodes, n.ID)
		}
	}
}

func diffNode(old, new DocumentNode) (NodeChange, bool) {
	change := NodeChange{ID: new.ID}
	changed := false

	if old.Label != new.Label {
		change.Label = &new.Label
		changed = true
	}
	if old.X != new.X || old.Y != new.Y {
		change.Position = &Point{X: new.X, Y: new.Y}
		changed = true
	}

	// For deletions, the key is present with a nil value.
	delta := make(map[string]any)
	for k, v := range new.Config {
		if prev, exists := old.Config[k]; !exists || !reflect.DeepEqual(prev, v) {
			delta[k] = v
		}
	}
	for k := range old.Config {
		if _, exists := new.Config[k]; !exists {
			delta[k] = nil
		}
	}
	if len(delta) > 0 {
		change.Config = delta
		changed = true
	}

	return change, changed
}

func diffConnections(diff *DocumentDiff, old, new []Connection) {
	before := make(map[string]Connection, len(old))
	for _, c := range old {
		before[c.ID] = c
	}
	after := make(map[string]Connection, len(new))
	for _, c := range new {
		after[c.ID] = c
	}

	for _, c := range new {
		if prev, exists := before[c.ID]; !exists || prev != c {
			diff.AddedConnections = append(diff.AddedConnections, c)
		}
	}
	for _, c := range old {
		if next, exists := after[c.ID]; !exists || next != c {
			diff.RemovedConnections = append(diff.RemovedConnections, c.ID)
		}
	}
}

// IsEmpty checks if the diff contains any actionable changes.
func (d *DocumentDiff) IsEmpty() bool {
	return d.Name == nil &&
		d.AgentID == nil &&
		len(d.AddedNodes) == 0 &&
		len(d.RemovedNodes) == 0 &&
		len(d.ChangedNodes) == 0 &&
		len(d.AddedConnections) == 0 &&
		len(d.RemovedConnections) == 0
}
