package graph

import "github.com/aretw0/flowcanvas/pkg/domain"

// Select makes node id the selected node. Unknown ids leave the selection untouched.
func (m *Model) Select(id string) bool {
	if m.nodeIndex(id) < 0 {
		return false
	}
	if m.selected != id {
		m.selected = id
		m.emit(domain.GraphEvent{Type: domain.EventSelectionChanged, NodeID: id})
	}
	return true
}

// ClearSelection deselects the selected node, if any.
func (m *Model) ClearSelection() {
	if m.selected == "" {
		return
	}
	m.selected = ""
	m.emit(domain.GraphEvent{Type: domain.EventSelectionChanged})
}

// Selected returns the selected node id, or "" when nothing is selected.
func (m *Model) Selected() string {
	return m.selected
}

// SetPendingSource records node id as the source of a connection being drawn.
func (m *Model) SetPendingSource(id string) bool {
	if m.nodeIndex(id) < 0 {
		return false
	}
	m.pending = id
	return true
}

// ClearPendingSource forgets the pending connection source.
func (m *Model) ClearPendingSource() {
	m.pending = ""
}

// PendingSource returns the pending connection source, or "" when none.
func (m *Model) PendingSource() string {
	return m.pending
}
