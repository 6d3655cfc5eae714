package graph

import (
	"fmt"

	"github.com/aretw0/flowcanvas/pkg/domain"
)

// Serialize produces the persisted document for the current graph.
// Selection and pending connection state are left out.
func (m *Model) Serialize(meta domain.Metadata) domain.Document {
	doc := domain.Document{
		Name:        meta.Name,
		AgentID:     meta.AgentID,
		Nodes:       make([]domain.DocumentNode, 0, len(m.nodes)),
		Connections: m.Connections(),
	}
	for _, n := range m.nodes {
		c := n.Clone()
		doc.Nodes = append(doc.Nodes, domain.DocumentNode{
			ID:     c.ID,
			Type:   c.Type,
			Label:  c.Label,
			X:      c.Position.X,
			Y:      c.Position.Y,
			Config: c.Config,
		})
	}
	return doc
}

// Deserialize rebuilds a graph from a document.
// Color and icon are re-derived from the catalog. Ids in the document are reserved so the
// new model never issues them again.
func Deserialize(doc domain.Document, opts ...Option) (*Model, error) {
	m := New(opts...)

	for _, dn := range doc.Nodes {
		desc, ok := domain.Lookup(dn.Type)
		if !ok {
			return nil, fmt.Errorf("node %q: %w: %q", dn.ID, domain.ErrUnknownNodeType, dn.Type)
		}
		if _, dup := m.used[dn.ID]; dup {
			return nil, fmt.Errorf("%w: node %q", domain.ErrDuplicateID, dn.ID)
		}
		m.used[dn.ID] = struct{}{}

		n := domain.Node{
			ID:       dn.ID,
			Type:     dn.Type,
			Label:    dn.Label,
			Position: domain.Point{X: dn.X, Y: dn.Y},
			Config:   dn.Config,
			Color:    desc.Color,
			Icon:     desc.Icon,
		}
		n = n.Clone()
		m.nodes = append(m.nodes, n)
	}

	for _, c := range doc.Connections {
		if _, dup := m.used[c.ID]; dup {
			return nil, fmt.Errorf("%w: connection %q", domain.ErrDuplicateID, c.ID)
		}
		if c.From == c.To {
			return nil, fmt.Errorf("connection %q: %w", c.ID, domain.ErrSelfConnection)
		}
		m.used[c.ID] = struct{}{}
		m.connections = append(m.connections, c)
	}

	return m, nil
}
