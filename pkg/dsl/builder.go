package dsl

import (
	"fmt"

	"github.com/aretw0/flowcanvas/pkg/domain"
	"github.com/aretw0/flowcanvas/pkg/graph"
)

// Builder manages the workflow construction.
type Builder struct {
	name    string
	agentID *string
	order   []string
	nodes   map[string]*NodeBuilder
}

// New creates a new workflow builder.
func New(name string) *Builder {
	return &Builder{
		name:  name,
		nodes: make(map[string]*NodeBuilder),
	}
}

// Agent sets the agent the workflow belongs to.
func (b *Builder) Agent(id string) *Builder {
	b.agentID = &id
	return b
}

// Add creates a new node in the workflow.
// If the node already exists, it returns the existing builder and keeps its type.
func (b *Builder) Add(id string, t domain.NodeType) *NodeBuilder {
	if nb, ok := b.nodes[id]; ok {
		return nb
	}
	nb := &NodeBuilder{
		node: domain.DocumentNode{
			ID:    id,
			Type:  t,
			Label: domain.Describe(t).Label,
		},
		builder: b,
	}
	b.nodes[id] = nb
	b.order = append(b.order, id)
	return nb
}

// Build compiles the workflow into a Document.
// Nodes keep their insertion order; connections are numbered in the order they were declared.
func (b *Builder) Build() (domain.Document, error) {
	doc := domain.Document{
		Name:        b.name,
		AgentID:     b.agentID,
		Nodes:       make([]domain.DocumentNode, 0, len(b.order)),
		Connections: []domain.Connection{},
	}

	for _, id := range b.order {
		doc.Nodes = append(doc.Nodes, b.nodes[id].node)
	}
	for _, id := range b.order {
		for _, target := range b.nodes[id].targets {
			if _, ok := b.nodes[target]; !ok {
				return domain.Document{}, fmt.Errorf("connection %s -> %s: %w", id, target, domain.ErrNodeNotFound)
			}
			doc.Connections = append(doc.Connections, domain.Connection{
				ID:   fmt.Sprintf("conn_%d", len(doc.Connections)+1),
				From: id,
				To:   target,
			})
		}
	}

	if _, err := graph.Deserialize(doc); err != nil {
		return domain.Document{}, fmt.Errorf("failed to build workflow: %w", err)
	}
	return doc, nil
}
