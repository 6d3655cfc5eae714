package dsl

import "github.com/aretw0/flowcanvas/pkg/domain"

// NodeBuilder provides a fluent API for configuring a node.
type NodeBuilder struct {
	node    domain.DocumentNode
	targets []string
	builder *Builder
}

// Label overrides the catalog label.
func (n *NodeBuilder) Label(label string) *NodeBuilder {
	n.node.Label = label
	return n
}

// At places the node at a canvas position.
func (n *NodeBuilder) At(x, y float64) *NodeBuilder {
	n.node.X = x
	n.node.Y = y
	return n
}

// Config sets a configuration value on the node.
func (n *NodeBuilder) Config(key string, value any) *NodeBuilder {
	if n.node.Config == nil {
		n.node.Config = make(map[string]any)
	}
	n.node.Config[key] = value
	return n
}

// To adds a connection from this node to the target node.
// The target does not have to exist yet; Build checks it.
func (n *NodeBuilder) To(targets ...string) *NodeBuilder {
	n.targets = append(n.targets, targets...)
	return n
}

// Then adds a node and connects this node to it, returning the new node's builder.
func (n *NodeBuilder) Then(id string, t domain.NodeType) *NodeBuilder {
	n.To(id)
	return n.builder.Add(id, t)
}

// Build returns the underlying domain.DocumentNode.
// This is primarily used by the Builder, but exposed for advanced usage.
func (n *NodeBuilder) Build() domain.DocumentNode {
	return n.node
}
