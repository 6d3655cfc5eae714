package domain

import (
	"encoding/json"
	"fmt"
)

// Metadata is the caller-supplied part of a persisted document.
type Metadata struct {
	Name    string
	AgentID *string
}

// Document is the persisted shape of a workflow graph.
// Transient interaction state (selection, pending connection) is never part of it.
type Document struct {
	Name        string         `json:"name"`
	AgentID     *string        `json:"agentId"`
	Nodes       []DocumentNode `json:"nodes"`
	Connections []Connection   `json:"connections"`
}

// DocumentNode is a node flattened to the persisted field layout.
type DocumentNode struct {
	ID     string         `json:"id"`
	Type   NodeType       `json:"type"`
	Label  string         `json:"label"`
	X      float64        `json:"x"`
	Y      float64        `json:"y"`
	Config map[string]any `json:"config"`
}

// Marshal encodes the document as JSON. Empty collections encode as [] and {}, never null.
func (d Document) Marshal() ([]byte, error) {
	nodes := make([]DocumentNode, len(d.Nodes))
	copy(nodes, d.Nodes)
	for i := range nodes {
		if nodes[i].Config == nil {
			nodes[i].Config = map[string]any{}
		}
	}
	d.Nodes = nodes
	if d.Connections == nil {
		d.Connections = []Connection{}
	}
	return json.Marshal(d)
}

// ParseDocument decodes a JSON document.
func ParseDocument(data []byte) (Document, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return Document{}, fmt.Errorf("failed to unmarshal document: %w", err)
	}
	return doc, nil
}
