package domain

import "fmt"

// NodeType is the tag identifying a node kind in the catalog.
type NodeType string

const (
	NodeTypeTrigger   NodeType = "trigger"
	NodeTypeAgent     NodeType = "agent"
	NodeTypeHTTP      NodeType = "http"
	NodeTypeCode      NodeType = "code"
	NodeTypeCondition NodeType = "condition"
	NodeTypeDelay     NodeType = "delay"
	NodeTypeEmail     NodeType = "email"
)

// NodeTypeDescriptor holds the display metadata of a node kind.
type NodeTypeDescriptor struct {
	Type        NodeType `json:"type" yaml:"type"`
	Label       string   `json:"label" yaml:"label"`
	Color       string   `json:"color" yaml:"color"`
	Description string   `json:"description" yaml:"description"`
	Icon        string   `json:"icon" yaml:"icon"`
}

// catalog is listed in palette order.
var catalog = []NodeTypeDescriptor{
	{Type: NodeTypeTrigger, Label: "Trigger", Color: "#10b981", Description: "Start the workflow", Icon: "zap"},
	{Type: NodeTypeAgent, Label: "AI Agent", Color: "#667eea", Description: "Call AI agent", Icon: "message-square"},
	{Type: NodeTypeHTTP, Label: "HTTP Request", Color: "#3b82f6", Description: "Make API call", Icon: "database"},
	{Type: NodeTypeCode, Label: "Code", Color: "#f59e0b", Description: "Run custom code", Icon: "code"},
	{Type: NodeTypeCondition, Label: "Condition", Color: "#8b5cf6", Description: "Branch logic", Icon: "git-branch"},
	{Type: NodeTypeDelay, Label: "Delay", Color: "#ef4444", Description: "Wait/delay", Icon: "clock"},
	{Type: NodeTypeEmail, Label: "Email", Color: "#06b6d4", Description: "Send email", Icon: "mail"},
}

var catalogIndex = func() map[NodeType]NodeTypeDescriptor {
	idx := make(map[NodeType]NodeTypeDescriptor, len(catalog))
	for _, d := range catalog {
		idx[d.Type] = d
	}
	return idx
}()

const (
	fallbackColor = "#64748b"
	fallbackIcon  = "circle"
)

// Catalog returns the available node kinds in palette order.
func Catalog() []NodeTypeDescriptor {
	out := make([]NodeTypeDescriptor, len(catalog))
	copy(out, catalog)
	return out
}

// Lookup returns the descriptor for t and whether t belongs to the catalog.
func Lookup(t NodeType) (NodeTypeDescriptor, bool) {
	d, ok := catalogIndex[t]
	return d, ok
}

// Describe returns the descriptor for t.
// Tags outside the catalog get a neutral descriptor labelled with the tag itself.
func Describe(t NodeType) NodeTypeDescriptor {
	if d, ok := catalogIndex[t]; ok {
		return d
	}
	return NodeTypeDescriptor{
		Type:  t,
		Label: string(t),
		Color: fallbackColor,
		Icon:  fallbackIcon,
	}
}

// Valid reports whether t is one of the catalog tags.
func (t NodeType) Valid() bool {
	_, ok := catalogIndex[t]
	return ok
}

// ParseNodeType validates an untyped tag coming from outside the editor.
func ParseNodeType(s string) (NodeType, error) {
	t := NodeType(s)
	if !t.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownNodeType, s)
	}
	return t, nil
}
