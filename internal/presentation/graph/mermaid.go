package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/flowcanvas/pkg/domain"
)

// GraphOverlay contains transient editor state to highlight on the graph.
type GraphOverlay struct {
	SelectedNode  string
	PendingSource string
}

// shapes maps node types to Mermaid node delimiters.
var shapes = map[domain.NodeType][2]string{
	domain.NodeTypeTrigger:   {"((", "))"},
	domain.NodeTypeAgent:     {"[[", "]]"},
	domain.NodeTypeHTTP:      {"[/", "/]"},
	domain.NodeTypeCode:      {"[", "]"},
	domain.NodeTypeCondition: {"{", "}"},
	domain.NodeTypeDelay:     {"([", "])"},
	domain.NodeTypeEmail:     {">", "]"},
}

// GenerateMermaid produces a left-to-right Mermaid flowchart for a workflow document.
// Each node type gets its own shape and a class colored like its palette entry.
// Connections whose endpoints are missing are drawn dotted.
func GenerateMermaid(doc domain.Document, overlay *GraphOverlay) string {
	var sb strings.Builder
	sb.WriteString("graph LR\n")

	known := make(map[string]bool, len(doc.Nodes))
	used := make(map[domain.NodeType]bool)

	for _, node := range doc.Nodes {
		known[node.ID] = true
		used[node.Type] = true

		shape, ok := shapes[node.Type]
		if !ok {
			shape = [2]string{"[", "]"}
		}
		fmt.Fprintf(&sb, "    %s%s\"%s\"%s\n", sanitizeMermaidID(node.ID), shape[0], escapeLabel(node.Label), shape[1])
	}

	for _, c := range doc.Connections {
		arrow := "-->"
		if !known[c.From] || !known[c.To] {
			arrow = "-.->"
		}
		fmt.Fprintf(&sb, "    %s %s %s\n", sanitizeMermaidID(c.From), arrow, sanitizeMermaidID(c.To))
	}

	if len(doc.Nodes) > 0 {
		sb.WriteString("\n    %% Node Types\n")
		for _, desc := range domain.Catalog() {
			if !used[desc.Type] {
				continue
			}
			fmt.Fprintf(&sb, "    classDef %s fill:%s,stroke:%s,color:#fff;\n", desc.Type, desc.Color, desc.Color)
		}
		for _, node := range doc.Nodes {
			if _, ok := domain.Lookup(node.Type); ok {
				fmt.Fprintf(&sb, "    class %s %s;\n", sanitizeMermaidID(node.ID), node.Type)
			}
		}
	}

	if overlay != nil && (overlay.SelectedNode != "" || overlay.PendingSource != "") {
		sb.WriteString("\n    %% Overlay Styles\n")
		sb.WriteString("    classDef selected stroke:#fbc02d,stroke-width:4px;\n")
		sb.WriteString("    classDef pending stroke:#01579b,stroke-width:3px,stroke-dasharray:5 5;\n")
		if overlay.SelectedNode != "" {
			fmt.Fprintf(&sb, "    class %s selected;\n", sanitizeMermaidID(overlay.SelectedNode))
		}
		if overlay.PendingSource != "" {
			fmt.Fprintf(&sb, "    class %s pending;\n", sanitizeMermaidID(overlay.PendingSource))
		}
	}

	return sb.String()
}

func escapeLabel(s string) string {
	return strings.ReplaceAll(s, "\"", "#quot;")
}

func sanitizeMermaidID(id string) string {
	r := strings.NewReplacer(".", "_", "-", "_", "/", "_", "\\", "_", ":", "_", " ", "_")
	return r.Replace(id)
}
