package tui

import (
	"fmt"
	"strings"

	"github.com/aretw0/flowcanvas/pkg/domain"
	"github.com/charmbracelet/glamour"
)

// NewRenderer returns a function that renders markdown using glamour.
func NewRenderer() func(string) (string, error) {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
	)
	if err != nil {
		return func(markdown string) (string, error) { return markdown, nil }
	}

	return func(markdown string) (string, error) {
		return r.Render(markdown)
	}
}

// DocumentMarkdown summarizes a workflow document as markdown.
func DocumentMarkdown(key string, doc domain.Document) string {
	var sb strings.Builder

	name := doc.Name
	if name == "" {
		name = "Untitled workflow"
	}
	fmt.Fprintf(&sb, "# %s\n\n", name)
	if key != "" {
		fmt.Fprintf(&sb, "Key: `%s`\n\n", key)
	}
	if doc.AgentID != nil {
		fmt.Fprintf(&sb, "Agent: `%s`\n\n", *doc.AgentID)
	}

	fmt.Fprintf(&sb, "## Nodes (%d)\n\n", len(doc.Nodes))
	if len(doc.Nodes) > 0 {
		sb.WriteString("| ID | Type | Label | Position |\n|---|---|---|---|\n")
		for _, n := range doc.Nodes {
			fmt.Fprintf(&sb, "| %s | %s | %s | (%g, %g) |\n",
				n.ID, domain.Describe(n.Type).Label, escapeCell(n.Label), n.X, n.Y)
		}
		sb.WriteString("\n")
	}

	labels := make(map[string]string, len(doc.Nodes))
	for _, n := range doc.Nodes {
		labels[n.ID] = n.Label
	}

	fmt.Fprintf(&sb, "## Connections (%d)\n\n", len(doc.Connections))
	for _, c := range doc.Connections {
		fmt.Fprintf(&sb, "- `%s`: %s → %s\n", c.ID, endpoint(labels, c.From), endpoint(labels, c.To))
	}

	return sb.String()
}

func endpoint(labels map[string]string, id string) string {
	if l, ok := labels[id]; ok && l != "" {
		return fmt.Sprintf("%s (`%s`)", l, id)
	}
	return fmt.Sprintf("`%s`", id)
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", "\\|")
}
