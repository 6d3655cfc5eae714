package validator

import (
	"fmt"
	"strings"

	"github.com/aretw0/flowcanvas/pkg/domain"
	"github.com/aretw0/flowcanvas/pkg/graph"
)

// ValidateDocument checks that doc can be opened and that its flow is connected.
// Structural problems (unknown types, duplicate ids, self-loops) come from graph.Deserialize.
// On top of that it reports connections to missing nodes, workflows without a trigger,
// and nodes no trigger can reach.
func ValidateDocument(doc domain.Document) error {
	if _, err := graph.Deserialize(doc); err != nil {
		return err
	}

	known := make(map[string]bool, len(doc.Nodes))
	for _, n := range doc.Nodes {
		known[n.ID] = true
	}

	var errors []string
	next := make(map[string][]string)
	for _, c := range doc.Connections {
		for _, end := range []string{c.From, c.To} {
			if !known[end] {
				errors = append(errors, fmt.Sprintf("Connection '%s' points to missing node '%s'", c.ID, end))
			}
		}
		next[c.From] = append(next[c.From], c.To)
	}

	// Crawl from every trigger.
	visited := make(map[string]bool)
	var queue []string
	for _, n := range doc.Nodes {
		if n.Type == domain.NodeTypeTrigger {
			queue = append(queue, n.ID)
		}
	}
	if len(doc.Nodes) > 0 && len(queue) == 0 {
		errors = append(errors, "Workflow has no trigger node")
	}

	for len(queue) > 0 {
		currentID := queue[0]
		queue = queue[1:]

		if visited[currentID] {
			continue
		}
		visited[currentID] = true

		for _, target := range next[currentID] {
			if !visited[target] {
				queue = append(queue, target)
			}
		}
	}

	if len(visited) > 0 {
		for _, n := range doc.Nodes {
			if !visited[n.ID] {
				errors = append(errors, fmt.Sprintf("Unreachable node: '%s' (%s)", n.ID, n.Label))
			}
		}
	}

	if len(errors) > 0 {
		return fmt.Errorf("found %d errors:\n- %s", len(errors), strings.Join(errors, "\n- "))
	}

	return nil
}
