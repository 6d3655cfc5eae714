package domain_test

import (
	"encoding/json"
	"testing"

	"github.com/aretw0/flowcanvas/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func baseDocument() *domain.Document {
	return &domain.Document{
		Name: "Lead intake",
		Nodes: []domain.DocumentNode{
			{ID: "node_1", Type: domain.NodeTypeTrigger, Label: "Trigger", X: 100, Y: 100, Config: map[string]any{}},
			{ID: "node_2", Type: domain.NodeTypeHTTP, Label: "HTTP Request", X: 300, Y: 100, Config: map[string]any{"url": "https://a.example.com"}},
		},
		Connections: []domain.Connection{
			{ID: "conn_3", From: "node_1", To: "node_2"},
		},
	}
}

func TestDiff(t *testing.T) {
	tests := []struct {
		name   string
		old    *domain.Document
		mutate func(d *domain.Document)
		want   *domain.DocumentDiff
	}{
		{
			name:   "No Changes",
			old:    baseDocument(),
			mutate: func(d *domain.Document) {},
			want:   nil,
		},
		{
			name: "Rename And Assign Agent",
			old:  baseDocument(),
			mutate: func(d *domain.Document) {
				d.Name = "Lead intake v2"
				d.AgentID = strPtr("agent-1")
			},
			want: &domain.DocumentDiff{Name: strPtr("Lead intake v2"), AgentID: strPtr("agent-1")},
		},
		{
			name: "Node Moved And Relabeled",
			old:  baseDocument(),
			mutate: func(d *domain.Document) {
				d.Nodes[0].X = 150
				d.Nodes[1].Label = "Enrich lead"
			},
			want: &domain.DocumentDiff{
				ChangedNodes: []domain.NodeChange{
					{ID: "node_1", Position: &domain.Point{X: 150, Y: 100}},
					{ID: "node_2", Label: strPtr("Enrich lead")},
				},
			},
		},
		{
			name: "Config Delta",
			old:  baseDocument(),
			mutate: func(d *domain.Document) {
				d.Nodes[1].Config = map[string]any{"method": "POST"}
			},
			want: &domain.DocumentDiff{
				ChangedNodes: []domain.NodeChange{
					{ID: "node_2", Config: map[string]any{"method": "POST", "url": nil}},
				},
			},
		},
		{
			name: "Node Deleted Cascades",
			old:  baseDocument(),
			mutate: func(d *domain.Document) {
				d.Nodes = d.Nodes[:1]
				d.Connections = nil
			},
			want: &domain.DocumentDiff{
				RemovedNodes:       []string{"node_2"},
				RemovedConnections: []string{"conn_3"},
			},
		},
		{
			name: "Node And Connection Added",
			old:  baseDocument(),
			mutate: func(d *domain.Document) {
				d.Nodes = append(d.Nodes, domain.DocumentNode{ID: "node_4", Type: domain.NodeTypeEmail, Label: "Email"})
				d.Connections = append(d.Connections, domain.Connection{ID: "conn_5", From: "node_2", To: "node_4"})
			},
			want: &domain.DocumentDiff{
				AddedNodes:       []domain.DocumentNode{{ID: "node_4", Type: domain.NodeTypeEmail, Label: "Email"}},
				AddedConnections: []domain.Connection{{ID: "conn_5", From: "node_2", To: "node_4"}},
			},
		},
		{
			name: "Initial Load (Old is Nil)",
			old:  nil,
			mutate: func(d *domain.Document) {
				d.Nodes = d.Nodes[:1]
				d.Connections = nil
			},
			want: &domain.DocumentDiff{
				Name:       strPtr("Lead intake"),
				AddedNodes: []domain.DocumentNode{{ID: "node_1", Type: domain.NodeTypeTrigger, Label: "Trigger", X: 100, Y: 100, Config: map[string]any{}}},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next := baseDocument()
			tt.mutate(next)

			got := domain.Diff(tt.old, next)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDiff_ClearedAgent(t *testing.T) {
	old := baseDocument()
	old.AgentID = strPtr("agent-1")

	got := domain.Diff(old, baseDocument())
	require.NotNil(t, got)
	require.NotNil(t, got.AgentID)
	assert.Empty(t, *got.AgentID)
}

func TestDiff_NilNew(t *testing.T) {
	assert.Nil(t, domain.Diff(baseDocument(), nil))
}

func TestDiff_JSONOmitsUnchanged(t *testing.T) {
	next := baseDocument()
	next.Nodes[0].Label = "Webhook"

	data, err := json.Marshal(domain.Diff(baseDocument(), next))
	require.NoError(t, err)
	assert.JSONEq(t, `{"changedNodes":[{"id":"node_1","label":"Webhook"}]}`, string(data))
}
