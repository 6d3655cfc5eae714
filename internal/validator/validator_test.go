package validator

import (
	"testing"

	"github.com/aretw0/flowcanvas/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func node(id string, t domain.NodeType) domain.DocumentNode {
	return domain.DocumentNode{ID: id, Type: t, Label: string(t)}
}

func TestValidateDocument(t *testing.T) {
	t.Run("Valid", func(t *testing.T) {
		doc := domain.Document{
			Nodes: []domain.DocumentNode{
				node("start", domain.NodeTypeTrigger),
				node("check", domain.NodeTypeCondition),
				node("mail", domain.NodeTypeEmail),
			},
			Connections: []domain.Connection{
				{ID: "c1", From: "start", To: "check"},
				{ID: "c2", From: "check", To: "mail"},
				{ID: "c3", From: "mail", To: "check"},
			},
		}
		assert.NoError(t, ValidateDocument(doc))
	})

	t.Run("Empty", func(t *testing.T) {
		assert.NoError(t, ValidateDocument(domain.Document{}))
	})

	t.Run("Broken Link", func(t *testing.T) {
		doc := domain.Document{
			Nodes:       []domain.DocumentNode{node("start", domain.NodeTypeTrigger)},
			Connections: []domain.Connection{{ID: "c1", From: "start", To: "ghost_node"}},
		}
		err := ValidateDocument(doc)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "points to missing node 'ghost_node'")
	})

	t.Run("Unreachable", func(t *testing.T) {
		doc := domain.Document{
			Nodes: []domain.DocumentNode{
				node("start", domain.NodeTypeTrigger),
				node("orphan", domain.NodeTypeDelay),
			},
		}
		err := ValidateDocument(doc)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Unreachable node: 'orphan'")
		assert.Contains(t, err.Error(), "found 1 errors")
	})

	t.Run("No Trigger", func(t *testing.T) {
		doc := domain.Document{Nodes: []domain.DocumentNode{node("a", domain.NodeTypeCode)}}
		err := ValidateDocument(doc)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no trigger")
	})

	t.Run("Structural", func(t *testing.T) {
		doc := domain.Document{
			Nodes: []domain.DocumentNode{node("a", domain.NodeTypeTrigger), node("a", domain.NodeTypeCode)},
		}
		assert.ErrorIs(t, ValidateDocument(doc), domain.ErrDuplicateID)

		doc = domain.Document{Nodes: []domain.DocumentNode{{ID: "x", Type: "webhook"}}}
		assert.ErrorIs(t, ValidateDocument(doc), domain.ErrUnknownNodeType)
	})
}
