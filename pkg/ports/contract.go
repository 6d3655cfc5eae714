package ports

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/aretw0/flowcanvas/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunDocumentStoreContract runs a suite of tests to verify that a store implementation
// adheres to the interface contract. The Delete cases run only when the store implements
// DocumentDeleter.
func RunDocumentStoreContract(t *testing.T, store ReadableStore) {
	ctx := context.Background()
	key := fmt.Sprintf("%s%d", domain.DocumentKeyPrefix, time.Now().UnixMilli())
	doc := `{"name":"Workflow","agentId":null,"nodes":[{"id":"node_1","type":"trigger","label":"Trigger","x":400,"y":300,"config":{}}],"connections":[]}`

	t.Run("Save and Load", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, key, doc), "Save should not return error")

		loaded, err := store.Load(ctx, key)
		require.NoError(t, err, "Load should not return error")
		assert.JSONEq(t, doc, loaded)
	})

	t.Run("Overwrite", func(t *testing.T) {
		updated := `{"name":"Renamed","agentId":"agent-1","nodes":[],"connections":[]}`
		require.NoError(t, store.Save(ctx, key, updated))

		loaded, err := store.Load(ctx, key)
		require.NoError(t, err)
		assert.JSONEq(t, updated, loaded)
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, key+"-missing")
		assert.ErrorIs(t, err, domain.ErrDocumentNotFound)
	})

	t.Run("List", func(t *testing.T) {
		k1 := key + "1"
		k2 := key + "2"
		require.NoError(t, store.Save(ctx, k1, doc))
		require.NoError(t, store.Save(ctx, k2, doc))

		keys, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, keys, k1)
		assert.Contains(t, keys, k2)
	})

	deleter, ok := store.(DocumentDeleter)
	if !ok {
		return
	}

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, key, doc))
		require.NoError(t, deleter.Delete(ctx, key), "Delete should not return error")

		_, err := store.Load(ctx, key)
		assert.ErrorIs(t, err, domain.ErrDocumentNotFound, "Load after Delete should return ErrDocumentNotFound")

		keys, err := store.List(ctx)
		require.NoError(t, err)
		assert.NotContains(t, keys, key)

		assert.NoError(t, deleter.Delete(ctx, key), "Deleting twice should be a no-op")
	})
}
