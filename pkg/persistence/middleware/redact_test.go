package middleware_test

import (
	"context"
	"testing"

	"github.com/aretw0/flowcanvas/pkg/adapters/memory"
	"github.com/aretw0/flowcanvas/pkg/domain"
	"github.com/aretw0/flowcanvas/pkg/persistence/middleware"
	"github.com/aretw0/flowcanvas/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeOnly hides the Delete method of the wrapped store.
type writeOnly struct {
	ports.ReadableStore
}

func TestRedactMiddleware_Masking(t *testing.T) {
	underlying := memory.NewStore()
	store := middleware.NewRedactMiddleware([]string{"(?i)key", "password"})(underlying)
	ctx := context.Background()

	doc := `{"name":"n","agentId":null,"nodes":[{"id":"node_1","type":"http","label":"Call","x":0,"y":0,"config":{"api_key":"secret","url":"https://x","auth":{"password":"hunter2","user":"bob"}}}],"connections":[]}`
	require.NoError(t, store.Save(ctx, "workflow:1", doc))

	raw, err := underlying.Load(ctx, "workflow:1")
	require.NoError(t, err)
	parsed, err := domain.ParseDocument([]byte(raw))
	require.NoError(t, err)

	cfg := parsed.Nodes[0].Config
	assert.Equal(t, middleware.Mask, cfg["api_key"])
	assert.Equal(t, "https://x", cfg["url"])
	auth := cfg["auth"].(map[string]any)
	assert.Equal(t, middleware.Mask, auth["password"])
	assert.Equal(t, "bob", auth["user"])
}

func TestRedactMiddleware_MasksInsideLists(t *testing.T) {
	underlying := memory.NewStore()
	store := middleware.NewRedactMiddleware([]string{"(?i)token"})(underlying)
	ctx := context.Background()

	doc := `{"name":"n","agentId":null,"nodes":[{"id":"node_1","type":"http","label":"Call","x":0,"y":0,"config":{"headers":[{"token":"s3cret","name":"X-Api"},[{"Token":"nested"}],"plain"]}}],"connections":[]}`
	require.NoError(t, store.Save(ctx, "workflow:1", doc))

	raw, err := underlying.Load(ctx, "workflow:1")
	require.NoError(t, err)
	assert.NotContains(t, raw, "s3cret")
	assert.NotContains(t, raw, "nested")

	parsed, err := domain.ParseDocument([]byte(raw))
	require.NoError(t, err)
	headers := parsed.Nodes[0].Config["headers"].([]any)
	require.Len(t, headers, 3)
	first := headers[0].(map[string]any)
	assert.Equal(t, middleware.Mask, first["token"])
	assert.Equal(t, "X-Api", first["name"])
	inner := headers[1].([]any)[0].(map[string]any)
	assert.Equal(t, middleware.Mask, inner["Token"])
	assert.Equal(t, "plain", headers[2])
}

func TestRedactMiddleware_RejectsInvalidJSON(t *testing.T) {
	store := middleware.NewRedactMiddleware([]string{"key"})(memory.NewStore())
	assert.Error(t, store.Save(context.Background(), "workflow:1", "not json"))
}

func TestChain_Order(t *testing.T) {
	underlying := memory.NewStore()
	store := middleware.Chain(underlying,
		middleware.NewRedactMiddleware([]string{"api_key"}),
		middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: generateKey(t)}),
	)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "workflow:1", sampleDoc))

	loaded, err := store.Load(ctx, "workflow:1")
	require.NoError(t, err)
	assert.Contains(t, loaded, `"api_key":"***"`)
	assert.NotContains(t, loaded, "sk-live-123")
}

func TestDelete_Unsupported(t *testing.T) {
	store := middleware.NewRedactMiddleware(nil)(writeOnly{memory.NewStore()})
	deleter, ok := store.(ports.DocumentDeleter)
	require.True(t, ok)
	assert.ErrorIs(t, deleter.Delete(context.Background(), "workflow:1"), middleware.ErrDeleteUnsupported)
}
