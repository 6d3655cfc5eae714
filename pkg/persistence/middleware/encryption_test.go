package middleware_test

import (
	"context"
	"crypto/rand"
	"io"
	"testing"

	"github.com/aretw0/flowcanvas/pkg/adapters/memory"
	"github.com/aretw0/flowcanvas/pkg/persistence/middleware"
	"github.com/aretw0/flowcanvas/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleDoc = `{"name":"Billing","agentId":null,"nodes":[{"id":"node_1","type":"http","label":"Charge","x":10,"y":20,"config":{"api_key":"sk-live-123","url":"https://pay.example.com"}}],"connections":[]}`

func generateKey(t *testing.T) []byte {
	t.Helper()
	k := make([]byte, 32)
	_, err := io.ReadFull(rand.Reader, k)
	require.NoError(t, err)
	return k
}

func TestEncryptionMiddleware_Contract(t *testing.T) {
	mw := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: generateKey(t)})
	ports.RunDocumentStoreContract(t, mw(memory.NewStore()))
}

func TestEncryptionMiddleware_Roundtrip(t *testing.T) {
	underlying := memory.NewStore()
	mw := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: generateKey(t)})
	secure := mw(underlying)
	ctx := context.Background()

	require.NoError(t, secure.Save(ctx, "workflow:1", sampleDoc))

	raw, err := underlying.Load(ctx, "workflow:1")
	require.NoError(t, err)
	assert.NotContains(t, raw, "sk-live-123")
	assert.Contains(t, raw, "__encrypted__")

	loaded, err := secure.Load(ctx, "workflow:1")
	require.NoError(t, err)
	assert.Equal(t, sampleDoc, loaded)
}

func TestEncryptionMiddleware_KeyRotation(t *testing.T) {
	underlying := memory.NewStore()
	oldKey := generateKey(t)
	newKey := generateKey(t)
	ctx := context.Background()

	oldStore := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: oldKey})(underlying)
	require.NoError(t, oldStore.Save(ctx, "workflow:1", sampleDoc))

	rotated := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{
		ActiveKey:    newKey,
		FallbackKeys: [][]byte{oldKey},
	})(underlying)
	loaded, err := rotated.Load(ctx, "workflow:1")
	require.NoError(t, err)
	assert.Equal(t, sampleDoc, loaded)

	strict := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: newKey})(underlying)
	_, err = strict.Load(ctx, "workflow:1")
	assert.Error(t, err)
}

func TestEncryptionMiddleware_RejectsPlainDocuments(t *testing.T) {
	underlying := memory.NewStore()
	ctx := context.Background()
	require.NoError(t, underlying.Save(ctx, "workflow:1", sampleDoc))

	secure := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: generateKey(t)})(underlying)
	_, err := secure.Load(ctx, "workflow:1")
	assert.ErrorContains(t, err, "envelope")
}

func TestEncryptionMiddleware_InvalidKey(t *testing.T) {
	assert.Panics(t, func() {
		middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: []byte("short")})
	})
}
