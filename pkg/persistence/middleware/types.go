package middleware

import (
	"context"
	"errors"

	"github.com/aretw0/flowcanvas/pkg/ports"
)

// ErrDeleteUnsupported is returned by Delete when the wrapped store cannot delete.
var ErrDeleteUnsupported = errors.New("store does not support deleting documents")

// Middleware allows wrapping a store to add behavior.
type Middleware func(ports.ReadableStore) ports.ReadableStore

// Chain applies middlewares so that the first one is the outermost.
func Chain(store ports.ReadableStore, mws ...Middleware) ports.ReadableStore {
	for i := len(mws) - 1; i >= 0; i-- {
		store = mws[i](store)
	}
	return store
}

func deleteFrom(ctx context.Context, next ports.ReadableStore, key string) error {
	d, ok := next.(ports.DocumentDeleter)
	if !ok {
		return ErrDeleteUnsupported
	}
	return d.Delete(ctx, key)
}
