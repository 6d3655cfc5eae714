package ports

import "context"

// DocumentStore persists workflow documents.
type DocumentStore interface {
	// Save writes document under key, replacing any previous value.
	Save(ctx context.Context, key, document string) error
}

// DocumentReader reads back documents written by a DocumentStore.
type DocumentReader interface {
	// Load returns the document stored under key.
	// Returns domain.ErrDocumentNotFound if the key does not exist.
	Load(ctx context.Context, key string) (string, error)

	// List returns the keys of all stored documents.
	List(ctx context.Context) ([]string, error)
}

// DocumentDeleter removes stored documents.
type DocumentDeleter interface {
	// Delete removes the document under key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
}

// ReadableStore is a store that can read back what it saved.
type ReadableStore interface {
	DocumentStore
	DocumentReader
}

// DocumentRepository is a store that supports the full document lifecycle.
type DocumentRepository interface {
	DocumentStore
	DocumentReader
	DocumentDeleter
}
