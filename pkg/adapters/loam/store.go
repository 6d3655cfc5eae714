package loam

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/aretw0/flowcanvas/pkg/domain"
	"github.com/aretw0/loam"
)

// DefaultDirectory is the repository folder workflows are written to.
const DefaultDirectory = "workflows"

// Store adapts a Loam repository to ports.DocumentStore and ports.DocumentReader.
// Every workflow becomes a Markdown document whose front matter summarizes it, so the
// repository stays browsable and diffable.
type Store struct {
	Repo *loam.TypedRepository[DocumentMetadata]
	dir  string
}

// Option configures a Store.
type Option func(*Store)

// WithDirectory changes the repository folder documents are written to.
func WithDirectory(dir string) Option {
	return func(s *Store) {
		s.dir = dir
	}
}

// New creates a Loam backed store.
func New(repo *loam.TypedRepository[DocumentMetadata], opts ...Option) *Store {
	s := &Store{Repo: repo, dir: DefaultDirectory}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Open initializes a Loam repository at repoPath and returns a store on top of it.
func Open(repoPath string, opts ...Option) (*Store, error) {
	absPath, err := filepath.Abs(repoPath)
	if err != nil {
		return nil, fmt.Errorf("invalid path: %w", err)
	}

	repo, err := loam.Init(absPath,
		loam.WithVersioning(false),
		loam.WithForceTemp(false),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize loam: %w", err)
	}
	return New(loam.NewTypedRepository[DocumentMetadata](repo), opts...), nil
}

// docID maps a store key onto a file name safe on every platform.
// The mapping is reversible with url.QueryUnescape; dots are escaped so loam never
// mistakes part of a key for a file extension.
func (s *Store) docID(key string) string {
	return path.Join(s.dir, strings.ReplaceAll(url.QueryEscape(key), ".", "%2E"))
}

// Save writes document under key, summarizing it in the front matter.
func (s *Store) Save(ctx context.Context, key, document string) error {
	meta := DocumentMetadata{Key: key}
	if doc, err := domain.ParseDocument([]byte(document)); err == nil {
		meta.Name = doc.Name
		if doc.AgentID != nil {
			meta.AgentID = *doc.AgentID
		}
		meta.Nodes = strconv.Itoa(len(doc.Nodes))
		meta.Connections = strconv.Itoa(len(doc.Connections))
	}

	err := s.Repo.Save(ctx, &loam.DocumentModel[DocumentMetadata]{
		ID:      s.docID(key),
		Content: document,
		Data:    meta,
	})
	if err != nil {
		return fmt.Errorf("loam save failed for %s: %w", key, err)
	}
	return nil
}

// Load returns the workflow JSON stored under key.
func (s *Store) Load(ctx context.Context, key string) (string, error) {
	doc, err := s.Repo.Get(ctx, s.docID(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) || !s.exists(ctx, key) {
			return "", domain.ErrDocumentNotFound
		}
		return "", fmt.Errorf("loam get failed for %s: %w", key, err)
	}
	return strings.TrimSpace(doc.Content), nil
}

// List returns the keys of all workflows in the repository.
func (s *Store) List(ctx context.Context) ([]string, error) {
	docs, err := s.Repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("loam list failed: %w", err)
	}

	keys := []string{}
	for _, doc := range docs {
		if doc.Data.Key == "" {
			continue
		}
		keys = append(keys, doc.Data.Key)
	}
	sort.Strings(keys)
	return keys, nil
}

func (s *Store) exists(ctx context.Context, key string) bool {
	keys, err := s.List(ctx)
	if err != nil {
		return true
	}
	for _, k := range keys {
		if k == key {
			return true
		}
	}
	return false
}
