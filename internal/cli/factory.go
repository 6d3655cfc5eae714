package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/aretw0/flowcanvas"
	"github.com/aretw0/flowcanvas/internal/config"
	"github.com/aretw0/flowcanvas/pkg/adapters/file"
	"github.com/aretw0/flowcanvas/pkg/adapters/loam"
	"github.com/aretw0/flowcanvas/pkg/adapters/memory"
	"github.com/aretw0/flowcanvas/pkg/adapters/redis"
	"github.com/aretw0/flowcanvas/pkg/domain"
	"github.com/aretw0/flowcanvas/pkg/observability"
	"github.com/aretw0/flowcanvas/pkg/persistence/middleware"
	"github.com/aretw0/flowcanvas/pkg/ports"
)

// Stack is the persistence and observability wiring every command shares.
type Stack struct {
	Config config.Config
	Logger *slog.Logger

	// Store is the configured backend behind the middleware chain.
	Store ports.ReadableStore
	// Metrics is nil unless enabled in the config.
	Metrics *observability.Metrics
	// Locker is only set for the redis backend.
	Locker ports.DistributedLocker

	closers []func() error
}

// Build creates the stack described by cfg.
func Build(cfg config.Config, logger *slog.Logger) (*Stack, error) {
	s := &Stack{Config: cfg, Logger: logger}

	backend, err := s.openBackend()
	if err != nil {
		return nil, err
	}

	var mws []middleware.Middleware
	if len(cfg.Redact) > 0 {
		mws = append(mws, middleware.NewRedactMiddleware(cfg.Redact))
	}
	active, fallback, err := cfg.EncryptionKeys()
	if err != nil {
		return nil, err
	}
	if active != nil {
		mws = append(mws, middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{
			ActiveKey:    active,
			FallbackKeys: fallback,
		}))
	}
	s.Store = middleware.Chain(backend, mws...)

	if cfg.Metrics {
		s.Metrics = observability.NewMetrics()
	}

	logger.Debug("Stack ready",
		"store", cfg.Store.Type,
		"redact", len(cfg.Redact),
		"encrypted", active != nil,
		"metrics", cfg.Metrics,
	)
	return s, nil
}

func (s *Stack) openBackend() (ports.ReadableStore, error) {
	sc := s.Config.Store
	switch sc.Type {
	case config.StoreMemory:
		return memory.NewStore(), nil
	case config.StoreFile:
		return file.New(sc.Path), nil
	case config.StoreLoam:
		path := sc.Path
		if path == "" {
			path = "."
		}
		store, err := loam.Open(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open loam store: %w", err)
		}
		return store, nil
	case config.StoreRedis:
		ttl, err := sc.Redis.Expiration()
		if err != nil {
			return nil, err
		}
		prefix := sc.Redis.Prefix
		if prefix == "" {
			prefix = redis.DefaultPrefix
		}
		store := redis.New(sc.Redis.Addr, sc.Redis.Password, sc.Redis.DB,
			redis.WithTTL(ttl),
			redis.WithPrefix(prefix),
		)
		s.Locker = redis.NewLocker(store.Client(), prefix)
		s.closers = append(s.closers, store.Close)
		return store, nil
	default:
		return nil, fmt.Errorf("unknown store type %q", sc.Type)
	}
}

// EditorOptions returns the options wiring an editor to this stack.
func (s *Stack) EditorOptions() []flowcanvas.Option {
	var store ports.DocumentStore = s.Store
	listeners := []domain.Listener{observability.LogListener(s.Logger)}
	if s.Metrics != nil {
		store = s.Metrics.InstrumentStore(store)
		listeners = append(listeners, s.Metrics.Listener())
	}

	opts := []flowcanvas.Option{
		flowcanvas.WithStore(store),
		flowcanvas.WithLogger(s.Logger),
		flowcanvas.WithListener(observability.Fanout(listeners...)),
	}
	if s.Locker != nil {
		opts = append(opts, flowcanvas.WithLocker(s.Locker))
	}
	if s.Config.Name != "" {
		opts = append(opts, flowcanvas.WithName(s.Config.Name))
	}
	if s.Config.AgentID != "" {
		opts = append(opts, flowcanvas.WithAgentID(s.Config.AgentID))
	}
	return opts
}

// NewEditor creates an empty editor on this stack.
func (s *Stack) NewEditor(extra ...flowcanvas.Option) *flowcanvas.Editor {
	return flowcanvas.New(append(s.EditorOptions(), extra...)...)
}

// OpenEditor loads the document stored under key into a new editor.
func (s *Stack) OpenEditor(ctx context.Context, key string, extra ...flowcanvas.Option) (*flowcanvas.Editor, error) {
	doc, err := s.LoadDocument(ctx, key)
	if err != nil {
		return nil, err
	}
	return flowcanvas.Open(doc, append(s.EditorOptions(), extra...)...)
}

// LoadDocument reads and decodes the document stored under key.
func (s *Stack) LoadDocument(ctx context.Context, key string) (domain.Document, error) {
	raw, err := s.Store.Load(ctx, key)
	if err != nil {
		return domain.Document{}, fmt.Errorf("failed to load %s: %w", key, err)
	}
	return domain.ParseDocument([]byte(raw))
}

// Close releases backend connections.
func (s *Stack) Close() error {
	var errs []error
	for _, c := range s.closers {
		if err := c(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
