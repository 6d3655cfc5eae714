package middleware

import (
	"context"
	"fmt"
	"regexp"

	"github.com/aretw0/flowcanvas/pkg/domain"
	"github.com/aretw0/flowcanvas/pkg/ports"
)

// Mask replaces redacted config values.
const Mask = "***"

type redactMiddleware struct {
	next     ports.ReadableStore
	patterns []*regexp.Regexp
}

// NewRedactMiddleware creates a middleware that masks node config values whose keys match
// any of the patterns, at any depth. Only the persisted copy is masked.
func NewRedactMiddleware(patternStrings []string) Middleware {
	patterns := make([]*regexp.Regexp, len(patternStrings))
	for i, p := range patternStrings {
		patterns[i] = regexp.MustCompile(p)
	}
	return func(next ports.ReadableStore) ports.ReadableStore {
		return &redactMiddleware{next: next, patterns: patterns}
	}
}

func (m *redactMiddleware) Save(ctx context.Context, key, document string) error {
	doc, err := domain.ParseDocument([]byte(document))
	if err != nil {
		return fmt.Errorf("failed to redact document: %w", err)
	}

	nodes := make([]domain.DocumentNode, len(doc.Nodes))
	for i, n := range doc.Nodes {
		n.Config = deepCopyMap(n.Config)
		maskMap(n.Config, m.patterns)
		nodes[i] = n
	}
	doc.Nodes = nodes

	data, err := doc.Marshal()
	if err != nil {
		return fmt.Errorf("failed to marshal redacted document: %w", err)
	}
	return m.next.Save(ctx, key, string(data))
}

func (m *redactMiddleware) Load(ctx context.Context, key string) (string, error) {
	return m.next.Load(ctx, key)
}

func (m *redactMiddleware) Delete(ctx context.Context, key string) error {
	return deleteFrom(ctx, m.next, key)
}

func (m *redactMiddleware) List(ctx context.Context) ([]string, error) {
	return m.next.List(ctx)
}

func deepCopyMap(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = deepCopyValue(v)
	}
	return out
}

func deepCopyValue(v any) any {
	switch val := v.(type) {
	case map[string]any:
		return deepCopyMap(val)
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = deepCopyValue(item)
		}
		return out
	default:
		return v
	}
}

func maskMap(m map[string]any, patterns []*regexp.Regexp) {
	for k, v := range m {
		masked := false
		for _, p := range patterns {
			if p.MatchString(k) {
				m[k] = Mask
				masked = true
				break
			}
		}
		if !masked {
			maskValue(v, patterns)
		}
	}
}

// maskValue descends into maps and lists; lists of header objects are common in http configs.
func maskValue(v any, patterns []*regexp.Regexp) {
	switch val := v.(type) {
	case map[string]any:
		maskMap(val, patterns)
	case []any:
		for _, item := range val {
			maskValue(item, patterns)
		}
	}
}
