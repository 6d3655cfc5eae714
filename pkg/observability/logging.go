package observability

import (
	"log/slog"

	"github.com/aretw0/flowcanvas/pkg/domain"
)

// LogListener writes every graph event to logger at debug level.
func LogListener(logger *slog.Logger) domain.Listener {
	return func(e domain.GraphEvent) {
		attrs := []any{"type", e.Type}
		if e.NodeID != "" {
			attrs = append(attrs, "node_id", e.NodeID)
		}
		if e.NodeType != "" {
			attrs = append(attrs, "node_type", e.NodeType)
		}
		if e.ConnectionID != "" {
			attrs = append(attrs, "connection_id", e.ConnectionID)
		}
		logger.Debug("graph_event", attrs...)
	}
}

// Fanout combines listeners into one, called in order.
func Fanout(listeners ...domain.Listener) domain.Listener {
	return func(e domain.GraphEvent) {
		for _, l := range listeners {
			if l != nil {
				l(e)
			}
		}
	}
}
