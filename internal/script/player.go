package script

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aretw0/flowcanvas/internal/interaction"
	"github.com/aretw0/flowcanvas/internal/logging"
)

// Player replays compiled steps.
type Player struct {
	logger  *slog.Logger
	aliases map[string]string
}

// PlayerOption configures a Player.
type PlayerOption func(*Player)

// WithLogger sets the logger each step is traced to.
func WithLogger(l *slog.Logger) PlayerOption {
	return func(p *Player) {
		p.logger = l
	}
}

// NewPlayer creates a player with an empty alias table.
func NewPlayer(opts ...PlayerOption) *Player {
	p := &Player{
		logger:  logging.NewNop(),
		aliases: make(map[string]string),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Resolve returns the id bound to alias.
func (p *Player) Resolve(alias string) (string, bool) {
	id, ok := p.aliases[alias]
	return id, ok
}

// Play dispatches steps in order and stops at the first failure or when ctx is done.
func (p *Player) Play(ctx context.Context, d Dispatcher, steps []Step) ([]interaction.Result, error) {
	results := make([]interaction.Result, 0, len(steps))
	for i, step := range steps {
		if err := ctx.Err(); err != nil {
			return results, err
		}

		g := step.Gesture
		if step.Node != "" {
			id, ok := p.aliases[step.Node]
			if !ok {
				return results, fmt.Errorf("step %d: unknown node alias %q", i+1, step.Node)
			}
			g.NodeID = id
		}
		if step.Connection != "" {
			id, ok := p.aliases[step.Connection]
			if !ok {
				return results, fmt.Errorf("step %d: unknown connection alias %q", i+1, step.Connection)
			}
			g.ConnectionID = id
		}

		res, err := d.Dispatch(g)
		if err != nil {
			return results, fmt.Errorf("step %d (%s): %w", i+1, g.Kind, err)
		}
		p.logger.Debug("Step played", "step", i+1, "kind", g.Kind, "state", res.State)

		if step.As != "" {
			switch {
			case res.Node != nil:
				p.aliases[step.As] = res.Node.ID
			case res.Connection != nil:
				p.aliases[step.As] = res.Connection.ID
			default:
				return results, fmt.Errorf("step %d: %q produced nothing to bind to %q", i+1, g.Kind, step.As)
			}
		}
		results = append(results, res)
	}
	return results, nil
}
