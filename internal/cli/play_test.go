package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aretw0/flowcanvas/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const leadIntake = `
name: Lead intake
agent_id: agent-42
steps:
  - kind: palette_select
    node_type: trigger
    as: start
  - kind: canvas_double_click
    x: 650
    y: 300
  - kind: menu_select
    node_type: email
    as: notify
  - kind: connection_start
    node: start
  - kind: connection_complete
    node: notify
`

func writeScript(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "script.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestPlay_JSON(t *testing.T) {
	stack := buildStack(t, nil)
	var out bytes.Buffer

	err := Play(context.Background(), stack, PlayOptions{ScriptPath: writeScript(t, leadIntake)}, &out)
	require.NoError(t, err)

	doc, err := domain.ParseDocument(out.Bytes())
	require.NoError(t, err)
	assert.Equal(t, "Lead intake", doc.Name)
	require.NotNil(t, doc.AgentID)
	assert.Equal(t, "agent-42", *doc.AgentID)
	require.Len(t, doc.Nodes, 2)
	assert.Equal(t, 650.0, doc.Nodes[1].X)
	require.Len(t, doc.Connections, 1)
	assert.Equal(t, doc.Nodes[0].ID, doc.Connections[0].From)
	assert.Equal(t, doc.Nodes[1].ID, doc.Connections[0].To)

	keys, err := stack.Store.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, keys, "nothing is saved without --save")
}

func TestPlay_SaveAndMermaid(t *testing.T) {
	stack := buildStack(t, nil)
	var out bytes.Buffer

	err := Play(context.Background(), stack, PlayOptions{
		ScriptPath: writeScript(t, leadIntake),
		Save:       true,
		Format:     FormatMermaid,
	}, &out)
	require.NoError(t, err)

	lines := strings.SplitN(out.String(), "\n", 2)
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], ">>> Saved as workflow:"))
	assert.True(t, strings.HasPrefix(lines[1], "graph LR"))

	keys, err := stack.Store.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, keys, 1)
}

func TestPlay_Errors(t *testing.T) {
	stack := buildStack(t, nil)
	ctx := context.Background()

	err := Play(ctx, stack, PlayOptions{ScriptPath: filepath.Join(t.TempDir(), "missing.yaml")}, &bytes.Buffer{})
	assert.Error(t, err)

	bad := writeScript(t, "steps:\n  - kind: connection_complete\n    node: ghost\n")
	err = Play(ctx, stack, PlayOptions{ScriptPath: bad}, &bytes.Buffer{})
	assert.ErrorContains(t, err, "ghost")

	err = Play(ctx, stack, PlayOptions{ScriptPath: writeScript(t, leadIntake), Format: "svg"}, &bytes.Buffer{})
	assert.ErrorContains(t, err, "unknown format")
}
