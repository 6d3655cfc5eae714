/*
Package flowcanvas is the model and interaction core of a node-graph workflow editor.

A workflow is a directed graph of typed automation steps (triggers, agent calls, HTTP
requests, code, conditions, delays, emails). Users build it through pointer gestures on a
pan/zoom canvas: dragging nodes, drawing connections from an output port to an input port,
opening a creation menu, selecting and deleting. The Editor ties together the pieces:

  - pkg/domain: node types, the persisted document and sentinel errors.
  - pkg/graph: the graph model with its invariants (no self-loops, cascading deletes).
  - pkg/viewport: the mapping between screen and canonical coordinates.
  - internal/interaction: the gesture state machine.
  - pkg/ports: the storage port saved documents go through.

# Usage

	store := memory.NewStore()
	ed := flowcanvas.New(flowcanvas.WithStore(store))

	trigger, _ := ed.Controller().PaletteSelect(domain.NodeTypeTrigger)
	ed.Controller().CanvasDoubleClick(domain.Point{X: 650, Y: 300})
	email, _ := ed.Controller().SelectMenuEntry(domain.NodeTypeEmail)

	ed.Controller().StartConnection(trigger.ID)
	ed.Controller().CompleteConnection(email.ID)

	key, err := ed.Save(ctx)

The editor and everything it owns are single-threaded. Save is the only blocking call;
SaveAsync takes the snapshot immediately and writes it in the background.
*/
package flowcanvas
