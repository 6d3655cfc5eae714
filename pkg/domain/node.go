package domain

// Point is a 2D coordinate. Node positions live in canonical (model) space;
// pointer and rendering coordinates live in screen space.
type Point struct {
	X float64 `json:"x" yaml:"x" mapstructure:"x"`
	Y float64 `json:"y" yaml:"y" mapstructure:"y"`
}

// Add returns the component-wise sum of p and q.
func (p Point) Add(q Point) Point {
	return Point{X: p.X + q.X, Y: p.Y + q.Y}
}

// Node represents one workflow step on the canvas.
type Node struct {
	ID       string         `json:"id"`
	Type     NodeType       `json:"type"`
	Label    string         `json:"label"`
	Position Point          `json:"position"`
	Config   map[string]any `json:"config"`

	// Color and Icon are copied from the catalog at creation time.
	// They are presentation hints and are not part of the persisted document.
	Color string `json:"-"`
	Icon  string `json:"-"`
}

// Clone returns a copy of the node that shares no mutable state with n.
func (n Node) Clone() Node {
	c := n
	c.Config = make(map[string]any, len(n.Config))
	for k, v := range n.Config {
		c.Config[k] = v
	}
	return c
}

// Connection is a directed edge between two nodes.
type Connection struct {
	ID   string `json:"id"`
	From string `json:"from"`
	To   string `json:"to"`
}

// Touches reports whether the connection starts or ends at nodeID.
func (c Connection) Touches(nodeID string) bool {
	return c.From == nodeID || c.To == nodeID
}
