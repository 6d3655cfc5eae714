package domain

const (
	// NodeIDPrefix prefixes every generated node id.
	NodeIDPrefix = "node_"
	// ConnectionIDPrefix prefixes every generated connection id.
	ConnectionIDPrefix = "conn_"
	// DocumentKeyPrefix prefixes the store key of every saved workflow.
	DocumentKeyPrefix = "workflow:"
)
