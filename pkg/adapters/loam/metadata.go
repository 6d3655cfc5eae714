package loam

// DocumentMetadata is the front matter written next to each saved workflow.
// The workflow JSON itself is the document body. Loam writes front matter scalars as
// strings, so the counts are kept as strings too.
type DocumentMetadata struct {
	Key         string `json:"key" mapstructure:"key"`
	Name        string `json:"name" mapstructure:"name"`
	AgentID     string `json:"agent_id,omitempty" mapstructure:"agent_id"`
	Nodes       string `json:"nodes" mapstructure:"nodes"`
	Connections string `json:"connections" mapstructure:"connections"`
}
