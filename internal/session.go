package internal

// Transcript is a read-only snapshot of a conversation, used for export
type Transcript struct {
	ID       string    `json:"id" yaml:"id"`
	Backend  string    `json:"backend,omitempty" yaml:"backend,omitempty"`
	Document string    `json:"document,omitempty" yaml:"document,omitempty"`
	Messages []Message `json:"messages" yaml:"messages"`
	Metadata Metadata  `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

// Metadata contains additional transcript information
type Metadata struct {
	CreatedAt     string `json:"created_at,omitempty" yaml:"created_at,omitempty"`
	MessageCount  int    `json:"message_count" yaml:"message_count"`
	CitationCount int    `json:"citation_count" yaml:"citation_count"`
}
