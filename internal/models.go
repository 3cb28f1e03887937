package internal

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/samber/lo"
)

// Role identifies who authored a message
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one turn in the conversation log
type Message struct {
	Role      Role       `json:"role" yaml:"role"`
	Content   string     `json:"content" yaml:"content"`
	Citations []Citation `json:"citations,omitempty" yaml:"citations,omitempty"`
}

// HasCitations reports whether the message carries any supporting passages
func (m Message) HasCitations() bool {
	return len(m.Citations) > 0
}

// Citation is a supporting passage returned with an answer.
// Every field is optional; nil means the backend did not supply it.
type Citation struct {
	Text        *string `json:"text,omitempty" yaml:"text,omitempty"`
	SourceLabel *string `json:"source,omitempty" yaml:"source,omitempty"`
	PageNumber  *int    `json:"page,omitempty" yaml:"page,omitempty"`
}

// Downloadable reports whether the citation has passage text to export.
// Empty text counts as missing.
func (c Citation) Downloadable() bool {
	return c.Text != nil && *c.Text != ""
}

// Label returns the human-readable origin, e.g. "paper.pdf (Page 3)"
func (c Citation) Label() string {
	label := "Document"
	if c.SourceLabel != nil && *c.SourceLabel != "" {
		label = *c.SourceLabel
	}
	if c.PageNumber != nil {
		label += fmt.Sprintf(" (Page %d)", *c.PageNumber)
	}
	return label
}

// Filename returns the export filename: document.txt or document-page-N.txt
func (c Citation) Filename() string {
	if c.PageNumber != nil {
		return fmt.Sprintf("document-page-%d.txt", *c.PageNumber)
	}
	return "document.txt"
}

// ChatResponse is the payload returned by the chat endpoint
type ChatResponse struct {
	Message *string `json:"message,omitempty"`
	Docs    []Doc   `json:"docs,omitempty"`
}

// Doc is a retrieved passage as returned by the backend
type Doc struct {
	PageContent *string      `json:"pageContent,omitempty"`
	Metadata    *DocMetadata `json:"metadata,omitempty"`
}

// DocMetadata describes where a passage came from
type DocMetadata struct {
	Source *string   `json:"source,omitempty"`
	Loc    *Location `json:"loc,omitempty"`
}

// Location points at a page within the source document
type Location struct {
	PageNumber *float64 `json:"pageNumber,omitempty"`
}

// UnmarshalJSON accepts the legacy "metdata" key when "metadata" is missing
func (d *Doc) UnmarshalJSON(data []byte) error {
	var raw struct {
		PageContent *string      `json:"pageContent"`
		Metadata    *DocMetadata `json:"metadata"`
		Metdata     *DocMetadata `json:"metdata"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	d.PageContent = raw.PageContent
	d.Metadata = raw.Metadata
	if d.Metadata == nil {
		d.Metadata = raw.Metdata
	}
	return nil
}

// ParseChatResponse decodes a chat endpoint body. Missing fields are left nil;
// only a body that is not a JSON object is an error.
func ParseChatResponse(data []byte) (*ChatResponse, error) {
	var resp ChatResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse chat response JSON: %w", err)
	}
	return &resp, nil
}

// Citation maps a backend passage into a Citation without defaulting absent fields
func (d Doc) Citation() Citation {
	c := Citation{Text: d.PageContent}
	if d.Metadata == nil {
		return c
	}
	c.SourceLabel = d.Metadata.Source
	if d.Metadata.Loc != nil {
		c.PageNumber = pageNumber(d.Metadata.Loc.PageNumber)
	}
	return c
}

// pageNumber keeps only positive integral page numbers
func pageNumber(v *float64) *int {
	if v == nil || *v < 1 || *v != math.Trunc(*v) || *v > math.MaxInt32 {
		return nil
	}
	n := int(*v)
	return &n
}

// CitationsFromDocs maps passages in backend order; nil when there are none
func CitationsFromDocs(docs []Doc) []Citation {
	if len(docs) == 0 {
		return nil
	}
	return lo.Map(docs, func(d Doc, _ int) Citation {
		return d.Citation()
	})
}

// AssistantMessage builds the assistant turn for a chat response
func (r *ChatResponse) AssistantMessage() Message {
	return Message{
		Role:      RoleAssistant,
		Content:   lo.FromPtr(r.Message),
		Citations: CitationsFromDocs(r.Docs),
	}
}
