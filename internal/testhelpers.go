package internal

import (
	"context"
	"sync"
)

// CreateTestCitation creates a citation with the given optional fields; empty
// text or source and a zero page are left absent
func CreateTestCitation(text, source string, page int) Citation {
	var c Citation
	if text != "" {
		c.Text = &text
	}
	if source != "" {
		c.SourceLabel = &source
	}
	if page != 0 {
		c.PageNumber = &page
	}
	return c
}

// CreateTestTranscript creates a transcript with one question and one cited answer
func CreateTestTranscript(id string) *Transcript {
	return CreateTestTranscriptWithMessages(id, []Message{
		{Role: RoleUser, Content: "What is the warranty period?"},
		{
			Role:    RoleAssistant,
			Content: "The warranty lasts **two years**.",
			Citations: []Citation{
				CreateTestCitation("Warranty: 24 months from purchase.", "manual.pdf", 3),
				CreateTestCitation("", "", 0),
			},
		},
	})
}

// CreateTestTranscriptWithMessages creates a transcript with custom messages
func CreateTestTranscriptWithMessages(id string, messages []Message) *Transcript {
	citations := 0
	for _, m := range messages {
		citations += len(m.Citations)
	}
	return &Transcript{
		ID:       id,
		Backend:  "http://localhost:8000",
		Document: "manual.pdf",
		Messages: messages,
		Metadata: Metadata{
			CreatedAt:     "2024-01-01T00:00:00Z",
			MessageCount:  len(messages),
			CitationCount: citations,
		},
	}
}

// StubQuerier answers chat messages from a function and records what it was asked
type StubQuerier struct {
	mu    sync.Mutex
	Fn    func(ctx context.Context, message string) (*ChatResponse, error)
	asked []string
}

// Chat implements Querier
func (s *StubQuerier) Chat(ctx context.Context, message string) (*ChatResponse, error) {
	s.mu.Lock()
	s.asked = append(s.asked, message)
	fn := s.Fn
	s.mu.Unlock()
	if fn == nil {
		return &ChatResponse{}, nil
	}
	return fn(ctx, message)
}

// Asked returns the messages received so far
func (s *StubQuerier) Asked() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.asked...)
}

// StubIngester accepts or rejects uploads from a function
type StubIngester struct {
	mu    sync.Mutex
	Fn    func(ctx context.Context, file *FileHandle) error
	names []string
}

// UploadPDF implements Ingester
func (s *StubIngester) UploadPDF(ctx context.Context, file *FileHandle) error {
	s.mu.Lock()
	s.names = append(s.names, file.Name)
	fn := s.Fn
	s.mu.Unlock()
	if fn == nil {
		return nil
	}
	return fn(ctx, file)
}

// Uploaded returns the names of files passed to UploadPDF
func (s *StubIngester) Uploaded() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.names...)
}
