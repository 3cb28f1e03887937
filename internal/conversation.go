package internal

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/renameio/v2"
	"github.com/google/uuid"
)

// Conversation owns the message log and runs one query at a time against
// the backend. Overlapping submissions are serialized in submission order:
// each user message is appended immediately, but its request is only issued
// once the previous query has settled, so replies append in the same order.
type Conversation struct {
	mu          sync.Mutex
	backend     Querier
	notifier    Notifier
	downloadDir string
	timeout     time.Duration

	id        string
	createdAt time.Time
	messages  []Message
	draft     string
	pending   int
	tail      chan struct{} // closed once the latest submitted query settles
}

// ConversationOption configures a Conversation
type ConversationOption func(*Conversation)

// WithNotifier sets where failure and success notifications go
func WithNotifier(n Notifier) ConversationOption {
	return func(c *Conversation) { c.notifier = n }
}

// WithDownloadDir sets the directory citation files are written to
func WithDownloadDir(dir string) ConversationOption {
	return func(c *Conversation) { c.downloadDir = dir }
}

// WithRequestTimeout bounds each backend call; 0 means no timeout
func WithRequestTimeout(d time.Duration) ConversationOption {
	return func(c *Conversation) { c.timeout = d }
}

// NewConversation creates an empty conversation
func NewConversation(backend Querier, opts ...ConversationOption) *Conversation {
	c := &Conversation{
		backend:     backend,
		notifier:    DiscardNotifier{},
		downloadDir: ".",
		id:          uuid.NewString(),
		createdAt:   time.Now(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Query is the handle for one submitted message
type Query struct {
	Text string

	done  chan struct{}
	reply *Message
	err   error
}

// Done is closed once the query has settled
func (q *Query) Done() <-chan struct{} {
	return q.done
}

// Wait blocks until the query settles or ctx ends. It returns the appended
// assistant message on success.
func (q *Query) Wait(ctx context.Context) (*Message, error) {
	select {
	case <-q.done:
		return q.reply, q.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Submit appends text as a user message and dispatches it asynchronously.
// Text that is blank after trimming is ignored and Submit returns nil. The
// request carries text exactly as given, not the trimmed copy.
func (c *Conversation) Submit(ctx context.Context, text string) *Query {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	q := &Query{Text: text, done: make(chan struct{})}

	c.mu.Lock()
	c.messages = append(c.messages, Message{Role: RoleUser, Content: text})
	c.pending++
	prev := c.tail
	c.tail = q.done
	c.mu.Unlock()

	go c.dispatch(ctx, q, prev)
	return q
}

func (c *Conversation) dispatch(ctx context.Context, q *Query, prev <-chan struct{}) {
	defer close(q.done)

	if prev != nil {
		select {
		case <-prev:
		case <-ctx.Done():
			// keep the chain intact for later submissions
			<-prev
			c.settle(q, nil, ctx.Err())
			return
		}
	}

	reqCtx := ctx
	if c.timeout > 0 {
		var cancel context.CancelFunc
		reqCtx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	resp, err := c.backend.Chat(reqCtx, q.Text)
	c.settle(q, resp, err)
}

func (c *Conversation) settle(q *Query, resp *ChatResponse, err error) {
	if err == nil && resp == nil {
		err = &DecodeError{Endpoint: "chat", Err: errEmptyResponse}
	}

	c.mu.Lock()
	if err == nil {
		msg := resp.AssistantMessage()
		c.messages = append(c.messages, msg)
		q.reply = &msg
	}
	q.err = err
	c.pending--
	c.mu.Unlock()

	if err != nil {
		LogError("Chat request failed: %v", err)
		c.notifier.Error("Failed to get response")
	}
}

// SetDraft replaces the input buffer
func (c *Conversation) SetDraft(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.draft = text
}

// Draft returns the input buffer
func (c *Conversation) Draft() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.draft
}

// SubmitDraft captures the input buffer, clears it and submits the captured
// text. A blank buffer is left untouched and nothing is submitted.
func (c *Conversation) SubmitDraft(ctx context.Context) *Query {
	c.mu.Lock()
	text := c.draft
	if strings.TrimSpace(text) == "" {
		c.mu.Unlock()
		return nil
	}
	c.draft = ""
	c.mu.Unlock()
	return c.Submit(ctx, text)
}

// Busy reports whether any query is awaiting its reply
func (c *Conversation) Busy() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pending > 0
}

// Messages returns a copy of the log in order
func (c *Conversation) Messages() []Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Message(nil), c.messages...)
}

// Len returns the number of messages in the log
func (c *Conversation) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.messages)
}

// LastReply returns the most recent assistant message
func (c *Conversation) LastReply() (Message, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := len(c.messages) - 1; i >= 0; i-- {
		if c.messages[i].Role == RoleAssistant {
			return c.messages[i], true
		}
	}
	return Message{}, false
}

// DownloadCitation writes the citation text to document[-page-N].txt in the
// download directory and returns the path. It never touches the message log.
func (c *Conversation) DownloadCitation(cit Citation) (string, error) {
	if !cit.Downloadable() {
		c.notifier.Error("No content available to download")
		return "", ErrNoCitationContent
	}

	path := filepath.Join(c.downloadDir, cit.Filename())
	if err := writeCitation(path, *cit.Text); err != nil {
		LogError("Download error: %v", err)
		c.notifier.Error("Failed to download document")
		return "", &DownloadError{Path: path, Err: err}
	}

	LogDebug("Saved citation to %s", path)
	c.notifier.Success("Document downloaded")
	return path, nil
}

func writeCitation(path, text string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return renameio.WriteFile(path, []byte(text), 0644)
}

// Transcript snapshots the conversation for export
func (c *Conversation) Transcript(backend, document string) *Transcript {
	c.mu.Lock()
	defer c.mu.Unlock()

	citations := 0
	for _, m := range c.messages {
		citations += len(m.Citations)
	}
	return &Transcript{
		ID:       c.id,
		Backend:  backend,
		Document: document,
		Messages: append([]Message(nil), c.messages...),
		Metadata: Metadata{
			CreatedAt:     c.createdAt.Format(time.RFC3339),
			MessageCount:  len(c.messages),
			CitationCount: citations,
		},
	}
}
