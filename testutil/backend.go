package testutil

import (
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
)

// Upload is a file received by the fake ingestion endpoint
type Upload struct {
	Field    string
	Filename string
	Data     []byte
}

// ChatFunc decides the status and body for a chat message
type ChatFunc func(message string) (status int, body string)

// FakeBackend is an httptest server speaking the chat and upload contracts
type FakeBackend struct {
	Server *httptest.Server
	t      *testing.T

	mu           sync.Mutex
	onChat       ChatFunc
	uploadStatus int
	gate         chan struct{}
	chats        []string
	rawQueries   []string
	uploads      []Upload
	requestIDs   []string
}

// NewFakeBackend starts a fake backend that answers every message with an
// empty reply and accepts every upload. It is closed when the test ends.
func NewFakeBackend(t *testing.T) *FakeBackend {
	t.Helper()
	f := &FakeBackend{
		t: t,
		onChat: func(string) (int, string) {
			return http.StatusOK, `{"message":"","docs":[]}`
		},
		uploadStatus: http.StatusOK,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/chat", f.handleChat)
	mux.HandleFunc("/upload/pdf", f.handleUpload)
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	f.Server = httptest.NewServer(mux)
	t.Cleanup(f.Server.Close)
	return f
}

// URL returns the base address of the fake backend
func (f *FakeBackend) URL() string {
	return f.Server.URL
}

// OnChat replaces the chat reply function
func (f *FakeBackend) OnChat(fn ChatFunc) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.onChat = fn
}

// ReplyWith answers every chat message with status and body
func (f *FakeBackend) ReplyWith(status int, body string) {
	f.OnChat(func(string) (int, string) { return status, body })
}

// SetUploadStatus sets the status returned by the ingestion endpoint
func (f *FakeBackend) SetUploadStatus(status int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.uploadStatus = status
}

// Hold makes chat and upload requests wait until the returned release is
// called. Held requests are released automatically when the test ends.
func (f *FakeBackend) Hold() (release func()) {
	gate := make(chan struct{})
	f.mu.Lock()
	f.gate = gate
	f.mu.Unlock()
	var once sync.Once
	release = func() {
		once.Do(func() {
			f.mu.Lock()
			f.gate = nil
			f.mu.Unlock()
			close(gate)
		})
	}
	f.t.Cleanup(release)
	return release
}

// Chats returns the received messages in arrival order
func (f *FakeBackend) Chats() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.chats...)
}

// RawQueries returns the raw query strings of chat requests
func (f *FakeBackend) RawQueries() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.rawQueries...)
}

// Uploads returns the received files
func (f *FakeBackend) Uploads() []Upload {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Upload(nil), f.uploads...)
}

// RequestIDs returns the X-Request-ID headers seen so far
func (f *FakeBackend) RequestIDs() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.requestIDs...)
}

func (f *FakeBackend) wait(r *http.Request) bool {
	f.mu.Lock()
	gate := f.gate
	f.mu.Unlock()
	if gate == nil {
		return true
	}
	select {
	case <-gate:
		return true
	case <-r.Context().Done():
		return false
	}
}

func (f *FakeBackend) handleChat(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	message := r.URL.Query().Get("message")

	f.mu.Lock()
	f.chats = append(f.chats, message)
	f.rawQueries = append(f.rawQueries, r.URL.RawQuery)
	f.requestIDs = append(f.requestIDs, r.Header.Get("X-Request-ID"))
	fn := f.onChat
	f.mu.Unlock()

	if !f.wait(r) {
		return
	}

	status, body := fn(message)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, body)
}

func (f *FakeBackend) handleUpload(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	var received []Upload
	for field, headers := range r.MultipartForm.File {
		for _, h := range headers {
			src, err := h.Open()
			if err != nil {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			data, err := io.ReadAll(src)
			_ = src.Close()
			if err != nil {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			received = append(received, Upload{Field: field, Filename: h.Filename, Data: data})
		}
	}

	f.mu.Lock()
	f.uploads = append(f.uploads, received...)
	f.requestIDs = append(f.requestIDs, r.Header.Get("X-Request-ID"))
	status := f.uploadStatus
	f.mu.Unlock()

	if !f.wait(r) {
		return
	}
	w.WriteHeader(status)
}
