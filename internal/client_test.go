package internal

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/iksnae/docchat/testutil"
)

func newTestClient(t *testing.T, backend *testutil.FakeBackend) *Client {
	t.Helper()
	cfg := DefaultConfig()
	cfg.Backend.URL = backend.URL()
	return NewClient(cfg)
}

func TestClient_Chat(t *testing.T) {
	backend := testutil.NewFakeBackend(t)
	backend.ReplyWith(http.StatusOK, testutil.ChatReply(t, "The answer",
		testutil.Passage{Content: "passage", Source: "doc.pdf", Page: 2}))
	client := newTestClient(t, backend)

	resp, err := client.Chat(context.Background(), "  what & why?  ")
	if err != nil {
		t.Fatalf("Chat() error = %v", err)
	}
	if resp.Message == nil || *resp.Message != "The answer" {
		t.Errorf("Message = %v, want The answer", resp.Message)
	}
	if len(resp.Docs) != 1 {
		t.Fatalf("len(Docs) = %d, want 1", len(resp.Docs))
	}

	chats := backend.Chats()
	if len(chats) != 1 || chats[0] != "  what & why?  " {
		t.Errorf("backend received %q, want the literal message", chats)
	}
	if raw := backend.RawQueries(); len(raw) != 1 || !strings.HasPrefix(raw[0], "message=") {
		t.Errorf("raw query = %q, want the message parameter", raw)
	}
	if ids := backend.RequestIDs(); len(ids) != 1 || ids[0] == "" {
		t.Errorf("expected a request ID header, got %v", ids)
	}
}

func TestClient_ChatFailures(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       string
		wantStatus int
		wantDecode bool
	}{
		{name: "server error", status: http.StatusInternalServerError, body: "boom", wantStatus: 500},
		{name: "not found", status: http.StatusNotFound, body: "", wantStatus: 404},
		{name: "malformed payload", status: http.StatusOK, body: "not json", wantDecode: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			backend := testutil.NewFakeBackend(t)
			backend.ReplyWith(tt.status, tt.body)
			client := newTestClient(t, backend)

			_, err := client.Chat(context.Background(), "hi")
			if err == nil {
				t.Fatal("Chat() should fail")
			}
			var reqErr *RequestError
			var decErr *DecodeError
			if tt.wantDecode {
				if !errors.As(err, &decErr) {
					t.Errorf("error = %v, want DecodeError", err)
				}
				return
			}
			if !errors.As(err, &reqErr) || reqErr.Status != tt.wantStatus {
				t.Errorf("error = %v, want RequestError with status %d", err, tt.wantStatus)
			}
		})
	}
}

func TestClient_ChatTransportError(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Backend.URL = "http://127.0.0.1:1"
	client := NewClient(cfg)

	_, err := client.Chat(context.Background(), "hi")
	var reqErr *RequestError
	if !errors.As(err, &reqErr) || reqErr.Status != 0 {
		t.Errorf("error = %v, want RequestError without status", err)
	}
}

func TestClient_UploadPDF(t *testing.T) {
	backend := testutil.NewFakeBackend(t)
	client := newTestClient(t, backend)
	data := testutil.MinimalPDF(1)

	if err := client.UploadPDF(context.Background(), FileHandleFromBytes("paper.pdf", data)); err != nil {
		t.Fatalf("UploadPDF() error = %v", err)
	}

	uploads := backend.Uploads()
	if len(uploads) != 1 {
		t.Fatalf("backend received %d uploads, want 1", len(uploads))
	}
	if uploads[0].Field != "pdf" {
		t.Errorf("field = %q, want pdf", uploads[0].Field)
	}
	if uploads[0].Filename != "paper.pdf" {
		t.Errorf("filename = %q, want paper.pdf", uploads[0].Filename)
	}
	if !bytes.Equal(uploads[0].Data, data) {
		t.Error("uploaded bytes differ from the file")
	}
}

func TestClient_UploadPDFRejected(t *testing.T) {
	backend := testutil.NewFakeBackend(t)
	backend.SetUploadStatus(http.StatusUnprocessableEntity)
	client := newTestClient(t, backend)

	err := client.UploadPDF(context.Background(), FileHandleFromBytes("paper.pdf", []byte("%PDF-1.4")))
	var reqErr *RequestError
	if !errors.As(err, &reqErr) || reqErr.Status != http.StatusUnprocessableEntity {
		t.Errorf("error = %v, want RequestError with status 422", err)
	}
}

func TestClient_UploadPDFUnreadableFile(t *testing.T) {
	backend := testutil.NewFakeBackend(t)
	client := newTestClient(t, backend)

	err := client.UploadPDF(context.Background(), &FileHandle{Name: "ghost.pdf"})
	var upErr *UploadError
	if !errors.As(err, &upErr) {
		t.Errorf("error = %v, want UploadError", err)
	}
	if len(backend.Uploads()) != 0 {
		t.Error("nothing should reach the backend")
	}
}

func TestClient_Ping(t *testing.T) {
	backend := testutil.NewFakeBackend(t)
	client := newTestClient(t, backend)

	status, err := client.Ping(context.Background())
	if err != nil {
		t.Fatalf("Ping() error = %v", err)
	}
	if status != http.StatusNotFound {
		t.Errorf("Ping() status = %d, want 404 from the fake root", status)
	}
	if !strings.HasPrefix(backend.URL(), "http://") {
		t.Errorf("unexpected backend URL %q", backend.URL())
	}
}
