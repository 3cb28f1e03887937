package internal

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"

	"github.com/google/uuid"
)

const (
	requestIDHeader = "X-Request-ID"
	maxErrorBody    = 512
)

// Querier answers a message against the indexed document
type Querier interface {
	Chat(ctx context.Context, message string) (*ChatResponse, error)
}

// Ingester accepts a document for indexing
type Ingester interface {
	UploadPDF(ctx context.Context, file *FileHandle) error
}

// Client talks to the retrieval backend over HTTP
type Client struct {
	chatURL     string
	uploadURL   string
	uploadField string
	httpClient  *http.Client
}

// NewClient creates a backend client from cfg. Timeouts are applied per call
// through the context, so the http.Client itself has none.
func NewClient(cfg *Config) *Client {
	return &Client{
		chatURL:     cfg.ChatURL(),
		uploadURL:   cfg.UploadURL(),
		uploadField: cfg.Backend.UploadField,
		httpClient:  &http.Client{},
	}
}

// Chat sends the literal message as the "message" query parameter
func (c *Client) Chat(ctx context.Context, message string) (*ChatResponse, error) {
	u, err := url.Parse(c.chatURL)
	if err != nil {
		return nil, &RequestError{Endpoint: c.chatURL, Err: err}
	}
	q := u.Query()
	q.Set("message", message)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, &RequestError{Endpoint: c.chatURL, Err: err}
	}
	req.Header.Set("Accept", "application/json")

	body, err := c.do(req, c.chatURL)
	if err != nil {
		return nil, err
	}

	resp, err := ParseChatResponse(body)
	if err != nil {
		return nil, &DecodeError{Endpoint: c.chatURL, Err: err}
	}
	LogDebug("Chat reply: %d passage(s)", len(resp.Docs))
	return resp, nil
}

// UploadPDF posts the file as a single multipart part under the configured field name
func (c *Client) UploadPDF(ctx context.Context, file *FileHandle) error {
	src, err := file.Open()
	if err != nil {
		return &UploadError{File: file.Name, Err: err}
	}

	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)
	go func() {
		defer func() { _ = src.Close() }()
		part, err := mw.CreateFormFile(c.uploadField, file.Name)
		if err != nil {
			_ = pw.CloseWithError(err)
			return
		}
		if _, err := io.Copy(part, src); err != nil {
			_ = pw.CloseWithError(err)
			return
		}
		_ = pw.CloseWithError(mw.Close())
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.uploadURL, pr)
	if err != nil {
		_ = pr.Close()
		return &RequestError{Endpoint: c.uploadURL, Err: err}
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	_, err = c.do(req, c.uploadURL)
	// unblock the writer goroutine if the request ended early
	_ = pr.Close()
	return err
}

// Ping checks that the backend answers HTTP at all; any status counts
func (c *Client) Ping(ctx context.Context) (int, error) {
	u, err := url.Parse(c.chatURL)
	if err != nil {
		return 0, err
	}
	u.Path, u.RawQuery = "/", ""
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return 0, err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, &RequestError{Endpoint: u.String(), Err: err}
	}
	defer func() { _ = resp.Body.Close() }()
	_, _ = io.Copy(io.Discard, resp.Body)
	return resp.StatusCode, nil
}

// do executes req and returns the body of a 2xx response
func (c *Client) do(req *http.Request, endpoint string) ([]byte, error) {
	id := uuid.NewString()
	req.Header.Set(requestIDHeader, id)
	LogDebug("%s %s (request %s)", req.Method, endpoint, id)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &RequestError{Endpoint: endpoint, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// no structured error body is assumed; keep a snippet for diagnostics
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		LogDebug("Request %s failed with %d: %s", id, resp.StatusCode, snippet)
		return nil, &RequestError{
			Endpoint: endpoint,
			Status:   resp.StatusCode,
			Err:      fmt.Errorf("request %s failed: %s", id, http.StatusText(resp.StatusCode)),
		}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &RequestError{Endpoint: endpoint, Status: resp.StatusCode, Err: err}
	}
	return body, nil
}
