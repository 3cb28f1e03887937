package internal

import (
	"errors"
	"strings"
	"testing"
)

func TestRequestError(t *testing.T) {
	originalErr := errors.New("connection refused")

	tests := []struct {
		name string
		err  *RequestError
		want []string
	}{
		{
			name: "transport failure",
			err:  &RequestError{Endpoint: "/chat", Err: originalErr},
			want: []string{"request error", "/chat", "connection refused"},
		},
		{
			name: "non-success status",
			err:  &RequestError{Endpoint: "/upload/pdf", Status: 500, Err: originalErr},
			want: []string{"request error", "/upload/pdf", "500"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := tt.err.Error()
			for _, w := range tt.want {
				if !strings.Contains(msg, w) {
					t.Errorf("RequestError.Error() = %q, should contain %q", msg, w)
				}
			}
			if !errors.Is(tt.err, originalErr) {
				t.Error("RequestError.Unwrap() should return original error")
			}
		})
	}
}

func TestDecodeError(t *testing.T) {
	originalErr := errors.New("unexpected EOF")
	err := &DecodeError{Endpoint: "/chat", Err: originalErr}

	if !strings.Contains(err.Error(), "decode error") {
		t.Errorf("DecodeError.Error() should contain 'decode error', got: %q", err.Error())
	}
	if !errors.Is(err, originalErr) {
		t.Error("DecodeError.Unwrap() should return original error")
	}
}

func TestUploadError(t *testing.T) {
	err := &UploadError{File: "paper.pdf", Err: ErrUploadInProgress}

	if !strings.Contains(err.Error(), "paper.pdf") {
		t.Errorf("UploadError.Error() should contain file name, got: %q", err.Error())
	}
	if !errors.Is(err, ErrUploadInProgress) {
		t.Error("UploadError.Unwrap() should return original error")
	}
}

func TestDownloadError(t *testing.T) {
	originalErr := errors.New("read-only file system")
	err := &DownloadError{Path: "/tmp/document.txt", Err: originalErr}

	if !strings.Contains(err.Error(), "/tmp/document.txt") {
		t.Errorf("DownloadError.Error() should contain path, got: %q", err.Error())
	}
	if !errors.Is(err, originalErr) {
		t.Error("DownloadError.Unwrap() should return original error")
	}
}

func TestExportError(t *testing.T) {
	originalErr := errors.New("disk full")
	err := &ExportError{Format: "md", Path: "out.md", Err: originalErr}

	msg := err.Error()
	if !strings.Contains(msg, "export error") || !strings.Contains(msg, "[md]") {
		t.Errorf("ExportError.Error() = %q", msg)
	}
	if !errors.Is(err, originalErr) {
		t.Error("ExportError.Unwrap() should return original error")
	}
}
