package internal

import (
	"errors"
	"fmt"
)

var (
	// ErrNoCitationContent is returned when a citation carries no passage text
	ErrNoCitationContent = errors.New("no content available to download")

	// ErrUploadInProgress is returned when the selection is changed mid-upload
	ErrUploadInProgress = errors.New("upload in progress")

	// ErrNotPDF is returned by the picker for files that are not application/pdf
	ErrNotPDF = errors.New("file is not a PDF document")

	// ErrFileTooLarge is returned by the picker for files above the size limit
	ErrFileTooLarge = errors.New("file exceeds the upload size limit")

	errEmptyResponse = errors.New("empty response")
)

// RequestError represents a failed call to the backend
type RequestError struct {
	Endpoint string
	Status   int // 0 when the request never got a response
	Err      error
}

func (e *RequestError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("request error: %s returned %d: %v", e.Endpoint, e.Status, e.Err)
	}
	return fmt.Sprintf("request error: %s: %v", e.Endpoint, e.Err)
}

func (e *RequestError) Unwrap() error {
	return e.Err
}

// DecodeError represents a response body that could not be decoded
type DecodeError struct {
	Endpoint string
	Err      error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode error [%s]: %v", e.Endpoint, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// UploadError represents errors while submitting a file for ingestion
type UploadError struct {
	File string
	Err  error
}

func (e *UploadError) Error() string {
	return fmt.Sprintf("upload error [%s]: %v", e.File, e.Err)
}

func (e *UploadError) Unwrap() error {
	return e.Err
}

// DownloadError represents errors writing a citation to disk
type DownloadError struct {
	Path string
	Err  error
}

func (e *DownloadError) Error() string {
	return fmt.Sprintf("download error %s: %v", e.Path, e.Err)
}

func (e *DownloadError) Unwrap() error {
	return e.Err
}

// ExportError represents errors during transcript export
type ExportError struct {
	Format string
	Path   string
	Err    error
}

func (e *ExportError) Error() string {
	return fmt.Sprintf("export error [%s] %s: %v", e.Format, e.Path, e.Err)
}

func (e *ExportError) Unwrap() error {
	return e.Err
}
