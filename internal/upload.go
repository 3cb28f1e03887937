package internal

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/gabriel-vasile/mimetype"
	"github.com/ledongthuc/pdf"
)

// PDFMimeType is the only document type the picker accepts
const PDFMimeType = "application/pdf"

// FileHandle references the raw bytes of a file chosen for upload
type FileHandle struct {
	Name string
	Size int64
	open func() (io.ReadCloser, error)
}

// FileHandleFromPath references a file on disk
func FileHandleFromPath(path string) (*FileHandle, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%s is a directory", path)
	}
	return &FileHandle{
		Name: filepath.Base(path),
		Size: info.Size(),
		open: func() (io.ReadCloser, error) { return os.Open(path) },
	}, nil
}

// FileHandleFromBytes references an in-memory file
func FileHandleFromBytes(name string, data []byte) *FileHandle {
	return &FileHandle{
		Name: name,
		Size: int64(len(data)),
		open: func() (io.ReadCloser, error) {
			return io.NopCloser(bytes.NewReader(data)), nil
		},
	}
}

// Open returns a reader over the file bytes; callers must close it
func (f *FileHandle) Open() (io.ReadCloser, error) {
	if f.open == nil {
		return nil, fmt.Errorf("file %s has no content", f.Name)
	}
	return f.open()
}

// SizeLabel formats the size the way the upload panel shows it, e.g. "12.5 KB"
func (f *FileHandle) SizeLabel() string {
	return fmt.Sprintf("%.1f KB", float64(f.Size)/1024)
}

// FilePicker presents a file-selection surface. A nil handle with a nil
// error means the user chose nothing.
type FilePicker interface {
	Pick(ctx context.Context) (*FileHandle, error)
}

// PathPicker picks a file by path, accepting only application/pdf
type PathPicker struct {
	Path    string
	MaxSize int64 // 0 disables the size check
}

// Pick validates the path against the accept type and size limit
func (p PathPicker) Pick(ctx context.Context) (*FileHandle, error) {
	if strings.TrimSpace(p.Path) == "" {
		return nil, nil
	}
	fh, err := FileHandleFromPath(p.Path)
	if err != nil {
		return nil, err
	}
	if p.MaxSize > 0 && fh.Size > p.MaxSize {
		return nil, fmt.Errorf("%s (%s): %w", fh.Name, fh.SizeLabel(), ErrFileTooLarge)
	}
	if !strings.EqualFold(filepath.Ext(fh.Name), ".pdf") {
		return nil, fmt.Errorf("%s: %w", fh.Name, ErrNotPDF)
	}
	mt, err := mimetype.DetectFile(p.Path)
	if err != nil {
		return nil, err
	}
	if !mt.Is(PDFMimeType) {
		LogDebug("Rejected %s: detected %s", fh.Name, mt.String())
		return nil, fmt.Errorf("%s is %s: %w", fh.Name, mt.String(), ErrNotPDF)
	}
	return fh, nil
}

// FileInfo describes a selected file for display
type FileInfo struct {
	Name  string
	Size  string
	Pages int // 0 when the page count could not be read
}

// DescribeFile reads the page count from the PDF when possible
func DescribeFile(f *FileHandle) (info FileInfo) {
	info = FileInfo{Name: f.Name, Size: f.SizeLabel()}
	// the pdf reader panics on some malformed inputs
	defer func() {
		if r := recover(); r != nil {
			LogDebug("Could not read %s as PDF: %v", f.Name, r)
			info.Pages = 0
		}
	}()
	rc, err := f.Open()
	if err != nil {
		return info
	}
	defer func() { _ = rc.Close() }()
	data, err := io.ReadAll(rc)
	if err != nil {
		return info
	}
	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		LogDebug("Could not read %s as PDF: %v", f.Name, err)
		return info
	}
	info.Pages = r.NumPage()
	return info
}

// UploadState is the lifecycle state of the pending upload
type UploadState int

const (
	UploadEmpty UploadState = iota
	UploadSelected
	UploadUploading
)

func (s UploadState) String() string {
	switch s {
	case UploadEmpty:
		return "empty"
	case UploadSelected:
		return "selected"
	case UploadUploading:
		return "uploading"
	default:
		return fmt.Sprintf("UploadState(%d)", int(s))
	}
}

// Uploader owns the single pending file and its submission. A failed upload
// keeps the file selected so it can be retried without picking it again.
type Uploader struct {
	mu       sync.Mutex
	backend  Ingester
	notifier Notifier
	selected *FileHandle
	state    UploadState
	lastErr  error
	uploaded string
}

// NewUploader creates an upload manager
func NewUploader(backend Ingester, notifier Notifier) *Uploader {
	if notifier == nil {
		notifier = DiscardNotifier{}
	}
	return &Uploader{backend: backend, notifier: notifier}
}

// PickFile asks the picker for a file and selects it
func (u *Uploader) PickFile(ctx context.Context, picker FilePicker) error {
	if u.Busy() {
		return ErrUploadInProgress
	}
	fh, err := picker.Pick(ctx)
	if err != nil {
		u.notifier.Error(fmt.Sprintf("Cannot select file: %v", err))
		return err
	}
	if fh == nil {
		return nil
	}
	return u.Select(fh)
}

// Select replaces any unsubmitted selection with file
func (u *Uploader) Select(file *FileHandle) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.state == UploadUploading {
		return ErrUploadInProgress
	}
	if u.selected != nil {
		LogDebug("Replacing selection %s with %s", u.selected.Name, file.Name)
	}
	u.selected = file
	u.state = UploadSelected
	u.lastErr = nil
	return nil
}

// CancelSelection discards the selected file; refused while uploading
func (u *Uploader) CancelSelection() error {
	u.mu.Lock()
	defer u.mu.Unlock()
	switch u.state {
	case UploadUploading:
		return ErrUploadInProgress
	case UploadSelected:
		u.selected = nil
		u.state = UploadEmpty
	}
	return nil
}

// ConfirmUpload submits the selected file and blocks until the backend
// answers. It is a no-op when nothing is selected. The busy state is always
// cleared once the request settles.
func (u *Uploader) ConfirmUpload(ctx context.Context) error {
	u.mu.Lock()
	switch u.state {
	case UploadEmpty:
		u.mu.Unlock()
		return nil
	case UploadUploading:
		u.mu.Unlock()
		return ErrUploadInProgress
	}
	file := u.selected
	u.state = UploadUploading
	u.lastErr = nil
	u.mu.Unlock()

	LogInfo("Uploading %s (%s)", file.Name, file.SizeLabel())
	err := u.backend.UploadPDF(ctx, file)

	u.mu.Lock()
	defer u.mu.Unlock()
	if err != nil {
		u.state = UploadSelected
		u.lastErr = err
		LogError("Upload of %s failed: %v", file.Name, err)
		var reqErr *RequestError
		if errors.As(err, &reqErr) && reqErr.Status != 0 {
			u.notifier.Error("Failed to upload file")
		} else {
			u.notifier.Error("Error uploading file")
		}
		return &UploadError{File: file.Name, Err: err}
	}

	u.selected = nil
	u.state = UploadEmpty
	u.uploaded = file.Name
	u.notifier.Success("File uploaded successfully!")
	return nil
}

// State returns the current lifecycle state
func (u *Uploader) State() UploadState {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.state
}

// Busy reports whether an upload is in flight
func (u *Uploader) Busy() bool {
	return u.State() == UploadUploading
}

// Selected returns the pending file, or nil
func (u *Uploader) Selected() *FileHandle {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.selected
}

// LastError returns the error of the most recent failed upload, cleared by a new selection
func (u *Uploader) LastError() error {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.lastErr
}

// Uploaded returns the name of the last successfully uploaded file
func (u *Uploader) Uploaded() string {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.uploaded
}
