package internal

import (
	"bytes"
	"context"
	"errors"
	"os"
	"strings"
	"testing"
	"time"
)

func TestShowProgress(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		message string
		fn      func(ctx context.Context) error
		wantErr bool
	}{
		{
			name:    "successful function",
			message: "Testing",
			fn:      func(ctx context.Context) error { return nil },
			wantErr: false,
		},
		{
			name:    "function with error",
			message: "Testing error",
			fn:      func(ctx context.Context) error { return errors.New("test error") },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ShowProgress(ctx, tt.message, tt.fn)
			if (err != nil) != tt.wantErr {
				t.Errorf("ShowProgress() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestShowProgress_LogsMessageVerbatim(t *testing.T) {
	var buf bytes.Buffer
	SetLogOutput(&buf)
	SetLogLevel(LogLevelInfo)
	defer SetLogOutput(os.Stderr)

	// outside a terminal the message goes to the log
	if IsTerminal(os.Stderr) {
		t.Skip("stderr is a terminal")
	}
	err := ShowProgress(context.Background(), "Uploading report-100%done.pdf", func(ctx context.Context) error { return nil })
	if err != nil {
		t.Fatalf("ShowProgress() error = %v", err)
	}
	if !strings.Contains(buf.String(), "Uploading report-100%done.pdf") {
		t.Errorf("log = %q, want the message unchanged", buf.String())
	}
}

func TestRunWithSpinner_Outcome(t *testing.T) {
	var buf bytes.Buffer
	err := runWithSpinner(context.Background(), &buf, "Uploading", func(ctx context.Context) error {
		time.Sleep(150 * time.Millisecond)
		return nil
	})
	if err != nil {
		t.Fatalf("runWithSpinner() error = %v", err)
	}
	if !strings.Contains(buf.String(), "✓") || !strings.Contains(buf.String(), "Uploading") {
		t.Errorf("expected success mark in output, got %q", buf.String())
	}

	buf.Reset()
	err = runWithSpinner(context.Background(), &buf, "Uploading", func(ctx context.Context) error {
		return errors.New("boom")
	})
	if err == nil {
		t.Fatal("runWithSpinner() should return the function error")
	}
	if !strings.Contains(buf.String(), "✗") {
		t.Errorf("expected failure mark in output, got %q", buf.String())
	}
}

func TestRunWithSpinner_ContextCancellation(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	var buf bytes.Buffer
	err := runWithSpinner(ctx, &buf, "Waiting", func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("runWithSpinner() error = %v, want deadline exceeded", err)
	}
}

func TestShowProgressWithSteps(t *testing.T) {
	var order []string
	steps := []ProgressStep{
		{Message: "first", Fn: func(ctx context.Context) error { order = append(order, "first"); return nil }},
		{Message: "second", Fn: func(ctx context.Context) error { return errors.New("failed") }},
		{Message: "third", Fn: func(ctx context.Context) error { order = append(order, "third"); return nil }},
	}

	err := ShowProgressWithSteps(context.Background(), steps)
	if err == nil || !strings.Contains(err.Error(), "second") {
		t.Errorf("ShowProgressWithSteps() error = %v, want failure naming the step", err)
	}
	if len(order) != 1 || order[0] != "first" {
		t.Errorf("steps after a failure should not run, ran %v", order)
	}
}

func TestPrintFunctions(t *testing.T) {
	PrintSuccess("success message")
	PrintError("error message")
	PrintInfo("info message")
	PrintWarning("warning message")
}
