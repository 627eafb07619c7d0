package errors

import (
	stderrors "errors"
	"fmt"
	"testing"
)

func TestAppErrorFormat(t *testing.T) {
	cause := stderrors.New("connection refused")
	err := NetworkError(CodeResolutionFailed, "release lookup failed", cause)

	got := err.Error()
	want := "[NETWORK:NET-001] release lookup failed: connection refused"
	if got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestAppErrorUnwrap(t *testing.T) {
	cause := stderrors.New("boom")
	err := SystemError(CodeIOFailure, "failed to stream file", cause)

	if !stderrors.Is(err, cause) {
		t.Error("wrapped cause not reachable via errors.Is")
	}
}

func TestAsThroughWrapping(t *testing.T) {
	inner := ValidationError(CodeInvalidInput, "bad repo", nil)
	wrapped := fmt.Errorf("step failed: %w", inner)

	appErr, ok := As(wrapped)
	if !ok {
		t.Fatal("As failed to find the AppError")
	}
	if appErr.Code != CodeInvalidInput {
		t.Errorf("code = %q", appErr.Code)
	}

	if CodeOf(wrapped) != CodeInvalidInput {
		t.Errorf("CodeOf = %q", CodeOf(wrapped))
	}
	if CategoryOf(wrapped) != ErrCategoryValidation {
		t.Errorf("CategoryOf = %q", CategoryOf(wrapped))
	}
}

func TestCodeOfPlainError(t *testing.T) {
	if CodeOf(stderrors.New("plain")) != "" {
		t.Error("plain errors must not report a code")
	}
}

func TestWithFields(t *testing.T) {
	err := AssetError(CodeNoMatchingAsset, "no match", nil).
		WithModule("task").
		WithOperation("SelectAsset").
		WithField("asset", "widget.zip").
		WithFields(Metadata{"available": 3})

	if err.Module != "task" || err.Operation != "SelectAsset" {
		t.Errorf("module/operation = %q/%q", err.Module, err.Operation)
	}
	if err.Metadata["asset"] != "widget.zip" || err.Metadata["available"] != 3 {
		t.Errorf("metadata = %v", err.Metadata)
	}
}
