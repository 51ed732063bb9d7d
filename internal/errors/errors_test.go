package errors

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestAppDNAError_Error(t *testing.T) {
	err := New(ErrCategoryDocument, CodeParseError, "bad json")
	expected := "[DOCUMENT:PARSE_ERROR] bad json"
	if err.Error() != expected {
		t.Errorf("got %q, want %q", err.Error(), expected)
	}
}

func TestAppDNAError_ErrorWithCause(t *testing.T) {
	cause := fmt.Errorf("disk full")
	err := Wrap(ErrCategoryPersist, CodeWriteError, "write failed", cause)
	expected := "[PERSIST:WRITE_ERROR] write failed: disk full"
	if err.Error() != expected {
		t.Errorf("got %q, want %q", err.Error(), expected)
	}
}

func TestAppDNAError_Unwrap(t *testing.T) {
	cause := fmt.Errorf("root cause")
	err := Wrap(ErrCategoryDocument, CodeReadFailed, "read", cause)
	if !errors.Is(err, cause) {
		t.Error("Unwrap should allow errors.Is to find the cause")
	}
}

func TestAppDNAError_Is(t *testing.T) {
	err1 := New(ErrCategorySchema, CodeSchemaNotFound, "first")
	err2 := New(ErrCategorySchema, CodeSchemaNotFound, "second")
	err3 := New(ErrCategorySchema, CodeSchemaInvalid, "different code")

	if !errors.Is(err1, err2) {
		t.Error("errors with same category+code should match via Is")
	}
	if errors.Is(err1, err3) {
		t.Error("errors with different codes should not match via Is")
	}
}

func TestIsRetryable(t *testing.T) {
	tests := []struct {
		category  ErrorCategory
		code      string
		retryable bool
	}{
		{ErrCategoryStorage, CodeUploadFailed, true},
		{ErrCategoryStorage, CodeDownloadFailed, true},
		{ErrCategoryStorage, CodeSnapshotNotFound, false},
		{ErrCategorySchema, CodeSchemaNotFound, false},
		{ErrCategoryDocument, CodeFileNotFound, false},
		{ErrCategoryDocument, CodeParseError, false},
		{ErrCategoryValidation, CodeValidationFailed, false},
		{ErrCategoryPersist, CodeWriteError, false},
		{ErrCategoryInternal, CodeUnexpected, false},
	}

	for _, tt := range tests {
		err := New(tt.category, tt.code, "test")
		if IsRetryable(err) != tt.retryable {
			t.Errorf("%s:%s retryable=%v, want %v", tt.category, tt.code, IsRetryable(err), tt.retryable)
		}
	}
}

func TestGetCategory(t *testing.T) {
	err := New(ErrCategoryValidation, CodeValidationFailed, "invalid")
	if GetCategory(err) != ErrCategoryValidation {
		t.Errorf("got %q, want %q", GetCategory(err), ErrCategoryValidation)
	}
	if GetCategory(fmt.Errorf("plain error")) != "" {
		t.Error("non-AppDNAError should return empty category")
	}
}

func TestGetCode(t *testing.T) {
	wrapped := fmt.Errorf("loading: %w", NewDocumentError(CodeFileNotFound, "app.json", nil))
	if GetCode(wrapped) != CodeFileNotFound {
		t.Errorf("got %q, want %q", GetCode(wrapped), CodeFileNotFound)
	}
	if GetCode(fmt.Errorf("plain error")) != "" {
		t.Error("non-AppDNAError should return empty code")
	}
}

func TestWithDetails(t *testing.T) {
	err := New(ErrCategoryDocument, CodeParseError, "bad json")
	detailed := err.WithDetails(map[string]interface{}{"path": "app.json"})

	if detailed.Details["path"] != "app.json" {
		t.Error("WithDetails should set details")
	}
	if err.Details != nil {
		t.Error("WithDetails should not modify original")
	}
}

func TestNewSchemaNotFound_ListsAttempts(t *testing.T) {
	attempted := []string{"/ws/app-dna.schema.json", "/opt/tool/resources/app-dna.schema.json"}
	err := NewSchemaNotFound(attempted)

	if err.Code != CodeSchemaNotFound {
		t.Fatalf("got code %q", err.Code)
	}
	for _, p := range attempted {
		if !strings.Contains(err.Error(), p) {
			t.Errorf("message %q does not name %s", err.Error(), p)
		}
	}
	got, ok := err.Details["attempted"].([]string)
	if !ok || len(got) != 2 {
		t.Errorf("attempted details = %v", err.Details["attempted"])
	}
}

func TestConvenienceConstructors(t *testing.T) {
	cause := fmt.Errorf("io error")

	d := NewDocumentError(CodeParseError, "app.json", cause)
	if d.Category != ErrCategoryDocument || d.Code != CodeParseError || !errors.Is(d, cause) {
		t.Error("NewDocumentError mismatch")
	}

	v := NewValidationFailed("2 errors")
	if v.Category != ErrCategoryValidation || v.Code != CodeValidationFailed {
		t.Error("NewValidationFailed mismatch")
	}

	w := NewWriteError("out.json", cause)
	if w.Category != ErrCategoryPersist || w.Code != CodeWriteError {
		t.Error("NewWriteError mismatch")
	}

	s := NewStorageError(CodeUploadFailed, "s3 down", cause)
	if s.Category != ErrCategoryStorage || !s.Retryable {
		t.Error("NewStorageError mismatch")
	}

	si := NewSchemaInvalid("schema.json", cause)
	if si.Category != ErrCategorySchema || si.Code != CodeSchemaInvalid {
		t.Error("NewSchemaInvalid mismatch")
	}

	i := NewInternalError("unexpected", cause)
	if i.Category != ErrCategoryInternal || i.Code != CodeUnexpected {
		t.Error("NewInternalError mismatch")
	}
}
