package storage

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"
)

func newTestS3Storage(retries int) *S3Storage {
	client := s3.New(s3.Options{Region: "us-east-1"})
	return NewS3StorageWithClient(client, S3Options{Bucket: "bucket", Retries: retries})
}

func TestNewS3StorageWithClient_ClampsRetries(t *testing.T) {
	s := newTestS3Storage(-2)
	if s.retries != 0 {
		t.Errorf("expected negative retries to clamp to 0, got %d", s.retries)
	}
	if s.bucket != "bucket" {
		t.Errorf("unexpected bucket %q", s.bucket)
	}
}

func TestBackoffDelay(t *testing.T) {
	cases := map[int]time.Duration{
		0: 100 * time.Millisecond,
		1: 200 * time.Millisecond,
		3: 800 * time.Millisecond,
	}
	for attempt, want := range cases {
		if got := backoffDelay(attempt); got != want {
			t.Errorf("attempt %d: got %v, want %v", attempt, got, want)
		}
	}
}

func TestContentType(t *testing.T) {
	cases := map[string]string{
		"snapshots/app.json/1.json.sz": "application/x-snappy",
		"exports/app.json":             "application/json",
		"blob":                         "application/octet-stream",
	}
	for key, want := range cases {
		if got := contentType(key); got != want {
			t.Errorf("%s: got %q, want %q", key, got, want)
		}
	}
}

func TestIsNotFound(t *testing.T) {
	if !isNotFound(&smithy.GenericAPIError{Code: "NoSuchKey"}) {
		t.Error("NoSuchKey should be not-found")
	}
	if !isNotFound(fmt.Errorf("head: %w", &smithy.GenericAPIError{Code: "NotFound"})) {
		t.Error("wrapped NotFound should be not-found")
	}
	if isNotFound(&smithy.GenericAPIError{Code: "AccessDenied"}) || isNotFound(errors.New("plain")) {
		t.Error("other errors are not not-found")
	}
}

func TestWithRetry(t *testing.T) {
	ctx := context.Background()

	t.Run("succeeds after failure", func(t *testing.T) {
		calls := 0
		v, err := withRetry(ctx, 1, func(context.Context) (string, error) {
			calls++
			if calls == 1 {
				return "", errors.New("transient")
			}
			return "etag", nil
		})
		if err != nil || v != "etag" || calls != 2 {
			t.Errorf("got v=%q err=%v calls=%d", v, err, calls)
		}
	})

	t.Run("returns last error", func(t *testing.T) {
		calls := 0
		boom := errors.New("boom")
		_, err := withRetry(ctx, 1, func(context.Context) (int, error) {
			calls++
			return 0, boom
		})
		if !errors.Is(err, boom) || calls != 2 {
			t.Errorf("got err=%v calls=%d", err, calls)
		}
	})

	t.Run("not found is not retried", func(t *testing.T) {
		calls := 0
		_, err := withRetry(ctx, 3, func(context.Context) ([]byte, error) {
			calls++
			return nil, ErrObjectNotFound
		})
		if !errors.Is(err, ErrObjectNotFound) || calls != 1 {
			t.Errorf("got err=%v calls=%d", err, calls)
		}
	})

	t.Run("cancelled context", func(t *testing.T) {
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		calls := 0
		_, err := withRetry(cctx, 3, func(context.Context) (bool, error) {
			calls++
			return true, nil
		})
		if !errors.Is(err, context.Canceled) || calls != 0 {
			t.Errorf("got err=%v calls=%d", err, calls)
		}
	})
}
