package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/appdna/appdna/internal/app"
	"github.com/appdna/appdna/internal/config"
	apperrors "github.com/appdna/appdna/internal/errors"
)

func newTestApp(t *testing.T) *app.App {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.WorkspaceRoot = t.TempDir()
	cfg.ResourceDir = filepath.Join("..", "..", "resources")
	cfg.DataDir = filepath.Join(t.TempDir(), "data")

	a, err := app.New(cfg)
	if err != nil {
		t.Fatalf("app.New failed: %v", err)
	}
	return a
}

func writeDoc(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "app.json")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadConfigPrecedence(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "appdna.yaml")
	content := "data_dir: /from/file\nworkspace_root: /ws/file\nresource_dir: /res/file\n"
	if err := os.WriteFile(file, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("APPDNA_WORKSPACE_ROOT", "/ws/env")
	t.Setenv("APPDNA_DATA_DIR", "/from/env")

	cfg, err := loadConfig(file, "", "", "", "/from/flag")
	if err != nil {
		t.Fatalf("loadConfig failed: %v", err)
	}
	if cfg.ResourceDir != "/res/file" {
		t.Errorf("got resource dir %q, want the file value", cfg.ResourceDir)
	}
	if cfg.WorkspaceRoot != "/ws/env" {
		t.Errorf("got workspace %q, want the environment value", cfg.WorkspaceRoot)
	}
	if cfg.DataDir != "/from/flag" {
		t.Errorf("got data dir %q, want the flag value", cfg.DataDir)
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	if _, err := loadConfig(filepath.Join(t.TempDir(), "missing.yaml"), "", "", "", ""); err == nil {
		t.Error("expected an error for a missing config file")
	}
}

func TestRunUsageErrors(t *testing.T) {
	a := newTestApp(t)
	ctx := context.Background()

	tests := []struct {
		cmd  string
		args []string
	}{
		{"bogus", nil},
		{"validate", nil},
		{"restore", []string{"only-one"}},
	}
	for _, tt := range tests {
		if code := run(ctx, a, tt.cmd, tt.args); code != 2 {
			t.Errorf("%s %v: got exit code %d, want 2", tt.cmd, tt.args, code)
		}
	}
}

func TestRunValidate(t *testing.T) {
	a := newTestApp(t)
	ctx := context.Background()

	valid := writeDoc(t, `{"root":{"name":"App1","databaseName":"AppDb"}}`)
	if code := run(ctx, a, "validate", []string{valid}); code != 0 {
		t.Errorf("valid document: got exit code %d", code)
	}

	invalid := writeDoc(t, `{"root":{"name":"App1"}}`)
	if code := run(ctx, a, "validate", []string{invalid}); code != 1 {
		t.Errorf("invalid document: got exit code %d", code)
	}

	missing := filepath.Join(t.TempDir(), "missing.json")
	if code := run(ctx, a, "validate", []string{missing}); code != 1 {
		t.Errorf("missing document: got exit code %d", code)
	}
}

func TestRunSnapshotLifecycle(t *testing.T) {
	a := newTestApp(t)
	ctx := context.Background()
	doc := writeDoc(t, `{"root":{"name":"App1","databaseName":"AppDb"}}`)

	if code := run(ctx, a, "snapshot", []string{"-label", "first", doc}); code != 0 {
		t.Fatalf("snapshot: got exit code %d", code)
	}
	if code := run(ctx, a, "history", []string{doc}); code != 0 {
		t.Errorf("history: got exit code %d", code)
	}
	if code := run(ctx, a, "prune", []string{"-keep", "1", doc}); code != 0 {
		t.Errorf("prune: got exit code %d", code)
	}

	out := filepath.Join(t.TempDir(), "restored.json")
	if code := run(ctx, a, "restore", []string{"no-such-snapshot", out}); code != 1 {
		t.Errorf("restore of an unknown snapshot: got exit code %d", code)
	}
}

func TestRunFmt(t *testing.T) {
	a := newTestApp(t)
	doc := writeDoc(t, `{"root":{"databaseName":"AppDb","name":"App1"}}`)
	out := filepath.Join(t.TempDir(), "out.json")

	if code := run(context.Background(), a, "fmt", []string{"-o", out, doc}); code != 0 {
		t.Fatalf("fmt: got exit code %d", code)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	want := "{\n  \"root\": {\n    \"name\": \"App1\",\n    \"databaseName\": \"AppDb\"\n  }\n}\n"
	if string(data) != want {
		t.Errorf("got %q, want %q", data, want)
	}
}

func TestReport(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		heading   string
		retryHint bool
	}{
		{"storage", apperrors.NewStorageError(apperrors.CodeDownloadFailed, "download failed", nil), "snapshot storage error: ", true},
		{"document", apperrors.New(apperrors.ErrCategoryDocument, apperrors.CodeParseError, "bad json"), "document error: ", false},
		{"plain", errors.New("boom"), "error: boom", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			if code := report(&buf, tt.err); code != 1 {
				t.Errorf("got exit code %d", code)
			}
			out := buf.String()
			if !strings.HasPrefix(out, tt.heading) {
				t.Errorf("got %q, want prefix %q", out, tt.heading)
			}
			if got := strings.Contains(out, "retrying"); got != tt.retryHint {
				t.Errorf("retry hint = %v, want %v in %q", got, tt.retryHint, out)
			}
		})
	}
}

func TestRunPruneRejectsBlankName(t *testing.T) {
	a := newTestApp(t)
	ctx := context.Background()
	doc := writeDoc(t, `{"root":{"name":"App1","databaseName":"AppDb"}}`)
	if code := run(ctx, a, "snapshot", []string{doc}); code != 0 {
		t.Fatalf("snapshot: got exit code %d", code)
	}

	if code := run(ctx, a, "prune", []string{"-keep", "0", "   "}); code != 1 {
		t.Errorf("prune of a blank name: got exit code %d, want 1", code)
	}

	if err := a.Open(ctx); err != nil {
		t.Fatal(err)
	}
	defer a.Close()
	records, err := a.History(ctx, doc)
	if err != nil || len(records) != 1 {
		t.Errorf("expected the snapshot to survive, got %v, %v", records, err)
	}
}
