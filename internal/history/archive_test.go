package history

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/golang/snappy"

	apperrors "github.com/appdna/appdna/internal/errors"
	"github.com/appdna/appdna/internal/observability"
	"github.com/appdna/appdna/internal/storage"
)

func newTestArchive(t *testing.T) (*Archive, *storage.LocalStorage, *SQLiteCatalog) {
	t.Helper()
	dir := t.TempDir()

	store, err := storage.NewLocalStorage(filepath.Join(dir, "objects"))
	if err != nil {
		t.Fatalf("failed to create storage: %v", err)
	}
	catalog, err := NewCatalog(filepath.Join(dir, "history.db"))
	if err != nil {
		t.Fatalf("failed to create catalog: %v", err)
	}
	t.Cleanup(func() { catalog.Close() })

	archive := NewArchive(store, catalog, "", observability.NewPipelineStats(time.Hour))

	// Strictly increasing timestamps keep newest-first ordering deterministic.
	clock := time.Unix(1760000000, 0)
	archive.now = func() time.Time {
		clock = clock.Add(time.Second)
		return clock
	}
	return archive, store, catalog
}

func payload(name string) []byte {
	return []byte(fmt.Sprintf("{\n  \"root\": {\n    \"name\": %q,\n    \"databaseName\": \"Db\"\n  }\n}\n", name))
}

func TestArchive_SnapshotAndRestore(t *testing.T) {
	archive, store, _ := newTestArchive(t)
	ctx := context.Background()

	rec, err := archive.Snapshot(ctx, Source{DocumentID: "doc-1", Name: "app.json", Payload: payload("A"), Label: "first"})
	if err != nil {
		t.Fatalf("Snapshot failed: %v", err)
	}

	if !strings.HasPrefix(rec.ObjectPath, "snapshots/app.json/") || !strings.HasSuffix(rec.ObjectPath, ".json.sz") {
		t.Errorf("unexpected object path %q", rec.ObjectPath)
	}
	if rec.Label != "first" || rec.DocumentID != "doc-1" {
		t.Errorf("unexpected record: %+v", rec)
	}

	stored, err := store.Get(ctx, rec.ObjectPath)
	if err != nil {
		t.Fatalf("snapshot object missing: %v", err)
	}
	if decoded, err := snappy.Decode(nil, stored); err != nil || string(decoded) != string(payload("A")) {
		t.Errorf("stored object is not the snappy-compressed payload")
	}
	if rec.SizeBytes != int64(len(stored)) {
		t.Errorf("size mismatch: record %d, object %d", rec.SizeBytes, len(stored))
	}

	restored, err := archive.Restore(ctx, rec.SnapshotID)
	if err != nil {
		t.Fatalf("Restore failed: %v", err)
	}
	if string(restored) != string(payload("A")) {
		t.Errorf("restored payload mismatch:\n%s", restored)
	}
}

func TestArchive_SnapshotDeduplicatesUnchangedDocument(t *testing.T) {
	archive, _, _ := newTestArchive(t)
	ctx := context.Background()

	first, err := archive.Snapshot(ctx, Source{Name: "app.json", Payload: payload("A")})
	if err != nil {
		t.Fatal(err)
	}
	second, err := archive.Snapshot(ctx, Source{Name: "app.json", Payload: payload("A")})
	if err != nil {
		t.Fatal(err)
	}
	if second.SnapshotID != first.SnapshotID {
		t.Error("expected an unchanged document to reuse the latest snapshot")
	}

	third, err := archive.Snapshot(ctx, Source{Name: "app.json", Payload: payload("B")})
	if err != nil {
		t.Fatal(err)
	}
	if third.SnapshotID == first.SnapshotID {
		t.Error("expected a changed document to get a new snapshot")
	}

	// Going back to A is a change relative to the latest snapshot.
	fourth, err := archive.Snapshot(ctx, Source{Name: "app.json", Payload: payload("A")})
	if err != nil {
		t.Fatal(err)
	}
	if fourth.SnapshotID == first.SnapshotID {
		t.Error("expected only the latest snapshot to be compared")
	}

	records, _ := archive.List(ctx, "app.json")
	if len(records) != 3 {
		t.Errorf("expected 3 snapshots, got %d", len(records))
	}
}

func TestArchive_ListNewestFirst(t *testing.T) {
	archive, _, catalog := newTestArchive(t)
	ctx := context.Background()

	var ids []string
	for i := 0; i < 3; i++ {
		rec, err := archive.Snapshot(ctx, Source{Name: "app.json", Payload: payload(fmt.Sprint(i))})
		if err != nil {
			t.Fatal(err)
		}
		ids = append(ids, rec.SnapshotID)
	}
	if _, err := archive.Snapshot(ctx, Source{Name: "other.json", Payload: payload("x")}); err != nil {
		t.Fatal(err)
	}

	records, err := archive.List(ctx, "app.json")
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("expected 3 snapshots, got %d", len(records))
	}
	for i, rec := range records {
		if rec.SnapshotID != ids[len(ids)-1-i] {
			t.Errorf("snapshot %d = %s, want %s", i, rec.SnapshotID, ids[len(ids)-1-i])
		}
	}

	all, _ := catalog.List(ctx, "")
	if len(all) != 4 {
		t.Errorf("expected 4 snapshots across documents, got %d", len(all))
	}
}

func TestArchive_RestoreUnknown(t *testing.T) {
	archive, _, _ := newTestArchive(t)

	_, err := archive.Restore(context.Background(), "no-such-snapshot")
	if apperrors.GetCode(err) != apperrors.CodeSnapshotNotFound {
		t.Fatalf("got %v, want SNAPSHOT_NOT_FOUND", err)
	}
}

func TestArchive_RestoreMissingObject(t *testing.T) {
	archive, store, _ := newTestArchive(t)
	ctx := context.Background()

	rec, err := archive.Snapshot(ctx, Source{Name: "app.json", Payload: payload("A")})
	if err != nil {
		t.Fatal(err)
	}
	if err := store.Delete(ctx, rec.ObjectPath); err != nil {
		t.Fatal(err)
	}

	_, err = archive.Restore(ctx, rec.SnapshotID)
	if apperrors.GetCode(err) != apperrors.CodeSnapshotNotFound {
		t.Fatalf("got %v, want SNAPSHOT_NOT_FOUND", err)
	}
	var ae *apperrors.AppDNAError
	if !errors.As(err, &ae) || ae.Details["object"] != rec.ObjectPath {
		t.Errorf("expected the missing object path in the details, got %v", err)
	}
}

func TestArchive_RestoreUnreadableObject(t *testing.T) {
	archive, store, _ := newTestArchive(t)
	ctx := context.Background()

	rec, err := archive.Snapshot(ctx, Source{Name: "app.json", Payload: payload("A")})
	if err != nil {
		t.Fatal(err)
	}
	// A directory in place of the object exists but cannot be read.
	if err := store.Delete(ctx, rec.ObjectPath); err != nil {
		t.Fatal(err)
	}
	if _, err := store.Put(ctx, rec.ObjectPath+"/inner", []byte("x")); err != nil {
		t.Fatal(err)
	}

	_, err = archive.Restore(ctx, rec.SnapshotID)
	if apperrors.GetCode(err) != apperrors.CodeDownloadFailed {
		t.Fatalf("got %v, want DOWNLOAD_FAILED", err)
	}
	if !apperrors.IsRetryable(err) {
		t.Error("expected a download failure to be retryable")
	}
}

func TestArchive_BlankNameTouchesNoHistory(t *testing.T) {
	archive, _, catalog := newTestArchive(t)
	ctx := context.Background()

	for _, name := range []string{"a.json", "b.json"} {
		if _, err := archive.Snapshot(ctx, Source{Name: name, Payload: payload(name)}); err != nil {
			t.Fatal(err)
		}
	}

	for _, name := range []string{"", "   "} {
		if deleted, err := archive.Prune(ctx, name, 0); err == nil || len(deleted) != 0 {
			t.Errorf("Prune(%q): got %v, %v, want an error", name, deleted, err)
		}
		if _, err := archive.List(ctx, name); err == nil {
			t.Errorf("List(%q): expected an error", name)
		}
		if _, err := archive.Sweep(ctx, name); err == nil {
			t.Errorf("Sweep(%q): expected an error", name)
		}
	}

	for _, name := range []string{"a.json", "b.json"} {
		if records, _ := catalog.List(ctx, name); len(records) != 1 {
			t.Errorf("expected %s to keep its snapshot, got %d", name, len(records))
		}
	}
}

func TestArchive_SweepRemovesUnregisteredObjects(t *testing.T) {
	archive, store, _ := newTestArchive(t)
	ctx := context.Background()

	rec, err := archive.Snapshot(ctx, Source{Name: "app.json", Payload: payload("A")})
	if err != nil {
		t.Fatal(err)
	}
	orphan := "snapshots/app.json/orphan" + objectSuffix
	other := "snapshots/other.json/orphan" + objectSuffix
	for _, p := range []string{orphan, other} {
		if _, err := store.Put(ctx, p, []byte("x")); err != nil {
			t.Fatal(err)
		}
	}

	removed, err := archive.Sweep(ctx, "app.json")
	if err != nil {
		t.Fatalf("Sweep failed: %v", err)
	}
	if len(removed) != 1 || removed[0] != orphan {
		t.Errorf("got %v, want [%s]", removed, orphan)
	}
	if ok, _ := store.Exists(ctx, rec.ObjectPath); !ok {
		t.Error("registered snapshot object must survive")
	}
	if ok, _ := store.Exists(ctx, other); !ok {
		t.Error("objects of other documents must survive")
	}

	// Prune sweeps as well.
	if _, err := store.Put(ctx, orphan, []byte("x")); err != nil {
		t.Fatal(err)
	}
	if _, err := archive.Prune(ctx, "app.json", 5); err != nil {
		t.Fatalf("Prune failed: %v", err)
	}
	if ok, _ := store.Exists(ctx, orphan); ok {
		t.Error("expected Prune to remove the unregistered object")
	}
}

func TestArchive_Prune(t *testing.T) {
	archive, store, _ := newTestArchive(t)
	ctx := context.Background()

	var recs []*Record
	for i := 0; i < 5; i++ {
		rec, err := archive.Snapshot(ctx, Source{Name: "app.json", Payload: payload(fmt.Sprint(i))})
		if err != nil {
			t.Fatal(err)
		}
		recs = append(recs, rec)
	}

	deleted, err := archive.Prune(ctx, "app.json", 2)
	if err != nil {
		t.Fatalf("Prune failed: %v", err)
	}
	if len(deleted) != 3 {
		t.Fatalf("expected 3 pruned snapshots, got %d", len(deleted))
	}

	left, _ := archive.List(ctx, "app.json")
	if len(left) != 2 || left[0].SnapshotID != recs[4].SnapshotID || left[1].SnapshotID != recs[3].SnapshotID {
		t.Errorf("expected the two newest snapshots to remain")
	}
	for _, rec := range recs[:3] {
		if exists, _ := store.Exists(ctx, rec.ObjectPath); exists {
			t.Errorf("expected object %s to be deleted", rec.ObjectPath)
		}
	}

	if again, err := archive.Prune(ctx, "app.json", 2); err != nil || len(again) != 0 {
		t.Errorf("expected nothing to prune, got %v, %v", again, err)
	}
}

func TestArchive_SnapshotRequiresName(t *testing.T) {
	archive, _, _ := newTestArchive(t)
	if _, err := archive.Snapshot(context.Background(), Source{Payload: payload("A")}); err == nil {
		t.Error("expected an error for a snapshot without a name")
	}
}

func TestArchive_RecordsStats(t *testing.T) {
	archive, _, _ := newTestArchive(t)
	if _, err := archive.Snapshot(context.Background(), Source{Name: "app.json", Payload: payload("A")}); err != nil {
		t.Fatal(err)
	}
	s, ok := archive.stats.Stage(observability.StageSnapshot)
	if !ok || s.Runs != 1 || s.Failures != 0 {
		t.Errorf("unexpected snapshot stats: %+v", s)
	}
}

func TestObjectName(t *testing.T) {
	tests := map[string]string{
		"app.json":     "app.json",
		" app.json ":   "app.json",
		"dir/app.json": "dir_app.json",
		`dir\app.json`: "dir_app.json",
		"":             "",
	}
	for in, want := range tests {
		if got := objectName(in); got != want {
			t.Errorf("objectName(%q) = %q, want %q", in, got, want)
		}
	}
}
