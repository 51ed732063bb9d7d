package history

import (
	"context"
	"errors"
	"fmt"
	"log"
	"path"
	"sort"
	"strings"
	"time"

	"github.com/golang/snappy"
	"github.com/google/uuid"
	"github.com/spaolacci/murmur3"

	apperrors "github.com/appdna/appdna/internal/errors"
	"github.com/appdna/appdna/internal/observability"
	"github.com/appdna/appdna/internal/storage"
)

// DefaultPrefix is the object path prefix snapshots are stored under.
const DefaultPrefix = "snapshots"

// objectSuffix marks snappy-compressed JSON objects.
const objectSuffix = ".json.sz"

// pruneConcurrency bounds parallel object deletes during Prune.
const pruneConcurrency = 4

// Source is a document to snapshot.
type Source struct {
	// DocumentID identifies the editing session the payload came from.
	DocumentID string
	// Name groups snapshots of the same document, usually its file name.
	Name string
	// Payload is the encoded document.
	Payload []byte
	// Fingerprint is the murmur3 hash of the canonical encoding. Zero means
	// it is computed from Payload.
	Fingerprint uint64
	// Label is an optional free-form note.
	Label string
}

// Archive stores snapshots in object storage and registers them in the catalog.
type Archive struct {
	store   storage.ObjectStorage
	catalog Catalog
	prefix  string
	stats   *observability.PipelineStats
	now     func() time.Time
}

// NewArchive creates an archive. An empty prefix uses DefaultPrefix; stats
// may be nil.
func NewArchive(store storage.ObjectStorage, catalog Catalog, prefix string, stats *observability.PipelineStats) *Archive {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return &Archive{
		store:   store,
		catalog: catalog,
		prefix:  strings.Trim(prefix, "/"),
		stats:   stats,
		now:     time.Now,
	}
}

// Snapshot compresses and stores src. When the newest snapshot of the same
// name already has src's fingerprint, nothing is stored and that snapshot is
// returned.
func (a *Archive) Snapshot(ctx context.Context, src Source) (*Record, error) {
	start := time.Now()
	rec, err := a.snapshot(ctx, src)
	a.stats.RecordStage(observability.StageSnapshot, time.Since(start), apperrors.GetCode(err), err != nil)
	return rec, err
}

func (a *Archive) snapshot(ctx context.Context, src Source) (*Record, error) {
	name := objectName(src.Name)
	if name == "" {
		return nil, errNameRequired("snapshot")
	}

	fp := src.Fingerprint
	if fp == 0 {
		fp = murmur3.Sum64(src.Payload)
	}

	latest, err := a.catalog.Latest(ctx, name)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to read snapshot catalog", err)
	}
	if latest != nil && latest.Fingerprint == fp {
		log.Printf("history: %s unchanged since snapshot %s", name, latest.SnapshotID)
		return latest, nil
	}

	compressed := snappy.Encode(nil, src.Payload)
	id := uuid.NewString()
	objectPath := path.Join(a.prefix, name, id+objectSuffix)

	if _, err := a.store.Put(ctx, objectPath, compressed); err != nil {
		return nil, apperrors.NewStorageError(apperrors.CodeUploadFailed,
			fmt.Sprintf("failed to upload snapshot %s", objectPath), err)
	}

	rec := &Record{
		SnapshotID:   id,
		DocumentID:   src.DocumentID,
		DocumentName: name,
		ObjectPath:   objectPath,
		Fingerprint:  fp,
		SizeBytes:    int64(len(compressed)),
		Label:        src.Label,
		CreatedAt:    a.now(),
	}
	if err := a.catalog.Register(ctx, rec); err != nil {
		// Unregistered objects are unreachable; remove the upload.
		if delErr := a.store.Delete(ctx, objectPath); delErr != nil {
			log.Printf("history: failed to remove orphaned snapshot %s: %v", objectPath, delErr)
		}
		return nil, apperrors.NewInternalError("failed to register snapshot", err)
	}

	log.Printf("history: stored snapshot %s of %s (%d bytes)", id, name, rec.SizeBytes)
	return rec, nil
}

// List returns the snapshots of a document name, newest first.
func (a *Archive) List(ctx context.Context, name string) ([]*Record, error) {
	name = objectName(name)
	if name == "" {
		return nil, errNameRequired("list")
	}
	records, err := a.catalog.List(ctx, name)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list snapshots", err)
	}
	return records, nil
}

// Restore returns the decompressed payload of a snapshot. A registered
// snapshot whose object is gone is reported as SNAPSHOT_NOT_FOUND.
func (a *Archive) Restore(ctx context.Context, snapshotID string) ([]byte, error) {
	rec, err := a.catalog.Get(ctx, snapshotID)
	if errors.Is(err, ErrRecordNotFound) {
		return nil, apperrors.New(apperrors.ErrCategoryStorage, apperrors.CodeSnapshotNotFound,
			fmt.Sprintf("snapshot %s does not exist", snapshotID))
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to read snapshot catalog", err)
	}

	ok, err := a.store.Exists(ctx, rec.ObjectPath)
	if err != nil {
		return nil, apperrors.NewStorageError(apperrors.CodeDownloadFailed,
			fmt.Sprintf("failed to stat snapshot %s", rec.ObjectPath), err)
	}
	if !ok {
		return nil, apperrors.New(apperrors.ErrCategoryStorage, apperrors.CodeSnapshotNotFound,
			fmt.Sprintf("snapshot %s is registered but its object is missing", snapshotID)).
			WithDetails(map[string]interface{}{"object": rec.ObjectPath})
	}

	compressed, err := a.store.Get(ctx, rec.ObjectPath)
	if err != nil {
		return nil, apperrors.NewStorageError(apperrors.CodeDownloadFailed,
			fmt.Sprintf("failed to download snapshot %s", rec.ObjectPath), err)
	}

	payload, err := snappy.Decode(nil, compressed)
	if err != nil {
		return nil, apperrors.NewInternalError(fmt.Sprintf("snapshot %s is corrupt", snapshotID), err)
	}
	return payload, nil
}

// Prune keeps the newest keep snapshots of a document name and deletes the
// rest, then sweeps unregistered objects of that name. It returns the IDs of
// the deleted snapshots. A snapshot whose object could not be deleted stays
// registered.
func (a *Archive) Prune(ctx context.Context, name string, keep int) ([]string, error) {
	name = objectName(name)
	if name == "" {
		return nil, errNameRequired("prune")
	}
	if keep < 0 {
		keep = 0
	}
	records, err := a.List(ctx, name)
	if err != nil {
		return nil, err
	}

	var deleted []string
	if len(records) > keep {
		if deleted, err = a.deleteSnapshots(ctx, records[keep:]); err != nil {
			return deleted, err
		}
		log.Printf("history: pruned %d snapshot(s) of %s", len(deleted), name)
	}

	if _, err := a.Sweep(ctx, name); err != nil {
		return deleted, err
	}
	return deleted, nil
}

func (a *Archive) deleteSnapshots(ctx context.Context, victims []*Record) ([]string, error) {
	byPath := make(map[string]string, len(victims))
	paths := make([]string, 0, len(victims))
	for _, rec := range victims {
		byPath[rec.ObjectPath] = rec.SnapshotID
		paths = append(paths, rec.ObjectPath)
	}

	result, err := storage.NewBatchDeleter(a.store, pruneConcurrency).Delete(ctx, paths)
	if err != nil {
		return nil, apperrors.NewStorageError(apperrors.CodeDeleteFailed, "failed to prune snapshots", err)
	}

	var deleted []string
	for _, p := range paths {
		if _, failed := result.Errors[p]; !failed {
			deleted = append(deleted, byPath[p])
		}
	}
	if err := a.catalog.Delete(ctx, deleted); err != nil {
		return nil, apperrors.NewInternalError("failed to unregister pruned snapshots", err)
	}

	if len(result.Errors) > 0 {
		return deleted, apperrors.NewStorageError(apperrors.CodeDeleteFailed,
			fmt.Sprintf("failed to delete %d snapshot object(s)", len(result.Errors)), nil).
			WithDetails(map[string]interface{}{"failed": len(result.Errors)})
	}
	return deleted, nil
}

// Sweep deletes snapshot objects of a document name that have no catalog
// record, such as uploads whose registration failed. It returns the object
// paths it removed.
func (a *Archive) Sweep(ctx context.Context, name string) ([]string, error) {
	name = objectName(name)
	if name == "" {
		return nil, errNameRequired("sweep")
	}

	keys, err := a.store.ListObjects(ctx, path.Join(a.prefix, name)+"/")
	if err != nil {
		return nil, apperrors.NewStorageError(apperrors.CodeDownloadFailed,
			fmt.Sprintf("failed to list snapshot objects of %s", name), err)
	}
	records, err := a.List(ctx, name)
	if err != nil {
		return nil, err
	}
	registered := make(map[string]bool, len(records))
	for _, rec := range records {
		registered[rec.ObjectPath] = true
	}

	var orphans []string
	for _, key := range keys {
		if strings.HasSuffix(key, objectSuffix) && !registered[key] {
			orphans = append(orphans, key)
		}
	}
	if len(orphans) == 0 {
		return nil, nil
	}

	result, err := storage.NewBatchDeleter(a.store, pruneConcurrency).Delete(ctx, orphans)
	if err != nil {
		return nil, apperrors.NewStorageError(apperrors.CodeDeleteFailed, "failed to sweep snapshot objects", err)
	}
	if len(result.Errors) > 0 {
		return result.Deleted, apperrors.NewStorageError(apperrors.CodeDeleteFailed,
			fmt.Sprintf("failed to delete %d unregistered object(s) of %s", len(result.Errors), name), nil)
	}
	sort.Strings(result.Deleted)
	log.Printf("history: removed %d unregistered object(s) of %s", len(result.Deleted), name)
	return result.Deleted, nil
}

func errNameRequired(op string) error {
	return apperrors.NewInternalError(op+" requires a document name", nil)
}

// objectName turns a document name into a single object path segment.
func objectName(name string) string {
	name = strings.TrimSpace(name)
	return strings.NewReplacer("/", "_", "\\", "_").Replace(name)
}
