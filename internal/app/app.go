// Package app wires the schema loader, document provider and snapshot
// history into the operations the appdna command exposes.
package app

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/appdna/appdna/internal/config"
	"github.com/appdna/appdna/internal/document"
	apperrors "github.com/appdna/appdna/internal/errors"
	"github.com/appdna/appdna/internal/history"
	"github.com/appdna/appdna/internal/observability"
	"github.com/appdna/appdna/internal/schema"
	"github.com/appdna/appdna/internal/storage"
	"github.com/appdna/appdna/internal/validate"
	"github.com/appdna/appdna/pkg/model"
)

// statsWindow is how long validation issue paths stay in the statistics.
const statsWindow = time.Hour

// App manages the lifecycle of shared resources.
type App struct {
	cfg *config.Config

	stats    *observability.PipelineStats
	loader   *schema.Loader
	provider *document.Provider

	// Snapshot history, initialized by Open
	storage storage.ObjectStorage
	catalog history.Catalog
	archive *history.Archive

	mu   sync.Mutex
	open bool
}

// New creates a new App with the given configuration.
func New(cfg *config.Config) (*App, error) {
	cfg.Resolve()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	stats := observability.NewPipelineStats(statsWindow)
	loader := schema.NewLoader(cfg.WorkspaceRoot, schema.DirLocator(cfg.ResourceDir))

	return &App{
		cfg:      cfg,
		stats:    stats,
		loader:   loader,
		provider: document.NewProvider(loader, stats),
	}, nil
}

// Open initializes storage and the snapshot catalog.
func (a *App) Open(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.open {
		return fmt.Errorf("app is already open")
	}

	if err := a.cfg.EnsureDirectories(); err != nil {
		return fmt.Errorf("failed to create directories: %w", err)
	}

	var err error
	switch a.cfg.Storage.Type {
	case config.StorageLocal:
		a.storage, err = storage.NewLocalStorage(a.cfg.Storage.Path)
	case config.StorageS3:
		opts := storage.DefaultS3Options(a.cfg.Storage.S3.Bucket)
		if a.cfg.Storage.S3.Region != "" {
			opts.Region = a.cfg.Storage.S3.Region
		}
		opts.Endpoint = a.cfg.Storage.S3.Endpoint
		opts.PathStyle = a.cfg.Storage.S3.UsePathStyle
		a.storage, err = storage.NewS3Storage(ctx, opts)
	default:
		return fmt.Errorf("unsupported storage type: %s", a.cfg.Storage.Type)
	}
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	log.Printf("app: storage initialized: type=%s", a.cfg.Storage.Type)

	catalog, err := history.NewCatalog(a.cfg.CatalogPath())
	if err != nil {
		return fmt.Errorf("failed to initialize snapshot catalog: %w", err)
	}
	a.catalog = catalog
	a.archive = history.NewArchive(a.storage, catalog, a.cfg.Snapshots.Prefix, a.stats)
	a.open = true
	return nil
}

// Close releases the snapshot catalog.
func (a *App) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if !a.open {
		return nil
	}
	a.open = false
	a.archive = nil
	return a.catalog.Close()
}

// Provider returns the document provider.
func (a *App) Provider() *document.Provider {
	return a.provider
}

// Stats returns the pipeline statistics.
func (a *App) Stats() *observability.PipelineStats {
	return a.stats
}

// Validate loads the document at path and checks it against the schema
// without materializing it.
func (a *App) Validate(ctx context.Context, path string) (*validate.Result, error) {
	raw, err := a.provider.LoadDocument(ctx, path)
	if err != nil {
		return nil, err
	}
	return a.provider.Validate(ctx, raw)
}

// Format loads and validates the document at in and writes it to out in
// canonical form. When snapshots are enabled and the app is open, the
// formatted document is snapshotted as well.
func (a *App) Format(ctx context.Context, in, out string) error {
	root, err := a.provider.LoadRoot(ctx, in)
	if err != nil {
		return err
	}
	if err := a.provider.SaveRoot(ctx, out, root); err != nil {
		return err
	}

	if a.snapshotsActive() {
		if _, err := a.snapshotRoot(ctx, out, root, "fmt"); err != nil {
			return err
		}
	}
	return nil
}

// Snapshot loads and validates the document at path and stores a snapshot.
func (a *App) Snapshot(ctx context.Context, path, label string) (*history.Record, error) {
	if err := a.requireOpen(); err != nil {
		return nil, err
	}
	root, err := a.provider.LoadRoot(ctx, path)
	if err != nil {
		return nil, err
	}
	return a.snapshotRoot(ctx, path, root, label)
}

func (a *App) snapshotRoot(ctx context.Context, path string, root *model.Root, label string) (*history.Record, error) {
	payload, err := a.provider.Encode(root)
	if err != nil {
		return nil, err
	}
	fp, err := document.Fingerprint(root)
	if err != nil {
		return nil, err
	}

	name := filepath.Base(path)
	rec, err := a.archive.Snapshot(ctx, history.Source{
		DocumentID:  a.provider.DocumentID(),
		Name:        name,
		Payload:     payload,
		Fingerprint: fp,
		Label:       label,
	})
	if err != nil {
		return nil, err
	}

	if keep := a.cfg.Snapshots.Retain; keep > 0 {
		if _, err := a.archive.Prune(ctx, name, keep); err != nil {
			log.Printf("app: failed to prune snapshots of %s: %v", name, err)
		}
	}
	return rec, nil
}

// History lists the snapshots of the document at path, newest first.
func (a *App) History(ctx context.Context, path string) ([]*history.Record, error) {
	if err := a.requireOpen(); err != nil {
		return nil, err
	}
	return a.archive.List(ctx, filepath.Base(path))
}

// Restore writes the payload of a snapshot to out.
func (a *App) Restore(ctx context.Context, snapshotID, out string) error {
	if err := a.requireOpen(); err != nil {
		return err
	}
	payload, err := a.archive.Restore(ctx, snapshotID)
	if err != nil {
		return err
	}
	if err := os.WriteFile(out, payload, 0644); err != nil {
		return apperrors.NewWriteError(out, err)
	}
	log.Printf("app: restored snapshot %s to %s", snapshotID, out)
	return nil
}

// Prune keeps the newest keep snapshots of the document at path.
func (a *App) Prune(ctx context.Context, path string, keep int) ([]string, error) {
	if err := a.requireOpen(); err != nil {
		return nil, err
	}
	return a.archive.Prune(ctx, filepath.Base(path), keep)
}

func (a *App) snapshotsActive() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.open && a.cfg.Snapshots.Enabled
}

func (a *App) requireOpen() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.open {
		return fmt.Errorf("app is not open")
	}
	return nil
}
