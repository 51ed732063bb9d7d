// Package storage provides the object storage backends snapshots are kept in.
package storage

import (
	"context"
	"errors"
)

// Common errors for storage operations.
var (
	ErrObjectNotFound = errors.New("object not found")
	ErrUploadFailed   = errors.New("upload failed")
	ErrDownloadFailed = errors.New("download failed")
	ErrDeleteFailed   = errors.New("delete failed")
)

// ObjectStorage abstracts object storage operations.
// Implementations are S3 (or any S3-compatible service) and the local filesystem.
type ObjectStorage interface {
	// Put stores data under objectPath, replacing any existing object.
	// Returns the ETag of the stored object.
	Put(ctx context.Context, objectPath string, data []byte) (string, error)

	// Get returns the content of an object.
	// Returns ErrObjectNotFound when the object does not exist.
	Get(ctx context.Context, objectPath string) ([]byte, error)

	// Delete removes an object from storage. Deleting a missing object succeeds.
	Delete(ctx context.Context, objectPath string) error

	// Exists checks if an object exists in storage.
	Exists(ctx context.Context, objectPath string) (bool, error)

	// ListObjects returns all object paths under the given prefix.
	ListObjects(ctx context.Context, prefix string) ([]string, error)
}
