package storage

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// LocalStorage keeps objects as files below a root directory. Object paths
// are slash-separated and map one to one onto relative file paths.
// Writes are atomic renames, so no locking is needed.
type LocalStorage struct {
	root string
}

// NewLocalStorage creates root if needed.
func NewLocalStorage(root string) (*LocalStorage, error) {
	if err := os.MkdirAll(root, 0755); err != nil {
		return nil, fmt.Errorf("create storage root %s: %w", root, err)
	}
	return &LocalStorage{root: root}, nil
}

// Put writes data atomically and returns its hex MD5, the same value S3
// reports as ETag for single-part uploads.
func (l *LocalStorage) Put(ctx context.Context, objectPath string, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err := writeAtomic(l.file(objectPath), data); err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrUploadFailed, objectPath, err)
	}
	sum := md5.Sum(data)
	return hex.EncodeToString(sum[:]), nil
}

// writeAtomic writes to a hidden temp file in the destination directory and
// renames it over dest.
func writeAtomic(dest string, data []byte) (err error) {
	dir := filepath.Dir(dest)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, ".put-*")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			os.Remove(tmp.Name())
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err = tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), dest)
}

// Get reads an object. A missing file yields ErrObjectNotFound.
func (l *LocalStorage) Get(ctx context.Context, objectPath string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(l.file(objectPath))
	switch {
	case err == nil:
		return data, nil
	case errors.Is(err, fs.ErrNotExist):
		return nil, ErrObjectNotFound
	default:
		return nil, fmt.Errorf("%w: %s: %v", ErrDownloadFailed, objectPath, err)
	}
}

// Delete removes an object. Deleting a missing object succeeds, as on S3.
func (l *LocalStorage) Delete(ctx context.Context, objectPath string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	err := os.Remove(l.file(objectPath))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: %s: %v", ErrDeleteFailed, objectPath, err)
	}
	return nil
}

// Exists reports whether an object file is present.
func (l *LocalStorage) Exists(ctx context.Context, objectPath string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	_, err := os.Stat(l.file(objectPath))
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return err == nil, err
}

// ListObjects returns the sorted object paths below prefix. Temp files from
// in-flight writes are skipped.
func (l *LocalStorage) ListObjects(ctx context.Context, prefix string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var keys []string
	err := filepath.WalkDir(l.file(prefix), func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil
			}
			return err
		}
		if d.IsDir() || strings.HasPrefix(d.Name(), ".") {
			return nil
		}
		rel, err := filepath.Rel(l.root, p)
		if err != nil {
			return err
		}
		keys = append(keys, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", prefix, err)
	}
	sort.Strings(keys)
	return keys, nil
}

func (l *LocalStorage) file(objectPath string) string {
	return filepath.Join(l.root, filepath.FromSlash(objectPath))
}
