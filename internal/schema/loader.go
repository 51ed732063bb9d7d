// Package schema locates, reads, compiles and caches the JSON Schema document
// describing the AppDNA application-definition format.
package schema

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"

	apperrors "github.com/appdna/appdna/internal/errors"
	"github.com/santhosh-tekuri/jsonschema/v5"
)

// FileName is the schema file looked up in every candidate location.
const FileName = "app-dna.schema.json"

// ResourceLocator resolves a named resource shipped with the hosting tool.
// It reports false when the host has no location for the name.
type ResourceLocator interface {
	ResourcePath(name string) (string, bool)
}

// DirLocator resolves resources inside a single directory.
type DirLocator string

// ResourcePath implements ResourceLocator.
func (d DirLocator) ResourcePath(name string) (string, bool) {
	if d == "" {
		return "", false
	}
	return filepath.Join(string(d), name), true
}

// Document is a parsed and compiled schema. It is immutable once loaded.
type Document struct {
	// Path is the resolved absolute path the schema was read from.
	Path string
	// Raw is the parsed schema tree.
	Raw map[string]any

	compiled *jsonschema.Schema
}

// Compiled returns the compiled validator for the schema.
func (d *Document) Compiled() *jsonschema.Schema {
	return d.compiled
}

// LoaderMetrics holds loader statistics.
type LoaderMetrics struct {
	Calls     int64
	CacheHits int64
	Reads     int64
}

// Loader resolves the schema file once and serves the cached document until
// Clear is called.
type Loader struct {
	workspaceRoot string
	resources     ResourceLocator

	readFile func(string) ([]byte, error)
	statFile func(string) (os.FileInfo, error)

	mu      sync.Mutex
	doc     *Document
	metrics LoaderMetrics
}

// NewLoader creates a loader that tries workspaceRoot first and then the
// location resources reports. Either may be empty/nil.
func NewLoader(workspaceRoot string, resources ResourceLocator) *Loader {
	return &Loader{
		workspaceRoot: workspaceRoot,
		resources:     resources,
		readFile:      os.ReadFile,
		statFile:      os.Stat,
	}
}

// Candidates returns the locations Load tries, in order.
func (l *Loader) Candidates() []string {
	var paths []string
	if l.workspaceRoot != "" {
		paths = append(paths, filepath.Join(l.workspaceRoot, FileName))
	}
	if l.resources != nil {
		if p, ok := l.resources.ResourcePath(FileName); ok && p != "" {
			paths = append(paths, p)
		}
	}
	return paths
}

// Load returns the schema document, reading it from the first existing
// candidate on a cache miss. A cache hit touches no files.
func (l *Loader) Load(ctx context.Context) (*Document, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.metrics.Calls++
	if l.doc != nil {
		l.metrics.CacheHits++
		return l.doc, nil
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	candidates := l.Candidates()
	path := ""
	for _, c := range candidates {
		if fi, err := l.statFile(c); err == nil && !fi.IsDir() {
			path = c
			break
		}
	}
	if path == "" {
		return nil, apperrors.NewSchemaNotFound(candidates)
	}

	data, err := l.readFile(path)
	l.metrics.Reads++
	if err != nil {
		return nil, apperrors.NewSchemaInvalid(path, err)
	}

	doc, err := compile(path, data)
	if err != nil {
		return nil, apperrors.NewSchemaInvalid(path, err)
	}

	l.doc = doc
	log.Printf("schema: loaded %s", doc.Path)
	return doc, nil
}

// Clear discards the cached document; the next Load reads the file again.
func (l *Loader) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.doc = nil
}

// Metrics returns current loader metrics.
func (l *Loader) Metrics() LoaderMetrics {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.metrics
}

func compile(path string, data []byte) (*Document, error) {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft7
	if err := compiler.AddResource(abs, bytes.NewReader(data)); err != nil {
		return nil, fmt.Errorf("add resource: %w", err)
	}
	compiled, err := compiler.Compile(abs)
	if err != nil {
		return nil, fmt.Errorf("compile: %w", err)
	}

	return &Document{
		Path:     abs,
		Raw:      raw,
		compiled: compiled,
	}, nil
}
