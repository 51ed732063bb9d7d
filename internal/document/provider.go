// Package document owns the lifecycle of the AppDNA document currently being
// edited: reading it from disk, validating it against the schema,
// materializing the typed tree and writing it back.
package document

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/spaolacci/murmur3"

	apperrors "github.com/appdna/appdna/internal/errors"
	"github.com/appdna/appdna/internal/observability"
	"github.com/appdna/appdna/internal/schema"
	"github.com/appdna/appdna/internal/validate"
	"github.com/appdna/appdna/pkg/model"
)

// SchemaSource supplies the compiled schema documents are validated against.
type SchemaSource interface {
	Load(ctx context.Context) (*schema.Document, error)
}

// Provider holds the raw and materialized forms of the current document.
// Loading a document replaces whatever was cached before.
type Provider struct {
	schemas SchemaSource
	stats   *observability.PipelineStats

	mu          sync.Mutex
	raw         map[string]any
	root        *model.Root
	path        string
	documentID  string
	fingerprint uint64
}

// NewProvider creates a provider validating against schemas. stats may be nil.
func NewProvider(schemas SchemaSource, stats *observability.PipelineStats) *Provider {
	return &Provider{
		schemas: schemas,
		stats:   stats,
	}
}

// LoadDocument reads and parses the JSON file at path and caches the result
// as the current raw document. The typed tree is left untouched.
func (p *Provider) LoadDocument(ctx context.Context, path string) (map[string]any, error) {
	start := time.Now()
	raw, err := p.readDocument(ctx, path)
	p.stats.RecordStage(observability.StageLoad, time.Since(start), apperrors.GetCode(err), err != nil)
	if err != nil {
		return nil, err
	}

	p.mu.Lock()
	p.raw = raw
	p.mu.Unlock()
	return raw, nil
}

func (p *Provider) readDocument(ctx context.Context, path string) (map[string]any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, apperrors.NewDocumentError(apperrors.CodeFileNotFound, path, err)
		}
		return nil, apperrors.NewDocumentError(apperrors.CodeReadFailed, path, err)
	}

	raw, err := parseObject(data)
	if err != nil {
		return nil, apperrors.NewDocumentError(apperrors.CodeParseError, path, err)
	}
	return raw, nil
}

// parseObject decodes a single JSON object. Numbers keep their literal text.
func parseObject(data []byte) (map[string]any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, fmt.Errorf("unexpected data after top-level value")
	}

	obj, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("top-level value is %T, not an object", v)
	}
	return obj, nil
}

// Raw returns the cached raw document, if any.
func (p *Provider) Raw() (map[string]any, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.raw, p.raw != nil
}

// Validate checks raw against the schema and records the outcome.
func (p *Provider) Validate(ctx context.Context, raw map[string]any) (*validate.Result, error) {
	doc, err := p.schemas.Load(ctx)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	res := validate.Validate(raw, doc)
	code := ""
	if !res.Valid {
		code = apperrors.CodeValidationFailed
		for _, is := range res.Issues {
			p.stats.RecordIssuePath(is.Path)
		}
	}
	p.stats.RecordStage(observability.StageValidate, time.Since(start), code, !res.Valid)
	return res, nil
}

// LoadRoot loads the document at path, validates it and materializes the
// typed tree. A document that fails validation yields a *validate.FailedError
// and the previously cached tree stays in place.
func (p *Provider) LoadRoot(ctx context.Context, path string) (*model.Root, error) {
	raw, err := p.LoadDocument(ctx, path)
	if err != nil {
		return nil, err
	}

	res, err := p.Validate(ctx, raw)
	if err != nil {
		return nil, err
	}
	if !res.Valid {
		log.Printf("document: %s failed validation with %d issue(s)", path, len(res.Issues))
		return nil, res.Err(path)
	}

	rootRaw, _ := raw["root"].(map[string]any)
	root := model.FromRaw[model.Root](rootRaw)

	fp, err := fingerprint(root)
	if err != nil {
		return nil, err
	}

	p.mu.Lock()
	p.root = root
	p.path = path
	p.documentID = uuid.NewString()
	p.fingerprint = fp
	p.mu.Unlock()

	log.Printf("document: loaded %s (%d namespace(s))", path, len(root.Namespaces))
	return root, nil
}

// Root returns the current typed tree, if one has been materialized.
func (p *Provider) Root() (*model.Root, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.root, p.root != nil
}

// NewRoot starts a fresh document with the two required fields set and makes
// it the current document. It has no path until it is saved.
func (p *Provider) NewRoot(name, databaseName string) *model.Root {
	root := model.NewRoot()
	root.Name = name
	root.DatabaseName = databaseName

	p.mu.Lock()
	p.raw = nil
	p.root = root
	p.path = ""
	p.documentID = uuid.NewString()
	p.fingerprint = 0
	p.mu.Unlock()
	return root
}

// Encode returns the bytes SaveRoot writes for root: {"root": ...} indented
// by two spaces and terminated by a newline.
func (p *Provider) Encode(root *model.Root) ([]byte, error) {
	if root == nil {
		return nil, apperrors.NewInternalError("cannot encode a nil root", nil)
	}
	body, err := model.Marshal(root)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to encode document", err)
	}

	var compact bytes.Buffer
	compact.WriteString(`{"root":`)
	compact.Write(body)
	compact.WriteByte('}')

	var out bytes.Buffer
	if err := json.Indent(&out, compact.Bytes(), "", "  "); err != nil {
		return nil, apperrors.NewInternalError("failed to indent document", err)
	}
	out.WriteByte('\n')
	return out.Bytes(), nil
}

// SaveRoot writes root to path, replacing the file. A failed write is
// reported as WRITE_ERROR and nothing is rolled back. Saving the current
// tree makes path the current document path.
func (p *Provider) SaveRoot(ctx context.Context, path string, root *model.Root) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	start := time.Now()
	err := p.writeRoot(path, root)
	p.stats.RecordStage(observability.StageSave, time.Since(start), apperrors.GetCode(err), err != nil)
	if err != nil {
		return err
	}

	fp, err := fingerprint(root)
	if err != nil {
		return err
	}

	p.mu.Lock()
	if p.root == root {
		p.path = path
		p.fingerprint = fp
	}
	p.mu.Unlock()

	log.Printf("document: saved %s", path)
	return nil
}

func (p *Provider) writeRoot(path string, root *model.Root) error {
	data, err := p.Encode(root)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return apperrors.NewWriteError(path, err)
	}
	return nil
}

// ClearCache drops the cached raw document and typed tree.
func (p *Provider) ClearCache() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.raw = nil
	p.root = nil
	p.path = ""
	p.documentID = ""
	p.fingerprint = 0
}

// Modified reports whether the current tree differs from what was last
// loaded or saved. A tree created by NewRoot counts as modified until saved.
func (p *Provider) Modified() bool {
	p.mu.Lock()
	root, recorded := p.root, p.fingerprint
	p.mu.Unlock()

	if root == nil {
		return false
	}
	fp, err := fingerprint(root)
	if err != nil {
		return true
	}
	return fp != recorded
}

// DocumentID returns the identifier assigned when the current document was
// loaded or created.
func (p *Provider) DocumentID() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.documentID
}

// Path returns the file the current document was loaded from or saved to.
func (p *Provider) Path() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.path
}

// Fingerprint returns the murmur3 hash of root's canonical encoding.
func Fingerprint(root *model.Root) (uint64, error) {
	return fingerprint(root)
}

func fingerprint(root *model.Root) (uint64, error) {
	body, err := model.Marshal(root)
	if err != nil {
		return 0, apperrors.NewInternalError("failed to fingerprint document", err)
	}
	return murmur3.Sum64(body), nil
}
