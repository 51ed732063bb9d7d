// Package validate checks raw AppDNA documents against the schema document
// and aggregates every violation into an ordered report.
package validate

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	apperrors "github.com/appdna/appdna/internal/errors"
	"github.com/appdna/appdna/internal/schema"
	"github.com/santhosh-tekuri/jsonschema/v5"
)

// SummaryLimit is the number of issues rendered by Result.Summary.
const SummaryLimit = 5

// Issue is a single schema violation.
type Issue struct {
	// Path is the JSON pointer of the offending value, "/" for the document.
	Path string
	// Message describes the violation.
	Message string
	// Keyword is the schema location of the failing keyword.
	Keyword string
}

// Result is the outcome of validating one document.
type Result struct {
	Valid  bool
	Issues []Issue
}

// Validate checks raw against doc. It performs no I/O and does not modify raw.
// raw must consist of values produced by encoding/json.
func Validate(raw any, doc *schema.Document) *Result {
	err := doc.Compiled().Validate(raw)
	if err == nil {
		return &Result{Valid: true}
	}

	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return &Result{Issues: []Issue{{Path: "/", Message: err.Error()}}}
	}

	issues := collect(ve, nil)
	sortIssues(issues)
	return &Result{Issues: issues}
}

// collect flattens the validation error tree into its leaf causes.
func collect(ve *jsonschema.ValidationError, out []Issue) []Issue {
	if len(ve.Causes) == 0 {
		return append(out, Issue{
			Path:    displayPath(ve.InstanceLocation),
			Message: ve.Message,
			Keyword: ve.KeywordLocation,
		})
	}
	for _, c := range ve.Causes {
		out = collect(c, out)
	}
	return out
}

func displayPath(loc string) string {
	if loc == "" {
		return "/"
	}
	return loc
}

// sortIssues orders issues by instance path, comparing array indexes
// numerically, then by keyword location.
func sortIssues(issues []Issue) {
	sort.SliceStable(issues, func(i, j int) bool {
		if c := comparePaths(issues[i].Path, issues[j].Path); c != 0 {
			return c < 0
		}
		return issues[i].Keyword < issues[j].Keyword
	})
}

func comparePaths(a, b string) int {
	as := strings.Split(strings.Trim(a, "/"), "/")
	bs := strings.Split(strings.Trim(b, "/"), "/")
	for i := 0; i < len(as) && i < len(bs); i++ {
		if as[i] == bs[i] {
			continue
		}
		ai, aErr := strconv.Atoi(as[i])
		bi, bErr := strconv.Atoi(bs[i])
		if aErr == nil && bErr == nil {
			if ai < bi {
				return -1
			}
			return 1
		}
		if as[i] < bs[i] {
			return -1
		}
		return 1
	}
	switch {
	case len(as) < len(bs):
		return -1
	case len(as) > len(bs):
		return 1
	}
	return 0
}

// Summary renders the first SummaryLimit issues, one per line, followed by a
// count of the remaining ones.
func (r *Result) Summary() string {
	var b strings.Builder
	for i, is := range r.Issues {
		if i == SummaryLimit {
			break
		}
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "%d. Path: \"%s\" — %s", i+1, is.Path, is.Message)
	}
	if n := len(r.Issues) - SummaryLimit; n > 0 {
		fmt.Fprintf(&b, "\n… and %d more errors.", n)
	}
	return b.String()
}

// Err returns nil for a valid result and a *FailedError otherwise.
func (r *Result) Err(docPath string) error {
	if r.Valid {
		return nil
	}
	return NewFailedError(docPath, r)
}

// FailedError reports a document that does not conform to the schema. It
// carries the complete ordered issue list alongside the truncated summary.
type FailedError struct {
	DocumentPath string
	Issues       []Issue
	Summary      string

	cause *apperrors.AppDNAError
}

// NewFailedError builds the failure for an invalid result.
func NewFailedError(docPath string, r *Result) *FailedError {
	summary := r.Summary()
	return &FailedError{
		DocumentPath: docPath,
		Issues:       r.Issues,
		Summary:      summary,
		cause: apperrors.NewValidationFailed(
			fmt.Sprintf("%s failed schema validation with %d error(s)", docPath, len(r.Issues)),
		).WithDetails(map[string]interface{}{"path": docPath, "errors": len(r.Issues)}),
	}
}

func (e *FailedError) Error() string {
	return fmt.Sprintf("%s:\n%s", e.cause.Error(), e.Summary)
}

// Unwrap exposes the VALIDATION/VALIDATION_FAILED structured error.
func (e *FailedError) Unwrap() error {
	return e.cause
}
