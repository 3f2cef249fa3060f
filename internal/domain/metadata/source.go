package metadata

import (
	"context"
	"strings"

	"github.com/bookworks/backend/internal/domain/shared"
)

// Source-level errors
var (
	ErrInvalidISBN        = shared.NewDomainError("INVALID_ISBN", "A valid ISBN-13 barcode starting with 978 or 979 is required")
	ErrNoSourceConfigured = shared.NewDomainError("NO_SOURCE_CONFIGURED", "No catalog source is configured")
	ErrNoDataFound        = shared.NewDomainError("NO_DATA_FOUND", "No catalog data found for this ISBN")
)

// IsISBN13 reports whether the code looks like an ISBN-13: non-empty and
// carrying one of the book-trade prefixes. Used as a gate before any network
// call is made.
func IsISBN13(code string) bool {
	return strings.HasPrefix(code, "978") || strings.HasPrefix(code, "979")
}

// ResultStatus classifies one source's contribution to a reconciliation run
type ResultStatus string

const (
	// StatusOK means the source returned a usable edition
	StatusOK ResultStatus = "ok"
	// StatusNotFound means the ISBN is not in the source's catalog
	StatusNotFound ResultStatus = "not_found"
	// StatusUnavailable means transport failure or a malformed response;
	// the source is excluded from the merge, the run continues
	StatusUnavailable ResultStatus = "unavailable"
)

// SourceResult is the explicit per-source outcome type. Failures are carried
// as values, never raised: only Ok results contribute fields to the merge.
type SourceResult struct {
	Status ResultStatus
	Fields FieldSet
	Reason string
}

// Ok builds a successful result carrying the parsed field set
func Ok(fields FieldSet) SourceResult {
	return SourceResult{Status: StatusOK, Fields: fields}
}

// NotFound builds a result for an ISBN absent from the source catalog
func NotFound() SourceResult {
	return SourceResult{Status: StatusNotFound}
}

// Unavailable builds a result for a source that could not be consulted
func Unavailable(reason string) SourceResult {
	return SourceResult{Status: StatusUnavailable, Reason: reason}
}

// Source is one external catalog. Fetch retrieves and parses the edition for
// an ISBN, applying the field-inclusion policy against the given snapshot.
// Implementations must be read-only with respect to the record and must not
// return errors: every failure mode maps onto a SourceResult status.
type Source interface {
	Name() string
	Fetch(ctx context.Context, isbn string, snapshot RecordSnapshot, policy Policy) SourceResult
}
