package catalog

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/bookworks/backend/internal/domain/metadata"
	"github.com/bookworks/backend/internal/domain/shared"
)

// catalogSearchURL is the public search page of the Hardcover catalog
const catalogSearchURL = "https://hardcover.app/search?q=%s"

// Book represents one stocked title. It is the aggregate root the metadata
// reconciler writes onto; the reconciler itself only ever proposes a sparse
// field update, it never owns the record's lifecycle.
type Book struct {
	shared.BaseAggregateRoot
	ISBN            string          `gorm:"type:varchar(20);not null;uniqueIndex"`
	InternalRef     string          `gorm:"type:varchar(50);index"`
	Title           string          `gorm:"type:varchar(500)"`
	Description     string          `gorm:"type:text"` // rich text (HTML)
	Authors         string          `gorm:"type:varchar(500)"`
	Publisher       string          `gorm:"type:varchar(200)"`
	PublicationDate string          `gorm:"type:varchar(20)"` // ISO date, or raw source value if unparseable
	CoverImage      []byte          `gorm:"type:bytea"`
	WeightKg        float64         `gorm:"type:decimal(10,3);not null;default:0"`
	ListPrice       decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
}

// TableName returns the table name for GORM
func (Book) TableName() string {
	return "books"
}

// NewBook creates a new book record keyed by its barcode
func NewBook(isbn string) (*Book, error) {
	isbn = strings.TrimSpace(isbn)
	if isbn == "" {
		return nil, shared.NewDomainError("INVALID_ISBN", "Book barcode cannot be empty")
	}

	return &Book{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		ISBN:              isbn,
		ListPrice:         decimal.Zero,
	}, nil
}

// HasISBN reports whether the barcode carries a book-trade ISBN-13 prefix
func (b *Book) HasISBN() bool {
	return metadata.IsISBN13(b.ISBN)
}

// EnsureInternalRef copies the barcode into the internal reference when the
// reference is still empty. Returns true if it changed anything.
func (b *Book) EnsureInternalRef() bool {
	if b.InternalRef != "" || b.ISBN == "" {
		return false
	}
	b.InternalRef = b.ISBN
	return true
}

// Snapshot captures the book's current field values for emptiness checks
func (b *Book) Snapshot() metadata.RecordSnapshot {
	return metadata.RecordSnapshot{
		Title:           b.Title,
		Description:     b.Description,
		Authors:         b.Authors,
		Publisher:       b.Publisher,
		PublicationDate: b.PublicationDate,
		HasCoverImage:   len(b.CoverImage) > 0,
		WeightKg:        b.WeightKg,
		ListPrice:       b.ListPrice,
	}
}

// ApplyUpdates writes a merged field set onto the book and returns the list
// of fields that were set
func (b *Book) ApplyUpdates(fields metadata.FieldSet) []metadata.Field {
	applied := fields.Fields()
	if len(applied) == 0 {
		return nil
	}

	if fields.Title != nil {
		b.Title = *fields.Title
	}
	if fields.Description != nil {
		b.Description = *fields.Description
	}
	if fields.Authors != nil {
		b.Authors = *fields.Authors
	}
	if fields.Publisher != nil {
		b.Publisher = *fields.Publisher
	}
	if fields.PublicationDate != nil {
		b.PublicationDate = *fields.PublicationDate
	}
	if len(fields.CoverImage) > 0 {
		b.CoverImage = fields.CoverImage
	}
	if fields.WeightKg != nil {
		b.WeightKg = *fields.WeightKg
	}
	if fields.ListPrice != nil {
		b.ListPrice = *fields.ListPrice
	}

	b.UpdatedAt = time.Now()
	b.IncrementVersion()

	return applied
}

// CatalogSearchURL returns the public catalog search page for this book's ISBN
func (b *Book) CatalogSearchURL() string {
	return fmt.Sprintf(catalogSearchURL, b.ISBN)
}
