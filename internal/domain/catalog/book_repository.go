package catalog

import (
	"context"

	"github.com/google/uuid"

	"github.com/bookworks/backend/internal/domain/shared"
)

// BookRepository defines the interface for book persistence
type BookRepository interface {
	// FindByID finds a book by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Book, error)

	// FindByISBN finds a book by its barcode
	FindByISBN(ctx context.Context, isbn string) (*Book, error)

	// FindAll finds all books matching the filter
	FindAll(ctx context.Context, filter shared.Filter) ([]Book, error)

	// Save creates or updates a book
	Save(ctx context.Context, book *Book) error

	// Count counts books matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)
}

// BookVendorRepository defines the interface for vendor associations
type BookVendorRepository interface {
	// FindByBook lists the vendor associations of a book
	FindByBook(ctx context.Context, bookID uuid.UUID) ([]BookVendor, error)

	// Exists checks whether the (book, supplier) association already exists
	Exists(ctx context.Context, bookID, supplierID uuid.UUID) (bool, error)

	// Save creates a vendor association
	Save(ctx context.Context, vendor *BookVendor) error
}
