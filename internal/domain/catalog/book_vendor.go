package catalog

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/bookworks/backend/internal/domain/shared"
)

// BookVendor associates a supplier with a book. Associations are idempotent:
// a (book, supplier) pair exists at most once.
type BookVendor struct {
	shared.BaseEntity
	BookID     uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_book_vendor,priority:1"`
	SupplierID uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_book_vendor,priority:2"`
	MinQty     decimal.Decimal `gorm:"type:decimal(18,4);not null;default:1"`
}

// TableName returns the table name for GORM
func (BookVendor) TableName() string {
	return "book_vendors"
}

// NewBookVendor creates a vendor association with the default minimum order quantity
func NewBookVendor(bookID, supplierID uuid.UUID) *BookVendor {
	return &BookVendor{
		BaseEntity: shared.NewBaseEntity(),
		BookID:     bookID,
		SupplierID: supplierID,
		MinQty:     decimal.NewFromInt(1),
	}
}
