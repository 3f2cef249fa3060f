package persistence

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/bookworks/backend/internal/domain/catalog"
)

// GormBookVendorRepository implements BookVendorRepository using GORM
type GormBookVendorRepository struct {
	db *gorm.DB
}

// NewGormBookVendorRepository creates a new GormBookVendorRepository
func NewGormBookVendorRepository(db *gorm.DB) *GormBookVendorRepository {
	return &GormBookVendorRepository{db: db}
}

// FindByBook lists the vendor associations of a book
func (r *GormBookVendorRepository) FindByBook(ctx context.Context, bookID uuid.UUID) ([]catalog.BookVendor, error) {
	var vendors []catalog.BookVendor
	if err := r.db.WithContext(ctx).
		Where("book_id = ?", bookID).
		Order("created_at ASC").
		Find(&vendors).Error; err != nil {
		return nil, err
	}
	return vendors, nil
}

// Exists checks whether the (book, supplier) association already exists
func (r *GormBookVendorRepository) Exists(ctx context.Context, bookID, supplierID uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&catalog.BookVendor{}).
		Where("book_id = ? AND supplier_id = ?", bookID, supplierID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Save creates a vendor association
func (r *GormBookVendorRepository) Save(ctx context.Context, vendor *catalog.BookVendor) error {
	return r.db.WithContext(ctx).Save(vendor).Error
}

// Ensure GormBookVendorRepository implements BookVendorRepository
var _ catalog.BookVendorRepository = (*GormBookVendorRepository)(nil)
