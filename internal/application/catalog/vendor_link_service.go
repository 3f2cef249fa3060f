package catalog

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/bookworks/backend/internal/domain/catalog"
	"github.com/bookworks/backend/internal/domain/partner"
	"github.com/bookworks/backend/internal/domain/shared"
)

// VendorLinkService links a book to the supplier named in a catalog's
// commercial terms. The supplier is matched by case-insensitive substring
// against the supplier directory; no match, or any lookup failure, is logged
// and dropped so a missing vendor never disturbs a reconciliation run.
type VendorLinkService struct {
	bookRepo     catalog.BookRepository
	supplierRepo partner.SupplierRepository
	vendorRepo   catalog.BookVendorRepository
	logger       *zap.Logger
}

// NewVendorLinkService creates a new VendorLinkService
func NewVendorLinkService(
	bookRepo catalog.BookRepository,
	supplierRepo partner.SupplierRepository,
	vendorRepo catalog.BookVendorRepository,
	logger *zap.Logger,
) *VendorLinkService {
	return &VendorLinkService{
		bookRepo:     bookRepo,
		supplierRepo: supplierRepo,
		vendorRepo:   vendorRepo,
		logger:       logger,
	}
}

// LinkSupplier associates the book carrying isbn with the first supplier
// whose name contains supplierName. The association is idempotent: an
// existing (book, supplier) pair is left untouched.
func (s *VendorLinkService) LinkSupplier(ctx context.Context, isbn, supplierName string) {
	book, err := s.bookRepo.FindByISBN(ctx, isbn)
	if err != nil {
		s.logger.Warn("Cannot link supplier, book not found",
			zap.String("isbn", isbn), zap.Error(err))
		return
	}

	supplier, err := s.supplierRepo.FindFirstByNameContains(ctx, supplierName)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			s.logger.Info("No supplier matches catalog name",
				zap.String("isbn", isbn), zap.String("supplier_name", supplierName))
		} else {
			s.logger.Warn("Supplier lookup failed",
				zap.String("supplier_name", supplierName), zap.Error(err))
		}
		return
	}

	exists, err := s.vendorRepo.Exists(ctx, book.ID, supplier.ID)
	if err != nil {
		s.logger.Warn("Vendor association lookup failed",
			zap.String("isbn", isbn), zap.Error(err))
		return
	}
	if exists {
		return
	}

	vendor := catalog.NewBookVendor(book.ID, supplier.ID)
	if err := s.vendorRepo.Save(ctx, vendor); err != nil {
		s.logger.Warn("Failed to save vendor association",
			zap.String("isbn", isbn), zap.String("supplier", supplier.Name), zap.Error(err))
		return
	}

	s.logger.Info("Linked book to supplier",
		zap.String("isbn", isbn), zap.String("supplier", supplier.Name))
}
