package partner

import (
	"context"

	"github.com/google/uuid"

	"github.com/bookworks/backend/internal/domain/shared"
)

// SupplierRepository defines the interface for supplier persistence
type SupplierRepository interface {
	// FindByID finds a supplier by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Supplier, error)

	// FindByCode finds a supplier by its code
	FindByCode(ctx context.Context, code string) (*Supplier, error)

	// FindFirstByNameContains finds the first supplier whose name contains the
	// given text, matched case-insensitively. Returns shared.ErrNotFound when
	// nothing matches.
	FindFirstByNameContains(ctx context.Context, name string) (*Supplier, error)

	// FindAll finds all suppliers matching the filter
	FindAll(ctx context.Context, filter shared.Filter) ([]Supplier, error)

	// Save creates or updates a supplier
	Save(ctx context.Context, supplier *Supplier) error
}
