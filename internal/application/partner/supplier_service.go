package partner

import (
	"context"

	"github.com/google/uuid"

	"github.com/bookworks/backend/internal/domain/partner"
	"github.com/bookworks/backend/internal/domain/shared"
)

// SupplierService handles supplier directory operations. The directory is
// what the Titlepage feed's free-text supplier names are matched against.
type SupplierService struct {
	supplierRepo partner.SupplierRepository
}

// NewSupplierService creates a new SupplierService
func NewSupplierService(supplierRepo partner.SupplierRepository) *SupplierService {
	return &SupplierService{supplierRepo: supplierRepo}
}

// Create creates a new supplier
func (s *SupplierService) Create(ctx context.Context, req CreateSupplierRequest) (*SupplierResponse, error) {
	if _, err := s.supplierRepo.FindByCode(ctx, req.Code); err == nil {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Supplier with this code already exists")
	}

	supplier, err := partner.NewSupplier(req.Code, req.Name)
	if err != nil {
		return nil, err
	}
	supplier.ContactName = req.ContactName
	supplier.Phone = req.Phone
	supplier.Email = req.Email
	supplier.Notes = req.Notes

	if err := s.supplierRepo.Save(ctx, supplier); err != nil {
		return nil, err
	}

	resp := newSupplierResponse(supplier)
	return &resp, nil
}

// Get returns one supplier by ID
func (s *SupplierService) Get(ctx context.Context, id uuid.UUID) (*SupplierResponse, error) {
	supplier, err := s.supplierRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := newSupplierResponse(supplier)
	return &resp, nil
}

// GetByCode returns one supplier by code
func (s *SupplierService) GetByCode(ctx context.Context, code string) (*SupplierResponse, error) {
	supplier, err := s.supplierRepo.FindByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	resp := newSupplierResponse(supplier)
	return &resp, nil
}

// List returns suppliers matching the filter
func (s *SupplierService) List(ctx context.Context, filter shared.Filter) ([]SupplierResponse, error) {
	suppliers, err := s.supplierRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}

	responses := make([]SupplierResponse, 0, len(suppliers))
	for i := range suppliers {
		responses = append(responses, newSupplierResponse(&suppliers[i]))
	}
	return responses, nil
}

// Rename updates a supplier's display name
func (s *SupplierService) Rename(ctx context.Context, id uuid.UUID, name string) (*SupplierResponse, error) {
	supplier, err := s.supplierRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := supplier.Rename(name); err != nil {
		return nil, err
	}
	if err := s.supplierRepo.Save(ctx, supplier); err != nil {
		return nil, err
	}
	resp := newSupplierResponse(supplier)
	return &resp, nil
}

// Deactivate marks a supplier inactive
func (s *SupplierService) Deactivate(ctx context.Context, id uuid.UUID) (*SupplierResponse, error) {
	supplier, err := s.supplierRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	supplier.Deactivate()
	if err := s.supplierRepo.Save(ctx, supplier); err != nil {
		return nil, err
	}
	resp := newSupplierResponse(supplier)
	return &resp, nil
}
