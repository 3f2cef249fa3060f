package catalog

import (
	"context"

	"github.com/google/uuid"

	"github.com/bookworks/backend/internal/domain/catalog"
	"github.com/bookworks/backend/internal/domain/shared"
)

// BookService handles read operations on the book catalog
type BookService struct {
	bookRepo catalog.BookRepository
}

// NewBookService creates a new BookService
func NewBookService(bookRepo catalog.BookRepository) *BookService {
	return &BookService{bookRepo: bookRepo}
}

// Get returns one book by ID
func (s *BookService) Get(ctx context.Context, id uuid.UUID) (*BookResponse, error) {
	book, err := s.bookRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := newBookResponse(book)
	return &resp, nil
}

// GetByISBN returns one book by barcode
func (s *BookService) GetByISBN(ctx context.Context, isbn string) (*BookResponse, error) {
	book, err := s.bookRepo.FindByISBN(ctx, isbn)
	if err != nil {
		return nil, err
	}
	resp := newBookResponse(book)
	return &resp, nil
}

// List returns books matching the filter plus the total count
func (s *BookService) List(ctx context.Context, filter shared.Filter) ([]BookResponse, int64, error) {
	books, err := s.bookRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.bookRepo.Count(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]BookResponse, 0, len(books))
	for i := range books {
		responses = append(responses, newBookResponse(&books[i]))
	}
	return responses, total, nil
}
