package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/bookworks/backend/internal/domain/catalog"
	"github.com/bookworks/backend/internal/domain/shared"
)

// GormBookRepository implements BookRepository using GORM
type GormBookRepository struct {
	db *gorm.DB
}

// NewGormBookRepository creates a new GormBookRepository
func NewGormBookRepository(db *gorm.DB) *GormBookRepository {
	return &GormBookRepository{db: db}
}

// FindByID finds a book by its ID
func (r *GormBookRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Book, error) {
	var book catalog.Book
	if err := r.db.WithContext(ctx).First(&book, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &book, nil
}

// FindByISBN finds a book by its barcode
func (r *GormBookRepository) FindByISBN(ctx context.Context, isbn string) (*catalog.Book, error) {
	isbn = strings.TrimSpace(isbn)
	if isbn == "" {
		return nil, shared.NewDomainError("INVALID_ISBN", "ISBN cannot be empty")
	}
	var book catalog.Book
	if err := r.db.WithContext(ctx).Where("isbn = ?", isbn).First(&book).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &book, nil
}

// FindAll finds all books matching the filter
func (r *GormBookRepository) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.Book, error) {
	var books []catalog.Book
	query := r.applyFilter(r.db.WithContext(ctx).Model(&catalog.Book{}), filter)

	if err := query.Find(&books).Error; err != nil {
		return nil, err
	}
	return books, nil
}

// Save creates or updates a book
func (r *GormBookRepository) Save(ctx context.Context, book *catalog.Book) error {
	return r.db.WithContext(ctx).Save(book).Error
}

// Count counts books matching the filter
func (r *GormBookRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applySearch(r.db.WithContext(ctx).Model(&catalog.Book{}), filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *GormBookRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applySearch(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset(filter.Offset()).Limit(filter.Limit())
	}

	if filter.OrderBy != "" {
		orderDir := "ASC"
		if strings.ToLower(filter.OrderDir) == "desc" {
			orderDir = "DESC"
		}
		query = query.Order(filter.OrderBy + " " + orderDir)
	} else {
		query = query.Order("title ASC")
	}

	return query
}

func (r *GormBookRepository) applySearch(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("title ILIKE ? OR isbn ILIKE ? OR authors ILIKE ?", pattern, pattern, pattern)
	}
	return query
}

// Ensure GormBookRepository implements BookRepository
var _ catalog.BookRepository = (*GormBookRepository)(nil)
