package catalog

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/bookworks/backend/internal/domain/catalog"
	"github.com/bookworks/backend/internal/domain/metadata"
)

// EnrichmentService reconciles book records against the configured external
// catalogs. Sources are consulted in their configured order; the slice is
// empty when no catalog credentials are present.
type EnrichmentService struct {
	bookRepo catalog.BookRepository
	sources  []metadata.Source
	logger   *zap.Logger
}

// NewEnrichmentService creates a new EnrichmentService
func NewEnrichmentService(bookRepo catalog.BookRepository, sources []metadata.Source, logger *zap.Logger) *EnrichmentService {
	return &EnrichmentService{
		bookRepo: bookRepo,
		sources:  sources,
		logger:   logger,
	}
}

// EnrichOnScan fills the empty fields of a newly scanned book from the
// catalogs without touching anything already present. Books whose barcode is
// not an ISBN-13 are left alone; that is a normal outcome for non-book
// merchandise, not an error.
func (s *EnrichmentService) EnrichOnScan(ctx context.Context, bookID uuid.UUID) (*EnrichmentResponse, error) {
	book, err := s.bookRepo.FindByID(ctx, bookID)
	if err != nil {
		return nil, err
	}

	if !book.HasISBN() {
		s.logger.Debug("Skipping enrichment for non-ISBN barcode", zap.String("barcode", book.ISBN))
		return skippedResponse(book), nil
	}

	if changed := book.EnsureInternalRef(); changed {
		if err := s.bookRepo.Save(ctx, book); err != nil {
			return nil, err
		}
	}
	if len(s.sources) == 0 {
		return nil, metadata.ErrNoSourceConfigured
	}

	outcome := metadata.GapFill(ctx, s.sources, book.ISBN, book.Snapshot())
	return s.apply(ctx, book, outcome)
}

// RefreshMetadata re-fetches every field from the catalogs and overwrites the
// record, preferring the earlier-configured source on conflicts. Unlike the
// scan path, a non-ISBN barcode blocks the operation.
func (s *EnrichmentService) RefreshMetadata(ctx context.Context, bookID uuid.UUID) (*EnrichmentResponse, error) {
	book, err := s.bookRepo.FindByID(ctx, bookID)
	if err != nil {
		return nil, err
	}

	if !book.HasISBN() {
		return nil, metadata.ErrInvalidISBN
	}
	if len(s.sources) == 0 {
		return nil, metadata.ErrNoSourceConfigured
	}

	outcome := metadata.Priority(ctx, s.sources, book.ISBN, book.Snapshot())
	if outcome.Fields.IsEmpty() {
		return nil, metadata.ErrNoDataFound
	}
	return s.apply(ctx, book, outcome)
}

// apply writes the merged fields onto the book and saves when anything changed
func (s *EnrichmentService) apply(ctx context.Context, book *catalog.Book, outcome metadata.Outcome) (*EnrichmentResponse, error) {
	applied := book.ApplyUpdates(outcome.Fields)
	if len(applied) > 0 {
		if err := s.bookRepo.Save(ctx, book); err != nil {
			return nil, err
		}
	}

	s.logger.Info("Book metadata reconciled",
		zap.String("isbn", book.ISBN),
		zap.Int("fields_applied", len(applied)),
		zap.Strings("contributing_sources", outcome.Contributed()),
	)

	return newEnrichmentResponse(book, applied, outcome.Reports), nil
}
