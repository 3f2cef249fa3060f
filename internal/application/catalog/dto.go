package catalog

import (
	"time"

	"github.com/google/uuid"

	"github.com/bookworks/backend/internal/domain/catalog"
	"github.com/bookworks/backend/internal/domain/metadata"
)

// BookResponse is the API representation of a book record
type BookResponse struct {
	ID               uuid.UUID `json:"id"`
	ISBN             string    `json:"isbn"`
	InternalRef      string    `json:"internal_ref,omitempty"`
	Title            string    `json:"title,omitempty"`
	Description      string    `json:"description,omitempty"`
	Authors          string    `json:"authors,omitempty"`
	Publisher        string    `json:"publisher,omitempty"`
	PublicationDate  string    `json:"publication_date,omitempty"`
	HasCoverImage    bool      `json:"has_cover_image"`
	WeightKg         float64   `json:"weight_kg,omitempty"`
	ListPrice        string    `json:"list_price,omitempty"`
	CatalogSearchURL string    `json:"catalog_search_url"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// SourceReportResponse describes how one catalog source fared during a run
type SourceReportResponse struct {
	Source string `json:"source"`
	Status string `json:"status"`
	Reason string `json:"reason,omitempty"`
}

// EnrichmentResponse is the outcome of one reconciliation run
type EnrichmentResponse struct {
	Book          BookResponse           `json:"book"`
	Skipped       bool                   `json:"skipped"`
	AppliedFields []string               `json:"applied_fields"`
	Sources       []SourceReportResponse `json:"sources"`
}

// newBookResponse maps a book aggregate to its API representation
func newBookResponse(book *catalog.Book) BookResponse {
	resp := BookResponse{
		ID:               book.ID,
		ISBN:             book.ISBN,
		InternalRef:      book.InternalRef,
		Title:            book.Title,
		Description:      book.Description,
		Authors:          book.Authors,
		Publisher:        book.Publisher,
		PublicationDate:  book.PublicationDate,
		HasCoverImage:    len(book.CoverImage) > 0,
		WeightKg:         book.WeightKg,
		CatalogSearchURL: book.CatalogSearchURL(),
		CreatedAt:        book.CreatedAt,
		UpdatedAt:        book.UpdatedAt,
	}
	if !book.ListPrice.IsZero() {
		resp.ListPrice = book.ListPrice.String()
	}
	return resp
}

// newEnrichmentResponse maps a reconciliation outcome to its API representation
func newEnrichmentResponse(book *catalog.Book, applied []metadata.Field, reports []metadata.SourceReport) *EnrichmentResponse {
	fields := make([]string, 0, len(applied))
	for _, f := range applied {
		fields = append(fields, string(f))
	}

	sources := make([]SourceReportResponse, 0, len(reports))
	for _, r := range reports {
		sources = append(sources, SourceReportResponse{
			Source: r.Source,
			Status: string(r.Status),
			Reason: r.Reason,
		})
	}

	return &EnrichmentResponse{
		Book:          newBookResponse(book),
		AppliedFields: fields,
		Sources:       sources,
	}
}

// skippedResponse marks a book whose barcode is not an ISBN-13
func skippedResponse(book *catalog.Book) *EnrichmentResponse {
	return &EnrichmentResponse{
		Book:          newBookResponse(book),
		Skipped:       true,
		AppliedFields: []string{},
		Sources:       []SourceReportResponse{},
	}
}
