package catalog

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/bookworks/backend/internal/domain/catalog"
	"github.com/bookworks/backend/internal/domain/metadata"
	"github.com/bookworks/backend/internal/domain/shared"
)

// fakeBookRepo is an in-memory BookRepository
type fakeBookRepo struct {
	books map[uuid.UUID]*catalog.Book
	saves int
}

func newFakeBookRepo(books ...*catalog.Book) *fakeBookRepo {
	repo := &fakeBookRepo{books: make(map[uuid.UUID]*catalog.Book)}
	for _, b := range books {
		repo.books[b.ID] = b
	}
	return repo
}

func (r *fakeBookRepo) FindByID(_ context.Context, id uuid.UUID) (*catalog.Book, error) {
	book, ok := r.books[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return book, nil
}

func (r *fakeBookRepo) FindByISBN(_ context.Context, isbn string) (*catalog.Book, error) {
	for _, b := range r.books {
		if b.ISBN == isbn {
			return b, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *fakeBookRepo) FindAll(_ context.Context, _ shared.Filter) ([]catalog.Book, error) {
	var out []catalog.Book
	for _, b := range r.books {
		out = append(out, *b)
	}
	return out, nil
}

func (r *fakeBookRepo) Save(_ context.Context, book *catalog.Book) error {
	r.books[book.ID] = book
	r.saves++
	return nil
}

func (r *fakeBookRepo) Count(_ context.Context, _ shared.Filter) (int64, error) {
	return int64(len(r.books)), nil
}

// fixedSource replays a fixed field set through the policy gate
type fixedSource struct {
	name   string
	result metadata.SourceResult
	gated  metadata.FieldSet
	calls  int
}

func (s *fixedSource) Name() string { return s.name }

func (s *fixedSource) Fetch(_ context.Context, _ string, snapshot metadata.RecordSnapshot, policy metadata.Policy) metadata.SourceResult {
	s.calls++
	if s.result.Status != metadata.StatusOK {
		return s.result
	}
	var fields metadata.FieldSet
	if s.gated.Title != nil && policy.Includes(snapshot, metadata.FieldTitle) {
		fields.Title = s.gated.Title
	}
	if s.gated.Publisher != nil && policy.Includes(snapshot, metadata.FieldPublisher) {
		fields.Publisher = s.gated.Publisher
	}
	if s.gated.Authors != nil && policy.Includes(snapshot, metadata.FieldAuthors) {
		fields.Authors = s.gated.Authors
	}
	return metadata.Ok(fields)
}

func okSource(name string, fields metadata.FieldSet) *fixedSource {
	return &fixedSource{name: name, result: metadata.Ok(metadata.FieldSet{}), gated: fields}
}

func newTestBook(t *testing.T, isbn string) *catalog.Book {
	t.Helper()
	book, err := catalog.NewBook(isbn)
	require.NoError(t, err)
	return book
}

func TestEnrichmentService_EnrichOnScan(t *testing.T) {
	t.Run("fills empty fields and copies internal reference", func(t *testing.T) {
		book := newTestBook(t, "9781776560745")
		repo := newFakeBookRepo(book)
		source := okSource("hardcover", metadata.FieldSet{
			Title:   metadata.StringValue("The Luminaries"),
			Authors: metadata.StringValue("Eleanor Catton"),
		})

		svc := NewEnrichmentService(repo, []metadata.Source{source}, zap.NewNop())
		resp, err := svc.EnrichOnScan(context.Background(), book.ID)

		require.NoError(t, err)
		assert.False(t, resp.Skipped)
		assert.ElementsMatch(t, []string{"title", "authors"}, resp.AppliedFields)
		assert.Equal(t, "The Luminaries", book.Title)
		assert.Equal(t, "9781776560745", book.InternalRef, "barcode copied into empty internal reference")
	})

	t.Run("keeps populated fields untouched", func(t *testing.T) {
		book := newTestBook(t, "9781776560745")
		book.Title = "Shop Override"
		repo := newFakeBookRepo(book)
		source := okSource("hardcover", metadata.FieldSet{
			Title:     metadata.StringValue("Catalog Title"),
			Publisher: metadata.StringValue("Victoria University Press"),
		})

		svc := NewEnrichmentService(repo, []metadata.Source{source}, zap.NewNop())
		resp, err := svc.EnrichOnScan(context.Background(), book.ID)

		require.NoError(t, err)
		assert.Equal(t, []string{"publisher"}, resp.AppliedFields)
		assert.Equal(t, "Shop Override", book.Title)
		assert.Equal(t, "Victoria University Press", book.Publisher)
	})

	t.Run("earlier source wins a contested gap", func(t *testing.T) {
		book := newTestBook(t, "9781776560745")
		repo := newFakeBookRepo(book)
		first := okSource("hardcover", metadata.FieldSet{Publisher: metadata.StringValue("First Publisher")})
		second := okSource("titlepage", metadata.FieldSet{Publisher: metadata.StringValue("Second Publisher")})

		svc := NewEnrichmentService(repo, []metadata.Source{first, second}, zap.NewNop())
		_, err := svc.EnrichOnScan(context.Background(), book.ID)

		require.NoError(t, err)
		assert.Equal(t, "First Publisher", book.Publisher)
	})

	t.Run("non-ISBN barcode is a silent no-op", func(t *testing.T) {
		book := newTestBook(t, "5012345678900")
		repo := newFakeBookRepo(book)
		source := okSource("hardcover", metadata.FieldSet{Title: metadata.StringValue("Title")})

		svc := NewEnrichmentService(repo, []metadata.Source{source}, zap.NewNop())
		resp, err := svc.EnrichOnScan(context.Background(), book.ID)

		require.NoError(t, err)
		assert.True(t, resp.Skipped)
		assert.Empty(t, resp.AppliedFields)
		assert.Zero(t, source.calls, "catalogs must not be consulted for non-ISBN barcodes")
		assert.Empty(t, book.Title)
		assert.Empty(t, book.InternalRef, "non-ISBN barcodes must not be copied to the internal reference")
		assert.Zero(t, repo.saves, "a skipped scan must not write the record")
	})

	t.Run("no configured source is an error", func(t *testing.T) {
		book := newTestBook(t, "9781776560745")
		repo := newFakeBookRepo(book)

		svc := NewEnrichmentService(repo, nil, zap.NewNop())
		_, err := svc.EnrichOnScan(context.Background(), book.ID)

		assert.ErrorIs(t, err, metadata.ErrNoSourceConfigured)
	})

	t.Run("unknown book returns not found", func(t *testing.T) {
		svc := NewEnrichmentService(newFakeBookRepo(), nil, zap.NewNop())
		_, err := svc.EnrichOnScan(context.Background(), uuid.New())
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestEnrichmentService_RefreshMetadata(t *testing.T) {
	t.Run("overwrites populated fields, earlier source wins", func(t *testing.T) {
		book := newTestBook(t, "9781776560745")
		book.Title = "Stale Title"
		repo := newFakeBookRepo(book)
		first := okSource("hardcover", metadata.FieldSet{Title: metadata.StringValue("Hardcover Title")})
		second := okSource("titlepage", metadata.FieldSet{
			Title:     metadata.StringValue("Titlepage Title"),
			Publisher: metadata.StringValue("Victoria University Press"),
		})

		svc := NewEnrichmentService(repo, []metadata.Source{first, second}, zap.NewNop())
		resp, err := svc.RefreshMetadata(context.Background(), book.ID)

		require.NoError(t, err)
		assert.Equal(t, "Hardcover Title", book.Title)
		assert.Equal(t, "Victoria University Press", book.Publisher)
		assert.ElementsMatch(t, []string{"title", "publisher"}, resp.AppliedFields)
	})

	t.Run("non-ISBN barcode blocks the refresh", func(t *testing.T) {
		book := newTestBook(t, "5012345678900")
		repo := newFakeBookRepo(book)
		source := okSource("hardcover", metadata.FieldSet{Title: metadata.StringValue("Title")})

		svc := NewEnrichmentService(repo, []metadata.Source{source}, zap.NewNop())
		_, err := svc.RefreshMetadata(context.Background(), book.ID)

		assert.ErrorIs(t, err, metadata.ErrInvalidISBN)
	})

	t.Run("no data from any source is an error", func(t *testing.T) {
		book := newTestBook(t, "9781776560745")
		repo := newFakeBookRepo(book)
		missing := &fixedSource{name: "hardcover", result: metadata.NotFound()}
		down := &fixedSource{name: "titlepage", result: metadata.Unavailable("HTTP 503")}

		svc := NewEnrichmentService(repo, []metadata.Source{missing, down}, zap.NewNop())
		_, err := svc.RefreshMetadata(context.Background(), book.ID)

		assert.ErrorIs(t, err, metadata.ErrNoDataFound)
	})

	t.Run("unavailable source does not block the other", func(t *testing.T) {
		book := newTestBook(t, "9781776560745")
		repo := newFakeBookRepo(book)
		down := &fixedSource{name: "hardcover", result: metadata.Unavailable("timeout")}
		up := okSource("titlepage", metadata.FieldSet{Title: metadata.StringValue("Titlepage Title")})

		svc := NewEnrichmentService(repo, []metadata.Source{down, up}, zap.NewNop())
		resp, err := svc.RefreshMetadata(context.Background(), book.ID)

		require.NoError(t, err)
		assert.Equal(t, "Titlepage Title", book.Title)

		statuses := map[string]string{}
		for _, r := range resp.Sources {
			statuses[r.Source] = r.Status
		}
		assert.Equal(t, "unavailable", statuses["hardcover"])
		assert.Equal(t, "ok", statuses["titlepage"])
	})
}
