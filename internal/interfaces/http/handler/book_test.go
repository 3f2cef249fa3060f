package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	catalogapp "github.com/bookworks/backend/internal/application/catalog"
	"github.com/bookworks/backend/internal/domain/catalog"
	"github.com/bookworks/backend/internal/domain/metadata"
	"github.com/bookworks/backend/internal/domain/shared"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// MockBookRepository implements catalog.BookRepository for testing
type MockBookRepository struct {
	mock.Mock
}

func (m *MockBookRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Book, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Book), args.Error(1)
}

func (m *MockBookRepository) FindByISBN(ctx context.Context, isbn string) (*catalog.Book, error) {
	args := m.Called(ctx, isbn)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Book), args.Error(1)
}

func (m *MockBookRepository) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.Book, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.Book), args.Error(1)
}

func (m *MockBookRepository) Save(ctx context.Context, book *catalog.Book) error {
	args := m.Called(ctx, book)
	return args.Error(0)
}

func (m *MockBookRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

// stubSource replays a fixed field set for any ISBN
type stubSource struct {
	name   string
	result metadata.SourceResult
}

func (s *stubSource) Name() string { return s.name }

func (s *stubSource) Fetch(_ context.Context, _ string, _ metadata.RecordSnapshot, _ metadata.Policy) metadata.SourceResult {
	return s.result
}

func newBookTestRouter(repo *MockBookRepository, sources []metadata.Source) *gin.Engine {
	bookService := catalogapp.NewBookService(repo)
	enrichmentService := catalogapp.NewEnrichmentService(repo, sources, zap.NewNop())
	h := NewBookHandler(bookService, enrichmentService)

	router := gin.New()
	router.GET("/books", h.List)
	router.GET("/books/:id", h.GetByID)
	router.GET("/books/isbn/:isbn", h.GetByISBN)
	router.POST("/books/:id/enrich", h.Enrich)
	router.POST("/books/:id/refresh-metadata", h.RefreshMetadata)
	return router
}

func mustNewBook(t *testing.T, isbn string) *catalog.Book {
	t.Helper()
	book, err := catalog.NewBook(isbn)
	require.NoError(t, err)
	return book
}

func performRequest(router *gin.Engine, method, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(method, path, nil))
	return w
}

func TestBookHandler_GetByID(t *testing.T) {
	t.Run("returns the book", func(t *testing.T) {
		repo := new(MockBookRepository)
		book := mustNewBook(t, "9781776560745")
		book.Title = "The New Animals"
		repo.On("FindByID", mock.Anything, book.ID).Return(book, nil)

		router := newBookTestRouter(repo, nil)
		w := performRequest(router, http.MethodGet, "/books/"+book.ID.String())

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "The New Animals")
		repo.AssertExpectations(t)
	})

	t.Run("rejects a malformed ID", func(t *testing.T) {
		router := newBookTestRouter(new(MockBookRepository), nil)
		w := performRequest(router, http.MethodGet, "/books/not-a-uuid")

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("maps a missing book to 404", func(t *testing.T) {
		repo := new(MockBookRepository)
		id := uuid.New()
		repo.On("FindByID", mock.Anything, id).Return(nil, shared.ErrNotFound)

		router := newBookTestRouter(repo, nil)
		w := performRequest(router, http.MethodGet, "/books/"+id.String())

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Contains(t, w.Body.String(), "ERR_NOT_FOUND")
	})
}

func TestBookHandler_GetByISBN(t *testing.T) {
	repo := new(MockBookRepository)
	book := mustNewBook(t, "9781776560745")
	repo.On("FindByISBN", mock.Anything, "9781776560745").Return(book, nil)

	router := newBookTestRouter(repo, nil)
	w := performRequest(router, http.MethodGet, "/books/isbn/9781776560745")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "9781776560745")
	repo.AssertExpectations(t)
}

func TestBookHandler_List(t *testing.T) {
	repo := new(MockBookRepository)
	books := []catalog.Book{*mustNewBook(t, "9781776560745"), *mustNewBook(t, "9780143567592")}
	repo.On("FindAll", mock.Anything, mock.Anything).Return(books, nil)
	repo.On("Count", mock.Anything, mock.Anything).Return(int64(2), nil)

	router := newBookTestRouter(repo, nil)
	w := performRequest(router, http.MethodGet, "/books?page=1&page_size=20")

	assert.Equal(t, http.StatusOK, w.Code)
	resp := decodeResponse(t, w)
	require.NotNil(t, resp.Meta)
	assert.Equal(t, int64(2), resp.Meta.Total)
}

func TestBookHandler_Enrich(t *testing.T) {
	t.Run("fills empty fields from the source", func(t *testing.T) {
		repo := new(MockBookRepository)
		book := mustNewBook(t, "9781776560745")
		repo.On("FindByID", mock.Anything, book.ID).Return(book, nil)
		repo.On("Save", mock.Anything, mock.Anything).Return(nil)

		fields := metadata.FieldSet{Title: metadata.StringValue("Fetched Title")}
		source := &stubSource{name: "hardcover", result: metadata.Ok(fields)}

		router := newBookTestRouter(repo, []metadata.Source{source})
		w := performRequest(router, http.MethodPost, "/books/"+book.ID.String()+"/enrich")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "Fetched Title")
		repo.AssertExpectations(t)
	})

	t.Run("non-ISBN barcode is a silent no-op", func(t *testing.T) {
		repo := new(MockBookRepository)
		book := mustNewBook(t, "5012345678900")
		repo.On("FindByID", mock.Anything, book.ID).Return(book, nil)

		source := &stubSource{name: "hardcover", result: metadata.NotFound()}
		router := newBookTestRouter(repo, []metadata.Source{source})
		w := performRequest(router, http.MethodPost, "/books/"+book.ID.String()+"/enrich")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"skipped":true`)
		repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("no configured source maps to 422", func(t *testing.T) {
		repo := new(MockBookRepository)
		book := mustNewBook(t, "9781776560745")
		repo.On("FindByID", mock.Anything, book.ID).Return(book, nil)
		repo.On("Save", mock.Anything, mock.Anything).Return(nil)

		router := newBookTestRouter(repo, nil)
		w := performRequest(router, http.MethodPost, "/books/"+book.ID.String()+"/enrich")

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Contains(t, w.Body.String(), "ERR_NO_SOURCE_CONFIGURED")
	})
}

func TestBookHandler_RefreshMetadata(t *testing.T) {
	t.Run("rejects a non-ISBN barcode", func(t *testing.T) {
		repo := new(MockBookRepository)
		book := mustNewBook(t, "5012345678900")
		repo.On("FindByID", mock.Anything, book.ID).Return(book, nil)

		source := &stubSource{name: "hardcover", result: metadata.NotFound()}
		router := newBookTestRouter(repo, []metadata.Source{source})
		w := performRequest(router, http.MethodPost, "/books/"+book.ID.String()+"/refresh-metadata")

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Contains(t, w.Body.String(), "ERR_INVALID_ISBN")
	})

	t.Run("maps all-miss to 404", func(t *testing.T) {
		repo := new(MockBookRepository)
		book := mustNewBook(t, "9781776560745")
		repo.On("FindByID", mock.Anything, book.ID).Return(book, nil)

		source := &stubSource{name: "hardcover", result: metadata.NotFound()}
		router := newBookTestRouter(repo, []metadata.Source{source})
		w := performRequest(router, http.MethodPost, "/books/"+book.ID.String()+"/refresh-metadata")

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Contains(t, w.Body.String(), "ERR_NO_DATA_FOUND")
	})
}
