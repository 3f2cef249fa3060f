package handler

import (
	catalogapp "github.com/bookworks/backend/internal/application/catalog"
	"github.com/bookworks/backend/internal/domain/shared"
	"github.com/bookworks/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// BookHandler handles book catalog API endpoints
type BookHandler struct {
	BaseHandler
	bookService       *catalogapp.BookService
	enrichmentService *catalogapp.EnrichmentService
}

// NewBookHandler creates a new BookHandler
func NewBookHandler(bookService *catalogapp.BookService, enrichmentService *catalogapp.EnrichmentService) *BookHandler {
	return &BookHandler{
		bookService:       bookService,
		enrichmentService: enrichmentService,
	}
}

// List godoc
// @Summary      List books
// @Description  Retrieve a paginated list of books with optional search
// @Tags         books
// @Produce      json
// @Param        search query string false "Search term (title, ISBN, authors)"
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20) maximum(100)
// @Success      200 {object} dto.Response{meta=dto.Meta}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /catalog/books [get]
func (h *BookHandler) List(c *gin.Context) {
	req := dto.DefaultListRequest()
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	if req.Page <= 0 {
		req.Page = 1
	}
	if req.PageSize <= 0 {
		req.PageSize = 20
	}

	filter := shared.Filter{
		Page:     req.Page,
		PageSize: req.PageSize,
		OrderBy:  req.OrderBy,
		OrderDir: req.OrderDir,
		Search:   req.Search,
	}

	books, total, err := h.bookService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, books, total, req.Page, req.PageSize)
}

// GetByID godoc
// @Summary      Get book by ID
// @Description  Retrieve one book by its internal ID
// @Tags         books
// @Produce      json
// @Param        id path string true "Book ID" format(uuid)
// @Success      200 {object} dto.Response
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /catalog/books/{id} [get]
func (h *BookHandler) GetByID(c *gin.Context) {
	bookID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid book ID format")
		return
	}

	book, err := h.bookService.Get(c.Request.Context(), bookID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, book)
}

// GetByISBN godoc
// @Summary      Get book by ISBN
// @Description  Retrieve one book by its barcode
// @Tags         books
// @Produce      json
// @Param        isbn path string true "Book barcode"
// @Success      200 {object} dto.Response
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /catalog/books/isbn/{isbn} [get]
func (h *BookHandler) GetByISBN(c *gin.Context) {
	isbn := c.Param("isbn")
	if isbn == "" {
		h.BadRequest(c, "ISBN is required")
		return
	}

	book, err := h.bookService.GetByISBN(c.Request.Context(), isbn)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, book)
}

// Enrich godoc
// @Summary      Enrich a book on scan
// @Description  Fill the book's empty metadata fields from the configured catalogs
// @Tags         books
// @Produce      json
// @Param        id path string true "Book ID" format(uuid)
// @Success      200 {object} dto.Response
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /catalog/books/{id}/enrich [post]
func (h *BookHandler) Enrich(c *gin.Context) {
	bookID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid book ID format")
		return
	}

	result, err := h.enrichmentService.EnrichOnScan(c.Request.Context(), bookID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// RefreshMetadata godoc
// @Summary      Refresh a book's metadata
// @Description  Re-fetch every metadata field from the configured catalogs, overwriting stored values
// @Tags         books
// @Produce      json
// @Param        id path string true "Book ID" format(uuid)
// @Success      200 {object} dto.Response
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /catalog/books/{id}/refresh-metadata [post]
func (h *BookHandler) RefreshMetadata(c *gin.Context) {
	bookID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid book ID format")
		return
	}

	result, err := h.enrichmentService.RefreshMetadata(c.Request.Context(), bookID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}
