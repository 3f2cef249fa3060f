package catalogapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/bookworks/backend/internal/domain/metadata"
)

// maxCatalogResponseSize limits catalog response bodies to prevent memory exhaustion
const maxCatalogResponseSize = 10 * 1024 * 1024 // 10MB

// hardcoverEditionQuery retrieves the edition plus nested book, contribution
// and publisher fields for one ISBN-13
const hardcoverEditionQuery = `query GetBookByISBN($isbn: String!) {
	editions(where: { isbn_13: { _eq: $isbn } }) {
		isbn_13
		title
		subtitle
		release_date
		cached_image
		publisher {
			name
		}
		book {
			title
			description
			contributions {
				contribution
				author {
					name
				}
			}
		}
	}
}`

// HardcoverAdapter implements metadata.Source for the Hardcover GraphQL catalog
type HardcoverAdapter struct {
	config     *HardcoverConfig
	httpClient *http.Client
	images     *ImageDownloader
	logger     *zap.Logger
}

// NewHardcoverAdapter creates a new Hardcover adapter with the given configuration
func NewHardcoverAdapter(config *HardcoverConfig, images *ImageDownloader, logger *zap.Logger) (*HardcoverAdapter, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &HardcoverAdapter{
		config:     config,
		httpClient: &http.Client{Timeout: config.Timeout},
		images:     images,
		logger:     logger,
	}, nil
}

// Name returns the source name used in reports and logs
func (a *HardcoverAdapter) Name() string {
	return "hardcover"
}

// Fetch queries the catalog for an ISBN and parses the first matching
// edition into a field set. Failures never escape as errors: transport
// problems map to Unavailable, absent editions to NotFound.
func (a *HardcoverAdapter) Fetch(ctx context.Context, isbn string, snapshot metadata.RecordSnapshot, policy metadata.Policy) metadata.SourceResult {
	edition, result := a.fetchEdition(ctx, strings.TrimSpace(isbn))
	if edition == nil {
		return result
	}
	return metadata.Ok(a.parseEdition(ctx, edition, snapshot, policy))
}

// fetchEdition performs the GraphQL request. Returns the first edition, or
// nil plus the result that should be reported instead.
func (a *HardcoverAdapter) fetchEdition(ctx context.Context, isbn string) (*hardcoverEdition, metadata.SourceResult) {
	payload, err := json.Marshal(map[string]any{
		"query":     hardcoverEditionQuery,
		"variables": map[string]string{"isbn": isbn},
	})
	if err != nil {
		return nil, metadata.Unavailable(fmt.Sprintf("marshal request: %v", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.config.BaseURL, bytes.NewReader(payload))
	if err != nil {
		return nil, metadata.Unavailable(fmt.Sprintf("build request: %v", err))
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+a.config.APIKey)

	resp, err := a.httpClient.Do(req)
	if err != nil {
		a.logger.Warn("Hardcover request failed", zap.String("isbn", isbn), zap.Error(err))
		return nil, metadata.Unavailable(err.Error())
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxCatalogResponseSize))
	if err != nil {
		return nil, metadata.Unavailable(fmt.Sprintf("read response: %v", err))
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		a.logger.Warn("Hardcover returned non-success status",
			zap.String("isbn", isbn), zap.Int("status", resp.StatusCode))
		return nil, metadata.Unavailable(fmt.Sprintf("HTTP %d", resp.StatusCode))
	}

	var decoded hardcoverResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return nil, metadata.Unavailable(fmt.Sprintf("parse response: %v", err))
	}

	// A GraphQL errors array is a soft miss, not a failure
	if len(decoded.Errors) > 0 {
		a.logger.Warn("Hardcover query returned errors",
			zap.String("isbn", isbn), zap.String("message", decoded.Errors[0].Message))
		return nil, metadata.NotFound()
	}
	if decoded.Data == nil || len(decoded.Data.Editions) == 0 {
		return nil, metadata.NotFound()
	}

	return &decoded.Data.Editions[0], metadata.SourceResult{}
}

// parseEdition maps one edition onto the closed field set, gating each field
// through the inclusion policy
func (a *HardcoverAdapter) parseEdition(ctx context.Context, edition *hardcoverEdition, snapshot metadata.RecordSnapshot, policy metadata.Policy) metadata.FieldSet {
	var fields metadata.FieldSet

	book := edition.Book
	if book == nil {
		book = &hardcoverBook{}
	}

	// Title, with subtitle appended when present
	title := edition.Title
	if title == "" {
		title = book.Title
	}
	if title != "" && edition.Subtitle != "" {
		title = fmt.Sprintf("%s: %s", title, edition.Subtitle)
	}
	if title != "" && policy.Includes(snapshot, metadata.FieldTitle) {
		fields.Title = metadata.StringValue(title)
	}

	// Description lands in a rich-text field, so plain text gets a minimal wrapper
	if book.Description != "" && policy.Includes(snapshot, metadata.FieldDescription) {
		fields.Description = metadata.StringValue("<p>" + book.Description + "</p>")
	}

	// Authors in contribution order
	var authors []string
	for _, c := range book.Contributions {
		if c.Author != nil && c.Author.Name != "" {
			authors = append(authors, c.Author.Name)
		}
	}
	if len(authors) > 0 && policy.Includes(snapshot, metadata.FieldAuthors) {
		fields.Authors = metadata.StringValue(strings.Join(authors, ", "))
	}

	if name := edition.publisherName(); name != "" && policy.Includes(snapshot, metadata.FieldPublisher) {
		fields.Publisher = metadata.StringValue(name)
	}

	// Release date is already ISO-formatted, passed through unmodified
	if edition.ReleaseDate != "" && policy.Includes(snapshot, metadata.FieldPublicationDate) {
		fields.PublicationDate = metadata.StringValue(edition.ReleaseDate)
	}

	if url := edition.imageURL(); url != "" && policy.Includes(snapshot, metadata.FieldCoverImage) {
		if data := a.images.Download(ctx, url); data != nil {
			fields.CoverImage = data
		}
	}

	return fields
}

// Ensure HardcoverAdapter implements the Source interface
var _ metadata.Source = (*HardcoverAdapter)(nil)
