package catalogapi

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/bookworks/backend/internal/domain/metadata"
)

// SupplierLinker receives the supplier named by the catalog's commercial
// terms. Linking mutates a vendor relation rather than a scalar field, so it
// happens outside the field set; implementations must be idempotent and must
// not fail the reconciliation run.
type SupplierLinker interface {
	LinkSupplier(ctx context.Context, isbn, supplierName string)
}

// TitlepageAdapter implements metadata.Source for the Titlepage ONIX 3.1 feed
type TitlepageAdapter struct {
	config     *TitlepageConfig
	httpClient *http.Client
	images     *ImageDownloader
	suppliers  SupplierLinker // optional
	logger     *zap.Logger
}

// NewTitlepageAdapter creates a new Titlepage adapter with the given
// configuration. suppliers may be nil when vendor linking is not wanted.
func NewTitlepageAdapter(config *TitlepageConfig, images *ImageDownloader, suppliers SupplierLinker, logger *zap.Logger) (*TitlepageAdapter, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &TitlepageAdapter{
		config: config,
		// The default transport follows redirects and transparently
		// decompresses gzip bodies, both of which the feed relies on.
		httpClient: &http.Client{Timeout: config.Timeout},
		images:     images,
		suppliers:  suppliers,
		logger:     logger,
	}, nil
}

// Name returns the source name used in reports and logs
func (a *TitlepageAdapter) Name() string {
	return "titlepage"
}

// Fetch retrieves the ONIX Product for an ISBN and parses it into a field
// set. A 404 is an ordinary miss; any other failure makes the source
// unavailable for this run without aborting the pipeline.
func (a *TitlepageAdapter) Fetch(ctx context.Context, isbn string, snapshot metadata.RecordSnapshot, policy metadata.Policy) metadata.SourceResult {
	isbn = strings.TrimSpace(isbn)

	product, result := a.fetchProduct(ctx, isbn)
	if product == nil {
		return result
	}
	return metadata.Ok(a.parseProduct(ctx, isbn, product, snapshot, policy))
}

// fetchProduct performs the GET request and decodes the ONIX document.
// Returns the Product element, or nil plus the result to report instead.
func (a *TitlepageAdapter) fetchProduct(ctx context.Context, isbn string) (*onixProduct, metadata.SourceResult) {
	url := fmt.Sprintf("%s/%s", strings.TrimRight(a.config.BaseURL, "/"), isbn)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, metadata.Unavailable(fmt.Sprintf("build request: %v", err))
	}
	req.Header.Set("Authorization", "Token "+a.config.APIToken)

	resp, err := a.httpClient.Do(req)
	if err != nil {
		a.logger.Warn("Titlepage request failed", zap.String("isbn", isbn), zap.Error(err))
		return nil, metadata.Unavailable(err.Error())
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, metadata.NotFound()
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		a.logger.Warn("Titlepage returned non-success status",
			zap.String("isbn", isbn), zap.Int("status", resp.StatusCode))
		return nil, metadata.Unavailable(fmt.Sprintf("HTTP %d", resp.StatusCode))
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxCatalogResponseSize))
	if err != nil {
		return nil, metadata.Unavailable(fmt.Sprintf("read response: %v", err))
	}

	var message onixMessage
	if err := xml.Unmarshal(body, &message); err != nil {
		a.logger.Warn("Failed to parse Titlepage ONIX XML",
			zap.String("isbn", isbn), zap.Error(err))
		return nil, metadata.Unavailable(fmt.Sprintf("parse ONIX: %v", err))
	}
	if message.Product == nil {
		return nil, metadata.NotFound()
	}

	return message.Product, metadata.SourceResult{}
}

// parseProduct extracts the field set from an ONIX Product, gating each
// field through the inclusion policy, and hands the market supplier name to
// the linker when one is present
func (a *TitlepageAdapter) parseProduct(ctx context.Context, isbn string, product *onixProduct, snapshot metadata.RecordSnapshot, policy metadata.Policy) metadata.FieldSet {
	var fields metadata.FieldSet

	if title := parseTitle(product.DescriptiveDetail); title != "" && policy.Includes(snapshot, metadata.FieldTitle) {
		fields.Title = metadata.StringValue(title)
	}

	if authors := parseAuthors(product.DescriptiveDetail); authors != "" && policy.Includes(snapshot, metadata.FieldAuthors) {
		fields.Authors = metadata.StringValue(authors)
	}

	if publishing := product.PublishingDetail; publishing != nil {
		if publishing.Publisher != nil && publishing.Publisher.PublisherName != "" &&
			policy.Includes(snapshot, metadata.FieldPublisher) {
			fields.Publisher = metadata.StringValue(publishing.Publisher.PublisherName)
		}
		if date := parsePublicationDate(publishing.PublishingDates); date != "" &&
			policy.Includes(snapshot, metadata.FieldPublicationDate) {
			fields.PublicationDate = metadata.StringValue(date)
		}
	}

	if collateral := product.CollateralDetail; collateral != nil {
		// Main description is taken verbatim, no markup wrapping
		if text := parseDescription(collateral.TextContents); text != "" &&
			policy.Includes(snapshot, metadata.FieldDescription) {
			fields.Description = metadata.StringValue(text)
		}
		if url := parseCoverLink(collateral.SupportingResources); url != "" &&
			policy.Includes(snapshot, metadata.FieldCoverImage) {
			if data := a.images.Download(ctx, url); data != nil {
				fields.CoverImage = data
			}
		}
	}

	if weight, ok := parseWeightKg(product.DescriptiveDetail); ok && policy.Includes(snapshot, metadata.FieldWeightKg) {
		fields.WeightKg = metadata.FloatValue(weight)
	}

	a.parseMarketSupply(ctx, isbn, product.ProductSupply, snapshot, policy, &fields)

	return fields
}

// parseMarketSupply reads commercial terms from the ProductSupply entry
// covering the configured country: the list price and the supplier to link
func (a *TitlepageAdapter) parseMarketSupply(ctx context.Context, isbn string, supplies []onixProductSupply, snapshot metadata.RecordSnapshot, policy metadata.Policy, fields *metadata.FieldSet) {
	for _, supply := range supplies {
		if supply.Market == nil || supply.Market.Territory == nil ||
			!strings.Contains(supply.Market.Territory.CountriesIncluded, a.config.CountryCode) {
			continue
		}
		detail := supply.SupplyDetail
		if detail == nil {
			return
		}

		if price, ok := parseListPrice(detail.Prices); ok && policy.Includes(snapshot, metadata.FieldListPrice) {
			fields.ListPrice = metadata.PriceValue(price)
		}

		if a.suppliers != nil && detail.Supplier != nil && detail.Supplier.SupplierName != "" {
			a.suppliers.LinkSupplier(ctx, isbn, detail.Supplier.SupplierName)
		}
		return
	}
}

func parseTitle(descriptive *onixDescriptiveDetail) string {
	if descriptive == nil {
		return ""
	}
	for _, td := range descriptive.TitleDetails {
		if td.TitleType != onixTitleTypeDistinctive || td.TitleElement == nil {
			continue
		}
		title := td.TitleElement.TitleText
		if title == "" {
			return ""
		}
		if td.TitleElement.Subtitle != "" {
			title = fmt.Sprintf("%s: %s", title, td.TitleElement.Subtitle)
		}
		return title
	}
	return ""
}

func parseAuthors(descriptive *onixDescriptiveDetail) string {
	if descriptive == nil {
		return ""
	}
	var authors []string
	for _, contributor := range descriptive.Contributors {
		if contributor.ContributorRole == onixContributorRoleAuthor && contributor.PersonName != "" {
			authors = append(authors, contributor.PersonName)
		}
	}
	return strings.Join(authors, ", ")
}

// parsePublicationDate reformats the 8-digit YYYYMMDD publication date to
// YYYY-MM-DD; any other shape passes through unchanged
func parsePublicationDate(dates []onixPublishingDate) string {
	for _, pd := range dates {
		if pd.PublishingDateRole != onixDateRolePublication {
			continue
		}
		raw := pd.Date
		if len(raw) == 8 && isDigits(raw) {
			return fmt.Sprintf("%s-%s-%s", raw[:4], raw[4:6], raw[6:8])
		}
		return raw
	}
	return ""
}

func parseDescription(contents []onixTextContent) string {
	for _, tc := range contents {
		if tc.TextType == onixTextTypeDescription {
			return tc.Text
		}
	}
	return ""
}

func parseCoverLink(resources []onixSupportingResource) string {
	for _, sr := range resources {
		if sr.ResourceContentType != onixResourceTypeCover {
			continue
		}
		for _, rv := range sr.ResourceVersions {
			if rv.ResourceLink != "" {
				return rv.ResourceLink
			}
		}
		return ""
	}
	return ""
}

// parseWeightKg converts the grams measurement to kilograms; non-numeric
// measurements are silently ignored
func parseWeightKg(descriptive *onixDescriptiveDetail) (float64, bool) {
	if descriptive == nil {
		return 0, false
	}
	for _, measure := range descriptive.Measures {
		if measure.MeasureType != onixMeasureTypeWeight {
			continue
		}
		grams, err := strconv.ParseFloat(strings.TrimSpace(measure.Measurement), 64)
		if err != nil {
			return 0, false
		}
		return grams / 1000.0, true
	}
	return 0, false
}

// parseListPrice returns the recommended retail price rounded up to the
// nearest whole currency unit
func parseListPrice(prices []onixPrice) (decimal.Decimal, bool) {
	for _, price := range prices {
		if price.PriceType != onixPriceTypeRRPIncTax {
			continue
		}
		amount, err := decimal.NewFromString(strings.TrimSpace(price.PriceAmount))
		if err != nil {
			return decimal.Zero, false
		}
		return amount.Ceil(), true
	}
	return decimal.Zero, false
}

func isDigits(s string) bool {
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

// Ensure TitlepageAdapter implements the Source interface
var _ metadata.Source = (*TitlepageAdapter)(nil)
