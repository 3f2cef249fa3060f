package sales

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// SaleRow is one sold book line, as returned by the reporting queries.
// Postcode and CountryCode are present only when the shipping geography of
// the sale is known.
type SaleRow struct {
	Outlet      string
	ISBN        string
	Qty         decimal.Decimal
	UnitPrice   decimal.Decimal
	SoldAt      time.Time
	Postcode    string
	CountryCode string
}

// HasGeography reports whether both postcode and country are known
func (r SaleRow) HasGeography() bool {
	return r.Postcode != "" && r.CountryCode != ""
}

// SalesQuery reads book sale lines from the host application's tables.
// Both queries are restricted to rows whose barcode carries an ISBN-13
// prefix and whose sale date falls inside the inclusive range.
type SalesQuery interface {
	// POSSales returns point-of-sale line items for the date range
	POSSales(ctx context.Context, from, to time.Time) ([]SaleRow, error)

	// OnlineSales returns confirmed online-order line items for the date range
	OnlineSales(ctx context.Context, from, to time.Time) ([]SaleRow, error)
}
