package persistence

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/bookworks/backend/internal/domain/sales"
)

// posSalesSQL reads point-of-sale line items. The barcode pattern keeps only
// rows carrying a real ISBN-13; non-book merchandise shares the same tables.
const posSalesSQL = `
SELECT
	s.outlet AS outlet,
	b.isbn AS isbn,
	l.qty AS qty,
	l.unit_price AS unit_price,
	o.sold_at AS sold_at
FROM pos_order_lines l
JOIN pos_orders o ON o.id = l.order_id
JOIN pos_sessions s ON s.id = o.session_id
JOIN books b ON b.id = l.book_id
WHERE b.isbn ~ '^97[89]'
  AND o.sold_at >= ? AND o.sold_at < ?
ORDER BY o.sold_at ASC`

// onlineSalesSQL reads confirmed online-order line items together with the
// shipping geography
const onlineSalesSQL = `
SELECT
	o.outlet AS outlet,
	b.isbn AS isbn,
	l.qty AS qty,
	l.unit_price AS unit_price,
	o.confirmed_at AS sold_at,
	o.shipping_postcode AS postcode,
	o.shipping_country AS country_code
FROM online_order_lines l
JOIN online_orders o ON o.id = l.order_id
JOIN books b ON b.id = l.book_id
WHERE b.isbn ~ '^97[89]'
  AND o.status IN ('confirmed', 'shipped', 'done')
  AND o.confirmed_at >= ? AND o.confirmed_at < ?
ORDER BY o.confirmed_at ASC`

// saleRowRecord is the scan target for both reporting queries
type saleRowRecord struct {
	Outlet      string
	ISBN        string          `gorm:"column:isbn"`
	Qty         decimal.Decimal `gorm:"column:qty"`
	UnitPrice   decimal.Decimal `gorm:"column:unit_price"`
	SoldAt      time.Time       `gorm:"column:sold_at"`
	Postcode    string          `gorm:"column:postcode"`
	CountryCode string          `gorm:"column:country_code"`
}

// GormSalesQuery implements SalesQuery with raw reporting SQL over the shop's
// order tables. The date range is inclusive of both endpoints; the upper
// bound is widened to the start of the following day before querying.
type GormSalesQuery struct {
	db *gorm.DB
}

// NewGormSalesQuery creates a new GormSalesQuery
func NewGormSalesQuery(db *gorm.DB) *GormSalesQuery {
	return &GormSalesQuery{db: db}
}

// POSSales returns point-of-sale line items for the date range
func (q *GormSalesQuery) POSSales(ctx context.Context, from, to time.Time) ([]sales.SaleRow, error) {
	return q.query(ctx, posSalesSQL, from, to)
}

// OnlineSales returns confirmed online-order line items for the date range
func (q *GormSalesQuery) OnlineSales(ctx context.Context, from, to time.Time) ([]sales.SaleRow, error) {
	return q.query(ctx, onlineSalesSQL, from, to)
}

func (q *GormSalesQuery) query(ctx context.Context, sql string, from, to time.Time) ([]sales.SaleRow, error) {
	var records []saleRowRecord
	// Callers pass dates at midnight; the exclusive upper bound is the
	// start of the day after "to" so the whole end day is included.
	upper := to.AddDate(0, 0, 1)
	if err := q.db.WithContext(ctx).Raw(sql, from, upper).Scan(&records).Error; err != nil {
		return nil, err
	}

	rows := make([]sales.SaleRow, 0, len(records))
	for _, rec := range records {
		rows = append(rows, sales.SaleRow{
			Outlet:      rec.Outlet,
			ISBN:        rec.ISBN,
			Qty:         rec.Qty,
			UnitPrice:   rec.UnitPrice,
			SoldAt:      rec.SoldAt,
			Postcode:    rec.Postcode,
			CountryCode: rec.CountryCode,
		})
	}
	return rows, nil
}

// Ensure GormSalesQuery implements SalesQuery
var _ sales.SalesQuery = (*GormSalesQuery)(nil)
