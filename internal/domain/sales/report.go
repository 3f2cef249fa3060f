package sales

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"time"
)

const reportDateLayout = "20060102"

// ReportFilename returns the export filename for an outlet and report date,
// e.g. "booksandco20260830.csv"
func ReportFilename(outlet string, date time.Time) string {
	return fmt.Sprintf("%s%s.csv", outlet, date.Format(reportDateLayout))
}

// BuildReportCSV renders sale rows as headerless CSV. Rows that carry
// shipping geography get the seven-column layout, the rest the five-column
// one:
//
//	outlet,postcode,country,isbn,qty,price,date
//	outlet,isbn,qty,price,date
//
// Quantities are truncated to whole units and prices formatted with two
// decimal places; the sale date is rendered as YYYYMMDD.
func BuildReportCSV(rows []SaleRow) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	for _, row := range rows {
		qty := fmt.Sprintf("%d", row.Qty.IntPart())
		price := row.UnitPrice.StringFixed(2)
		date := row.SoldAt.Format(reportDateLayout)

		var record []string
		if row.HasGeography() {
			record = []string{row.Outlet, row.Postcode, row.CountryCode, row.ISBN, qty, price, date}
		} else {
			record = []string{row.Outlet, row.ISBN, qty, price, date}
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("write csv record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}
	return buf.Bytes(), nil
}
