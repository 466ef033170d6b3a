package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"fnb-insights/internal/domain/sales"
)

// dateLayouts are tried in order when coercing date columns. POS exports in
// the wild mix ISO timestamps with regional day-first formats.
var dateLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05Z07:00",
	"2006-01-02",
	"02/01/2006 15:04",
	"02/01/2006",
	"01/02/2006",
}

var timeLayouts = []string{
	"15:04:05",
	"15:04",
	"3:04 PM",
}

// ParseCSV reads a sales report and coerces it into transactions using the
// given column mapping. Rows without a parseable sales date are dropped, as
// are rows whose mapped columns are missing; numeric garbage coerces to 0
// and optional timestamps to their zero value, mirroring how the dashboards
// clean uploads.
func ParseCSV(r io.Reader, mapping Mapping) ([]sales.Transaction, error) {
	if err := mapping.Validate(); err != nil {
		return nil, err
	}

	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	colIndex := make(map[Field]int)
	for f, col := range mapping {
		if col == "" {
			continue
		}
		idx := -1
		for i, h := range header {
			if strings.TrimSpace(h) == col {
				idx = i
				break
			}
		}
		if idx < 0 {
			return nil, fmt.Errorf("mapped column %q not found in header", col)
		}
		colIndex[f] = idx
	}

	var rows []sales.Transaction
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}

		cell := func(f Field) string {
			idx, ok := colIndex[f]
			if !ok || idx >= len(record) {
				return ""
			}
			return strings.TrimSpace(record[idx])
		}

		salesDate, ok := parseDate(cell(FieldSalesDate))
		if !ok {
			continue // no valid date, row unusable
		}

		t := sales.Transaction{
			SalesDate:     salesDate,
			Branch:        cell(FieldBranch),
			BillNumber:    cell(FieldBillNumber),
			NetSales:      parseNumber(cell(FieldNetSales)),
			Menu:          cell(FieldMenu),
			Qty:           parseNumber(cell(FieldQty)),
			Channel:       cell(FieldChannel),
			PaymentMethod: cell(FieldPaymentMethod),
		}
		if v, ok := parseDate(cell(FieldOrderIn)); ok {
			t.OrderIn = v
		}
		if v, ok := parseDate(cell(FieldOrderOut)); ok {
			t.OrderOut = v
		}
		if v, ok := parseClock(cell(FieldOrderTime), salesDate); ok {
			t.OrderTime = v
		}

		rows = append(rows, t)
	}
	return rows, nil
}

func parseDate(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if v, err := time.Parse(layout, s); err == nil {
			return v.UTC(), true
		}
	}
	return time.Time{}, false
}

// parseClock accepts either a bare time of day (anchored to the sales date)
// or a full timestamp.
func parseClock(s string, day time.Time) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range timeLayouts {
		if v, err := time.Parse(layout, s); err == nil {
			return time.Date(day.Year(), day.Month(), day.Day(),
				v.Hour(), v.Minute(), v.Second(), 0, time.UTC), true
		}
	}
	return parseDate(s)
}

func parseNumber(s string) float64 {
	if s == "" {
		return 0
	}
	s = strings.ReplaceAll(s, ",", "")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}
