package sales

import (
	"fmt"
	"sort"
	"time"
)

// Transaction is one line item of an uploaded sales report after column
// mapping and type coercion. A bill usually spans several rows, one per menu
// item, all sharing the same BillNumber.
type Transaction struct {
	SalesDate  time.Time
	Branch     string
	BillNumber string
	NetSales   float64
	Menu       string
	Qty        float64

	// Optional columns. Zero values mean the source column was not mapped.
	Channel       string
	PaymentMethod string
	OrderIn       time.Time
	OrderOut      time.Time
	OrderTime     time.Time
}

// Validate checks the required fields.
func (t Transaction) Validate() error {
	if t.SalesDate.IsZero() {
		return fmt.Errorf("sales date is required")
	}
	if t.BillNumber == "" {
		return fmt.Errorf("bill number is required")
	}
	return nil
}

// HasPrepTimes reports whether the row carries the optional kitchen
// timestamps needed for operational analysis.
func (t Transaction) HasPrepTimes() bool {
	return !t.OrderIn.IsZero() && !t.OrderOut.IsZero() && !t.OrderTime.IsZero()
}

// Filter narrows a dataset to a branch selection and date range before
// aggregation. An empty Branches slice selects every branch; zero From/To
// leave the corresponding bound open.
type Filter struct {
	Branches []string
	From     time.Time
	To       time.Time
}

// Match reports whether a transaction passes the filter. The To bound is
// inclusive on the calendar day, mirroring a date-range picker.
func (f Filter) Match(t Transaction) bool {
	if len(f.Branches) > 0 {
		found := false
		for _, b := range f.Branches {
			if b == t.Branch {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if !f.From.IsZero() && t.SalesDate.Before(f.From) {
		return false
	}
	if !f.To.IsZero() && !t.SalesDate.Before(f.To.AddDate(0, 0, 1)) {
		return false
	}
	return true
}

// ApplyFilter returns the transactions matching f, preserving order.
func ApplyFilter(rows []Transaction, f Filter) []Transaction {
	out := make([]Transaction, 0, len(rows))
	for _, t := range rows {
		if f.Match(t) {
			out = append(out, t)
		}
	}
	return out
}

// Branches returns the sorted distinct branch names in a dataset.
func Branches(rows []Transaction) []string {
	seen := make(map[string]struct{})
	var names []string
	for _, t := range rows {
		if t.Branch == "" {
			continue
		}
		if _, ok := seen[t.Branch]; ok {
			continue
		}
		seen[t.Branch] = struct{}{}
		names = append(names, t.Branch)
	}
	sort.Strings(names)
	return names
}
