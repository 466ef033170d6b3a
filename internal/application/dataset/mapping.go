package dataset

import (
	"fmt"
	"strings"
)

// Field names a column of the internal transaction schema.
type Field string

const (
	FieldSalesDate  Field = "sales_date"
	FieldBranch     Field = "branch"
	FieldBillNumber Field = "bill_number"
	FieldNetSales   Field = "net_sales"
	FieldMenu       Field = "menu"
	FieldQty        Field = "qty"

	FieldChannel       Field = "channel"
	FieldPaymentMethod Field = "payment_method"
	FieldOrderIn       Field = "order_in"
	FieldOrderOut      Field = "order_out"
	FieldOrderTime     Field = "order_time"
)

// RequiredFields must all be mapped before a report can be processed.
var RequiredFields = []Field{
	FieldSalesDate, FieldBranch, FieldBillNumber, FieldNetSales, FieldMenu, FieldQty,
}

// OptionalFields unlock the channel and operational analyses when mapped.
var OptionalFields = []Field{
	FieldChannel, FieldPaymentMethod, FieldOrderIn, FieldOrderOut, FieldOrderTime,
}

// fieldKeywords drive the best-match guesser. Keywords are compared after
// normalization (lowercase, spaces/underscores stripped) by containment, so
// "Sales Date", "sales_date" and "SalesDate" all match.
var fieldKeywords = map[Field][]string{
	FieldSalesDate:     {"salesdate", "transactiondate", "tanggal", "tgl"},
	FieldBranch:        {"branch", "outlet", "cabang", "store"},
	FieldBillNumber:    {"billnumber", "billno", "receipt", "struk", "invoice"},
	FieldNetSales:      {"nettsales", "netsales", "penjualanbersih", "amount"},
	FieldMenu:          {"menu", "itemname", "product"},
	FieldQty:           {"qty", "quantity", "kuantitas"},
	FieldChannel:       {"visitpurpose", "channel", "saluran"},
	FieldPaymentMethod: {"paymentmethod", "payment", "pembayaran"},
	FieldOrderIn:       {"salesdatein", "orderin", "timein"},
	FieldOrderOut:      {"salesdateout", "orderout", "timeout"},
	FieldOrderTime:     {"ordertime", "jampesanan", "hour"},
}

// Mapping binds internal fields to source column headers.
type Mapping map[Field]string

// Validate checks that every required field is mapped and no source column
// serves two fields.
func (m Mapping) Validate() error {
	for _, f := range RequiredFields {
		if m[f] == "" {
			return fmt.Errorf("required field %q is not mapped", f)
		}
	}
	used := make(map[string]Field)
	for f, col := range m {
		if col == "" {
			continue
		}
		if other, ok := used[col]; ok {
			return fmt.Errorf("column %q mapped to both %q and %q", col, other, f)
		}
		used[col] = f
	}
	return nil
}

// GuessMapping proposes a mapping from the report headers by normalized
// keyword containment, the same heuristic the upload form pre-fills with.
// Fields without a plausible header stay unmapped.
func GuessMapping(headers []string) Mapping {
	m := make(Mapping)
	taken := make(map[string]bool)

	for _, f := range append(append([]Field{}, RequiredFields...), OptionalFields...) {
		for _, h := range headers {
			if h == "" || taken[h] {
				continue
			}
			cleaned := normalize(h)
			for _, kw := range fieldKeywords[f] {
				if strings.Contains(cleaned, kw) {
					m[f] = h
					taken[h] = true
					break
				}
			}
			if m[f] != "" {
				break
			}
		}
	}
	return m
}

func normalize(s string) string {
	s = strings.ToLower(s)
	s = strings.ReplaceAll(s, "_", "")
	s = strings.ReplaceAll(s, " ", "")
	return s
}
