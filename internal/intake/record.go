// Package intake turns uploaded supplier documents (OCR text, tabular rows)
// into partially filled structured records the console pre-fills its form
// with. Extraction is assistive only: nothing here is authoritative and every
// field stays editable by the user before submission.
package intake

// Record is a supplier intake result. Unset convention: empty string for text
// fields, zero for numeric fields. A record is transient: built per uploaded
// document, returned to the caller, never persisted as-is.
type Record struct {
	Name        string  `json:"name"`
	Code        string  `json:"code"`
	Phone       string  `json:"phone"`
	Email       string  `json:"email"`
	Address     string  `json:"address"`
	ProductName string  `json:"productName"`
	UnitPrice   float64 `json:"singleProductPrice"`
	Quantity    int     `json:"numberOfProducts"`
}

// Field identifiers used by extraction rules. They double as the JSON keys
// the console binds its form inputs to.
const (
	FieldName        = "name"
	FieldCode        = "code"
	FieldPhone       = "phone"
	FieldEmail       = "email"
	FieldAddress     = "address"
	FieldProductName = "productName"
	FieldUnitPrice   = "singleProductPrice"
	FieldQuantity    = "numberOfProducts"
)
