package suppliers

import (
	"time"

	"github.com/locagest/locagest/internal/intake"
)

// Supplier carries the contact fields plus the product line captured during
// intake. JSON names line up with the intake record so a scanned draft can be
// posted back unchanged.
type Supplier struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Code        string    `json:"code"`
	Phone       string    `json:"phone"`
	Email       string    `json:"email"`
	Address     string    `json:"address"`
	ProductName string    `json:"productName"`
	UnitPrice   float64   `json:"singleProductPrice"`
	Quantity    int       `json:"numberOfProducts"`
	CreatedAt   time.Time `json:"createdAt"`
}

// FromRecord builds a supplier from an extraction or import record.
func FromRecord(rec intake.Record) Supplier {
	return Supplier{
		Name:        rec.Name,
		Code:        rec.Code,
		Phone:       rec.Phone,
		Email:       rec.Email,
		Address:     rec.Address,
		ProductName: rec.ProductName,
		UnitPrice:   rec.UnitPrice,
		Quantity:    rec.Quantity,
	}
}

// ScanResult is the response of the invoice scan endpoint: the OCR outcome
// plus the draft record the console pre-fills. Nothing is persisted here.
type ScanResult struct {
	Success      bool          `json:"success"`
	ErrorMessage string        `json:"errorMessage,omitempty"`
	Text         string        `json:"extractedText,omitempty"`
	Draft        intake.Record `json:"draft"`
}

// ImportReport summarizes a CSV import: valid rows proceed even when others
// fail.
type ImportReport struct {
	Created  int          `json:"created"`
	Failures []RowFailure `json:"failures"`
}

type RowFailure struct {
	Line   int    `json:"line"`
	Reason string `json:"reason"`
}
