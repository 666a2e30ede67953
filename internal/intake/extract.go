package intake

import (
	"math"
	"strconv"
	"strings"
)

// Extract runs every rule against the raw OCR text and returns the resulting
// record. A field whose rule does not match stays unset; numeric tokens that
// parse to negative or invalid values are discarded the same way. Extract
// never fails: the worst case is a zero-valued record.
func Extract(raw string) Record {
	doc := NewDocument(raw)
	var rec Record
	for _, rule := range Rules() {
		token, ok := rule.Extract(doc)
		if !ok {
			continue
		}
		assign(&rec, rule.Field, token)
	}
	return rec
}

func assign(rec *Record, field, token string) {
	switch field {
	case FieldName:
		rec.Name = token
	case FieldCode:
		rec.Code = token
	case FieldPhone:
		rec.Phone = token
	case FieldEmail:
		rec.Email = token
	case FieldAddress:
		rec.Address = token
	case FieldProductName:
		rec.ProductName = token
	case FieldUnitPrice:
		if price, ok := ParseAmount(token); ok {
			rec.UnitPrice = price
		}
	case FieldQuantity:
		if qty, ok := ParseCount(token); ok {
			rec.Quantity = qty
		}
	}
}

// ParseAmount parses a monetary token, tolerating currency symbols and
// thousands separators. Negative and non-finite results are rejected.
func ParseAmount(token string) (float64, bool) {
	cleaned := strings.TrimSpace(token)
	cleaned = strings.TrimLeft(cleaned, "$€£ ")
	cleaned = strings.ReplaceAll(cleaned, ",", "")
	if cleaned == "" {
		return 0, false
	}
	value, err := strconv.ParseFloat(cleaned, 64)
	if err != nil || math.IsNaN(value) || math.IsInf(value, 0) || value < 0 {
		return 0, false
	}
	return value, true
}

// ParseCount parses an integer quantity token, rejecting negatives.
func ParseCount(token string) (int, bool) {
	cleaned := strings.ReplaceAll(strings.TrimSpace(token), ",", "")
	if cleaned == "" {
		return 0, false
	}
	value, err := strconv.Atoi(cleaned)
	if err != nil || value < 0 {
		return 0, false
	}
	return value, true
}
