package intake

import "strings"

// columnAliases maps recognized spreadsheet column headers (French and
// English, case-insensitive) to record fields. Unrecognized columns are
// ignored; the tabular path never guesses.
var columnAliases = map[string]string{
	"name":           FieldName,
	"nom":            FieldName,
	"fournisseur":    FieldName,
	"code":           FieldCode,
	"phone":          FieldPhone,
	"telephone":      FieldPhone,
	"téléphone":      FieldPhone,
	"tel":            FieldPhone,
	"email":          FieldEmail,
	"e-mail":         FieldEmail,
	"address":        FieldAddress,
	"adresse":        FieldAddress,
	"product":        FieldProductName,
	"product name":   FieldProductName,
	"produit":        FieldProductName,
	"price":          FieldUnitPrice,
	"unit price":     FieldUnitPrice,
	"prix":           FieldUnitPrice,
	"prix unitaire":  FieldUnitPrice,
	"quantity":       FieldQuantity,
	"qty":            FieldQuantity,
	"quantite":       FieldQuantity,
	"quantité":       FieldQuantity,
	"stock":          FieldQuantity,
	"nombre":         FieldQuantity,
}

// MapColumns resolves a header row to record fields. The returned slice is
// positional; an empty string marks an ignored column.
func MapColumns(header []string) []string {
	fields := make([]string, len(header))
	for i, column := range header {
		fields[i] = columnAliases[strings.ToLower(strings.TrimSpace(column))]
	}
	return fields
}

// MapRow converts one data row into a record using the resolved columns.
// This path is a deterministic 1:1 mapping with no heuristics. Numeric cells
// follow the same invalid-or-negative-means-unset policy as OCR extraction.
func MapRow(fields []string, row []string) Record {
	var rec Record
	for i, field := range fields {
		if field == "" || i >= len(row) {
			continue
		}
		assign(&rec, field, strings.TrimSpace(row[i]))
	}
	return rec
}
