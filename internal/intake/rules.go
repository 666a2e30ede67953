package intake

import (
	"regexp"
	"strings"
)

// Rule extracts the raw token for one record field from a document. Rules are
// independent: none reads another field's output, so their relative order
// never changes the result. Each tries a primary labeled pattern first, then
// a generic structural fallback, and reports ok=false when neither matches.
type Rule struct {
	Field   string
	Extract func(doc Document) (string, bool)
}

// Rules returns the ordered extraction rule list.
func Rules() []Rule {
	return []Rule{
		{Field: FieldName, Extract: extractName},
		{Field: FieldCode, Extract: extractCode},
		{Field: FieldPhone, Extract: extractPhone},
		{Field: FieldEmail, Extract: extractEmail},
		{Field: FieldAddress, Extract: extractAddress},
		{Field: FieldProductName, Extract: extractProductName},
		{Field: FieldUnitPrice, Extract: extractUnitPrice},
		{Field: FieldQuantity, Extract: extractQuantity},
	}
}

var (
	nameLabelRe    = regexp.MustCompile(`(?i)(?:Company|Supplier|Vendor|Business|From)(?:\s+Name)?:\s*([A-Za-z0-9 &.,]+)`)
	nameHeadingRe  = regexp.MustCompile(`(?i)invoice|receipt|bill|statement|quotation|estimate|order`)
	nameMetadataRe = regexp.MustCompile(`(?i)date|number|id|ref`)
	nameFieldRe    = regexp.MustCompile(`(?i)^(?:phone|tel|telephone|mobile|cell|e-?mail|address|product|item|qty|quantity|price|total)\b`)

	codeLabelRe   = regexp.MustCompile(`(?i)(?:Supplier\s+ID|Vendor\s+Code|Supplier\s+Code|ID|Reference|Ref|Account)[:\s#]+([A-Za-z0-9\-]+)`)
	codeLinePreRe = regexp.MustCompile(`(?i)^(?:ID|No|#|Code)[:\s#]+([A-Za-z0-9\-]+)`)
	codeShapeRe   = regexp.MustCompile(`([A-Z]{2,}[0-9]{3,})`)

	phoneLabelRe   = regexp.MustCompile(`(?i)(?:Phone|Tel|Telephone|Contact|Mobile|Cell|Ph):\s*([0-9+ ().\-]{8,20})`)
	phoneGenericRe = regexp.MustCompile(`(?:\+?[0-9]{1,3}[-. ]?)?(?:\(?[0-9]{3}\)?[-. ]?)?[0-9]{3}[-. ]?[0-9]{4}`)

	emailLabelRe   = regexp.MustCompile(`(?i)E-?mail:\s*([a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,})`)
	emailGenericRe = regexp.MustCompile(`[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}`)

	addressLabelRe    = regexp.MustCompile(`(?i)(?:Address|Location|Place):\s*([A-Za-z0-9 .,#\-]+)`)
	addressStreetRe   = regexp.MustCompile(`(?i)\d+\s+[A-Za-z]+\s+(?:Street|St|Avenue|Ave|Road|Rd|Boulevard|Blvd|Lane|Ln|Drive|Dr)`)
	addressCityZipRe  = regexp.MustCompile(`(?i)[A-Za-z]+,\s*[A-Za-z]+\s*\d{5}`)
	addressStateRe    = regexp.MustCompile(`(?i)[A-Za-z]+\s+[A-Za-z]+,\s*[A-Za-z]{2}\s*\d{5}`)
	addressContinueRe = regexp.MustCompile(`[A-Za-z]+,\s*[A-Za-z]+|[A-Za-z]+\s+\d{5}`)

	productLabelRe   = regexp.MustCompile(`(?i)(?:Product|Item|Description|Service|Goods):\s*([A-Za-z0-9 .,#\-]+)`)
	productHeaderRe  = regexp.MustCompile(`(?i)(?:Item|Description|Product)\s+(?:Qty|Quantity|Count)\s+(?:Price|Rate|Cost|Amount|Unit\s+Price)`)
	productTotalsRe  = regexp.MustCompile(`(?i)total|subtotal|tax|shipping`)
	productNumbersRe = regexp.MustCompile(`\d+\.?\d*\s*(?:x|\*)?`)

	amountShape    = `(\d{1,3}(?:,\d{3})*(?:\.\d{1,2})?)`
	priceLabelRe   = regexp.MustCompile(`(?i)(?:Unit[ -]Price|Price|Cost|Amount|Rate|Each)[:\s]*[$€£]?\s*` + amountShape)
	priceGenericRe = regexp.MustCompile(`[$€£]\s*` + amountShape)

	quantityLabelRe   = regexp.MustCompile(`(?i)(?:Quantity|Qty|Count|Number|Units|Pieces|Pcs):?\s*(\d+)`)
	quantityGenericRe = regexp.MustCompile(`(?i)(\d+)\s*(?:x|\*|pcs|units|pieces)(?:\s|$)`)
)

func extractName(doc Document) (string, bool) {
	if m := nameLabelRe.FindStringSubmatch(doc.Text); m != nil {
		return strings.TrimSpace(m[1]), true
	}
	// No label: the supplier name tends to sit in the first lines of the
	// invoice, above dates, reference numbers and the word "invoice" itself.
	// Lines carrying another field's label are not candidate names.
	for i := 0; i < len(doc.Lines) && i < 5; i++ {
		line := doc.Lines[i]
		if len(line) <= 3 {
			continue
		}
		if nameHeadingRe.MatchString(line) || nameMetadataRe.MatchString(line) || nameFieldRe.MatchString(line) {
			continue
		}
		return line, true
	}
	return "", false
}

func extractCode(doc Document) (string, bool) {
	if m := codeLabelRe.FindStringSubmatch(doc.Text); m != nil {
		return strings.TrimSpace(m[1]), true
	}
	for i := 0; i < len(doc.Lines) && i < 10; i++ {
		if m := codeLinePreRe.FindStringSubmatch(doc.Lines[i]); m != nil {
			return strings.TrimSpace(m[1]), true
		}
		if m := codeShapeRe.FindStringSubmatch(doc.Lines[i]); m != nil {
			return strings.TrimSpace(m[1]), true
		}
	}
	return "", false
}

func extractPhone(doc Document) (string, bool) {
	if m := phoneLabelRe.FindStringSubmatch(doc.Text); m != nil {
		return strings.TrimSpace(m[1]), true
	}
	if m := phoneGenericRe.FindString(doc.Text); m != "" {
		return strings.TrimSpace(m), true
	}
	return "", false
}

func extractEmail(doc Document) (string, bool) {
	if m := emailLabelRe.FindStringSubmatch(doc.Text); m != nil {
		return strings.TrimSpace(m[1]), true
	}
	if m := emailGenericRe.FindString(doc.Text); m != "" {
		return strings.TrimSpace(m), true
	}
	return "", false
}

func extractAddress(doc Document) (string, bool) {
	if m := addressLabelRe.FindStringSubmatch(doc.Text); m != nil {
		return strings.TrimSpace(m[1]), true
	}
	for i, line := range doc.Lines {
		if !addressStreetRe.MatchString(line) && !addressCityZipRe.MatchString(line) && !addressStateRe.MatchString(line) {
			continue
		}
		parts := []string{line}
		// A city/zip continuation line directly below belongs to the address.
		if i+1 < len(doc.Lines) && addressContinueRe.MatchString(doc.Lines[i+1]) {
			parts = append(parts, doc.Lines[i+1])
		}
		return strings.TrimSpace(strings.Join(parts, ", ")), true
	}
	return "", false
}

func extractProductName(doc Document) (string, bool) {
	if m := productLabelRe.FindStringSubmatch(doc.Text); m != nil {
		return strings.TrimSpace(m[1]), true
	}
	// Tabular invoices: find the item table header and take the first data
	// row below it, stripped of quantity and price tokens.
	loc := productHeaderRe.FindStringIndex(doc.Text)
	if loc == nil {
		return "", false
	}
	window := doc.Text[loc[1]:]
	if len(window) > 300 {
		window = window[:300]
	}
	for _, line := range strings.Split(window, "\n") {
		line = strings.TrimSpace(line)
		if len(line) <= 3 || productTotalsRe.MatchString(line) {
			continue
		}
		if product := strings.TrimSpace(productNumbersRe.ReplaceAllString(line, "")); product != "" {
			return product, true
		}
	}
	return "", false
}

func extractUnitPrice(doc Document) (string, bool) {
	if m := priceLabelRe.FindStringSubmatch(doc.Text); m != nil {
		return m[1], true
	}
	if m := priceGenericRe.FindStringSubmatch(doc.Text); m != nil {
		return m[1], true
	}
	return "", false
}

func extractQuantity(doc Document) (string, bool) {
	if m := quantityLabelRe.FindStringSubmatch(doc.Text); m != nil {
		return m[1], true
	}
	if m := quantityGenericRe.FindStringSubmatch(doc.Text); m != nil {
		return m[1], true
	}
	return "", false
}
