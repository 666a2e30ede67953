package intake

import (
	"testing"

	"github.com/stretchr/testify/require"
)

const sampleInvoice = "Kairouan Distribution SARL\r\n" +
	"Invoice #2024-118\r\n" +
	"Supplier Code: KD-1042\r\n" +
	"\r\n" +
	"Phone: +216 22 334 455\r\n" +
	"Email: contact@kairouan-distribution.tn\r\n" +
	"Address: 14 Avenue Habib Bourguiba\r\n" +
	"\r\n" +
	"Product: Perceuse Bosch GSB 13\r\n" +
	"Unit Price: $1,250.50\r\n" +
	"Quantity: 12\r\n"

func TestExtractLabeledInvoice(t *testing.T) {
	rec := Extract(sampleInvoice)

	require.Equal(t, "Kairouan Distribution SARL", rec.Name)
	require.Equal(t, "KD-1042", rec.Code)
	require.Equal(t, "+216 22 334 455", rec.Phone)
	require.Equal(t, "contact@kairouan-distribution.tn", rec.Email)
	require.Equal(t, "14 Avenue Habib Bourguiba", rec.Address)
	require.Equal(t, "Perceuse Bosch GSB 13", rec.ProductName)
	require.InDelta(t, 1250.50, rec.UnitPrice, 0.0001)
	require.Equal(t, 12, rec.Quantity)
}

func TestPhoneRuleLeavesOtherFieldsAlone(t *testing.T) {
	rec := Extract("Phone: +216 22 334 455")

	require.Equal(t, "+216 22 334 455", rec.Phone)
	require.Empty(t, rec.Email)
	require.Empty(t, rec.Address)
	require.Empty(t, rec.ProductName)
	require.Zero(t, rec.UnitPrice)
	require.Zero(t, rec.Quantity)
}

func TestEmailStaysUnsetWithoutPattern(t *testing.T) {
	rec := Extract("Phone: 71 123 456\nno electronic contact given")
	require.Empty(t, rec.Email)
}

func TestQuantityFallbackAtEndOfText(t *testing.T) {
	rec := Extract("Quincaillerie du Sud\ncommande de 12 pcs")
	require.Equal(t, 12, rec.Quantity)
}

func TestGenericEmailFallback(t *testing.T) {
	rec := Extract("reach us at ventes@exemple.tn for orders")
	require.Equal(t, "ventes@exemple.tn", rec.Email)
}

func TestPriceWithThousandsSeparator(t *testing.T) {
	rec := Extract("everything for $1,250.50 apiece")
	require.InDelta(t, 1250.50, rec.UnitPrice, 0.0001)
}

func TestNegativeAndMalformedNumbersStayUnset(t *testing.T) {
	price, ok := ParseAmount("-42.00")
	require.False(t, ok)
	require.Zero(t, price)

	_, ok = ParseAmount("abc")
	require.False(t, ok)

	qty, ok := ParseCount("-3")
	require.False(t, ok)
	require.Zero(t, qty)

	_, ok = ParseCount("douze")
	require.False(t, ok)
}

func TestUnstructuredTextYieldsEmptyRecord(t *testing.T) {
	rec := Extract("???\n!!\n--\n..")
	require.Equal(t, Record{}, rec)

	rec = Extract("")
	require.Equal(t, Record{}, rec)
}

func TestRulesAreOrderInsensitive(t *testing.T) {
	doc := NewDocument(sampleInvoice)
	rules := Rules()

	// Apply the rules in reverse order; every field must come out identical
	// because no rule reads another field's output.
	var reversed Record
	for i := len(rules) - 1; i >= 0; i-- {
		if token, ok := rules[i].Extract(doc); ok {
			assign(&reversed, rules[i].Field, token)
		}
	}
	require.Equal(t, Extract(sampleInvoice), reversed)
}

func TestNameHeuristicSkipsInvoiceHeadings(t *testing.T) {
	rec := Extract("INVOICE\nDate: 2024-03-02\nSociete El Amen\nPhone: 71 000 111")
	require.Equal(t, "Societe El Amen", rec.Name)
}

func TestProductFromTableLayout(t *testing.T) {
	text := "Facture\n" +
		"Item Qty Price\n" +
		"Ponceuse Makita 2 180.00\n" +
		"Subtotal 360.00\n"
	rec := Extract(text)
	require.Equal(t, "Ponceuse Makita", rec.ProductName)
}
