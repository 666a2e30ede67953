package intake

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMapColumnsFrenchHeader(t *testing.T) {
	header := []string{"Nom", "Téléphone", "Adresse", "Produit", "Prix Unitaire", "Quantité"}

	fields := MapColumns(header)

	require.Equal(t, []string{
		FieldName, FieldPhone, FieldAddress, FieldProductName, FieldUnitPrice, FieldQuantity,
	}, fields)
}

func TestMapColumnsIgnoresUnknownColumns(t *testing.T) {
	fields := MapColumns([]string{"Nom", "Couleur Préférée", "Email"})

	require.Equal(t, []string{FieldName, "", FieldEmail}, fields)
}

func TestMapRow(t *testing.T) {
	fields := MapColumns([]string{"Nom", "Code", "Prix", "Stock"})

	rec := MapRow(fields, []string{" Droguerie Centrale ", "DC-88", "19.90", "140"})

	require.Equal(t, "Droguerie Centrale", rec.Name)
	require.Equal(t, "DC-88", rec.Code)
	require.InDelta(t, 19.90, rec.UnitPrice, 0.0001)
	require.Equal(t, 140, rec.Quantity)
}

func TestMapRowShortRowAndBadNumbers(t *testing.T) {
	fields := MapColumns([]string{"Nom", "Prix", "Quantité"})

	// Row shorter than the header: missing cells stay unset.
	rec := MapRow(fields, []string{"Atelier Nord"})
	require.Equal(t, "Atelier Nord", rec.Name)
	require.Zero(t, rec.UnitPrice)
	require.Zero(t, rec.Quantity)

	// Negative and non-numeric cells are discarded, not errors.
	rec = MapRow(fields, []string{"Atelier Nord", "-5.00", "beaucoup"})
	require.Equal(t, "Atelier Nord", rec.Name)
	require.Zero(t, rec.UnitPrice)
	require.Zero(t, rec.Quantity)
}
