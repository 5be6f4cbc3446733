package importer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestDecodeCSVOrdinalsAndCells(t *testing.T) {
	data := []byte("name,category,price\nRing,Rings,4999\nBand,Rings,2999\n")

	rows, err := DecodeSpreadsheet(data, "products.csv")

	require.NoError(t, err)
	require.Len(t, rows, 2)

	// header counts as row 1
	assert.Equal(t, 2, rows[0].Ordinal)
	assert.Equal(t, 3, rows[1].Ordinal)

	assert.Equal(t, "Ring", rows[0].Cell("name").AsString())
	n, ok := rows[0].Cell("price").AsNumber()
	assert.True(t, ok)
	assert.Equal(t, 4999.0, n)
}

func TestDecodeCSVShortRecordLeavesCellsAbsent(t *testing.T) {
	data := []byte("name,category,price\nRing,Rings\n")

	rows, err := DecodeSpreadsheet(data, "products.csv")

	require.NoError(t, err)
	require.Len(t, rows, 1)

	assert.True(t, rows[0].Cell("price").IsAbsent())
	assert.False(t, rows[0].Cell("category").IsAbsent())
}

func TestDecodeCSVEmptyCellIsPresentButBlank(t *testing.T) {
	data := []byte("name,sku\nRing,\n")

	rows, err := DecodeSpreadsheet(data, "products.csv")

	require.NoError(t, err)
	require.Len(t, rows, 1)

	sku := rows[0].Cell("sku")
	assert.False(t, sku.IsAbsent())
	assert.True(t, sku.IsBlank())
}

func TestDecodeCSVNormalizesTemplateHeaders(t *testing.T) {
	data := []byte("name *, category *\nRing,Rings\n")

	rows, err := DecodeSpreadsheet(data, "products.csv")

	require.NoError(t, err)
	require.Len(t, rows, 1)

	assert.Equal(t, "Ring", rows[0].Cell("name").AsString())
	assert.Equal(t, "Rings", rows[0].Cell("category").AsString())
}

func TestDecodeCSVHeaderOnly(t *testing.T) {
	rows, err := DecodeSpreadsheet([]byte("name,category\n"), "products.csv")

	assert.NoError(t, err)
	assert.Empty(t, rows)
}

func TestDecodeXLSX(t *testing.T) {
	f := excelize.NewFile()
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &[]interface{}{"name", "price", "isActive"}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A2", &[]interface{}{"Ring", 4999, true}))
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	rows, err := DecodeSpreadsheet(buf.Bytes(), "products.xlsx")

	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, 2, rows[0].Ordinal)
	assert.Equal(t, "Ring", rows[0].Cell("name").AsString())

	n, ok := rows[0].Cell("price").AsNumber()
	assert.True(t, ok)
	assert.Equal(t, 4999.0, n)
	assert.True(t, rows[0].Cell("isActive").AsBool())
}

func TestDecodeLegacyXLSUnsupported(t *testing.T) {
	_, err := DecodeSpreadsheet([]byte{0xd0, 0xcf}, "products.xls")

	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestDecodeUnknownExtension(t *testing.T) {
	_, err := DecodeSpreadsheet([]byte("name\n"), "products.pdf")

	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestCellBoolCoercion(t *testing.T) {
	assert.True(t, textCell("true").AsBool())
	assert.True(t, textCell("YES").AsBool())
	assert.True(t, textCell("1").AsBool())
	assert.False(t, textCell("false").AsBool())
	assert.False(t, textCell("on").AsBool())
	assert.True(t, boolCell(true).AsBool())
	assert.True(t, numberCell(1).AsBool())
}
