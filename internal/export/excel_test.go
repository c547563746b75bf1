package export

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"kycdocs/internal/fields"
)

func strPtr(s string) *string { return &s }

func TestWorkbookRoundTrip(t *testing.T) {
	rows := fields.Consolidate(nil)
	require.Len(t, rows, len(fields.Master))

	// Give one row a value so we can see it land in the Valor column.
	for i := range rows {
		if rows[i].Field == "numero_identificacion" {
			rows[i].Valor = strPtr("1032456789")
		}
	}

	data, err := Workbook(rows)
	require.NoError(t, err)
	require.NotEmpty(t, data)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{SheetName}, f.GetSheetList())

	cells, err := f.GetRows(SheetName)
	require.NoError(t, err)
	require.Len(t, cells, len(fields.Master)+1)

	assert.Equal(t, headers, cells[0])

	found := false
	for _, row := range cells[1:] {
		if len(row) >= 7 && row[3] == "numero_identificacion" {
			assert.Equal(t, "1032456789", row[6])
			found = true
		}
	}
	assert.True(t, found, "expected numero_identificacion row with value")
}

func TestWorkbookEmptyValuesStayBlank(t *testing.T) {
	rows := fields.Consolidate(nil)

	data, err := Workbook(rows)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	val, err := f.GetCellValue(SheetName, "G2")
	require.NoError(t, err)
	assert.Empty(t, val)
}
