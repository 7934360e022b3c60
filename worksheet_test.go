package payrollinspect

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenWorksheetMissingFile(t *testing.T) {
	_, err := OpenWorksheet(filepath.Join(t.TempDir(), "nope.xlsx"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrLoad)
}

func TestOpenWorksheetCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.xlsx")
	require.NoError(t, os.WriteFile(path, []byte("this is not a zip archive"), 0o644))

	_, err := OpenWorksheet(path)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrLoad)
}

func TestOpenWorksheetActiveSheetAndExtent(t *testing.T) {
	path := writeWorkbook(t, "June 25", map[string]interface{}{
		"A1": "Name",
		"B1": "Days Present",
		"A2": "Aman",
		// Formula-only cells carry no cached value but still widen the extent.
		"E7": "=SUM(B2:B6)",
	})

	ws, err := OpenWorksheet(path)
	require.NoError(t, err)
	defer ws.Close()

	assert.Equal(t, "June 25", ws.Title())
	assert.Equal(t, 7, ws.MaxRow())
	assert.Equal(t, 5, ws.MaxColumn())
	assert.Equal(t, path, ws.Path())
}

func TestExcelWorksheetCellKinds(t *testing.T) {
	path := writeWorkbook(t, "Sheet1", map[string]interface{}{
		"A1": "Employee",
		"B1": 2024,
		"C1": 12.5,
		"D1": true,
		"A2": "=B2*2",
	})

	ws, err := OpenWorksheet(path)
	require.NoError(t, err)
	defer ws.Close()

	c, err := ws.Cell(1, 1)
	require.NoError(t, err)
	assert.Equal(t, Cell{Kind: CellText, Text: "Employee", Address: "A1"}, c)

	c, err = ws.Cell(1, 2)
	require.NoError(t, err)
	assert.Equal(t, CellNumber, c.Kind)
	assert.Equal(t, "2024", c.String())

	c, err = ws.Cell(1, 3)
	require.NoError(t, err)
	assert.Equal(t, 12.5, c.Number)

	c, err = ws.Cell(1, 4)
	require.NoError(t, err)
	assert.Equal(t, Cell{Kind: CellBool, Bool: true, Address: "D1"}, c)
	assert.Equal(t, "TRUE", c.String())

	c, err = ws.Cell(2, 1)
	require.NoError(t, err)
	assert.True(t, c.IsFormula())
	assert.Equal(t, "=B2*2", c.Text)
	assert.Equal(t, "A2", c.Address)

	c, err = ws.Cell(3, 3)
	require.NoError(t, err)
	assert.Equal(t, CellEmpty, c.Kind)
	assert.Equal(t, "", c.String())
	assert.False(t, c.IsFormula())
}

func TestCellKindString(t *testing.T) {
	assert.Equal(t, "empty", CellEmpty.String())
	assert.Equal(t, "number", CellNumber.String())
	assert.Equal(t, "text", CellText.String())
	assert.Equal(t, "bool", CellBool.String())
}

func TestCellBlank(t *testing.T) {
	assert.True(t, Cell{}.Blank())
	assert.True(t, Cell{Kind: CellText}.Blank())
	assert.True(t, Cell{Kind: CellNumber}.Blank())
	assert.True(t, Cell{Kind: CellBool}.Blank())
	assert.False(t, Cell{Kind: CellText, Text: "Name"}.Blank())
	assert.False(t, Cell{Kind: CellNumber, Number: -1}.Blank())
	assert.False(t, Cell{Kind: CellBool, Bool: true}.Blank())
}

func TestColumnLetter(t *testing.T) {
	assert.Equal(t, "A", columnLetter(0))
	assert.Equal(t, "Z", columnLetter(25))
	assert.Equal(t, "AA", columnLetter(26))
	assert.Equal(t, "AI", columnLetter(34))
}
