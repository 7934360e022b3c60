package payrollinspect

import (
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

// writeWorkbook saves cells to a fresh xlsx in a temp dir. Values starting
// with "=" are stored as formulas.
func writeWorkbook(t *testing.T, sheet string, cells map[string]interface{}) string {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	if sheet != "Sheet1" {
		idx, err := f.NewSheet(sheet)
		require.NoError(t, err)
		f.SetActiveSheet(idx)
	}
	for addr, v := range cells {
		if s, ok := v.(string); ok && strings.HasPrefix(s, "=") {
			require.NoError(t, f.SetCellFormula(sheet, addr, strings.TrimPrefix(s, "=")))
			continue
		}
		require.NoError(t, f.SetCellValue(sheet, addr, v))
	}

	path := filepath.Join(t.TempDir(), "payroll.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

// memSheet is an in-memory Worksheet keyed by "A1" style addresses.
type memSheet struct {
	title  string
	maxRow int
	maxCol int
	cells  map[string]Cell
}

func newMemSheet(title string, maxRow, maxCol int) *memSheet {
	return &memSheet{title: title, maxRow: maxRow, maxCol: maxCol, cells: make(map[string]Cell)}
}

func (m *memSheet) text(addr, v string) *memSheet {
	m.cells[addr] = Cell{Kind: CellText, Text: v, Address: addr}
	return m
}

func (m *memSheet) number(addr string, n float64) *memSheet {
	m.cells[addr] = Cell{Kind: CellNumber, Number: n, Address: addr}
	return m
}

func (m *memSheet) boolean(addr string, v bool) *memSheet {
	m.cells[addr] = Cell{Kind: CellBool, Bool: v, Address: addr}
	return m
}

func (m *memSheet) Title() string  { return m.title }
func (m *memSheet) MaxRow() int    { return m.maxRow }
func (m *memSheet) MaxColumn() int { return m.maxCol }

func (m *memSheet) Cell(row, col int) (Cell, error) {
	addr := fmt.Sprintf("%s%d", columnLetter(col-1), row)
	if c, ok := m.cells[addr]; ok {
		return c, nil
	}
	return Cell{Address: addr}, nil
}
