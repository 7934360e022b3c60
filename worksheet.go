package payrollinspect

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ErrLoad marks failures to open or parse the workbook.
var ErrLoad = errors.New("load workbook")

type CellKind int

const (
	CellEmpty CellKind = iota
	CellNumber
	CellText
	CellBool
)

func (k CellKind) String() string {
	switch k {
	case CellNumber:
		return "number"
	case CellText:
		return "text"
	case CellBool:
		return "bool"
	default:
		return "empty"
	}
}

// Cell is a single worksheet value. Formula cells are CellText holding the
// literal formula including its leading "=".
type Cell struct {
	Kind    CellKind
	Text    string
	Number  float64
	Bool    bool
	Address string
}

func (c Cell) IsFormula() bool {
	return c.Kind == CellText && strings.HasPrefix(c.Text, "=")
}

// String returns the display text of the cell, empty for CellEmpty.
func (c Cell) String() string {
	switch c.Kind {
	case CellText:
		return c.Text
	case CellNumber:
		return strconv.FormatFloat(c.Number, 'f', -1, 64)
	case CellBool:
		if c.Bool {
			return "TRUE"
		}
		return "FALSE"
	default:
		return ""
	}
}

// Blank reports whether the cell is empty, empty text, numeric zero or FALSE.
func (c Cell) Blank() bool {
	switch c.Kind {
	case CellText:
		return c.Text == ""
	case CellNumber:
		return c.Number == 0
	case CellBool:
		return !c.Bool
	default:
		return true
	}
}

// Worksheet is the read-only view the analyzer needs. Rows and columns are
// 1-based.
type Worksheet interface {
	Title() string
	MaxRow() int
	MaxColumn() int
	Cell(row, col int) (Cell, error)
}

type ExcelWorksheet struct {
	filePath string
	file     *excelize.File
	sheet    string
	maxRow   int
	maxCol   int
}

// OpenWorksheet opens the workbook at filePath and binds its active sheet.
func OpenWorksheet(filePath string) (*ExcelWorksheet, error) {
	if _, err := os.Stat(filePath); err != nil {
		return nil, fmt.Errorf("%w: file not found: %w", ErrLoad, err)
	}

	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to open excel file: %w", ErrLoad, err)
	}

	sheet := f.GetSheetName(f.GetActiveSheetIndex())
	if sheet == "" {
		if list := f.GetSheetList(); len(list) > 0 {
			sheet = list[0]
		}
	}
	if sheet == "" {
		f.Close()
		return nil, fmt.Errorf("%w: workbook has no sheets", ErrLoad)
	}

	ws := &ExcelWorksheet{
		filePath: filePath,
		file:     f,
		sheet:    sheet,
	}

	if ws.maxRow, err = ws.countRows(); err != nil {
		f.Close()
		return nil, fmt.Errorf("%w: sheet %q: %w", ErrLoad, sheet, err)
	}
	if ws.maxCol, err = ws.countColumns(); err != nil {
		f.Close()
		return nil, fmt.Errorf("%w: sheet %q: %w", ErrLoad, sheet, err)
	}

	return ws, nil
}

func (w *ExcelWorksheet) Close() error {
	if w.file != nil {
		return w.file.Close()
	}
	return nil
}

func (w *ExcelWorksheet) Title() string  { return w.sheet }
func (w *ExcelWorksheet) MaxRow() int    { return w.maxRow }
func (w *ExcelWorksheet) MaxColumn() int { return w.maxCol }

// Path returns the file the worksheet was loaded from.
func (w *ExcelWorksheet) Path() string { return w.filePath }

func (w *ExcelWorksheet) Cell(row, col int) (Cell, error) {
	addr, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return Cell{}, err
	}

	formula, err := w.file.GetCellFormula(w.sheet, addr)
	if err != nil {
		return Cell{}, fmt.Errorf("cell %s: formula: %w", addr, err)
	}
	if formula != "" {
		return Cell{Kind: CellText, Text: "=" + strings.TrimPrefix(formula, "="), Address: addr}, nil
	}

	value, err := w.file.GetCellValue(w.sheet, addr, excelize.Options{RawCellValue: true})
	if err != nil {
		return Cell{}, fmt.Errorf("cell %s: value: %w", addr, err)
	}
	if value == "" {
		return Cell{Address: addr}, nil
	}

	typ, err := w.file.GetCellType(w.sheet, addr)
	if err != nil {
		return Cell{}, fmt.Errorf("cell %s: type: %w", addr, err)
	}
	switch typ {
	case excelize.CellTypeBool:
		return Cell{Kind: CellBool, Bool: value == "1" || strings.EqualFold(value, "true"), Address: addr}, nil
	case excelize.CellTypeSharedString, excelize.CellTypeInlineString, excelize.CellTypeFormula,
		excelize.CellTypeError:
		return Cell{Kind: CellText, Text: value, Address: addr}, nil
	}
	if n, err := strconv.ParseFloat(value, 64); err == nil {
		return Cell{Kind: CellNumber, Number: n, Address: addr}, nil
	}
	return Cell{Kind: CellText, Text: value, Address: addr}, nil
}

// countRows walks every <row> element so rows holding only formulas count.
func (w *ExcelWorksheet) countRows() (int, error) {
	rows, err := w.file.Rows(w.sheet)
	if err != nil {
		return 0, err
	}
	defer rows.Close()

	count := 0
	for rows.Next() {
		count++
	}
	return count, rows.Error()
}

// countColumns uses the column iterator, which sizes itself from every <c>
// element regardless of whether the cell carries a cached value.
func (w *ExcelWorksheet) countColumns() (int, error) {
	cols, err := w.file.Cols(w.sheet)
	if err != nil {
		return 0, err
	}

	count := 0
	for cols.Next() {
		count++
	}
	return count, nil
}

func columnLetter(colIdx int) string {
	result := ""
	for {
		result = string(rune('A'+colIdx%26)) + result
		colIdx = colIdx/26 - 1
		if colIdx < 0 {
			break
		}
	}
	return result
}
