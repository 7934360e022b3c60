package payrollinspect

import (
	"fmt"
	"os"
	"regexp"
	"sort"
	"strings"

	"github.com/thedatashed/xlsxreader"
	"github.com/xuri/excelize/v2"
)

const (
	previewRows  = 5
	previewCells = 10
	markRowLimit = 10
	maxMarkLen   = 3
	tailRows     = 5
	maxSamples   = 5
)

var dateHeaderPattern = regexp.MustCompile(`^\d+$|\d{1,2}/\d{1,2}`)

// Surveyor walks every visible sheet of a workbook. excelize answers
// visibility, xlsxreader streams the rows.
type Surveyor struct {
	filePath string
	file     *excelize.File
	xl       *xlsxreader.XlsxFileCloser
}

type MarkCount struct {
	Mark  string `json:"mark"`
	Count int    `json:"count"`
}

type TotalRow struct {
	Row    int      `json:"row"`
	Values []string `json:"values"`
}

type ColumnInfo struct {
	Name          string   `json:"name"`
	StartPosition string   `json:"start_position"`
	SampleValues  []string `json:"sample_values"`
	DataType      string   `json:"data_type"`
}

type SheetSurvey struct {
	Name            string       `json:"name"`
	RowCount        int          `json:"row_count"`
	ColumnCount     int          `json:"column_count"`
	Columns         []ColumnInfo `json:"columns,omitempty"`
	Preview         [][]string   `json:"preview"`
	HasDateColumns  bool         `json:"has_date_columns"`
	AttendanceMarks []MarkCount  `json:"attendance_marks,omitempty"`
	TotalRows       []TotalRow   `json:"total_rows,omitempty"`
	UnreadableRows  int          `json:"unreadable_rows,omitempty"`
}

type WorkbookSurvey struct {
	Sheets []SheetSurvey `json:"sheets"`
}

func NewSurveyor(filePath string) (*Surveyor, error) {
	if _, err := os.Stat(filePath); err != nil {
		return nil, fmt.Errorf("%w: file not found: %w", ErrLoad, err)
	}

	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to open excel file: %w", ErrLoad, err)
	}

	xl, err := xlsxreader.OpenFile(filePath)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("%w: failed to open excel file: %w", ErrLoad, err)
	}

	return &Surveyor{filePath: filePath, file: f, xl: xl}, nil
}

func (s *Surveyor) Close() error {
	if s.file != nil {
		s.file.Close()
	}
	if s.xl != nil {
		s.xl.Close()
	}
	return nil
}

// Survey never fails once the workbook is open: rows that cannot be decoded
// are counted in SheetSurvey.UnreadableRows.
func (s *Surveyor) Survey() *WorkbookSurvey {
	sheets := s.visibleSheets(s.file.GetSheetList())
	out := &WorkbookSurvey{Sheets: make([]SheetSurvey, 0, len(sheets))}
	for _, name := range sheets {
		out.Sheets = append(out.Sheets, s.surveySheet(name))
	}
	return out
}

func (s *Surveyor) visibleSheets(sheets []string) []string {
	out := make([]string, 0, len(sheets))
	for _, sheetName := range sheets {
		visible, err := s.file.GetSheetVisible(sheetName)
		if err != nil || !visible {
			continue
		}
		out = append(out, sheetName)
	}
	return out
}

type surveyRow struct {
	index  int
	values []string
	kinds  []xlsxreader.CellType
}

func (s *Surveyor) surveySheet(name string) SheetSurvey {
	detail := SheetSurvey{Name: name}

	var (
		seenHeader bool
		marks      = make(map[string]int)
		tail       []surveyRow
		head       []surveyRow
	)

	rows := s.xl.ReadRows(name)
	for row := range rows {
		if row.Error != nil {
			// Cells without a cached value (unsaved formulas) fail to decode.
			detail.UnreadableRows++
			continue
		}

		r := denseRow(row)
		detail.RowCount++
		if row.Index > detail.RowCount {
			detail.RowCount = row.Index
		}
		if len(r.values) > detail.ColumnCount {
			detail.ColumnCount = len(r.values)
		}

		if len(detail.Preview) < previewRows {
			detail.Preview = append(detail.Preview, truncate(r.values, previewCells))
		}

		if !seenHeader {
			seenHeader = true
			detail.HasDateColumns = hasDateColumns(r.values)
		} else if detail.HasDateColumns && r.index <= markRowLimit {
			countMarks(r, marks)
		}
		if len(head) <= maxSamples {
			head = append(head, r)
		}

		tail = append(tail, r)
		if len(tail) > tailRows {
			tail = tail[1:]
		}
	}

	detail.AttendanceMarks = sortedMarks(marks)
	detail.Columns = buildColumns(head)
	for _, r := range tail {
		if rowMentionsTotal(r.values) {
			detail.TotalRows = append(detail.TotalRows, TotalRow{Row: r.index, Values: truncate(r.values, previewCells)})
		}
	}
	return detail
}

// buildColumns treats the first row as headers and samples the rows below it.
func buildColumns(rows []surveyRow) []ColumnInfo {
	if len(rows) == 0 {
		return nil
	}
	header := rows[0]
	headers := trimTrailingEmpty(header.values)
	columns := make([]ColumnInfo, len(headers))
	for colIdx, name := range headers {
		columns[colIdx] = ColumnInfo{
			Name:          name,
			StartPosition: fmt.Sprintf("%s%d", columnLetter(colIdx), header.index),
			SampleValues:  make([]string, 0, maxSamples),
		}
	}

	for _, row := range rows[1:] {
		for colIdx := range headers {
			if colIdx >= len(row.values) {
				continue
			}
			v := row.values[colIdx]
			if v == "" || len(columns[colIdx].SampleValues) >= maxSamples {
				continue
			}
			columns[colIdx].SampleValues = append(columns[colIdx].SampleValues, v)
			if columns[colIdx].DataType == "" {
				columns[colIdx].DataType = getDataType(v)
			}
		}
	}
	return columns
}

func getDataType(value string) string {
	if value == "" {
		return "empty"
	}

	for _, r := range value {
		if r >= '0' && r <= '9' || r == '.' || r == '-' || r == '+' || r == 'e' || r == 'E' {
			continue
		}
		return "string"
	}
	return "number"
}

func denseRow(row xlsxreader.Row) surveyRow {
	width := 0
	for _, c := range row.Cells {
		if idx := c.ColumnIndex() + 1; idx > width {
			width = idx
		}
	}
	r := surveyRow{
		index:  row.Index,
		values: make([]string, width),
		kinds:  make([]xlsxreader.CellType, width),
	}
	for _, c := range row.Cells {
		idx := c.ColumnIndex()
		r.values[idx] = strings.TrimSpace(c.Value)
		r.kinds[idx] = c.Type
	}
	return r
}

func hasDateColumns(values []string) bool {
	for _, v := range values {
		if v != "" && dateHeaderPattern.MatchString(v) {
			return true
		}
	}
	return false
}

func countMarks(r surveyRow, marks map[string]int) {
	for idx, v := range r.values {
		if v == "" || r.kinds[idx] != xlsxreader.TypeString {
			continue
		}
		if len([]rune(v)) <= maxMarkLen {
			marks[v]++
		}
	}
}

func sortedMarks(marks map[string]int) []MarkCount {
	out := make([]MarkCount, 0, len(marks))
	for m, c := range marks {
		out = append(out, MarkCount{Mark: m, Count: c})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Mark < out[j].Mark
	})
	return out
}

func rowMentionsTotal(values []string) bool {
	for _, v := range values {
		if strings.Contains(strings.ToLower(v), "total") {
			return true
		}
	}
	return false
}

func truncate(values []string, n int) []string {
	values = trimTrailingEmpty(values)
	if len(values) > n {
		values = values[:n]
	}
	out := make([]string, len(values))
	copy(out, values)
	return out
}

func trimTrailingEmpty(row []string) []string {
	last := -1
	for i, cell := range row {
		if strings.TrimSpace(cell) != "" {
			last = i
		}
	}
	if last < 0 {
		return []string{}
	}
	return row[:last+1]
}

// Markdown renders the survey as a sheet table followed by one section per sheet.
func (ws *WorkbookSurvey) Markdown() string {
	var b strings.Builder

	b.WriteString("# Payroll Workbook Survey\n\n")
	b.WriteString("## Sheets\n\n")
	b.WriteString("| Name | Rows | Columns | Attendance grid |\n")
	b.WriteString("| --- | ---: | ---: | --- |\n")
	for _, s := range ws.Sheets {
		grid := "no"
		if s.HasDateColumns {
			grid = "yes"
		}
		b.WriteString(fmt.Sprintf("| %s | %d | %d | %s |\n", escapeMarkdownCell(s.Name), s.RowCount, s.ColumnCount, grid))
	}

	for _, s := range ws.Sheets {
		b.WriteString(fmt.Sprintf("\n### %s\n\n", escapeMarkdownCell(s.Name)))
		if s.UnreadableRows > 0 {
			b.WriteString(fmt.Sprintf("_%d rows could not be read._\n\n", s.UnreadableRows))
		}

		if len(s.Preview) == 0 {
			b.WriteString("_Sheet is empty._\n")
			continue
		}

		width := 0
		for _, row := range s.Preview {
			width = max(width, len(row))
		}
		b.WriteString("| # |")
		for idx := 0; idx < width; idx++ {
			b.WriteString(" " + columnLetter(idx) + " |")
		}
		b.WriteString("\n| ---: |")
		for idx := 0; idx < width; idx++ {
			b.WriteString(" --- |")
		}
		b.WriteString("\n")
		for rIdx, row := range s.Preview {
			b.WriteString(fmt.Sprintf("| %d |", rIdx+1))
			for idx := 0; idx < width; idx++ {
				v := ""
				if idx < len(row) {
					v = row[idx]
				}
				b.WriteString(" " + escapeMarkdownCell(v) + " |")
			}
			b.WriteString("\n")
		}

		if len(s.AttendanceMarks) > 0 {
			b.WriteString("\n#### Attendance marks\n\n")
			for _, m := range s.AttendanceMarks {
				b.WriteString(fmt.Sprintf("- %s: %d occurrences\n", escapeMarkdownCell(m.Mark), m.Count))
			}
		}

		if len(s.TotalRows) > 0 {
			b.WriteString("\n#### Summary rows\n\n")
			for _, t := range s.TotalRows {
				b.WriteString(fmt.Sprintf("- Row %d: %s\n", t.Row, escapeMarkdownCell(strings.Join(t.Values, " | "))))
			}
		}
	}

	return b.String()
}

func escapeMarkdownCell(v string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return ""
	}
	v = strings.ReplaceAll(v, "\\", "\\\\")
	v = strings.ReplaceAll(v, "|", "\\|")
	v = strings.ReplaceAll(v, "\n", " ")
	return v
}
