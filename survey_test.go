package payrollinspect

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func writeSurveyWorkbook(t *testing.T) string {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	grid := [][]interface{}{
		{"Name", 1, 2, 3},
		{"Aman Kumar", "P", "P", "A"},
		{"Priya Shah", "P", "L", "P"},
		{"Ravi Verma", "A", "P", "P"},
		{"Total", 3, 2, 1},
	}
	for idx, row := range grid {
		cell, err := excelize.CoordinatesToCellName(1, idx+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &row))
	}

	_, err := f.NewSheet("Summary")
	require.NoError(t, err)
	require.NoError(t, f.SetCellValue("Summary", "A1", "Department"))
	require.NoError(t, f.SetCellValue("Summary", "B1", "Headcount"))
	require.NoError(t, f.SetCellValue("Summary", "A2", "Accounts"))
	require.NoError(t, f.SetCellValue("Summary", "B2", 4))

	_, err = f.NewSheet("Scratch")
	require.NoError(t, err)
	require.NoError(t, f.SetCellValue("Scratch", "A1", "ignore me"))
	require.NoError(t, f.SetSheetVisible("Scratch", false))

	path := filepath.Join(t.TempDir(), "workbook.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

func TestSurvey(t *testing.T) {
	s, err := NewSurveyor(writeSurveyWorkbook(t))
	require.NoError(t, err)
	defer s.Close()

	survey := s.Survey()
	require.Len(t, survey.Sheets, 2)

	grid := survey.Sheets[0]
	assert.Equal(t, "Sheet1", grid.Name)
	assert.Equal(t, 5, grid.RowCount)
	assert.Equal(t, 4, grid.ColumnCount)
	assert.True(t, grid.HasDateColumns)
	assert.Len(t, grid.Preview, 5)
	assert.Equal(t, []string{"Aman Kumar", "P", "P", "A"}, grid.Preview[1])
	assert.Equal(t, []MarkCount{{Mark: "P", Count: 6}, {Mark: "A", Count: 2}, {Mark: "L", Count: 1}}, grid.AttendanceMarks)
	require.Len(t, grid.Columns, 4)
	assert.Equal(t, ColumnInfo{
		Name:          "Name",
		StartPosition: "A1",
		SampleValues:  []string{"Aman Kumar", "Priya Shah", "Ravi Verma", "Total"},
		DataType:      "string",
	}, grid.Columns[0])
	assert.Equal(t, "1", grid.Columns[1].Name)

	assert.Equal(t, []TotalRow{{Row: 5, Values: []string{"Total", "3", "2", "1"}}}, grid.TotalRows)

	summary := survey.Sheets[1]
	assert.Equal(t, "Summary", summary.Name)
	assert.False(t, summary.HasDateColumns)
	assert.Empty(t, summary.AttendanceMarks)
	assert.Empty(t, summary.TotalRows)
	require.Len(t, summary.Columns, 2)
	assert.Equal(t, "number", summary.Columns[1].DataType)
}

func TestSurveyMarkdown(t *testing.T) {
	s, err := NewSurveyor(writeSurveyWorkbook(t))
	require.NoError(t, err)
	defer s.Close()

	survey := s.Survey()

	md := survey.Markdown()
	assert.Contains(t, md, "| Sheet1 | 5 | 4 | yes |\n")
	assert.Contains(t, md, "| Summary | 2 | 2 | no |\n")
	assert.Contains(t, md, "| # | A | B | C | D |\n")
	assert.Contains(t, md, "- P: 6 occurrences\n")
	assert.Contains(t, md, "- Row 5: Total \\| 3 \\| 2 \\| 1\n")
	assert.NotContains(t, md, "Scratch")
}

func TestNewSurveyorMissingFile(t *testing.T) {
	_, err := NewSurveyor(filepath.Join(t.TempDir(), "nope.xlsx"))
	assert.ErrorIs(t, err, ErrLoad)
}

func TestGetDataType(t *testing.T) {
	assert.Equal(t, "empty", getDataType(""))
	assert.Equal(t, "number", getDataType("-12.5e3"))
	assert.Equal(t, "string", getDataType("P"))
}

func TestEscapeMarkdownCell(t *testing.T) {
	assert.Equal(t, "a \\| b", escapeMarkdownCell(" a | b "))
	assert.Equal(t, "line one line two", escapeMarkdownCell("line one\nline two"))
	assert.Equal(t, "", escapeMarkdownCell("   "))
}
