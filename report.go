package payrollinspect

import (
	"fmt"
	"io"
	"strings"
)

// attendanceExamples is how many formulas the report shows per attendance header.
const attendanceExamples = 3

// WriteReport prints the human-readable summary of a.
func WriteReport(w io.Writer, a *Analysis) error {
	var b strings.Builder

	b.WriteString("=== EXCEL PAYROLL SHEET ANALYSIS ===\n\n")
	b.WriteString(fmt.Sprintf("Sheet Name: %s\n", a.SheetName))
	b.WriteString(fmt.Sprintf("Total Columns: %d\n", len(a.Columns)))
	b.WriteString("\nColumn Headers:\n")
	for idx, col := range a.Columns {
		b.WriteString(fmt.Sprintf("  %d. %s\n", idx+1, col))
	}

	b.WriteString("\n=== ATTENDANCE FORMULAS ===\n")
	if a.AttendanceLogic.Len() > 0 {
		for _, header := range a.AttendanceLogic.Keys() {
			formulas, _ := a.AttendanceLogic.Get(header)
			b.WriteString(fmt.Sprintf("\n%s:\n", header))
			for _, f := range formulas[:min(len(formulas), attendanceExamples)] {
				b.WriteString(fmt.Sprintf("  %s\n", f))
			}
		}
	} else {
		b.WriteString("No attendance formulas found\n")
	}

	b.WriteString("\n=== SALARY CALCULATION FORMULAS ===\n")
	if a.CalculationMethods.Len() > 0 {
		for _, header := range a.CalculationMethods.Keys() {
			formula, _ := a.CalculationMethods.Get(header)
			b.WriteString(fmt.Sprintf("\n%s:\n", header))
			b.WriteString(fmt.Sprintf("  %s\n", formula))
		}
	} else {
		b.WriteString("No salary calculation formulas found\n")
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// WritePatterns prints the formula pattern section.
func WritePatterns(w io.Writer, p *PatternReport) error {
	var b strings.Builder

	b.WriteString("\n=== ATTENDANCE COUNTING LOGIC ===\n")
	if len(p.CountIf) == 0 {
		b.WriteString("No COUNTIF formulas found\n")
	} else {
		b.WriteString("\nCOUNTIF formulas found:\n")
		for _, m := range p.CountIf {
			b.WriteString(fmt.Sprintf("  %s (%s): %s\n", m.Column, m.Cell, m.Formula))
		}
	}

	b.WriteString("\n=== FORMULA PATTERNS ===\n")
	if len(p.DailyRate) == 0 {
		b.WriteString("No daily rate calculations found\n")
	} else {
		b.WriteString("\nDaily rate calculations:\n")
		for _, m := range p.DailyRate[:min(len(p.DailyRate), attendanceExamples)] {
			b.WriteString(fmt.Sprintf("  %s: %s\n", m.Column, m.Formula))
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}
