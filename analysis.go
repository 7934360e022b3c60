package payrollinspect

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/sirupsen/logrus"
)

// DefaultRowLimit is the last absolute row index sampled for formulas.
const DefaultRowLimit = 10

type FormulaRecord struct {
	Cell    string `json:"cell"`
	Formula string `json:"formula"`
}

// Analysis is the result of one pass over a payroll worksheet. It is not
// modified after Analyze returns.
type Analysis struct {
	SheetName          string         `json:"sheet_name"`
	Columns            []string       `json:"columns"`
	Formulas           FormulaMap     `json:"formulas"`
	AttendanceLogic    AttendanceMap  `json:"attendance_logic"`
	CalculationMethods CalculationMap `json:"calculation_methods"`
}

type Analyzer struct {
	rowLimit         int
	logger           logrus.FieldLogger
	progressCallback func(ProgressInfo)
	progressChan     chan<- ProgressInfo
}

type AnalyzerOption func(*Analyzer)

type ProgressInfo struct {
	Phase   string  `json:"phase"`
	Sheet   string  `json:"sheet,omitempty"`
	Current int     `json:"current"`
	Total   int     `json:"total"`
	Percent float64 `json:"percent"`
}

func WithLogger(l logrus.FieldLogger) AnalyzerOption {
	return func(a *Analyzer) {
		if l != nil {
			a.logger = l
		}
	}
}

// WithRowLimit moves the absolute row cap. Values below 2 are ignored.
func WithRowLimit(row int) AnalyzerOption {
	return func(a *Analyzer) {
		if row >= 2 {
			a.rowLimit = row
		}
	}
}

func WithProgressCallback(fn func(ProgressInfo)) AnalyzerOption {
	return func(a *Analyzer) {
		a.progressCallback = fn
	}
}

func WithProgressChannel(ch chan<- ProgressInfo) AnalyzerOption {
	return func(a *Analyzer) {
		a.progressChan = ch
	}
}

func NewAnalyzer(opts ...AnalyzerOption) *Analyzer {
	discard := logrus.New()
	discard.SetOutput(io.Discard)

	a := &Analyzer{
		rowLimit: DefaultRowLimit,
		logger:   discard,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

type column struct {
	index  int
	header string
}

// Analyze extracts headers, samples formulas and classifies columns.
func (a *Analyzer) Analyze(ctx context.Context, ws Worksheet) (*Analysis, error) {
	start := time.Now()
	sheet := ws.Title()
	log := a.logger.WithField("sheet", sheet)

	analysis := &Analysis{
		SheetName:          sheet,
		Columns:            []string{},
		Formulas:           NewFormulaMap(),
		AttendanceLogic:    NewAttendanceMap(),
		CalculationMethods: NewCalculationMap(),
	}

	headers, err := a.extractHeaders(ws)
	if err != nil {
		return nil, fmt.Errorf("headers: %w", err)
	}
	headerByCol := make(map[int]string, len(headers))
	for _, h := range headers {
		headerByCol[h.index] = h.header
		analysis.Columns = append(analysis.Columns, h.header)
	}
	a.emitProgress("headers", sheet, 1, 4)
	log.WithField("columns", len(headers)).Debug("headers extracted")

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := a.sampleFormulas(ws, headerByCol, analysis.Formulas); err != nil {
		return nil, fmt.Errorf("formulas: %w", err)
	}
	a.emitProgress("formulas", sheet, 2, 4)
	log.WithField("headers_with_formulas", analysis.Formulas.Len()).Debug("formulas sampled")

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	for _, h := range headers {
		if !AttendanceKeywords.Match(h.header) {
			continue
		}
		formulas, err := a.columnFormulas(ws, h.index)
		if err != nil {
			return nil, fmt.Errorf("attendance column %q: %w", h.header, err)
		}
		if len(formulas) > 0 {
			analysis.AttendanceLogic.Set(h.header, formulas)
		}
	}
	a.emitProgress("attendance", sheet, 3, 4)

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	for _, h := range headers {
		if !SalaryKeywords.Match(h.header) {
			continue
		}
		formulas, err := a.columnFormulas(ws, h.index)
		if err != nil {
			return nil, fmt.Errorf("salary column %q: %w", h.header, err)
		}
		if len(formulas) > 0 {
			analysis.CalculationMethods.Set(h.header, formulas[0])
		}
	}
	a.emitProgress("salary", sheet, 4, 4)

	log.WithFields(logrus.Fields{
		"attendance": analysis.AttendanceLogic.Len(),
		"salary":     analysis.CalculationMethods.Len(),
		"elapsed":    time.Since(start),
	}).Debug("analysis complete")

	return analysis, nil
}

func (a *Analyzer) extractHeaders(ws Worksheet) ([]column, error) {
	var out []column
	for col := 1; col <= ws.MaxColumn(); col++ {
		cell, err := ws.Cell(1, col)
		if err != nil {
			return nil, err
		}
		if cell.Blank() {
			continue
		}
		out = append(out, column{index: col, header: cell.String()})
	}
	return out, nil
}

// lastSampledRow caps the scan at the absolute row limit, not at a count of
// data rows.
func (a *Analyzer) lastSampledRow(ws Worksheet) int {
	return min(ws.MaxRow(), a.rowLimit)
}

func (a *Analyzer) sampleFormulas(ws Worksheet, headerByCol map[int]string, out FormulaMap) error {
	last := a.lastSampledRow(ws)
	for row := 2; row <= last; row++ {
		for col := 1; col <= ws.MaxColumn(); col++ {
			cell, err := ws.Cell(row, col)
			if err != nil {
				return err
			}
			if !cell.IsFormula() {
				continue
			}
			header, ok := headerByCol[col]
			if !ok {
				header = fmt.Sprintf("Column %d", col)
			}
			out.Append(header, FormulaRecord{Cell: cell.Address, Formula: cell.Text})
		}
	}
	return nil
}

func (a *Analyzer) columnFormulas(ws Worksheet, col int) ([]string, error) {
	var formulas []string
	last := a.lastSampledRow(ws)
	for row := 2; row <= last; row++ {
		cell, err := ws.Cell(row, col)
		if err != nil {
			return nil, err
		}
		if cell.IsFormula() {
			formulas = append(formulas, cell.Text)
		}
	}
	return formulas, nil
}

func (a *Analyzer) emitProgress(phase, sheet string, current, total int) {
	if a.progressCallback == nil && a.progressChan == nil {
		return
	}
	pct := 0.0
	if total > 0 {
		pct = (float64(current) / float64(total)) * 100.0
		if pct < 0 {
			pct = 0
		}
		if pct > 100 {
			pct = 100
		}
	}
	info := ProgressInfo{
		Phase:   phase,
		Sheet:   sheet,
		Current: current,
		Total:   total,
		Percent: pct,
	}
	if a.progressCallback != nil {
		a.progressCallback(info)
	}
	if a.progressChan != nil {
		select {
		case a.progressChan <- info:
		default:
		}
	}
}

// AnalyzeFile opens path, analyzes its active sheet and closes it again.
func AnalyzeFile(ctx context.Context, path string, opts ...AnalyzerOption) (*Analysis, error) {
	ws, err := OpenWorksheet(path)
	if err != nil {
		return nil, err
	}
	defer ws.Close()

	return NewAnalyzer(opts...).Analyze(ctx, ws)
}
