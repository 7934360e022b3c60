package payrollinspect

import (
	"strings"

	"github.com/xuri/efp"
)

type PatternMatch struct {
	Column  string `json:"column"`
	Cell    string `json:"cell"`
	Formula string `json:"formula"`
}

// PatternReport groups sampled formulas by the payroll idiom they implement.
type PatternReport struct {
	CountIf   []PatternMatch `json:"countif"`
	DailyRate []PatternMatch `json:"daily_rate"`
}

// daysInMonth are the divisors that turn a monthly amount into a daily rate.
var daysInMonth = map[string]bool{"28": true, "29": true, "30": true, "31": true}

// ScanPatterns tokenizes every sampled formula in a.Formulas.
func ScanPatterns(a *Analysis) *PatternReport {
	report := &PatternReport{}
	for _, header := range a.Formulas.Keys() {
		recs, _ := a.Formulas.Get(header)
		for _, r := range recs {
			ps := efp.ExcelParser()
			tokens := ps.Parse(r.Formula)
			m := PatternMatch{Column: header, Cell: r.Cell, Formula: r.Formula}
			if callsCountIf(tokens) {
				report.CountIf = append(report.CountIf, m)
			}
			if dividesByMonthDays(tokens) {
				report.DailyRate = append(report.DailyRate, m)
			}
		}
	}
	return report
}

func callsCountIf(tokens []efp.Token) bool {
	for _, t := range tokens {
		if t.TType != efp.TokenTypeFunction || t.TSubType != efp.TokenSubTypeStart {
			continue
		}
		if strings.HasPrefix(strings.ToUpper(t.TValue), "COUNTIF") {
			return true
		}
	}
	return false
}

func dividesByMonthDays(tokens []efp.Token) bool {
	tokens = withoutWhitespace(tokens)
	for i := 0; i+1 < len(tokens); i++ {
		if tokens[i].TType != efp.TokenTypeOperatorInfix || tokens[i].TValue != "/" {
			continue
		}
		next := tokens[i+1]
		if next.TType == efp.TokenTypeOperand && next.TSubType == efp.TokenSubTypeNumber && daysInMonth[next.TValue] {
			return true
		}
	}
	return false
}

func withoutWhitespace(tokens []efp.Token) []efp.Token {
	out := make([]efp.Token, 0, len(tokens))
	for _, t := range tokens {
		if t.TType == efp.TokenTypeWhitespace {
			continue
		}
		out = append(out, t)
	}
	return out
}
