package payrollinspect

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	toon "github.com/mateuszkardas/toon-go"
)

// MarshalIndentJSON renders a with two-space indentation. Formula text is kept
// verbatim, so comparison operators are not HTML-escaped.
func (a *Analysis) MarshalIndentJSON() ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(a); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// WriteJSON overwrites path with the JSON form of a.
func WriteJSON(path string, a *Analysis) error {
	data, err := a.MarshalIndentJSON()
	if err != nil {
		return fmt.Errorf("encode analysis: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// toonPayload flattens a into plain maps and slices for the TOON encoder,
// which has no notion of the ordered map types.
func (a *Analysis) toonPayload() map[string]interface{} {
	formulas := make([]map[string]interface{}, 0)
	for _, header := range a.Formulas.Keys() {
		recs, _ := a.Formulas.Get(header)
		for _, r := range recs {
			formulas = append(formulas, map[string]interface{}{
				"column":  header,
				"cell":    r.Cell,
				"formula": r.Formula,
			})
		}
	}

	attendance := make([]map[string]interface{}, 0)
	for _, header := range a.AttendanceLogic.Keys() {
		fs, _ := a.AttendanceLogic.Get(header)
		for idx, f := range fs {
			attendance = append(attendance, map[string]interface{}{
				"column":  header,
				"sample":  idx + 1,
				"formula": f,
			})
		}
	}

	methods := make([]map[string]interface{}, 0)
	for _, header := range a.CalculationMethods.Keys() {
		f, _ := a.CalculationMethods.Get(header)
		methods = append(methods, map[string]interface{}{
			"column":  header,
			"formula": f,
		})
	}

	return map[string]interface{}{
		"sheet_name":          a.SheetName,
		"columns":             a.Columns,
		"formulas":            formulas,
		"attendance_logic":    attendance,
		"calculation_methods": methods,
	}
}

func (a *Analysis) MarshalTOON() (string, error) {
	return toon.Marshal(a.toonPayload(), nil)
}

// WriteTOON overwrites path with the TOON form of a.
func WriteTOON(path string, a *Analysis) error {
	out, err := a.MarshalTOON()
	if err != nil {
		return fmt.Errorf("encode analysis: %w", err)
	}
	if err := os.WriteFile(path, []byte(out), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
