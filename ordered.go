package payrollinspect

import (
	"bytes"
	"encoding/json"
)

// orderedMap keeps keys in first-insertion order. Setting an existing key
// replaces its value in place. A nil map reads as empty and encodes as {}.
type orderedMap[V any] struct {
	keys   []string
	values map[string]V
}

func newOrderedMap[V any]() *orderedMap[V] {
	return &orderedMap[V]{values: make(map[string]V)}
}

func (m *orderedMap[V]) Set(key string, v V) {
	if _, ok := m.values[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.values[key] = v
}

func (m *orderedMap[V]) Get(key string) (V, bool) {
	if m == nil {
		var zero V
		return zero, false
	}
	v, ok := m.values[key]
	return v, ok
}

func (m *orderedMap[V]) Keys() []string {
	if m == nil {
		return nil
	}
	out := make([]string, len(m.keys))
	copy(out, m.keys)
	return out
}

func (m *orderedMap[V]) Len() int {
	if m == nil {
		return 0
	}
	return len(m.keys)
}

func (m *orderedMap[V]) MarshalJSON() ([]byte, error) {
	if m == nil {
		return []byte("{}"), nil
	}
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range m.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := encodeJSONValue(&buf, k); err != nil {
			return nil, err
		}
		buf.WriteByte(':')
		if err := encodeJSONValue(&buf, m.values[k]); err != nil {
			return nil, err
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func encodeJSONValue(buf *bytes.Buffer, v any) error {
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return err
	}
	// Encode terminates every value with a newline.
	buf.Truncate(buf.Len() - 1)
	return nil
}

// FormulaMap maps a header to every formula sampled under it. The zero value
// is a read-only empty map; use NewFormulaMap before appending.
type FormulaMap struct{ *orderedMap[[]FormulaRecord] }

// AttendanceMap maps an attendance header to its formulas in row order.
type AttendanceMap struct{ *orderedMap[[]string] }

// CalculationMap maps a salary header to its representative formula.
type CalculationMap struct{ *orderedMap[string] }

func NewFormulaMap() FormulaMap         { return FormulaMap{newOrderedMap[[]FormulaRecord]()} }
func NewAttendanceMap() AttendanceMap   { return AttendanceMap{newOrderedMap[[]string]()} }
func NewCalculationMap() CalculationMap { return CalculationMap{newOrderedMap[string]()} }

func (m FormulaMap) Append(header string, rec FormulaRecord) {
	cur, _ := m.Get(header)
	m.Set(header, append(cur, rec))
}
