package kintone

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// Field is one value of a record. Reads keep the raw JSON so numbers sent
// as strings and nulls are handled the same way.
type Field struct {
	Type  string          `json:"type,omitempty"`
	Value json.RawMessage `json:"value"`
}

// Record maps field codes to values.
type Record map[string]Field

// Value builds a field for writes. A nil value clears the field.
func Value(v any) Field {
	b, err := json.Marshal(v)
	if err != nil {
		b = []byte("null")
	}
	return Field{Value: b}
}

// String returns a text field, "" when absent or null. Non-string values are
// returned in their JSON form.
func (r Record) String(code string) string {
	f, ok := r[code]
	if !ok || len(f.Value) == 0 || string(f.Value) == "null" {
		return ""
	}
	var s string
	if err := json.Unmarshal(f.Value, &s); err == nil {
		return s
	}
	return string(f.Value)
}

// Number returns a numeric field. Numbers may arrive as JSON strings.
func (r Record) Number(code string) *float64 {
	s := r.String(code)
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &v
}

// Time parses a DATETIME field. ok is false when the field is empty.
func (r Record) Time(code string) (t time.Time, ok bool, err error) {
	s := r.String(code)
	if s == "" {
		return time.Time{}, false, nil
	}
	t, err = time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("field %s: %w", code, err)
	}
	return t, true, nil
}

// ID returns the record number ($id).
func (r Record) ID() (uint, bool) {
	v, err := strconv.ParseUint(r.String("$id"), 10, 64)
	if err != nil {
		return 0, false
	}
	return uint(v), true
}
