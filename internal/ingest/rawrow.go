package ingest

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// RawRow is one uploaded record: arbitrary string keys mapped to scalar
// values, with the original key order preserved. Key order matters
// because schema fields that have no name match fall back to column
// position (see Resolve).
type RawRow struct {
	values map[string]any
	keys   []string
}

// NewRawRow returns an empty row. Rows built programmatically (tests,
// fixtures) append columns with Set.
func NewRawRow() RawRow {
	return RawRow{values: make(map[string]any)}
}

// Set appends a column to the row, or overwrites the value when the key
// already exists without changing its position.
func (r *RawRow) Set(key string, value any) {
	if r.values == nil {
		r.values = make(map[string]any)
	}
	if _, exists := r.values[key]; !exists {
		r.keys = append(r.keys, key)
	}
	r.values[key] = value
}

// Get returns the value for an exact key.
func (r RawRow) Get(key string) (any, bool) {
	v, ok := r.values[key]
	return v, ok
}

// At returns the key and value at column position i, in the order the
// upload supplied them.
func (r RawRow) At(i int) (string, any, bool) {
	if i < 0 || i >= len(r.keys) {
		return "", nil, false
	}
	key := r.keys[i]
	return key, r.values[key], true
}

// Len returns the number of columns in the row.
func (r RawRow) Len() int {
	return len(r.keys)
}

// UnmarshalJSON decodes a JSON object while recording the order its
// keys appeared in. The standard map decoding would lose that order,
// which positional fallback depends on, so the object is walked token
// by token. Numbers are kept as json.Number to avoid float rounding
// before coercion.
func (r *RawRow) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return fmt.Errorf("failed to decode raw row: %w", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("raw row must be a JSON object, got %v", tok)
	}

	r.keys = nil
	r.values = make(map[string]any)

	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return fmt.Errorf("failed to decode raw row key: %w", err)
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("raw row key is not a string: %v", keyTok)
		}

		var value any
		if err := dec.Decode(&value); err != nil {
			return fmt.Errorf("failed to decode raw row value for %q: %w", key, err)
		}

		if _, dup := r.values[key]; !dup {
			r.keys = append(r.keys, key)
		}
		r.values[key] = value
	}

	// Consume the closing brace.
	if _, err := dec.Token(); err != nil {
		return fmt.Errorf("failed to decode raw row: %w", err)
	}

	return nil
}

// MarshalJSON renders the row as a JSON object in original key order.
func (r RawRow) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, key := range r.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		keyJSON, err := json.Marshal(key)
		if err != nil {
			return nil, err
		}
		valueJSON, err := json.Marshal(r.values[key])
		if err != nil {
			return nil, err
		}
		buf.Write(keyJSON)
		buf.WriteByte(':')
		buf.Write(valueJSON)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
