package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
)

// Record is a JSON object that preserves the key order of the source
// document. Election exports are heterogeneous, so the set of columns in
// the tidy output is derived from the data itself; preserving document
// order keeps output columns stable across runs.
//
// Values are decoded as:
//   - JSON object: *Record
//   - JSON array:  []any
//   - JSON number: json.Number (literal formatting survives to output)
//   - JSON string: string
//   - JSON bool:   bool
//   - JSON null:   nil
type Record struct {
	keys   []string
	values map[string]any
}

// NewRecord returns an empty Record.
func NewRecord() *Record {
	return &Record{
		keys:   make([]string, 0),
		values: make(map[string]any),
	}
}

// Keys returns the record's keys in document order.
// The returned slice must not be modified by the caller.
func (r *Record) Keys() []string {
	return r.keys
}

// Get returns the value for key and whether the key is present.
func (r *Record) Get(key string) (any, bool) {
	v, ok := r.values[key]
	return v, ok
}

// Has reports whether the key is present.
func (r *Record) Has(key string) bool {
	_, ok := r.values[key]
	return ok
}

// Set stores a value under key. A new key is appended to the key order;
// an existing key keeps its position.
func (r *Record) Set(key string, value any) {
	if _, ok := r.values[key]; !ok {
		r.keys = append(r.keys, key)
	}
	r.values[key] = value
}

// Len returns the number of keys in the record.
func (r *Record) Len() int {
	return len(r.keys)
}

// UnmarshalJSON decodes a JSON object into the record, preserving key order.
// Numbers are decoded as json.Number.
func (r *Record) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	delim, ok := tok.(json.Delim)
	if !ok || delim != '{' {
		return fmt.Errorf("record: expected JSON object, got %v", tok)
	}

	r.keys = make([]string, 0)
	r.values = make(map[string]any)
	return decodeObjectBody(dec, r)
}

// MarshalJSON encodes the record as a JSON object in key order.
func (r *Record) MarshalJSON() ([]byte, error) {
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
		buf.Write(keyJSON)
		buf.WriteByte(':')
		valJSON, err := json.Marshal(r.values[key])
		if err != nil {
			return nil, err
		}
		buf.Write(valJSON)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// decodeObjectBody reads key/value pairs until the closing brace.
// The opening brace must already have been consumed.
func decodeObjectBody(dec *json.Decoder, r *Record) error {
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("record: expected object key, got %v", tok)
		}

		value, err := decodeValue(dec)
		if err != nil {
			return err
		}
		r.Set(key, value)
	}

	// Consume the closing '}'.
	if _, err := dec.Token(); err != nil {
		return err
	}
	return nil
}

// decodeValue reads a single JSON value from the decoder.
func decodeValue(dec *json.Decoder) (any, error) {
	tok, err := dec.Token()
	if err != nil {
		if err == io.EOF {
			return nil, io.ErrUnexpectedEOF
		}
		return nil, err
	}

	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			nested := NewRecord()
			if err := decodeObjectBody(dec, nested); err != nil {
				return nil, err
			}
			return nested, nil
		case '[':
			values := make([]any, 0)
			for dec.More() {
				v, err := decodeValue(dec)
				if err != nil {
					return nil, err
				}
				values = append(values, v)
			}
			// Consume the closing ']'.
			if _, err := dec.Token(); err != nil {
				return nil, err
			}
			return values, nil
		default:
			return nil, fmt.Errorf("record: unexpected delimiter %v", t)
		}
	default:
		// string, json.Number, bool, or nil.
		return tok, nil
	}
}
