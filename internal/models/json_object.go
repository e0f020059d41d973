// Package models defines the entities exchanged with API clients and stored
// in the database: cards and their visualization settings, collections,
// users, tables, timelines and timeline events.
package models

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// Kind classifies a JSON value.
type Kind int

const (
	KindInvalid Kind = iota
	KindNull
	KindBool
	KindNumber
	KindString
	KindSequence
	KindMapping
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindSequence:
		return "sequence"
	case KindMapping:
		return "mapping"
	default:
		return "invalid"
	}
}

// ErrKindMismatch is wrapped by typed accessors when a stored value has a
// different JSON kind than the caller asked for.
var ErrKindMismatch = errors.New("unexpected JSON kind")

// Value is a single JSON value kept in its encoded form. Decoding is deferred
// until a caller asks for a concrete type, so values nobody understands are
// never altered.
type Value struct {
	raw json.RawMessage
}

// NewValue encodes v as a Value.
func NewValue(v interface{}) (Value, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return Value{}, err
	}
	return Value{raw: raw}, nil
}

// RawValue wraps already-encoded JSON without validating it.
func RawValue(raw json.RawMessage) Value {
	return Value{raw: raw}
}

// Raw returns the encoded JSON.
func (v Value) Raw() json.RawMessage {
	return v.raw
}

// Kind inspects the first significant byte of the encoded value.
func (v Value) Kind() Kind {
	trimmed := bytes.TrimSpace(v.raw)
	if len(trimmed) == 0 {
		return KindInvalid
	}
	switch c := trimmed[0]; {
	case c == 'n':
		return KindNull
	case c == 't' || c == 'f':
		return KindBool
	case c == '"':
		return KindString
	case c == '[':
		return KindSequence
	case c == '{':
		return KindMapping
	case c == '-' || (c >= '0' && c <= '9'):
		return KindNumber
	default:
		return KindInvalid
	}
}

// IsNull reports whether the value is JSON null.
func (v Value) IsNull() bool {
	return v.Kind() == KindNull
}

// Decode unmarshals the value into dst, checking the JSON kind first.
func (v Value) Decode(want Kind, dst interface{}) error {
	if got := v.Kind(); got != want {
		return fmt.Errorf("%w: want %s, got %s", ErrKindMismatch, want, got)
	}
	return json.Unmarshal(v.raw, dst)
}

// Bool decodes a boolean value.
func (v Value) Bool() (bool, error) {
	var b bool
	err := v.Decode(KindBool, &b)
	return b, err
}

// Number decodes a numeric value.
func (v Value) Number() (float64, error) {
	var f float64
	err := v.Decode(KindNumber, &f)
	return f, err
}

// Text decodes a string value.
func (v Value) Text() (string, error) {
	var s string
	err := v.Decode(KindString, &s)
	return s, err
}

// MarshalJSON implements json.Marshaler.
func (v Value) MarshalJSON() ([]byte, error) {
	if len(v.raw) == 0 {
		return []byte("null"), nil
	}
	return v.raw, nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (v *Value) UnmarshalJSON(data []byte) error {
	v.raw = append(json.RawMessage(nil), data...)
	return nil
}

// Object is a JSON object that remembers the order its keys were first seen
// in and keeps every value in encoded form. Re-encoding an Object yields the
// same keys in the same order with the same values.
type Object struct {
	keys   []string
	values map[string]json.RawMessage
}

// Len returns the number of keys.
func (o *Object) Len() int {
	return len(o.keys)
}

// Keys returns the keys in order. The slice is a copy.
func (o *Object) Keys() []string {
	keys := make([]string, len(o.keys))
	copy(keys, o.keys)
	return keys
}

// Has reports whether key is present.
func (o *Object) Has(key string) bool {
	_, ok := o.values[key]
	return ok
}

// Get returns the value stored under key.
func (o *Object) Get(key string) (Value, bool) {
	raw, ok := o.values[key]
	if !ok {
		return Value{}, false
	}
	return Value{raw: raw}, true
}

// SetValue stores v under key. A new key is appended; an existing key keeps
// its position.
func (o *Object) SetValue(key string, v Value) {
	if o.values == nil {
		o.values = make(map[string]json.RawMessage)
	}
	if _, exists := o.values[key]; !exists {
		o.keys = append(o.keys, key)
	}
	o.values[key] = v.raw
}

// Set encodes v and stores it under key.
func (o *Object) Set(key string, v interface{}) error {
	value, err := NewValue(v)
	if err != nil {
		return fmt.Errorf("encode %q: %w", key, err)
	}
	o.SetValue(key, value)
	return nil
}

// Delete removes key if present.
func (o *Object) Delete(key string) {
	if _, ok := o.values[key]; !ok {
		return
	}
	delete(o.values, key)
	for i, k := range o.keys {
		if k == key {
			o.keys = append(o.keys[:i], o.keys[i+1:]...)
			break
		}
	}
}

// Clone returns a deep copy.
func (o *Object) Clone() Object {
	clone := Object{
		keys:   o.Keys(),
		values: make(map[string]json.RawMessage, len(o.values)),
	}
	for k, v := range o.values {
		clone.values[k] = append(json.RawMessage(nil), v...)
	}
	return clone
}

// MarshalJSON writes the keys in order. Values are compacted but otherwise
// written as stored.
func (o Object) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, key := range o.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := writeKey(&buf, key); err != nil {
			return nil, err
		}
		buf.WriteByte(':')
		raw := o.values[key]
		if len(raw) == 0 {
			buf.WriteString("null")
			continue
		}
		if err := json.Compact(&buf, raw); err != nil {
			return nil, fmt.Errorf("invalid JSON under %q: %w", key, err)
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func writeKey(buf *bytes.Buffer, key string) error {
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(key); err != nil {
		return err
	}
	// Encode terminates with a newline
	buf.Truncate(buf.Len() - 1)
	return nil
}

// UnmarshalJSON reads a JSON object keeping key order. JSON null yields an
// empty Object. A repeated key keeps its first position and its last value.
func (o *Object) UnmarshalJSON(data []byte) error {
	o.keys = nil
	o.values = nil

	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("%w: want mapping", ErrKindMismatch)
	}

	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("unexpected object key %v", tok)
		}

		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return fmt.Errorf("decode %q: %w", key, err)
		}
		o.SetValue(key, Value{raw: raw})
	}

	if _, err := dec.Token(); err != nil {
		return err
	}
	return nil
}
