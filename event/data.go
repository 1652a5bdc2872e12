package event

import (
	"bytes"
	"sort"
	"strings"

	"github.com/goccy/go-json"
	"github.com/pkg/errors"
)

// Field is one key/value pair of an event's data mapping.
type Field struct {
	Key   string
	Value interface{}
}

// Data is an immutable string-keyed mapping that remembers insertion order.
// Values may be scalars, nested Data, or plain map[string]interface{};
// nested values are addressable through dot-delimited paths.
type Data struct {
	keys   []string
	values map[string]interface{}
}

// NewData builds a mapping from fields in order. A repeated key keeps its
// first position and the last value.
func NewData(fields ...Field) Data {
	d := Data{keys: make([]string, 0, len(fields)), values: make(map[string]interface{}, len(fields))}
	for _, f := range fields {
		if _, ok := d.values[f.Key]; !ok {
			d.keys = append(d.keys, f.Key)
		}
		d.values[f.Key] = f.Value
	}
	return d
}

func (d Data) Len() int { return len(d.keys) }

// Keys returns the top-level keys in insertion order.
func (d Data) Keys() []string {
	keys := make([]string, len(d.keys))
	copy(keys, d.keys)
	return keys
}

// Get resolves a dot-delimited path, descending through nested Data or
// map[string]interface{} values.
func (d Data) Get(path string) (interface{}, error) {
	parts := strings.Split(path, ".")
	var current interface{} = d
	for depth, part := range parts {
		switch node := current.(type) {
		case Data:
			v, ok := node.values[part]
			if !ok {
				return nil, errors.WithMessagef(ErrFieldNotFound, "no field %q (looking up %q)", strings.Join(parts[:depth+1], "."), path)
			}
			current = v
		case map[string]interface{}:
			v, ok := node[part]
			if !ok {
				return nil, errors.WithMessagef(ErrFieldNotFound, "no field %q (looking up %q)", strings.Join(parts[:depth+1], "."), path)
			}
			current = v
		default:
			return nil, errors.WithMessagef(ErrFieldNotFound, "%q is not a mapping (looking up %q)", strings.Join(parts[:depth], "."), path)
		}
	}
	return current, nil
}

// Set returns a new mapping with the value at the dot-delimited path
// replaced. Intermediate mappings along the path are structurally copied;
// missing intermediates are created as nested Data. The receiver is unchanged.
func (d Data) Set(path string, value interface{}) Data {
	return d.set(strings.Split(path, "."), value)
}

func (d Data) set(parts []string, value interface{}) Data {
	out := Data{keys: make([]string, len(d.keys)), values: make(map[string]interface{}, len(d.values)+1)}
	copy(out.keys, d.keys)
	for k, v := range d.values {
		out.values[k] = v
	}
	key := parts[0]
	if _, ok := out.values[key]; !ok {
		out.keys = append(out.keys, key)
	}
	if len(parts) == 1 {
		out.values[key] = value
		return out
	}
	switch node := out.values[key].(type) {
	case Data:
		out.values[key] = node.set(parts[1:], value)
	case map[string]interface{}:
		out.values[key] = mapToData(node).set(parts[1:], value)
	default:
		out.values[key] = NewData().set(parts[1:], value)
	}
	return out
}

func mapToData(m map[string]interface{}) Data {
	d := Data{keys: make([]string, 0, len(m)), values: make(map[string]interface{}, len(m))}
	for k, v := range m {
		d.keys = append(d.keys, k)
		d.values[k] = v
	}
	// map iteration order is unspecified, keep the copy deterministic
	sort.Strings(d.keys)
	return d
}

// MarshalJSON writes fields in insertion order.
func (d Data) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, key := range d.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(key)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		v, err := json.Marshal(d.values[key])
		if err != nil {
			return nil, err
		}
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
