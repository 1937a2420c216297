package saveparser

import (
	"fmt"
	"strconv"
)

// Key is a mapping key: either a string or an int64.
type Key = any

// Value is one node of a parsed gamestate tree: int64, float64, string,
// List or *Object.
type Value = any

// List is an ordered sequence of values.
type List []Value

// Object is a parsed mapping. The document treats mappings as multimaps:
// the same key may appear many times at one level. Repeated keys are merged
// on insert, so a key always resolves to a single value: the second
// occurrence replaces the stored value with a two-element List and later
// occurrences append to it. Key order is first-occurrence order.
type Object struct {
	keys []Key
	vals map[Key]Value
	dups map[Key]bool // keys whose value is a List built by merging
}

func NewObject() *Object {
	return &Object{vals: make(map[Key]Value)}
}

// Put inserts or merges one (key, value) occurrence.
func (o *Object) Put(key Key, value Value) {
	existing, ok := o.vals[key]
	if !ok {
		o.keys = append(o.keys, key)
		o.vals[key] = value
		return
	}
	if o.dups == nil {
		o.dups = make(map[Key]bool)
	}
	if o.dups[key] {
		o.vals[key] = append(existing.(List), value)
	} else {
		o.vals[key] = List{existing, value}
		o.dups[key] = true
	}
}

// Get returns the value stored under key. For keys that occurred more than
// once in the source this is the merged List.
func (o *Object) Get(key Key) (Value, bool) {
	v, ok := o.vals[key]
	return v, ok
}

// Values returns every occurrence of key as a slice: nil if absent, a
// one-element slice for single occurrences, and the merged List otherwise.
func (o *Object) Values(key Key) []Value {
	v, ok := o.vals[key]
	if !ok {
		return nil
	}
	if o.dups[key] {
		return v.(List)
	}
	return []Value{v}
}

// Keys returns the keys in first-occurrence order.
func (o *Object) Keys() []Key {
	return o.keys
}

func (o *Object) Len() int {
	return len(o.keys)
}

// String looks up a string value under key.
func (o *Object) String(key Key) (string, bool) {
	s, ok := o.vals[key].(string)
	return s, ok
}

// Int looks up an integer value under key.
func (o *Object) Int(key Key) (int64, bool) {
	n, ok := o.vals[key].(int64)
	return n, ok
}

// Float looks up a float value under key; integer values convert.
func (o *Object) Float(key Key) (float64, bool) {
	switch v := o.vals[key].(type) {
	case float64:
		return v, true
	case int64:
		return float64(v), true
	}
	return 0, false
}

// Object looks up a nested mapping under key.
func (o *Object) Object(key Key) (*Object, bool) {
	obj, ok := o.vals[key].(*Object)
	return obj, ok
}

// List looks up a sequence under key.
func (o *Object) List(key Key) (List, bool) {
	l, ok := o.vals[key].(List)
	return l, ok
}

// Plain converts a parsed tree into plain maps and slices (map[string]any,
// []any and scalars), with integer keys rendered in decimal. Key order is
// lost; useful for dumping trees and for comparisons in tests.
func Plain(v Value) any {
	switch t := v.(type) {
	case *Object:
		m := make(map[string]any, t.Len())
		for _, k := range t.keys {
			m[KeyString(k)] = Plain(t.vals[k])
		}
		return m
	case List:
		l := make([]any, len(t))
		for i, e := range t {
			l[i] = Plain(e)
		}
		return l
	}
	return v
}

// KeyString formats a key for log and error messages.
func KeyString(key Key) string {
	switch k := key.(type) {
	case string:
		return k
	case int64:
		return strconv.FormatInt(k, 10)
	}
	return fmt.Sprintf("%v", key)
}
