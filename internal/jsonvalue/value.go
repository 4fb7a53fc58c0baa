// Package jsonvalue implements a minimal, dependency-free JSON value model
// used by the rest of this module for JSON-RPC payloads. It exists because
// the server needs to preserve member order on output (for stable,
// diffable test fixtures) and needs a cheap "get me the value at this path,
// or tell me it's absent" accessor, neither of which encoding/json's
// map[string]interface{} gives us directly.
package jsonvalue

// Kind identifies the variant held by a Value.
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindObject
	KindArray
)

// member is one key/value pair of an object, kept in insertion order.
type member struct {
	Key string
	Val Value
}

// Value is a JSON value variant. The zero Value is JSON null.
type Value struct {
	kind Kind
	b    bool
	n    float64
	s    string
	obj  []member
	arr  []Value
}

func Null() Value           { return Value{kind: KindNull} }
func Bool(v bool) Value     { return Value{kind: KindBool, b: v} }
func Number(v float64) Value { return Value{kind: KindNumber, n: v} }
func Int(v int) Value       { return Number(float64(v)) }
func String(v string) Value { return Value{kind: KindString, s: v} }
func Array(items []Value) Value {
	if items == nil {
		items = []Value{}
	}
	return Value{kind: KindArray, arr: items}
}

// Object builds an object Value, preserving the order keys are given in.
func Object() *ObjectBuilder {
	return &ObjectBuilder{}
}

// ObjectBuilder accumulates members in insertion order before sealing into
// a Value with Build. Kept separate from Value so construction code reads
// as a sequence of Set calls rather than repeated struct copies.
type ObjectBuilder struct {
	members []member
}

func (b *ObjectBuilder) Set(key string, v Value) *ObjectBuilder {
	b.members = append(b.members, member{Key: key, Val: v})
	return b
}

func (b *ObjectBuilder) Build() Value {
	return Value{kind: KindObject, obj: b.members}
}

func (v Value) Kind() Kind     { return v.kind }
func (v Value) IsNull() bool   { return v.kind == KindNull }
func (v Value) IsObject() bool { return v.kind == KindObject }
func (v Value) IsArray() bool  { return v.kind == KindArray }

func (v Value) AsBool() bool {
	return v.b
}

func (v Value) AsNumber() float64 {
	return v.n
}

func (v Value) AsInt() int {
	return int(v.n)
}

func (v Value) AsString() string {
	return v.s
}

func (v Value) AsArray() []Value {
	return v.arr
}

// Get looks up a member of an object Value by key. ok is false if v is not
// an object or the key is absent.
func (v Value) Get(key string) (Value, bool) {
	if v.kind != KindObject {
		return Value{}, false
	}
	for _, m := range v.obj {
		if m.Key == key {
			return m.Val, true
		}
	}
	return Value{}, false
}

// Keys returns the member names of an object Value in insertion order, or
// nil if v is not an object.
func (v Value) Keys() []string {
	if v.kind != KindObject {
		return nil
	}
	out := make([]string, len(v.obj))
	for i, m := range v.obj {
		out[i] = m.Key
	}
	return out
}

// GetPath walks a dotted chain of object keys, mirroring the original
// implementation's getPath: any non-object hop or missing key yields ok=false
// rather than a panic, so callers can chain lookups freely on
// attacker/editor-controlled JSON-RPC payloads.
func GetPath(v Value, path ...string) (Value, bool) {
	cur := v
	for _, key := range path {
		next, ok := cur.Get(key)
		if !ok {
			return Value{}, false
		}
		cur = next
	}
	return cur, true
}
