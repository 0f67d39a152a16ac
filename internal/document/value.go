// Package document holds the in-memory JSON tree of an open save file.
//
// Values are a tagged variant (see Kind) rather than interface{} trees, so
// every walk over the document dispatches on the tag explicitly. Objects keep
// their keys in insertion order and numbers keep their literal text, which
// makes load followed by Serialize reproduce the compact input exactly.
package document

import (
	"math"
	"math/big"
	"strconv"
	"strings"
)

// Kind is the JSON type tag of a Value.
type Kind int

const (
	Null Kind = iota
	Bool
	Number
	String
	Array
	Object
)

func (k Kind) String() string {
	switch k {
	case Null:
		return "null"
	case Bool:
		return "boolean"
	case Number:
		return "number"
	case String:
		return "string"
	case Array:
		return "array"
	case Object:
		return "object"
	default:
		return "unknown"
	}
}

// Value is one node of a JSON tree. The zero Value is null.
type Value struct {
	kind Kind

	b bool
	// s holds the string value, or the literal text of a number.
	s string

	items []Value

	keys  []string
	vals  []Value
	index map[string]int
}

// NewNull returns the JSON null value.
func NewNull() Value {
	return Value{}
}

// NewBool returns a boolean value.
func NewBool(b bool) Value {
	return Value{kind: Bool, b: b}
}

// NewNumber returns a number with the given literal text. The literal must
// already be valid JSON number syntax.
func NewNumber(literal string) Value {
	return Value{kind: Number, s: literal}
}

// NewInt returns an integer number.
func NewInt(n int64) Value {
	return NewNumber(strconv.FormatInt(n, 10))
}

// NewFloat returns a number for a finite float, spelled the shortest way
// that round-trips (1.5, 100, 1e+21, 1e-7).
func NewFloat(f float64) Value {
	return NewNumber(FormatFloat(f))
}

// FormatFloat renders f using the same rules JavaScript uses for
// Number.prototype.toString. f must be finite.
func FormatFloat(f float64) string {
	abs := math.Abs(f)
	if abs == 0 || (abs >= 1e-7 && abs < 1e21) {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	s := strconv.FormatFloat(f, 'e', -1, 64)
	mant, exp, _ := strings.Cut(s, "e")
	sign := exp[:1]
	exp = strings.TrimLeft(exp[1:], "0")
	return mant + "e" + sign + exp
}

// NewString returns a string value.
func NewString(s string) Value {
	return Value{kind: String, s: s}
}

// NewArray returns an array holding copies of items.
func NewArray(items ...Value) Value {
	v := Value{kind: Array, items: make([]Value, 0, len(items))}
	for _, item := range items {
		v.items = append(v.items, item.Clone())
	}
	return v
}

// NewObject returns an empty object. Use Put to add members.
func NewObject() Value {
	return Value{kind: Object, index: make(map[string]int)}
}

// Kind returns the type tag.
func (v Value) Kind() Kind { return v.kind }

// IsContainer reports whether v is an object or an array.
func (v Value) IsContainer() bool {
	return v.kind == Object || v.kind == Array
}

// Bool returns the boolean payload; false for other kinds.
func (v Value) Bool() bool { return v.b }

// Str returns the string payload, or the literal text of a number.
func (v Value) Str() string { return v.s }

// Len returns the number of elements or members; 0 for scalars.
func (v Value) Len() int {
	switch v.kind {
	case Array:
		return len(v.items)
	case Object:
		return len(v.keys)
	default:
		return 0
	}
}

// Index returns the i-th array element.
func (v Value) Index(i int) Value {
	return v.items[i]
}

// Keys returns object keys in insertion order.
func (v Value) Keys() []string {
	out := make([]string, len(v.keys))
	copy(out, v.keys)
	return out
}

// Field returns the member named key.
func (v Value) Field(key string) (Value, bool) {
	i, ok := v.index[key]
	if !ok {
		return Value{}, false
	}
	return v.vals[i], true
}

// Put sets a member on an object value, appending new keys at the end.
// An existing key keeps its position.
func (v *Value) Put(key string, val Value) {
	if v.kind != Object {
		return
	}
	if v.index == nil {
		v.index = make(map[string]int)
	}
	if i, ok := v.index[key]; ok {
		v.vals[i] = val
		return
	}
	v.index[key] = len(v.keys)
	v.keys = append(v.keys, key)
	v.vals = append(v.vals, val)
}

// Append adds an element to an array value.
func (v *Value) Append(val Value) {
	if v.kind != Array {
		return
	}
	v.items = append(v.items, val)
}

func (v *Value) remove(key string) bool {
	i, ok := v.index[key]
	if !ok {
		return false
	}
	v.keys = append(v.keys[:i], v.keys[i+1:]...)
	v.vals = append(v.vals[:i], v.vals[i+1:]...)
	delete(v.index, key)
	for j := i; j < len(v.keys); j++ {
		v.index[v.keys[j]] = j
	}
	return true
}

// Clone returns a deep copy of v.
func (v Value) Clone() Value {
	out := Value{kind: v.kind, b: v.b, s: v.s}
	switch v.kind {
	case Array:
		out.items = make([]Value, len(v.items))
		for i, item := range v.items {
			out.items[i] = item.Clone()
		}
	case Object:
		out.keys = make([]string, len(v.keys))
		copy(out.keys, v.keys)
		out.vals = make([]Value, len(v.vals))
		for i, val := range v.vals {
			out.vals[i] = val.Clone()
		}
		out.index = make(map[string]int, len(v.index))
		for k, i := range v.index {
			out.index[k] = i
		}
	}
	return out
}

// Equal reports deep equality. Numbers compare by numeric value, so 1 and
// 1.0 are equal; a boolean never equals a number. Object member order is
// ignored.
func (v Value) Equal(other Value) bool {
	if v.kind != other.kind {
		return false
	}
	switch v.kind {
	case Null:
		return true
	case Bool:
		return v.b == other.b
	case String:
		return v.s == other.s
	case Number:
		return numbersEqual(v.s, other.s)
	case Array:
		if len(v.items) != len(other.items) {
			return false
		}
		for i := range v.items {
			if !v.items[i].Equal(other.items[i]) {
				return false
			}
		}
		return true
	case Object:
		if len(v.keys) != len(other.keys) {
			return false
		}
		for i, k := range v.keys {
			ov, ok := other.Field(k)
			if !ok || !v.vals[i].Equal(ov) {
				return false
			}
		}
		return true
	}
	return false
}

func numbersEqual(a, b string) bool {
	if a == b {
		return true
	}
	if hugeExponent(a) || hugeExponent(b) {
		fa, errA := strconv.ParseFloat(a, 64)
		fb, errB := strconv.ParseFloat(b, 64)
		return errA == nil && errB == nil && fa == fb
	}
	ra, okA := new(big.Rat).SetString(a)
	rb, okB := new(big.Rat).SetString(b)
	if !okA || !okB {
		return false
	}
	return ra.Cmp(rb) == 0
}

// hugeExponent reports literals whose exact rational form would be too
// large to build.
func hugeExponent(lit string) bool {
	i := strings.IndexAny(lit, "eE")
	if i < 0 {
		return false
	}
	exp := strings.TrimLeft(lit[i+1:], "+-0")
	return len(exp) > 4
}

// String returns the compact JSON text of v.
func (v Value) String() string {
	return Serialize(v)
}
