package graph

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
)

// Kind tags the scalar held by a Value.
type Kind uint8

const (
	KindMissing Kind = iota
	KindNumber
	KindString
	KindBool
)

func (k Kind) String() string {
	switch k {
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindBool:
		return "bool"
	default:
		return "missing"
	}
}

// Value is a tagged scalar attribute value. The zero Value is missing (NA).
type Value struct {
	kind Kind
	num  float64
	str  string
	b    bool
}

// Missing returns the NA value.
func Missing() Value { return Value{} }

// Number returns a numeric value. NaN and ±Inf have no JSON form and become
// missing.
func Number(f float64) Value {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return Value{}
	}
	return Value{kind: KindNumber, num: f}
}

func String(s string) Value { return Value{kind: KindString, str: s} }

func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

func (v Value) Kind() Kind { return v.kind }

func (v Value) IsMissing() bool { return v.kind == KindMissing }

// Float returns the number held by v, if any.
func (v Value) Float() (float64, bool) {
	if v.kind != KindNumber {
		return 0, false
	}
	return v.num, true
}

// Str returns the string held by v, if any.
func (v Value) Str() (string, bool) {
	if v.kind != KindString {
		return "", false
	}
	return v.str, true
}

func (v Value) Boolean() (bool, bool) {
	if v.kind != KindBool {
		return false, false
	}
	return v.b, true
}

// Equal reports whether both values have the same kind and content.
// Two missing values are equal.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindNumber:
		return v.num == o.num
	case KindString:
		return v.str == o.str
	case KindBool:
		return v.b == o.b
	}
	return true
}

// Any returns the Go representation: float64, string, bool or nil.
func (v Value) Any() any {
	switch v.kind {
	case KindNumber:
		return v.num
	case KindString:
		return v.str
	case KindBool:
		return v.b
	}
	return nil
}

func (v Value) String() string {
	switch v.kind {
	case KindNumber:
		return strconv.FormatFloat(v.num, 'g', -1, 64)
	case KindString:
		return v.str
	case KindBool:
		return strconv.FormatBool(v.b)
	}
	return "NA"
}

// FromAny converts a decoded scalar (JSON, YAML, CEL) into a Value.
func FromAny(x any) (Value, error) {
	switch t := x.(type) {
	case nil:
		return Missing(), nil
	case Value:
		return t, nil
	case float64:
		return Number(t), nil
	case float32:
		return Number(float64(t)), nil
	case int:
		return Number(float64(t)), nil
	case int32:
		return Number(float64(t)), nil
	case int64:
		return Number(float64(t)), nil
	case uint:
		return Number(float64(t)), nil
	case uint32:
		return Number(float64(t)), nil
	case uint64:
		return Number(float64(t)), nil
	case string:
		return String(t), nil
	case bool:
		return Bool(t), nil
	}
	return Missing(), fmt.Errorf("unsupported attribute value %T", x)
}

func (v Value) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.Any())
}

func (v *Value) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*v = Missing()
		return nil
	}
	var x any
	if err := json.Unmarshal(data, &x); err != nil {
		return err
	}
	out, err := FromAny(x)
	if err != nil {
		return err
	}
	*v = out
	return nil
}

// Attrs is an open-ended attribute mapping.
type Attrs map[string]Value

// Get returns the attribute, or missing when unset.
func (a Attrs) Get(name string) Value {
	return a[name]
}
