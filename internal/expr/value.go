package expr

import (
	"fmt"
	"sort"
	"strings"
)

// ValueKind tags a Value.
type ValueKind int

const (
	KindNull ValueKind = iota
	KindBool
	KindNumber
	KindString
	KindList
	KindObject
)

func (k ValueKind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "boolean"
	case KindNumber:
		return "number"
	case KindString:
		return "text"
	case KindList:
		return "list"
	case KindObject:
		return "object"
	}
	return "unknown"
}

// Value is the result of evaluating an expression. Numbers are always
// float64; integral values display without a decimal point.
type Value struct {
	Kind   ValueKind
	Bool   bool
	Num    float64
	Str    string
	List   []Value
	Object map[string]Value
}

// Null returns the null value.
func Null() Value { return Value{Kind: KindNull} }

// BoolValue wraps a bool.
func BoolValue(b bool) Value { return Value{Kind: KindBool, Bool: b} }

// NumberValue wraps a number.
func NumberValue(f float64) Value { return Value{Kind: KindNumber, Num: f} }

// StringValue wraps a string.
func StringValue(s string) Value { return Value{Kind: KindString, Str: s} }

// ListValue wraps a list.
func ListValue(items []Value) Value { return Value{Kind: KindList, List: items} }

// ObjectValue wraps a string-keyed object.
func ObjectValue(fields map[string]Value) Value { return Value{Kind: KindObject, Object: fields} }

// Truthy reports whether the value is considered true in a condition:
// null and false are false, zero and the empty string are false, empty
// lists and objects are false, everything else is true.
func (v Value) Truthy() bool {
	switch v.Kind {
	case KindNull:
		return false
	case KindBool:
		return v.Bool
	case KindNumber:
		return v.Num != 0
	case KindString:
		return v.Str != ""
	case KindList:
		return len(v.List) > 0
	case KindObject:
		return len(v.Object) > 0
	}
	return false
}

// String renders the value the way it is interpolated into documents.
// Null renders as the empty string.
func (v Value) String() string {
	switch v.Kind {
	case KindNull:
		return ""
	case KindBool:
		return fmt.Sprintf("%t", v.Bool)
	case KindNumber:
		if v.Num == float64(int64(v.Num)) {
			return fmt.Sprintf("%d", int64(v.Num))
		}
		return fmt.Sprintf("%g", v.Num)
	case KindString:
		return v.Str
	case KindList:
		parts := make([]string, len(v.List))
		for i, item := range v.List {
			parts[i] = item.String()
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case KindObject:
		keys := make([]string, 0, len(v.Object))
		for k := range v.Object {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, len(keys))
		for i, k := range keys {
			parts[i] = k + ": " + v.Object[k].String()
		}
		return "{" + strings.Join(parts, ", ") + "}"
	}
	return ""
}
