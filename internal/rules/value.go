package rules

import (
	"encoding/json"
	"strconv"
)

type valueKind int

const (
	kindNone valueKind = iota
	kindString
	kindList
	kindNumber
)

// Value is the polymorphic right-hand side of a condition: a string, a
// string set, or a number, depending on the (type, operator) pair. At
// rest it serializes to the matching bare JSON value. Anything that
// fails to decode becomes an unusable value that no operator matches.
type Value struct {
	kind valueKind
	str  string
	list []string
	num  float64
}

// StringValue builds a single-string value.
func StringValue(s string) Value {
	return Value{kind: kindString, str: s}
}

// ListValue builds a string-set value.
func ListValue(items ...string) Value {
	return Value{kind: kindList, list: items}
}

// NumberValue builds a numeric value.
func NumberValue(n float64) Value {
	return Value{kind: kindNumber, num: n}
}

// Str returns the value as a single string.
func (v Value) Str() (string, bool) {
	if v.kind != kindString {
		return "", false
	}
	return v.str, true
}

// List returns the value as a string set.
func (v Value) List() ([]string, bool) {
	if v.kind != kindList {
		return nil, false
	}
	return v.list, true
}

// Days returns the value as a day count. Stored rules carry day offsets
// as numeric strings ("2"), imported ones may use real numbers; both
// work. Anything non-numeric is malformed and matches nothing.
func (v Value) Days() (float64, bool) {
	switch v.kind {
	case kindNumber:
		return v.num, true
	case kindString:
		n, err := strconv.ParseFloat(v.str, 64)
		if err != nil {
			return 0, false
		}
		return n, true
	}
	return 0, false
}

func (v Value) usable() bool {
	return v.kind != kindNone
}

// MarshalJSON writes the bare JSON form: "high", ["medium","high"], or 2.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case kindString:
		return json.Marshal(v.str)
	case kindList:
		if v.list == nil {
			return json.Marshal([]string{})
		}
		return json.Marshal(v.list)
	case kindNumber:
		return json.Marshal(v.num)
	}
	return []byte("null"), nil
}

// UnmarshalJSON accepts any of the three shapes. Unrecognized JSON does
// not error: it decodes to the unusable zero value so a bad condition in
// an imported rule set degrades to a non-match instead of failing the
// whole load.
func (v *Value) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*v = StringValue(s)
		return nil
	}
	var list []string
	if err := json.Unmarshal(data, &list); err == nil {
		*v = ListValue(list...)
		return nil
	}
	var n float64
	if err := json.Unmarshal(data, &n); err == nil {
		*v = NumberValue(n)
		return nil
	}
	*v = Value{}
	return nil
}
