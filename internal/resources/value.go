package resources

import (
	"fmt"
	"strconv"
	"strings"
)

// ValueKind identifies which variant a Value holds
type ValueKind int

const (
	// KindInt is an integer value (switch states, door contacts, levels)
	KindInt ValueKind = iota
	// KindFloat is a floating point value (temperatures, set points)
	KindFloat
)

// String returns the name of the kind
func (k ValueKind) String() string {
	switch k {
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	default:
		return fmt.Sprintf("ValueKind(%d)", k)
	}
}

// Value is a bus value: either an integer or a floating point number.
// The zero Value is the integer 0.
type Value struct {
	kind ValueKind
	i    int64
	f    float64
}

// IntValue returns an integer Value
func IntValue(i int64) Value {
	return Value{kind: KindInt, i: i}
}

// FloatValue returns a floating point Value
func FloatValue(f float64) Value {
	return Value{kind: KindFloat, f: f}
}

// ValueOf converts a scalar decoded from the bus into a Value.
// Booleans map to the integers 0 and 1.
func ValueOf(raw any) (Value, error) {
	switch v := raw.(type) {
	case Value:
		return v, nil
	case int:
		return IntValue(int64(v)), nil
	case int32:
		return IntValue(int64(v)), nil
	case int64:
		return IntValue(v), nil
	case float32:
		return FloatValue(float64(v)), nil
	case float64:
		return FloatValue(v), nil
	case bool:
		if v {
			return IntValue(1), nil
		}
		return IntValue(0), nil
	default:
		return Value{}, fmt.Errorf("%w: %T", ErrUnsupportedValue, raw)
	}
}

// ParseValue parses a value typed by a user or received as text.
// on/off and true/false map to 1/0. Input containing a decimal point or
// exponent is a float, anything else an integer.
func ParseValue(s string) (Value, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Value{}, fmt.Errorf("%w: empty input", ErrUnsupportedValue)
	}

	switch strings.ToLower(s) {
	case "on", "true":
		return IntValue(1), nil
	case "off", "false":
		return IntValue(0), nil
	}

	if strings.ContainsAny(s, ".eE") {
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return Value{}, fmt.Errorf("%w: %q is not a number", ErrUnsupportedValue, s)
		}
		return FloatValue(f), nil
	}

	i, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return Value{}, fmt.Errorf("%w: %q is not a number", ErrUnsupportedValue, s)
	}
	return IntValue(i), nil
}

// Kind returns the variant held by the value
func (v Value) Kind() ValueKind {
	return v.kind
}

// IsInt reports whether the value is an integer
func (v Value) IsInt() bool {
	return v.kind == KindInt
}

// IsFloat reports whether the value is a floating point number
func (v Value) IsFloat() bool {
	return v.kind == KindFloat
}

// Int returns the value as an integer, truncating floats
func (v Value) Int() int64 {
	if v.IsFloat() {
		return int64(v.f)
	}
	return v.i
}

// Float returns the value as a floating point number
func (v Value) Float() float64 {
	if v.IsFloat() {
		return v.f
	}
	return float64(v.i)
}

// Raw returns the Go scalar sent on the wire (int64 or float64)
func (v Value) Raw() any {
	if v.IsFloat() {
		return v.f
	}
	return v.i
}

// Equal reports whether both values have the same kind and the same number
func (v Value) Equal(other Value) bool {
	if v.kind != other.kind {
		return false
	}
	if v.kind == KindFloat {
		return v.f == other.f
	}
	return v.i == other.i
}

// String formats integers without and floats with a decimal point
// (25 and 25.0 respectively).
func (v Value) String() string {
	if v.IsInt() {
		return strconv.FormatInt(v.i, 10)
	}

	s := strconv.FormatFloat(v.f, 'f', -1, 64)
	if !strings.ContainsAny(s, ".eEnN") {
		s += ".0"
	}
	return s
}
