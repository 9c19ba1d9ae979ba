package resources

import "fmt"

// Descriptor field names used by the controller's room enumeration
const (
	FieldType     = "type"
	FieldInels    = "inels"
	FieldName     = "name"
	FieldReadOnly = "read_only"
)

// RawDevice is a device descriptor as returned by room enumeration.
// Inels is the bus-level identifier used for read and write calls.
type RawDevice struct {
	Type     string `json:"type" yaml:"type" xmlrpc:"type"`
	Inels    string `json:"inels" yaml:"inels" xmlrpc:"inels"`
	Name     string `json:"name" yaml:"name" xmlrpc:"name"`
	ReadOnly bool   `json:"read_only" yaml:"read_only" xmlrpc:"read_only"`
}

// ParseRawDevice builds a RawDevice from a decoded descriptor.
// All four fields must be present; a missing or mistyped field yields
// ErrInvalidDescriptor. Empty strings are accepted as-is.
func ParseRawDevice(m map[string]any) (RawDevice, error) {
	if m == nil {
		return RawDevice{}, fmt.Errorf("%w: descriptor is empty", ErrInvalidDescriptor)
	}

	typ, err := stringField(m, FieldType)
	if err != nil {
		return RawDevice{}, err
	}
	id, err := stringField(m, FieldInels)
	if err != nil {
		return RawDevice{}, err
	}
	name, err := stringField(m, FieldName)
	if err != nil {
		return RawDevice{}, err
	}

	rawRO, ok := m[FieldReadOnly]
	if !ok {
		return RawDevice{}, fmt.Errorf("%w: missing field %q", ErrInvalidDescriptor, FieldReadOnly)
	}
	readOnly, err := boolField(rawRO)
	if err != nil {
		return RawDevice{}, err
	}

	return RawDevice{
		Type:     typ,
		Inels:    id,
		Name:     name,
		ReadOnly: readOnly,
	}, nil
}

func stringField(m map[string]any, key string) (string, error) {
	raw, ok := m[key]
	if !ok {
		return "", fmt.Errorf("%w: missing field %q", ErrInvalidDescriptor, key)
	}
	s, ok := raw.(string)
	if !ok {
		return "", fmt.Errorf("%w: field %q has type %T, want string", ErrInvalidDescriptor, key, raw)
	}
	return s, nil
}

// boolField accepts XML-RPC booleans and the 0/1 integers some controller
// firmware sends instead.
func boolField(raw any) (bool, error) {
	switch v := raw.(type) {
	case bool:
		return v, nil
	case int64:
		return v != 0, nil
	case int:
		return v != 0, nil
	case string:
		switch v {
		case "1", "true", "True":
			return true, nil
		case "0", "false", "False", "":
			return false, nil
		}
	}
	return false, fmt.Errorf("%w: field %q has type %T, want bool", ErrInvalidDescriptor, FieldReadOnly, raw)
}
