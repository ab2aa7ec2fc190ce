package field

import "fmt"

// ValueType is the value type of a column as seen by the client-side engine.
type ValueType string

// Value types understood by the client engine.
const (
	ValueString  ValueType = "string"
	ValueNumber  ValueType = "number"
	ValueBoolean ValueType = "boolean"
	ValueJSON    ValueType = "json"
	ValueNull    ValueType = "null"
)

// Valid reports if v is one of the known value types.
func (v ValueType) Valid() bool {
	switch v {
	case ValueString, ValueNumber, ValueBoolean, ValueJSON, ValueNull:
		return true
	}
	return false
}

// ParseValueType parses a value type name.
func ParseValueType(s string) (ValueType, error) {
	if v := ValueType(s); v.Valid() {
		return v, nil
	}
	return "", fmt.Errorf("unknown value type %q", s)
}

// ValueTypeOf returns the value type for the given storage type. The second
// result is false if the storage type has no client representation.
func ValueTypeOf(t Type) (ValueType, bool) {
	switch {
	case t == TypeBool:
		return ValueBoolean, true
	case t.Numeric(), t == TypeTime:
		return ValueNumber, true
	case t == TypeString, t == TypeUUID, t == TypeEnum:
		return ValueString, true
	case t == TypeJSON:
		return ValueJSON, true
	}
	return "", false
}
