package field

import (
	"fmt"
	"strings"
)

// A Type represents a column storage type.
type Type uint8

// List of storage types.
const (
	TypeInvalid Type = iota
	TypeBool
	TypeTime
	TypeJSON
	TypeUUID
	TypeBytes
	TypeEnum
	TypeString
	TypeOther
	TypeInt8
	TypeInt16
	TypeInt32
	TypeInt
	TypeInt64
	TypeUint8
	TypeUint16
	TypeUint32
	TypeUint
	TypeUint64
	TypeFloat32
	TypeFloat64
	endTypes
)

var (
	typeNames = [...]string{
		TypeInvalid: "invalid",
		TypeBool:    "bool",
		TypeTime:    "time",
		TypeJSON:    "json",
		TypeUUID:    "uuid",
		TypeBytes:   "bytes",
		TypeEnum:    "enum",
		TypeString:  "string",
		TypeOther:   "other",
		TypeInt:     "int",
		TypeInt8:    "int8",
		TypeInt16:   "int16",
		TypeInt32:   "int32",
		TypeInt64:   "int64",
		TypeUint:    "uint",
		TypeUint8:   "uint8",
		TypeUint16:  "uint16",
		TypeUint32:  "uint32",
		TypeUint64:  "uint64",
		TypeFloat32: "float32",
		TypeFloat64: "float64",
	}
	constNames = [...]string{
		TypeBool:    "TypeBool",
		TypeTime:    "TypeTime",
		TypeJSON:    "TypeJSON",
		TypeUUID:    "TypeUUID",
		TypeBytes:   "TypeBytes",
		TypeEnum:    "TypeEnum",
		TypeString:  "TypeString",
		TypeOther:   "TypeOther",
		TypeInt:     "TypeInt",
		TypeInt8:    "TypeInt8",
		TypeInt16:   "TypeInt16",
		TypeInt32:   "TypeInt32",
		TypeInt64:   "TypeInt64",
		TypeUint:    "TypeUint",
		TypeUint8:   "TypeUint8",
		TypeUint16:  "TypeUint16",
		TypeUint32:  "TypeUint32",
		TypeUint64:  "TypeUint64",
		TypeFloat32: "TypeFloat32",
		TypeFloat64: "TypeFloat64",
	}
)

// String returns the string representation of a type.
func (t Type) String() string {
	if t < endTypes {
		return typeNames[t]
	}
	return typeNames[TypeInvalid]
}

// ConstName returns the constant name of a type.
func (t Type) ConstName() string {
	if t.Valid() {
		return constNames[t]
	}
	return "invalid"
}

// Numeric reports if the given type is a numeric type.
func (t Type) Numeric() bool {
	return t >= TypeInt8 && t < endTypes
}

// Float reports if the given type is a float type.
func (t Type) Float() bool {
	return t == TypeFloat32 || t == TypeFloat64
}

// Integer reports if the given type is an integral type.
func (t Type) Integer() bool {
	return t.Numeric() && !t.Float()
}

// Valid reports if the given type if known type.
func (t Type) Valid() bool {
	return t > TypeInvalid && t < endTypes
}

// MarshalText implements the encoding.TextMarshaler interface.
func (t Type) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText implements the encoding.TextUnmarshaler interface.
// Schema documents spell types by their short name ("int64", "string").
func (t *Type) UnmarshalText(text []byte) error {
	typ, err := ParseType(string(text))
	if err != nil {
		return err
	}
	*t = typ
	return nil
}

// ParseType returns the Type with the given short name.
func ParseType(s string) (Type, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for t := TypeBool; t < endTypes; t++ {
		if typeNames[t] == name {
			return t, nil
		}
	}
	return TypeInvalid, fmt.Errorf("unknown field type %q", s)
}

// storageTypes folds raw database type names into storage types.
var storageTypes = map[string]Type{
	"bool":              TypeBool,
	"boolean":           TypeBool,
	"tinyint":           TypeInt8,
	"smallint":          TypeInt16,
	"int2":              TypeInt16,
	"mediumint":         TypeInt32,
	"int4":              TypeInt32,
	"int":               TypeInt,
	"integer":           TypeInt,
	"serial":            TypeInt,
	"smallserial":       TypeInt16,
	"bigint":            TypeInt64,
	"int8":              TypeInt64,
	"bigserial":         TypeInt64,
	"real":              TypeFloat32,
	"float4":            TypeFloat32,
	"float":             TypeFloat64,
	"float8":            TypeFloat64,
	"double":            TypeFloat64,
	"double precision":  TypeFloat64,
	"numeric":           TypeFloat64,
	"decimal":           TypeFloat64,
	"char":              TypeString,
	"character":         TypeString,
	"varchar":           TypeString,
	"character varying": TypeString,
	"text":              TypeString,
	"tinytext":          TypeString,
	"mediumtext":        TypeString,
	"longtext":          TypeString,
	"citext":            TypeString,
	"uuid":              TypeUUID,
	"json":              TypeJSON,
	"jsonb":             TypeJSON,
	"enum":              TypeEnum,
	"date":              TypeTime,
	"datetime":          TypeTime,
	"time":              TypeTime,
	"timestamp":         TypeTime,
	"timestamptz":       TypeTime,
	"bytea":             TypeBytes,
	"blob":              TypeBytes,
	"binary":            TypeBytes,
	"varbinary":         TypeBytes,
}

// ParseStorageType folds a raw database type name (for example "varchar(255)"
// or "timestamp with time zone") into a storage type. Unknown names map to
// TypeOther.
func ParseStorageType(raw string) Type {
	name := strings.ToLower(strings.TrimSpace(raw))
	if i := strings.IndexByte(name, '('); i > 0 {
		name = strings.TrimSpace(name[:i])
	}
	name = strings.TrimSuffix(name, " unsigned")
	if t, ok := storageTypes[name]; ok {
		return t
	}
	for _, suffix := range []string{" with time zone", " without time zone"} {
		if base, ok := strings.CutSuffix(name, suffix); ok {
			if t, ok := storageTypes[base]; ok {
				return t
			}
		}
	}
	return TypeOther
}
