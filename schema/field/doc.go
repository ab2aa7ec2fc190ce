// Package field describes column storage types and the static lookup from a
// storage type to the value type exposed to the client-side query engine.
//
// Storage types are coarse: every database type a loader can see is folded
// into one of the Type constants, either from an explicit name in a schema
// document or from a raw database type:
//
//	field.ParseType("int64")        // TypeInt64
//	field.ParseStorageType("jsonb") // TypeJSON
//	field.ParseStorageType("bytea") // TypeBytes
//
// # Value Types
//
// The client engine only understands a handful of value types. ValueTypeOf
// maps a storage type to one of them:
//
//	field.ValueTypeOf(field.TypeInt64) // ValueNumber, true
//	field.ValueTypeOf(field.TypeTime)  // ValueNumber, true (epoch millis)
//	field.ValueTypeOf(field.TypeBytes) // "", false
//
// A false result means the column cannot be emitted as-is. The projector in
// compiler/gen excludes such columns with a warning unless the inclusion
// configuration supplies an explicit override.
package field
