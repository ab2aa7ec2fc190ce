// Package schema holds the building blocks for describing a relational schema
// to the resolver:
//
//   - [field]: column storage types and their client value types
//   - [edge]: builders for relationship declarations
//
// Table definitions themselves live in compiler/load, which reads them from a
// schema document or a live database and attaches field and edge descriptors
// to each table.
package schema
