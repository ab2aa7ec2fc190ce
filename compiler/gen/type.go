package gen

import (
	"fmt"
	"slices"

	"github.com/syssam/relgraph/compiler/load"
	"github.com/syssam/relgraph/schema/edge"
	"github.com/syssam/relgraph/schema/field"
)

// The following types describe the normalized schema consumed by the
// projector and the resolution engine. They are immutable once built.
type (
	// Table represents one table (or view) of the schema, its columns and
	// the relations it declares.
	Table struct {
		// Name holds the table name.
		Name string
		// View reports if the table is a view. Views cannot take part in
		// many-to-many relations as junction or destination.
		View bool
		// Columns holds the table columns in declaration order.
		Columns []*Column
		columns map[string]*Column
		// PrimaryKey holds the keys of the primary-key columns.
		PrimaryKey []string
		// Relations holds the direct relation declarations of the table.
		Relations []*Relation
		// ManyToMany holds the many-to-many declarations of the table.
		ManyToMany []*ManyToMany
		// Comment of the table.
		Comment string
	}

	// Column holds the information of a table column.
	Column struct {
		// Key is the stable identifier used by relation declarations.
		Key string
		// Name is the storage name of the column.
		Name string
		// Type holds the storage type of the column.
		Type field.Type
		// Raw is the raw database type, if known.
		Raw string
		// Nullable indicates that the column accepts null.
		Nullable bool
		// Default indicates that the column has a database default.
		Default bool
		// PrimaryKey indicates that the column is part of the primary key.
		PrimaryKey bool
		// ForeignKey holds the referenced column, if any.
		ForeignKey *ForeignKey
		// CustomType is the opaque type tag attached by the value-type analysis.
		CustomType string
		// Enums holds the values of enum columns.
		Enums []string
	}

	// ForeignKey references a column of another table.
	ForeignKey struct {
		Table  string
		Column string
	}

	// Relation is a direct relation declaration.
	Relation struct {
		// Owner is the name of the declaring table.
		Owner string
		// Name is the relation field name.
		Name string
		// Cardinality of the relation.
		Cardinality edge.Cardinality
		// Target is the name of the referenced table.
		Target string
		// Fields and References are the explicit source and destination
		// column keys. Both are empty when the fields are inferred.
		Fields     []string
		References []string
		// RelationName is the tag used to pair declarations when several
		// relations connect the same tables.
		RelationName string
		// Comment of the relation.
		Comment string
	}

	// ManyToMany is a relation declared through a junction table.
	ManyToMany struct {
		// Owner is the name of the declaring table.
		Owner string
		// Name is the relation field name.
		Name string
		// Junction and Destination are the joined table names.
		Junction    string
		Destination string
		// SourceFields and JunctionFields join the owner with the junction.
		SourceFields   []string
		JunctionFields []string
		// JunctionDestFields and DestinationFields join the junction with
		// the destination.
		JunctionDestFields []string
		DestinationFields  []string
		// Comment of the relation.
		Comment string
	}
)

// NewTable creates a table from the given loaded schema. Column storage names
// missing from the schema are derived from the keys using the configured
// casing.
func NewTable(c *Config, schema *load.Schema) (*Table, error) {
	if c == nil {
		c = &Config{}
	}
	if schema == nil || schema.Name == "" {
		return nil, NewSchemaError("", "", "table name cannot be empty", nil)
	}
	t := &Table{
		Name:    schema.Name,
		View:    schema.View,
		Comment: schema.Comment,
		columns: make(map[string]*Column, len(schema.Columns)),
	}
	if len(schema.Columns) == 0 {
		return nil, NewSchemaError(t.Name, "", "table has no columns", nil)
	}
	for _, lc := range schema.Columns {
		col, err := newColumn(c, t.Name, lc)
		if err != nil {
			return nil, err
		}
		if _, ok := t.columns[col.Key]; ok {
			return nil, NewSchemaError(t.Name, col.Key, "duplicate column key", nil)
		}
		t.columns[col.Key] = col
		t.Columns = append(t.Columns, col)
	}
	if err := t.setPrimaryKey(schema); err != nil {
		return nil, err
	}
	for _, lr := range schema.Relations {
		r, err := newRelation(t.Name, lr)
		if err != nil {
			return nil, err
		}
		t.Relations = append(t.Relations, r)
	}
	for _, lm := range schema.ManyToMany {
		m, err := newManyToMany(t.Name, lm)
		if err != nil {
			return nil, err
		}
		t.ManyToMany = append(t.ManyToMany, m)
	}
	return t, nil
}

func newColumn(c *Config, table string, lc *load.Column) (*Column, error) {
	if lc == nil || lc.Key == "" {
		return nil, NewSchemaError(table, "", "column key cannot be empty", nil)
	}
	typ := lc.Type
	switch {
	case typ == field.TypeInvalid && lc.Raw != "":
		typ = field.ParseStorageType(lc.Raw)
	case typ != field.TypeInvalid && !typ.Valid():
		return nil, NewSchemaError(table, lc.Key, fmt.Sprintf("invalid column type %d", typ), nil)
	}
	col := &Column{
		Key:        lc.Key,
		Name:       lc.Name,
		Type:       typ,
		Raw:        lc.Raw,
		Nullable:   lc.Nullable,
		Default:    lc.Default,
		PrimaryKey: lc.PrimaryKey,
		CustomType: lc.CustomType,
		Enums:      lc.Enums,
	}
	if col.Name == "" {
		col.Name = c.Casing.storageName(col.Key)
	}
	if fk := lc.ForeignKey; fk != nil {
		col.ForeignKey = &ForeignKey{Table: fk.Table, Column: fk.Column}
	}
	return col, nil
}

// setPrimaryKey merges the primary-key list of the schema with the columns
// flagged as primary key. List order comes first.
func (t *Table) setPrimaryKey(schema *load.Schema) error {
	for _, key := range schema.PrimaryKey {
		col, ok := t.columns[key]
		if !ok {
			return NewSchemaError(t.Name, key, "primary key references an unknown column", nil)
		}
		if slices.Contains(t.PrimaryKey, key) {
			continue
		}
		col.PrimaryKey = true
		t.PrimaryKey = append(t.PrimaryKey, key)
	}
	for _, col := range t.Columns {
		if col.PrimaryKey && !slices.Contains(t.PrimaryKey, col.Key) {
			t.PrimaryKey = append(t.PrimaryKey, col.Key)
		}
	}
	if len(t.PrimaryKey) == 0 {
		return NewSchemaError(t.Name, "", "primary key cannot be empty", nil)
	}
	return nil
}

func newRelation(owner string, lr *load.Relation) (*Relation, error) {
	switch {
	case lr == nil || lr.Name == "":
		return nil, NewSchemaError(owner, "", "relation name cannot be empty", nil)
	case !lr.Cardinality.Valid():
		return nil, NewSchemaError(owner, "", fmt.Sprintf("relation %q has an invalid cardinality", lr.Name), nil)
	case lr.Target == "":
		return nil, NewSchemaError(owner, "", fmt.Sprintf("relation %q has no target table", lr.Name), nil)
	}
	return &Relation{
		Owner:        owner,
		Name:         lr.Name,
		Cardinality:  lr.Cardinality,
		Target:       lr.Target,
		Fields:       lr.Fields,
		References:   lr.References,
		RelationName: lr.RelationName,
		Comment:      lr.Comment,
	}, nil
}

func newManyToMany(owner string, lm *load.ManyToMany) (*ManyToMany, error) {
	switch {
	case lm == nil || lm.Name == "":
		return nil, NewSchemaError(owner, "", "relation name cannot be empty", nil)
	case lm.Junction == "" || lm.Destination == "":
		return nil, NewSchemaError(owner, "", fmt.Sprintf("many-to-many relation %q requires a junction and a destination table", lm.Name), nil)
	}
	return &ManyToMany{
		Owner:              owner,
		Name:               lm.Name,
		Junction:           lm.Junction,
		Destination:        lm.Destination,
		SourceFields:       lm.SourceFields,
		JunctionFields:     lm.JunctionFields,
		JunctionDestFields: lm.JunctionDestFields,
		DestinationFields:  lm.DestinationFields,
		Comment:            lm.Comment,
	}, nil
}

// Column returns the column with the given key.
func (t *Table) Column(key string) (*Column, bool) {
	c, ok := t.columns[key]
	return c, ok
}

// HasColumns reports if all the given keys name columns of the table.
func (t *Table) HasColumns(keys ...string) bool {
	for _, k := range keys {
		if _, ok := t.columns[k]; !ok {
			return false
		}
	}
	return true
}

// IsPrimaryKey reports if the given column key is part of the primary key.
func (t *Table) IsPrimaryKey(key string) bool {
	return slices.Contains(t.PrimaryKey, key)
}

// String returns the qualified name of the relation.
func (r *Relation) String() string { return r.Owner + "." + r.Name }

// HasFields reports if the relation declares explicit field lists.
func (r *Relation) HasFields() bool { return len(r.Fields) > 0 || len(r.References) > 0 }

// String returns the qualified name of the relation.
func (m *ManyToMany) String() string { return m.Owner + "." + m.Name }
