package gen

import (
	"fmt"

	"github.com/syssam/relgraph/schema/field"
)

// TableDescriptor is the projection of an included table.
type TableDescriptor struct {
	Name       string              `json:"name"`
	Columns    []*ColumnDescriptor `json:"columns"`
	PrimaryKey []string            `json:"primaryKey"`
}

// ColumnDescriptor is the projection of one column.
type ColumnDescriptor struct {
	// Key is the column key.
	Key string `json:"key"`
	// Type is the projected value type.
	Type field.ValueType `json:"type"`
	// Optional marks columns that may be omitted on insert.
	Optional bool `json:"optional"`
	// ServerName is the storage name, set only when it differs from Key.
	ServerName string `json:"serverName,omitempty"`
	// CustomType is the opaque type tag of the column.
	CustomType string `json:"customType,omitempty"`
}

// Column returns the descriptor of the given column key.
func (t *TableDescriptor) Column(key string) (*ColumnDescriptor, bool) {
	for _, c := range t.Columns {
		if c.Key == key {
			return c, true
		}
	}
	return nil, false
}

// Project maps the columns of an included table to their descriptors.
// It returns nil for excluded tables. Columns with an unsupported storage
// type are excluded with a warning, unless an override supplies the value
// type. An unsupported primary-key column is an error.
func Project(c *Config, t *Table) (*TableDescriptor, error) {
	if c == nil {
		c = &Config{}
	}
	ti := c.Inclusion.Table(t.Name)
	if ti.Kind == TableExcluded {
		return nil, nil
	}
	td := &TableDescriptor{Name: t.Name, PrimaryKey: t.PrimaryKey}
	for _, col := range t.Columns {
		ci := ti.Column(col.Key)
		if ci.Kind == ColumnExcluded && !col.PrimaryKey {
			continue
		}
		d, err := c.projectColumn(t, col, ci.Override)
		if err != nil {
			return nil, err
		}
		if d != nil {
			td.Columns = append(td.Columns, d)
		}
	}
	return td, nil
}

func (c *Config) projectColumn(t *Table, col *Column, o *ColumnOverride) (*ColumnDescriptor, error) {
	vt, ok := field.ValueTypeOf(col.Type)
	if o != nil && o.Type != "" {
		vt, ok = o.Type, true
	}
	if !ok {
		if col.PrimaryKey {
			return nil, NewSchemaError(t.Name, col.Key, fmt.Sprintf("primary key has unsupported type %s", col.typeName()), nil)
		}
		c.warn(DiagUnsupportedType, t.Name, col.Key, "column %s.%s of type %s is not supported and was excluded", t.Name, col.Key, col.typeName())
		return nil, nil
	}
	d := &ColumnDescriptor{
		Key:        col.Key,
		Type:       vt,
		Optional:   !col.PrimaryKey && (col.Nullable || col.Default),
		CustomType: col.CustomType,
	}
	if o != nil {
		if o.Optional != nil && !col.PrimaryKey {
			d.Optional = *o.Optional
		}
		if o.CustomType != "" {
			d.CustomType = o.CustomType
		}
	}
	if col.Name != "" && col.Name != col.Key {
		d.ServerName = col.Name
	}
	return d, nil
}

// projects reports if the given column is part of the projection of its
// table. Tables are assumed to be projected without error.
func (c *Config) projects(t *Table, col *Column) bool {
	ti := c.Inclusion.Table(t.Name)
	if ti.Kind == TableExcluded {
		return false
	}
	ci := ti.Column(col.Key)
	if ci.Kind == ColumnExcluded && !col.PrimaryKey {
		return false
	}
	if ci.Override != nil && ci.Override.Type != "" {
		return true
	}
	_, ok := field.ValueTypeOf(col.Type)
	return ok
}

func (c *Column) typeName() string {
	if c.Raw != "" {
		return fmt.Sprintf("%q", c.Raw)
	}
	return c.Type.String()
}
