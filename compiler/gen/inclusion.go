package gen

import (
	"fmt"
	"maps"
	"slices"

	"github.com/syssam/relgraph/schema/field"
)

// TableKind classifies how a table takes part in the artifact.
type TableKind uint8

// Table inclusion kinds.
const (
	// TableExcluded tables contribute no columns and no edges.
	TableExcluded TableKind = iota
	// TableDefaultIncluded tables project every column.
	TableDefaultIncluded
	// TableOverridden tables project only the configured columns
	// (plus the primary key).
	TableOverridden
)

// String returns the name of the kind.
func (k TableKind) String() string {
	switch k {
	case TableDefaultIncluded:
		return "default"
	case TableOverridden:
		return "overridden"
	default:
		return "excluded"
	}
}

// ColumnKind classifies a column entry of an overridden table.
type ColumnKind uint8

// Column inclusion kinds.
const (
	ColumnExcluded ColumnKind = iota
	ColumnIncluded
	ColumnOverridden
)

// ColumnOverride replaces parts of the projected column descriptor.
type ColumnOverride struct {
	// Type forces the projected value type. Unsupported storage types
	// are projected when it is set.
	Type field.ValueType
	// Optional forces the optionality of non primary-key columns.
	Optional *bool
	// CustomType replaces the column custom type tag.
	CustomType string
}

// ColumnInclusion is the inclusion entry of one column.
type ColumnInclusion struct {
	Kind     ColumnKind
	Override *ColumnOverride
}

// TableInclusion is the inclusion entry of one table. Columns is only
// consulted for TableOverridden tables.
type TableInclusion struct {
	Kind    TableKind
	Columns map[string]*ColumnInclusion
}

// Column returns the inclusion entry of the given column key.
func (t *TableInclusion) Column(key string) *ColumnInclusion {
	switch t.Kind {
	case TableDefaultIncluded:
		return &ColumnInclusion{Kind: ColumnIncluded}
	case TableOverridden:
		if c, ok := t.Columns[key]; ok {
			return c
		}
	}
	return &ColumnInclusion{Kind: ColumnExcluded}
}

// Inclusion is the normalized inclusion configuration. A nil *Inclusion
// includes every table with all of its columns.
type Inclusion struct {
	tables map[string]*TableInclusion
}

var includeAll = &TableInclusion{Kind: TableDefaultIncluded}

// Table returns the inclusion entry of the given table. Tables absent from a
// non-nil configuration are excluded.
func (i *Inclusion) Table(name string) *TableInclusion {
	if i == nil {
		return includeAll
	}
	if t, ok := i.tables[name]; ok {
		return t
	}
	return &TableInclusion{Kind: TableExcluded}
}

// Included reports whether the given table is an edge candidate.
func (i *Inclusion) Included(name string) bool {
	return i.Table(name).Kind != TableExcluded
}

// Tables returns the configured table names in sorted order.
func (i *Inclusion) Tables() []string {
	if i == nil {
		return nil
	}
	return slices.Sorted(maps.Keys(i.tables))
}

// ParseInclusion normalizes a raw inclusion configuration, as decoded from a
// schema document, into its tagged form. The accepted shape is:
//
//	table: true | false
//	table:
//	  column: true | false
//	  column: {type: string, optional: true, customType: Email}
//
// A nil map yields a nil *Inclusion, which includes everything.
func ParseInclusion(raw map[string]any) (*Inclusion, error) {
	if raw == nil {
		return nil, nil
	}
	inc := &Inclusion{tables: make(map[string]*TableInclusion, len(raw))}
	// Sorted iteration keeps the reported error stable.
	for _, name := range slices.Sorted(maps.Keys(raw)) {
		t, err := parseTableInclusion(name, raw[name])
		if err != nil {
			return nil, err
		}
		inc.tables[name] = t
	}
	return inc, nil
}

func parseTableInclusion(table string, v any) (*TableInclusion, error) {
	switch v := v.(type) {
	case bool:
		if v {
			return &TableInclusion{Kind: TableDefaultIncluded}, nil
		}
		return &TableInclusion{Kind: TableExcluded}, nil
	case map[string]any:
		t := &TableInclusion{Kind: TableOverridden, Columns: make(map[string]*ColumnInclusion, len(v))}
		for _, key := range slices.Sorted(maps.Keys(v)) {
			c, err := parseColumnInclusion(table+"."+key, v[key])
			if err != nil {
				return nil, err
			}
			t.Columns[key] = c
		}
		return t, nil
	default:
		return nil, &InvalidConfigShapeError{Path: table, Value: v, Message: "expected a boolean or a column map"}
	}
}

func parseColumnInclusion(path string, v any) (*ColumnInclusion, error) {
	switch v := v.(type) {
	case bool:
		if v {
			return &ColumnInclusion{Kind: ColumnIncluded}, nil
		}
		return &ColumnInclusion{Kind: ColumnExcluded}, nil
	case map[string]any:
		o := &ColumnOverride{}
		for _, key := range slices.Sorted(maps.Keys(v)) {
			ov := v[key]
			switch key {
			case "type":
				s, ok := ov.(string)
				if !ok {
					return nil, &InvalidConfigShapeError{Path: path + ".type", Value: ov, Message: "expected a string"}
				}
				vt, err := field.ParseValueType(s)
				if err != nil {
					return nil, &InvalidConfigShapeError{Path: path + ".type", Value: ov, Message: err.Error()}
				}
				o.Type = vt
			case "optional":
				b, ok := ov.(bool)
				if !ok {
					return nil, &InvalidConfigShapeError{Path: path + ".optional", Value: ov, Message: "expected a boolean"}
				}
				o.Optional = &b
			case "customType":
				s, ok := ov.(string)
				if !ok {
					return nil, &InvalidConfigShapeError{Path: path + ".customType", Value: ov, Message: "expected a string"}
				}
				o.CustomType = s
			default:
				return nil, &InvalidConfigShapeError{Path: path + "." + key, Message: "unknown override attribute"}
			}
		}
		return &ColumnInclusion{Kind: ColumnOverridden, Override: o}, nil
	default:
		return nil, &InvalidConfigShapeError{Path: path, Value: v, Message: "expected a boolean or an override object"}
	}
}

// check verifies that every configured table and column exists.
func (i *Inclusion) check(tables []*Table) error {
	if i == nil {
		return nil
	}
	byName := make(map[string]*Table, len(tables))
	for _, t := range tables {
		byName[t.Name] = t
	}
	for _, name := range i.Tables() {
		t, ok := byName[name]
		if !ok {
			return &UnresolvedTableReferenceError{Role: RoleInclusion, Ref: name}
		}
		for _, key := range slices.Sorted(maps.Keys(i.tables[name].Columns)) {
			if _, ok := t.Column(key); !ok {
				return &InvalidConfigShapeError{Path: fmt.Sprintf("%s.%s", name, key), Message: "unknown column"}
			}
		}
	}
	return nil
}
