package load

import (
	"fmt"

	"github.com/syssam/relgraph/schema/edge"
	"github.com/syssam/relgraph/schema/field"
)

// Schema represents one table (or view) of a loaded schema description.
type Schema struct {
	Name       string        `json:"name" yaml:"name" toml:"name" validate:"required"`
	View       bool          `json:"view,omitempty" yaml:"view,omitempty" toml:"view,omitempty"`
	Columns    []*Column     `json:"columns" yaml:"columns" toml:"columns" validate:"required,min=1,dive"`
	PrimaryKey []string      `json:"primaryKey,omitempty" yaml:"primaryKey,omitempty" toml:"primaryKey,omitempty"`
	Relations  []*Relation   `json:"relations,omitempty" yaml:"relations,omitempty" toml:"relations,omitempty" validate:"dive"`
	ManyToMany []*ManyToMany `json:"manyToMany,omitempty" yaml:"manyToMany,omitempty" toml:"manyToMany,omitempty" validate:"dive"`
	Comment    string        `json:"comment,omitempty" yaml:"comment,omitempty" toml:"comment,omitempty"`
}

// Column represents a loaded table column.
type Column struct {
	// Key is the stable identifier used by relation declarations.
	Key string `json:"key" yaml:"key" toml:"key" validate:"required"`
	// Name is the storage name. Derived from Key by the casing
	// directive when empty.
	Name       string      `json:"name,omitempty" yaml:"name,omitempty" toml:"name,omitempty"`
	Type       field.Type  `json:"type,omitempty" yaml:"type,omitempty" toml:"type,omitempty"`
	Raw        string      `json:"raw,omitempty" yaml:"raw,omitempty" toml:"raw,omitempty"`
	Nullable   bool        `json:"nullable,omitempty" yaml:"nullable,omitempty" toml:"nullable,omitempty"`
	Default    bool        `json:"default,omitempty" yaml:"default,omitempty" toml:"default,omitempty"`
	PrimaryKey bool        `json:"primaryKey,omitempty" yaml:"primaryKey,omitempty" toml:"primaryKey,omitempty"`
	ForeignKey *ForeignKey `json:"foreignKey,omitempty" yaml:"foreignKey,omitempty" toml:"foreignKey,omitempty"`
	// CustomType is the opaque type tag attached by the value-type analysis.
	CustomType string   `json:"customType,omitempty" yaml:"customType,omitempty" toml:"customType,omitempty"`
	Enums      []string `json:"enums,omitempty" yaml:"enums,omitempty" toml:"enums,omitempty"`
}

// ForeignKey references a column of another table.
type ForeignKey struct {
	Table  string `json:"table" yaml:"table" toml:"table" validate:"required"`
	Column string `json:"column" yaml:"column" toml:"column" validate:"required"`
}

// Relation represents a direct relation declaration owned by a table.
type Relation struct {
	Name         string           `json:"name" yaml:"name" toml:"name" validate:"required"`
	Cardinality  edge.Cardinality `json:"cardinality" yaml:"cardinality" toml:"cardinality" validate:"required"`
	Target       string           `json:"target" yaml:"target" toml:"target" validate:"required"`
	Fields       []string         `json:"fields,omitempty" yaml:"fields,omitempty" toml:"fields,omitempty"`
	References   []string         `json:"references,omitempty" yaml:"references,omitempty" toml:"references,omitempty"`
	RelationName string           `json:"relationName,omitempty" yaml:"relationName,omitempty" toml:"relationName,omitempty"`
	Comment      string           `json:"comment,omitempty" yaml:"comment,omitempty" toml:"comment,omitempty"`
}

// ManyToMany represents a relation through a junction table.
type ManyToMany struct {
	Name        string `json:"name" yaml:"name" toml:"name" validate:"required"`
	Junction    string `json:"junction" yaml:"junction" toml:"junction" validate:"required"`
	Destination string `json:"destination" yaml:"destination" toml:"destination" validate:"required"`
	// Explicit form. Hop1 is owner -> junction, hop2 is junction -> destination.
	SourceFields       []string `json:"sourceFields,omitempty" yaml:"sourceFields,omitempty" toml:"sourceFields,omitempty"`
	JunctionFields     []string `json:"junctionFields,omitempty" yaml:"junctionFields,omitempty" toml:"junctionFields,omitempty"`
	JunctionDestFields []string `json:"junctionDestFields,omitempty" yaml:"junctionDestFields,omitempty" toml:"junctionDestFields,omitempty"`
	DestinationFields  []string `json:"destinationFields,omitempty" yaml:"destinationFields,omitempty" toml:"destinationFields,omitempty"`
	Comment            string   `json:"comment,omitempty" yaml:"comment,omitempty" toml:"comment,omitempty"`
}

// NewRelation creates a loaded relation from a relation descriptor.
// It returns an error if the descriptor contains an error.
func NewRelation(ed *edge.Descriptor) (*Relation, error) {
	if ed.Err != nil {
		return nil, ed.Err
	}
	if ed.IsThrough() {
		return nil, fmt.Errorf("relation %q is a many-to-many declaration", ed.Name)
	}
	return &Relation{
		Name:         ed.Name,
		Cardinality:  ed.Cardinality,
		Target:       ed.Target,
		Fields:       ed.Fields,
		References:   ed.References,
		RelationName: ed.Relation,
		Comment:      ed.Comment,
	}, nil
}

// NewManyToMany creates a loaded many-to-many declaration from a descriptor.
func NewManyToMany(ed *edge.Descriptor) (*ManyToMany, error) {
	if ed.Err != nil {
		return nil, ed.Err
	}
	if !ed.IsThrough() {
		return nil, fmt.Errorf("relation %q is not a many-to-many declaration", ed.Name)
	}
	t := ed.Through
	return &ManyToMany{
		Name:               ed.Name,
		Junction:           t.Junction,
		Destination:        t.Destination,
		SourceFields:       t.OwnerFields,
		JunctionFields:     t.JunctionFields,
		JunctionDestFields: t.JunctionDestFields,
		DestinationFields:  t.DestinationFields,
		Comment:            ed.Comment,
	}, nil
}

// AddEdges appends the relations described by the given descriptors to the
// schema. Many-to-many descriptors are routed to ManyToMany.
func (s *Schema) AddEdges(descs ...*edge.Descriptor) error {
	for _, d := range descs {
		if d.IsThrough() {
			m, err := NewManyToMany(d)
			if err != nil {
				return fmt.Errorf("schema %q: %w", s.Name, err)
			}
			s.ManyToMany = append(s.ManyToMany, m)
			continue
		}
		r, err := NewRelation(d)
		if err != nil {
			return fmt.Errorf("schema %q: %w", s.Name, err)
		}
		s.Relations = append(s.Relations, r)
	}
	return nil
}

// Column returns the column with the given key.
func (s *Schema) Column(key string) (*Column, bool) {
	for _, c := range s.Columns {
		if c.Key == key {
			return c, true
		}
	}
	return nil, false
}
