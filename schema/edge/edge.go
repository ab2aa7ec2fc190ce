package edge

import (
	"errors"
	"fmt"
	"strings"
)

// Cardinality of a relation declaration.
type Cardinality uint8

// Cardinality values.
const (
	CardinalityInvalid Cardinality = iota
	CardinalityOne
	CardinalityMany
)

// String returns the cardinality name.
func (c Cardinality) String() string {
	switch c {
	case CardinalityOne:
		return "one"
	case CardinalityMany:
		return "many"
	default:
		return "invalid"
	}
}

// Valid reports if c is CardinalityOne or CardinalityMany.
func (c Cardinality) Valid() bool { return c == CardinalityOne || c == CardinalityMany }

// Opposite returns the complementary cardinality.
func (c Cardinality) Opposite() Cardinality {
	switch c {
	case CardinalityOne:
		return CardinalityMany
	case CardinalityMany:
		return CardinalityOne
	default:
		return CardinalityInvalid
	}
}

// MarshalText implements the encoding.TextMarshaler interface.
func (c Cardinality) MarshalText() ([]byte, error) {
	if !c.Valid() {
		return nil, fmt.Errorf("invalid cardinality %d", c)
	}
	return []byte(c.String()), nil
}

// UnmarshalText implements the encoding.TextUnmarshaler interface.
func (c *Cardinality) UnmarshalText(text []byte) error {
	switch strings.ToLower(string(text)) {
	case "one":
		*c = CardinalityOne
	case "many":
		*c = CardinalityMany
	default:
		return fmt.Errorf("unknown cardinality %q", text)
	}
	return nil
}

// A Descriptor for relation configuration.
type Descriptor struct {
	Name        string      // field name of the relation on its owner.
	Cardinality Cardinality // CardinalityMany for junction relations.
	Target      string      // target table of a direct relation.
	Fields      []string    // source fields on the owner.
	References  []string    // destination fields on the target.
	Relation    string      // disambiguating relation name.
	Comment     string
	Through     *ThroughDescriptor // junction hops, non-nil for many-to-many.
	Err         error
}

// ThroughDescriptor describes a many-to-many declaration.
type ThroughDescriptor struct {
	Junction    string
	Destination string
	// Hop1 fields: owner side, junction side.
	OwnerFields, JunctionFields []string
	// Hop2 fields: junction side, destination side.
	JunctionDestFields, DestinationFields []string
}

// IsThrough reports if the descriptor declares a many-to-many relation.
func (d *Descriptor) IsThrough() bool { return d.Through != nil }

// One returns a relation builder pointing to at most one row of target.
func One(name, target string) *Builder {
	return newBuilder(name, CardinalityOne, target)
}

// Many returns a relation builder pointing to many rows of target.
func Many(name, target string) *Builder {
	return newBuilder(name, CardinalityMany, target)
}

func newBuilder(name string, c Cardinality, target string) *Builder {
	b := &Builder{desc: &Descriptor{Name: name, Cardinality: c, Target: target}}
	switch {
	case name == "":
		b.desc.Err = errors.New("relation name cannot be empty")
	case target == "":
		b.desc.Err = fmt.Errorf("relation %q: target table cannot be empty", name)
	}
	return b
}

// Builder for direct relations.
type Builder struct {
	desc *Descriptor
}

// Fields sets the source fields on the owner table.
func (b *Builder) Fields(keys ...string) *Builder {
	b.desc.Fields = append(b.desc.Fields, keys...)
	return b
}

// References sets the destination fields on the target table.
func (b *Builder) References(keys ...string) *Builder {
	b.desc.References = append(b.desc.References, keys...)
	return b
}

// Relation sets the relation name used to pair this declaration with its
// counterpart on the target table.
func (b *Builder) Relation(name string) *Builder {
	b.desc.Relation = name
	return b
}

// Comment sets the comment of the relation.
func (b *Builder) Comment(c string) *Builder {
	b.desc.Comment = c
	return b
}

// Descriptor returns the relation descriptor. Field list errors are
// reported on Descriptor.Err.
func (b *Builder) Descriptor() *Descriptor {
	d := b.desc
	if d.Err != nil {
		return d
	}
	if nf, nr := len(d.Fields), len(d.References); nf != nr {
		d.Err = fmt.Errorf("relation %q: fields and references must have the same length (%d != %d)", d.Name, nf, nr)
	}
	return d
}

// ThroughBuilder for many-to-many relations.
type ThroughBuilder struct {
	desc *Descriptor
}

// Through returns a many-to-many builder reaching destination via junction.
func Through(name, junction, destination string) *ThroughBuilder {
	b := &ThroughBuilder{desc: &Descriptor{
		Name:        name,
		Cardinality: CardinalityMany,
		Target:      destination,
		Through:     &ThroughDescriptor{Junction: junction, Destination: destination},
	}}
	switch {
	case name == "":
		b.desc.Err = errors.New("relation name cannot be empty")
	case junction == "":
		b.desc.Err = fmt.Errorf("relation %q: junction table cannot be empty", name)
	case destination == "":
		b.desc.Err = fmt.Errorf("relation %q: destination table cannot be empty", name)
	}
	return b
}

// JunctionFields sets the fields of the first hop: owner fields and the
// junction fields they match.
func (b *ThroughBuilder) JunctionFields(owner, junction []string) *ThroughBuilder {
	b.desc.Through.OwnerFields = owner
	b.desc.Through.JunctionFields = junction
	return b
}

// DestinationFields sets the fields of the second hop: junction fields and the
// destination fields they match.
func (b *ThroughBuilder) DestinationFields(junction, destination []string) *ThroughBuilder {
	b.desc.Through.JunctionDestFields = junction
	b.desc.Through.DestinationFields = destination
	return b
}

// Comment sets the comment of the relation.
func (b *ThroughBuilder) Comment(c string) *ThroughBuilder {
	b.desc.Comment = c
	return b
}

// Descriptor returns the many-to-many descriptor.
func (b *ThroughBuilder) Descriptor() *Descriptor {
	d := b.desc
	if d.Err != nil {
		return d
	}
	t := d.Through
	if len(t.OwnerFields) != len(t.JunctionFields) {
		d.Err = fmt.Errorf("relation %q: junction hop fields must have the same length (%d != %d)", d.Name, len(t.OwnerFields), len(t.JunctionFields))
	} else if len(t.JunctionDestFields) != len(t.DestinationFields) {
		d.Err = fmt.Errorf("relation %q: destination hop fields must have the same length (%d != %d)", d.Name, len(t.JunctionDestFields), len(t.DestinationFields))
	}
	return d
}
