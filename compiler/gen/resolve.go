package gen

import (
	"fmt"
	"slices"

	"github.com/syssam/relgraph/schema/edge"
)

// Resolve resolves the relation declarations of the given tables into the
// relationship graph. It never mutates its inputs and fails on the first
// violated invariant, returning no partial graph.
func Resolve(c *Config, tables ...*Table) (*Relationships, error) {
	if c == nil {
		c = &Config{}
	}
	if len(tables) == 0 {
		return nil, &SchemaEmptyError{}
	}
	r := &resolver{
		Config: c,
		tables: make(map[string]*Table, len(tables)),
		index:  make(map[string][]*Relation),
		fks:    make(map[string][]*Relation),
		pos:    make(map[*Relation]int),
		graph:  newRelationships(),
	}
	for _, t := range tables {
		if _, ok := r.tables[t.Name]; ok {
			return nil, NewSchemaError(t.Name, "", "duplicate table", nil)
		}
		r.tables[t.Name] = t
		for _, rel := range t.Relations {
			r.pos[rel] = len(r.pos)
			if rel.Cardinality == edge.CardinalityOne && rel.HasFields() {
				r.index[rel.Owner] = append(r.index[rel.Owner], rel)
			}
		}
	}
	// Single-column foreign keys act as implicit One declarations, ranked
	// after every explicit declaration.
	for _, t := range tables {
		for _, col := range t.Columns {
			fk := col.ForeignKey
			if fk == nil {
				continue
			}
			if ref, ok := r.tables[fk.Table]; !ok || !ref.HasColumns(fk.Column) {
				continue
			}
			rel := &Relation{
				Owner:       t.Name,
				Name:        col.Key,
				Cardinality: edge.CardinalityOne,
				Target:      fk.Table,
				Fields:      []string{col.Key},
				References:  []string{fk.Column},
			}
			r.pos[rel] = len(r.pos)
			r.fks[t.Name] = append(r.fks[t.Name], rel)
		}
	}
	for _, t := range tables {
		for _, rel := range t.Relations {
			if err := r.direct(rel); err != nil {
				return nil, err
			}
		}
		for _, m := range t.ManyToMany {
			if err := r.manyToMany(m); err != nil {
				return nil, err
			}
		}
	}
	return r.graph, nil
}

// resolver holds the state of one Resolve call.
type resolver struct {
	*Config
	tables map[string]*Table
	// index maps a table name to its One declarations with explicit fields.
	index map[string][]*Relation
	// fks maps a table name to the declarations implied by its foreign keys.
	fks map[string][]*Relation
	// pos holds the declaration order of all declarations above.
	pos   map[*Relation]int
	graph *Relationships
}

// candidate is a declaration able to supply the fields of another relation.
type candidate struct {
	rel      *Relation
	inverted bool
	pos      int
}

// hop returns the hop supplied by the candidate, oriented from the table
// being resolved.
func (c candidate) hop(dest string) *Hop {
	if c.inverted {
		return &Hop{SourceFields: c.rel.References, DestFields: c.rel.Fields, DestTable: dest}
	}
	return &Hop{SourceFields: c.rel.Fields, DestFields: c.rel.References, DestTable: dest}
}

// direct resolves a direct relation declaration.
func (r *resolver) direct(rel *Relation) error {
	owner := r.tables[rel.Owner]
	target, ok := r.tables[rel.Target]
	if !ok {
		return &UnresolvedTableReferenceError{Table: rel.Owner, Field: rel.Name, Role: RoleTarget, Ref: rel.Target}
	}
	if !r.Inclusion.Included(owner.Name) || !r.Inclusion.Included(target.Name) {
		return nil
	}
	var h *Hop
	switch {
	case rel.HasFields():
		h = &Hop{SourceFields: rel.Fields, DestFields: rel.References, DestTable: target.Name}
	case rel.RelationName != "":
		c, err := r.named(rel)
		if err != nil {
			return err
		}
		h = c.hop(target.Name)
	default:
		cs := r.infer(rel.Owner, rel.Target, func(o *Relation) bool { return o == rel })
		if len(cs) == 0 {
			return &MissingCounterRelationError{Table: rel.Owner, Field: rel.Name, Target: rel.Target, Cardinality: edge.CardinalityOne}
		}
		if r.Strict && len(cs) > 1 {
			return ambiguous(rel.Owner, rel.Name, cs)
		}
		h = cs[0].hop(target.Name)
	}
	if err := r.checkHop(rel.Owner, rel.Name, owner, h); err != nil {
		return err
	}
	return r.record(&Edge{
		Name:         rel.Name,
		Cardinality:  rel.Cardinality,
		Hops:         []*Hop{h},
		RelationName: rel.RelationName,
		Owner:        rel.Owner,
	})
}

// named finds the counterpart of a tagged declaration: a declaration on the
// target table, pointing back to the owner, with the same tag and explicit
// fields. Only One declarations can supply the fields.
func (r *resolver) named(rel *Relation) (candidate, error) {
	var cs []candidate
	for _, o := range r.tables[rel.Target].Relations {
		switch {
		case o == rel, o.Target != rel.Owner, o.RelationName != rel.RelationName, !o.HasFields():
		case o.Cardinality != edge.CardinalityOne:
		default:
			cs = append(cs, candidate{rel: o, inverted: true, pos: r.pos[o]})
		}
	}
	switch len(cs) {
	case 0:
		return candidate{}, &MissingCounterRelationError{
			Table:        rel.Owner,
			Field:        rel.Name,
			Target:       rel.Target,
			Cardinality:  edge.CardinalityOne,
			RelationName: rel.RelationName,
		}
	case 1:
		return cs[0], nil
	default:
		return candidate{}, ambiguous(rel.Owner, rel.Name, cs)
	}
}

// infer returns, in declaration order, the One declarations with explicit
// fields that join owner and target: declarations of target pointing to
// owner (inverted) and declarations of owner pointing to target (as-is).
// Declarations matching skip are ignored. Foreign keys are only consulted
// when no declaration matches.
func (r *resolver) infer(owner, target string, skip func(*Relation) bool) []candidate {
	if skip == nil {
		skip = func(*Relation) bool { return false }
	}
	if cs := r.candidates(r.index, owner, target, skip); len(cs) > 0 {
		return cs
	}
	return r.candidates(r.fks, owner, target, skip)
}

func (r *resolver) candidates(index map[string][]*Relation, owner, target string, skip func(*Relation) bool) []candidate {
	var cs []candidate
	for _, o := range index[target] {
		if !skip(o) && o.Target == owner {
			cs = append(cs, candidate{rel: o, inverted: true, pos: r.pos[o]})
		}
	}
	if owner != target {
		for _, o := range index[owner] {
			if !skip(o) && o.Target == target {
				cs = append(cs, candidate{rel: o, pos: r.pos[o]})
			}
		}
	}
	slices.SortStableFunc(cs, func(a, b candidate) int { return a.pos - b.pos })
	return cs
}

func ambiguous(table, field string, cs []candidate) error {
	names := make([]string, len(cs))
	for i, c := range cs {
		names[i] = c.rel.String()
	}
	return &AmbiguousRelationError{Table: table, Field: field, Candidates: names}
}

// manyToMany resolves a relation through a junction table. Missing or view
// tables are reported before the inclusion skip, so a declaration naming an
// unknown table fails even when one of its tables is excluded.
func (r *resolver) manyToMany(m *ManyToMany) error {
	for _, ref := range []struct{ role, name string }{
		{RoleSource, m.Owner},
		{RoleJunction, m.Junction},
		{RoleDestination, m.Destination},
	} {
		t, ok := r.tables[ref.name]
		if !ok || t.View {
			return &UnresolvedTableReferenceError{Table: m.Owner, Field: m.Name, Role: ref.role, Ref: ref.name, View: ok}
		}
	}
	for _, name := range []string{m.Owner, m.Junction, m.Destination} {
		if !r.Inclusion.Included(name) {
			return nil
		}
	}
	owner, junction, dest := r.tables[m.Owner], r.tables[m.Junction], r.tables[m.Destination]

	var hop1, hop2 *Hop
	if len(m.SourceFields) > 0 || len(m.JunctionFields) > 0 {
		hop1 = &Hop{SourceFields: m.SourceFields, DestFields: m.JunctionFields, DestTable: junction.Name}
	} else {
		cs := r.infer(owner.Name, junction.Name, nil)
		// A self-referential junction joins the owner twice; the second
		// candidate belongs to hop 2.
		limit := 1
		if owner.Name == dest.Name {
			limit = 2
		}
		if r.Strict && len(cs) > limit {
			return ambiguous(m.Owner, m.Name, cs)
		}
		if len(cs) > 0 {
			hop1 = cs[0].hop(junction.Name)
		}
	}
	if len(m.JunctionDestFields) > 0 || len(m.DestinationFields) > 0 {
		hop2 = &Hop{SourceFields: m.JunctionDestFields, DestFields: m.DestinationFields, DestTable: dest.Name}
	} else {
		var skip func(*Relation) bool
		if owner.Name == dest.Name && hop1 != nil {
			// Hop 2 must leave the junction through the columns hop 1 did
			// not enter by.
			skip = func(o *Relation) bool {
				side := o.References
				if o.Owner == junction.Name {
					side = o.Fields
				}
				return slices.Equal(side, hop1.DestFields)
			}
		}
		cs := r.infer(junction.Name, dest.Name, skip)
		if r.Strict && len(cs) > 1 {
			return ambiguous(m.Owner, m.Name, cs)
		}
		if len(cs) > 0 {
			hop2 = cs[0].hop(dest.Name)
		}
	}
	if hop1 == nil || len(hop1.SourceFields) == 0 {
		return &MissingJunctionRelationError{Table: m.Owner, Field: m.Name, Junction: m.Junction, Hop: 1, From: m.Owner, To: m.Junction}
	}
	if hop2 == nil || len(hop2.SourceFields) == 0 {
		return &MissingJunctionRelationError{Table: m.Owner, Field: m.Name, Junction: m.Junction, Hop: 2, From: m.Junction, To: m.Destination}
	}
	if err := r.checkHop(m.Owner, m.Name, owner, hop1); err != nil {
		return err
	}
	if err := r.checkHop(m.Owner, m.Name, junction, hop2); err != nil {
		return err
	}
	return r.record(&Edge{
		Name:        m.Name,
		Cardinality: edge.CardinalityMany,
		Hops:        []*Hop{hop1, hop2},
		Owner:       m.Owner,
	})
}

// checkHop validates the field lists of a hop starting at from, and warns
// about fields referencing columns the projector excluded.
func (r *resolver) checkHop(table, field string, from *Table, h *Hop) error {
	to := r.tables[h.DestTable]
	switch ns, nd := len(h.SourceFields), len(h.DestFields); {
	case ns == 0:
		return &RelationFieldError{Table: table, Field: field, Message: "no fields to join " + from.Name + " with " + to.Name}
	case ns != nd:
		return &RelationFieldError{Table: table, Field: field, Message: fmt.Sprintf("%s and %s field lists differ in length (%d != %d)", from.Name, to.Name, ns, nd)}
	}
	for _, side := range []struct {
		t    *Table
		keys []string
	}{
		{from, h.SourceFields},
		{to, h.DestFields},
	} {
		for _, k := range side.keys {
			col, ok := side.t.Column(k)
			if !ok {
				return &RelationFieldError{Table: table, Field: field, Message: fmt.Sprintf("unknown column %q on table %q", k, side.t.Name)}
			}
			if !r.projects(side.t, col) {
				r.warn(DiagExcludedReference, side.t.Name, k, "relation %s.%s references column %s.%s, which is not projected", table, field, side.t.Name, k)
			}
		}
	}
	return nil
}

// record adds the edge to the graph, rejecting names that collide with a
// column or another relation of the owner.
func (r *resolver) record(e *Edge) error {
	if _, ok := r.tables[e.Owner].Column(e.Name); ok {
		return &NamingConflictError{Table: e.Owner, Field: e.Name}
	}
	if !r.graph.add(e) {
		return &DuplicateRelationshipError{Table: e.Owner, Field: e.Name}
	}
	return nil
}
