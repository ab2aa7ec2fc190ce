package gen

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/syssam/relgraph/schema/edge"
)

// Hop is one directed segment of a resolved edge.
type Hop struct {
	// SourceFields are column keys of the table the hop starts from.
	SourceFields []string `json:"sourceFields"`
	// DestFields are column keys of DestTable, matched pairwise.
	DestFields []string `json:"destFields"`
	// DestTable is the table the hop leads to.
	DestTable string `json:"destTable"`
}

// Edge is a resolved relation exposed under one field name of its owner.
type Edge struct {
	// Name holds the relation field name.
	Name string `json:"name"`
	// Cardinality of the edge. Many-to-many edges are always Many.
	Cardinality edge.Cardinality `json:"cardinality"`
	// Hops holds one hop for direct edges and two for many-to-many edges.
	Hops []*Hop `json:"hops"`
	// RelationName is the disambiguating tag of the declaration, if any.
	RelationName string `json:"relationName,omitempty"`
	// Owner holds the name of the table exposing the edge.
	Owner string `json:"-"`
}

// M2M indicates if this edge goes through a junction table.
func (e *Edge) M2M() bool { return len(e.Hops) == 2 }

// Dest returns the table the edge leads to.
func (e *Edge) Dest() string { return e.Hops[len(e.Hops)-1].DestTable }

// Junction returns the junction table of a many-to-many edge.
func (e *Edge) Junction() string {
	if !e.M2M() {
		return ""
	}
	return e.Hops[0].DestTable
}

// String returns the qualified name of the edge.
func (e *Edge) String() string { return e.Owner + "." + e.Name }

// Relationships is the resolved relationship graph: table name to field name
// to edge. Tables and edges keep their insertion order.
type Relationships struct {
	tables []string
	edges  map[string][]*Edge
	index  map[string]map[string]*Edge
}

func newRelationships() *Relationships {
	return &Relationships{
		edges: make(map[string][]*Edge),
		index: make(map[string]map[string]*Edge),
	}
}

// add records e under its owner. It reports false if the owner already
// exposes a field with the same name.
func (r *Relationships) add(e *Edge) bool {
	fields, ok := r.index[e.Owner]
	if !ok {
		fields = make(map[string]*Edge)
		r.index[e.Owner] = fields
		r.tables = append(r.tables, e.Owner)
	}
	if _, ok := fields[e.Name]; ok {
		return false
	}
	fields[e.Name] = e
	r.edges[e.Owner] = append(r.edges[e.Owner], e)
	return true
}

// Edge returns the edge exposed by table under the given field name.
func (r *Relationships) Edge(table, name string) (*Edge, bool) {
	if r == nil {
		return nil, false
	}
	e, ok := r.index[table][name]
	return e, ok
}

// Edges returns the edges of the given table in declaration order.
func (r *Relationships) Edges(table string) []*Edge {
	if r == nil {
		return nil
	}
	return r.edges[table]
}

// Tables returns the names of the tables exposing at least one edge, in
// schema order.
func (r *Relationships) Tables() []string {
	if r == nil {
		return nil
	}
	return r.tables
}

// Len returns the total number of edges.
func (r *Relationships) Len() int {
	if r == nil {
		return 0
	}
	n := 0
	for _, es := range r.edges {
		n += len(es)
	}
	return n
}

// MarshalJSON encodes the graph as a nested object, preserving order.
func (r *Relationships) MarshalJSON() ([]byte, error) {
	var b bytes.Buffer
	b.WriteByte('{')
	for i, t := range r.Tables() {
		if i > 0 {
			b.WriteByte(',')
		}
		if err := writeJSONKey(&b, t); err != nil {
			return nil, err
		}
		b.WriteByte('{')
		for j, e := range r.edges[t] {
			if j > 0 {
				b.WriteByte(',')
			}
			if err := writeJSONKey(&b, e.Name); err != nil {
				return nil, err
			}
			v, err := json.Marshal(e)
			if err != nil {
				return nil, err
			}
			b.Write(v)
		}
		b.WriteByte('}')
	}
	b.WriteByte('}')
	return b.Bytes(), nil
}

func writeJSONKey(b *bytes.Buffer, k string) error {
	v, err := json.Marshal(k)
	if err != nil {
		return err
	}
	b.Write(v)
	b.WriteByte(':')
	return nil
}

// UnmarshalJSON decodes a nested object produced by MarshalJSON.
func (r *Relationships) UnmarshalJSON(data []byte) error {
	*r = *newRelationships()
	dec := json.NewDecoder(bytes.NewReader(data))
	if err := expectDelim(dec, '{'); err != nil {
		return err
	}
	for dec.More() {
		table, err := stringToken(dec)
		if err != nil {
			return err
		}
		if err := expectDelim(dec, '{'); err != nil {
			return err
		}
		for dec.More() {
			name, err := stringToken(dec)
			if err != nil {
				return err
			}
			e := &Edge{}
			if err := dec.Decode(e); err != nil {
				return fmt.Errorf("decode edge %s.%s: %w", table, name, err)
			}
			e.Name, e.Owner = name, table
			if !r.add(e) {
				return &DuplicateRelationshipError{Table: table, Field: name}
			}
		}
		if err := expectDelim(dec, '}'); err != nil {
			return err
		}
	}
	return expectDelim(dec, '}')
}

func expectDelim(dec *json.Decoder, d json.Delim) error {
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok != d {
		return fmt.Errorf("relationships: expected %q, got %v", d, tok)
	}
	return nil
}

func stringToken(dec *json.Decoder) (string, error) {
	tok, err := dec.Token()
	if err != nil {
		return "", err
	}
	s, ok := tok.(string)
	if !ok {
		return "", fmt.Errorf("relationships: expected a key, got %v", tok)
	}
	return s, nil
}

var (
	_ msgpack.CustomEncoder = (*Relationships)(nil)
	_ msgpack.CustomDecoder = (*Relationships)(nil)
)

// EncodeMsgpack encodes the graph as nested maps, preserving order.
func (r *Relationships) EncodeMsgpack(enc *msgpack.Encoder) error {
	tables := r.Tables()
	if err := enc.EncodeMapLen(len(tables)); err != nil {
		return err
	}
	for _, t := range tables {
		if err := enc.EncodeString(t); err != nil {
			return err
		}
		edges := r.edges[t]
		if err := enc.EncodeMapLen(len(edges)); err != nil {
			return err
		}
		for _, e := range edges {
			if err := enc.EncodeString(e.Name); err != nil {
				return err
			}
			if err := enc.Encode(e); err != nil {
				return err
			}
		}
	}
	return nil
}

// DecodeMsgpack decodes nested maps produced by EncodeMsgpack.
func (r *Relationships) DecodeMsgpack(dec *msgpack.Decoder) error {
	*r = *newRelationships()
	n, err := dec.DecodeMapLen()
	if err != nil {
		return err
	}
	for range max(n, 0) {
		table, err := dec.DecodeString()
		if err != nil {
			return err
		}
		m, err := dec.DecodeMapLen()
		if err != nil {
			return err
		}
		for range max(m, 0) {
			name, err := dec.DecodeString()
			if err != nil {
				return err
			}
			e := &Edge{}
			if err := dec.Decode(e); err != nil {
				return fmt.Errorf("decode edge %s.%s: %w", table, name, err)
			}
			e.Name, e.Owner = name, table
			if !r.add(e) {
				return &DuplicateRelationshipError{Table: table, Field: name}
			}
		}
	}
	return nil
}
