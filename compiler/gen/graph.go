package gen

import (
	"log/slog"

	"github.com/syssam/relgraph/compiler/load"
)

// Graph holds the normalized tables of a schema, their projections and the
// resolved relationship graph.
type Graph struct {
	*Config
	// Tables holds the tables in schema order.
	Tables []*Table
	// Descriptors holds the projections of the included tables.
	Descriptors []*TableDescriptor
	// Relationships holds the resolved edges.
	Relationships *Relationships
}

// NewGraph creates a new graph from the given loaded schemas. It normalizes
// the tables, projects their columns and resolves their relations in one
// pass. The diagnostics collector of the config, if any, is reset first.
func NewGraph(c *Config, schemas ...*load.Schema) (g *Graph, err error) {
	if c == nil {
		c = &Config{}
	}
	if len(schemas) == 0 {
		return nil, &SchemaEmptyError{}
	}
	if c.Diagnostics != nil {
		c.Diagnostics.Reset()
	}
	g = &Graph{Config: c}
	for _, s := range schemas {
		t, err := NewTable(c, s)
		if err != nil {
			return nil, err
		}
		g.Tables = append(g.Tables, t)
	}
	if err := c.Inclusion.check(g.Tables); err != nil {
		return nil, err
	}
	for _, t := range g.Tables {
		td, err := Project(c, t)
		if err != nil {
			return nil, err
		}
		if td != nil {
			g.Descriptors = append(g.Descriptors, td)
		}
	}
	if g.Relationships, err = Resolve(c, g.Tables...); err != nil {
		return nil, err
	}
	c.logger().Debug("relationships resolved",
		slog.Int("tables", len(g.Tables)),
		slog.Int("projected", len(g.Descriptors)),
		slog.Int("edges", g.Relationships.Len()),
	)
	return g, nil
}

// MustNewGraph creates a new graph. It panics on error.
func MustNewGraph(c *Config, schemas ...*load.Schema) *Graph {
	g, err := NewGraph(c, schemas...)
	if err != nil {
		panic(err)
	}
	return g
}

// Table returns the table with the given name.
func (g *Graph) Table(name string) (*Table, bool) {
	for _, t := range g.Tables {
		if t.Name == name {
			return t, true
		}
	}
	return nil, false
}

// Descriptor returns the projection of the given table.
func (g *Graph) Descriptor(name string) (*TableDescriptor, bool) {
	for _, td := range g.Descriptors {
		if td.Name == name {
			return td, true
		}
	}
	return nil, false
}

// Artifact returns the schema artifact of the graph.
func (g *Graph) Artifact() *Artifact {
	return &Artifact{
		Tables:        g.Descriptors,
		Relationships: g.Relationships,
	}
}
