package gen

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/relgraph/compiler/load"
	"github.com/syssam/relgraph/schema/edge"
	"github.com/syssam/relgraph/schema/field"
)

func TestNewGraph(t *testing.T) {
	var buf bytes.Buffer
	c := MustNewConfig(
		WithCasing("snake"),
		WithLogger(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))),
		WithInclusionMap(map[string]any{"person": true, "document": map[string]any{"ownerId": true}}),
	)
	g, err := NewGraph(c, personDocument()...)
	require.NoError(t, err)

	require.Len(t, g.Tables, 2)
	tbl, ok := g.Table("document")
	require.True(t, ok)
	assert.Equal(t, "document", tbl.Name)
	_, ok = g.Table("invoice")
	assert.False(t, ok)

	td, ok := g.Descriptor("document")
	require.True(t, ok)
	assert.Equal(t, []*ColumnDescriptor{
		{Key: "id", Type: field.ValueNumber},
		{Key: "ownerId", Type: field.ValueNumber, ServerName: "owner_id"},
	}, td.Columns)

	a := g.Artifact()
	assert.Equal(t, g.Descriptors, a.Tables)
	assert.Same(t, g.Relationships, a.Relationships)

	assert.Contains(t, buf.String(), "relationships resolved")
	assert.Contains(t, buf.String(), "edges=2")
}

func TestNewGraph_Errors(t *testing.T) {
	_, err := NewGraph(nil)
	assert.ErrorIs(t, err, ErrSchemaEmpty)

	_, err = NewGraph(nil, &load.Schema{Name: "empty"})
	assert.ErrorIs(t, err, ErrInvalidSchema)

	schemas := personDocument()
	_, err = NewGraph(nil, append(schemas, schemas[0])...)
	assert.ErrorIs(t, err, ErrInvalidSchema)
	assert.Contains(t, err.Error(), "duplicate table")

	assert.Panics(t, func() { MustNewGraph(nil) })
}

func TestNewGraph_FromEdgeDescriptors(t *testing.T) {
	person := &load.Schema{Name: "person", PrimaryKey: []string{"id"}, Columns: []*load.Column{idColumn()}}
	document := &load.Schema{Name: "document", PrimaryKey: []string{"id"}, Columns: []*load.Column{idColumn(), fkColumn("ownerId", "person")}}
	require.NoError(t, person.AddEdges(edge.Many("documents", "document").Descriptor()))
	require.NoError(t, document.AddEdges(edge.One("owner", "person").Fields("ownerId").References("id").Descriptor()))

	g := mustGraph(t, nil, person, document)
	docs := mustEdge(t, g, "person", "documents")
	assert.Equal(t, []string{"ownerId"}, docs.Hops[0].DestFields)
	assert.Equal(t, "person.documents", docs.String())
}
