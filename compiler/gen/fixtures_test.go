package gen

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/syssam/relgraph/compiler/load"
	"github.com/syssam/relgraph/schema/edge"
	"github.com/syssam/relgraph/schema/field"
)

func idColumn() *load.Column {
	return &load.Column{Key: "id", Type: field.TypeInt64}
}

func fkColumn(key, table string) *load.Column {
	return &load.Column{Key: key, Type: field.TypeInt64, ForeignKey: &load.ForeignKey{Table: table, Column: "id"}}
}

func one(name, target string, fields, refs []string) *load.Relation {
	return &load.Relation{Name: name, Cardinality: edge.CardinalityOne, Target: target, Fields: fields, References: refs}
}

func many(name, target string) *load.Relation {
	return &load.Relation{Name: name, Cardinality: edge.CardinalityMany, Target: target}
}

// personDocument returns person(id), document(id, ownerId -> person.id) with
// document.owner declaring its fields and person.documents inferred.
func personDocument() []*load.Schema {
	return []*load.Schema{
		{
			Name:       "person",
			PrimaryKey: []string{"id"},
			Columns:    []*load.Column{idColumn(), {Key: "name", Type: field.TypeString}},
			Relations:  []*load.Relation{many("documents", "document")},
		},
		{
			Name:       "document",
			PrimaryKey: []string{"id"},
			Columns:    []*load.Column{idColumn(), fkColumn("ownerId", "person"), {Key: "title", Type: field.TypeString}},
			Relations:  []*load.Relation{one("owner", "person", []string{"ownerId"}, []string{"id"})},
		},
	}
}

// userGroup returns user(id), membership(userId, groupId), group(id) with a
// short-form many-to-many user.groups. When declared is false, membership
// carries foreign keys only.
func userGroup(declared bool) []*load.Schema {
	membership := &load.Schema{
		Name:       "membership",
		PrimaryKey: []string{"userId", "groupId"},
		Columns:    []*load.Column{fkColumn("userId", "user"), fkColumn("groupId", "group")},
	}
	if declared {
		membership.Relations = []*load.Relation{
			one("user", "user", []string{"userId"}, []string{"id"}),
			one("group", "group", []string{"groupId"}, []string{"id"}),
		}
	}
	return []*load.Schema{
		{
			Name:       "user",
			PrimaryKey: []string{"id"},
			Columns:    []*load.Column{idColumn(), {Key: "email", Type: field.TypeString}},
			ManyToMany: []*load.ManyToMany{{Name: "groups", Junction: "membership", Destination: "group"}},
		},
		membership,
		{
			Name:       "group",
			PrimaryKey: []string{"id"},
			Columns:    []*load.Column{idColumn(), {Key: "title", Type: field.TypeString}},
		},
	}
}

// friendship returns user(id) joined to itself through
// friendship(userId, friendId).
func friendship(declared bool) []*load.Schema {
	f := &load.Schema{
		Name:       "friendship",
		PrimaryKey: []string{"userId", "friendId"},
		Columns:    []*load.Column{fkColumn("userId", "user"), fkColumn("friendId", "user")},
	}
	if declared {
		f.Relations = []*load.Relation{
			one("user", "user", []string{"userId"}, []string{"id"}),
			one("friend", "user", []string{"friendId"}, []string{"id"}),
		}
	}
	return []*load.Schema{
		{
			Name:       "user",
			PrimaryKey: []string{"id"},
			Columns:    []*load.Column{idColumn()},
			ManyToMany: []*load.ManyToMany{{Name: "friends", Junction: "friendship", Destination: "user"}},
		},
		f,
	}
}

func mustGraph(t *testing.T, c *Config, schemas ...*load.Schema) *Graph {
	t.Helper()
	g, err := NewGraph(c, schemas...)
	require.NoError(t, err)
	return g
}

func mustEdge(t *testing.T, g *Graph, table, name string) *Edge {
	t.Helper()
	e, ok := g.Relationships.Edge(table, name)
	require.True(t, ok, "missing edge %s.%s", table, name)
	return e
}
