package main

import (
	"context"
	"database/sql"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/relgraph/compiler/gen"
)

const schemaDoc = `
casing: snake
tables:
  - name: user
    primaryKey: [id]
    columns:
      - {key: id, type: int64}
      - {key: createdAt, type: time, default: true}
    manyToMany:
      - {name: groups, junction: membership, destination: group}
  - name: membership
    primaryKey: [userId, groupId]
    columns:
      - {key: userId, type: int64, foreignKey: {table: user, column: id}}
      - {key: groupId, type: int64, foreignKey: {table: group, column: id}}
  - name: group
    primaryKey: [id]
    columns:
      - {key: id, type: int64}
`

func writeSchema(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "schema.yaml")
	require.NoError(t, os.WriteFile(path, []byte(schemaDoc), 0o644))
	return path
}

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRun_Schema(t *testing.T) {
	out := t.TempDir()
	err := run(context.Background(), options{
		schema:   writeSchema(t),
		formats:  "json, msgpack",
		out:      out,
		basename: "schema",
	}, discard())
	require.NoError(t, err)

	for _, e := range []gen.Encoding{gen.EncodingJSON, gen.EncodingMsgpack} {
		f, err := os.Open(filepath.Join(out, "schema."+string(e)))
		require.NoError(t, err)
		a, err := gen.DecodeArtifact(f, e)
		f.Close()
		require.NoError(t, err)
		groups, ok := a.Relationships.Edge("user", "groups")
		require.True(t, ok)
		assert.Equal(t, "membership", groups.Junction())
		require.NotEmpty(t, a.Tables)
		created, ok := a.Tables[0].Column("createdAt")
		require.True(t, ok)
		assert.Equal(t, "created_at", created.ServerName)
	}
}

func TestRun_Include(t *testing.T) {
	dir := t.TempDir()
	include := filepath.Join(dir, "include.json")
	require.NoError(t, os.WriteFile(include, []byte(`{"include": {"user": true}}`), 0o644))

	out := filepath.Join(dir, "out")
	err := run(context.Background(), options{
		schema:   writeSchema(t),
		include:  include,
		formats:  "json",
		out:      out,
		basename: "app",
	}, discard())
	require.NoError(t, err)

	f, err := os.Open(filepath.Join(out, "app.json"))
	require.NoError(t, err)
	defer f.Close()
	a, err := gen.DecodeArtifact(f, gen.EncodingJSON)
	require.NoError(t, err)
	require.Len(t, a.Tables, 1)
	assert.Zero(t, a.Relationships.Len())
}

func TestRun_Database(t *testing.T) {
	dsn := "file:relgraph-cmd?mode=memory&cache=shared&_pragma=foreign_keys(1)"
	db, err := sql.Open("sqlite", dsn)
	require.NoError(t, err)
	defer db.Close()
	_, err = db.Exec(`
		CREATE TABLE person (id integer PRIMARY KEY, name text NOT NULL);
		CREATE TABLE document (
			id integer PRIMARY KEY,
			owner_id integer NOT NULL REFERENCES person (id),
			title text
		);`)
	require.NoError(t, err)

	out := t.TempDir()
	err = run(context.Background(), options{
		dsn:      dsn,
		dialect:  "sqlite",
		keys:     "camel",
		formats:  "json",
		out:      out,
		basename: "schema",
	}, discard())
	require.NoError(t, err)

	f, err := os.Open(filepath.Join(out, "schema.json"))
	require.NoError(t, err)
	defer f.Close()
	a, err := gen.DecodeArtifact(f, gen.EncodingJSON)
	require.NoError(t, err)
	e, ok := a.Relationships.Edge("document", "owner")
	require.True(t, ok)
	assert.Equal(t, []string{"ownerId"}, e.Hops[0].SourceFields)
	assert.Equal(t, "person", e.Dest())
}

func TestRun_Errors(t *testing.T) {
	tests := []struct {
		name   string
		opts   options
		errMsg string
	}{
		{name: "no input", opts: options{formats: "json"}, errMsg: "one of -schema or -dsn is required"},
		{name: "both inputs", opts: options{schema: "a.yaml", dsn: "b", formats: "json"}, errMsg: "mutually exclusive"},
		{name: "watch database", opts: options{dsn: "b", watch: true, formats: "json"}, errMsg: "-watch requires -schema"},
		{name: "encoding", opts: options{schema: "a.yaml", formats: "xml"}, errMsg: "unsupported encoding"},
		{name: "stdout", opts: options{schema: "a.yaml", formats: "json,msgpack"}, errMsg: "several encodings require -out"},
		{name: "dialect", opts: options{dsn: "b", dialect: "oracle", formats: "json"}, errMsg: "unsupported dialect"},
		{name: "key casing", opts: options{dsn: "file:relgraph-keys?mode=memory", dialect: "sqlite", keys: "kebab", formats: "json"}, errMsg: "unsupported key casing"},
		{name: "missing document", opts: options{schema: "missing.yaml", formats: "json"}, errMsg: "read document"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := run(context.Background(), tt.opts, discard())
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}
