package gen

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/relgraph/compiler/load"
	"github.com/syssam/relgraph/schema/field"
)

func accountSchema() *load.Schema {
	return &load.Schema{
		Name:       "account",
		PrimaryKey: []string{"id"},
		Columns: []*load.Column{
			{Key: "id", Type: field.TypeInt64, Default: true},
			{Key: "email", Type: field.TypeString, CustomType: "Email"},
			{Key: "nickname", Type: field.TypeString, Nullable: true},
			{Key: "createdAt", Type: field.TypeTime, Default: true},
			{Key: "active", Type: field.TypeBool},
			{Key: "settings", Type: field.TypeJSON},
			{Key: "role", Type: field.TypeEnum, Enums: []string{"admin", "member"}},
			{Key: "avatar", Type: field.TypeBytes},
			{Key: "location", Raw: "geometry"},
		},
	}
}

func project(t *testing.T, c *Config, s *load.Schema) *TableDescriptor {
	t.Helper()
	tbl, err := NewTable(c, s)
	require.NoError(t, err)
	td, err := Project(c, tbl)
	require.NoError(t, err)
	return td
}

func TestProject_Default(t *testing.T) {
	diags := NewDiagnostics()
	td := project(t, &Config{Diagnostics: diags, Casing: CasingSnake}, accountSchema())
	require.NotNil(t, td)
	assert.Equal(t, "account", td.Name)
	assert.Equal(t, []string{"id"}, td.PrimaryKey)

	assert.Equal(t, []*ColumnDescriptor{
		{Key: "id", Type: field.ValueNumber},
		{Key: "email", Type: field.ValueString, CustomType: "Email"},
		{Key: "nickname", Type: field.ValueString, Optional: true},
		{Key: "createdAt", Type: field.ValueNumber, Optional: true, ServerName: "created_at"},
		{Key: "active", Type: field.ValueBoolean},
		{Key: "settings", Type: field.ValueJSON},
		{Key: "role", Type: field.ValueString},
	}, td.Columns)

	// Unsupported columns are dropped with one warning each.
	assert.Equal(t, 2, diags.Len())
	assert.True(t, diags.Has(DiagUnsupportedType, "account", "avatar"))
	assert.True(t, diags.Has(DiagUnsupportedType, "account", "location"))
	_, ok := td.Column("avatar")
	assert.False(t, ok)
}

func TestProject_Overridden(t *testing.T) {
	inc := mustInclusion(map[string]any{
		"account": map[string]any{
			"email":     map[string]any{"customType": "Address", "optional": true},
			"nickname":  map[string]any{"optional": false},
			"location":  map[string]any{"type": "json"},
			"id":        map[string]any{"optional": true},
			"settings":  false,
			"createdAt": true,
		},
	})
	diags := NewDiagnostics()
	td := project(t, &Config{Inclusion: inc, Diagnostics: diags}, accountSchema())
	require.NotNil(t, td)

	assert.Equal(t, []*ColumnDescriptor{
		{Key: "id", Type: field.ValueNumber},
		{Key: "email", Type: field.ValueString, Optional: true, CustomType: "Address"},
		{Key: "nickname", Type: field.ValueString},
		{Key: "createdAt", Type: field.ValueNumber, Optional: true},
		{Key: "location", Type: field.ValueJSON},
	}, td.Columns)
	assert.Zero(t, diags.Len())
}

func TestProject_PrimaryKeyAlwaysIncluded(t *testing.T) {
	inc := mustInclusion(map[string]any{"account": map[string]any{"email": true, "id": false}})
	td := project(t, &Config{Inclusion: inc}, accountSchema())
	require.Len(t, td.Columns, 2)
	assert.Equal(t, "id", td.Columns[0].Key)
	assert.False(t, td.Columns[0].Optional)
	assert.Equal(t, "email", td.Columns[1].Key)
}

func TestProject_ExcludedTable(t *testing.T) {
	c := &Config{Inclusion: mustInclusion(map[string]any{"person": true, "account": false})}
	tbl, err := NewTable(c, accountSchema())
	require.NoError(t, err)
	td, err := Project(c, tbl)
	require.NoError(t, err)
	assert.Nil(t, td)

	tbl.Name = "invoice"
	td, err = Project(c, tbl)
	require.NoError(t, err)
	assert.Nil(t, td, "tables absent from a configuration are excluded")
}

func TestProject_UnsupportedPrimaryKey(t *testing.T) {
	s := &load.Schema{
		Name:       "blob",
		PrimaryKey: []string{"hash"},
		Columns:    []*load.Column{{Key: "hash", Type: field.TypeBytes}},
	}
	c := &Config{}
	tbl, err := NewTable(c, s)
	require.NoError(t, err)
	_, err = Project(c, tbl)
	require.Error(t, err)
	assert.True(t, IsSchemaError(err))
	assert.Contains(t, err.Error(), "primary key has unsupported type bytes")

	// An override supplies the value type.
	c.Inclusion = mustInclusion(map[string]any{"blob": map[string]any{"hash": map[string]any{"type": "string"}}})
	td, err := Project(c, tbl)
	require.NoError(t, err)
	assert.Equal(t, []*ColumnDescriptor{{Key: "hash", Type: field.ValueString}}, td.Columns)
}

func TestProject_WarningLogged(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	c := &Config{Logger: logger, Diagnostics: NewDiagnostics()}
	tbl, err := NewTable(c, accountSchema())
	require.NoError(t, err)

	for range 2 {
		_, err = Project(c, tbl)
		require.NoError(t, err)
	}
	out := buf.String()
	assert.Contains(t, out, "level=WARN")
	assert.Contains(t, out, "code=unsupported-type")
	assert.Contains(t, out, "column=avatar")
	assert.Equal(t, 1, bytes.Count(buf.Bytes(), []byte("column=avatar")), "duplicate warnings are not logged")
}
