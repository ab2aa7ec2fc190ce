package gen

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/relgraph/schema/field"
)

func TestParseInclusion(t *testing.T) {
	inc, err := ParseInclusion(map[string]any{
		"user":  true,
		"audit": false,
		"post": map[string]any{
			"title": true,
			"body":  false,
			"slug":  map[string]any{"type": "string", "optional": true, "customType": "Slug"},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"audit", "post", "user"}, inc.Tables())

	assert.Equal(t, TableDefaultIncluded, inc.Table("user").Kind)
	assert.Equal(t, TableExcluded, inc.Table("audit").Kind)
	assert.Equal(t, TableExcluded, inc.Table("comment").Kind)
	assert.True(t, inc.Included("post"))
	assert.False(t, inc.Included("comment"))

	post := inc.Table("post")
	assert.Equal(t, TableOverridden, post.Kind)
	assert.Equal(t, ColumnIncluded, post.Column("title").Kind)
	assert.Equal(t, ColumnExcluded, post.Column("body").Kind)
	assert.Equal(t, ColumnExcluded, post.Column("unlisted").Kind)

	slug := post.Column("slug")
	require.Equal(t, ColumnOverridden, slug.Kind)
	require.NotNil(t, slug.Override)
	assert.Equal(t, field.ValueString, slug.Override.Type)
	require.NotNil(t, slug.Override.Optional)
	assert.True(t, *slug.Override.Optional)
	assert.Equal(t, "Slug", slug.Override.CustomType)

	assert.Equal(t, ColumnIncluded, inc.Table("user").Column("anything").Kind)
}

func TestParseInclusion_Nil(t *testing.T) {
	inc, err := ParseInclusion(nil)
	require.NoError(t, err)
	assert.Nil(t, inc)
	assert.Nil(t, inc.Tables())
	assert.Equal(t, TableDefaultIncluded, inc.Table("user").Kind)

	inc, err = ParseInclusion(map[string]any{})
	require.NoError(t, err)
	assert.False(t, inc.Included("user"), "an empty configuration excludes everything")
}

func TestParseInclusion_Errors(t *testing.T) {
	tests := []struct {
		name string
		raw  map[string]any
		path string
	}{
		{name: "table entry", raw: map[string]any{"user": "yes"}, path: "user"},
		{name: "column entry", raw: map[string]any{"user": map[string]any{"email": 1}}, path: "user.email"},
		{name: "override type", raw: map[string]any{"user": map[string]any{"email": map[string]any{"type": 1}}}, path: "user.email.type"},
		{name: "unknown value type", raw: map[string]any{"user": map[string]any{"email": map[string]any{"type": "date"}}}, path: "user.email.type"},
		{name: "override optional", raw: map[string]any{"user": map[string]any{"email": map[string]any{"optional": "no"}}}, path: "user.email.optional"},
		{name: "override custom type", raw: map[string]any{"user": map[string]any{"email": map[string]any{"customType": false}}}, path: "user.email.customType"},
		{name: "unknown attribute", raw: map[string]any{"user": map[string]any{"email": map[string]any{"nullable": true}}}, path: "user.email.nullable"},
		{name: "first sorted table", raw: map[string]any{"b": 1, "a": 2}, path: "a"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inc, err := ParseInclusion(tt.raw)
			require.Error(t, err)
			assert.Nil(t, inc)
			assert.ErrorIs(t, err, ErrInvalidConfigShape)
			var serr *InvalidConfigShapeError
			require.True(t, errors.As(err, &serr))
			assert.Equal(t, tt.path, serr.Path)
		})
	}
}

func TestInclusionCheck(t *testing.T) {
	t.Run("unknown table", func(t *testing.T) {
		c := &Config{Inclusion: mustInclusion(map[string]any{"person": true, "invoice": true})}
		_, err := NewGraph(c, personDocument()...)
		var uerr *UnresolvedTableReferenceError
		require.True(t, errors.As(err, &uerr))
		assert.Equal(t, RoleInclusion, uerr.Role)
		assert.Equal(t, "invoice", uerr.Ref)
		assert.Empty(t, uerr.Table)
	})
	t.Run("unknown column", func(t *testing.T) {
		c := &Config{Inclusion: mustInclusion(map[string]any{"person": map[string]any{"age": true}})}
		_, err := NewGraph(c, personDocument()...)
		var serr *InvalidConfigShapeError
		require.True(t, errors.As(err, &serr))
		assert.Equal(t, "person.age", serr.Path)
		assert.Equal(t, "unknown column", serr.Message)
	})
}
