package gen

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/syssam/relgraph/schema/edge"
)

func TestSchemaError(t *testing.T) {
	t.Run("Error message with all fields", func(t *testing.T) {
		cause := errors.New("underlying error")
		err := NewSchemaError("user", "email", "invalid format", cause)

		assert.Contains(t, err.Error(), "relgraph: schema error")
		assert.Contains(t, err.Error(), "table user")
		assert.Contains(t, err.Error(), "column email")
		assert.Contains(t, err.Error(), "invalid format")
		assert.Contains(t, err.Error(), "underlying error")
	})

	t.Run("Error message with table only", func(t *testing.T) {
		err := &SchemaError{Table: "user"}
		assert.Contains(t, err.Error(), "table user")
		assert.NotContains(t, err.Error(), "column")
	})

	t.Run("Unwrap returns cause", func(t *testing.T) {
		cause := errors.New("root cause")
		err := NewSchemaError("user", "", "", cause)

		assert.Equal(t, cause, err.Unwrap())
		assert.True(t, errors.Is(err, cause))
	})

	t.Run("Is matches ErrInvalidSchema", func(t *testing.T) {
		err := NewSchemaError("user", "", "", nil)
		assert.True(t, err.Is(ErrInvalidSchema))
	})

	t.Run("IsSchemaError helper", func(t *testing.T) {
		err := fmt.Errorf("wrapped: %w", NewSchemaError("user", "email", "test", nil))
		assert.True(t, IsSchemaError(err))
		assert.False(t, IsSchemaError(errors.New("other")))
	})
}

func TestConfigError(t *testing.T) {
	t.Run("Error message with value", func(t *testing.T) {
		err := NewConfigError("Casing", "kebab", "unsupported casing")

		assert.Contains(t, err.Error(), "relgraph: config error")
		assert.Contains(t, err.Error(), "Casing")
		assert.Contains(t, err.Error(), "kebab")
		assert.Contains(t, err.Error(), "unsupported casing")
	})

	t.Run("Error message without value", func(t *testing.T) {
		err := NewConfigError("Logger", nil, "logger cannot be nil")
		assert.NotContains(t, err.Error(), "value:")
	})

	t.Run("Is matches ErrInvalidConfig", func(t *testing.T) {
		err := NewConfigError("Logger", nil, "missing")
		assert.True(t, errors.Is(err, ErrInvalidConfig))
		assert.True(t, IsConfigError(err))
		assert.False(t, IsConfigError(errors.New("other")))
	})
}

func TestResolveErrors(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		sentinel error
		contains []string
	}{
		{
			name:     "schema empty",
			err:      &SchemaEmptyError{},
			sentinel: ErrSchemaEmpty,
			contains: []string{"no tables"},
		},
		{
			name:     "missing counter relation",
			err:      &MissingCounterRelationError{Table: "person", Field: "documents", Target: "document", Cardinality: edge.CardinalityOne},
			sentinel: ErrMissingCounterRelation,
			contains: []string{"person.documents", "one relation", `table "document"`, `targeting "person"`},
		},
		{
			name:     "missing named counter relation",
			err:      &MissingCounterRelationError{Table: "user", Field: "posts", Target: "post", RelationName: "author"},
			sentinel: ErrMissingCounterRelation,
			contains: []string{"user.posts", `named "author"`, `table "post"`},
		},
		{
			name:     "missing junction relation",
			err:      &MissingJunctionRelationError{Table: "user", Field: "groups", Junction: "membership", Hop: 2, From: "membership", To: "group"},
			sentinel: ErrMissingJunctionRelation,
			contains: []string{"user.groups", "hop 2", "membership -> group"},
		},
		{
			name:     "ambiguous relation",
			err:      &AmbiguousRelationError{Table: "user", Field: "posts", Candidates: []string{"post.author", "post.editor"}},
			sentinel: ErrAmbiguousRelation,
			contains: []string{"user.posts", "post.author, post.editor"},
		},
		{
			name:     "unresolved junction",
			err:      &UnresolvedTableReferenceError{Table: "user", Field: "groups", Role: RoleJunction, Ref: "membership"},
			sentinel: ErrUnresolvedTableReference,
			contains: []string{"user.groups", `junction table "membership" does not exist`},
		},
		{
			name:     "unresolved view",
			err:      &UnresolvedTableReferenceError{Table: "user", Field: "groups", Role: RoleDestination, Ref: "group_view", View: true},
			sentinel: ErrUnresolvedTableReference,
			contains: []string{`destination table "group_view" is a view`},
		},
		{
			name:     "unresolved inclusion",
			err:      &UnresolvedTableReferenceError{Role: RoleInclusion, Ref: "ghost"},
			sentinel: ErrUnresolvedTableReference,
			contains: []string{`inclusion table "ghost" does not exist`},
		},
		{
			name:     "naming conflict",
			err:      &NamingConflictError{Table: "document", Field: "ownerId"},
			sentinel: ErrNamingConflict,
			contains: []string{"document.ownerId", `column "ownerId"`},
		},
		{
			name:     "duplicate relationship",
			err:      &DuplicateRelationshipError{Table: "user", Field: "posts"},
			sentinel: ErrDuplicateRelationship,
			contains: []string{"user.posts", "more than once"},
		},
		{
			name:     "invalid config shape",
			err:      &InvalidConfigShapeError{Path: "user.email", Value: 1, Message: "expected a boolean or an object"},
			sentinel: ErrInvalidConfigShape,
			contains: []string{`"user.email"`, "value: 1", "expected a boolean"},
		},
		{
			name:     "relation fields",
			err:      &RelationFieldError{Table: "post", Field: "author", Message: `unknown column "authorId"`},
			sentinel: ErrInvalidRelationFields,
			contains: []string{"post.author", "authorId"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wrapped := fmt.Errorf("resolve: %w", tt.err)
			assert.ErrorIs(t, wrapped, tt.sentinel)
			for _, s := range tt.contains {
				assert.Contains(t, tt.err.Error(), s)
			}
		})
	}
}

func TestIsResolveError(t *testing.T) {
	assert.True(t, IsResolveError(&NamingConflictError{Table: "t", Field: "f"}))
	assert.True(t, IsResolveError(fmt.Errorf("x: %w", &MissingJunctionRelationError{})))
	assert.False(t, IsResolveError(NewSchemaError("t", "", "bad", nil)))
	assert.False(t, IsResolveError(&SchemaEmptyError{}))
	assert.False(t, IsResolveError(nil))
}
