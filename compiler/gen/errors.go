package gen

import (
	"errors"
	"fmt"
	"strings"

	"github.com/syssam/relgraph/schema/edge"
)

// Sentinel errors for common failure cases.
var (
	// ErrSchemaEmpty indicates that no tables were given.
	ErrSchemaEmpty = errors.New("relgraph: schema is empty")
	// ErrInvalidSchema indicates a table definition error.
	ErrInvalidSchema = errors.New("relgraph: invalid schema")
	// ErrInvalidConfig indicates an option error.
	ErrInvalidConfig = errors.New("relgraph: invalid configuration")
	// ErrInvalidConfigShape indicates a malformed inclusion configuration entry.
	ErrInvalidConfigShape = errors.New("relgraph: invalid inclusion configuration")
	// ErrMissingCounterRelation indicates a direct relation whose fields could not be resolved.
	ErrMissingCounterRelation = errors.New("relgraph: missing counter relation")
	// ErrMissingJunctionRelation indicates a many-to-many hop whose fields could not be resolved.
	ErrMissingJunctionRelation = errors.New("relgraph: missing junction relation")
	// ErrAmbiguousRelation indicates more than one candidate counterpart.
	ErrAmbiguousRelation = errors.New("relgraph: ambiguous relation")
	// ErrUnresolvedTableReference indicates a reference to an unknown table.
	ErrUnresolvedTableReference = errors.New("relgraph: unresolved table reference")
	// ErrNamingConflict indicates a relation named after a column.
	ErrNamingConflict = errors.New("relgraph: naming conflict")
	// ErrDuplicateRelationship indicates two declarations resolving to the same field.
	ErrDuplicateRelationship = errors.New("relgraph: duplicate relationship")
	// ErrInvalidRelationFields indicates unknown or mismatched relation field lists.
	ErrInvalidRelationFields = errors.New("relgraph: invalid relation fields")
)

// SchemaEmptyError is returned when resolution is invoked without tables.
type SchemaEmptyError struct{}

// Error implements the error interface.
func (*SchemaEmptyError) Error() string { return "relgraph: schema has no tables" }

// Is reports whether the target matches the sentinel error for SchemaEmptyError.
func (*SchemaEmptyError) Is(target error) bool { return target == ErrSchemaEmpty }

// SchemaError represents a table definition error.
type SchemaError struct {
	Table   string
	Column  string // Column key (if applicable)
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *SchemaError) Error() string {
	var b strings.Builder
	b.WriteString("relgraph: schema error")
	if e.Table != "" {
		b.WriteString(" on table ")
		b.WriteString(e.Table)
	}
	if e.Column != "" {
		b.WriteString(" column ")
		b.WriteString(e.Column)
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	return b.String()
}

// Unwrap returns the underlying error.
func (e *SchemaError) Unwrap() error {
	return e.Cause
}

// Is reports whether the target matches the sentinel error for SchemaError.
func (e *SchemaError) Is(target error) bool {
	return target == ErrInvalidSchema
}

// NewSchemaError creates a new SchemaError.
func NewSchemaError(table, column, message string, cause error) *SchemaError {
	return &SchemaError{
		Table:   table,
		Column:  column,
		Message: message,
		Cause:   cause,
	}
}

// ConfigError represents an option error.
type ConfigError struct {
	Option  string
	Value   any
	Message string
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	if e.Value != nil {
		return fmt.Sprintf("relgraph: config error for %q (value: %v): %s", e.Option, e.Value, e.Message)
	}
	return fmt.Sprintf("relgraph: config error for %q: %s", e.Option, e.Message)
}

// Is reports whether the target matches the sentinel error for ConfigError.
func (e *ConfigError) Is(target error) bool {
	return target == ErrInvalidConfig
}

// NewConfigError creates a new ConfigError.
func NewConfigError(option string, value any, message string) *ConfigError {
	return &ConfigError{
		Option:  option,
		Value:   value,
		Message: message,
	}
}

// InvalidConfigShapeError reports a malformed inclusion configuration entry.
// Path is the dotted location of the entry, for example "user.email".
type InvalidConfigShapeError struct {
	Path    string
	Value   any
	Message string
}

// Error implements the error interface.
func (e *InvalidConfigShapeError) Error() string {
	if e.Value != nil {
		return fmt.Sprintf("relgraph: invalid inclusion entry %q (value: %v): %s", e.Path, e.Value, e.Message)
	}
	return fmt.Sprintf("relgraph: invalid inclusion entry %q: %s", e.Path, e.Message)
}

// Is reports whether the target matches the sentinel error for InvalidConfigShapeError.
func (e *InvalidConfigShapeError) Is(target error) bool {
	return target == ErrInvalidConfigShape
}

// MissingCounterRelationError is returned when a direct relation declares no
// fields and no counterpart declaration supplies them.
type MissingCounterRelationError struct {
	Table  string // Owner table.
	Field  string // Relation field name.
	Target string // Table expected to hold the counterpart.
	// Cardinality expected for the counterpart declaration.
	Cardinality edge.Cardinality
	// RelationName is the disambiguating tag, if the declaration carries one.
	RelationName string
}

// Error implements the error interface.
func (e *MissingCounterRelationError) Error() string {
	if e.RelationName != "" {
		return fmt.Sprintf("relgraph: relation %s.%s: expected a relation named %q on table %q targeting %q with explicit fields",
			e.Table, e.Field, e.RelationName, e.Target, e.Table)
	}
	return fmt.Sprintf("relgraph: relation %s.%s: expected a %s relation on table %q targeting %q with explicit fields",
		e.Table, e.Field, e.Cardinality, e.Target, e.Table)
}

// Is reports whether the target matches the sentinel error for MissingCounterRelationError.
func (e *MissingCounterRelationError) Is(target error) bool {
	return target == ErrMissingCounterRelation
}

// MissingJunctionRelationError is returned when a hop of a many-to-many
// relation cannot be field-resolved.
type MissingJunctionRelationError struct {
	Table    string // Owner table.
	Field    string // Relation field name.
	Junction string
	Hop      int    // 1 for owner to junction, 2 for junction to destination.
	From, To string // Tables joined by the hop.
}

// Error implements the error interface.
func (e *MissingJunctionRelationError) Error() string {
	return fmt.Sprintf("relgraph: many-to-many relation %s.%s: cannot resolve hop %d (%s -> %s) through junction %q: no relation with explicit fields joins them",
		e.Table, e.Field, e.Hop, e.From, e.To, e.Junction)
}

// Is reports whether the target matches the sentinel error for MissingJunctionRelationError.
func (e *MissingJunctionRelationError) Is(target error) bool {
	return target == ErrMissingJunctionRelation
}

// AmbiguousRelationError is returned when more than one declaration could
// supply the fields of a relation and inference is strict.
type AmbiguousRelationError struct {
	Table      string
	Field      string
	Candidates []string // Qualified names of the candidate declarations.
}

// Error implements the error interface.
func (e *AmbiguousRelationError) Error() string {
	return fmt.Sprintf("relgraph: relation %s.%s is ambiguous: candidates %s",
		e.Table, e.Field, strings.Join(e.Candidates, ", "))
}

// Is reports whether the target matches the sentinel error for AmbiguousRelationError.
func (e *AmbiguousRelationError) Is(target error) bool {
	return target == ErrAmbiguousRelation
}

// Table roles reported by UnresolvedTableReferenceError.
const (
	RoleSource      = "source"
	RoleJunction    = "junction"
	RoleDestination = "destination"
	RoleTarget      = "target"
	RoleInclusion   = "inclusion"
)

// UnresolvedTableReferenceError is returned when a declaration or the
// inclusion configuration names a table that does not exist, or names a view
// where a table is required.
type UnresolvedTableReferenceError struct {
	Table string // Referencing table; empty for the inclusion configuration.
	Field string
	Role  string // One of the Role constants.
	Ref   string // Referenced table name.
	View  bool   // Ref exists but is a view.
}

// Error implements the error interface.
func (e *UnresolvedTableReferenceError) Error() string {
	reason := "does not exist"
	if e.View {
		reason = "is a view"
	}
	if e.Table == "" {
		return fmt.Sprintf("relgraph: %s table %q %s", e.Role, e.Ref, reason)
	}
	return fmt.Sprintf("relgraph: relation %s.%s: %s table %q %s", e.Table, e.Field, e.Role, e.Ref, reason)
}

// Is reports whether the target matches the sentinel error for UnresolvedTableReferenceError.
func (e *UnresolvedTableReferenceError) Is(target error) bool {
	return target == ErrUnresolvedTableReference
}

// NamingConflictError is returned when a relation field is named after a
// column of its owner table.
type NamingConflictError struct {
	Table string
	Field string
}

// Error implements the error interface.
func (e *NamingConflictError) Error() string {
	return fmt.Sprintf("relgraph: relation %s.%s conflicts with column %q of table %q", e.Table, e.Field, e.Field, e.Table)
}

// Is reports whether the target matches the sentinel error for NamingConflictError.
func (e *NamingConflictError) Is(target error) bool {
	return target == ErrNamingConflict
}

// DuplicateRelationshipError is returned when two declarations resolve to the
// same field of the same table.
type DuplicateRelationshipError struct {
	Table string
	Field string
}

// Error implements the error interface.
func (e *DuplicateRelationshipError) Error() string {
	return fmt.Sprintf("relgraph: relation %s.%s is declared more than once", e.Table, e.Field)
}

// Is reports whether the target matches the sentinel error for DuplicateRelationshipError.
func (e *DuplicateRelationshipError) Is(target error) bool {
	return target == ErrDuplicateRelationship
}

// RelationFieldError is returned when relation field lists reference unknown
// columns or have mismatched lengths.
type RelationFieldError struct {
	Table   string
	Field   string
	Message string
}

// Error implements the error interface.
func (e *RelationFieldError) Error() string {
	return fmt.Sprintf("relgraph: relation %s.%s: %s", e.Table, e.Field, e.Message)
}

// Is reports whether the target matches the sentinel error for RelationFieldError.
func (e *RelationFieldError) Is(target error) bool {
	return target == ErrInvalidRelationFields
}

// IsSchemaError reports whether the error is a SchemaError.
func IsSchemaError(err error) bool {
	var schemaErr *SchemaError
	return errors.As(err, &schemaErr)
}

// IsConfigError reports whether the error is a ConfigError.
func IsConfigError(err error) bool {
	var configErr *ConfigError
	return errors.As(err, &configErr)
}

// IsResolveError reports whether the error was raised by relationship
// resolution, as opposed to schema or option validation.
func IsResolveError(err error) bool {
	for _, target := range []error{
		ErrMissingCounterRelation,
		ErrMissingJunctionRelation,
		ErrAmbiguousRelation,
		ErrUnresolvedTableReference,
		ErrNamingConflict,
		ErrDuplicateRelationship,
		ErrInvalidRelationFields,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
