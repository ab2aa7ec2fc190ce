// Package gen resolves relational schemas into relationship graphs.
//
// This package turns loaded table descriptions (columns, primary keys,
// foreign keys and relation declarations) into per-column projections and a
// resolved, bidirectional relationship graph, packaged as one artifact for a
// client-side query engine.
//
// # Architecture
//
// The pipeline follows this flow:
//
//	Schema documents / atlas realms (compiler/load)
//	        ↓
//	   Table (normalized, immutable)
//	        ↓
//	   Project (per table column descriptors)
//	        ↓
//	   Resolve (one whole-schema pass)
//	        ↓
//	   Artifact (json or msgpack)
//
// # Key Types
//
//   - Graph: Tables, their projections and the resolved relationships
//   - Table: A table with its columns, primary key and declarations
//   - Relation: A direct relation declaration (One or Many)
//   - ManyToMany: A relation declared through a junction table
//   - Edge: A resolved relation, made of one or two hops
//   - Relationships: Table name to field name to edge, insertion ordered
//   - Config: Inclusion, casing and inference settings
//
// # Field Resolution
//
// A direct relation uses its explicit fields when it declares them. A tagged
// relation adopts, inverted, the fields of the declaration carrying the same
// tag on the target table. Otherwise the fields are inferred from a One
// declaration joining the same tables:
//
//	// document.owner declares the fields.
//	edge.One("owner", "person").Fields("ownerId").References("id")
//	// person.documents resolves to {[id] -> [ownerId], document}.
//	edge.Many("documents", "document")
//
// Many-to-many relations resolve each hop the same way, owner to junction
// and junction to destination. Foreign keys stand in for declarations when
// no declaration joins two tables.
//
// # Error Handling
//
// The package uses structured error types, each matching a sentinel:
//
//   - SchemaEmptyError: No tables
//   - SchemaError: Table definition errors
//   - MissingCounterRelationError: Unresolvable direct relation
//   - MissingJunctionRelationError: Unresolvable many-to-many hop
//   - AmbiguousRelationError: Several counterparts (strict inference)
//   - UnresolvedTableReferenceError: Unknown table or view misuse
//   - NamingConflictError: Relation named after a column
//   - DuplicateRelationshipError: Field resolved twice
//   - RelationFieldError: Unknown or mismatched relation fields
//   - InvalidConfigShapeError: Malformed inclusion configuration
//
// Example error handling:
//
//	graph, err := gen.NewGraph(config, schemas...)
//	if errors.Is(err, gen.ErrMissingCounterRelation) {
//	    // Declare the fields on one side of the relation.
//	}
//
// # Configuration
//
// Configuration is done via the functional options pattern:
//
//	config, err := gen.NewConfig(
//	    gen.WithCasing("snake"),
//	    gen.WithInclusionMap(doc.Include),
//	    gen.WithStrictInference(),
//	    gen.WithDiagnostics(diags),
//	)
package gen
