// Package edge provides fluent builders for declaring relationships between
// tables.
//
// A declaration is always one-sided: it is owned by one table and names the
// table it points to. The resolver in compiler/gen pairs declarations up and
// fills in the field lists that were left out.
//
// # Cardinality
//
//	// Document has one owner. Field lists are given explicitly.
//	edge.One("owner", "person").
//		Fields("ownerId").
//		References("id")
//
//	// Person has many documents. Field lists are inferred from the
//	// complementary One declaration on "document".
//	edge.Many("documents", "document")
//
// # Relation Names
//
// When more than one relationship connects the same pair of tables (or a table
// to itself), inference is ambiguous. A relation name ties the two sides
// together:
//
//	// on "post"
//	edge.One("author", "user").Fields("authorId").References("id").Relation("author")
//	edge.One("editor", "user").Fields("editorId").References("id").Relation("editor")
//
//	// on "user"
//	edge.Many("posts", "post").Relation("author")
//	edge.Many("edits", "post").Relation("editor")
//
// # Many-to-Many
//
// Through declares a two-hop relationship via a junction table. The short form
// names the tables only and lets the resolver infer both hops from the One
// declarations around the junction:
//
//	edge.Through("groups", "membership", "group")
//
// The explicit form supplies the field lists of either hop:
//
//	edge.Through("groups", "membership", "group").
//		JunctionFields([]string{"id"}, []string{"userId"}).
//		DestinationFields([]string{"groupId"}, []string{"id"})
package edge
