/*
Package registry caches record schemas for activerecord.

Record packages register a schema builder, typically in an init function:

	func init() {
	    registry.Register(func() *mapping.Schema[EntityRecord] {
	        return mapping.NewSchema("Entity", newEntity).
	            PrimaryKey("cnes").
	            Bind(...).
	            MustBuild()
	    })
	}

The schema is built the first time it is looked up and reused afterwards:

	schema, err := registry.SchemaFor[EntityRecord]()

Two record types cannot share a table. The registry is safe for concurrent use.
*/
package registry
