/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

/*
Package activerecord maps Go structs to items in a key-value storage service
and runs their lifecycle (fetch, save, delete, query) through futures that
turn the provider's callbacks into blocking results.

A record type embeds Persisted and describes its storage layout with an
explicit schema:

	type EntityRecord struct {
		activerecord.Persisted
		Cnes, Cap, Name string
	}

	func EntitySchema() *mapping.Schema[EntityRecord] {
		return mapping.NewSchema("Entity", func() *EntityRecord { return &EntityRecord{} }).
			Bind(
				mapping.Field("cnes", func(e *EntityRecord) *string { return &e.Cnes }, mapping.PrimaryKey()),
				mapping.Field("cap", func(e *EntityRecord) *string { return &e.Cap }, mapping.SecondaryKey()),
				mapping.Field("name", func(e *EntityRecord) *string { return &e.Name }),
			).
			MustBuild()
	}

	func init() { registry.Register(EntitySchema) }

A Store then runs operations against any datastore.ConnectionProvider:

	store, _ := activerecord.NewStore[EntityRecord](conn)

	rec := &EntityRecord{Cnes: "1", Cap: "C1", Name: "Rio"}
	if st := store.Save(rec).Get(); st.HasError() {
		return st.Err
	}

	found := store.Query().
		Where(storagemodels.Equals("cap", storagemodels.String("C1"))).
		Results().
		Get()

Every operation returns immediately. Callbacks passed with OnSuccess,
OnRecords and OnError run on the goroutine that resolves the future, before
any Get returns.

Failures surface as *errors.Error values carrying a source and type; use
errors.Is with errors.OfType to branch on them. Mapping problems never fail
an operation: the affected field is skipped and logged.

Subpackages:
  - mapping: schemas and the attribute mapper
  - async: record and collection futures
  - registry: the lazy process-wide schema cache
  - datastore: provider interfaces, with mock, badgerstore and ddb providers
  - connection, config, logger, metrics: process wiring
*/
package activerecord
