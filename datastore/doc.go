/*
Package datastore defines the interfaces activerecord consumes from a storage provider.

A provider exposes tables, items and item streams through callbacks:

	type ConnectionProvider interface {
	    Table(name string) TableHandle
	}

	table := conn.Table("Entity")
	table.Item(storagemodels.String("1"), storagemodels.String("C1")).Get(onSnapshot, onError)
	table.Where(storagemodels.Equals("cap", storagemodels.String("rio"))).GetItems(onSnapshot, onError)

Failures are reported to ErrorFunc as three digit codes from the errors
package taxonomy, so callers decode them with errors.FromProvider.

Implementations:
  - mock: in-memory provider for tests
  - badgerstore: embedded provider backed by Badger
  - ddb: DynamoDB provider
*/
package datastore
