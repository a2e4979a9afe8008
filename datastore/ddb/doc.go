/*
Package ddb is a storage provider backed by Amazon DynamoDB.

Each record table maps to one DynamoDB table. Key attribute names are read
once per table with DescribeTable, or supplied up front with WithKeySchema.

	p, err := ddb.NewFromConfig(ctx, cfg.Storage)
	store, err := activerecord.NewStore[EntityRecord](p)

String and number attributes map to S and N. Any other attribute type found
in a table is decoded and handed to the record as a JSON string, so items
written by other tools remain readable.

Calls that fail with throttling or capacity errors are retried with linear
backoff before the error callback runs.
*/
package ddb
