/*
Package connection turns storage settings into a datastore.ConnectionProvider.

The built in providers are "memory" (the in-process mock), "badger" (an
embedded Badger database in Storage.DataDir, in memory when empty) and
"dynamodb". Others can be added with RegisterProvider before the first
Connection.Provider call that needs them.

	conn := connection.New(cfg.Storage)
	defer conn.Close()

	provider, err := conn.Provider(ctx)
	if err != nil {
		return err
	}
	entities, err := activerecord.NewStore[testmodels.EntityRecord](provider)
*/
package connection
