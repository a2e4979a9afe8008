/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

// Package badgerstore is an embedded storage provider backed by BadgerDB.
//
// Every table shares one database. An item lives under
//
//	<table> 0x00 <kind>:<primary key> 0x00 <kind>:<secondary key>
//
// where kind is S or N and numbers use their canonical text, so 1 and 1.0
// address the same item. Values are JSON documents holding the item's typed
// attributes. Scans iterate the table prefix in key order.
package badgerstore
