// Package async adapts callback-driven storage operations into blocking,
// single-resolution futures.
//
// A RecordFuture carries the result of one fetch, save or delete. A
// CollectionFuture accumulates the records of a query until the provider
// signals the end of the stream. Both resolve at most once, invoke the
// registered callback synchronously on the resolving goroutine, and can be
// cancelled while still running.
package async
