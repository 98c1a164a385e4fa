// Package storage persists reservations and the summary display settings.
//
// Every backend implements Provider with the same semantics:
//
//   - a user holds at most one reservation and a slot is held by at most one
//     user; Insert enforces both and reports which one was violated;
//   - DisplayConfig is a single record, updated field by field (empty fields
//     in an update leave the stored value alone).
//
// Backends:
//
//   - Mongo: document store (collections "reservations" and "config");
//   - Files: a pair of JSON flat files in one directory;
//   - SQLite: single database file with UNIQUE constraints;
//   - Memory: process memory, for local runs and tests.
//
// Open picks a backend by name:
//
//	p, err := storage.Open(ctx, storage.Options{Backend: "file", Dir: "./data"})
//	if err != nil { log.Fatal(err) }
//	defer p.Close(ctx)
package storage
