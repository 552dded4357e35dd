// Package storage owns the SQLite database shared by the recipe, bake, and
// auth stores.
//
// DB manages the connection, pragmas, and schema initialization. The Querier
// interface is satisfied by both *sql.DB and *sql.Tx so store code runs
// unchanged inside or outside a transaction; multi-statement writes always go
// through DB.InTx, which commits everything or rolls everything back.
//
// Treat this package as the single source of truth for schema semantics; when
// you add columns, update schema.sql and bump schemaVersion.
package storage
