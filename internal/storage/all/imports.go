// Package all wires the built-in storage backends into the storage factory.
//
// Importing it (as a blank import) runs the init functions of every backend,
// which register their factories and dialects. The kinds made available are
// "postgres", "mssql", "mysql" and "sqlite".
//
//	import _ "gallerymig/internal/storage/all"
//
// A binary that supports only a subset can import the backend packages it
// needs instead.
package all

import (
	_ "gallerymig/internal/storage/mssql"
	_ "gallerymig/internal/storage/mysql"
	_ "gallerymig/internal/storage/postgres"
	_ "gallerymig/internal/storage/sqlite"
)
