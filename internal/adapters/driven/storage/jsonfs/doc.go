// Package jsonfs implements collection storage as plain JSON records on
// the filesystem.
//
// Layout under the base directory:
//
//	collections.json           registry (names + default collection)
//	<name>/metadata.json       per-collection counters and timestamps
//	<name>/documents/<id>.json one record per document
//	<name>/chunks/<id>.json    one record per chunk
//
// Records are written to a temp file and renamed into place so a crash
// never leaves a truncated record visible.
package jsonfs
