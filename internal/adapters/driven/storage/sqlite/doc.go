// Package sqlite persists chat sessions in a SQLite database.
// The schema is managed by embedded migrations applied at open.
package sqlite
