// Package services implements the application's business logic on top of
// the driven ports: collection lifecycle, document ingest, hybrid search
// and retrieval-augmented chat.
package services
