// Package normalisers converts raw file payloads into plain text for
// ingestion. Each subpackage handles one format family; Registry routes
// a file to its normaliser by extension.
package normalisers
