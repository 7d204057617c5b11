package domain

import (
	"errors"
	"fmt"
)

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested document, chunk or collection does
	// not exist.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists indicates a collection with that name is already
	// registered.
	ErrAlreadyExists = errors.New("already exists")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrProtectedCollection indicates an operation that would remove the
	// default collection.
	ErrProtectedCollection = errors.New("default collection cannot be deleted")

	// ErrEmbeddingUnavailable indicates the embedding service is not
	// configured. Vector/semantic search is disabled without embeddings.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// ErrLLMUnavailable indicates the LLM service is not configured.
	// Features requiring an LLM (chat, summarisation) are disabled.
	ErrLLMUnavailable = errors.New("LLM service unavailable")
)

// StorageError wraps a filesystem or serialization failure with enough
// context (operation, path) for the caller to decide what to do.
// Storage errors are never retried internally.
type StorageError struct {
	// Op is the failed operation, e.g. "write document".
	Op string

	// Path is the file or directory involved.
	Path string

	// Err is the underlying cause.
	Err error
}

// Error implements the error interface.
func (e *StorageError) Error() string {
	return fmt.Sprintf("storage: %s %s: %v", e.Op, e.Path, e.Err)
}

// Unwrap returns the underlying cause.
func (e *StorageError) Unwrap() error {
	return e.Err
}

// NewStorageError builds a StorageError.
func NewStorageError(op, path string, err error) *StorageError {
	return &StorageError{Op: op, Path: path, Err: err}
}
