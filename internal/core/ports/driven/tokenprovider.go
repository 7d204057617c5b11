package driven

import "context"

// TokenProvider supplies an API token for an external service, e.g. a
// GitHub personal access token read from configuration.
type TokenProvider interface {
	// GetToken returns the current token.
	GetToken(ctx context.Context) (string, error)
}
