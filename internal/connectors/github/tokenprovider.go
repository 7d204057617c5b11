package github

import (
	"context"

	"github.com/annex-labs/annex-cli/internal/core/domain"
	"github.com/annex-labs/annex-cli/internal/core/ports/driven"
)

// tokenKey is the config key holding the GitHub personal access token.
const tokenKey = "github.token"

// Ensure ConfigTokenProvider implements the interface.
var _ driven.TokenProvider = (*ConfigTokenProvider)(nil)

// ConfigTokenProvider reads the GitHub token from the config store on
// demand, so a token added after startup is picked up without restart.
type ConfigTokenProvider struct {
	config driven.ConfigStore
}

// NewConfigTokenProvider creates a token provider backed by the config
// store.
func NewConfigTokenProvider(config driven.ConfigStore) *ConfigTokenProvider {
	return &ConfigTokenProvider{config: config}
}

// GetToken returns the stored token, or domain.ErrNotFound when none is
// configured.
func (p *ConfigTokenProvider) GetToken(_ context.Context) (string, error) {
	token := p.config.GetString(tokenKey)
	if token == "" {
		return "", domain.ErrNotFound
	}
	return token, nil
}
