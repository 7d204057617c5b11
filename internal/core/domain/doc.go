// Package domain contains the core business entities and rules for Annex.
// It has no dependencies on infrastructure or adapters.
package domain
