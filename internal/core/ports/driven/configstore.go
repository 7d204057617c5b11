package driven

// ConfigStore provides persistent key-value configuration.
type ConfigStore interface {
	// Get retrieves a raw configuration value by key.
	Get(key string) (any, bool)

	// GetString retrieves a string configuration value ("" when absent).
	GetString(key string) string

	// GetInt retrieves an integer configuration value (0 when absent).
	GetInt(key string) int

	// GetBool retrieves a boolean configuration value (false when absent).
	GetBool(key string) bool

	// Set stores a configuration value and persists immediately.
	Set(key string, value any) error

	// Delete removes a configuration value and persists immediately.
	Delete(key string) error
}
