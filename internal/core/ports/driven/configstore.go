package driven

// ConfigStore reads and writes application configuration.
// Implementations handle persistence (eg TOML files) and type conversion.
type ConfigStore interface {
	// Get retrieves a raw configuration value by key.
	// Returns the value and whether the key exists.
	Get(key string) (any, bool)

	// GetString returns a string value, or "" if unset or not a string.
	GetString(key string) string

	// GetInt returns an int value, or 0 if unset or not numeric.
	GetInt(key string) int

	// GetBool returns a bool value, or false if unset or not a bool.
	GetBool(key string) bool

	// GetStringSlice returns a string slice value, or nil if unset.
	GetStringSlice(key string) []string

	// Set stores a configuration value.
	// The value is persisted immediately.
	Set(key string, value any) error

	// Save persists the current configuration to storage.
	Save() error

	// Load re-reads configuration from the backing store.
	Load() error

	// Path returns the location of the backing store, for display.
	Path() string
}
