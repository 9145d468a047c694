package driven

// ConfigStore persists key-value configuration.
// Values are primitive types as parsed from the config file.
type ConfigStore interface {
	// Get retrieves a configuration value by key.
	Get(key string) (any, bool)

	// GetString retrieves a string value, empty when absent.
	GetString(key string) string

	// GetInt retrieves an integer value, zero when absent.
	GetInt(key string) int

	// GetFloat retrieves a float value, zero when absent.
	GetFloat(key string) float64

	// GetBool retrieves a boolean value, false when absent.
	GetBool(key string) bool

	// Set stores a configuration value.
	Set(key string, value any) error

	// Delete removes a configuration value.
	Delete(key string) error

	// Save persists all values to the backing file.
	Save() error

	// Load re-reads values from the backing file.
	Load() error
}
