package driving

import "github.com/custodia-labs/briefly-cli/internal/core/domain"

// SettingsService manages user-facing configuration.
type SettingsService interface {
	// Get returns the current settings, with defaults applied for
	// keys absent from the config file.
	Get() (domain.Settings, error)

	// Update validates and persists new settings.
	Update(s domain.Settings) error

	// Reset restores default settings.
	Reset() error
}
