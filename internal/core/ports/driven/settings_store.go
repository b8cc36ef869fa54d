package driven

import "github.com/custodia-labs/grimoire-cli/internal/core/domain"

// SettingsStore persists application settings.
// Implementations handle the storage format (e.g., TOML files) and
// environment-variable credential overrides.
type SettingsStore interface {
	// Load reads settings from storage. A missing store yields the
	// defaults, not an error.
	Load() (domain.Settings, error)

	// Save persists the settings.
	Save(settings domain.Settings) error

	// Path returns the backing location, for display.
	Path() string

	// DataDir returns the directory for persisted collections,
	// honouring the configured storage path.
	DataDir() (string, error)
}
