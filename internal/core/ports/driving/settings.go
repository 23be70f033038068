package driving

// SettingsService manages user-visible application settings.
type SettingsService interface {
	// Get returns the value for a settings key, or "" if unset.
	Get(key string) (string, error)

	// Set stores a settings key. Unknown keys are rejected.
	Set(key, value string) error

	// List returns all known keys and their current (or default) values.
	List() (map[string]string, error)
}
