package services

import (
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/Miladeb77/panelgenemapper/internal/core/domain"
	"github.com/Miladeb77/panelgenemapper/internal/core/ports/driven"
	"github.com/Miladeb77/panelgenemapper/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
const (
	KeyPanelAppURL      = "panelapp.server_url"
	KeyEnsemblURL       = "ensembl.server_url"
	KeyDataDir          = "storage.data_dir"
	KeyRetryAttempts    = "reconcile.retry_attempts"
	KeyRetryBackoff     = "reconcile.retry_backoff"
	KeySchedulerEnabled = "scheduler.enabled"
	KeyRefreshEnabled   = "scheduler.catalog_refresh.enabled"
	KeyRefreshInterval  = "scheduler.catalog_refresh.interval"
)

// Default endpoint and storage settings.
const (
	DefaultPanelAppURL = "https://panelapp.genomicsengland.co.uk/api/v1"
	DefaultEnsemblURL  = "https://rest.ensembl.org"
)

// settingsDefaults maps every known key to its default rendering. Keys not
// in this map are rejected by Set.
var settingsDefaults = map[string]string{
	KeyPanelAppURL:      DefaultPanelAppURL,
	KeyEnsemblURL:       DefaultEnsemblURL,
	KeyDataDir:          "",
	KeyRetryAttempts:    strconv.Itoa(DefaultRetryAttempts),
	KeyRetryBackoff:     DefaultRetryBackoff.String(),
	KeySchedulerEnabled: "true",
	KeyRefreshEnabled:   "true",
	KeyRefreshInterval:  (30 * 24 * time.Hour).String(),
}

// SettingsService manages application settings on top of the config store.
type SettingsService struct {
	configStore driven.ConfigStore
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore) *SettingsService {
	return &SettingsService{configStore: configStore}
}

// Get returns the stored value for a key, falling back to the default.
func (s *SettingsService) Get(key string) (string, error) {
	def, ok := settingsDefaults[key]
	if !ok {
		return "", fmt.Errorf("unknown settings key: %s", key)
	}
	if val := s.configStore.GetString(key); val != "" {
		return val, nil
	}
	return def, nil
}

// Set validates and persists a settings key.
func (s *SettingsService) Set(key, value string) error {
	if _, ok := settingsDefaults[key]; !ok {
		return fmt.Errorf("unknown settings key: %s", key)
	}
	if err := validateSetting(key, value); err != nil {
		return err
	}
	return s.configStore.Set(key, value)
}

// List returns every known key with its current (or default) value.
func (s *SettingsService) List() (map[string]string, error) {
	out := make(map[string]string, len(settingsDefaults))
	for key := range settingsDefaults {
		val, err := s.Get(key)
		if err != nil {
			return nil, err
		}
		out[key] = val
	}
	return out, nil
}

// validateSetting rejects values that would break the component reading the
// key later.
func validateSetting(key, value string) error {
	switch key {
	case KeyPanelAppURL, KeyEnsemblURL:
		u, err := url.Parse(value)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("%s must be an absolute URL", key)
		}
	case KeyRetryAttempts:
		n, err := strconv.Atoi(value)
		if err != nil || n < 1 {
			return fmt.Errorf("%s must be a positive integer", key)
		}
	case KeyRetryBackoff, KeyRefreshInterval:
		d, err := time.ParseDuration(value)
		if err != nil || d <= 0 {
			return fmt.Errorf("%s must be a positive duration, e.g. \"2s\" or \"720h\"", key)
		}
	case KeySchedulerEnabled, KeyRefreshEnabled:
		if _, err := strconv.ParseBool(value); err != nil {
			return fmt.Errorf("%s must be true or false", key)
		}
	}
	return nil
}

// PanelAppURL returns the configured PanelApp base URL.
func (s *SettingsService) PanelAppURL() string {
	val, _ := s.Get(KeyPanelAppURL)
	return val
}

// EnsemblURL returns the configured Ensembl REST base URL.
func (s *SettingsService) EnsemblURL() string {
	val, _ := s.Get(KeyEnsemblURL)
	return val
}

// DataDir returns the configured data directory, or "" for the default.
func (s *SettingsService) DataDir() string {
	return s.configStore.GetString(KeyDataDir)
}

// RetryPolicy returns the configured reconciliation retry policy.
func (s *SettingsService) RetryPolicy() (attempts int, backoff time.Duration) {
	attempts = DefaultRetryAttempts
	if val := s.configStore.GetString(KeyRetryAttempts); val != "" {
		if n, err := strconv.Atoi(val); err == nil && n > 0 {
			attempts = n
		}
	} else if n := s.configStore.GetInt(KeyRetryAttempts); n > 0 {
		attempts = n
	}

	backoff = DefaultRetryBackoff
	if val := s.configStore.GetString(KeyRetryBackoff); val != "" {
		if d, err := time.ParseDuration(val); err == nil && d > 0 {
			backoff = d
		}
	}
	return attempts, backoff
}

// GetSchedulerConfig returns the scheduler configuration.
// Returns default configuration if nothing is configured.
func (s *SettingsService) GetSchedulerConfig() domain.SchedulerConfig {
	defaults := domain.DefaultSchedulerConfig()

	// Master switch
	if enabled, ok := s.getConfigBool(KeySchedulerEnabled); ok {
		defaults.Enabled = enabled
	}

	taskCfg := defaults.TaskConfigs[domain.TaskIDCatalogRefresh]
	if enabled, ok := s.getConfigBool(KeyRefreshEnabled); ok {
		taskCfg.Enabled = enabled
	}
	if interval := s.configStore.GetString(KeyRefreshInterval); interval != "" {
		if d, err := time.ParseDuration(interval); err == nil && d > 0 {
			taskCfg.Interval = d
		}
	}
	defaults.TaskConfigs[domain.TaskIDCatalogRefresh] = taskCfg

	return defaults
}

// getConfigBool reads a boolean key that may be stored natively or as a
// string written through Set.
func (s *SettingsService) getConfigBool(key string) (bool, bool) {
	raw, exists := s.configStore.Get(key)
	if !exists {
		return false, false
	}
	switch v := raw.(type) {
	case bool:
		return v, true
	case string:
		if parsed, err := strconv.ParseBool(v); err == nil {
			return parsed, true
		}
	}
	return false, false
}
