package backend

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"fintrack/internal/config"
)

// FromAppConfig converts the application config to backend config.
func FromAppConfig(appConfig *config.Config) (Config, error) {
	if appConfig == nil {
		return Config{}, fmt.Errorf("app config is nil")
	}

	backendType := BackendType(appConfig.DataBackend)
	if !backendType.IsValid() {
		return Config{}, fmt.Errorf("invalid backend type in config: %s", appConfig.DataBackend)
	}

	return Config{
		Type:         backendType,
		SQLiteDBPath: appConfig.SQLiteDBPath,
		AMQPURL:      appConfig.AMQPURL,
		AMQPExchange: appConfig.AMQPExchange,
		AMQPQueue:    appConfig.AMQPQueue,
	}, nil
}

func (c Config) Validate() error {
	if !c.Type.IsValid() {
		return fmt.Errorf("invalid backend type: %s", c.Type)
	}
	if c.Type == SQLiteBackend && c.SQLiteDBPath == "" {
		return fmt.Errorf("SQLite database path is required for sqlite backend")
	}
	if c.AMQPURL != "" && (c.AMQPExchange == "" || c.AMQPQueue == "") {
		return fmt.Errorf("AMQP exchange and queue are required when AMQP URL is set")
	}
	return nil
}

// GetBackendTypeStrings lists the accepted DATA_BACKEND values.
func GetBackendTypeStrings() []string {
	return []string{MemoryBackend.String(), SQLiteBackend.String()}
}

// ValidateAppConfig checks the backend selection of the application config
// and creates the SQLite database directory when it does not exist yet.
func ValidateAppConfig(appConfig *config.Config) error {
	valid := GetBackendTypeStrings()
	if !slices.Contains(valid, appConfig.DataBackend) {
		return fmt.Errorf("invalid data backend '%s': must be one of %v", appConfig.DataBackend, valid)
	}
	if BackendType(appConfig.DataBackend) != SQLiteBackend {
		return nil
	}
	if appConfig.SQLiteDBPath == "" {
		return fmt.Errorf("SQLite database path cannot be empty when using sqlite backend")
	}
	if dir := filepath.Dir(appConfig.SQLiteDBPath); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("cannot create SQLite database directory '%s': %w", dir, err)
		}
	}
	return nil
}
