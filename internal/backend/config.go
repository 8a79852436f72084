package backend

import (
	"fmt"
	"time"

	"gagebu/internal/config"
)

// Config holds everything the factory needs to build any backend.
type Config struct {
	Type BackendType

	Timezone string

	// Remote web app endpoint
	WebAppURL     string
	WebAppTimeout time.Duration

	// Google Sheets API
	GoogleSpreadsheetID     string
	GoogleTransactionsSheet string
	GoogleAccountsSheet     string

	// SQLite plus its sync queue
	SQLiteDBPath string
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string
}

// FromAppConfig converts the application config to a backend config.
func FromAppConfig(appConfig *config.Config) (Config, error) {
	if appConfig == nil {
		return Config{}, fmt.Errorf("app config is nil")
	}

	backendType := BackendType(appConfig.DataBackend)
	if !backendType.IsValid() {
		return Config{}, fmt.Errorf("invalid backend type in config: %s", appConfig.DataBackend)
	}

	return Config{
		Type:     backendType,
		Timezone: appConfig.Timezone,

		WebAppURL:     appConfig.WebAppURL,
		WebAppTimeout: appConfig.WebAppTimeout,

		GoogleSpreadsheetID:     appConfig.GoogleSpreadsheetID,
		GoogleTransactionsSheet: appConfig.GoogleTransactionsSheet,
		GoogleAccountsSheet:     appConfig.GoogleAccountsSheet,

		SQLiteDBPath: appConfig.SQLiteDBPath,
		AMQPURL:      appConfig.AMQPURL,
		AMQPExchange: appConfig.AMQPExchange,
		AMQPQueue:    appConfig.AMQPQueue,
	}, nil
}

// Validate checks the fields the selected backend actually uses.
func (c Config) Validate() error {
	if !c.Type.IsValid() {
		return fmt.Errorf("invalid backend type: %s", c.Type)
	}

	switch c.Type {
	case WebAppBackend:
		if c.WebAppURL == "" {
			return fmt.Errorf("webapp URL is required for webapp backend")
		}
	case SheetsBackend:
		if c.GoogleSpreadsheetID == "" {
			return fmt.Errorf("Google Spreadsheet ID is required for sheets backend")
		}
	case SQLiteBackend:
		if c.SQLiteDBPath == "" {
			return fmt.Errorf("SQLite database path is required for sqlite backend")
		}
	case MemoryBackend:
		// Nothing to validate, the memory backend is self-contained.
	}

	return nil
}
