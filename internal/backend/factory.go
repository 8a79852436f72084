package backend

import (
	"context"
	"fmt"
	"log/slog"

	"gagebu/internal/amqp"
	"gagebu/internal/core"
	"gagebu/internal/ledger/memory"
	"gagebu/internal/ledger/sheets"
	"gagebu/internal/ledger/webapp"
	"gagebu/internal/services"
	"gagebu/internal/storage"
)

type DefaultFactory struct {
	logger *slog.Logger
}

func NewFactory(logger *slog.Logger) Factory {
	if logger == nil {
		logger = slog.Default()
	}
	return &DefaultFactory{logger: logger}
}

func (f *DefaultFactory) CreateBackend(ctx context.Context, config Config) (*BackendResult, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	switch config.Type {
	case MemoryBackend:
		return f.createMemoryBackend()
	case WebAppBackend:
		return f.createWebAppBackend(config)
	case SheetsBackend:
		return f.createSheetsBackend(ctx, config)
	case SQLiteBackend:
		return f.createSQLiteBackend(config)
	default:
		return nil, fmt.Errorf("unsupported backend type: %s", config.Type)
	}
}

func (f *DefaultFactory) createMemoryBackend() (*BackendResult, error) {
	f.logger.Info("Initialized memory backend")
	return &BackendResult{Backend: memory.NewSeeded()}, nil
}

func (f *DefaultFactory) createWebAppBackend(config Config) (*BackendResult, error) {
	client, err := webapp.New(config.WebAppURL, config.WebAppTimeout, core.NewDayNormalizer(config.Timezone))
	if err != nil {
		return nil, fmt.Errorf("initialize webapp client: %w", err)
	}

	f.logger.Info("Initialized webapp backend", "timeout", config.WebAppTimeout)
	return &BackendResult{Backend: client}, nil
}

func (f *DefaultFactory) createSheetsBackend(ctx context.Context, config Config) (*BackendResult, error) {
	client, err := sheets.New(ctx, sheets.Config{
		SpreadsheetID:     config.GoogleSpreadsheetID,
		TransactionsSheet: config.GoogleTransactionsSheet,
		AccountsSheet:     config.GoogleAccountsSheet,
		Normalizer:        core.NewDayNormalizer(config.Timezone),
	})
	if err != nil {
		return nil, fmt.Errorf("initialize Google Sheets client: %w", err)
	}

	f.logger.Info("Initialized Google Sheets backend",
		"spreadsheet_id", config.GoogleSpreadsheetID)
	return &BackendResult{Backend: client}, nil
}

func (f *DefaultFactory) createSQLiteBackend(config Config) (*BackendResult, error) {
	repo, err := storage.NewSQLiteRepository(config.SQLiteDBPath, core.NewDayNormalizer(config.Timezone))
	if err != nil {
		return nil, fmt.Errorf("initialize SQLite repository: %w", err)
	}

	// The broker is optional. Without it rows stay pending until the worker's
	// poll loop picks them up.
	var publisher services.SyncPublisher
	if config.AMQPURL != "" {
		amqpClient, err := amqp.NewClient(config.AMQPURL, config.AMQPExchange, config.AMQPQueue)
		if err != nil {
			f.logger.Warn("Failed to initialize AMQP client, continuing without sync", "error", err)
		} else {
			publisher = amqpClient
			f.logger.Info("Initialized AMQP client",
				"exchange", config.AMQPExchange,
				"queue", config.AMQPQueue)
		}
	}

	service := services.NewTransactionService(repo, publisher)

	f.logger.Info("Initialized SQLite backend",
		"db_path", config.SQLiteDBPath,
		"amqp_enabled", publisher != nil)

	return &BackendResult{
		Backend: service,
		Cleanup: service.Close,
	}, nil
}
