// Package backend selects and builds the ledger store the server runs on.
package backend

import (
	"context"

	"gagebu/internal/ledger"
)

// Backend is the full store surface the HTTP layer needs.
type Backend = ledger.Store

// CleanupFunc releases backend resources on shutdown.
type CleanupFunc func() error

// BackendResult bundles a backend with its cleanup, nil when none is needed.
type BackendResult struct {
	Backend Backend
	Cleanup CleanupFunc
}

// Factory creates backends from configuration.
type Factory interface {
	CreateBackend(ctx context.Context, config Config) (*BackendResult, error)
}

// BackendType names one of the supported stores.
type BackendType string

const (
	MemoryBackend BackendType = "memory"
	WebAppBackend BackendType = "webapp"
	SheetsBackend BackendType = "sheets"
	SQLiteBackend BackendType = "sqlite"
)

func (bt BackendType) String() string { return string(bt) }

func (bt BackendType) IsValid() bool {
	switch bt {
	case MemoryBackend, WebAppBackend, SheetsBackend, SQLiteBackend:
		return true
	default:
		return false
	}
}

// BackendTypes returns all valid backend types.
func BackendTypes() []BackendType {
	return []BackendType{MemoryBackend, WebAppBackend, SheetsBackend, SQLiteBackend}
}
