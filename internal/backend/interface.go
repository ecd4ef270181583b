package backend

import (
	"context"

	"timeline/internal/tables"
)

// Backend represents a unified persistence backend: both logical tables
// behind one handle.
type Backend interface {
	tables.ActivityTable
	tables.CategoryTable
}

// CleanupFunc represents a cleanup function for resources
type CleanupFunc func() error

// BackendResult contains the backend instance and optional cleanup function
type BackendResult struct {
	Backend Backend
	Cleanup CleanupFunc
}

// Factory creates backends based on configuration
type Factory interface {
	CreateBackend(ctx context.Context, config Config) (*BackendResult, error)
}

// Config holds configuration for backend creation
type Config struct {
	// Backend type
	Type BackendType

	// Local file backend
	DataDirectory string

	// SQLite specific
	SQLiteDBPath string

	// Google Sheets specific
	GoogleSpreadsheetID   string
	GoogleActivitiesSheet string
	GoogleCategoriesSheet string
	GoogleCredentialsJSON string
	GoogleCredentialsFile string
}

// BackendType represents the type of backend
type BackendType string

const (
	LocalBackend  BackendType = "local"
	SheetsBackend BackendType = "sheets"
	SQLiteBackend BackendType = "sqlite"
)

// String implements fmt.Stringer
func (bt BackendType) String() string {
	return string(bt)
}

// IsValid returns true if the backend type is valid
func (bt BackendType) IsValid() bool {
	switch bt {
	case LocalBackend, SheetsBackend, SQLiteBackend:
		return true
	default:
		return false
	}
}
