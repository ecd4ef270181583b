package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name        string
		config      Config
		wantErr     bool
		errorString string
	}{
		{
			name: "valid local backend config",
			config: Config{
				Port:          "8082",
				DataBackend:   "local",
				DataDirectory: "./data",
			},
			wantErr: false,
		},
		{
			name: "valid sqlite backend config",
			config: Config{
				Port:         "8082",
				DataBackend:  "sqlite",
				SQLiteDBPath: "./test.db",
			},
			wantErr: false,
		},
		{
			name: "invalid port - non-numeric",
			config: Config{
				Port:          "abc",
				DataBackend:   "local",
				DataDirectory: "./data",
			},
			wantErr:     true,
			errorString: "invalid port 'abc': must be a number",
		},
		{
			name: "invalid port - out of range",
			config: Config{
				Port:          "70000",
				DataBackend:   "local",
				DataDirectory: "./data",
			},
			wantErr:     true,
			errorString: "invalid port 70000: must be between 1 and 65535",
		},
		{
			name: "invalid backend",
			config: Config{
				Port:        "8082",
				DataBackend: "dropbox",
			},
			wantErr:     true,
			errorString: "invalid data backend 'dropbox'",
		},
		{
			name: "local backend without data directory",
			config: Config{
				Port:        "8082",
				DataBackend: "local",
			},
			wantErr:     true,
			errorString: "data directory cannot be empty",
		},
		{
			name: "sqlite backend without db path",
			config: Config{
				Port:        "8082",
				DataBackend: "sqlite",
			},
			wantErr:     true,
			errorString: "SQLite database path cannot be empty",
		},
		{
			name: "sheets backend without spreadsheet id",
			config: Config{
				Port:                  "8082",
				DataBackend:           "sheets",
				GoogleCredentialsJSON: "{}",
				GoogleActivitiesSheet: "Activities",
				GoogleCategoriesSheet: "Categories",
			},
			wantErr:     true,
			errorString: "Google Spreadsheet ID is required",
		},
		{
			name: "sheets backend without credentials",
			config: Config{
				Port:                  "8082",
				DataBackend:           "sheets",
				GoogleSpreadsheetID:   "sheet-id",
				GoogleActivitiesSheet: "Activities",
				GoogleCategoriesSheet: "Categories",
			},
			wantErr:     true,
			errorString: "GOOGLE_SERVICE_ACCOUNT_JSON or GOOGLE_SERVICE_ACCOUNT_FILE",
		},
		{
			name: "sheets backend with nonexistent credentials file",
			config: Config{
				Port:                  "8082",
				DataBackend:           "sheets",
				GoogleSpreadsheetID:   "sheet-id",
				GoogleCredentialsFile: "/nonexistent/creds.json",
				GoogleActivitiesSheet: "Activities",
				GoogleCategoriesSheet: "Categories",
			},
			wantErr:     true,
			errorString: "service account file does not exist",
		},
		{
			name: "sheets backend with empty worksheet names",
			config: Config{
				Port:                  "8082",
				DataBackend:           "sheets",
				GoogleSpreadsheetID:   "sheet-id",
				GoogleCredentialsJSON: "{}",
			},
			wantErr:     true,
			errorString: "worksheet names cannot be empty",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error containing %q, got nil", tt.errorString)
				}
				if !strings.Contains(err.Error(), tt.errorString) {
					t.Fatalf("error %q does not contain %q", err.Error(), tt.errorString)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestConfig_ValidateAccumulatesErrors(t *testing.T) {
	cfg := Config{
		Port:        "abc",
		DataBackend: "dropbox",
	}
	err := cfg.Validate()
	if err == nil {
		t.Fatalf("expected error")
	}
	msg := err.Error()
	if !strings.Contains(msg, "invalid port") || !strings.Contains(msg, "invalid data backend") {
		t.Fatalf("expected both errors reported, got %q", msg)
	}
}

func TestConfig_ValidateCreatesSQLiteDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested")
	cfg := Config{
		Port:         "8082",
		DataBackend:  "sqlite",
		SQLiteDBPath: filepath.Join(dir, "timeline.db"),
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
	if _, err := os.Stat(dir); err != nil {
		t.Fatalf("db directory not created: %v", err)
	}
}

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{
		"PORT", "DATA_BACKEND", "DATA_DIRECTORY", "SQLITE_DB_PATH",
		"GOOGLE_SPREADSHEET_ID", "GOOGLE_ACTIVITIES_SHEET_NAME", "GOOGLE_CATEGORIES_SHEET_NAME",
		"GOOGLE_SERVICE_ACCOUNT_JSON", "GOOGLE_SERVICE_ACCOUNT_FILE", "GOOGLE_APPLICATION_CREDENTIALS",
	} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}

	cfg := Load()
	if cfg.Port != "8082" {
		t.Fatalf("port default: %q", cfg.Port)
	}
	if cfg.DataBackend != "local" {
		t.Fatalf("backend default: %q", cfg.DataBackend)
	}
	if cfg.DataDirectory != "./data" {
		t.Fatalf("data directory default: %q", cfg.DataDirectory)
	}
	if cfg.GoogleActivitiesSheet != "Activities" || cfg.GoogleCategoriesSheet != "Categories" {
		t.Fatalf("worksheet defaults: %q %q", cfg.GoogleActivitiesSheet, cfg.GoogleCategoriesSheet)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("DATA_BACKEND", "sqlite")
	t.Setenv("SQLITE_DB_PATH", "/tmp/custom.db")

	cfg := Load()
	if cfg.Port != "9000" || cfg.DataBackend != "sqlite" || cfg.SQLiteDBPath != "/tmp/custom.db" {
		t.Fatalf("overrides not applied: %+v", cfg)
	}
}

func TestLoadCredentialsFileFallsBackToADC(t *testing.T) {
	t.Setenv("GOOGLE_SERVICE_ACCOUNT_FILE", "")
	os.Unsetenv("GOOGLE_SERVICE_ACCOUNT_FILE")
	t.Setenv("GOOGLE_APPLICATION_CREDENTIALS", "/adc/creds.json")

	cfg := Load()
	if cfg.GoogleCredentialsFile != "/adc/creds.json" {
		t.Fatalf("ADC fallback: %q", cfg.GoogleCredentialsFile)
	}
}
