package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_ValidJSON(t *testing.T) {
	content := `{
		"database_url": "postgres://localhost/tracker",
		"export_dir": "/var/backups/tracker",
		"backup_schedule": "0 3 * * *",
		"timezone": "Europe/Berlin",
		"port": 9090,
		"verbose": true
	}`

	tmpFile := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(tmpFile, []byte(content), 0644))

	cfg, err := LoadConfig(tmpFile)
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, "postgres://localhost/tracker", cfg.DatabaseURL)
	assert.Equal(t, "/var/backups/tracker", cfg.ExportDir)
	assert.Equal(t, "0 3 * * *", cfg.BackupSchedule)
	assert.Equal(t, "Europe/Berlin", cfg.Timezone)
	assert.Equal(t, 9090, cfg.Port)
	assert.True(t, cfg.Verbose)
}

func TestLoadConfig_InvalidJSON(t *testing.T) {
	tmpFile := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(tmpFile, []byte(`{ invalid json }`), 0644))

	cfg, err := LoadConfig(tmpFile)
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "failed to parse config JSON")
}

func TestLoadConfig_FileNotFound(t *testing.T) {
	cfg, err := LoadConfig("/nonexistent/path/config.json")
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestLoadConfig_EmptyPath(t *testing.T) {
	cfg, err := LoadConfig("")
	assert.Error(t, err)
	assert.Nil(t, cfg)
}

func TestFromEnv(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://env/tracker")
	t.Setenv("REDIS_URL", "redis://localhost:6379/0")
	t.Setenv("EXPORT_DIR", "/tmp/exports")
	t.Setenv("BACKUP_SCHEDULE", "@daily")
	t.Setenv("BACKUP_FTP_URL", "ftp://files.example.com/tracker")
	t.Setenv("TIMEZONE", "UTC")
	t.Setenv("PORT", "7000")

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, Config{
		DatabaseURL:    "postgres://env/tracker",
		RedisURL:       "redis://localhost:6379/0",
		ExportDir:      "/tmp/exports",
		BackupSchedule: "@daily",
		BackupFTPURL:   "ftp://files.example.com/tracker",
		Timezone:       "UTC",
		Port:           7000,
	}, cfg)

	t.Setenv("PORT", "eighty")
	_, err = FromEnv()
	assert.ErrorContains(t, err, "invalid PORT")
}

func TestValidate(t *testing.T) {
	file := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(file, nil, 0644))

	tests := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{name: "empty", cfg: Config{}},
		{name: "full", cfg: Config{Port: 8080, Timezone: "America/New_York", BackupSchedule: "*/30 * * * *", ExportDir: t.TempDir()}},
		{name: "missing export dir is created later", cfg: Config{ExportDir: filepath.Join(t.TempDir(), "new")}},
		{name: "bad port", cfg: Config{Port: 70000}, wantErr: "'port'"},
		{name: "bad timezone", cfg: Config{Timezone: "Mars/Olympus"}, wantErr: "unknown timezone"},
		{name: "bad schedule", cfg: Config{BackupSchedule: "every day"}, wantErr: "invalid backup_schedule"},
		{name: "ftp url", cfg: Config{BackupFTPURL: "ftp://u:p@files.example.com:2121/backups"}},
		{name: "bad ftp url", cfg: Config{BackupFTPURL: "https://files.example.com"}, wantErr: "backup_ftp_url"},
		{name: "export dir is a file", cfg: Config{ExportDir: file}, wantErr: "not a directory"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestMergeWithDefaults(t *testing.T) {
	cfg := Config{DatabaseURL: "postgres://flag", Port: 9000}
	defaults := Config{
		DatabaseURL: "postgres://file",
		RedisURL:    "redis://file",
		Timezone:    "UTC",
		Port:        8000,
	}

	merged := cfg.MergeWithDefaults(defaults)
	assert.Equal(t, "postgres://flag", merged.DatabaseURL)
	assert.Equal(t, "redis://file", merged.RedisURL)
	assert.Equal(t, "UTC", merged.Timezone)
	assert.Equal(t, 9000, merged.Port)
	assert.Equal(t, DefaultExportDir, merged.ExportDir)

	empty := (&Config{}).MergeWithDefaults(Config{})
	assert.Equal(t, DefaultPort, empty.Port)
}

func TestLocation(t *testing.T) {
	loc, err := (&Config{}).Location()
	require.NoError(t, err)
	assert.Equal(t, time.Local, loc)

	loc, err = (&Config{Timezone: "Asia/Tokyo"}).Location()
	require.NoError(t, err)
	assert.Equal(t, "Asia/Tokyo", loc.String())

	_, err = (&Config{Timezone: "Nowhere/Town"}).Location()
	assert.Error(t, err)
}
