package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/job-tracker/internal/config"
	"github.com/jonathan/job-tracker/internal/server"
	"github.com/jonathan/job-tracker/internal/types"
)

func clearTrackerEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"DATABASE_URL", "REDIS_URL", "EXPORT_DIR", "BACKUP_SCHEDULE", "BACKUP_FTP_URL", "TIMEZONE", "PORT"} {
		t.Setenv(key, "")
	}
}

func withConfigPath(t *testing.T, path string) {
	t.Helper()
	old := rootConfigPath
	rootConfigPath = path
	t.Cleanup(func() { rootConfigPath = old })
}

func TestLoadConfig_Precedence(t *testing.T) {
	clearTrackerEnv(t)
	t.Setenv("DATABASE_URL", "postgres://env/tracker")
	t.Setenv("EXPORT_DIR", "/tmp/env-exports")
	t.Setenv("PORT", "9000")

	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"database_url": "postgres://file/tracker", "timezone": "UTC"}`), 0644))
	withConfigPath(t, path)

	cfg, err := loadConfig(&cobra.Command{})
	require.NoError(t, err)

	assert.Equal(t, "postgres://file/tracker", cfg.DatabaseURL)
	assert.Equal(t, "/tmp/env-exports", cfg.ExportDir)
	assert.Equal(t, 9000, cfg.Port)
	assert.Equal(t, "UTC", cfg.Timezone)
}

func TestLoadConfig_FlagOverridesFile(t *testing.T) {
	clearTrackerEnv(t)

	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"database_url": "postgres://file/tracker"}`), 0644))
	withConfigPath(t, path)

	cmd := &cobra.Command{}
	var dbURL string
	cmd.Flags().StringVar(&dbURL, "db-url", "", "")
	require.NoError(t, cmd.Flags().Set("db-url", "postgres://flag/tracker"))

	old := rootDatabaseURL
	rootDatabaseURL = "postgres://flag/tracker"
	t.Cleanup(func() { rootDatabaseURL = old })

	cfg, err := loadConfig(cmd)
	require.NoError(t, err)
	assert.Equal(t, "postgres://flag/tracker", cfg.DatabaseURL)
	assert.Equal(t, config.DefaultPort, cfg.Port)
	assert.Equal(t, config.DefaultExportDir, cfg.ExportDir)
}

func TestLoadConfig_Errors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		clearTrackerEnv(t)
		withConfigPath(t, filepath.Join(t.TempDir(), "missing.json"))
		_, err := loadConfig(&cobra.Command{})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to load config")
	})

	t.Run("bad port", func(t *testing.T) {
		clearTrackerEnv(t)
		withConfigPath(t, "")
		t.Setenv("PORT", "eighty")
		_, err := loadConfig(&cobra.Command{})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid PORT")
	})

	t.Run("bad schedule", func(t *testing.T) {
		clearTrackerEnv(t)
		withConfigPath(t, "")
		t.Setenv("BACKUP_SCHEDULE", "every tuesday")
		_, err := loadConfig(&cobra.Command{})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "backup_schedule")
	})
}

func TestBuildListQuery(t *testing.T) {
	tests := []struct {
		name       string
		status     string
		company    string
		query      string
		sort       string
		wantStatus *types.ApplicationStatus
		wantSort   types.SortOption
		wantErr    string
	}{
		{name: "defaults", sort: "NEWEST", wantSort: types.SortNewest},
		{name: "status any case", status: "interview", sort: "company", wantStatus: statusPtr(types.StatusInterview), wantSort: types.SortCompany},
		{name: "unknown status", status: "HIRED", sort: "NEWEST", wantErr: "unknown status"},
		{name: "unknown sort", sort: "RANDOM", wantErr: "unknown sort option"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, err := buildListQuery(tt.status, tt.company, tt.query, tt.sort)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, q.Filter.Status)
			assert.Equal(t, tt.wantSort, q.Sort)
		})
	}
}

func TestBuildListQuery_CompanyAndSearch(t *testing.T) {
	q, err := buildListQuery("", "  ", "backend", "OLDEST")
	require.NoError(t, err)
	assert.Nil(t, q.Filter.Company)
	assert.Equal(t, "backend", q.Search)

	q, err = buildListQuery("", "Acme", "", "OLDEST")
	require.NoError(t, err)
	require.NotNil(t, q.Filter.Company)
	assert.Equal(t, "Acme", *q.Filter.Company)
}

func statusPtr(s types.ApplicationStatus) *types.ApplicationStatus { return &s }

func TestCommands_RejectBadInputBeforeConnecting(t *testing.T) {
	clearTrackerEnv(t)

	oldType, oldRange := backupType, statsRange
	t.Cleanup(func() { backupType, statsRange = oldType, oldRange })

	backupType = "FTP"
	err := runBackup(&cobra.Command{}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown backup type")

	statsRange = "decade"
	err = runStats(&cobra.Command{}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown date range")

	err = runShow(&cobra.Command{}, []string{"abc"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid application id")
}

func TestOpenApp_RequiresDatabaseURL(t *testing.T) {
	clearTrackerEnv(t)
	withConfigPath(t, "")

	_, err := openApp(t.Context(), &cobra.Command{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DATABASE_URL")
}

func TestTokenCommand(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret-key")
	t.Setenv("JWT_EXPIRATION_HOURS", "")

	old := tokenSubject
	tokenSubject = "alice"
	t.Cleanup(func() { tokenSubject = old })

	var out bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetOut(&out)
	require.NoError(t, runToken(cmd, nil))

	cfg, err := config.NewJWTConfig()
	require.NoError(t, err)
	claims, err := server.NewJWTService(cfg).ValidateToken(strings.TrimSpace(out.String()))
	require.NoError(t, err)
	assert.Equal(t, "alice", claims.Subject)
}

func TestTokenCommand_MissingSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	err := runToken(&cobra.Command{}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET")
}

func TestRootCommand_RegistersSubcommands(t *testing.T) {
	names := make(map[string]bool)
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"serve", "migrate", "list", "show", "stats", "export", "import", "backup", "snapshot", "restore", "token", "add"} {
		assert.True(t, names[want], "missing command %s", want)
	}
}

func TestBuildApplication(t *testing.T) {
	loc := time.UTC
	now := time.Date(2024, 7, 1, 15, 0, 0, 0, loc)

	t.Run("flags only", func(t *testing.T) {
		app, err := buildApplication(addInput{Company: "Acme", Title: "SRE", Date: "2024-06-20"}, nil, loc, now)
		require.NoError(t, err)
		assert.Equal(t, "Acme", app.CompanyName)
		assert.Equal(t, types.StatusApplied, app.Status)
		assert.Equal(t, types.Millis(time.Date(2024, 6, 20, 0, 0, 0, 0, loc)), app.ApplicationDate)
		assert.Nil(t, app.JobLink)
	})

	t.Run("flags override draft", func(t *testing.T) {
		draft := &types.JobApplication{
			CompanyName:     "Acme Robotics",
			JobTitle:        "Backend Engineer",
			Status:          types.StatusApplied,
			ApplicationDate: 1,
			JobDescription:  types.StringPtr("Build robots"),
		}
		app, err := buildApplication(addInput{Title: "Senior Backend Engineer", Status: "phone", Notes: "referral"}, draft, loc, now)
		require.NoError(t, err)
		assert.Equal(t, "Acme Robotics", app.CompanyName)
		assert.Equal(t, "Senior Backend Engineer", app.JobTitle)
		assert.Equal(t, types.StatusPhone, app.Status)
		assert.Equal(t, int64(1), app.ApplicationDate)
		assert.Equal(t, "Build robots", types.Deref(app.JobDescription))
		assert.Equal(t, "referral", types.Deref(app.Notes))
		assert.Equal(t, "Backend Engineer", draft.JobTitle)
	})

	t.Run("defaults to now", func(t *testing.T) {
		app, err := buildApplication(addInput{Company: "Acme", Title: "SRE"}, nil, loc, now)
		require.NoError(t, err)
		assert.Equal(t, types.Millis(now), app.ApplicationDate)
	})

	t.Run("bad status", func(t *testing.T) {
		_, err := buildApplication(addInput{Status: "HIRED"}, nil, loc, now)
		assert.ErrorContains(t, err, "unknown status")
	})

	t.Run("bad date", func(t *testing.T) {
		_, err := buildApplication(addInput{Date: "06/20/2024"}, nil, loc, now)
		assert.ErrorContains(t, err, "invalid --date")
	})
}

func TestAddCommand_FetchNeedsLink(t *testing.T) {
	oldFetch, oldLink := addFetch, addLink
	t.Cleanup(func() { addFetch, addLink = oldFetch, oldLink })

	addFetch, addLink = true, ""
	err := runAdd(&cobra.Command{}, nil)
	assert.ErrorContains(t, err, "--fetch needs --link")
}
