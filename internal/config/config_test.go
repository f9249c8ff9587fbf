package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jakechorley/cup-volunteers/pkg/core/model"
)

func validConfig() *Config {
	cfg := &Config{
		AdminPasscode: "ECC2026",
		Store: StoreConfig{
			Backend: "firebase",
			Firebase: FirebaseConfig{
				DatabaseURL: "https://elitecore-default-rtdb.firebaseio.com",
			},
		},
	}
	ApplyDefaults(cfg)
	return cfg
}

func TestValidate_ValidConfig(t *testing.T) {
	err := Validate(validConfig())
	assert.NoError(t, err)
}

func TestApplyDefaults(t *testing.T) {
	cfg := validConfig()

	assert.Equal(t, 15, cfg.Capacity)
	assert.Equal(t, "elitecore-cup-signups-v3", cfg.Store.RecordKey)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "Elite Core Cup", cfg.Event.Name)
	assert.Len(t, cfg.Event.Days, 2)
	assert.Equal(t, DefaultFlowTTL, cfg.FlowTTL())
	assert.Zero(t, cfg.RequestTimeout())
}

func TestValidate_MissingBackend(t *testing.T) {
	cfg := validConfig()
	cfg.Store.Backend = ""

	err := Validate(cfg)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "validation failed")
}

func TestValidate_UnknownBackend(t *testing.T) {
	cfg := validConfig()
	cfg.Store.Backend = "dynamo"

	err := Validate(cfg)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "validation failed")
}

func TestValidate_BackendSettingsRequired(t *testing.T) {
	tests := []struct {
		backend string
		want    string
	}{
		{"firebase", "databaseURL"},
		{"redis", "redis.addr"},
		{"postgres", "connString"},
	}

	for _, tt := range tests {
		t.Run(tt.backend, func(t *testing.T) {
			cfg := validConfig()
			cfg.Store = StoreConfig{Backend: tt.backend, RecordKey: DefaultRecordKey}

			err := Validate(cfg)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestValidate_MemoryBackendNeedsNothing(t *testing.T) {
	cfg := validConfig()
	cfg.Store = StoreConfig{Backend: "memory"}
	assert.NoError(t, Validate(cfg))
}

func TestApplyDefaults_SQLitePath(t *testing.T) {
	cfg := validConfig()
	cfg.Store = StoreConfig{Backend: "sqlite"}
	ApplyDefaults(cfg)

	assert.Equal(t, DefaultSQLitePath, cfg.Store.SQLite.Path)
	assert.NoError(t, Validate(cfg))
}

func TestValidate_InvalidDurations(t *testing.T) {
	cfg := validConfig()
	cfg.Store.RequestTimeout = "soon"
	err := Validate(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "store.requestTimeout")

	cfg = validConfig()
	cfg.Server.FlowTTL = "30m"
	require.NoError(t, Validate(cfg))
	assert.Equal(t, 30*time.Minute, cfg.FlowTTL())
}

func TestValidate_CSRFKeyLength(t *testing.T) {
	cfg := validConfig()
	cfg.Server.CSRFKey = "too-short"
	assert.Error(t, Validate(cfg))

	cfg.Server.CSRFKey = "0123456789abcdef0123456789abcdef"
	assert.NoError(t, Validate(cfg))
}

func TestValidate_ResendMailer(t *testing.T) {
	cfg := validConfig()
	assert.Equal(t, DefaultMailer, cfg.Roster.Mailer)

	cfg.Roster.Mailer = "resend"
	assert.ErrorContains(t, Validate(cfg), "resend")

	cfg.Roster.ResendAPIKey = "re_123"
	cfg.Roster.ResendFrom = "Cup Volunteers <volunteers@example.com>"
	assert.NoError(t, Validate(cfg))

	cfg.Roster.Mailer = "sendgrid"
	assert.Error(t, Validate(cfg))
}

func TestValidate_AdminPasscodeHash(t *testing.T) {
	cfg := validConfig()
	cfg.AdminPasscodeHash = "ECC2026"
	assert.ErrorContains(t, Validate(cfg), "adminPasscodeHash")

	hash, err := bcrypt.GenerateFromPassword([]byte("ECC2026"), bcrypt.MinCost)
	require.NoError(t, err)
	cfg.AdminPasscodeHash = string(hash)
	assert.NoError(t, Validate(cfg))
}

func TestValidate_EventDays(t *testing.T) {
	t.Run("duplicate day", func(t *testing.T) {
		cfg := validConfig()
		cfg.Event.Days[1].Day = "thursday"
		err := Validate(cfg)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "duplicate day")
	})

	t.Run("end before start", func(t *testing.T) {
		cfg := validConfig()
		cfg.Event.Days[0].End = "2026-02-26 16:00"
		err := Validate(cfg)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "end must be after start")
	})

	t.Run("bad time", func(t *testing.T) {
		cfg := validConfig()
		cfg.Event.Days[0].Start = "Feb 26 5pm"
		err := Validate(cfg)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid start")
	})

	t.Run("unknown timezone", func(t *testing.T) {
		cfg := validConfig()
		cfg.Event.Timezone = "Mars/Olympus"
		err := Validate(cfg)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unknown timezone")
	})

	t.Run("only one day", func(t *testing.T) {
		cfg := validConfig()
		cfg.Event.Days = cfg.Event.Days[:1]
		err := Validate(cfg)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "validation failed")
	})
}

func TestBuildEvent(t *testing.T) {
	cfg := validConfig()

	event, err := cfg.BuildEvent()
	require.NoError(t, err)

	thursday, ok := event.DayInfo(model.DayThursday)
	require.True(t, ok)
	assert.Equal(t, "SETUP", thursday.Role)
	assert.Equal(t, "2026-02-26T17:00:00-06:00", thursday.Start.Format(time.RFC3339))
	assert.Equal(t, "2026-02-26T21:00:00-06:00", thursday.End.Format(time.RFC3339))

	sunday, ok := event.DayInfo(model.DaySunday)
	require.True(t, ok)
	assert.Equal(t, "Sun, Mar 1", sunday.ShortLabel)
	assert.Equal(t, "Breaking down equipment & cleanup", sunday.Summary)
	assert.Equal(t, "Elite Core Gymnastics, 999 W Main St, West Dundee, IL 60118", event.Location())
}

func TestLoadFromPath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "volunteer_config.test.yaml")
	content := `
adminPasscode: from-file
capacity: 10
store:
  backend: redis
  redis:
    addr: localhost:6379
server:
  baseURL: https://volunteer.example.com
roster:
  spreadsheetID: sheet123
  tab: Volunteers
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := LoadFromPath(path)
	require.NoError(t, err)

	assert.Equal(t, "from-file", cfg.AdminPasscode)
	assert.Equal(t, 10, cfg.Capacity)
	assert.Equal(t, "redis", cfg.Store.Backend)
	assert.Equal(t, "cup:", cfg.Store.Redis.KeyPrefix)
	assert.Equal(t, "https://volunteer.example.com", cfg.Server.BaseURL)
	assert.Equal(t, "Elite Core Cup", cfg.Event.Name)
	assert.Equal(t, "sheet123", cfg.Roster.SpreadsheetID)
}

func TestLoadFromPath_EnvOverrides(t *testing.T) {
	t.Setenv("CUP_ADMIN_CODE", "from-env")
	t.Setenv("CUP_POSTGRES_URL", "postgres://localhost/cup")

	dir := t.TempDir()
	path := filepath.Join(dir, "volunteer_config.yaml")
	content := `
adminPasscode: from-file
store:
  backend: postgres
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := LoadFromPath(path)
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.AdminPasscode)
	assert.Equal(t, "postgres://localhost/cup", cfg.Store.Postgres.ConnString)
}

func TestLoadFromPath_InvalidYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "volunteer_config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("store: [unclosed"), 0644))

	_, err := LoadFromPath(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse config file")
}

func TestLoadFromPath_FileNotFound(t *testing.T) {
	_, err := LoadFromPath("/nonexistent/path/volunteer_config.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestLoadWithEnv_FindsFileInWorkingDirectory(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("HOME", dir)

	_, err := LoadWithEnv("staging")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "volunteer_config.staging.yaml not found")

	require.NoError(t, os.WriteFile("volunteer_config.staging.yaml", []byte("store:\n  backend: memory\n"), 0644))
	cfg, err := LoadWithEnv("staging")
	require.NoError(t, err)
	assert.Equal(t, "memory", cfg.Store.Backend)
}
