package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "duty_rota_config.test.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestValidate_ValidConfig(t *testing.T) {
	cfg := &Config{
		DatabaseURL: "postgres://localhost/duty_rota",
		Scheduling: SchedulingConfig{
			JuniorMaxDuties:   2,
			JuniorDaysPerDuty: 15,
			TieBreak:          "roundrobin",
		},
		Blackouts: []Blackout{
			{EmployeeID: "emp-1", RRule: "FREQ=WEEKLY;BYDAY=TU", Reason: "Outpatient clinic"},
		},
		RotaSheetID:        "sheet123",
		GmailUserID:        "me",
		GmailSender:        "rota@example.com",
		ConflictRecipients: []string{"chief@example.com"},
		Server:             ServerConfig{Addr: ":9090"},
	}

	assert.NoError(t, Validate(cfg))
}

func TestValidate_MinimalConfig(t *testing.T) {
	assert.NoError(t, Validate(&Config{}))
}

func TestValidate_Errors(t *testing.T) {
	tests := []struct {
		name     string
		cfg      Config
		contains string
	}{
		{
			name:     "unknown tie-break",
			cfg:      Config{Scheduling: SchedulingConfig{TieBreak: "alphabetical"}},
			contains: "validation failed",
		},
		{
			name:     "negative junior cap",
			cfg:      Config{Scheduling: SchedulingConfig{JuniorMaxDuties: -1}},
			contains: "validation failed",
		},
		{
			name:     "blackout without employee",
			cfg:      Config{Blackouts: []Blackout{{RRule: "FREQ=WEEKLY;BYDAY=MO"}}},
			contains: "validation failed",
		},
		{
			name:     "blackout without rrule",
			cfg:      Config{Blackouts: []Blackout{{EmployeeID: "emp-1"}}},
			contains: "validation failed",
		},
		{
			name:     "invalid rrule",
			cfg:      Config{Blackouts: []Blackout{{EmployeeID: "emp-1", RRule: "INVALID_RRULE_SYNTAX"}}},
			contains: "invalid rrule in blackouts[0]",
		},
		{
			name:     "invalid recipient",
			cfg:      Config{GmailUserID: "me", ConflictRecipients: []string{"not-an-email"}},
			contains: "validation failed",
		},
		{
			name:     "recipients without gmail user",
			cfg:      Config{ConflictRecipients: []string{"chief@example.com"}},
			contains: "gmailUserID is required",
		},
		{
			name:     "invalid server address",
			cfg:      Config{Server: ServerConfig{Addr: "not an address"}},
			contains: "validation failed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(&tt.cfg)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.contains)
		})
	}
}

func TestLoadFromPath_ValidConfig(t *testing.T) {
	t.Setenv(DatabaseURLEnv, "")
	path := writeConfig(t, `
databaseURL: "postgres://localhost/duty_rota"
scheduling:
  juniorMaxDuties: 3
  tieBreak: first
  seed: 42
blackouts:
  - employeeID: "emp-1"
    rrule: "FREQ=WEEKLY;BYDAY=TU"
    reason: "Clinic"
rotaSheetID: "sheet123"
gmailUserID: "me"
conflictRecipients:
  - "chief@example.com"
`)

	cfg, err := LoadFromPath(path)
	require.NoError(t, err)

	assert.Equal(t, "postgres://localhost/duty_rota", cfg.DatabaseURL)
	assert.Empty(t, cfg.SQLitePath)
	assert.Equal(t, 3, cfg.Scheduling.JuniorMaxDuties)
	assert.Equal(t, "first", cfg.Scheduling.TieBreak)
	assert.Equal(t, uint64(42), cfg.Scheduling.Seed)
	require.Len(t, cfg.Blackouts, 1)
	assert.Equal(t, "emp-1", cfg.Blackouts[0].EmployeeID)
	assert.Equal(t, []string{"chief@example.com"}, cfg.ConflictRecipients)
	assert.Equal(t, DefaultServerAddr, cfg.Server.Addr)
}

func TestLoadFromPath_Defaults(t *testing.T) {
	t.Setenv(DatabaseURLEnv, "")
	path := writeConfig(t, "rotaSheetID: \"sheet123\"\n")

	cfg, err := LoadFromPath(path)
	require.NoError(t, err)

	assert.Empty(t, cfg.DatabaseURL)
	assert.Equal(t, DefaultSQLitePath, cfg.SQLitePath)
	assert.Equal(t, DefaultServerAddr, cfg.Server.Addr)
}

func TestLoadFromPath_DatabaseURLFromEnvironment(t *testing.T) {
	t.Setenv(DatabaseURLEnv, "postgres://env-host/duty_rota")
	path := writeConfig(t, "databaseURL: \"postgres://file-host/duty_rota\"\n")

	cfg, err := LoadFromPath(path)
	require.NoError(t, err)

	assert.Equal(t, "postgres://env-host/duty_rota", cfg.DatabaseURL)
	assert.Empty(t, cfg.SQLitePath)
}

func TestLoadFromPath_InvalidRRule(t *testing.T) {
	path := writeConfig(t, `
blackouts:
  - employeeID: "emp-1"
    rrule: "INVALID_RRULE_SYNTAX"
`)

	_, err := LoadFromPath(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid rrule")
}

func TestLoadFromPath_InvalidYAML(t *testing.T) {
	path := writeConfig(t, "scheduling: [unclosed\n")

	_, err := LoadFromPath(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse config file")
}

func TestLoadFromPath_FileNotFound(t *testing.T) {
	_, err := LoadFromPath("/nonexistent/path/config.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestLoadWithEnv_FromWorkingDirectory(t *testing.T) {
	t.Setenv(DatabaseURLEnv, "")
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "duty_rota_config.staging.yaml"), []byte("rotaSheetID: \"staging\"\n"), 0644))
	t.Chdir(dir)

	cfg, err := LoadWithEnv("staging")
	require.NoError(t, err)
	assert.Equal(t, "staging", cfg.RotaSheetID)
}

func TestLoadWithEnv_MissingFile(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("HOME", t.TempDir())

	_, err := LoadWithEnv("nowhere")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duty_rota_config.nowhere.yaml")
}
