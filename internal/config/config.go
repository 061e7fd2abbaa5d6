package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/teambition/rrule-go"
	"gopkg.in/yaml.v3"
)

// DatabaseURLEnv overrides the configured PostgreSQL connection string
const DatabaseURLEnv = "DUTY_ROTA_DATABASE_URL"

// Blackout marks recurring days an employee is never available (for example a weekly clinic)
type Blackout struct {
	EmployeeID string `yaml:"employeeID" validate:"required"`
	RRule      string `yaml:"rrule" validate:"required"`
	Reason     string `yaml:"reason,omitempty"`
}

// SchedulingConfig tunes schedule generation
type SchedulingConfig struct {
	JuniorMaxDuties   int    `yaml:"juniorMaxDuties,omitempty" validate:"omitempty,min=1"`
	JuniorDaysPerDuty int    `yaml:"juniorDaysPerDuty,omitempty" validate:"omitempty,min=1"`
	TieBreak          string `yaml:"tieBreak,omitempty" validate:"omitempty,oneof=random first roundrobin"`
	Seed              uint64 `yaml:"seed,omitempty"`
}

// ServerConfig configures the HTTP API
type ServerConfig struct {
	Addr string `yaml:"addr,omitempty" validate:"omitempty,hostname_port"`
}

// Config represents the application configuration
type Config struct {
	// DatabaseURL selects PostgreSQL; when empty the local SQLite file is used
	DatabaseURL string `yaml:"databaseURL,omitempty"`
	SQLitePath  string `yaml:"sqlitePath,omitempty"`

	Scheduling SchedulingConfig `yaml:"scheduling,omitempty"`
	Blackouts  []Blackout       `yaml:"blackouts,omitempty" validate:"dive"`

	RotaSheetID        string   `yaml:"rotaSheetID,omitempty"`
	GmailUserID        string   `yaml:"gmailUserID,omitempty"`
	GmailSender        string   `yaml:"gmailSender,omitempty" validate:"omitempty,email"`
	ConflictRecipients []string `yaml:"conflictRecipients,omitempty" validate:"omitempty,dive,email"`

	Server ServerConfig `yaml:"server,omitempty"`
}

// DefaultSQLitePath is used when neither a database URL nor a SQLite path is configured
const DefaultSQLitePath = "duty_rota.db"

// DefaultServerAddr is used when no server address is configured
const DefaultServerAddr = ":8080"

var validate *validator.Validate

func init() {
	validate = validator.New()
}

// LoadWithEnv loads and validates the configuration for an environment.
// For example, env="test" looks for "duty_rota_config.test.yaml".
// A .env file in the working directory is loaded first so it can set DUTY_ROTA_DATABASE_URL.
func LoadWithEnv(env string) (*Config, error) {
	_ = godotenv.Load()

	configPath, err := findConfigFile(env)
	if err != nil {
		return nil, fmt.Errorf("failed to find config file: %w", err)
	}

	return LoadFromPath(configPath)
}

// LoadFromPath loads and validates the configuration from a specific path
func LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	applyEnvOverrides(&cfg)
	applyDefaults(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate validates the configuration struct and checks rrule syntax
func Validate(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	for i, blackout := range cfg.Blackouts {
		if _, err := rrule.StrToRRule(blackout.RRule); err != nil {
			return fmt.Errorf("invalid rrule in blackouts[%d]: %w", i, err)
		}
	}

	if len(cfg.ConflictRecipients) > 0 && cfg.GmailUserID == "" {
		return fmt.Errorf("config validation failed: gmailUserID is required when conflictRecipients are set")
	}

	return nil
}

func applyEnvOverrides(cfg *Config) {
	if url := os.Getenv(DatabaseURLEnv); url != "" {
		cfg.DatabaseURL = url
	}
}

func applyDefaults(cfg *Config) {
	if cfg.DatabaseURL == "" && cfg.SQLitePath == "" {
		cfg.SQLitePath = DefaultSQLitePath
	}
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = DefaultServerAddr
	}
}

// findConfigFile searches for duty_rota_config.<env>.yaml in current directory and home directory
func findConfigFile(env string) (string, error) {
	configFileName := fmt.Sprintf("duty_rota_config.%s.yaml", env)

	// Check current directory
	if _, err := os.Stat(configFileName); err == nil {
		return configFileName, nil
	}

	// Check home directory
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	homeConfigPath := filepath.Join(homeDir, configFileName)
	if _, err := os.Stat(homeConfigPath); err == nil {
		return homeConfigPath, nil
	}

	return "", fmt.Errorf("config file %s not found in current directory or home directory", configFileName)
}
