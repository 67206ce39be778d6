package config

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/jakechorley/workshop/pkg/calendar"
	"github.com/jakechorley/workshop/pkg/core/booking"
)

// Defaults applied to optional fields before validation
const (
	DefaultStrategy         = booking.StrategyBaseline
	DefaultDatabaseDriver   = "sqlite"
	DefaultDatabaseDSN      = "workshop.db"
	DefaultSheetsTab        = "Submission"
	DefaultMetricsNamespace = "workshop"
)

// CalendarConfig defines the visiting days and their occupancy bounds
type CalendarConfig struct {
	Days         int `yaml:"days" validate:"min=1"`
	MinOccupancy int `yaml:"minOccupancy" validate:"min=0"`
	MaxOccupancy int `yaml:"maxOccupancy" validate:"gtefield=MinOccupancy"`

	// VisitRRule maps day numbers to dates, e.g. "DTSTART=20190916T000000Z;FREQ=DAILY;COUNT=100"
	VisitRRule string `yaml:"visitRRule,omitempty"`
}

// DatabaseConfig selects where scheduling runs are stored
type DatabaseConfig struct {
	Driver string `yaml:"driver" validate:"required,oneof=sqlite postgres"`
	DSN    string `yaml:"dsn" validate:"required"`
}

// SheetsConfig defines where submissions are published
type SheetsConfig struct {
	CredentialsFile string `yaml:"credentialsFile" validate:"required"`
	SpreadsheetID   string `yaml:"spreadsheetID" validate:"required"`
	Tab             string `yaml:"tab,omitempty"`
}

// MetricsConfig defines where run metrics are written
type MetricsConfig struct {
	// Textfile is a Prometheus textfile collector path; metrics are disabled when empty
	Textfile  string `yaml:"textfile,omitempty"`
	Namespace string `yaml:"namespace,omitempty"`
}

// Config represents the application configuration
type Config struct {
	DataPath    string         `yaml:"dataPath" validate:"required"`
	ResultsPath string         `yaml:"resultsPath" validate:"required"`
	Strategy    string         `yaml:"strategy,omitempty"`
	Calendar    CalendarConfig `yaml:"calendar"`
	Database    DatabaseConfig `yaml:"database"`
	Sheets      *SheetsConfig  `yaml:"sheets,omitempty"`
	Metrics     MetricsConfig  `yaml:"metrics,omitempty"`
}

// BookingCalendar returns the calendar bounds used by the scheduling engine
func (c *Config) BookingCalendar() booking.Calendar {
	return booking.Calendar{
		Days:         c.Calendar.Days,
		MinOccupancy: c.Calendar.MinOccupancy,
		MaxOccupancy: c.Calendar.MaxOccupancy,
	}
}

// VisitDates expands the visit rule, returning nil when no rule is configured
func (c *Config) VisitDates() (*calendar.VisitDates, error) {
	if c.Calendar.VisitRRule == "" {
		return nil, nil
	}
	return calendar.FromRRule(c.Calendar.VisitRRule, c.Calendar.Days)
}

var validate *validator.Validate

func init() {
	validate = validator.New()
}

// Load loads and validates the configuration from workshop_config.yaml
// It looks for the config file in the current directory first, then in the user's home directory
func Load() (*Config, error) {
	configPath, err := findConfigFile("workshop_config.yaml")
	if err != nil {
		return nil, fmt.Errorf("failed to find config file: %w", err)
	}

	return LoadFromPath(configPath)
}

// LoadWithEnv loads and validates the configuration from workshop_config.<env>.yaml
func LoadWithEnv(env string) (*Config, error) {
	if env == "" {
		return Load()
	}

	configPath, err := findConfigFile(fmt.Sprintf("workshop_config.%s.yaml", env))
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

	ApplyDefaults(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// ApplyDefaults fills optional fields left empty in the file
func ApplyDefaults(cfg *Config) {
	if cfg.Strategy == "" {
		cfg.Strategy = DefaultStrategy
	}

	if cfg.Calendar.Days == 0 {
		cfg.Calendar.Days = booking.DefaultDays
	}
	if cfg.Calendar.MinOccupancy == 0 && cfg.Calendar.MaxOccupancy == 0 {
		cfg.Calendar.MinOccupancy = booking.DefaultMinOccupancy
		cfg.Calendar.MaxOccupancy = booking.DefaultMaxOccupancy
	}

	if cfg.Database.Driver == "" {
		cfg.Database.Driver = DefaultDatabaseDriver
	}
	if cfg.Database.DSN == "" && cfg.Database.Driver == DefaultDatabaseDriver {
		cfg.Database.DSN = DefaultDatabaseDSN
	}

	if cfg.Sheets != nil && cfg.Sheets.Tab == "" {
		cfg.Sheets.Tab = DefaultSheetsTab
	}

	if cfg.Metrics.Namespace == "" {
		cfg.Metrics.Namespace = DefaultMetricsNamespace
	}
}

// Validate validates the configuration struct, the strategy name and the visit rule
func Validate(cfg *Config) error {
	// Run struct validation
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	if !slices.Contains(booking.StrategyNames(), cfg.Strategy) {
		return fmt.Errorf("unknown strategy %q, expected one of %v", cfg.Strategy, booking.StrategyNames())
	}

	if cfg.Calendar.VisitRRule != "" {
		if _, err := calendar.FromRRule(cfg.Calendar.VisitRRule, cfg.Calendar.Days); err != nil {
			return fmt.Errorf("invalid visitRRule: %w", err)
		}
	}

	return nil
}

// findConfigFile searches for the config file in current directory and home directory
func findConfigFile(configFileName string) (string, error) {
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

	return "", fmt.Errorf("%s not found in current directory or home directory", configFileName)
}
