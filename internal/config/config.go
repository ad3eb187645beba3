package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"

	"expense-tracker/internal/core"
	"expense-tracker/internal/log"
)

// AppName names the XDG sub-directories used for config and state files.
const AppName = "expense-tracker"

const (
	DefaultDBPath     = "expenses.db"
	DefaultExportPath = "expense_records.csv"
	DefaultBudget     = "5000"
	DefaultLogLevel   = "info"
)

type Config struct {
	// Database
	DBPath string `yaml:"db_path"`

	// CSV export target
	ExportPath string `yaml:"export_path"`

	// Budget used by the balance report, as a decimal amount
	Budget string `yaml:"budget"`

	// Logging
	LogLevel string `yaml:"log_level"`
	LogFile  string `yaml:"log_file"`

	// File the YAML layer was read from, empty if none
	Source string `yaml:"-"`
}

func defaults() *Config {
	return &Config{
		DBPath:     DefaultDBPath,
		ExportPath: DefaultExportPath,
		Budget:     DefaultBudget,
		LogLevel:   DefaultLogLevel,
		LogFile:    filepath.Join(xdg.StateHome, AppName, AppName+".log"),
	}
}

// Load builds the configuration from defaults, then the optional YAML file,
// then the environment.
func Load() (*Config, error) {
	cfg := defaults()

	path, err := configFile()
	if err != nil {
		return nil, err
	}
	if path != "" {
		if err := cfg.mergeFile(path); err != nil {
			return nil, err
		}
	}

	cfg.DBPath = getEnv("EXPENSES_DB_PATH", cfg.DBPath)
	cfg.ExportPath = getEnv("EXPENSES_EXPORT_PATH", cfg.ExportPath)
	cfg.Budget = getEnv("EXPENSES_BUDGET", cfg.Budget)
	cfg.LogLevel = getEnv("LOG_LEVEL", cfg.LogLevel)
	cfg.LogFile = getEnv("LOG_FILE", cfg.LogFile)

	return cfg, nil
}

// configFile returns EXPENSES_CONFIG when set, otherwise the XDG config
// file if it exists.
func configFile() (string, error) {
	if p := os.Getenv("EXPENSES_CONFIG"); p != "" {
		return p, nil
	}
	p, err := xdg.SearchConfigFile(filepath.Join(AppName, "config.yml"))
	if err != nil {
		// Absent file is normal.
		return "", nil
	}
	return p, nil
}

func (c *Config) mergeFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file %s: %w", path, err)
	}
	var fileCfg Config
	if err := yaml.Unmarshal(data, &fileCfg); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	if fileCfg.DBPath != "" {
		c.DBPath = fileCfg.DBPath
	}
	if fileCfg.ExportPath != "" {
		c.ExportPath = fileCfg.ExportPath
	}
	if fileCfg.Budget != "" {
		c.Budget = fileCfg.Budget
	}
	if fileCfg.LogLevel != "" {
		c.LogLevel = fileCfg.LogLevel
	}
	if fileCfg.LogFile != "" {
		c.LogFile = fileCfg.LogFile
	}
	c.Source = path
	return nil
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errs []string

	if strings.TrimSpace(c.DBPath) == "" {
		errs = append(errs, "database path cannot be empty")
	} else if c.DBPath == ":memory:" || strings.HasPrefix(c.DBPath, "file::memory:") {
		errs = append(errs, "in-memory database is not supported: records must persist to a file")
	}

	if strings.TrimSpace(c.ExportPath) == "" {
		errs = append(errs, "export path cannot be empty")
	}

	if _, err := c.BudgetAmount(); err != nil {
		errs = append(errs, fmt.Sprintf("invalid budget '%s': must be a positive decimal amount", c.Budget))
	}

	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, fmt.Sprintf("invalid log level '%s': must be one of debug, info, warn, error", c.LogLevel))
	}

	if strings.TrimSpace(c.LogFile) == "" {
		errs = append(errs, "log file cannot be empty")
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errs, "\n- "))
	}

	return nil
}

// BudgetAmount parses Budget into money.
func (c *Config) BudgetAmount() (core.Money, error) {
	cents, err := core.ParseDecimalToCents(c.Budget)
	if err != nil {
		return core.Money{}, errors.Join(fmt.Errorf("budget %q", c.Budget), err)
	}
	return core.Money{Cents: cents}, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
