// =============================================================================
// basketminer - Configuration Module
// =============================================================================
//
// This module is responsible for loading the run configuration. Every constant
// of the analysis (file names, column names, thresholds, result size) lives here
// so that a run can be reproduced from a single YAML file.
//
// PRECEDENCE (lowest to highest):
//   1. Built-in defaults (Default)
//   2. YAML configuration file (config.yaml unless --config is given)
//   3. Environment variables prefixed with BASKETMINER_
//   4. Command line flags (applied by the cmd package)
//
// Validation runs last, after every layer has been applied.
//
// =============================================================================

package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// EnvPrefix is the prefix for environment variable overrides.
// Example: BASKETMINER_MINING_MIN_SUPPORT=0.03
const EnvPrefix = "BASKETMINER"

// =============================================================================
// CONFIGURATION STRUCTURE
// =============================================================================

// Config holds the complete run configuration.
type Config struct {
	Input   InputConfig   `yaml:"input"`
	Filter  FilterConfig  `yaml:"filter"`
	Mining  MiningConfig  `yaml:"mining"`
	Output  OutputConfig  `yaml:"output"`
	Logging LoggingConfig `yaml:"logging"`
}

// InputConfig describes the transaction spreadsheet.
type InputConfig struct {
	// Path is the transaction file. Workbooks (.xlsx, .xlsm) and CSV exports
	// (.csv) are accepted.
	// Default: "online_retail_2.xlsx"
	Path string `yaml:"path" split_words:"true" validate:"required"`

	// Sheet is the worksheet to read. Empty means the first sheet.
	Sheet string `yaml:"sheet" split_words:"true"`

	// Column headers of the four fields the analysis needs.
	InvoiceColumn     string `yaml:"invoice_column" split_words:"true" validate:"required"`
	DescriptionColumn string `yaml:"description_column" split_words:"true" validate:"required"`
	QuantityColumn    string `yaml:"quantity_column" split_words:"true" validate:"required"`
	PriceColumn       string `yaml:"price_column" split_words:"true" validate:"required"`
}

// FilterConfig holds the row filter thresholds.
type FilterConfig struct {
	// MinQuantity is the bulk-purchase threshold. Rows must also have a
	// positive quantity, which this threshold normally subsumes.
	// Default: 1000
	MinQuantity int64 `yaml:"min_quantity" split_words:"true" validate:"gte=0"`
}

// MiningConfig holds the frequent itemset parameters.
type MiningConfig struct {
	// MinSupport is the minimum fraction of transactions an itemset must
	// appear in.
	// Default: 0.022
	MinSupport float64 `yaml:"min_support" split_words:"true" validate:"gt=0,lte=1"`

	// ItemsetSize is the exact number of items in a reported association.
	// Default: 3
	ItemsetSize int `yaml:"itemset_size" split_words:"true" validate:"gte=1"`

	// TopN is the number of associations printed to the console.
	// Default: 10
	TopN int `yaml:"top_n" split_words:"true" validate:"gte=1"`
}

// OutputConfig describes where results are persisted.
type OutputConfig struct {
	// Path is the workbook holding the full pattern set. Overwritten each run.
	// Default: "recommendation.xlsx"
	Path string `yaml:"path" split_words:"true" validate:"required"`

	// Sheet is the worksheet name inside the output workbook.
	// Default: "Sheet1"
	Sheet string `yaml:"sheet" split_words:"true" validate:"required"`

	// SQLitePath, when set, also writes the patterns to a SQLite database.
	SQLitePath string `yaml:"sqlite_path" envconfig:"SQLITE_PATH"`

	// RejectLog, when set, lists every row rejected while parsing.
	RejectLog string `yaml:"reject_log" split_words:"true"`

	// SummaryLog, when set, receives a plain text summary of the run.
	SummaryLog string `yaml:"summary_log" split_words:"true"`
}

// LoggingConfig controls the structured logger.
type LoggingConfig struct {
	// Level is one of "debug", "info", "warn", "error".
	// Default: "info"
	Level string `yaml:"level" split_words:"true" validate:"oneof=debug info warn error"`

	// Format is "text" or "json".
	// Default: "text"
	Format string `yaml:"format" split_words:"true" validate:"oneof=text json"`

	// FilePath sends logs to a file instead of stderr.
	FilePath string `yaml:"file_path" split_words:"true"`
}

// =============================================================================
// DEFAULTS
// =============================================================================

// Default returns the standard analysis settings.
func Default() *Config {
	return &Config{
		Input: InputConfig{
			Path:              "online_retail_2.xlsx",
			InvoiceColumn:     "Invoice",
			DescriptionColumn: "Description",
			QuantityColumn:    "Quantity",
			PriceColumn:       "Price",
		},
		Filter: FilterConfig{
			MinQuantity: 1000,
		},
		Mining: MiningConfig{
			MinSupport:  0.022,
			ItemsetSize: 3,
			TopN:        10,
		},
		Output: OutputConfig{
			Path:  "recommendation.xlsx",
			Sheet: "Sheet1",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// =============================================================================
// CONFIGURATION LOADING FUNCTIONS
// =============================================================================

// Load builds the configuration from defaults, the YAML file at configPath and
// the environment.
//
// PARAMETERS:
//   - configPath: The path to the YAML file. A missing file is not an error;
//     the defaults are used instead.
//
// RETURNS:
//   - A pointer to the Config struct. It is not validated yet, so callers can
//     apply flag overrides before calling Validate.
//   - An error if the file exists but cannot be read or parsed, or if an
//     environment variable holds a malformed value.
func Load(configPath string) (*Config, error) {
	cfg := Default()

	if configPath != "" {
		data, err := os.ReadFile(configPath)
		switch {
		case errors.Is(err, os.ErrNotExist):
			// Defaults apply.
		case err != nil:
			return nil, fmt.Errorf("failed to read config file: %w", err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config file: %w", err)
			}
		}
	}

	// Unset variables leave the file values untouched.
	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	return cfg, nil
}

// Validate checks every field against its validation tag.
func (c *Config) Validate() error {
	v := validator.New()
	if err := v.Struct(c); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) {
			msgs := make([]string, 0, len(fieldErrs))
			for _, fe := range fieldErrs {
				msgs = append(msgs, fmt.Sprintf("%s failed %q (value: %v)", fe.Namespace(), fe.Tag(), fe.Value()))
			}
			return errors.New(strings.Join(msgs, "; "))
		}
		return err
	}
	return nil
}

// Save writes the configuration as YAML.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}
