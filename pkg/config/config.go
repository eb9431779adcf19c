// Package config provides configuration management for the reporting tool.
// It loads configuration from environment variables and .env files.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config represents the application configuration.
type Config struct {
	Ledger LedgerConfig
	Report ReportConfig
	Debug  bool
}

// LedgerConfig represents ledger API configuration.
type LedgerConfig struct {
	APIURL           string
	Token            string
	Timeout          time.Duration
	PerPage          int
	JournalPageLimit int
	RateLimit        float64
	AccountsCacheTTL time.Duration
}

// ReportConfig represents report output configuration.
type ReportConfig struct {
	Root      string
	DBPath    string
	RulesFile string
	Currency  string
}

// Load loads configuration from environment variables.
// It automatically loads .env file from the current directory if available.
// You can optionally specify a custom .env file path.
func Load(envPath ...string) (*Config, error) {
	if len(envPath) > 0 && envPath[0] != "" {
		if err := godotenv.Load(envPath[0]); err != nil {
			return nil, fmt.Errorf("failed to load .env file: %w", err)
		}
	} else {
		// Ignore a missing .env in the current directory
		_ = godotenv.Load()
	}

	timeout, err := parseIntEnv("LEDGER_TIMEOUT", 30)
	if err != nil {
		return nil, err
	}
	perPage, err := parseIntEnv("LEDGER_PER_PAGE", 100)
	if err != nil {
		return nil, err
	}
	pageLimit, err := parseIntEnv("LEDGER_JOURNAL_PAGE_LIMIT", 10)
	if err != nil {
		return nil, err
	}
	cacheTTL, err := parseIntEnv("LEDGER_ACCOUNTS_CACHE_TTL", 300)
	if err != nil {
		return nil, err
	}
	rateLimit, err := parseFloatEnv("LEDGER_RATE_LIMIT", 5)
	if err != nil {
		return nil, err
	}

	config := &Config{
		Ledger: LedgerConfig{
			APIURL:           strings.TrimRight(getEnvOrDefault("LEDGER_API_URL", "http://localhost:8000/api"), "/"),
			Token:            os.Getenv("LEDGER_API_TOKEN"),
			Timeout:          time.Duration(timeout) * time.Second,
			PerPage:          perPage,
			JournalPageLimit: pageLimit,
			RateLimit:        rateLimit,
			AccountsCacheTTL: time.Duration(cacheTTL) * time.Second,
		},
		Report: ReportConfig{
			Root:      getEnvOrDefault("REPORT_ROOT", "./reports"),
			DBPath:    os.Getenv("REPORT_DB_PATH"),
			RulesFile: os.Getenv("RULES_FILE"),
			Currency:  os.Getenv("REPORT_CURRENCY"),
		},
		Debug: os.Getenv("DEBUG") == "true",
	}

	return config, nil
}

// Validate validates the configuration.
// It checks if all required fields are set.
func (c *Config) Validate(required ...[]string) error {
	var missing []string

	for _, path := range required {
		if len(path) < 2 {
			continue
		}

		var value string
		switch path[0] {
		case "ledger":
			switch path[1] {
			case "apiUrl":
				value = c.Ledger.APIURL
			case "token":
				value = c.Ledger.Token
			}
		case "report":
			switch path[1] {
			case "root":
				value = c.Report.Root
			case "dbPath":
				value = c.Report.DBPath
			case "rulesFile":
				value = c.Report.RulesFile
			}
		}

		if value == "" {
			missing = append(missing, strings.Join(path, "."))
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("missing required configuration: %v\nPlease check your .env file or environment variables", missing)
	}

	return nil
}

// getEnvOrDefault returns the value of the environment variable or a default value if not set.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// parseIntEnv parses a non-negative int from an environment variable.
// Returns defaultValue if the environment variable is not set.
func parseIntEnv(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}

	parsed, err := strconv.Atoi(value)
	if err != nil || parsed < 0 {
		return 0, fmt.Errorf("invalid integer value for %s: %s", key, value)
	}

	return parsed, nil
}

func parseFloatEnv(key string, defaultValue float64) (float64, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}

	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil || parsed < 0 {
		return 0, fmt.Errorf("invalid number value for %s: %s", key, value)
	}

	return parsed, nil
}
