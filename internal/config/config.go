package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"saki/internal/core"
	"saki/internal/log"
)

const (
	BackendJSON   = "json"
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

type Config struct {
	// Storage
	DataBackend  string
	DataDir      string
	SQLiteDBPath string
	ExportDir    string

	// Logging
	LogLevel  string
	LogFormat string

	// AMQP, optional
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string

	// Google Sheets export
	GoogleSpreadsheetID      string
	GoogleSheetName          string
	GoogleServiceAccountFile string
	GoogleServiceAccountJSON string

	// Analytics and calculator
	CalcHistoryLimit int
	TopN             int
	ForecastDays     int
	TrendMonths      int
	SummaryCacheSize int
	SummaryCacheTTL  time.Duration

	// Company metadata
	CompanyName     string
	CompanyTaxID    string
	CompanyEmail    string
	CompanyPhone    string
	CompanyAddress  string
	FiscalYearStart int
	Currency        string

	// Defaults for new expenses
	DefaultCategory      string
	DefaultPaymentMethod string
}

func Load() *Config {
	cfg := &Config{
		DataBackend:  getEnv("DATA_BACKEND", BackendJSON),
		DataDir:      getEnv("DATA_DIR", "./data/storage"),
		SQLiteDBPath: getEnv("SQLITE_DB_PATH", "./data/saki.db"),
		ExportDir:    getEnv("EXPORT_DIR", "./exports"),

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "text"),

		AMQPURL:      getEnv("AMQP_URL", ""),
		AMQPExchange: getEnv("AMQP_EXCHANGE", "saki"),
		AMQPQueue:    getEnv("AMQP_QUEUE", "expense_events"),

		GoogleSpreadsheetID:      getEnv("GOOGLE_SPREADSHEET_ID", ""),
		GoogleSheetName:          getEnv("GOOGLE_SHEET_NAME", "Expenses"),
		GoogleServiceAccountFile: getEnv("GOOGLE_SERVICE_ACCOUNT_FILE", ""),
		GoogleServiceAccountJSON: getEnv("GOOGLE_SERVICE_ACCOUNT_JSON", ""),

		CalcHistoryLimit: getEnvInt("CALC_HISTORY_LIMIT", 100),
		TopN:             getEnvInt("TOP_N", 10),
		ForecastDays:     getEnvInt("FORECAST_DAYS", 30),
		TrendMonths:      getEnvInt("TREND_MONTHS", 12),
		SummaryCacheSize: getEnvInt("SUMMARY_CACHE_SIZE", 64),
		SummaryCacheTTL:  getEnvDuration("SUMMARY_CACHE_TTL", 15*time.Minute),

		CompanyName:     getEnv("COMPANY_NAME", ""),
		CompanyTaxID:    getEnv("COMPANY_TAX_ID", ""),
		CompanyEmail:    getEnv("COMPANY_EMAIL", ""),
		CompanyPhone:    getEnv("COMPANY_PHONE", ""),
		CompanyAddress:  getEnv("COMPANY_ADDRESS", ""),
		FiscalYearStart: getEnvInt("FISCAL_YEAR_START", 1),
		Currency:        getEnv("CURRENCY", "USD"),

		DefaultCategory:      getEnv("DEFAULT_CATEGORY", core.CategoryOther.String()),
		DefaultPaymentMethod: getEnv("DEFAULT_PAYMENT_METHOD", core.PaymentCash.String()),
	}

	return cfg
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errors []string

	// Validate data backend
	validBackends := []string{BackendJSON, BackendSQLite, BackendMemory}
	isValidBackend := false
	for _, backend := range validBackends {
		if c.DataBackend == backend {
			isValidBackend = true
			break
		}
	}
	if !isValidBackend {
		errors = append(errors, fmt.Sprintf("invalid data backend '%s': must be one of %v", c.DataBackend, validBackends))
	}

	if c.DataBackend == BackendJSON && c.DataDir == "" {
		errors = append(errors, "data directory cannot be empty when using json backend")
	}

	if c.DataBackend == BackendSQLite {
		if c.SQLiteDBPath == "" {
			errors = append(errors, "SQLite database path cannot be empty when using sqlite backend")
		} else {
			dir := filepath.Dir(c.SQLiteDBPath)
			if dir != "." && dir != "" {
				if _, err := os.Stat(dir); os.IsNotExist(err) {
					if err := os.MkdirAll(dir, 0755); err != nil {
						errors = append(errors, fmt.Sprintf("cannot create SQLite database directory '%s': %v", dir, err))
					}
				}
			}
		}
	}

	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		errors = append(errors, fmt.Sprintf("invalid log level '%s': must be debug, info, warn or error", c.LogLevel))
	}
	if c.LogFormat != "text" && c.LogFormat != "json" {
		errors = append(errors, fmt.Sprintf("invalid log format '%s': must be 'text' or 'json'", c.LogFormat))
	}

	// AMQP is optional; names are only checked once a URL is given
	if c.AMQPURL != "" {
		if parsedURL, err := url.Parse(c.AMQPURL); err != nil {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL '%s': %v", c.AMQPURL, err))
		} else if parsedURL.Scheme != "amqp" && parsedURL.Scheme != "amqps" {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL scheme '%s': must be 'amqp' or 'amqps'", parsedURL.Scheme))
		}
		if c.AMQPExchange == "" {
			errors = append(errors, "AMQP exchange name cannot be empty when AMQP URL is provided")
		}
		if c.AMQPQueue == "" {
			errors = append(errors, "AMQP queue name cannot be empty when AMQP URL is provided")
		}
	}

	if c.GoogleServiceAccountFile != "" {
		if _, err := os.Stat(c.GoogleServiceAccountFile); os.IsNotExist(err) {
			errors = append(errors, fmt.Sprintf("Google service account file does not exist: %s", c.GoogleServiceAccountFile))
		}
	}

	if c.CalcHistoryLimit < 1 {
		errors = append(errors, fmt.Sprintf("invalid calculator history limit %d: must be at least 1", c.CalcHistoryLimit))
	}
	if c.TopN < 1 {
		errors = append(errors, fmt.Sprintf("invalid top n %d: must be at least 1", c.TopN))
	}
	if c.ForecastDays < 0 {
		errors = append(errors, fmt.Sprintf("invalid forecast days %d: must not be negative", c.ForecastDays))
	}
	if c.TrendMonths < 1 || c.TrendMonths > 120 {
		errors = append(errors, fmt.Sprintf("invalid trend months %d: must be between 1 and 120", c.TrendMonths))
	}
	if c.SummaryCacheSize < 1 {
		errors = append(errors, fmt.Sprintf("invalid summary cache size %d: must be at least 1", c.SummaryCacheSize))
	}
	if c.SummaryCacheTTL < 0 {
		errors = append(errors, fmt.Sprintf("invalid summary cache ttl %s: must not be negative", c.SummaryCacheTTL))
	}

	if c.FiscalYearStart < 1 || c.FiscalYearStart > 12 {
		errors = append(errors, fmt.Sprintf("invalid fiscal year start %d: must be between 1 and 12", c.FiscalYearStart))
	}
	if len(c.Currency) != 3 {
		errors = append(errors, fmt.Sprintf("invalid currency '%s': must be a three letter code", c.Currency))
	}

	if _, err := core.ParseCategory(c.DefaultCategory); err != nil {
		errors = append(errors, fmt.Sprintf("invalid default category '%s'", c.DefaultCategory))
	}
	if _, err := core.ParsePaymentMethod(c.DefaultPaymentMethod); err != nil {
		errors = append(errors, fmt.Sprintf("invalid default payment method '%s'", c.DefaultPaymentMethod))
	}

	// Return combined errors
	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}

	return nil
}

// Company returns the business metadata shown by `saki info`.
func (c *Config) Company() core.Company {
	return core.Company{
		Name:            c.CompanyName,
		TaxID:           c.CompanyTaxID,
		Email:           c.CompanyEmail,
		Phone:           c.CompanyPhone,
		Address:         c.CompanyAddress,
		FiscalYearStart: time.Month(c.FiscalYearStart),
		Currency:        c.Currency,
	}
}

// Defaults returns the category and payment method applied when a new
// expense leaves them out. Call after Validate.
func (c *Config) Defaults() (core.Category, core.PaymentMethod) {
	cat, err := core.ParseCategory(c.DefaultCategory)
	if err != nil {
		cat = core.CategoryOther
	}
	pm, err := core.ParsePaymentMethod(c.DefaultPaymentMethod)
	if err != nil {
		pm = core.PaymentCash
	}
	return cat, pm
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
