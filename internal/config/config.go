package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Backend identifiers accepted by LIBRARY_STORE_BACKEND.
const (
	BackendMySQL  = "mysql"
	BackendSheets = "sheets"
)

// Config holds runtime configuration values for the kiosk API service.
type Config struct {
	AppName string
	AppEnv  string
	AppPort string

	StoreBackend string
	MySQLDSN     string

	SheetsSpreadsheetID   string
	SheetsStudentsSheet   string
	SheetsAttendanceSheet string
	ServiceAccountEmail   string
	ServiceAccountKey     string

	Timezone string

	AdminPassword     string
	AdminSessionToken string

	RedisURL       string
	ReportCacheTTL time.Duration

	ScanCooldown time.Duration
}

// HTTPAddress returns the address the HTTP server should listen on.
func (c Config) HTTPAddress() string {
	if strings.HasPrefix(c.AppPort, ":") {
		return c.AppPort
	}

	return fmt.Sprintf(":%s", c.AppPort)
}

// Location resolves the configured reporting timezone.
func (c Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", c.Timezone, err)
	}

	return loc, nil
}

// Load reads configuration values from environment variables and optional .env file.
func Load() (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("LIBRARY")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("app.name", "Library Kiosk API")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", "8080")
	v.SetDefault("store.backend", BackendMySQL)
	v.SetDefault("sheets.students_sheet", "Students")
	v.SetDefault("sheets.attendance_sheet", "Attendance")
	v.SetDefault("timezone", "Asia/Bangkok")
	v.SetDefault("report.cache_ttl", "30s")
	v.SetDefault("scan.cooldown", "2s")

	cacheTTL, err := time.ParseDuration(v.GetString("report.cache_ttl"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid report cache ttl: %w", err)
	}

	cooldown, err := time.ParseDuration(v.GetString("scan.cooldown"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid scan cooldown: %w", err)
	}

	cfg := Config{
		AppName:               v.GetString("app.name"),
		AppEnv:                v.GetString("app.env"),
		AppPort:               v.GetString("app.port"),
		StoreBackend:          strings.ToLower(v.GetString("store.backend")),
		MySQLDSN:              v.GetString("mysql.dsn"),
		SheetsSpreadsheetID:   v.GetString("sheets.spreadsheet_id"),
		SheetsStudentsSheet:   v.GetString("sheets.students_sheet"),
		SheetsAttendanceSheet: v.GetString("sheets.attendance_sheet"),
		ServiceAccountEmail:   v.GetString("service_account.email"),
		ServiceAccountKey:     strings.ReplaceAll(v.GetString("service_account.key"), `\n`, "\n"),
		Timezone:              v.GetString("timezone"),
		AdminPassword:         v.GetString("admin.password"),
		AdminSessionToken:     v.GetString("admin.session_token"),
		RedisURL:              v.GetString("redis.url"),
		ReportCacheTTL:        cacheTTL,
		ScanCooldown:          cooldown,
	}

	if cfg.AdminSessionToken == "" {
		cfg.AdminSessionToken = "acr_session"
	}

	switch cfg.StoreBackend {
	case BackendMySQL:
		if cfg.MySQLDSN == "" {
			return Config{}, fmt.Errorf("mysql dsn must be provided for the mysql backend")
		}
	case BackendSheets:
		if cfg.SheetsSpreadsheetID == "" {
			return Config{}, fmt.Errorf("sheets spreadsheet id must be provided for the sheets backend")
		}
		if cfg.ServiceAccountEmail == "" || cfg.ServiceAccountKey == "" {
			return Config{}, fmt.Errorf("service account credentials must be provided for the sheets backend")
		}
	default:
		return Config{}, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
	}

	if _, err := cfg.Location(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}
