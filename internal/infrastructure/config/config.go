package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	Log       LogConfig
	Hardcover HardcoverConfig
	Titlepage TitlepageConfig
	Export    ExportConfig
	Scheduler SchedulerConfig
}

// AppConfig holds application-specific settings
type AppConfig struct {
	Name string
	Env  string
	Port string
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	DBName          string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime int // in minutes
	ConnMaxIdleTime int // in minutes
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string // debug, info, warn, error
	Format string // json, console
	Output string // stdout, stderr, or file path
}

// HardcoverConfig holds credentials for the Hardcover GraphQL catalog.
// An empty APIKey means the source is not configured and is skipped.
type HardcoverConfig struct {
	APIKey         string
	BaseURL        string
	TimeoutSeconds int
}

// Configured reports whether the source has a credential
func (c HardcoverConfig) Configured() bool {
	return c.APIKey != ""
}

// TitlepageConfig holds credentials for the Titlepage ONIX catalog.
// An empty APIToken means the source is not configured and is skipped.
type TitlepageConfig struct {
	APIToken       string
	BaseURL        string
	TimeoutSeconds int
	// CountryCode selects which ProductSupply market the commercial terms
	// (list price, supplier) are read from
	CountryCode string
}

// Configured reports whether the source has a credential
func (c TitlepageConfig) Configured() bool {
	return c.APIToken != ""
}

// ExportConfig holds the sales export settings
type ExportConfig struct {
	// OutletName prefixes the export filename, e.g. booksandco20260227.csv
	OutletName string
	SFTP       SFTPConfig
}

// SFTPConfig holds the SFTP sink connection settings. KeyPath takes
// precedence over Password when both are set.
type SFTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	KeyPath  string
	// RemoteDir is the directory the report file is uploaded into
	RemoteDir string
}

// Configured reports whether the sink can be connected to
func (c SFTPConfig) Configured() bool {
	return c.Host != "" && c.Username != ""
}

// SchedulerConfig holds the daily export scheduler configuration
type SchedulerConfig struct {
	Enabled           bool
	DailyCronSchedule string
	JobTimeout        time.Duration
}

// Load loads configuration from TOML file and environment variables
// Priority (highest to lowest):
// 1. Environment variables with BOOKWORKS_ prefix (e.g. BOOKWORKS_DATABASE_PASSWORD)
// 2. config.toml
// 3. Built-in defaults
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(".")
	v.AddConfigPath("/app")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is OK, we'll use defaults and env vars
	}

	v.SetEnvPrefix("BOOKWORKS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := &Config{
		App: AppConfig{
			Name: v.GetString("app.name"),
			Env:  v.GetString("app.env"),
			Port: v.GetString("app.port"),
		},
		Database: DatabaseConfig{
			Host:            v.GetString("database.host"),
			Port:            v.GetInt("database.port"),
			User:            v.GetString("database.user"),
			Password:        v.GetString("database.password"),
			DBName:          v.GetString("database.dbname"),
			SSLMode:         v.GetString("database.sslmode"),
			MaxOpenConns:    v.GetInt("database.max_open_conns"),
			MaxIdleConns:    v.GetInt("database.max_idle_conns"),
			ConnMaxLifetime: v.GetInt("database.conn_max_lifetime"),
			ConnMaxIdleTime: v.GetInt("database.conn_max_idle_time"),
		},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
			Output: v.GetString("log.output"),
		},
		Hardcover: HardcoverConfig{
			APIKey:         v.GetString("hardcover.api_key"),
			BaseURL:        v.GetString("hardcover.base_url"),
			TimeoutSeconds: v.GetInt("hardcover.timeout_seconds"),
		},
		Titlepage: TitlepageConfig{
			APIToken:       v.GetString("titlepage.api_token"),
			BaseURL:        v.GetString("titlepage.base_url"),
			TimeoutSeconds: v.GetInt("titlepage.timeout_seconds"),
			CountryCode:    v.GetString("titlepage.country_code"),
		},
		Export: ExportConfig{
			OutletName: v.GetString("export.outlet_name"),
			SFTP: SFTPConfig{
				Host:      v.GetString("export.sftp_host"),
				Port:      v.GetInt("export.sftp_port"),
				Username:  v.GetString("export.sftp_username"),
				Password:  v.GetString("export.sftp_password"),
				KeyPath:   v.GetString("export.sftp_key_path"),
				RemoteDir: v.GetString("export.sftp_remote_dir"),
			},
		},
		Scheduler: SchedulerConfig{
			Enabled:           v.GetBool("scheduler.enabled"),
			DailyCronSchedule: v.GetString("scheduler.daily_cron_schedule"),
			JobTimeout:        v.GetDuration("scheduler.job_timeout"),
		},
	}

	applyDefaults(cfg)

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// applyDefaults sets default values for any empty config fields
func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "bookworks-backend"
	}
	if cfg.App.Env == "" {
		cfg.App.Env = "development"
	}
	if cfg.App.Port == "" {
		cfg.App.Port = "8080"
	}
	if cfg.Database.Host == "" {
		cfg.Database.Host = "localhost"
	}
	if cfg.Database.Port == 0 {
		cfg.Database.Port = 5432
	}
	if cfg.Database.User == "" {
		cfg.Database.User = "postgres"
	}
	if cfg.Database.DBName == "" {
		cfg.Database.DBName = "bookworks"
	}
	if cfg.Database.SSLMode == "" {
		cfg.Database.SSLMode = "disable"
	}
	if cfg.Database.MaxOpenConns == 0 {
		cfg.Database.MaxOpenConns = 25
	}
	if cfg.Database.MaxIdleConns == 0 {
		cfg.Database.MaxIdleConns = 5
	}
	if cfg.Database.ConnMaxLifetime == 0 {
		cfg.Database.ConnMaxLifetime = 60
	}
	if cfg.Database.ConnMaxIdleTime == 0 {
		cfg.Database.ConnMaxIdleTime = 30
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "console"
	}
	if cfg.Log.Output == "" {
		cfg.Log.Output = "stdout"
	}
	if cfg.Hardcover.BaseURL == "" {
		cfg.Hardcover.BaseURL = "https://api.hardcover.app/v1/graphql"
	}
	if cfg.Hardcover.TimeoutSeconds == 0 {
		cfg.Hardcover.TimeoutSeconds = 10
	}
	if cfg.Titlepage.BaseURL == "" {
		cfg.Titlepage.BaseURL = "https://report.titlepage.com/ReST/v1/onix-full"
	}
	if cfg.Titlepage.TimeoutSeconds == 0 {
		cfg.Titlepage.TimeoutSeconds = 15
	}
	if cfg.Titlepage.CountryCode == "" {
		cfg.Titlepage.CountryCode = "NZ"
	}
	if cfg.Export.OutletName == "" {
		cfg.Export.OutletName = "booksandco"
	}
	if cfg.Export.SFTP.Port == 0 {
		cfg.Export.SFTP.Port = 22
	}
	if cfg.Scheduler.DailyCronSchedule == "" {
		cfg.Scheduler.DailyCronSchedule = "0 2 * * *"
	}
	if cfg.Scheduler.JobTimeout == 0 {
		cfg.Scheduler.JobTimeout = 10 * time.Minute
	}
}

// validate performs validation on the configuration
func (c *Config) validate() error {
	if c.Database.MaxOpenConns <= 0 {
		return fmt.Errorf("database.max_open_conns must be positive")
	}
	if c.Database.MaxIdleConns < 0 {
		return fmt.Errorf("database.max_idle_conns cannot be negative")
	}
	if c.Database.MaxIdleConns > c.Database.MaxOpenConns {
		return fmt.Errorf("database.max_idle_conns (%d) cannot exceed database.max_open_conns (%d)",
			c.Database.MaxIdleConns, c.Database.MaxOpenConns)
	}

	if c.App.Env == "production" {
		if c.Database.Password == "" {
			return fmt.Errorf("database.password is required in production")
		}
		if c.Database.SSLMode == "disable" {
			return fmt.Errorf("database.sslmode cannot be 'disable' in production")
		}
	}

	if c.Export.SFTP.Port < 0 || c.Export.SFTP.Port > 65535 {
		return fmt.Errorf("export.sftp_port must be a valid port, got %d", c.Export.SFTP.Port)
	}

	return nil
}

// DSN returns the database connection string with properly escaped values
func (d *DatabaseConfig) DSN() string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(d.User, d.Password),
		Host:   fmt.Sprintf("%s:%d", d.Host, d.Port),
		Path:   d.DBName,
	}
	q := u.Query()
	q.Set("sslmode", d.SSLMode)
	u.RawQuery = q.Encode()
	return u.String()
}
