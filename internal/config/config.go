package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Storage backends selectable with DB_DRIVER.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
	DriverMemory   = "memory"
)

// Everything is read from environment variables so the same binary runs
// locally (sqlite or LocalStack) and in a container with injected settings.

type Config struct {
	DBDriver                string `mapstructure:"DB_DRIVER"`
	DBHost                  string `mapstructure:"DB_HOST"`
	DBPort                  string `mapstructure:"DB_PORT"`
	DBUser                  string `mapstructure:"DB_USER"`
	DBPassword              string `mapstructure:"DB_PASSWORD"`
	DBName                  string `mapstructure:"DB_NAME"`
	SQLitePath              string `mapstructure:"SQLITE_PATH"`
	ServerPort              string `mapstructure:"SERVER_PORT"`
	IsLocalDev              bool   `mapstructure:"IS_LOCAL_DEV"`
	AWSRegion               string `mapstructure:"AWS_REGION"`
	AWSEndpoint             string `mapstructure:"AWS_ENDPOINT"`
	ExportSQSQueueURL       string `mapstructure:"EXPORT_SQS_QUEUE_URL"`
	EmailSQSQueueURL        string `mapstructure:"EMAIL_SQS_QUEUE_URL"`
	TimesheetAPIURL         string `mapstructure:"TIMESHEET_API_URL"`
	SenderEmail             string `mapstructure:"SENDER_EMAIL"`
	NotifyEmail             string `mapstructure:"NOTIFY_EMAIL"`
	DisplayTimezone         string `mapstructure:"DISPLAY_TIMEZONE"`
	DefaultTargetMinutes    int    `mapstructure:"DEFAULT_TARGET_MINUTES"`
	LunchReminderMinutes    int    `mapstructure:"LUNCH_REMINDER_MINUTES"`
	DepartureWarningMinutes int    `mapstructure:"DEPARTURE_WARNING_MINUTES"`
	ReminderPollSeconds     int    `mapstructure:"REMINDER_POLL_SECONDS"`
	TraceExporter           string `mapstructure:"TRACE_EXPORTER"`
	OTLPEndpoint            string `mapstructure:"OTLP_ENDPOINT"`
	CORSAllowedOrigins      string `mapstructure:"CORS_ALLOWED_ORIGINS"`
}

// LoadConfig reads configuration from environment variables.
func LoadConfig() (Config, error) {
	v := viper.New()
	setDefaults(v)

	// Read in environment variables that match the keys.
	v.AutomaticEnv()

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return Config{}, err
	}
	return config, config.Validate()
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("DB_DRIVER", DriverPostgres)
	v.SetDefault("DB_HOST", "db")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_USER", "user")
	v.SetDefault("DB_PASSWORD", "password")
	v.SetDefault("DB_NAME", "punchclock_db")
	v.SetDefault("SQLITE_PATH", "punchclock.db")
	v.SetDefault("SERVER_PORT", "8080")
	v.SetDefault("IS_LOCAL_DEV", false)
	v.SetDefault("AWS_REGION", "us-east-1")
	v.SetDefault("AWS_ENDPOINT", "http://localstack:4566")
	v.SetDefault("EXPORT_SQS_QUEUE_URL", "http://localstack:4566/000000000000/export-queue")
	v.SetDefault("EMAIL_SQS_QUEUE_URL", "http://localstack:4566/000000000000/email-queue")
	v.SetDefault("TIMESHEET_API_URL", "http://localhost:8081/")
	v.SetDefault("SENDER_EMAIL", "reminders@punchclock.local")
	v.SetDefault("NOTIFY_EMAIL", "me@punchclock.local")
	v.SetDefault("DISPLAY_TIMEZONE", "")
	v.SetDefault("DEFAULT_TARGET_MINUTES", 528)
	v.SetDefault("LUNCH_REMINDER_MINUTES", 60)
	v.SetDefault("DEPARTURE_WARNING_MINUTES", 10)
	v.SetDefault("REMINDER_POLL_SECONDS", 30)
	v.SetDefault("TRACE_EXPORTER", "otlp")
	v.SetDefault("OTLP_ENDPOINT", "jaeger:4317")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:5173")
}

// Validate rejects settings the service cannot start with.
func (c Config) Validate() error {
	switch c.DBDriver {
	case DriverPostgres, DriverSQLite, DriverMemory:
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver)
	}
	if c.DefaultTargetMinutes <= 0 {
		return fmt.Errorf("DEFAULT_TARGET_MINUTES must be positive, got %d", c.DefaultTargetMinutes)
	}
	if c.ReminderPollSeconds <= 0 {
		return fmt.Errorf("REMINDER_POLL_SECONDS must be positive, got %d", c.ReminderPollSeconds)
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	return nil
}

// Location resolves DISPLAY_TIMEZONE; empty means the process local zone.
func (c Config) Location() (*time.Location, error) {
	if c.DisplayTimezone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.DisplayTimezone)
	if err != nil {
		return nil, fmt.Errorf("invalid DISPLAY_TIMEZONE %q: %w", c.DisplayTimezone, err)
	}
	return loc, nil
}

// AllowedOrigins splits CORS_ALLOWED_ORIGINS.
func (c Config) AllowedOrigins() []string {
	var origins []string
	for _, o := range strings.Split(c.CORSAllowedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}
