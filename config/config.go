package config

import (
	"fmt"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// MinSweepGrace muss länger sein als ein Create zwischen Dateischreiben und Datensatz braucht.
const MinSweepGrace = time.Minute

// Config enthält alle Konfigurationsparameter aus Umgebungsvariablen.
type Config struct {
	DBDriver   string `envconfig:"DB_DRIVER" default:"postgres"`
	DBHost     string `envconfig:"DB_HOST"`
	DBPort     int    `envconfig:"DB_PORT" default:"5432"`
	DBUser     string `envconfig:"DB_USER"`
	DBPassword string `envconfig:"DB_PASSWORD"`
	DBName     string `envconfig:"DB_NAME"`
	// Nur für DB_DRIVER=sqlite
	DBPath string `envconfig:"DB_PATH" default:"report-templates.db"`

	HTTPPort     string `envconfig:"HTTP_PORT" default:"4242"`
	APISecretKey string `envconfig:"API_SECRET_KEY"`

	// Verzeichnis, in dem die Template-Dateien abgelegt werden
	TemplateHome       string `envconfig:"TEMPLATE_HOME" required:"true"`
	ConceptCatalogFile string `envconfig:"CONCEPT_CATALOG_FILE"`

	// Aufräumen verwaister Template-Dateien
	SweepSchedule string        `envconfig:"SWEEP_SCHEDULE" default:"@hourly"`
	SweepGrace    time.Duration `envconfig:"SWEEP_GRACE" default:"1h"`

	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
}

// DSN gibt den Data Source Name für die PostgreSQL-Verbindung zurück.
func (c *Config) DSN() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%d sslmode=disable",
		c.DBHost, c.DBUser, c.DBPassword, c.DBName, c.DBPort)
}

// Validate prüft die Konfiguration auf Vollständigkeit.
func (c *Config) Validate() error {
	postgres := c.DBDriver == DriverPostgres
	return validation.ValidateStruct(c,
		validation.Field(&c.DBDriver, validation.Required, validation.In(DriverPostgres, DriverSQLite)),
		validation.Field(&c.DBHost, validation.When(postgres, validation.Required)),
		validation.Field(&c.DBUser, validation.When(postgres, validation.Required)),
		validation.Field(&c.DBName, validation.When(postgres, validation.Required)),
		validation.Field(&c.DBPath, validation.When(c.DBDriver == DriverSQLite, validation.Required)),
		validation.Field(&c.TemplateHome, validation.Required),
		validation.Field(&c.SweepGrace, validation.Required, validation.Min(MinSweepGrace)),
		validation.Field(&c.LogLevel, validation.In("debug", "info", "warn", "error")),
	)
}

// Load lädt die Konfiguration aus den Umgebungsvariablen.
func Load() (*Config, error) {
	_ = godotenv.Load()
	var c Config
	if err := envconfig.Process("", &c); err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &c, nil
}

// NewLogger baut einen Production-Logger mit dem konfigurierten Level.
func NewLogger(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, err
	}
	zc := zap.NewProductionConfig()
	zc.Level = zap.NewAtomicLevelAt(lvl)
	return zc.Build()
}
