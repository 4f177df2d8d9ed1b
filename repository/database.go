// Package repository kapselt den Zugriff auf die Metadaten-Datenbank (GORM).
package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"report-templates/config"
	"report-templates/models"
)

var (
	// ErrNotFound wird bei Punktabfragen ohne Treffer zurückgegeben.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate meldet die Verletzung eines Unique-Index.
	ErrDuplicate = errors.New("duplicate record")
)

// Open verbindet sich je nach DB_DRIVER mit PostgreSQL oder SQLite.
func Open(cfg *config.Config) (*gorm.DB, error) {
	switch cfg.DBDriver {
	case config.DriverPostgres:
		return open(postgres.Open(cfg.DSN()))
	case config.DriverSQLite:
		return OpenSQLite(cfg.DBPath)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.DBDriver)
	}
}

// OpenSQLite öffnet eine SQLite-Datenbank (reines Go, ohne cgo).
func OpenSQLite(path string) (*gorm.DB, error) {
	return open(sqlite.Open(path))
}

func open(dialector gorm.Dialector) (*gorm.DB, error) {
	return gorm.Open(dialector, &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
}

// AutoMigrate legt alle Tabellen und Indizes an.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(&models.Template{}, &models.TemplateTerm{}, &models.ConceptReferenceTerm{})
}

func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return fmt.Errorf("%w: %v", ErrDuplicate, err)
	default:
		return err
	}
}

// Ping prüft die Verbindung zur Datenbank.
func Ping(ctx context.Context, db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
