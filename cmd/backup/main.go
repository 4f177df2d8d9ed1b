package main

import (
	"bytes"
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/exec"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"go.uber.org/zap"

	"report-templates/storage"
)

const (
	dbPrefix        = "db/"
	templatesPrefix = "templates/"
)

type BackupConfig struct {
	PostgresHost     string `envconfig:"DB_HOST" required:"true"`
	PostgresUser     string `envconfig:"DB_USER" required:"true"`
	PostgresPassword string `envconfig:"DB_PASSWORD" required:"true"`
	PostgresDB       string `envconfig:"DB_NAME" required:"true"`
	TemplateHome     string `envconfig:"TEMPLATE_HOME" required:"true"`
	BackupBucket     string `envconfig:"BACKUP_S3_BUCKET" required:"true"`
	BackupEndpoint   string `envconfig:"BACKUP_S3_ENDPOINT" required:"true"`
	BackupAccessKey  string `envconfig:"BACKUP_S3_ACCESS_KEY" required:"true"`
	BackupSecretKey  string `envconfig:"BACKUP_S3_SECRET_KEY" required:"true"`
	BackupRegion     string `envconfig:"BACKUP_S3_REGION" required:"true"`
	KeepBackups      int    `envconfig:"KEEP_BACKUPS" default:"4"`
}

func main() {
	logging, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("can't initialize zap logger: %v", err)
	}
	defer logging.Sync()

	logging.Info("Starte Backup-Prozess...")
	_ = godotenv.Load()

	var cfg BackupConfig
	if err := envconfig.Process("", &cfg); err != nil {
		logging.Fatal("Fehler beim Laden der Konfiguration", zap.Error(err))
	}

	ctx := context.Background()
	stamp := time.Now().UTC().Format("2006-01-02T15-04-05Z")

	// 1. Datenbank-Dump erstellen
	dumpData, err := createDump(ctx, cfg)
	if err != nil {
		logging.Fatal("Fehler beim Erstellen des DB-Dumps", zap.Error(err))
	}

	// 2. Template-Verzeichnis archivieren
	files, err := storage.NewFileStore(cfg.TemplateHome, logging)
	if err != nil {
		logging.Fatal("Template-Verzeichnis nicht verfügbar", zap.Error(err))
	}
	var archive bytes.Buffer
	count, err := files.ArchiveTo(ctx, &archive)
	if err != nil {
		logging.Fatal("Fehler beim Archivieren der Templates", zap.Error(err))
	}
	logging.Info("Templates archiviert", zap.Int("files", count))

	// 3. Beides nach S3 hochladen
	client, err := storage.NewS3Client(ctx, storage.S3Config{
		Endpoint:  cfg.BackupEndpoint,
		Region:    cfg.BackupRegion,
		AccessKey: cfg.BackupAccessKey,
		SecretKey: cfg.BackupSecretKey,
		Bucket:    cfg.BackupBucket,
	})
	if err != nil {
		logging.Fatal("Fehler beim Erstellen des S3-Clients", zap.Error(err))
	}
	bucket := storage.NewBackupBucket(client, cfg.BackupBucket, logging)

	uploads := map[string][]byte{
		fmt.Sprintf("%sbackup-%s.sql.gz", dbPrefix, stamp):          dumpData,
		fmt.Sprintf("%stemplates-%s.tar.gz", templatesPrefix, stamp): archive.Bytes(),
	}
	for key, data := range uploads {
		if err := bucket.Upload(ctx, key, bytes.NewReader(data)); err != nil {
			logging.Fatal("Fehler beim Hochladen nach S3", zap.String("key", key), zap.Error(err))
		}
	}

	// 4. Alte Backups rotieren, getrennt nach Art
	for _, prefix := range []string{dbPrefix, templatesPrefix} {
		if _, err := bucket.Rotate(ctx, prefix, cfg.KeepBackups); err != nil {
			logging.Fatal("Fehler bei der Rotation alter Backups", zap.String("prefix", prefix), zap.Error(err))
		}
	}

	logging.Info("Backup-Prozess erfolgreich abgeschlossen.")
}

func createDump(ctx context.Context, cfg BackupConfig) ([]byte, error) {
	cmd := exec.CommandContext(ctx, "pg_dump",
		"-h", cfg.PostgresHost,
		"-U", cfg.PostgresUser,
		"-d", cfg.PostgresDB,
		"-w", // Passwort wird über PGPASSWORD bereitgestellt
	)
	cmd.Env = append(os.Environ(), fmt.Sprintf("PGPASSWORD=%s", cfg.PostgresPassword))

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, err
	}
	if err := cmd.Start(); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	gzipWriter := gzip.NewWriter(&buf)
	if _, err := io.Copy(gzipWriter, stdout); err != nil {
		return nil, err
	}
	if err := gzipWriter.Close(); err != nil {
		return nil, err
	}
	if err := cmd.Wait(); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}
