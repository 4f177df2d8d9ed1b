package services

import (
	"context"
	"errors"
	"io/fs"
	"path/filepath"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"report-templates/metrics"
	"report-templates/repository"
	"report-templates/storage"
)

// Sweeper entfernt Template-Dateien, auf die kein Datensatz mehr zeigt. Solche Dateien
// entstehen, wenn der Prozess zwischen Datensatz- und Dateioperation abbricht.
type Sweeper struct {
	Repo    repository.TemplateRepository
	Files   *storage.FileStore
	Grace   time.Duration
	Metrics *metrics.Metrics
	Logger  *zap.Logger

	now func() time.Time
}

// NewSweeper erstellt einen Sweeper. Dateien, die jünger als grace sind, bleiben unangetastet,
// damit laufende Create-Aufrufe nicht gestört werden.
func NewSweeper(repo repository.TemplateRepository, files *storage.FileStore, grace time.Duration, m *metrics.Metrics, logger *zap.Logger) *Sweeper {
	return &Sweeper{Repo: repo, Files: files, Grace: grace, Metrics: m, Logger: logger, now: time.Now}
}

// Run führt einen Durchlauf aus und gibt die Zahl der entfernten Dateien zurück.
func (s *Sweeper) Run(ctx context.Context) (int, error) {
	paths, err := s.Repo.Paths(ctx)
	if err != nil {
		return 0, err
	}
	referenced := make(map[string]struct{}, len(paths))
	for _, p := range paths {
		referenced[filepath.Clean(p)] = struct{}{}
	}

	files, err := s.Files.List(ctx)
	if err != nil {
		return 0, err
	}

	cutoff := s.now().Add(-s.Grace)
	removed := 0
	for _, f := range files {
		if _, ok := referenced[filepath.Clean(f.Path)]; ok {
			continue
		}
		if f.ModTime.After(cutoff) {
			continue
		}
		if err := s.Files.Delete(ctx, f.Path); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			s.Logger.Error("Konnte verwaiste Template-Datei nicht löschen", zap.String("path", f.Path), zap.Error(err))
			continue
		}
		s.Logger.Info("Verwaiste Template-Datei entfernt", zap.String("path", f.Path))
		removed++
	}
	s.Metrics.OrphansRemoved.Add(float64(removed))
	return removed, nil
}

// Schedule registriert den Sweeper im Cron-Scheduler.
func (s *Sweeper) Schedule(c *cron.Cron, spec string) (cron.EntryID, error) {
	return c.AddFunc(spec, func() {
		s.Logger.Info("Running scheduled orphan sweep...")
		n, err := s.Run(context.Background())
		if err != nil {
			s.Logger.Error("Orphan sweep failed", zap.Error(err))
			return
		}
		s.Logger.Info("Orphan sweep completed", zap.Int("removed_files", n))
	})
}
