package services

import (
	"context"
	"errors"
	"io/fs"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"report-templates/errs"
	"report-templates/models"
	"report-templates/repository"
	"report-templates/storage"
)

// TemplateStore koordiniert Metadaten-Datenbank und Dateiablage. Aus Sicht des Aufrufers
// werden Datensatz und Datei gemeinsam angelegt und gemeinsam gelöscht.
type TemplateStore struct {
	Repo   repository.TemplateRepository
	Files  *storage.FileStore
	Logger *zap.Logger
}

// NewTemplateStore erstellt eine neue Instanz des TemplateStore.
func NewTemplateStore(repo repository.TemplateRepository, files *storage.FileStore, logger *zap.Logger) *TemplateStore {
	return &TemplateStore{Repo: repo, Files: files, Logger: logger}
}

// Create legt tpl an. Ist content nicht nil, wird es zuerst als Datei abgelegt und tpl.Path
// gesetzt; schlägt danach das Speichern des Datensatzes fehl, wird die Datei wieder entfernt.
func (s *TemplateStore) Create(ctx context.Context, tpl *models.Template, content []byte) (*models.Template, error) {
	tpl.Identifier = strings.TrimSpace(tpl.Identifier)
	log := s.Logger.With(zap.String("identifier", tpl.Identifier))

	// Duplikatsprüfung, bevor irgendetwas geschrieben wird
	if tpl.Identifier != "" {
		_, err := s.Repo.GetByIdentifier(ctx, tpl.Identifier)
		switch {
		case err == nil:
			log.Info("Template mit diesem Identifier existiert bereits")
			return nil, errs.Newf(errs.CodeDuplicateTemplate, "template with identifier %q already exists", tpl.Identifier)
		case !errors.Is(err, repository.ErrNotFound):
			return nil, errs.Wrap(err, errs.CodeStorageFailure, "identifier lookup failed")
		}
	}

	generatedUUID := tpl.UUID == ""
	if generatedUUID {
		tpl.UUID = uuid.NewString()
	}

	var written string
	if content != nil {
		path, err := s.Files.Write(ctx, content)
		if err != nil {
			return nil, errs.Wrap(err, errs.CodeStorageFailure, "cannot write template file")
		}
		tpl.Path, written = path, path
	}

	if err := s.Repo.Create(ctx, tpl); err != nil {
		tpl.ID = 0
		if generatedUUID {
			tpl.UUID = ""
		}
		if written != "" {
			s.removeWritten(ctx, written, log)
			tpl.Path = ""
		}
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, errs.Wrap(err, errs.CodeDuplicateTemplate, "template already exists")
		}
		return nil, errs.Wrap(err, errs.CodeStorageFailure, "cannot save template")
	}

	log.Info("Template gespeichert", zap.Uint("id", tpl.ID), zap.String("uuid", tpl.UUID), zap.String("path", tpl.Path))
	return tpl, nil
}

// removeWritten macht einen Dateischreibvorgang rückgängig (best effort).
func (s *TemplateStore) removeWritten(ctx context.Context, path string, log *zap.Logger) {
	if err := s.Files.Delete(context.WithoutCancel(ctx), path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Error("Konnte Template-Datei nach fehlgeschlagenem Speichern nicht entfernen", zap.String("path", path), zap.Error(err))
		return
	}
	log.Warn("Template-Datei nach fehlgeschlagenem Speichern entfernt", zap.String("path", path))
}

// Purge löscht zuerst den Datensatz, dann die Datei. Eine bereits fehlende Datei gilt als
// erledigt; jeder andere Dateifehler wird gemeldet.
func (s *TemplateStore) Purge(ctx context.Context, tpl *models.Template) error {
	log := s.Logger.With(zap.Uint("id", tpl.ID), zap.String("path", tpl.Path))

	if tpl.Path != "" && !s.Files.Contains(tpl.Path) {
		return errs.Newf(errs.CodeStorageFailure, "template file %s is outside the template home", tpl.Path)
	}
	if err := s.Repo.Delete(ctx, tpl.ID); err != nil {
		return errs.Wrap(err, errs.CodeStorageFailure, "cannot delete template record")
	}
	if tpl.Path == "" {
		log.Info("Template gelöscht")
		return nil
	}

	err := s.Files.Delete(context.WithoutCancel(ctx), tpl.Path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		log.Warn("Template-Datei war bereits entfernt")
	case err != nil:
		return errs.Wrap(err, errs.CodeStorageFailure, "template record deleted but file could not be removed")
	}
	log.Info("Template gelöscht")
	return nil
}

// GetByID gibt nil ohne Fehler zurück, wenn es keinen Treffer gibt.
func (s *TemplateStore) GetByID(ctx context.Context, id uint) (*models.Template, error) {
	return orNil(s.Repo.GetByID(ctx, id))
}

// GetByUUID gibt nil ohne Fehler zurück, wenn es keinen Treffer gibt.
func (s *TemplateStore) GetByUUID(ctx context.Context, uuid string) (*models.Template, error) {
	return orNil(s.Repo.GetByUUID(ctx, uuid))
}

// GetByIdentifier gibt nil ohne Fehler zurück, wenn es keinen Treffer gibt.
func (s *TemplateStore) GetByIdentifier(ctx context.Context, identifier string) (*models.Template, error) {
	return orNil(s.Repo.GetByIdentifier(ctx, identifier))
}

// List gibt alle Templates nach ID sortiert zurück.
func (s *TemplateStore) List(ctx context.Context) ([]models.Template, error) {
	templates, err := s.Repo.List(ctx)
	if err != nil {
		return nil, errs.Wrap(err, errs.CodeStorageFailure, "cannot list templates")
	}
	return templates, nil
}

// ReadContent liest das gespeicherte Originaldokument.
func (s *TemplateStore) ReadContent(ctx context.Context, tpl *models.Template) ([]byte, error) {
	if tpl.Path == "" {
		return nil, errs.New(errs.CodeStorageFailure, "template has no stored content")
	}
	content, err := s.Files.Read(ctx, tpl.Path)
	if err != nil {
		return nil, errs.Wrap(err, errs.CodeStorageFailure, "cannot read template file")
	}
	return content, nil
}

func orNil(tpl *models.Template, err error) (*models.Template, error) {
	if errors.Is(err, repository.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, errs.Wrap(err, errs.CodeStorageFailure, "template lookup failed")
	}
	return tpl, nil
}
