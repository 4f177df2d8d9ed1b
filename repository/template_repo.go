package repository

import (
	"context"

	"gorm.io/gorm"

	"report-templates/models"
)

// TemplateRepository ist der Metadaten-Store für Templates.
type TemplateRepository interface {
	Create(ctx context.Context, tpl *models.Template) error
	GetByID(ctx context.Context, id uint) (*models.Template, error)
	GetByUUID(ctx context.Context, uuid string) (*models.Template, error)
	GetByIdentifier(ctx context.Context, identifier string) (*models.Template, error)
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context) ([]models.Template, error)
	Paths(ctx context.Context) ([]string, error)
}

type templateRepository struct {
	db *gorm.DB
}

// NewTemplateRepository erstellt ein GORM-basiertes TemplateRepository.
func NewTemplateRepository(db *gorm.DB) TemplateRepository {
	return &templateRepository{db: db}
}

// Create legt das Template samt Terms in einer Transaktion an.
func (r *templateRepository) Create(ctx context.Context, tpl *models.Template) error {
	return translate(r.db.WithContext(ctx).Create(tpl).Error)
}

func (r *templateRepository) GetByID(ctx context.Context, id uint) (*models.Template, error) {
	return r.first(ctx, "id = ?", id)
}

func (r *templateRepository) GetByUUID(ctx context.Context, uuid string) (*models.Template, error) {
	return r.first(ctx, "uuid = ?", uuid)
}

func (r *templateRepository) GetByIdentifier(ctx context.Context, identifier string) (*models.Template, error) {
	if identifier == "" {
		return nil, ErrNotFound
	}
	return r.first(ctx, "identifier = ?", identifier)
}

func (r *templateRepository) first(ctx context.Context, query string, arg any) (*models.Template, error) {
	var tpl models.Template
	err := r.withTerms(ctx).Where(query, arg).First(&tpl).Error
	if err != nil {
		return nil, translate(err)
	}
	return &tpl, nil
}

// Delete entfernt Template und Terms. Ein bereits fehlender Datensatz ist kein Fehler.
func (r *templateRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("template_id = ?", id).Delete(&models.TemplateTerm{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Template{}, id).Error
	})
}

// List gibt alle Templates in stabiler Reihenfolge (nach ID) zurück.
func (r *templateRepository) List(ctx context.Context) ([]models.Template, error) {
	templates := []models.Template{}
	if err := r.withTerms(ctx).Order("id ASC").Find(&templates).Error; err != nil {
		return nil, err
	}
	return templates, nil
}

// Paths liefert alle gesetzten Dateipfade, z.B. für das Aufräumen verwaister Dateien.
func (r *templateRepository) Paths(ctx context.Context) ([]string, error) {
	var paths []string
	err := r.db.WithContext(ctx).Model(&models.Template{}).
		Where("path <> ''").
		Pluck("path", &paths).Error
	return paths, err
}

func (r *templateRepository) withTerms(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Preload("Terms", func(db *gorm.DB) *gorm.DB {
		return db.Order("position ASC")
	})
}
