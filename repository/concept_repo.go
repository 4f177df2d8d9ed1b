package repository

import (
	"context"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"report-templates/models"
)

// ConceptRepository ist der lokale Katalog codierter Konzepte.
type ConceptRepository interface {
	// Lookup sucht ein Konzept. Ist source leer, wird nur nach code gesucht.
	Lookup(ctx context.Context, source, code string) (*models.ConceptReferenceTerm, error)
	Upsert(ctx context.Context, concepts []models.ConceptReferenceTerm) error
}

type conceptRepository struct {
	db *gorm.DB
}

// NewConceptRepository erstellt ein GORM-basiertes ConceptRepository.
func NewConceptRepository(db *gorm.DB) ConceptRepository {
	return &conceptRepository{db: db}
}

func (r *conceptRepository) Lookup(ctx context.Context, source, code string) (*models.ConceptReferenceTerm, error) {
	query := r.db.WithContext(ctx).Where("code = ?", strings.TrimSpace(code))
	if source = normalizeSource(source); source != "" {
		query = query.Where("source = ?", source)
	}
	var concept models.ConceptReferenceTerm
	if err := query.Order("id ASC").First(&concept).Error; err != nil {
		return nil, translate(err)
	}
	return &concept, nil
}

// Upsert legt Konzepte an oder aktualisiert den Namen bestehender (source, code)-Paare.
func (r *conceptRepository) Upsert(ctx context.Context, concepts []models.ConceptReferenceTerm) error {
	if len(concepts) == 0 {
		return nil
	}
	rows := make([]models.ConceptReferenceTerm, len(concepts))
	for i, c := range concepts {
		rows[i] = models.ConceptReferenceTerm{
			Source: normalizeSource(c.Source),
			Code:   strings.TrimSpace(c.Code),
			Name:   strings.TrimSpace(c.Name),
		}
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "source"}, {Name: "code"}},
		DoUpdates: clause.AssignmentColumns([]string{"name"}),
	}).Create(&rows).Error
}

func normalizeSource(source string) string {
	return strings.ToUpper(strings.TrimSpace(source))
}
