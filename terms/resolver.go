// Package terms löst Konzept-Marker aus Template-Bodies gegen den lokalen Katalog auf.
package terms

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"report-templates/errs"
	"report-templates/models"
	"report-templates/repository"
)

// Term ist ein Marker, zu dem ein bekanntes Konzept gefunden wurde.
type Term struct {
	MarkerText string
	Concept    *models.ConceptReferenceTerm
}

// Catalog ist der Katalog codierter Konzepte. repository.ConceptRepository erfüllt es.
type Catalog interface {
	Lookup(ctx context.Context, source, code string) (*models.ConceptReferenceTerm, error)
}

// Resolver bildet Marker-Texte auf Terms ab.
type Resolver struct {
	catalog Catalog
	logger  *zap.Logger
}

// NewResolver erstellt einen Resolver.
func NewResolver(catalog Catalog, logger *zap.Logger) *Resolver {
	return &Resolver{catalog: catalog, logger: logger}
}

// Resolve löst alle Marker in Eingabereihenfolge auf. Marker ohne Treffer im Katalog werden
// verworfen, nur Katalogfehler führen zum Abbruch.
func (r *Resolver) Resolve(ctx context.Context, markers []string) ([]Term, error) {
	resolved := make([]Term, 0, len(markers))
	for _, marker := range markers {
		source, code := SplitMarker(marker)
		if code == "" {
			continue
		}
		concept, err := r.catalog.Lookup(ctx, source, code)
		if errors.Is(err, repository.ErrNotFound) || (err == nil && concept == nil) {
			r.logger.Debug("Kein Konzept für Marker gefunden", zap.String("marker", marker))
			continue
		}
		if err != nil {
			return nil, errs.Wrap(err, errs.CodeStorageFailure, "concept lookup failed")
		}
		resolved = append(resolved, Term{MarkerText: marker, Concept: concept})
	}
	return resolved, nil
}

// SplitMarker zerlegt "SOURCE:CODE" in seine Bestandteile. Ohne Doppelpunkt ist source leer.
func SplitMarker(marker string) (source, code string) {
	marker = strings.TrimSpace(marker)
	if s, c, ok := strings.Cut(marker, ":"); ok {
		return strings.TrimSpace(s), strings.TrimSpace(c)
	}
	return "", marker
}

// ToTemplateTerms wandelt aufgelöste Terms in die persistierten Datensätze um.
func ToTemplateTerms(resolved []Term) []models.TemplateTerm {
	out := make([]models.TemplateTerm, 0, len(resolved))
	for i, t := range resolved {
		out = append(out, models.TemplateTerm{
			Position:           i,
			MarkerText:         t.MarkerText,
			ConceptReferenceID: t.Concept.ID,
			Source:             t.Concept.Source,
			Code:               t.Concept.Code,
		})
	}
	return out
}
