package terms

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"report-templates/models"
)

// catalogFile ist das Format der Seed-Datei:
//
//	concepts:
//	  - source: RADLEX
//	    code: RID5825
//	    name: lung
type catalogFile struct {
	Concepts []models.ConceptReferenceTerm `yaml:"concepts"`
}

// Seeder ist die schreibende Seite des Katalogs.
type Seeder interface {
	Upsert(ctx context.Context, concepts []models.ConceptReferenceTerm) error
}

// LoadCatalogFile liest eine YAML-Seed-Datei mit Konzepten.
func LoadCatalogFile(path string) ([]models.ConceptReferenceTerm, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var f catalogFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse concept catalog %s: %w", path, err)
	}
	for i, c := range f.Concepts {
		if c.Source == "" || c.Code == "" {
			return nil, fmt.Errorf("concept catalog %s: entry %d needs source and code", path, i)
		}
	}
	return f.Concepts, nil
}

// SeedCatalog lädt die Datei und schreibt ihren Inhalt in den Katalog.
func SeedCatalog(ctx context.Context, seeder Seeder, path string) (int, error) {
	concepts, err := LoadCatalogFile(path)
	if err != nil {
		return 0, err
	}
	if err := seeder.Upsert(ctx, concepts); err != nil {
		return 0, fmt.Errorf("seed concept catalog: %w", err)
	}
	return len(concepts), nil
}
