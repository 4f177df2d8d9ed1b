package models

// ConceptReferenceTerm ist ein Eintrag im lokalen Katalog codierter Konzepte (z.B. RadLex).
type ConceptReferenceTerm struct {
	ID     uint   `json:"id" gorm:"primaryKey"`
	Source string `json:"source" yaml:"source" gorm:"size:64;uniqueIndex:idx_concept_source_code;not null"` // z.B. "RADLEX"
	Code   string `json:"code" yaml:"code" gorm:"size:128;uniqueIndex:idx_concept_source_code;not null"`   // z.B. "RID5825"
	Name   string `json:"name,omitempty" yaml:"name"`
}

// TableName gibt explizit den Tabellennamen an.
func (ConceptReferenceTerm) TableName() string {
	return "concept_reference_terms"
}
