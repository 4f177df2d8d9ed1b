package models

// TemplateTerm verknüpft einen Platzhalter im Template-Body mit einem bekannten Konzept.
type TemplateTerm struct {
	ID         uint `json:"-" gorm:"primaryKey"`
	TemplateID uint `json:"-" gorm:"index;not null"`
	Position   int  `json:"position"`

	MarkerText         string `json:"marker_text"`
	ConceptReferenceID uint   `json:"concept_reference_id" gorm:"index"`
	Source             string `json:"source"`
	Code               string `json:"code"`
}

// TableName gibt explizit den Tabellennamen an.
func (TemplateTerm) TableName() string {
	return "report_template_terms"
}
