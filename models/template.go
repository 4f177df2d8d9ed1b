package models

import (
	"time"
)

// Template repräsentiert ein gespeichertes Befund-Template samt Dublin-Core-Metadaten.
type Template struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Externe ID, wird beim Anlegen vergeben und nie geändert
	UUID string `json:"uuid" gorm:"column:uuid;size:36;uniqueIndex;not null"`

	// Dublin-Core-Metadaten (dcterms.*)
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty" gorm:"type:text"`
	Identifier  string `json:"identifier,omitempty" gorm:"size:255;default:'';uniqueIndex:idx_report_templates_identifier,where:identifier <> ''"`
	Type        string `json:"type,omitempty"`
	Language    string `json:"language,omitempty"`
	Publisher   string `json:"publisher,omitempty"`
	Rights      string `json:"rights,omitempty" gorm:"type:text"`
	License     string `json:"license,omitempty"`
	Date        string `json:"date,omitempty"`
	Creator     string `json:"creator,omitempty"`
	Contributor string `json:"contributor,omitempty"`

	// Ablageort der Originaldatei unterhalb von TEMPLATE_HOME; leer, wenn ohne Inhalt gespeichert
	Path string `json:"-" gorm:"type:text"`

	// Aufgelöste Konzept-Referenzen in Dokumentreihenfolge
	Terms []TemplateTerm `json:"terms,omitempty" gorm:"foreignKey:TemplateID;constraint:OnDelete:CASCADE"`
}

// TableName gibt explizit den Tabellennamen an.
func (Template) TableName() string {
	return "report_templates"
}
