package parser

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// MetadataPrefix ist der Namensraum der Metadaten-Marker im <head>.
const MetadataPrefix = "dcterms."

// vocabulary bildet die bekannten dcterms-Schlüssel auf die Felder des ParsedTemplate ab.
var vocabulary = map[string]func(*ParsedTemplate) *string{
	"title":       func(p *ParsedTemplate) *string { return &p.Title },
	"description": func(p *ParsedTemplate) *string { return &p.Description },
	"identifier":  func(p *ParsedTemplate) *string { return &p.Identifier },
	"type":        func(p *ParsedTemplate) *string { return &p.Type },
	"language":    func(p *ParsedTemplate) *string { return &p.Language },
	"publisher":   func(p *ParsedTemplate) *string { return &p.Publisher },
	"rights":      func(p *ParsedTemplate) *string { return &p.Rights },
	"license":     func(p *ParsedTemplate) *string { return &p.License },
	"date":        func(p *ParsedTemplate) *string { return &p.Date },
	"creator":     func(p *ParsedTemplate) *string { return &p.Creator },
	"contributor": func(p *ParsedTemplate) *string { return &p.Contributor },
}

// readMetadata übernimmt <meta name="dcterms.x" content="..."> aus dem <head>.
// Unbekannte Schlüssel werden ignoriert, bei Duplikaten gewinnt der letzte.
func readMetadata(head *html.Node, pt *ParsedTemplate) {
	if head == nil {
		return
	}
	for c := head.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode || c.DataAtom != atom.Meta {
			continue
		}
		name, ok := attr(c, "name")
		if !ok {
			continue
		}
		name = strings.ToLower(strings.TrimSpace(name))
		if !strings.HasPrefix(name, MetadataPrefix) {
			continue
		}
		field, known := vocabulary[strings.TrimPrefix(name, MetadataPrefix)]
		if !known {
			continue
		}
		content, _ := attr(c, "content")
		*field(pt) = strings.TrimSpace(content)
	}
}
