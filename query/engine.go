package query

import (
	"context"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"report-templates/models"
)

// Source liefert die Kandidatenmenge in stabiler Reihenfolge.
type Source interface {
	List(ctx context.Context) ([]models.Template, error)
}

// Engine wertet Criteria gegen alle gespeicherten Templates aus.
type Engine struct {
	source Source
}

// NewEngine erstellt eine Engine über source.
func NewEngine(source Source) *Engine {
	return &Engine{source: source}
}

// Find gibt alle Templates zurück, die jedes gesetzte Feld als Teilstring enthalten
// (Groß-/Kleinschreibung egal). Ohne Treffer wird eine leere, nicht-nil Slice zurückgegeben.
func (e *Engine) Find(ctx context.Context, c *Criteria) ([]models.Template, error) {
	candidates, err := e.source.List(ctx)
	if err != nil {
		return nil, err
	}
	matches := make([]models.Template, 0, len(candidates))
	for _, tpl := range candidates {
		if Matches(c, &tpl) {
			matches = append(matches, tpl)
		}
	}
	return matches, nil
}

// Matches prüft ein einzelnes Template gegen c.
func Matches(c *Criteria, tpl *models.Template) bool {
	if c == nil {
		return true
	}
	checks := []struct {
		filter optional
		field  string
	}{
		{c.title, tpl.Title},
		{c.publisher, tpl.Publisher},
		{c.license, tpl.License},
		{c.creator, tpl.Creator},
	}
	for _, chk := range checks {
		if chk.filter.set && !containsFold(chk.field, chk.filter.value) {
			return false
		}
	}
	return true
}

// containsFold vergleicht nach Case-Folding und NFC-Normalisierung, damit zerlegte und
// zusammengesetzte Zeichen (z.B. "e\u0301" und "é") gleich behandelt werden.
func containsFold(s, substr string) bool {
	return strings.Contains(foldString(s), foldString(substr))
}

func foldString(s string) string {
	out, _, err := transform.String(transform.Chain(norm.NFC, cases.Fold(), norm.NFC), s)
	if err != nil {
		return s
	}
	return out
}
