// Package query filtert gespeicherte Templates anhand optionaler Suchkriterien.
package query

type optional struct {
	value string
	set   bool
}

// Criteria ist ein unveränderliches Suchkriterium. Nicht gesetzte Felder schränken nicht ein;
// ein auf "" gesetztes Feld ist gesetzt (und passt auf alles).
type Criteria struct {
	title     optional
	publisher optional
	license   optional
	creator   optional
}

// Title liefert den Titel-Filter und ob er gesetzt ist.
func (c *Criteria) Title() (string, bool) { return c.title.value, c.title.set }

// Publisher liefert den Publisher-Filter und ob er gesetzt ist.
func (c *Criteria) Publisher() (string, bool) { return c.publisher.value, c.publisher.set }

// License liefert den Lizenz-Filter und ob er gesetzt ist.
func (c *Criteria) License() (string, bool) { return c.license.value, c.license.set }

// Creator liefert den Creator-Filter und ob er gesetzt ist.
func (c *Criteria) Creator() (string, bool) { return c.creator.value, c.creator.set }

// IsEmpty meldet, ob kein einziges Feld gesetzt ist.
func (c *Criteria) IsEmpty() bool {
	return !c.title.set && !c.publisher.set && !c.license.set && !c.creator.set
}

// Builder baut Criteria schrittweise auf.
//
//	c := query.NewBuilder().WithTitle("CT").WithCreator("ihe").Build()
type Builder struct {
	c Criteria
}

// NewBuilder startet ein leeres Kriterium.
func NewBuilder() *Builder {
	return &Builder{}
}

func (b *Builder) WithTitle(title string) *Builder {
	b.c.title = optional{value: title, set: true}
	return b
}

func (b *Builder) WithPublisher(publisher string) *Builder {
	b.c.publisher = optional{value: publisher, set: true}
	return b
}

func (b *Builder) WithLicense(license string) *Builder {
	b.c.license = optional{value: license, set: true}
	return b
}

func (b *Builder) WithCreator(creator string) *Builder {
	b.c.creator = optional{value: creator, set: true}
	return b
}

// Build gibt eine Kopie zurück; spätere With-Aufrufe verändern sie nicht.
func (b *Builder) Build() *Criteria {
	c := b.c
	return &c
}
