// Package parser wandelt ein MRRT-Template (HTML mit dcterms-Metadaten) in ein ParsedTemplate um.
// Das Paket macht kein I/O.
package parser

import (
	"bytes"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"report-templates/errs"
)

// ParsedTemplate ist das transiente Ergebnis von Parse.
type ParsedTemplate struct {
	Charset string

	Title       string
	Description string
	Identifier  string
	Type        string
	Language    string
	Publisher   string
	Rights      string
	License     string
	Date        string
	Creator     string
	Contributor string

	// Inhalt des <body> (inneres HTML)
	Body string
	// Rohe Marker-Texte der Konzept-Platzhalter in Dokumentreihenfolge, Duplikate bleiben erhalten
	TermReferences []string
}

// Parse liest ein Template-Dokument. Fehlt die Zeichensatz-Deklaration im <head> oder ist
// das Dokument kein verarbeitbares Markup, wird ein Fehler mit errs.CodeMalformedTemplate
// zurückgegeben.
func Parse(raw string) (*ParsedTemplate, error) {
	raw = stripBOM(raw)
	if err := validateInput(raw); err != nil {
		return nil, err
	}
	doc, err := html.Parse(strings.NewReader(raw))
	if err != nil {
		return nil, errs.Wrap(err, errs.CodeMalformedTemplate, "document is not parseable markup")
	}

	head := findElement(doc, atom.Head)
	body := findElement(doc, atom.Body)

	pt := &ParsedTemplate{Charset: declaredCharset(head)}
	if err := validateParsed(pt); err != nil {
		return nil, err
	}

	readMetadata(head, pt)

	pt.Body, err = renderChildren(body)
	if err != nil {
		return nil, errs.Wrap(err, errs.CodeMalformedTemplate, "document body cannot be serialized")
	}
	pt.TermReferences = append(collectCodedTerms(head), collectMarkers(body)...)
	return pt, nil
}

// ExtractBody liefert das innere HTML des <body> eines bereits gespeicherten Dokuments.
// Es wird nicht validiert; gespeicherte Templates gelten als geprüft.
func ExtractBody(raw string) (string, error) {
	doc, err := html.Parse(strings.NewReader(stripBOM(raw)))
	if err != nil {
		return "", err
	}
	return renderChildren(findElement(doc, atom.Body))
}

// stripBOM entfernt eine führende UTF-8-BOM. Der HTML-Parser würde sie sonst als Text
// behandeln und den <body> vor dem <head> öffnen.
func stripBOM(raw string) string {
	return strings.TrimPrefix(raw, "\uFEFF")
}

func findElement(n *html.Node, a atom.Atom) *html.Node {
	if n == nil {
		return nil
	}
	if n.Type == html.ElementNode && n.DataAtom == a {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findElement(c, a); found != nil {
			return found
		}
	}
	return nil
}

func renderChildren(n *html.Node) (string, error) {
	if n == nil {
		return "", nil
	}
	var buf bytes.Buffer
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if err := html.Render(&buf, c); err != nil {
			return "", err
		}
	}
	return strings.TrimSpace(buf.String()), nil
}

func attr(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Namespace == "" && strings.EqualFold(a.Key, key) {
			return a.Val, true
		}
	}
	return "", false
}
