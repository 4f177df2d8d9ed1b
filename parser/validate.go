package parser

import (
	"strings"
	"unicode/utf8"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"report-templates/errs"
)

var (
	errEmptyDocument  = validation.NewError("template_empty", "document is empty")
	errInvalidUTF8    = validation.NewError("template_encoding", "document is not valid UTF-8")
	errMissingCharset = validation.NewError("template_charset", "missing charset declaration")
)

var validUTF8 = validation.By(func(value interface{}) error {
	s, _ := value.(string)
	if !utf8.ValidString(s) {
		return errInvalidUTF8
	}
	return nil
})

// validateInput prüft die Voraussetzungen, bevor das Dokument geparst wird.
func validateInput(raw string) error {
	err := validation.Validate(strings.TrimSpace(raw),
		validation.Required.ErrorObject(errEmptyDocument),
		validUTF8,
	)
	return malformed(err)
}

// validateParsed läuft nach dem Aufbau des Baums, aber bevor Metadaten übernommen werden.
func validateParsed(pt *ParsedTemplate) error {
	err := validation.Validate(pt.Charset, validation.Required.ErrorObject(errMissingCharset))
	return malformed(err)
}

func malformed(err error) error {
	if err == nil {
		return nil
	}
	return errs.New(errs.CodeMalformedTemplate, err.Error())
}

// declaredCharset sucht <meta charset="..."> direkt im <head>.
func declaredCharset(head *html.Node) string {
	if head == nil {
		return ""
	}
	for c := head.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode || c.DataAtom != atom.Meta {
			continue
		}
		if v, ok := attr(c, "charset"); ok && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}
