package parser

import (
	"encoding/xml"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// AttributesScriptType kennzeichnet den <script>-Block im <head>, der die
// <template_attributes> eines IHE-MRRT-Templates als XML enthält.
const AttributesScriptType = "text/xml"

// collectCodedTerms liest alle <term><code scheme=".." value=".."/></term> aus den
// Template-Attributen und gibt sie als "SCHEME:VALUE"-Marker in Dokumentreihenfolge zurück.
func collectCodedTerms(head *html.Node) []string {
	if head == nil {
		return nil
	}
	var markers []string
	for c := head.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode || c.DataAtom != atom.Script {
			continue
		}
		if t, _ := attr(c, "type"); !strings.EqualFold(strings.TrimSpace(t), AttributesScriptType) {
			continue
		}
		markers = append(markers, decodeCodedTerms(textContent(c))...)
	}
	return markers
}

// decodeCodedTerms arbeitet tolerant: bei kaputtem XML bleiben die bis dahin gelesenen
// Marker erhalten.
func decodeCodedTerms(data string) []string {
	dec := xml.NewDecoder(strings.NewReader(data))
	dec.Strict = false
	dec.AutoClose = xml.HTMLAutoClose

	var markers []string
	termDepth := 0
	for {
		tok, err := dec.Token()
		if err != nil {
			return markers
		}
		switch el := tok.(type) {
		case xml.StartElement:
			switch strings.ToLower(el.Name.Local) {
			case "term":
				termDepth++
			case "code":
				if termDepth == 0 {
					continue
				}
				if m, ok := codeMarker(el.Attr); ok {
					markers = append(markers, m)
				}
			}
		case xml.EndElement:
			if strings.EqualFold(el.Name.Local, "term") && termDepth > 0 {
				termDepth--
			}
		}
	}
}

func codeMarker(attrs []xml.Attr) (string, bool) {
	var scheme, value string
	for _, a := range attrs {
		switch strings.ToLower(a.Name.Local) {
		case "scheme":
			scheme = strings.TrimSpace(a.Value)
		case "value":
			value = strings.TrimSpace(a.Value)
		}
	}
	if value == "" {
		return "", false
	}
	if scheme == "" {
		return value, true
	}
	return scheme + ":" + value, true
}
