package parser

import (
	"strings"

	"golang.org/x/net/html"
)

const (
	// MarkerAttribute kennzeichnet einen Konzept-Platzhalter, der Wert ist der Marker-Text.
	MarkerAttribute = "data-concept-ref"
	// MarkerClass kennzeichnet einen Platzhalter, dessen Textinhalt der Marker-Text ist.
	MarkerClass = "concept-ref"
)

// collectMarkers sammelt alle Konzept-Marker unterhalb von n in Dokumentreihenfolge.
func collectMarkers(n *html.Node) []string {
	var markers []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			if m, ok := markerText(n); ok {
				markers = append(markers, m)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	if n != nil {
		walk(n)
	}
	return markers
}

func markerText(n *html.Node) (string, bool) {
	if v, ok := attr(n, MarkerAttribute); ok {
		v = strings.TrimSpace(v)
		return v, v != ""
	}
	if hasClass(n, MarkerClass) {
		t := strings.TrimSpace(textContent(n))
		return t, t != ""
	}
	return "", false
}

func hasClass(n *html.Node, class string) bool {
	v, ok := attr(n, "class")
	if !ok {
		return false
	}
	for _, c := range strings.Fields(v) {
		if c == class {
			return true
		}
	}
	return false
}

func textContent(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return b.String()
}
