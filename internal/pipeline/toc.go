package pipeline

import (
	"html"
	"regexp"
	"strconv"
	"strings"
)

// tocMarkerPattern matches a paragraph holding only the [TOC] marker.
var tocMarkerPattern = regexp.MustCompile(`<p>\s*\[TOC\]\s*</p>`)

// headingPattern extracts heading level, id, and inner content.
var headingPattern = regexp.MustCompile(`(?is)<h([1-6])[^>]*\bid="([^"]*)"[^>]*>(.*?)</h[1-6]>`)

// htmlTagPattern matches HTML tags for stripping.
var htmlTagPattern = regexp.MustCompile(`<[^>]*>`)

// heading holds one TOC entry.
type heading struct {
	Level int
	ID    string
	Text  string
}

// stripHTMLTags removes tags and decodes entities, leaving plain text.
func stripHTMLTags(s string) string {
	s = htmlTagPattern.ReplaceAllString(s, "")
	s = html.UnescapeString(s)
	return strings.TrimSpace(s)
}

// extractHeadings returns every heading with an id attribute, in order.
func extractHeadings(body string) []heading {
	matches := headingPattern.FindAllStringSubmatch(body, -1)
	headings := make([]heading, 0, len(matches))
	for _, m := range matches {
		level, _ := strconv.Atoi(m[1])
		headings = append(headings, heading{
			Level: level,
			ID:    m[2],
			Text:  stripHTMLTags(m[3]),
		})
	}
	return headings
}

// InsertTOC replaces [TOC] marker paragraphs with a nested list of the
// body's headings. A body without a marker is returned unchanged.
func InsertTOC(body string) string {
	if !tocMarkerPattern.MatchString(body) {
		return body
	}
	toc := buildTOC(extractHeadings(body))
	return tocMarkerPattern.ReplaceAllLiteralString(body, toc)
}

// buildTOC renders headings as nested <ul> lists inside <nav class="toc">.
// A deeper heading opens a sublist under the previous entry; a shallower
// one closes sublists until its level is reached.
func buildTOC(headings []heading) string {
	var buf strings.Builder
	buf.WriteString(`<nav class="toc">`)

	var open []int // levels of open <ul> elements
	for _, h := range headings {
		switch {
		case len(open) == 0:
			buf.WriteString("<ul>")
			open = append(open, h.Level)
		case h.Level > open[len(open)-1]:
			buf.WriteString("<ul>")
			open = append(open, h.Level)
		default:
			buf.WriteString("</li>")
			for len(open) > 1 && h.Level < open[len(open)-1] {
				buf.WriteString("</ul></li>")
				open = open[:len(open)-1]
			}
		}

		buf.WriteString(`<li><a href="#`)
		buf.WriteString(html.EscapeString(h.ID))
		buf.WriteString(`">`)
		buf.WriteString(html.EscapeString(h.Text))
		buf.WriteString(`</a>`)
	}

	if len(open) > 0 {
		buf.WriteString("</li>")
		for len(open) > 1 {
			buf.WriteString("</ul></li>")
			open = open[:len(open)-1]
		}
		buf.WriteString("</ul>")
	}

	buf.WriteString(`</nav>`)
	return buf.String()
}
