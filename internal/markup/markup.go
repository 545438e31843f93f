// Package markup renders generated stories for display. Model output is
// loosely formatted markdown: an optional "# Title" line, blank-line
// separated paragraphs and inline emphasis.
package markup

import (
	"html"
	"regexp"
	"strings"
)

var (
	boldRe   = regexp.MustCompile(`\*\*([^*\n]+)\*\*|__([^_\n]+)__`)
	italicRe = regexp.MustCompile(`\*([^*\n]+)\*|\b_([^_\n]+)_\b`)
	headerRe = regexp.MustCompile(`^#{1,4} +(.+)$`)
	rulerRe  = regexp.MustCompile(`^(?:---+|\*\*\*+|___+)\s*$`)
	breakRe  = regexp.MustCompile(`\n\s*\n`)
)

// ToHTML renders story as an HTML fragment. All text is escaped before
// markdown is applied.
func ToHTML(story string) string {
	story = strings.TrimSpace(story)
	if story == "" {
		return ""
	}

	var b strings.Builder
	for i, block := range paragraphs(story) {
		lines := strings.Split(block, "\n")
		if m := headerRe.FindStringSubmatch(lines[0]); m != nil {
			tag := "h3"
			if i == 0 {
				tag = "h2"
			}
			b.WriteString("<" + tag + ` class="story-title">`)
			b.WriteString(inline(html.EscapeString(strings.TrimSpace(m[1]))))
			b.WriteString("</" + tag + ">")
			lines = lines[1:]
		}
		if len(lines) == 1 && rulerRe.MatchString(lines[0]) {
			b.WriteString("<hr>")
			continue
		}
		body := strings.TrimSpace(strings.Join(lines, "\n"))
		if body == "" {
			continue
		}
		b.WriteString(`<p class="story-text">`)
		b.WriteString(strings.ReplaceAll(inline(html.EscapeString(body)), "\n", "<br>"))
		b.WriteString("</p>")
	}
	return b.String()
}

// Page wraps ToHTML in a standalone document titled title.
func Page(title, story string) string {
	var b strings.Builder
	b.WriteString("<!DOCTYPE html>\n<html><head><meta charset=\"utf-8\"><title>")
	b.WriteString(html.EscapeString(title))
	b.WriteString("</title></head>\n<body>\n")
	b.WriteString(ToHTML(story))
	b.WriteString("\n</body></html>\n")
	return b.String()
}

// Plain strips emphasis, header and ruler markers, leaving the text as a
// reader would see it.
func Plain(story string) string {
	lines := strings.Split(strings.TrimSpace(story), "\n")
	out := lines[:0]
	for _, line := range lines {
		if rulerRe.MatchString(line) {
			continue
		}
		if m := headerRe.FindStringSubmatch(line); m != nil {
			line = m[1]
		}
		line = boldRe.ReplaceAllString(line, "$1$2")
		line = italicRe.ReplaceAllString(line, "$1$2")
		out = append(out, line)
	}
	return strings.Join(out, "\n")
}

func inline(escaped string) string {
	escaped = boldRe.ReplaceAllString(escaped, "<b>$1$2</b>")
	return italicRe.ReplaceAllString(escaped, "<i>$1$2</i>")
}

func paragraphs(s string) []string {
	var out []string
	for _, p := range breakRe.Split(s, -1) {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
