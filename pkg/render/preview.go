package render

import (
	"strings"

	"golang.org/x/net/html"
)

// skippedTags hold content that is never visible on the page.
var skippedTags = map[string]bool{
	"script":   true,
	"style":    true,
	"head":     true,
	"noscript": true,
	"template": true,
	"svg":      true,
}

// blockTags start a new line in the text preview.
var blockTags = map[string]bool{
	"address": true, "article": true, "aside": true, "blockquote": true,
	"br": true, "div": true, "dl": true, "dt": true, "dd": true,
	"fieldset": true, "figure": true, "footer": true, "form": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"header": true, "hr": true, "li": true, "main": true, "nav": true,
	"ol": true, "p": true, "pre": true, "section": true, "table": true,
	"tr": true, "ul": true, "body": true, "html": true,
}

// TextPreview renders the visible text of an HTML document wrapped to width
// columns. It is the terminal stand-in for a rendered page: layout and styling
// are dropped, block elements become line breaks, and list items get bullets.
func TextPreview(doc string, width int) string {
	if width < 10 {
		width = 10
	}

	var (
		paragraphs []string
		current    strings.Builder
		skipDepth  int
	)

	flush := func() {
		text := strings.Join(strings.Fields(current.String()), " ")
		if text != "" {
			paragraphs = append(paragraphs, text)
		}
		current.Reset()
	}

	z := html.NewTokenizer(strings.NewReader(doc))
	for {
		tt := z.Next()
		switch tt {
		case html.ErrorToken:
			flush()
			return wrapParagraphs(paragraphs, width)

		case html.StartTagToken, html.SelfClosingTagToken:
			name, _ := z.TagName()
			tag := string(name)
			if skippedTags[tag] && tt == html.StartTagToken {
				skipDepth++
				continue
			}
			if skipDepth > 0 {
				continue
			}
			if blockTags[tag] {
				flush()
			}
			if tag == "li" {
				current.WriteString("• ")
			}

		case html.EndTagToken:
			name, _ := z.TagName()
			tag := string(name)
			if skippedTags[tag] {
				if skipDepth > 0 {
					skipDepth--
				}
				continue
			}
			if skipDepth == 0 && blockTags[tag] {
				flush()
			}

		case html.TextToken:
			if skipDepth > 0 {
				continue
			}
			current.WriteString(string(z.Text()))
			current.WriteString(" ")
		}
	}
}

func wrapParagraphs(paragraphs []string, width int) string {
	var b strings.Builder
	for i, p := range paragraphs {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(wrapText(p, width))
	}
	return b.String()
}

// wrapText wraps text to a specified width, breaking at word boundaries
func wrapText(text string, width int) string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return ""
	}

	var b strings.Builder
	line := ""
	for _, word := range words {
		if line != "" && len([]rune(line))+len([]rune(word))+1 > width {
			b.WriteString(line + "\n")
			line = word
			continue
		}
		if line != "" {
			line += " "
		}
		line += word
	}
	if line != "" {
		b.WriteString(line + "\n")
	}
	return b.String()
}
