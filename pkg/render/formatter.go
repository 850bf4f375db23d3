package render

import "strings"

// FormatHTML indents HTML for the code view. It splits on "><" boundaries and
// tracks tag depth greedily: closing tags dedent before they are written, and
// opening tags that are neither self-closing nor closed on the same fragment
// indent what follows. Nested elements sharing a line are not reflowed.
func FormatHTML(html string) string {
	fragments := strings.Split(strings.ReplaceAll(html, "><", ">\n<"), "\n")

	lines := make([]string, 0, len(fragments))
	indent := 0
	for _, fragment := range fragments {
		trimmed := strings.TrimSpace(fragment)

		if strings.HasPrefix(trimmed, "</") {
			indent = max(0, indent-1)
		}

		lines = append(lines, strings.Repeat("  ", indent)+trimmed)

		if strings.HasPrefix(trimmed, "<") &&
			!strings.HasPrefix(trimmed, "</") &&
			!strings.HasSuffix(trimmed, "/>") &&
			!strings.Contains(trimmed, "</") {
			indent++
		}
	}

	return strings.Join(lines, "\n")
}
