package tui

import (
	"fmt"
	"strings"
)

// HelpItem represents a single keyboard shortcut and its description
type HelpItem struct {
	Key         string
	Description string
}

// CommonHelpContent returns help for common commands
func CommonHelpContent() string {
	items := []HelpItem{
		{"?", "Toggle help"},
		{"Ctrl+C", "Force quit"},
	}
	return renderHelpItems(items)
}

// RootMenuHelpContent returns help for root menu
func RootMenuHelpContent() string {
	items := []HelpItem{
		{"1-2", "Select menu option (Clone / Look up a job)"},
		{"q / Esc", "Quit"},
		{"?", "Show this help"},
	}
	return renderHelpItems(items)
}

// CloneFormHelpContent returns help for the clone flow
func CloneFormHelpContent() string {
	items := []HelpItem{
		{"Enter", "Validate the URL and start cloning"},
		{"x / Esc", "Stop following the job (while polling)"},
		{"n", "Start over after a polling error"},
		{"Esc", "Return to menu"},
		{"Ctrl+C", "Quit"},
	}
	return renderHelpItems(items)
}

// StatusLookupHelpContent returns help for the job lookup flow
func StatusLookupHelpContent() string {
	items := []HelpItem{
		{"Enter", "Follow the job"},
		{"x / Esc", "Stop following the job"},
		{"n", "Look up another job after a polling error"},
		{"Esc", "Return to menu"},
		{"Ctrl+C", "Quit"},
	}
	return renderHelpItems(items)
}

// ResultViewHelpContent returns help for a finished job
func ResultViewHelpContent() string {
	items := []HelpItem{
		{"c", "Toggle code / preview"},
		{"v", "Cycle desktop, tablet and mobile"},
		{"1 / 2 / 3", "Desktop / Tablet (768×1024) / Mobile (375×667)"},
		{"f", "Toggle fullscreen"},
		{"y", "Copy HTML to clipboard"},
		{"d", "Download as cloned-website.html"},
		{"p", "Open in browser"},
		{"↑ / ↓ / PgUp / PgDn", "Scroll"},
		{"n", "Start over"},
		{"Esc", "Return to menu"},
		{"?", "Show this help"},
	}
	return renderHelpItems(items)
}

// renderHelpItems formats help items into a readable string
func renderHelpItems(items []HelpItem) string {
	var b strings.Builder
	for _, item := range items {
		keyStyle := boldStyle.Foreground(colorPrimary)
		b.WriteString(fmt.Sprintf("  %s  %s\n",
			keyStyle.Render(item.Key),
			item.Description))
	}
	return b.String()
}
