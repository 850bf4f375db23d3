package printer

import (
	"fmt"
	"strings"

	"web-cloner-go/pkg/cloner"
	"web-cloner-go/pkg/models"
)

// StageIcon returns the icon shown next to a stage.
func StageIcon(stage models.Stage) string {
	switch stage {
	case models.StagePending, models.StageQueued:
		return "⏳"
	case models.StageInitializing:
		return "🔧"
	case models.StageScraping:
		return "🔍"
	case models.StageGenerating, models.StageSaving:
		return "🤖"
	case models.StageCompleted:
		return "✅"
	case models.StageFailed:
		return "❌"
	default:
		return "⏳"
	}
}

// StageTitle capitalizes a stage name for display.
func StageTitle(stage models.Stage) string {
	s := string(stage)
	if s == "" {
		return ""
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// FailureText returns the error of a failed status, with the generic fallback.
func FailureText(status models.CloneStatus) string {
	return cloner.FailureMessage(status)
}

// FormatProgressLine formats one status update for streaming output.
func FormatProgressLine(status models.CloneStatus) string {
	line := fmt.Sprintf("%s %-12s %s %3d%%", StageIcon(status.Status), StageTitle(status.Status), ProgressBar(status.Progress, 20), clampProgress(status.Progress))
	if status.Message != "" {
		line += "  " + status.Message
	}
	return line
}

// FormatSuccessMessage formats the message shown after a page is saved
func FormatSuccessMessage(path string, size int) string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString("✓ Website cloned successfully!\n")
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("  Saved:   %s\n", path))
	b.WriteString(fmt.Sprintf("  Size:    %d bytes\n", size))
	b.WriteString("\n")

	return b.String()
}

// FormatErrorMessage formats an error message consistently
func FormatErrorMessage(err error) string {
	return fmt.Sprintf("❌ Error: %v\n", err)
}

// TruncateURL truncates a URL to the specified max length
func TruncateURL(url string, maxLen int) string {
	if len(url) <= maxLen {
		return url
	}
	return url[:maxLen-3] + "..."
}
