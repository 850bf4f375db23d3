package tui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"web-cloner-go/pkg/cli/printer"
	"web-cloner-go/pkg/cloner"
	"web-cloner-go/pkg/models"
)

// progressBarWidth is the width of the status progress bar in cells.
const progressBarWidth = 40

// renderInlineError renders an error message inline (without full error view formatting)
func renderInlineError(err error) string {
	if err == nil {
		return ""
	}
	return renderError(err.Error())
}

// progressColor picks the bar colour for a stage: blue while running, green
// when completed and red when failed.
func progressColor(stage models.Stage) lipgloss.Color {
	switch stage {
	case models.StageCompleted:
		return colorSuccess
	case models.StageFailed:
		return colorError
	default:
		return colorRunning
	}
}

// renderProgressBar renders a coloured bar for progress in [0, 100].
func renderProgressBar(progress, width int, stage models.Stage) string {
	p := max(0, min(100, progress))
	filled := p * width / 100

	fill := lipgloss.NewStyle().Foreground(progressColor(stage)).Render(strings.Repeat("█", filled))
	track := lipgloss.NewStyle().Foreground(colorTrack).Render(strings.Repeat("█", width-filled))
	return fill + track + fmt.Sprintf(" %3d%%", p)
}

// renderStatusPanel renders the icon, stage, message and progress of a job.
func renderStatusPanel(status models.CloneStatus) string {
	var b strings.Builder

	b.WriteString(printer.StageIcon(status.Status))
	b.WriteString(" ")
	b.WriteString(boldStyle.Render(printer.StageTitle(status.Status)))
	if status.Message != "" {
		b.WriteString("  ")
		b.WriteString(mutedStyle.Render(status.Message))
	}
	b.WriteString("\n")
	b.WriteString(renderProgressBar(status.Progress, progressBarWidth, status.Status))
	b.WriteString("\n")

	if status.Status == models.StageFailed {
		b.WriteString("\n")
		b.WriteString(renderError(cloner.FailureMessage(status)))
		b.WriteString("\n")
	}

	return b.String()
}

// renderJobLine renders the job id and URL being followed.
func renderJobLine(jobID, url string) string {
	var b strings.Builder
	b.WriteString(fieldLabelStyle.Render("Job:"))
	b.WriteString(" " + jobIDStyle.Render(jobID))
	if url != "" {
		b.WriteString("  " + jobURLStyle.Render(truncateURL(url, 60)))
	}
	b.WriteString("\n")
	return b.String()
}

// truncateURL truncates a URL to the specified max length
func truncateURL(url string, maxLen int) string {
	return printer.TruncateURL(url, maxLen)
}

// userFacingError converts structured clone service errors into friendly
// messages, while leaving other error types unchanged.
func userFacingError(err error) error {
	if err == nil {
		return nil
	}

	var clonerErr *cloner.ClonerError
	if errors.As(err, &clonerErr) {
		return errors.New(clonerErr.UserMessage())
	}

	return err
}
