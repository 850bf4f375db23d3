package printer

import (
	"fmt"
	"io"
	"strings"

	"web-cloner-go/pkg/models"
)

// TablePrinter prints clone information as aligned key/value lines.
type TablePrinter struct {
	writer io.Writer
}

// NewTablePrinter creates a new table printer.
func NewTablePrinter(w io.Writer) *TablePrinter {
	return &TablePrinter{writer: w}
}

// PrintJob prints a created job.
func (t *TablePrinter) PrintJob(job models.CloneJob) error {
	fmt.Fprintf(t.writer, "ID:       %s\n", job.ID)
	fmt.Fprintf(t.writer, "URL:      %s\n", job.URL)
	fmt.Fprintf(t.writer, "Status:   %s\n", job.Status)
	return nil
}

// PrintStatus prints a job status.
func (t *TablePrinter) PrintStatus(status models.CloneStatus) error {
	fmt.Fprintf(t.writer, "ID:       %s\n", status.ID)
	fmt.Fprintf(t.writer, "Stage:    %s %s\n", StageIcon(status.Status), status.Status)
	fmt.Fprintf(t.writer, "Job:      %s\n", status.Status.JobStatus())
	fmt.Fprintf(t.writer, "Progress: %s %d%%\n", ProgressBar(status.Progress, 20), clampProgress(status.Progress))
	fmt.Fprintf(t.writer, "Message:  %s\n", status.Message)

	if status.Status == models.StageFailed {
		fmt.Fprintf(t.writer, "Error:    %s\n", FailureText(status))
	}
	if status.HTML != "" {
		fmt.Fprintf(t.writer, "HTML:     %d bytes\n", len(status.HTML))
	}

	return nil
}

// PrintMessage prints a message.
func (t *TablePrinter) PrintMessage(msg string) error {
	_, err := fmt.Fprintln(t.writer, msg)
	return err
}

// ProgressBar renders a plain text bar of the given width.
func ProgressBar(progress, width int) string {
	p := clampProgress(progress)
	filled := p * width / 100
	return "[" + strings.Repeat("█", filled) + strings.Repeat("░", width-filled) + "]"
}

func clampProgress(p int) int {
	return max(0, min(100, p))
}
