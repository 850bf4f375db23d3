// Package printer renders clone job information for the command line.
package printer

import (
	"fmt"
	"io"

	"web-cloner-go/pkg/models"
)

// Printer knows how to print clone job information in different formats.
type Printer interface {
	PrintJob(job models.CloneJob) error
	PrintStatus(status models.CloneStatus) error
	PrintMessage(msg string) error
}

// Output formats.
const (
	FormatTable = "table"
	FormatJSON  = "json"
	FormatYAML  = "yaml"
)

// Formats lists the accepted --format values.
var Formats = []string{FormatTable, FormatJSON, FormatYAML}

// New returns the printer for a format name.
func New(format string, w io.Writer) (Printer, error) {
	switch format {
	case "", FormatTable:
		return NewTablePrinter(w), nil
	case FormatJSON:
		return NewJSONPrinter(w), nil
	case FormatYAML:
		return NewYAMLPrinter(w), nil
	}
	return nil, fmt.Errorf("unknown output format %q", format)
}

// jobOutput is the structured form of a job.
type jobOutput struct {
	ID     string `json:"id" yaml:"id"`
	URL    string `json:"url" yaml:"url"`
	Status string `json:"status" yaml:"status"`
}

// statusOutput is the structured form of a status. The html is left out,
// only its size is reported.
type statusOutput struct {
	ID        string `json:"id" yaml:"id"`
	Stage     string `json:"stage" yaml:"stage"`
	JobStatus string `json:"job_status" yaml:"job_status"`
	Progress  int    `json:"progress" yaml:"progress"`
	Message   string `json:"message" yaml:"message"`
	Error     string `json:"error,omitempty" yaml:"error,omitempty"`
	HTMLBytes int    `json:"html_bytes" yaml:"html_bytes"`
}

// messageOutput represents a simple message output.
type messageOutput struct {
	Message string `json:"message" yaml:"message"`
}

func toJobOutput(job models.CloneJob) jobOutput {
	return jobOutput{ID: job.ID, URL: job.URL, Status: string(job.Status)}
}

func toStatusOutput(st models.CloneStatus) statusOutput {
	return statusOutput{
		ID:        st.ID,
		Stage:     string(st.Status),
		JobStatus: string(st.Status.JobStatus()),
		Progress:  st.Progress,
		Message:   st.Message,
		Error:     st.Error,
		HTMLBytes: len(st.HTML),
	}
}
