package printer

import (
	"io"

	json "github.com/goccy/go-json"

	"web-cloner-go/pkg/models"
)

// JSONPrinter prints clone information in JSON format.
type JSONPrinter struct {
	writer io.Writer
}

// NewJSONPrinter creates a new JSON printer.
func NewJSONPrinter(w io.Writer) *JSONPrinter {
	return &JSONPrinter{writer: w}
}

func (j *JSONPrinter) encode(v any) error {
	enc := json.NewEncoder(j.writer)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// PrintJob prints a created job.
func (j *JSONPrinter) PrintJob(job models.CloneJob) error {
	return j.encode(toJobOutput(job))
}

// PrintStatus prints a job status.
func (j *JSONPrinter) PrintStatus(status models.CloneStatus) error {
	return j.encode(toStatusOutput(status))
}

// PrintMessage prints a message.
func (j *JSONPrinter) PrintMessage(msg string) error {
	return j.encode(messageOutput{Message: msg})
}
