package printer

import (
	"io"

	"gopkg.in/yaml.v3"

	"web-cloner-go/pkg/models"
)

// YAMLPrinter prints clone information in YAML format.
type YAMLPrinter struct {
	writer io.Writer
}

// NewYAMLPrinter creates a new YAML printer.
func NewYAMLPrinter(w io.Writer) *YAMLPrinter {
	return &YAMLPrinter{writer: w}
}

func (y *YAMLPrinter) encode(v any) error {
	enc := yaml.NewEncoder(y.writer)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}

// PrintJob prints a created job.
func (y *YAMLPrinter) PrintJob(job models.CloneJob) error {
	return y.encode(toJobOutput(job))
}

// PrintStatus prints a job status.
func (y *YAMLPrinter) PrintStatus(status models.CloneStatus) error {
	return y.encode(toStatusOutput(status))
}

// PrintMessage prints a message.
func (y *YAMLPrinter) PrintMessage(msg string) error {
	return y.encode(messageOutput{Message: msg})
}
