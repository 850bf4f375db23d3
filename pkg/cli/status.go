package cli

import (
	"context"
	"fmt"

	"web-cloner-go/pkg/cli/printer"
)

// HandleStatusCommand fetches a job status once and prints it.
func (a *App) HandleStatusCommand(ctx context.Context, jobID, format string) error {
	p, err := printer.New(format, a.stdout)
	if err != nil {
		return err
	}

	status, err := a.getService().GetStatus(ctx, jobID)
	if err != nil {
		return describeError(err, "could not get job status")
	}

	if err := p.PrintStatus(*status); err != nil {
		return fmt.Errorf("could not print status: %w", err)
	}
	return nil
}
