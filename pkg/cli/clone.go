package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"web-cloner-go/pkg/cli/printer"
	"web-cloner-go/pkg/cloner"
	"web-cloner-go/pkg/models"
	"web-cloner-go/pkg/render"
	"web-cloner-go/pkg/utils"
)

// CloneOptions controls the non-interactive clone command.
type CloneOptions struct {
	URL       string
	OutputDir string // defaults to output.dir from config
	Copy      bool
	ShowCode  bool
	View      render.ViewMode
	Serve     bool
}

// HandleCloneCommand submits a URL, follows the job until it finishes and
// saves the result.
func (a *App) HandleCloneCommand(ctx context.Context, opts CloneOptions) error {
	if _, err := utils.ValidateURL(opts.URL); err != nil {
		return fmt.Errorf("failed to start cloning job: %s: %w", utils.InvalidURLMessage, err)
	}

	service := a.getService()

	// Check health first
	fmt.Fprint(a.stdout, "⏳ Checking clone service... ")
	if err := service.CheckHealth(ctx); err != nil {
		fmt.Fprintln(a.stdout, "✗")

		var cerr *cloner.ClonerError
		if errors.As(err, &cerr) && cerr.Type == cloner.ErrorTypeServiceUnavailable {
			return fmt.Errorf("clone service unavailable at %s: %w\n\n"+
				"💡 The service is not running. For local development start the stub:\n"+
				"   go run ./cmd/stub-api", service.BaseURL(), err)
		}
		return fmt.Errorf("clone service unavailable: %w\n\nPlease check if the service is running", err)
	}
	fmt.Fprintln(a.stdout, "✓")

	job, err := service.StartClone(ctx, opts.URL)
	if err != nil {
		return describeError(err, "failed to start cloning job")
	}
	fmt.Fprintf(a.stdout, "🚀 Job %s started for %s\n", job.ID, job.URL)

	pollCtx, cancel := a.pollContext(ctx)
	defer cancel()

	poller := cloner.NewPoller(service, a.pollerConfig())
	final, err := poller.Poll(pollCtx, job.ID, func(status models.CloneStatus) {
		fmt.Fprintln(a.stdout, printer.FormatProgressLine(status))
	})
	if err != nil {
		return describeError(err, "status polling failed")
	}

	if final.Status == models.StageFailed {
		return fmt.Errorf("cloning failed: %s", cloner.FailureMessage(*final))
	}

	return a.presentResult(ctx, final.HTML, opts)
}

func (a *App) presentResult(ctx context.Context, html string, opts CloneOptions) error {
	dir := opts.OutputDir
	if dir == "" {
		dir = a.cfg.Output.Dir
	}

	path, err := render.SaveHTML(dir, html)
	if err != nil {
		return fmt.Errorf("failed to save result: %w", err)
	}
	fmt.Fprint(a.stdout, printer.FormatSuccessMessage(path, len(html)))

	if opts.ShowCode {
		fmt.Fprintln(a.stdout, render.FormatHTML(html))
	}

	if opts.Copy {
		if err := render.CopyHTML(a.clipboard, html); err != nil {
			a.logger.WithError(err).Warn("clipboard copy failed")
			fmt.Fprintf(a.stderr, "⚠️  %s\n", render.CopyFailedMessage)
		} else {
			fmt.Fprintln(a.stdout, "📋 Copied to clipboard")
		}
	}

	if opts.Serve {
		return a.serve(ctx, html, opts.View)
	}
	return nil
}

// serve publishes the page and blocks until ctx is done.
func (a *App) serve(ctx context.Context, html string, mode render.ViewMode) error {
	srv := a.getPreviewServer()
	if err := srv.Start(); err != nil {
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = a.Close(shutdownCtx)
	}()

	h, err := srv.Publish(html)
	if err != nil {
		return err
	}
	defer h.Release()

	fmt.Fprintf(a.stdout, "🌐 Preview: %s\n", h.URL(mode))
	fmt.Fprintln(a.stdout, "   Press Ctrl+C to stop.")

	<-ctx.Done()
	return nil
}

// describeError keeps the typed error but leads with the user facing text.
func describeError(err error, action string) error {
	var cerr *cloner.ClonerError
	if errors.As(err, &cerr) {
		return fmt.Errorf("%s: %s: %w", action, cerr.UserMessage(), err)
	}
	return fmt.Errorf("%s: %w", action, err)
}
