package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"

	"web-cloner-go/pkg/cli/tui"
	"web-cloner-go/pkg/cloner"
	"web-cloner-go/pkg/config"
	"web-cloner-go/pkg/preview"
	"web-cloner-go/pkg/render"
)

// App wires configuration into the clone service, poller and front-ends.
type App struct {
	cfg       *config.Config
	logger    logrus.FieldLogger
	stdin     io.Reader
	stdout    io.Writer
	stderr    io.Writer
	clipboard render.Clipboard

	service *cloner.CloneService
	preview *preview.Server
}

// Options carries the process level dependencies of an App.
type Options struct {
	Stdin     io.Reader
	Stdout    io.Writer
	Stderr    io.Writer
	Logger    logrus.FieldLogger
	Clipboard render.Clipboard
}

func NewApp(cfg *config.Config, opts Options) *App {
	if opts.Stdin == nil {
		opts.Stdin = os.Stdin
	}
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	if opts.Stderr == nil {
		opts.Stderr = os.Stderr
	}
	if opts.Logger == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		opts.Logger = l
	}
	if opts.Clipboard == nil {
		opts.Clipboard = render.SystemClipboard{}
	}

	return &App{
		cfg:       cfg,
		logger:    opts.Logger,
		stdin:     opts.Stdin,
		stdout:    opts.Stdout,
		stderr:    opts.Stderr,
		clipboard: opts.Clipboard,
	}
}

// getService returns the clone service client, creating it if necessary
func (a *App) getService() *cloner.CloneService {
	if a.service != nil {
		return a.service
	}

	a.service = cloner.NewCloneService(cloner.ServiceConfig{
		BaseURL:        a.cfg.Service.BaseURL,
		RequestTimeout: a.cfg.RequestTimeout(),
		Logger:         a.logger,
	})
	return a.service
}

// getPreviewServer returns the browser preview server, creating it if necessary.
// It only starts listening when a page is first opened.
func (a *App) getPreviewServer() *preview.Server {
	if a.preview != nil {
		return a.preview
	}

	a.preview = preview.NewServer(preview.Config{
		Host:   a.cfg.Preview.Host,
		Port:   a.cfg.Preview.Port,
		Logger: a.logger,
	})
	return a.preview
}

func (a *App) pollerConfig() cloner.PollerConfig {
	return cloner.PollerConfig{
		Interval:    a.cfg.PollInterval(),
		MaxAttempts: a.cfg.Poll.MaxAttempts,
		Logger:      a.logger,
	}
}

// pollContext applies the configured polling deadline, if any.
func (a *App) pollContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if d := a.cfg.PollTimeout(); d > 0 {
		return context.WithTimeout(ctx, d)
	}
	return context.WithCancel(ctx)
}

// Close releases servers started on behalf of the user.
func (a *App) Close(ctx context.Context) error {
	if a.preview == nil {
		return nil
	}
	return a.preview.Shutdown(ctx)
}

// RunTUI starts the interactive interface and blocks until it exits or ctx
// is cancelled.
func (a *App) RunTUI(ctx context.Context) error {
	model := tui.NewRootModel(tui.Deps{
		Service:     a.getService(),
		Poller:      a.pollerConfig(),
		PollTimeout: a.cfg.PollTimeout(),
		Clipboard:   a.clipboard,
		Preview:     a.getPreviewServer(),
		OutputDir:   a.cfg.Output.Dir,
		Logger:      a.logger,
	})

	p := tea.NewProgram(model,
		tea.WithContext(ctx),
		tea.WithInput(a.stdin),
		tea.WithOutput(a.stdout),
		tea.WithAltScreen(),
	)

	final, err := p.Run()
	if closer, ok := final.(interface{ Close() }); ok {
		closer.Close()
	}
	if err != nil && ctx.Err() == nil {
		return fmt.Errorf("tui failed: %w", err)
	}
	return nil
}
