package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kingpin/v2"
	"github.com/mattn/go-isatty"
	"github.com/oklog/run"

	"web-cloner-go/pkg/cli"
	"web-cloner-go/pkg/cli/logger"
	"web-cloner-go/pkg/cli/printer"
	"web-cloner-go/pkg/config"
	"web-cloner-go/pkg/render"
)

// Run runs the main application.
func Run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	app := kingpin.New("web-cloner", "Clone websites through the clone service and inspect the result.")
	app.DefaultEnvars()

	var (
		debug      bool
		configPath string
	)
	app.Flag("debug", "Enable debug logging.").BoolVar(&debug)
	app.Flag("config", "Path to the configuration file.").StringVar(&configPath)

	tuiCmd := app.Command("tui", "Interactive interface.").Default()

	cloneCmd := app.Command("clone", "Clone a website and save the generated HTML.")
	cloneOpts := cli.CloneOptions{}
	var cloneView string
	cloneCmd.Arg("url", "Website URL (http or https).").Required().StringVar(&cloneOpts.URL)
	cloneCmd.Flag("out", "Directory to save cloned-website.html in (defaults to output.dir from config).").StringVar(&cloneOpts.OutputDir)
	cloneCmd.Flag("copy", "Copy the generated HTML to the clipboard.").BoolVar(&cloneOpts.Copy)
	cloneCmd.Flag("code", "Print the formatted HTML.").BoolVar(&cloneOpts.ShowCode)
	cloneCmd.Flag("view", "Browser preview device.").Default(string(render.ViewDesktop)).
		EnumVar(&cloneView, string(render.ViewDesktop), string(render.ViewTablet), string(render.ViewMobile))
	cloneCmd.Flag("serve", "Serve the result for browser preview until interrupted.").BoolVar(&cloneOpts.Serve)

	statusCmd := app.Command("status", "Show the status of a clone job.")
	var statusID, statusFormat string
	statusCmd.Arg("id", "Job ID.").Required().StringVar(&statusID)
	statusCmd.Flag("format", "Output format.").Short('o').Default(printer.FormatTable).
		EnumVar(&statusFormat, printer.Formats...)

	formatCmd := app.Command("format", "Indent an HTML file the way the code view does.")
	var formatPath string
	formatCmd.Arg("file", "HTML file, or - for stdin.").StringVar(&formatPath)

	configCmd := app.Command("config", "Show or change configuration.")
	configShowCmd := configCmd.Command("show", "Print the configuration file.")
	configSetCmd := configCmd.Command("set", "Set a value.")
	var configSet string
	configSetCmd.Arg("setting", "section.key=value").Required().StringVar(&configSet)

	cmdName, err := app.Parse(args[1:])
	if err != nil {
		return fmt.Errorf("invalid command configuration: %w", err)
	}

	if configPath != "" {
		if err := os.Setenv(config.EnvConfigPath, configPath); err != nil {
			return fmt.Errorf("failed to set config path: %w", err)
		}
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger.SetDebug(debug)
	defer logger.CloseLog()
	logger.Log("command %q started", cmdName)

	a := cli.NewApp(cfg, cli.Options{
		Stdin:  stdin,
		Stdout: stdout,
		Stderr: stderr,
		Logger: logger.Logger(),
	})
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := a.Close(ctx); err != nil {
			logger.LogError(err, "failed to stop preview server")
		}
	}()

	cloneOpts.View = render.ViewMode(cloneView)

	cmds := map[string]func(ctx context.Context) error{
		tuiCmd.FullCommand(): func(ctx context.Context) error {
			if !isTerminal(stdout) {
				return errors.New("the interactive interface needs a terminal; use the clone command instead")
			}
			return a.RunTUI(ctx)
		},
		cloneCmd.FullCommand(): func(ctx context.Context) error {
			return a.HandleCloneCommand(ctx, cloneOpts)
		},
		statusCmd.FullCommand(): func(ctx context.Context) error {
			return a.HandleStatusCommand(ctx, statusID, statusFormat)
		},
		formatCmd.FullCommand(): func(_ context.Context) error {
			return a.HandleFormatCommand(formatPath)
		},
		configShowCmd.FullCommand(): func(_ context.Context) error {
			return a.ShowConfig()
		},
		configSetCmd.FullCommand(): func(_ context.Context) error {
			return a.SetConfig(configSet)
		},
	}

	var g run.Group

	// OS signals.
	{
		signalCtx, signalCancel := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
		defer signalCancel()

		g.Add(
			func() error {
				<-signalCtx.Done()
				logger.Log("termination signal received")
				return nil
			},
			func(_ error) {
				signalCancel()
			},
		)
	}

	// Execute command.
	{
		ctx, cancel := context.WithCancel(ctx)
		defer cancel()

		g.Add(
			func() error {
				if err := cmds[cmdName](ctx); err != nil {
					logger.LogError(err, "command %q failed", cmdName)
					return fmt.Errorf("%q command failed: %w", cmdName, err)
				}
				return nil
			},
			func(_ error) {
				cancel()
			},
		)
	}

	return g.Run()
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func main() {
	ctx := context.Background()
	err := Run(ctx, os.Args, os.Stdin, os.Stdout, os.Stderr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}
