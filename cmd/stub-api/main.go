package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/alecthomas/kingpin/v2"
	"github.com/gin-gonic/gin"
	"github.com/oklog/run"
	"github.com/sirupsen/logrus"

	"web-cloner-go/pkg/api"
	"web-cloner-go/pkg/config"
	"web-cloner-go/pkg/services"
)

func main() {
	if err := Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}

// Run starts the stub clone service and blocks until a termination signal.
func Run(ctx context.Context, args []string) error {
	app := kingpin.New("stub-api", "Development stand-in for the website clone service.")
	app.DefaultEnvars()

	var (
		debug     bool
		host      string
		port      int
		stepDelay time.Duration
	)
	app.Flag("debug", "Enable debug mode.").BoolVar(&debug)
	app.Flag("host", "Host to bind (defaults to stub.host from config).").StringVar(&host)
	app.Flag("port", "Port to bind (defaults to stub.port from config).").IntVar(&port)
	app.Flag("step-delay", "Time spent in each job stage (defaults to stub.step_delay_ms from config).").DurationVar(&stepDelay)

	if _, err := app.Parse(args[1:]); err != nil {
		return fmt.Errorf("invalid command configuration: %w", err)
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if host == "" {
		host = cfg.Stub.Host
	}
	if port == 0 {
		port = cfg.Stub.Port
	}
	if stepDelay == 0 {
		stepDelay = cfg.StepDelay()
	}

	logger := logrus.New()
	logger.Out = os.Stderr
	if debug {
		logger.SetLevel(logrus.DebugLevel)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	jobsCtx, stopJobs := context.WithCancel(ctx)
	defer stopJobs()
	jobs := services.NewJobService(jobsCtx, services.JobServiceConfig{
		StepDelay: stepDelay,
		Logger:    logger,
	})

	srv := &http.Server{
		Addr:         net.JoinHostPort(host, strconv.Itoa(port)),
		Handler:      api.NewRouter(jobs, logger),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	var g run.Group

	// OS signals.
	{
		signalCtx, signalCancel := signal.NotifyContext(ctx, syscall.SIGTERM, syscall.SIGINT)
		defer signalCancel()

		g.Add(
			func() error {
				<-signalCtx.Done()
				logger.Info("termination signal received")
				return nil
			},
			func(_ error) {
				signalCancel()
			},
		)
	}

	// HTTP server.
	{
		g.Add(
			func() error {
				logger.WithField("addr", srv.Addr).Info("stub clone service starting")
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					return fmt.Errorf("server failed: %w", err)
				}
				return nil
			},
			func(_ error) {
				logger.Info("shutting down server...")
				stopJobs()

				ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
				defer cancel()
				if err := srv.Shutdown(ctx); err != nil {
					logger.WithError(err).Error("server forced to shutdown")
				}
				jobs.Wait()
			},
		)
	}

	if err := g.Run(); err != nil {
		return err
	}

	logger.Info("server exited")
	return nil
}
