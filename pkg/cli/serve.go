package cli

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/m-mizutani/goerr/v2"
	httpctrl "github.com/secmon-lab/grcboard/pkg/controller/http"
	"github.com/secmon-lab/grcboard/pkg/service/worker"
	"github.com/secmon-lab/grcboard/pkg/utils/async"
	"github.com/secmon-lab/grcboard/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

func cmdServe() *cli.Command {
	var addr string
	var refreshInterval time.Duration
	var maxUploadSize int
	var appCfg appConfig

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "addr",
			Usage:       "HTTP server address",
			Value:       ":8080",
			Sources:     cli.EnvVars("GRCBOARD_ADDR"),
			Destination: &addr,
		},
		&cli.DurationFlag{
			Name:        "refresh-interval",
			Usage:       "Re-synchronise all collections with the backend at this interval (0 disables)",
			Sources:     cli.EnvVars("GRCBOARD_REFRESH_INTERVAL"),
			Destination: &refreshInterval,
		},
		&cli.IntFlag{
			Name:        "max-upload-size",
			Usage:       "Largest evidence upload accepted, in bytes",
			Value:       10 << 20,
			Sources:     cli.EnvVars("GRCBOARD_MAX_UPLOAD_SIZE"),
			Destination: &maxUploadSize,
		},
	}
	flags = append(flags, appCfg.Flags()...)

	return &cli.Command{
		Name:    "serve",
		Aliases: []string{"s"},
		Usage:   "Start the dashboard view server",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			uc, recorder, err := appCfg.Configure(ctx, c, os.Stderr)
			if err != nil {
				return err
			}

			// Views answer 503 until the initial load has finished
			initDone := async.Dispatch(ctx, uc.Bootstrap.Initialize)

			serverOpts := []httpctrl.Options{
				httpctrl.WithNotifications(recorder),
				httpctrl.WithMaxUploadSize(int64(maxUploadSize)),
			}

			if refreshInterval > 0 {
				refreshWorker := worker.NewStoreRefreshWorker(uc.App(), refreshInterval)
				if err := refreshWorker.Start(ctx); err != nil {
					return goerr.Wrap(err, "failed to start store refresh worker")
				}
				// Stopped on every exit path, including a failed listen
				defer refreshWorker.Stop()
				serverOpts = append(serverOpts, httpctrl.WithRefreshStatus(refreshWorker))
			}

			handler := httpctrl.New(uc, serverOpts...)
			server := &http.Server{
				Addr:              addr,
				Handler:           handler,
				ReadHeaderTimeout: 30 * time.Second,
			}

			// Setup signal handling for graceful shutdown
			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
			defer signal.Stop(sigCh)

			errCh := make(chan error, 1)
			go func() {
				logging.Default().Info("Starting HTTP server", "addr", addr, "variant", uc.Variant())
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					errCh <- goerr.Wrap(err, "failed to start server")
				}
			}()

			select {
			case err := <-errCh:
				return err
			case sig := <-sigCh:
				logging.Default().Info("Received shutdown signal", "signal", sig)

				shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()

				if err := server.Shutdown(shutdownCtx); err != nil {
					return goerr.Wrap(err, "failed to shutdown server gracefully")
				}

				select {
				case <-initDone:
				case <-shutdownCtx.Done():
					logging.Default().Warn("Initial load still running at shutdown")
				}

				logging.Default().Info("Server shutdown completed")
				return nil
			}
		},
	}
}
