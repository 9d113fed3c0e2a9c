/*
serve.go - HTTP server command

STARTUP SEQUENCE:
  1. Load configuration (flags, environment, .env)
  2. Open the index store, seeding it when SEED_PATH is set and it is empty
  3. Create API handler and router
  4. Start server with graceful shutdown

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop accepting new connections
  2. Wait for active requests to complete (30s timeout)
  3. Close the store
*/
package cli

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/warp/cpi-engine/api"
)

const shutdownTimeout = 30 * time.Second

func serveCmd(appFn func() *app) *cobra.Command {
	var staticDir string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the calculator HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a := appFn()

			handler := api.NewHandler(a.calc, a.backend, a.log)
			router := api.NewRouter(handler, api.Options{
				AllowedOrigins: a.cfg.Server.CORSAllowedOrigins,
				StaticDir:      staticDir,
				Logger:         a.log,
			})

			server := &http.Server{
				Addr:         a.cfg.Addr(),
				Handler:      router,
				ReadTimeout:  15 * time.Second,
				WriteTimeout: 30 * time.Second,
				IdleTimeout:  60 * time.Second,
			}
			return runServer(cmd.Context(), server, a)
		},
	}

	cmd.Flags().StringVar(&staticDir, "static", "", "directory with a built frontend to serve at /")
	return cmd
}

func runServer(ctx context.Context, server *http.Server, a *app) error {
	errCh := make(chan error, 1)
	go func() {
		a.log.Infof("server starting on http://%s", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	a.log.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return err
	}
	a.log.Info("server stopped")
	return nil
}
