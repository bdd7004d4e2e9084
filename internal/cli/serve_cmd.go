package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/avelarbuild/quotient/internal/api"
	"github.com/spf13/cobra"
)

const serveShutdownGrace = 10 * time.Second

// defaultAddr reads the listen address from the environment, falling
// back to :8080.
func defaultAddr() string {
	if v := os.Getenv("QUOTIENT_ADDR"); v != "" {
		return v
	}
	return ":8080"
}

func newServeCmd(app *App) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the quotation HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			mux := http.NewServeMux()
			server := api.NewServer(app.Quotations, app.Sessions, app.Chat, app.Trigger, app.Log)
			server.Register(mux)

			httpServer := &http.Server{
				Addr:    addr,
				Handler: mux,
			}

			errCh := make(chan error, 1)
			go func() {
				errCh <- httpServer.ListenAndServe()
			}()

			app.Log.Info("http server listening", "addr", addr)
			fmt.Printf("Listening on %s\n", addr)

			select {
			case err := <-errCh:
				return err
			case <-ctx.Done():
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), serveShutdownGrace)
			defer cancel()
			if err := httpServer.Shutdown(shutdownCtx); err != nil {
				return fmt.Errorf("shutting down: %w", err)
			}
			if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&addr, "addr", defaultAddr(), "Listen address (host:port)")

	return cmd
}
