package commands

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jakechorley/cup-volunteers/pkg/core/signups"
	"github.com/jakechorley/cup-volunteers/pkg/metrics"
	"github.com/jakechorley/cup-volunteers/pkg/web"
)

const shutdownTimeout = 30 * time.Second

// ServeCmd creates the serve command
func ServeCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the volunteer sign-up site",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			port, _ := cmd.Flags().GetInt("port")
			if port == 0 {
				port = app.Cfg.Server.Port
			}

			reg := prometheus.NewRegistry()
			reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
			collector := metrics.NewCollector(reg)

			session := signups.NewSession(app.Records, app.Logger,
				signups.WithCapacity(app.Cfg.Capacity),
				signups.WithRecorder(collector))
			loaded := session.Initialize(app.Ctx)
			app.Logger.Info("Session initialized", zap.String("outcome", string(loaded.Outcome)))

			srv, err := web.NewServer(session, app.Event, web.Options{
				AdminPasscode:      app.Cfg.AdminPasscode,
				AdminPasscodeHash:  app.Cfg.AdminPasscodeHash,
				BaseURL:            app.Cfg.Server.BaseURL,
				CSRFKey:            []byte(app.Cfg.Server.CSRFKey),
				TrustedOrigins:     app.Cfg.Server.TrustedOrigins,
				RateLimitPerMinute: app.Cfg.Server.RateLimitPerMinute,
				FlowTTL:            app.Cfg.FlowTTL(),
				Metrics:            collector,
				Gatherer:           reg,
			}, app.Logger)
			if err != nil {
				return err
			}
			defer srv.Close()

			if app.Cfg.AdminPasscode == "" && app.Cfg.AdminPasscodeHash == "" {
				app.Logger.Warn("No admin passcode configured, the admin view is unreachable")
			}
			if app.Cfg.Server.CSRFKey == "" {
				app.Logger.Warn("No CSRF key configured, CSRF protection is disabled")
			}

			httpServer := &http.Server{
				Addr:         fmt.Sprintf(":%d", port),
				Handler:      srv.Handler(),
				ReadTimeout:  15 * time.Second,
				WriteTimeout: 15 * time.Second,
				IdleTimeout:  60 * time.Second,
			}

			ctx, stop := signal.NotifyContext(app.Ctx, syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			errCh := make(chan error, 1)
			go func() {
				app.Logger.Info("Starting HTTP server", zap.String("addr", httpServer.Addr))
				if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errCh <- err
				}
				close(errCh)
			}()

			fmt.Printf("\n✓ Serving %s volunteer sign-up on http://localhost:%d\n\n", app.Event.Name, port)

			select {
			case err := <-errCh:
				if err != nil {
					return fmt.Errorf("http server failed: %w", err)
				}
				return nil
			case <-ctx.Done():
			}

			app.Logger.Info("Shutting down server")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := httpServer.Shutdown(shutdownCtx); err != nil {
				return fmt.Errorf("server shutdown failed: %w", err)
			}
			app.Logger.Info("Server stopped")
			return nil
		},
	}

	cmd.Flags().Int("port", 0, "Port to listen on (defaults to server.port)")

	return cmd
}
