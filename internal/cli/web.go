package cli

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"todo-cli/internal/bridge"
	"todo-cli/internal/web"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type webStarted struct {
	Addr      string `json:"addr" yaml:"addr"`
	URL       string `json:"url" yaml:"url"`
	Backend   string `json:"backend" yaml:"backend"`
	StartedAt string `json:"startedAt" yaml:"startedAt"`
}

func newWebCmd(app *App) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "web",
		Short: "Serve the list as an HTML page",
		Long: strings.TrimSpace(`
Serve the list from a local HTTP server.

The page is server-rendered; a small script adds drag-and-drop reordering.
Gesture counters are exported in Prometheus format at /metrics.
`),
		Example: strings.TrimSpace(`
todo web
todo web --addr :3336
`),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			metrics := web.NewMetrics()
			sess, err := openSession(cmd.Context(), app, sessionOptions{
				dispatch: []bridge.DispatcherOption{bridge.WithObserver(metrics.Observe)},
			})
			if err != nil {
				return writeErr(cmd, err)
			}
			defer sess.close()

			listenAddr := strings.TrimSpace(addr)
			if listenAddr == "" {
				listenAddr = sess.cfg.WebAddr
			}
			srv, err := web.NewServer(web.ServerConfig{Addr: listenAddr}, sess.d, metrics, sess.logger)
			if err != nil {
				return writeErr(cmd, err)
			}

			ln, err := net.Listen("tcp", srv.Addr())
			if err != nil {
				return writeErr(cmd, err)
			}
			actualAddr := ln.Addr().String()
			url := "http://" + actualAddr + "/"

			_ = writeOut(cmd, app, webStarted{
				Addr:      actualAddr,
				URL:       url,
				Backend:   sess.cfg.Backend,
				StartedAt: time.Now().UTC().Format(time.RFC3339Nano),
			})
			fmt.Fprintf(cmd.ErrOrStderr(), "todo web running at %s\n", url)

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return serve(ctx, ln, srv.Handler(), sess.logger)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", envOr("TODO_WEB_ADDR", ""), "Bind address (host:port or :port; default from config)")
	return cmd
}

// serve runs until ctx is done, then drains in-flight requests.
func serve(ctx context.Context, ln net.Listener, h http.Handler, logger *zap.Logger) error {
	hs := &http.Server{Handler: h, ReadHeaderTimeout: 10 * time.Second}
	errc := make(chan error, 1)
	go func() { errc <- hs.Serve(ln) }()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}
	logger.Info("shutting down web server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := hs.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
