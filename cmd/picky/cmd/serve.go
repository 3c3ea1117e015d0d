package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/Aman-CERP/picky/internal/transport/httpapi"
	"github.com/Aman-CERP/picky/internal/transport/mcpserver"
	"github.com/Aman-CERP/picky/pkg/picky"
	"github.com/Aman-CERP/picky/pkg/version"
)

const shutdownTimeout = 5 * time.Second

type serveOptions struct {
	transport string
	addr      string
}

func newServeCmd() *cobra.Command {
	var opts serveOptions

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve every configured index over HTTP or MCP",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.transport, "transport", "http", "Transport to serve: http, mcp")
	cmd.Flags().StringVar(&opts.addr, "addr", ":8080", "Listen address for the http transport")

	return cmd
}

func runServe(ctx context.Context, cmd *cobra.Command, opts serveOptions) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	engine, err := picky.Open(ctx, configPath, picky.Options{SnapshotDir: snapshotDir})
	if err != nil {
		return fmt.Errorf("failed to open engine: %w", err)
	}

	watchCtx, cancelWatch := context.WithCancel(ctx)
	defer cancelWatch()
	go func() {
		if err := engine.Watch(watchCtx); err != nil && watchCtx.Err() == nil {
			slog.Error("snapshot watcher stopped unexpectedly", "error", err)
		}
	}()

	switch opts.transport {
	case "mcp":
		server := mcpserver.New(engine.Transport(), version.Version, slog.Default())
		return server.Serve(ctx)
	case "http":
		return serveHTTP(ctx, cmd, engine, opts.addr)
	default:
		return fmt.Errorf("unknown transport %q (want http or mcp)", opts.transport)
	}
}

func serveHTTP(ctx context.Context, cmd *cobra.Command, engine *picky.Engine, addr string) error {
	handler := httpapi.NewHandler(engine.Transport(), slog.Default())
	server := &http.Server{Addr: addr, Handler: handler}

	errCh := make(chan error, 1)
	go func() {
		fmt.Fprintf(cmd.OutOrStdout(), "listening on %s\n", addr)
		errCh <- server.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
