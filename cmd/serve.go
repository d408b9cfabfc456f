package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/pilotgen/pilotgen/internal/config"
	"github.com/pilotgen/pilotgen/internal/server"
)

var (
	servePort   int
	serveHost   string
	serveNoOpen bool
)

var serveCmd = &cobra.Command{
	Use:     "serve",
	Aliases: []string{"s"},
	Short:   "Preview rendered artifacts in the browser with live reload",
	Long: `Start a local server that renders every artifact in memory and serves the
results, reloading connected browsers whenever templates or the project
configuration change. Nothing is written to disk.

Examples:
  pilotgen serve
  pilotgen serve --port 9000 --no-open`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().IntVarP(&servePort, "port", "p", 0, "port to serve on")
	serveCmd.Flags().StringVar(&serveHost, "host", "", "host to bind to")
	serveCmd.Flags().BoolVar(&serveNoOpen, "no-open", false, "don't open the browser")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if servePort != 0 {
		cfg.Server.Port = servePort
	}
	if serveHost != "" {
		cfg.Server.Host = serveHost
	}
	if serveNoOpen {
		cfg.Server.Open = false
	}
	if err := config.Validate(cfg); err != nil {
		return err
	}

	srv, err := server.New(cfg, newLogger())
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start(ctx)
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case <-sigCh:
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	return srv.Shutdown(shutdownCtx)
}
