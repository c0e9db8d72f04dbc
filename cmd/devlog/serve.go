package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/unowned-ai/devlog/pkg/api"
	pkgmcp "github.com/unowned-ai/devlog/pkg/mcp"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the DevLog HTTP API",
	Long:  `Serves the journal, statistics and insights over HTTP until interrupted.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if addr, _ := cmd.Flags().GetString("addr"); cmd.Flags().Changed("addr") {
			cfg.Addr = addr
		}
		if cfg.Log.Level != "debug" {
			gin.SetMode(gin.ReleaseMode)
		}

		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		router := api.NewRouter(api.NewHandler(store, newService(store)))
		srv := &http.Server{
			Addr:              cfg.Addr,
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		}

		errCh := make(chan error, 1)
		go func() {
			slog.Info("http server starting", slog.String("addr", cfg.Addr), slog.Bool("live_insights", cfg.AI.Live))
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- err
			}
			close(errCh)
		}()

		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(quit)

		select {
		case err, ok := <-errCh:
			if ok {
				return fmt.Errorf("http server error: %w", err)
			}
			return nil
		case sig := <-quit:
			slog.Info("shutting down http server", slog.String("signal", sig.String()))
		}

		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			return fmt.Errorf("http server shutdown: %w", err)
		}
		slog.Info("http server stopped")
		return nil
	},
}

// mcpCmd starts the DevLog MCP server on stdio.
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the DevLog MCP server (stdio transport)",
	Long:  `Launches the MCP stdio server so that external AI agents can call DevLog tools.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		mcpServer := pkgmcp.NewDevlogMCPServer(store, newService(store))
		mcpServer.RegisterTools()

		slog.Info("DevLog MCP server tools registered, starting stdio listener")
		if err := mcpServer.Start(); err != nil {
			return fmt.Errorf("DevLog MCP server error: %w", err)
		}
		slog.Info("DevLog MCP server stopped")
		return nil
	},
}

func initServeCmd() {
	serveCmd.Flags().String("addr", "", "Listen address (default from config, 127.0.0.1:8000)")
}
