// Command cosmos-mcp serves Azure Cosmos DB management and item operations
// as MCP tools over an HTTP+SSE endpoint.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"azmcp/internal/app"
	"azmcp/internal/azure"
	"azmcp/internal/config"
	"azmcp/internal/cosmos"
)

const defaultListenAddr = ":8001"

func main() {
	configPath := flag.String("config", "config.yaml", "path to the YAML configuration file")
	flag.Parse()

	// Local development convenience; absent .env files are not an error.
	_ = godotenv.Load()

	if err := run(*configPath); err != nil {
		slog.Error("cosmos-mcp failed", "error", err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	cfg, err := config.LoadOrDefault(configPath, defaultListenAddr)
	if err != nil {
		return err
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: cfg.Server.LogLevel.Slog(),
	})))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cred, err := azure.NewCredential()
	if err != nil {
		return err
	}

	service := cosmos.New(cosmos.NewClients(cred))

	a, err := app.New(ctx, app.Options{
		ServiceName: cosmos.ServiceName,
		BinaryName:  "cosmos-mcp",
		Config:      cfg,
		Registry:    service.Registry(),
		Credential:  cred,
		ReadyScope:  cosmos.TokenScope,
	})
	if err != nil {
		return err
	}
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := a.Close(flushCtx); err != nil {
			slog.Error("telemetry shutdown failed", "error", err)
		}
	}()

	slog.Info("starting cosmos-mcp",
		"addr", cfg.Server.ListenAddr,
		"base_path", cfg.Server.BasePath,
		"tools", service.Registry().Len(),
	)
	return a.Run(ctx)
}
