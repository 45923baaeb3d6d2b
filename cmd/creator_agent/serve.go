package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/jonathan/creator-agent/internal/orchestration"
	"github.com/jonathan/creator-agent/internal/server"
)

var (
	serveAddr       string
	serveConfigPath string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long:  `Start an HTTP server that exposes chat, generation, and run audit endpoints.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Address to listen on (default :8080)")
	serveCmd.Flags().StringVar(&serveConfigPath, "config", "", "Path to JSON config file")
	rootCmd.AddCommand(serveCmd)
}

func runServe(_ *cobra.Command, _ []string) error {
	cfg, err := loadAgentConfig(serveConfigPath)
	if err != nil {
		return err
	}
	if serveAddr != "" {
		cfg.ListenAddr = serveAddr
	}

	registry, err := buildRegistry(context.Background(), cfg)
	if err != nil {
		return err
	}
	defer registry.Close()

	srv, err := server.New(server.Config{
		Addr:            cfg.ListenAddr,
		DatabaseURL:     cfg.DatabaseURL,
		AllowedOrigin:   cfg.AllowedOrigin,
		DefaultTier:     orchestration.Tier(cfg.DefaultTier),
		ShutdownTimeout: time.Duration(cfg.ShutdownTimeoutMs) * time.Millisecond,
	}, registry)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	return srv.Start()
}
