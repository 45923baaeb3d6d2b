package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/creator-agent/internal/orchestration"
)

var preflightConfigPath string

var preflightCmd = &cobra.Command{
	Use:   "preflight",
	Short: "Probe both model providers",
	Long:  "Issue a minimal generation call against each configured provider concurrently and report reachability, model, and latency.",
	RunE:  runPreflight,
}

func init() {
	preflightCmd.Flags().StringVar(&preflightConfigPath, "config", "", "Path to JSON config file")
	rootCmd.AddCommand(preflightCmd)
}

func runPreflight(_ *cobra.Command, _ []string) error {
	cfg, err := loadAgentConfig(preflightConfigPath)
	if err != nil {
		return err
	}

	ctx := context.Background()
	registry, err := buildRegistry(ctx, cfg)
	if err != nil {
		return err
	}
	defer registry.Close()

	statuses := orchestration.Preflight(ctx, registry)

	failed := 0
	for _, status := range statuses {
		if status.Healthy {
			fmt.Printf("ok    %-8s %-30s %dms\n", status.Provider, status.Model, status.LatencyMs)
		} else {
			fmt.Printf("FAIL  %-8s %-30s %s\n", status.Provider, status.Model, status.Error)
			failed++
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d providers unhealthy", failed, len(statuses))
	}
	return nil
}
