package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/creator-agent/internal/db"
)

var (
	runsConfigPath string
	runsTier       string
	runsStatus     string
	runsLimit      int
)

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List stored chain runs",
	Long:  "List recent chain runs from audit storage, optionally filtered by tier or status.",
	RunE:  runRuns,
}

func init() {
	runsCmd.Flags().StringVar(&runsConfigPath, "config", "", "Path to JSON config file")
	runsCmd.Flags().StringVar(&runsTier, "tier", "", "Filter by tier (flow, craft)")
	runsCmd.Flags().StringVar(&runsStatus, "status", "", "Filter by status (running, completed, failed)")
	runsCmd.Flags().IntVar(&runsLimit, "limit", 20, "Maximum runs to show")
	rootCmd.AddCommand(runsCmd)
}

func runRuns(_ *cobra.Command, _ []string) error {
	cfg, err := loadAgentConfig(runsConfigPath)
	if err != nil {
		return err
	}
	if cfg.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL not set; audit storage is required for this command")
	}

	ctx := context.Background()
	database, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer database.Close()

	runs, err := database.ListChainRuns(ctx, db.RunFilters{
		Tier:   runsTier,
		Status: runsStatus,
		Limit:  runsLimit,
	})
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	for _, run := range runs {
		prompt := run.Prompt
		if len(prompt) > 48 {
			prompt = prompt[:45] + "..."
		}
		fmt.Printf("%s  %-5s  %-9s  %6d tok  %d cr  %s\n",
			run.ID, run.Tier, run.Status, run.TotalTokens, run.CreditsUsed, prompt)
	}
	return nil
}
