package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/jonathan/creator-agent/internal/actionplan"
	"github.com/jonathan/creator-agent/internal/db"
	"github.com/jonathan/creator-agent/internal/observability"
	"github.com/jonathan/creator-agent/internal/orchestration"
)

var (
	chatTier       string
	chatConfigPath string
	chatContext    string
	chatSystem     string
	chatVerbose    bool
	chatJSON       bool
)

var chatCmd = &cobra.Command{
	Use:   "chat [message]",
	Short: "Run one tier chain for a message",
	Long:  "Run a complete analyzer-to-implementer chain for a single message and print the resulting action plan. Site context can be attached as a JSON object.",
	Args:  cobra.ExactArgs(1),
	RunE:  runChat,
}

func init() {
	chatCmd.Flags().StringVar(&chatTier, "tier", "", "Chain tier: flow or craft (default from config)")
	chatCmd.Flags().StringVar(&chatConfigPath, "config", "", "Path to JSON config file")
	chatCmd.Flags().StringVar(&chatContext, "context", "", "Site context as a JSON object")
	chatCmd.Flags().StringVar(&chatSystem, "system", "", "Override the implementer system prompt")
	chatCmd.Flags().BoolVarP(&chatVerbose, "verbose", "v", false, "Print per-stage details")
	chatCmd.Flags().BoolVar(&chatJSON, "json", false, "Print the raw response as JSON")
	rootCmd.AddCommand(chatCmd)
}

func runChat(_ *cobra.Command, args []string) error {
	cfg, err := loadAgentConfig(chatConfigPath)
	if err != nil {
		return err
	}

	tier := orchestration.Tier(cfg.DefaultTier)
	if chatTier != "" {
		tier = orchestration.Tier(chatTier)
	}
	if !tier.Valid() {
		return fmt.Errorf("unknown tier %q (want flow or craft)", tier)
	}

	var siteContext map[string]any
	if chatContext != "" {
		if err := json.Unmarshal([]byte(chatContext), &siteContext); err != nil {
			return fmt.Errorf("invalid --context JSON: %w", err)
		}
	}

	ctx := context.Background()
	registry, err := buildRegistry(ctx, cfg)
	if err != nil {
		return err
	}
	defer registry.Close()

	chain := orchestration.NewTierChainService(registry)
	resp := chain.Execute(ctx, &orchestration.GenerationRequest{
		Prompt:       args[0],
		SystemPrompt: chatSystem,
		Context:      siteContext,
	}, tier)

	// Audit storage is best-effort for CLI runs
	if cfg.DatabaseURL != "" {
		if database, dbErr := db.Connect(ctx, cfg.DatabaseURL); dbErr == nil {
			defer database.Close()
			if runID := db.RecordChainRun(ctx, database, args[0], tier, resp); runID != uuid.Nil {
				fmt.Fprintf(os.Stderr, "run stored: %s\n", runID)
			}
		} else {
			fmt.Fprintf(os.Stderr, "warning: audit storage unavailable: %v\n", dbErr)
		}
	}

	if chatJSON {
		return json.NewEncoder(os.Stdout).Encode(resp)
	}

	printer := observability.NewPrinter(os.Stdout)
	printer.PrintChainSummary(tier, resp)
	if chatVerbose {
		printer.PrintSteps(resp.Steps)
		printer.PrintValidation(resp)
	}

	if !resp.Success {
		return fmt.Errorf("chain failed: %s", resp.Error)
	}

	plan, err := actionplan.Parse(resp.Content)
	if err != nil {
		// The model produced prose instead of a plan; show it as-is
		fmt.Println(resp.Content)
		return nil
	}

	fmt.Printf("\n%s\n", plan.Message)
	if plan.HasMutations() {
		fmt.Printf("\n%d action(s):\n", len(plan.Actions))
		for _, action := range plan.Actions {
			fmt.Printf("  - %s", action.Type)
			if action.Target != "" {
				fmt.Printf(" -> %s", action.Target)
			}
			fmt.Println()
		}
	}

	return nil
}
