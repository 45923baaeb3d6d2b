// Package main provides the entry point for the creator agent CLI and server.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "creator_agent",
	Short: "AI orchestration agent for WordPress site building",
	Long:  "Creator agent turns natural-language requests into structured site action plans by chaining Gemini and Claude models through tiered analysis, strategy, and implementation stages.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
