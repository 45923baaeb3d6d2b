package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/creator-agent/internal/config"
)

var hashTokenCost int

var hashTokenCmd = &cobra.Command{
	Use:   "hash-token [token]",
	Short: "Hash an admin token for ADMIN_TOKEN_HASH",
	Long:  "Produce the bcrypt hash of a plaintext admin token. Put the output in ADMIN_TOKEN_HASH; the server never sees the plaintext except during token exchange.",
	Args:  cobra.ExactArgs(1),
	RunE:  runHashToken,
}

func init() {
	hashTokenCmd.Flags().IntVar(&hashTokenCost, "cost", 12, "bcrypt cost (10-14)")
	rootCmd.AddCommand(hashTokenCmd)
}

func runHashToken(_ *cobra.Command, args []string) error {
	if len(args[0]) < 16 {
		return fmt.Errorf("admin token must be at least 16 characters")
	}

	tokenConfig := &config.TokenConfig{BcryptCost: hashTokenCost}
	if hashTokenCost < 10 || hashTokenCost > 14 {
		return fmt.Errorf("bcrypt cost out of range: %d (must be 10-14)", hashTokenCost)
	}

	hash, err := tokenConfig.HashToken(args[0])
	if err != nil {
		return err
	}

	fmt.Println(hash)
	return nil
}
