// Package config provides admin token configuration and verification.
package config

import (
	"fmt"
	"os"
	"strconv"

	"golang.org/x/crypto/bcrypt"
)

// TokenConfig holds configuration for admin token verification. The server
// never stores the plaintext token, only its bcrypt hash; clients exchange
// the plaintext token for a short-lived JWT.
type TokenConfig struct {
	BcryptCost int
	AdminHash  string // bcrypt hash of the admin token
}

// NewTokenConfig creates a token configuration from environment variables.
// It reads ADMIN_TOKEN_HASH (required) and BCRYPT_COST (default: 12).
func NewTokenConfig() (*TokenConfig, error) {
	hash := os.Getenv("ADMIN_TOKEN_HASH")
	if hash == "" {
		return nil, fmt.Errorf("ADMIN_TOKEN_HASH is required but not set")
	}

	costStr := os.Getenv("BCRYPT_COST")
	if costStr == "" {
		costStr = "12"
	}

	cost, err := strconv.Atoi(costStr)
	if err != nil {
		return nil, fmt.Errorf("invalid BCRYPT_COST: %v", err)
	}

	config := &TokenConfig{
		BcryptCost: cost,
		AdminHash:  hash,
	}

	if err := config.normalize(); err != nil {
		return nil, err
	}

	return config, nil
}

// normalize validates the configuration.
func (c *TokenConfig) normalize() error {
	if c.BcryptCost < 10 || c.BcryptCost > 14 {
		return fmt.Errorf("bcrypt cost out of range: %d (must be 10-14)", c.BcryptCost)
	}
	return nil
}

// HashToken hashes a plaintext token with bcrypt. Used by the hash-token CLI
// command to produce the value for ADMIN_TOKEN_HASH.
func (c *TokenConfig) HashToken(token string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(token), c.BcryptCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash token: %w", err)
	}
	return string(hash), nil
}

// VerifyToken verifies a plaintext token against the stored admin hash.
func (c *TokenConfig) VerifyToken(token string) bool {
	return bcrypt.CompareHashAndPassword([]byte(c.AdminHash), []byte(token)) == nil
}
