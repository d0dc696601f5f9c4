package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/chatwire/wabridge/internal/auth"
	"github.com/chatwire/wabridge/internal/config"
)

func newTokenCmd() *cobra.Command {
	var subject string
	var expiresIn string
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint an operator JWT for the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runToken(cmd, subject, expiresIn)
		},
	}
	cmd.Flags().StringVar(&subject, "subject", "operator", "token subject")
	cmd.Flags().StringVar(&expiresIn, "expires-in", "", "token lifetime (defaults to auth.jwt_expires_in)")
	return cmd
}

func runToken(cmd *cobra.Command, subject, expiresIn string) error {
	path := configPath
	if path == "" {
		path = os.Getenv("CONFIG_PATH")
	}
	cfg, err := config.Load(path)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if strings.TrimSpace(cfg.Auth.JWTSecret) == "" {
		return fmt.Errorf("specify a 'jwt_secret' in your auth configuration")
	}

	if expiresIn == "" {
		expiresIn = cfg.Auth.JWTExpiresIn
	}
	ttl, err := time.ParseDuration(expiresIn)
	if err != nil {
		return fmt.Errorf("invalid jwt expires in: %w", err)
	}

	signed, expiresAt, err := auth.GenerateToken(subject, cfg.Auth.JWTSecret, ttl)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), signed)
	fmt.Fprintf(cmd.ErrOrStderr(), "expires at %s\n", expiresAt.UTC().Format(time.RFC3339))
	return nil
}
