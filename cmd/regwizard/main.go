package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/yigit/regwizard/internal/config"
	"github.com/yigit/regwizard/internal/pkg/logger"
	"github.com/yigit/regwizard/internal/server"
)

const (
	Version = "0.1.0"
	appName = "regwizard"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var configPath string

	serve := func(cmd *cobra.Command, args []string) error {
		srv, err := server.NewServer(configPath)
		if err != nil {
			logger.Error().Err(err).Msg("Failed to initialize server")
			return err
		}
		if err := srv.Run(); err != nil {
			logger.Error().Err(err).Msg("Server execution failed or shutdown encountered errors")
			return err
		}
		logger.Info().Msg("Application finished gracefully.")
		return nil
	}

	cmd := &cobra.Command{
		Use:   appName,
		Short: "Two-step student registration form",
		Long: `regwizard serves a two-step student registration form.

Step one collects name, email, student ID and school year; step two
collects the password and its confirmation. Form sessions live in memory
only and are discarded after a successful submission.`,
		SilenceUsage: true,
		RunE:         serve,
	}
	cmd.PersistentFlags().StringVarP(&configPath, "config", "c", config.DefaultPath, "Config file path (YAML)")

	cmd.AddCommand(&cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server",
		RunE:  serve,
	})
	cmd.AddCommand(validateCmd())
	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "%s version %s\n", appName, Version)
		},
	})

	return cmd
}
