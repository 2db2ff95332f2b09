package main

import (
	"fmt"

	"github.com/Ghawri/Cattle-insurance-agent/internal/database/postgres"
	"github.com/Ghawri/Cattle-insurance-agent/internal/repository"
	"github.com/Ghawri/Cattle-insurance-agent/internal/services"

	"github.com/spf13/cobra"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Apply the agents schema and create the demo agent",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()
		logger, logFile := setupLogging(cfg)
		defer logFile.Close()

		db, err := postgres.Connect(cmd.Context(), cfg.PostgresCfg, logger)
		if err != nil {
			return fmt.Errorf("postgres: %w", err)
		}
		defer db.Close()

		identity := services.NewIdentityService(repository.NewAgentRepository(db), nil, nil, logger)
		created, err := identity.EnsureDemoAgent(cmd.Context(), demoAgent(cfg))
		if err != nil {
			return err
		}
		if created {
			fmt.Fprintf(cmd.OutOrStdout(), "created demo agent %q\n", cfg.AuthCfg.DemoUsername)
		} else {
			fmt.Fprintf(cmd.OutOrStdout(), "demo agent %q already exists\n", cfg.AuthCfg.DemoUsername)
		}
		return nil
	},
}
