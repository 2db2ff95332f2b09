package main

import (
	"fmt"
	"os"

	"github.com/Ghawri/Cattle-insurance-agent/internal/config"

	"github.com/spf13/cobra"
)

var (
	Version   = "dev"
	Commit    = "unknown"
	BuildDate = "unknown"
)

var envFile string

var rootCmd = &cobra.Command{
	Use:   "cattle-agent",
	Short: "Cattle insurance field agent backend",
	Long: `cattle-agent serves the field agent API: agent login, farmer and policy
intake, death claims with evidence uploads, renewals and the farmer upload portal.`,
	SilenceUsage: true,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print build information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "cattle-agent %s (commit %s, built %s)\n", Version, Commit, BuildDate)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file loaded before reading the environment")
	rootCmd.AddCommand(serveCmd, seedCmd, versionCmd)
}

func loadConfig() *config.ServiceConfig {
	return config.Load(envFile)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
