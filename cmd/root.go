package cmd

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/crosti/buyerform/config"
)

// appName is the name of the application used in CLI usage output
const appName = "buyerform"

var rootCmd = &cobra.Command{
	Use:   appName,
	Short: "buyer intake form backend, terminal wizard and lead sheet converter",
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		envFile, err := cmd.Flags().GetString("env")
		if err != nil {
			return err
		}
		return config.LoadDotEnv(envFile)
	},
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command until it returns or the process is signalled.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		slog.Error("command failed", "error", err)
		stop()
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("env", ".env", "dotenv file loaded before configuration")
	rootCmd.PersistentFlags().String("config", "config.yaml", "config file location")
}
