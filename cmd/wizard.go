package cmd

import (
	"io"
	"net/http"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/crosti/buyerform/client"
	"github.com/crosti/buyerform/pkg/logger"
	"github.com/crosti/buyerform/tui"
	"github.com/crosti/buyerform/wizard"
)

var wizardCmd = &cobra.Command{
	Use:   "wizard",
	Short: "fill in the buyer profile from the terminal",
	RunE: func(cmd *cobra.Command, _ []string) error {
		server, err := cmd.Flags().GetString("server")
		if err != nil {
			return err
		}
		timeout, err := cmd.Flags().GetDuration("timeout")
		if err != nil {
			return err
		}

		// The program owns the terminal.
		logger.Init(&logger.Config{Output: io.Discard})

		c, err := client.New(server, client.WithHTTPClient(&http.Client{Timeout: timeout}))
		if err != nil {
			return err
		}

		ctx := cmd.Context()
		program := tea.NewProgram(tui.New(ctx, wizard.New(c)), tea.WithContext(ctx), tea.WithAltScreen())
		_, err = program.Run()
		return err
	},
}

func init() {
	rootCmd.AddCommand(wizardCmd)
	wizardCmd.Flags().String("server", "http://localhost:8080", "form backend base url")
	wizardCmd.Flags().Duration("timeout", 45*time.Second, "submission request timeout")
}
