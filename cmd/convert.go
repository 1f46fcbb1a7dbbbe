package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/crosti/buyerform/pkg/logger"
	"github.com/crosti/buyerform/service"
)

var convertCmd = &cobra.Command{
	Use:   "convert <file.csv|file.xlsx>",
	Short: "append the enrichment columns to a lead sheet without running the server",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		out, err := cmd.Flags().GetString("out")
		if err != nil {
			return err
		}
		timeout, err := cmd.Flags().GetDuration("timeout")
		if err != nil {
			return err
		}

		logger.Init(&logger.Config{Level: "info", Output: cmd.ErrOrStderr()})

		written, err := convert(cmd.Context(), args[0], out, timeout)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), written)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(convertCmd)
	convertCmd.Flags().StringP("out", "o", "", "output path (default processed_<name> beside the input)")
	convertCmd.Flags().Duration("timeout", 30*time.Second, "parse deadline")
}

// convert processes the file at in and writes the workbook to out, or beside
// the input when out is empty. It returns the path written.
func convert(ctx context.Context, in, out string, timeout time.Duration) (string, error) {
	data, err := os.ReadFile(in)
	if err != nil {
		return "", err
	}

	result, err := service.NewIngestor(nil, timeout).Process(ctx, filepath.Base(in), data)
	if err != nil {
		return "", err
	}

	if out == "" {
		out = filepath.Join(filepath.Dir(in), result.Filename)
	}
	if err := os.WriteFile(out, result.Data, 0o644); err != nil {
		return "", err
	}
	return out, nil
}
