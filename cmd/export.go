package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/abhisek/primemath/internal/report"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export problems and submissions to an Excel workbook",
	RunE: func(cmd *cobra.Command, args []string) error {
		path, _ := cmd.Flags().GetString("out")
		limit, _ := cmd.Flags().GetInt("limit")

		e, err := openEnv(cmd, envOptions{})
		if err != nil {
			return err
		}
		defer e.Close()

		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("create %s: %w", path, err)
		}

		n, err := report.Export(cmd.Context(), e.sessions, limit, f)
		if cerr := f.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			os.Remove(path)
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Exported %d problems to %s\n", n, path)
		return nil
	},
}

func init() {
	exportCmd.Flags().StringP("out", "o", "primemath-report.xlsx", "Output file")
	exportCmd.Flags().IntP("limit", "n", 0, "Maximum number of problems (0 = all)")
}
