package cmd

import (
	"github.com/spf13/cobra"

	"github.com/abhisek/primemath/internal/config"
	"github.com/abhisek/primemath/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "primemath",
	Short: "AI math word problems for primary school",
	Long: "PrimeMath generates primary school math word problems with an LLM, " +
		"checks answers and gives hints and feedback.",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPlay(cmd)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides PRIMEMATH_DB env var)")
	rootCmd.PersistentFlags().String("database-url", "", "Postgres connection URL (overrides PRIMEMATH_DATABASE_URL)")
	rootCmd.PersistentFlags().String("cache-url", "", "Redis URL for the session cache (overrides PRIMEMATH_CACHE_URL)")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn, error")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(problemCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(topicsCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(versionCmd)
}

// resolveDBPath returns the SQLite path from cfg, which already carries the
// --db flag over PRIMEMATH_DB, falling back to the default XDG path.
func resolveDBPath(cfg *config.Config) (string, error) {
	if p := cfg.Database.Path; p != "" {
		return p, store.EnsureDir(p)
	}
	return store.DefaultDBPath()
}
