package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/primemath/internal/grading"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recent problems, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		e, err := openEnv(cmd, envOptions{})
		if err != nil {
			return err
		}
		defer e.Close()

		ctx := cmd.Context()
		sessions, err := e.sessions.ListSessions(ctx, limit)
		if err != nil {
			return fmt.Errorf("list sessions: %w", err)
		}

		out := cmd.OutOrStdout()
		if len(sessions) == 0 {
			fmt.Fprintln(out, "No problems yet.")
			return nil
		}

		fmt.Fprintf(out, "%-36s  %-16s  %-8s  %-6s  %s\n", "Session", "Created", "Answer", "Tries", "Problem")
		fmt.Fprintln(out, strings.Repeat("─", 100))
		for _, s := range sessions {
			subs, err := e.sessions.ListSubmissions(ctx, s.ID)
			if err != nil {
				return fmt.Errorf("list submissions: %w", err)
			}
			tries := fmt.Sprintf("%d", len(subs))
			for _, sub := range subs {
				if sub.IsCorrect {
					tries += " ✓"
					break
				}
			}
			fmt.Fprintf(out, "%-36s  %-16s  %-8s  %-6s  %s\n",
				s.ID,
				s.CreatedAt.Local().Format("2006-01-02 15:04"),
				grading.FormatAnswer(s.CorrectAnswer),
				tries,
				truncate(s.ProblemText, 40),
			)
		}
		return nil
	},
}

func init() {
	historyCmd.Flags().IntP("limit", "n", 20, "Number of problems to show")
}
