package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/primemath/internal/config"
	"github.com/abhisek/primemath/internal/curriculum"
)

var topicsCmd = &cobra.Command{
	Use:   "topics",
	Short: "List the curriculum topics problems are drawn from",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		grade := curriculum.Grade(cfg.Grade)
		if g, _ := cmd.Flags().GetString("grade"); g != "" {
			grade = curriculum.Grade(g)
		}

		topics := curriculum.TopicsByGrade(grade)
		out := cmd.OutOrStdout()
		if len(topics) == 0 {
			return fmt.Errorf("%w %s", curriculum.ErrCatalogEmpty, grade)
		}

		verbose, _ := cmd.Flags().GetBool("verbose")
		var subStrand string
		for _, t := range topics {
			if t.SubStrand != subStrand {
				subStrand = t.SubStrand
				fmt.Fprintf(out, "\n%s / %s\n", t.Strand, t.SubStrand)
				fmt.Fprintln(out, strings.Repeat("─", 60))
			}
			fmt.Fprintf(out, "  %-12s %s\n", t.ID, t.Title)
			if verbose {
				fmt.Fprintf(out, "               %s\n", t.Description)
				for _, c := range t.Constraints {
					fmt.Fprintf(out, "               - %s\n", c)
				}
			}
		}
		return nil
	},
}

func init() {
	topicsCmd.Flags().String("grade", "", "Grade to list (default from PRIMEMATH_GRADE)")
	topicsCmd.Flags().BoolP("verbose", "v", false, "Show descriptions and constraints")
}
