package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/abhisek/primemath/internal/grading"
	"github.com/abhisek/primemath/internal/store"
)

var problemCmd = &cobra.Command{
	Use:   "problem",
	Short: "Generate, answer and inspect problems from the command line",
}

var problemNewCmd = &cobra.Command{
	Use:   "new",
	Short: "Generate a new word problem",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd, envOptions{})
		if err != nil {
			return err
		}
		defer e.Close()

		ctx, cancel := e.callContext(cmd.Context())
		defer cancel()

		svc, err := e.tutor(ctx)
		if err != nil {
			return err
		}
		p, err := svc.GenerateProblem(ctx)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Session: %s\n", p.ID)
		fmt.Fprintf(out, "Topic:   %s\n\n", p.TopicTitle)
		fmt.Fprintln(out, p.ProblemText)
		if show, _ := cmd.Flags().GetBool("show-answer"); show {
			fmt.Fprintf(out, "\nAnswer:  %s\n", grading.FormatAnswer(p.CorrectAnswer))
		}
		return nil
	},
}

var problemHintCmd = &cobra.Command{
	Use:   "hint <session-id>",
	Short: "Ask for a hint on a problem",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var attempt *float64
		if s, _ := cmd.Flags().GetString("answer"); s != "" {
			v, err := grading.ParseAnswer(s)
			if err != nil {
				return err
			}
			attempt = &v
		}

		e, err := openEnv(cmd, envOptions{})
		if err != nil {
			return err
		}
		defer e.Close()

		ctx, cancel := e.callContext(cmd.Context())
		defer cancel()

		svc, err := e.tutor(ctx)
		if err != nil {
			return err
		}
		h, err := svc.GetHint(ctx, args[0], attempt)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), h.Hint)
		return nil
	},
}

var problemSubmitCmd = &cobra.Command{
	Use:   "submit <session-id> <answer>",
	Short: "Submit an answer (decimal or fraction) and get feedback",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		answer, err := grading.ParseAnswer(args[1])
		if err != nil {
			return err
		}

		e, err := openEnv(cmd, envOptions{})
		if err != nil {
			return err
		}
		defer e.Close()

		ctx, cancel := e.callContext(cmd.Context())
		defer cancel()

		svc, err := e.tutor(ctx)
		if err != nil {
			return err
		}
		res, err := svc.SubmitAnswer(ctx, args[0], answer)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if res.IsCorrect {
			fmt.Fprintln(out, "✓ Correct!")
		} else {
			fmt.Fprintln(out, "✗ Not quite.")
			if res.CorrectAnswer != nil {
				fmt.Fprintf(out, "Correct answer: %s\n", grading.FormatAnswer(*res.CorrectAnswer))
			}
		}
		fmt.Fprintf(out, "\n%s\n", res.Feedback)
		return nil
	},
}

var problemShowCmd = &cobra.Command{
	Use:   "show <session-id>",
	Short: "Show a problem and its submissions",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd, envOptions{})
		if err != nil {
			return err
		}
		defer e.Close()

		ctx := cmd.Context()
		sess, err := e.sessions.GetSession(ctx, args[0])
		if err != nil {
			return err
		}
		subs, err := e.sessions.ListSubmissions(ctx, sess.ID)
		if err != nil {
			return err
		}
		printSession(cmd.OutOrStdout(), sess, subs)
		return nil
	},
}

func printSession(w io.Writer, sess *store.Session, subs []store.Submission) {
	fmt.Fprintf(w, "Session: %s\n", sess.ID)
	fmt.Fprintf(w, "Created: %s\n", sess.CreatedAt.Local().Format("2006-01-02 15:04:05"))
	if sess.TopicTitle != "" {
		fmt.Fprintf(w, "Topic:   %s (%s)\n", sess.TopicTitle, sess.TopicID)
	}
	fmt.Fprintf(w, "Answer:  %s\n\n", grading.FormatAnswer(sess.CorrectAnswer))
	fmt.Fprintln(w, sess.ProblemText)

	if len(subs) == 0 {
		fmt.Fprintln(w, "\nNo submissions yet.")
		return
	}
	fmt.Fprintln(w)
	for _, s := range subs {
		mark := "✗"
		if s.IsCorrect {
			mark = "✓"
		}
		fmt.Fprintf(w, "%s %-10s  %s  %s\n",
			mark, grading.FormatAnswer(s.UserAnswer), s.CreatedAt.Local().Format("15:04:05"), s.FeedbackText)
	}
}

func init() {
	problemNewCmd.Flags().Bool("show-answer", false, "Print the correct answer too")
	problemHintCmd.Flags().String("answer", "", "Your attempt so far, to tailor the hint")

	problemCmd.AddCommand(problemNewCmd)
	problemCmd.AddCommand(problemHintCmd)
	problemCmd.AddCommand(problemSubmitCmd)
	problemCmd.AddCommand(problemShowCmd)
}
