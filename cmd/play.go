package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/primemath/internal/app"
	"github.com/abhisek/primemath/internal/curriculum"
	"github.com/abhisek/primemath/internal/screens/home"
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Practice word problems in the terminal",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPlay(cmd)
	},
}

func runPlay(cmd *cobra.Command) error {
	e, err := openEnv(cmd, envOptions{quiet: true})
	if err != nil {
		return err
	}
	defer e.Close()

	ctx := cmd.Context()
	svc, err := e.tutor(ctx)
	if err != nil {
		return fmt.Errorf("%w\n\nSet PRIMEMATH_LLM_PROVIDER and its API key, or GEMINI_API_KEY / OPENAI_API_KEY / ANTHROPIC_API_KEY", err)
	}

	grade := curriculum.Grade(e.cfg.Grade)
	return app.Run(ctx, home.Deps{
		Tutor:   svc,
		History: svc,
		Grade:   grade,
		Topics:  svc.Topics(),
		Timeout: e.cfg.LLM.Timeout,
	})
}
