package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/adaptiq/internal/ui/theme"
)

var historyCmd = &cobra.Command{
	Use:   "history <session-id>",
	Short: "Show the recorded answers of a session",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		answers, err := s.EventRepo().SessionAnswers(context.Background(), args[0])
		if err != nil {
			return fmt.Errorf("load answers: %w", err)
		}
		if len(answers) == 0 {
			fmt.Printf("No answers recorded for %s.\n", args[0])
			return nil
		}

		fmt.Println(theme.Heading.Render(fmt.Sprintf("%-3s  %-24s  %-18s  %-6s  %8s  %5s  %14s  %6s",
			"#", "Question", "Section", "Result", "Time", "Hint", "Theta", "SE")))
		for i, a := range answers {
			hint := ""
			if a.HintUsed {
				hint = "yes"
			}
			result := theme.Fail.Render(fmt.Sprintf("%-6s", "wrong"))
			if a.Correct {
				result = theme.Pass.Render(fmt.Sprintf("%-6s", "right"))
			}
			fmt.Printf("%-3d  %-24s  %-18s  %s  %7.1fs  %5s  %+6.2f → %+5.2f  %6.3f\n",
				i+1,
				truncate(a.QuestionID, 24),
				truncate(a.Section, 18),
				result,
				float64(a.ResponseTimeMs)/1000,
				hint,
				a.ThetaBefore,
				a.ThetaAfter,
				a.StandardError,
			)
		}
		return nil
	},
}
