package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/adaptiq/internal/engine"
	"github.com/abhisek/adaptiq/internal/hints"
	"github.com/abhisek/adaptiq/internal/itembank"
	"github.com/abhisek/adaptiq/internal/llm"
	"github.com/abhisek/adaptiq/internal/ui/components"
	"github.com/abhisek/adaptiq/internal/ui/theme"
)

var assessCmd = &cobra.Command{
	Use:   "assess",
	Short: "Take an adaptive assessment in the terminal",
	Long: "Presents items chosen by maximum information, one section at a time.\n" +
		"Type an answer (or an option number), \"hint\" for a hint, or \"quit\" to finish early.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		log, err := newLogger(cfg)
		if err != nil {
			return err
		}
		defer log.Sync()

		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		ctx := cmd.Context()
		sessions, closeSessions, err := cfg.OpenSessions(ctx)
		if err != nil {
			return fmt.Errorf("open session store: %w", err)
		}
		defer closeSessions()

		bank := itembank.Load(ctx, s.ItemRepo(), log)

		ecfg := engine.DefaultConfig()
		ecfg.SEAtCurrentTheta = cfg.SEAtCurrentTheta
		eng := engine.New(bank, sessions, ecfg, log, engine.WithRecorder(s.EventRepo()))

		hintOpts := []hints.Option{hints.WithRecorder(s.EventRepo())}
		provider, err := llm.NewProviderFromEnv(ctx, s.EventRepo(), log)
		if err != nil {
			log.Warn("LLM provider unavailable, hints are not refined", "error", err)
		} else if provider != nil {
			hintOpts = append(hintOpts, hints.WithRefiner(hints.NewRefiner(provider, hints.DefaultRefinerConfig())))
		}
		hintSvc := hints.NewService(eng, log, hintOpts...)

		opts, err := assessOptionsFromFlags(cmd)
		if err != nil {
			return err
		}
		return runAssessment(ctx, cmd.InOrStdin(), cmd.OutOrStdout(), eng, hintSvc, opts)
	},
}

type assessOptions struct {
	UserID     string
	Sections   []itembank.Section
	PerSection int
	Style      hints.LearningStyle
}

func assessOptionsFromFlags(cmd *cobra.Command) (assessOptions, error) {
	user, _ := cmd.Flags().GetString("user")
	names, _ := cmd.Flags().GetStringSlice("sections")
	per, _ := cmd.Flags().GetInt("per-section")
	style, _ := cmd.Flags().GetString("style")

	opts := assessOptions{UserID: user, PerSection: per, Style: hints.LearningStyle(style)}
	for _, n := range names {
		opts.Sections = append(opts.Sections, itembank.Section(strings.TrimSpace(n)))
	}
	if per <= 0 {
		return opts, fmt.Errorf("--per-section must be positive, got %d", per)
	}
	if style != "" && !opts.Style.Valid() {
		return opts, fmt.Errorf("unknown learning style %q", style)
	}
	return opts, nil
}

// runAssessment drives one session from in to out and prints the results.
func runAssessment(ctx context.Context, in io.Reader, out io.Writer, eng *engine.Engine, hintSvc *hints.Service, opts assessOptions) error {
	sid, err := eng.StartAssessment(ctx, opts.UserID, opts.Sections)
	if err != nil {
		return err
	}
	defer func() {
		hintSvc.Forget(sid)
		_ = eng.EndSession(context.WithoutCancel(ctx), sid)
	}()

	sess, err := eng.Session(ctx, sid)
	if err != nil {
		return err
	}

	lines := bufio.NewScanner(in)
	theta := 0.0
	asked := 0
	total := len(sess.Sections) * opts.PerSection

sections:
	for _, section := range sess.Sections {
		fmt.Fprintln(out, theme.Heading.Render(string(section)))
		for q := 0; q < opts.PerSection; q++ {
			item, err := eng.SelectNextQuestion(ctx, sid, section)
			if err != nil {
				return err
			}
			if item == nil {
				break
			}
			asked++
			fmt.Fprintln(out, components.NewMeter(fmt.Sprintf("Question %d/%d", asked, total), float64(asked-1)/float64(total), false, 56).View())
			printItem(out, item)

			shown := time.Now()
			hintsAsked := 0
			for {
				fmt.Fprint(out, "> ")
				if !lines.Scan() {
					break sections
				}
				input := strings.TrimSpace(lines.Text())
				switch strings.ToLower(input) {
				case "":
					continue
				case "quit":
					break sections
				case "hint":
					hintsAsked++
					h := hintSvc.GenerateHint(ctx, hints.Request{
						SessionID:     sid,
						QuestionID:    item.ID,
						AttemptCount:  hintsAsked,
						TimeSpent:     time.Since(shown),
						Theta:         theta,
						LearningStyle: opts.Style,
					})
					fmt.Fprintln(out, theme.Hint.Render("Hint: "+h.Content))
					continue
				}

				up, err := eng.ProcessResponse(ctx, sid, engine.Submission{
					QuestionID:   item.ID,
					Answer:       resolveOption(item, input),
					ResponseTime: time.Since(shown),
					HintUsed:     hintsAsked > 0,
				})
				if err != nil {
					return err
				}
				theta = up.Theta
				if up.Correct {
					fmt.Fprintln(out, theme.Pass.Render("Correct"))
				} else {
					fmt.Fprintln(out, theme.Fail.Render("Incorrect"))
				}
				break
			}
		}
	}

	res, err := eng.Results(ctx, sid)
	if err != nil {
		return err
	}
	fmt.Fprintln(out, renderResults(res))
	return nil
}

func printItem(out io.Writer, item *itembank.Item) {
	fmt.Fprintln(out, theme.Value.Render(item.Text))
	if len(item.Prerequisites) > 0 {
		fmt.Fprintln(out, theme.Hint.Render("  builds on: "+strings.Join(item.Prerequisites, ", ")))
	}
	if item.Format() == itembank.FormatMultipleChoice {
		for i, opt := range item.Options {
			fmt.Fprintf(out, "  %d) %s\n", i+1, opt)
		}
	}
	for _, p := range item.ThinkAloudPrompts {
		fmt.Fprintln(out, theme.Hint.Render("  "+p))
	}
	switch item.Format() {
	case itembank.FormatMultipleChoice:
		fmt.Fprintln(out, theme.Hint.Render(fmt.Sprintf("  answer 1-%d or type the option", len(item.Options))))
	case itembank.FormatOpenResponse:
		fmt.Fprintln(out, theme.Hint.Render("  open response: type your answer"))
	}
}

// resolveOption maps an option number to its text on multiple-choice
// items; anything else is answered verbatim.
func resolveOption(item *itembank.Item, input string) string {
	if item.Format() != itembank.FormatMultipleChoice {
		return input
	}
	if n, err := strconv.Atoi(input); err == nil && n >= 1 && n <= len(item.Options) {
		return item.Options[n-1]
	}
	return input
}

func renderResults(r *engine.Results) string {
	var b strings.Builder
	row := func(label, value string) {
		b.WriteString(theme.Label.Render(label) + theme.Value.Render(value) + "\n")
	}
	b.WriteString(theme.Title.Render("Results") + "\n")
	row("Answered", fmt.Sprintf("%d (%d correct)", r.TotalQuestions, r.CorrectAnswers))
	row("Overall score", fmt.Sprintf("%d%%", r.OverallScore))
	row("Weighted score", fmt.Sprintf("%.1f", r.WeightedScore))
	row("EIQ", fmt.Sprintf("%d", r.EIQScore))
	row("Placement", string(r.Placement))
	row("Ability", fmt.Sprintf("%+.2f ± %.2f", r.Theta, r.StandardError))
	row("Hints used", fmt.Sprintf("%d", r.HintsUsed))
	row("Duration", r.Duration.Round(time.Second).String())
	for _, sec := range itembank.AllSections() {
		if score, ok := r.SectionScores[sec]; ok {
			row(string(sec), fmt.Sprintf("%d%%", score))
		}
	}
	if len(r.Strengths) > 0 {
		row("Strengths", strings.Join(r.Strengths, ", "))
	}
	if len(r.ImprovementAreas) > 0 {
		row("Improve", strings.Join(r.ImprovementAreas, ", "))
	}
	return theme.Card.Render(strings.TrimRight(b.String(), "\n"))
}

func init() {
	assessCmd.Flags().StringP("user", "u", "local", "User id recorded with the session")
	assessCmd.Flags().StringSlice("sections", nil, "Sections to include (default: all)")
	assessCmd.Flags().Int("per-section", 3, "Questions per section")
	assessCmd.Flags().String("style", "", "Learning style for hints: visual, analytical, kinesthetic or verbal")
}
