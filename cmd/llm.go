package cmd

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/adaptiq/internal/llm"
	"github.com/abhisek/adaptiq/internal/store"
	"github.com/abhisek/adaptiq/internal/ui/theme"
)

var llmCmd = &cobra.Command{
	Use:   "llm",
	Short: "Inspect and check the hint refinement provider",
}

var llmListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent LLM events",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		purpose, _ := cmd.Flags().GetString("purpose")
		if purpose != "" && !llm.KnownPurpose(purpose) {
			return fmt.Errorf("unknown purpose %q (want one of %s)", purpose, strings.Join(llm.Purposes(), ", "))
		}

		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		events, err := s.EventRepo().QueryLLMEvents(context.Background(), store.QueryOpts{Limit: limit, Purpose: purpose})
		if err != nil {
			return fmt.Errorf("query events: %w", err)
		}
		if len(events) == 0 {
			fmt.Println("No LLM events found.")
			return nil
		}

		fmt.Println(theme.Heading.Render(fmt.Sprintf("%-5s  %-19s  %-16s  %-28s  %6s  %6s  %7s  %s",
			"ID", "Timestamp", "Purpose", "Model", "In", "Out", "Ms", "OK")))
		for _, e := range events {
			fmt.Printf("%-5d  %-19s  %-16s  %-28s  %6d  %6d  %7d  %s\n",
				e.ID,
				e.Timestamp.Local().Format("2006-01-02 15:04:05"),
				truncate(e.Purpose, 16),
				truncate(e.Model, 28),
				e.InputTokens,
				e.OutputTokens,
				e.LatencyMs,
				theme.Verdict(e.Success),
			)
		}
		return nil
	},
}

var llmViewCmd = &cobra.Command{
	Use:   "view <id>",
	Short: "View full request/response for an LLM event",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid ID %q: %w", args[0], err)
		}

		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		e, err := s.EventRepo().GetLLMEvent(context.Background(), id)
		if err != nil {
			return fmt.Errorf("get event: %w", err)
		}
		if e == nil {
			return fmt.Errorf("event %d not found", id)
		}

		row := func(label, value string) {
			fmt.Println(theme.Label.Render(label) + theme.Value.Render(value))
		}
		row("ID", strconv.Itoa(e.ID))
		row("Time", e.Timestamp.Local().Format("2006-01-02 15:04:05"))
		row("Provider", e.Provider)
		row("Model", e.Model)
		row("Purpose", e.Purpose)
		row("Tokens", fmt.Sprintf("%d in / %d out", e.InputTokens, e.OutputTokens))
		row("Latency", fmt.Sprintf("%dms", e.LatencyMs))
		row("Success", theme.Verdict(e.Success))
		if e.ErrorMessage != "" {
			row("Error", theme.Fail.Render(e.ErrorMessage))
		}

		for _, part := range []struct{ title, body string }{
			{"Request", e.RequestBody},
			{"Response", e.ResponseBody},
		} {
			fmt.Println(theme.Heading.Render(part.title))
			if strings.TrimSpace(part.body) == "" {
				fmt.Println(theme.Hint.Render("(not captured)"))
				continue
			}
			fmt.Println(part.body)
		}
		return nil
	},
}

var llmPingCmd = &cobra.Command{
	Use:   "ping",
	Short: "Send a one-line request to the configured provider",
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

		ctx := llm.WithPurpose(cmd.Context(), llm.PurposePing)
		provider, err := llm.NewProviderFromEnv(ctx, s.EventRepo(), log)
		if err != nil {
			return fmt.Errorf("init provider: %w", err)
		}
		if provider == nil {
			return fmt.Errorf("no LLM provider configured (set ADAPTIQ_LLM_PROVIDER and an API key)")
		}

		resp, err := provider.Generate(ctx, llm.Request{
			Messages:  []llm.Message{{Role: llm.RoleUser, Content: "Reply with the single word: ready"}},
			MaxTokens: 16,
		})
		if err != nil {
			return fmt.Errorf("ping %s: %w", provider.ModelID(), err)
		}
		fmt.Println(theme.Label.Render("Model") + resp.Model)
		fmt.Println(theme.Label.Render("Tokens") + fmt.Sprintf("%d in / %d out", resp.Usage.InputTokens, resp.Usage.OutputTokens))
		fmt.Println(theme.Label.Render("Reply") + strings.TrimSpace(string(resp.Content)))
		return nil
	},
}

func init() {
	llmListCmd.Flags().IntP("limit", "n", 20, "Number of events to show")
	llmListCmd.Flags().StringP("purpose", "p", "", "Filter by purpose (hint-refinement or ping)")

	llmCmd.AddCommand(llmListCmd)
	llmCmd.AddCommand(llmViewCmd)
	llmCmd.AddCommand(llmPingCmd)
}
