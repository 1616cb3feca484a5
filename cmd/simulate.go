package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/adaptiq/internal/itembank"
	"github.com/abhisek/adaptiq/internal/simulation"
	"github.com/abhisek/adaptiq/internal/ui/components"
	"github.com/abhisek/adaptiq/internal/ui/theme"
)

// errThresholdsFailed makes --strict runs exit non-zero.
var errThresholdsFailed = errors.New("validation thresholds not met")

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Validate the estimator against synthetic examinees",
	Long: "Runs simulated examinees of known ability through the engine and reports\n" +
		"estimation error, convergence and stability against the validation thresholds.",
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

		simCfg, err := simulationConfig(cmd)
		if err != nil {
			return err
		}
		if cfg.SEAtCurrentTheta {
			simCfg.SEAtCurrentTheta = true
		}

		bank, err := simulationBank(cmd, simCfg)
		if err != nil {
			return err
		}

		report, err := simulation.HarnessForBank(bank, simCfg, log).Run(cmd.Context())
		if err != nil {
			return fmt.Errorf("simulation: %w", err)
		}

		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			if err := enc.Encode(report); err != nil {
				return err
			}
		} else {
			fmt.Println(renderReport(report, bank.Len()))
		}

		if strict, _ := cmd.Flags().GetBool("strict"); strict && !report.Passed {
			return errThresholdsFailed
		}
		return nil
	},
}

// simulationConfig layers preset, YAML file and flags, in that order.
func simulationConfig(cmd *cobra.Command) (simulation.Config, error) {
	preset, _ := cmd.Flags().GetString("preset")
	cfg, err := simulation.Preset(preset)
	if err != nil {
		return simulation.Config{}, err
	}
	if path, _ := cmd.Flags().GetString("config"); path != "" {
		if cfg, err = simulation.LoadConfig(path, cfg); err != nil {
			return simulation.Config{}, err
		}
	}
	if cmd.Flags().Changed("iterations") {
		cfg.Iterations, _ = cmd.Flags().GetInt("iterations")
	}
	if cmd.Flags().Changed("seed") {
		cfg.Seed, _ = cmd.Flags().GetUint64("seed")
	}
	if cmd.Flags().Changed("workers") {
		cfg.Workers, _ = cmd.Flags().GetInt("workers")
	}
	return cfg, cfg.Validate()
}

// simulationBank loads --bank, or generates a calibrated bank over the
// configured sections.
func simulationBank(cmd *cobra.Command, cfg simulation.Config) (*itembank.Bank, error) {
	if path, _ := cmd.Flags().GetString("bank"); path != "" {
		f, err := itembank.ReadBankFile(path)
		if err != nil {
			return nil, err
		}
		items := make([]itembank.Item, 0, len(f.Items)+len(f.Records))
		for _, r := range f.AllRecords() {
			it, err := r.ToItem()
			if err != nil {
				return nil, fmt.Errorf("bank %s: item %s: %w", path, r.ID, err)
			}
			items = append(items, it)
		}
		return itembank.NewBank(items)
	}

	spec := itembank.DefaultGenerateSpec()
	if len(cfg.Sections) > 0 {
		spec.Sections = cfg.Sections
	}
	return itembank.NewBank(itembank.GenerateCalibrated(spec))
}

func renderReport(r *simulation.Report, bankSize int) string {
	const width = 64
	var b strings.Builder
	row := func(label, value string) {
		b.WriteString(theme.Label.Render(label) + theme.Value.Render(value) + "\n")
	}

	b.WriteString(theme.Title.Render("Simulation report") + "\n")
	row("Examinees", fmt.Sprintf("%d (%d failed)", r.Metrics.Total, r.Metrics.Failed))
	row("Item bank", fmt.Sprintf("%d items", bankSize))
	row("Ability range", fmt.Sprintf("[%.1f, %.1f]", r.Config.MinTheta, r.Config.MaxTheta))
	row("Seed", fmt.Sprintf("%d", r.Config.Seed))
	row("Elapsed", r.Metrics.Elapsed.Round(time.Millisecond).String())

	b.WriteString(theme.Heading.Render("Accuracy") + "\n")
	row("Mean absolute error", fmt.Sprintf("%.4f", r.Metrics.MeanAbsoluteError))
	row("Root mean square error", fmt.Sprintf("%.4f", r.Metrics.RootMeanSquareError))
	row("Bias", fmt.Sprintf("%+.4f", r.Metrics.Bias))
	row("Hint effectiveness", fmt.Sprintf("%+.4f", r.Metrics.HintEffectiveness))
	b.WriteString(components.NewMeter("Convergence", r.Metrics.ConvergenceRate, true, width).View() + "\n")
	b.WriteString(components.NewMeter("Stability", r.Metrics.AlgorithmStability, true, width).View() + "\n")
	b.WriteString(components.NewMeter("Efficiency", r.Metrics.ComputationalEfficiency, true, width).View() + "\n")

	b.WriteString(theme.Heading.Render("By ability") + "\n")
	for _, bin := range r.Bins {
		if bin.SampleSize == 0 {
			row(bin.Label, theme.Hint.Render("no examinees"))
			continue
		}
		row(bin.Label, fmt.Sprintf("n=%-7d err=%.3f  conv=%3.0f%%  q=%.1f",
			bin.SampleSize, bin.AverageError, 100*bin.ConvergenceRate, bin.AverageQuestions))
	}

	b.WriteString(theme.Heading.Render("By section") + "\n")
	for _, s := range r.Sections {
		row(string(s.Section), fmt.Sprintf("%.1f%% ± %.1f", 100*s.Average, 100*s.Variability))
	}

	b.WriteString(theme.Heading.Render("Checks") + "\n")
	for _, c := range r.Checks {
		row(c.Name, fmt.Sprintf("%s  %.4f %s %.4f", theme.Verdict(c.Passed), c.Value, c.Op, c.Threshold))
	}

	if len(r.Recommendations) > 0 {
		b.WriteString(theme.Heading.Render("Recommendations") + "\n")
		for _, rec := range r.Recommendations {
			b.WriteString(theme.Warn.Render("• ") + rec + "\n")
		}
	}

	b.WriteString("\n" + theme.Label.Render("Overall") + theme.Verdict(r.Passed))
	return theme.Card.Render(b.String())
}

func init() {
	simulateCmd.Flags().IntP("iterations", "n", 0, "Number of simulated examinees (overrides preset and config)")
	simulateCmd.Flags().String("config", "", "YAML simulation config layered over the preset")
	simulateCmd.Flags().String("preset", "validation", "Base configuration: validation or batch")
	simulateCmd.Flags().Uint64("seed", 0, "Random seed")
	simulateCmd.Flags().Int("workers", 0, "Concurrent examinees per batch (0 = batch size)")
	simulateCmd.Flags().String("bank", "", "YAML item bank (default: generated calibrated bank)")
	simulateCmd.Flags().Bool("strict", false, "Exit non-zero when any threshold check fails")
	simulateCmd.Flags().Bool("json", false, "Print the report as JSON")
}
