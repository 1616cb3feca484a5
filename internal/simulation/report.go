package simulation

import (
	"github.com/abhisek/adaptiq/internal/itembank"
)

// Thresholds are the pass marks for a run.
type Thresholds struct {
	MaxMeanAbsoluteError   float64 `yaml:"max_mae"`
	MaxRootMeanSquareError float64 `yaml:"max_rmse"`
	MinConvergenceRate     float64 `yaml:"min_convergence"`
	MinStability           float64 `yaml:"min_stability"`
}

func DefaultThresholds() Thresholds {
	return Thresholds{
		MaxMeanAbsoluteError:   0.5,
		MaxRootMeanSquareError: 0.7,
		MinConvergenceRate:     0.8,
		MinStability:           0.7,
	}
}

// Check is one threshold comparison.
type Check struct {
	Name      string  `json:"name"`
	Value     float64 `json:"value"`
	Threshold float64 `json:"threshold"`
	// Op is "<" or ">": the comparison Value must satisfy.
	Op     string `json:"op"`
	Passed bool   `json:"passed"`
}

// Evaluate compares m against every threshold.
func (t Thresholds) Evaluate(m Metrics) []Check {
	below := func(name string, v, limit float64) Check {
		return Check{Name: name, Value: v, Threshold: limit, Op: "<", Passed: v < limit}
	}
	above := func(name string, v, limit float64) Check {
		return Check{Name: name, Value: v, Threshold: limit, Op: ">", Passed: v > limit}
	}
	return []Check{
		below("mean absolute error", m.MeanAbsoluteError, t.MaxMeanAbsoluteError),
		below("root mean square error", m.RootMeanSquareError, t.MaxRootMeanSquareError),
		above("convergence rate", m.ConvergenceRate, t.MinConvergenceRate),
		above("algorithm stability", m.AlgorithmStability, t.MinStability),
	}
}

// BinReport is the breakdown for one ability band.
type BinReport struct {
	Label            string  `json:"ability_range"`
	SampleSize       int     `json:"sample_size"`
	AverageError     float64 `json:"average_error"`
	ConvergenceRate  float64 `json:"convergence_rate"`
	AverageQuestions float64 `json:"average_questions"`
}

// SectionReport is accuracy in one section across examinees.
type SectionReport struct {
	Section     itembank.Section `json:"section"`
	Average     float64          `json:"average_performance"`
	Variability float64          `json:"performance_variability"`
}

type ConvergenceReport struct {
	Rate                       float64 `json:"convergence_rate"`
	AverageQuestionsToConverge float64 `json:"average_questions_to_converge"`
	NonConvergedQuestions      float64 `json:"non_converged_questions"`
}

type HintUsageReport struct {
	UsageRate                 float64 `json:"hint_usage_rate"`
	AverageHintsPerAssessment float64 `json:"average_hints_per_assessment"`
	ErrorReduction            float64 `json:"error_reduction"`
}

// Report is the full outcome of a run.
type Report struct {
	Config          Config            `json:"config"`
	Metrics         Metrics           `json:"metrics"`
	Bins            []BinReport       `json:"ability_levels"`
	Sections        []SectionReport   `json:"sections"`
	Convergence     ConvergenceReport `json:"convergence"`
	HintUsage       HintUsageReport   `json:"hint_usage"`
	Recommendations []string          `json:"recommendations"`
	Checks          []Check           `json:"checks"`
	Passed          bool              `json:"passed"`
}

func (a *accumulator) report(cfg Config, m Metrics) *Report {
	r := &Report{
		Config:  cfg,
		Metrics: m,
		Checks:  cfg.Thresholds.Evaluate(m),
		Passed:  m.Total > 0,
	}
	for _, c := range r.Checks {
		if !c.Passed {
			r.Passed = false
		}
	}

	for i, b := range a.bins {
		br := BinReport{Label: binBounds[i].label, SampleSize: b.n}
		if b.n > 0 {
			br.AverageError = b.sumErr / float64(b.n)
			br.ConvergenceRate = float64(b.converged) / float64(b.n)
			br.AverageQuestions = float64(b.questions) / float64(b.n)
		}
		r.Bins = append(r.Bins, br)
	}

	for _, s := range a.sections {
		acc := a.sectionScores[s]
		r.Sections = append(r.Sections, SectionReport{Section: s, Average: acc.mean(), Variability: acc.stddev()})
	}

	r.Convergence = ConvergenceReport{
		Rate:                       m.ConvergenceRate,
		AverageQuestionsToConverge: a.convergedQs.mean(),
		NonConvergedQuestions:      a.nonConvergedQs.mean(),
	}
	if a.n > 0 {
		r.HintUsage = HintUsageReport{
			UsageRate:                 float64(a.withHint.n) / float64(a.n),
			AverageHintsPerAssessment: a.hints.mean(),
			ErrorReduction:            m.HintEffectiveness,
		}
	}
	r.Recommendations = recommendations(cfg.Thresholds, m)
	return r
}

// minHintEffectiveness below which hint generation is flagged.
const minHintEffectiveness = 0.1

func recommendations(t Thresholds, m Metrics) []string {
	var out []string
	if m.MeanAbsoluteError > t.MaxMeanAbsoluteError {
		out = append(out,
			"Consider recalibrating item difficulty parameters",
			"Increase question bank size for better targeting")
	}
	if m.ConvergenceRate < t.MinConvergenceRate {
		out = append(out,
			"Optimize stopping criteria for better convergence",
			"Implement early convergence detection")
	}
	if m.AlgorithmStability < t.MinStability {
		out = append(out,
			"Review item discrimination parameters",
			"Balance question bank across ability levels")
	}
	if m.HintEffectiveness < minHintEffectiveness {
		out = append(out,
			"Enhance hint generation strategies",
			"Implement adaptive hint difficulty")
	}
	if len(out) == 0 {
		return []string{"Algorithm performance is within all thresholds"}
	}
	return out
}
