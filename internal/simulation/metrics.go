package simulation

import (
	"math"
	"time"

	"github.com/abhisek/adaptiq/internal/itembank"
)

// Metrics are the aggregate validation figures.
type Metrics struct {
	MeanAbsoluteError   float64 `json:"mean_absolute_error"`
	RootMeanSquareError float64 `json:"root_mean_square_error"`

	// Bias is the mean of estimated minus true ability.
	Bias float64 `json:"bias"`

	ConvergenceRate float64 `json:"convergence_rate"`

	// AlgorithmStability is 1 - stddev/mean of the per-bin mean errors,
	// floored at 0.
	AlgorithmStability float64 `json:"algorithm_stability"`

	// HintEffectiveness is the mean error without hints minus the mean
	// error with at least one hint. Zero unless both groups are present.
	HintEffectiveness float64 `json:"hint_effectiveness"`

	// ComputationalEfficiency maps mean per-examinee time onto [0, 1],
	// reaching 0 at ten seconds.
	ComputationalEfficiency float64 `json:"computational_efficiency"`

	Total   int           `json:"total"`
	Failed  int           `json:"failed"`
	Elapsed time.Duration `json:"elapsed"`
}

// Result is one synthetic examinee's outcome.
type Result struct {
	Index          int
	TrueTheta      float64
	EstimatedTheta float64
	Questions      int
	Converged      bool
	HintsUsed      int
	ProcessingTime time.Duration
	SectionScores  map[itembank.Section]float64
	Err            error
}

// AbsError is |true - estimated|.
func (r Result) AbsError() float64 {
	return math.Abs(r.TrueTheta - r.EstimatedTheta)
}

// Ability bins used for stability and the per-level breakdown.
var binBounds = []struct {
	label string
	upper float64
}{
	{"Very Low (-4 to -2)", -2},
	{"Low (-2 to -1)", -1},
	{"Average (-1 to 1)", 1},
	{"High (1 to 2)", 2},
	{"Very High (2 to 4)", math.Inf(1)},
}

func binIndex(theta float64) int {
	for i, b := range binBounds {
		if theta < b.upper {
			return i
		}
	}
	return len(binBounds) - 1
}

type binAcc struct {
	n         int
	sumErr    float64
	converged int
	questions int
}

type meanAcc struct {
	n          int
	sum, sumSq float64
}

func (m *meanAcc) add(v float64) {
	m.n++
	m.sum += v
	m.sumSq += v * v
}

func (m meanAcc) mean() float64 {
	if m.n == 0 {
		return 0
	}
	return m.sum / float64(m.n)
}

// stddev is the population standard deviation.
func (m meanAcc) stddev() float64 {
	if m.n == 0 {
		return 0
	}
	mu := m.mean()
	v := m.sumSq/float64(m.n) - mu*mu
	if v < 0 {
		return 0
	}
	return math.Sqrt(v)
}

// accumulator folds results without keeping them.
type accumulator struct {
	sections []itembank.Section

	n, failed      int
	absErr         meanAcc
	sumSq          float64
	sumSigned      float64
	converged      int
	convergedQs    meanAcc
	nonConvergedQs meanAcc
	questions      meanAcc
	hints          meanAcc
	withHint       meanAcc
	withoutHint    meanAcc
	processing     time.Duration
	bins           [5]binAcc
	sectionScores  map[itembank.Section]*meanAcc
}

func newAccumulator(sections []itembank.Section) *accumulator {
	a := &accumulator{
		sections:      sections,
		sectionScores: make(map[itembank.Section]*meanAcc, len(sections)),
	}
	for _, s := range sections {
		a.sectionScores[s] = &meanAcc{}
	}
	return a
}

func (a *accumulator) add(r Result) {
	if r.Err != nil {
		a.failed++
		return
	}
	a.n++
	e := r.AbsError()
	a.absErr.add(e)
	a.sumSq += e * e
	a.sumSigned += r.EstimatedTheta - r.TrueTheta
	a.questions.add(float64(r.Questions))
	a.hints.add(float64(r.HintsUsed))
	a.processing += r.ProcessingTime

	if r.Converged {
		a.converged++
		a.convergedQs.add(float64(r.Questions))
	} else {
		a.nonConvergedQs.add(float64(r.Questions))
	}
	if r.HintsUsed > 0 {
		a.withHint.add(e)
	} else {
		a.withoutHint.add(e)
	}

	b := &a.bins[binIndex(r.TrueTheta)]
	b.n++
	b.sumErr += e
	b.questions += r.Questions
	if r.Converged {
		b.converged++
	}

	for _, s := range a.sections {
		a.sectionScores[s].add(r.SectionScores[s])
	}
}

func (a *accumulator) metrics(elapsed time.Duration) Metrics {
	m := Metrics{Total: a.n, Failed: a.failed, Elapsed: elapsed}
	if a.n == 0 {
		return m
	}
	n := float64(a.n)
	m.MeanAbsoluteError = a.absErr.mean()
	m.RootMeanSquareError = math.Sqrt(a.sumSq / n)
	m.Bias = a.sumSigned / n
	m.ConvergenceRate = float64(a.converged) / n
	m.AlgorithmStability = a.stability()
	if a.withHint.n > 0 && a.withoutHint.n > 0 {
		m.HintEffectiveness = a.withoutHint.mean() - a.withHint.mean()
	}
	avgMs := a.processing.Seconds() * 1000 / n
	m.ComputationalEfficiency = math.Max(0, 1-avgMs/10_000)
	return m
}

// stability compares mean errors across the non-empty ability bins.
func (a *accumulator) stability() float64 {
	var binErrs meanAcc
	for _, b := range a.bins {
		if b.n > 0 {
			binErrs.add(b.sumErr / float64(b.n))
		}
	}
	mu := binErrs.mean()
	if mu == 0 {
		return 1
	}
	return math.Max(0, 1-binErrs.stddev()/mu)
}
