package simulation

import (
	"context"
	"fmt"
	"math"
	"math/rand/v2"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/abhisek/adaptiq/internal/engine"
	"github.com/abhisek/adaptiq/internal/hints"
	"github.com/abhisek/adaptiq/internal/irt"
	"github.com/abhisek/adaptiq/internal/itembank"
	"github.com/abhisek/adaptiq/internal/logger"
	"github.com/abhisek/adaptiq/internal/session"
)

// progressEvery is how many batches pass between progress log lines.
const progressEvery = 50

// Harness drives synthetic examinees through an engine.
type Harness struct {
	engine *engine.Engine
	hints  *hints.Service
	cfg    Config
	log    *logger.Logger
}

// NewHarness runs cfg against eng. hintSvc may be nil, in which case hint
// requests are counted but no hints are generated.
func NewHarness(eng *engine.Engine, hintSvc *hints.Service, cfg Config, log *logger.Logger) *Harness {
	if log == nil {
		log = logger.Nop()
	}
	return &Harness{engine: eng, hints: hintSvc, cfg: cfg, log: log}
}

// HarnessForBank builds a self-contained harness: an engine over bank with
// an in-memory session store, and a hint service whose phrase choice is
// seeded from cfg.Seed.
func HarnessForBank(bank *itembank.Bank, cfg Config, log *logger.Logger) *Harness {
	if log == nil {
		log = logger.Nop()
	}
	ecfg := engine.DefaultConfig()
	ecfg.SEAtCurrentTheta = cfg.SEAtCurrentTheta
	eng := engine.New(bank, session.NewMemoryStore(0), ecfg, log)
	hintSvc := hints.NewService(eng, log, hints.WithPhraseChooser(hints.NewSeededChooser(cfg.Seed)))
	return NewHarness(eng, hintSvc, cfg, log)
}

// RunSimulation runs iterations examinees over a generated calibrated bank
// and returns the aggregate metrics.
func RunSimulation(ctx context.Context, iterations int, cfg Config) (*Metrics, error) {
	cfg.Iterations = iterations
	spec := itembank.DefaultGenerateSpec()
	spec.Sections = cfg.sections()
	bank, err := itembank.NewBank(itembank.GenerateCalibrated(spec))
	if err != nil {
		return nil, fmt.Errorf("generate bank: %w", err)
	}
	report, err := HarnessForBank(bank, cfg, nil).Run(ctx)
	if err != nil {
		return nil, err
	}
	return &report.Metrics, nil
}

// Run simulates cfg.Iterations examinees in batches of cfg.BatchSize. Each
// batch runs concurrently and completes before the next begins. Results
// are folded in examinee order, so a fixed seed gives the same metrics.
func (h *Harness) Run(ctx context.Context) (*Report, error) {
	if err := h.cfg.Validate(); err != nil {
		return nil, err
	}

	start := time.Now()
	sections := h.cfg.sections()
	acc := newAccumulator(sections)
	batches := (h.cfg.Iterations + h.cfg.BatchSize - 1) / h.cfg.BatchSize

	h.log.Info("simulation started", "iterations", h.cfg.Iterations, "batches", batches, "seed", h.cfg.Seed)

	for b := 0; b < batches; b++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		first := b * h.cfg.BatchSize
		n := min(h.cfg.BatchSize, h.cfg.Iterations-first)
		results := make([]Result, n)

		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(h.cfg.workers())
		for i := range n {
			g.Go(func() error {
				results[i] = h.runExaminee(gctx, first+i, sections)
				return nil
			})
		}
		_ = g.Wait()
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		for _, r := range results {
			acc.add(r)
			if r.Err != nil {
				h.log.Debug("examinee failed", "index", r.Index, "error", r.Err)
			}
		}
		if b%progressEvery == 0 || b == batches-1 {
			h.log.Info("simulation progress", "batch", b+1, "batches", batches,
				"percent", math.Round(1000*float64(b+1)/float64(batches))/10)
		}
	}

	m := acc.metrics(time.Since(start))
	report := acc.report(h.cfg, m)
	h.log.Info("simulation finished", "total", m.Total, "failed", m.Failed,
		"mae", m.MeanAbsoluteError, "rmse", m.RootMeanSquareError, "convergence", m.ConvergenceRate,
		"passed", report.Passed, "elapsed", m.Elapsed.String())
	return report, nil
}

// examineeRand returns examinee i's private random stream.
func examineeRand(seed uint64, i int) *rand.Rand {
	return rand.New(rand.NewPCG(seed, uint64(i)))
}

func (h *Harness) runExaminee(ctx context.Context, index int, sections []itembank.Section) Result {
	began := time.Now()
	rng := examineeRand(h.cfg.Seed, index)
	res := Result{
		Index:         index,
		TrueTheta:     h.cfg.MinTheta + rng.Float64()*(h.cfg.MaxTheta-h.cfg.MinTheta),
		SectionScores: make(map[itembank.Section]float64, len(sections)),
	}

	sid, err := h.engine.StartAssessment(ctx, fmt.Sprintf("sim_user_%d", index), sections)
	if err != nil {
		res.Err = err
		return res
	}
	defer func() {
		if err := h.engine.EndSession(context.WithoutCancel(ctx), sid); err != nil {
			h.log.Debug("end simulated session", "session_id", sid, "error", err)
		}
		if h.hints != nil {
			h.hints.Forget(sid)
		}
	}()

	previous := 0.0
	for _, section := range sections {
		correct, total := 0, 0
		for q := 0; q < h.cfg.ItemsPerSection; q++ {
			if h.cfg.MaxQuestions > 0 && res.Questions >= h.cfg.MaxQuestions {
				break
			}
			item, err := h.engine.SelectNextQuestion(ctx, sid, section)
			if err != nil {
				res.Err = err
				return res
			}
			if item == nil {
				break
			}
			res.Questions++
			total++

			isCorrect := rng.Float64() < irt.Probability(res.TrueTheta, item.Params.Model())
			answer := item.CorrectAnswer
			if isCorrect {
				correct++
			} else {
				answer = incorrectAnswer(rng, item)
			}
			rt := responseTime(rng, res.TrueTheta, item.Params.Difficulty)

			hintUsed := false
			if !isCorrect && rng.Float64() < h.cfg.HintProbability {
				if h.hints != nil {
					h.hints.GenerateHint(ctx, hints.Request{
						SessionID:    sid,
						QuestionID:   item.ID,
						UserAnswer:   answer,
						AttemptCount: 1,
						TimeSpent:    rt,
						Theta:        res.TrueTheta,
					})
				}
				res.HintsUsed++
				hintUsed = true
			}

			up, err := h.engine.ProcessResponse(ctx, sid, engine.Submission{
				QuestionID:   item.ID,
				Answer:       answer,
				ResponseTime: rt,
				HintUsed:     hintUsed,
			})
			if err != nil {
				res.Err = err
				return res
			}
			if math.Abs(up.Theta-previous) < h.cfg.ConvergenceThreshold && res.Questions >= h.cfg.MinConvergenceQuestions {
				res.Converged = true
			}
			previous = up.Theta
		}
		if total > 0 {
			res.SectionScores[section] = float64(correct) / float64(total)
		}
	}

	results, err := h.engine.Results(ctx, sid)
	if err != nil {
		res.Err = err
		return res
	}
	res.EstimatedTheta = results.Theta
	res.ProcessingTime = time.Since(began)
	return res
}

// incorrectAnswer picks a wrong option, or a placeholder for open items.
func incorrectAnswer(rng *rand.Rand, item *itembank.Item) string {
	wrong := make([]string, 0, len(item.Options))
	for _, o := range item.Options {
		if !engine.AnswersMatch(o, item.CorrectAnswer) {
			wrong = append(wrong, o)
		}
	}
	if len(wrong) == 0 {
		return "incorrect_answer"
	}
	return wrong[rng.IntN(len(wrong))]
}

// responseTime is 10–60s, stretched by half the ability/difficulty gap,
// then varied by ±20%.
func responseTime(rng *rand.Rand, theta, difficulty float64) time.Duration {
	base := 10 + rng.Float64()*50
	adjusted := base * (1 + math.Abs(difficulty-theta)*0.5)
	variation := 0.8 + rng.Float64()*0.4
	return time.Duration(math.Round(adjusted*variation*1000)) * time.Millisecond
}
