package irt

import "math"

// Observation is one scored response against a calibrated item.
type Observation struct {
	Params  Params
	Correct bool
}

// EstimatorConfig bounds the Newton–Raphson search.
type EstimatorConfig struct {
	MaxIterations int
	Tolerance     float64
	MinTheta      float64
	MaxTheta      float64
	// MaxStep caps |Δθ| per iteration. Zero disables the cap.
	MaxStep float64
}

// DefaultEstimatorConfig returns the engine defaults: 10 iterations,
// tolerance 0.001, θ ∈ [-4, 4], steps capped at 1.0 logit.
func DefaultEstimatorConfig() EstimatorConfig {
	return EstimatorConfig{
		MaxIterations: 10,
		Tolerance:     0.001,
		MinTheta:      -4,
		MaxTheta:      4,
		MaxStep:       1.0,
	}
}

// Estimate is the outcome of a maximum likelihood search.
type Estimate struct {
	Theta      float64
	Iterations int
	// Converged is false when the iteration cap was hit or the likelihood
	// was degenerate. Theta is still the best value reached.
	Converged bool
}

// LogLikelihoodDerivatives returns the log-likelihood of obs at theta along
// with its first and second derivatives under the 3PL model.
func LogLikelihoodDerivatives(theta float64, obs []Observation) (ll, d1, d2 float64) {
	for _, o := range obs {
		a, c := o.Params.A, o.Params.C
		p := Probability(theta, o.Params)
		p = Clamp(p, 1e-12, 1-1e-12)
		// dP/dθ for the 3PL curve.
		dp := a * (p - c) * (1 - p) / (1 - c)
		if o.Correct {
			ll += math.Log(p)
			d1 += a * (1 - p) * (p - c) / (p * (1 - c))
			d2 += a * dp * (c - p*p) / ((1 - c) * p * p)
		} else {
			ll += math.Log(1 - p)
			d1 -= a * (p - c) / (1 - c)
			d2 -= a * dp / (1 - c)
		}
	}
	return ll, d1, d2
}

// EstimateTheta runs Newton–Raphson maximum likelihood over every
// observation, starting from start:
//
//	θ_{n+1} = θ_n - d1(θ_n) / d2(θ_n)
//
// with d1 and d2 the first and second derivatives of the log-likelihood.
// Where the 3PL log-likelihood is not concave (second derivative ≥ 0) the
// step falls back to Fisher scoring with the total test information. Steps
// are capped at MaxStep and the result is always clamped to
// [MinTheta, MaxTheta].
func EstimateTheta(start float64, obs []Observation, cfg EstimatorConfig) Estimate {
	theta := Clamp(start, cfg.MinTheta, cfg.MaxTheta)
	if len(obs) == 0 {
		return Estimate{Theta: theta, Converged: true}
	}

	params := make([]Params, len(obs))
	for i, o := range obs {
		params[i] = o.Params
	}

	for i := 0; i < cfg.MaxIterations; i++ {
		_, d1, d2 := LogLikelihoodDerivatives(theta, obs)

		var step float64
		switch {
		case d2 < 0 && !math.IsInf(d2, 0):
			step = -d1 / d2
		default:
			info := TotalInformation(theta, params)
			if info <= 0 {
				return Estimate{Theta: theta, Iterations: i + 1}
			}
			step = d1 / info
		}
		if math.IsNaN(step) || math.IsInf(step, 0) {
			return Estimate{Theta: theta, Iterations: i + 1}
		}
		if cfg.MaxStep > 0 {
			step = Clamp(step, -cfg.MaxStep, cfg.MaxStep)
		}

		next := Clamp(theta+step, cfg.MinTheta, cfg.MaxTheta)
		delta := next - theta
		theta = next
		if math.Abs(delta) < cfg.Tolerance {
			return Estimate{Theta: theta, Iterations: i + 1, Converged: true}
		}
	}
	return Estimate{Theta: theta, Iterations: cfg.MaxIterations}
}
