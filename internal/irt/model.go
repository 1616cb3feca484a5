// Package irt implements the three-parameter logistic (3PL) item response
// model: response probabilities, Fisher information, and maximum likelihood
// ability estimation.
package irt

import "math"

// Params are the calibrated 3PL parameters of a single item.
type Params struct {
	A float64 // discrimination
	B float64 // difficulty
	C float64 // guessing (lower asymptote)
}

// Probability returns P(θ) = c + (1-c) / (1 + e^(-a(θ-b))).
func Probability(theta float64, p Params) float64 {
	return p.C + (1-p.C)/(1+math.Exp(-p.A*(theta-p.B)))
}

// Information returns the Fisher information of an item at theta:
//
//	I(θ) = a² · (P-c)² · (1-P) / (P · (1-c)²)
//
// The result is never negative.
func Information(theta float64, p Params) float64 {
	prob := Probability(theta, p)
	if prob <= 0 || p.C >= 1 {
		return 0
	}
	pc := prob - p.C
	info := p.A * p.A * pc * pc * (1 - prob) / (prob * (1 - p.C) * (1 - p.C))
	if info < 0 || math.IsNaN(info) {
		return 0
	}
	return info
}

// TotalInformation sums item information at theta.
func TotalInformation(theta float64, items []Params) float64 {
	total := 0.0
	for _, p := range items {
		total += Information(theta, p)
	}
	return total
}

// StandardError returns 1/sqrt(ΣI) for the given items at theta, or
// MaxStandardError when the items carry no information.
func StandardError(theta float64, items []Params) float64 {
	total := TotalInformation(theta, items)
	if total <= 0 {
		return MaxStandardError
	}
	return 1 / math.Sqrt(total)
}

// MaxStandardError is reported when no information has been gathered yet.
const MaxStandardError = 2.0

// Clamp bounds v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
