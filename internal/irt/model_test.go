package irt

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProbability_WorkedExample(t *testing.T) {
	tests := []struct {
		name string
		p    Params
		want float64
	}{
		// 0.1 + 0.9/(1+e^-1.8)
		{"easy item", Params{A: 1.2, B: -1.5, C: 0.1}, 0.8723},
		// 0.1 + 0.9/(1+e^1.8)
		{"hard item", Params{A: 1.2, B: 1.5, C: 0.1}, 0.2276},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, Probability(0, tt.p), 1e-3)
		})
	}
}

func TestProbability_Monotonic(t *testing.T) {
	items := []Params{
		{A: 0.5, B: -3, C: 0},
		{A: 1.2, B: -1.5, C: 0.1},
		{A: 2.1, B: 1.8, C: 0.02},
		{A: 3.0, B: 3, C: 0.3},
	}
	for _, p := range items {
		prev := Probability(-4, p)
		for theta := -4.0; theta <= 4.0; theta += 0.05 {
			cur := Probability(theta, p)
			if cur < prev {
				t.Fatalf("P not monotonic for %+v at θ=%.2f: %f < %f", p, theta, cur, prev)
			}
			prev = cur
		}
	}
}

func TestProbability_Bounds(t *testing.T) {
	for _, a := range []float64{0.5, 1, 2, 3} {
		for _, b := range []float64{-3, -1, 0, 1, 3} {
			for _, c := range []float64{0, 0.1, 0.3} {
				p := Params{A: a, B: b, C: c}
				for theta := -6.0; theta <= 6.0; theta += 0.5 {
					got := Probability(theta, p)
					if got < c || got > 1 {
						t.Fatalf("P(%.1f; %+v) = %f outside [c, 1]", theta, p, got)
					}
				}
			}
		}
	}
}

func TestInformation_PeaksNearDifficulty(t *testing.T) {
	p := Params{A: 1.5, B: 0.5, C: 0}
	atB := Information(0.5, p)
	assert.Greater(t, atB, Information(-2, p))
	assert.Greater(t, atB, Information(3, p))
	// 2PL information at θ=b is a²/4.
	assert.InDelta(t, 1.5*1.5/4, atB, 1e-9)
}

func TestInformation_NonNegative(t *testing.T) {
	p := Params{A: 3, B: -3, C: 0.3}
	for theta := -10.0; theta <= 10.0; theta += 0.25 {
		assert.GreaterOrEqual(t, Information(theta, p), 0.0)
	}
}

func TestStandardError(t *testing.T) {
	assert.Equal(t, MaxStandardError, StandardError(0, nil))

	items := []Params{{A: 2, B: 0, C: 0}, {A: 2, B: 0, C: 0}}
	// Each item contributes a²/4 = 1 at θ=b.
	assert.InDelta(t, 1/math.Sqrt(2), StandardError(0, items), 1e-9)
}

func TestClamp(t *testing.T) {
	assert.Equal(t, -4.0, Clamp(-7, -4, 4))
	assert.Equal(t, 4.0, Clamp(9, -4, 4))
	assert.Equal(t, 1.5, Clamp(1.5, -4, 4))
}

func TestTotalInformation(t *testing.T) {
	items := []Params{{A: 1.5, B: 0.5, C: 0}, {A: 1.2, B: -1.5, C: 0.1}}
	want := Information(0.3, items[0]) + Information(0.3, items[1])
	assert.InDelta(t, want, TotalInformation(0.3, items), 1e-12)
	assert.Zero(t, TotalInformation(0.3, nil))
	assert.Equal(t, MaxStandardError, StandardError(0.3, nil))
}
