package engine

import "github.com/abhisek/adaptiq/internal/session"

// Signal is advisory guidance for the caller about the next item.
type Signal string

const (
	SignalIncreaseDifficulty Signal = "increase_difficulty"
	SignalDecreaseDifficulty Signal = "decrease_difficulty"
	SignalGatherMoreEvidence Signal = "gather_more_evidence"
	SignalMaintainLevel      Signal = "maintain_level"
)

// adaptationSignal inspects the last window responses: a full streak of
// correct or incorrect answers wins, then low confidence, then maintain.
func adaptationSignal(responses []session.Response, window int, confidence, threshold float64) Signal {
	if len(responses) >= window {
		recent := responses[len(responses)-window:]
		correct := 0
		for _, r := range recent {
			if r.Correct {
				correct++
			}
		}
		switch correct {
		case window:
			return SignalIncreaseDifficulty
		case 0:
			return SignalDecreaseDifficulty
		}
	}
	if confidence < threshold {
		return SignalGatherMoreEvidence
	}
	return SignalMaintainLevel
}
