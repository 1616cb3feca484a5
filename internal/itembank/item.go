// Package itembank holds calibrated assessment items and the bank that
// indexes them by section.
package itembank

import (
	"errors"
	"fmt"

	"github.com/abhisek/adaptiq/internal/irt"
)

// Parameter ranges accepted at calibration time.
const (
	MinDiscrimination = 0.5
	MaxDiscrimination = 3.0
	MinDifficulty     = -3.0
	MaxDifficulty     = 3.0
	MinGuessing       = 0.0
	MaxGuessing       = 0.3
)

// ErrInvalidParams is returned when calibrated parameters fall outside the
// accepted ranges.
var ErrInvalidParams = errors.New("invalid IRT parameters")

// IRTParams are an item's calibrated 3PL parameters.
type IRTParams struct {
	Discrimination float64 `json:"discrimination" yaml:"discrimination"`
	Difficulty     float64 `json:"difficulty" yaml:"difficulty"`
	Guessing       float64 `json:"guessing" yaml:"guessing"`
}

// Model converts to the irt package representation.
func (p IRTParams) Model() irt.Params {
	return irt.Params{A: p.Discrimination, B: p.Difficulty, C: p.Guessing}
}

// Validate checks the parameters against the calibration ranges.
func (p IRTParams) Validate() error {
	switch {
	case p.Discrimination < MinDiscrimination || p.Discrimination > MaxDiscrimination:
		return fmt.Errorf("%w: discrimination %.3f not in [%.1f, %.1f]", ErrInvalidParams, p.Discrimination, MinDiscrimination, MaxDiscrimination)
	case p.Difficulty < MinDifficulty || p.Difficulty > MaxDifficulty:
		return fmt.Errorf("%w: difficulty %.3f not in [%.1f, %.1f]", ErrInvalidParams, p.Difficulty, MinDifficulty, MaxDifficulty)
	case p.Guessing < MinGuessing || p.Guessing > MaxGuessing:
		return fmt.Errorf("%w: guessing %.3f not in [%.1f, %.1f]", ErrInvalidParams, p.Guessing, MinGuessing, MaxGuessing)
	}
	return nil
}

// Format is the question type of an item.
type Format string

const (
	FormatMultipleChoice Format = "multiple_choice"
	FormatOpenResponse   Format = "open_response"
)

// Item is a single calibrated question. Items are values: the bank hands
// out copies so calibrated parameters cannot be changed at runtime.
type Item struct {
	ID                string    `json:"id" yaml:"id"`
	Text              string    `json:"text" yaml:"text"`
	Options           []string  `json:"options,omitempty" yaml:"options,omitempty"`
	CorrectAnswer     string    `json:"correct_answer" yaml:"correct_answer"`
	Params            IRTParams `json:"irt_params" yaml:"irt_params"`
	Domain            string    `json:"domain" yaml:"domain"`
	Section           Section   `json:"section" yaml:"section"`
	Weight            float64   `json:"weight" yaml:"weight"`
	Hints             []string  `json:"hints,omitempty" yaml:"hints,omitempty"`
	ThinkAloudPrompts []string  `json:"think_aloud_prompts,omitempty" yaml:"think_aloud_prompts,omitempty"`
	Prerequisites     []string  `json:"prerequisites,omitempty" yaml:"prerequisites,omitempty"`
}

// Format reports whether the item is multiple choice or open response.
func (it Item) Format() Format {
	if len(it.Options) > 0 {
		return FormatMultipleChoice
	}
	return FormatOpenResponse
}

// Validate checks the item is usable by the engine.
func (it Item) Validate() error {
	if it.ID == "" {
		return errors.New("item id is required")
	}
	if it.CorrectAnswer == "" {
		return fmt.Errorf("item %s: correct answer is required", it.ID)
	}
	if !it.Section.Valid() {
		return fmt.Errorf("item %s: unknown section %q", it.ID, it.Section)
	}
	if err := it.Params.Validate(); err != nil {
		return fmt.Errorf("item %s: %w", it.ID, err)
	}
	return nil
}

func (it Item) clone() Item {
	out := it
	out.Options = append([]string(nil), it.Options...)
	out.Hints = append([]string(nil), it.Hints...)
	out.ThinkAloudPrompts = append([]string(nil), it.ThinkAloudPrompts...)
	out.Prerequisites = append([]string(nil), it.Prerequisites...)
	return out
}
