package itembank

import "fmt"

// GenerateSpec shapes a synthetic calibrated bank.
type GenerateSpec struct {
	Sections        []Section
	ItemsPerSection int
	MinDifficulty   float64
	MaxDifficulty   float64
}

// DefaultGenerateSpec is a 3x40 bank spanning the full difficulty range.
func DefaultGenerateSpec() GenerateSpec {
	return GenerateSpec{
		Sections:        AllSections(),
		ItemsPerSection: 40,
		MinDifficulty:   MinDifficulty,
		MaxDifficulty:   MaxDifficulty,
	}
}

var generatedGuessing = []float64{0, 0.05, 0.1, 0.15}

// GenerateCalibrated builds a deterministic bank whose difficulties are
// evenly spaced across [MinDifficulty, MaxDifficulty] in every section.
// Discrimination cycles through 1.2-2.0 and guessing through 0-0.15.
func GenerateCalibrated(spec GenerateSpec) []Item {
	if len(spec.Sections) == 0 {
		spec.Sections = AllSections()
	}
	if spec.ItemsPerSection <= 0 {
		spec.ItemsPerSection = DefaultGenerateSpec().ItemsPerSection
	}
	lo, hi := spec.MinDifficulty, spec.MaxDifficulty
	if lo == 0 && hi == 0 {
		lo, hi = MinDifficulty, MaxDifficulty
	}

	n := spec.ItemsPerSection
	items := make([]Item, 0, n*len(spec.Sections))
	for _, s := range spec.Sections {
		for i := 0; i < n; i++ {
			b := lo
			if n > 1 {
				b = lo + (hi-lo)*float64(i)/float64(n-1)
			}
			a := 1.2 + 0.2*float64(i%5)
			c := generatedGuessing[i%len(generatedGuessing)]
			answer := fmt.Sprintf("%s-%02d-a", s, i)
			items = append(items, Item{
				ID:            fmt.Sprintf("%s_gen_%03d", s, i),
				Text:          fmt.Sprintf("Calibrated %s item %d (b=%.2f)", s, i, b),
				Options:       []string{answer, fmt.Sprintf("%s-%02d-b", s, i), fmt.Sprintf("%s-%02d-c", s, i), fmt.Sprintf("%s-%02d-d", s, i)},
				CorrectAnswer: answer,
				Params:        IRTParams{Discrimination: a, Difficulty: b, Guessing: c},
				Domain:        string(s),
				Section:       s,
				Weight:        1.0,
				Hints: []string{
					"Identify what the question is asking",
					"Break the problem into smaller steps",
					"Check each option against the constraints",
				},
			})
		}
	}
	return items
}
