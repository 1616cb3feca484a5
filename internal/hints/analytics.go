package hints

// Analytics summarizes hint usage in a session.
type Analytics struct {
	TotalHints        int          `json:"total_hints"`
	ByType            map[Type]int `json:"hint_types"`
	AverageConfidence float64      `json:"average_confidence"`
	HintsPerQuestion  float64      `json:"hints_per_question"`
}

// Analytics computes usage figures over a session's history.
func (s *Service) Analytics(sessionID string) Analytics {
	hints := s.History(sessionID)
	a := Analytics{
		TotalHints: len(hints),
		ByType:     make(map[Type]int),
	}
	if len(hints) == 0 {
		return a
	}

	questions := make(map[string]struct{})
	total := 0.0
	for _, h := range hints {
		a.ByType[h.Type]++
		total += h.Confidence
		questions[h.QuestionID] = struct{}{}
	}
	a.AverageConfidence = total / float64(len(hints))
	a.HintsPerQuestion = float64(len(hints)) / float64(max(1, len(questions)))
	return a
}

// LearningSuggestions turns hint patterns into study advice.
func (s *Service) LearningSuggestions(sessionID string) []string {
	byType := s.Analytics(sessionID).ByType

	var out []string
	if byType[TypeConceptual] > 3 {
		out = append(out,
			"Focus on building foundational understanding of key concepts",
			"Review prerequisite materials before attempting advanced problems")
	}
	if byType[TypeStrategic] > 2 {
		out = append(out,
			"Practice problem-solving strategies and systematic approaches",
			"Work on breaking down complex problems into manageable steps")
	}
	if byType[TypeEncouragement] > 1 {
		out = append(out,
			"Consider taking breaks between challenging problems",
			"Build confidence with easier problems before advancing")
	}
	if len(out) == 0 {
		return []string{
			"Continue practicing to build proficiency",
			"Explore related topics to deepen understanding",
		}
	}
	return out
}
