package hints

import "strings"

var styleHints = map[LearningStyle]string{
	StyleVisual:      "Try drawing a diagram or creating a visual representation of the problem.",
	StyleAnalytical:  "Let's approach this systematically by identifying each variable and relationship.",
	StyleKinesthetic: "Think about this problem in terms of real-world actions or movements.",
	StyleVerbal:      "Try reading the problem out loud and explaining each step as you go.",
}

var styleAdvice = map[LearningStyle]string{
	StyleVisual:      "Try visualizing this concept or drawing a diagram.",
	StyleAnalytical:  "Let's break this down logically step by step.",
	StyleKinesthetic: "Think about how you might physically interact with this concept.",
	StyleVerbal:      "Try explaining this concept out loud to yourself.",
}

func learningStyleHint(req *Request) *Hint {
	style := req.LearningStyle.orDefault()
	return &Hint{
		Type:              TypePersonalized,
		Content:           styleHints[style],
		Confidence:        0.85,
		Reasoning:         "Tailored to the " + string(style) + " learning style.",
		SuggestedNextStep: "Apply your " + string(style) + " learning preference to this problem",
		RelatedConcepts:   []string{"learning_styles", "personalized_learning"},
		Adjustment:        AdjustMaintain,
	}
}

func profileHint(env *Env, req *Request) *Hint {
	return &Hint{
		Type:              TypePersonalized,
		Content:           "Based on your learning profile, try focusing on the relationships between the given information.",
		Confidence:        0.8,
		Reasoning:         "General personalized guidance from the learner profile.",
		SuggestedNextStep: "Identify the key relationships in the problem",
		RelatedConcepts:   relatedConcepts(env.Items, req.QuestionID),
		Adjustment:        AdjustMaintain,
	}
}

// personalizedContext explains why a hint suits this examinee.
func personalizedContext(req *Request) string {
	if req.Profile == nil {
		return "This hint is tailored to help you understand the core concepts better."
	}
	var parts []string
	if areas := req.Profile.StrugglingAreas; len(areas) > 0 {
		if len(areas) > 2 {
			areas = areas[:2]
		}
		parts = append(parts, "Based on your previous challenges with "+strings.Join(areas, " and ")+", this approach should help.")
	}
	if req.LearningStyle.Valid() {
		parts = append(parts, styleAdvice[req.LearningStyle])
	}
	if len(parts) == 0 {
		return "This personalized hint is designed to match your learning preferences."
	}
	return strings.Join(parts, " ")
}
