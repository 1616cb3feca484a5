package itembank

// SeedBank returns the built-in calibrated items used when no repository
// is available or the repository is empty.
func SeedBank() []Item {
	return []Item{
		{
			ID:            "math_foundation_1",
			Text:          "Solve for x: 3x + 7 = 22",
			Options:       []string{"3", "5", "7", "15"},
			CorrectAnswer: "5",
			Params:        IRTParams{Discrimination: 1.2, Difficulty: -1.5, Guessing: 0.1},
			Domain:        "algebra_foundations",
			Section:       SectionCoreMath,
			Weight:        1.0,
			Hints: []string{
				"Subtract 7 from both sides first",
				"Isolate the term with x",
				"Divide both sides by the coefficient of x",
			},
		},
		{
			ID:            "math_intermediate_1",
			Text:          "Find the derivative of f(x) = 3x² + 2x - 5",
			Options:       []string{"6x + 2", "3x² + 2", "6x + 2x", "6x - 5"},
			CorrectAnswer: "6x + 2",
			Params:        IRTParams{Discrimination: 1.8, Difficulty: 0.5, Guessing: 0.05},
			Domain:        "calculus_basics",
			Section:       SectionCoreMath,
			Weight:        1.5,
			Hints: []string{
				"Use the power rule: d/dx[xⁿ] = nxⁿ⁻¹",
				"Take the derivative of each term separately",
				"Constants disappear when taking derivatives",
			},
		},
		{
			ID:            "math_advanced_1",
			Text:          "Solve the differential equation dy/dx = y/x with initial condition y(1) = 2",
			Options:       []string{"y = 2x", "y = 2/x", "y = 2x²", "y = x + 1"},
			CorrectAnswer: "y = 2x",
			Params:        IRTParams{Discrimination: 2.1, Difficulty: 1.8, Guessing: 0.02},
			Domain:        "differential_equations",
			Section:       SectionCoreMath,
			Weight:        2.0,
			Prerequisites: []string{"calculus_basics"},
			Hints: []string{
				"This is a separable differential equation",
				"Separate variables: dy/y = dx/x",
				"Integrate both sides and apply the initial condition",
			},
		},
		{
			ID:            "reasoning_scenario_1",
			Text:          "A company's revenue increased by 25% in Q1 and decreased by 20% in Q2. What is the net change?",
			Options:       []string{"5% increase", "0% change", "5% decrease", "10% increase"},
			CorrectAnswer: "0% change",
			Params:        IRTParams{Discrimination: 1.5, Difficulty: 0.2, Guessing: 0.15},
			Domain:        "quantitative_reasoning",
			Section:       SectionAppliedReasoning,
			Weight:        1.8,
			ThinkAloudPrompts: []string{
				"Explain your reasoning step by step",
				"What mathematical operations are you using?",
				"How do you handle percentage changes?",
			},
		},
		{
			ID:            "reasoning_complex_1",
			Text:          "Design a resource allocation strategy for a team of 12 developers across 4 projects with varying priorities and deadlines.",
			CorrectAnswer: "Strategic allocation based on priority matrix and skill matching",
			Params:        IRTParams{Discrimination: 2.0, Difficulty: 1.2, Guessing: 0.0},
			Domain:        "systems_thinking",
			Section:       SectionAppliedReasoning,
			Weight:        2.5,
			ThinkAloudPrompts: []string{
				"What factors are you considering?",
				"How do you balance priorities?",
				"What constraints affect your decision?",
			},
		},
		{
			ID:            "ai_concepts_1",
			Text:          "Explain the bias-variance tradeoff in machine learning and its implications for model performance.",
			CorrectAnswer: "Balance between model complexity, overfitting, and generalization",
			Params:        IRTParams{Discrimination: 1.9, Difficulty: 1.0, Guessing: 0.0},
			Domain:        "ml_theory",
			Section:       SectionAIConceptual,
			Weight:        2.0,
			Hints: []string{
				"Think about model complexity vs. accuracy",
				"Consider overfitting and underfitting",
				"How does training data size affect this tradeoff?",
			},
		},
		{
			ID:            "ai_ethics_1",
			Text:          "An AI system shows 95% accuracy overall but only 70% accuracy for underrepresented groups. How would you address this?",
			CorrectAnswer: "Implement fairness-aware ML with bias detection and mitigation strategies",
			Params:        IRTParams{Discrimination: 2.2, Difficulty: 1.5, Guessing: 0.0},
			Domain:        "ai_ethics",
			Section:       SectionAIConceptual,
			Weight:        3.0,
			Prerequisites: []string{"ml_theory"},
			ThinkAloudPrompts: []string{
				"What ethical principles are at stake?",
				"How would you measure and improve fairness?",
				"What trade-offs need to be considered?",
			},
		},
	}
}
