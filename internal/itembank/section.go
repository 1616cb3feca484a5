package itembank

// Section is one of the three scored assessment sections.
type Section string

const (
	SectionCoreMath         Section = "core_math"
	SectionAppliedReasoning Section = "applied_reasoning"
	SectionAIConceptual     Section = "ai_conceptual"
)

// DefaultSection receives domains missing from the lookup table.
const DefaultSection = SectionAppliedReasoning

// AllSections returns the sections in presentation order.
func AllSections() []Section {
	return []Section{SectionCoreMath, SectionAppliedReasoning, SectionAIConceptual}
}

// Valid reports whether s is a known section.
func (s Section) Valid() bool {
	switch s {
	case SectionCoreMath, SectionAppliedReasoning, SectionAIConceptual:
		return true
	}
	return false
}

var domainSections = map[string]Section{
	"mathematical_reasoning": SectionCoreMath,
	"algebra_foundations":    SectionCoreMath,
	"calculus_basics":        SectionCoreMath,
	"differential_equations": SectionCoreMath,
	"logical_reasoning":      SectionAppliedReasoning,
	"spatial_intelligence":   SectionAppliedReasoning,
	"verbal_comprehension":   SectionAppliedReasoning,
	"quantitative_reasoning": SectionAppliedReasoning,
	"systems_thinking":       SectionAppliedReasoning,
	"emotional_awareness":    SectionAIConceptual,
	"social_skills":          SectionAIConceptual,
	"ml_theory":              SectionAIConceptual,
	"ai_ethics":              SectionAIConceptual,
}

// SectionForDomain maps an external domain/subject onto a section.
func SectionForDomain(domain string) Section {
	if s, ok := domainSections[domain]; ok {
		return s
	}
	return DefaultSection
}
