// Package hints chooses and builds pedagogical hints from struggle signals:
// attempt count, time on task and estimated ability.
package hints

import "time"

// Type is the kind of help a hint offers.
type Type string

const (
	TypeConceptual    Type = "conceptual"
	TypeProcedural    Type = "procedural"
	TypeStrategic     Type = "strategic"
	TypeEncouragement Type = "encouragement"
	TypePersonalized  Type = "personalized"
)

// Types lists every hint type in reporting order.
func Types() []Type {
	return []Type{TypeConceptual, TypeProcedural, TypeStrategic, TypeEncouragement, TypePersonalized}
}

func (t Type) Valid() bool {
	switch t {
	case TypeConceptual, TypeProcedural, TypeStrategic, TypeEncouragement, TypePersonalized:
		return true
	}
	return false
}

// Adjustment suggests how the next item's difficulty should move.
type Adjustment string

const (
	AdjustSimplify  Adjustment = "simplify"
	AdjustElaborate Adjustment = "elaborate"
	AdjustMaintain  Adjustment = "maintain"
)

// LearningStyle is the examinee's preferred mode of working.
type LearningStyle string

const (
	StyleVisual      LearningStyle = "visual"
	StyleAnalytical  LearningStyle = "analytical"
	StyleKinesthetic LearningStyle = "kinesthetic"
	StyleVerbal      LearningStyle = "verbal"
)

func (s LearningStyle) Valid() bool {
	switch s {
	case StyleVisual, StyleAnalytical, StyleKinesthetic, StyleVerbal:
		return true
	}
	return false
}

// orDefault returns analytical for unset or unknown styles.
func (s LearningStyle) orDefault() LearningStyle {
	if s.Valid() {
		return s
	}
	return StyleAnalytical
}

// Hint is immutable once generated.
type Hint struct {
	ID                  string        `json:"id"`
	SessionID           string        `json:"session_id"`
	QuestionID          string        `json:"question_id"`
	Type                Type          `json:"hint_type"`
	Content             string        `json:"content"`
	Confidence          float64       `json:"confidence"`
	Reasoning           string        `json:"reasoning"`
	SuggestedNextStep   string        `json:"suggested_next_step,omitempty"`
	RelatedConcepts     []string      `json:"related_concepts,omitempty"`
	PersonalizedContext string        `json:"personalized_context,omitempty"`
	LearningStyle       LearningStyle `json:"learning_style,omitempty"`
	Adjustment          Adjustment    `json:"difficulty_adjustment"`

	// Strategy names the rule that produced the hint.
	Strategy  string    `json:"strategy"`
	CreatedAt time.Time `json:"created_at"`
}

// Profile carries what is known about the examinee from earlier work.
type Profile struct {
	StrugglingAreas []string
	StrongAreas     []string
}

// Request describes the moment a hint is asked for.
type Request struct {
	SessionID  string
	QuestionID string
	UserAnswer string

	// AttemptCount is 1 on the first try at the question.
	AttemptCount int
	TimeSpent    time.Duration
	Theta        float64

	// PreviousIncorrect holds earlier wrong answers, most recent first.
	PreviousIncorrect []string

	LearningStyle LearningStyle
	Profile       *Profile
}

func (r *Request) lastIncorrect() string {
	if len(r.PreviousIncorrect) == 0 {
		return ""
	}
	return r.PreviousIncorrect[0]
}
