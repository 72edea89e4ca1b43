package model

// QuestionType defines how a question is rendered and which answer shape it takes
type QuestionType string

const (
	QuestionTypeText         QuestionType = "text"
	QuestionTypeTextarea     QuestionType = "textarea"
	QuestionTypeSelectCard   QuestionType = "select-card"   // Single or multi choice cards
	QuestionTypeSelectCities QuestionType = "select-cities" // Multi choice over a city list
	QuestionTypeSocialLinks  QuestionType = "social-links"  // platform -> url
	QuestionTypeMediaUpload  QuestionType = "media-upload"
	QuestionTypeSlider       QuestionType = "slider"
	QuestionTypeInfo         QuestionType = "info" // Display only, holds no answer
)

// Valid reports whether t is a known question type
func (t QuestionType) Valid() bool {
	switch t {
	case QuestionTypeText, QuestionTypeTextarea, QuestionTypeSelectCard, QuestionTypeSelectCities,
		QuestionTypeSocialLinks, QuestionTypeMediaUpload, QuestionTypeSlider, QuestionTypeInfo:
		return true
	}
	return false
}

// Option is a selectable choice of a select-card or select-cities question
type Option struct {
	Value       string `json:"value" yaml:"value"`
	Label       string `json:"label" yaml:"label"`
	Icon        string `json:"icon,omitempty" yaml:"icon,omitempty"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
}

// Question describes one field of a questionnaire section.
// Visibility predicates are held by the registry, keyed by ID.
type Question struct {
	ID          string       `json:"id"`
	Type        QuestionType `json:"type"`
	Title       string       `json:"title"`
	Description string       `json:"description,omitempty"`
	Required    bool         `json:"required"`
	Multiple    bool         `json:"multiple,omitempty"` // select-card only
	Options     []Option     `json:"options,omitempty"`

	// Slider bounds
	Min  float64 `json:"min,omitempty"`
	Max  float64 `json:"max,omitempty"`
	Step float64 `json:"step,omitempty"`

	// Text length bounds, 0 means unbounded
	MinLength int `json:"minLength,omitempty"`
	MaxLength int `json:"maxLength,omitempty"`

	Conditional bool `json:"conditional,omitempty"` // true when a visibility predicate is bound
}

// HasOption reports whether value is one of the question's options
func (q *Question) HasOption(value string) bool {
	for _, o := range q.Options {
		if o.Value == value {
			return true
		}
	}
	return false
}

// Answerable reports whether the question stores an answer
func (q *Question) Answerable() bool {
	return q.Type != QuestionTypeInfo
}

// ValueKind returns the answer shape the question takes
func (q *Question) ValueKind() ValueKind {
	switch q.Type {
	case QuestionTypeText, QuestionTypeTextarea:
		return KindText
	case QuestionTypeSelectCard:
		if q.Multiple {
			return KindList
		}
		return KindText
	case QuestionTypeSelectCities:
		return KindList
	case QuestionTypeSocialLinks:
		return KindLinks
	case QuestionTypeMediaUpload:
		return KindFile
	case QuestionTypeSlider:
		return KindNumber
	}
	return KindNone
}

// Section is a named, ordered group of questions shown as one wizard step
type Section struct {
	ID        string     `json:"id"`
	Title     string     `json:"title"`
	Questions []Question `json:"questions"`
}

// Question looks up a question of the section by ID
func (s *Section) Question(id string) (*Question, bool) {
	for i := range s.Questions {
		if s.Questions[i].ID == id {
			return &s.Questions[i], true
		}
	}
	return nil, false
}
