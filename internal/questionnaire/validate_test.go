package questionnaire

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"realtyflow/internal/model"
)

func fieldIDs(t *testing.T, err error) []string {
	t.Helper()
	var verr *model.ValidationError
	require.True(t, errors.As(err, &verr), "expected a validation error, got %v", err)
	ids := make([]string, len(verr.Fields))
	for i, f := range verr.Fields {
		ids[i] = f.QuestionID
	}
	return ids
}

func TestValidateSectionRequiredFields(t *testing.T) {
	q, err := MustBuiltin().Get(AgentOnboardingID)
	require.NoError(t, err)
	section, _ := q.Section("generalDetails")

	err = ValidateSection(q, section, model.AnswerMap{})
	assert.ErrorIs(t, err, model.ErrValidation)
	assert.Equal(t, []string{"businessName", "propertyTypes", "areas"}, fieldIDs(t, err))

	answers := model.AnswerMap{
		"businessName":  model.TextValue("Harbor Homes"),
		"propertyTypes": model.ListValue("residential"),
		"areas":         model.ListValue("north"),
	}
	assert.NoError(t, ValidateSection(q, section, answers))
}

func TestValidateSkipsHiddenQuestions(t *testing.T) {
	q, err := MustBuiltin().Get(AgentOnboardingID)
	require.NoError(t, err)
	section, _ := q.Section("goals")

	answers := model.AnswerMap{"mainGoal": model.TextValue("more-leads")}
	assert.NoError(t, ValidateSection(q, section, answers))

	answers = answers.Set("mainGoal", model.TextValue("other"))
	assert.Equal(t, []string{"otherGoal"}, fieldIDs(t, ValidateSection(q, section, answers)))
}

func TestCheckQuestion(t *testing.T) {
	text := &model.Question{ID: "t", Type: model.QuestionTypeText, MinLength: 3, MaxLength: 5}
	card := &model.Question{ID: "c", Type: model.QuestionTypeSelectCard, Options: []model.Option{{Value: "a"}}}
	multi := &model.Question{ID: "m", Type: model.QuestionTypeSelectCard, Multiple: true, Options: []model.Option{{Value: "a"}, {Value: "b"}}}
	slider := &model.Question{ID: "s", Type: model.QuestionTypeSlider, Min: 1, Max: 10}
	links := &model.Question{ID: "l", Type: model.QuestionTypeSocialLinks, Options: []model.Option{{Value: "facebook"}}}
	info := &model.Question{ID: "i", Type: model.QuestionTypeInfo, Required: true}

	tests := []struct {
		name     string
		question *model.Question
		value    model.Value
		ok       bool
	}{
		{"text ok", text, model.TextValue("abcd"), true},
		{"text trimmed too short", text, model.TextValue("  ab  "), false},
		{"text too long", text, model.TextValue("abcdef"), false},
		{"text counts runes", text, model.TextValue("שלום"), true},
		{"card ok", card, model.TextValue("a"), true},
		{"card bad option", card, model.TextValue("z"), false},
		{"card wrong kind", card, model.ListValue("a"), false},
		{"multi ok", multi, model.ListValue("a", "b"), true},
		{"multi bad option", multi, model.ListValue("a", "q"), false},
		{"slider in range", slider, model.NumberValue(10), true},
		{"slider out of range", slider, model.NumberValue(11), false},
		{"links ok", links, model.LinksValue(map[string]string{"facebook": "https://fb.com/me"}), true},
		{"links bad url", links, model.LinksValue(map[string]string{"facebook": "fb.com/me"}), false},
		{"links unknown platform", links, model.LinksValue(map[string]string{"myspace": "https://myspace.com/me"}), false},
		{"info never fails", info, model.Value{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := CheckQuestion(tt.question, model.AnswerMap{tt.question.ID: tt.value})
			if tt.ok {
				assert.Empty(t, errs)
			} else {
				assert.NotEmpty(t, errs)
			}
		})
	}
}

func TestValidateCurrent(t *testing.T) {
	q := threeSections(t)
	st := Start(q, model.AnswerMap{})

	assert.Equal(t, []string{"name"}, fieldIDs(t, ValidateCurrent(q, model.AnswerMap{}, st)))
	assert.NoError(t, ValidateCurrent(q, model.AnswerMap{"name": model.TextValue("Dana")}, st))
}

func TestValidateWholeQuestionnaire(t *testing.T) {
	q, err := MustBuiltin().Get(PostWizardID)
	require.NoError(t, err)

	answers := model.AnswerMap{
		"postKind":  model.TextValue("market-update"),
		"title":     model.TextValue("Prices in Haifa, Q3"),
		"caption":   model.TextValue("Here is what changed this quarter."),
		"platforms": model.ListValue("facebook", "linkedin"),
		"schedule":  model.TextValue("now"),
	}
	assert.NoError(t, Validate(q, answers))

	answers = answers.Set("schedule", model.TextValue("later"))
	assert.Equal(t, []string{"scheduledAt"}, fieldIDs(t, Validate(q, answers)))
}
