package questionnaire

import (
	"fmt"
	"net/url"
	"sort"
	"strings"
	"unicode/utf8"

	"realtyflow/internal/model"
)

// CheckQuestion runs the schema checks of one question against its answer.
// It returns nil when the answer is acceptable.
func CheckQuestion(question *model.Question, answers model.AnswerMap) []model.FieldError {
	if !question.Answerable() {
		return nil
	}
	v, ok := answers.Get(question.ID)
	if !ok || !v.Filled() {
		if question.Required {
			return []model.FieldError{{QuestionID: question.ID, Message: "this field is required"}}
		}
		return nil
	}

	fail := func(format string, args ...interface{}) []model.FieldError {
		return []model.FieldError{{QuestionID: question.ID, Message: fmt.Sprintf(format, args...)}}
	}

	want := question.ValueKind()
	if v.Kind != want {
		return fail("expected a %s answer, got %s", want, v.Kind)
	}

	switch question.Type {
	case model.QuestionTypeText, model.QuestionTypeTextarea:
		n := utf8.RuneCountInString(strings.TrimSpace(v.Text))
		if question.MinLength > 0 && n < question.MinLength {
			return fail("must be at least %d characters", question.MinLength)
		}
		if question.MaxLength > 0 && n > question.MaxLength {
			return fail("must be at most %d characters", question.MaxLength)
		}
	case model.QuestionTypeSelectCard, model.QuestionTypeSelectCities:
		if len(question.Options) == 0 {
			return nil
		}
		for _, s := range v.Strings() {
			if !question.HasOption(s) {
				return fail("%q is not a valid option", s)
			}
		}
	case model.QuestionTypeSlider:
		if question.Max > question.Min && (v.Number < question.Min || v.Number > question.Max) {
			return fail("must be between %g and %g", question.Min, question.Max)
		}
	case model.QuestionTypeSocialLinks:
		platforms := make([]string, 0, len(v.Links))
		for platform := range v.Links {
			platforms = append(platforms, platform)
		}
		sort.Strings(platforms)

		var errs []model.FieldError
		for _, platform := range platforms {
			link := v.Links[platform]
			if len(question.Options) > 0 && !question.HasOption(platform) {
				errs = append(errs, model.FieldError{QuestionID: question.ID, Message: fmt.Sprintf("unknown platform %q", platform)})
				continue
			}
			if strings.TrimSpace(link) == "" {
				continue
			}
			u, err := url.Parse(link)
			if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
				errs = append(errs, model.FieldError{QuestionID: question.ID, Message: fmt.Sprintf("%s link is not a valid url", platform)})
			}
		}
		return errs
	}
	return nil
}

// ValidateSection checks the visible questions of a section
func ValidateSection(q *Questionnaire, section *model.Section, answers model.AnswerMap) error {
	var errs []model.FieldError
	for _, question := range q.VisibleQuestions(section, answers) {
		question := question
		errs = append(errs, CheckQuestion(&question, answers)...)
	}
	if len(errs) > 0 {
		return &model.ValidationError{Fields: errs}
	}
	return nil
}

// Validate checks every visible question of the questionnaire
func Validate(q *Questionnaire, answers model.AnswerMap) error {
	var errs []model.FieldError
	for i := range q.sections {
		for _, question := range q.visibleAt(i, answers) {
			question := question
			errs = append(errs, CheckQuestion(&question, answers)...)
		}
	}
	if len(errs) > 0 {
		return &model.ValidationError{Fields: errs}
	}
	return nil
}

// ValidateCurrent checks only the question at st
func ValidateCurrent(q *Questionnaire, answers model.AnswerMap, st model.NavState) error {
	question := Current(q, answers, st)
	if question == nil {
		return nil
	}
	if errs := CheckQuestion(question, answers); len(errs) > 0 {
		return &model.ValidationError{Fields: errs}
	}
	return nil
}
