package questionnaire

import (
	"fmt"

	"realtyflow/internal/model"
)

// SetAnswer returns a new answer map with the question's value replaced.
// The value itself is not validated here; see Validate.
func SetAnswer(q *Questionnaire, answers model.AnswerMap, questionID string, v model.Value) (model.AnswerMap, error) {
	question, ok := q.Question(questionID)
	if !ok {
		return answers, fmt.Errorf("%s: %w", questionID, model.ErrUnknownQuestion)
	}
	if !question.Answerable() {
		return answers, fmt.Errorf("%s holds no answer: %w", questionID, model.ErrUnknownQuestion)
	}
	return answers.Set(questionID, v), nil
}

// GetAnswer returns the current value of a question, or its type-appropriate empty default
func GetAnswer(question *model.Question, answers model.AnswerMap) model.Value {
	if v, ok := answers.Get(question.ID); ok {
		return v
	}
	return model.EmptyValue(question.ValueKind())
}

// ToggleOption adds value to list if absent and removes it otherwise.
// The input list is left untouched.
func ToggleOption(list []string, value string) []string {
	out := make([]string, 0, len(list)+1)
	removed := false
	for _, v := range list {
		if v == value {
			removed = true
			continue
		}
		out = append(out, v)
	}
	if !removed {
		out = append(out, value)
	}
	return out
}
