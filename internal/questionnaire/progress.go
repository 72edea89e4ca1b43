package questionnaire

import (
	"fmt"

	"realtyflow/internal/model"
)

// ProgressPolicy decides which questions form the progress denominator
type ProgressPolicy string

const (
	// PolicyAllDeclared counts every answerable question, hidden ones included
	PolicyAllDeclared ProgressPolicy = "all-declared"
	// PolicyVisible counts only questions visible under the current answers
	PolicyVisible ProgressPolicy = "visible"
)

// ParsePolicy validates a policy name; empty means PolicyAllDeclared
func ParsePolicy(s string) (ProgressPolicy, error) {
	switch ProgressPolicy(s) {
	case "", PolicyAllDeclared:
		return PolicyAllDeclared, nil
	case PolicyVisible:
		return PolicyVisible, nil
	}
	return "", fmt.Errorf("unknown progress policy %q", s)
}

// Progress returns the completion percentage in [0,100]: filled counted
// questions over counted questions, rounded down. Info questions never count.
func Progress(q *Questionnaire, answers model.AnswerMap, policy ProgressPolicy) int {
	total, filled := 0, 0
	for _, s := range q.sections {
		for _, question := range s.Questions {
			if !question.Answerable() {
				continue
			}
			if policy == PolicyVisible && !q.IsVisible(question.ID, answers) {
				continue
			}
			total++
			if v, ok := answers.Get(question.ID); ok && v.Filled() {
				filled++
			}
		}
	}
	if total == 0 {
		return 0
	}
	pct := filled * 100 / total
	if pct > 100 {
		pct = 100
	}
	return pct
}
