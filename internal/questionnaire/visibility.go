package questionnaire

import "realtyflow/internal/model"

// VisibleQuestions returns, in declaration order, the questions of a section
// whose predicate is absent or holds for answers. Hidden questions keep their answers.
func (q *Questionnaire) VisibleQuestions(section *model.Section, answers model.AnswerMap) []model.Question {
	out := make([]model.Question, 0, len(section.Questions))
	for _, question := range section.Questions {
		if q.IsVisible(question.ID, answers) {
			out = append(out, question)
		}
	}
	return out
}

// IsVisible evaluates a single question's predicate
func (q *Questionnaire) IsVisible(questionID string, answers model.AnswerMap) bool {
	p := q.predicates[questionID]
	return p == nil || p(answers)
}

// visibleAt is VisibleQuestions by section index
func (q *Questionnaire) visibleAt(i int, answers model.AnswerMap) []model.Question {
	return q.VisibleQuestions(&q.sections[i], answers)
}
