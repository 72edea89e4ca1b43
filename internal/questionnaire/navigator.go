package questionnaire

import "realtyflow/internal/model"

// Navigation is a pure state machine over (section, index into visible questions).
// Each move recomputes the visible list of the target section from the answers,
// since earlier edits may have changed what a revisited section shows.
// Sections with no visible question are passed over.

// Start returns the initial position: the first visible question of the first non-empty section
func Start(q *Questionnaire, answers model.AnswerMap) model.NavState {
	for i := range q.sections {
		if len(q.visibleAt(i, answers)) > 0 {
			return model.NavState{SectionID: q.sections[i].ID}
		}
	}
	if len(q.sections) == 0 {
		return model.NavState{}
	}
	return model.NavState{SectionID: q.sections[0].ID}
}

// Clamp brings st back into the visible list of its section. If the section no
// longer shows anything, the position moves to the nearest non-empty section,
// forwards first.
func Clamp(q *Questionnaire, answers model.AnswerMap, st model.NavState) model.NavState {
	idx := q.SectionIndex(st.SectionID)
	if idx < 0 {
		return Start(q, answers)
	}
	n := len(q.visibleAt(idx, answers))
	if n == 0 {
		for j := idx + 1; j < len(q.sections); j++ {
			if len(q.visibleAt(j, answers)) > 0 {
				return model.NavState{SectionID: q.sections[j].ID}
			}
		}
		for j := idx - 1; j >= 0; j-- {
			if m := len(q.visibleAt(j, answers)); m > 0 {
				return model.NavState{SectionID: q.sections[j].ID, QuestionIndex: m - 1}
			}
		}
		return model.NavState{SectionID: st.SectionID}
	}
	switch {
	case st.QuestionIndex >= n:
		st.QuestionIndex = n - 1
	case st.QuestionIndex < 0:
		st.QuestionIndex = 0
	}
	return st
}

// Advance moves one question forward. The second result is false when st is
// already the last visible question of the last section; the caller submits then.
func Advance(q *Questionnaire, answers model.AnswerMap, st model.NavState) (model.NavState, bool) {
	idx := q.SectionIndex(st.SectionID)
	if idx < 0 {
		return Start(q, answers), false
	}
	n := len(q.visibleAt(idx, answers))
	if n == 0 {
		// the section emptied under us: the next non-empty section is one step ahead
		for j := idx + 1; j < len(q.sections); j++ {
			if len(q.visibleAt(j, answers)) > 0 {
				return model.NavState{SectionID: q.sections[j].ID}, true
			}
		}
		return Clamp(q, answers, st), false
	}
	st = Clamp(q, answers, st)
	if st.QuestionIndex < n-1 {
		st.QuestionIndex++
		return st, true
	}
	for j := idx + 1; j < len(q.sections); j++ {
		if len(q.visibleAt(j, answers)) > 0 {
			return model.NavState{SectionID: q.sections[j].ID}, true
		}
	}
	return st, false
}

// Retreat moves one question back, landing on the last visible question when it
// crosses into the previous section. The second result is false at the very first question.
func Retreat(q *Questionnaire, answers model.AnswerMap, st model.NavState) (model.NavState, bool) {
	idx := q.SectionIndex(st.SectionID)
	if idx < 0 {
		return Start(q, answers), false
	}
	if len(q.visibleAt(idx, answers)) > 0 {
		st = Clamp(q, answers, st)
	} else {
		st.QuestionIndex = 0
	}
	if st.QuestionIndex > 0 {
		st.QuestionIndex--
		return st, true
	}
	for j := idx - 1; j >= 0; j-- {
		if n := len(q.visibleAt(j, answers)); n > 0 {
			return model.NavState{SectionID: q.sections[j].ID, QuestionIndex: n - 1}, true
		}
	}
	return st, false
}

// Current returns the question at st, or nil when nothing is visible
func Current(q *Questionnaire, answers model.AnswerMap, st model.NavState) *model.Question {
	st = Clamp(q, answers, st)
	idx := q.SectionIndex(st.SectionID)
	if idx < 0 {
		return nil
	}
	visible := q.visibleAt(idx, answers)
	if st.QuestionIndex >= len(visible) {
		return nil
	}
	question := visible[st.QuestionIndex]
	return &question
}

// IsTerminal reports whether st is the last visible question of the questionnaire
func IsTerminal(q *Questionnaire, answers model.AnswerMap, st model.NavState) bool {
	_, moved := Advance(q, answers, st)
	return !moved
}

// IsInitial reports whether st is the first visible question of the questionnaire
func IsInitial(q *Questionnaire, answers model.AnswerMap, st model.NavState) bool {
	_, moved := Retreat(q, answers, st)
	return !moved
}
