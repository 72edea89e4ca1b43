// Package questionnaire implements the multi-section form engine: the field
// registry, answer store helpers, visibility evaluation, navigation, progress
// and validation. Every function is pure over an AnswerMap snapshot.
package questionnaire

import (
	"fmt"
	"sort"
	"sync"

	"realtyflow/internal/model"
)

// Questionnaire is an immutable, ordered set of sections with their visibility predicates
type Questionnaire struct {
	ID    string
	Title string

	sections   []model.Section
	predicates map[string]Predicate
	index      map[string]questionPos
}

type questionPos struct {
	section  int
	question int
}

// Option configures a questionnaire at construction
type Option func(*Questionnaire)

// WithPredicate binds a visibility predicate to a question
func WithPredicate(questionID string, p Predicate) Option {
	return func(q *Questionnaire) {
		q.predicates[questionID] = p
	}
}

// New builds a questionnaire. Section and question IDs must be unique and every
// predicate must be bound to a declared question.
func New(id, title string, sections []model.Section, opts ...Option) (*Questionnaire, error) {
	if id == "" {
		return nil, fmt.Errorf("questionnaire id is required")
	}
	if len(sections) == 0 {
		return nil, fmt.Errorf("questionnaire %s: no sections", id)
	}

	q := &Questionnaire{
		ID:         id,
		Title:      title,
		predicates: make(map[string]Predicate),
		index:      make(map[string]questionPos),
	}
	for _, opt := range opts {
		opt(q)
	}

	seenSections := make(map[string]bool)
	q.sections = make([]model.Section, len(sections))
	for si, s := range sections {
		if s.ID == "" {
			return nil, fmt.Errorf("questionnaire %s: section %d has no id", id, si)
		}
		if seenSections[s.ID] {
			return nil, fmt.Errorf("questionnaire %s: duplicate section %s", id, s.ID)
		}
		seenSections[s.ID] = true

		cp := model.Section{ID: s.ID, Title: s.Title, Questions: make([]model.Question, len(s.Questions))}
		for qi, question := range s.Questions {
			if question.ID == "" {
				return nil, fmt.Errorf("questionnaire %s: section %s question %d has no id", id, s.ID, qi)
			}
			if !question.Type.Valid() {
				return nil, fmt.Errorf("questionnaire %s: question %s has unknown type %q", id, question.ID, question.Type)
			}
			if _, dup := q.index[question.ID]; dup {
				return nil, fmt.Errorf("questionnaire %s: duplicate question %s", id, question.ID)
			}
			question.Options = append([]model.Option(nil), question.Options...)
			_, question.Conditional = q.predicates[question.ID]
			cp.Questions[qi] = question
			q.index[question.ID] = questionPos{section: si, question: qi}
		}
		q.sections[si] = cp
	}

	for qid := range q.predicates {
		if _, ok := q.index[qid]; !ok {
			return nil, fmt.Errorf("questionnaire %s: predicate bound to unknown question %s", id, qid)
		}
	}
	return q, nil
}

// Sections returns the ordered sections. Callers must not modify them.
func (q *Questionnaire) Sections() []model.Section {
	return q.sections
}

// SectionCount returns the number of sections
func (q *Questionnaire) SectionCount() int {
	return len(q.sections)
}

// SectionAt returns the section at index i
func (q *Questionnaire) SectionAt(i int) *model.Section {
	if i < 0 || i >= len(q.sections) {
		return nil
	}
	return &q.sections[i]
}

// SectionIndex returns the position of a section, or -1
func (q *Questionnaire) SectionIndex(id string) int {
	for i := range q.sections {
		if q.sections[i].ID == id {
			return i
		}
	}
	return -1
}

// Section looks up a section by ID
func (q *Questionnaire) Section(id string) (*model.Section, bool) {
	i := q.SectionIndex(id)
	if i < 0 {
		return nil, false
	}
	return &q.sections[i], true
}

// Question looks up a question by ID across all sections
func (q *Questionnaire) Question(id string) (*model.Question, bool) {
	pos, ok := q.index[id]
	if !ok {
		return nil, false
	}
	return &q.sections[pos.section].Questions[pos.question], true
}

// Questions returns every declared question in order
func (q *Questionnaire) Questions() []model.Question {
	var out []model.Question
	for _, s := range q.sections {
		out = append(out, s.Questions...)
	}
	return out
}

// Predicate returns the visibility predicate bound to a question, or nil
func (q *Questionnaire) Predicate(questionID string) Predicate {
	return q.predicates[questionID]
}

// Registry holds the questionnaires served by the application. The set can be
// swapped wholesale by Replace; each Questionnaire itself never changes.
type Registry struct {
	mu   sync.RWMutex
	byID map[string]*Questionnaire
}

// NewRegistry builds a registry; questionnaire IDs must be unique
func NewRegistry(qs ...*Questionnaire) (*Registry, error) {
	byID, err := index(qs)
	if err != nil {
		return nil, err
	}
	return &Registry{byID: byID}, nil
}

func index(qs []*Questionnaire) (map[string]*Questionnaire, error) {
	byID := make(map[string]*Questionnaire, len(qs))
	for _, q := range qs {
		if _, dup := byID[q.ID]; dup {
			return nil, fmt.Errorf("duplicate questionnaire %s", q.ID)
		}
		byID[q.ID] = q
	}
	return byID, nil
}

// Replace swaps in a new set of questionnaires. Sessions keep the ID they
// were started with and pick up the new definition on their next call.
func (r *Registry) Replace(qs ...*Questionnaire) error {
	byID, err := index(qs)
	if err != nil {
		return err
	}
	r.mu.Lock()
	r.byID = byID
	r.mu.Unlock()
	return nil
}

// Get returns the questionnaire with the given ID
func (r *Registry) Get(id string) (*Questionnaire, error) {
	r.mu.RLock()
	q, ok := r.byID[id]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("questionnaire %s: %w", id, model.ErrNotFound)
	}
	return q, nil
}

// List returns all questionnaires sorted by ID
func (r *Registry) List() []*Questionnaire {
	r.mu.RLock()
	out := make([]*Questionnaire, 0, len(r.byID))
	for _, q := range r.byID {
		out = append(out, q)
	}
	r.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
