package questionnaire

import (
	"fmt"
	"strconv"

	"realtyflow/internal/model"
)

// Predicate decides from the answers alone whether a question is shown.
// Predicates must be pure: same answers, same result.
type Predicate func(answers model.AnswerMap) bool

// Condition operators
const (
	OpEquals            = "equals"
	OpNotEquals         = "notEquals"
	OpIn                = "in"
	OpContainsAny       = "containsAny"
	OpContainsAnyExcept = "containsAnyExcept"
	OpAnswered          = "answered"
	OpNotAnswered       = "notAnswered"
)

// Condition is the declarative form of a visibility predicate used in catalogs.
// Exactly one of Field, All, Any or Not is set.
type Condition struct {
	Field  string      `yaml:"field,omitempty"`
	Op     string      `yaml:"op,omitempty"`
	Value  string      `yaml:"value,omitempty"`
	Values []string    `yaml:"values,omitempty"`
	All    []Condition `yaml:"all,omitempty"`
	Any    []Condition `yaml:"any,omitempty"`
	Not    *Condition  `yaml:"not,omitempty"`
}

// Fields returns every question ID the condition reads
func (c Condition) Fields() []string {
	var out []string
	if c.Field != "" {
		out = append(out, c.Field)
	}
	for _, sub := range c.All {
		out = append(out, sub.Fields()...)
	}
	for _, sub := range c.Any {
		out = append(out, sub.Fields()...)
	}
	if c.Not != nil {
		out = append(out, c.Not.Fields()...)
	}
	return out
}

// Compile turns the condition into a predicate
func (c Condition) Compile() (Predicate, error) {
	set := 0
	if c.Field != "" {
		set++
	}
	if len(c.All) > 0 {
		set++
	}
	if len(c.Any) > 0 {
		set++
	}
	if c.Not != nil {
		set++
	}
	if set != 1 {
		return nil, fmt.Errorf("condition must set exactly one of field, all, any, not")
	}

	switch {
	case len(c.All) > 0:
		preds, err := compileAll(c.All)
		if err != nil {
			return nil, err
		}
		return func(a model.AnswerMap) bool {
			for _, p := range preds {
				if !p(a) {
					return false
				}
			}
			return true
		}, nil
	case len(c.Any) > 0:
		preds, err := compileAll(c.Any)
		if err != nil {
			return nil, err
		}
		return func(a model.AnswerMap) bool {
			for _, p := range preds {
				if p(a) {
					return true
				}
			}
			return false
		}, nil
	case c.Not != nil:
		p, err := c.Not.Compile()
		if err != nil {
			return nil, err
		}
		return func(a model.AnswerMap) bool { return !p(a) }, nil
	}
	return c.compileLeaf()
}

func compileAll(conds []Condition) ([]Predicate, error) {
	preds := make([]Predicate, len(conds))
	for i, sub := range conds {
		p, err := sub.Compile()
		if err != nil {
			return nil, err
		}
		preds[i] = p
	}
	return preds, nil
}

func (c Condition) compileLeaf() (Predicate, error) {
	field := c.Field
	switch c.Op {
	case OpEquals, OpNotEquals:
		want := c.Value
		negate := c.Op == OpNotEquals
		return func(a model.AnswerMap) bool {
			found := false
			for _, s := range valueStrings(a, field) {
				if s == want {
					found = true
					break
				}
			}
			return found != negate
		}, nil
	case OpIn, OpContainsAny:
		if len(c.Values) == 0 {
			return nil, fmt.Errorf("condition on %q: %s needs values", field, c.Op)
		}
		set := toSet(c.Values)
		return func(a model.AnswerMap) bool {
			for _, s := range valueStrings(a, field) {
				if set[s] {
					return true
				}
			}
			return false
		}, nil
	case OpContainsAnyExcept:
		excluded := toSet(c.Values)
		return func(a model.AnswerMap) bool {
			for _, s := range valueStrings(a, field) {
				if !excluded[s] {
					return true
				}
			}
			return false
		}, nil
	case OpAnswered, OpNotAnswered:
		negate := c.Op == OpNotAnswered
		return func(a model.AnswerMap) bool {
			v, ok := a.Get(field)
			return (ok && v.Filled()) != negate
		}, nil
	}
	return nil, fmt.Errorf("condition on %q: unknown op %q", field, c.Op)
}

// valueStrings flattens an answer to the strings conditions compare against
func valueStrings(a model.AnswerMap, field string) []string {
	v, ok := a.Get(field)
	if !ok {
		return nil
	}
	switch v.Kind {
	case model.KindBool:
		return []string{strconv.FormatBool(v.Bool)}
	case model.KindNumber:
		return []string{strconv.FormatFloat(v.Number, 'f', -1, 64)}
	}
	return v.Strings()
}

func toSet(values []string) map[string]bool {
	set := make(map[string]bool, len(values))
	for _, v := range values {
		set[v] = true
	}
	return set
}
