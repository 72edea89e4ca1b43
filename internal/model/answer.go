package model

import "strings"

// ValueKind is the shape of an answer value
type ValueKind string

const (
	KindNone   ValueKind = ""
	KindText   ValueKind = "text"
	KindList   ValueKind = "list"
	KindBool   ValueKind = "bool"
	KindNumber ValueKind = "number"
	KindFile   ValueKind = "file"
	KindLinks  ValueKind = "links"
)

// FileRef is an opaque handle to an uploaded file. The bytes never pass through the engine.
type FileRef struct {
	ID          string `json:"id" bson:"id"`
	Name        string `json:"name" bson:"name"`
	ContentType string `json:"contentType,omitempty" bson:"contentType,omitempty"`
	Size        int64  `json:"size,omitempty" bson:"size,omitempty"`
}

// Value is a tagged answer value. Only the field matching Kind is meaningful.
type Value struct {
	Kind   ValueKind         `json:"kind" bson:"kind"`
	Text   string            `json:"text,omitempty" bson:"text,omitempty"`
	List   []string          `json:"list,omitempty" bson:"list,omitempty"`
	Bool   bool              `json:"bool,omitempty" bson:"bool,omitempty"`
	Number float64           `json:"number,omitempty" bson:"number,omitempty"`
	File   *FileRef          `json:"file,omitempty" bson:"file,omitempty"`
	Links  map[string]string `json:"links,omitempty" bson:"links,omitempty"`
}

func TextValue(s string) Value { return Value{Kind: KindText, Text: s} }

func ListValue(items ...string) Value {
	return Value{Kind: KindList, List: append([]string{}, items...)}
}

func BoolValue(b bool) Value { return Value{Kind: KindBool, Bool: b} }

func NumberValue(n float64) Value { return Value{Kind: KindNumber, Number: n} }

func FileValue(ref FileRef) Value { return Value{Kind: KindFile, File: &ref} }

func LinksValue(links map[string]string) Value {
	cp := make(map[string]string, len(links))
	for k, v := range links {
		cp[k] = v
	}
	return Value{Kind: KindLinks, Links: cp}
}

// EmptyValue returns the type-appropriate empty default for a kind
func EmptyValue(kind ValueKind) Value {
	switch kind {
	case KindList:
		return Value{Kind: KindList, List: []string{}}
	case KindLinks:
		return Value{Kind: KindLinks, Links: map[string]string{}}
	case KindText:
		return Value{Kind: KindText}
	}
	// bool, number and file have no meaningful empty value: unset
	return Value{}
}

// Filled reports whether the value is meaningfully filled in
func (v Value) Filled() bool {
	switch v.Kind {
	case KindText:
		return strings.TrimSpace(v.Text) != ""
	case KindList:
		return len(v.List) > 0
	case KindBool, KindNumber:
		return true
	case KindFile:
		return v.File != nil && v.File.ID != ""
	case KindLinks:
		for _, u := range v.Links {
			if strings.TrimSpace(u) != "" {
				return true
			}
		}
	}
	return false
}

// Strings returns the value as a string list: the list itself, or a one-element list for text
func (v Value) Strings() []string {
	switch v.Kind {
	case KindList:
		return v.List
	case KindText:
		if v.Text == "" {
			return nil
		}
		return []string{v.Text}
	}
	return nil
}

func (v Value) clone() Value {
	out := v
	if v.List != nil {
		out.List = append([]string{}, v.List...)
	}
	if v.File != nil {
		f := *v.File
		out.File = &f
	}
	if v.Links != nil {
		out.Links = make(map[string]string, len(v.Links))
		for k, u := range v.Links {
			out.Links[k] = u
		}
	}
	return out
}

// AnswerMap holds the current answers keyed by question ID.
// Never mutate an AnswerMap in place: Set returns a new map.
type AnswerMap map[string]Value

// Get returns the stored value for id
func (m AnswerMap) Get(id string) (Value, bool) {
	v, ok := m[id]
	return v, ok
}

// Set returns a copy of m with id replaced by v
func (m AnswerMap) Set(id string, v Value) AnswerMap {
	out := m.Clone()
	out[id] = v.clone()
	return out
}

// Clone returns a deep copy of m
func (m AnswerMap) Clone() AnswerMap {
	out := make(AnswerMap, len(m)+1)
	for k, v := range m {
		out[k] = v.clone()
	}
	return out
}
