package questionnaire

import (
	"bytes"
	"embed"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"

	"gopkg.in/yaml.v3"

	"realtyflow/internal/model"
)

//go:embed catalog/*.yaml
var builtinCatalogs embed.FS

// Built-in questionnaire IDs
const (
	AgentOnboardingID = "agent-onboarding"
	PostWizardID      = "post-wizard"
)

type catalogDoc struct {
	ID       string       `yaml:"id"`
	Title    string       `yaml:"title"`
	Sections []sectionDoc `yaml:"sections"`
}

type sectionDoc struct {
	ID        string        `yaml:"id"`
	Title     string        `yaml:"title"`
	Questions []questionDoc `yaml:"questions"`
}

type questionDoc struct {
	ID          string         `yaml:"id"`
	Type        string         `yaml:"type"`
	Title       string         `yaml:"title"`
	Description string         `yaml:"description"`
	Required    bool           `yaml:"required"`
	Multiple    bool           `yaml:"multiple"`
	Options     []model.Option `yaml:"options"`
	Min         float64        `yaml:"min"`
	Max         float64        `yaml:"max"`
	Step        float64        `yaml:"step"`
	MinLength   int            `yaml:"minLength"`
	MaxLength   int            `yaml:"maxLength"`
	VisibleWhen *Condition     `yaml:"visibleWhen"`
}

// Parse decodes one YAML catalog document into a questionnaire.
// Unknown keys, unknown condition ops and conditions over undeclared questions are errors.
func Parse(r io.Reader) (*Questionnaire, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var doc catalogDoc
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to decode catalog: %w", err)
	}

	declared := make(map[string]bool)
	for _, s := range doc.Sections {
		for _, q := range s.Questions {
			declared[q.ID] = true
		}
	}

	var opts []Option
	sections := make([]model.Section, len(doc.Sections))
	for si, s := range doc.Sections {
		section := model.Section{ID: s.ID, Title: s.Title, Questions: make([]model.Question, len(s.Questions))}
		for qi, qd := range s.Questions {
			section.Questions[qi] = model.Question{
				ID:          qd.ID,
				Type:        model.QuestionType(qd.Type),
				Title:       qd.Title,
				Description: qd.Description,
				Required:    qd.Required,
				Multiple:    qd.Multiple,
				Options:     qd.Options,
				Min:         qd.Min,
				Max:         qd.Max,
				Step:        qd.Step,
				MinLength:   qd.MinLength,
				MaxLength:   qd.MaxLength,
			}
			if qd.VisibleWhen == nil {
				continue
			}
			for _, f := range qd.VisibleWhen.Fields() {
				if !declared[f] {
					return nil, fmt.Errorf("catalog %s: question %s depends on undeclared question %s", doc.ID, qd.ID, f)
				}
			}
			pred, err := qd.VisibleWhen.Compile()
			if err != nil {
				return nil, fmt.Errorf("catalog %s: question %s: %w", doc.ID, qd.ID, err)
			}
			opts = append(opts, WithPredicate(qd.ID, pred))
		}
		sections[si] = section
	}

	return New(doc.ID, doc.Title, sections, opts...)
}

// LoadFS parses every *.yaml file under dir of fsys
func LoadFS(fsys fs.FS, dir string) ([]*Questionnaire, error) {
	matches, err := fs.Glob(fsys, path.Join(dir, "*.yaml"))
	if err != nil {
		return nil, err
	}
	var out []*Questionnaire
	for _, name := range matches {
		data, err := fs.ReadFile(fsys, name)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", name, err)
		}
		q, err := Parse(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		out = append(out, q)
	}
	return out, nil
}

// Builtin returns a registry with the catalogs embedded in the binary
func Builtin() (*Registry, error) {
	qs, err := LoadFS(builtinCatalogs, "catalog")
	if err != nil {
		return nil, err
	}
	return NewRegistry(qs...)
}

// MustBuiltin is Builtin for program start: a broken embedded catalog is a build defect
func MustBuiltin() *Registry {
	r, err := Builtin()
	if err != nil {
		panic(err)
	}
	return r
}

// LoadWithDir returns the embedded questionnaires overlaid with every catalog in dir.
// A file in dir replaces the built-in questionnaire with the same ID. Empty dir means built-ins only.
func LoadWithDir(dir string) ([]*Questionnaire, error) {
	builtin, err := LoadFS(builtinCatalogs, "catalog")
	if err != nil {
		return nil, err
	}
	if dir == "" {
		return builtin, nil
	}

	custom, err := LoadFS(os.DirFS(dir), ".")
	if err != nil {
		return nil, err
	}
	overridden := make(map[string]bool, len(custom))
	for _, q := range custom {
		overridden[q.ID] = true
	}
	out := custom
	for _, q := range builtin {
		if !overridden[q.ID] {
			out = append(out, q)
		}
	}
	return out, nil
}

// Load builds a registry from the embedded catalogs and dir; see LoadWithDir
func Load(dir string) (*Registry, error) {
	qs, err := LoadWithDir(dir)
	if err != nil {
		return nil, err
	}
	return NewRegistry(qs...)
}
