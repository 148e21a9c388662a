// Package catalog reads the reference study catalog (subjects, topics, notes
// and practice questions) from YAML and loads it into Postgres.
package catalog

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"studytrack-backend/internal/models"
)

type File struct {
	Subjects []Subject `yaml:"subjects"`
}

type Subject struct {
	Name        string  `yaml:"name"`
	Description string  `yaml:"description"`
	Icon        string  `yaml:"icon"`
	Color       string  `yaml:"color"`
	Topics      []Topic `yaml:"topics"`
}

type Topic struct {
	Title       string     `yaml:"title"`
	Description string     `yaml:"description"`
	Order       *int       `yaml:"order"` // defaults to the topic's position
	Notes       []Note     `yaml:"notes"`
	Questions   []Question `yaml:"questions"`
}

type Note struct {
	Title       string  `yaml:"title"`
	Type        string  `yaml:"type"` // "full" | "short" | "mindmap"
	Content     string  `yaml:"content"`
	ContentFile string  `yaml:"content_file"`
	ShortNotes  string  `yaml:"short_notes"`
	MindMapURL  *string `yaml:"mind_map_url"`
}

type Question struct {
	Question      string   `yaml:"question"`
	Options       []string `yaml:"options"`
	CorrectAnswer int      `yaml:"correct_answer"`
	Explanation   string   `yaml:"explanation"`
	Difficulty    string   `yaml:"difficulty"`
}

// Load parses a catalog file, reads each note's content_file relative to the
// catalog's directory, and validates the result.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading catalog: %w", err)
	}
	f, err := Parse(data)
	if err != nil {
		return nil, err
	}
	if err := f.resolveContent(filepath.Dir(path)); err != nil {
		return nil, err
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return f, nil
}

// Parse decodes YAML strictly: unknown keys are an error.
func Parse(data []byte) (*File, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var f File
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("parsing catalog: %w", err)
	}
	return &f, nil
}

func (f *File) resolveContent(dir string) error {
	for si := range f.Subjects {
		for ti := range f.Subjects[si].Topics {
			notes := f.Subjects[si].Topics[ti].Notes
			for ni := range notes {
				n := &notes[ni]
				if n.ContentFile == "" {
					continue
				}
				p := n.ContentFile
				if !filepath.IsAbs(p) {
					p = filepath.Join(dir, p)
				}
				text, err := ExtractText(p)
				if err != nil {
					return fmt.Errorf("%s: %w", notePath(si, ti, ni), err)
				}
				n.Content = text
			}
		}
	}
	return nil
}

// Validate reports every problem in the catalog, not just the first.
func (f *File) Validate() error {
	var errs []error
	add := func(path, format string, args ...any) {
		errs = append(errs, fmt.Errorf("%s: %s", path, fmt.Sprintf(format, args...)))
	}

	if len(f.Subjects) == 0 {
		add("subjects", "at least one subject is required")
	}

	subjects := map[string]bool{}
	for si, s := range f.Subjects {
		sp := fmt.Sprintf("subjects[%d]", si)
		name := strings.TrimSpace(s.Name)
		if name == "" {
			add(sp, "name is required")
		} else if subjects[name] {
			add(sp, "duplicate subject %q", name)
		}
		subjects[name] = true

		topics := map[string]bool{}
		for ti, t := range s.Topics {
			tp := fmt.Sprintf("%s.topics[%d]", sp, ti)
			title := strings.TrimSpace(t.Title)
			if title == "" {
				add(tp, "title is required")
			} else if topics[title] {
				add(tp, "duplicate topic %q", title)
			}
			topics[title] = true

			for ni, n := range t.Notes {
				np := notePath(si, ti, ni)
				if strings.TrimSpace(n.Title) == "" {
					add(np, "title is required")
				}
				switch noteType(n) {
				case models.NoteTypeFull, models.NoteTypeShort, models.NoteTypeMindMap:
				default:
					add(np, "type must be full, short or mindmap, got %q", n.Type)
				}
				if noteType(n) == models.NoteTypeMindMap && (n.MindMapURL == nil || *n.MindMapURL == "") {
					add(np, "mind_map_url is required for mindmap notes")
				}
			}

			for qi, q := range t.Questions {
				qp := fmt.Sprintf("%s.questions[%d]", tp, qi)
				if strings.TrimSpace(q.Question) == "" {
					add(qp, "question is required")
				}
				if len(q.Options) < 2 {
					add(qp, "at least 2 options are required, got %d", len(q.Options))
				}
				if q.CorrectAnswer < 0 || q.CorrectAnswer >= len(q.Options) {
					add(qp, "correct_answer %d is out of range", q.CorrectAnswer)
				}
				switch difficulty(q) {
				case "easy", "medium", "hard":
				default:
					add(qp, "difficulty must be easy, medium or hard, got %q", q.Difficulty)
				}
			}
		}
	}

	return errors.Join(errs...)
}

// Counts returns how many rows of each kind the catalog holds.
func (f *File) Counts() Summary {
	var sum Summary
	sum.Subjects = len(f.Subjects)
	for _, s := range f.Subjects {
		sum.Topics += len(s.Topics)
		for _, t := range s.Topics {
			sum.Notes += len(t.Notes)
			sum.Questions += len(t.Questions)
		}
	}
	return sum
}

func noteType(n Note) string {
	if n.Type == "" {
		return models.NoteTypeFull
	}
	return n.Type
}

func difficulty(q Question) string {
	if q.Difficulty == "" {
		return "medium"
	}
	return q.Difficulty
}

func notePath(si, ti, ni int) string {
	return fmt.Sprintf("subjects[%d].topics[%d].notes[%d]", si, ti, ni)
}
