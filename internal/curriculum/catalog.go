package curriculum

import (
	_ "embed"
	"errors"
	"fmt"
	"math/rand/v2"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrCatalogEmpty is returned when a grade has no topics to pick from.
var ErrCatalogEmpty = errors.New("curriculum catalog has no topics for grade")

//go:embed catalog.yaml
var catalogYAML []byte

// Catalog is a read-only index over the grade → strand → sub-strand → topic tree.
type Catalog struct {
	grades  []GradeLevel
	byID    map[string]Topic
	byGrade map[Grade][]Topic
	rand    func(n int) int
}

// Option customizes a Catalog.
type Option func(*Catalog)

// WithRand sets the index source used by RandomTopic. intn must return a
// value in [0, n).
func WithRand(intn func(n int) int) Option {
	return func(c *Catalog) { c.rand = intn }
}

// defaultCatalog is the shipped catalog, parsed once at init.
var defaultCatalog *Catalog

func init() {
	c, err := Load(catalogYAML)
	if err != nil {
		panic(fmt.Sprintf("curriculum: invalid embedded catalog: %v", err))
	}
	defaultCatalog = c
}

// Default returns the embedded catalog.
func Default() *Catalog {
	return defaultCatalog
}

// Load parses a YAML catalog and builds its indices. The catalog must
// contain at least one topic, and topic IDs must be unique.
func Load(data []byte, opts ...Option) (*Catalog, error) {
	var doc struct {
		Grades []GradeLevel `yaml:"grades"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	return New(doc.Grades, opts...)
}

// New builds a Catalog from an in-memory hierarchy.
func New(grades []GradeLevel, opts ...Option) (*Catalog, error) {
	if err := validate(grades); err != nil {
		return nil, err
	}

	c := &Catalog{
		grades:  grades,
		byID:    make(map[string]Topic),
		byGrade: make(map[Grade][]Topic, len(grades)),
		rand:    rand.IntN,
	}
	for _, o := range opts {
		o(c)
	}

	for _, g := range grades {
		for _, s := range g.Strands {
			for _, ss := range s.SubStrands {
				for _, t := range ss.Topics {
					t.Grade = g.ID
					t.Strand = s.Title
					t.SubStrand = ss.Title
					c.byID[t.ID] = t
					c.byGrade[g.ID] = append(c.byGrade[g.ID], t)
				}
			}
		}
	}
	return c, nil
}

// validate checks the structural rules of a catalog and returns every
// problem found in a single error.
func validate(grades []GradeLevel) error {
	var errs, empty []string
	seen := make(map[string]bool)
	total := 0

	for _, g := range grades {
		if g.ID == "" {
			errs = append(errs, "grade with empty id")
		}
		count := 0
		for _, s := range g.Strands {
			for _, ss := range s.SubStrands {
				for _, t := range ss.Topics {
					total++
					count++
					switch {
					case t.ID == "":
						errs = append(errs, fmt.Sprintf("topic %q in %s/%s has empty id", t.Title, g.ID, ss.ID))
						continue
					case seen[t.ID]:
						errs = append(errs, fmt.Sprintf("duplicate topic id: %q", t.ID))
					}
					seen[t.ID] = true
					if strings.TrimSpace(t.Title) == "" {
						errs = append(errs, fmt.Sprintf("topic %q has empty title", t.ID))
					}
					if strings.TrimSpace(t.Description) == "" {
						errs = append(errs, fmt.Sprintf("topic %q has empty description", t.ID))
					}
				}
			}
		}
		if count == 0 {
			empty = append(empty, string(g.ID))
		}
	}

	if total == 0 {
		return ErrCatalogEmpty
	}
	if len(empty) > 0 {
		return fmt.Errorf("%w %s", ErrCatalogEmpty, strings.Join(empty, ", "))
	}
	if len(errs) > 0 {
		return fmt.Errorf("catalog validation failed:\n  %s", strings.Join(errs, "\n  "))
	}
	return nil
}

// TopicByID returns the topic with the given id.
func (c *Catalog) TopicByID(id string) (Topic, bool) {
	t, ok := c.byID[id]
	return t, ok
}

// TopicsByGrade returns every topic of a grade flattened in catalog order.
func (c *Catalog) TopicsByGrade(grade Grade) []Topic {
	return slices.Clone(c.byGrade[grade])
}

// RandomTopic picks a topic of the grade uniformly at random.
func (c *Catalog) RandomTopic(grade Grade) (Topic, error) {
	topics := c.byGrade[grade]
	if len(topics) == 0 {
		return Topic{}, fmt.Errorf("%w %s", ErrCatalogEmpty, grade)
	}
	return topics[c.rand(len(topics))], nil
}

// Grades returns the grade levels in catalog order.
func (c *Catalog) Grades() []GradeLevel {
	return slices.Clone(c.grades)
}

// TopicByID looks a topic up in the embedded catalog.
func TopicByID(id string) (Topic, bool) {
	return defaultCatalog.TopicByID(id)
}

// TopicsByGrade lists a grade's topics from the embedded catalog.
func TopicsByGrade(grade Grade) []Topic {
	return defaultCatalog.TopicsByGrade(grade)
}

// RandomTopic picks from the embedded catalog.
func RandomTopic(grade Grade) (Topic, error) {
	return defaultCatalog.RandomTopic(grade)
}
