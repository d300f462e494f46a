package curriculum

// Grade identifies a school level in the catalog, e.g. "PRIMARY_5".
type Grade string

const (
	GradePrimary5 Grade = "PRIMARY_5"
)

// Topic is a single curriculum item a problem can be generated for.
type Topic struct {
	// ID is stable across releases, e.g. "p5_fr_2.2".
	ID string `yaml:"id" json:"id"`

	// Code is the syllabus reference within the sub-strand, e.g. "2.2".
	Code string `yaml:"code" json:"code"`

	Title       string `yaml:"title" json:"title"`
	Description string `yaml:"description" json:"description"`

	// Constraints are rules the generated problem must follow.
	Constraints []string `yaml:"constraints" json:"constraints,omitempty"`

	// Examples illustrate the problem style only. They are never reused verbatim.
	Examples []string `yaml:"examples" json:"examples,omitempty"`

	// Placement in the hierarchy, filled in when the catalog is loaded.
	Grade     Grade  `yaml:"-" json:"grade"`
	Strand    string `yaml:"-" json:"strand"`
	SubStrand string `yaml:"-" json:"sub_strand"`
}

// SubStrand groups related topics, e.g. "Fractions".
type SubStrand struct {
	ID     string  `yaml:"id"`
	Title  string  `yaml:"title"`
	Topics []Topic `yaml:"topics"`
}

// Strand is a broad content area, e.g. "Number and Algebra".
type Strand struct {
	ID         string      `yaml:"id"`
	Title      string      `yaml:"title"`
	SubStrands []SubStrand `yaml:"sub_strands"`
}

// GradeLevel is the top of the catalog hierarchy.
type GradeLevel struct {
	ID      Grade    `yaml:"id"`
	Title   string   `yaml:"title"`
	Strands []Strand `yaml:"strands"`
}
