// Package practice implements the study center: coding, SQL and bug-fix practice, flashcards
// and aptitude tutorials. Every exercise kind is generated by the same problem endpoint, told
// apart by a category prefix.
package practice

import (
	"context"
	"errors"

	"github.com/pot-code/interview-prep/internal/apiclient"
	"github.com/pot-code/interview-prep/internal/infrastructure/validate"
)

// Kind exercise kind
type Kind string

const (
	KindCoding     Kind = "coding"
	KindSQL        Kind = "sql"
	KindBugFix     Kind = "bug-fix"
	KindFlashcards Kind = "flashcards"
)

// Stage wizard stage
type Stage string

const (
	StageSelect  Stage = "select"
	StageSolving Stage = "solving"
	StageResults Stage = "results"
)

var (
	ErrWrongStage   = errors.New("operation not allowed at this stage")
	ErrUnknownKind  = errors.New("unknown practice kind")
	ErrOutOfRange   = errors.New("problem index out of range")
	ErrNoProblems   = errors.New("no problems generated")
	ErrUnknownTopic = errors.New("unknown tutorial topic")
)

// Catalog what one kind offers
type Catalog struct {
	Kind            Kind     `json:"kind"`
	Prefix          string   `json:"-"`
	Categories      []string `json:"categories"`
	Languages       []string `json:"languages"`
	DefaultCategory string   `json:"default_category"`
	DefaultLanguage string   `json:"default_language"`
	SuccessMessage  string   `json:"-"`
}

// Difficulties shared by every kind
var Difficulties = []string{"Easy", "Medium", "Hard"}

// DefaultDifficulty preselected difficulty
const DefaultDifficulty = "Medium"

// Catalogs per kind
var Catalogs = map[Kind]*Catalog{
	KindCoding: {
		Kind:            KindCoding,
		Categories:      []string{"Arrays", "Strings", "Linked Lists", "Trees", "Algorithms", "DP", "System Design"},
		Languages:       []string{"Python", "JavaScript", "Java", "C++", "Go"},
		DefaultCategory: "Algorithms",
		DefaultLanguage: "Python",
		SuccessMessage:  "All test cases passed! Great job!",
	},
	KindSQL: {
		Kind:            KindSQL,
		Prefix:          "SQL: ",
		Categories:      []string{"Basic SQL", "Joins", "Aggregations", "Subqueries", "Complex Queries", "Indexing"},
		Languages:       []string{"PostgreSQL", "MySQL", "SQL Server"},
		DefaultCategory: "Joins",
		DefaultLanguage: "PostgreSQL",
		SuccessMessage:  "Query executed successfully! 100% data match.",
	},
	KindBugFix: {
		Kind:            KindBugFix,
		Prefix:          "Bug Fixing: ",
		Categories:      []string{"Logic Error", "Syntax Error", "Security Vuln", "Performance Issue", "API Bug"},
		Languages:       []string{"JavaScript", "Python", "Java", "C++", "ruby", "php"},
		DefaultCategory: "Logic Error",
		DefaultLanguage: "JavaScript",
		SuccessMessage:  "Bug Squashed! All tests passed and code is stable.",
	},
	KindFlashcards: {
		Kind:            KindFlashcards,
		Prefix:          "Flashcards: ",
		Categories:      []string{"Data Structures", "Algorithms", "Networking", "Operating Systems", "System Design", "Frontend", "Backend"},
		Languages:       []string{"English"},
		DefaultCategory: "Data Structures",
		DefaultLanguage: "English",
	},
}

// Lookup catalog of a kind
func Lookup(kind Kind) (*Catalog, error) {
	if c, ok := Catalogs[kind]; ok {
		return c, nil
	}
	return nil, ErrUnknownKind
}

// Setup exercise configuration, empty fields take the catalog defaults
type Setup struct {
	Category   string `json:"category"`
	Difficulty string `json:"difficulty"`
	Language   string `json:"language"`
}

// Validate fill defaults and check against the catalog
func (s *Setup) Validate(v validate.Validator, c *Catalog) error {
	if s.Category == "" {
		s.Category = c.DefaultCategory
	}
	if s.Difficulty == "" {
		s.Difficulty = DefaultDifficulty
	}
	if s.Language == "" {
		s.Language = c.DefaultLanguage
	}
	return validate.Join(
		v.OneOf("category", s.Category, c.Categories),
		v.OneOf("difficulty", s.Difficulty, Difficulties),
		v.OneOf("language", s.Language, c.Languages),
	).Err()
}

// request problem request of the setup
func (s *Setup) request(c *Catalog) *apiclient.CodingProblemsRequest {
	return &apiclient.CodingProblemsRequest{
		Category:   c.Prefix + s.Category,
		Difficulty: s.Difficulty,
		Language:   s.Language,
		Count:      apiclient.DefaultProblemCount,
	}
}

// API practice endpoints
type API interface {
	CodingProblems(ctx context.Context, req *apiclient.CodingProblemsRequest) (*apiclient.CodingProblems, error)
	SubmitCoding(ctx context.Context, req *apiclient.CodingSubmission) (*apiclient.CodingResult, error)
	AptitudeTutorial(ctx context.Context, category, topic string) (*apiclient.Tutorial, error)
}
