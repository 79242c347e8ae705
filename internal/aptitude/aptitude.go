package aptitude

import (
	"context"
	"errors"
	"strconv"

	"github.com/pot-code/interview-prep/internal/apiclient"
	"github.com/pot-code/interview-prep/internal/infrastructure/validate"
)

// Stage wizard stage
type Stage string

const (
	StageSelect      Stage = "select"
	StageTest        Stage = "test"
	StageResults     Stage = "results"
	StageCertificate Stage = "certificate"
)

// Category test category
type Category struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Categories selectable categories
var Categories = []Category{
	{ID: "Logical", Name: "Logical Reasoning"},
	{ID: "Quantitative", Name: "Quantitative Aptitude"},
	{ID: "Verbal", Name: "Verbal Ability"},
}

// Difficulties selectable difficulties
var Difficulties = []string{"Easy", "Medium", "Hard"}

// Counts selectable question counts
var Counts = []int{5, 10, 15, 20}

// DefaultCount preselected question count
const DefaultCount = 10

// CertificateScore minimum score for which a certificate is offered
const CertificateScore = 80

var (
	ErrWrongStage   = errors.New("operation not allowed at this stage")
	ErrIncomplete   = errors.New("answer every question before submitting")
	ErrLocked       = errors.New("answers are locked after submission")
	ErrOutOfRange   = errors.New("question or option out of range")
	ErrNotQualified = errors.New("score too low for a certificate")
)

// Setup test configuration
type Setup struct {
	Category   string `json:"category" validate:"required"`
	Difficulty string `json:"difficulty" validate:"required"`
	Count      int    `json:"count"`
}

// Validate check setup against the catalog, zero count means DefaultCount
func (s *Setup) Validate(v validate.Validator) error {
	if s.Count == 0 {
		s.Count = DefaultCount
	}
	errs := validate.Join(v.Struct(s)...)
	if len(errs) > 0 {
		return errs
	}
	ids := make([]string, len(Categories))
	for i, c := range Categories {
		ids[i] = c.ID
	}
	errs = validate.Join(
		v.OneOf("category", s.Category, ids),
		v.OneOf("difficulty", s.Difficulty, Difficulties),
		oneOfInt(v, "count", s.Count, Counts),
	)
	return errs.Err()
}

func oneOfInt(v validate.Validator, name string, n int, allowed []int) *validate.FieldError {
	for _, a := range allowed {
		if a == n {
			return nil
		}
	}
	strs := make([]string, len(allowed))
	for i, a := range allowed {
		strs[i] = strconv.Itoa(a)
	}
	return v.OneOf(name, strconv.Itoa(n), strs)
}

// API aptitude endpoints
type API interface {
	AptitudeQuestions(ctx context.Context, req *apiclient.AptitudeQuestionsRequest) (*apiclient.AptitudeQuestions, error)
	SubmitAptitude(ctx context.Context, req *apiclient.AptitudeSubmission) (*apiclient.AptitudeResult, error)
	AptitudeHistory(ctx context.Context) (*apiclient.AptitudeHistory, error)
	AptitudeCertificate(ctx context.Context, testID int) (*apiclient.Certificate, error)
}

// QuestionView question as shown, the correct answer is only revealed after submission
type QuestionView struct {
	Index         int      `json:"index"`
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	Selected      *int     `json:"selected"`
	CorrectAnswer *int     `json:"correct_answer,omitempty"`
	Explanation   string   `json:"explanation,omitempty"`
}

// Result local score plus the server's response
type Result struct {
	Correct    int                       `json:"correct"`
	Total      int                       `json:"total"`
	Percentage float64                   `json:"percentage"`
	TimeTaken  int                       `json:"time_taken"`
	Server     *apiclient.AptitudeResult `json:"server"`
}

// View observable runner state
type View struct {
	Stage          Stage                  `json:"stage"`
	Setup          *Setup                 `json:"setup,omitempty"`
	Current        int                    `json:"current"`
	Answered       int                    `json:"answered"`
	CanSubmit      bool                   `json:"can_submit"`
	Questions      []*QuestionView        `json:"questions,omitempty"`
	Result         *Result                `json:"result,omitempty"`
	CanCertificate bool                   `json:"can_certificate"`
	Certificate    *apiclient.Certificate `json:"certificate,omitempty"`
}
