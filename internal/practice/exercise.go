package practice

import (
	"context"
	"sync"

	"github.com/pot-code/interview-prep/internal/apiclient"
	"github.com/pot-code/interview-prep/internal/infrastructure/validate"
	"go.elastic.co/apm"
)

// Result submission outcome
type Result struct {
	Success  bool   `json:"success"`
	Message  string `json:"message"`
	XPEarned int    `json:"xp_earned"`
	TotalXP  int    `json:"total_xp"`
	Level    int    `json:"level"`
}

// ExerciseView observable exercise state
type ExerciseView struct {
	Kind     Kind                       `json:"kind"`
	Stage    Stage                      `json:"stage"`
	Setup    *Setup                     `json:"setup,omitempty"`
	Problems []*apiclient.CodingProblem `json:"problems,omitempty"`
	Current  int                        `json:"current"`
	Code     string                     `json:"code"`
	Result   *Result                    `json:"result,omitempty"`
}

// Exercise coding, SQL or bug-fix session: fetch a batch of problems, edit code, submit
type Exercise struct {
	api     API
	v       validate.Validator
	catalog *Catalog

	mu       sync.Mutex
	stage    Stage
	setup    *Setup
	problems []*apiclient.CodingProblem
	current  int
	code     string
	result   *Result
}

// NewExercise create an exercise of kind
func NewExercise(api API, v validate.Validator, kind Kind) (*Exercise, error) {
	c, err := Lookup(kind)
	if err != nil {
		return nil, err
	}
	return &Exercise{api: api, v: v, catalog: c, stage: StageSelect}, nil
}

// Start fetch problems and load the starter code of the first one
func (e *Exercise) Start(ctx context.Context, setup Setup) (*ExerciseView, error) {
	span, ctx := apm.StartSpan(ctx, "Exercise.Start", "service")
	defer span.End()

	if err := setup.Validate(e.v, e.catalog); err != nil {
		return nil, err
	}
	res, err := e.api.CodingProblems(ctx, setup.request(e.catalog))
	if err != nil {
		return nil, err
	}
	if len(res.Problems) == 0 {
		return nil, ErrNoProblems
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.setup = &setup
	e.problems = res.Problems
	e.current = 0
	e.code = res.Problems[0].StarterCode
	e.result = nil
	e.stage = StageSolving
	return e.view(), nil
}

// Select switch to another problem of the batch, the editor is reset to its starter code
func (e *Exercise) Select(i int) (*ExerciseView, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.stage != StageSolving {
		return nil, ErrWrongStage
	}
	if i < 0 || i >= len(e.problems) {
		return nil, ErrOutOfRange
	}
	e.current = i
	e.code = e.problems[i].StarterCode
	return e.view(), nil
}

// SetCode replace editor content
func (e *Exercise) SetCode(code string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.stage != StageSolving {
		return ErrWrongStage
	}
	e.code = code
	return nil
}

// Submit send the code of the current problem, identified by its title
func (e *Exercise) Submit(ctx context.Context) (*Result, error) {
	span, ctx := apm.StartSpan(ctx, "Exercise.Submit", "service")
	defer span.End()

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.stage != StageSolving {
		return nil, ErrWrongStage
	}
	res, err := e.api.SubmitCoding(ctx, &apiclient.CodingSubmission{
		ProblemID: e.problems[e.current].Title,
		Code:      e.code,
		Language:  e.setup.Language,
	})
	if err != nil {
		return nil, err
	}
	e.result = &Result{
		Success:  true,
		Message:  e.catalog.SuccessMessage,
		XPEarned: res.XPEarned,
		TotalXP:  res.TotalXP,
		Level:    res.Level,
	}
	e.stage = StageResults
	return e.result, nil
}

// Reset back to select
func (e *Exercise) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.stage = StageSelect
	e.setup = nil
	e.problems = nil
	e.current = 0
	e.code = ""
	e.result = nil
}

// View snapshot of the exercise
func (e *Exercise) View() *ExerciseView {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.view()
}

func (e *Exercise) view() *ExerciseView {
	view := &ExerciseView{
		Kind:     e.catalog.Kind,
		Stage:    e.stage,
		Problems: e.problems,
		Current:  e.current,
		Code:     e.code,
		Result:   e.result,
	}
	if e.setup != nil {
		s := *e.setup
		view.Setup = &s
	}
	return view
}
