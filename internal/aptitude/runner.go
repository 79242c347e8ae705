package aptitude

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/pot-code/interview-prep/internal/apiclient"
	"github.com/pot-code/interview-prep/internal/infrastructure/validate"
	"go.elastic.co/apm"
)

// Runner one aptitude test wizard
type Runner struct {
	api API
	v   validate.Validator
	now func() time.Time

	mu          sync.Mutex
	stage       Stage
	setup       *Setup
	questions   []*apiclient.AptitudeQuestion
	answers     map[int]int
	current     int
	startedAt   time.Time
	result      *Result
	certificate *apiclient.Certificate
}

// NewRunner create a Runner at the select stage
func NewRunner(api API, v validate.Validator) *Runner {
	return &Runner{api: api, v: v, now: time.Now, stage: StageSelect}
}

// Start validate setup and fetch questions
func (r *Runner) Start(ctx context.Context, setup Setup) error {
	span, ctx := apm.StartSpan(ctx, "AptitudeRunner.Start", "service")
	defer span.End()

	if err := setup.Validate(r.v); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.stage != StageSelect {
		return ErrWrongStage
	}

	res, err := r.api.AptitudeQuestions(ctx, &apiclient.AptitudeQuestionsRequest{
		Category:   setup.Category,
		Difficulty: setup.Difficulty,
		Count:      setup.Count,
	})
	if err != nil {
		return err
	}
	r.setup = &setup
	r.questions = res.Questions
	r.answers = make(map[int]int)
	r.current = 0
	r.startedAt = r.now()
	r.stage = StageTest
	return nil
}

// Answer select option for question i
func (r *Runner) Answer(i, option int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	switch r.stage {
	case StageTest:
	case StageResults, StageCertificate:
		return ErrLocked
	default:
		return ErrWrongStage
	}
	if i < 0 || i >= len(r.questions) || option < 0 || option >= len(r.questions[i].Options) {
		return ErrOutOfRange
	}
	r.answers[i] = option
	return nil
}

// Goto move to question i
func (r *Runner) Goto(i int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.stage != StageTest {
		return ErrWrongStage
	}
	if i < 0 || i >= len(r.questions) {
		return ErrOutOfRange
	}
	r.current = i
	return nil
}

// canSubmit must be called with mu held
func (r *Runner) canSubmit() bool {
	return r.stage == StageTest && len(r.questions) > 0 && len(r.answers) == len(r.questions)
}

// Submit score locally and send the attempt, refused until every question is answered
func (r *Runner) Submit(ctx context.Context) (*Result, error) {
	span, ctx := apm.StartSpan(ctx, "AptitudeRunner.Submit", "service")
	defer span.End()

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.stage != StageTest {
		if r.stage == StageResults || r.stage == StageCertificate {
			return nil, ErrLocked
		}
		return nil, ErrWrongStage
	}
	if !r.canSubmit() {
		return nil, ErrIncomplete
	}

	correct := 0
	answers := make(map[string]int, len(r.answers))
	for i, q := range r.questions {
		if a, ok := r.answers[i]; ok {
			answers[strconv.Itoa(i)] = a
			if a == q.CorrectAnswer {
				correct++
			}
		}
	}
	total := len(r.questions)
	timeTaken := int(r.now().Sub(r.startedAt) / time.Second)

	res, err := r.api.SubmitAptitude(ctx, &apiclient.AptitudeSubmission{
		Category:       r.setup.Category,
		Difficulty:     r.setup.Difficulty,
		QuestionsData:  &apiclient.AptitudeQuestionsData{Questions: r.questions, Answers: answers},
		CorrectAnswers: correct,
		TotalQuestions: total,
		TimeTaken:      timeTaken,
	})
	if err != nil {
		return nil, err
	}
	r.result = &Result{
		Correct:    correct,
		Total:      total,
		Percentage: float64(correct) / float64(total) * 100,
		TimeTaken:  timeTaken,
		Server:     res,
	}
	r.stage = StageResults
	out := *r.result
	return &out, nil
}

// Certificate fetch the certificate of the submitted test
func (r *Runner) Certificate(ctx context.Context) (*apiclient.Certificate, error) {
	span, ctx := apm.StartSpan(ctx, "AptitudeRunner.Certificate", "service")
	defer span.End()

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.stage == StageCertificate {
		return r.certificate, nil
	}
	if r.stage != StageResults {
		return nil, ErrWrongStage
	}
	if r.result.Server.Score < CertificateScore {
		return nil, ErrNotQualified
	}
	cert, err := r.api.AptitudeCertificate(ctx, r.result.Server.TestID)
	if err != nil {
		return nil, err
	}
	r.certificate = cert
	r.stage = StageCertificate
	return cert, nil
}

// Reset back to the select stage, discarding the attempt
func (r *Runner) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.stage = StageSelect
	r.setup = nil
	r.questions = nil
	r.answers = nil
	r.current = 0
	r.result = nil
	r.certificate = nil
}

// History past attempts
func (r *Runner) History(ctx context.Context) (*apiclient.AptitudeHistory, error) {
	span, ctx := apm.StartSpan(ctx, "AptitudeRunner.History", "service")
	defer span.End()
	return r.api.AptitudeHistory(ctx)
}

// View snapshot of the runner
func (r *Runner) View() *View {
	r.mu.Lock()
	defer r.mu.Unlock()

	reveal := r.stage == StageResults || r.stage == StageCertificate
	view := &View{
		Stage:       r.stage,
		Current:     r.current,
		Answered:    len(r.answers),
		CanSubmit:   r.canSubmit(),
		Certificate: r.certificate,
	}
	if r.setup != nil {
		s := *r.setup
		view.Setup = &s
	}
	if r.result != nil {
		res := *r.result
		view.Result = &res
		view.CanCertificate = r.result.Server != nil && r.result.Server.Score >= CertificateScore
	}
	for i, q := range r.questions {
		qv := &QuestionView{Index: i, Question: q.Question, Options: q.Options}
		if a, ok := r.answers[i]; ok {
			a := a
			qv.Selected = &a
		}
		if reveal {
			c := q.CorrectAnswer
			qv.CorrectAnswer = &c
			qv.Explanation = q.Explanation
		}
		view.Questions = append(view.Questions, qv)
	}
	return view
}
