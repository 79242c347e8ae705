package interview

import (
	"context"
	"strings"
	"sync"

	"github.com/pot-code/interview-prep/internal/apiclient"
	"github.com/pot-code/interview-prep/internal/infrastructure/validate"
	"go.elastic.co/apm"
)

// Runner one mock interview. Video and voice interviews drive the same runner.
type Runner struct {
	api  API
	v    validate.Validator
	mode Mode

	mu          sync.Mutex
	stage       Stage
	setup       *Setup
	interviewID int
	questions   []*apiclient.InterviewQuestion
	current     int
	feedback    []*apiclient.Evaluation
	pending     bool // every question answered, completion not confirmed yet
	result      *apiclient.InterviewResult
	certificate *apiclient.Certificate
}

// NewRunner create a Runner at the select stage
func NewRunner(api API, v validate.Validator, mode Mode) *Runner {
	return &Runner{api: api, v: v, mode: mode, stage: StageSelect}
}

// Mode answer capture mode
func (r *Runner) Mode() Mode {
	return r.mode
}

// Start validate setup and start the interview
func (r *Runner) Start(ctx context.Context, setup Setup) (*apiclient.Interview, error) {
	span, ctx := apm.StartSpan(ctx, "InterviewRunner.Start", "service")
	defer span.End()

	if err := setup.Validate(r.v, r.mode); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.stage != StageSelect {
		return nil, ErrWrongStage
	}
	res, err := r.api.StartInterview(ctx, &apiclient.StartInterviewRequest{
		Role:       setup.Role,
		Difficulty: setup.Difficulty,
		Count:      setup.Count,
	})
	if err != nil {
		return nil, err
	}
	if len(res.Questions) == 0 {
		return nil, ErrNoQuestions
	}
	r.setup = &setup
	r.interviewID = res.InterviewID
	r.questions = res.Questions
	r.current = 0
	r.feedback = nil
	r.pending = false
	r.stage = StageInterview
	return res, nil
}

// Respond answer the current question. Answering the last question completes the interview.
func (r *Runner) Respond(ctx context.Context, text string) (*Outcome, error) {
	span, ctx := apm.StartSpan(ctx, "InterviewRunner.Respond", "service")
	defer span.End()

	if strings.TrimSpace(text) == "" {
		return nil, ErrBlankResponse
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.stage != StageInterview {
		return nil, ErrWrongStage
	}
	if r.pending {
		return nil, ErrAlreadyAnswered
	}

	q := r.questions[r.current]
	res, err := r.api.RespondInterview(ctx, r.interviewID, &apiclient.InterviewResponse{
		QuestionID:     r.current,
		Question:       q.Question,
		Response:       text,
		ExpectedPoints: q.ExpectedPoints,
	})
	if err != nil {
		return nil, err
	}
	r.feedback = append(r.feedback, res.Evaluation)
	out := &Outcome{Evaluation: res.Evaluation, XPEarned: res.XPEarned}
	return out, r.advance(ctx, out)
}

// Advance move past the current question without a written answer, as video answers are
// only recorded. Advancing past the last question completes the interview.
func (r *Runner) Advance(ctx context.Context) (*Outcome, error) {
	span, ctx := apm.StartSpan(ctx, "InterviewRunner.Advance", "service")
	defer span.End()

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.stage != StageInterview {
		return nil, ErrWrongStage
	}
	if r.pending {
		return nil, ErrAlreadyAnswered
	}
	out := new(Outcome)
	return out, r.advance(ctx, out)
}

// advance must be called with mu held
func (r *Runner) advance(ctx context.Context, out *Outcome) error {
	if r.current < len(r.questions)-1 {
		r.current++
		return nil
	}

	r.pending = true
	result, err := r.complete(ctx)
	if err != nil {
		return err
	}
	out.Done = true
	out.Result = result
	return nil
}

// Complete finish an interview whose last answer was recorded but whose completion failed
func (r *Runner) Complete(ctx context.Context) (*apiclient.InterviewResult, error) {
	span, ctx := apm.StartSpan(ctx, "InterviewRunner.Complete", "service")
	defer span.End()

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.stage != StageInterview || !r.pending {
		return nil, ErrWrongStage
	}
	return r.complete(ctx)
}

// complete must be called with mu held
func (r *Runner) complete(ctx context.Context) (*apiclient.InterviewResult, error) {
	res, err := r.api.CompleteInterview(ctx, r.interviewID)
	if err != nil {
		return nil, err
	}
	r.result = res
	r.pending = false
	r.stage = StageResults
	return res, nil
}

// Certificate fetch the certificate of a completed interview
func (r *Runner) Certificate(ctx context.Context) (*apiclient.Certificate, error) {
	span, ctx := apm.StartSpan(ctx, "InterviewRunner.Certificate", "service")
	defer span.End()

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.stage == StageCertificate {
		return r.certificate, nil
	}
	if r.stage != StageResults {
		return nil, ErrWrongStage
	}
	if r.result.OverallScore < CertificateScore {
		return nil, ErrNotQualified
	}
	cert, err := r.api.InterviewCertificate(ctx, r.interviewID)
	if err != nil {
		return nil, err
	}
	r.certificate = cert
	r.stage = StageCertificate
	return cert, nil
}

// Feedback detailed feedback of the completed interview
func (r *Runner) Feedback(ctx context.Context) (*apiclient.InterviewFeedback, error) {
	span, ctx := apm.StartSpan(ctx, "InterviewRunner.Feedback", "service")
	defer span.End()

	r.mu.Lock()
	id, stage := r.interviewID, r.stage
	r.mu.Unlock()
	if stage != StageResults && stage != StageCertificate {
		return nil, ErrWrongStage
	}
	return r.api.InterviewFeedback(ctx, id)
}

// History past interviews
func (r *Runner) History(ctx context.Context) (*apiclient.InterviewHistory, error) {
	span, ctx := apm.StartSpan(ctx, "InterviewRunner.History", "service")
	defer span.End()
	return r.api.InterviewHistory(ctx)
}

// Reset back to select
func (r *Runner) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.stage = StageSelect
	r.setup = nil
	r.interviewID = 0
	r.questions = nil
	r.current = 0
	r.feedback = nil
	r.pending = false
	r.result = nil
	r.certificate = nil
}

// View snapshot of the runner
func (r *Runner) View() *View {
	r.mu.Lock()
	defer r.mu.Unlock()

	view := &View{
		Mode:        r.mode,
		Stage:       r.stage,
		InterviewID: r.interviewID,
		Current:     r.current,
		Total:       len(r.questions),
		Feedback:    append([]*apiclient.Evaluation(nil), r.feedback...),
		Pending:     r.pending,
		Result:      r.result,
		Certificate: r.certificate,
	}
	if r.setup != nil {
		s := *r.setup
		view.Setup = &s
	}
	if r.stage == StageInterview && r.current < len(r.questions) {
		view.Question = r.questions[r.current]
	}
	if r.result != nil {
		view.CanCertificate = r.result.OverallScore >= CertificateScore
	}
	return view
}
