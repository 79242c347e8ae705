package interview

import (
	"context"
	"errors"
	"strconv"

	"github.com/pot-code/interview-prep/internal/apiclient"
	"github.com/pot-code/interview-prep/internal/infrastructure/validate"
)

// Mode how answers are captured
type Mode string

const (
	ModeText  Mode = "text"
	ModeVideo Mode = "video"
	ModeVoice Mode = "voice"
)

// Stage wizard stage
type Stage string

const (
	StageSelect      Stage = "select"
	StageInterview   Stage = "interview"
	StageResults     Stage = "results"
	StageCertificate Stage = "certificate"
)

// Roles interview roles on offer
var Roles = []string{
	"Software Developer",
	"Full Stack Engineer",
	"Frontend Developer",
	"Backend Developer",
	"Data Scientist",
	"Data Engineer",
	"Machine Learning Engineer",
	"Product Manager",
	"DevOps Engineer",
	"Cloud Architect",
	"UI/UX Designer",
	"Cybersecurity Analyst",
	"QA/Test Engineer",
	"Mobile Developer",
	"Engineering Manager",
	"Business Development Manager",
	"Finance Analyst",
	"Marketing Specialist",
	"Sales Executive",
}

// VoiceRoles roles offered by the voice interviewer
var VoiceRoles = []string{
	"Software Developer",
	"Frontend Developer",
	"Backend Developer",
	"Full Stack Engineer",
	"AI/ML Engineer",
	"Data Scientist",
	"Product Manager",
	"Project Manager",
	"UI/UX Designer",
	"Digital Marketing Specialist",
	"Cybersecurity Analyst",
	"HR Specialist",
	"Talent Acquisition Manager",
	"AI Ethics Officer",
	"Employee Experience Specialist",
	"Business Development Manager",
	"Finance Analyst",
	"Cloud Solution Architect",
	"Blockchain Developer",
}

// RolesFor role catalog per mode
func RolesFor(mode Mode) []string {
	if mode == ModeVoice {
		return VoiceRoles
	}
	return Roles
}

// Difficulties interview difficulties
var Difficulties = []string{"Easy", "Medium", "Hard"}

// DefaultCount preselected question count
const DefaultCount = 5

// CertificateScore minimum overall score for which a certificate is offered
const CertificateScore = 70

// CountsFor question counts offered per mode
func CountsFor(mode Mode) []int {
	if mode == ModeVideo {
		return []int{3, 5, 8}
	}
	return []int{3, 5, 10}
}

var (
	ErrWrongStage      = errors.New("operation not allowed at this stage")
	ErrBlankResponse   = errors.New("response must not be blank")
	ErrNotQualified    = errors.New("score too low for a certificate")
	ErrNoQuestions     = errors.New("interview has no questions")
	ErrAlreadyAnswered = errors.New("every question has been answered")
)

// Setup interview configuration
type Setup struct {
	Role       string `json:"role" validate:"required"`
	Difficulty string `json:"difficulty" validate:"required"`
	Count      int    `json:"count"`
}

// Validate check setup against the catalog of mode, zero count means DefaultCount
func (s *Setup) Validate(v validate.Validator, mode Mode) error {
	if s.Count == 0 {
		s.Count = DefaultCount
	}
	if errs := validate.Join(v.Struct(s)...); len(errs) > 0 {
		return errs
	}
	counts := CountsFor(mode)
	allowed := make([]string, len(counts))
	for i, c := range counts {
		allowed[i] = strconv.Itoa(c)
	}
	return validate.Join(
		v.OneOf("role", s.Role, RolesFor(mode)),
		v.OneOf("difficulty", s.Difficulty, Difficulties),
		v.OneOf("count", strconv.Itoa(s.Count), allowed),
	).Err()
}

// API interview endpoints, shared by text, video and voice interviews
type API interface {
	StartInterview(ctx context.Context, req *apiclient.StartInterviewRequest) (*apiclient.Interview, error)
	RespondInterview(ctx context.Context, interviewID int, req *apiclient.InterviewResponse) (*apiclient.EvaluationResult, error)
	CompleteInterview(ctx context.Context, interviewID int) (*apiclient.InterviewResult, error)
	InterviewHistory(ctx context.Context) (*apiclient.InterviewHistory, error)
	InterviewFeedback(ctx context.Context, interviewID int) (*apiclient.InterviewFeedback, error)
	InterviewCertificate(ctx context.Context, interviewID int) (*apiclient.Certificate, error)
}

// Outcome result of answering one question
type Outcome struct {
	Evaluation *apiclient.Evaluation      `json:"evaluation"`
	XPEarned   int                        `json:"xp_earned"`
	Done       bool                       `json:"done"`
	Result     *apiclient.InterviewResult `json:"result,omitempty"`
}

// View observable runner state
type View struct {
	Mode           Mode                         `json:"mode"`
	Stage          Stage                        `json:"stage"`
	Setup          *Setup                       `json:"setup,omitempty"`
	InterviewID    int                          `json:"interview_id,omitempty"`
	Current        int                          `json:"current"`
	Total          int                          `json:"total"`
	Question       *apiclient.InterviewQuestion `json:"question,omitempty"`
	Feedback       []*apiclient.Evaluation      `json:"feedback,omitempty"`
	Pending        bool                         `json:"pending_completion"`
	Result         *apiclient.InterviewResult   `json:"result,omitempty"`
	CanCertificate bool                         `json:"can_certificate"`
	Certificate    *apiclient.Certificate       `json:"certificate,omitempty"`
}
