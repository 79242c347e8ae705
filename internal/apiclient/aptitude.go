package apiclient

import (
	"context"
	"fmt"
	"net/http"
)

// AptitudeQuestion multiple choice question
type AptitudeQuestion struct {
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer int      `json:"correct_answer"`
	Explanation   string   `json:"explanation,omitempty"`
}

// AptitudeQuestionsRequest question generation body
type AptitudeQuestionsRequest struct {
	Category   string `json:"category"`
	Difficulty string `json:"difficulty"`
	Count      int    `json:"count"`
}

// AptitudeQuestions generated question set
type AptitudeQuestions struct {
	Questions      []*AptitudeQuestion `json:"questions"`
	Category       string              `json:"category"`
	Difficulty     string              `json:"difficulty"`
	TotalQuestions int                 `json:"total_questions"`
}

// AptitudeQuestionsData questions and the index → option answer map
type AptitudeQuestionsData struct {
	Questions []*AptitudeQuestion `json:"questions"`
	Answers   map[string]int      `json:"answers"`
}

// AptitudeSubmission submit body
type AptitudeSubmission struct {
	Category       string                 `json:"category"`
	Difficulty     string                 `json:"difficulty"`
	QuestionsData  *AptitudeQuestionsData `json:"questions_data"`
	CorrectAnswers int                    `json:"correct_answers"`
	TotalQuestions int                    `json:"total_questions"`
	TimeTaken      int                    `json:"time_taken"` // seconds
}

// AptitudeResult submit response
type AptitudeResult struct {
	TestID   int     `json:"test_id"`
	Score    float64 `json:"score"`
	XPEarned int     `json:"xp_earned"`
	TotalXP  int     `json:"total_xp"`
	Level    int     `json:"level"`
	Message  string  `json:"message"`
}

// AptitudeTestRecord history entry
type AptitudeTestRecord struct {
	ID             int     `json:"id"`
	Category       string  `json:"category"`
	Score          float64 `json:"score"`
	CorrectAnswers int     `json:"correct_answers"`
	TotalQuestions int     `json:"total_questions"`
	TimeTaken      int     `json:"time_taken"`
	CreatedAt      string  `json:"created_at"`
}

// AptitudeHistory test history
type AptitudeHistory struct {
	Tests        []*AptitudeTestRecord `json:"tests"`
	TotalTests   int                   `json:"total_tests"`
	AverageScore float64               `json:"average_score"`
}

// Certificate server issued certificate, fields vary by kind
type Certificate struct {
	CertificateID string  `json:"certificate_id"`
	UserName      string  `json:"user_name"`
	Category      string  `json:"category,omitempty"`
	Role          string  `json:"role,omitempty"`
	Difficulty    string  `json:"difficulty,omitempty"`
	CourseTitle   string  `json:"course_title,omitempty"`
	Score         float64 `json:"score,omitempty"`
	DurationHours int     `json:"duration_hours,omitempty"`
	CompletedAt   string  `json:"completed_at"`
	Instructor    string  `json:"instructor"`
}

// AptitudeQuestions POST /aptitude/questions
func (c *Client) AptitudeQuestions(ctx context.Context, req *AptitudeQuestionsRequest) (*AptitudeQuestions, error) {
	out := new(AptitudeQuestions)
	if err := c.sendJSON(ctx, http.MethodPost, "/aptitude/questions", req, out); err != nil {
		return nil, err
	}
	return out, nil
}

// SubmitAptitude POST /aptitude/submit
func (c *Client) SubmitAptitude(ctx context.Context, req *AptitudeSubmission) (*AptitudeResult, error) {
	out := new(AptitudeResult)
	if err := c.sendJSON(ctx, http.MethodPost, "/aptitude/submit", req, out); err != nil {
		return nil, err
	}
	return out, nil
}

// AptitudeHistory GET /aptitude/history
func (c *Client) AptitudeHistory(ctx context.Context) (*AptitudeHistory, error) {
	out := new(AptitudeHistory)
	if err := c.getJSON(ctx, "/aptitude/history", nil, out); err != nil {
		return nil, err
	}
	return out, nil
}

// AptitudeCertificate GET /aptitude/{id}/certificate
func (c *Client) AptitudeCertificate(ctx context.Context, testID int) (*Certificate, error) {
	out := new(Certificate)
	if err := c.getJSON(ctx, fmt.Sprintf("/aptitude/%d/certificate", testID), nil, out); err != nil {
		return nil, err
	}
	return out, nil
}
