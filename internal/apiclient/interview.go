package apiclient

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// InterviewQuestion generated interview question
type InterviewQuestion struct {
	Question       string   `json:"question"`
	Type           string   `json:"type,omitempty"`
	ExpectedPoints []string `json:"expected_points,omitempty"`
}

// StartInterviewRequest start body
type StartInterviewRequest struct {
	Role       string `json:"role"`
	Difficulty string `json:"difficulty"`
	Count      int    `json:"count"`
}

// Interview started interview
type Interview struct {
	InterviewID    int                  `json:"interview_id"`
	Role           string               `json:"role"`
	Difficulty     string               `json:"difficulty"`
	Questions      []*InterviewQuestion `json:"questions"`
	TotalQuestions int                  `json:"total_questions"`
}

// InterviewResponse answer to one question
type InterviewResponse struct {
	QuestionID     int      `json:"question_id"`
	Question       string   `json:"question"`
	Response       string   `json:"response"`
	ExpectedPoints []string `json:"expected_points,omitempty"`
}

// Evaluation feedback for one answer
type Evaluation struct {
	Score        float64  `json:"score"`
	Feedback     string   `json:"feedback"`
	Strengths    []string `json:"strengths"`
	Improvements []string `json:"improvements"`
}

// EvaluationResult respond response
type EvaluationResult struct {
	Evaluation *Evaluation `json:"evaluation"`
	XPEarned   int         `json:"xp_earned"`
}

// InterviewResult complete response
type InterviewResult struct {
	OverallScore    float64         `json:"overall_score"`
	XPEarned        int             `json:"xp_earned"`
	TotalXP         int             `json:"total_xp"`
	Level           int             `json:"level"`
	FeedbackSummary json.RawMessage `json:"feedback_summary,omitempty"`
}

// InterviewRecord history entry
type InterviewRecord struct {
	ID             int      `json:"id"`
	Role           string   `json:"role"`
	Difficulty     string   `json:"difficulty"`
	OverallScore   *float64 `json:"overall_score"`
	TotalQuestions int      `json:"total_questions"`
	CreatedAt      string   `json:"created_at"`
}

// InterviewHistory GET /interview/history response
type InterviewHistory struct {
	Interviews []*InterviewRecord `json:"interviews"`
}

// InterviewFeedback detailed feedback of a finished interview
type InterviewFeedback struct {
	InterviewID  int                  `json:"interview_id"`
	Role         string               `json:"role"`
	Difficulty   string               `json:"difficulty"`
	OverallScore *float64             `json:"overall_score"`
	Questions    []*InterviewQuestion `json:"questions"`
	Responses    json.RawMessage      `json:"responses"`
	Feedback     json.RawMessage      `json:"feedback"`
}

// StartInterview POST /interview/start
func (c *Client) StartInterview(ctx context.Context, req *StartInterviewRequest) (*Interview, error) {
	out := new(Interview)
	if err := c.sendJSON(ctx, http.MethodPost, "/interview/start", req, out); err != nil {
		return nil, err
	}
	return out, nil
}

// RespondInterview POST /interview/{id}/respond
func (c *Client) RespondInterview(ctx context.Context, interviewID int, req *InterviewResponse) (*EvaluationResult, error) {
	out := new(EvaluationResult)
	if err := c.sendJSON(ctx, http.MethodPost, fmt.Sprintf("/interview/%d/respond", interviewID), req, out); err != nil {
		return nil, err
	}
	return out, nil
}

// CompleteInterview POST /interview/{id}/complete
func (c *Client) CompleteInterview(ctx context.Context, interviewID int) (*InterviewResult, error) {
	out := new(InterviewResult)
	if err := c.sendJSON(ctx, http.MethodPost, fmt.Sprintf("/interview/%d/complete", interviewID), nil, out); err != nil {
		return nil, err
	}
	return out, nil
}

// InterviewHistory GET /interview/history
func (c *Client) InterviewHistory(ctx context.Context) (*InterviewHistory, error) {
	out := new(InterviewHistory)
	if err := c.getJSON(ctx, "/interview/history", nil, out); err != nil {
		return nil, err
	}
	return out, nil
}

// InterviewFeedback GET /interview/{id}/feedback
func (c *Client) InterviewFeedback(ctx context.Context, interviewID int) (*InterviewFeedback, error) {
	out := new(InterviewFeedback)
	if err := c.getJSON(ctx, fmt.Sprintf("/interview/%d/feedback", interviewID), nil, out); err != nil {
		return nil, err
	}
	return out, nil
}

// InterviewCertificate GET /interview/{id}/certificate
func (c *Client) InterviewCertificate(ctx context.Context, interviewID int) (*Certificate, error) {
	out := new(Certificate)
	if err := c.getJSON(ctx, fmt.Sprintf("/interview/%d/certificate", interviewID), nil, out); err != nil {
		return nil, err
	}
	return out, nil
}
