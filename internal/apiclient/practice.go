package apiclient

import (
	"context"
	"encoding/json"
	"net/http"
)

// DefaultProblemCount problems generated per request
const DefaultProblemCount = 3

// CodingProblemsRequest POST /practice/coding/problems body
type CodingProblemsRequest struct {
	Category   string `json:"category"`
	Difficulty string `json:"difficulty"`
	Language   string `json:"language"`
	Count      int    `json:"count"`
}

// CodingProblem generated problem, examples and test cases vary in shape
type CodingProblem struct {
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Constraints []string        `json:"constraints"`
	Examples    json.RawMessage `json:"examples,omitempty"`
	StarterCode string          `json:"starter_code,omitempty"`
	TestCases   json.RawMessage `json:"test_cases,omitempty"`
	Hints       []string        `json:"hints,omitempty"`
}

// CodingProblems problem batch
type CodingProblems struct {
	Problems []*CodingProblem `json:"problems"`
}

// CodingSubmission POST /practice/coding/submit body
type CodingSubmission struct {
	ProblemID string `json:"problem_id"`
	Code      string `json:"code"`
	Language  string `json:"language"`
}

// CodingResult submission response
type CodingResult struct {
	Success  bool `json:"success"`
	XPEarned int  `json:"xp_earned"`
	TotalXP  int  `json:"total_xp"`
	Level    int  `json:"level"`
}

// Tutorial aptitude tutorial, free-form sections are kept raw
type Tutorial struct {
	Title       string          `json:"title"`
	Overview    string          `json:"overview"`
	KeyConcepts json.RawMessage `json:"key_concepts,omitempty"`
	Formulas    json.RawMessage `json:"formulas,omitempty"`
	Examples    json.RawMessage `json:"examples,omitempty"`
	Tips        json.RawMessage `json:"tips,omitempty"`
}

// CodingProblems POST /practice/coding/problems, zero count falls back to DefaultProblemCount
func (c *Client) CodingProblems(ctx context.Context, req *CodingProblemsRequest) (*CodingProblems, error) {
	body := *req
	if body.Count <= 0 {
		body.Count = DefaultProblemCount
	}
	out := new(CodingProblems)
	if err := c.sendJSON(ctx, http.MethodPost, "/practice/coding/problems", &body, out); err != nil {
		return nil, err
	}
	return out, nil
}

// SubmitCoding POST /practice/coding/submit
func (c *Client) SubmitCoding(ctx context.Context, req *CodingSubmission) (*CodingResult, error) {
	out := new(CodingResult)
	if err := c.sendJSON(ctx, http.MethodPost, "/practice/coding/submit", req, out); err != nil {
		return nil, err
	}
	return out, nil
}

// AptitudeTutorial POST /practice/aptitude/tutorial
func (c *Client) AptitudeTutorial(ctx context.Context, category, topic string) (*Tutorial, error) {
	var out struct {
		Tutorial *Tutorial `json:"tutorial"`
	}
	body := map[string]string{"category": category, "topic": topic}
	if err := c.sendJSON(ctx, http.MethodPost, "/practice/aptitude/tutorial", body, &out); err != nil {
		return nil, err
	}
	if out.Tutorial == nil {
		out.Tutorial = new(Tutorial)
	}
	return out.Tutorial, nil
}
