package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
)

// ATSAnalysis ATS compatibility breakdown
type ATSAnalysis struct {
	FormattingScore     float64 `json:"formatting_score"`
	KeywordOptimization float64 `json:"keyword_optimization"`
	StructureScore      float64 `json:"structure_score"`
	ReadabilityScore    float64 `json:"readability_score"`
	OverallFeedback     string  `json:"overall_feedback"`
}

// ResumeAnalysis analysis document
type ResumeAnalysis struct {
	ATSScore        float64      `json:"ats_score"`
	ATSFriendly     bool         `json:"ats_friendly"`
	ATSAnalysis     *ATSAnalysis `json:"ats_analysis,omitempty"`
	PositivePoints  []string     `json:"positive_points"`
	NegativePoints  []string     `json:"negative_points"`
	Skills          []string     `json:"skills,omitempty"`
	ExperienceYears float64      `json:"experience_years,omitempty"`
	Strengths       []string     `json:"strengths,omitempty"`
	Improvements    []string     `json:"improvements,omitempty"`
	MissingSections []string     `json:"missing_sections,omitempty"`
	KeywordsFound   []string     `json:"keywords_found,omitempty"`
	KeywordsMissing []string     `json:"keywords_missing,omitempty"`
	Summary         string       `json:"summary,omitempty"`
}

// ResumeUpload upload response
type ResumeUpload struct {
	ResumeID int             `json:"resume_id"`
	Filename string          `json:"filename"`
	Analysis *ResumeAnalysis `json:"analysis"`
	XPEarned int             `json:"xp_earned"`
}

// ResumeRecord listing entry
type ResumeRecord struct {
	ID        int     `json:"id"`
	Filename  string  `json:"filename"`
	ATSScore  float64 `json:"ats_score"`
	CreatedAt string  `json:"created_at"`
}

// ResumeList GET /resume/all response
type ResumeList struct {
	Resumes []*ResumeRecord `json:"resumes"`
}

// ResumeDetail stored analysis
type ResumeDetail struct {
	ID          int             `json:"id"`
	Filename    string          `json:"filename"`
	ATSScore    float64         `json:"ats_score"`
	Analysis    *ResumeAnalysis `json:"analysis"`
	Suggestions json.RawMessage `json:"suggestions,omitempty"`
	CreatedAt   string          `json:"created_at"`
}

// UploadResume POST /resume/upload as multipart form, file goes to the "file" field
func (c *Client) UploadResume(ctx context.Context, filename string, content io.Reader) (*ResumeUpload, error) {
	var buf bytes.Buffer
	form := multipart.NewWriter(&buf)
	part, err := form.CreateFormFile("file", filename)
	if err != nil {
		return nil, err
	}
	if _, err := io.Copy(part, content); err != nil {
		return nil, fmt.Errorf("failed to buffer resume: %w", err)
	}
	if err := form.Close(); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint("/resume/upload", nil), &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", form.FormDataContentType())

	out := new(ResumeUpload)
	if err := c.do(req, out); err != nil {
		return nil, err
	}
	return out, nil
}

// Resumes GET /resume/all
func (c *Client) Resumes(ctx context.Context) (*ResumeList, error) {
	out := new(ResumeList)
	if err := c.getJSON(ctx, "/resume/all", nil, out); err != nil {
		return nil, err
	}
	return out, nil
}

// Resume GET /resume/{id}
func (c *Client) Resume(ctx context.Context, resumeID int) (*ResumeDetail, error) {
	out := new(ResumeDetail)
	if err := c.getJSON(ctx, fmt.Sprintf("/resume/%d", resumeID), nil, out); err != nil {
		return nil, err
	}
	return out, nil
}
