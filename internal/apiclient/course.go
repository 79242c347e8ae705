package apiclient

import (
	"context"
	"fmt"
	"net/http"
)

// CourseSummary catalog entry
type CourseSummary struct {
	ID                 int      `json:"id"`
	Title              string   `json:"title"`
	Description        string   `json:"description"`
	Category           string   `json:"category,omitempty"`
	Difficulty         string   `json:"difficulty,omitempty"`
	TotalLessons       int      `json:"total_lessons,omitempty"`
	DurationHours      int      `json:"duration_hours,omitempty"`
	XPReward           int      `json:"xp_reward,omitempty"`
	ProgressPercentage *float64 `json:"progress_percentage,omitempty"`
	Completed          *bool    `json:"completed,omitempty"`
	StartedAt          string   `json:"started_at,omitempty"`
}

// CourseList GET /courses and /courses/my-courses response
type CourseList struct {
	Courses []*CourseSummary `json:"courses"`
}

// LessonSummary lesson outline
type LessonSummary struct {
	ID              int    `json:"id"`
	Title           string `json:"title"`
	Order           int    `json:"order"`
	DurationMinutes int    `json:"duration_minutes"`
}

// Course course detail with lesson outline ordered by Order
type Course struct {
	ID            int              `json:"id"`
	Title         string           `json:"title"`
	Description   string           `json:"description"`
	Category      string           `json:"category"`
	Difficulty    string           `json:"difficulty"`
	TotalLessons  int              `json:"total_lessons"`
	DurationHours int              `json:"duration_hours"`
	XPReward      int              `json:"xp_reward"`
	Lessons       []*LessonSummary `json:"lessons"`
}

// Lesson full lesson
type Lesson struct {
	ID              int    `json:"id"`
	Title           string `json:"title"`
	Content         string `json:"content"`
	VideoURL        string `json:"video_url,omitempty"`
	DurationMinutes int    `json:"duration_minutes"`
	Order           int    `json:"order"`
}

// CourseProgress enrollment progress
type CourseProgress struct {
	ProgressPercentage float64 `json:"progress_percentage"`
	CompletedLessons   []int   `json:"completed_lessons"`
	Completed          bool    `json:"completed"`
	StartedAt          string  `json:"started_at"`
	CompletedAt        *string `json:"completed_at"`
}

// ProgressUpdate lesson completion response
type ProgressUpdate struct {
	ProgressPercentage float64 `json:"progress_percentage"`
	Completed          bool    `json:"completed"`
	XPEarned           int     `json:"xp_earned"`
	TotalXP            int     `json:"total_xp"`
}

// Enrollment enroll response
type Enrollment struct {
	Message     string `json:"message"`
	CourseID    int    `json:"course_id"`
	CourseTitle string `json:"course_title"`
}

// Explanation AI explanation in markdown
type Explanation struct {
	Explanation string `json:"explanation"`
}

// Courses GET /courses
func (c *Client) Courses(ctx context.Context) (*CourseList, error) {
	out := new(CourseList)
	if err := c.getJSON(ctx, "/courses", nil, out); err != nil {
		return nil, err
	}
	return out, nil
}

// MyCourses GET /courses/my-courses
func (c *Client) MyCourses(ctx context.Context) (*CourseList, error) {
	out := new(CourseList)
	if err := c.getJSON(ctx, "/courses/my-courses", nil, out); err != nil {
		return nil, err
	}
	return out, nil
}

// Course GET /courses/{id}
func (c *Client) Course(ctx context.Context, courseID int) (*Course, error) {
	out := new(Course)
	if err := c.getJSON(ctx, fmt.Sprintf("/courses/%d", courseID), nil, out); err != nil {
		return nil, err
	}
	return out, nil
}

// Enroll POST /courses/{id}/enroll
func (c *Client) Enroll(ctx context.Context, courseID int) (*Enrollment, error) {
	out := new(Enrollment)
	if err := c.sendJSON(ctx, http.MethodPost, fmt.Sprintf("/courses/%d/enroll", courseID), nil, out); err != nil {
		return nil, err
	}
	return out, nil
}

// Unenroll POST /courses/{id}/unenroll
func (c *Client) Unenroll(ctx context.Context, courseID int) (*MessageResponse, error) {
	out := new(MessageResponse)
	if err := c.sendJSON(ctx, http.MethodPost, fmt.Sprintf("/courses/%d/unenroll", courseID), nil, out); err != nil {
		return nil, err
	}
	return out, nil
}

// CourseProgress GET /courses/{id}/progress
func (c *Client) CourseProgress(ctx context.Context, courseID int) (*CourseProgress, error) {
	out := new(CourseProgress)
	if err := c.getJSON(ctx, fmt.Sprintf("/courses/%d/progress", courseID), nil, out); err != nil {
		return nil, err
	}
	return out, nil
}

// UpdateProgress POST /courses/{id}/progress
func (c *Client) UpdateProgress(ctx context.Context, courseID, lessonID int, completed bool) (*ProgressUpdate, error) {
	out := new(ProgressUpdate)
	body := struct {
		LessonID  int  `json:"lesson_id"`
		Completed bool `json:"completed"`
	}{lessonID, completed}
	if err := c.sendJSON(ctx, http.MethodPost, fmt.Sprintf("/courses/%d/progress", courseID), body, out); err != nil {
		return nil, err
	}
	return out, nil
}

// Lesson GET /courses/{id}/lessons/{lesson}
func (c *Client) Lesson(ctx context.Context, courseID, lessonID int) (*Lesson, error) {
	out := new(Lesson)
	if err := c.getJSON(ctx, fmt.Sprintf("/courses/%d/lessons/%d", courseID, lessonID), nil, out); err != nil {
		return nil, err
	}
	return out, nil
}

// ExplainLesson GET /courses/{id}/lessons/{lesson}/explain
func (c *Client) ExplainLesson(ctx context.Context, courseID, lessonID int) (*Explanation, error) {
	out := new(Explanation)
	if err := c.getJSON(ctx, fmt.Sprintf("/courses/%d/lessons/%d/explain", courseID, lessonID), nil, out); err != nil {
		return nil, err
	}
	return out, nil
}

// CourseCertificate GET /courses/{id}/certificate
func (c *Client) CourseCertificate(ctx context.Context, courseID int) (*Certificate, error) {
	out := new(Certificate)
	if err := c.getJSON(ctx, fmt.Sprintf("/courses/%d/certificate", courseID), nil, out); err != nil {
		return nil, err
	}
	return out, nil
}
