package apiclient

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
)

// DashboardUser user block of the dashboard stats
type DashboardUser struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	Level       int    `json:"level"`
	TotalXP     int    `json:"total_xp"`
	StreakCount int    `json:"streak_count"`
}

// DashboardOverview aggregated counters
type DashboardOverview struct {
	TotalTests        int     `json:"total_tests"`
	AvgTestScore      float64 `json:"avg_test_score"`
	TotalInterviews   int     `json:"total_interviews"`
	AvgInterviewScore float64 `json:"avg_interview_score"`
	EnrolledCourses   int     `json:"enrolled_courses"`
	CompletedCourses  int     `json:"completed_courses"`
}

// RecentActivity weekly counters
type RecentActivity struct {
	TestsThisWeek      int `json:"tests_this_week"`
	InterviewsThisWeek int `json:"interviews_this_week"`
}

// DashboardStats GET /dashboard/stats response
type DashboardStats struct {
	User           *DashboardUser     `json:"user"`
	Overview       *DashboardOverview `json:"overview"`
	RecentActivity *RecentActivity    `json:"recent_activity"`
}

// Activity feed item
type Activity struct {
	Type      string   `json:"type"`
	Title     string   `json:"title"`
	Score     *float64 `json:"score"`
	Timestamp string   `json:"timestamp"`
}

// ActivityFeed GET /dashboard/activity response
type ActivityFeed struct {
	Activities []*Activity `json:"activities"`
}

// GamificationStats level progress
type GamificationStats struct {
	Level              int     `json:"level"`
	TotalXP            int     `json:"total_xp"`
	XPForNextLevel     int     `json:"xp_for_next_level"`
	XPProgress         int     `json:"xp_progress"`
	ProgressPercentage float64 `json:"progress_percentage"`
	StreakCount        int     `json:"streak_count"`
}

// Achievement earned badge
type Achievement struct {
	ID          int    `json:"id"`
	Type        string `json:"type"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
	EarnedAt    string `json:"earned_at"`
}

// Achievements GET /gamification/achievements response
type Achievements struct {
	Achievements []*Achievement `json:"achievements"`
}

// LeaderboardEntry ranked user
type LeaderboardEntry struct {
	Rank   int    `json:"rank"`
	Name   string `json:"name"`
	Level  int    `json:"level"`
	XP     int    `json:"xp"`
	Streak int    `json:"streak"`
}

// Leaderboard GET /gamification/leaderboard response
type Leaderboard struct {
	Leaderboard []*LeaderboardEntry `json:"leaderboard"`
}

// DashboardStats GET /dashboard/stats
func (c *Client) DashboardStats(ctx context.Context) (*DashboardStats, error) {
	out := new(DashboardStats)
	if err := c.getJSON(ctx, "/dashboard/stats", nil, out); err != nil {
		return nil, err
	}
	return out, nil
}

// Activity GET /dashboard/activity, limit <= 0 leaves the server default
func (c *Client) Activity(ctx context.Context, limit int) (*ActivityFeed, error) {
	var query url.Values
	if limit > 0 {
		query = url.Values{"limit": []string{strconv.Itoa(limit)}}
	}
	out := new(ActivityFeed)
	if err := c.getJSON(ctx, "/dashboard/activity", query, out); err != nil {
		return nil, err
	}
	return out, nil
}

// GamificationStats GET /gamification/stats
func (c *Client) GamificationStats(ctx context.Context) (*GamificationStats, error) {
	out := new(GamificationStats)
	if err := c.getJSON(ctx, "/gamification/stats", nil, out); err != nil {
		return nil, err
	}
	return out, nil
}

// Achievements GET /gamification/achievements
func (c *Client) Achievements(ctx context.Context) (*Achievements, error) {
	out := new(Achievements)
	if err := c.getJSON(ctx, "/gamification/achievements", nil, out); err != nil {
		return nil, err
	}
	return out, nil
}

// Leaderboard GET /gamification/leaderboard
func (c *Client) Leaderboard(ctx context.Context) (*Leaderboard, error) {
	out := new(Leaderboard)
	if err := c.getJSON(ctx, "/gamification/leaderboard", nil, out); err != nil {
		return nil, err
	}
	return out, nil
}

// ClaimReward POST /gamification/claim/{id}
func (c *Client) ClaimReward(ctx context.Context, achievementID int) (*MessageResponse, error) {
	out := new(MessageResponse)
	if err := c.sendJSON(ctx, http.MethodPost, fmt.Sprintf("/gamification/claim/%d", achievementID), nil, out); err != nil {
		return nil, err
	}
	return out, nil
}
