package dashboard

import (
	"context"
	"errors"

	"github.com/pot-code/interview-prep/internal/apiclient"
)

// ActivityLimit recent activity items shown on the dashboard
const ActivityLimit = 10

var ErrBlankQuery = errors.New("search query must not be blank")

// API dashboard, gamification and FAQ endpoints
type API interface {
	DashboardStats(ctx context.Context) (*apiclient.DashboardStats, error)
	Activity(ctx context.Context, limit int) (*apiclient.ActivityFeed, error)
	GamificationStats(ctx context.Context) (*apiclient.GamificationStats, error)
	Achievements(ctx context.Context) (*apiclient.Achievements, error)
	Leaderboard(ctx context.Context) (*apiclient.Leaderboard, error)
	ClaimReward(ctx context.Context, achievementID int) (*apiclient.MessageResponse, error)
	FAQs(ctx context.Context) (*apiclient.FAQs, error)
	SearchFAQs(ctx context.Context, q string) (*apiclient.FAQSearch, error)
}

// Overview dashboard page data
type Overview struct {
	Stats        *apiclient.DashboardStats    `json:"stats"`
	Activities   []*apiclient.Activity        `json:"activities"`
	Gamification *apiclient.GamificationStats `json:"gamification"`
}

// DashboardUseCase dashboard reads
type DashboardUseCase interface {
	Overview(ctx context.Context) (*Overview, error)
	Achievements(ctx context.Context) (*apiclient.Achievements, error)
	Leaderboard(ctx context.Context) (*apiclient.Leaderboard, error)
	Claim(ctx context.Context, achievementID int) (*apiclient.MessageResponse, error)
	FAQs(ctx context.Context) (*apiclient.FAQs, error)
	SearchFAQs(ctx context.Context, q string) (*apiclient.FAQSearch, error)
}
